package source

import "testing"

func TestFileSetResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("test.cad", []byte("let a = 1;\nlet b = 2;\n"))

	tests := []struct {
		name       string
		span       Span
		line, col  uint32
	}{
		{"start of file", Span{File: id, Start: 0, End: 3}, 1, 1},
		{"mid first line", Span{File: id, Start: 4, End: 5}, 1, 5},
		{"start of second line", Span{File: id, Start: 11, End: 14}, 2, 1},
		{"mid second line", Span{File: id, Start: 15, End: 16}, 2, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, _ := fs.Resolve(tt.span)
			if start.Line != tt.line || start.Col != tt.col {
				t.Fatalf("Resolve(%v) = %d:%d, want %d:%d",
					tt.span, start.Line, start.Col, tt.line, tt.col)
			}
		})
	}
}

func TestFileSetGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("test.cad", []byte("first\nsecond\nthird"))
	f := fs.Get(id)

	tests := []struct {
		line uint32
		want string
	}{
		{1, "first"},
		{2, "second"},
		{3, "third"},
		{4, ""},
		{0, ""},
	}
	for _, tt := range tests {
		if got := f.GetLine(tt.line); got != tt.want {
			t.Fatalf("GetLine(%d) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestFileSetNormalization(t *testing.T) {
	fs := NewFileSet()
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte("a\r\nb")...)
	id := fs.Add("crlf.cad", normalizeAll(content), 0)
	f := fs.Get(id)
	if string(f.Content) != "a\nb" {
		t.Fatalf("content = %q, want %q", f.Content, "a\nb")
	}
}

func normalizeAll(content []byte) []byte {
	content, _ = removeBOM(content)
	content, _ = normalizeCRLF(content)
	return content
}

func TestFileSetGetByPath(t *testing.T) {
	fs := NewFileSet()
	fs.AddVirtual("dir/a.cad", []byte("x"))
	if _, ok := fs.GetByPath("dir/a.cad"); !ok {
		t.Fatal("GetByPath missed a stored file")
	}
	if _, ok := fs.GetByPath("dir/missing.cad"); ok {
		t.Fatal("GetByPath found a file that was never added")
	}
}

func TestFileHashStable(t *testing.T) {
	fs := NewFileSet()
	a := fs.AddVirtual("a.cad", []byte("same"))
	b := fs.AddVirtual("b.cad", []byte("same"))
	if fs.Get(a).Hash != fs.Get(b).Hash {
		t.Fatal("identical content produced different hashes")
	}
}
