package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/Tomok/cad-dsl/internal/diag"
	"github.com/Tomok/cad-dsl/internal/source"
)

func demoBag(t *testing.T) (*diag.Bag, *source.FileSet, source.FileID) {
	t.Helper()
	fs := source.NewFileSet()
	fid := fs.AddVirtual("demo.cad", []byte("let width = 5mm;\nlet height = 3mm;\n"))
	bag := diag.NewBag(100)
	d := diag.NewError(diag.SemaTypeMismatch,
		source.Span{File: fid, Start: 4, End: 9}, // "width" в первой строке
		"type mismatch: expected Length, found Angle")
	d.Notes = append(d.Notes, diag.Note{
		Span: source.Span{File: fid, Start: 21, End: 27},
		Msg:  "previous definition here",
	})
	bag.Add(d)
	return bag, fs, fid
}

func TestPrettyHeader(t *testing.T) {
	bag, fs, _ := demoBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})

	out := buf.String()
	if !strings.HasPrefix(out, "demo.cad:1:5: ERROR SEMA3100: type mismatch") {
		t.Fatalf("header = %q", out)
	}
}

func TestPrettyUnderline(t *testing.T) {
	bag, fs, _ := demoBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowSource: true})

	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("output too short: %q", buf.String())
	}
	if lines[1] != "  let width = 5mm;" {
		t.Fatalf("source line = %q", lines[1])
	}
	// каретка под "width": колонка 5, ширина 5
	if lines[2] != "      ^~~~~" {
		t.Fatalf("underline = %q", lines[2])
	}
}

func TestPrettyNotes(t *testing.T) {
	bag, fs, _ := demoBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true})

	if !strings.Contains(buf.String(), "  demo.cad:2:5: note: previous definition here") {
		t.Fatalf("note missing: %q", buf.String())
	}
}

func TestJSONOutput(t *testing.T) {
	bag, fs, _ := demoBag(t)
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true}); err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("count = %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Severity != "ERROR" || d.Code != "SEMA3100" {
		t.Fatalf("diagnostic = %+v", d)
	}
	if d.Location.StartLine != 1 || d.Location.StartCol != 5 {
		t.Fatalf("location = %+v", d.Location)
	}
	if len(d.Notes) != 1 || d.Notes[0].Message != "previous definition here" {
		t.Fatalf("notes = %+v", d.Notes)
	}
}

func TestJSONMaxTruncates(t *testing.T) {
	fs := source.NewFileSet()
	fid := fs.AddVirtual("demo.cad", []byte("abc\n"))
	bag := diag.NewBag(100)
	for i := uint32(0); i < 5; i++ {
		bag.Add(diag.NewError(diag.SemaUndefinedName,
			source.Span{File: fid, Start: i, End: i + 1}, "x"))
	}

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 2})
	if out.Count != 2 || len(out.Diagnostics) != 2 {
		t.Fatalf("truncated count = %d", out.Count)
	}
}

func TestFormatPathModes(t *testing.T) {
	f := &source.File{Path: "/work/project/sub/demo.cad"}
	cases := []struct {
		mode PathMode
		want string
	}{
		{PathModeBasename, "demo.cad"},
		{PathModeRelative, "sub/demo.cad"},
		{PathModeAuto, "/work/project/sub/demo.cad"},
	}
	for _, tc := range cases {
		if got := formatPath(f, tc.mode, "/work/project"); got != tc.want {
			t.Errorf("mode %d: %q, want %q", tc.mode, got, tc.want)
		}
	}
}
