package lexer

import (
	"testing"

	"github.com/Tomok/cad-dsl/internal/diag"
	"github.com/Tomok/cad-dsl/internal/source"
	"github.com/Tomok/cad-dsl/internal/token"
)

func tokenizeString(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.cad", []byte(src))
	bag := diag.NewBag(100)
	toks := Tokenize(fs.Get(fileID), &diag.BagReporter{Bag: bag})
	return toks, bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, tok := range toks {
		out = append(out, tok.Kind)
	}
	return out
}

func TestTokenizeBasicSketch(t *testing.T) {
	toks, bag := tokenizeString(t, "sketch Demo { let a: Length = 5mm; }")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %d", bag.Len())
	}

	want := []token.Kind{
		token.KwSketch, token.Ident, token.LBrace,
		token.KwLet, token.Ident, token.Colon, token.Ident,
		token.Assign, token.LengthLit, token.Semicolon,
		token.RBrace, token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTokenizeUnitLiterals(t *testing.T) {
	tests := []struct {
		src  string
		kind token.Kind
		unit token.Unit
		text string
	}{
		{"5mm", token.LengthLit, token.UnitMillimeter, "5mm"},
		{"2.5cm", token.LengthLit, token.UnitCentimeter, "2.5cm"},
		{"1m", token.LengthLit, token.UnitMeter, "1m"},
		{"45deg", token.AngleLit, token.UnitDegree, "45deg"},
		{"1.57rad", token.AngleLit, token.UnitRadian, "1.57rad"},
		{"42", token.IntLit, token.UnitNone, "42"},
		{"3.14", token.FloatLit, token.UnitNone, "3.14"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			toks, bag := tokenizeString(t, tt.src)
			if bag.Len() != 0 {
				t.Fatalf("unexpected diagnostics for %q", tt.src)
			}
			tok := toks[0]
			if tok.Kind != tt.kind {
				t.Fatalf("kind = %v, want %v", tok.Kind, tt.kind)
			}
			if tok.Unit != tt.unit {
				t.Fatalf("unit = %v, want %v", tok.Unit, tt.unit)
			}
			if tok.Text != tt.text {
				t.Fatalf("text = %q, want %q", tok.Text, tt.text)
			}
		})
	}
}

func TestTokenizeOperators(t *testing.T) {
	toks, bag := tokenizeString(t, "-> .. == != <= >= && || & . ^")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %d", bag.Len())
	}
	want := []token.Kind{
		token.Arrow, token.DotDot, token.EqEq, token.BangEq,
		token.LtEq, token.GtEq, token.AndAnd, token.OrOr,
		token.Amp, token.Dot, token.Caret, token.EOF,
	}
	got := kinds(toks)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTokenizeComments(t *testing.T) {
	toks, bag := tokenizeString(t, "a // line comment\n/* block */ b")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %d", bag.Len())
	}
	got := kinds(toks)
	want := []token.Kind{token.Ident, token.Ident, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
}

func TestTokenizeUnknownChar(t *testing.T) {
	toks, bag := tokenizeString(t, "a @ b")
	if bag.Len() != 1 {
		t.Fatalf("diagnostics = %d, want 1", bag.Len())
	}
	if bag.Items()[0].Code != diag.LexUnknownChar {
		t.Fatalf("code = %v, want LexUnknownChar", bag.Items()[0].Code)
	}
	// лексер не останавливается: после ошибки идут обычные токены
	got := kinds(toks)
	want := []token.Kind{token.Ident, token.Error, token.Ident, token.EOF}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	_, bag := tokenizeString(t, `import "geo`)
	if bag.Len() != 1 {
		t.Fatalf("diagnostics = %d, want 1", bag.Len())
	}
	if bag.Items()[0].Code != diag.LexUnterminatedString {
		t.Fatalf("code = %v, want LexUnterminatedString", bag.Items()[0].Code)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.cad", []byte("let x"))
	lx := New(fs.Get(fileID), diag.NopReporter{})

	p1 := lx.Peek()
	p2 := lx.Peek()
	if p1.Kind != p2.Kind || p1.Span != p2.Span {
		t.Fatalf("Peek not idempotent: %v vs %v", p1, p2)
	}
	n := lx.Next()
	if n.Kind != p1.Kind {
		t.Fatalf("Next = %v after Peek = %v", n.Kind, p1.Kind)
	}
}

func TestSpansCoverSource(t *testing.T) {
	src := "let width = 10mm;"
	toks, _ := tokenizeString(t, src)
	for _, tok := range toks {
		if tok.Kind == token.EOF {
			continue
		}
		if tok.Span.End > uint32(len(src)) || tok.Span.Start >= tok.Span.End {
			t.Fatalf("bad span %v for token %v", tok.Span, tok.Kind)
		}
		if string(src[tok.Span.Start:tok.Span.End]) != tok.Text {
			t.Fatalf("span text %q != token text %q",
				src[tok.Span.Start:tok.Span.End], tok.Text)
		}
	}
}
