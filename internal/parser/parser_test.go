package parser

import (
	"testing"

	"github.com/Tomok/cad-dsl/internal/ast"
	"github.com/Tomok/cad-dsl/internal/diag"
	"github.com/Tomok/cad-dsl/internal/lexer"
	"github.com/Tomok/cad-dsl/internal/source"
)

func parseSource(t *testing.T, src string) (*ast.Builder, ast.FileID, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	fid := fs.AddVirtual("test.cad", []byte(src))
	bag := diag.NewBag(100)
	rep := &diag.BagReporter{Bag: bag}
	builder := ast.NewBuilder(ast.Hints{}, nil)
	lx := lexer.New(fs.Get(fid), rep)
	res := ParseFile(lx, builder, Options{Reporter: rep})
	return builder, res.File, bag
}

// singleExpr разбирает один statement `let x = <src>;` и возвращает init.
func singleExpr(t *testing.T, src string) (*ast.Builder, ast.ExprID) {
	t.Helper()
	b, fid, bag := parseSource(t, "sketch S { let x = "+src+"; }")
	if bag.Len() != 0 {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
	file := b.Files.Get(fid)
	sketch, ok := b.Items.Sketch(file.Items[0])
	if !ok || len(sketch.Body) != 1 {
		t.Fatalf("bad sketch shape")
	}
	let, ok := b.Stmts.Let(sketch.Body[0])
	if !ok || !let.Init.IsValid() {
		t.Fatalf("let init missing")
	}
	return b, let.Init
}

func mustBinary(t *testing.T, b *ast.Builder, id ast.ExprID) *ast.ExprBinaryData {
	t.Helper()
	if b.Exprs.Get(id).Kind != ast.ExprBinary {
		t.Fatalf("expr kind = %v, want binary", b.Exprs.Get(id).Kind)
	}
	data, _ := b.Exprs.Binary(id)
	return data
}

func TestParseItems(t *testing.T) {
	b, fid, bag := parseSource(t, `
import "lib/base";

struct Rect {
    width: Length;
    container parts: Point;

    fn area() -> Area {
        return width * width;
    }
}

sketch Demo {
    let a: Length = 5mm;
    fn helper(v: Length) -> Length {
        return v;
    }
}`)
	if bag.Len() != 0 {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
	file := b.Files.Get(fid)
	if len(file.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(file.Items))
	}

	imp, ok := b.Items.Import(file.Items[0])
	if !ok {
		t.Fatal("first item is not an import")
	}
	if path, _ := b.StringsInterner.Lookup(imp.Path); path != "lib/base" {
		t.Fatalf("import path = %q", path)
	}

	st, ok := b.Items.Struct(file.Items[1])
	if !ok {
		t.Fatal("second item is not a struct")
	}
	if len(st.Fields) != 2 || len(st.Methods) != 1 {
		t.Fatalf("struct shape: fields=%d methods=%d", len(st.Fields), len(st.Methods))
	}
	if !b.Items.Field(st.Fields[1]).Container {
		t.Fatal("container flag lost")
	}

	sk, ok := b.Items.Sketch(file.Items[2])
	if !ok {
		t.Fatal("third item is not a sketch")
	}
	if len(sk.Body) != 1 || len(sk.Fns) != 1 {
		t.Fatalf("sketch shape: body=%d fns=%d", len(sk.Body), len(sk.Fns))
	}
}

func TestPrecedenceMultiplicationBindsTighter(t *testing.T) {
	b, root := singleExpr(t, "1 + 2 * 3")
	top := mustBinary(t, b, root)
	if top.Op != ast.BinaryAdd {
		t.Fatalf("top op = %v, want add", top.Op)
	}
	right := mustBinary(t, b, top.Right)
	if right.Op != ast.BinaryMul {
		t.Fatalf("right op = %v, want mul", right.Op)
	}
}

func TestPowerIsRightAssociative(t *testing.T) {
	b, root := singleExpr(t, "2.0 ^ 3.0 ^ 4.0")
	top := mustBinary(t, b, root)
	if top.Op != ast.BinaryPow {
		t.Fatalf("top op = %v", top.Op)
	}
	if b.Exprs.Get(top.Left).Kind != ast.ExprLit {
		t.Fatal("left of top pow must be a literal")
	}
	inner := mustBinary(t, b, top.Right)
	if inner.Op != ast.BinaryPow {
		t.Fatalf("inner op = %v, want nested pow on the right", inner.Op)
	}
}

func TestComparisonBelowArithmetic(t *testing.T) {
	b, root := singleExpr(t, "a + b < c * d")
	top := mustBinary(t, b, root)
	if top.Op != ast.BinaryLt {
		t.Fatalf("top op = %v, want lt", top.Op)
	}
	if mustBinary(t, b, top.Left).Op != ast.BinaryAdd {
		t.Fatal("left side must be the sum")
	}
	if mustBinary(t, b, top.Right).Op != ast.BinaryMul {
		t.Fatal("right side must be the product")
	}
}

func TestLogicalPrecedence(t *testing.T) {
	b, root := singleExpr(t, "a && b || c")
	top := mustBinary(t, b, root)
	if top.Op != ast.BinaryOr {
		t.Fatalf("top op = %v, want or", top.Op)
	}
	if mustBinary(t, b, top.Left).Op != ast.BinaryAnd {
		t.Fatal("and must bind tighter than or")
	}
}

func TestRangeHasLowestPrecedence(t *testing.T) {
	b, root := singleExpr(t, "0 .. n + 1")
	if b.Exprs.Get(root).Kind != ast.ExprRange {
		t.Fatalf("expr kind = %v, want range", b.Exprs.Get(root).Kind)
	}
	data, _ := b.Exprs.Range(root)
	if b.Exprs.Get(data.End).Kind != ast.ExprBinary {
		t.Fatal("range end must be the whole sum")
	}
}

func TestStructLitSuppressedInWithSubject(t *testing.T) {
	b, fid, bag := parseSource(t, `
sketch S {
    with p {
        let a: Length = 1mm;
    }
}`)
	if bag.Len() != 0 {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
	file := b.Files.Get(fid)
	sketch, _ := b.Items.Sketch(file.Items[0])
	with, ok := b.Stmts.With(sketch.Body[0])
	if !ok {
		t.Fatal("with not parsed")
	}
	if b.Exprs.Get(with.Subject).Kind != ast.ExprIdent {
		t.Fatalf("subject kind = %v, want plain ident", b.Exprs.Get(with.Subject).Kind)
	}
	if len(with.Body) != 1 {
		t.Fatalf("with body = %d, want 1", len(with.Body))
	}
}

func TestStructLitAllowedInParens(t *testing.T) {
	b, fid, bag := parseSource(t, `
sketch S {
    with (Point { x: 1mm, y: 2mm }) {
    }
}`)
	if bag.Len() != 0 {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
	file := b.Files.Get(fid)
	sketch, _ := b.Items.Sketch(file.Items[0])
	with, _ := b.Stmts.With(sketch.Body[0])
	group, ok := b.Exprs.Group(with.Subject)
	if !ok {
		t.Fatal("subject must be a group")
	}
	if b.Exprs.Get(group.Inner).Kind != ast.ExprStructLit {
		t.Fatal("inner must be a struct literal")
	}
}

func TestForLoopShape(t *testing.T) {
	b, fid, bag := parseSource(t, `
sketch S {
    for i in 0..10 {
        let a: I32 = i;
    }
}`)
	if bag.Len() != 0 {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
	file := b.Files.Get(fid)
	sketch, _ := b.Items.Sketch(file.Items[0])
	loop, ok := b.Stmts.For(sketch.Body[0])
	if !ok {
		t.Fatal("for not parsed")
	}
	if b.Exprs.Get(loop.Range).Kind != ast.ExprRange {
		t.Fatalf("range kind = %v", b.Exprs.Get(loop.Range).Kind)
	}
	if name, _ := b.StringsInterner.Lookup(loop.Var); name != "i" {
		t.Fatalf("loop var = %q", name)
	}
}

func TestRecoveryAfterBadStatement(t *testing.T) {
	b, fid, bag := parseSource(t, `
sketch S {
    let a = ;
    let b: Length = 2mm;
}`)
	if n := countSynCode(bag, diag.SynExpectExpression); n != 1 {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
	file := b.Files.Get(fid)
	sketch, _ := b.Items.Sketch(file.Items[0])
	// после resync второй let должен уцелеть
	if len(sketch.Body) != 1 {
		t.Fatalf("surviving stmts = %d, want 1", len(sketch.Body))
	}
	let, ok := b.Stmts.Let(sketch.Body[0])
	if !ok {
		t.Fatal("surviving stmt is not a let")
	}
	if name, _ := b.StringsInterner.Lookup(let.Name); name != "b" {
		t.Fatalf("surviving let = %q, want b", name)
	}
}

func TestMissingSemicolonReportedOnce(t *testing.T) {
	b, fid, bag := parseSource(t, `
sketch S {
    let a: Length = 1mm
    let b: Length = 2mm;
}`)
	if n := countSynCode(bag, diag.SynExpectSemicolon); n != 1 {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
	file := b.Files.Get(fid)
	sketch, _ := b.Items.Sketch(file.Items[0])
	if len(sketch.Body) != 2 {
		t.Fatalf("stmts = %d, want both lets", len(sketch.Body))
	}
}

func TestMaxErrorsStopsParser(t *testing.T) {
	src := `
sketch S {
    let = ;
    let = ;
    let = ;
    let = ;
}`
	_, _, bag := parseSource(t, src)
	if bag.Len() == 0 {
		t.Fatal("expected diagnostics")
	}

	fs := source.NewFileSet()
	fid := fs.AddVirtual("test.cad", []byte(src))
	capped := diag.NewBag(100)
	rep := &diag.BagReporter{Bag: capped}
	builder := ast.NewBuilder(ast.Hints{}, nil)
	lx := lexer.New(fs.Get(fid), rep)
	ParseFile(lx, builder, Options{Reporter: rep, MaxErrors: 2})
	if capped.Len() > bag.Len() {
		t.Fatalf("capped run produced more diagnostics: %d > %d", capped.Len(), bag.Len())
	}
}

func countSynCode(bag *diag.Bag, code diag.Code) int {
	n := 0
	for _, d := range bag.Items() {
		if d.Code == code {
			n++
		}
	}
	return n
}
