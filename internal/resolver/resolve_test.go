package resolver

import (
	"testing"

	"github.com/Tomok/cad-dsl/internal/ast"
	"github.com/Tomok/cad-dsl/internal/diag"
	"github.com/Tomok/cad-dsl/internal/lexer"
	"github.com/Tomok/cad-dsl/internal/parser"
	"github.com/Tomok/cad-dsl/internal/source"
	"github.com/Tomok/cad-dsl/internal/symbols"
)

func resolveSource(t *testing.T, src string) (*ast.Builder, *Result, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	fid := fs.AddVirtual("test.cad", []byte(src))
	bag := diag.NewBag(100)
	rep := &diag.BagReporter{Bag: bag}
	builder := ast.NewBuilder(ast.Hints{}, nil)
	lx := lexer.New(fs.Get(fid), rep)
	pr := parser.ParseFile(lx, builder, parser.Options{Reporter: rep})
	res := ResolveFile(builder, pr.File, Options{Reporter: rep})
	return builder, res, bag
}

func countCode(bag *diag.Bag, code diag.Code) int {
	n := 0
	for _, d := range bag.Items() {
		if d.Code == code {
			n++
		}
	}
	return n
}

func TestForwardReference(t *testing.T) {
	_, res, bag := resolveSource(t, `
sketch S {
    let a: Length = b;
    let b: Length = 5mm;
}`)
	if bag.Len() != 0 {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
	// единственная ident-ссылка в файле должна указывать на символ b
	var bSym symbols.SymbolID
	for _, sym := range res.LetSymbols {
		if res.Table.NameOf(sym) == "b" {
			bSym = sym
		}
	}
	if !bSym.IsValid() {
		t.Fatal("let b not collected")
	}
	found := false
	for _, sym := range res.ExprSymbols {
		if sym == bSym {
			found = true
		}
	}
	if !found {
		t.Fatal("use of b not linked to its later declaration")
	}
}

func TestUndefinedNameReportedOnce(t *testing.T) {
	_, _, bag := resolveSource(t, `
sketch S {
    let a: Length = missing;
    let b: Length = missing;
}`)
	if n := countCode(bag, diag.SemaUndefinedName); n != 1 {
		t.Fatalf("SemaUndefinedName count = %d, want 1 (poisoned placeholder must silence repeats)", n)
	}
}

func TestDuplicateLetInScope(t *testing.T) {
	_, _, bag := resolveSource(t, `
sketch S {
    let a: Length = 1mm;
    let a: Length = 2mm;
}`)
	if n := countCode(bag, diag.SemaDuplicateDefinition); n != 1 {
		t.Fatalf("SemaDuplicateDefinition count = %d, want 1", n)
	}
	d := bag.Items()[0]
	if len(d.Notes) != 1 || d.Notes[0].Msg != "previous definition here" {
		t.Fatalf("notes = %+v", d.Notes)
	}
}

func TestUnknownTypeAnnotation(t *testing.T) {
	_, _, bag := resolveSource(t, `
sketch S {
    let a: Nope = 1;
    let b: Nope = 2;
}`)
	// второе использование молчит благодаря отравленной заглушке
	if n := countCode(bag, diag.SemaUnknownType); n != 1 {
		t.Fatalf("SemaUnknownType count = %d, want 1", n)
	}
}

func TestPreludeTypesAndFunctions(t *testing.T) {
	_, _, bag := resolveSource(t, `
sketch S {
    let p: Point = Point { x: 1mm, y: 2mm };
    let d: Length = distance(&p, &p);
    let s: F64 = sin(45deg);
}`)
	if bag.Len() != 0 {
		t.Fatalf("prelude names should resolve cleanly, got %v", bag.Items())
	}
}

func TestNoPrelude(t *testing.T) {
	fs := source.NewFileSet()
	fid := fs.AddVirtual("test.cad", []byte(`sketch S { let a: Length = 1mm; }`))
	bag := diag.NewBag(100)
	rep := &diag.BagReporter{Bag: bag}
	builder := ast.NewBuilder(ast.Hints{}, nil)
	lx := lexer.New(fs.Get(fid), rep)
	pr := parser.ParseFile(lx, builder, parser.Options{Reporter: rep})
	ResolveFile(builder, pr.File, Options{Reporter: rep, NoPrelude: true})
	if n := countCode(bag, diag.SemaUnknownType); n != 1 {
		t.Fatalf("without prelude Length must be unknown, got %v", bag.Items())
	}
}

func TestShadowingAcrossScopes(t *testing.T) {
	_, _, bag := resolveSource(t, `
sketch S {
    let a: Length = 1mm;
    for i in 0..3 {
        let a: Length = 2mm;
    }
}`)
	if bag.Len() != 0 {
		t.Fatalf("shadowing in a nested scope must be silent, got %v", bag.Items())
	}
}

func TestStructFieldsAndMethodsCollected(t *testing.T) {
	_, res, bag := resolveSource(t, `
struct Rect {
    width: Length;
    height: Length;

    fn area() -> Area {
        return width * height;
    }
}`)
	if bag.Len() != 0 {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
	if len(res.FieldSymbols) != 2 {
		t.Fatalf("FieldSymbols = %d, want 2", len(res.FieldSymbols))
	}
	if len(res.FnSymbols) != 1 {
		t.Fatalf("FnSymbols = %d, want 1", len(res.FnSymbols))
	}
}

func TestForLoopVariableScoped(t *testing.T) {
	_, res, bag := resolveSource(t, `
sketch S {
    for i in 0..5 {
        let x: I32 = i;
    }
}`)
	if bag.Len() != 0 {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
	if len(res.ForSymbols) != 1 {
		t.Fatalf("ForSymbols = %d, want 1", len(res.ForSymbols))
	}
}

func TestDuplicateFnAndLetEitherOrder(t *testing.T) {
	// Функции скетча объявляются до statements, поэтому текстовый
	// порядок не меняет исход: ровно один дубликат в обоих случаях.
	cases := []struct {
		name string
		src  string
	}{
		{"fn first", `
sketch S {
    fn f() -> Length {
        return 1mm;
    }
    let f: Length = 5mm;
}`},
		{"let first", `
sketch S {
    let f: Length = 5mm;
    fn f() -> Length {
        return 1mm;
    }
}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, bag := resolveSource(t, tc.src)
			if n := countCode(bag, diag.SemaDuplicateDefinition); n != 1 {
				t.Fatalf("SemaDuplicateDefinition count = %d, want 1: %v", n, bag.Items())
			}
		})
	}
}

func TestResolveDeterminism(t *testing.T) {
	const src = `
struct Rect {
    width: Length;
    height: Length;

    fn area() -> Area {
        return width * height;
    }
}

sketch S {
    let r: Rect = Rect { width: 10mm, height: 20mm };
    let a: Area = r.area();
    let a: Area = 1mm * 1mm;
    let d: Length = distance(&Point { x: 0mm, y: 0mm }, &Point { x: 1mm, y: 0mm });
}`
	_, first, bagA := resolveSource(t, src)
	_, second, bagB := resolveSource(t, src)

	if bagA.Len() != bagB.Len() {
		t.Fatalf("diagnostic count diverges: %d vs %d", bagA.Len(), bagB.Len())
	}
	for i, d := range bagA.Items() {
		o := bagB.Items()[i]
		if d.Code != o.Code || d.Primary != o.Primary || d.Message != o.Message {
			t.Fatalf("diagnostic %d diverges: %+v vs %+v", i, d, o)
		}
	}
	if first.Table.Symbols.Len() != second.Table.Symbols.Len() {
		t.Fatalf("symbol count diverges: %d vs %d",
			first.Table.Symbols.Len(), second.Table.Symbols.Len())
	}
	if len(first.LetSymbols) != len(second.LetSymbols) {
		t.Fatalf("LetSymbols size diverges: %d vs %d",
			len(first.LetSymbols), len(second.LetSymbols))
	}
	for stmt, sym := range first.LetSymbols {
		other, ok := second.LetSymbols[stmt]
		if !ok {
			t.Fatalf("LetSymbols key set diverges at stmt %v", stmt)
		}
		if first.Table.NameOf(sym) != second.Table.NameOf(other) {
			t.Fatalf("let %v resolves to %q vs %q",
				stmt, first.Table.NameOf(sym), second.Table.NameOf(other))
		}
	}
	if len(first.ExprSymbols) != len(second.ExprSymbols) {
		t.Fatalf("ExprSymbols size diverges: %d vs %d",
			len(first.ExprSymbols), len(second.ExprSymbols))
	}
	for expr, sym := range first.ExprSymbols {
		other, ok := second.ExprSymbols[expr]
		if !ok {
			t.Fatalf("ExprSymbols key set diverges at expr %v", expr)
		}
		if first.Table.NameOf(sym) != second.Table.NameOf(other) {
			t.Fatalf("expr %v resolves to %q vs %q",
				expr, first.Table.NameOf(sym), second.Table.NameOf(other))
		}
	}
}
