package symbols

import (
	"testing"

	"github.com/Tomok/cad-dsl/internal/diag"
	"github.com/Tomok/cad-dsl/internal/source"
)

func newTestResolver(t *testing.T, bag *diag.Bag) (*Resolver, *Table) {
	t.Helper()
	table := NewTable(Hints{}, nil)
	root := table.FileRoot(0, source.Span{})
	var reporter diag.Reporter = diag.NopReporter{}
	if bag != nil {
		reporter = &diag.BagReporter{Bag: bag}
	}
	return NewResolver(table, root, ResolverOptions{Reporter: reporter}), table
}

func TestDeclareAndLookup(t *testing.T) {
	r, table := newTestResolver(t, nil)
	name := table.Strings.Intern("width")

	id, ok := r.Declare(name, source.Span{Start: 1, End: 6}, SymbolVariable, 0, SymbolDecl{})
	if !ok || !id.IsValid() {
		t.Fatalf("Declare = (%v, %v)", id, ok)
	}
	got, ok := r.Lookup(name)
	if !ok || got != id {
		t.Fatalf("Lookup = (%v, %v), want (%v, true)", got, ok, id)
	}
}

func TestDuplicateInScope(t *testing.T) {
	bag := diag.NewBag(10)
	r, table := newTestResolver(t, bag)
	name := table.Strings.Intern("a")

	first, ok := r.Declare(name, source.Span{Start: 0, End: 1}, SymbolVariable, 0, SymbolDecl{})
	if !ok {
		t.Fatal("first Declare failed")
	}
	_, ok = r.Declare(name, source.Span{Start: 10, End: 11}, SymbolVariable, 0, SymbolDecl{})
	if ok {
		t.Fatal("duplicate Declare succeeded")
	}
	if bag.Len() != 1 {
		t.Fatalf("diagnostics = %d, want 1", bag.Len())
	}
	d := bag.Items()[0]
	if d.Code != diag.SemaDuplicateDefinition {
		t.Fatalf("code = %v", d.Code)
	}
	if len(d.Notes) != 1 || d.Notes[0].Msg != "previous definition here" {
		t.Fatalf("notes = %+v", d.Notes)
	}
	// первый победитель остаётся видимым
	got, _ := r.Lookup(name)
	if got != first {
		t.Fatalf("lookup after duplicate = %v, want first %v", got, first)
	}
}

func TestShadowingIsSilent(t *testing.T) {
	bag := diag.NewBag(10)
	r, table := newTestResolver(t, bag)
	name := table.Strings.Intern("x")

	outer, _ := r.Declare(name, source.Span{Start: 0, End: 1}, SymbolVariable, 0, SymbolDecl{})
	inner := r.Enter(ScopeBlock, ScopeOwner{}, source.Span{})
	shadow, ok := r.Declare(name, source.Span{Start: 5, End: 6}, SymbolVariable, 0, SymbolDecl{})
	if !ok {
		t.Fatal("shadowing declaration rejected")
	}
	if bag.Len() != 0 {
		t.Fatalf("shadowing produced %d diagnostics", bag.Len())
	}
	if got, _ := r.Lookup(name); got != shadow {
		t.Fatalf("inner lookup = %v, want shadow %v", got, shadow)
	}
	r.Leave(inner)
	if got, _ := r.Lookup(name); got != outer {
		t.Fatalf("outer lookup = %v, want %v", got, outer)
	}
}

func TestNamespacesAreIndependent(t *testing.T) {
	bag := diag.NewBag(10)
	r, table := newTestResolver(t, bag)
	name := table.Strings.Intern("Point")

	typeSym, ok := r.Declare(name, source.Span{Start: 0, End: 5}, SymbolBuiltinType, SymbolFlagBuiltin, SymbolDecl{})
	if !ok {
		t.Fatal("type declaration failed")
	}
	// то же имя в value namespace — не дубликат
	valueSym, ok := r.Declare(name, source.Span{Start: 10, End: 15}, SymbolVariable, 0, SymbolDecl{})
	if !ok {
		t.Fatal("value declaration clashed with type namespace")
	}
	if bag.Len() != 0 {
		t.Fatalf("cross-namespace declare produced %d diagnostics", bag.Len())
	}

	got, _ := r.LookupMasked(name, KindMaskTypes)
	if got != typeSym {
		t.Fatalf("type lookup = %v, want %v", got, typeSym)
	}
	got, _ = r.LookupMasked(name, KindMaskValues)
	if got != valueSym {
		t.Fatalf("value lookup = %v, want %v", got, valueSym)
	}
}

func TestBuiltinDuplicateNote(t *testing.T) {
	bag := diag.NewBag(10)
	r, table := newTestResolver(t, bag)
	name := table.Strings.Intern("Length")

	r.Declare(name, source.Span{Start: 1, End: 2}, SymbolBuiltinType, SymbolFlagBuiltin, SymbolDecl{})
	_, ok := r.Declare(name, source.Span{Start: 20, End: 26}, SymbolStruct, 0, SymbolDecl{})
	if ok {
		t.Fatal("redefinition of builtin succeeded")
	}
	if bag.Len() != 1 {
		t.Fatalf("diagnostics = %d, want 1", bag.Len())
	}
	notes := bag.Items()[0].Notes
	if len(notes) != 1 || notes[0].Msg != "built-in definition" {
		t.Fatalf("notes = %+v", notes)
	}
}

func TestLookupFromRecordedScope(t *testing.T) {
	r, table := newTestResolver(t, nil)
	name := table.Strings.Intern("sideLen")

	id, _ := r.Declare(name, source.Span{}, SymbolVariable, 0, SymbolDecl{})
	inner := r.Enter(ScopeFunction, ScopeOwner{}, source.Span{})
	r.Leave(inner)

	// после выхода из scope разрешение из него всё ещё работает
	got, ok := r.LookupFrom(inner, name, KindMaskValues)
	if !ok || got != id {
		t.Fatalf("LookupFrom = (%v, %v), want (%v, true)", got, ok, id)
	}
}
