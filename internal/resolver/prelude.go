package resolver

import (
	"github.com/Tomok/cad-dsl/internal/source"
	"github.com/Tomok/cad-dsl/internal/symbols"
	"github.com/Tomok/cad-dsl/internal/types"
)

// installPrelude declares the built-in types and functions in the file
// scope. Built-ins carry their semantic type immediately; user symbols
// get theirs later, from the checker.
func installPrelude(table *symbols.Table, r *symbols.Resolver, ti *types.Interner) {
	b := ti.Builtins()

	builtinTypes := []struct {
		name string
		typ  types.TypeID
	}{
		{"Point", b.Point},
		{"Length", b.Length},
		{"Angle", b.Angle},
		{"Area", b.Area},
		{"Bool", b.Bool},
		{"I32", b.I32},
		{"F64", b.F64},
		{"Real", b.Real},
		{"Algebraic", b.Algebraic},
	}
	for _, bt := range builtinTypes {
		name := table.Strings.Intern(bt.name)
		id, ok := r.Declare(name, source.Span{}, symbols.SymbolBuiltinType, symbols.SymbolFlagBuiltin, symbols.SymbolDecl{})
		if ok {
			table.Symbols.Get(id).Type = bt.typ
		}
	}

	refPoint := ti.Intern(types.MakeReference(b.Point))
	builtinFns := []struct {
		name   string
		params []types.TypeID
		ret    types.TypeID
	}{
		{"sin", []types.TypeID{b.Angle}, b.F64},
		{"cos", []types.TypeID{b.Angle}, b.F64},
		{"tan", []types.TypeID{b.Angle}, b.F64},
		{"sqrt", []types.TypeID{b.F64}, b.F64},
		{"abs", []types.TypeID{b.F64}, b.F64},
		{"distance", []types.TypeID{refPoint, refPoint}, b.Length},
	}
	for _, bf := range builtinFns {
		name := table.Strings.Intern(bf.name)
		id, ok := r.Declare(name, source.Span{}, symbols.SymbolFunction, symbols.SymbolFlagBuiltin, symbols.SymbolDecl{})
		if ok {
			table.Symbols.Get(id).Type = ti.RegisterFn(bf.params, bf.ret)
		}
	}
}
