package resolver

import (
	"github.com/Tomok/cad-dsl/internal/ast"
	"github.com/Tomok/cad-dsl/internal/symbols"
)

// Result is the resolved reference graph for one file: the populated
// symbol table plus side tables linking AST nodes to symbols and scopes.
type Result struct {
	Table     *symbols.Table
	File      ast.FileID
	FileScope symbols.ScopeID

	// Symbol links recorded by the passes.
	ExprSymbols   map[ast.ExprID]symbols.SymbolID
	TypeSymbols   map[ast.TypeID]symbols.SymbolID
	LetSymbols    map[ast.StmtID]symbols.SymbolID
	ForSymbols    map[ast.StmtID]symbols.SymbolID
	FnSymbols     map[ast.FnID]symbols.SymbolID
	FieldSymbols  map[ast.FieldID]symbols.SymbolID
	ParamSymbols  map[ast.ParamID]symbols.SymbolID
	StructSymbols map[ast.ItemID]symbols.SymbolID

	// Scopes created during collection, reused during linking and checking.
	ItemScopes map[ast.ItemID]symbols.ScopeID
	FnScopes   map[ast.FnID]symbols.ScopeID
	StmtScopes map[ast.StmtID]symbols.ScopeID
}

func newResult(file ast.FileID) *Result {
	return &Result{
		File:          file,
		ExprSymbols:   make(map[ast.ExprID]symbols.SymbolID),
		TypeSymbols:   make(map[ast.TypeID]symbols.SymbolID),
		LetSymbols:    make(map[ast.StmtID]symbols.SymbolID),
		ForSymbols:    make(map[ast.StmtID]symbols.SymbolID),
		FnSymbols:     make(map[ast.FnID]symbols.SymbolID),
		FieldSymbols:  make(map[ast.FieldID]symbols.SymbolID),
		ParamSymbols:  make(map[ast.ParamID]symbols.SymbolID),
		StructSymbols: make(map[ast.ItemID]symbols.SymbolID),
		ItemScopes:    make(map[ast.ItemID]symbols.ScopeID),
		FnScopes:      make(map[ast.FnID]symbols.ScopeID),
		StmtScopes:    make(map[ast.StmtID]symbols.ScopeID),
	}
}

// SymbolOfExpr returns the linked symbol for an identifier expression.
func (r *Result) SymbolOfExpr(id ast.ExprID) (symbols.SymbolID, bool) {
	sym, ok := r.ExprSymbols[id]
	return sym, ok
}

// SymbolOfType returns the linked symbol for a type annotation.
func (r *Result) SymbolOfType(id ast.TypeID) (symbols.SymbolID, bool) {
	sym, ok := r.TypeSymbols[id]
	return sym, ok
}
