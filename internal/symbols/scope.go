package symbols

import (
	"github.com/Tomok/cad-dsl/internal/ast"
	"github.com/Tomok/cad-dsl/internal/source"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid  ScopeKind = iota
	ScopeFile               // artificial root per parsed file
	ScopeSketch             // sketch body
	ScopeStruct             // struct fields and methods
	ScopeFunction           // function or method body
	ScopeBlock              // bare nested block
	ScopeWith               // with-block; carries the active container context
	ScopeFor                // loop body owning the loop variable
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeFile:
		return "file"
	case ScopeSketch:
		return "sketch"
	case ScopeStruct:
		return "struct"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	case ScopeWith:
		return "with"
	case ScopeFor:
		return "for"
	default:
		return "invalid"
	}
}

// ScopeOwnerKind distinguishes what AST element owns a scope.
type ScopeOwnerKind uint8

const (
	ScopeOwnerUnknown ScopeOwnerKind = iota
	ScopeOwnerFile
	ScopeOwnerItem
	ScopeOwnerFn
	ScopeOwnerStmt
)

// ScopeOwner references the AST construct associated with the scope.
type ScopeOwner struct {
	Kind ScopeOwnerKind
	File ast.FileID
	Item ast.ItemID
	Fn   ast.FnID
	Stmt ast.StmtID
}

// Scope models a lexical scope with a parent-child hierarchy.
// NameIndex keeps declarations per name in declaration order.
type Scope struct {
	Kind      ScopeKind
	Parent    ScopeID
	Owner     ScopeOwner
	Span      source.Span
	NameIndex map[source.StringID][]SymbolID
	Symbols   []SymbolID
	Children  []ScopeID
}
