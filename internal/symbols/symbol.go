package symbols

import (
	"github.com/Tomok/cad-dsl/internal/ast"
	"github.com/Tomok/cad-dsl/internal/source"
	"github.com/Tomok/cad-dsl/internal/types"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	// SymbolStruct names a user-defined struct type.
	SymbolStruct
	// SymbolBuiltinType names a built-in type (Point, Length, ...).
	SymbolBuiltinType
	// SymbolFunction names a free function or method.
	SymbolFunction
	// SymbolVariable is a let-binding.
	SymbolVariable
	// SymbolParam is a function parameter or loop variable.
	SymbolParam
	// SymbolField is a struct field.
	SymbolField
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolStruct:
		return "struct"
	case SymbolBuiltinType:
		return "builtin type"
	case SymbolFunction:
		return "function"
	case SymbolVariable:
		return "variable"
	case SymbolParam:
		return "parameter"
	case SymbolField:
		return "field"
	default:
		return "invalid"
	}
}

// Namespace separates the type namespace from the value namespace:
// a struct `Circle` and a variable `Circle` can coexist in one scope.
type Namespace uint8

const (
	NsValue Namespace = iota
	NsType
)

// NamespaceOf maps a symbol kind to its namespace.
func NamespaceOf(kind SymbolKind) Namespace {
	switch kind {
	case SymbolStruct, SymbolBuiltinType:
		return NsType
	default:
		return NsValue
	}
}

// KindMask restricts a lookup to specific symbol kinds.
type KindMask uint32

const (
	// KindMaskNone filters out all kinds.
	KindMaskNone KindMask = 0
	// KindMaskAny allows all kinds.
	KindMaskAny KindMask = ^KindMask(0)
)

// Mask converts a symbol kind into a KindMask bit.
func (k SymbolKind) Mask() KindMask {
	return KindMask(1 << uint(k))
}

// KindMaskTypes selects everything that can appear in type position.
const KindMaskTypes = KindMask(1<<uint(SymbolStruct) | 1<<uint(SymbolBuiltinType))

// KindMaskValues selects everything that can appear in expression position.
const KindMaskValues = KindMask(1<<uint(SymbolFunction) | 1<<uint(SymbolVariable) | 1<<uint(SymbolParam) | 1<<uint(SymbolField))

func matchKind(mask KindMask, kind SymbolKind) bool {
	return mask == KindMaskAny || mask&kind.Mask() != 0
}

// SymbolFlags encode misc attributes for quick checks.
type SymbolFlags uint16

const (
	// SymbolFlagBuiltin marks prelude symbols.
	SymbolFlagBuiltin SymbolFlags = 1 << iota
	// SymbolFlagContainer marks the container field of a struct.
	SymbolFlagContainer
	// SymbolFlagReference marks alias-typed storage (&T fields and params).
	SymbolFlagReference
	// SymbolFlagPoisoned marks a placeholder created after UndefinedName,
	// so repeated uses of the name stay silent.
	SymbolFlagPoisoned
)

// SymbolDecl keeps the AST origin for diagnostics and later passes.
type SymbolDecl struct {
	File  ast.FileID
	Item  ast.ItemID
	Stmt  ast.StmtID
	Fn    ast.FnID
	Field ast.FieldID
	Param ast.ParamID
}

// Symbol describes a named entity available in a scope. Type is
// NoTypeID until the checker fills it in.
type Symbol struct {
	Name  source.StringID
	Kind  SymbolKind
	Scope ScopeID
	Span  source.Span
	Flags SymbolFlags
	Decl  SymbolDecl
	Type  types.TypeID
}
