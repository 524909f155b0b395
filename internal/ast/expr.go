package ast

import (
	"github.com/Tomok/cad-dsl/internal/source"
	"github.com/Tomok/cad-dsl/internal/token"
)

// ExprKind enumerates the different kinds of expressions.
type ExprKind uint8

const (
	// ExprIdent represents a plain identifier use.
	ExprIdent ExprKind = iota
	// ExprLit represents a literal, unit-suffixed or not.
	ExprLit
	// ExprBinary represents a binary operation.
	ExprBinary
	// ExprUnary represents a unary operation.
	ExprUnary
	// ExprCall represents a function or method call.
	ExprCall
	// ExprField represents base.field access.
	ExprField
	// ExprIndex represents array indexing.
	ExprIndex
	// ExprStructLit represents Type { field: value, ... }.
	ExprStructLit
	// ExprArrayLit represents [a, b, c].
	ExprArrayLit
	// ExprRange represents start..end.
	ExprRange
	// ExprGroup represents a parenthesized expression.
	ExprGroup
	// ExprContainer represents dot-prefixed access to the active
	// transform context's container namespace: `.name`.
	ExprContainer
)

// Expr is an expression node; the payload lives in a per-kind arena.
type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

// BinaryOp enumerates binary operator kinds.
type BinaryOp uint8

const (
	BinaryAdd BinaryOp = iota
	BinarySub
	BinaryMul
	BinaryDiv
	BinaryMod
	BinaryPow

	BinaryEq
	BinaryNe
	BinaryLt
	BinaryGt
	BinaryLe
	BinaryGe

	BinaryAnd
	BinaryOr
)

func (op BinaryOp) String() string {
	switch op {
	case BinaryAdd:
		return "+"
	case BinarySub:
		return "-"
	case BinaryMul:
		return "*"
	case BinaryDiv:
		return "/"
	case BinaryMod:
		return "%"
	case BinaryPow:
		return "^"
	case BinaryEq:
		return "=="
	case BinaryNe:
		return "!="
	case BinaryLt:
		return "<"
	case BinaryGt:
		return ">"
	case BinaryLe:
		return "<="
	case BinaryGe:
		return ">="
	case BinaryAnd:
		return "&&"
	case BinaryOr:
		return "||"
	default:
		return "?"
	}
}

// IsComparison reports whether the operator is one of the relational ones
// that turn a bare expression statement into a constraint.
func (op BinaryOp) IsComparison() bool {
	switch op {
	case BinaryEq, BinaryNe, BinaryLt, BinaryGt, BinaryLe, BinaryGe:
		return true
	default:
		return false
	}
}

// UnaryOp enumerates unary operator kinds.
type UnaryOp uint8

const (
	UnaryNeg UnaryOp = iota
	UnaryNot
	// UnaryRef takes a reference to an entity: &p.
	UnaryRef
	// UnaryDeref resolves a reference back to its entity: *r.
	UnaryDeref
)

func (op UnaryOp) String() string {
	switch op {
	case UnaryNeg:
		return "-"
	case UnaryNot:
		return "!"
	case UnaryRef:
		return "&"
	case UnaryDeref:
		return "*"
	default:
		return "?"
	}
}

// LitKind enumerates literal kinds.
type LitKind uint8

const (
	LitInt LitKind = iota
	LitFloat
	LitTrue
	LitFalse
	// LitLength is a number with a length suffix (5mm).
	LitLength
	// LitAngle is a number with an angle suffix (45deg).
	LitAngle
)

type ExprIdentData struct {
	Name source.StringID
}

type ExprLitData struct {
	Kind  LitKind
	Value source.StringID // raw number text without the suffix
	Unit  token.Unit
}

type ExprBinaryData struct {
	Op    BinaryOp
	Left  ExprID
	Right ExprID
}

type ExprUnaryData struct {
	Op      UnaryOp
	Operand ExprID
}

type ExprCallData struct {
	Callee ExprID
	Args   []ExprID
}

type ExprFieldData struct {
	Base     ExprID
	Name     source.StringID
	NameSpan source.Span
}

type ExprIndexData struct {
	Base  ExprID
	Index ExprID
}

// StructLitEntry is one entry of a struct literal: either a plain field
// binding (`x: expr`) or a computed-property constraint (`angle() = expr`).
type StructLitEntry struct {
	Name     source.StringID
	NameSpan source.Span
	Computed bool
	Value    ExprID
}

type ExprStructLitData struct {
	Type    TypeID
	Entries []StructLitEntry
}

type ExprArrayLitData struct {
	Elems []ExprID
}

type ExprRangeData struct {
	Start ExprID
	End   ExprID
}

type ExprGroupData struct {
	Inner ExprID
}

type ExprContainerData struct {
	Name     source.StringID
	NameSpan source.Span
}
