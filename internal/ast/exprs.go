package ast

import (
	"github.com/Tomok/cad-dsl/internal/source"
	"github.com/Tomok/cad-dsl/internal/token"
)

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena      *Arena[Expr]
	Idents     *Arena[ExprIdentData]
	Literals   *Arena[ExprLitData]
	Binaries   *Arena[ExprBinaryData]
	Unaries    *Arena[ExprUnaryData]
	Calls      *Arena[ExprCallData]
	Fields     *Arena[ExprFieldData]
	Indices    *Arena[ExprIndexData]
	StructLits *Arena[ExprStructLitData]
	ArrayLits  *Arena[ExprArrayLitData]
	Ranges     *Arena[ExprRangeData]
	Groups     *Arena[ExprGroupData]
	Containers *Arena[ExprContainerData]
}

// NewExprs creates per-kind arenas preallocated with capHint.
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Exprs{
		Arena:      NewArena[Expr](capHint),
		Idents:     NewArena[ExprIdentData](capHint),
		Literals:   NewArena[ExprLitData](capHint),
		Binaries:   NewArena[ExprBinaryData](capHint),
		Unaries:    NewArena[ExprUnaryData](capHint / 4),
		Calls:      NewArena[ExprCallData](capHint / 4),
		Fields:     NewArena[ExprFieldData](capHint / 4),
		Indices:    NewArena[ExprIndexData](capHint / 4),
		StructLits: NewArena[ExprStructLitData](capHint / 4),
		ArrayLits:  NewArena[ExprArrayLitData](capHint / 4),
		Ranges:     NewArena[ExprRangeData](capHint / 4),
		Groups:     NewArena[ExprGroupData](capHint / 4),
		Containers: NewArena[ExprContainerData](capHint / 4),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload PayloadID) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

// Get returns the expression with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

// NewIdent creates a new identifier expression.
func (e *Exprs) NewIdent(span source.Span, name source.StringID) ExprID {
	payload := e.Idents.Allocate(ExprIdentData{Name: name})
	return e.new(ExprIdent, span, PayloadID(payload))
}

// Ident returns the identifier data for the given expression ID.
func (e *Exprs) Ident(id ExprID) (*ExprIdentData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprIdent {
		return nil, false
	}
	return e.Idents.Get(uint32(expr.Payload)), true
}

// NewLiteral creates a new literal expression.
func (e *Exprs) NewLiteral(span source.Span, kind LitKind, value source.StringID, unit token.Unit) ExprID {
	payload := e.Literals.Allocate(ExprLitData{Kind: kind, Value: value, Unit: unit})
	return e.new(ExprLit, span, PayloadID(payload))
}

// Literal returns the literal data for the given expression ID.
func (e *Exprs) Literal(id ExprID) (*ExprLitData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprLit {
		return nil, false
	}
	return e.Literals.Get(uint32(expr.Payload)), true
}

// NewBinary creates a new binary expression.
func (e *Exprs) NewBinary(span source.Span, op BinaryOp, left, right ExprID) ExprID {
	payload := e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right})
	return e.new(ExprBinary, span, PayloadID(payload))
}

// Binary returns the binary data for the given expression ID.
func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprBinary {
		return nil, false
	}
	return e.Binaries.Get(uint32(expr.Payload)), true
}

// NewUnary creates a new unary expression.
func (e *Exprs) NewUnary(span source.Span, op UnaryOp, operand ExprID) ExprID {
	payload := e.Unaries.Allocate(ExprUnaryData{Op: op, Operand: operand})
	return e.new(ExprUnary, span, PayloadID(payload))
}

// Unary returns the unary data for the given expression ID.
func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprUnary {
		return nil, false
	}
	return e.Unaries.Get(uint32(expr.Payload)), true
}

// NewCall creates a new call expression.
func (e *Exprs) NewCall(span source.Span, callee ExprID, args []ExprID) ExprID {
	payload := e.Calls.Allocate(ExprCallData{Callee: callee, Args: args})
	return e.new(ExprCall, span, PayloadID(payload))
}

// Call returns the call data for the given expression ID.
func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprCall {
		return nil, false
	}
	return e.Calls.Get(uint32(expr.Payload)), true
}

// NewField creates a new field access expression.
func (e *Exprs) NewField(span source.Span, base ExprID, name source.StringID, nameSpan source.Span) ExprID {
	payload := e.Fields.Allocate(ExprFieldData{Base: base, Name: name, NameSpan: nameSpan})
	return e.new(ExprField, span, PayloadID(payload))
}

// Field returns the field access data for the given expression ID.
func (e *Exprs) Field(id ExprID) (*ExprFieldData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprField {
		return nil, false
	}
	return e.Fields.Get(uint32(expr.Payload)), true
}

// NewIndex creates a new index expression.
func (e *Exprs) NewIndex(span source.Span, base, index ExprID) ExprID {
	payload := e.Indices.Allocate(ExprIndexData{Base: base, Index: index})
	return e.new(ExprIndex, span, PayloadID(payload))
}

// Index returns the index data for the given expression ID.
func (e *Exprs) Index(id ExprID) (*ExprIndexData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprIndex {
		return nil, false
	}
	return e.Indices.Get(uint32(expr.Payload)), true
}

// NewStructLit creates a new struct literal expression.
func (e *Exprs) NewStructLit(span source.Span, typ TypeID, entries []StructLitEntry) ExprID {
	payload := e.StructLits.Allocate(ExprStructLitData{Type: typ, Entries: entries})
	return e.new(ExprStructLit, span, PayloadID(payload))
}

// StructLit returns the struct literal data for the given expression ID.
func (e *Exprs) StructLit(id ExprID) (*ExprStructLitData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprStructLit {
		return nil, false
	}
	return e.StructLits.Get(uint32(expr.Payload)), true
}

// NewArrayLit creates a new array literal expression.
func (e *Exprs) NewArrayLit(span source.Span, elems []ExprID) ExprID {
	payload := e.ArrayLits.Allocate(ExprArrayLitData{Elems: elems})
	return e.new(ExprArrayLit, span, PayloadID(payload))
}

// ArrayLit returns the array literal data for the given expression ID.
func (e *Exprs) ArrayLit(id ExprID) (*ExprArrayLitData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprArrayLit {
		return nil, false
	}
	return e.ArrayLits.Get(uint32(expr.Payload)), true
}

// NewRange creates a new range expression.
func (e *Exprs) NewRange(span source.Span, start, end ExprID) ExprID {
	payload := e.Ranges.Allocate(ExprRangeData{Start: start, End: end})
	return e.new(ExprRange, span, PayloadID(payload))
}

// Range returns the range data for the given expression ID.
func (e *Exprs) Range(id ExprID) (*ExprRangeData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprRange {
		return nil, false
	}
	return e.Ranges.Get(uint32(expr.Payload)), true
}

// NewGroup creates a new parenthesized expression.
func (e *Exprs) NewGroup(span source.Span, inner ExprID) ExprID {
	payload := e.Groups.Allocate(ExprGroupData{Inner: inner})
	return e.new(ExprGroup, span, PayloadID(payload))
}

// Group returns the group data for the given expression ID.
func (e *Exprs) Group(id ExprID) (*ExprGroupData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprGroup {
		return nil, false
	}
	return e.Groups.Get(uint32(expr.Payload)), true
}

// NewContainer creates a new dot-prefixed container access expression.
func (e *Exprs) NewContainer(span source.Span, name source.StringID, nameSpan source.Span) ExprID {
	payload := e.Containers.Allocate(ExprContainerData{Name: name, NameSpan: nameSpan})
	return e.new(ExprContainer, span, PayloadID(payload))
}

// Container returns the container access data for the given expression ID.
func (e *Exprs) Container(id ExprID) (*ExprContainerData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprContainer {
		return nil, false
	}
	return e.Containers.Get(uint32(expr.Payload)), true
}
