package ast

import (
	"github.com/Tomok/cad-dsl/internal/source"
)

// TypeRef is a syntactic type annotation: a bare name, optionally behind a
// reference (&T) and/or with a fixed array size ([T; n]). The resolver maps
// the name; the checker maps the whole reference to a semantic type.
type TypeRef struct {
	Name      source.StringID
	NameSpan  source.Span
	Reference bool
	ArraySize ExprID // NoExprID when not an array
	Span      source.Span
}

// TypeRefs manages allocation of type annotations.
type TypeRefs struct {
	Arena *Arena[TypeRef]
}

func NewTypeRefs(capHint uint) *TypeRefs {
	return &TypeRefs{Arena: NewArena[TypeRef](capHint)}
}

func (t *TypeRefs) New(ref TypeRef) TypeID {
	return TypeID(t.Arena.Allocate(ref))
}

func (t *TypeRefs) Get(id TypeID) *TypeRef {
	return t.Arena.Get(uint32(id))
}
