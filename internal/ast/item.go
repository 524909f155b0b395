package ast

import (
	"github.com/Tomok/cad-dsl/internal/source"
)

// ItemKind enumerates top-level declarations.
type ItemKind uint8

const (
	// ItemSketch is a `sketch Name { ... }` unit: statements plus
	// free functions.
	ItemSketch ItemKind = iota
	// ItemStruct is a struct definition with fields and methods.
	ItemStruct
	// ItemImport brings another file into the compilation.
	ItemImport
)

// Item is a top-level declaration node.
type Item struct {
	Kind    ItemKind
	Span    source.Span
	Payload PayloadID
}

type ItemSketchData struct {
	Name     source.StringID
	NameSpan source.Span
	Body     []StmtID
	Fns      []FnID
}

type ItemStructData struct {
	Name     source.StringID
	NameSpan source.Span
	Fields   []FieldID
	Methods  []FnID
}

type ItemImportData struct {
	Path source.StringID
}

// FieldDef is one struct field. Container marks the single dynamically
// extensible namespace field; Reference marks alias storage.
type FieldDef struct {
	Name      source.StringID
	NameSpan  source.Span
	Type      TypeID
	Container bool
	Span      source.Span
}

// ParamDef is one function parameter.
type ParamDef struct {
	Name     source.StringID
	NameSpan source.Span
	Type     TypeID
	Span     source.Span
}

// FnDef is a function or method definition. Methods carry an implicit
// reference-to-self receiver; it is not part of Params.
type FnDef struct {
	Name     source.StringID
	NameSpan source.Span
	Params   []ParamID
	Ret      TypeID // NoTypeID when the function returns nothing
	Body     []StmtID
	Span     source.Span
}

// Items manages allocation of top-level declarations and their parts.
type Items struct {
	Arena    *Arena[Item]
	Sketches *Arena[ItemSketchData]
	Structs  *Arena[ItemStructData]
	Imports  *Arena[ItemImportData]
	Fields   *Arena[FieldDef]
	Params   *Arena[ParamDef]
	Fns      *Arena[FnDef]
}

func NewItems(capHint uint) *Items {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Items{
		Arena:    NewArena[Item](capHint),
		Sketches: NewArena[ItemSketchData](capHint / 4),
		Structs:  NewArena[ItemStructData](capHint / 4),
		Imports:  NewArena[ItemImportData](capHint / 4),
		Fields:   NewArena[FieldDef](capHint),
		Params:   NewArena[ParamDef](capHint),
		Fns:      NewArena[FnDef](capHint / 2),
	}
}

func (it *Items) new(kind ItemKind, span source.Span, payload PayloadID) ItemID {
	return ItemID(it.Arena.Allocate(Item{Kind: kind, Span: span, Payload: payload}))
}

// Get returns the item with the given ID.
func (it *Items) Get(id ItemID) *Item {
	return it.Arena.Get(uint32(id))
}

func (it *Items) NewSketch(span source.Span, data ItemSketchData) ItemID {
	payload := it.Sketches.Allocate(data)
	return it.new(ItemSketch, span, PayloadID(payload))
}

func (it *Items) Sketch(id ItemID) (*ItemSketchData, bool) {
	item := it.Get(id)
	if item == nil || item.Kind != ItemSketch {
		return nil, false
	}
	return it.Sketches.Get(uint32(item.Payload)), true
}

func (it *Items) NewStruct(span source.Span, data ItemStructData) ItemID {
	payload := it.Structs.Allocate(data)
	return it.new(ItemStruct, span, PayloadID(payload))
}

func (it *Items) Struct(id ItemID) (*ItemStructData, bool) {
	item := it.Get(id)
	if item == nil || item.Kind != ItemStruct {
		return nil, false
	}
	return it.Structs.Get(uint32(item.Payload)), true
}

func (it *Items) NewImport(span source.Span, path source.StringID) ItemID {
	payload := it.Imports.Allocate(ItemImportData{Path: path})
	return it.new(ItemImport, span, PayloadID(payload))
}

func (it *Items) Import(id ItemID) (*ItemImportData, bool) {
	item := it.Get(id)
	if item == nil || item.Kind != ItemImport {
		return nil, false
	}
	return it.Imports.Get(uint32(item.Payload)), true
}

func (it *Items) NewField(def FieldDef) FieldID {
	return FieldID(it.Fields.Allocate(def))
}

func (it *Items) Field(id FieldID) *FieldDef {
	return it.Fields.Get(uint32(id))
}

func (it *Items) NewParam(def ParamDef) ParamID {
	return ParamID(it.Params.Allocate(def))
}

func (it *Items) Param(id ParamID) *ParamDef {
	return it.Params.Get(uint32(id))
}

func (it *Items) NewFn(def FnDef) FnID {
	return FnID(it.Fns.Allocate(def))
}

func (it *Items) Fn(id FnID) *FnDef {
	return it.Fns.Get(uint32(id))
}
