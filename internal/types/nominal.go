package types

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/Tomok/cad-dsl/internal/source"
)

// StructField describes a single field inside a nominal struct type.
type StructField struct {
	Name source.StringID
	Type TypeID
	// Container marks the dynamically extensible namespace field.
	Container bool
}

// StructMethod describes a method attached to a struct type.
// Методы принимают неявный &self; Sig описывает только явные параметры.
type StructMethod struct {
	Name source.StringID
	Sig  TypeID
}

// StructInfo stores metadata for a struct type.
type StructInfo struct {
	Name    source.StringID
	Decl    source.Span
	Fields  []StructField
	Methods []StructMethod
}

// FnInfo stores a function signature.
type FnInfo struct {
	Params []TypeID
	Ret    TypeID
}

// RegisterStruct allocates a nominal struct type slot and returns its TypeID.
// Fields and methods are attached later, once their types resolve.
func (in *Interner) RegisterStruct(name source.StringID, decl source.Span) TypeID {
	slot, err := safecast.Conv[uint32](len(in.structs))
	if err != nil {
		panic(fmt.Errorf("struct slot overflow: %w", err))
	}
	in.structs = append(in.structs, StructInfo{Name: name, Decl: decl})
	return in.internRaw(Type{Kind: KindStruct, Payload: slot})
}

// SetStructFields stores the resolved field descriptors for the struct type.
func (in *Interner) SetStructFields(typeID TypeID, fields []StructField) {
	if info := in.structInfo(typeID); info != nil {
		info.Fields = fields
	}
}

// SetStructMethods stores the resolved method signatures for the struct type.
func (in *Interner) SetStructMethods(typeID TypeID, methods []StructMethod) {
	if info := in.structInfo(typeID); info != nil {
		info.Methods = methods
	}
}

// StructInfo returns metadata for the provided struct TypeID.
func (in *Interner) StructInfo(typeID TypeID) (*StructInfo, bool) {
	info := in.structInfo(typeID)
	if info == nil {
		return nil, false
	}
	return info, true
}

// StructFieldByName finds a field of the struct type.
func (in *Interner) StructFieldByName(typeID TypeID, name source.StringID) (StructField, bool) {
	info := in.structInfo(typeID)
	if info == nil {
		return StructField{}, false
	}
	for _, f := range info.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return StructField{}, false
}

// StructMethodByName finds a method of the struct type.
func (in *Interner) StructMethodByName(typeID TypeID, name source.StringID) (StructMethod, bool) {
	info := in.structInfo(typeID)
	if info == nil {
		return StructMethod{}, false
	}
	for _, m := range info.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return StructMethod{}, false
}

// ContainerField returns the struct's container field if it has one.
func (in *Interner) ContainerField(typeID TypeID) (StructField, bool) {
	info := in.structInfo(typeID)
	if info == nil {
		return StructField{}, false
	}
	for _, f := range info.Fields {
		if f.Container {
			return f, true
		}
	}
	return StructField{}, false
}

func (in *Interner) structInfo(typeID TypeID) *StructInfo {
	t, ok := in.Lookup(typeID)
	if !ok || t.Kind != KindStruct {
		return nil
	}
	if t.Payload == 0 || int(t.Payload) >= len(in.structs) {
		return nil
	}
	return &in.structs[t.Payload]
}

// RegisterFn allocates a signature slot and returns the fn TypeID.
// Сигнатуры номинальны: два одинаковых набора параметров — два TypeID.
func (in *Interner) RegisterFn(params []TypeID, ret TypeID) TypeID {
	slot, err := safecast.Conv[uint32](len(in.fns))
	if err != nil {
		panic(fmt.Errorf("fn slot overflow: %w", err))
	}
	if ret == NoTypeID {
		ret = in.builtins.Unit
	}
	in.fns = append(in.fns, FnInfo{Params: params, Ret: ret})
	return in.internRaw(Type{Kind: KindFn, Payload: slot})
}

// FnInfo returns the signature behind a fn TypeID.
func (in *Interner) FnInfo(typeID TypeID) (FnInfo, bool) {
	t, ok := in.Lookup(typeID)
	if !ok || t.Kind != KindFn {
		return FnInfo{}, false
	}
	if t.Payload == 0 || int(t.Payload) >= len(in.fns) {
		return FnInfo{}, false
	}
	return in.fns[t.Payload], true
}
