package types

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"github.com/Tomok/cad-dsl/internal/source"
)

// Builtins stores TypeIDs for the built-in primitives.
type Builtins struct {
	Invalid   TypeID
	Unknown   TypeID
	Error     TypeID
	Unit      TypeID
	Bool      TypeID
	I32       TypeID
	F64       TypeID
	Real      TypeID
	Algebraic TypeID
	Length    TypeID
	Angle     TypeID
	Area      TypeID
	Point     TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// Struct and fn types are nominal: each registration owns a payload slot.
type Interner struct {
	types    []Type
	index    map[typeKey]TypeID
	builtins Builtins
	structs  []StructInfo
	fns      []FnInfo
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		index: make(map[typeKey]TypeID, 64),
	}
	in.structs = append(in.structs, StructInfo{}) // reserve 0 as invalid sentinel
	in.fns = append(in.fns, FnInfo{})
	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	in.builtins.Unknown = in.Intern(Type{Kind: KindUnknown})
	in.builtins.Error = in.Intern(Type{Kind: KindError})
	in.builtins.Unit = in.Intern(Type{Kind: KindUnit})
	in.builtins.Bool = in.Intern(Type{Kind: KindBool})
	in.builtins.I32 = in.Intern(Type{Kind: KindI32})
	in.builtins.F64 = in.Intern(Type{Kind: KindF64})
	in.builtins.Real = in.Intern(Type{Kind: KindReal})
	in.builtins.Algebraic = in.Intern(Type{Kind: KindAlgebraic})
	in.builtins.Length = in.Intern(Type{Kind: KindLength})
	in.builtins.Angle = in.Intern(Type{Kind: KindAngle})
	in.builtins.Area = in.Intern(Type{Kind: KindArea})
	in.builtins.Point = in.Intern(Type{Kind: KindPoint})
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	key := typeKey(t)
	if id, ok := in.index[key]; ok {
		return id
	}
	return in.internRaw(t)
}

// internRaw adds the descriptor to the storage without consulting the map.
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	in.index[typeKey(t)] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// KindOf is a shortcut that maps invalid IDs to KindInvalid.
func (in *Interner) KindOf(id TypeID) Kind {
	t, ok := in.Lookup(id)
	if !ok {
		return KindInvalid
	}
	return t.Kind
}

// Compatible reports whether found can stand where expected is required.
// Unknown и Error совместимы со всем — подавление каскада.
func (in *Interner) Compatible(expected, found TypeID) bool {
	if expected == found {
		return true
	}
	ek, fk := in.KindOf(expected), in.KindOf(found)
	if ek == KindUnknown || fk == KindUnknown || ek == KindError || fk == KindError {
		return true
	}
	return false
}

// IsPoisoned reports whether the type already carries an error.
func (in *Interner) IsPoisoned(id TypeID) bool {
	k := in.KindOf(id)
	return k == KindError || k == KindUnknown
}

// Format renders a type for diagnostics: `&[Point; 3]`, `Segment`, `Length`.
func (in *Interner) Format(id TypeID, strings_ *source.Interner) string {
	t, ok := in.Lookup(id)
	if !ok {
		return "<invalid>"
	}
	switch t.Kind {
	case KindReference:
		return "&" + in.Format(t.Elem, strings_)
	case KindArray:
		return "[" + in.Format(t.Elem, strings_) + "; " + strconv.FormatUint(uint64(t.Count), 10) + "]"
	case KindStruct:
		if info, ok := in.StructInfo(id); ok && strings_ != nil {
			if name, ok := strings_.Lookup(info.Name); ok {
				return name
			}
		}
		return "struct"
	case KindFn:
		info, ok := in.FnInfo(id)
		if !ok {
			return "fn"
		}
		var sb strings.Builder
		sb.WriteString("fn(")
		for i, p := range info.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(in.Format(p, strings_))
		}
		sb.WriteString(")")
		if info.Ret != NoTypeID && in.KindOf(info.Ret) != KindUnit {
			sb.WriteString(" -> ")
			sb.WriteString(in.Format(info.Ret, strings_))
		}
		return sb.String()
	default:
		return t.Kind.String()
	}
}

type typeKey struct {
	Kind    Kind
	Elem    TypeID
	Count   uint32
	Payload uint32
}
