package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	// KindUnknown — тип ещё не выведен; совместим со всем.
	KindUnknown
	// KindError — отравленный тип после диагностики; совместим со всем,
	// чтобы одна ошибка не тянула за собой каскад.
	KindError
	// KindUnit is the type of functions that return nothing.
	KindUnit
	KindBool
	KindI32
	KindF64
	KindReal
	KindAlgebraic
	KindLength
	KindAngle
	KindArea
	KindPoint
	KindStruct
	KindArray
	KindReference
	KindFn
)

func (k Kind) String() string {
	switch k {
	case KindUnknown:
		return "unknown"
	case KindError:
		return "error"
	case KindUnit:
		return "unit"
	case KindBool:
		return "Bool"
	case KindI32:
		return "I32"
	case KindF64:
		return "F64"
	case KindReal:
		return "Real"
	case KindAlgebraic:
		return "Algebraic"
	case KindLength:
		return "Length"
	case KindAngle:
		return "Angle"
	case KindArea:
		return "Area"
	case KindPoint:
		return "Point"
	case KindStruct:
		return "struct"
	case KindArray:
		return "array"
	case KindReference:
		return "reference"
	case KindFn:
		return "fn"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// IsNumeric reports whether the kind participates in arithmetic and ordered
// comparison. Размерные типы (Length, Angle, Area) тоже числовые.
func (k Kind) IsNumeric() bool {
	switch k {
	case KindI32, KindF64, KindReal, KindAlgebraic, KindLength, KindAngle, KindArea:
		return true
	default:
		return false
	}
}

// IsEntity reports whether values of this kind are geometric entities that
// must be passed by reference.
func (k Kind) IsEntity() bool {
	return k == KindPoint || k == KindStruct
}

// Type is a compact descriptor for any supported type.
type Type struct {
	Kind    Kind
	Elem    TypeID // for arrays and references
	Count   uint32 // for arrays
	Payload uint32 // struct or fn slot in the interner
}

// MakeArray describes [elem; count].
func MakeArray(elem TypeID, count uint32) Type {
	return Type{Kind: KindArray, Elem: elem, Count: count}
}

// MakeReference describes &T.
func MakeReference(elem TypeID) Type {
	return Type{Kind: KindReference, Elem: elem}
}
