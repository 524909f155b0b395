package token

import (
	"github.com/Tomok/cad-dsl/internal/source"
)

// Unit records the measurement suffix of a numeric literal.
type Unit uint8

const (
	UnitNone Unit = iota
	UnitMillimeter
	UnitCentimeter
	UnitMeter
	UnitDegree
	UnitRadian
)

func (u Unit) String() string {
	switch u {
	case UnitMillimeter:
		return "mm"
	case UnitCentimeter:
		return "cm"
	case UnitMeter:
		return "m"
	case UnitDegree:
		return "deg"
	case UnitRadian:
		return "rad"
	default:
		return ""
	}
}

// IsLength reports whether the unit measures length.
func (u Unit) IsLength() bool {
	return u == UnitMillimeter || u == UnitCentimeter || u == UnitMeter
}

// IsAngle reports whether the unit measures an angle.
func (u Unit) IsAngle() bool {
	return u == UnitDegree || u == UnitRadian
}

// Token is one lexeme with its location. Text keeps the raw source slice,
// including the unit suffix for unit literals.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
	Unit Unit // UnitNone except for LengthLit/AngleLit
}

// IsLiteral reports whether the token is a literal of any kind.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, LengthLit, AngleLit, StringLit, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

// IsEOF reports whether the token ends the stream.
func (t Token) IsEOF() bool { return t.Kind == EOF }
