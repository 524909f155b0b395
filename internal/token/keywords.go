package token

var keywords = map[string]Kind{
	"sketch":    KwSketch,
	"struct":    KwStruct,
	"fn":        KwFn,
	"let":       KwLet,
	"for":       KwFor,
	"in":        KwIn,
	"with":      KwWith,
	"return":    KwReturn,
	"container": KwContainer,
	"import":    KwImport,
	"true":      KwTrue,
	"false":     KwFalse,
}

// LookupKeyword maps an identifier spelling to its keyword kind.
func LookupKeyword(text string) (Kind, bool) {
	k, ok := keywords[text]
	return k, ok
}

// LookupUnit maps a literal suffix to a measurement unit.
func LookupUnit(text string) (Unit, bool) {
	switch text {
	case "mm":
		return UnitMillimeter, true
	case "cm":
		return UnitCentimeter, true
	case "m":
		return UnitMeter, true
	case "deg":
		return UnitDegree, true
	case "rad":
		return UnitRadian, true
	default:
		return UnitNone, false
	}
}
