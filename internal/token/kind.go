package token

// Kind enumerates every token the lexer can produce.
type Kind uint8

const (
	EOF Kind = iota
	Error

	Ident

	// Литералы
	IntLit
	FloatLit
	LengthLit // число с суффиксом единицы длины: 5mm, 2.5cm, 1m
	AngleLit  // число с суффиксом единицы угла: 45deg, 1.57rad
	StringLit

	// Ключевые слова
	KwSketch
	KwStruct
	KwFn
	KwLet
	KwFor
	KwIn
	KwWith
	KwReturn
	KwContainer
	KwImport
	KwTrue
	KwFalse

	// Операторы и пунктуация
	Plus
	Minus
	Star
	Slash
	Percent
	Caret // возведение в степень
	Assign
	EqEq
	BangEq
	Lt
	Gt
	LtEq
	GtEq
	AndAnd
	OrOr
	Bang
	Amp
	Dot
	DotDot
	Comma
	Colon
	Semicolon
	Arrow
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
)

var kindNames = map[Kind]string{
	EOF:         "EOF",
	Error:       "error",
	Ident:       "identifier",
	IntLit:      "integer literal",
	FloatLit:    "float literal",
	LengthLit:   "length literal",
	AngleLit:    "angle literal",
	StringLit:   "string literal",
	KwSketch:    "'sketch'",
	KwStruct:    "'struct'",
	KwFn:        "'fn'",
	KwLet:       "'let'",
	KwFor:       "'for'",
	KwIn:        "'in'",
	KwWith:      "'with'",
	KwReturn:    "'return'",
	KwContainer: "'container'",
	KwImport:    "'import'",
	KwTrue:      "'true'",
	KwFalse:     "'false'",
	Plus:        "'+'",
	Minus:       "'-'",
	Star:        "'*'",
	Slash:       "'/'",
	Percent:     "'%'",
	Caret:       "'^'",
	Assign:      "'='",
	EqEq:        "'=='",
	BangEq:      "'!='",
	Lt:          "'<'",
	Gt:          "'>'",
	LtEq:        "'<='",
	GtEq:        "'>='",
	AndAnd:      "'&&'",
	OrOr:        "'||'",
	Bang:        "'!'",
	Amp:         "'&'",
	Dot:         "'.'",
	DotDot:      "'..'",
	Comma:       "','",
	Colon:       "':'",
	Semicolon:   "';'",
	Arrow:       "'->'",
	LParen:      "'('",
	RParen:      "')'",
	LBrace:      "'{'",
	RBrace:      "'}'",
	LBracket:    "'['",
	RBracket:    "']'",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}
