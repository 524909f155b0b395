package lexer

import (
	"github.com/Tomok/cad-dsl/internal/diag"
	"github.com/Tomok/cad-dsl/internal/source"
	"github.com/Tomok/cad-dsl/internal/token"
)

// Lexer turns one file into a token stream. It never stops on bad input:
// unknown bytes become Error tokens plus a diagnostic, and scanning goes on.
type Lexer struct {
	file     *source.File
	cursor   Cursor
	reporter diag.Reporter
	look     *token.Token // 1-элементный буфер для Peek
}

// New creates a lexer over file, reporting lexical errors to reporter.
func New(file *source.File, reporter diag.Reporter) *Lexer {
	return &Lexer{
		file:     file,
		cursor:   NewCursor(file),
		reporter: reporter,
	}
}

// Tokenize scans the whole file, EOF token included.
func Tokenize(file *source.File, reporter diag.Reporter) []token.Token {
	lx := New(file, reporter)
	toks := make([]token.Token, 0, len(file.Content)/4+1)
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

// Next returns the next significant token. After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.skipTrivia()

	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.cursor.SpanFrom(lx.cursor.Off)}
	}

	ch := lx.cursor.Peek()
	switch {
	case isIdentStart(ch):
		return lx.scanIdentOrKeyword()
	case isDec(ch):
		return lx.scanNumber()
	case ch == '"':
		return lx.scanString()
	default:
		return lx.scanOperatorOrPunct()
	}
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// skipTrivia пропускает пробелы и комментарии (// и /* */).
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			lx.cursor.Bump()
		case ch == '/' && lx.cursor.PeekAt(1) == '/':
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
		case ch == '/' && lx.cursor.PeekAt(1) == '*':
			lx.cursor.Bump()
			lx.cursor.Bump()
			for !lx.cursor.EOF() {
				if lx.cursor.Peek() == '*' && lx.cursor.PeekAt(1) == '/' {
					lx.cursor.Bump()
					lx.cursor.Bump()
					break
				}
				lx.cursor.Bump()
			}
		default:
			return
		}
	}
}

func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Off
	for !lx.cursor.EOF() && isIdentContinue(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	text := string(lx.cursor.Slice(start))
	kind := token.Ident
	if kw, ok := token.LookupKeyword(text); ok {
		kind = kw
	}
	return token.Token{Kind: kind, Span: lx.cursor.SpanFrom(start), Text: text}
}

func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Off
	lx.cursor.Bump() // opening quote
	for !lx.cursor.EOF() && lx.cursor.Peek() != '"' && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
	if lx.cursor.EOF() || lx.cursor.Peek() != '"' {
		span := lx.cursor.SpanFrom(start)
		lx.report(diag.LexUnterminatedString, span, "unterminated string literal")
		return token.Token{Kind: token.Error, Span: span, Text: string(lx.cursor.Slice(start))}
	}
	lx.cursor.Bump() // closing quote
	span := lx.cursor.SpanFrom(start)
	// Text без кавычек
	return token.Token{Kind: token.StringLit, Span: span, Text: string(lx.file.Content[start+1 : lx.cursor.Off-1])}
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Off
	ch := lx.cursor.Peek()
	lx.cursor.Bump()

	two := func(next byte, k2, k1 token.Kind) token.Kind {
		if lx.cursor.Peek() == next {
			lx.cursor.Bump()
			return k2
		}
		return k1
	}

	var kind token.Kind
	switch ch {
	case '+':
		kind = token.Plus
	case '-':
		kind = two('>', token.Arrow, token.Minus)
	case '*':
		kind = token.Star
	case '/':
		kind = token.Slash
	case '%':
		kind = token.Percent
	case '^':
		kind = token.Caret
	case '=':
		kind = two('=', token.EqEq, token.Assign)
	case '!':
		kind = two('=', token.BangEq, token.Bang)
	case '<':
		kind = two('=', token.LtEq, token.Lt)
	case '>':
		kind = two('=', token.GtEq, token.Gt)
	case '&':
		kind = two('&', token.AndAnd, token.Amp)
	case '|':
		if lx.cursor.Peek() == '|' {
			lx.cursor.Bump()
			kind = token.OrOr
		} else {
			kind = token.Error
		}
	case '.':
		kind = two('.', token.DotDot, token.Dot)
	case ',':
		kind = token.Comma
	case ':':
		kind = token.Colon
	case ';':
		kind = token.Semicolon
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case '[':
		kind = token.LBracket
	case ']':
		kind = token.RBracket
	default:
		kind = token.Error
	}

	span := lx.cursor.SpanFrom(start)
	text := string(lx.cursor.Slice(start))
	if kind == token.Error {
		lx.report(diag.LexUnknownChar, span, "unknown character %q", text)
	}
	return token.Token{Kind: kind, Span: span, Text: text}
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentContinue(ch byte) bool {
	return isIdentStart(ch) || isDec(ch)
}

func isDec(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
