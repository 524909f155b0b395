package lexer

import (
	"fmt"

	"github.com/Tomok/cad-dsl/internal/diag"
	"github.com/Tomok/cad-dsl/internal/source"
	"github.com/Tomok/cad-dsl/internal/token"
)

// scanNumber reads an integer or float literal with an optional unit
// suffix. A known length suffix yields LengthLit, a known angle suffix
// AngleLit; an unknown alphabetic suffix is a lexical error.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Off
	isFloat := false

	for !lx.cursor.EOF() && isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	// Дробная часть. ".." означает диапазон, а не дробь.
	if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
		isFloat = true
		lx.cursor.Bump()
		for !lx.cursor.EOF() && isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}

	numEnd := lx.cursor.Off

	// Суффикс единицы измерения: mm, cm, m, deg, rad.
	suffixStart := lx.cursor.Off
	for !lx.cursor.EOF() && isIdentContinue(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	numText := string(lx.file.Content[start:numEnd])
	span := lx.cursor.SpanFrom(start)

	if suffixStart == lx.cursor.Off {
		kind := token.IntLit
		if isFloat {
			kind = token.FloatLit
		}
		return token.Token{Kind: kind, Span: span, Text: numText}
	}

	suffix := string(lx.file.Content[suffixStart:lx.cursor.Off])
	unit, ok := token.LookupUnit(suffix)
	if !ok {
		lx.report(diag.LexUnknownUnit, span, "unknown unit suffix %q", suffix)
		return token.Token{Kind: token.Error, Span: span, Text: numText + suffix}
	}

	kind := token.AngleLit
	if unit.IsLength() {
		kind = token.LengthLit
	}
	return token.Token{Kind: kind, Span: span, Text: numText, Unit: unit}
}

func (lx *Lexer) report(code diag.Code, span source.Span, format string, args ...any) {
	if lx.reporter == nil {
		return
	}
	diag.ReportError(lx.reporter, code, span, fmt.Sprintf(format, args...)).Emit()
}
