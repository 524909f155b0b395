package parser

import (
	"strings"

	"github.com/Tomok/cad-dsl/internal/ast"
	"github.com/Tomok/cad-dsl/internal/diag"
	"github.com/Tomok/cad-dsl/internal/source"
	"github.com/Tomok/cad-dsl/internal/token"
)

func (p *Parser) exprSpan(id ast.ExprID) source.Span {
	if e := p.arenas.Exprs.Get(id); e != nil {
		return e.Span
	}
	return p.lastSpan
}

// parseExpr — точка входа в выражения. Диапазон `a..b` имеет самый
// низкий приоритет и не ассоциативен.
func (p *Parser) parseExpr() (ast.ExprID, bool) {
	left, ok := p.parseBinaryExpr(precLogicalOr)
	if !ok {
		return ast.NoExprID, false
	}
	if p.at(token.DotDot) {
		p.advance()
		right, ok := p.parseBinaryExpr(precLogicalOr)
		if !ok {
			return ast.NoExprID, false
		}
		span := p.exprSpan(left).Cover(p.exprSpan(right))
		return p.arenas.Exprs.NewRange(span, left, right), true
	}
	return left, true
}

// parseBinaryExpr — precedence climbing по таблице из op_table.go.
func (p *Parser) parseBinaryExpr(minPrec int) (ast.ExprID, bool) {
	left, ok := p.parseUnaryExpr()
	if !ok {
		return ast.NoExprID, false
	}
	for {
		prec, rightAssoc := binaryPrec(p.lx.Peek().Kind)
		if prec < minPrec {
			return left, true
		}
		opTok := p.advance()
		nextMin := prec + 1
		if rightAssoc {
			nextMin = prec
		}
		right, ok := p.parseBinaryExpr(nextMin)
		if !ok {
			return ast.NoExprID, false
		}
		span := p.exprSpan(left).Cover(p.exprSpan(right))
		left = p.arenas.Exprs.NewBinary(span, binaryOp(opTok.Kind), left, right)
	}
}

func (p *Parser) parseUnaryExpr() (ast.ExprID, bool) {
	if op, ok := unaryOp(p.lx.Peek().Kind); ok {
		tok := p.advance()
		operand, ok := p.parseUnaryExpr()
		if !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewUnary(tok.Span.Cover(p.exprSpan(operand)), op, operand), true
	}
	return p.parsePostfixExpr()
}

// parsePostfixExpr — вызовы, доступ к полю и индексация цепочкой.
func (p *Parser) parsePostfixExpr() (ast.ExprID, bool) {
	expr, ok := p.parsePrimaryExpr()
	if !ok {
		return ast.NoExprID, false
	}
	for {
		switch {
		case p.at(token.LParen):
			p.advance()
			saved := p.noStructLit
			p.noStructLit = false
			var args []ast.ExprID
			for !p.at(token.RParen) && !p.at(token.EOF) {
				arg, ok := p.parseExpr()
				if !ok {
					p.resyncUntil(token.Comma, token.RParen, token.Semicolon)
				} else {
					args = append(args, arg)
				}
				if p.at(token.Comma) {
					p.advance()
					continue
				}
				break
			}
			p.noStructLit = saved
			end, closed := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close argument list")
			if !closed {
				return ast.NoExprID, false
			}
			expr = p.arenas.Exprs.NewCall(p.exprSpan(expr).Cover(end.Span), expr, args)

		case p.at(token.Dot):
			p.advance()
			name, nameSpan, ok := p.parseIdent()
			if !ok {
				return ast.NoExprID, false
			}
			expr = p.arenas.Exprs.NewField(p.exprSpan(expr).Cover(nameSpan), expr, name, nameSpan)

		case p.at(token.LBracket):
			p.advance()
			index, ok := p.parseExpr()
			if !ok {
				return ast.NoExprID, false
			}
			end, closed := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' to close index")
			if !closed {
				return ast.NoExprID, false
			}
			expr = p.arenas.Exprs.NewIndex(p.exprSpan(expr).Cover(end.Span), expr, index)

		default:
			return expr, true
		}
	}
}

func (p *Parser) parsePrimaryExpr() (ast.ExprID, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.IntLit:
		p.advance()
		return p.arenas.Exprs.NewLiteral(tok.Span, ast.LitInt, p.arenas.Intern(tok.Text), token.UnitNone), true

	case token.FloatLit:
		p.advance()
		return p.arenas.Exprs.NewLiteral(tok.Span, ast.LitFloat, p.arenas.Intern(tok.Text), token.UnitNone), true

	case token.LengthLit, token.AngleLit:
		p.advance()
		kind := ast.LitLength
		if tok.Kind == token.AngleLit {
			kind = ast.LitAngle
		}
		value := strings.TrimSuffix(tok.Text, tok.Unit.String())
		return p.arenas.Exprs.NewLiteral(tok.Span, kind, p.arenas.Intern(value), tok.Unit), true

	case token.KwTrue:
		p.advance()
		return p.arenas.Exprs.NewLiteral(tok.Span, ast.LitTrue, source.NoStringID, token.UnitNone), true

	case token.KwFalse:
		p.advance()
		return p.arenas.Exprs.NewLiteral(tok.Span, ast.LitFalse, source.NoStringID, token.UnitNone), true

	case token.Ident:
		p.advance()
		name := p.arenas.Intern(tok.Text)
		if p.at(token.LBrace) && !p.noStructLit {
			return p.parseStructLit(name, tok.Span)
		}
		return p.arenas.Exprs.NewIdent(tok.Span, name), true

	case token.Dot:
		// `.name` — обращение к контейнеру активного with-контекста
		p.advance()
		name, nameSpan, ok := p.parseIdent()
		if !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewContainer(tok.Span.Cover(nameSpan), name, nameSpan), true

	case token.LParen:
		p.advance()
		// внутри скобок ограничение на структурные литералы снимается
		saved := p.noStructLit
		p.noStructLit = false
		inner, ok := p.parseExpr()
		p.noStructLit = saved
		if !ok {
			return ast.NoExprID, false
		}
		end, closed := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')'")
		if !closed {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewGroup(tok.Span.Cover(end.Span), inner), true

	case token.LBracket:
		return p.parseArrayLit()

	default:
		p.err(diag.SynExpectExpression, "expected expression, got "+tok.Kind.String())
		return ast.NoExprID, false
	}
}

// parseStructLit разбирает `Type { field: expr, prop() = expr, ... }`.
// Имя типа уже съедено.
func (p *Parser) parseStructLit(name source.StringID, nameSpan source.Span) (ast.ExprID, bool) {
	typ := p.arenas.Types.New(ast.TypeRef{
		Name:      name,
		NameSpan:  nameSpan,
		ArraySize: ast.NoExprID,
		Span:      nameSpan,
	})
	p.advance() // '{'

	var entries []ast.StructLitEntry
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		entryName, entrySpan, ok := p.parseIdent()
		if !ok {
			p.resyncUntil(token.Comma, token.RBrace, token.Semicolon)
		} else {
			entry := ast.StructLitEntry{Name: entryName, NameSpan: entrySpan}
			if p.at(token.LParen) {
				// вычислимое свойство: `angle() = 45deg`
				p.advance()
				if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' after computed property name"); !ok {
					p.resyncUntil(token.Comma, token.RBrace)
				}
				entry.Computed = true
				if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken, "expected '=' after computed property"); !ok {
					p.resyncUntil(token.Comma, token.RBrace)
				}
			} else if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after field name"); !ok {
				p.resyncUntil(token.Comma, token.RBrace)
			}
			value, ok := p.parseExpr()
			if ok {
				entry.Value = value
				entries = append(entries, entry)
			} else {
				p.resyncUntil(token.Comma, token.RBrace)
			}
		}
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	end, closed := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close struct literal")
	if !closed {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewStructLit(nameSpan.Cover(end.Span), typ, entries), true
}

func (p *Parser) parseArrayLit() (ast.ExprID, bool) {
	start := p.advance().Span // '['
	var elems []ast.ExprID
	for !p.at(token.RBracket) && !p.at(token.EOF) {
		elem, ok := p.parseExpr()
		if !ok {
			p.resyncUntil(token.Comma, token.RBracket, token.Semicolon)
		} else {
			elems = append(elems, elem)
		}
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	end, closed := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' to close array literal")
	if !closed {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewArrayLit(start.Cover(end.Span), elems), true
}
