package parser

import (
	"github.com/Tomok/cad-dsl/internal/ast"
	"github.com/Tomok/cad-dsl/internal/diag"
	"github.com/Tomok/cad-dsl/internal/token"
)

// parseTypeRef разбирает аннотацию типа:
//
//	Type      := '&'? ('[' Ident ';' Expr ']' | Ident)
//
// Размер массива — произвольное выражение; проверка на константность
// откладывается до type checker'а.
func (p *Parser) parseTypeRef() (ast.TypeID, bool) {
	start := p.lx.Peek().Span
	ref := ast.TypeRef{ArraySize: ast.NoExprID}

	if p.at(token.Amp) {
		p.advance()
		ref.Reference = true
	}

	switch {
	case p.at(token.LBracket):
		p.advance()
		name, nameSpan, ok := p.parseIdent()
		if !ok {
			p.resyncUntil(token.RBracket, token.Semicolon, token.RBrace)
			if p.at(token.RBracket) {
				p.advance()
			}
			return ast.NoTypeID, false
		}
		ref.Name = name
		ref.NameSpan = nameSpan
		if _, ok := p.expect(token.Semicolon, diag.SynBadArraySize, "expected ';' between array element type and size"); !ok {
			p.resyncUntil(token.RBracket, token.Semicolon, token.RBrace)
		}
		size, ok := p.parseExpr()
		if !ok {
			p.resyncUntil(token.RBracket, token.Semicolon, token.RBrace)
		}
		ref.ArraySize = size
		end, closed := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' to close array type")
		ref.Span = start.Cover(end.Span)
		return p.arenas.Types.New(ref), closed

	case p.at(token.Ident):
		tok := p.advance()
		ref.Name = p.arenas.Intern(tok.Text)
		ref.NameSpan = tok.Span
		ref.Span = start.Cover(tok.Span)
		return p.arenas.Types.New(ref), true

	default:
		p.err(diag.SynExpectType, "expected type name, got "+p.lx.Peek().Kind.String())
		return ast.NoTypeID, false
	}
}
