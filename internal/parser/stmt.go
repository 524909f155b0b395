package parser

import (
	"github.com/Tomok/cad-dsl/internal/ast"
	"github.com/Tomok/cad-dsl/internal/diag"
	"github.com/Tomok/cad-dsl/internal/token"
)

// parseBlock разбирает `{ stmt* }` и возвращает тело.
func (p *Parser) parseBlock() ([]ast.StmtID, bool) {
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'"); !ok {
		return nil, false
	}
	var body []ast.StmtID
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		stmt, ok := p.parseStmt()
		if !ok {
			p.resyncBody()
			continue
		}
		body = append(body, stmt)
	}
	_, closed := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close block")
	return body, closed
}

func (p *Parser) parseStmt() (ast.StmtID, bool) {
	switch p.lx.Peek().Kind {
	case token.KwLet:
		return p.parseLetStmt()
	case token.KwFor:
		return p.parseForStmt()
	case token.KwWith:
		return p.parseWithStmt()
	case token.KwReturn:
		return p.parseReturnStmt()
	case token.LBrace:
		start := p.lx.Peek().Span
		body, ok := p.parseBlock()
		if !ok {
			return ast.NoStmtID, false
		}
		return p.arenas.Stmts.NewBlock(start.Cover(p.lastSpan), body), true
	default:
		return p.parseExprOrAssignStmt()
	}
}

// parseLetStmt разбирает `let name [: Type] [= expr];`.
func (p *Parser) parseLetStmt() (ast.StmtID, bool) {
	start := p.advance().Span // 'let'

	name, nameSpan, ok := p.parseIdent()
	if !ok {
		return ast.NoStmtID, false
	}
	data := ast.StmtLetData{
		Name:     name,
		NameSpan: nameSpan,
		Type:     ast.NoTypeID,
		Init:     ast.NoExprID,
	}

	if p.at(token.Colon) {
		p.advance()
		data.Type, ok = p.parseTypeRef()
		if !ok {
			return ast.NoStmtID, false
		}
	}
	if p.at(token.Assign) {
		p.advance()
		data.Init, ok = p.parseExpr()
		if !ok {
			return ast.NoStmtID, false
		}
	}
	p.expectSemicolon()
	return p.arenas.Stmts.NewLet(start.Cover(p.lastSpan), data), true
}

// parseForStmt разбирает `for i in start..end { body }`.
func (p *Parser) parseForStmt() (ast.StmtID, bool) {
	start := p.advance().Span // 'for'

	name, nameSpan, ok := p.parseIdent()
	if !ok {
		return ast.NoStmtID, false
	}
	if _, ok := p.expect(token.KwIn, diag.SynForMissingIn, "expected 'in' after loop variable"); !ok {
		return ast.NoStmtID, false
	}

	rng, ok := p.parseSubjectExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	body, ok := p.parseBlock()
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewFor(start.Cover(p.lastSpan), ast.StmtForData{
		Var:     name,
		VarSpan: nameSpan,
		Range:   rng,
		Body:    body,
	}), true
}

// parseWithStmt разбирает `with subject { body }`.
func (p *Parser) parseWithStmt() (ast.StmtID, bool) {
	start := p.advance().Span // 'with'

	subject, ok := p.parseSubjectExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	body, ok := p.parseBlock()
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewWith(start.Cover(p.lastSpan), subject, body), true
}

func (p *Parser) parseReturnStmt() (ast.StmtID, bool) {
	start := p.advance().Span // 'return'

	value := ast.NoExprID
	if !p.at(token.Semicolon) {
		var ok bool
		value, ok = p.parseExpr()
		if !ok {
			return ast.NoStmtID, false
		}
	}
	p.expectSemicolon()
	return p.arenas.Stmts.NewReturn(start.Cover(p.lastSpan), value), true
}

// parseExprOrAssignStmt: `expr;` — constraint или вызов,
// `target = value;` — equality-constraint между местом и значением.
func (p *Parser) parseExprOrAssignStmt() (ast.StmtID, bool) {
	start := p.lx.Peek().Span
	expr, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}

	if p.at(token.Assign) {
		p.advance()
		value, ok := p.parseExpr()
		if !ok {
			return ast.NoStmtID, false
		}
		p.expectSemicolon()
		return p.arenas.Stmts.NewAssign(start.Cover(p.lastSpan), expr, value), true
	}

	p.expectSemicolon()
	return p.arenas.Stmts.NewExpr(start.Cover(p.lastSpan), expr), true
}

// parseSubjectExpr — выражение в позиции, где `{` начинает тело,
// а не структурный литерал (for-range, with-subject).
func (p *Parser) parseSubjectExpr() (ast.ExprID, bool) {
	saved := p.noStructLit
	p.noStructLit = true
	expr, ok := p.parseExpr()
	p.noStructLit = saved
	return expr, ok
}
