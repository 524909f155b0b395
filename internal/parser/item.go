package parser

import (
	"github.com/Tomok/cad-dsl/internal/ast"
	"github.com/Tomok/cad-dsl/internal/diag"
	"github.com/Tomok/cad-dsl/internal/source"
	"github.com/Tomok/cad-dsl/internal/token"
)

// parseSketchItem разбирает `sketch Name { stmt* fn* }`.
// Функции и statements могут чередоваться; порядок сохраняется
// только для statements.
func (p *Parser) parseSketchItem() (ast.ItemID, bool) {
	start := p.advance().Span // 'sketch'

	name, nameSpan, ok := p.parseIdent()
	if !ok {
		p.resyncUntil(token.LBrace, token.KwSketch, token.KwStruct, token.KwImport)
	}
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after sketch name"); !ok {
		return ast.NoItemID, false
	}

	data := ast.ItemSketchData{Name: name, NameSpan: nameSpan}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if p.at(token.KwFn) {
			fn, ok := p.parseFn()
			if !ok {
				p.resyncBody()
				continue
			}
			data.Fns = append(data.Fns, fn)
			continue
		}
		stmt, ok := p.parseStmt()
		if !ok {
			p.resyncBody()
			continue
		}
		data.Body = append(data.Body, stmt)
	}
	end, closed := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close sketch body")
	return p.arenas.Items.NewSketch(start.Cover(end.Span), data), closed || name != source.NoStringID
}

// parseStructItem разбирает `struct Name { field* method* }`.
// Поле: `[container] name: Type;`. Метод: обычный `fn` с неявным &self.
func (p *Parser) parseStructItem() (ast.ItemID, bool) {
	start := p.advance().Span // 'struct'

	name, nameSpan, ok := p.parseIdent()
	if !ok {
		p.resyncUntil(token.LBrace, token.KwSketch, token.KwStruct, token.KwImport)
	}
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after struct name"); !ok {
		return ast.NoItemID, false
	}

	data := ast.ItemStructData{Name: name, NameSpan: nameSpan}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		switch {
		case p.at(token.KwFn):
			fn, ok := p.parseFn()
			if !ok {
				p.resyncBody()
				continue
			}
			data.Methods = append(data.Methods, fn)
		case p.at(token.KwContainer) || p.at(token.Ident):
			field, ok := p.parseField()
			if !ok {
				p.resyncUntil(token.Semicolon, token.RBrace, token.KwFn)
				if p.at(token.Semicolon) {
					p.advance()
				}
				continue
			}
			data.Fields = append(data.Fields, field)
		default:
			p.err(diag.SynUnexpectedToken, "expected field or 'fn' in struct body, got "+p.lx.Peek().Kind.String())
			p.resyncBody()
		}
	}
	end, closed := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close struct body")
	return p.arenas.Items.NewStruct(start.Cover(end.Span), data), closed || name != source.NoStringID
}

func (p *Parser) parseField() (ast.FieldID, bool) {
	start := p.lx.Peek().Span
	container := false
	if p.at(token.KwContainer) {
		p.advance()
		container = true
	}

	name, nameSpan, ok := p.parseIdent()
	if !ok {
		return ast.NoFieldID, false
	}
	if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after field name"); !ok {
		return ast.NoFieldID, false
	}
	typ, ok := p.parseTypeRef()
	if !ok {
		return ast.NoFieldID, false
	}
	p.expectSemicolon()

	return p.arenas.Items.NewField(ast.FieldDef{
		Name:      name,
		NameSpan:  nameSpan,
		Type:      typ,
		Container: container,
		Span:      start.Cover(p.lastSpan),
	}), true
}

// parseFn разбирает `fn name(params) [-> Type] { body }`.
func (p *Parser) parseFn() (ast.FnID, bool) {
	start := p.advance().Span // 'fn'

	name, nameSpan, ok := p.parseIdent()
	if !ok {
		return ast.NoFnID, false
	}
	params, ok := p.parseParams()
	if !ok {
		return ast.NoFnID, false
	}

	ret := ast.NoTypeID
	if p.at(token.Arrow) {
		p.advance()
		ret, ok = p.parseTypeRef()
		if !ok {
			p.resyncUntil(token.LBrace, token.RBrace, token.Semicolon)
		}
	}

	body, ok := p.parseBlock()
	if !ok {
		return ast.NoFnID, false
	}
	return p.arenas.Items.NewFn(ast.FnDef{
		Name:     name,
		NameSpan: nameSpan,
		Params:   params,
		Ret:      ret,
		Body:     body,
		Span:     start.Cover(p.lastSpan),
	}), true
}

func (p *Parser) parseParams() ([]ast.ParamID, bool) {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after function name"); !ok {
		return nil, false
	}
	var params []ast.ParamID
	for !p.at(token.RParen) && !p.at(token.EOF) {
		start := p.lx.Peek().Span
		name, nameSpan, ok := p.parseIdent()
		if !ok {
			p.resyncUntil(token.Comma, token.RParen)
		} else {
			if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after parameter name"); ok {
				typ, ok := p.parseTypeRef()
				if ok {
					params = append(params, p.arenas.Items.NewParam(ast.ParamDef{
						Name:     name,
						NameSpan: nameSpan,
						Type:     typ,
						Span:     start.Cover(p.lastSpan),
					}))
				} else {
					p.resyncUntil(token.Comma, token.RParen)
				}
			} else {
				p.resyncUntil(token.Comma, token.RParen)
			}
		}
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	_, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close parameter list")
	return params, ok
}

// parseImportItem разбирает `import "path";`.
func (p *Parser) parseImportItem() (ast.ItemID, bool) {
	start := p.advance().Span // 'import'
	tok, ok := p.expect(token.StringLit, diag.SynUnexpectedToken, "expected string literal after 'import'")
	if !ok {
		return ast.NoItemID, false
	}
	p.expectSemicolon()
	// срезаем кавычки
	path := tok.Text
	if len(path) >= 2 {
		path = path[1 : len(path)-1]
	}
	return p.arenas.Items.NewImport(start.Cover(p.lastSpan), p.arenas.Intern(path)), true
}

// resyncBody — восстановление внутри тела: до ';' или '}' или стартера.
func (p *Parser) resyncBody() {
	p.resyncUntil(token.Semicolon, token.RBrace, token.KwFn, token.KwLet, token.KwFor, token.KwWith, token.KwReturn)
	if p.at(token.Semicolon) {
		p.advance()
	}
}
