package resolver

import (
	"github.com/Tomok/cad-dsl/internal/ast"
	"github.com/Tomok/cad-dsl/internal/symbols"
)

// collector — первый проход: объявления и дерево scope'ов.
// Ссылки здесь не разрешаются; см. linker.
type collector struct {
	builder  *ast.Builder
	result   *Result
	resolver *symbols.Resolver
	file     ast.FileID
}

func (c *collector) collectItem(id ast.ItemID) {
	item := c.builder.Items.Get(id)
	if item == nil {
		return
	}
	switch item.Kind {
	case ast.ItemStruct:
		if data, ok := c.builder.Items.Struct(id); ok {
			c.collectStruct(id, data)
		}
	case ast.ItemSketch:
		if data, ok := c.builder.Items.Sketch(id); ok {
			c.collectSketch(id, data)
		}
	case ast.ItemImport:
		// imports не вводят имён; драйвер раскрывает их до resolve
	}
}

func (c *collector) collectStruct(id ast.ItemID, data *ast.ItemStructData) {
	item := c.builder.Items.Get(id)
	symID, _ := c.resolver.Declare(data.Name, data.NameSpan, symbols.SymbolStruct, 0, symbols.SymbolDecl{
		File: c.file,
		Item: id,
	})
	if symID.IsValid() {
		c.result.StructSymbols[id] = symID
	}

	scope := c.resolver.Enter(symbols.ScopeStruct, symbols.ScopeOwner{
		Kind: symbols.ScopeOwnerItem,
		Item: id,
	}, item.Span)
	c.result.ItemScopes[id] = scope

	for _, fieldID := range data.Fields {
		field := c.builder.Items.Field(fieldID)
		if field == nil {
			continue
		}
		var flags symbols.SymbolFlags
		if field.Container {
			flags |= symbols.SymbolFlagContainer
		}
		if ref := c.builder.Types.Get(field.Type); ref != nil && ref.Reference {
			flags |= symbols.SymbolFlagReference
		}
		fieldSym, _ := c.resolver.Declare(field.Name, field.NameSpan, symbols.SymbolField, flags, symbols.SymbolDecl{
			File:  c.file,
			Item:  id,
			Field: fieldID,
		})
		if fieldSym.IsValid() {
			c.result.FieldSymbols[fieldID] = fieldSym
		}
	}
	for _, fnID := range data.Methods {
		c.collectFn(id, fnID)
	}

	c.resolver.Leave(scope)
}

func (c *collector) collectSketch(id ast.ItemID, data *ast.ItemSketchData) {
	item := c.builder.Items.Get(id)
	scope := c.resolver.Enter(symbols.ScopeSketch, symbols.ScopeOwner{
		Kind: symbols.ScopeOwnerItem,
		Item: id,
	}, item.Span)
	c.result.ItemScopes[id] = scope

	// Функции скетча объявляются до обхода statements: внутри
	// declarative scope порядок не несёт смысла.
	for _, fnID := range data.Fns {
		c.collectFn(id, fnID)
	}
	for _, stmtID := range data.Body {
		c.collectStmt(stmtID)
	}

	c.resolver.Leave(scope)
}

func (c *collector) collectFn(owner ast.ItemID, fnID ast.FnID) {
	fn := c.builder.Items.Fn(fnID)
	if fn == nil {
		return
	}
	symID, _ := c.resolver.Declare(fn.Name, fn.NameSpan, symbols.SymbolFunction, 0, symbols.SymbolDecl{
		File: c.file,
		Item: owner,
		Fn:   fnID,
	})
	if symID.IsValid() {
		c.result.FnSymbols[fnID] = symID
	}

	scope := c.resolver.Enter(symbols.ScopeFunction, symbols.ScopeOwner{
		Kind: symbols.ScopeOwnerFn,
		Fn:   fnID,
	}, fn.Span)
	c.result.FnScopes[fnID] = scope

	for _, paramID := range fn.Params {
		param := c.builder.Items.Param(paramID)
		if param == nil {
			continue
		}
		var flags symbols.SymbolFlags
		if ref := c.builder.Types.Get(param.Type); ref != nil && ref.Reference {
			flags |= symbols.SymbolFlagReference
		}
		paramSym, _ := c.resolver.Declare(param.Name, param.NameSpan, symbols.SymbolParam, flags, symbols.SymbolDecl{
			File:  c.file,
			Fn:    fnID,
			Param: paramID,
		})
		if paramSym.IsValid() {
			c.result.ParamSymbols[paramID] = paramSym
		}
	}
	for _, stmtID := range fn.Body {
		c.collectStmt(stmtID)
	}

	c.resolver.Leave(scope)
}

func (c *collector) collectStmt(id ast.StmtID) {
	stmt := c.builder.Stmts.Get(id)
	if stmt == nil {
		return
	}
	switch stmt.Kind {
	case ast.StmtLet:
		data, ok := c.builder.Stmts.Let(id)
		if !ok {
			return
		}
		symID, _ := c.resolver.Declare(data.Name, data.NameSpan, symbols.SymbolVariable, 0, symbols.SymbolDecl{
			File: c.file,
			Stmt: id,
		})
		if symID.IsValid() {
			c.result.LetSymbols[id] = symID
		}

	case ast.StmtFor:
		data, ok := c.builder.Stmts.For(id)
		if !ok {
			return
		}
		scope := c.resolver.Enter(symbols.ScopeFor, symbols.ScopeOwner{
			Kind: symbols.ScopeOwnerStmt,
			Stmt: id,
		}, stmt.Span)
		c.result.StmtScopes[id] = scope
		symID, _ := c.resolver.Declare(data.Var, data.VarSpan, symbols.SymbolVariable, 0, symbols.SymbolDecl{
			File: c.file,
			Stmt: id,
		})
		if symID.IsValid() {
			c.result.ForSymbols[id] = symID
		}
		for _, s := range data.Body {
			c.collectStmt(s)
		}
		c.resolver.Leave(scope)

	case ast.StmtWith:
		data, ok := c.builder.Stmts.With(id)
		if !ok {
			return
		}
		scope := c.resolver.Enter(symbols.ScopeWith, symbols.ScopeOwner{
			Kind: symbols.ScopeOwnerStmt,
			Stmt: id,
		}, stmt.Span)
		c.result.StmtScopes[id] = scope
		for _, s := range data.Body {
			c.collectStmt(s)
		}
		c.resolver.Leave(scope)

	case ast.StmtBlock:
		data, ok := c.builder.Stmts.Block(id)
		if !ok {
			return
		}
		scope := c.resolver.Enter(symbols.ScopeBlock, symbols.ScopeOwner{
			Kind: symbols.ScopeOwnerStmt,
			Stmt: id,
		}, stmt.Span)
		c.result.StmtScopes[id] = scope
		for _, s := range data.Body {
			c.collectStmt(s)
		}
		c.resolver.Leave(scope)

	case ast.StmtAssign, ast.StmtReturn, ast.StmtExpr:
		// объявлений нет
	}
}
