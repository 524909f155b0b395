package resolver

import (
	"fmt"

	"github.com/Tomok/cad-dsl/internal/ast"
	"github.com/Tomok/cad-dsl/internal/diag"
	"github.com/Tomok/cad-dsl/internal/source"
	"github.com/Tomok/cad-dsl/internal/symbols"
)

// linker — второй проход: каждое использование имени разрешается от
// своего scope вверх по цепочке. Scope'ы уже построены collector'ом.
type linker struct {
	builder  *ast.Builder
	result   *Result
	resolver *symbols.Resolver
	reporter diag.Reporter
}

func (l *linker) linkItem(id ast.ItemID) {
	item := l.builder.Items.Get(id)
	if item == nil {
		return
	}
	switch item.Kind {
	case ast.ItemStruct:
		if data, ok := l.builder.Items.Struct(id); ok {
			l.linkStruct(id, data)
		}
	case ast.ItemSketch:
		if data, ok := l.builder.Items.Sketch(id); ok {
			l.linkSketch(id, data)
		}
	case ast.ItemImport:
	}
}

func (l *linker) linkStruct(id ast.ItemID, data *ast.ItemStructData) {
	scope := l.result.ItemScopes[id]
	for _, fieldID := range data.Fields {
		if field := l.builder.Items.Field(fieldID); field != nil {
			l.linkTypeRef(scope, field.Type)
		}
	}
	for _, fnID := range data.Methods {
		l.linkFn(scope, fnID)
	}
}

func (l *linker) linkSketch(id ast.ItemID, data *ast.ItemSketchData) {
	scope := l.result.ItemScopes[id]
	for _, fnID := range data.Fns {
		l.linkFn(scope, fnID)
	}
	for _, stmtID := range data.Body {
		l.linkStmt(scope, stmtID)
	}
}

func (l *linker) linkFn(outer symbols.ScopeID, fnID ast.FnID) {
	fn := l.builder.Items.Fn(fnID)
	if fn == nil {
		return
	}
	scope := l.result.FnScopes[fnID]
	for _, paramID := range fn.Params {
		if param := l.builder.Items.Param(paramID); param != nil {
			// типы параметров видны из объемлющего scope
			l.linkTypeRef(outer, param.Type)
		}
	}
	if fn.Ret.IsValid() {
		l.linkTypeRef(outer, fn.Ret)
	}
	for _, stmtID := range fn.Body {
		l.linkStmt(scope, stmtID)
	}
}

func (l *linker) linkStmt(scope symbols.ScopeID, id ast.StmtID) {
	stmt := l.builder.Stmts.Get(id)
	if stmt == nil {
		return
	}
	switch stmt.Kind {
	case ast.StmtLet:
		if data, ok := l.builder.Stmts.Let(id); ok {
			if data.Type.IsValid() {
				l.linkTypeRef(scope, data.Type)
			}
			if data.Init.IsValid() {
				l.linkExpr(scope, data.Init)
			}
		}
	case ast.StmtAssign:
		if data, ok := l.builder.Stmts.Assign(id); ok {
			l.linkExpr(scope, data.Target)
			l.linkExpr(scope, data.Value)
		}
	case ast.StmtFor:
		if data, ok := l.builder.Stmts.For(id); ok {
			// range разрешается снаружи: переменная цикла в нём не видна
			l.linkExpr(scope, data.Range)
			inner := l.result.StmtScopes[id]
			for _, s := range data.Body {
				l.linkStmt(inner, s)
			}
		}
	case ast.StmtWith:
		if data, ok := l.builder.Stmts.With(id); ok {
			l.linkExpr(scope, data.Subject)
			inner := l.result.StmtScopes[id]
			for _, s := range data.Body {
				l.linkStmt(inner, s)
			}
		}
	case ast.StmtBlock:
		if data, ok := l.builder.Stmts.Block(id); ok {
			inner := l.result.StmtScopes[id]
			for _, s := range data.Body {
				l.linkStmt(inner, s)
			}
		}
	case ast.StmtReturn:
		if data, ok := l.builder.Stmts.Return(id); ok && data.Value.IsValid() {
			l.linkExpr(scope, data.Value)
		}
	case ast.StmtExpr:
		if data, ok := l.builder.Stmts.Expr(id); ok {
			l.linkExpr(scope, data.Expr)
		}
	}
}

func (l *linker) linkExpr(scope symbols.ScopeID, id ast.ExprID) {
	expr := l.builder.Exprs.Get(id)
	if expr == nil {
		return
	}
	switch expr.Kind {
	case ast.ExprIdent:
		data, _ := l.builder.Exprs.Ident(id)
		l.linkName(scope, id, data.Name, expr.Span, symbols.KindMaskValues, symbols.SymbolVariable)

	case ast.ExprLit:
		// литералы имён не содержат

	case ast.ExprBinary:
		data, _ := l.builder.Exprs.Binary(id)
		l.linkExpr(scope, data.Left)
		l.linkExpr(scope, data.Right)

	case ast.ExprUnary:
		data, _ := l.builder.Exprs.Unary(id)
		l.linkExpr(scope, data.Operand)

	case ast.ExprCall:
		data, _ := l.builder.Exprs.Call(id)
		l.linkCallee(scope, data.Callee)
		for _, arg := range data.Args {
			l.linkExpr(scope, arg)
		}

	case ast.ExprField:
		// имя поля разрешается checker'ом по типу базы
		data, _ := l.builder.Exprs.Field(id)
		l.linkExpr(scope, data.Base)

	case ast.ExprIndex:
		data, _ := l.builder.Exprs.Index(id)
		l.linkExpr(scope, data.Base)
		l.linkExpr(scope, data.Index)

	case ast.ExprStructLit:
		data, _ := l.builder.Exprs.StructLit(id)
		l.linkTypeRef(scope, data.Type)
		for _, entry := range data.Entries {
			l.linkExpr(scope, entry.Value)
		}

	case ast.ExprArrayLit:
		data, _ := l.builder.Exprs.ArrayLit(id)
		for _, elem := range data.Elems {
			l.linkExpr(scope, elem)
		}

	case ast.ExprRange:
		data, _ := l.builder.Exprs.Range(id)
		l.linkExpr(scope, data.Start)
		l.linkExpr(scope, data.End)

	case ast.ExprGroup:
		data, _ := l.builder.Exprs.Group(id)
		l.linkExpr(scope, data.Inner)

	case ast.ExprContainer:
		// `.name` разрешается против активного with-контекста в checker'е
	}
}

// linkCallee: позиция вызова фильтрует пространство имён — подходят
// только функции. Методы (base.name(...)) разрешает checker.
func (l *linker) linkCallee(scope symbols.ScopeID, callee ast.ExprID) {
	expr := l.builder.Exprs.Get(callee)
	if expr == nil {
		return
	}
	if expr.Kind == ast.ExprIdent {
		data, _ := l.builder.Exprs.Ident(callee)
		l.linkName(scope, callee, data.Name, expr.Span, symbols.SymbolFunction.Mask(), symbols.SymbolFunction)
		return
	}
	l.linkExpr(scope, callee)
}

// linkName resolves one identifier use. On failure it reports
// UndefinedName once and poisons the scope with a placeholder so the
// same name stays silent afterwards.
func (l *linker) linkName(scope symbols.ScopeID, at ast.ExprID, name source.StringID, span source.Span, mask symbols.KindMask, placeholderKind symbols.SymbolKind) {
	if id, ok := l.resolver.LookupFrom(scope, name, mask); ok {
		l.result.ExprSymbols[at] = id
		return
	}
	if id, ok := l.poisonedFor(scope, name); ok {
		l.result.ExprSymbols[at] = id
		return
	}
	nameStr := l.result.Table.Strings.MustLookup(name)
	diag.ReportError(l.reporter, diag.SemaUndefinedName, span,
		fmt.Sprintf("undefined name %q", nameStr)).Emit()
	if id, ok := l.resolver.DeclareIn(scope, name, span, placeholderKind, symbols.SymbolFlagPoisoned, symbols.SymbolDecl{}); ok {
		l.result.ExprSymbols[at] = id
	}
}

func (l *linker) linkTypeRef(scope symbols.ScopeID, id ast.TypeID) {
	ref := l.builder.Types.Get(id)
	if ref == nil {
		return
	}
	if ref.ArraySize.IsValid() {
		l.linkExpr(scope, ref.ArraySize)
	}
	if sym, ok := l.resolver.LookupFrom(scope, ref.Name, symbols.KindMaskTypes); ok {
		l.result.TypeSymbols[id] = sym
		return
	}
	if sym, ok := l.poisonedFor(scope, ref.Name); ok {
		l.result.TypeSymbols[id] = sym
		return
	}
	nameStr := l.result.Table.Strings.MustLookup(ref.Name)
	diag.ReportError(l.reporter, diag.SemaUnknownType, ref.NameSpan,
		fmt.Sprintf("unknown type %q", nameStr)).Emit()
	if sym, ok := l.resolver.DeclareIn(scope, ref.Name, ref.NameSpan, symbols.SymbolStruct, symbols.SymbolFlagPoisoned, symbols.SymbolDecl{}); ok {
		l.result.TypeSymbols[id] = sym
	}
}

// poisonedFor: имя уже отравлено ранее — привязываемся молча,
// независимо от пространства имён.
func (l *linker) poisonedFor(scope symbols.ScopeID, name source.StringID) (symbols.SymbolID, bool) {
	if id, ok := l.resolver.LookupFrom(scope, name, symbols.KindMaskAny); ok {
		if sym := l.result.Table.Symbols.Get(id); sym != nil && sym.Flags&symbols.SymbolFlagPoisoned != 0 {
			return id, true
		}
	}
	return symbols.NoSymbolID, false
}
