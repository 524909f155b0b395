package sema

import (
	"github.com/Tomok/cad-dsl/internal/ast"
	"github.com/Tomok/cad-dsl/internal/diag"
	"github.com/Tomok/cad-dsl/internal/source"
	"github.com/Tomok/cad-dsl/internal/types"
)

func (c *checker) checkItem(id ast.ItemID) {
	item := c.builder.Items.Get(id)
	if item == nil {
		return
	}
	switch item.Kind {
	case ast.ItemSketch:
		data, ok := c.builder.Items.Sketch(id)
		if !ok {
			return
		}
		for _, stmtID := range data.Body {
			c.checkStmt(stmtID)
		}
		for _, fnID := range data.Fns {
			c.checkFnBody(fnID)
		}
	case ast.ItemStruct:
		data, ok := c.builder.Items.Struct(id)
		if !ok {
			return
		}
		for _, fnID := range data.Methods {
			c.checkFnBody(fnID)
		}
	case ast.ItemImport:
	}
}

func (c *checker) checkFnBody(fnID ast.FnID) {
	fn := c.builder.Items.Fn(fnID)
	if fn == nil {
		return
	}
	ret := c.builtins().Unit
	if symID, ok := c.res.FnSymbols[fnID]; ok {
		if sym := c.res.Table.Symbols.Get(symID); sym != nil {
			if info, ok := c.ti.FnInfo(sym.Type); ok {
				ret = info.Ret
			}
		}
	}
	c.fnRet = append(c.fnRet, ret)
	for _, stmtID := range fn.Body {
		c.checkStmt(stmtID)
	}
	c.fnRet = c.fnRet[:len(c.fnRet)-1]

	switch c.ti.KindOf(ret) {
	case types.KindUnit, types.KindUnknown, types.KindError:
	default:
		if !c.hasReturn(fn.Body) {
			c.report(diag.SemaTypeMismatch, fn.NameSpan,
				"function %q must return a value", c.lookupName(fn.Name))
		}
	}
}

// hasReturn reports whether any statement in the body, на любой глубине,
// is a return.
func (c *checker) hasReturn(body []ast.StmtID) bool {
	for _, id := range body {
		stmt := c.builder.Stmts.Get(id)
		if stmt == nil {
			continue
		}
		switch stmt.Kind {
		case ast.StmtReturn:
			return true
		case ast.StmtFor:
			if data, ok := c.builder.Stmts.For(id); ok && c.hasReturn(data.Body) {
				return true
			}
		case ast.StmtWith:
			if data, ok := c.builder.Stmts.With(id); ok && c.hasReturn(data.Body) {
				return true
			}
		case ast.StmtBlock:
			if data, ok := c.builder.Stmts.Block(id); ok && c.hasReturn(data.Body) {
				return true
			}
		}
	}
	return false
}

func (c *checker) checkStmt(id ast.StmtID) {
	stmt := c.builder.Stmts.Get(id)
	if stmt == nil {
		return
	}
	switch stmt.Kind {
	case ast.StmtLet:
		c.checkLet(id)
	case ast.StmtAssign:
		c.checkAssign(id)
	case ast.StmtFor:
		c.checkFor(id)
	case ast.StmtWith:
		c.checkWith(id)
	case ast.StmtReturn:
		c.checkReturn(id)
	case ast.StmtExpr:
		c.checkExprStmt(id)
	case ast.StmtBlock:
		data, _ := c.builder.Stmts.Block(id)
		for _, s := range data.Body {
			c.checkStmt(s)
		}
		c.result.StmtClasses[id] = StmtClass{Kind: ClassControl}
	}
}

func (c *checker) checkLet(id ast.StmtID) {
	data, ok := c.builder.Stmts.Let(id)
	if !ok {
		return
	}
	var declared types.TypeID
	if data.Type.IsValid() {
		declared = c.typeFromRef(data.Type)
	}
	var initT types.TypeID
	if data.Init.IsValid() {
		initT = c.checkExpr(data.Init)
		if declared != types.NoTypeID {
			if adopted, ok := c.adoptLiteral(declared, data.Init); ok {
				initT = adopted
			} else {
				c.compat(declared, initT, c.builder.Exprs.Get(data.Init).Span)
			}
		}
	}

	// тип символа: аннотация выигрывает, иначе вывод из инициализатора
	final := declared
	if final == types.NoTypeID {
		final = initT
	}
	if final == types.NoTypeID {
		final = c.builtins().Unknown
	}
	if symID, ok := c.res.LetSymbols[id]; ok {
		if sym := c.res.Table.Symbols.Get(symID); sym != nil {
			sym.Type = final
		}
	}

	kind := ClassDeclaration
	if data.Init.IsValid() {
		kind = ClassInitialization
	}
	c.result.StmtClasses[id] = StmtClass{Kind: kind}
}

// adoptLiteral lets a bare numeric literal take the declared type of its
// let: `let x: Length = 5;` reads as 5 in the declared unit. Целый
// литерал подстраивается под любой числовой тип, дробный — под все
// кроме I32.
func (c *checker) adoptLiteral(declared types.TypeID, init ast.ExprID) (types.TypeID, bool) {
	id := init
	for {
		expr := c.builder.Exprs.Get(id)
		if expr == nil {
			return types.NoTypeID, false
		}
		if expr.Kind == ast.ExprGroup {
			data, _ := c.builder.Exprs.Group(id)
			id = data.Inner
			continue
		}
		if expr.Kind != ast.ExprLit {
			return types.NoTypeID, false
		}
		break
	}
	data, _ := c.builder.Exprs.Literal(id)
	if !c.ti.KindOf(declared).IsNumeric() {
		return types.NoTypeID, false
	}
	switch data.Kind {
	case ast.LitInt:
	case ast.LitFloat:
		if c.ti.KindOf(declared) == types.KindI32 {
			return types.NoTypeID, false
		}
	default:
		return types.NoTypeID, false
	}
	c.result.ExprTypes[id] = declared
	c.result.ExprTypes[init] = declared
	return declared, true
}

// checkAssign: `a = b;` — это equality-constraint, не копирование.
// Цель-`.name` расширяет container-пространство активного контекста.
func (c *checker) checkAssign(id ast.StmtID) {
	data, ok := c.builder.Stmts.Assign(id)
	if !ok {
		return
	}
	valueT := c.checkExpr(data.Value)

	target := c.builder.Exprs.Get(data.Target)
	if target != nil && target.Kind == ast.ExprContainer {
		c.assignContainer(data.Target, valueT)
	} else {
		targetT := c.checkExpr(data.Target)
		c.compat(targetT, valueT, c.builder.Stmts.Get(id).Span)
	}
	c.result.StmtClasses[id] = StmtClass{Kind: ClassConstraint, Constraint: ConstraintEquality}
}

// assignContainer handles `.name = value`: первое присваивание вводит
// имя в пространство контейнера, повторное — обычный constraint.
func (c *checker) assignContainer(target ast.ExprID, valueT types.TypeID) {
	data, _ := c.builder.Exprs.Container(target)
	span := c.builder.Exprs.Get(target).Span

	ctx := c.activeContainer()
	if ctx == nil {
		c.report(diag.SemaInvalidReference, span,
			"container access %q outside a with-context that has a container field", "."+c.lookupName(data.Name))
		c.result.ExprTypes[target] = c.errorType()
		return
	}
	if existing, ok := ctx.names[data.Name]; ok {
		c.compat(existing, valueT, span)
		c.result.ExprTypes[target] = existing
		return
	}
	if ctx.elem != types.NoTypeID {
		c.compat(ctx.elem, valueT, span)
	}
	ctx.names[data.Name] = valueT
	c.result.ExprTypes[target] = valueT
}

func (c *checker) checkFor(id ast.StmtID) {
	data, ok := c.builder.Stmts.For(id)
	if !ok {
		return
	}
	rangeT := c.checkExpr(data.Range)
	if k := c.ti.KindOf(rangeT); k != types.KindI32 && k != types.KindUnknown && k != types.KindError {
		c.report(diag.SemaTypeMismatch, c.builder.Exprs.Get(data.Range).Span,
			"loop range must be integer, found %s", c.format(rangeT))
	}
	if symID, ok := c.res.ForSymbols[id]; ok {
		if sym := c.res.Table.Symbols.Get(symID); sym != nil {
			sym.Type = c.builtins().I32
		}
	}
	for _, s := range data.Body {
		c.checkStmt(s)
	}
	c.result.StmtClasses[id] = StmtClass{Kind: ClassControl}
}

// checkWith pushes the subject's container context for the body.
// Вложенные контексты затеняют внешние только для `.name`-доступа.
func (c *checker) checkWith(id ast.StmtID) {
	data, ok := c.builder.Stmts.With(id)
	if !ok {
		return
	}
	subjectT := c.checkExpr(data.Subject)

	// Контекст появляется только у subject'а с container-полем.
	// Error/Unknown subject получает прозрачный контекст, чтобы не
	// каскадировать ошибки внутри тела.
	elem := types.NoTypeID
	base := subjectT
	if t, ok := c.ti.Lookup(base); ok && t.Kind == types.KindReference {
		base = t.Elem
	}
	switch c.ti.KindOf(base) {
	case types.KindError, types.KindUnknown:
		elem = base
	default:
		if field, ok := c.ti.ContainerField(base); ok {
			elem = field.Type
		}
	}
	pushed := elem != types.NoTypeID
	if pushed {
		c.withStack = append(c.withStack, withCtx{
			subject: subjectT,
			elem:    elem,
			names:   make(map[source.StringID]types.TypeID),
		})
	}
	for _, s := range data.Body {
		c.checkStmt(s)
	}
	if pushed {
		c.withStack = c.withStack[:len(c.withStack)-1]
	}
	c.result.StmtClasses[id] = StmtClass{Kind: ClassControl}
}

func (c *checker) checkReturn(id ast.StmtID) {
	data, ok := c.builder.Stmts.Return(id)
	if !ok {
		return
	}
	stmtSpan := c.builder.Stmts.Get(id).Span
	expected := c.builtins().Unit
	if len(c.fnRet) > 0 {
		expected = c.fnRet[len(c.fnRet)-1]
	}
	if data.Value.IsValid() {
		found := c.checkExpr(data.Value)
		c.compat(expected, found, c.builder.Exprs.Get(data.Value).Span)
	} else if c.ti.KindOf(expected) != types.KindUnit {
		c.report(diag.SemaTypeMismatch, stmtSpan,
			"missing return value: function returns %s", c.format(expected))
	}
	c.result.StmtClasses[id] = StmtClass{Kind: ClassReturn}
}

// checkExprStmt classifies a bare expression statement: доминирующее
// сравнение делает его constraint'ом, иначе это выражение ради эффекта.
func (c *checker) checkExprStmt(id ast.StmtID) {
	data, ok := c.builder.Stmts.Expr(id)
	if !ok {
		return
	}
	c.checkExpr(data.Expr)

	if kind, ok := c.topLevelConstraint(data.Expr); ok {
		c.result.StmtClasses[id] = StmtClass{Kind: ClassConstraint, Constraint: kind}
		return
	}
	c.result.StmtClasses[id] = StmtClass{Kind: ClassExpression}
}

// topLevelConstraint maps the statement's outermost comparison operator
// to a constraint kind. Группировка скобками прозрачна; `!=` не образует
// constraint — солверу нечего с ним делать.
func (c *checker) topLevelConstraint(id ast.ExprID) (ConstraintKind, bool) {
	expr := c.builder.Exprs.Get(id)
	if expr == nil {
		return ConstraintNone, false
	}
	if expr.Kind == ast.ExprGroup {
		data, _ := c.builder.Exprs.Group(id)
		return c.topLevelConstraint(data.Inner)
	}
	if expr.Kind != ast.ExprBinary {
		return ConstraintNone, false
	}
	data, _ := c.builder.Exprs.Binary(id)
	switch data.Op {
	case ast.BinaryEq:
		return ConstraintEquality, true
	case ast.BinaryLt:
		return ConstraintLessThan, true
	case ast.BinaryGt:
		return ConstraintGreaterThan, true
	case ast.BinaryLe:
		return ConstraintLessEqual, true
	case ast.BinaryGe:
		return ConstraintGreaterEqual, true
	default:
		return ConstraintNone, false
	}
}

func (c *checker) activeContainer() *withCtx {
	if n := len(c.withStack); n > 0 {
		return &c.withStack[n-1]
	}
	return nil
}
