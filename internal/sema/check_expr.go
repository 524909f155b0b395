package sema

import (
	"github.com/Tomok/cad-dsl/internal/ast"
	"github.com/Tomok/cad-dsl/internal/diag"
	"github.com/Tomok/cad-dsl/internal/source"
	"github.com/Tomok/cad-dsl/internal/symbols"
	"github.com/Tomok/cad-dsl/internal/types"
)

// checkExpr types an expression bottom-up and memoizes the result.
// Ошибочные поддеревья дают ErrorType и глушат каскадные диагностики.
func (c *checker) checkExpr(id ast.ExprID) types.TypeID {
	if !id.IsValid() {
		return c.errorType()
	}
	if t, ok := c.result.ExprTypes[id]; ok {
		return t
	}
	t := c.typeExpr(id)
	c.result.ExprTypes[id] = t
	return t
}

func (c *checker) typeExpr(id ast.ExprID) types.TypeID {
	expr := c.builder.Exprs.Get(id)
	if expr == nil {
		return c.errorType()
	}
	switch expr.Kind {
	case ast.ExprIdent:
		return c.typeIdent(id)
	case ast.ExprLit:
		return c.typeLiteral(id)
	case ast.ExprBinary:
		return c.typeBinary(id)
	case ast.ExprUnary:
		return c.typeUnary(id)
	case ast.ExprCall:
		return c.typeCall(id)
	case ast.ExprField:
		return c.typeField(id)
	case ast.ExprIndex:
		return c.typeIndex(id)
	case ast.ExprStructLit:
		return c.typeStructLit(id)
	case ast.ExprArrayLit:
		return c.typeArrayLit(id)
	case ast.ExprRange:
		return c.typeRange(id)
	case ast.ExprGroup:
		data, _ := c.builder.Exprs.Group(id)
		return c.checkExpr(data.Inner)
	case ast.ExprContainer:
		return c.typeContainer(id)
	}
	return c.errorType()
}

func (c *checker) typeIdent(id ast.ExprID) types.TypeID {
	symID, ok := c.res.ExprSymbols[id]
	if !ok {
		return c.errorType()
	}
	sym := c.res.Table.Symbols.Get(symID)
	if sym == nil {
		return c.errorType()
	}
	if sym.Flags&symbols.SymbolFlagPoisoned != 0 {
		return c.errorType()
	}
	if sym.Type == types.NoTypeID {
		// forward reference к ещё не выведенному let
		return c.builtins().Unknown
	}
	return sym.Type
}

func (c *checker) typeLiteral(id ast.ExprID) types.TypeID {
	data, ok := c.builder.Exprs.Literal(id)
	if !ok {
		return c.errorType()
	}
	b := c.builtins()
	switch data.Kind {
	case ast.LitInt:
		return b.I32
	case ast.LitFloat:
		return b.F64
	case ast.LitTrue, ast.LitFalse:
		return b.Bool
	case ast.LitLength:
		return b.Length
	case ast.LitAngle:
		return b.Angle
	}
	return c.errorType()
}

func (c *checker) typeBinary(id ast.ExprID) types.TypeID {
	data, ok := c.builder.Exprs.Binary(id)
	if !ok {
		return c.errorType()
	}
	left := c.checkExpr(data.Left)
	right := c.checkExpr(data.Right)
	lk := c.ti.KindOf(left)
	rk := c.ti.KindOf(right)
	span := c.builder.Exprs.Get(id).Span
	b := c.builtins()

	if lk == types.KindError || rk == types.KindError {
		return b.Error
	}

	switch data.Op {
	case ast.BinaryEq, ast.BinaryNe:
		if !c.ti.Compatible(left, right) && !c.ti.Compatible(right, left) {
			c.report(diag.SemaTypeMismatch, span,
				"cannot compare %s with %s", c.format(left), c.format(right))
			return b.Error
		}
		return b.Bool
	case ast.BinaryLt, ast.BinaryGt, ast.BinaryLe, ast.BinaryGe:
		if lk == types.KindUnknown || rk == types.KindUnknown {
			return b.Bool
		}
		if !lk.IsNumeric() || !rk.IsNumeric() {
			c.report(diag.SemaInvalidOperation, span,
				"invalid operation: %s %s %s", c.format(left), data.Op, c.format(right))
			return b.Error
		}
		return b.Bool
	case ast.BinaryAnd, ast.BinaryOr:
		ok := true
		if lk != types.KindBool && lk != types.KindUnknown {
			ok = false
		}
		if rk != types.KindBool && rk != types.KindUnknown {
			ok = false
		}
		if !ok {
			c.report(diag.SemaInvalidOperation, span,
				"invalid operation: %s %s %s", c.format(left), data.Op, c.format(right))
			return b.Error
		}
		return b.Bool
	}

	// арифметика по таблице операторов, без неявных повышений
	kind, ok := types.BinaryResult(data.Op, lk, rk)
	if !ok {
		c.report(diag.SemaInvalidOperation, span,
			"invalid operation: %s %s %s", c.format(left), data.Op, c.format(right))
		return b.Error
	}
	return c.builtinOf(kind)
}

func (c *checker) typeUnary(id ast.ExprID) types.TypeID {
	data, ok := c.builder.Exprs.Unary(id)
	if !ok {
		return c.errorType()
	}
	operand := c.checkExpr(data.Operand)
	k := c.ti.KindOf(operand)
	span := c.builder.Exprs.Get(id).Span
	b := c.builtins()

	if k == types.KindError {
		return b.Error
	}
	switch data.Op {
	case ast.UnaryNeg:
		if k == types.KindUnknown || k.IsNumeric() {
			return operand
		}
		c.report(diag.SemaInvalidOperation, span,
			"invalid operation: -%s", c.format(operand))
		return b.Error
	case ast.UnaryNot:
		if k == types.KindUnknown || k == types.KindBool {
			return b.Bool
		}
		c.report(diag.SemaInvalidOperation, span,
			"invalid operation: !%s", c.format(operand))
		return b.Error
	case ast.UnaryRef:
		if k == types.KindUnknown {
			return b.Unknown
		}
		return c.ti.Intern(types.MakeReference(operand))
	case ast.UnaryDeref:
		if k == types.KindUnknown {
			return b.Unknown
		}
		if t, ok := c.ti.Lookup(operand); ok && t.Kind == types.KindReference {
			return t.Elem
		}
		c.report(diag.SemaInvalidReference, span,
			"cannot dereference non-reference %s", c.format(operand))
		return b.Error
	}
	return b.Error
}

func (c *checker) typeCall(id ast.ExprID) types.TypeID {
	data, ok := c.builder.Exprs.Call(id)
	if !ok {
		return c.errorType()
	}
	span := c.builder.Exprs.Get(id).Span

	callee := c.builder.Exprs.Get(data.Callee)
	if callee != nil && callee.Kind == ast.ExprField {
		return c.typeMethodCall(id, data, span)
	}

	calleeT := c.checkExpr(data.Callee)
	ck := c.ti.KindOf(calleeT)
	if ck == types.KindError {
		c.checkArgs(data.Args)
		return c.errorType()
	}
	if ck == types.KindUnknown {
		c.checkArgs(data.Args)
		return c.builtins().Unknown
	}
	info, ok := c.ti.FnInfo(calleeT)
	if !ok {
		c.checkArgs(data.Args)
		c.report(diag.SemaNotCallable, span,
			"%s is not callable", c.format(calleeT))
		return c.errorType()
	}
	return c.applyFn(info, data.Args, span)
}

// typeMethodCall resolves `base.name(args)` against the struct's methods.
// Неявный self передаётся по ссылке и в параметрах не участвует.
func (c *checker) typeMethodCall(id ast.ExprID, data *ast.ExprCallData, span source.Span) types.TypeID {
	field, _ := c.builder.Exprs.Field(data.Callee)
	baseT := c.autoDeref(c.checkExpr(field.Base))
	bk := c.ti.KindOf(baseT)
	if bk == types.KindError {
		c.checkArgs(data.Args)
		return c.errorType()
	}
	if bk == types.KindUnknown {
		c.checkArgs(data.Args)
		return c.builtins().Unknown
	}
	method, ok := c.ti.StructMethodByName(baseT, field.Name)
	if !ok {
		c.checkArgs(data.Args)
		c.report(diag.SemaUnknownField, field.NameSpan,
			"type %s has no method %q", c.format(baseT), c.lookupName(field.Name))
		return c.errorType()
	}
	c.result.Methods[id] = method
	info, ok := c.ti.FnInfo(method.Sig)
	if !ok {
		c.checkArgs(data.Args)
		return c.errorType()
	}
	// тип callee фиксируем как сигнатуру метода
	c.result.ExprTypes[data.Callee] = method.Sig
	return c.applyFn(info, data.Args, span)
}

func (c *checker) applyFn(info types.FnInfo, args []ast.ExprID, span source.Span) types.TypeID {
	if len(args) != len(info.Params) {
		c.checkArgs(args)
		c.report(diag.SemaArgumentCountMismatch, span,
			"expected %d arguments, found %d", len(info.Params), len(args))
		return c.errorType()
	}
	for i, arg := range args {
		argT := c.checkExpr(arg)
		c.compat(info.Params[i], argT, c.builder.Exprs.Get(arg).Span)
	}
	return info.Ret
}

func (c *checker) checkArgs(args []ast.ExprID) {
	for _, arg := range args {
		c.checkExpr(arg)
	}
}

func (c *checker) typeField(id ast.ExprID) types.TypeID {
	data, ok := c.builder.Exprs.Field(id)
	if !ok {
		return c.errorType()
	}
	baseT := c.autoDeref(c.checkExpr(data.Base))
	bk := c.ti.KindOf(baseT)
	b := c.builtins()
	if bk == types.KindError {
		return b.Error
	}
	if bk == types.KindUnknown {
		return b.Unknown
	}
	if bk == types.KindPoint {
		if data.Name == c.nameX || data.Name == c.nameY {
			return b.Length
		}
		c.report(diag.SemaUnknownField, data.NameSpan,
			"type %s has no field %q", c.format(baseT), c.lookupName(data.Name))
		return b.Error
	}
	if bk == types.KindStruct {
		if field, ok := c.ti.StructFieldByName(baseT, data.Name); ok {
			return field.Type
		}
		c.report(diag.SemaUnknownField, data.NameSpan,
			"type %s has no field %q", c.format(baseT), c.lookupName(data.Name))
		return b.Error
	}
	c.report(diag.SemaUnknownField, data.NameSpan,
		"type %s has no field %q", c.format(baseT), c.lookupName(data.Name))
	return b.Error
}

func (c *checker) typeIndex(id ast.ExprID) types.TypeID {
	data, ok := c.builder.Exprs.Index(id)
	if !ok {
		return c.errorType()
	}
	baseT := c.checkExpr(data.Base)
	indexT := c.checkExpr(data.Index)
	span := c.builder.Exprs.Get(id).Span
	b := c.builtins()

	switch ik := c.ti.KindOf(indexT); ik {
	case types.KindI32, types.KindUnknown, types.KindError:
	default:
		c.report(diag.SemaTypeMismatch, c.builder.Exprs.Get(data.Index).Span,
			"array index must be integer, found %s", c.format(indexT))
	}

	bk := c.ti.KindOf(baseT)
	if bk == types.KindError {
		return b.Error
	}
	if bk == types.KindUnknown {
		return b.Unknown
	}
	base, ok := c.ti.Lookup(baseT)
	if !ok || base.Kind != types.KindArray {
		c.report(diag.SemaTypeMismatch, span,
			"cannot index %s", c.format(baseT))
		return b.Error
	}
	if v, ok := c.constInt(data.Index); ok && (v < 0 || v >= int64(base.Count)) {
		c.report(diag.SemaIndexOutOfBounds, c.builder.Exprs.Get(data.Index).Span,
			"index %d out of bounds for array of %d elements", v, base.Count)
	}
	return base.Elem
}

func (c *checker) typeStructLit(id ast.ExprID) types.TypeID {
	data, ok := c.builder.Exprs.StructLit(id)
	if !ok {
		return c.errorType()
	}
	litT := c.typeFromRef(data.Type)
	lk := c.ti.KindOf(litT)
	b := c.builtins()

	if lk == types.KindError {
		for _, entry := range data.Entries {
			c.checkExpr(entry.Value)
		}
		return b.Error
	}

	for _, entry := range data.Entries {
		valueT := c.checkExpr(entry.Value)
		switch {
		case lk == types.KindPoint && !entry.Computed &&
			(entry.Name == c.nameX || entry.Name == c.nameY):
			c.compat(b.Length, valueT, c.builder.Exprs.Get(entry.Value).Span)
		case lk == types.KindStruct && !entry.Computed:
			field, ok := c.ti.StructFieldByName(litT, entry.Name)
			if !ok {
				c.report(diag.SemaUnknownField, entry.NameSpan,
					"type %s has no field %q", c.format(litT), c.lookupName(entry.Name))
				continue
			}
			c.compat(field.Type, valueT, c.builder.Exprs.Get(entry.Value).Span)
		case lk == types.KindStruct && entry.Computed:
			method, ok := c.ti.StructMethodByName(litT, entry.Name)
			if !ok {
				c.report(diag.SemaUnknownField, entry.NameSpan,
					"type %s has no method %q", c.format(litT), c.lookupName(entry.Name))
				continue
			}
			if info, ok := c.ti.FnInfo(method.Sig); ok {
				c.compat(info.Ret, valueT, c.builder.Exprs.Get(entry.Value).Span)
			}
		default:
			c.report(diag.SemaUnknownField, entry.NameSpan,
				"type %s has no field %q", c.format(litT), c.lookupName(entry.Name))
		}
	}
	return litT
}

func (c *checker) typeArrayLit(id ast.ExprID) types.TypeID {
	data, ok := c.builder.Exprs.ArrayLit(id)
	if !ok {
		return c.errorType()
	}
	b := c.builtins()
	if len(data.Elems) == 0 {
		return c.ti.Intern(types.MakeArray(b.Unknown, 0))
	}
	elem := c.checkExpr(data.Elems[0])
	for _, e := range data.Elems[1:] {
		et := c.checkExpr(e)
		c.compat(elem, et, c.builder.Exprs.Get(e).Span)
	}
	if c.ti.KindOf(elem) == types.KindError {
		return b.Error
	}
	return c.ti.Intern(types.MakeArray(elem, uint32(len(data.Elems))))
}

func (c *checker) typeRange(id ast.ExprID) types.TypeID {
	data, ok := c.builder.Exprs.Range(id)
	if !ok {
		return c.errorType()
	}
	b := c.builtins()
	for _, end := range [...]ast.ExprID{data.Start, data.End} {
		endT := c.checkExpr(end)
		switch c.ti.KindOf(endT) {
		case types.KindI32, types.KindUnknown, types.KindError:
		default:
			c.report(diag.SemaTypeMismatch, c.builder.Exprs.Get(end).Span,
				"range bound must be integer, found %s", c.format(endT))
		}
	}
	return b.I32
}

// typeContainer types a `.name` read: имя должно быть уже введено
// присваиванием внутри активного with-контекста.
func (c *checker) typeContainer(id ast.ExprID) types.TypeID {
	data, _ := c.builder.Exprs.Container(id)
	span := c.builder.Exprs.Get(id).Span

	ctx := c.activeContainer()
	if ctx == nil {
		c.report(diag.SemaInvalidReference, span,
			"container access %q outside a with-context that has a container field", "."+c.lookupName(data.Name))
		return c.errorType()
	}
	if t, ok := ctx.names[data.Name]; ok {
		return t
	}
	if ctx.elem != types.NoTypeID {
		return ctx.elem
	}
	c.report(diag.SemaUnknownField, data.NameSpan,
		"container has no member %q", c.lookupName(data.Name))
	return c.errorType()
}

func (c *checker) autoDeref(t types.TypeID) types.TypeID {
	if info, ok := c.ti.Lookup(t); ok && info.Kind == types.KindReference {
		return info.Elem
	}
	return t
}

func (c *checker) builtinOf(k types.Kind) types.TypeID {
	b := c.builtins()
	switch k {
	case types.KindUnknown:
		return b.Unknown
	case types.KindUnit:
		return b.Unit
	case types.KindBool:
		return b.Bool
	case types.KindI32:
		return b.I32
	case types.KindF64:
		return b.F64
	case types.KindReal:
		return b.Real
	case types.KindAlgebraic:
		return b.Algebraic
	case types.KindLength:
		return b.Length
	case types.KindAngle:
		return b.Angle
	case types.KindArea:
		return b.Area
	case types.KindPoint:
		return b.Point
	}
	return b.Error
}
