package sema

import (
	"fmt"
	"strconv"

	"fortio.org/safecast"

	"github.com/Tomok/cad-dsl/internal/ast"
	"github.com/Tomok/cad-dsl/internal/diag"
	"github.com/Tomok/cad-dsl/internal/resolver"
	"github.com/Tomok/cad-dsl/internal/source"
	"github.com/Tomok/cad-dsl/internal/symbols"
	"github.com/Tomok/cad-dsl/internal/types"
)

// Options configures a checking pass over one resolved file.
type Options struct {
	Reporter diag.Reporter
	Resolved *resolver.Result
	// Types must be the interner the resolver's prelude was installed
	// with, otherwise built-in TypeIDs won't line up.
	Types *types.Interner
}

// Check runs the bottom-up type checker over one file and produces the
// typed IR. Ошибочные поддеревья получают KindError и дальше молчат.
func Check(builder *ast.Builder, fileID ast.FileID, opts Options) *Result {
	ti := opts.Types
	if ti == nil {
		ti = types.NewInterner()
	}
	if opts.Reporter == nil {
		opts.Reporter = diag.NopReporter{}
	}
	result := &Result{
		TypeInterner: ti,
		ExprTypes:    make(map[ast.ExprID]types.TypeID),
		StmtClasses:  make(map[ast.StmtID]StmtClass),
		Methods:      make(map[ast.ExprID]types.StructMethod),
	}

	c := &checker{
		builder:     builder,
		res:         opts.Resolved,
		ti:          ti,
		reporter:    opts.Reporter,
		result:      result,
		structTypes: make(map[symbols.SymbolID]types.TypeID),
	}
	c.nameX = builder.StringsInterner.Intern("x")
	c.nameY = builder.StringsInterner.Intern("y")

	file := builder.Files.Get(fileID)
	if file == nil {
		return result
	}

	// 1. Номинальные типы: сперва регистрируем все структуры,
	//    потом заполняем поля и методы — поля могут ссылаться вперёд.
	c.registerStructs(file)
	c.populateStructs(file)

	// 2. Сигнатуры свободных функций скетчей.
	c.registerSketchFns(file)

	// 3. Аннотированные let-привязки получают типы до обхода тел,
	//    чтобы forward reference видел объявленный тип.
	c.assignAnnotatedLets()

	// 4. Обход тел: выражения снизу вверх, классификация statements.
	for _, itemID := range file.Items {
		c.checkItem(itemID)
	}
	return result
}

type withCtx struct {
	subject types.TypeID
	// elem is the container field's element type; NoTypeID when the
	// subject has no container field.
	elem  types.TypeID
	names map[source.StringID]types.TypeID
}

type checker struct {
	builder  *ast.Builder
	res      *resolver.Result
	ti       *types.Interner
	reporter diag.Reporter
	result   *Result

	structTypes map[symbols.SymbolID]types.TypeID
	fnRet       []types.TypeID
	withStack   []withCtx

	nameX, nameY source.StringID
}

func (c *checker) builtins() types.Builtins { return c.ti.Builtins() }

func (c *checker) errorType() types.TypeID { return c.builtins().Error }

func (c *checker) report(code diag.Code, span source.Span, format string, args ...any) {
	diag.ReportError(c.reporter, code, span, fmt.Sprintf(format, args...)).Emit()
}

func (c *checker) format(t types.TypeID) string {
	return c.ti.Format(t, c.builder.StringsInterner)
}

// registerStructs allocates a nominal slot per struct item and stamps the
// struct symbol with it.
func (c *checker) registerStructs(file *ast.File) {
	for _, itemID := range file.Items {
		item := c.builder.Items.Get(itemID)
		if item == nil || item.Kind != ast.ItemStruct {
			continue
		}
		data, ok := c.builder.Items.Struct(itemID)
		if !ok {
			continue
		}
		symID, ok := c.res.StructSymbols[itemID]
		if !ok {
			continue
		}
		t := c.ti.RegisterStruct(data.Name, item.Span)
		c.structTypes[symID] = t
		if sym := c.res.Table.Symbols.Get(symID); sym != nil {
			sym.Type = t
		}
	}
}

// populateStructs resolves field and method types now that every struct
// has a TypeID. Также проверяется единственность container-поля.
func (c *checker) populateStructs(file *ast.File) {
	for _, itemID := range file.Items {
		item := c.builder.Items.Get(itemID)
		if item == nil || item.Kind != ast.ItemStruct {
			continue
		}
		data, ok := c.builder.Items.Struct(itemID)
		if !ok {
			continue
		}
		symID := c.res.StructSymbols[itemID]
		structType, ok := c.structTypes[symID]
		if !ok {
			continue
		}

		var fields []types.StructField
		containerSeen := false
		for _, fieldID := range data.Fields {
			field := c.builder.Items.Field(fieldID)
			if field == nil {
				continue
			}
			ft := c.typeFromRef(field.Type)
			isContainer := field.Container
			if isContainer && containerSeen {
				c.report(diag.SemaContainerConflict, field.Span,
					"struct already has a container field")
				isContainer = false
			}
			containerSeen = containerSeen || isContainer
			fields = append(fields, types.StructField{
				Name:      field.Name,
				Type:      ft,
				Container: isContainer,
			})
			if fieldSym, ok := c.res.FieldSymbols[fieldID]; ok {
				if sym := c.res.Table.Symbols.Get(fieldSym); sym != nil {
					sym.Type = ft
				}
			}
		}
		c.ti.SetStructFields(structType, fields)

		var methods []types.StructMethod
		for _, fnID := range data.Methods {
			fn := c.builder.Items.Fn(fnID)
			if fn == nil {
				continue
			}
			sig := c.fnSignature(fn)
			methods = append(methods, types.StructMethod{Name: fn.Name, Sig: sig})
			c.stampFn(fnID, fn, sig)
		}
		c.ti.SetStructMethods(structType, methods)
	}
}

func (c *checker) registerSketchFns(file *ast.File) {
	for _, itemID := range file.Items {
		item := c.builder.Items.Get(itemID)
		if item == nil || item.Kind != ast.ItemSketch {
			continue
		}
		data, ok := c.builder.Items.Sketch(itemID)
		if !ok {
			continue
		}
		for _, fnID := range data.Fns {
			fn := c.builder.Items.Fn(fnID)
			if fn == nil {
				continue
			}
			c.stampFn(fnID, fn, c.fnSignature(fn))
		}
	}
}

// isEntity: точки и структуры — сущности; массив сущностей тоже сущность.
func (c *checker) isEntity(t types.TypeID) bool {
	for {
		tt, ok := c.ti.Lookup(t)
		if !ok {
			return false
		}
		if tt.Kind == types.KindArray {
			t = tt.Elem
			continue
		}
		return tt.Kind.IsEntity()
	}
}

// fnSignature resolves one function's parameter and return types and
// enforces the binding-time rule: entity parameters travel by reference.
func (c *checker) fnSignature(fn *ast.FnDef) types.TypeID {
	params := make([]types.TypeID, 0, len(fn.Params))
	for _, paramID := range fn.Params {
		param := c.builder.Items.Param(paramID)
		if param == nil {
			continue
		}
		pt := c.typeFromRef(param.Type)
		if c.isEntity(pt) {
			c.report(diag.SemaInvalidReference, param.Span,
				"entity parameter %q must be passed by reference", c.lookupName(param.Name))
			pt = c.errorType()
		}
		params = append(params, pt)
		if paramSym, ok := c.res.ParamSymbols[paramID]; ok {
			if sym := c.res.Table.Symbols.Get(paramSym); sym != nil {
				sym.Type = pt
			}
		}
	}
	ret := types.NoTypeID
	if fn.Ret.IsValid() {
		ret = c.typeFromRef(fn.Ret)
	}
	return c.ti.RegisterFn(params, ret)
}

func (c *checker) stampFn(fnID ast.FnID, fn *ast.FnDef, sig types.TypeID) {
	if symID, ok := c.res.FnSymbols[fnID]; ok {
		if sym := c.res.Table.Symbols.Get(symID); sym != nil {
			sym.Type = sig
		}
	}
}

// assignAnnotatedLets stamps every annotated let symbol before body
// traversal, так forward reference к `let a: Length` уже типизирован.
func (c *checker) assignAnnotatedLets() {
	for stmtID, symID := range c.res.LetSymbols {
		data, ok := c.builder.Stmts.Let(stmtID)
		if !ok || !data.Type.IsValid() {
			continue
		}
		if sym := c.res.Table.Symbols.Get(symID); sym != nil {
			sym.Type = c.typeFromRef(data.Type)
		}
	}
}

// typeFromRef maps a syntactic annotation to a semantic type:
// resolve the name, apply the array size, wrap the reference.
func (c *checker) typeFromRef(id ast.TypeID) types.TypeID {
	ref := c.builder.Types.Get(id)
	if ref == nil {
		return c.errorType()
	}
	symID, ok := c.res.TypeSymbols[id]
	if !ok {
		return c.errorType()
	}
	sym := c.res.Table.Symbols.Get(symID)
	if sym == nil {
		return c.errorType()
	}
	var base types.TypeID
	switch {
	case sym.Flags&symbols.SymbolFlagPoisoned != 0:
		return c.errorType()
	case sym.Kind == symbols.SymbolBuiltinType:
		base = sym.Type
	case sym.Kind == symbols.SymbolStruct:
		base = c.structTypes[symID]
		if base == types.NoTypeID {
			base = sym.Type
		}
	default:
		return c.errorType()
	}
	if base == types.NoTypeID {
		return c.errorType()
	}

	if ref.ArraySize.IsValid() {
		count, ok := c.constInt(ref.ArraySize)
		if !ok || count < 0 {
			c.report(diag.SemaTypeMismatch, c.builder.Exprs.Get(ref.ArraySize).Span,
				"array size must be a non-negative integer literal")
			return c.errorType()
		}
		size, err := safecast.Conv[uint32](count)
		if err != nil {
			c.report(diag.SemaTypeMismatch, c.builder.Exprs.Get(ref.ArraySize).Span,
				"array size %d is too large", count)
			return c.errorType()
		}
		base = c.ti.Intern(types.MakeArray(base, size))
	}
	if ref.Reference {
		base = c.ti.Intern(types.MakeReference(base))
	}
	return base
}

// constInt evaluates a compile-time integer: только целый литерал.
func (c *checker) constInt(id ast.ExprID) (int64, bool) {
	expr := c.builder.Exprs.Get(id)
	if expr == nil {
		return 0, false
	}
	if expr.Kind == ast.ExprGroup {
		data, _ := c.builder.Exprs.Group(id)
		return c.constInt(data.Inner)
	}
	if expr.Kind != ast.ExprLit {
		return 0, false
	}
	data, _ := c.builder.Exprs.Literal(id)
	if data.Kind != ast.LitInt {
		return 0, false
	}
	text, ok := c.builder.StringsInterner.Lookup(data.Value)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (c *checker) lookupName(id source.StringID) string {
	if s, ok := c.builder.StringsInterner.Lookup(id); ok {
		return s
	}
	return "?"
}

// compat checks assignability and reports a single diagnostic on failure.
// Reference mismatches get the dedicated InvalidReference code so the
// message explains the entity/alias discipline instead of a bare mismatch.
func (c *checker) compat(expected, found types.TypeID, span source.Span) bool {
	if c.ti.Compatible(expected, found) {
		return true
	}
	ek := c.ti.KindOf(expected)
	fk := c.ti.KindOf(found)
	if (ek == types.KindReference) != (fk == types.KindReference) {
		if ek == types.KindReference {
			c.report(diag.SemaInvalidReference, span,
				"expected a reference %s, found owned value %s", c.format(expected), c.format(found))
		} else {
			c.report(diag.SemaInvalidReference, span,
				"expected owned value %s, found reference %s", c.format(expected), c.format(found))
		}
		return false
	}
	if ek == types.KindArray && fk == types.KindArray {
		et, _ := c.ti.Lookup(expected)
		ft, _ := c.ti.Lookup(found)
		if et.Elem == ft.Elem && et.Count != ft.Count {
			c.report(diag.SemaArraySizeMismatch, span,
				"expected %d elements, found %d", et.Count, ft.Count)
			return false
		}
	}
	c.report(diag.SemaTypeMismatch, span,
		"type mismatch: expected %s, found %s", c.format(expected), c.format(found))
	return false
}
