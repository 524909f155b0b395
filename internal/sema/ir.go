package sema

import (
	"github.com/Tomok/cad-dsl/internal/ast"
	"github.com/Tomok/cad-dsl/internal/types"
)

// ConstraintKind classifies a constraint statement. Вид фиксируется
// синтаксическим классом statement'а, никогда анализом значений.
type ConstraintKind uint8

const (
	ConstraintNone ConstraintKind = iota
	// ConstraintEquality comes from `a = b;` and `a == b;`.
	ConstraintEquality
	ConstraintLessThan
	ConstraintGreaterThan
	ConstraintLessEqual
	ConstraintGreaterEqual
)

func (k ConstraintKind) String() string {
	switch k {
	case ConstraintEquality:
		return "equality"
	case ConstraintLessThan:
		return "less-than"
	case ConstraintGreaterThan:
		return "greater-than"
	case ConstraintLessEqual:
		return "less-equal"
	case ConstraintGreaterEqual:
		return "greater-equal"
	default:
		return "none"
	}
}

// StmtClassKind is the downstream-facing role of a checked statement.
type StmtClassKind uint8

const (
	ClassInvalid StmtClassKind = iota
	// ClassDeclaration — let без инициализатора: вводит место, но не значение.
	ClassDeclaration
	// ClassInitialization — let с инициализатором.
	ClassInitialization
	// ClassConstraint — уравнение или неравенство для солвера.
	ClassConstraint
	// ClassExpression — вызов или иное выражение ради эффекта.
	ClassExpression
	// ClassControl — for, with, block.
	ClassControl
	ClassReturn
)

// StmtClass tags one statement for the constraint-extraction backend.
type StmtClass struct {
	Kind       StmtClassKind
	Constraint ConstraintKind
}

// Result is the typed IR: side tables over the AST keyed by arena IDs.
// The AST itself stays untouched, so the shape downstream consumers walk
// is exactly the shape the parser built.
type Result struct {
	TypeInterner *types.Interner

	// ExprTypes records the inferred type of every checked expression.
	ExprTypes map[ast.ExprID]types.TypeID
	// StmtClasses tags every checked statement.
	StmtClasses map[ast.StmtID]StmtClass
	// Methods links `base.name(...)` call targets to their resolved
	// method, so downstream passes never re-search by name.
	Methods map[ast.ExprID]types.StructMethod
}

// TypeOf returns the recorded type of an expression.
func (r *Result) TypeOf(id ast.ExprID) (types.TypeID, bool) {
	t, ok := r.ExprTypes[id]
	return t, ok
}

// ClassOf returns the recorded class of a statement.
func (r *Result) ClassOf(id ast.StmtID) (StmtClass, bool) {
	c, ok := r.StmtClasses[id]
	return c, ok
}
