package ast

import (
	"github.com/Tomok/cad-dsl/internal/source"
)

// StmtKind enumerates statement kinds.
type StmtKind uint8

const (
	// StmtLet is a binding: `let x: Length = 5mm;`. Bindings with a
	// direct value are initializations in the typed IR.
	StmtLet StmtKind = iota
	// StmtAssign is a bare `target = value;` — an equality constraint,
	// never a value copy.
	StmtAssign
	// StmtFor is a counted loop over a range.
	StmtFor
	// StmtWith is a transform-context block.
	StmtWith
	// StmtReturn exits a function body.
	StmtReturn
	// StmtExpr is an expression statement; a top-level comparison here
	// forms a constraint of the corresponding kind.
	StmtExpr
	// StmtBlock is a bare nested block with its own scope.
	StmtBlock
)

// Stmt is a statement node; the payload lives in a per-kind arena.
type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

type StmtLetData struct {
	Name     source.StringID
	NameSpan source.Span
	Type     TypeID // NoTypeID when the annotation is omitted
	Init     ExprID // NoExprID when uninitialized
}

type StmtAssignData struct {
	Target ExprID
	Value  ExprID
}

type StmtForData struct {
	Var     source.StringID
	VarSpan source.Span
	Range   ExprID
	Body    []StmtID
}

type StmtWithData struct {
	Subject ExprID
	Body    []StmtID
}

type StmtReturnData struct {
	Value ExprID // NoExprID for a bare return
}

type StmtExprData struct {
	Expr ExprID
}

type StmtBlockData struct {
	Body []StmtID
}

// Stmts manages allocation of statements.
type Stmts struct {
	Arena   *Arena[Stmt]
	Lets    *Arena[StmtLetData]
	Assigns *Arena[StmtAssignData]
	Fors    *Arena[StmtForData]
	Withs   *Arena[StmtWithData]
	Returns *Arena[StmtReturnData]
	Exprs   *Arena[StmtExprData]
	Blocks  *Arena[StmtBlockData]
}

func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Stmts{
		Arena:   NewArena[Stmt](capHint),
		Lets:    NewArena[StmtLetData](capHint / 2),
		Assigns: NewArena[StmtAssignData](capHint / 4),
		Fors:    NewArena[StmtForData](capHint / 8),
		Withs:   NewArena[StmtWithData](capHint / 8),
		Returns: NewArena[StmtReturnData](capHint / 8),
		Exprs:   NewArena[StmtExprData](capHint / 4),
		Blocks:  NewArena[StmtBlockData](capHint / 8),
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload PayloadID) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{Kind: kind, Span: span, Payload: payload}))
}

// Get returns the statement with the given ID.
func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) NewLet(span source.Span, data StmtLetData) StmtID {
	payload := s.Lets.Allocate(data)
	return s.new(StmtLet, span, PayloadID(payload))
}

func (s *Stmts) Let(id StmtID) (*StmtLetData, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtLet {
		return nil, false
	}
	return s.Lets.Get(uint32(stmt.Payload)), true
}

func (s *Stmts) NewAssign(span source.Span, target, value ExprID) StmtID {
	payload := s.Assigns.Allocate(StmtAssignData{Target: target, Value: value})
	return s.new(StmtAssign, span, PayloadID(payload))
}

func (s *Stmts) Assign(id StmtID) (*StmtAssignData, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtAssign {
		return nil, false
	}
	return s.Assigns.Get(uint32(stmt.Payload)), true
}

func (s *Stmts) NewFor(span source.Span, data StmtForData) StmtID {
	payload := s.Fors.Allocate(data)
	return s.new(StmtFor, span, PayloadID(payload))
}

func (s *Stmts) For(id StmtID) (*StmtForData, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtFor {
		return nil, false
	}
	return s.Fors.Get(uint32(stmt.Payload)), true
}

func (s *Stmts) NewWith(span source.Span, subject ExprID, body []StmtID) StmtID {
	payload := s.Withs.Allocate(StmtWithData{Subject: subject, Body: body})
	return s.new(StmtWith, span, PayloadID(payload))
}

func (s *Stmts) With(id StmtID) (*StmtWithData, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtWith {
		return nil, false
	}
	return s.Withs.Get(uint32(stmt.Payload)), true
}

func (s *Stmts) NewReturn(span source.Span, value ExprID) StmtID {
	payload := s.Returns.Allocate(StmtReturnData{Value: value})
	return s.new(StmtReturn, span, PayloadID(payload))
}

func (s *Stmts) Return(id StmtID) (*StmtReturnData, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtReturn {
		return nil, false
	}
	return s.Returns.Get(uint32(stmt.Payload)), true
}

func (s *Stmts) NewExpr(span source.Span, expr ExprID) StmtID {
	payload := s.Exprs.Allocate(StmtExprData{Expr: expr})
	return s.new(StmtExpr, span, PayloadID(payload))
}

func (s *Stmts) Expr(id StmtID) (*StmtExprData, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtExpr {
		return nil, false
	}
	return s.Exprs.Get(uint32(stmt.Payload)), true
}

func (s *Stmts) NewBlock(span source.Span, body []StmtID) StmtID {
	payload := s.Blocks.Allocate(StmtBlockData{Body: body})
	return s.new(StmtBlock, span, PayloadID(payload))
}

func (s *Stmts) Block(id StmtID) (*StmtBlockData, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtBlock {
		return nil, false
	}
	return s.Blocks.Get(uint32(stmt.Payload)), true
}
