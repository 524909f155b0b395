package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/Tomok/cad-dsl/internal/source"
)

// store — общий слайс-бекенд для обеих арен пакета.
// ID единицы-базированные, ноль значит "нет".
type store[T any] struct {
	data []T
}

func newStore[T any](capacity uint32) store[T] {
	return store[T]{data: make([]T, 0, capacity)}
}

func (s *store[T]) alloc(value T, what string) uint32 {
	s.data = append(s.data, value)
	id, err := safecast.Conv[uint32](len(s.data))
	if err != nil {
		panic(fmt.Errorf("%s arena overflow: %w", what, err))
	}
	return id
}

func (s *store[T]) at(index uint32) *T {
	if index == 0 || int(index) > len(s.data) {
		return nil
	}
	return &s.data[index-1]
}

// Scopes stores all allocated scopes.
type Scopes struct {
	store[Scope]
}

// NewScopes creates an arena with optional capacity hint.
func NewScopes(capacity uint32) *Scopes {
	if capacity == 0 {
		capacity = 32
	}
	return &Scopes{store: newStore[Scope](capacity)}
}

// New allocates a scope, links it under parent and returns its ID.
func (s *Scopes) New(kind ScopeKind, parent ScopeID, owner ScopeOwner, span source.Span) ScopeID {
	id := ScopeID(s.alloc(Scope{
		Kind:      kind,
		Parent:    parent,
		Owner:     owner,
		Span:      span,
		NameIndex: make(map[source.StringID][]SymbolID),
	}, "scopes"))
	if parentScope := s.Get(parent); parentScope != nil {
		parentScope.Children = append(parentScope.Children, id)
	}
	return id
}

// Get returns the scope pointer or nil if ID is invalid.
func (s *Scopes) Get(id ScopeID) *Scope { return s.at(uint32(id)) }

// Len reports the total number of scopes.
func (s *Scopes) Len() int { return len(s.data) }

// Data exposes the storage. READONLY.
func (s *Scopes) Data() []Scope { return s.data }

// Symbols stores declared symbols.
type Symbols struct {
	store[Symbol]
}

// NewSymbols creates a symbol arena with optional capacity hint.
func NewSymbols(capacity uint32) *Symbols {
	if capacity == 0 {
		capacity = 64
	}
	return &Symbols{store: newStore[Symbol](capacity)}
}

// New allocates a symbol in the arena and returns its ID.
func (s *Symbols) New(sym *Symbol) SymbolID {
	if sym == nil {
		panic("symbols.New: nil symbol")
	}
	return SymbolID(s.alloc(*sym, "symbols"))
}

// Get returns a symbol pointer or nil for invalid ID.
func (s *Symbols) Get(id SymbolID) *Symbol { return s.at(uint32(id)) }

// Len reports the number of stored symbols.
func (s *Symbols) Len() int { return len(s.data) }

// Data exposes the arena storage. READONLY.
func (s *Symbols) Data() []Symbol { return s.data }
