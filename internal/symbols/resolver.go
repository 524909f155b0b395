package symbols

import (
	"fmt"

	"github.com/Tomok/cad-dsl/internal/diag"
	"github.com/Tomok/cad-dsl/internal/source"
)

// ResolverOptions configures resolver construction.
type ResolverOptions struct {
	Reporter diag.Reporter
}

// Resolver drives scope management and declaration/lookup routines.
// Внутри одного scope дубликат — ошибка; затенение во вложенном
// scope легально и молчаливо.
type Resolver struct {
	table    *Table
	reporter diag.Reporter
	stack    []ScopeID
}

// NewResolver wires a resolver to an existing root scope. If root is valid it
// becomes the current scope; otherwise scope-sensitive operations are no-ops.
func NewResolver(table *Table, root ScopeID, opts ResolverOptions) *Resolver {
	r := &Resolver{
		table:    table,
		reporter: opts.Reporter,
		stack:    make([]ScopeID, 0, 8),
	}
	if root.IsValid() {
		r.stack = append(r.stack, root)
	}
	return r
}

// Table returns the underlying symbol table.
func (r *Resolver) Table() *Table { return r.table }

// CurrentScope returns the scope at the top of the stack.
func (r *Resolver) CurrentScope() ScopeID {
	if len(r.stack) == 0 {
		return NoScopeID
	}
	return r.stack[len(r.stack)-1]
}

// Enter creates a child scope, pushes it onto the stack, and returns its ID.
func (r *Resolver) Enter(kind ScopeKind, owner ScopeOwner, span source.Span) ScopeID {
	parent := r.CurrentScope()
	scope := r.table.Scopes.New(kind, parent, owner, span)
	r.stack = append(r.stack, scope)
	return scope
}

// EnterExisting re-pushes a scope created by an earlier pass.
func (r *Resolver) EnterExisting(id ScopeID) {
	if id.IsValid() {
		r.stack = append(r.stack, id)
	}
}

// Leave pops the current scope. A mismatch against expected means a walk
// bug; we repair the stack and keep going.
func (r *Resolver) Leave(expected ScopeID) {
	if len(r.stack) == 0 {
		return
	}
	r.stack = r.stack[:len(r.stack)-1]
	_ = expected
}

// Declare installs a symbol into the current scope. A name clash within the
// same scope and namespace reports SemaDuplicateDefinition and returns
// (NoSymbolID, false); the first declaration keeps winning lookups.
func (r *Resolver) Declare(name source.StringID, span source.Span, kind SymbolKind, flags SymbolFlags, decl SymbolDecl) (SymbolID, bool) {
	return r.DeclareIn(r.CurrentScope(), name, span, kind, flags, decl)
}

// DeclareIn is Declare targeting an explicit scope; the linking pass uses it
// to drop poisoned placeholders where a lookup failed.
func (r *Resolver) DeclareIn(scopeID ScopeID, name source.StringID, span source.Span, kind SymbolKind, flags SymbolFlags, decl SymbolDecl) (SymbolID, bool) {
	scope := r.table.Scopes.Get(scopeID)
	if scope == nil {
		return NoSymbolID, false
	}

	for _, symID := range scope.NameIndex[name] {
		sym := r.table.Symbols.Get(symID)
		if sym == nil {
			continue
		}
		if NamespaceOf(sym.Kind) != NamespaceOf(kind) {
			continue
		}
		r.reportDuplicate(name, span, sym)
		return NoSymbolID, false
	}

	sym := Symbol{
		Name:  name,
		Kind:  kind,
		Scope: scopeID,
		Span:  span,
		Flags: flags,
		Decl:  decl,
	}
	id := r.table.Symbols.New(&sym)
	scope.Symbols = append(scope.Symbols, id)
	scope.NameIndex[name] = append(scope.NameIndex[name], id)
	return id, true
}

// Lookup walks the scope chain searching for any symbol with the name.
func (r *Resolver) Lookup(name source.StringID) (SymbolID, bool) {
	return r.LookupMasked(name, KindMaskAny)
}

// LookupMasked finds the innermost symbol whose kind passes the mask.
// Symbols of a foreign namespace never shadow: `let Point = ...` в value
// namespace не прячет тип Point.
func (r *Resolver) LookupMasked(name source.StringID, mask KindMask) (SymbolID, bool) {
	if mask == KindMaskNone {
		return NoSymbolID, false
	}
	scopeID := r.CurrentScope()
	for scopeID.IsValid() {
		scope := r.table.Scopes.Get(scopeID)
		if scope == nil {
			break
		}
		if id := lookupInScope(r.table, scope, name, mask); id.IsValid() {
			return id, true
		}
		scopeID = scope.Parent
	}
	return NoSymbolID, false
}

// LookupFrom is LookupMasked starting at an arbitrary scope, independent of
// the resolver's own stack. The linking pass uses it to resolve from
// recorded scopes.
func (r *Resolver) LookupFrom(start ScopeID, name source.StringID, mask KindMask) (SymbolID, bool) {
	if mask == KindMaskNone {
		return NoSymbolID, false
	}
	scopeID := start
	for scopeID.IsValid() {
		scope := r.table.Scopes.Get(scopeID)
		if scope == nil {
			break
		}
		if id := lookupInScope(r.table, scope, name, mask); id.IsValid() {
			return id, true
		}
		scopeID = scope.Parent
	}
	return NoSymbolID, false
}

// lookupInScope returns the first declaration matching the mask; within one
// scope имена не перекрываются, так что "первый" и есть единственный.
func lookupInScope(t *Table, scope *Scope, name source.StringID, mask KindMask) SymbolID {
	for _, id := range scope.NameIndex[name] {
		if sym := t.Symbols.Get(id); sym != nil && matchKind(mask, sym.Kind) {
			return id
		}
	}
	return NoSymbolID
}

func (r *Resolver) reportDuplicate(name source.StringID, span source.Span, prev *Symbol) {
	if r.reporter == nil {
		return
	}
	nameStr := r.table.Strings.MustLookup(name)
	msg := fmt.Sprintf("duplicate definition of %q", nameStr)
	builder := diag.ReportError(r.reporter, diag.SemaDuplicateDefinition, span, msg)
	noteMsg := "previous definition here"
	if prev.Flags&SymbolFlagBuiltin != 0 {
		noteMsg = "built-in definition"
	}
	if prev.Span != (source.Span{}) {
		builder.WithNote(prev.Span, noteMsg)
	}
	builder.Emit()
}
