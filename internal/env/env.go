// Package env implements the per-query lexical environment: the
// cast-declared and usage-inferred parameter maps, and the scope stack
// carrying $this/$before/$after/$parent/$value and LET-bound locals.
package env

import (
	"github.com/siteforge-io/surreal-codegen-sub000/internal/diag"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/kind"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/schema"
)

// Environment is created fresh per query, borrows the immutable
// Schema, and is mutated during interpretation (scope push/pop,
// parameter inference). It is discarded after emission.
type Environment struct {
	Schema *schema.Schema

	declared map[string]kind.Kind
	inferred map[string]kind.Kind
	stack    []map[string]kind.Kind
}

// New creates an Environment over schema, pre-populated with declared
// top-level cast parameters.
func New(sch *schema.Schema, declared map[string]kind.Kind) *Environment {
	d := make(map[string]kind.Kind, len(declared))
	for k, v := range declared {
		d[k] = v
	}
	return &Environment{
		Schema:   sch,
		declared: d,
		inferred: map[string]kind.Kind{},
		stack:    []map[string]kind.Kind{},
	}
}

// Push opens a new lexical frame, e.g. entering a subquery or a CREATE
// statement's $this/$before/$after bindings.
func (e *Environment) Push(bindings map[string]kind.Kind) {
	if bindings == nil {
		bindings = map[string]kind.Kind{}
	}
	e.stack = append(e.stack, bindings)
}

// Pop closes the most recently pushed frame.
func (e *Environment) Pop() {
	if len(e.stack) == 0 {
		return
	}
	e.stack = e.stack[:len(e.stack)-1]
}

// Bind sets a binding in the current (topmost) frame, pushing an empty
// frame first when the stack is empty. LET does not use it: LET writes
// through to Infer instead.
func (e *Environment) Bind(name string, k kind.Kind) {
	if len(e.stack) == 0 {
		e.Push(nil)
	}
	e.stack[len(e.stack)-1][name] = k
}

// Lookup resolves name with precedence: top of stack → lower frames →
// declared → inferred → absent. Schema-level globals have no bindings
// of their own in this model; a bare name that isn't a parameter is a
// table/function reference resolved by the caller, not by Lookup.
func (e *Environment) Lookup(name string) (kind.Kind, bool) {
	for i := len(e.stack) - 1; i >= 0; i-- {
		if k, ok := e.stack[i][name]; ok {
			return k, true
		}
	}
	if k, ok := e.declared[name]; ok {
		return k, true
	}
	if k, ok := e.inferred[name]; ok {
		return k, true
	}
	return nil, false
}

// MustLookup resolves name or returns UnknownParameter.
func (e *Environment) MustLookup(name string) (kind.Kind, error) {
	if k, ok := e.Lookup(name); ok {
		return k, nil
	}
	return nil, diag.Wrapf(diag.ErrUnknownParameter, "unknown parameter", "$"+name)
}

// Infer records a kind inferred for a usage-typed parameter.
// Last-writer-wins: a later inference for the same name silently
// overwrites an earlier one rather than widening to a union, since a
// parameter used inconsistently across a query is a query smell, not
// a type-lattice problem this package needs to resolve.
func (e *Environment) Infer(name string, k kind.Kind) {
	e.inferred[name] = k
}

// RequiredVariables returns the union of declared and inferred
// parameters: every free variable a caller of this query must supply.
func (e *Environment) RequiredVariables() map[string]kind.Kind {
	out := make(map[string]kind.Kind, len(e.declared)+len(e.inferred))
	for k, v := range e.declared {
		out[k] = v
	}
	for k, v := range e.inferred {
		out[k] = v
	}
	return out
}
