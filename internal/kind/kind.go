// Package kind implements the static type lattice used throughout the
// inferencer: every statement result, field projection, and parameter
// shape is represented as a Kind tree.
//
// Kind is a closed sum type. Each variant is its own struct implementing
// the unexported marker method, so a type switch over Kind is
// exhaustive by convention: every variant is plain data with no
// behavior beyond construction.
package kind

import "sort"

// Kind is the static type assigned to a value, a statement result, or a
// field projection.
type Kind interface {
	isKind()
}

// Primitive scalars.
type (
	Any      struct{}
	Never    struct{}
	Unknown  struct{}
	Null     struct{}
	Bool     struct{}
	String   struct{}
	Int      struct{}
	Float    struct{}
	Number   struct{}
	Decimal  struct{}
	Datetime struct{}
	Duration struct{}
	Uuid     struct{}
)

func (Any) isKind()      {}
func (Never) isKind()    {}
func (Unknown) isKind()  {}
func (Null) isKind()     {}
func (Bool) isKind()     {}
func (String) isKind()   {}
func (Int) isKind()      {}
func (Float) isKind()    {}
func (Number) isKind()   {}
func (Decimal) isKind()  {}
func (Datetime) isKind() {}
func (Duration) isKind() {}
func (Uuid) isKind()     {}

// StringLit is a singleton string literal type.
type StringLit struct{ Value string }

// NumberLit is a singleton numeric literal type. The literal is kept as
// the source text so integers and floats round-trip without precision
// loss through the emitter.
type NumberLit struct{ Value string }

// DurationLit is a singleton duration literal type, kept as source text
// (e.g. "1h30m").
type DurationLit struct{ Value string }

func (StringLit) isKind()   {}
func (NumberLit) isKind()   {}
func (DurationLit) isKind() {}

// Object is a record-like composite: a set of named fields. Fields are
// logically unordered (insertion-agnostic); Keys() returns them sorted
// so consumers never depend on construction order.
type Object struct {
	Fields map[string]Kind
}

// NewObject builds an Object from a field map, taking ownership of it.
func NewObject(fields map[string]Kind) Object {
	if fields == nil {
		fields = map[string]Kind{}
	}
	return Object{Fields: fields}
}

// Keys returns the object's field names in lexicographic order.
func (o Object) Keys() []string {
	keys := make([]string, 0, len(o.Fields))
	for k := range o.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (Object) isKind() {}

// Array is a homogeneous (possibly Either-typed) sequence.
type Array struct{ Element Kind }

func (Array) isKind() {}

// Option wraps a Kind that may be absent. Option(Option(T)) is a valid
// intermediate value that the idiom evaluator collapses at object
// projection boundaries (see the interpret package's double-option
// rule); the type itself places no restriction on nesting depth.
type Option struct{ Inner Kind }

func (Option) isKind() {}

// Either is the canonicalized sum type over a set of Kinds: flattened
// (no Either directly nests another Either) and order-independent for
// equality purposes. Construct via NewEither, never Either{...} literal,
// to keep that invariant.
type Either struct{ Members []Kind }

func (Either) isKind() {}

// Record references one or more schema tables by name. The list is
// never empty.
type Record struct{ Tables []string }

func (Record) isKind() {}
