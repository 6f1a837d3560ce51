package kind

// NewEither builds a canonicalized Either from a set of member kinds:
// nested Eithers are flattened, structural duplicates are removed, and a
// singleton result collapses to its lone member. Canonicalization is
// idempotent: Canon(Canon(k)) == Canon(k) for all k.
func NewEither(members []Kind) Kind {
	flat := make([]Kind, 0, len(members))
	for _, m := range members {
		flat = appendFlattened(flat, m)
	}

	deduped := make([]Kind, 0, len(flat))
	for _, m := range flat {
		if !containsEqual(deduped, m) {
			deduped = append(deduped, m)
		}
	}

	if len(deduped) == 1 {
		return deduped[0]
	}
	if len(deduped) == 0 {
		return Never{}
	}
	return Either{Members: deduped}
}

func appendFlattened(into []Kind, k Kind) []Kind {
	if e, ok := k.(Either); ok {
		for _, m := range e.Members {
			into = appendFlattened(into, m)
		}
		return into
	}
	return append(into, k)
}

func containsEqual(set []Kind, k Kind) bool {
	for _, existing := range set {
		if Equal(existing, k) {
			return true
		}
	}
	return false
}

// Canon recursively canonicalizes a Kind tree: Either sets are flattened
// and deduplicated at every level, Option(Either(...)) is left as-is
// (Option only fuses with Option, per the idiom evaluator's double-option
// rule, not with Either), and composite children are canonicalized
// before their parent.
func Canon(k Kind) Kind {
	switch v := k.(type) {
	case Either:
		return NewEither(canonAll(v.Members))
	case Array:
		return Array{Element: Canon(v.Element)}
	case Option:
		return Option{Inner: Canon(v.Inner)}
	case Object:
		fields := make(map[string]Kind, len(v.Fields))
		for name, fk := range v.Fields {
			fields[name] = Canon(fk)
		}
		return Object{Fields: fields}
	default:
		return k
	}
}

func canonAll(ks []Kind) []Kind {
	out := make([]Kind, len(ks))
	for i, k := range ks {
		out[i] = Canon(k)
	}
	return out
}

// Equal reports structural equality between two Kinds. Either sets are
// compared as unordered sets (so Either([A,B]) == Either([B,A])); Object
// fields are compared by name regardless of map iteration order.
func Equal(a, b Kind) bool {
	switch av := a.(type) {
	case Any:
		_, ok := b.(Any)
		return ok
	case Never:
		_, ok := b.(Never)
		return ok
	case Unknown:
		_, ok := b.(Unknown)
		return ok
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		_, ok := b.(Bool)
		return ok
	case String:
		_, ok := b.(String)
		return ok
	case Int:
		_, ok := b.(Int)
		return ok
	case Float:
		_, ok := b.(Float)
		return ok
	case Number:
		_, ok := b.(Number)
		return ok
	case Decimal:
		_, ok := b.(Decimal)
		return ok
	case Datetime:
		_, ok := b.(Datetime)
		return ok
	case Duration:
		_, ok := b.(Duration)
		return ok
	case Uuid:
		_, ok := b.(Uuid)
		return ok
	case StringLit:
		bv, ok := b.(StringLit)
		return ok && av.Value == bv.Value
	case NumberLit:
		bv, ok := b.(NumberLit)
		return ok && av.Value == bv.Value
	case DurationLit:
		bv, ok := b.(DurationLit)
		return ok && av.Value == bv.Value
	case Object:
		bv, ok := b.(Object)
		if !ok || len(av.Fields) != len(bv.Fields) {
			return false
		}
		for name, fk := range av.Fields {
			other, found := bv.Fields[name]
			if !found || !Equal(fk, other) {
				return false
			}
		}
		return true
	case Array:
		bv, ok := b.(Array)
		return ok && Equal(av.Element, bv.Element)
	case Option:
		bv, ok := b.(Option)
		return ok && Equal(av.Inner, bv.Inner)
	case Either:
		bv, ok := b.(Either)
		if !ok || len(av.Members) != len(bv.Members) {
			return false
		}
		used := make([]bool, len(bv.Members))
		for _, m := range av.Members {
			matched := false
			for i, other := range bv.Members {
				if !used[i] && Equal(m, other) {
					used[i] = true
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		}
		return true
	case Record:
		bv, ok := b.(Record)
		if !ok || len(av.Tables) != len(bv.Tables) {
			return false
		}
		for i, t := range av.Tables {
			if bv.Tables[i] != t {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// IsOption reports whether k is an Option wrapper.
func IsOption(k Kind) bool {
	_, ok := k.(Option)
	return ok
}

// IsDoubleOption reports whether k is Option(Option(_)), the shape the
// object-projection merge must fuse into a single outer Option per the
// idiom evaluator's double-option rule.
func IsDoubleOption(k Kind) bool {
	o, ok := k.(Option)
	if !ok {
		return false
	}
	return IsOption(o.Inner)
}

// WrapOption wraps k in Option unless it is already one.
func WrapOption(k Kind) Kind {
	if IsOption(k) {
		return k
	}
	return Option{Inner: k}
}
