package interpret

import (
	"github.com/siteforge-io/surreal-codegen-sub000/internal/diag"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/kind"
)

// constantKind covers the built-in constant symbols (math::PI/E,
// time::EPOCH, duration::MAX, and similar); any other name is an
// ErrUnknownFunction, the same code used for unknown built-in function
// calls since both share one namespace at the call site.
var constantKinds = map[string]kind.Kind{
	"math::PI":         kind.Number{},
	"math::E":          kind.Number{},
	"math::INF":        kind.Number{},
	"math::NEG_INF":    kind.Number{},
	"time::EPOCH":      kind.Datetime{},
	"duration::MAX":    kind.Duration{},
	"duration::SECOND": kind.Duration{},
}

func constantKind(name string) (kind.Kind, error) {
	if k, ok := constantKinds[name]; ok {
		return k, nil
	}
	return nil, diag.Wrapf(diag.ErrUnknownFunction, "unknown constant", name)
}

// builtinFunctionKind is the return-kind lookup table for built-in
// functions that are not backed by a schema-defined fn::. It covers
// the aggregates, temporal helpers, and cryptographic hashes a query
// is expected to call.
var builtinFunctionKinds = map[string]kind.Kind{
	"count": kind.Number{},

	"math::abs":   kind.Number{},
	"math::ceil":  kind.Number{},
	"math::floor": kind.Number{},
	"math::round": kind.Number{},
	"math::max":   kind.Number{},
	"math::min":   kind.Number{},
	"math::sum":   kind.Number{},
	"math::mean":  kind.Number{},
	"math::sqrt":  kind.Number{},

	"time::now":    kind.Datetime{},
	"time::unix":   kind.Number{},
	"time::year":   kind.Number{},
	"time::month":  kind.Number{},
	"time::day":    kind.Number{},
	"time::hour":   kind.Number{},
	"time::floor":  kind.Datetime{},
	"time::round":  kind.Datetime{},
	"time::format": kind.String{},

	"duration::days":        kind.Number{},
	"duration::hours":       kind.Number{},
	"duration::mins":        kind.Number{},
	"duration::secs":        kind.Number{},
	"duration::from::days":  kind.Duration{},
	"duration::from::hours": kind.Duration{},
	"duration::from::mins":  kind.Duration{},
	"duration::from::secs":  kind.Duration{},

	"crypto::md5":              kind.String{},
	"crypto::sha1":             kind.String{},
	"crypto::sha256":           kind.String{},
	"crypto::sha512":           kind.String{},
	"crypto::bcrypt::generate": kind.String{},
	"crypto::bcrypt::compare":  kind.Bool{},

	"meta::id":    kind.String{},
	"meta::table": kind.String{},

	"string::concat":      kind.String{},
	"string::lowercase":   kind.String{},
	"string::uppercase":   kind.String{},
	"string::trim":        kind.String{},
	"string::len":         kind.Number{},
	"string::slice":       kind.String{},
	"string::starts_with": kind.Bool{},
	"string::ends_with":   kind.Bool{},
	"string::contains":    kind.Bool{},

	"array::len":      kind.Number{},
	"array::distinct": kind.Array{Element: kind.Any{}},
	"array::flatten":  kind.Array{Element: kind.Any{}},

	"type::string": kind.String{},
	"type::number": kind.Number{},
	"type::bool":   kind.Bool{},
	"type::int":    kind.Int{},
	"type::float":  kind.Float{},

	"rand":       kind.Number{},
	"rand::uuid": kind.Uuid{},
}

func builtinFunctionKind(name string) (kind.Kind, error) {
	if k, ok := builtinFunctionKinds[name]; ok {
		return k, nil
	}
	return nil, diag.Wrapf(diag.ErrUnknownFunction, "unknown built-in function", name)
}
