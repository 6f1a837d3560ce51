package kind_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/siteforge-io/surreal-codegen-sub000/internal/kind"
)

func TestEitherSetSemantics(t *testing.T) {
	a := kind.NewEither([]kind.Kind{kind.String{}, kind.Number{}})
	b := kind.NewEither([]kind.Kind{kind.Number{}, kind.String{}})
	assert.True(t, kind.Equal(a, b), "Either([A,B]) must equal Either([B,A])")
}

func TestEitherFlattensNested(t *testing.T) {
	nested := kind.NewEither([]kind.Kind{
		kind.NewEither([]kind.Kind{kind.String{}, kind.Number{}}),
		kind.Bool{},
	})
	flat := kind.NewEither([]kind.Kind{kind.String{}, kind.Number{}, kind.Bool{}})
	assert.True(t, kind.Equal(nested, flat))

	either, ok := nested.(kind.Either)
	if assert.True(t, ok, "expected a flattened Either, not a collapsed singleton") {
		assert.Len(t, either.Members, 3)
	}
}

func TestEitherSingletonCollapses(t *testing.T) {
	collapsed := kind.NewEither([]kind.Kind{kind.String{}})
	assert.Equal(t, kind.String{}, collapsed)
}

func TestEitherDedupes(t *testing.T) {
	collapsed := kind.NewEither([]kind.Kind{kind.String{}, kind.String{}})
	assert.Equal(t, kind.String{}, collapsed)
}

func TestCanonIdempotent(t *testing.T) {
	k := kind.Array{Element: kind.NewEither([]kind.Kind{
		kind.NewEither([]kind.Kind{kind.String{}, kind.Number{}}),
		kind.Number{},
	})}

	once := kind.Canon(k)
	twice := kind.Canon(once)
	assert.True(t, kind.Equal(once, twice))
}

func TestObjectEqualityIgnoresInsertionOrder(t *testing.T) {
	a := kind.NewObject(map[string]kind.Kind{"a": kind.String{}, "b": kind.Number{}})
	b := kind.NewObject(map[string]kind.Kind{"b": kind.Number{}, "a": kind.String{}})
	assert.True(t, kind.Equal(a, b))
}

func TestObjectKeysSorted(t *testing.T) {
	obj := kind.NewObject(map[string]kind.Kind{"zeta": kind.String{}, "alpha": kind.String{}})
	assert.Equal(t, []string{"alpha", "zeta"}, obj.Keys())
}

func TestIsDoubleOption(t *testing.T) {
	assert.True(t, kind.IsDoubleOption(kind.Option{Inner: kind.Option{Inner: kind.String{}}}))
	assert.False(t, kind.IsDoubleOption(kind.Option{Inner: kind.String{}}))
	assert.False(t, kind.IsDoubleOption(kind.String{}))
}

func TestWrapOptionDoesNotDoubleWrapExistingOption(t *testing.T) {
	wrapped := kind.WrapOption(kind.Option{Inner: kind.String{}})
	assert.Equal(t, kind.Option{Inner: kind.String{}}, wrapped)
}

func TestStringRendersObjectSorted(t *testing.T) {
	obj := kind.NewObject(map[string]kind.Kind{"b": kind.Number{}, "a": kind.String{}})
	rendered := kind.Render(obj)
	assert.Contains(t, rendered, "a: string")
	assert.Less(t, indexOf(rendered, "a:"), indexOf(rendered, "b:"))
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
