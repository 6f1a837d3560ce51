package kind_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siteforge-io/surreal-codegen-sub000/internal/kind"
)

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	kinds := []kind.Kind{
		kind.Any{},
		kind.Null{},
		kind.String{},
		kind.Number{},
		kind.StringLit{Value: "on"},
		kind.NumberLit{Value: "42"},
		kind.DurationLit{Value: "1h30m"},
		kind.Record{Tables: []string{"user", "org"}},
		kind.Option{Inner: kind.Datetime{}},
		kind.Array{Element: kind.NewEither([]kind.Kind{kind.String{}, kind.Null{}})},
		kind.NewObject(map[string]kind.Kind{
			"id":   kind.Record{Tables: []string{"user"}},
			"tags": kind.Array{Element: kind.String{}},
			"bio":  kind.Option{Inner: kind.String{}},
		}),
	}

	for _, k := range kinds {
		data, err := kind.Marshal(k)
		require.NoError(t, err)
		back, err := kind.Unmarshal(data)
		require.NoError(t, err)
		assert.True(t, kind.Equal(k, back), "round trip must preserve %s", kind.Render(k))
	}
}

func TestUnmarshalRejectsUnknownTag(t *testing.T) {
	_, err := kind.Unmarshal([]byte(`{"kind":"wormhole"}`))
	assert.Error(t, err)
}
