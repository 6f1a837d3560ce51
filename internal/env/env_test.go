package env_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siteforge-io/surreal-codegen-sub000/internal/env"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/kind"
)

func TestLookupPrecedenceStackBeatsDeclaredBeatsInferred(t *testing.T) {
	e := env.New(nil, map[string]kind.Kind{"x": kind.String{}})
	e.Infer("x", kind.Number{})
	e.Push(map[string]kind.Kind{"x": kind.Bool{}})

	k, ok := e.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, kind.Bool{}, k, "stack frame must win over declared and inferred")

	e.Pop()
	k, ok = e.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, kind.String{}, k, "declared must win over inferred once the frame closes")
}

func TestInferLastWriterWins(t *testing.T) {
	e := env.New(nil, nil)
	e.Infer("p", kind.String{})
	e.Infer("p", kind.Number{})

	k, ok := e.Lookup("p")
	require.True(t, ok)
	assert.Equal(t, kind.Number{}, k)
}

func TestRequiredVariablesIsUnion(t *testing.T) {
	e := env.New(nil, map[string]kind.Kind{"a": kind.String{}})
	e.Infer("b", kind.Number{})

	req := e.RequiredVariables()
	assert.Equal(t, kind.String{}, req["a"])
	assert.Equal(t, kind.Number{}, req["b"])
	assert.Len(t, req, 2)
}

func TestMustLookupUnknownParameter(t *testing.T) {
	e := env.New(nil, nil)
	_, err := e.MustLookup("missing")
	assert.Error(t, err)
}
