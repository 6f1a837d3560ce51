package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siteforge-io/surreal-codegen-sub000/internal/ast"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/kind"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/schema"
)

func field(table string, path []ast.Part, k kind.Kind) ast.DefineFieldStatement {
	return ast.DefineFieldStatement{Table: table, Path: path, Kind: k}
}

func fpath(names ...string) []ast.Part {
	parts := make([]ast.Part, len(names))
	for i, n := range names {
		if n == "*" {
			parts[i] = ast.Part{Kind: ast.PartAll}
			continue
		}
		parts[i] = ast.Part{Kind: ast.PartField, Field: n}
	}
	return parts
}

func TestCreateSelectAsymmetryForDefaultedField(t *testing.T) {
	stmts := []ast.Statement{
		ast.DefineTableStatement{Name: "user"},
		field("user", fpath("name"), kind.String{}),
		func() ast.Statement {
			f := field("user", fpath("age"), kind.Number{})
			f.Default = ast.NumberLit{Value: "30"}
			return f
		}(),
		func() ast.Statement {
			f := field("user", fpath("email"), kind.String{})
			f.Value = ast.FunctionCall{
				Name: "string::lowercase",
				Args: []ast.Expr{ast.ParamRef{Name: "value"}},
			}
			return f
		}(),
		func() ast.Statement {
			f := field("user", fpath("created_at"), kind.Datetime{})
			f.Value = ast.FunctionCall{Name: "time::now"}
			f.ReadOnly = true
			return f
		}(),
	}

	s, err := schema.Elaborate(stmts)
	require.NoError(t, err)

	table := s.Tables["user"]
	require.NotNil(t, table)

	createObj, ok := table.CreateKind.(kind.Object)
	require.True(t, ok)
	assert.Contains(t, createObj.Fields, "name")
	assert.Contains(t, createObj.Fields, "age")
	assert.Contains(t, createObj.Fields, "email")
	assert.NotContains(t, createObj.Fields, "created_at", "VALUE clause without $value must be omitted from create_kind")

	assert.True(t, kind.IsOption(createObj.Fields["age"]), "defaulted field must be optional on create")
	assert.False(t, kind.IsOption(createObj.Fields["email"]), "VALUE clause referencing $value keeps its declared optionality")
	assert.True(t, kind.IsOption(createObj.Fields["id"]), "id is always optional on create")

	selectObj, ok := table.SelectKind.(kind.Object)
	require.True(t, ok)
	assert.False(t, kind.IsOption(selectObj.Fields["age"]), "select_kind never forces optionality from DEFAULT")
	assert.Contains(t, selectObj.Fields, "created_at")
	assert.Equal(t, kind.Record{Tables: []string{"user"}}, selectObj.Fields["id"])
}

func TestArrayElementFieldMerging(t *testing.T) {
	stmts := []ast.Statement{
		ast.DefineTableStatement{Name: "post"},
		field("post", fpath("tags"), kind.Array{Element: kind.Any{}}),
		field("post", fpath("tags", "*"), kind.String{}),
	}
	s, err := schema.Elaborate(stmts)
	require.NoError(t, err)

	obj := s.Tables["post"].SelectKind.(kind.Object)
	arr, ok := obj.Fields["tags"].(kind.Array)
	require.True(t, ok)
	assert.Equal(t, kind.String{}, arr.Element)
}

func TestNestedObjectFieldMerging(t *testing.T) {
	stmts := []ast.Statement{
		ast.DefineTableStatement{Name: "post"},
		field("post", fpath("meta"), kind.Any{}),
		field("post", fpath("meta", "views"), kind.Number{}),
	}
	s, err := schema.Elaborate(stmts)
	require.NoError(t, err)

	obj := s.Tables["post"].SelectKind.(kind.Object)
	meta, ok := obj.Fields["meta"].(kind.Object)
	require.True(t, ok)
	assert.Equal(t, kind.Number{}, meta.Fields["views"])
}

func TestShapeConflictOnRedeclaration(t *testing.T) {
	stmts := []ast.Statement{
		ast.DefineTableStatement{Name: "post"},
		field("post", fpath("meta"), kind.Any{}),
		field("post", fpath("meta", "views"), kind.Number{}),
		field("post", fpath("meta"), kind.String{}),
	}
	_, err := schema.Elaborate(stmts)
	assert.Error(t, err)
}

func TestUnknownFieldTarget(t *testing.T) {
	stmts := []ast.Statement{
		field("ghost", fpath("name"), kind.String{}),
	}
	_, err := schema.Elaborate(stmts)
	assert.Error(t, err)
}

func TestFieldOnViewRejected(t *testing.T) {
	stmts := []ast.Statement{
		ast.DefineTableStatement{Name: "user"},
		ast.DefineTableStatement{Name: "user_view", View: &ast.ViewDef{
			Select: &ast.SelectStatement{What: []ast.Expr{ast.TableRef{Name: "user"}}},
		}},
		field("user_view", fpath("name"), kind.String{}),
	}
	_, err := schema.Elaborate(stmts)
	assert.Error(t, err)
}

func TestDuplicateTableNameConflicts(t *testing.T) {
	stmts := []ast.Statement{
		ast.DefineTableStatement{Name: "user"},
		ast.DefineTableStatement{Name: "user"},
	}
	_, err := schema.Elaborate(stmts)
	assert.Error(t, err)
}
