package interpret_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siteforge-io/surreal-codegen-sub000/internal/ast"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/interpret"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/kind"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/schema"
)

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

func idiom(names ...string) ast.Idiom {
	return ast.Idiom{Parts: fpath(names...)}
}

func userSchema(t *testing.T) *schema.Schema {
	t.Helper()
	stmts := []ast.Statement{
		ast.DefineTableStatement{Name: "user"},
		ast.DefineFieldStatement{Table: "user", Path: fpath("name"), Kind: kind.String{}},
	}
	s, err := schema.Elaborate(stmts)
	require.NoError(t, err)
	return s
}

// SELECT VALUE name FROM ONLY user -> Option(String)
func TestScenarioSelectValueOnly(t *testing.T) {
	sch := userSchema(t)
	ip := interpret.New(sch)
	sel := &ast.SelectStatement{
		What:      []ast.Expr{ast.TableRef{Name: "user"}},
		Only:      true,
		ValueMode: true,
		Fields:    []ast.FieldProj{{Expr: idiom("name")}},
	}
	prog := &ast.Program{Statements: []ast.Statement{*sel}}
	res, err := ip.InterpretProgram(prog, nil)
	require.NoError(t, err)
	require.Len(t, res.Statements, 1)
	assert.Equal(t, kind.Option{Inner: kind.String{}}, res.Statements[0])
}

// SELECT * FROM ONLY user -> Option(Object({id, name}))
func TestScenarioSelectStarOnly(t *testing.T) {
	sch := userSchema(t)
	ip := interpret.New(sch)
	sel := ast.SelectStatement{
		What:   []ast.Expr{ast.TableRef{Name: "user"}},
		Only:   true,
		Fields: []ast.FieldProj{{All: true}},
	}
	prog := &ast.Program{Statements: []ast.Statement{sel}}
	res, err := ip.InterpretProgram(prog, nil)
	require.NoError(t, err)
	require.Len(t, res.Statements, 1)

	opt, ok := res.Statements[0].(kind.Option)
	require.True(t, ok)
	obj, ok := opt.Inner.(kind.Object)
	require.True(t, ok)
	assert.Equal(t, kind.Record{Tables: []string{"user"}}, obj.Fields["id"])
	assert.Equal(t, kind.String{}, obj.Fields["name"])
}

// SELECT id, xyz.foo, xyz.abc FROM user, where
// xyz: option<{foo: option<string>, abc: option<string>}> merges the
// two projections back into one shared object under xyz.
func TestScenarioMergedNestedProjection(t *testing.T) {
	stmts := []ast.Statement{
		ast.DefineTableStatement{Name: "user"},
		ast.DefineFieldStatement{Table: "user", Path: fpath("xyz"), Kind: kind.Option{
			Inner: kind.NewObject(map[string]kind.Kind{
				"foo": kind.Option{Inner: kind.String{}},
				"abc": kind.Option{Inner: kind.String{}},
			}),
		}},
	}
	sch, err := schema.Elaborate(stmts)
	require.NoError(t, err)

	ip := interpret.New(sch)
	sel := ast.SelectStatement{
		What: []ast.Expr{ast.TableRef{Name: "user"}},
		Fields: []ast.FieldProj{
			{Expr: idiom("id")},
			{Expr: idiom("xyz", "foo")},
			{Expr: idiom("xyz", "abc")},
		},
	}
	prog := &ast.Program{Statements: []ast.Statement{sel}}
	res, err := ip.InterpretProgram(prog, nil)
	require.NoError(t, err)
	require.Len(t, res.Statements, 1)

	arr, ok := res.Statements[0].(kind.Array)
	require.True(t, ok)
	obj, ok := arr.Element.(kind.Object)
	require.True(t, ok)

	assert.Equal(t, kind.Record{Tables: []string{"user"}}, obj.Fields["id"])

	xyzOpt, ok := obj.Fields["xyz"].(kind.Option)
	require.True(t, ok, "xyz must carry its own declared optionality, not be double-wrapped")
	xyzObj, ok := xyzOpt.Inner.(kind.Object)
	require.True(t, ok)
	assert.Equal(t, kind.Option{Inner: kind.String{}}, xyzObj.Fields["foo"])
	assert.Equal(t, kind.Option{Inner: kind.String{}}, xyzObj.Fields["abc"])
}

// Selecting through a view yields the view's own record id, not
// the source table's.
func TestViewIDOverridesSourceTable(t *testing.T) {
	viewSel := &ast.SelectStatement{
		What:   []ast.Expr{ast.TableRef{Name: "user"}},
		Fields: []ast.FieldProj{{All: true}},
	}
	stmts := []ast.Statement{
		ast.DefineTableStatement{Name: "user"},
		ast.DefineFieldStatement{Table: "user", Path: fpath("name"), Kind: kind.String{}},
		ast.DefineTableStatement{Name: "user_view", View: &ast.ViewDef{Select: viewSel}},
	}
	sch, err := schema.Elaborate(stmts)
	require.NoError(t, err)

	ip := interpret.New(sch)
	row, err := ip.SelectFieldsFor("user_view", map[string]bool{})
	require.NoError(t, err)

	obj, ok := row.(kind.Object)
	require.True(t, ok)
	assert.Equal(t, kind.Record{Tables: []string{"user_view"}}, obj.Fields["id"])
	assert.Equal(t, kind.String{}, obj.Fields["name"])
}

// DELETE user RETURN $before -> Array(Object({before: Object({id,name})}))
// with no required variables (before/after/this are statement-scoped,
// not free parameters).
func TestScenarioDeleteReturnBefore(t *testing.T) {
	sch := userSchema(t)
	ip := interpret.New(sch)
	del := ast.DeleteStatement{
		What: []ast.Expr{ast.TableRef{Name: "user"}},
		Return: &ast.ReturnClause{
			Mode:   ast.ReturnFields,
			Fields: []ast.FieldProj{{Expr: ast.ParamRef{Name: "before"}}},
		},
	}
	prog := &ast.Program{Statements: []ast.Statement{del}}
	res, err := ip.InterpretProgram(prog, nil)
	require.NoError(t, err)
	require.Len(t, res.Statements, 1)

	arr, ok := res.Statements[0].(kind.Array)
	require.True(t, ok)
	obj, ok := arr.Element.(kind.Object)
	require.True(t, ok)
	before, ok := obj.Fields["before"].(kind.Object)
	require.True(t, ok)
	assert.Equal(t, kind.Record{Tables: []string{"user"}}, before.Fields["id"])
	assert.Equal(t, kind.String{}, before.Fields["name"])

	assert.Empty(t, res.Env.RequiredVariables())
}

// A deleted row has no AFTER state: explicit RETURN AFTER types the
// same as the bare default, Null per row.
func TestDeleteReturnAfterIsNull(t *testing.T) {
	sch := userSchema(t)
	ip := interpret.New(sch)
	del := ast.DeleteStatement{
		What:   []ast.Expr{ast.TableRef{Name: "user"}},
		Return: &ast.ReturnClause{Mode: ast.ReturnAfter},
	}
	prog := &ast.Program{Statements: []ast.Statement{del}}
	res, err := ip.InterpretProgram(prog, nil)
	require.NoError(t, err)
	require.Len(t, res.Statements, 1)
	assert.Equal(t, kind.Array{Element: kind.Null{}}, res.Statements[0])
}

// UPDATE's $before is nullable (the row may not have existed), so
// RETURN BEFORE yields Either(select_obj, Null) per row.
func TestUpdateReturnBeforeIsNullableRow(t *testing.T) {
	sch := userSchema(t)
	ip := interpret.New(sch)
	upd := ast.UpdateStatement{
		What:   []ast.Expr{ast.TableRef{Name: "user"}},
		Return: &ast.ReturnClause{Mode: ast.ReturnBefore},
	}
	prog := &ast.Program{Statements: []ast.Statement{upd}}
	res, err := ip.InterpretProgram(prog, nil)
	require.NoError(t, err)
	require.Len(t, res.Statements, 1)

	selectObj := sch.Tables["user"].SelectKind
	want := kind.Array{Element: kind.NewEither([]kind.Kind{selectObj, kind.Null{}})}
	assert.True(t, kind.Equal(want, res.Statements[0]), kind.Render(res.Statements[0]))
}

// The same nullable $before binding must flow into a RETURN FIELDS
// projection.
func TestUpdateReturnFieldsBindsNullableBefore(t *testing.T) {
	sch := userSchema(t)
	ip := interpret.New(sch)
	upd := ast.UpdateStatement{
		What: []ast.Expr{ast.TableRef{Name: "user"}},
		Return: &ast.ReturnClause{
			Mode:   ast.ReturnFields,
			Fields: []ast.FieldProj{{Expr: ast.ParamRef{Name: "before"}}},
		},
	}
	prog := &ast.Program{Statements: []ast.Statement{upd}}
	res, err := ip.InterpretProgram(prog, nil)
	require.NoError(t, err)
	require.Len(t, res.Statements, 1)

	selectObj := sch.Tables["user"].SelectKind
	want := kind.Array{Element: kind.NewObject(map[string]kind.Kind{
		"before": kind.NewEither([]kind.Kind{selectObj, kind.Null{}}),
	})}
	assert.True(t, kind.Equal(want, res.Statements[0]), kind.Render(res.Statements[0]))
}

// INSERT always produces an Array (no ONLY form) and infers its
// content parameter against the table's create shape.
func TestInsertAlwaysProducesArrayAndInfersContent(t *testing.T) {
	sch := userSchema(t)
	ip := interpret.New(sch)
	ins := ast.InsertStatement{
		What:    ast.TableRef{Name: "user"},
		Content: ast.ParamRef{Name: "rows"},
	}
	prog := &ast.Program{Statements: []ast.Statement{ins}}
	res, err := ip.InterpretProgram(prog, nil)
	require.NoError(t, err)
	require.Len(t, res.Statements, 1)

	want := kind.Array{Element: sch.Tables["user"].SelectKind}
	assert.True(t, kind.Equal(want, res.Statements[0]), kind.Render(res.Statements[0]))

	createKind := sch.Tables["user"].CreateKind
	required := res.Env.RequiredVariables()
	require.Contains(t, required, "rows")
	wantRows := kind.NewEither([]kind.Kind{kind.Array{Element: createKind}, createKind})
	assert.True(t, kind.Equal(wantRows, required["rows"]), kind.Render(required["rows"]))
}

// There is no BEFORE row for an insert, so RETURN BEFORE yields Null
// per inserted row.
func TestInsertReturnBeforeIsNull(t *testing.T) {
	sch := userSchema(t)
	ip := interpret.New(sch)
	ins := ast.InsertStatement{
		What:    ast.TableRef{Name: "user"},
		Content: ast.ParamRef{Name: "rows"},
		Return:  &ast.ReturnClause{Mode: ast.ReturnBefore},
	}
	prog := &ast.Program{Statements: []ast.Statement{ins}}
	res, err := ip.InterpretProgram(prog, nil)
	require.NoError(t, err)
	require.Len(t, res.Statements, 1)
	assert.Equal(t, kind.Array{Element: kind.Null{}}, res.Statements[0])
}

// UPSERT's row may pre-exist, so unlike CREATE its $before is the
// record object rather than Null.
func TestUpsertReturnBeforeIsRecordObject(t *testing.T) {
	sch := userSchema(t)
	ip := interpret.New(sch)
	ups := ast.UpsertStatement{
		What:   []ast.Expr{ast.TableRef{Name: "user"}},
		Return: &ast.ReturnClause{Mode: ast.ReturnBefore},
	}
	prog := &ast.Program{Statements: []ast.Statement{ups}}
	res, err := ip.InterpretProgram(prog, nil)
	require.NoError(t, err)
	require.Len(t, res.Statements, 1)

	want := kind.Array{Element: sch.Tables["user"].SelectKind}
	assert.True(t, kind.Equal(want, res.Statements[0]), kind.Render(res.Statements[0]))
}

// CREATE user CONTENT $user -> required $user:
// Either(Array(create_kind), create_kind)
func TestScenarioCreateContentParamInference(t *testing.T) {
	sch := userSchema(t)
	ip := interpret.New(sch)
	create := ast.CreateStatement{
		What:    []ast.Expr{ast.TableRef{Name: "user"}},
		Content: ast.ParamRef{Name: "user"},
	}
	prog := &ast.Program{Statements: []ast.Statement{create}}
	res, err := ip.InterpretProgram(prog, nil)
	require.NoError(t, err)

	required := res.Env.RequiredVariables()
	require.Contains(t, required, "user")
	either, ok := required["user"].(kind.Either)
	require.True(t, ok)
	require.Len(t, either.Members, 2)

	createKind := sch.Tables["user"].CreateKind
	assert.Contains(t, either.Members, kind.Array{Element: createKind})
	assert.Contains(t, either.Members, createKind)
}

// A top-level declared parameter cast must round-trip into
// RequiredVariables even with no statement referencing it again.
func TestScenarioDeclaredParameterRoundTrips(t *testing.T) {
	sch := userSchema(t)
	ip := interpret.New(sch)
	prog := &ast.Program{
		Statements: []ast.Statement{
			ast.ReturnStatement{Value: ast.NumberLit{Value: "1"}},
		},
		Declared: []ast.DeclaredParam{{Name: "limit", Kind: kind.Int{}}},
	}
	res, err := ip.InterpretProgram(prog, nil)
	require.NoError(t, err)
	required := res.Env.RequiredVariables()
	assert.Equal(t, kind.Int{}, required["limit"])
}

func TestBinaryPlusRequiresMatchingOperands(t *testing.T) {
	sch := userSchema(t)
	ip := interpret.New(sch)
	ret := ast.ReturnStatement{
		Value: ast.BinaryExpr{Op: "+", Left: ast.StringLit{Value: "a"}, Right: ast.NumberLit{Value: "1"}},
	}
	prog := &ast.Program{Statements: []ast.Statement{ret}}
	_, err := ip.InterpretProgram(prog, nil)
	assert.Error(t, err)
}

func TestBuiltinFunctionCount(t *testing.T) {
	sch := userSchema(t)
	ip := interpret.New(sch)
	ret := ast.ReturnStatement{Value: ast.FunctionCall{Name: "count"}}
	prog := &ast.Program{Statements: []ast.Statement{ret}}
	res, err := ip.InterpretProgram(prog, nil)
	require.NoError(t, err)
	assert.Equal(t, kind.Number{}, res.Statements[0])
}

func TestUserDefinedFunctionBindsArgsAndInterpretsBody(t *testing.T) {
	stmts := []ast.Statement{
		ast.DefineTableStatement{Name: "user"},
		ast.DefineFieldStatement{Table: "user", Path: fpath("name"), Kind: kind.String{}},
		ast.DefineFunctionStatement{
			Name: "fn::greet",
			Args: []ast.FunctionArg{{Name: "who", Kind: kind.String{}}},
			Body: []ast.Statement{
				ast.ReturnStatement{Value: ast.ParamRef{Name: "who"}},
			},
		},
	}
	sch, err := schema.Elaborate(stmts)
	require.NoError(t, err)

	ip := interpret.New(sch)
	ret := ast.ReturnStatement{
		Value: ast.FunctionCall{Name: "fn::greet", Args: []ast.Expr{ast.StringLit{Value: "hi"}}},
	}
	prog := &ast.Program{Statements: []ast.Statement{ret}}
	res, err := ip.InterpretProgram(prog, nil)
	require.NoError(t, err)
	assert.Equal(t, kind.String{}, res.Statements[0])
}

func TestLetRequiresAnnotation(t *testing.T) {
	sch := userSchema(t)
	ip := interpret.New(sch)
	let := ast.LetStatement{Name: "x", Value: ast.NumberLit{Value: "1"}}
	prog := &ast.Program{Statements: []ast.Statement{let}}
	_, err := ip.InterpretProgram(prog, nil)
	assert.Error(t, err)
}

func TestViewCycleDetected(t *testing.T) {
	selA := &ast.SelectStatement{What: []ast.Expr{ast.TableRef{Name: "b"}}, Fields: []ast.FieldProj{{All: true}}}
	selB := &ast.SelectStatement{What: []ast.Expr{ast.TableRef{Name: "a"}}, Fields: []ast.FieldProj{{All: true}}}
	stmts := []ast.Statement{
		ast.DefineTableStatement{Name: "a", View: &ast.ViewDef{Select: selA}},
		ast.DefineTableStatement{Name: "b", View: &ast.ViewDef{Select: selB}},
	}
	sch, err := schema.Elaborate(stmts)
	require.NoError(t, err)

	ip := interpret.New(sch)
	_, err = ip.SelectFieldsFor("a", map[string]bool{})
	assert.Error(t, err)
}
