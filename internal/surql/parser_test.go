package surql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siteforge-io/surreal-codegen-sub000/internal/ast"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/kind"
)

func TestParseSchemaDocument(t *testing.T) {
	stmts, err := ParseSchema(`
DEFINE TABLE person SCHEMAFULL;
DEFINE FIELD name ON TABLE person TYPE string;
DEFINE FIELD age ON person TYPE option<int>;
DEFINE FIELD tags ON person TYPE array<string>;
DEFINE FIELD best_friend ON person TYPE option<record<person>>;
DEFINE TABLE adults AS SELECT * FROM person WHERE age > 18;
`)
	require.NoError(t, err)
	require.Len(t, stmts, 6)

	table, ok := stmts[0].(ast.DefineTableStatement)
	require.True(t, ok)
	assert.Equal(t, "person", table.Name)
	assert.Nil(t, table.View)

	nameField, ok := stmts[1].(ast.DefineFieldStatement)
	require.True(t, ok)
	assert.Equal(t, "person", nameField.Table)
	assert.Equal(t, kind.String{}, nameField.Kind)

	ageField := stmts[2].(ast.DefineFieldStatement)
	opt, ok := ageField.Kind.(kind.Option)
	require.True(t, ok)
	assert.Equal(t, kind.Int{}, opt.Inner)

	view, ok := stmts[5].(ast.DefineTableStatement)
	require.True(t, ok)
	require.NotNil(t, view.View)
	assert.Equal(t, "adults", view.Name)
}

func TestParseSelectStatement(t *testing.T) {
	prog, err := Parse(`SELECT name, age FROM person;`)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)

	sel, ok := prog.Statements[0].(ast.SelectStatement)
	require.True(t, ok)
	assert.False(t, sel.Only)
	assert.False(t, sel.ValueMode)
	require.Len(t, sel.Fields, 2)
	require.Len(t, sel.What, 1)
	tableRef, ok := sel.What[0].(ast.TableRef)
	require.True(t, ok)
	assert.Equal(t, "person", tableRef.Name)
}

func TestParseSelectValueOnly(t *testing.T) {
	prog, err := Parse(`SELECT VALUE name FROM ONLY person;`)
	require.NoError(t, err)
	sel := prog.Statements[0].(ast.SelectStatement)
	assert.True(t, sel.ValueMode)
	assert.True(t, sel.Only)
	require.Len(t, sel.Fields, 1)
}

func TestParseCreateContentWithReturn(t *testing.T) {
	prog, err := Parse(`CREATE person CONTENT $data RETURN AFTER;`)
	require.NoError(t, err)
	create := prog.Statements[0].(ast.CreateStatement)
	require.NotNil(t, create.Content)
	param, ok := create.Content.(ast.ParamRef)
	require.True(t, ok)
	assert.Equal(t, "data", param.Name)
	require.NotNil(t, create.Return)
	assert.Equal(t, ast.ReturnAfter, create.Return.Mode)
}

func TestParseDeclaredTopLevelParam(t *testing.T) {
	prog, err := Parse(`<string> $name; SELECT * FROM person WHERE name = $name;`)
	require.NoError(t, err)
	require.Len(t, prog.Declared, 1)
	assert.Equal(t, "name", prog.Declared[0].Name)
	assert.Equal(t, kind.String{}, prog.Declared[0].Kind)
	require.Len(t, prog.Statements, 1)
}

func TestParseGlobalsDocument(t *testing.T) {
	decls, err := ParseGlobals(`
<string> $org_id;
<option<int>> $limit;
`)
	require.NoError(t, err)
	require.Len(t, decls, 2)
	assert.Equal(t, "org_id", decls[0].Name)
	assert.Equal(t, "limit", decls[1].Name)
}

func TestParseLetWithAnnotation(t *testing.T) {
	prog, err := Parse(`LET $x: int = 5; RETURN $x;`)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 2)
	let := prog.Statements[0].(ast.LetStatement)
	assert.Equal(t, "x", let.Name)
	assert.True(t, let.HasKind)
	assert.Equal(t, kind.Int{}, let.Kind)
}

func TestParseIdiomPathWithArrayWildcard(t *testing.T) {
	prog, err := Parse(`SELECT tags.*.name FROM person;`)
	require.NoError(t, err)
	sel := prog.Statements[0].(ast.SelectStatement)
	idiom := sel.Fields[0].Expr.(ast.Idiom)
	require.Len(t, idiom.Parts, 3)
	assert.Equal(t, ast.PartField, idiom.Parts[0].Kind)
	assert.Equal(t, ast.PartAll, idiom.Parts[1].Kind)
	assert.Equal(t, ast.PartField, idiom.Parts[2].Kind)
}

func TestParseSubqueryTransactionBlock(t *testing.T) {
	prog, err := Parse(`RETURN (BEGIN; CREATE person SET name = "a"; COMMIT; RETURN $x);`)
	require.NoError(t, err)
	ret := prog.Statements[0].(ast.ReturnStatement)
	sub, ok := ret.Value.(ast.Subquery)
	require.True(t, ok)
	_, isBlock := sub.Stmt.(ast.BlockStatement)
	assert.True(t, isBlock)
}

func TestParseDefineFunctionBody(t *testing.T) {
	stmts, err := ParseSchema(`
DEFINE FUNCTION fn::greet($name: string) {
	RETURN $name;
};
`)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	fn := stmts[0].(ast.DefineFunctionStatement)
	assert.Equal(t, "fn::greet", fn.Name)
	require.Len(t, fn.Args, 1)
	assert.Equal(t, "name", fn.Args[0].Name)
	require.Len(t, fn.Body, 1)
}

func TestParseDurationAndCastLiteral(t *testing.T) {
	prog, err := Parse(`LET $d = 1h30m; RETURN <int>$d;`)
	require.NoError(t, err)
	let := prog.Statements[0].(ast.LetStatement)
	dur, ok := let.Value.(ast.DurationLit)
	require.True(t, ok)
	assert.Equal(t, "1h30m", dur.Value)

	ret := prog.Statements[1].(ast.ReturnStatement)
	cast, ok := ret.Value.(ast.Cast)
	require.True(t, ok)
	assert.Equal(t, kind.Int{}, cast.Kind)
}

func TestParseUnknownDefineFormIsSkipped(t *testing.T) {
	stmts, err := ParseSchema(`DEFINE INDEX idx_name ON person FIELDS name;`)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
}

func TestParseRejectsUnsupportedStatement(t *testing.T) {
	_, err := Parse(`GRANT ALL ON person;`)
	require.Error(t, err)
}
