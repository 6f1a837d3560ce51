// Package interpret is the statement interpreter and idiom/expression
// evaluator: the two mutually recursive halves of the core inference
// engine, kept in one package (split across files) since neither can
// be typed without the other — a SELECT's field list calls into idiom
// resolution, and idiom resolution's Record descent calls back into
// statement interpretation to lazily type a view.
package interpret

import (
	"fmt"

	"github.com/siteforge-io/surreal-codegen-sub000/internal/ast"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/diag"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/env"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/kind"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/schema"
)

// Interpreter ties statement interpretation and idiom resolution to one
// immutable Schema. It holds no per-query state; an Environment carries
// that instead, so one Interpreter can type many queries concurrently.
type Interpreter struct {
	Schema *schema.Schema
}

// New builds an Interpreter over a fully elaborated schema.
func New(sch *schema.Schema) *Interpreter {
	return &Interpreter{Schema: sch}
}

// Result is the typed outcome of one query document: the per-statement
// result kinds in source order (BEGIN/COMMIT are transparent and
// contribute no entry) and the environment, from which required
// variables are read.
type Result struct {
	Statements []kind.Kind
	Env        *env.Environment
}

// InterpretProgram types every statement in prog in source order,
// seeding the environment with prog's declared (top-level cast)
// parameters plus any global parameter bindings supplied by the
// caller (merged documents of bare `<K> $name;` casts).
func (ip *Interpreter) InterpretProgram(prog *ast.Program, globals map[string]kind.Kind) (*Result, error) {
	declared := make(map[string]kind.Kind, len(prog.Declared)+len(globals))
	for name, k := range globals {
		declared[name] = k
	}
	for _, d := range prog.Declared {
		declared[d.Name] = d.Kind
	}

	e := env.New(ip.Schema, declared)

	var results []kind.Kind
	for _, stmt := range prog.Statements {
		k, err := ip.interpretStatement(stmt, e, map[string]bool{})
		if err != nil {
			return nil, err
		}
		if k != nil {
			results = append(results, k)
		}
	}
	return &Result{Statements: results, Env: e}, nil
}

// interpretStatement is the top-level statement dispatch. It returns a
// nil Kind for BEGIN/COMMIT markers and for schema statements appearing
// inline in a query document, since neither produces a result row.
func (ip *Interpreter) interpretStatement(stmt ast.Statement, e *env.Environment, visited map[string]bool) (kind.Kind, error) {
	switch v := stmt.(type) {
	case ast.BeginStatement:
		return nil, nil
	case ast.CommitStatement:
		return nil, nil
	case ast.DefineTableStatement, ast.DefineFieldStatement, ast.DefineFunctionStatement:
		return nil, nil
	case ast.BlockStatement:
		return ip.interpretBlock(v.Stmts, e, visited)
	case ast.SelectStatement:
		return ip.interpretSelect(&v, e, visited)
	case ast.CreateStatement:
		return ip.interpretCreate(&v, e, visited)
	case ast.UpsertStatement:
		return ip.interpretUpsert(&v, e, visited)
	case ast.InsertStatement:
		return ip.interpretInsert(&v, e, visited)
	case ast.UpdateStatement:
		return ip.interpretUpdate(&v, e, visited)
	case ast.DeleteStatement:
		return ip.interpretDelete(&v, e, visited)
	case ast.LetStatement:
		return ip.interpretLet(&v, e, visited)
	case ast.ReturnStatement:
		return ip.interpretReturn(&v, e, visited)
	default:
		return nil, diag.Wrapf(diag.ErrUnsupportedStatement, "statement kind is not supported", fmt.Sprintf("%T", stmt))
	}
}

// interpretBlock runs a sequence of statements (a function body, or a
// parenthesized BEGIN...COMMIT block used as a subquery) and returns
// the kind of the last statement that yielded a row, mirroring how the
// top-level query loop folds transaction markers away.
func (ip *Interpreter) interpretBlock(stmts []ast.Statement, e *env.Environment, visited map[string]bool) (kind.Kind, error) {
	var last kind.Kind
	for _, stmt := range stmts {
		k, err := ip.interpretStatement(stmt, e, visited)
		if err != nil {
			return nil, err
		}
		if k != nil {
			last = k
		}
	}
	if last == nil {
		return kind.Null{}, nil
	}
	return last, nil
}

func returnClauseOf(rc *ast.ReturnClause) (ast.ReturnMode, []ast.FieldProj) {
	if rc == nil {
		return ast.ReturnDefault, nil
	}
	return rc.Mode, rc.Fields
}

func wrapOnly(only bool, row kind.Kind) kind.Kind {
	if only {
		return kind.Option{Inner: row}
	}
	return kind.Array{Element: row}
}
