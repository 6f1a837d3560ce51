package interpret

import (
	"github.com/siteforge-io/surreal-codegen-sub000/internal/ast"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/diag"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/env"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/kind"
)

// SelectFieldsFor resolves the select-kind of a table or view by name.
// Tables are precomputed at elaboration time; views are typed lazily on
// first reference and memoized, with visited tracking per call chain
// to reject reference cycles (a view whose defining SELECT reaches
// back to itself, directly or through another view).
func (ip *Interpreter) SelectFieldsFor(table string, visited map[string]bool) (kind.Kind, error) {
	if t, ok := ip.Schema.Tables[table]; ok {
		return t.SelectKind, nil
	}

	v, ok := ip.Schema.Views[table]
	if !ok {
		return nil, diag.Wrapf(diag.ErrUnknownTable, "unknown table or view", table)
	}

	if cached, done := v.Memoized(); done {
		return cached, nil
	}
	if visited[table] {
		return nil, diag.Wrapf(diag.ErrViewCycle, "view references form a cycle", table)
	}
	visited[table] = true

	// Computed without holding the view's lock: two queries racing to
	// type the same view at worst duplicate the work, and Store keeps
	// the first result.
	sub := env.New(ip.Schema, nil)
	row, err := ip.rowKindForSelect(v.Select, sub, visited)
	if err != nil {
		return nil, err
	}

	injected := injectViewID(row, table)
	v.Store(injected)
	return injected, nil
}

// injectViewID forces a view's id field to Record([view_name]),
// overriding whatever id its source table's select projection carried:
// a row selected through the view is addressed by the view's own
// record ID, not its source table's.
func injectViewID(row kind.Kind, viewName string) kind.Kind {
	obj, ok := row.(kind.Object)
	if !ok {
		return row
	}
	fields := make(map[string]kind.Kind, len(obj.Fields))
	for name, fk := range obj.Fields {
		fields[name] = fk
	}
	fields["id"] = kind.Record{Tables: []string{viewName}}
	return kind.NewObject(fields)
}

// resolveTarget maps one `what` expression (SELECT/CREATE/UPDATE/...'s
// target list entry) to the table names it ranges over: a bare table
// name directly, or a parameter whose inferred/declared kind is a
// Record reference.
func (ip *Interpreter) resolveTarget(e ast.Expr, envr *env.Environment) ([]string, error) {
	switch v := e.(type) {
	case ast.TableRef:
		return []string{v.Name}, nil
	case ast.ParamRef:
		k, err := envr.MustLookup(v.Name)
		if err != nil {
			return nil, err
		}
		k = unwrapOption(k)
		if rec, ok := k.(kind.Record); ok {
			return rec.Tables, nil
		}
		return nil, diag.Wrapf(diag.ErrUnsupportedStatement, "parameter used as a query target is not a record reference", v.Name)
	default:
		return nil, diag.New(diag.ErrUnsupportedStatement, "unsupported query target expression")
	}
}

// resolveWhatContext resolves a full `what` list to the ambient
// field-type context: distinct tables are unioned via Either, with
// duplicates collapsed before the union is even built.
func (ip *Interpreter) resolveWhatContext(what []ast.Expr, envr *env.Environment, visited map[string]bool) (kind.Kind, error) {
	seen := map[string]bool{}
	var tables []string
	for _, w := range what {
		ts, err := ip.resolveTarget(w, envr)
		if err != nil {
			return nil, err
		}
		for _, t := range ts {
			if !seen[t] {
				seen[t] = true
				tables = append(tables, t)
			}
		}
	}

	kinds := make([]kind.Kind, 0, len(tables))
	for _, t := range tables {
		k, err := ip.SelectFieldsFor(t, visited)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kind.NewEither(kinds), nil
}

func unwrapOption(k kind.Kind) kind.Kind {
	if o, ok := k.(kind.Option); ok {
		return unwrapOption(o.Inner)
	}
	return k
}
