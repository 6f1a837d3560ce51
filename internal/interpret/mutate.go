package interpret

import (
	"github.com/siteforge-io/surreal-codegen-sub000/internal/ast"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/env"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/kind"
)

// resolveReturnRow is the shared RETURN-clause dispatcher every
// mutation statement funnels through once it has computed its
// $before/$after/$this bindings. Default and AFTER are handled
// identically by the caller passing afterKind as the fallback; DELETE
// overrides the default case itself since its unmodified default is
// Null, not AFTER.
func (ip *Interpreter) resolveReturnRow(mode ast.ReturnMode, fields []ast.FieldProj, afterKind, beforeKind, thisKind kind.Kind, e *env.Environment, visited map[string]bool) (kind.Kind, error) {
	switch mode {
	case ast.ReturnNone:
		return kind.Never{}, nil
	case ast.ReturnNull:
		return kind.Null{}, nil
	case ast.ReturnBefore:
		return beforeKind, nil
	case ast.ReturnFields:
		e.Push(map[string]kind.Kind{"before": beforeKind, "after": afterKind, "this": thisKind})
		defer e.Pop()
		return ip.projectFields(fields, thisKind, e, visited)
	default: // ReturnDefault, ReturnAfter
		return afterKind, nil
	}
}

// recordObjectsFor resolves a `what` target list to the record-shaped
// context mutation statements bind $this/$after to: a single table's
// select_kind, or an Either of several when the list names more than
// one table.
func (ip *Interpreter) recordObjectsFor(what []ast.Expr, e *env.Environment, visited map[string]bool) (kind.Kind, []string, error) {
	seen := map[string]bool{}
	var tables []string
	for _, w := range what {
		ts, err := ip.resolveTarget(w, e)
		if err != nil {
			return nil, nil, err
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
			return nil, nil, err
		}
		kinds = append(kinds, k)
	}
	return kind.NewEither(kinds), tables, nil
}

// inferContentParam records $p's required kind when a CONTENT/SET-free
// clause is a bare parameter against known tables: the table's
// create-shape becomes the parameter's required kind, so a caller gets
// that inferred type back the same way a declared `<K> $p;` cast would
// surface it.
func (ip *Interpreter) inferContentParam(content ast.Expr, isSet bool, tables []string, e *env.Environment) {
	if isSet || content == nil {
		return
	}
	pr, ok := content.(ast.ParamRef)
	if !ok {
		return
	}
	createKinds := make([]kind.Kind, 0, len(tables))
	for _, t := range tables {
		if tbl, ok := ip.Schema.Tables[t]; ok {
			createKinds = append(createKinds, tbl.CreateKind)
		}
	}
	if len(createKinds) == 0 {
		return
	}
	create := kind.NewEither(createKinds)
	e.Infer(pr.Name, kind.NewEither([]kind.Kind{kind.Array{Element: create}, create}))
}

func nullifyFields(k kind.Kind) kind.Kind {
	obj, ok := k.(kind.Object)
	if !ok {
		return kind.Null{}
	}
	fields := make(map[string]kind.Kind, len(obj.Fields))
	for name := range obj.Fields {
		fields[name] = kind.Null{}
	}
	return kind.NewObject(fields)
}

func (ip *Interpreter) interpretCreate(v *ast.CreateStatement, e *env.Environment, visited map[string]bool) (kind.Kind, error) {
	after, tables, err := ip.recordObjectsFor(v.What, e, visited)
	if err != nil {
		return nil, err
	}
	ip.inferContentParam(v.Content, v.IsSet, tables, e)

	mode, fields := returnClauseOf(v.Return)
	before := kind.Kind(kind.Null{})
	if mode == ast.ReturnBefore {
		// CREATE has no prior row; BEFORE is always Null.
		row := kind.Kind(kind.Null{})
		return wrapOnly(v.Only, row), nil
	}
	row, err := ip.resolveReturnRow(mode, fields, after, before, after, e, visited)
	if err != nil {
		return nil, err
	}
	return wrapOnly(v.Only, row), nil
}

func (ip *Interpreter) interpretUpsert(v *ast.UpsertStatement, e *env.Environment, visited map[string]bool) (kind.Kind, error) {
	after, tables, err := ip.recordObjectsFor(v.What, e, visited)
	if err != nil {
		return nil, err
	}
	ip.inferContentParam(v.Content, v.IsSet, tables, e)

	mode, fields := returnClauseOf(v.Return)
	// Unlike CREATE, UPSERT's row may pre-exist: $before is the record
	// object, not Null.
	before := after
	row, err := ip.resolveReturnRow(mode, fields, after, before, after, e, visited)
	if err != nil {
		return nil, err
	}
	return wrapOnly(v.Only, row), nil
}

func (ip *Interpreter) interpretInsert(v *ast.InsertStatement, e *env.Environment, visited map[string]bool) (kind.Kind, error) {
	ts, err := ip.resolveTarget(v.What, e)
	if err != nil {
		return nil, err
	}
	kinds := make([]kind.Kind, 0, len(ts))
	for _, t := range ts {
		k, err := ip.SelectFieldsFor(t, visited)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	after := kind.NewEither(kinds)
	ip.inferContentParam(v.Content, false, ts, e)

	mode, fields := returnClauseOf(v.Return)
	if mode == ast.ReturnBefore {
		return kind.Array{Element: kind.Null{}}, nil
	}
	row, err := ip.resolveReturnRow(mode, fields, after, kind.Null{}, after, e, visited)
	if err != nil {
		return nil, err
	}
	return kind.Array{Element: row}, nil
}

func (ip *Interpreter) interpretUpdate(v *ast.UpdateStatement, e *env.Environment, visited map[string]bool) (kind.Kind, error) {
	selectObj, _, err := ip.recordObjectsFor(v.What, e, visited)
	if err != nil {
		return nil, err
	}
	before := kind.NewEither([]kind.Kind{selectObj, kind.Null{}})

	mode, fields := returnClauseOf(v.Return)
	row, err := ip.resolveReturnRow(mode, fields, selectObj, before, selectObj, e, visited)
	if err != nil {
		return nil, err
	}
	return wrapOnly(v.Only, row), nil
}

func (ip *Interpreter) interpretDelete(v *ast.DeleteStatement, e *env.Environment, visited map[string]bool) (kind.Kind, error) {
	selectObj, _, err := ip.recordObjectsFor(v.What, e, visited)
	if err != nil {
		return nil, err
	}
	after := nullifyFields(selectObj)

	mode, fields := returnClauseOf(v.Return)
	// A deleted row has no AFTER state: both the bare default and an
	// explicit RETURN AFTER yield Null. The nullified $after object only
	// matters inside a RETURN FIELDS projection.
	if mode == ast.ReturnDefault || mode == ast.ReturnAfter {
		return wrapOnly(v.Only, kind.Null{}), nil
	}
	row, err := ip.resolveReturnRow(mode, fields, after, selectObj, selectObj, e, visited)
	if err != nil {
		return nil, err
	}
	return wrapOnly(v.Only, row), nil
}
