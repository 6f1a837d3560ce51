package interpret

import (
	"github.com/siteforge-io/surreal-codegen-sub000/internal/ast"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/diag"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/env"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/kind"
)

// rowKindForSelect computes the per-row projection kind of a SELECT,
// without the ONLY/array wrapping interpretSelect applies on top. It
// is shared between top-level SELECT interpretation and lazy view
// typing, since a view's select-kind is exactly its defining SELECT's
// row kind.
func (ip *Interpreter) rowKindForSelect(sel *ast.SelectStatement, e *env.Environment, visited map[string]bool) (kind.Kind, error) {
	ctx, err := ip.resolveWhatContext(sel.What, e, visited)
	if err != nil {
		return nil, err
	}

	e.Push(map[string]kind.Kind{"this": ctx})
	defer e.Pop()

	if sel.ValueMode {
		if len(sel.Fields) != 1 {
			return nil, diag.New(diag.ErrUnsupportedStatement, "SELECT VALUE requires exactly one projection")
		}
		return ip.evalFieldProj(sel.Fields[0], ctx, e, visited)
	}

	if len(sel.Fields) == 0 || (len(sel.Fields) == 1 && sel.Fields[0].All) {
		return ctx, nil
	}
	return ip.projectFields(sel.Fields, ctx, e, visited)
}

func (ip *Interpreter) evalFieldProj(f ast.FieldProj, ctx kind.Kind, e *env.Environment, visited map[string]bool) (kind.Kind, error) {
	if f.All {
		return ctx, nil
	}
	return ip.evalExpr(f.Expr, ctx, e, visited)
}

func (ip *Interpreter) interpretSelect(sel *ast.SelectStatement, e *env.Environment, visited map[string]bool) (kind.Kind, error) {
	row, err := ip.rowKindForSelect(sel, e, visited)
	if err != nil {
		return nil, err
	}
	return wrapOnly(sel.Only, row), nil
}
