package interpret

import (
	"github.com/siteforge-io/surreal-codegen-sub000/internal/ast"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/diag"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/env"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/kind"
)

func (ip *Interpreter) interpretLet(v *ast.LetStatement, e *env.Environment, visited map[string]bool) (kind.Kind, error) {
	if !v.HasKind {
		return nil, diag.Wrapf(diag.ErrLetRequiresAnnotation, "LET requires an explicit type annotation", "$"+v.Name)
	}
	// The value expression is still evaluated for its side effects
	// (nested subqueries must type-check, parameter usages still
	// infer), but its result is discarded: the annotation is the
	// binding's kind of record, not whatever the expression yields.
	if _, err := ip.evalExpr(v.Value, kind.Null{}, e, visited); err != nil {
		return nil, err
	}
	e.Infer(v.Name, v.Kind)
	return kind.Null{}, nil
}

func (ip *Interpreter) interpretReturn(v *ast.ReturnStatement, e *env.Environment, visited map[string]bool) (kind.Kind, error) {
	return ip.evalExpr(v.Value, kind.Null{}, e, visited)
}
