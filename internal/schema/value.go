package schema

import (
	"github.com/siteforge-io/surreal-codegen-sub000/internal/ast"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/diag"
)

// validateValueClause rejects a VALUE clause that embeds a subquery
// statement: the clause is folded into a field's default/computed
// shape, and a subquery there has no fixed statement-result Kind to
// fold in without re-running full statement inference mid-schema.
func validateValueClause(e ast.Expr) error {
	switch v := e.(type) {
	case ast.Subquery:
		return diag.New(diag.ErrUnsupportedValueClause, "VALUE clause may not contain a subquery statement")
	case ast.Idiom:
		for _, p := range v.Parts {
			if p.Kind == ast.PartStart && p.Start != nil {
				if err := validateValueClause(p.Start); err != nil {
					return err
				}
			}
		}
	case ast.BinaryExpr:
		if err := validateValueClause(v.Left); err != nil {
			return err
		}
		return validateValueClause(v.Right)
	case ast.UnaryExpr:
		return validateValueClause(v.Operand)
	case ast.Cast:
		return validateValueClause(v.Inner)
	case ast.FunctionCall:
		for _, arg := range v.Args {
			if err := validateValueClause(arg); err != nil {
				return err
			}
		}
	case ast.ArrayLit:
		for _, el := range v.Elements {
			if err := validateValueClause(el); err != nil {
				return err
			}
		}
	case ast.ObjectLit:
		for _, fv := range v.Fields {
			if err := validateValueClause(fv); err != nil {
				return err
			}
		}
	}
	return nil
}

// valueUsesValue is the structural recursion over a VALUE clause's
// expression tree deciding whether it references the ambient $value
// binding. A field whose VALUE clause does not mention $value is
// unconditionally overridden by the database and is omitted from the
// shape a CREATE/INSERT statement's CONTENT is checked against.
func valueUsesValue(e ast.Expr) bool {
	switch v := e.(type) {
	case ast.ParamRef:
		return v.Name == "value"
	case ast.Idiom:
		for _, p := range v.Parts {
			if p.Kind == ast.PartStart && p.Start != nil && valueUsesValue(p.Start) {
				return true
			}
		}
		return false
	case ast.BinaryExpr:
		return valueUsesValue(v.Left) || valueUsesValue(v.Right)
	case ast.UnaryExpr:
		return valueUsesValue(v.Operand)
	case ast.Cast:
		return valueUsesValue(v.Inner)
	case ast.FunctionCall:
		for _, arg := range v.Args {
			if valueUsesValue(arg) {
				return true
			}
		}
		return false
	case ast.ArrayLit:
		for _, el := range v.Elements {
			if valueUsesValue(el) {
				return true
			}
		}
		return false
	case ast.ObjectLit:
		for _, fv := range v.Fields {
			if valueUsesValue(fv) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
