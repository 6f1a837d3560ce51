package interpret

import (
	"fmt"

	"github.com/siteforge-io/surreal-codegen-sub000/internal/ast"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/diag"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/env"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/kind"
)

// evalExpr types any expression node. ctx is the ambient field-type
// context idiom resolution starts from (the statement's $this); it is
// unused by most variants.
func (ip *Interpreter) evalExpr(expr ast.Expr, ctx kind.Kind, e *env.Environment, visited map[string]bool) (kind.Kind, error) {
	// Literal constants type as their broad kinds; the singleton literal
	// kinds (StringLit, NumberLit, ...) only arise from TYPE-clause
	// literal types, where preservation matters for the emitter.
	switch v := expr.(type) {
	case ast.StringLit:
		return kind.String{}, nil
	case ast.NumberLit:
		return kind.Number{}, nil
	case ast.BoolLit:
		return kind.Bool{}, nil
	case ast.NullLit:
		return kind.Null{}, nil
	case ast.DatetimeLit:
		return kind.Datetime{}, nil
	case ast.DurationLit:
		return kind.Duration{}, nil
	case ast.ParamRef:
		return e.MustLookup(v.Name)
	case ast.Idiom:
		return ip.resolveIdiom(v.Parts, ctx, e, visited)
	case ast.Cast:
		return v.Kind, nil
	case ast.TableRef:
		return kind.Record{Tables: []string{v.Name}}, nil
	case ast.ArrayLit:
		return ip.evalArrayLit(v, ctx, e, visited)
	case ast.ObjectLit:
		return ip.evalObjectLit(v, ctx, e, visited)
	case ast.FunctionCall:
		return ip.evalFunctionCall(v, ctx, e, visited)
	case ast.ConstantRef:
		return constantKind(v.Name)
	case ast.BinaryExpr:
		return ip.evalBinary(v, ctx, e, visited)
	case ast.UnaryExpr:
		return ip.evalUnary(v, ctx, e, visited)
	case ast.Subquery:
		return ip.evalSubquery(v, ctx, e, visited)
	default:
		return nil, diag.Wrapf(diag.ErrUnsupportedExpression, "expression kind is not supported", fmt.Sprintf("%T", expr))
	}
}

func (ip *Interpreter) evalArrayLit(v ast.ArrayLit, ctx kind.Kind, e *env.Environment, visited map[string]bool) (kind.Kind, error) {
	if len(v.Elements) == 0 {
		return kind.Array{Element: kind.Null{}}, nil
	}
	members := make([]kind.Kind, 0, len(v.Elements))
	for _, el := range v.Elements {
		ek, err := ip.evalExpr(el, ctx, e, visited)
		if err != nil {
			return nil, err
		}
		members = append(members, ek)
	}
	return kind.Array{Element: kind.NewEither(members)}, nil
}

func (ip *Interpreter) evalObjectLit(v ast.ObjectLit, ctx kind.Kind, e *env.Environment, visited map[string]bool) (kind.Kind, error) {
	fields := make(map[string]kind.Kind, len(v.Fields))
	for name, fv := range v.Fields {
		fk, err := ip.evalExpr(fv, ctx, e, visited)
		if err != nil {
			return nil, err
		}
		fields[name] = fk
	}
	return kind.NewObject(fields), nil
}

func (ip *Interpreter) evalSubquery(v ast.Subquery, ctx kind.Kind, e *env.Environment, visited map[string]bool) (kind.Kind, error) {
	e.Push(map[string]kind.Kind{"parent": ctx})
	defer e.Pop()
	return ip.interpretStatement(v.Stmt, e, visited)
}

// evalFunctionCall resolves either a user-defined function (fn::name)
// by interpreting its body with arguments bound as locals, or a
// built-in by consulting the return-kind lookup table.
func (ip *Interpreter) evalFunctionCall(v ast.FunctionCall, ctx kind.Kind, e *env.Environment, visited map[string]bool) (kind.Kind, error) {
	if fn, ok := ip.Schema.Functions[v.Name]; ok {
		bindings := make(map[string]kind.Kind, len(fn.Args))
		for i, arg := range fn.Args {
			if i < len(v.Args) {
				ak, err := ip.evalExpr(v.Args[i], ctx, e, visited)
				if err != nil {
					return nil, err
				}
				_ = ak // argument expressions are still type-checked for their own sake
			}
			bindings[arg.Name] = arg.Kind
		}
		e.Push(bindings)
		defer e.Pop()
		return ip.interpretBlock(fn.Body, e, visited)
	}

	for _, arg := range v.Args {
		if _, err := ip.evalExpr(arg, ctx, e, visited); err != nil {
			return nil, err
		}
	}
	return builtinFunctionKind(v.Name)
}

func (ip *Interpreter) evalBinary(v ast.BinaryExpr, ctx kind.Kind, e *env.Environment, visited map[string]bool) (kind.Kind, error) {
	left, err := ip.evalExpr(v.Left, ctx, e, visited)
	if err != nil {
		return nil, err
	}
	right, err := ip.evalExpr(v.Right, ctx, e, visited)
	if err != nil {
		return nil, err
	}
	return typeBinaryOp(v.Op, left, right)
}

func (ip *Interpreter) evalUnary(v ast.UnaryExpr, ctx kind.Kind, e *env.Environment, visited map[string]bool) (kind.Kind, error) {
	operand, err := ip.evalExpr(v.Operand, ctx, e, visited)
	if err != nil {
		return nil, err
	}
	return typeUnaryOp(v.Op, operand)
}
