package interpret

import (
	"github.com/siteforge-io/surreal-codegen-sub000/internal/diag"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/kind"
)

var logicalOps = map[string]bool{"&&": true, "||": true}
var equalityOps = map[string]bool{"=": true, "!=": true, "==": true}
var relationalOps = map[string]bool{"<": true, ">": true, "<=": true, ">=": true, "LIKE": true, "NOT LIKE": true}

// typeBinaryOp implements the operator typing table: logical, equality,
// and relational operators all yield Bool; arithmetic `+` requires both
// sides to agree on one of Number/String/Datetime/Duration; every other
// arithmetic operator is unsupported and errors rather than guessing a
// result kind.
func typeBinaryOp(op string, left, right kind.Kind) (kind.Kind, error) {
	if logicalOps[op] || equalityOps[op] || relationalOps[op] {
		return kind.Bool{}, nil
	}
	if op == "+" {
		return typePlus(left, right)
	}
	switch op {
	case "-", "*", "/", "%", "**":
		return nil, diag.Wrapf(diag.ErrUnsupportedOperator, "arithmetic operator beyond + is not implemented", op)
	default:
		return nil, diag.Wrapf(diag.ErrUnsupportedOperator, "unrecognized operator", op)
	}
}

func typeUnaryOp(op string, operand kind.Kind) (kind.Kind, error) {
	switch op {
	case "!":
		return kind.Bool{}, nil
	case "-":
		return nil, diag.New(diag.ErrUnsupportedOperator, "unary minus is not implemented")
	default:
		return nil, diag.Wrapf(diag.ErrUnsupportedOperator, "unrecognized unary operator", op)
	}
}

func typePlus(left, right kind.Kind) (kind.Kind, error) {
	lc, rc := plusClass(left), plusClass(right)
	if lc == "" || rc == "" || lc != rc {
		return nil, diag.New(diag.ErrArithMismatch, "+ requires both operands to be the same arithmetic-compatible kind")
	}
	switch lc {
	case "number":
		return kind.Number{}, nil
	case "string":
		return kind.String{}, nil
	case "datetime":
		return kind.Datetime{}, nil
	case "duration":
		return kind.Duration{}, nil
	}
	return nil, diag.New(diag.ErrArithMismatch, "+ requires both operands to be the same arithmetic-compatible kind")
}

func plusClass(k kind.Kind) string {
	switch k.(type) {
	case kind.Number, kind.Int, kind.Float, kind.Decimal, kind.NumberLit:
		return "number"
	case kind.String, kind.StringLit:
		return "string"
	case kind.Datetime:
		return "datetime"
	case kind.Duration, kind.DurationLit:
		return "duration"
	default:
		return ""
	}
}
