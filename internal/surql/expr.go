package surql

import (
	"strings"

	"github.com/siteforge-io/surreal-codegen-sub000/internal/ast"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/diag"
)

// statementKeywords starts the set of idents that begin a nested
// statement inside parentheses, distinguishing a subquery from a
// plain parenthesized expression.
var statementKeywords = map[string]bool{
	"SELECT": true, "CREATE": true, "UPSERT": true, "INSERT": true,
	"UPDATE": true, "DELETE": true, "LET": true, "RETURN": true,
	"BEGIN": true, "COMMIT": true, "DEFINE": true,
}

func (p *parser) parseExpr() (ast.Expr, error) {
	return p.parseOr()
}

func (p *parser) parseOr() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur.is(tokPunct, "||") {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: "||", Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (ast.Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.cur.is(tokPunct, "&&") {
		p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: "&&", Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseEquality() (ast.Expr, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for p.cur.is(tokPunct, "=") || p.cur.is(tokPunct, "!=") || p.cur.is(tokPunct, "==") {
		op := p.cur.text
		p.advance()
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseRelational() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		op := ""
		switch {
		case p.cur.is(tokPunct, "<="):
			op = "<="
		case p.cur.is(tokPunct, ">="):
			op = ">="
		case p.cur.is(tokPunct, "<"):
			op = "<"
		case p.cur.is(tokPunct, ">"):
			op = ">"
		case p.cur.isKeyword("LIKE"):
			op = "LIKE"
		case p.cur.isKeyword("NOT") && p.peekAt(1).isKeyword("LIKE"):
			p.advance()
			op = "NOT LIKE"
		}
		if op == "" {
			return left, nil
		}
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.cur.is(tokPunct, "+") || p.cur.is(tokPunct, "-") {
		op := p.cur.text
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur.is(tokPunct, "*") || p.cur.is(tokPunct, "/") || p.cur.is(tokPunct, "%") || p.cur.is(tokPunct, "**") {
		op := p.cur.text
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (ast.Expr, error) {
	if p.cur.is(tokPunct, "!") {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.UnaryExpr{Op: "!", Operand: operand}, nil
	}
	if p.cur.is(tokPunct, "-") {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.UnaryExpr{Op: "-", Operand: operand}, nil
	}
	return p.parsePostfix()
}

// parsePostfix wraps a $param or subquery head with any following
// idiom continuation (.field, .*, [index], [*]); a bare-field idiom
// already consumes its own continuation inside parseIdentLed, and a
// plain parenthesized expression has no continuation since it isn't a
// valid idiom head (only a field, a parameter, a subquery, or `*` can
// start one).
func (p *parser) parsePostfix() (ast.Expr, error) {
	head, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	switch head.(type) {
	case ast.ParamRef, ast.Subquery:
		parts, has := p.parsePathContinuation()
		if has {
			all := append([]ast.Part{{Kind: ast.PartStart, Start: head}}, parts...)
			return ast.Idiom{Parts: all}, nil
		}
		return head, nil
	default:
		return head, nil
	}
}

func (p *parser) parsePrimary() (ast.Expr, error) {
	switch {
	case p.cur.kind == tokParam:
		name := p.cur.text
		p.advance()
		return ast.ParamRef{Name: name}, nil

	case p.cur.kind == tokString:
		v := p.cur.text
		p.advance()
		return ast.StringLit{Value: v}, nil

	case p.cur.kind == tokNumber:
		v := p.cur.text
		p.advance()
		return ast.NumberLit{Value: v}, nil

	case p.cur.kind == tokDuration:
		v := p.cur.text
		p.advance()
		return ast.DurationLit{Value: v}, nil

	case p.cur.kind == tokDatetime:
		v := p.cur.text
		p.advance()
		return ast.DatetimeLit{Value: v}, nil

	case p.cur.is(tokPunct, "["):
		return p.parseArrayLit()

	case p.cur.is(tokPunct, "{"):
		return p.parseObjectLit()

	case p.cur.is(tokPunct, "<"):
		return p.parseCastExpr()

	case p.cur.is(tokPunct, "("):
		return p.parseParenExprOrSubquery()

	case p.cur.kind == tokIdent:
		return p.parseIdentLed()

	default:
		return nil, diag.Wrapf(diag.ErrUnsupportedExpression, "unexpected token in expression", p.cur.text)
	}
}

func (p *parser) parseArrayLit() (ast.Expr, error) {
	if err := p.expectPunct("["); err != nil {
		return nil, err
	}
	var elements []ast.Expr
	for !p.cur.is(tokPunct, "]") {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elements = append(elements, e)
		if p.cur.is(tokPunct, ",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectPunct("]"); err != nil {
		return nil, err
	}
	return ast.ArrayLit{Elements: elements}, nil
}

func (p *parser) parseObjectLit() (ast.Expr, error) {
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	fields := map[string]ast.Expr{}
	for !p.cur.is(tokPunct, "}") {
		var name string
		switch {
		case p.cur.kind == tokIdent:
			name = p.cur.text
			p.advance()
		case p.cur.kind == tokString:
			name = p.cur.text
			p.advance()
		default:
			return nil, diag.New(diag.ErrParseError, "expected a field name in object literal")
		}
		if err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		fields[name] = val
		if p.cur.is(tokPunct, ",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return ast.ObjectLit{Fields: fields}, nil
}

func (p *parser) parseCastExpr() (ast.Expr, error) {
	if err := p.expectPunct("<"); err != nil {
		return nil, err
	}
	k, err := p.parseKind()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(">"); err != nil {
		return nil, err
	}
	inner, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return ast.Cast{Kind: k, Inner: inner}, nil
}

// parseParenExprOrSubquery distinguishes `(expr)` grouping from a
// parenthesized subquery statement by peeking at the leading keyword.
func (p *parser) parseParenExprOrSubquery() (ast.Expr, error) {
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	if p.cur.kind == tokIdent && statementKeywords[strings.ToUpper(p.cur.text)] {
		var stmts []ast.Statement
		for !p.cur.is(tokPunct, ")") {
			if p.cur.is(tokPunct, ";") {
				p.advance()
				continue
			}
			stmt, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, stmt)
			for p.cur.is(tokPunct, ";") {
				p.advance()
			}
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		if len(stmts) == 1 {
			return ast.Subquery{Stmt: stmts[0]}, nil
		}
		return ast.Subquery{Stmt: ast.BlockStatement{Stmts: stmts}}, nil
	}

	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return e, nil
}

func (p *parser) parseIdentLed() (ast.Expr, error) {
	switch lowerASCII(p.cur.text) {
	case "true":
		p.advance()
		return ast.BoolLit{Value: true}, nil
	case "false":
		p.advance()
		return ast.BoolLit{Value: false}, nil
	case "null", "none":
		p.advance()
		return ast.NullLit{}, nil
	}

	name := p.cur.text
	p.advance()
	for p.cur.is(tokPunct, "::") {
		p.advance()
		if p.cur.kind != tokIdent {
			return nil, diag.New(diag.ErrParseError, "expected an identifier segment after ::")
		}
		name += "::" + p.cur.text
		p.advance()
	}

	if p.cur.is(tokPunct, "(") {
		args, err := p.parseArgList()
		if err != nil {
			return nil, err
		}
		return ast.FunctionCall{Name: name, Args: args}, nil
	}
	if strings.Contains(name, "::") {
		return ast.ConstantRef{Name: name}, nil
	}

	parts := []ast.Part{{Kind: ast.PartField, Field: name}}
	cont, has := p.parsePathContinuation()
	if has {
		parts = append(parts, cont...)
	}
	return ast.Idiom{Parts: parts}, nil
}

func (p *parser) parseArgList() ([]ast.Expr, error) {
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var args []ast.Expr
	for !p.cur.is(tokPunct, ")") {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, e)
		if p.cur.is(tokPunct, ",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return args, nil
}

// parsePathContinuation consumes `.field`, `.*`, `[index-expr]`, and
// `[*]` segments following an idiom head.
func (p *parser) parsePathContinuation() ([]ast.Part, bool) {
	var parts []ast.Part
	for {
		switch {
		case p.cur.is(tokPunct, "."):
			p.advance()
			if p.cur.is(tokPunct, "*") {
				parts = append(parts, ast.Part{Kind: ast.PartAll})
				p.advance()
				continue
			}
			if p.cur.kind == tokIdent {
				parts = append(parts, ast.Part{Kind: ast.PartField, Field: p.cur.text})
				p.advance()
				continue
			}
			return parts, len(parts) > 0
		case p.cur.is(tokPunct, "["):
			p.advance()
			if p.cur.is(tokPunct, "*") {
				p.advance()
				parts = append(parts, ast.Part{Kind: ast.PartAll})
			} else {
				p.skipBalanced("]")
				parts = append(parts, ast.Part{Kind: ast.PartIndex})
			}
			if p.cur.is(tokPunct, "]") {
				p.advance()
			}
			continue
		default:
			return parts, len(parts) > 0
		}
	}
}

// skipBalanced consumes tokens up to (not including) the next
// occurrence of closer at bracket depth 0, used to discard an index
// expression's tokens without needing to type them: idiom descent only
// cares that the part is an Index, not its value.
func (p *parser) skipBalanced(closer string) {
	depth := 0
	for p.cur.kind != tokEOF {
		if depth == 0 && p.cur.is(tokPunct, closer) {
			return
		}
		switch {
		case p.cur.is(tokPunct, "(") || p.cur.is(tokPunct, "[") || p.cur.is(tokPunct, "{"):
			depth++
		case p.cur.is(tokPunct, ")") || p.cur.is(tokPunct, "]") || p.cur.is(tokPunct, "}"):
			depth--
		}
		p.advance()
	}
}
