package surql

import (
	"github.com/siteforge-io/surreal-codegen-sub000/internal/ast"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/diag"
)

func (p *parser) parseDefine() (ast.Statement, error) {
	if err := p.expectKeyword("DEFINE"); err != nil {
		return nil, err
	}
	switch {
	case p.cur.isKeyword("TABLE"):
		return p.parseDefineTable()
	case p.cur.isKeyword("FIELD"):
		return p.parseDefineField()
	case p.cur.isKeyword("FUNCTION"):
		return p.parseDefineFunction()
	default:
		// Other DEFINE forms (INDEX, EVENT, PARAM, ANALYZER, ...) are
		// out of scope for typing; skip to the statement terminator so
		// a schema document that declares them doesn't fail to parse.
		p.skipToSemicolon()
		return ast.BeginStatement{}, nil
	}
}

func (p *parser) skipToSemicolon() {
	depth := 0
	for p.cur.kind != tokEOF {
		if depth == 0 && p.cur.is(tokPunct, ";") {
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

func (p *parser) parseDefineTable() (ast.Statement, error) {
	if err := p.expectKeyword("TABLE"); err != nil {
		return nil, err
	}
	if p.cur.isKeyword("IF") {
		p.advance()
		p.skipOptionalKeyword("NOT")
		p.skipOptionalKeyword("EXISTS")
	}
	if p.cur.kind != tokIdent {
		return nil, diag.New(diag.ErrParseError, "expected a table name after DEFINE TABLE")
	}
	name := p.cur.text
	p.advance()

	var view *ast.ViewDef
	for p.cur.kind == tokIdent && !p.cur.is(tokPunct, ";") {
		switch {
		case p.cur.isKeyword("SCHEMAFULL") || p.cur.isKeyword("SCHEMALESS"):
			p.advance()
		case p.cur.isKeyword("DROP"):
			p.advance()
		case p.cur.isKeyword("AS"):
			p.advance()
			selStmt, err := p.parseSelect()
			if err != nil {
				return nil, err
			}
			sel := selStmt.(ast.SelectStatement)
			view = &ast.ViewDef{Select: &sel}
		default:
			// TYPE/PERMISSIONS/COMMENT/CHANGEFEED and similar trailing
			// clauses: skip their bodies, same treatment as query
			// clauses not modeled by this pipeline.
			p.advance()
			p.skipClauseBody()
		}
	}
	return ast.DefineTableStatement{Name: name, View: view}, nil
}

// parseIdiomPath parses a dotted/starred field path for DEFINE FIELD,
// e.g. `name`, `nested.foo`, `arr.*.x`, `bar.*`.
func (p *parser) parseIdiomPath() ([]ast.Part, error) {
	var parts []ast.Part
	for {
		if p.cur.is(tokPunct, "*") {
			parts = append(parts, ast.Part{Kind: ast.PartAll})
			p.advance()
		} else if p.cur.kind == tokIdent {
			parts = append(parts, ast.Part{Kind: ast.PartField, Field: p.cur.text})
			p.advance()
		} else {
			return nil, diag.New(diag.ErrParseError, "expected a field path segment")
		}
		if p.cur.is(tokPunct, ".") {
			p.advance()
			continue
		}
		break
	}
	return parts, nil
}

func (p *parser) parseDefineField() (ast.Statement, error) {
	if err := p.expectKeyword("FIELD"); err != nil {
		return nil, err
	}
	if p.cur.isKeyword("IF") {
		p.advance()
		p.skipOptionalKeyword("NOT")
		p.skipOptionalKeyword("EXISTS")
	}
	path, err := p.parseIdiomPath()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("ON"); err != nil {
		return nil, err
	}
	p.skipOptionalKeyword("TABLE")
	if p.cur.kind != tokIdent {
		return nil, diag.New(diag.ErrParseError, "expected a table name after DEFINE FIELD ... ON")
	}
	table := p.cur.text
	p.advance()

	def := ast.DefineFieldStatement{Table: table, Path: path}
	if len(path) == 1 && path[0].Kind == ast.PartField && path[0].Field == "id" {
		def.IsIDField = true
	}

	sawType := false
	for p.cur.kind == tokIdent && !p.cur.is(tokPunct, ";") {
		switch {
		case p.cur.isKeyword("FLEXIBLE"):
			def.Flexible = true
			p.advance()
		case p.cur.isKeyword("TYPE"):
			p.advance()
			k, err := p.parseKind()
			if err != nil {
				return nil, err
			}
			def.Kind = k
			sawType = true
		case p.cur.isKeyword("DEFAULT"):
			p.advance()
			p.skipOptionalKeyword("ALWAYS")
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			def.Default = e
		case p.cur.isKeyword("VALUE"):
			p.advance()
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			def.Value = e
		case p.cur.isKeyword("READONLY"):
			def.ReadOnly = true
			p.advance()
		default:
			// ASSERT/PERMISSIONS/COMMENT and any other trailing clause.
			p.advance()
			p.skipClauseBody()
		}
	}
	if !sawType {
		return nil, diag.Wrapf(diag.ErrParseError, "DEFINE FIELD requires a TYPE clause", table)
	}
	return def, nil
}

func (p *parser) parseDefineFunction() (ast.Statement, error) {
	if err := p.expectKeyword("FUNCTION"); err != nil {
		return nil, err
	}
	if p.cur.isKeyword("IF") {
		p.advance()
		p.skipOptionalKeyword("NOT")
		p.skipOptionalKeyword("EXISTS")
	}
	if !(p.cur.kind == tokIdent && lowerASCII(p.cur.text) == "fn") {
		return nil, diag.New(diag.ErrParseError, "expected fn:: before a function name")
	}
	p.advance()
	if err := p.expectPunct("::"); err != nil {
		return nil, err
	}
	if p.cur.kind != tokIdent {
		return nil, diag.New(diag.ErrParseError, "expected a function name after fn::")
	}
	name := "fn::" + p.cur.text
	p.advance()
	for p.cur.is(tokPunct, "::") {
		p.advance()
		if p.cur.kind != tokIdent {
			return nil, diag.New(diag.ErrParseError, "expected a function name segment after ::")
		}
		name += "::" + p.cur.text
		p.advance()
	}

	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var args []ast.FunctionArg
	for !p.cur.is(tokPunct, ")") {
		if p.cur.kind != tokParam {
			return nil, diag.New(diag.ErrParseError, "expected a $param in function argument list")
		}
		argName := p.cur.text
		p.advance()
		if err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		argKind, err := p.parseKind()
		if err != nil {
			return nil, err
		}
		args = append(args, ast.FunctionArg{Name: argName, Kind: argKind})
		if p.cur.is(tokPunct, ",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}

	for p.cur.kind == tokIdent && !p.cur.is(tokPunct, "{") {
		// RETURNS <kind>, PERMISSIONS, COMMENT: skip, the body's own
		// inferred return kind is authoritative regardless of any
		// declared RETURNS annotation.
		p.advance()
		p.skipClauseBody()
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.DefineFunctionStatement{Name: name, Args: args, Body: body}, nil
}

// parseBlock parses a brace-delimited sequence of statements, used by
// DEFINE FUNCTION bodies.
func (p *parser) parseBlock() ([]ast.Statement, error) {
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	var stmts []ast.Statement
	for !p.cur.is(tokPunct, "}") {
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
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return stmts, nil
}
