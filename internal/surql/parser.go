// Package surql is the concrete default parser adapter: a hand-written
// lexer and recursive-descent parser converting SurQL source text into
// the internal/ast tree the rest of the pipeline consumes. It is a
// swappable default rather than the core contract — internal/ast is
// what schema/interpret actually depend on — structured as a scanner
// feeding a recursive-descent parser over operator precedence.
package surql

import (
	"github.com/siteforge-io/surreal-codegen-sub000/internal/ast"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/diag"
)

type parser struct {
	toks []token
	pos  int
	cur  token
}

func newParser(toks []token) *parser {
	p := &parser{toks: toks}
	p.cur = toks[0]
	return p
}

func (p *parser) advance() {
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	p.cur = p.toks[p.pos]
}

func (p *parser) peekAt(offset int) token {
	idx := p.pos + offset
	if idx >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[idx]
}

func (p *parser) expectPunct(s string) error {
	if !p.cur.is(tokPunct, s) {
		return diag.Wrapf(diag.ErrParseError, "expected '"+s+"'", p.cur.text)
	}
	p.advance()
	return nil
}

func (p *parser) expectKeyword(kw string) error {
	if !p.cur.isKeyword(kw) {
		return diag.Wrapf(diag.ErrParseError, "expected keyword "+kw, p.cur.text)
	}
	p.advance()
	return nil
}

// Parse parses a full query document: zero or more statements
// separated by ';', with top-level parameter casts (`<K> $p;`) pulled
// out into Program.Declared.
func Parse(src string) (*ast.Program, error) {
	lx := newLexer(src)
	toks, err := lx.lexAll()
	if err != nil {
		return nil, err
	}
	p := newParser(toks)

	prog := &ast.Program{}
	for p.cur.kind != tokEOF {
		if p.cur.is(tokPunct, ";") {
			p.advance()
			continue
		}
		if p.cur.is(tokPunct, "<") {
			decl, err := p.parseDeclaredParam()
			if err != nil {
				return nil, err
			}
			prog.Declared = append(prog.Declared, decl)
			continue
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
		for p.cur.is(tokPunct, ";") {
			p.advance()
		}
	}
	return prog, nil
}

// ParseSchema parses a schema document into its top-level statements
// (DEFINE TABLE/FIELD/FUNCTION); it is a thin wrapper over Parse since
// a schema document is syntactically just a query document restricted
// by convention to DEFINE statements.
func ParseSchema(src string) ([]ast.Statement, error) {
	prog, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return prog.Statements, nil
}

// ParseGlobals parses an optional globals document: a sequence of bare
// `<K> $name;` casts with no statement bodies, merged into every
// query's declared parameter set.
func ParseGlobals(src string) ([]ast.DeclaredParam, error) {
	prog, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return prog.Declared, nil
}

func (p *parser) parseDeclaredParam() (ast.DeclaredParam, error) {
	if err := p.expectPunct("<"); err != nil {
		return ast.DeclaredParam{}, err
	}
	k, err := p.parseKind()
	if err != nil {
		return ast.DeclaredParam{}, err
	}
	if err := p.expectPunct(">"); err != nil {
		return ast.DeclaredParam{}, err
	}
	if p.cur.kind != tokParam {
		return ast.DeclaredParam{}, diag.New(diag.ErrParseError, "expected a parameter name after type cast")
	}
	name := p.cur.text
	p.advance()
	return ast.DeclaredParam{Name: name, Kind: k}, nil
}

func (p *parser) parseStatement() (ast.Statement, error) {
	if p.cur.kind != tokIdent {
		return nil, diag.Wrapf(diag.ErrParseError, "expected a statement keyword", p.cur.text)
	}
	switch {
	case p.cur.isKeyword("DEFINE"):
		return p.parseDefine()
	case p.cur.isKeyword("SELECT"):
		return p.parseSelect()
	case p.cur.isKeyword("CREATE"):
		return p.parseCreate()
	case p.cur.isKeyword("UPSERT"):
		return p.parseUpsert()
	case p.cur.isKeyword("INSERT"):
		return p.parseInsert()
	case p.cur.isKeyword("UPDATE"):
		return p.parseUpdate()
	case p.cur.isKeyword("DELETE"):
		return p.parseDelete()
	case p.cur.isKeyword("LET"):
		return p.parseLet()
	case p.cur.isKeyword("RETURN"):
		return p.parseReturn()
	case p.cur.isKeyword("BEGIN"):
		p.advance()
		p.skipOptionalKeyword("TRANSACTION")
		return ast.BeginStatement{}, nil
	case p.cur.isKeyword("COMMIT"):
		p.advance()
		p.skipOptionalKeyword("TRANSACTION")
		return ast.CommitStatement{}, nil
	case p.cur.isKeyword("CANCEL"):
		p.advance()
		p.skipOptionalKeyword("TRANSACTION")
		return ast.CommitStatement{}, nil
	default:
		return nil, diag.Wrapf(diag.ErrUnsupportedStatement, "unrecognized statement keyword", p.cur.text)
	}
}

func (p *parser) skipOptionalKeyword(kw string) {
	if p.cur.isKeyword(kw) {
		p.advance()
	}
}

// clauseKeywords are recognized as terminating whatever free-form
// clause body skipClauseBody is currently consuming.
var clauseKeywords = []string{
	"WHERE", "GROUP", "ORDER", "LIMIT", "START", "FETCH", "TIMEOUT",
	"PARALLEL", "SPLIT", "EXPLAIN", "RETURN", "CONTENT", "SET", "ONLY",
}

func isClauseKeyword(t token) bool {
	if t.kind != tokIdent {
		return false
	}
	for _, kw := range clauseKeywords {
		if t.isKeyword(kw) {
			return true
		}
	}
	return false
}

// skipClauseBody consumes tokens for an unmodeled clause (WHERE,
// ORDER BY, LIMIT, ...) up to the next recognized clause keyword, ';',
// or EOF, tracking bracket depth so nested expressions aren't
// mistaken for clause boundaries. These clauses don't affect a
// statement's result shape, so there is nothing to type-check in them;
// GROUP's mere presence is recorded by the caller before this runs.
func (p *parser) skipClauseBody() {
	depth := 0
	for {
		if p.cur.kind == tokEOF {
			return
		}
		if depth == 0 && (p.cur.is(tokPunct, ";") || isClauseKeyword(p.cur)) {
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

// parseTrailingClauses consumes any WHERE/GROUP/ORDER/.../RETURN
// clauses following a statement's core, in any order, returning the
// parsed RETURN clause (nil if absent) and whether GROUP was present.
func (p *parser) parseTrailingClauses() (*ast.ReturnClause, bool, error) {
	var ret *ast.ReturnClause
	group := false
	for p.cur.kind == tokIdent && isClauseKeyword(p.cur) {
		switch {
		case p.cur.isKeyword("RETURN"):
			rc, err := p.parseReturnClauseBody()
			if err != nil {
				return nil, false, err
			}
			ret = rc
		case p.cur.isKeyword("GROUP"):
			group = true
			p.advance()
			p.skipClauseBody()
		default:
			p.advance()
			p.skipClauseBody()
		}
	}
	return ret, group, nil
}

func (p *parser) parseReturnClauseBody() (*ast.ReturnClause, error) {
	if err := p.expectKeyword("RETURN"); err != nil {
		return nil, err
	}
	switch {
	case p.cur.isKeyword("AFTER"):
		p.advance()
		return &ast.ReturnClause{Mode: ast.ReturnAfter}, nil
	case p.cur.isKeyword("BEFORE"):
		p.advance()
		return &ast.ReturnClause{Mode: ast.ReturnBefore}, nil
	case p.cur.isKeyword("NULL"):
		p.advance()
		return &ast.ReturnClause{Mode: ast.ReturnNull}, nil
	case p.cur.isKeyword("NONE"):
		p.advance()
		return &ast.ReturnClause{Mode: ast.ReturnNone}, nil
	case p.cur.isKeyword("DIFF"):
		p.advance()
		return &ast.ReturnClause{Mode: ast.ReturnNull}, nil
	default:
		fields, err := p.parseFieldProjList()
		if err != nil {
			return nil, err
		}
		return &ast.ReturnClause{Mode: ast.ReturnFields, Fields: fields}, nil
	}
}

// parseTargets parses a comma-separated `what` list, each entry a bare
// table name or a `$param`.
func (p *parser) parseTargets() ([]ast.Expr, error) {
	var out []ast.Expr
	for {
		switch {
		case p.cur.kind == tokParam:
			name := p.cur.text
			p.advance()
			out = append(out, ast.ParamRef{Name: name})
		case p.cur.kind == tokIdent:
			name := p.cur.text
			p.advance()
			out = append(out, ast.TableRef{Name: name})
		default:
			return nil, diag.New(diag.ErrParseError, "expected a table name or parameter in target list")
		}
		if p.cur.is(tokPunct, ",") {
			p.advance()
			continue
		}
		break
	}
	return out, nil
}

func (p *parser) parseOnly() bool {
	if p.cur.isKeyword("ONLY") {
		p.advance()
		return true
	}
	return false
}
