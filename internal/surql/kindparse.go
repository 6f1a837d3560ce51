package surql

import (
	"github.com/siteforge-io/surreal-codegen-sub000/internal/diag"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/kind"
)

// primitiveKinds maps SurrealQL's bare type keywords to their Kind.
// "object" (unshaped) and "any" both map to Any: an unshaped TYPE
// object is a placeholder a descendant DEFINE FIELD statement is
// expected to fill in field-by-field, the same as a bare `any`.
var primitiveKinds = map[string]kind.Kind{
	"any":      kind.Any{},
	"never":    kind.Never{},
	"unknown":  kind.Unknown{},
	"null":     kind.Null{},
	"none":     kind.Null{},
	"bool":     kind.Bool{},
	"boolean":  kind.Bool{},
	"string":   kind.String{},
	"int":      kind.Int{},
	"float":    kind.Float{},
	"number":   kind.Number{},
	"decimal":  kind.Decimal{},
	"datetime": kind.Datetime{},
	"duration": kind.Duration{},
	"uuid":     kind.Uuid{},
	"object":   kind.Any{},
	"bytes":    kind.String{},
}

// parseKind parses a DEFINE FIELD TYPE clause or cast annotation's type
// syntax: primitives, option<K>, array<K[, N]>, set<K[, N]>,
// record<table[|table...]>, literal object shapes ({ f: K, ... }),
// string/number literal types, and K | K unions.
func (p *parser) parseKind() (kind.Kind, error) {
	first, err := p.parseKindAtom()
	if err != nil {
		return nil, err
	}
	members := []kind.Kind{first}
	for p.cur.is(tokPunct, "|") {
		p.advance()
		next, err := p.parseKindAtom()
		if err != nil {
			return nil, err
		}
		members = append(members, next)
	}
	return kind.NewEither(members), nil
}

func (p *parser) parseKindAtom() (kind.Kind, error) {
	switch {
	case p.cur.kind == tokString:
		v := p.cur.text
		p.advance()
		return kind.StringLit{Value: v}, nil

	case p.cur.kind == tokNumber:
		v := p.cur.text
		p.advance()
		return kind.NumberLit{Value: v}, nil

	case p.cur.is(tokPunct, "{"):
		return p.parseObjectKind()

	case p.cur.is(tokPunct, "["):
		return p.parseTupleKindAsArray()

	case p.cur.kind == tokIdent:
		name := p.cur.text
		lname := lowerASCII(name)
		p.advance()
		switch lname {
		case "option":
			if err := p.expectPunct("<"); err != nil {
				return nil, err
			}
			inner, err := p.parseKind()
			if err != nil {
				return nil, err
			}
			if err := p.expectPunct(">"); err != nil {
				return nil, err
			}
			return kind.Option{Inner: inner}, nil

		case "array", "set":
			if !p.cur.is(tokPunct, "<") {
				return kind.Array{Element: kind.Any{}}, nil
			}
			p.advance()
			inner, err := p.parseKind()
			if err != nil {
				return nil, err
			}
			if p.cur.is(tokPunct, ",") {
				p.advance()
				if p.cur.kind == tokNumber {
					p.advance()
				}
			}
			if err := p.expectPunct(">"); err != nil {
				return nil, err
			}
			return kind.Array{Element: inner}, nil

		case "record":
			var tables []string
			if p.cur.is(tokPunct, "<") {
				p.advance()
				for {
					if p.cur.kind != tokIdent {
						return nil, diag.New(diag.ErrParseError, "record<...> expects a table name")
					}
					tables = append(tables, p.cur.text)
					p.advance()
					if p.cur.is(tokPunct, "|") {
						p.advance()
						continue
					}
					break
				}
				if err := p.expectPunct(">"); err != nil {
					return nil, err
				}
			}
			if len(tables) == 0 {
				return nil, diag.New(diag.ErrParseError, "record<...> requires at least one table name")
			}
			return kind.Record{Tables: tables}, nil

		default:
			if k, ok := primitiveKinds[lname]; ok {
				return k, nil
			}
			return nil, diag.Wrapf(diag.ErrParseError, "unknown type keyword", name)
		}

	default:
		return nil, diag.New(diag.ErrParseError, "expected a type expression")
	}
}

// parseObjectKind parses a literal object shape `{ name: Kind, ... }`,
// used both for DEFINE FIELD TYPE {..} and nested idiom field shapes.
func (p *parser) parseObjectKind() (kind.Kind, error) {
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	fields := map[string]kind.Kind{}
	for !p.cur.is(tokPunct, "}") {
		if p.cur.kind != tokIdent && p.cur.kind != tokString {
			return nil, diag.New(diag.ErrParseError, "expected a field name in object type")
		}
		name := p.cur.text
		p.advance()
		if err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		fk, err := p.parseKind()
		if err != nil {
			return nil, err
		}
		fields[name] = fk
		if p.cur.is(tokPunct, ",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return kind.NewObject(fields), nil
}

// parseTupleKindAsArray accepts SurrealQL's tuple-ish `[K, K]` array
// type shorthand by folding every member into one Either-typed array
// element, since the Kind lattice has no dedicated tuple variant.
func (p *parser) parseTupleKindAsArray() (kind.Kind, error) {
	if err := p.expectPunct("["); err != nil {
		return nil, err
	}
	var members []kind.Kind
	for !p.cur.is(tokPunct, "]") {
		k, err := p.parseKind()
		if err != nil {
			return nil, err
		}
		members = append(members, k)
		if p.cur.is(tokPunct, ",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectPunct("]"); err != nil {
		return nil, err
	}
	return kind.Array{Element: kind.NewEither(members)}, nil
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
