// Package typescript is the reference emitter: it turns one or more
// typed queries into a single TypeScript module, including a
// `Queries` registry and a `TypedSurreal` client class keyed off that
// registry, since the wrapper's exact shape is itself the contract
// downstream TypeScript callers depend on.
package typescript

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/siteforge-io/surreal-codegen-sub000/internal/diag"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/kind"
)

// Query is one generated type's source material: its identifier, the
// original source text (embedded as the runtime query string), the
// kind of each top-level statement result, and its required variables.
type Query struct {
	Name       string
	Source     string
	Statements []kind.Kind
	Variables  map[string]kind.Kind
}

const header = "import { type RecordId, type Duration, Surreal } from 'surrealdb.js';\n"

// Generate renders a complete TypeScript module for queries, in the
// order given (callers sort queries beforehand for deterministic
// output; cliapp sorts them by Name). ids maps each table or view name to the kind surfaced as its
// record id's inner value; a name missing from ids falls back to
// string, the default id value kind.
func Generate(queries []Query, ids map[string]kind.Kind) (string, error) {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")

	b.WriteString("export type Queries = {\n")
	for _, q := range queries {
		variablesType := "never"
		if len(q.Variables) > 0 {
			variablesType = q.Name + "Variables"
		}
		fmt.Fprintf(&b, "    [%sQuery]: {variables: %s, result: %sResult}\n", q.Name, variablesType, q.Name)
	}
	b.WriteString("}\n\n")

	for _, q := range queries {
		writeQueryDoc(&b, q)
		fmt.Fprintf(&b, "export const %sQuery = %s\n", q.Name, strconv.Quote(q.Source))

		b.WriteString("export type " + q.Name + "Result = [")
		for _, st := range q.Statements {
			def, err := typeDefinition(st, ids)
			if err != nil {
				return "", err
			}
			b.WriteString(def)
			b.WriteString(",")
		}
		b.WriteString("]\n")

		if len(q.Variables) > 0 {
			def, err := typeDefinition(kind.NewObject(copyKinds(q.Variables)), ids)
			if err != nil {
				return "", err
			}
			b.WriteString("export type " + q.Name + "Variables = " + def + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(clientWrapper)
	return b.String(), nil
}

func copyKinds(m map[string]kind.Kind) map[string]kind.Kind {
	out := make(map[string]kind.Kind, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// writeQueryDoc writes the leading doc comment documenting each
// statement's inferred Kind tree, so a reader can see a query's shape
// without cross-referencing the generated type aliases below it.
func writeQueryDoc(b *strings.Builder, q Query) {
	b.WriteString("/**\n")
	fmt.Fprintf(b, " * ## %s query results:\n", q.Name)
	for i, st := range q.Statements {
		fmt.Fprintf(b, " * statement %d:\n", i+1)
		for _, line := range strings.Split(kind.Render(st), "\n") {
			b.WriteString(" * " + line + "\n")
		}
	}
	b.WriteString(" */\n")
}

// typeDefinition is the Kind -> TypeScript type-syntax mapping table.
// Option renders as `T | undefined`, except as an object member where
// the key itself turns optional (`key?: T`); Record carries the id
// value kind of its first table alongside the RecordId wrapper.
func typeDefinition(k kind.Kind, ids map[string]kind.Kind) (string, error) {
	switch v := k.(type) {
	case kind.Any, kind.Unknown:
		return "any", nil
	case kind.Never:
		return "never", nil
	case kind.Null:
		return "null", nil
	case kind.Bool:
		return "boolean", nil
	case kind.String:
		return "string", nil
	case kind.Int, kind.Float, kind.Number, kind.Decimal:
		return "number", nil
	case kind.Datetime:
		return "Date", nil
	case kind.Duration, kind.DurationLit:
		return "Duration", nil
	case kind.Uuid:
		return "string", nil
	case kind.StringLit:
		return strconv.Quote(v.Value), nil
	case kind.NumberLit:
		return v.Value, nil
	case kind.Object:
		var b strings.Builder
		b.WriteString("{")
		for _, key := range v.Keys() {
			field := v.Fields[key]
			b.WriteString(key)
			if opt, ok := field.(kind.Option); ok {
				b.WriteString("?")
				field = opt.Inner
			}
			b.WriteString(":")
			def, err := typeDefinition(field, ids)
			if err != nil {
				return "", err
			}
			b.WriteString(def)
			b.WriteString(",")
		}
		b.WriteString("}")
		return b.String(), nil
	case kind.Array:
		def, err := typeDefinition(v.Element, ids)
		if err != nil {
			return "", err
		}
		return "Array<" + def + ">", nil
	case kind.Either:
		var b strings.Builder
		b.WriteString("(")
		for _, m := range v.Members {
			def, err := typeDefinition(m, ids)
			if err != nil {
				return "", err
			}
			b.WriteString("|")
			b.WriteString(def)
		}
		b.WriteString(")")
		return b.String(), nil
	case kind.Record:
		names := make([]string, len(v.Tables))
		for i, t := range v.Tables {
			names[i] = strconv.Quote(t)
		}
		idKind := kind.Kind(kind.String{})
		if k, ok := ids[v.Tables[0]]; ok {
			idKind = k
		}
		idDef, err := typeDefinition(idKind, ids)
		if err != nil {
			return "", err
		}
		return "(RecordId<" + strings.Join(names, " | ") + "> & { id: " + idDef + " })", nil
	case kind.Option:
		def, err := typeDefinition(v.Inner, ids)
		if err != nil {
			return "", err
		}
		return def + " | undefined", nil
	default:
		return "", diag.Wrapf(diag.ErrEmitUnsupportedKind, "cannot render kind as TypeScript", fmt.Sprintf("%T", k))
	}
}

// clientWrapper is the typed-client glue: a class extending the driver
// with one `typed` method whose signature leans on the Queries
// registry. It's the part of the emitted module third-party callers
// actually import for, so changing its shape would break every
// generated client.
const clientWrapper = `
export type Variables<Q extends keyof Queries> = Queries[Q]["variables"] extends never ? [] : [Queries[Q]["variables"]]

export class TypedSurreal extends Surreal {
    typed<Q extends keyof Queries>(query: Q, ...rest: Variables<Q>): Promise<Queries[Q]["result"]> {
        return this.query(query, rest[0])
    }
}
`
