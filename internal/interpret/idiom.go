package interpret

import (
	"github.com/siteforge-io/surreal-codegen-sub000/internal/ast"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/diag"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/env"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/kind"
)

// resolveIdiom resolves a full idiom path against a starting field-type
// context ctx: the first part establishes the base binding (a field, a
// parameter, or a subquery result), and every following part descends
// one level into whatever kind the previous part produced.
func (ip *Interpreter) resolveIdiom(parts []ast.Part, ctx kind.Kind, e *env.Environment, visited map[string]bool) (kind.Kind, error) {
	if len(parts) == 0 {
		return ctx, nil
	}
	head, rest := parts[0], parts[1:]

	switch head.Kind {
	case ast.PartField:
		resolved, err := ip.descendRest(ctx, []ast.Part{head}, e, visited)
		if err != nil {
			return nil, err
		}
		return ip.descendRest(resolved, rest, e, visited)
	case ast.PartStart:
		startKind, err := ip.evalExpr(head.Start, ctx, e, visited)
		if err != nil {
			return nil, err
		}
		return ip.descendRest(startKind, rest, e, visited)
	case ast.PartAll:
		if obj, ok := ctx.(kind.Object); ok {
			return obj, nil
		}
		return ctx, nil
	default:
		return nil, diag.New(diag.ErrUnsupportedPath, "idiom must begin with a field, a parameter, or a subquery")
	}
}

// descendRest applies the per-kind descent table for the remaining
// parts of a path once the starting point has been established.
func (ip *Interpreter) descendRest(k kind.Kind, parts []ast.Part, e *env.Environment, visited map[string]bool) (kind.Kind, error) {
	if len(parts) == 0 {
		return k, nil
	}
	head, rest := parts[0], parts[1:]

	switch v := k.(type) {
	case kind.Object:
		if head.Kind != ast.PartField {
			return nil, diag.New(diag.ErrUnsupportedPath, "expected a field name")
		}
		child, ok := v.Fields[head.Field]
		if !ok {
			return nil, diag.Wrapf(diag.ErrUnknownField, "unknown field", head.Field)
		}
		return ip.descendRest(child, rest, e, visited)

	case kind.Option:
		inner, err := ip.descendRest(v.Inner, parts, e, visited)
		if err != nil {
			return nil, err
		}
		return kind.Option{Inner: inner}, nil

	case kind.Array:
		switch head.Kind {
		case ast.PartIndex:
			inner, err := ip.descendRest(v.Element, rest, e, visited)
			if err != nil {
				return nil, err
			}
			return kind.Option{Inner: inner}, nil
		case ast.PartAll:
			inner, err := ip.descendRest(v.Element, rest, e, visited)
			if err != nil {
				return nil, err
			}
			return kind.Array{Element: inner}, nil
		case ast.PartField:
			inner, err := ip.descendRest(v.Element, parts, e, visited)
			if err != nil {
				return nil, err
			}
			return kind.Array{Element: inner}, nil
		default:
			return nil, diag.New(diag.ErrUnsupportedKindDescent, "unsupported descent into an array kind")
		}

	case kind.Record:
		members := make([]kind.Kind, 0, len(v.Tables))
		for _, t := range v.Tables {
			sel, err := ip.SelectFieldsFor(t, visited)
			if err != nil {
				return nil, err
			}
			mk, err := ip.descendRest(sel, parts, e, visited)
			if err != nil {
				return nil, err
			}
			members = append(members, mk)
		}
		return kind.NewEither(members), nil

	case kind.Either:
		members := make([]kind.Kind, 0, len(v.Members))
		for _, m := range v.Members {
			mk, err := ip.descendRest(m, parts, e, visited)
			if err != nil {
				return nil, err
			}
			members = append(members, mk)
		}
		return kind.NewEither(members), nil

	default:
		return nil, diag.Wrapf(diag.ErrUnsupportedPath, "cannot project further into this kind", head.Field)
	}
}

// fieldOf resolves a single named field against ctx, reusing the same
// descent table as a multi-segment path.
func (ip *Interpreter) fieldOf(ctx kind.Kind, field string, e *env.Environment, visited map[string]bool) (kind.Kind, error) {
	return ip.descendRest(ctx, []ast.Part{{Kind: ast.PartField, Field: field}}, e, visited)
}

// projectFields builds the Object result of a non-VALUE SELECT/RETURN
// FIELDS projection: each projected idiom is merged left-to-right into
// a shared result map, building shared intermediate objects for
// multi-segment paths and applying the double-option rule at every
// intermediate boundary.
func (ip *Interpreter) projectFields(fields []ast.FieldProj, ctx kind.Kind, e *env.Environment, visited map[string]bool) (kind.Kind, error) {
	result := map[string]kind.Kind{}
	for _, f := range fields {
		if f.All {
			result["*"] = ctx
			continue
		}

		idiom, isIdiom := f.Expr.(ast.Idiom)
		if !isIdiom || f.Alias != "" {
			alias := f.Alias
			if alias == "" {
				alias = ast.ToIdiomKey(f.Expr)
			}
			fk, err := ip.evalExpr(f.Expr, ctx, e, visited)
			if err != nil {
				return nil, err
			}
			result[alias] = fk
			continue
		}

		if len(idiom.Parts) == 0 {
			continue
		}
		if err := ip.mergeIdiomInto(result, idiom.Parts, ctx, e, visited); err != nil {
			return nil, err
		}
	}
	return kind.NewObject(result), nil
}

// mergeIdiomInto merges one idiom path into result, implementing the
// double-option rule: optionality introduced by an intermediate link
// is attached to the intermediate object entry, not compounded onto
// the leaf, so projecting `a.b` through two optional links never
// leaks Option(Option(T)) to the rendered object.
func (ip *Interpreter) mergeIdiomInto(result map[string]kind.Kind, parts []ast.Part, ctx kind.Kind, e *env.Environment, visited map[string]bool) error {
	head := parts[0]
	rest := parts[1:]

	if head.Kind == ast.PartAll {
		// `*.field` over an array-valued context flattens to one
		// array-of-field entry keyed by the field name; a trailing `*`
		// keys the whole context under "*".
		if len(rest) > 0 && rest[0].Kind == ast.PartField {
			fk, err := ip.descendRest(ctx, parts, e, visited)
			if err != nil {
				return err
			}
			result[rest[0].Field] = fk
			return nil
		}
		result["*"] = ctx
		return nil
	}

	if head.Kind != ast.PartField {
		// Start(...)-headed projections have no stable field name to
		// merge under; fall back to resolving the whole path and keying
		// it by its textual form.
		fk, err := ip.resolveIdiom(parts, ctx, e, visited)
		if err != nil {
			return err
		}
		result[ast.ToIdiomKey(ast.Idiom{Parts: parts})] = fk
		return nil
	}

	name := head.Field
	childKind, err := ip.fieldOf(ctx, name, e, visited)
	if err != nil {
		return err
	}

	optional := false
	base := childKind
	if opt, ok := childKind.(kind.Option); ok {
		optional = true
		base = opt.Inner
	}

	if len(rest) == 0 {
		leaf := childKind
		if isDoubleOptionOf(leaf) {
			leaf = collapseDoubleOption(leaf)
		}
		result[name] = leaf
		return nil
	}

	childMap := existingObjectFields(result[name])
	if err := ip.mergeIdiomInto(childMap, rest, base, e, visited); err != nil {
		return err
	}
	obj := kind.NewObject(childMap)
	if optional {
		result[name] = kind.Option{Inner: obj}
	} else {
		result[name] = obj
	}
	return nil
}

func existingObjectFields(existing kind.Kind) map[string]kind.Kind {
	switch v := existing.(type) {
	case kind.Object:
		return v.Fields
	case kind.Option:
		if o, ok := v.Inner.(kind.Object); ok {
			return o.Fields
		}
	}
	return map[string]kind.Kind{}
}

func isDoubleOptionOf(k kind.Kind) bool {
	return kind.IsDoubleOption(k)
}

func collapseDoubleOption(k kind.Kind) kind.Kind {
	o := k.(kind.Option)
	return o.Inner
}
