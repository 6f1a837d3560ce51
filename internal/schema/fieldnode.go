package schema

import (
	"github.com/siteforge-io/surreal-codegen-sub000/internal/ast"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/diag"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/kind"
)

// FieldShape classifies how a FieldNode's children, if any, are
// structured: a scalar leaf, an object with named children, or an
// array whose element is itself a FieldNode.
type FieldShape int

const (
	ShapeSimple FieldShape = iota
	ShapeNestedObject
	ShapeNestedArray
)

// FieldNode is one node of a table's merged field tree, built by
// folding every DEFINE FIELD statement targeting that table into a
// path-addressed tree that mirrors the dotted field paths a
// DEFINE FIELD statement can target (e.g. address.city, tags.*).
type FieldNode struct {
	Shape    FieldShape
	Scalar   kind.Kind // meaningful when Shape == ShapeSimple
	Optional bool      // true when the declared TYPE itself is option<...>

	HasDefault bool
	ValueExpr  ast.Expr // non-nil when a VALUE clause was declared
	ReadOnly   bool

	Children map[string]*FieldNode // populated when Shape == ShapeNestedObject
	Element  *FieldNode            // populated when Shape == ShapeNestedArray
}

// mergeField folds one DEFINE FIELD statement's path into root.
func mergeField(root map[string]*FieldNode, path []ast.Part, fld *ast.DefineFieldStatement) error {
	if len(path) == 0 {
		return diag.Wrapf(diag.ErrUnknownFieldTarget, "DEFINE FIELD has an empty path", fld.Table)
	}
	return mergeAt(root, path, fld)
}

func mergeAt(m map[string]*FieldNode, path []ast.Part, fld *ast.DefineFieldStatement) error {
	head := path[0]
	if head.Kind != ast.PartField {
		return diag.Wrapf(diag.ErrUnknownFieldTarget, "field path must begin with a named field", fld.Table)
	}
	name := head.Field

	if len(path) == 1 {
		return setTerminal(m, name, fld)
	}

	next := path[1]
	if next.Kind == ast.PartAll {
		arrNode, err := ensureArrayChild(m, name)
		if err != nil {
			return err
		}
		if len(path) == 2 {
			return setArrayElementTerminal(arrNode, fld)
		}
		return mergeAt(arrNode.Element.Children, path[2:], fld)
	}

	objNode, err := ensureObjectChild(m, name)
	if err != nil {
		return err
	}
	return mergeAt(objNode.Children, path[1:], fld)
}

func ensureObjectChild(m map[string]*FieldNode, name string) (*FieldNode, error) {
	node, ok := m[name]
	if !ok {
		node = &FieldNode{Shape: ShapeNestedObject, Children: map[string]*FieldNode{}}
		m[name] = node
		return node, nil
	}
	if node.Shape != ShapeNestedObject {
		return nil, diag.Wrapf(diag.ErrShapeConflict, "field path expects an object but a prior definition declared otherwise", name)
	}
	return node, nil
}

func ensureArrayChild(m map[string]*FieldNode, name string) (*FieldNode, error) {
	node, ok := m[name]
	if !ok {
		node = &FieldNode{Shape: ShapeNestedArray, Element: &FieldNode{Shape: ShapeNestedObject, Children: map[string]*FieldNode{}}}
		m[name] = node
		return node, nil
	}
	if node.Shape != ShapeNestedArray {
		return nil, diag.Wrapf(diag.ErrShapeConflict, "field path expects an array but a prior definition declared otherwise", name)
	}
	return node, nil
}

// shapeForScalar derives the shape a freshly declared TYPE implies: a
// bare `any` (or `option<any>`) or `array<any>` opens a placeholder to
// be filled in by descendant DEFINE FIELD statements, unless the field
// is FLEXIBLE (which opts out of structural merging entirely).
func shapeForScalar(k kind.Kind, flexible bool) FieldShape {
	if flexible {
		return ShapeSimple
	}
	base := k
	if opt, ok := base.(kind.Option); ok {
		base = opt.Inner
	}
	if _, isAny := base.(kind.Any); isAny {
		return ShapeNestedObject
	}
	if arr, isArr := base.(kind.Array); isArr {
		if _, innerAny := arr.Element.(kind.Any); innerAny {
			return ShapeNestedArray
		}
	}
	return ShapeSimple
}

func setTerminal(m map[string]*FieldNode, name string, fld *ast.DefineFieldStatement) error {
	if fld.Value != nil {
		if err := validateValueClause(fld.Value); err != nil {
			return err
		}
	}
	shape := shapeForScalar(fld.Kind, fld.Flexible)
	existing := m[name]

	node := &FieldNode{
		Shape:      shape,
		Scalar:     fld.Kind,
		Optional:   kind.IsOption(fld.Kind),
		HasDefault: fld.Default != nil,
		ValueExpr:  fld.Value,
		ReadOnly:   fld.ReadOnly,
	}

	switch shape {
	case ShapeNestedObject:
		if existing != nil {
			if existing.Shape != ShapeNestedObject {
				return diag.Wrapf(diag.ErrShapeConflict, "field redeclared with an incompatible shape", name)
			}
			node.Children = existing.Children
		} else {
			node.Children = map[string]*FieldNode{}
		}
	case ShapeNestedArray:
		if existing != nil {
			if existing.Shape != ShapeNestedArray {
				return diag.Wrapf(diag.ErrShapeConflict, "field redeclared with an incompatible shape", name)
			}
			node.Element = existing.Element
		} else {
			node.Element = &FieldNode{Shape: ShapeNestedObject, Children: map[string]*FieldNode{}}
		}
	default:
		if existing != nil && existing.Shape != ShapeSimple {
			return diag.Wrapf(diag.ErrShapeConflict, "field redeclared with an incompatible shape", name)
		}
	}

	m[name] = node
	return nil
}

func setArrayElementTerminal(arrNode *FieldNode, fld *ast.DefineFieldStatement) error {
	if fld.Value != nil {
		if err := validateValueClause(fld.Value); err != nil {
			return err
		}
	}
	shape := shapeForScalar(fld.Kind, fld.Flexible)
	existing := arrNode.Element

	node := &FieldNode{
		Shape:      shape,
		Scalar:     fld.Kind,
		Optional:   kind.IsOption(fld.Kind),
		HasDefault: fld.Default != nil,
		ValueExpr:  fld.Value,
		ReadOnly:   fld.ReadOnly,
	}

	switch shape {
	case ShapeNestedObject:
		if existing != nil && existing.Shape == ShapeNestedObject {
			node.Children = existing.Children
		} else {
			node.Children = map[string]*FieldNode{}
		}
	case ShapeNestedArray:
		if existing != nil && existing.Shape == ShapeNestedArray {
			node.Element = existing.Element
		} else {
			node.Element = &FieldNode{Shape: ShapeNestedObject, Children: map[string]*FieldNode{}}
		}
	}

	arrNode.Element = node
	return nil
}

// selectKindOf walks a FieldNode to its select-projection kind: a
// simple node is its declared scalar as-is; nested shapes rebuild an
// Object/Array from their children and wrap Option only when the node
// itself was declared optional.
func selectKindOf(n *FieldNode) kind.Kind {
	switch n.Shape {
	case ShapeNestedObject:
		fields := make(map[string]kind.Kind, len(n.Children))
		for name, child := range n.Children {
			fields[name] = selectKindOf(child)
		}
		obj := kind.Kind(kind.NewObject(fields))
		if n.Optional {
			return kind.Option{Inner: obj}
		}
		return obj
	case ShapeNestedArray:
		arr := kind.Kind(kind.Array{Element: selectKindOf(n.Element)})
		if n.Optional {
			return kind.Option{Inner: arr}
		}
		return arr
	default:
		return n.Scalar
	}
}

// createKindOf walks a FieldNode to its create-projection kind. A
// field whose VALUE clause does not reference $value is omitted
// entirely (the database supplies it unconditionally); every optional
// or defaulted field is forced into Option, since the caller need not
// supply it on insert.
func createKindOf(n *FieldNode) (kind.Kind, bool) {
	if n.ValueExpr != nil && !valueUsesValue(n.ValueExpr) {
		return nil, false
	}

	switch n.Shape {
	case ShapeNestedObject:
		fields := map[string]kind.Kind{}
		for name, child := range n.Children {
			if ck, include := createKindOf(child); include {
				fields[name] = ck
			}
		}
		var result kind.Kind = kind.NewObject(fields)
		if n.Optional || n.HasDefault {
			result = kind.WrapOption(result)
		}
		return result, true
	case ShapeNestedArray:
		elemKind, include := createKindOf(n.Element)
		if !include {
			elemKind = kind.Unknown{}
		}
		var result kind.Kind = kind.Array{Element: elemKind}
		if n.Optional || n.HasDefault {
			result = kind.WrapOption(result)
		}
		return result, true
	default:
		result := n.Scalar
		if n.Optional || n.HasDefault {
			result = kind.WrapOption(result)
		}
		return result, true
	}
}
