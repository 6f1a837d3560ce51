// Package schema elaborates a parsed schema document into the
// immutable Schema the interpreter borrows for every query it types:
// per-table create/select projections, view definitions (typed
// lazily), and the user-defined function table.
package schema

import (
	"sync"

	"github.com/siteforge-io/surreal-codegen-sub000/internal/ast"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/diag"
	"github.com/siteforge-io/surreal-codegen-sub000/internal/kind"
)

// Table is a schemaful, non-view table: its field tree plus the
// derived create/select/update projections.
type Table struct {
	Name        string
	Root        map[string]*FieldNode
	IDValueKind kind.Kind // non-nil only when `DEFINE FIELD id` re-typed the id value

	SelectKind kind.Kind
	CreateKind kind.Kind
	UpdateKind kind.Kind // reserved; mirrors SelectKind until update projections diverge
}

// IDKind returns the kind surfaced as the value inside this table's
// record id: string unless an explicit `DEFINE FIELD id ON t TYPE K`
// re-typed it. A declared record<...> id stays string, since the id
// field's contract already carries the record wrapper itself.
func (t *Table) IDKind() kind.Kind {
	if t.IDValueKind == nil {
		return kind.String{}
	}
	if _, ok := t.IDValueKind.(kind.Record); ok {
		return kind.String{}
	}
	return t.IDValueKind
}

// View is a virtual table whose rows come from a SELECT. Its select
// kind is computed lazily (first reference) and memoized; computation
// lives in internal/interpret, which alone has the statement
// interpreter needed to type the defining SELECT.
type View struct {
	Name    string
	Select  *ast.SelectStatement
	Sources []string

	mu   sync.Mutex
	memo kind.Kind
}

// Memoized returns the view's cached select kind, if any computation
// has completed.
func (v *View) Memoized() (kind.Kind, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.memo, v.memo != nil
}

// Store caches k as the view's select kind. Safe for concurrent callers
// racing to compute the same view; the first writer wins, later
// writers with an equal kind are harmless no-ops.
func (v *View) Store(k kind.Kind) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.memo == nil {
		v.memo = k
	}
}

// Function is a user-defined `fn::name(args) { body }` declaration.
type Function struct {
	Name string
	Args []ast.FunctionArg
	Body []ast.Statement
}

// Schema is the immutable result of elaboration. Safe for concurrent
// read access across per-query analyses; the only field that mutates
// after construction is each View's internal memo, guarded by its own
// mutex.
type Schema struct {
	Tables    map[string]*Table
	Views     map[string]*View
	Functions map[string]*Function
}

// IDKinds collects the per-table (and per-view) id value kinds the
// emitter renders inside RecordId intersections. Views always use the
// string default: a view's id is synthesized from its name, never
// re-typed by a DEFINE FIELD.
func (s *Schema) IDKinds() map[string]kind.Kind {
	out := make(map[string]kind.Kind, len(s.Tables)+len(s.Views))
	for name, t := range s.Tables {
		out[name] = t.IDKind()
	}
	for name := range s.Views {
		out[name] = kind.String{}
	}
	return out
}

// LookupAny reports whether name is either a table or a view.
func (s *Schema) LookupAny(name string) bool {
	if _, ok := s.Tables[name]; ok {
		return true
	}
	_, ok := s.Views[name]
	return ok
}

// Elaborate builds a Schema from a parsed schema document's top-level
// statements. Only DEFINE TABLE / DEFINE FIELD / DEFINE FUNCTION
// statements are meaningful here; anything else is ignored.
func Elaborate(stmts []ast.Statement) (*Schema, error) {
	s := &Schema{
		Tables:    map[string]*Table{},
		Views:     map[string]*View{},
		Functions: map[string]*Function{},
	}

	// Pass 1: tables and views, duplicate-name checked together.
	for _, stmt := range stmts {
		def, ok := stmt.(ast.DefineTableStatement)
		if !ok {
			continue
		}
		if s.LookupAny(def.Name) {
			return nil, diag.Wrapf(diag.ErrSchemaConflict, "duplicate table or view name", def.Name)
		}
		if def.View != nil {
			sources := tableSources(def.View.Select.What)
			if len(sources) > 1 {
				return nil, diag.Wrapf(diag.ErrViewMultipleSources, "view references more than one source table", def.Name)
			}
			s.Views[def.Name] = &View{Name: def.Name, Select: def.View.Select, Sources: sources}
		} else {
			s.Tables[def.Name] = &Table{Name: def.Name, Root: map[string]*FieldNode{}}
		}
	}

	// Pass 2: fields, in source order, merged into their table's tree.
	for _, stmt := range stmts {
		def, ok := stmt.(ast.DefineFieldStatement)
		if !ok {
			continue
		}
		table, isTable := s.Tables[def.Table]
		if !isTable {
			if _, isView := s.Views[def.Table]; isView {
				return nil, diag.Wrapf(diag.ErrFieldOnView, "fields cannot target a view", def.Table)
			}
			return nil, diag.Wrapf(diag.ErrUnknownFieldTarget, "DEFINE FIELD targets an unknown table", def.Table)
		}
		if err := mergeField(table.Root, def.Path, &def); err != nil {
			return nil, err
		}
		if len(def.Path) == 1 && def.Path[0].Kind == ast.PartField && def.Path[0].Field == "id" {
			table.IDValueKind = def.Kind
		}
	}

	// Pass 3: functions.
	for _, stmt := range stmts {
		def, ok := stmt.(ast.DefineFunctionStatement)
		if !ok {
			continue
		}
		s.Functions[def.Name] = &Function{Name: def.Name, Args: def.Args, Body: def.Body}
	}

	for _, t := range s.Tables {
		t.buildKinds()
	}

	return s, nil
}

func tableSources(what []ast.Expr) []string {
	var out []string
	for _, e := range what {
		if ref, ok := e.(ast.TableRef); ok {
			out = append(out, ref.Name)
		}
	}
	return out
}

func (t *Table) buildKinds() {
	idKind := kind.Kind(kind.Record{Tables: []string{t.Name}})

	selectFields := map[string]kind.Kind{}
	for name, node := range t.Root {
		if name == "id" {
			continue
		}
		selectFields[name] = selectKindOf(node)
	}
	selectFields["id"] = idKind
	t.SelectKind = kind.NewObject(selectFields)

	createFields := map[string]kind.Kind{}
	for name, node := range t.Root {
		if name == "id" {
			continue
		}
		if ck, include := createKindOf(node); include {
			createFields[name] = ck
		}
	}
	createFields["id"] = kind.WrapOption(idKind)
	t.CreateKind = kind.NewObject(createFields)

	t.UpdateKind = t.SelectKind
}
