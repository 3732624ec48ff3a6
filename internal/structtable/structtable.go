// Package structtable is the catalog of declared struct templates (one
// "global" distinguished struct among them) and the random concrete-type
// sampler every other generator package queries.
package structtable

import (
	"math/rand"

	"github.com/banditmoscow1337/smith/internal/ir"
	"github.com/banditmoscow1337/smith/internal/namegen"
	"github.com/banditmoscow1337/smith/internal/types"
)

// Template is one declared struct's shape: ordered fields plus whatever
// derive attributes the renderer must emit.
type Template struct {
	Name     string
	Fields   []ir.FieldDecl
	IsGlobal bool
}

// Decl converts the template to its renderable declaration form.
func (t *Template) Decl() ir.StructDecl {
	return ir.StructDecl{Name: t.Name, Fields: t.Fields, IsGlobal: t.IsGlobal}
}

// Table is the ordered catalog of every struct declared so far in a single
// generation run.
type Table struct {
	order      []string
	templates  map[string]*Template
	globalName string
}

func New() *Table {
	return &Table{templates: make(map[string]*Template)}
}

// InsertStruct registers tmpl, appended after every previously inserted
// struct so iteration order matches declaration order.
func (t *Table) InsertStruct(tmpl *Template) {
	t.templates[tmpl.Name] = tmpl
	t.order = append(t.order, tmpl.Name)
	if tmpl.IsGlobal {
		t.globalName = tmpl.Name
	}
}

func (t *Table) GetTemplate(name string) (*Template, bool) {
	tmpl, ok := t.templates[name]
	return tmpl, ok
}

// GlobalTemplate returns the distinguished global struct, if one has been
// generated yet.
func (t *Table) GlobalTemplate() (*Template, bool) {
	if t.globalName == "" {
		return nil, false
	}
	return t.templates[t.globalName], true
}

// Declarations returns every struct in declaration order, ready to render.
func (t *Table) Declarations() []ir.StructDecl {
	out := make([]ir.StructDecl, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.templates[name].Decl())
	}
	return out
}

func (t *Table) primitiveCandidates() []types.TypeID {
	out := make([]types.TypeID, 0, len(types.AllIntWidths)+1)
	out = append(out, types.BoolType())
	for _, w := range types.AllIntWidths {
		out = append(out, types.IntType(w))
	}
	return out
}

func (t *Table) nonGlobalStructCandidates() []types.TypeID {
	out := t.primitiveCandidates()
	for _, name := range t.order {
		if name == t.globalName {
			continue
		}
		out = append(out, types.StructType(name))
	}
	return out
}

// RandType samples uniformly over every declared concrete type, excluding
// NullType and the global struct. Primitives are always present, so this
// never fails to produce a legal type.
func (t *Table) RandType(rng *rand.Rand) types.TypeID {
	candidates := t.nonGlobalStructCandidates()
	return candidates[rng.Intn(len(candidates))]
}

// RandTypeWithGlobal is RandType plus the global struct, once one exists.
func (t *Table) RandTypeWithGlobal(rng *rand.Rand) types.TypeID {
	candidates := t.nonGlobalStructCandidates()
	if t.globalName != "" {
		candidates = append(candidates, types.StructType(t.globalName))
	}
	return candidates[rng.Intn(len(candidates))]
}

// RandTypeWithNull is RandType plus NullType, used only for function return
// types.
func (t *Table) RandTypeWithNull(rng *rand.Rand) types.TypeID {
	candidates := t.nonGlobalStructCandidates()
	candidates = append(candidates, types.NullType())
	return candidates[rng.Intn(len(candidates))]
}

const (
	minStructFields = 1
	maxStructFields = 4
)

// GenStruct creates a new struct template with a random number of fields,
// each of a random already-declared type, inserts it and returns it. Fields
// are only ever drawn from types declared before this call, so the
// resulting struct graph can never contain a reference cycle.
func GenStruct(t *Table, rng *rand.Rand, ng *namegen.Generator) *Template {
	numFields := minStructFields + rng.Intn(maxStructFields-minStructFields+1)
	fields := make([]ir.FieldDecl, 0, numFields)
	for i := 0; i < numFields; i++ {
		fields = append(fields, ir.FieldDecl{Name: ng.Field(), Type: t.RandType(rng)})
	}
	tmpl := &Template{Name: ng.Struct(), Fields: fields}
	t.InsertStruct(tmpl)
	return tmpl
}

const (
	minGlobalFields = 2
	maxGlobalFields = 5
)

// GenGlobalStruct creates the single global struct with a fixed-ish number
// of integer fields and the serialisation-derive attribute used by the
// main-block epilogue. It is the only struct ever marked IsGlobal.
func GenGlobalStruct(t *Table, rng *rand.Rand, ng *namegen.Generator) *Template {
	numFields := minGlobalFields + rng.Intn(maxGlobalFields-minGlobalFields+1)
	fields := make([]ir.FieldDecl, 0, numFields)
	for i := 0; i < numFields; i++ {
		w := types.AllIntWidths[rng.Intn(len(types.AllIntWidths))]
		fields = append(fields, ir.FieldDecl{Name: ng.Field(), Type: types.IntType(w)})
	}
	tmpl := &Template{Name: ng.Struct(), Fields: fields, IsGlobal: true}
	t.InsertStruct(tmpl)
	return tmpl
}
