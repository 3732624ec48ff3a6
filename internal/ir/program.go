package ir

import (
	"fmt"
	"strings"

	"github.com/banditmoscow1337/smith/internal/types"
)

// FieldDecl is one (name, type) pair in a struct declaration.
type FieldDecl struct {
	Name string
	Type types.TypeID
}

// StructDecl is a struct template's declaration text. IsGlobal structs
// additionally carry a serialization-derive attribute so the main-block
// epilogue can print them as JSON.
type StructDecl struct {
	Name     string
	Fields   []FieldDecl
	IsGlobal bool
}

func (d StructDecl) String() string {
	var b strings.Builder
	if d.IsGlobal {
		b.WriteString("#[derive(Serialize)]\n")
	}
	fmt.Fprintf(&b, "struct %s {\n", d.Name)
	for _, f := range d.Fields {
		fmt.Fprintf(&b, "    %s: %s,\n", f.Name, f.Type.String())
	}
	b.WriteString("}")
	return b.String()
}

// Param is one function parameter. Mutable marks the parameter binding
// itself (not its referent) reassignable inside the body, mirroring Rust's
// `fn f(mut x: T)` — distinct from BorrowKind, which governs the referent's
// mutability for ExclusiveRef parameters.
type Param struct {
	Name       string
	Type       types.TypeID
	BorrowKind types.BorrowKind
	Mutable    bool
}

func (p Param) String() string {
	mut := ""
	if p.Mutable {
		mut = "mut "
	}
	return fmt.Sprintf("%s%s: %s%s", mut, p.Name, p.BorrowKind.String(), p.Type.String())
}

// FuncDecl is a complete function: signature plus body.
type FuncDecl struct {
	Name       string
	Params     []Param
	ReturnType types.TypeID
	Body       Block
}

func (f FuncDecl) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	ret := ""
	if !f.ReturnType.IsNull() {
		ret = " -> " + f.ReturnType.String()
	}
	return fmt.Sprintf("fn %s(%s)%s %s", f.Name, strings.Join(parts, ", "), ret, f.Body.String())
}

// Program is the ordered top-level item list: structs, then non-main
// functions, then the entry point.
type Program struct {
	Structs []StructDecl
	Funcs   []FuncDecl
	Main    FuncDecl
}
