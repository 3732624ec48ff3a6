package render

import (
	"math/big"
	"strings"
	"testing"

	"github.com/banditmoscow1337/smith/internal/ir"
	"github.com/banditmoscow1337/smith/internal/types"
)

func sampleProgram() ir.Program {
	structDecl := ir.StructDecl{
		Name:     "Counter",
		Fields:   []ir.FieldDecl{{Name: "field_0", Type: types.IntType(types.I32)}},
		IsGlobal: true,
	}
	fn := ir.FuncDecl{
		Name:       "func_0",
		ReturnType: types.IntType(types.I32),
		Body: ir.Block{Stmts: []ir.Stmt{
			ir.ReturnStmt{Value: ir.IntLit{Width: types.I32, Value: big.NewInt(1)}},
		}},
	}
	main := ir.FuncDecl{
		Name:       "main",
		ReturnType: types.NullType(),
		Body: ir.Block{Stmts: []ir.Stmt{
			ir.LetStmt{Name: "g", Type: types.StructType("Counter"), Value: ir.StructLit{TypeName: "Counter", Fields: []ir.FieldInit{{Name: "field_0", Value: ir.IntLit{Width: types.I32, Value: big.NewInt(0)}}}}},
			ir.PrintlnStmt{VarName: "g"},
		}},
	}
	return ir.Program{Structs: []ir.StructDecl{structDecl}, Funcs: []ir.FuncDecl{fn}, Main: main}
}

func TestProgramIsDeterministic(t *testing.T) {
	p := sampleProgram()
	a := Program(p)
	b := Program(p)
	if a != b {
		t.Fatal("Program() must be a pure function of its input AST")
	}
}

func TestProgramIncludesPreambleAndEpilogue(t *testing.T) {
	out := Program(sampleProgram())
	for _, want := range []string{
		"#![allow(warnings)]",
		"use serde::Serialize;",
		"use runtime::ops::*;",
		"#[derive(Serialize)]",
		"struct Counter",
		"fn func_0",
		"fn main",
		`println!("{}", serde_json::to_string(&g).unwrap());`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered output missing expected fragment %q\n--- output ---\n%s", want, out)
		}
	}
}

func TestWriteProgramMatchesProgram(t *testing.T) {
	p := sampleProgram()
	var buf strings.Builder
	WriteProgram(&buf, p)
	if buf.String() != Program(p) {
		t.Fatal("WriteProgram and Program must render identical text")
	}
}
