// Package assembler drives one whole-program generation run: structs, then
// top-level functions, then main, each inserted into scope as it completes
// so later functions may call earlier ones — grounded on
// original_source/smith/src/generator/program_gen.rs and
// original_source/smith/src/lib.rs's top-level Generator::gen_program.
package assembler

import (
	"math/rand"

	"github.com/banditmoscow1337/smith/internal/config"
	"github.com/banditmoscow1337/smith/internal/exprgen"
	"github.com/banditmoscow1337/smith/internal/ir"
	"github.com/banditmoscow1337/smith/internal/namegen"
	"github.com/banditmoscow1337/smith/internal/scope"
	"github.com/banditmoscow1337/smith/internal/stmtgen"
	"github.com/banditmoscow1337/smith/internal/structtable"
	"github.com/banditmoscow1337/smith/internal/types"
)

// Assembler owns the per-seed generation pipeline's shared state: the name
// generator, struct catalog, scope context and the expression/statement
// generators threaded through it.
type Assembler struct {
	Names   *namegen.Generator
	Structs *structtable.Table
	Ctx     *scope.Context
	Exprs   *exprgen.Generator
	Stmts   *stmtgen.Generator
}

// New wires a fresh Assembler around cfg: a new struct catalog, name
// generator and scope Context, plus the expression and statement
// generators layered on top of them.
func New(cfg *config.Config) *Assembler {
	names := namegen.New()
	structs := structtable.New()
	ctx := scope.NewContext(cfg, names, structs)
	exprs := exprgen.New(structs, ctx)
	stmts := stmtgen.New(exprs, structs, ctx)
	return &Assembler{Names: names, Structs: structs, Ctx: ctx, Exprs: exprs, Stmts: stmts}
}

// randBorrowKind is the parameter-declaration analogue of stmtgen's
// let-binding borrow-kind sampler: uniform over Owned/SharedRef/ExclusiveRef.
func randBorrowKind(rng *rand.Rand) types.BorrowKind {
	switch rng.Intn(3) {
	case 0:
		return types.Owned
	case 1:
		return types.SharedRef
	default:
		return types.ExclusiveRef
	}
}

// randRefBorrowKind is randBorrowKind restricted to reference kinds, uniform
// over SharedRef/ExclusiveRef — used whenever a parameter borrows the global
// struct, which main owns and which a function may therefore never take by
// value.
func randRefBorrowKind(rng *rand.Rand) types.BorrowKind {
	if rng.Intn(2) == 0 {
		return types.SharedRef
	}
	return types.ExclusiveRef
}

// probGlobalParam is the per-parameter-slot chance of reaching for the
// distinguished global struct instead of an ordinary declared type, capped
// to at most once per function by the usedGlobal guard in function().
const probGlobalParam = 4

// Program generates one complete program: a random number of structs, the
// distinguished global struct, a random number of top-level functions (each
// callable by functions declared after it, and each eligible to take the
// global struct by reference), and the main entry point. The global struct
// is generated before the function loop so functions can reference it —
// original_source/smith/src/generator/main_gen.rs generates it first for
// the same reason.
func (a *Assembler) Program(rng *rand.Rand) ir.Program {
	numStructs := rng.Intn(a.Ctx.Cfg.MaxStructs + 1)
	for i := 0; i < numStructs; i++ {
		structtable.GenStruct(a.Structs, rng, a.Names)
	}

	global := structtable.GenGlobalStruct(a.Structs, rng, a.Names)

	numFuncs := rng.Intn(a.Ctx.Cfg.MaxFuncs + 1)
	funcs := make([]ir.FuncDecl, 0, numFuncs)
	for i := 0; i < numFuncs; i++ {
		funcs = append(funcs, a.function(rng))
	}

	main := ir.FuncDecl{
		Name:       "main",
		ReturnType: types.NullType(),
		Body:       a.Stmts.MainBlock(rng, global),
	}

	return ir.Program{Structs: a.Structs.Declarations(), Funcs: funcs, Main: main}
}

// function generates one top-level function: a randomly sized parameter
// list (each parameter of a random already-declared type and borrow kind,
// with an early-stop probability so not every function saturates
// MaxFuncParams), a random return type (RandTypeWithNull, since functions
// alone may return nothing), and a body whose scope starts fresh except for
// the parameters themselves. At most one parameter per function may be the
// global struct, always forced to a reference borrow kind since main owns
// it and it can never be moved out from under main (mirroring func_gen.rs's
// has_global_struct flag). The completed FuncTemplate is registered in the
// shared Context so later-generated functions, and main, can call it.
func (a *Assembler) function(rng *rand.Rand) ir.FuncDecl {
	name := a.Names.Func()
	returnType := a.Structs.RandTypeWithNull(rng)

	numParams := rng.Intn(a.Ctx.Cfg.MaxFuncParams + 1)
	params := make([]ir.Param, 0, numParams)
	usedGlobal := false
	for i := 0; i < numParams; i++ {
		// Early-stop: each additional parameter beyond the first is only
		// added with even odds, so parameter-list length varies instead of
		// always hugging MaxFuncParams.
		if i > 0 && rng.Intn(2) == 0 {
			break
		}

		var (
			t  types.TypeID
			bk types.BorrowKind
		)
		if !usedGlobal && rng.Intn(probGlobalParam) == 0 {
			t = a.Structs.RandTypeWithGlobal(rng)
			if global, ok := a.Structs.GlobalTemplate(); ok && t.StructName == global.Name {
				usedGlobal = true
				bk = randRefBorrowKind(rng)
			} else {
				bk = randBorrowKind(rng)
			}
		} else {
			t = a.Structs.RandType(rng)
			bk = randBorrowKind(rng)
		}

		params = append(params, ir.Param{
			Name:       a.Names.Param(),
			Type:       t,
			BorrowKind: bk,
			Mutable:    rng.Intn(2) == 0,
		})
	}

	a.Ctx.EnterScope()
	for _, p := range params {
		if p.Type.IsStruct() {
			a.Ctx.InsertStruct(p.Name, p.Type, p.BorrowKind, p.Mutable)
		} else {
			a.Ctx.InsertVar(p.Name, p.Type, p.BorrowKind, p.Mutable)
		}
	}
	body := a.Stmts.BlockWithReturn(rng, returnType)
	a.Ctx.LeaveScope()

	tmplParams := make([]ir.Param, len(params))
	copy(tmplParams, params)
	a.Ctx.InsertFunc(name, &scope.FuncTemplate{Name: name, Params: tmplParams, ReturnType: returnType})

	return ir.FuncDecl{Name: name, Params: params, ReturnType: returnType, Body: body}
}
