// Package stmtgen synthesises statement blocks — lets, assigns, compound
// assigns, conditionals, counted loops and bare function calls — over a
// shared scope.Context, grounded on
// original_source/smith/src/generator/stmt_gen.rs and
// original_source/smith/src/program/stmt/*.rs.
package stmtgen

import (
	"math/big"
	"math/rand"

	"github.com/banditmoscow1337/smith/internal/exprgen"
	"github.com/banditmoscow1337/smith/internal/filters"
	"github.com/banditmoscow1337/smith/internal/ir"
	"github.com/banditmoscow1337/smith/internal/sampler"
	"github.com/banditmoscow1337/smith/internal/scope"
	"github.com/banditmoscow1337/smith/internal/structtable"
	"github.com/banditmoscow1337/smith/internal/types"
)

// StmtWeights orders: Let, Assign, OpAssign, Conditional, Loop, FuncCall.
var StmtWeights = []int{3, 2, 2, 2, 1, 1}

var opAssignOps = []ir.ArithOp{ir.Add, ir.Sub, ir.Mul, ir.Div, ir.Mod, ir.BitAnd, ir.BitOr, ir.BitXor}

// Generator synthesises statement blocks against a struct table and a
// shared expression generator / scope Context.
type Generator struct {
	Exprs   *exprgen.Generator
	Structs *structtable.Table
	Ctx     *scope.Context
}

func New(exprs *exprgen.Generator, structs *structtable.Table, ctx *scope.Context) *Generator {
	return &Generator{Exprs: exprs, Structs: structs, Ctx: ctx}
}

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

func randType(rng *rand.Rand, structs *structtable.Table) types.TypeID {
	return structs.RandType(rng)
}

// Block generates a bounded-length sequence of statements inside a fresh
// child scope.
func (g *Generator) Block(rng *rand.Rand) ir.Block {
	g.Ctx.EnterScope()
	defer g.Ctx.LeaveScope()
	return g.stmts(rng)
}

// BlockWithReturn is Block, then appends a ReturnStmt of returnType — wholly
// omitted when returnType is NullType.
func (g *Generator) BlockWithReturn(rng *rand.Rand, returnType types.TypeID) ir.Block {
	g.Ctx.EnterScope()
	defer g.Ctx.LeaveScope()
	b := g.stmts(rng)
	if returnType.IsNull() {
		return b
	}
	b.Stmts = append(b.Stmts, ir.ReturnStmt{Value: g.Exprs.Expr(rng, returnType, types.Owned)})
	return b
}

// MainBlock generates the distinguished entry-point body: declares and
// initialises the global struct exactly once, then a bounded body, then
// prints the global's JSON serialisation.
func (g *Generator) MainBlock(rng *rand.Rand, globalTmpl *structtable.Template) ir.Block {
	g.Ctx.EnterScope()
	defer g.Ctx.LeaveScope()

	globalType := types.StructType(globalTmpl.Name)
	name := g.Ctx.Names.Var()
	value := g.Exprs.LiteralExpr(rng, globalType)
	let := ir.LetStmt{Mutable: false, Name: name, Type: globalType, BorrowKind: types.Owned, Value: value}
	g.Ctx.InsertStruct(name, globalType, types.Owned, false)

	b := g.stmts(rng)
	b.Stmts = append([]ir.Stmt{let}, b.Stmts...)
	b.Stmts = append(b.Stmts, ir.PrintlnStmt{VarName: name})
	return b
}

func (g *Generator) stmts(rng *rand.Rand) ir.Block {
	n := rng.Intn(g.Ctx.Cfg.MaxStmtsInBlock + 1)
	out := make([]ir.Stmt, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, g.Stmt(rng))
	}
	return ir.Block{Stmts: out}
}

// Stmt samples one statement variant, retrying on precondition failure and
// falling back to letStmt — always legal, since a fresh literal let never
// needs a candidate scope entry.
func (g *Generator) Stmt(rng *rand.Rand) ir.Stmt {
	return sampler.TryVariants(rng, StmtWeights, g.Ctx.Cfg.RetryCap, func(variant int) (ir.Stmt, bool) {
		switch variant {
		case 0:
			return g.letStmt(rng), true
		case 1:
			return g.assignStmt(rng)
		case 2:
			return g.opAssignStmt(rng)
		case 3:
			if g.Ctx.IfDepth >= g.Ctx.Cfg.MaxConditionalDepth {
				return nil, false
			}
			return g.conditionalStmt(rng), true
		case 4:
			if g.Ctx.LoopDepth >= g.Ctx.Cfg.MaxLoopDepth {
				return nil, false
			}
			return g.loopStmt(rng), true
		case 5:
			return g.funcCallStmt(rng)
		default:
			return nil, false
		}
	}, func() ir.Stmt { return g.letStmt(rng) })
}

// letStmt declares a new binding of a randomly chosen type and borrow kind.
// For reference kinds the RHS is generated under a throwaway reservation
// token before the real name exists in scope — so the filter search can
// never self-match the not-yet-declared binding — and the borrow is then
// re-homed onto the real name once it is inserted.
func (g *Generator) letStmt(rng *rand.Rand) ir.Stmt {
	t := randType(rng, g.Structs)
	bk := randBorrowKind(rng)
	mutable := rng.Intn(2) == 1
	name := g.Ctx.Names.Var()

	var value ir.Expr
	var borrowedReal bool
	var token string
	if bk != types.Owned {
		token = g.Ctx.NewReservation()
		value, borrowedReal = g.Exprs.BorrowExprNamed(rng, t, bk, token)
	} else {
		value = g.Exprs.Expr(rng, t, types.Owned)
	}

	if t.IsStruct() {
		g.Ctx.InsertStruct(name, t, bk, mutable)
	} else {
		g.Ctx.InsertVar(name, t, bk, mutable)
	}

	if bk != types.Owned && borrowedReal {
		g.Ctx.RenameBorrower(token, name)
	}

	return ir.LetStmt{Mutable: mutable, Name: name, Type: t, BorrowKind: bk, Value: value}
}

// assignStmt overwrites a mutable or exclusively-referenced entry in place.
func (g *Generator) assignStmt(rng *rand.Rand) (ir.Stmt, bool) {
	flt := filters.New().Add(notFuncFilter()).Add(filters.IsMutableOrExclusiveRefFilter())
	cands := flt.Filter(g.Ctx)
	if len(cands) == 0 {
		return nil, false
	}
	chosen := cands[rng.Intn(len(cands))]

	g.Ctx.EnterScope()
	g.Ctx.FuncExclusiveBorrow(chosen.Name)
	value := g.Exprs.Expr(rng, chosen.Entry.Type, types.Owned)
	g.Ctx.LeaveScope()

	deref := chosen.Entry.BorrowKind == types.ExclusiveRef && !containsDot(chosen.Name)
	return ir.AssignStmt{Target: chosen.Name, Deref: deref, Value: value}, true
}

// opAssignStmt performs a saturating compound assignment against a mutable
// integer-typed entry. One extra slot beyond opAssignOps picks the unary
// bit_neg form (SelfNegStmt), the one compound-assignment operator with no
// right-hand value.
func (g *Generator) opAssignStmt(rng *rand.Rand) (ir.Stmt, bool) {
	flt := filters.New().Add(filters.IsIntTypeFilter()).Add(func(e *scope.Entry, _ types.BorrowStatus) bool { return e.Mutable })
	cands := flt.Filter(g.Ctx)
	if len(cands) == 0 {
		return nil, false
	}
	chosen := cands[rng.Intn(len(cands))]

	choice := rng.Intn(len(opAssignOps) + 1)
	if choice == len(opAssignOps) {
		return ir.SelfNegStmt{Target: chosen.Name}, true
	}
	op := opAssignOps[choice]
	value := g.Exprs.Expr(rng, chosen.Entry.Type, types.Owned)
	return ir.OpAssignStmt{Target: chosen.Name, Op: op, Value: value}, true
}

// conditionalStmt generates a chain of 1..MaxConditionalBranches if/else-if
// arms plus an optional trailing else, tracking if-nesting depth so
// MaxConditionalDepth is honoured by recursive Block generation.
func (g *Generator) conditionalStmt(rng *rand.Rand) ir.Stmt {
	g.Ctx.IfDepth++
	defer func() { g.Ctx.IfDepth-- }()

	n := 1 + rng.Intn(g.Ctx.Cfg.MaxConditionalBranches)
	branches := make([]ir.Branch, 0, n)
	for i := 0; i < n; i++ {
		cond := g.Exprs.Expr(rng, types.BoolType(), types.Owned)
		branches = append(branches, ir.Branch{Cond: cond, Body: g.Block(rng)})
	}
	var elseBlock *ir.Block
	if rng.Intn(2) == 1 {
		b := g.Block(rng)
		elseBlock = &b
	}
	return ir.ConditionalStmt{Branches: branches, Else: elseBlock}
}

// loopStmt generates a counted for-loop over a randomly chosen integer
// width. With probability Cfg.ProbMaxForLoopIters it additionally injects an
// iteration-bound guard: a `let mut k: u32 = 0;` sibling statement placed
// immediately before the loop, a break-if-exceeded check as the loop body's
// first statement, and a counter increment as its last.
func (g *Generator) loopStmt(rng *rand.Rand) ir.Stmt {
	g.Ctx.LoopDepth++
	defer func() { g.Ctx.LoopDepth-- }()

	w := types.AllIntWidths[rng.Intn(len(types.AllIntWidths))]
	it := types.IntType(w)
	lower := g.Exprs.Expr(rng, it, types.Owned)
	upper := g.Exprs.Expr(rng, it, types.Owned)
	loopVar := g.Ctx.Names.Loop()

	injectGuard := rng.Float64() < g.Ctx.Cfg.ProbMaxForLoopIters
	var guardCounter string
	if injectGuard {
		guardCounter = g.Ctx.Names.Loop()
		g.Ctx.InsertVar(guardCounter, types.IntType(types.U32), types.Owned, true)
	}

	g.Ctx.EnterLoopScope()
	n := rng.Intn(g.Ctx.Cfg.MaxStmtsInBlock + 1)
	body := make([]ir.Stmt, 0, n+2)

	if injectGuard {
		body = append(body, ir.ConditionalStmt{
			Branches: []ir.Branch{{
				Cond: ir.ComparisonExpr{
					Op:    ir.Gt,
					Left:  ir.VarExpr{Name: guardCounter},
					Right: ir.IntLit{Width: types.U32, Value: big.NewInt(int64(g.Ctx.Cfg.MaxForLoopIters))},
				},
				Body: ir.Block{Stmts: []ir.Stmt{ir.BreakStmt{}}},
			}},
		})
	}
	for i := 0; i < n; i++ {
		body = append(body, g.Stmt(rng))
	}
	if injectGuard {
		body = append(body, ir.OpAssignStmt{Target: guardCounter, Op: ir.Add, Value: ir.IntLit{Width: types.U32, Value: big.NewInt(1)}})
	}
	g.Ctx.LeaveLoopScope()

	loop := ir.LoopStmt{Var: loopVar, Width: w, Lower: lower, Upper: upper, Body: ir.Block{Stmts: body}}
	if !injectGuard {
		return loop
	}

	guardDecl := ir.LetStmt{
		Mutable: true,
		Name:    guardCounter,
		Type:    types.IntType(types.U32),
		Value:   ir.IntLit{Width: types.U32, Value: big.NewInt(0)},
	}
	return ir.StmtGroup{Stmts: []ir.Stmt{guardDecl, loop}}
}

// funcCallStmt emits a bare call to any in-scope function, for side effect
// only — its result, if any, is discarded.
func (g *Generator) funcCallStmt(rng *rand.Rand) (ir.Stmt, bool) {
	call, ok := g.Exprs.AnyFuncCallExpr(rng)
	if !ok {
		return nil, false
	}
	return ir.ExprStmt{Call: call}, true
}

func notFuncFilter() filters.Predicate {
	return func(e *scope.Entry, _ types.BorrowStatus) bool { return !e.IsFunc() }
}

func containsDot(s string) bool {
	for _, r := range s {
		if r == '.' {
			return true
		}
	}
	return false
}
