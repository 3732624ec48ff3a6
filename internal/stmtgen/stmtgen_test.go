package stmtgen

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/banditmoscow1337/smith/internal/config"
	"github.com/banditmoscow1337/smith/internal/exprgen"
	"github.com/banditmoscow1337/smith/internal/ir"
	"github.com/banditmoscow1337/smith/internal/namegen"
	"github.com/banditmoscow1337/smith/internal/scope"
	"github.com/banditmoscow1337/smith/internal/structtable"
	"github.com/banditmoscow1337/smith/internal/types"
)

func newTestGenerator() (*Generator, *scope.Context, *structtable.Table) {
	cfg := config.New()
	structs := structtable.New()
	ctx := scope.NewContext(cfg, namegen.New(), structs)
	exprs := exprgen.New(structs, ctx)
	return New(exprs, structs, ctx), ctx, structs
}

func TestLetStmtReferenceKindRenamesBorrowOntoRealBinding(t *testing.T) {
	g, ctx, _ := newTestGenerator()
	rng := rand.New(rand.NewSource(1))
	ctx.InsertVar("a", types.IntType(types.I32), types.Owned, true)

	// Force a deterministic reference-kind let by calling the unexported
	// helper directly is not possible from outside; instead run enough
	// draws that at least one let of reference kind occurs and assert the
	// invariant holds whenever it does: no stray reservation token is ever
	// left installed as a Borrow key in the resulting scope.
	for i := 0; i < 50; i++ {
		_ = g.Stmt(rng)
	}
	for name := range borrowKeys(ctx) {
		if strings.HasPrefix(name, "$rsv") {
			t.Fatalf("reservation token %q leaked into scope as a permanent borrow key; RenameBorrower should have re-homed it", name)
		}
	}
}

func borrowKeys(ctx *scope.Context) map[string]bool {
	out := map[string]bool{}
	for _, v := range ctx.AllEntries() {
		out[v.Name] = true
	}
	return out
}

func TestBlockRespectsMaxStmtsInBlock(t *testing.T) {
	g, _, _ := newTestGenerator()
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 20; i++ {
		b := g.Block(rng)
		if len(b.Stmts) > g.Ctx.Cfg.MaxStmtsInBlock {
			t.Fatalf("block has %d statements, exceeds MaxStmtsInBlock=%d", len(b.Stmts), g.Ctx.Cfg.MaxStmtsInBlock)
		}
	}
}

func TestBlockWithReturnOmitsReturnForNullType(t *testing.T) {
	g, _, _ := newTestGenerator()
	rng := rand.New(rand.NewSource(5))
	b := g.BlockWithReturn(rng, types.NullType())
	for _, s := range b.Stmts {
		if _, ok := s.(ir.ReturnStmt); ok {
			t.Fatal("BlockWithReturn must never append a ReturnStmt for NullType")
		}
	}
}

func TestBlockWithReturnAppendsReturnForNonNullType(t *testing.T) {
	g, _, _ := newTestGenerator()
	rng := rand.New(rand.NewSource(9))
	b := g.BlockWithReturn(rng, types.IntType(types.I32))
	if len(b.Stmts) == 0 {
		t.Fatal("expected at least the trailing return statement")
	}
	if _, ok := b.Stmts[len(b.Stmts)-1].(ir.ReturnStmt); !ok {
		t.Fatalf("last statement must be a ReturnStmt, got %T", b.Stmts[len(b.Stmts)-1])
	}
}

func TestMainBlockDeclaresGlobalOnceAndPrintsIt(t *testing.T) {
	g, _, structs := newTestGenerator()
	rng := rand.New(rand.NewSource(11))
	global := structtable.GenGlobalStruct(structs, rng, namegen.New())

	b := g.MainBlock(rng, global)
	if len(b.Stmts) < 2 {
		t.Fatal("main block must have at least the global let and the println epilogue")
	}
	let, ok := b.Stmts[0].(ir.LetStmt)
	if !ok {
		t.Fatalf("first statement must declare the global struct, got %T", b.Stmts[0])
	}
	if let.Type.StructName != global.Name {
		t.Fatalf("global let declares type %s, want %s", let.Type.StructName, global.Name)
	}
	last, ok := b.Stmts[len(b.Stmts)-1].(ir.PrintlnStmt)
	if !ok {
		t.Fatalf("last statement must be PrintlnStmt, got %T", b.Stmts[len(b.Stmts)-1])
	}
	if last.VarName != let.Name {
		t.Fatalf("println prints %q, want the global's own name %q", last.VarName, let.Name)
	}
}

func TestOpAssignStmtCanProduceSelfNegStmt(t *testing.T) {
	found := false
	for seed := int64(0); seed < 200 && !found; seed++ {
		g, ctx, _ := newTestGenerator()
		rng := rand.New(rand.NewSource(seed))
		ctx.InsertVar("counter", types.IntType(types.I32), types.Owned, true)
		s, ok := g.opAssignStmt(rng)
		if ok {
			if _, isNeg := s.(ir.SelfNegStmt); isNeg {
				found = true
			}
		}
	}
	if !found {
		t.Fatal("expected at least one SelfNegStmt across 200 independent draws")
	}
}

func TestLoopStmtGuardPrecedesLoopAsSiblingStatement(t *testing.T) {
	g, _, _ := newTestGenerator()
	rng := rand.New(rand.NewSource(1234))

	// ProbMaxForLoopIters is 0.5 by default; drive a handful of loops and
	// check the invariant whenever the guard fires.
	found := false
	for i := 0; i < 30 && !found; i++ {
		s := g.loopStmt(rng)
		if group, ok := s.(ir.StmtGroup); ok {
			found = true
			if len(group.Stmts) != 2 {
				t.Fatalf("guarded loop StmtGroup should have exactly 2 siblings, got %d", len(group.Stmts))
			}
			if _, ok := group.Stmts[0].(ir.LetStmt); !ok {
				t.Fatalf("first sibling must be the counter LetStmt, got %T", group.Stmts[0])
			}
			if _, ok := group.Stmts[1].(ir.LoopStmt); !ok {
				t.Fatalf("second sibling must be the LoopStmt, got %T", group.Stmts[1])
			}
		}
	}
	if !found {
		t.Skip("guard never triggered across 30 draws at this seed; not a failure, just an unlucky run")
	}
}
