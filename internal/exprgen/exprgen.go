// Package exprgen synthesises arithmetic/bool/struct/borrow/function-call
// expressions under depth budgets and borrow legality, grounded on
// original_source/smith/src/generator/expr_gen.rs and
// original_source/smith/src/program/expr/*.rs, restructured around the
// explicit *scope.Context redesign (SPEC_FULL.md §9) and the sampler/filter
// combinators instead of ad hoc retry loops.
package exprgen

import (
	"math/rand"
	"strings"

	"github.com/banditmoscow1337/smith/internal/filters"
	"github.com/banditmoscow1337/smith/internal/ir"
	"github.com/banditmoscow1337/smith/internal/sampler"
	"github.com/banditmoscow1337/smith/internal/scope"
	"github.com/banditmoscow1337/smith/internal/structtable"
	"github.com/banditmoscow1337/smith/internal/types"
)

// Variant weight tables. These are exported, mutable package state rather
// than TOML-driven Config fields: they are the "tunable,
// strictly positive for base cases" knobs SPEC_FULL.md §4.G requires,
// without growing Config into a schema for every possible distribution.
var (
	// Literal, Binary, Var, FuncCall, Bitwise.
	ArithWeights = []int{2, 2, 2, 2, 1}
	// Literal, BinaryBool, Comparison, Negation, Var, FuncCall.
	BoolWeights = []int{1, 2, 2, 1, 2, 1}
	// Literal, Var, FuncCall.
	StructWeights = []int{2, 1, 1}
)

var arithOps = []ir.ArithOp{ir.Add, ir.Sub, ir.Mul, ir.Div, ir.Mod}
var bitwiseOps = []ir.ArithOp{ir.BitAnd, ir.BitOr, ir.BitXor}
var boolOps = []ir.BoolOp{ir.And, ir.Or}
var cmpOps = []ir.CmpOp{ir.Gt, ir.Ge, ir.Lt, ir.Le, ir.Eq, ir.Ne}

// Generator synthesises expressions against a struct table and a shared
// generation Context.
type Generator struct {
	Structs *structtable.Table
	Ctx     *scope.Context
}

func New(structs *structtable.Table, ctx *scope.Context) *Generator {
	return &Generator{Structs: structs, Ctx: ctx}
}

func notFuncFilter() filters.Predicate {
	return func(e *scope.Entry, _ types.BorrowStatus) bool { return !e.IsFunc() }
}

func notExclusiveFilter() filters.Predicate {
	return func(_ *scope.Entry, s types.BorrowStatus) bool { return s != types.Exclusive }
}

// Expr returns an expression of the requested type and borrow kind,
// respecting the overall expression-depth cap.
func (g *Generator) Expr(rng *rand.Rand, t types.TypeID, bk types.BorrowKind) ir.Expr {
	g.Ctx.ExprDepth++
	defer func() { g.Ctx.ExprDepth-- }()
	if g.Ctx.ExprDepth > g.Ctx.Cfg.MaxExprDepth {
		return g.LiteralExpr(rng, t)
	}
	if bk != types.Owned {
		return g.BorrowExpr(rng, t, bk)
	}
	switch {
	case t.IsInt():
		return g.arithExpr(rng, t)
	case t.IsBool():
		return g.boolExpr(rng)
	case t.IsStruct():
		return g.structExpr(rng, t)
	default:
		return g.LiteralExpr(rng, t)
	}
}

// LiteralExpr always returns a ground-term expression: an integer literal,
// bool literal, or struct literal whose fields are themselves generated
// recursively with ownership Owned.
func (g *Generator) LiteralExpr(rng *rand.Rand, t types.TypeID) ir.Expr {
	switch {
	case t.IsInt():
		return ir.IntLit{Width: t.Width, Value: types.RandIntValue(rng, t.Width)}
	case t.IsBool():
		return ir.BoolLit{Value: rng.Intn(2) == 1}
	case t.IsStruct():
		tmpl, ok := g.Structs.GetTemplate(t.StructName)
		if !ok {
			panic("exprgen: unknown struct type " + t.StructName)
		}
		fields := make([]ir.FieldInit, 0, len(tmpl.Fields))
		for _, f := range tmpl.Fields {
			fields = append(fields, ir.FieldInit{Name: f.Name, Value: g.Expr(rng, f.Type, types.Owned)})
		}
		return ir.StructLit{TypeName: tmpl.Name, Fields: fields}
	default:
		panic("exprgen: cannot produce a literal of type " + t.String())
	}
}

// BorrowExpr returns an explicit borrow of an eligible scope variable of
// the requested type; if none exists, returns an explicit borrow wrapping
// a freshly generated literal. The borrow is recorded under a fresh,
// ephemeral reservation token (SPEC_FULL.md §9) — use BorrowExprNamed when
// the borrow must be recorded under a real, newly declared binding (e.g. a
// `let` of reference kind) instead.
func (g *Generator) BorrowExpr(rng *rand.Rand, t types.TypeID, bk types.BorrowKind) ir.Expr {
	expr, _ := g.borrowExprAs(rng, t, bk, g.Ctx.NewReservation())
	return expr
}

// BorrowExprNamed is BorrowExpr but records the borrow under borrowerName
// instead of a throwaway reservation token, and reports whether a real
// in-scope variable was borrowed (true) versus a freshly synthesised
// literal being wrapped (false) — callers such as stmtgen's Let use the
// latter to decide whether a durable borrow edge exists at all.
func (g *Generator) BorrowExprNamed(rng *rand.Rand, t types.TypeID, bk types.BorrowKind, borrowerName string) (ir.Expr, bool) {
	return g.borrowExprAs(rng, t, bk, borrowerName)
}

func (g *Generator) borrowExprAs(rng *rand.Rand, t types.TypeID, bk types.BorrowKind, borrowerName string) (ir.Expr, bool) {
	exclusive := bk == types.ExclusiveRef

	flt := filters.New().Add(filters.IsTypeFilter(t)).Add(notFuncFilter())
	if exclusive {
		flt.Add(filters.IsMutableOrExclusiveRefFilter()).Add(filters.IsNotBorrowedFilter())
	} else {
		flt.Add(notExclusiveFilter())
	}

	cands := flt.Filter(g.Ctx)
	if len(cands) == 0 {
		lit := g.LiteralExpr(rng, t)
		return ir.BorrowExpr{Exclusive: exclusive, Inner: lit}, false
	}

	chosen := cands[rng.Intn(len(cands))]
	if exclusive {
		g.Ctx.ExclusiveBorrow(borrowerName, chosen.Name)
	} else {
		g.Ctx.Borrow(borrowerName, chosen.Name)
	}
	if strings.Contains(chosen.Name, ".") {
		g.Ctx.PropagateFieldBorrow(borrowerName, chosen.Name, exclusive)
	}

	inner := ir.Expr(ir.VarExpr{Name: chosen.Name})
	if chosen.Entry.BorrowKind == bk {
		return inner, true
	}
	return ir.BorrowExpr{Exclusive: exclusive, Inner: inner}, true
}

func (g *Generator) arithExpr(rng *rand.Rand, t types.TypeID) ir.Expr {
	g.Ctx.ArithExprDepth++
	defer func() { g.Ctx.ArithExprDepth-- }()
	if g.Ctx.ArithExprDepth > g.Ctx.Cfg.MaxArithExprDepth {
		return g.LiteralExpr(rng, t)
	}
	return sampler.TryVariants(rng, ArithWeights, g.Ctx.Cfg.RetryCap, func(variant int) (ir.Expr, bool) {
		switch variant {
		case 0:
			return g.LiteralExpr(rng, t), true
		case 1:
			op := arithOps[rng.Intn(len(arithOps))]
			return ir.ArithExpr{Op: op, Left: g.arithExpr(rng, t), Right: g.arithExpr(rng, t)}, true
		case 2:
			flt := filters.New().
				Add(filters.IsTypeFilter(t)).
				Add(notFuncFilter()).
				Add(filters.IsBorrowKindFilter(types.Owned)).
				Add(notExclusiveFilter())
			cands := flt.Filter(g.Ctx)
			if len(cands) == 0 {
				return nil, false
			}
			chosen := cands[rng.Intn(len(cands))]
			return ir.VarExpr{Name: chosen.Name}, true
		case 3:
			return g.funcCallExpr(rng, t)
		case 4:
			if rng.Intn(len(bitwiseOps)+1) == len(bitwiseOps) {
				return ir.BitNegExpr{Inner: g.arithExpr(rng, t)}, true
			}
			op := bitwiseOps[rng.Intn(len(bitwiseOps))]
			return ir.ArithExpr{Op: op, Left: g.arithExpr(rng, t), Right: g.arithExpr(rng, t)}, true
		default:
			return nil, false
		}
	}, func() ir.Expr { return g.LiteralExpr(rng, t) })
}

func (g *Generator) boolExpr(rng *rand.Rand) ir.Expr {
	g.Ctx.BoolExprDepth++
	defer func() { g.Ctx.BoolExprDepth-- }()
	boolT := types.BoolType()
	if g.Ctx.BoolExprDepth > g.Ctx.Cfg.MaxBoolExprDepth {
		return g.LiteralExpr(rng, boolT)
	}
	return sampler.TryVariants(rng, BoolWeights, g.Ctx.Cfg.RetryCap, func(variant int) (ir.Expr, bool) {
		switch variant {
		case 0:
			return g.LiteralExpr(rng, boolT), true
		case 1:
			op := boolOps[rng.Intn(len(boolOps))]
			return ir.BoolBinaryExpr{Op: op, Left: g.boolExpr(rng), Right: g.boolExpr(rng)}, true
		case 2:
			w := types.AllIntWidths[rng.Intn(len(types.AllIntWidths))]
			op := cmpOps[rng.Intn(len(cmpOps))]
			it := types.IntType(w)
			return ir.ComparisonExpr{Op: op, Left: g.arithExpr(rng, it), Right: g.arithExpr(rng, it)}, true
		case 3:
			return ir.NegationExpr{Inner: g.boolExpr(rng)}, true
		case 4:
			flt := filters.New().
				Add(filters.IsTypeFilter(boolT)).
				Add(notFuncFilter()).
				Add(filters.IsBorrowKindFilter(types.Owned)).
				Add(notExclusiveFilter())
			cands := flt.Filter(g.Ctx)
			if len(cands) == 0 {
				return nil, false
			}
			chosen := cands[rng.Intn(len(cands))]
			return ir.VarExpr{Name: chosen.Name}, true
		case 5:
			return g.funcCallExpr(rng, boolT)
		default:
			return nil, false
		}
	}, func() ir.Expr { return g.LiteralExpr(rng, boolT) })
}

func (g *Generator) structExpr(rng *rand.Rand, t types.TypeID) ir.Expr {
	return sampler.TryVariants(rng, StructWeights, g.Ctx.Cfg.RetryCap, func(variant int) (ir.Expr, bool) {
		switch variant {
		case 0:
			return g.LiteralExpr(rng, t), true
		case 1:
			if g.Ctx.InLoop() {
				// Owned struct variables may not be moved while any loop
				// scope is active.
				return nil, false
			}
			flt := filters.New().
				Add(filters.IsStructFilter()).
				Add(filters.IsTypeFilter(t)).
				Add(filters.IsBorrowKindFilter(types.Owned)).
				AddFull(filters.CanMoveFilter(g.Ctx))
			cands := flt.Filter(g.Ctx)
			if len(cands) == 0 {
				return nil, false
			}
			chosen := cands[rng.Intn(len(cands))]
			g.Ctx.RemoveEntry(chosen.Name)
			return ir.VarExpr{Name: chosen.Name}, true
		case 2:
			return g.funcCallExpr(rng, t)
		default:
			return nil, false
		}
	}, func() ir.Expr { return g.LiteralExpr(rng, t) })
}

// funcCallExpr picks any in-scope function whose return type matches t and
// generates one argument per parameter per the parameter's declared borrow
// kind.
func (g *Generator) funcCallExpr(rng *rand.Rand, t types.TypeID) (ir.Expr, bool) {
	flt := filters.New().Add(filters.IsFuncFilter()).Add(filters.IsTypeFilter(t))
	cands := flt.Filter(g.Ctx)
	if len(cands) == 0 {
		return nil, false
	}
	chosen := cands[rng.Intn(len(cands))]
	tmpl := chosen.Entry.FuncTemplate
	args := make([]ir.Expr, 0, len(tmpl.Params))
	for _, p := range tmpl.Params {
		switch p.BorrowKind {
		case types.Owned:
			args = append(args, g.Expr(rng, p.Type, types.Owned))
		case types.SharedRef:
			args = append(args, g.BorrowExpr(rng, p.Type, types.SharedRef))
		case types.ExclusiveRef:
			args = append(args, g.exclusiveForCallExpr(rng, p.Type))
		}
	}
	return ir.FuncCallExpr{Name: chosen.Name, Args: args}, true
}

// AnyFuncCallExpr picks any in-scope function regardless of return type —
// used by stmtgen's bare-call statement, where the result is discarded and
// so need not match anything.
func (g *Generator) AnyFuncCallExpr(rng *rand.Rand) (ir.Expr, bool) {
	flt := filters.New().Add(filters.IsFuncFilter())
	cands := flt.Filter(g.Ctx)
	if len(cands) == 0 {
		return nil, false
	}
	chosen := cands[rng.Intn(len(cands))]
	tmpl := chosen.Entry.FuncTemplate
	args := make([]ir.Expr, 0, len(tmpl.Params))
	for _, p := range tmpl.Params {
		switch p.BorrowKind {
		case types.Owned:
			args = append(args, g.Expr(rng, p.Type, types.Owned))
		case types.SharedRef:
			args = append(args, g.BorrowExpr(rng, p.Type, types.SharedRef))
		case types.ExclusiveRef:
			args = append(args, g.exclusiveForCallExpr(rng, p.Type))
		}
	}
	return ir.FuncCallExpr{Name: chosen.Name, Args: args}, true
}

// exclusiveForCallExpr implements the "exclusive-for-call" borrow: it sets
// the sticky func-exclusive flag on the chosen entry rather than minting a
// new reference binding, and falls back to an explicit exclusive reference
// to a freshly synthesised literal when no eligible entry exists.
func (g *Generator) exclusiveForCallExpr(rng *rand.Rand, t types.TypeID) ir.Expr {
	flt := filters.New().
		Add(filters.IsTypeFilter(t)).
		Add(notFuncFilter()).
		Add(filters.IsMutableOrExclusiveRefFilter()).
		Add(filters.IsNotBorrowedFilter())
	cands := flt.Filter(g.Ctx)
	if len(cands) == 0 {
		lit := g.LiteralExpr(rng, t)
		return ir.BorrowExpr{Exclusive: true, Inner: lit}
	}
	chosen := cands[rng.Intn(len(cands))]
	g.Ctx.FuncExclusiveBorrow(chosen.Name)
	if strings.Contains(chosen.Name, ".") {
		token := g.Ctx.NewReservation()
		g.Ctx.PropagateFieldBorrow(token, chosen.Name, true)
	}
	inner := ir.Expr(ir.VarExpr{Name: chosen.Name})
	if chosen.Entry.BorrowKind == types.ExclusiveRef {
		return inner
	}
	return ir.BorrowExpr{Exclusive: true, Inner: inner}
}
