// Package ir is the tagged-variant AST for generated expressions and
// statements. Every node renders itself to target-language source text via
// String(), grounded on the teacher's printf-into-buffer pattern in
// cmd/internal/c/generator.go but expressed as fmt.Stringer instead of a
// shared-buffer visitor, since each node's text is a pure function of its
// children and needs no external generation state.
package ir

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/banditmoscow1337/smith/internal/types"
)

// Expr is any expression node.
type Expr interface {
	fmt.Stringer
	exprNode()
}

// ArithOp is a saturating binary arithmetic operator, emitted as a method
// call rather than an infix operator so every arithmetic expression stays
// total (see the runtime saturating-helper contract).
type ArithOp int

const (
	Add ArithOp = iota
	Sub
	Mul
	Div
	Mod
	BitAnd
	BitOr
	BitXor
)

var arithMethod = map[ArithOp]string{
	Add: "safe_add", Sub: "safe_sub", Mul: "safe_mul", Div: "safe_div", Mod: "safe_modulo",
	BitAnd: "safe_and", BitOr: "safe_or", BitXor: "safe_xor",
}

// SelfMethod returns the compound-assignment ("self") form of op,
// e.g. safe_self_add, used by op-assign statements.
func (op ArithOp) SelfMethod() string { return "safe_self_" + arithMethod[op][len("safe_"):] }

func (op ArithOp) Method() string { return arithMethod[op] }

// IntLit is a ground integer literal of a fixed width.
type IntLit struct {
	Width types.IntWidth
	Value *big.Int
}

func (IntLit) exprNode() {}
func (e IntLit) String() string {
	return fmt.Sprintf("%s%s", e.Value.String(), e.Width.String())
}

// BoolLit is a ground boolean literal.
type BoolLit struct{ Value bool }

func (BoolLit) exprNode() {}
func (e BoolLit) String() string {
	if e.Value {
		return "true"
	}
	return "false"
}

// FieldInit is one field assignment inside a StructLit.
type FieldInit struct {
	Name  string
	Value Expr
}

// StructLit constructs a struct value inline, e.g. `S { f0: 1i32 }`.
type StructLit struct {
	TypeName string
	Fields   []FieldInit
}

func (StructLit) exprNode() {}
func (e StructLit) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s { ", e.TypeName)
	for i, f := range e.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %s", f.Name, f.Value.String())
	}
	b.WriteString(" }")
	return b.String()
}

// VarExpr names an in-scope entry (possibly a dotted field path).
type VarExpr struct{ Name string }

func (VarExpr) exprNode()     {}
func (e VarExpr) String() string { return e.Name }

// BorrowExpr is an explicit `&`/`&mut` taken of Inner. Generators elide
// wrapping a VarExpr in BorrowExpr when the referenced entry is already of
// the matching BorrowKind — callers decide that, not this type.
type BorrowExpr struct {
	Exclusive bool
	Inner     Expr
}

func (BorrowExpr) exprNode() {}
func (e BorrowExpr) String() string {
	if e.Exclusive {
		return "&mut " + e.Inner.String()
	}
	return "&" + e.Inner.String()
}

// ArithExpr is a saturating binary arithmetic expression rendered as a
// method call: `lhs.safe_add(rhs)`.
type ArithExpr struct {
	Op          ArithOp
	Left, Right Expr
}

func (ArithExpr) exprNode() {}
func (e ArithExpr) String() string {
	return fmt.Sprintf("%s.%s(%s)", e.Left.String(), e.Op.Method(), e.Right.String())
}

// BitNegExpr is the unary bitwise-negation member of the bitwise family,
// rendered as a method call for symmetry with ArithExpr's binary forms:
// `inner.safe_neg()`.
type BitNegExpr struct{ Inner Expr }

func (BitNegExpr) exprNode() {}
func (e BitNegExpr) String() string { return e.Inner.String() + ".safe_neg()" }

// BoolOp is a short-circuiting boolean connective.
type BoolOp int

const (
	And BoolOp = iota
	Or
)

func (op BoolOp) symbol() string {
	if op == And {
		return "&&"
	}
	return "||"
}

// BoolBinaryExpr is `lhs && rhs` / `lhs || rhs`.
type BoolBinaryExpr struct {
	Op          BoolOp
	Left, Right Expr
}

func (BoolBinaryExpr) exprNode() {}
func (e BoolBinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left.String(), e.Op.symbol(), e.Right.String())
}

// CmpOp is a comparison operator.
type CmpOp int

const (
	Gt CmpOp = iota
	Ge
	Lt
	Le
	Eq
	Ne
)

var cmpSymbol = map[CmpOp]string{Gt: ">", Ge: ">=", Lt: "<", Le: "<=", Eq: "==", Ne: "!="}

// ComparisonExpr compares two arithmetic subexpressions of the same
// integer type.
type ComparisonExpr struct {
	Op          CmpOp
	Left, Right Expr
}

func (ComparisonExpr) exprNode() {}
func (e ComparisonExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left.String(), cmpSymbol[e.Op], e.Right.String())
}

// NegationExpr is boolean `!inner`.
type NegationExpr struct{ Inner Expr }

func (NegationExpr) exprNode()     {}
func (e NegationExpr) String() string { return "!" + e.Inner.String() }

// FuncCallExpr invokes an in-scope function by name.
type FuncCallExpr struct {
	Name string
	Args []Expr
}

func (FuncCallExpr) exprNode() {}
func (e FuncCallExpr) String() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", e.Name, strings.Join(parts, ", "))
}
