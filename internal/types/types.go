// Package types defines the type and value model shared by every other
// generator package: integer widths, type tags, borrow kinds and the
// random integer-literal sampling rule.
package types

import (
	"fmt"
	"math/big"
	"math/rand"
)

// IntWidth enumerates the integer widths the target language supports.
type IntWidth int

const (
	I8 IntWidth = iota
	I16
	I32
	I64
	I128
	U8
	U16
	U32
	U64
	U128
)

var intWidthNames = map[IntWidth]string{
	I8: "i8", I16: "i16", I32: "i32", I64: "i64", I128: "i128",
	U8: "u8", U16: "u16", U32: "u32", U64: "u64", U128: "u128",
}

// AllIntWidths is the stable-order enumeration of every integer width;
// used wherever a uniform sample over widths is required so that RNG draw
// order never depends on map iteration.
var AllIntWidths = []IntWidth{I8, I16, I32, I64, I128, U8, U16, U32, U64, U128}

func (w IntWidth) String() string { return intWidthNames[w] }

func (w IntWidth) Signed() bool {
	switch w {
	case I8, I16, I32, I64, I128:
		return true
	default:
		return false
	}
}

func (w IntWidth) BitSize() uint {
	switch w {
	case I8, U8:
		return 8
	case I16, U16:
		return 16
	case I32, U32:
		return 32
	case I64, U64:
		return 64
	case I128, U128:
		return 128
	}
	panic(fmt.Sprintf("types: unknown int width %d", w))
}

// bounds returns the inclusive [min, max] range for w.
func (w IntWidth) bounds() (min, max *big.Int) {
	bits := w.BitSize()
	if w.Signed() {
		max = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), bits-1), big.NewInt(1))
		min = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), bits-1))
		return min, max
	}
	max = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), bits), big.NewInt(1))
	return big.NewInt(0), max
}

// RandIntValue samples a value uniformly from the legal range of w. For
// signed widths the two's-complement minimum is remapped to min+1: the
// target language's unary negate on the true minimum is undefined, so the
// generator must never emit that literal.
func RandIntValue(rng *rand.Rand, w IntWidth) *big.Int {
	min, max := w.bounds()
	if w.Signed() {
		min = new(big.Int).Add(min, big.NewInt(1))
	}
	span := new(big.Int).Add(new(big.Int).Sub(max, min), big.NewInt(1))
	offset := new(big.Int).Rand(rng, span)
	return offset.Add(offset, min)
}

// Kind tags the shape of a TypeID.
type Kind int

const (
	KindInt Kind = iota
	KindBool
	KindStruct
	KindNull
)

// TypeID is the tagged union of every value type the generator reasons
// about: IntType(width), BoolType, StructType(name), NullType.
type TypeID struct {
	Kind       Kind
	Width      IntWidth
	StructName string
}

func IntType(w IntWidth) TypeID    { return TypeID{Kind: KindInt, Width: w} }
func BoolType() TypeID             { return TypeID{Kind: KindBool} }
func StructType(name string) TypeID { return TypeID{Kind: KindStruct, StructName: name} }
func NullType() TypeID             { return TypeID{Kind: KindNull} }

func (t TypeID) IsInt() bool    { return t.Kind == KindInt }
func (t TypeID) IsBool() bool   { return t.Kind == KindBool }
func (t TypeID) IsStruct() bool { return t.Kind == KindStruct }
func (t TypeID) IsNull() bool   { return t.Kind == KindNull }

func (t TypeID) Equal(o TypeID) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindInt:
		return t.Width == o.Width
	case KindStruct:
		return t.StructName == o.StructName
	default:
		return true
	}
}

// String renders the type in the target ownership language's syntax.
func (t TypeID) String() string {
	switch t.Kind {
	case KindInt:
		return t.Width.String()
	case KindBool:
		return "bool"
	case KindStruct:
		return t.StructName
	case KindNull:
		return "()"
	default:
		panic("types: unknown TypeID kind")
	}
}

// BorrowKind is the declared ownership discipline of a variable or
// parameter.
type BorrowKind int

const (
	Owned BorrowKind = iota
	SharedRef
	ExclusiveRef
)

func (k BorrowKind) String() string {
	switch k {
	case Owned:
		return ""
	case SharedRef:
		return "&"
	case ExclusiveRef:
		return "&mut "
	default:
		panic("types: unknown BorrowKind")
	}
}

// BorrowStatus is the observed, instantaneous borrow state of a scope
// entry — distinct from its declared BorrowKind.
type BorrowStatus int

const (
	Free BorrowStatus = iota
	Shared
	Exclusive
)
