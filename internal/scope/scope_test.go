package scope

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/banditmoscow1337/smith/internal/config"
	"github.com/banditmoscow1337/smith/internal/namegen"
	"github.com/banditmoscow1337/smith/internal/structtable"
	"github.com/banditmoscow1337/smith/internal/types"
)

func newTestContext() *Context {
	return NewContext(config.New(), namegen.New(), structtable.New())
}

func TestBorrowEvictsPriorExclusive(t *testing.T) {
	ctx := newTestContext()
	ctx.InsertVar("a", types.IntType(types.I32), types.Owned, true)
	ctx.InsertExclusiveBorrow("r1", &Entry{Kind: EntryVar, Name: "r1", Type: types.IntType(types.I32), BorrowKind: types.ExclusiveRef}, "a")

	require.Equal(t, types.Exclusive, ctx.BorrowStatusOf("a"))

	ctx.InsertSharedBorrow("r2", &Entry{Kind: EntryVar, Name: "r2", Type: types.IntType(types.I32), BorrowKind: types.SharedRef}, "a")

	// r1 should have been evicted as soon as a shared borrow of a was taken.
	require.False(t, ctx.Contains("r1"), "exclusive borrower r1 should be evicted by a new shared borrow")
	require.Equal(t, types.Shared, ctx.BorrowStatusOf("a"))
}

func TestExclusiveBorrowEvictsAllPriorBorrowers(t *testing.T) {
	ctx := newTestContext()
	ctx.InsertVar("a", types.IntType(types.I32), types.Owned, true)
	ctx.InsertSharedBorrow("s1", &Entry{Kind: EntryVar, Name: "s1", Type: types.IntType(types.I32), BorrowKind: types.SharedRef}, "a")
	ctx.InsertSharedBorrow("s2", &Entry{Kind: EntryVar, Name: "s2", Type: types.IntType(types.I32), BorrowKind: types.SharedRef}, "a")

	ctx.InsertExclusiveBorrow("e1", &Entry{Kind: EntryVar, Name: "e1", Type: types.IntType(types.I32), BorrowKind: types.ExclusiveRef}, "a")

	require.False(t, ctx.Contains("s1"))
	require.False(t, ctx.Contains("s2"))
	require.Equal(t, types.Exclusive, ctx.BorrowStatusOf("a"))
}

func TestLeaveScopeDiscardsBorrowsButKeepsEntries(t *testing.T) {
	ctx := newTestContext()
	ctx.InsertVar("a", types.IntType(types.I32), types.Owned, true)

	ctx.EnterScope()
	ctx.InsertSharedBorrow("s1", &Entry{Kind: EntryVar, Name: "s1", Type: types.IntType(types.I32), BorrowKind: types.SharedRef}, "a")
	require.Equal(t, types.Shared, ctx.BorrowStatusOf("a"))
	ctx.LeaveScope()

	// The borrow was a transient marker scoped to the popped frame; a's
	// permanent declaration survives, but its borrowed-by-s1 status doesn't.
	require.True(t, ctx.Contains("a"))
	require.False(t, ctx.Contains("s1"))
	require.Equal(t, types.Free, ctx.BorrowStatusOf("a"))
}

func TestMoveMutatesOwningFrameRegardlessOfDepth(t *testing.T) {
	ctx := newTestContext()
	ctx.InsertStruct("s", types.StructType("S"), types.Owned, true)
	require.True(t, ctx.Contains("s"))

	ctx.EnterScope()
	ctx.EnterScope()
	ctx.RemoveEntry("s")
	ctx.LeaveScope()
	ctx.LeaveScope()

	// A move is a permanent mutation of the owning frame, not a transient
	// borrow marker, so it must still be gone once the child frames pop.
	require.False(t, ctx.Contains("s"))
}

func TestFieldTouchRemovesWholeRoot(t *testing.T) {
	ctx := newTestContext()

	// Manually install a struct with one flattened int field, bypassing
	// InsertStruct's table lookup so the test doesn't depend on structtable
	// internals beyond GetTemplate.
	root := &Entry{Kind: EntryStruct, Name: "a", Type: types.StructType("S"), BorrowKind: types.Owned, Mutable: true, FieldOrder: []string{"a.f0"}}
	ctx.insert("a", root)
	ctx.insert("a.f0", &Entry{Kind: EntryVar, Name: "a.f0", Type: types.IntType(types.I32), BorrowKind: types.Owned, Mutable: true})

	ctx.RemoveEntry("a.f0")

	require.False(t, ctx.Contains("a"))
	require.False(t, ctx.Contains("a.f0"))
}

func TestRenameBorrowerRehomesEdges(t *testing.T) {
	ctx := newTestContext()
	ctx.InsertVar("a", types.IntType(types.I32), types.Owned, true)

	token := ctx.NewReservation()
	ctx.ensureBorrow(token)
	ctx.Borrow(token, "a")
	require.Equal(t, types.Shared, ctx.BorrowStatusOf("a"))

	ctx.RenameBorrower(token, "real")

	require.False(t, ctx.Contains(token)) // token was never an Entry, only a Borrow row
	src := ctx.top().Borrow["a"]
	require.Contains(t, src.SharedBorrowers, "real")
	require.NotContains(t, src.SharedBorrowers, token)
}

func TestCanMoveRequiresOwnedAndFree(t *testing.T) {
	ctx := newTestContext()
	ctx.InsertVar("owned", types.IntType(types.I32), types.Owned, true)
	ctx.InsertVar("ref", types.IntType(types.I32), types.SharedRef, false)

	require.True(t, ctx.CanMove("owned"))
	require.False(t, ctx.CanMove("ref"))

	ctx.InsertSharedBorrow("s1", &Entry{Kind: EntryVar, Name: "s1", Type: types.IntType(types.I32), BorrowKind: types.SharedRef}, "owned")
	require.False(t, ctx.CanMove("owned"), "a borrowed entry must not be movable")
}
