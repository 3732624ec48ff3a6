package filters

import (
	"testing"

	"github.com/banditmoscow1337/smith/internal/config"
	"github.com/banditmoscow1337/smith/internal/namegen"
	"github.com/banditmoscow1337/smith/internal/scope"
	"github.com/banditmoscow1337/smith/internal/structtable"
	"github.com/banditmoscow1337/smith/internal/types"
)

func newTestContext() *scope.Context {
	return scope.NewContext(config.New(), namegen.New(), structtable.New())
}

func TestFilterCombinesPredicatesWithAnd(t *testing.T) {
	ctx := newTestContext()
	ctx.InsertVar("i0", types.IntType(types.I32), types.Owned, true)
	ctx.InsertVar("i1", types.IntType(types.I32), types.Owned, false)
	ctx.InsertVar("b0", types.BoolType(), types.Owned, true)

	f := New().Add(IsIntTypeFilter()).Add(func(e *scope.Entry, _ types.BorrowStatus) bool { return e.Mutable })
	got := f.Filter(ctx)

	if len(got) != 1 || got[0].Name != "i0" {
		t.Fatalf("expected only mutable int i0, got %v", names(got))
	}
}

func TestIsNotBorrowedFilterExcludesBorrowedEntries(t *testing.T) {
	ctx := newTestContext()
	ctx.InsertVar("a", types.IntType(types.I32), types.Owned, true)
	ctx.InsertSharedBorrow("r", &scope.Entry{Kind: scope.EntryVar, Name: "r", Type: types.IntType(types.I32), BorrowKind: types.SharedRef}, "a")

	got := New().Add(IsNotBorrowedFilter()).Filter(ctx)
	for _, v := range got {
		if v.Name == "a" {
			t.Fatal("a is shared-borrowed and must be excluded by IsNotBorrowedFilter")
		}
	}
}

func TestCanMoveFilterExcludesBorrowedAndNonOwned(t *testing.T) {
	ctx := newTestContext()
	ctx.InsertVar("owned", types.IntType(types.I32), types.Owned, true)
	ctx.InsertVar("ref", types.IntType(types.I32), types.SharedRef, true)
	ctx.InsertVar("free", types.IntType(types.I32), types.Owned, true)
	ctx.InsertSharedBorrow("r", &scope.Entry{Kind: scope.EntryVar, Name: "r", Type: types.IntType(types.I32), BorrowKind: types.SharedRef}, "owned")

	got := New().AddFull(CanMoveFilter(ctx)).Filter(ctx)
	movable := map[string]bool{}
	for _, v := range got {
		movable[v.Name] = true
	}
	if movable["owned"] || movable["ref"] {
		t.Fatalf("neither a borrowed owned entry nor a ref-kind entry should pass CanMoveFilter, got %v", names(got))
	}
	if !movable["free"] {
		t.Fatalf("an unborrowed owned entry should pass CanMoveFilter, got %v", names(got))
	}
}

func names(vs []scope.EntryView) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Name
	}
	return out
}
