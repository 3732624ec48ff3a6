// Package filters implements the composable-predicate pattern used to pick
// legal scope-entry candidates for expression and statement generation,
// grounded on original_source/smith/src/generator/filters.rs's Filters
// builder: a list of simple (entry, status) predicates applied before a
// list of richer (name, entry, status) predicates.
package filters

import (
	"github.com/banditmoscow1337/smith/internal/scope"
	"github.com/banditmoscow1337/smith/internal/types"
)

// Predicate inspects an entry and its current borrow status.
type Predicate func(e *scope.Entry, status types.BorrowStatus) bool

// NamedPredicate additionally sees the entry's full (possibly dotted) name.
type NamedPredicate func(name string, e *scope.Entry, status types.BorrowStatus) bool

// Filters is an ordered, AND-combined set of predicates.
type Filters struct {
	filters     []Predicate
	fullFilters []NamedPredicate
}

func New() *Filters { return &Filters{} }

func (f *Filters) Add(p Predicate) *Filters {
	f.filters = append(f.filters, p)
	return f
}

func (f *Filters) AddFull(p NamedPredicate) *Filters {
	f.fullFilters = append(f.fullFilters, p)
	return f
}

// Filter walks every currently visible scope entry in stable order and
// returns the ones that satisfy every registered predicate.
func (f *Filters) Filter(ctx *scope.Context) []scope.EntryView {
	var out []scope.EntryView
	for _, v := range ctx.AllEntries() {
		ok := true
		for _, p := range f.filters {
			if !p(v.Entry, v.Status) {
				ok = false
				break
			}
		}
		if ok {
			for _, p := range f.fullFilters {
				if !p(v.Name, v.Entry, v.Status) {
					ok = false
					break
				}
			}
		}
		if ok {
			out = append(out, v)
		}
	}
	return out
}

func IsFuncFilter() Predicate {
	return func(e *scope.Entry, _ types.BorrowStatus) bool { return e.IsFunc() }
}

func IsVarFilter() Predicate {
	return func(e *scope.Entry, _ types.BorrowStatus) bool { return e.IsVar() }
}

func IsStructFilter() Predicate {
	return func(e *scope.Entry, _ types.BorrowStatus) bool { return e.IsStruct() }
}

func IsTypeFilter(t types.TypeID) Predicate {
	return func(e *scope.Entry, _ types.BorrowStatus) bool { return e.Type.Equal(t) }
}

func IsIntTypeFilter() Predicate {
	return func(e *scope.Entry, _ types.BorrowStatus) bool { return e.Type.IsInt() }
}

func IsBorrowKindFilter(k types.BorrowKind) Predicate {
	return func(e *scope.Entry, _ types.BorrowStatus) bool { return e.BorrowKind == k }
}

func IsNotBorrowKindFilter(k types.BorrowKind) Predicate {
	return func(e *scope.Entry, _ types.BorrowStatus) bool { return e.BorrowKind != k }
}

func IsBorrowedFilter() Predicate {
	return func(_ *scope.Entry, s types.BorrowStatus) bool { return s == types.Shared }
}

func IsExclusiveBorrowedFilter() Predicate {
	return func(_ *scope.Entry, s types.BorrowStatus) bool { return s == types.Exclusive }
}

func IsNotExclusiveBorrowedFilter() Predicate {
	return func(_ *scope.Entry, s types.BorrowStatus) bool { return s != types.Exclusive }
}

func IsNotBorrowedFilter() Predicate {
	return func(_ *scope.Entry, s types.BorrowStatus) bool { return s == types.Free }
}

func IsMutableOrExclusiveRefFilter() Predicate {
	return func(e *scope.Entry, _ types.BorrowStatus) bool {
		return e.Mutable || e.BorrowKind == types.ExclusiveRef
	}
}

// CanMoveFilter excludes any entry that cannot legally be moved right now.
func CanMoveFilter(ctx *scope.Context) NamedPredicate {
	return func(name string, _ *scope.Entry, _ types.BorrowStatus) bool {
		return ctx.CanMove(name)
	}
}
