// Package scope is the hierarchical lexical scope and borrow tracker: the
// Go-native redesign of the source's Rc<RefCell<Scope>> graph (see
// SPEC_FULL.md §9) as an explicit *Context threaded by mutable reference
// through recursive generator calls, with borrow back-pointers resolved by
// name lookup instead of shared pointer cycles.
package scope

import (
	"strings"

	"github.com/banditmoscow1337/smith/internal/ir"
	"github.com/banditmoscow1337/smith/internal/types"
)

// EntryKind tags the three shapes a ScopeEntry may take.
type EntryKind int

const (
	EntryVar EntryKind = iota
	EntryFunc
	EntryStruct
)

// FuncTemplate records a declared function's calling shape.
type FuncTemplate struct {
	Name       string
	Params     []ir.Param
	ReturnType types.TypeID
}

// Entry is one named scope entry. Struct entries additionally recursively
// own one Entry per field, reachable under Name+"."+fieldName — the
// "flattening" the glossary describes.
type Entry struct {
	Kind       EntryKind
	Name       string
	Type       types.TypeID
	BorrowKind types.BorrowKind
	Mutable    bool

	FuncTemplate *FuncTemplate // non-nil iff Kind == EntryFunc
	FieldOrder   []string      // immediate child dotted names, non-nil iff Kind == EntryStruct
}

func (e *Entry) IsFunc() bool   { return e.Kind == EntryFunc }
func (e *Entry) IsVar() bool    { return e.Kind == EntryVar }
func (e *Entry) IsStruct() bool { return e.Kind == EntryStruct }

// BorrowContext is the per-entry borrow bookkeeping record: a back-pointer
// to the entry it was borrowed from (if any) and the ordered sets of names
// currently borrowing this entry.
type BorrowContext struct {
	Source             string
	SharedBorrowers    []string
	ExclusiveBorrowers []string
	FuncExclusive      bool
}

// Status derives the observed BorrowStatus from the raw borrower sets.
func (bc *BorrowContext) Status() types.BorrowStatus {
	if len(bc.ExclusiveBorrowers) > 0 || bc.FuncExclusive {
		return types.Exclusive
	}
	if len(bc.SharedBorrowers) > 0 {
		return types.Shared
	}
	return types.Free
}

func (bc *BorrowContext) clone() *BorrowContext {
	cp := *bc
	cp.SharedBorrowers = append([]string(nil), bc.SharedBorrowers...)
	cp.ExclusiveBorrowers = append([]string(nil), bc.ExclusiveBorrowers...)
	return &cp
}

// EntryView is one row of a full scope enumeration: a name paired with its
// entry and its current observed borrow status.
type EntryView struct {
	Name   string
	Entry  *Entry
	Status types.BorrowStatus
}

func firstSegment(name string) string {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}

func removeStr(s []string, v string) []string {
	out := s[:0:0]
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

func appendUnique(s []string, v string) []string {
	for _, x := range s {
		if x == v {
			return s
		}
	}
	return append(s, v)
}
