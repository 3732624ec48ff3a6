package scope

import "strings"

func (c *Context) ensureBorrow(name string) *BorrowContext {
	bc, ok := c.top().Borrow[name]
	if !ok {
		bc = &BorrowContext{}
		c.top().Borrow[name] = bc
	}
	return bc
}

func (c *Context) mustBorrow(name string) *BorrowContext {
	bc, ok := c.top().Borrow[name]
	if !ok {
		panic("scope: borrow of nonexistent source " + name)
	}
	return bc
}

// Borrow records target as a shared borrower of source. Any existing
// exclusive borrower of source is evicted from scope first (the state
// machine's Exclusive --borrow()--> Shared transition).
func (c *Context) Borrow(target, source string) {
	src := c.mustBorrow(source)
	if len(src.ExclusiveBorrowers) > 0 {
		victims := append([]string(nil), src.ExclusiveBorrowers...)
		for _, v := range victims {
			c.RemoveEntry(v)
		}
	}
	src.ExclusiveBorrowers = nil
	src.FuncExclusive = false
	src.SharedBorrowers = appendUnique(src.SharedBorrowers, target)

	tgt := c.ensureBorrow(target)
	tgt.Source = source
}

// ExclusiveBorrow records target as the sole exclusive borrower of source,
// evicting any prior shared or exclusive borrowers first.
func (c *Context) ExclusiveBorrow(target, source string) {
	src := c.mustBorrow(source)
	sharedVictims := append([]string(nil), src.SharedBorrowers...)
	for _, v := range sharedVictims {
		c.RemoveEntry(v)
	}
	exclusiveVictims := append([]string(nil), src.ExclusiveBorrowers...)
	for _, v := range exclusiveVictims {
		c.RemoveEntry(v)
	}
	src.SharedBorrowers = nil
	src.ExclusiveBorrowers = []string{target}

	tgt := c.ensureBorrow(target)
	tgt.Source = source
}

// FuncExclusiveBorrow sets the sticky self-flag marking name as currently
// passed by exclusive reference into an in-progress function call. Any
// existing shared borrowers of name are evicted, since a func-exclusive use
// cannot coexist with shared borrowers per the mutual-exclusivity
// invariant.
func (c *Context) FuncExclusiveBorrow(name string) {
	bc := c.mustBorrow(name)
	victims := append([]string(nil), bc.SharedBorrowers...)
	for _, v := range victims {
		c.RemoveEntry(v)
	}
	bc.SharedBorrowers = nil
	bc.FuncExclusive = true
}

// InsertSharedBorrow inserts a new entry then performs a shared borrow of
// it against source.
func (c *Context) InsertSharedBorrow(name string, e *Entry, source string) {
	c.insert(name, e)
	c.Borrow(name, source)
}

// InsertExclusiveBorrow inserts a new entry then performs an exclusive
// borrow of it against source.
func (c *Context) InsertExclusiveBorrow(name string, e *Entry, source string) {
	c.insert(name, e)
	c.ExclusiveBorrow(name, source)
}

// PropagateFieldBorrow implements field-touch propagation: borrowing
// a.f1.f2 marks a, a.f1 and a.f1.f2 as borrowed by token, as well as every
// currently declared descendant field under a.f1.f2.
func (c *Context) PropagateFieldBorrow(token, fullPath string, exclusive bool) {
	segments := strings.Split(fullPath, ".")
	for i := 1; i <= len(segments); i++ {
		prefix := strings.Join(segments[:i], ".")
		bc := c.ensureBorrow(prefix)
		if exclusive {
			bc.ExclusiveBorrowers = appendUnique(bc.ExclusiveBorrowers, token)
		} else {
			bc.SharedBorrowers = appendUnique(bc.SharedBorrowers, token)
		}
	}
	descendantPrefix := fullPath + "."
	for name, bc := range c.top().Borrow {
		if strings.HasPrefix(name, descendantPrefix) {
			if exclusive {
				bc.ExclusiveBorrowers = appendUnique(bc.ExclusiveBorrowers, token)
			} else {
				bc.SharedBorrowers = appendUnique(bc.SharedBorrowers, token)
			}
		}
	}
}

// RenameBorrower re-homes a borrow recorded under oldName (typically an
// ephemeral reservation token minted before the real binding name was
// known) onto newName, rewriting every borrower-set reference to oldName
// in the current frame — including ones installed by field-touch
// propagation. A no-op if oldName was never recorded as a borrower (the
// RHS fell back to wrapping a freshly synthesised literal).
func (c *Context) RenameBorrower(oldName, newName string) {
	top := c.top()
	bc, ok := top.Borrow[oldName]
	if !ok {
		return
	}
	delete(top.Borrow, oldName)
	top.Borrow[newName] = bc
	for _, other := range top.Borrow {
		other.SharedBorrowers = renameIn(other.SharedBorrowers, oldName, newName)
		other.ExclusiveBorrowers = renameIn(other.ExclusiveBorrowers, oldName, newName)
	}
}

func renameIn(s []string, oldName, newName string) []string {
	if len(s) == 0 {
		return s
	}
	out := make([]string, len(s))
	for i, v := range s {
		if v == oldName {
			out[i] = newName
		} else {
			out[i] = v
		}
	}
	return out
}

// RemoveEntry removes name from scope. Touching any field of a struct
// removes the whole root entry (a field touch is semantically a touch of
// the root), which also decrements the borrower set of whatever that root
// was itself borrowed from, in every frame that currently has a view of it.
func (c *Context) RemoveEntry(name string) {
	root := firstSegment(name)
	entry, frame, ok := c.lookupEntry(root)
	if !ok {
		return
	}

	prefix := root + "."
	for _, fr := range c.frames {
		if bc, ok := fr.Borrow[root]; ok && bc.Source != "" {
			if src, ok := fr.Borrow[bc.Source]; ok {
				src.SharedBorrowers = removeStr(src.SharedBorrowers, root)
				src.ExclusiveBorrowers = removeStr(src.ExclusiveBorrowers, root)
			}
		}
		delete(fr.Borrow, root)
		for k := range fr.Borrow {
			if strings.HasPrefix(k, prefix) {
				delete(fr.Borrow, k)
			}
		}
	}

	delete(frame.Entries, root)
	frame.Order = removeStr(frame.Order, root)
	for k := range frame.Entries {
		if strings.HasPrefix(k, prefix) {
			delete(frame.Entries, k)
			frame.Order = removeStr(frame.Order, k)
		}
	}
	_ = entry
}
