package scope

import (
	"fmt"

	"github.com/banditmoscow1337/smith/internal/config"
	"github.com/banditmoscow1337/smith/internal/namegen"
	"github.com/banditmoscow1337/smith/internal/structtable"
	"github.com/banditmoscow1337/smith/internal/types"
)

// scopeFrame is one stack frame: entries declared directly in this frame,
// plus the full borrow-context view inherited (by copy) from the parent at
// the moment this frame was pushed.
type scopeFrame struct {
	Entries map[string]*Entry
	Order   []string
	Borrow  map[string]*BorrowContext
}

func newFrame() *scopeFrame {
	return &scopeFrame{Entries: make(map[string]*Entry), Borrow: make(map[string]*BorrowContext)}
}

func (f *scopeFrame) cloneBorrowForChild() map[string]*BorrowContext {
	out := make(map[string]*BorrowContext, len(f.Borrow))
	for k, v := range f.Borrow {
		out[k] = v.clone()
	}
	return out
}

// Context is the single mutable object threaded through every recursive
// generator call: the scope stack, depth counters, configuration, struct
// table and name generator for one in-progress seed.
type Context struct {
	frames []*scopeFrame

	Names   *namegen.Generator
	Cfg     *config.Config
	Structs *structtable.Table

	ExprDepth      int
	ArithExprDepth int
	BoolExprDepth  int
	IfDepth        int
	LoopDepth      int

	reservationCounter int
	loopFrameMarks     []int
}

// NewContext builds a fresh Context with a single root (program-level)
// frame.
func NewContext(cfg *config.Config, names *namegen.Generator, structs *structtable.Table) *Context {
	return &Context{
		frames:  []*scopeFrame{newFrame()},
		Names:   names,
		Cfg:     cfg,
		Structs: structs,
	}
}

func (c *Context) top() *scopeFrame { return c.frames[len(c.frames)-1] }

// EnterScope pushes a child frame whose borrow-context view is a full copy
// of the current frame's — so borrow edges created in the child are visible
// to filters, and discarded entirely once the child is left.
func (c *Context) EnterScope() {
	c.frames = append(c.frames, &scopeFrame{
		Entries: make(map[string]*Entry),
		Borrow:  c.top().cloneBorrowForChild(),
	})
}

// LeaveScope pops the current frame. Declarations and borrow edges
// introduced inside it vanish with it; declarations from outer frames are
// untouched since those frame objects were never copied.
func (c *Context) LeaveScope() {
	if len(c.frames) == 1 {
		panic("scope: cannot leave the root scope")
	}
	c.frames = c.frames[:len(c.frames)-1]
}

// Depth reports the current scope nesting depth (1 == root only).
func (c *Context) Depth() int { return len(c.frames) }

// EnterLoopScope is EnterScope plus marking the pushed frame as loop-owned.
// struct-move expression generation consults InLoop to forbid moving owned
// struct variables while inside a loop.
func (c *Context) EnterLoopScope() {
	c.EnterScope()
	c.loopFrameMarks = append(c.loopFrameMarks, len(c.frames))
}

// LeaveLoopScope is LeaveScope plus clearing the loop marker it pushed.
func (c *Context) LeaveLoopScope() {
	if n := len(c.loopFrameMarks); n > 0 {
		c.loopFrameMarks = c.loopFrameMarks[:n-1]
	}
	c.LeaveScope()
}

func (c *Context) InLoop() bool { return len(c.loopFrameMarks) > 0 }

// insert adds e to the current frame, as given, with a fresh empty borrow
// context.
func (c *Context) insert(name string, e *Entry) {
	f := c.top()
	f.Entries[name] = e
	f.Order = append(f.Order, name)
	f.Borrow[name] = &BorrowContext{}
}

func (c *Context) InsertVar(name string, t types.TypeID, bk types.BorrowKind, mutable bool) *Entry {
	e := &Entry{Kind: EntryVar, Name: name, Type: t, BorrowKind: bk, Mutable: mutable}
	c.insert(name, e)
	return e
}

func (c *Context) InsertFunc(name string, tmpl *FuncTemplate) *Entry {
	e := &Entry{Kind: EntryFunc, Name: name, Type: tmpl.ReturnType, FuncTemplate: tmpl}
	c.insert(name, e)
	return e
}

// InsertStruct installs a struct-typed entry and recursively installs one
// child entry per declared field, joining names with "." (flattening).
func (c *Context) InsertStruct(name string, t types.TypeID, bk types.BorrowKind, mutable bool) *Entry {
	root := &Entry{Kind: EntryStruct, Name: name, Type: t, BorrowKind: bk, Mutable: mutable}
	c.insert(name, root)

	tmpl, ok := c.Structs.GetTemplate(t.StructName)
	if !ok {
		return root
	}
	for _, f := range tmpl.Fields {
		child := name + "." + f.Name
		root.FieldOrder = append(root.FieldOrder, child)
		if f.Type.IsStruct() {
			c.InsertStruct(child, f.Type, bk, mutable)
		} else {
			c.InsertVar(child, f.Type, bk, mutable)
		}
	}
	return root
}

// lookupEntry walks frames innermost-to-outermost looking for a locally
// declared name (declarations are never copied between frames; only their
// borrow-context view is).
func (c *Context) lookupEntry(name string) (*Entry, *scopeFrame, bool) {
	for i := len(c.frames) - 1; i >= 0; i-- {
		if e, ok := c.frames[i].Entries[name]; ok {
			return e, c.frames[i], true
		}
	}
	return nil, nil, false
}

func (c *Context) Lookup(name string) (*Entry, bool) {
	e, _, ok := c.lookupEntry(name)
	return e, ok
}

func (c *Context) Contains(name string) bool {
	_, ok := c.Lookup(name)
	return ok
}

// BorrowStatusOf reads the current, unified (copy-forwarded) borrow status
// of name.
func (c *Context) BorrowStatusOf(name string) types.BorrowStatus {
	if bc, ok := c.top().Borrow[name]; ok {
		return bc.Status()
	}
	return types.Free
}

// BorrowCountOf returns the total number of borrowers (shared + exclusive +
// the func-exclusive self-flag) currently recorded against name.
func (c *Context) BorrowCountOf(name string) int {
	bc, ok := c.top().Borrow[name]
	if !ok {
		return 0
	}
	n := len(bc.SharedBorrowers) + len(bc.ExclusiveBorrowers)
	if bc.FuncExclusive {
		n++
	}
	return n
}

// CanMove reports whether name may legally be moved: declared Owned and
// currently Free.
func (c *Context) CanMove(name string) bool {
	root := firstSegment(name)
	e, _, ok := c.lookupEntry(root)
	if !ok || e.BorrowKind != types.Owned {
		return false
	}
	return c.BorrowStatusOf(root) == types.Free
}

// AllEntries enumerates every currently visible entry in stable
// (declaration) order: outer frames first, each frame's own entries in the
// order they were inserted.
func (c *Context) AllEntries() []EntryView {
	var out []EntryView
	top := c.top()
	for _, f := range c.frames {
		for _, name := range f.Order {
			out = append(out, EntryView{Name: name, Entry: f.Entries[name], Status: statusFor(top, name)})
		}
	}
	return out
}

func statusFor(top *scopeFrame, name string) types.BorrowStatus {
	if bc, ok := top.Borrow[name]; ok {
		return bc.Status()
	}
	return types.Free
}

// NewReservation mints a per-expression reservation token used to mark a
// borrow source while its borrower's RHS is still under construction — the
// Go-native replacement for the source's reserved "temp_mut_borrow" /
// "temp_borrow" sentinel names (SPEC_FULL.md §9).
func (c *Context) NewReservation() string {
	c.reservationCounter++
	return fmt.Sprintf("$rsv%d", c.reservationCounter)
}
