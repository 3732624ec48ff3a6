// Package bufpool recycles the byte buffers the renderer writes generated
// source text into, avoiding a fresh allocation per seed when a single run
// produces many files. Adapted from benc.go's BufPool/Opts/optFunc shape —
// that pool recycled fixed-size wire-format buffers for bencoding; this one
// recycles *bytes.Buffer for rendered program text, grown on demand instead
// of bounds-checked against a fixed wire size.
package bufpool

import (
	"bytes"
	"sync"
)

type optFunc func(*opts)

// Option configures a Pool at construction.
type Option = optFunc

type opts struct {
	initialSize int
}

func defaultOpts() opts { return opts{initialSize: 4096} }

// WithInitialSize sets the starting capacity of each pooled buffer.
func WithInitialSize(n int) Option {
	return func(o *opts) { o.initialSize = n }
}

// Pool recycles *bytes.Buffer instances.
type Pool struct {
	p sync.Pool
}

func New(options ...Option) *Pool {
	o := defaultOpts()
	for _, fn := range options {
		fn(&o)
	}
	pl := &Pool{}
	pl.p.New = func() any {
		return bytes.NewBuffer(make([]byte, 0, o.initialSize))
	}
	return pl
}

// Get returns an empty buffer, possibly reused from a prior Put.
func (pl *Pool) Get() *bytes.Buffer {
	return pl.p.Get().(*bytes.Buffer)
}

// Put resets b and returns it to the pool.
func (pl *Pool) Put(b *bytes.Buffer) {
	b.Reset()
	pl.p.Put(b)
}
