// Package generate is the single per-seed orchestration entry point: seed
// in, rendered source bytes out. It owns the one panic-recovery boundary
// the error-handling design calls for (SPEC_FULL.md §7) — invariant
// violations inside the generator packages panic, and are recovered here
// and turned into a plain Go error, never leaking past one seed.
package generate

import (
	"fmt"
	"math/rand"

	"github.com/banditmoscow1337/smith/internal/assembler"
	"github.com/banditmoscow1337/smith/internal/bufpool"
	"github.com/banditmoscow1337/smith/internal/config"
	"github.com/banditmoscow1337/smith/internal/render"
)

// bufs recycles the rendering buffer across every Seed call in the
// process, since a single CLI invocation typically renders many seeds in
// sequence.
var bufs = bufpool.New()

// Seed renders one complete program for the given seed and configuration.
// A panic raised anywhere in the generator packages (an invariant
// violation) is recovered and returned as an error instead of crashing a
// multi-seed run.
func Seed(seed int64, cfg *config.Config) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generate: seed %d: %v", seed, r)
		}
	}()

	rng := rand.New(rand.NewSource(seed))
	asm := assembler.New(cfg)
	program := asm.Program(rng)

	buf := bufs.Get()
	defer bufs.Put(buf)
	render.WriteProgram(buf, program)

	out = append([]byte(nil), buf.Bytes()...)
	return out, nil
}
