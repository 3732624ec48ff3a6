// Package namegen produces deterministic, monotonically increasing
// identifier sequences with fixed prefixes, grounded on the teacher's
// counter-driven naming in cmd/generator/common (BaseName-derived output
// names) generalized to per-category identifier counters.
package namegen

import "fmt"

// Generator hands out unique names per category. It carries no RNG state
// of its own: names are monotonic counters, not sampled, so two runs with
// the same seed always mint identical names in identical order as long as
// callers request them in the same order.
type Generator struct {
	counters map[string]int
}

func New() *Generator {
	return &Generator{counters: make(map[string]int)}
}

// next returns "<prefix><n>" and advances the counter for prefix.
func (g *Generator) next(prefix string) string {
	n := g.counters[prefix]
	g.counters[prefix] = n + 1
	return fmt.Sprintf("%s%d", prefix, n)
}

func (g *Generator) Var() string    { return g.next("var_") }
func (g *Generator) Param() string  { return g.next("param_") }
func (g *Generator) Field() string  { return g.next("field_") }
func (g *Generator) Struct() string { return g.next("Struct") }
func (g *Generator) Func() string   { return g.next("func_") }
func (g *Generator) Loop() string   { return g.next("loop_counter_") }
