package assembler

import (
	"math/rand"
	"testing"

	"github.com/banditmoscow1337/smith/internal/config"
	"github.com/banditmoscow1337/smith/internal/types"
)

func TestProgramRespectsStructAndFuncBudgets(t *testing.T) {
	cfg := config.New()
	rng := rand.New(rand.NewSource(42))
	a := New(cfg)
	p := a.Program(rng)

	if len(p.Funcs) > cfg.MaxFuncs {
		t.Fatalf("got %d funcs, exceeds MaxFuncs=%d", len(p.Funcs), cfg.MaxFuncs)
	}
	// Declarations includes the distinguished global struct in addition to
	// whatever ordinary structs were generated, so the bound is MaxStructs+1.
	if len(p.Structs) > cfg.MaxStructs+1 {
		t.Fatalf("got %d struct decls, exceeds MaxStructs+1=%d", len(p.Structs), cfg.MaxStructs+1)
	}
}

func TestProgramAlwaysHasExactlyOneGlobalStruct(t *testing.T) {
	cfg := config.New()
	rng := rand.New(rand.NewSource(7))
	a := New(cfg)
	p := a.Program(rng)

	globals := 0
	for _, s := range p.Structs {
		if s.IsGlobal {
			globals++
		}
	}
	if globals != 1 {
		t.Fatalf("expected exactly one global struct declaration, found %d", globals)
	}
}

func TestFunctionCanOnlyCallFunctionsDeclaredBeforeIt(t *testing.T) {
	cfg := config.New(config.WithMaxFuncs(6), config.WithMaxStructs(0))
	rng := rand.New(rand.NewSource(99))
	a := New(cfg)
	p := a.Program(rng)

	declared := map[string]bool{}
	for _, fn := range p.Funcs {
		for _, call := range collectCalls(fn.Body) {
			if call == fn.Name {
				t.Fatalf("function %s must never call itself", fn.Name)
			}
			if !declared[call] {
				t.Fatalf("function %s calls %s, which was not declared before it", fn.Name, call)
			}
		}
		declared[fn.Name] = true
	}
}

func TestFunctionCanTakeGlobalStructAsAParameterForcedToRefKind(t *testing.T) {
	cfg := config.New(config.WithMaxFuncParams(3))
	found := false
	for seed := int64(0); seed < 200 && !found; seed++ {
		rng := rand.New(rand.NewSource(seed))
		a := New(cfg)
		p := a.Program(rng)
		global, ok := a.Structs.GlobalTemplate()
		if !ok {
			t.Fatal("Program must always generate a global struct")
		}
		for _, fn := range p.Funcs {
			globalParams := 0
			for _, param := range fn.Params {
				if param.Type.StructName != global.Name {
					continue
				}
				globalParams++
				if param.BorrowKind == types.Owned {
					t.Fatalf("function %s takes the global struct %s by value; it must be forced to SharedRef/ExclusiveRef", fn.Name, global.Name)
				}
			}
			if globalParams > 1 {
				t.Fatalf("function %s takes the global struct %d times; at most once is allowed", fn.Name, globalParams)
			}
			if globalParams == 1 {
				found = true
			}
		}
	}
	if !found {
		t.Fatal("expected at least one function to take the global struct as a parameter across 200 independent draws")
	}
}

// collectCalls walks a function body's rendered text for any of the "Nth
// function" name shapes namegen produces (func_0, func_1, ...) and reports
// which ones appear textually inside it — a cheap stand-in for a full AST
// walk, sufficient because namegen's func names are unambiguous tokens.
func collectCalls(fn interface {
	String() string
}) []string {
	text := fn.String()
	var found []string
	for i := 0; i < 64; i++ {
		name := funcName(i)
		if containsWord(text, name) {
			found = append(found, name)
		}
	}
	return found
}

func funcName(i int) string {
	digits := [...]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9'}
	if i < 10 {
		return "func_" + string(digits[i])
	}
	return "func_" + string(digits[i/10]) + string(digits[i%10])
}

func containsWord(haystack, word string) bool {
	for i := 0; i+len(word) <= len(haystack); i++ {
		if haystack[i:i+len(word)] == word {
			return true
		}
	}
	return false
}
