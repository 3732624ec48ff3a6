// Package sampler maps AST variant enums to weighted categorical
// distributions and implements the "try a variant, resample on
// precondition failure, fall back to a legal base case after a retry cap"
// control-flow pattern used throughout the expression and statement
// generators (SPEC_FULL.md §9: this replaces exceptions with a bounded
// loop returning an optional result).
package sampler

import "math/rand"

// WeightedIndex samples an index in [0, len(weights)) with probability
// proportional to weights[i]. Equivalent in distribution to the source's
// rand::distributions::WeightedIndex, implemented here over a cumulative
// sum walked against rng.Intn so the draw order stays a single RNG call
// per decision (SPEC_FULL.md §5's random-number discipline).
func WeightedIndex(rng *rand.Rand, weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return len(weights) - 1
	}
	draw := rng.Intn(total)
	acc := 0
	for i, w := range weights {
		acc += w
		if draw < acc {
			return i
		}
	}
	return len(weights) - 1
}

// TryVariants samples a variant index per WeightedIndex, invokes attempt
// with it, and returns the first successful result. If attempt reports
// failure (its precondition did not hold), another variant is resampled;
// after retryCap failed attempts the generator falls back to the
// guaranteed-legal base case instead of retrying forever.
func TryVariants[T any](rng *rand.Rand, weights []int, retryCap int, attempt func(variant int) (T, bool), fallback func() T) T {
	for i := 0; i < retryCap; i++ {
		variant := WeightedIndex(rng, weights)
		if v, ok := attempt(variant); ok {
			return v
		}
	}
	return fallback()
}
