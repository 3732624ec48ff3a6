package sampler

import (
	"math/rand"
	"testing"
)

func TestWeightedIndexRespectsZeroWeights(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	weights := []int{0, 0, 5}
	for i := 0; i < 100; i++ {
		if got := WeightedIndex(rng, weights); got != 2 {
			t.Fatalf("WeightedIndex with all weight on index 2 returned %d", got)
		}
	}
}

func TestWeightedIndexAllZeroFallsBackToLast(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	weights := []int{0, 0, 0}
	if got := WeightedIndex(rng, weights); got != 2 {
		t.Fatalf("WeightedIndex with all-zero weights = %d, want last index", got)
	}
}

func TestTryVariantsRetriesThenFallsBack(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	attempts := 0
	got := TryVariants(rng, []int{1}, 10, func(variant int) (string, bool) {
		attempts++
		return "", false
	}, func() string { return "fallback" })

	if got != "fallback" {
		t.Fatalf("expected fallback result, got %q", got)
	}
	if attempts != 10 {
		t.Fatalf("expected exactly retryCap=10 attempts, got %d", attempts)
	}
}

func TestTryVariantsReturnsFirstSuccess(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	got := TryVariants(rng, []int{1}, 10, func(variant int) (int, bool) {
		return 42, true
	}, func() int { return -1 })

	if got != 42 {
		t.Fatalf("expected first successful attempt's value 42, got %d", got)
	}
}
