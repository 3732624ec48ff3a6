package generate

import (
	"bytes"
	"testing"

	"github.com/banditmoscow1337/smith/internal/config"
)

func TestSeedIsDeterministic(t *testing.T) {
	cfg := config.New()
	a, err := Seed(1234, cfg)
	if err != nil {
		t.Fatalf("Seed returned error: %v", err)
	}
	b, err := Seed(1234, cfg)
	if err != nil {
		t.Fatalf("Seed returned error: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("Seed must produce byte-identical output for the same seed and config")
	}
}

func TestSeedDiffersAcrossSeeds(t *testing.T) {
	cfg := config.New()
	a, err := Seed(1, cfg)
	if err != nil {
		t.Fatalf("Seed returned error: %v", err)
	}
	b, err := Seed(2, cfg)
	if err != nil {
		t.Fatalf("Seed returned error: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatal("different seeds produced byte-identical output; expected them to differ")
	}
}

func TestSeedReturnsOwnedBufferNotAliasingThePool(t *testing.T) {
	cfg := config.New()
	first, err := Seed(5, cfg)
	if err != nil {
		t.Fatalf("Seed returned error: %v", err)
	}
	firstCopy := append([]byte(nil), first...)

	// Drive enough further calls that the pooled buffer backing `first` is
	// very likely recycled and overwritten; `first` must still read back
	// exactly what it held right after the call that produced it.
	for i := 0; i < 20; i++ {
		if _, err := Seed(int64(100+i), cfg); err != nil {
			t.Fatalf("Seed returned error: %v", err)
		}
	}
	if !bytes.Equal(first, firstCopy) {
		t.Fatal("Seed's returned slice must be an independent copy, not aliasing pooled buffer memory reused by later calls")
	}
}
