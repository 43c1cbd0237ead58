package resynth

import (
	"math"
	"testing"
)

func TestGrainPlaysExactlyFrameSamples(t *testing.T) {
	pool, err := NewGrainPool(1, 16)
	if err != nil {
		t.Fatalf("NewGrainPool() error = %v", err)
	}
	_, g, _ := pool.Allocate()
	for i := range g.Samples() {
		g.Samples()[i] = 1
	}

	g.Start(2)
	for i := range 16 {
		if !g.Running() {
			t.Fatalf("grain stopped early at %d", i)
		}
		want := 2 * (0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/16))
		if got := g.Process(); math.Abs(got-want) > 1e-12 {
			t.Fatalf("sample %d = %v, want %v", i, got, want)
		}
	}
	if g.Running() {
		t.Fatal("grain still running after its buffer")
	}
	if got := g.Process(); got != 0 {
		t.Fatalf("retired grain produced %v", got)
	}
}

func TestGrainPoolExhaustion(t *testing.T) {
	pool, err := NewGrainPool(2, 16)
	if err != nil {
		t.Fatalf("NewGrainPool() error = %v", err)
	}
	if pool.Cap() != 2 || pool.Available() != 2 || pool.FrameSize() != 16 {
		t.Fatalf("cap=%d available=%d frame=%d", pool.Cap(), pool.Available(), pool.FrameSize())
	}

	h1, _, ok1 := pool.Allocate()
	_, _, ok2 := pool.Allocate()
	if !ok1 || !ok2 {
		t.Fatal("Allocate failed below capacity")
	}
	if _, g, ok := pool.Allocate(); ok || g != nil {
		t.Fatal("Allocate succeeded on a full pool")
	}

	if !pool.Free(h1) || pool.IsAllocated(h1) || pool.Get(h1) != nil {
		t.Fatal("Free did not release the grain")
	}
	if _, g, ok := pool.Allocate(); !ok || len(g.Samples()) != 16 {
		t.Fatal("reallocated grain lost its buffer")
	}
}

func TestNewGrainPoolValidates(t *testing.T) {
	if _, err := NewGrainPool(0, 16); err == nil {
		t.Fatal("expected error for zero capacity")
	}
	if _, err := NewGrainPool(4, 0); err == nil {
		t.Fatal("expected error for zero frame size")
	}
}
