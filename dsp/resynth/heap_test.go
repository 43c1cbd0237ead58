package resynth

import (
	"math/rand"
	"testing"
)

func TestMagHeapPopsDescending(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	h := make(magHeap, 0, 64)
	for i := range 64 {
		h.push(heapEntry{mag: rng.Float64(), bin: int32(i)})
	}

	prev := 2.0
	for len(h) > 0 {
		e := h.pop()
		if e.mag > prev {
			t.Fatalf("heap popped %v after %v", e.mag, prev)
		}
		prev = e.mag
	}
}

func TestMagHeapTieBreaksOnBin(t *testing.T) {
	h := make(magHeap, 0, 4)
	h.push(heapEntry{mag: 1, bin: 7})
	h.push(heapEntry{mag: 1, bin: 2})
	h.push(heapEntry{mag: 1, bin: 5})
	for _, want := range []int32{2, 5, 7} {
		if got := h.pop().bin; got != want {
			t.Fatalf("popped bin %d, want %d", got, want)
		}
	}
}
