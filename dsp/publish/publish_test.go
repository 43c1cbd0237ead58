package publish

import (
	"math"
	"sync"
	"testing"
)

func TestNewRejectsZeroCapacity(t *testing.T) {
	if _, err := NewAtomRing(0, 9); err == nil {
		t.Fatal("expected error for atom ring capacity 0")
	}
	if _, err := NewAtomRing(4, -1); err == nil {
		t.Fatal("expected error for negative copy slots")
	}
	if _, err := NewGrainBoard(0); err == nil {
		t.Fatal("expected error for grain board capacity 0")
	}
}

func TestAtomRingPublishAndSnapshot(t *testing.T) {
	r, err := NewAtomRing(4, 3)
	if err != nil {
		t.Fatal(err)
	}

	var f Frame
	if r.Snapshot(&f) {
		t.Fatal("snapshot of empty ring succeeded")
	}

	r.Publish([]float64{0.1, 0.2}, []float64{1, 0.5}, []float64{0.1, 0.2, NoOmega})
	r.Publish([]float64{0.3, 0.4, 0.5, 0.6, 0.7}, []float64{1, 1, 1, 1, 1}, []float64{0.4})

	if r.Which() != 2 {
		t.Fatalf("Which=%d want 2", r.Which())
	}
	if !r.Snapshot(&f) {
		t.Fatal("snapshot failed")
	}
	if f.Which != 1 || len(f.Omegas) != 4 {
		t.Fatalf("got frame %d with %d atoms, want frame 1 with 4", f.Which, len(f.Omegas))
	}
	if f.Omegas[3] != 0.6 {
		t.Fatalf("Omegas[3]=%v want 0.6", f.Omegas[3])
	}
	if len(f.UsedOmegas) != 3 || f.UsedOmegas[0] != 0.4 || f.UsedOmegas[1] != NoOmega || f.UsedOmegas[2] != NoOmega {
		t.Fatalf("UsedOmegas=%v want [0.4 -1 -1]", f.UsedOmegas)
	}

	if !r.Read(0, &f) {
		t.Fatal("read of frame 0 failed")
	}
	if len(f.Omegas) != 2 || f.Magnitudes[1] != 0.5 || f.UsedOmegas[1] != 0.2 {
		t.Fatalf("frame 0 = %+v", f)
	}
}

func TestAtomRingOverwritesOldFrames(t *testing.T) {
	r, _ := NewAtomRing(1, 0)
	for i := range AtomSlots + 3 {
		r.Publish([]float64{float64(i)}, []float64{1}, nil)
	}

	var f Frame
	if r.Read(2, &f) {
		t.Fatal("frame 2 should have been overwritten")
	}
	if !r.Read(3, &f) || f.Omegas[0] != 3 {
		t.Fatalf("frame 3 = %+v", f)
	}
	if r.Read(AtomSlots+3, &f) {
		t.Fatal("read of unpublished frame succeeded")
	}
}

func TestAtomRingConcurrentReaderNeverTorn(t *testing.T) {
	const (
		atoms  = 32
		frames = 20000
	)

	r, _ := NewAtomRing(atoms, 1)
	omegas := make([]float64, atoms)
	mags := make([]float64, atoms)
	used := make([]float64, 1)

	var wg sync.WaitGroup
	done := make(chan struct{})

	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var f Frame
			for {
				select {
				case <-done:
					return
				default:
				}
				if !r.Snapshot(&f) {
					continue
				}
				want := float64(f.Which)
				if f.UsedOmegas[0] != want {
					t.Errorf("torn frame %d used omega %v", f.Which, f.UsedOmegas[0])
					return
				}
				for i := range f.Omegas {
					if f.Omegas[i] != want || f.Magnitudes[i] != -want {
						t.Errorf("torn frame %d at atom %d: %v/%v", f.Which, i, f.Omegas[i], f.Magnitudes[i])
						return
					}
				}
			}
		}()
	}

	for i := range frames {
		for j := range omegas {
			omegas[j] = float64(i)
			mags[j] = -float64(i)
		}
		used[0] = float64(i)
		r.Publish(omegas, mags, used)
	}
	close(done)
	wg.Wait()
}

func TestAtomRingPublishDoesNotAllocate(t *testing.T) {
	r, _ := NewAtomRing(64, 9)
	omegas := make([]float64, 64)
	mags := make([]float64, 64)
	used := make([]float64, 9)

	allocs := testing.AllocsPerRun(100, func() {
		r.Publish(omegas, mags, used)
	})
	if allocs != 0 {
		t.Fatalf("allocs=%v want 0", allocs)
	}
}

func TestGrainBoardSnapshot(t *testing.T) {
	b, _ := NewGrainBoard(2)

	states, ok := b.Snapshot(nil)
	if ok || len(states) != 0 {
		t.Fatal("snapshot of empty board succeeded")
	}

	b.Publish([]GrainState{
		{Delay: 0, Ratio: 1, Gain: 1},
		{Delay: 256, Ratio: 1.5, Gain: 0.5},
		{Delay: 512, Ratio: 2, Gain: 0.25},
	})

	states, ok = b.Snapshot(states)
	if !ok || len(states) != 2 {
		t.Fatalf("got %v,%v want 2 states", states, ok)
	}
	if states[1] != (GrainState{Delay: 256, Ratio: 1.5, Gain: 0.5}) {
		t.Fatalf("states[1]=%+v", states[1])
	}
}

func TestFrequencyResponse(t *testing.T) {
	grains := []GrainState{{Delay: 0, Gain: 1}, {Delay: 1, Gain: 1}}
	freqs := []float64{0, 0.25, 0.5}
	dst := make([]float64, len(freqs))

	FrequencyResponse(dst, grains, freqs)

	want := []float64{2, math.Sqrt2, 0}
	for i := range want {
		if math.Abs(dst[i]-want[i]) > 1e-12 {
			t.Fatalf("dst[%d]=%v want %v", i, dst[i], want[i])
		}
	}
}

func BenchmarkAtomRingPublish(b *testing.B) {
	r, _ := NewAtomRing(64, 9)
	omegas := make([]float64, 64)
	mags := make([]float64, 64)
	used := make([]float64, 9)
	b.ReportAllocs()
	for range b.N {
		r.Publish(omegas, mags, used)
	}
}
