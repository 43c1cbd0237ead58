package testutil

import (
	"math"
	"testing"
)

func TestBinToneIsPeriodicOverFrame(t *testing.T) {
	x := BinTone(128, 64, 4, 0.5)
	if math.Abs(x[0]) > 1e-15 {
		t.Fatalf("x[0]=%v want 0", x[0])
	}
	for i := range 64 {
		if math.Abs(x[i]-x[i+64]) > 1e-12 {
			t.Fatalf("not periodic at %d", i)
		}
	}
	if rms := RMS(x); math.Abs(rms-0.5/math.Sqrt2) > 1e-12 {
		t.Fatalf("RMS=%v want %v", rms, 0.5/math.Sqrt2)
	}
}

func TestDeterministicNoise(t *testing.T) {
	a := DeterministicNoise(42, 1, 64)
	b := DeterministicNoise(42, 1, 64)
	c := DeterministicNoise(43, 1, 64)

	same := true
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed differs at %d", i)
		}
		if a[i] < -1 || a[i] >= 1 {
			t.Fatalf("a[%d]=%v out of range", i, a[i])
		}
		if a[i] != c[i] {
			same = false
		}
	}
	if same {
		t.Fatal("different seeds produced identical noise")
	}
}
