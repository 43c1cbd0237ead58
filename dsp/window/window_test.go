package window

import (
	"math"
	"testing"
)

func TestGenerateFinite(t *testing.T) {
	for _, typ := range []Type{TypeRectangular, TypeHann, TypeHamming, TypeBlackman} {
		t.Run(typ.String(), func(t *testing.T) {
			w := Generate(typ, 64)
			if len(w) != 64 {
				t.Fatalf("len=%d, want 64", len(w))
			}

			for i, v := range w {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("coefficient[%d] invalid: %v", i, v)
				}
			}
		})
	}
}

func TestHannPeriodic(t *testing.T) {
	w := Generate(TypeHann, 8, WithPeriodic())
	if w[0] != 0 {
		t.Fatalf("w[0]=%v, want 0", w[0])
	}
	if math.Abs(w[4]-1) > 1e-15 {
		t.Fatalf("w[4]=%v, want 1", w[4])
	}
	if math.Abs(w[1]-w[7]) > 1e-15 {
		t.Fatalf("periodic window not symmetric about center: %v vs %v", w[1], w[7])
	}
}

func TestHannRejectsZeroLength(t *testing.T) {
	if _, err := Hann(0); err == nil {
		t.Fatal("expected error")
	}
}

func TestApplyCoefficientsLengthMismatch(t *testing.T) {
	if err := ApplyCoefficientsInPlace(make([]float64, 3), make([]float64, 4)); err == nil {
		t.Fatal("expected length mismatch error")
	}
	if err := ApplyCoefficients(make([]float64, 4), make([]float64, 4), make([]float64, 3)); err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestApplyCoefficients(t *testing.T) {
	dst := make([]float64, 3)
	if err := ApplyCoefficients(dst, []float64{1, 2, 3}, []float64{0.5, 0.5, 2}); err != nil {
		t.Fatalf("ApplyCoefficients() error = %v", err)
	}
	want := []float64{0.5, 1, 6}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst[%d]=%v, want %v", i, dst[i], want[i])
		}
	}
}

func TestCoherentGainHann(t *testing.T) {
	g, err := CoherentGain(Generate(TypeHann, 1024, WithPeriodic()))
	if err != nil {
		t.Fatalf("CoherentGain() error = %v", err)
	}
	if math.Abs(g-0.5) > 1e-12 {
		t.Fatalf("coherent gain = %v, want 0.5", g)
	}
}

func TestSharedReturnsSameTable(t *testing.T) {
	a, err := Shared(TypeHann, 256)
	if err != nil {
		t.Fatalf("Shared() error = %v", err)
	}
	b, _ := Shared(TypeHann, 256)
	if &a[0] != &b[0] {
		t.Fatal("Shared built two tables for the same key")
	}
	if _, err := Shared(TypeHann, 0); err == nil {
		t.Fatal("expected error for zero size")
	}
}

func TestOverlapAddGainHannQuarterHop(t *testing.T) {
	w := Generate(TypeHann, 4096, WithPeriodic())
	g, err := OverlapAddGain(w, w, 1024)
	if err != nil {
		t.Fatalf("OverlapAddGain() error = %v", err)
	}
	if math.Abs(g-1.5) > 1e-9 {
		t.Fatalf("gain = %v, want 1.5", g)
	}

	// The per-sample sum is constant, not just its average.
	for offset := 0; offset < 1024; offset += 97 {
		sum := 0.0
		for i := offset; i < len(w); i += 1024 {
			sum += w[i] * w[i]
		}
		if math.Abs(sum-1.5) > 1e-9 {
			t.Fatalf("offset %d: sum = %v, want 1.5", offset, sum)
		}
	}
}

func TestOverlapAddGainRejectsBadHop(t *testing.T) {
	w := Generate(TypeHann, 16)
	if _, err := OverlapAddGain(w, w, 0); err == nil {
		t.Fatal("expected error for zero hop")
	}
	if _, err := OverlapAddGain(w, w[:8], 4); err == nil {
		t.Fatal("expected error for mismatched windows")
	}
}

func BenchmarkGenerateHann4096(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Generate(TypeHann, 4096, WithPeriodic())
	}
}
