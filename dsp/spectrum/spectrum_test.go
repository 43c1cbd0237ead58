package spectrum

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-resynth/dsp/window"
	"github.com/cwbudde/algo-resynth/internal/testutil"
)

func TestMagnitudePhasePower(t *testing.T) {
	bins := []complex128{3 + 4i, -1 - 1i, 0}

	mag := Magnitude(bins)
	if len(mag) != len(bins) {
		t.Fatalf("Magnitude length mismatch: got=%d want=%d", len(mag), len(bins))
	}

	if math.Abs(mag[0]-5) > 1e-12 {
		t.Fatalf("Magnitude[0]=%f want=5", mag[0])
	}

	pow := Power(bins)
	if math.Abs(pow[0]-25) > 1e-12 {
		t.Fatalf("Power[0]=%f want=25", pow[0])
	}

	phase := make([]float64, len(bins))
	PhaseInto(phase, bins)
	if math.Abs(phase[0]-math.Atan2(4, 3)) > 1e-12 {
		t.Fatalf("Phase[0]=%f mismatch", phase[0])
	}
}

func TestMagnitudeIntoDoesNotAllocate(t *testing.T) {
	in := []complex128{1, 1i, 3 + 4i, -2}
	dst := make([]float64, len(in))
	re := make([]float64, len(in))
	im := make([]float64, len(in))

	allocs := testing.AllocsPerRun(100, func() {
		MagnitudeInto(dst, in, re, im)
	})
	if allocs != 0 {
		t.Fatalf("allocs = %v, want 0", allocs)
	}
	if math.Abs(dst[2]-5) > 1e-12 {
		t.Fatalf("dst[2]=%v want 5", dst[2])
	}
}

func TestAnalyzerRejectsBadSize(t *testing.T) {
	for _, n := range []int{0, 8, 1000} {
		if _, err := NewAnalyzer(n, window.TypeHann); err == nil {
			t.Fatalf("NewAnalyzer(%d) succeeded", n)
		}
	}
}

func TestAnalyzerForwardBinCenteredTone(t *testing.T) {
	const n = 1024
	a, err := NewAnalyzer(n, window.TypeHann)
	if err != nil {
		t.Fatalf("NewAnalyzer() error = %v", err)
	}

	frame := make([]float64, n)
	for i := range frame {
		frame[i] = math.Cos(2 * math.Pi * 50 * float64(i) / n)
	}

	spec := make([]complex128, a.Bins())
	if err := a.Forward(spec, frame); err != nil {
		t.Fatalf("Forward() error = %v", err)
	}

	if got := cmplx.Abs(spec[50]); math.Abs(got-0.25) > 1e-9 {
		t.Fatalf("|X[50]| = %v, want 0.25", got)
	}
	if got := cmplx.Abs(spec[49]); math.Abs(got-0.125) > 1e-9 {
		t.Fatalf("|X[49]| = %v, want 0.125", got)
	}
	if got := cmplx.Abs(spec[60]); got > 1e-9 {
		t.Fatalf("|X[60]| = %v, want 0", got)
	}
}

func TestAnalyzerRoundTrip(t *testing.T) {
	const n = 256
	a, err := NewAnalyzer(n, window.TypeRectangular)
	if err != nil {
		t.Fatalf("NewAnalyzer() error = %v", err)
	}

	// Even-length noise carries a Nyquist component the half spectrum drops,
	// so use a band-limited signal.
	frame := make([]float64, n)
	for i := range frame {
		x := float64(i) / n
		frame[i] = 0.3 + math.Sin(2*math.Pi*3*x) + 0.5*math.Cos(2*math.Pi*17*x+0.4)
	}

	spec := make([]complex128, a.Bins())
	if err := a.Forward(spec, frame); err != nil {
		t.Fatalf("Forward() error = %v", err)
	}

	out := make([]float64, n)
	if err := a.Inverse(out, spec); err != nil {
		t.Fatalf("Inverse() error = %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, out, frame, 1e-9)
}

func TestAnalyzerLengthChecks(t *testing.T) {
	a, _ := NewAnalyzer(64, window.TypeHann)
	if err := a.Forward(make([]complex128, 32), make([]float64, 63)); err == nil {
		t.Fatal("expected frame length error")
	}
	if err := a.Inverse(make([]float64, 64), make([]complex128, 8)); err == nil {
		t.Fatal("expected spectrum length error")
	}
}

func BenchmarkAnalyzerForward4096(b *testing.B) {
	a, err := NewAnalyzer(4096, window.TypeHann)
	if err != nil {
		b.Fatal(err)
	}
	frame := testutil.DeterministicNoise(1, 1, 4096)
	spec := make([]complex128, a.Bins())

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = a.Forward(spec, frame)
	}
}
