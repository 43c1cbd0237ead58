package spectrum

import (
	"fmt"

	"github.com/cwbudde/algo-resynth/dsp/core"
	"github.com/cwbudde/algo-resynth/dsp/window"

	algofft "github.com/MeKo-Christian/algo-fft"
)

const minFrameSize = 16

// Analyzer converts real frames to scaled half spectra and back.
//
// Analyzer is real-time safe (no allocations after construction) and not
// thread-safe; each voice owns its own instance.
type Analyzer struct {
	size int
	plan *algofft.Plan[complex128]

	window   []float64
	windowed []float64
	work     []complex128
	time     []complex128
}

// NewAnalyzer creates an analyzer for frames of the given power-of-two size
// using a shared periodic window of type w.
func NewAnalyzer(size int, w window.Type) (*Analyzer, error) {
	if size < minFrameSize || !core.IsPowerOfTwo(size) {
		return nil, fmt.Errorf("spectrum analyzer frame size must be power-of-two and >= %d: %d", minFrameSize, size)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("spectrum analyzer: failed to create FFT plan: %w", err)
	}

	coeffs, err := window.Shared(w, size)
	if err != nil {
		return nil, fmt.Errorf("spectrum analyzer: %w", err)
	}

	return &Analyzer{
		size:     size,
		plan:     plan,
		window:   coeffs,
		windowed: make([]float64, size),
		work:     make([]complex128, size),
		time:     make([]complex128, size),
	}, nil
}

// Size returns the frame size.
func (a *Analyzer) Size() int { return a.size }

// Bins returns the half-spectrum length, Size()/2.
func (a *Analyzer) Bins() int { return a.size / 2 }

// Window returns the analysis window. The slice is shared and read-only.
func (a *Analyzer) Window() []float64 { return a.window }

// Forward windows frame and writes its scaled half spectrum to dst.
// frame must have Size() samples and dst at least Bins() entries.
func (a *Analyzer) Forward(dst []complex128, frame []float64) error {
	if len(frame) != a.size || len(dst) < a.size/2 {
		return fmt.Errorf("spectrum analyzer forward: frame %d/dst %d, want %d/%d",
			len(frame), len(dst), a.size, a.size/2)
	}

	if err := window.ApplyCoefficients(a.windowed, frame, a.window); err != nil {
		return fmt.Errorf("spectrum analyzer forward: %w", err)
	}

	for i, v := range a.windowed {
		a.work[i] = complex(v, 0)
	}

	if err := a.plan.Forward(a.work, a.work); err != nil {
		return fmt.Errorf("spectrum analyzer forward: %w", err)
	}

	scale := complex(1/float64(a.size), 0)
	for k := 0; k < a.size/2; k++ {
		dst[k] = a.work[k] * scale
	}

	return nil
}

// Inverse rebuilds a real frame from a scaled half spectrum. The DC bin is
// taken as real, the Nyquist bin as zero, and the upper half as the
// conjugate mirror of spec.
func (a *Analyzer) Inverse(dst []float64, spec []complex128) error {
	half := a.size / 2
	if len(dst) != a.size || len(spec) < half {
		return fmt.Errorf("spectrum analyzer inverse: dst %d/spec %d, want %d/%d",
			len(dst), len(spec), a.size, half)
	}

	n := float64(a.size)
	a.work[0] = complex(real(spec[0])*n, 0)
	a.work[half] = 0
	for k := 1; k < half; k++ {
		v := spec[k] * complex(n, 0)
		a.work[k] = v
		a.work[a.size-k] = complex(real(v), -imag(v))
	}

	if err := a.plan.Inverse(a.time, a.work); err != nil {
		return fmt.Errorf("spectrum analyzer inverse: %w", err)
	}

	for i := range dst {
		dst[i] = real(a.time[i])
	}

	return nil
}
