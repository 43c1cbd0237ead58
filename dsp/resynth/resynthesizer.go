package resynth

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-resynth/dsp/core"
	"github.com/cwbudde/algo-resynth/dsp/spectral"
	"github.com/cwbudde/algo-resynth/dsp/spectrum"
	"github.com/cwbudde/algo-resynth/dsp/window"
)

const defaultSeed = 1

// Option configures a Resynthesizer.
type Option func(*config)

type config struct {
	seed   int64
	window window.Type
}

// WithSeed sets the seed of the small-bin phase generator.
func WithSeed(seed int64) Option {
	return func(c *config) {
		c.seed = seed
	}
}

// WithWindow sets the analysis window type. Grains always play out under a
// Hann window.
func WithWindow(t window.Type) Option {
	return func(c *config) {
		c.window = t
	}
}

// Resynthesizer analyzes a pair of frames one hop apart and renders shifted
// copies of the current frame into grains.
//
// Each of the up to nine copy slots (three shifts times center and two
// unison sides) keeps its own per-bin synthesis phase across calls, so
// grains launched one hop apart overlap-add coherently.
//
// Resynthesizer is real-time safe (no allocations after construction) and
// not thread-safe.
type Resynthesizer struct {
	frameSize int
	bins      int
	hop       int

	analyzer *spectrum.Analyzer
	model    *spectral.Model
	pvdr     *PVDR

	cur  []complex128
	prev []complex128
	out  []complex128

	psi      [MaxCopies][]float64
	failures int
}

// New creates a resynthesizer for frames of frameSize samples launched
// every frameSize/4 samples.
func New(frameSize int, opts ...Option) (*Resynthesizer, error) {
	cfg := config{seed: defaultSeed, window: window.TypeHann}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	analyzer, err := spectrum.NewAnalyzer(frameSize, cfg.window)
	if err != nil {
		return nil, fmt.Errorf("resynthesizer: %w", err)
	}

	model, err := spectral.NewModel(frameSize)
	if err != nil {
		return nil, fmt.Errorf("resynthesizer: %w", err)
	}

	hop := frameSize / 4

	pvdr, err := NewPVDR(frameSize, hop, cfg.seed)
	if err != nil {
		return nil, fmt.Errorf("resynthesizer: %w", err)
	}

	bins := frameSize / 2
	r := &Resynthesizer{
		frameSize: frameSize,
		bins:      bins,
		hop:       hop,
		analyzer:  analyzer,
		model:     model,
		pvdr:      pvdr,
		cur:       make([]complex128, bins),
		prev:      make([]complex128, bins),
		out:       make([]complex128, bins),
	}
	for i := range r.psi {
		r.psi[i] = make([]float64, bins)
	}

	return r, nil
}

// FrameSize returns the frame and grain length.
func (r *Resynthesizer) FrameSize() int { return r.frameSize }

// Hop returns the launch interval the phase propagation assumes.
func (r *Resynthesizer) Hop() int { return r.hop }

// Model returns the atom tracker fed by Analyze.
func (r *Resynthesizer) Model() *spectral.Model { return r.model }

// PVDR returns the phase forest of the last analysis.
func (r *Resynthesizer) PVDR() *PVDR { return r.pvdr }

// Failures returns the number of Process calls that left a grain silent.
func (r *Resynthesizer) Failures() int { return r.failures }

// Analyze transforms cur and prev (the same window one hop earlier),
// advances the atom model on cur and builds the phase forest.
func (r *Resynthesizer) Analyze(cur, prev []float64, sp *spectral.Params) error {
	if err := r.analyzer.Forward(r.cur, cur); err != nil {
		return fmt.Errorf("resynthesizer analyze: %w", err)
	}
	if err := r.analyzer.Forward(r.prev, prev); err != nil {
		return fmt.Errorf("resynthesizer analyze: %w", err)
	}

	r.model.ExtractAtomsFromSpectrum(r.cur, sp)
	r.pvdr.Analyze(r.cur, r.prev)

	return nil
}

// SynthesizeSpectrum writes the shifted half spectrum of the last analysis
// to dst and advances every active copy slot's phases by one hop.
//
// A copy at ratio q maps source bin k to bin round(k*q). Contributions whose
// root frequency scaled by q exceeds Nyquist, or whose destination falls
// outside the half spectrum, are dropped. Colliding contributions add.
func (r *Resynthesizer) SynthesizeSpectrum(dst []complex128, p *Params) {
	dst = dst[:r.bins]
	core.ZeroComplex(dst)

	for slot := range MaxCopies {
		q, weight := p.Copy(slot)
		r.renderCopy(dst, slot, q, weight)
	}

	dc := cmplxAbs(dst[0])
	if real(dst[0]) < 0 {
		dc = -dc
	}
	dst[0] = complex(dc, 0)
}

func (r *Resynthesizer) renderCopy(dst []complex128, slot int, q, weight float64) {
	if weight <= 0 {
		return
	}

	psi := r.psi[slot]
	pv := r.pvdr

	for _, b := range pv.Order() {
		k := int(b)
		res := pv.results[k]

		switch {
		case res.IsSmall:
			psi[k] += res.PhaseDelta
		case res.Parent == k:
			psi[k] += q * res.PhaseDelta
		default:
			psi[k] = psi[res.Parent] + res.PhaseDelta
		}
		psi[k] = core.WrapPhase(psi[k])

		if q*pv.InstantaneousOmega(k) > 0.5 {
			continue
		}

		d := int(math.Round(float64(k) * q))
		if d < 0 || d >= r.bins {
			continue
		}

		mag := weight * pv.magCur[k]
		sin, cos := math.Sincos(psi[k])
		dst[d] += complex(mag*cos, mag*sin)
	}
}

// Synthesize renders the last analysis into out, a frame of FrameSize
// samples.
func (r *Resynthesizer) Synthesize(out []float64, p *Params) error {
	r.SynthesizeSpectrum(r.out, p)
	if err := r.analyzer.Inverse(out, r.out); err != nil {
		return fmt.Errorf("resynthesizer synthesize: %w", err)
	}
	return nil
}

// Process analyzes cur and prev, renders into g and starts it at gain.
// On failure the grain is left stopped and the failure is counted.
func (r *Resynthesizer) Process(g *Grain, cur, prev []float64, sp *spectral.Params, p *Params, gain float64) error {
	if err := r.Analyze(cur, prev, sp); err != nil {
		r.failures++
		return err
	}
	if err := r.Synthesize(g.samples, p); err != nil {
		r.failures++
		return err
	}

	g.Ratio = 0
	for _, s := range p.Shifts {
		if s.Weight > 0 {
			g.Ratio = s.Ratio.Float()
			break
		}
	}
	g.Start(gain)

	return nil
}

// Reset clears copy phases and kills all atoms.
func (r *Resynthesizer) Reset() {
	for i := range r.psi {
		core.Zero(r.psi[i])
	}
	r.model.Reset()
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}
