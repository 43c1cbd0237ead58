package spectral

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/cwbudde/algo-resynth/dsp/buffer"
	"github.com/cwbudde/algo-resynth/dsp/spectrum"
	"github.com/cwbudde/algo-resynth/dsp/window"
)

type atomRef struct {
	h   buffer.Handle
	mag float64
}

// Model maintains the pool of tracked atoms for one voice.
//
// The pool holds at most frameSize/2 atoms and, after every frame, no more
// than Params.NumAtoms. Atoms are kept ordered by descending analysis
// magnitude, so atoms that lost their match sort last.
//
// Model is real-time safe (no allocations after construction) and not
// thread-safe.
type Model struct {
	frameSize int
	hop       int

	analyzer *spectrum.Analyzer
	arena    *buffer.Arena[Atom]
	order    []atomRef

	spec  []complex128
	mags  []float64
	re    []float64
	im    []float64
	peaks []AnalysisAtom
}

// NewModel creates a spectral model for frames of frameSize samples. The
// hop between frames is frameSize/4.
func NewModel(frameSize int) (*Model, error) {
	analyzer, err := spectrum.NewAnalyzer(frameSize, window.TypeHann)
	if err != nil {
		return nil, fmt.Errorf("spectral model: %w", err)
	}

	bins := frameSize / 2

	arena, err := buffer.NewArena[Atom](bins)
	if err != nil {
		return nil, fmt.Errorf("spectral model: %w", err)
	}

	return &Model{
		frameSize: frameSize,
		hop:       frameSize / 4,
		analyzer:  analyzer,
		arena:     arena,
		order:     make([]atomRef, 0, bins),
		spec:      make([]complex128, bins),
		mags:      make([]float64, bins),
		re:        make([]float64, bins),
		im:        make([]float64, bins),
		peaks:     make([]AnalysisAtom, 0, bins),
	}, nil
}

// FrameSize returns the analysis frame size.
func (m *Model) FrameSize() int { return m.frameSize }

// Hop returns the frame advance assumed by the phase accumulators.
func (m *Model) Hop() int { return m.hop }

// ExtractAnalysisAtoms Hann-windows frame, transforms it and returns its
// peaks. The returned slice aliases model storage and is valid until the
// next call.
func (m *Model) ExtractAnalysisAtoms(frame []float64, p *Params) ([]AnalysisAtom, error) {
	if err := m.analyzer.Forward(m.spec, frame); err != nil {
		return nil, fmt.Errorf("spectral model: %w", err)
	}

	return m.ExtractAnalysisAtomsFromSpectrum(m.spec, p), nil
}

// ExtractAnalysisAtomsFromSpectrum returns the peaks of a scaled half
// spectrum of frameSize/2 bins. The returned slice aliases model storage.
func (m *Model) ExtractAnalysisAtomsFromSpectrum(spec []complex128, p *Params) []AnalysisAtom {
	bins := m.frameSize / 2
	spectrum.MagnitudeInto(m.mags, spec[:bins], m.re, m.im)
	m.peaks = ExtractPeaks(m.peaks, m.mags, m.frameSize, p)
	return m.peaks
}

// ExtractAtoms analyzes frame and advances the atom pool by one frame.
func (m *Model) ExtractAtoms(frame []float64, p *Params) error {
	if err := m.analyzer.Forward(m.spec, frame); err != nil {
		return fmt.Errorf("spectral model: %w", err)
	}

	m.ExtractAtomsFromSpectrum(m.spec, p)

	return nil
}

// ExtractAtomsFromSpectrum advances the atom pool by one frame using an
// already computed half spectrum.
//
// Atoms are visited strongest first. Each claims the strongest unconsumed
// peak within ±OmegaDensity of its last frequency and every peak in that
// window is then consumed. Remaining peaks at or above DeathMagnitude give
// birth to new atoms; births are skipped when the pool is full. Finally the
// pool is trimmed to NumAtoms, atoms below DeathMagnitude are dropped and
// every survivor's synthesis phase advances by one hop.
func (m *Model) ExtractAtomsFromSpectrum(spec []complex128, p *Params) {
	peaks := m.ExtractAnalysisAtomsFromSpectrum(spec, p)

	m.sortByMagnitude()

	for _, ref := range m.order {
		m.searchAndMerge(m.arena.Get(ref.h), peaks, p)
	}

	for _, peak := range peaks {
		if peak.Magnitude < DeathMagnitude {
			continue
		}

		h, ok := m.arena.Allocate()
		if !ok {
			continue
		}

		*m.arena.Get(h) = Atom{
			AnalysisAtom:       peak,
			SynthesisOmega:     peak.Omega,
			SynthesisMagnitude: math.Max(Slew(0, peak.Magnitude, p.SlewUpAlpha), DeathMagnitude),
		}
		m.order = append(m.order, atomRef{h: h})
	}

	m.sortByMagnitude()

	for len(m.order) > p.NumAtoms {
		m.pop()
	}

	for len(m.order) > 0 && m.arena.Get(m.order[len(m.order)-1].h).SynthesisMagnitude < DeathMagnitude {
		m.pop()
	}

	for _, ref := range m.order {
		m.arena.Get(ref.h).updatePhase(m.hop)
	}
}

func (m *Model) searchAndMerge(a *Atom, peaks []AnalysisAtom, p *Params) {
	start := lowerBound(peaks, a.Omega-p.OmegaDensity)
	upper := a.Omega + p.OmegaDensity

	best := -1
	end := start
	for ; end < len(peaks) && peaks[end].Omega <= upper; end++ {
		if peaks[end].Magnitude <= 0 {
			continue
		}
		if best < 0 || peaks[best].Magnitude < peaks[end].Magnitude {
			best = end
		}
	}

	switch {
	case best < 0:
		a.mergeNoMatch(p)
	case a.SynthesisMagnitude > 0 && peaks[best].Magnitude/a.SynthesisMagnitude < MergeGainThreshold:
		a.mergeNoMatch(p)
	default:
		a.merge(peaks[best], p)
	}

	for i := start; i < end; i++ {
		peaks[i].Magnitude = consumedMagnitude
	}
}

func (m *Model) sortByMagnitude() {
	for i := range m.order {
		m.order[i].mag = m.arena.Get(m.order[i].h).Magnitude
	}
	slices.SortStableFunc(m.order, cmpRefMagnitudeDesc)
}

func cmpRefMagnitudeDesc(a, b atomRef) int {
	return cmp.Compare(b.mag, a.mag)
}

func (m *Model) pop() {
	last := len(m.order) - 1
	m.arena.Free(m.order[last].h)
	m.order = m.order[:last]
}

// Len returns the number of tracked atoms.
func (m *Model) Len() int { return len(m.order) }

// Atom returns the i-th atom in descending analysis-magnitude order.
func (m *Model) Atom(i int) *Atom { return m.arena.Get(m.order[i].h) }

// Handle returns a stable handle to the i-th atom.
func (m *Model) Handle(i int) buffer.Handle { return m.order[i].h }

// Get returns the atom for h, or nil when it has died since h was taken.
func (m *Model) Get(h buffer.Handle) *Atom { return m.arena.Get(h) }

// IsAllocated reports whether h still refers to a live atom.
func (m *Model) IsAllocated(h buffer.Handle) bool { return m.arena.IsAllocated(h) }

// Nearest returns the synthesis frequency of the atom closest to
// omega*ratio among atoms whose synthesis magnitude is at least floor. When
// no atom qualifies it returns omega and false.
func (m *Model) Nearest(omega, ratio, floor float64) (float64, bool) {
	target := omega * ratio
	best := -1.0
	bestDist := math.Inf(1)

	for _, ref := range m.order {
		a := m.arena.Get(ref.h)
		if a.SynthesisMagnitude < floor {
			continue
		}
		if d := math.Abs(a.SynthesisOmega - target); d < bestDist {
			bestDist = d
			best = a.SynthesisOmega
		}
	}

	if best < 0 {
		return omega, false
	}
	return best, true
}

// Reset kills every atom.
func (m *Model) Reset() {
	m.arena.Reset()
	m.order = m.order[:0]
	m.peaks = m.peaks[:0]
}
