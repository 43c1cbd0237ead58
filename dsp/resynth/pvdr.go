package resynth

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-resynth/dsp/core"
	"github.com/cwbudde/algo-resynth/dsp/spectrum"
)

const (
	relativeTolerance = 1e-6
	absoluteTolerance = 1e-12
)

// Result is the phase assignment of one bin.
type Result struct {
	Bin int
	// Parent is the bin this bin's phase is derived from; roots are their
	// own parent.
	Parent int
	// PhaseDelta is, for roots, the phase advance over one hop in radians
	// and, for children, the analyzed phase offset from Parent.
	PhaseDelta float64
	// IsSmall marks bins at or below the magnitude tolerance. They are roots
	// with a random PhaseDelta.
	IsSmall bool
}

// PVDR builds a phase-continuity forest over the bins of one frame.
//
// Bins are visited strongest first from a binary heap. A bin reached
// through its previous-frame counterpart becomes a root; a bin reached from
// a neighbor becomes that neighbor's child. Each bin is assigned exactly
// once, so the result is a forest and the pass runs in O(bins log bins).
//
// PVDR is real-time safe and not thread-safe.
type PVDR struct {
	frameSize int
	bins      int
	hop       int

	magCur  []float64
	magPrev []float64
	phCur   []float64
	phPrev  []float64
	re      []float64
	im      []float64

	results  []Result
	root     []int32
	omega    []float64
	computed []bool
	order    []int32
	heap     magHeap

	rng *rand.Rand
}

// NewPVDR creates a PVDR for half spectra of frameSize/2 bins taken hop
// samples apart.
func NewPVDR(frameSize, hop int, seed int64) (*PVDR, error) {
	if frameSize < 16 || !core.IsPowerOfTwo(frameSize) {
		return nil, fmt.Errorf("pvdr frame size must be power-of-two and >= 16: %d", frameSize)
	}
	if hop <= 0 || hop >= frameSize {
		return nil, fmt.Errorf("pvdr hop must be in [1, %d): %d", frameSize, hop)
	}

	bins := frameSize / 2

	return &PVDR{
		frameSize: frameSize,
		bins:      bins,
		hop:       hop,
		magCur:    make([]float64, bins),
		magPrev:   make([]float64, bins),
		phCur:     make([]float64, bins),
		phPrev:    make([]float64, bins),
		re:        make([]float64, bins),
		im:        make([]float64, bins),
		results:   make([]Result, bins),
		root:      make([]int32, bins),
		omega:     make([]float64, bins),
		computed:  make([]bool, bins),
		order:     make([]int32, 0, bins),
		heap:      make(magHeap, 0, 2*bins),
		rng:       rand.New(rand.NewSource(seed)),
	}, nil
}

// SetSeed reseeds the generator used for small-bin phases.
func (p *PVDR) SetSeed(seed int64) {
	p.rng.Seed(seed)
}

// Bins returns the number of bins per frame.
func (p *PVDR) Bins() int { return p.bins }

// Analyze assigns every bin of cur, using prev (the same window one hop
// earlier) to measure phase advance.
func (p *PVDR) Analyze(cur, prev []complex128) {
	cur = cur[:p.bins]
	prev = prev[:p.bins]

	spectrum.MagnitudeInto(p.magCur, cur, p.re, p.im)
	spectrum.MagnitudeInto(p.magPrev, prev, p.re, p.im)
	spectrum.PhaseInto(p.phCur, cur)
	spectrum.PhaseInto(p.phPrev, prev)

	maxMag := 0.0
	for _, m := range p.magCur {
		maxMag = math.Max(maxMag, m)
	}
	tol := math.Max(maxMag*relativeTolerance, absoluteTolerance)

	p.order = p.order[:0]
	p.heap = p.heap[:0]

	for k := range p.bins {
		p.computed[k] = false
		if p.magCur[k] <= tol {
			p.assignRoot(k, p.rng.Float64()*2*math.Pi-math.Pi, true)
			p.omega[k] = float64(k) / float64(p.frameSize)
			continue
		}
		p.heap.push(heapEntry{mag: p.magPrev[k], bin: int32(k), kind: edgeTime})
	}

	for len(p.heap) > 0 {
		e := p.heap.pop()
		k := int(e.bin)

		switch e.kind {
		case edgeTime:
			if p.computed[k] {
				continue
			}
			p.assignRoot(k, p.measuredAdvance(k), false)
			p.heap.push(heapEntry{mag: p.magCur[k], bin: e.bin, kind: edgeFrequency})
		case edgeFrequency:
			if k > 0 && !p.computed[k-1] {
				p.assignChild(k-1, k)
			}
			if k+1 < p.bins && !p.computed[k+1] {
				p.assignChild(k+1, k)
			}
		}
	}
}

func (p *PVDR) measuredAdvance(k int) float64 {
	expected := 2 * math.Pi * float64(k) * float64(p.hop) / float64(p.frameSize)
	return expected + core.WrapPhase(p.phCur[k]-p.phPrev[k]-expected)
}

func (p *PVDR) assignRoot(k int, delta float64, small bool) {
	p.results[k] = Result{Bin: k, Parent: k, PhaseDelta: delta, IsSmall: small}
	p.root[k] = int32(k)
	p.computed[k] = true
	p.order = append(p.order, int32(k))

	if !small {
		p.omega[k] = core.Clamp(delta/(2*math.Pi*float64(p.hop)), 0, 0.5)
	}
}

func (p *PVDR) assignChild(k, parent int) {
	p.results[k] = Result{
		Bin:        k,
		Parent:     parent,
		PhaseDelta: core.WrapPhase(p.phCur[k] - p.phCur[parent]),
	}
	p.root[k] = p.root[parent]
	p.computed[k] = true
	p.order = append(p.order, int32(k))
	p.heap.push(heapEntry{mag: p.magCur[k], bin: int32(k), kind: edgeFrequency})
}

// Result returns the assignment of bin k from the last Analyze.
func (p *PVDR) Result(k int) Result { return p.results[k] }

// Order returns bins in assignment order; every parent precedes its
// children. The slice is reused by the next Analyze.
func (p *PVDR) Order() []int32 { return p.order }

// Root returns the root ancestor of bin k.
func (p *PVDR) Root(k int) int { return int(p.root[k]) }

// InstantaneousOmega returns the measured frequency of bin k's root in
// cycles per sample, clamped to [0, 0.5]. Small roots report their bin
// center.
func (p *PVDR) InstantaneousOmega(k int) float64 { return p.omega[p.root[k]] }

// Magnitude returns the current-frame magnitude of bin k.
func (p *PVDR) Magnitude(k int) float64 { return p.magCur[k] }

// Phase returns the current-frame phase of bin k in radians.
func (p *PVDR) Phase(k int) float64 { return p.phCur[k] }
