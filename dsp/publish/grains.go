package publish

import (
	"fmt"
	"math"
)

const grainSlots = 2

// GrainState is a display sample of one live grain.
type GrainState struct {
	// Delay is the grain's playback offset in samples.
	Delay float64
	// Ratio is the grain's first shift ratio.
	Ratio float64
	Gain  float64
}

// GrainBoard publishes the live grain population.
type GrainBoard struct {
	r *ring
}

// NewGrainBoard returns a board holding up to maxGrains grains per frame.
func NewGrainBoard(maxGrains int) (*GrainBoard, error) {
	if maxGrains <= 0 {
		return nil, fmt.Errorf("grain board capacity must be > 0: %d", maxGrains)
	}
	return &GrainBoard{r: newRing(grainSlots, 3, maxGrains, 0)}, nil
}

// Which returns the number of frames published so far.
func (b *GrainBoard) Which() uint64 { return b.r.which.Load() }

// Publish stores the current grain states. Only the audio thread may call
// it.
func (b *GrainBoard) Publish(states []GrainState) {
	s, n := b.r.begin(len(states))
	for i := range n {
		b.r.set(s, 0, i, states[i].Delay)
		b.r.set(s, 1, i, states[i].Ratio)
		b.r.set(s, 2, i, states[i].Gain)
	}
	b.r.end(s)
}

// Snapshot appends the newest grain states to dst[:0].
func (b *GrainBoard) Snapshot(dst []GrainState) ([]GrainState, bool) {
	which := b.Which()
	if which == 0 {
		return dst[:0], false
	}

	dst = dst[:0]
	ok := b.r.read(which-1, func(s *slot, n int) {
		for i := range n {
			dst = append(dst, GrainState{
				Delay: b.r.get(s, 0, i),
				Ratio: b.r.get(s, 1, i),
				Gain:  b.r.get(s, 2, i),
			})
		}
	})
	return dst, ok
}

// FrequencyResponse treats the grains as taps of a comb and writes
// |sum(gain * exp(-j*2*pi*f*delay))| for each frequency f (cycles per
// sample) in freqs to dst.
func FrequencyResponse(dst []float64, grains []GrainState, freqs []float64) {
	n := min(len(dst), len(freqs))
	for i := range n {
		var re, im float64
		for _, g := range grains {
			sin, cos := math.Sincos(-2 * math.Pi * freqs[i] * g.Delay)
			re += g.Gain * cos
			im += g.Gain * sin
		}
		dst[i] = math.Hypot(re, im)
	}
}
