package resynth

import (
	"fmt"

	"github.com/cwbudde/algo-resynth/dsp/buffer"
	"github.com/cwbudde/algo-resynth/dsp/window"
)

// Grain is one resynthesized frame playing out under a synthesis window.
type Grain struct {
	samples []float64
	window  []float64
	cursor  int
	running bool
	gain    float64

	// Ratio is the center ratio of the first active shift, kept for display.
	Ratio float64
}

// Start rewinds the grain and begins playback at the given gain.
func (g *Grain) Start(gain float64) {
	g.cursor = 0
	g.running = true
	g.gain = gain
}

// Process returns the next windowed sample. Once the cursor reaches the end
// of the buffer the grain stops and returns 0.
func (g *Grain) Process() float64 {
	if g.cursor >= len(g.samples) {
		g.running = false
		return 0
	}

	v := g.samples[g.cursor] * g.window[g.cursor] * g.gain
	g.cursor++
	if g.cursor == len(g.samples) {
		g.running = false
	}

	return v
}

// Running reports whether the grain still has samples to play.
func (g *Grain) Running() bool { return g.running }

// Cursor returns the playback position.
func (g *Grain) Cursor() int { return g.cursor }

// Gain returns the launch gain.
func (g *Grain) Gain() float64 { return g.gain }

// Samples returns the grain buffer. Resynthesizer.Process fills it.
func (g *Grain) Samples() []float64 { return g.samples }

// GrainPool is a bounded allocator of grains sharing one frame size.
//
// A pool may be shared by several voices on the same audio thread. It is
// real-time safe and not thread-safe.
type GrainPool struct {
	frameSize int
	arena     *buffer.Arena[Grain]
}

// NewGrainPool allocates capacity grains of frameSize samples each.
func NewGrainPool(capacity, frameSize int) (*GrainPool, error) {
	synthesis, err := window.Shared(window.TypeHann, frameSize)
	if err != nil {
		return nil, fmt.Errorf("grain pool: %w", err)
	}

	arena, err := buffer.NewArena[Grain](capacity)
	if err != nil {
		return nil, fmt.Errorf("grain pool: %w", err)
	}

	// Arena slots are not exported, so seed them through a full allocate
	// and release cycle.
	handles := make([]buffer.Handle, 0, capacity)
	for {
		h, ok := arena.Allocate()
		if !ok {
			break
		}
		*arena.Get(h) = Grain{samples: make([]float64, frameSize), window: synthesis}
		handles = append(handles, h)
	}
	for _, h := range handles {
		arena.Free(h)
	}

	return &GrainPool{frameSize: frameSize, arena: arena}, nil
}

// FrameSize returns the grain length in samples.
func (p *GrainPool) FrameSize() int { return p.frameSize }

// Cap returns the number of grains.
func (p *GrainPool) Cap() int { return p.arena.Cap() }

// Available returns the number of free grains.
func (p *GrainPool) Available() int { return p.arena.Available() }

// Allocate claims a stopped grain. ok is false when the pool is exhausted.
func (p *GrainPool) Allocate() (h buffer.Handle, g *Grain, ok bool) {
	h, ok = p.arena.Allocate()
	if !ok {
		return buffer.Handle{}, nil, false
	}

	g = p.arena.Get(h)
	g.running = false
	g.cursor = 0

	return h, g, true
}

// Free returns a grain to the pool.
func (p *GrainPool) Free(h buffer.Handle) bool { return p.arena.Free(h) }

// Get returns the grain for h, or nil when h is stale.
func (p *GrainPool) Get(h buffer.Handle) *Grain { return p.arena.Get(h) }

// IsAllocated reports whether h refers to a live grain.
func (p *GrainPool) IsAllocated(h buffer.Handle) bool { return p.arena.IsAllocated(h) }
