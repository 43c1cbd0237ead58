package granular

import (
	"fmt"

	"github.com/cwbudde/algo-resynth/dsp/buffer"
	"github.com/cwbudde/algo-resynth/dsp/core"
	"github.com/cwbudde/algo-resynth/dsp/delay"
	"github.com/cwbudde/algo-resynth/dsp/resynth"
	"github.com/cwbudde/algo-resynth/dsp/spectral"
	"github.com/cwbudde/algo-resynth/dsp/window"
)

const defaultMaxGrains = 8

// Option configures a GrainManager or Voice.
type Option func(*config)

type config struct {
	maxGrains int
	history   int
	seed      int64
}

// WithMaxGrains caps the number of simultaneously live grains.
func WithMaxGrains(n int) Option {
	return func(c *config) {
		c.maxGrains = n
	}
}

func applyOptions(opts []Option) config {
	cfg := config{maxGrains: defaultMaxGrains}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// GrainManager launches grains at a fixed hop and overlap-adds them.
//
// GrainManager is real-time safe (no allocations after construction) and
// not thread-safe.
type GrainManager struct {
	resynth *resynth.Resynthesizer
	writer  *delay.MovableWriter
	pool    *resynth.GrainPool

	frameSize int
	hop       int
	maxGrains int
	olaScale  float64

	live []buffer.Handle
	cur  []float64
	prev []float64
	rp   resynth.Params

	phase       int
	launchGain  float64
	turnarounds int
	launched    bool

	launches int
	skipped  int
}

// NewGrainManager wires a manager to its resynthesizer, the writer it reads
// from and a grain pool that may be shared with other managers.
func NewGrainManager(r *resynth.Resynthesizer, w *delay.MovableWriter, pool *resynth.GrainPool, opts ...Option) (*GrainManager, error) {
	if r == nil || w == nil || pool == nil {
		return nil, errNilDependency
	}

	cfg := applyOptions(opts)
	if cfg.maxGrains <= 0 {
		return nil, fmt.Errorf("grain manager max grains must be > 0: %d", cfg.maxGrains)
	}

	frameSize := r.FrameSize()
	if pool.FrameSize() != frameSize {
		return nil, fmt.Errorf("grain manager: pool frame size %d does not match %d", pool.FrameSize(), frameSize)
	}
	hop := r.Hop()
	if w.Len() < frameSize+hop {
		return nil, fmt.Errorf("grain manager: writer holds %d samples, need >= %d", w.Len(), frameSize+hop)
	}

	synthesis, err := window.Shared(window.TypeHann, frameSize)
	if err != nil {
		return nil, fmt.Errorf("grain manager: %w", err)
	}
	gain, err := window.OverlapAddGain(synthesis, synthesis, hop)
	if err != nil {
		return nil, fmt.Errorf("grain manager: %w", err)
	}

	return &GrainManager{
		resynth:   r,
		writer:    w,
		pool:      pool,
		frameSize: frameSize,
		hop:       hop,
		maxGrains: cfg.maxGrains,
		olaScale:  1 / gain,
		live:      make([]buffer.Handle, 0, cfg.maxGrains),
		cur:       make([]float64, frameSize),
		prev:      make([]float64, frameSize),
	}, nil
}

// Live returns the number of playing grains.
func (m *GrainManager) Live() int { return len(m.live) }

// MaxGrains returns the live-grain cap.
func (m *GrainManager) MaxGrains() int { return m.maxGrains }

// Launches returns the number of grains started.
func (m *GrainManager) Launches() int { return m.launches }

// Skipped returns the number of hops whose launch was declined.
func (m *GrainManager) Skipped() int { return m.skipped }

// Launched reports whether the last Process call started a grain.
func (m *GrainManager) Launched() bool { return m.launched }

// LaunchGain returns the gain of the most recent launch.
func (m *GrainManager) LaunchGain() float64 { return m.launchGain }

// Grain returns the i-th live grain, 0 <= i < Live().
func (m *GrainManager) Grain(i int) *resynth.Grain { return m.pool.Get(m.live[i]) }

// Process advances every live grain by one sample and returns their
// normalized sum. Grains that finish are released before returning. Every
// hop a new grain is analyzed from the writer's history ending
// sampleOffset samples before the real time of readHead.
func (m *GrainManager) Process(readHead, sampleOffset float64, p *Params) float64 {
	var sum float64
	n := 0
	for _, h := range m.live {
		g := m.pool.Get(h)
		if g == nil {
			continue
		}
		sum += g.Process()
		if g.Running() {
			m.live[n] = h
			n++
		} else {
			m.pool.Free(h)
		}
	}
	m.live = m.live[:n]

	m.launched = false
	if m.phase == 0 {
		m.launch(readHead, sampleOffset, p)
	}
	m.phase++
	if m.phase == m.hop {
		m.phase = 0
	}

	return core.FlushDenormals(sum * m.olaScale)
}

func (m *GrainManager) launch(readHead, sampleOffset float64, p *Params) {
	if len(m.live) >= m.maxGrains {
		m.skipped++
		return
	}
	h, g, ok := m.pool.Allocate()
	if !ok {
		m.skipped++
		return
	}

	if ta := m.writer.Turnarounds(); ta != m.turnarounds {
		m.turnarounds = ta
		m.launchGain = 0
	}
	m.launchGain = spectral.Slew(m.launchGain, 1, p.LaunchSlewUp)

	end := m.writer.GetRealTime(readHead) - sampleOffset
	m.writer.ReadFrame(m.cur, end)
	m.writer.ReadFrame(m.prev, end-float64(m.hop))

	m.rp.Shifts = p.Shifts
	m.rp.Unison = p.Unison
	if err := m.resynth.Process(g, m.cur, m.prev, &p.Spectral, &m.rp, m.launchGain); err != nil {
		m.pool.Free(h)
		return
	}

	m.live = append(m.live, h)
	m.launches++
	m.launched = true
}

// Reset releases all live grains and restarts the launch schedule.
func (m *GrainManager) Reset() {
	for _, h := range m.live {
		m.pool.Free(h)
	}
	m.live = m.live[:0]
	m.phase = 0
	m.launchGain = 0
	m.turnarounds = m.writer.Turnarounds()
	m.launched = false
	m.launches = 0
	m.skipped = 0
}
