package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-resynth/dsp/interp"
)

const scatterLen = 4

// MovableOption configures a MovableWriter.
type MovableOption func(*movableConfig)

type movableConfig struct {
	warpedHistory int
}

// WithWarpedHistory sets the number of integer warped-time slots kept in the
// inverse map. Defaults to the sample capacity.
func WithWarpedHistory(slots int) MovableOption {
	return func(c *movableConfig) {
		c.warpedHistory = slots
	}
}

type scatterPoint struct {
	warped float64
	real   float64
}

// MovableWriter is a circular sample buffer written once per sample at an
// externally driven warped time.
//
// Samples are always stored in physical order; the real time of a sample is
// the number of samples written before it. While the warped clock advances,
// the writer rebuilds an inverse map from integer warped times to real time
// by 4-point non-uniform interpolation over the most recent (warped, real)
// pairs. While the clock runs backwards the map and scatter history are
// frozen and the first reversed sample is recorded as a turnaround.
//
// MovableWriter is real-time safe (no allocations after construction) and
// not thread-safe.
type MovableWriter struct {
	samples []float64
	pos     int64

	invMap   []float64
	mapLow   int64
	mapHead  int64
	mapValid bool

	scatter  [scatterLen]scatterPoint
	scatterN int

	prevWarped float64
	hasPrev    bool

	scrubbing   bool
	turnaround  float64
	turnarounds int
}

// NewMovableWriter returns a writer holding size samples.
func NewMovableWriter(size int, opts ...MovableOption) (*MovableWriter, error) {
	if size < 8 {
		return nil, fmt.Errorf("movable writer size must be >= 8: %d", size)
	}

	cfg := movableConfig{warpedHistory: size}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.warpedHistory < 4 {
		return nil, fmt.Errorf("movable writer warped history must be >= 4: %d", cfg.warpedHistory)
	}

	return &MovableWriter{
		samples: make([]float64, size),
		invMap:  make([]float64, cfg.warpedHistory),
	}, nil
}

// Len returns the sample capacity.
func (m *MovableWriter) Len() int {
	return len(m.samples)
}

// RealTime returns the real time the next written sample will receive.
func (m *MovableWriter) RealTime() int64 {
	return m.pos
}

// IsScrubbing reports whether the warped clock is currently running backwards.
func (m *MovableWriter) IsScrubbing() bool {
	return m.scrubbing
}

// Turnaround returns the real time of the most recent reversal and whether
// one has happened since construction or Reset.
func (m *MovableWriter) Turnaround() (float64, bool) {
	return m.turnaround, m.turnarounds > 0
}

// Turnarounds returns the number of reversals seen so far.
func (m *MovableWriter) Turnarounds() int {
	return m.turnarounds
}

// Write stores sample at the next physical slot, stamped with warped time.
func (m *MovableWriter) Write(sample, warped float64) {
	t := float64(m.pos)
	m.samples[m.pos%int64(len(m.samples))] = sample
	m.pos++

	if !m.hasPrev {
		m.hasPrev = true
		m.prevWarped = warped
		m.push(warped, t)
		return
	}

	switch {
	case warped > m.prevWarped:
		if m.scrubbing {
			m.scrubbing = false
			m.scatterN = 0
		}
		m.push(warped, t)
		m.fill()
	case warped < m.prevWarped:
		if !m.scrubbing {
			m.scrubbing = true
			m.turnaround = t
			m.turnarounds++
		}
	}

	m.prevWarped = warped
}

func (m *MovableWriter) push(warped, real float64) {
	m.scatter[m.scatterN%scatterLen] = scatterPoint{warped: warped, real: real}
	m.scatterN++
}

// recent returns the i-th newest scatter point (0 is the newest).
func (m *MovableWriter) recent(i int) scatterPoint {
	return m.scatter[(m.scatterN-1-i)%scatterLen]
}

// fill reconstructs the map for integer warped slots in the newest scatter
// segment.
func (m *MovableWriter) fill() {
	if m.scatterN < 2 {
		return
	}

	p1 := m.recent(0)
	p0 := m.recent(1)

	u0 := int64(math.Floor(p0.warped)) + 1
	u1 := int64(math.Floor(p1.warped))
	if u1 < u0 {
		return
	}

	size := int64(len(m.invMap))
	if u1-u0+1 > size {
		u0 = u1 - size + 1
	}

	if m.scatterN >= scatterLen {
		var xs, ys [scatterLen]float64
		for i := range scatterLen {
			p := m.recent(scatterLen - 1 - i)
			xs[i] = p.warped
			ys[i] = p.real
		}
		for u := u0; u <= u1; u++ {
			m.invMap[m.slot(u)] = interp.LagrangeNonUniform4(float64(u), xs, ys)
		}
	} else {
		span := p1.warped - p0.warped
		for u := u0; u <= u1; u++ {
			frac := (float64(u) - p0.warped) / span
			m.invMap[m.slot(u)] = interp.Linear2(frac, p0.real, p1.real)
		}
	}

	if !m.mapValid || u0 > m.mapHead+1 || u0 < m.mapLow {
		m.mapLow = u0
	}
	m.mapHead = u1
	if m.mapHead-m.mapLow+1 > size {
		m.mapLow = m.mapHead - size + 1
	}
	m.mapValid = true
}

func (m *MovableWriter) slot(u int64) int {
	size := int64(len(m.invMap))
	s := u % size
	if s < 0 {
		s += size
	}
	return int(s)
}

// GetRealTime maps a warped time to real time. Warped times ahead of the
// reconstructed map are extrapolated from the newest scatter segment; times
// behind it clamp to the oldest mapped slot. The result always lies within
// the stored sample history.
func (m *MovableWriter) GetRealTime(warped float64) float64 {
	if m.pos == 0 {
		return 0
	}

	var t float64
	u := int64(math.Floor(warped))

	switch {
	case m.mapValid && u >= m.mapLow && u < m.mapHead:
		frac := warped - float64(u)
		t = interp.Linear2(frac, m.invMap[m.slot(u)], m.invMap[m.slot(u+1)])
	case m.mapValid && warped == float64(m.mapHead):
		t = m.invMap[m.slot(m.mapHead)]
	case m.mapValid && u < m.mapLow:
		t = m.invMap[m.slot(m.mapLow)]
	default:
		t = m.extrapolate(warped)
	}

	return m.clampReal(t)
}

func (m *MovableWriter) extrapolate(warped float64) float64 {
	switch {
	case m.scatterN >= 2:
		p1 := m.recent(0)
		p0 := m.recent(1)
		if p1.warped > p0.warped {
			slope := (p1.real - p0.real) / (p1.warped - p0.warped)
			return p1.real + (warped-p1.warped)*slope
		}
		return p1.real
	case m.scatterN == 1:
		p := m.recent(0)
		return p.real + warped - p.warped
	default:
		return float64(m.pos - 1)
	}
}

func (m *MovableWriter) clampReal(t float64) float64 {
	oldest := float64(max(m.pos-int64(len(m.samples)), 0))
	newest := float64(m.pos - 1)
	return math.Min(math.Max(t, oldest), newest)
}

// ReadReal reads the sample history at a fractional real time with cubic
// Hermite interpolation. Positions outside the history clamp to its ends.
func (m *MovableWriter) ReadReal(t float64) float64 {
	if m.pos == 0 {
		return 0
	}
	t = m.clampReal(t)

	i := int64(math.Floor(t))
	frac := t - float64(i)

	return interp.Hermite4(frac, m.at(i-1), m.at(i), m.at(i+1), m.at(i+2))
}

// at returns the sample written at real time i, clamped to the history.
func (m *MovableWriter) at(i int64) float64 {
	size := int64(len(m.samples))
	i = min(max(i, m.pos-size), m.pos-1)
	if i < 0 {
		return 0
	}
	return m.samples[i%size]
}

// Read returns the sample at warped time.
func (m *MovableWriter) Read(warped float64) float64 {
	return m.ReadReal(m.GetRealTime(warped))
}

// ReadFrame fills dst with consecutive samples whose last one sits at real
// time end.
func (m *MovableWriter) ReadFrame(dst []float64, end float64) {
	n := len(dst)
	for j := range dst {
		dst[j] = m.ReadReal(end - float64(n-1-j))
	}
}

// Reset clears samples, map and scatter history.
func (m *MovableWriter) Reset() {
	for i := range m.samples {
		m.samples[i] = 0
	}
	for i := range m.invMap {
		m.invMap[i] = 0
	}
	m.pos = 0
	m.mapLow = 0
	m.mapHead = 0
	m.mapValid = false
	m.scatterN = 0
	m.prevWarped = 0
	m.hasPrev = false
	m.scrubbing = false
	m.turnaround = 0
	m.turnarounds = 0
}
