package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-resynth/dsp/core"
	"github.com/cwbudde/algo-resynth/dsp/interp"
)

// Line is a circular delay line. Delays are counted from the write head:
// a delay of 1 is the most recently written sample.
//
// Line is real-time safe and not thread-safe.
type Line struct {
	buffer   []float64
	writePos int
}

// NewLine returns a delay line holding size samples.
func NewLine(size int) (*Line, error) {
	if size < 4 {
		return nil, fmt.Errorf("delay line size must be >= 4: %d", size)
	}
	return &Line{buffer: make([]float64, size)}, nil
}

// Len returns the buffer size.
func (d *Line) Len() int {
	return len(d.buffer)
}

// Write stores one sample and advances the head.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos == len(d.buffer) {
		d.writePos = 0
	}
}

// Read returns the sample written delay calls ago.
func (d *Line) Read(delay int) float64 {
	return d.buffer[core.Wrap(d.writePos-delay, len(d.buffer))]
}

// ReadFractional reads a fractional delay in [1, Len()-2] with cubic
// Hermite interpolation. Out-of-range delays are clamped.
func (d *Line) ReadFractional(delay float64) float64 {
	delay = math.Min(math.Max(delay, 1), float64(len(d.buffer)-2))

	p := int(delay)
	t := delay - float64(p)

	// Increasing delay walks backwards in time.
	return interp.Hermite4(t, d.Read(p-1), d.Read(p), d.Read(p+1), d.Read(p+2))
}

// Process writes x and returns the signal delayed by delay samples, where a
// delay of 0 returns x itself.
func (d *Line) Process(x, delay float64) float64 {
	d.Write(x)
	return d.ReadFractional(delay + 1)
}

// Reset clears the buffer.
func (d *Line) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
	d.writePos = 0
}
