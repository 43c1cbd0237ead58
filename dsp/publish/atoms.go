package publish

import "fmt"

// AtomSlots is the number of recent frames an AtomRing keeps.
const AtomSlots = 16

// Frame is a reader's copy of one published atom frame.
type Frame struct {
	// Which is the frame's sequence number, starting at 0.
	Which      uint64
	Omegas     []float64
	Magnitudes []float64
	// UsedOmegas holds, per copy slot, the atom frequency the copy snapped
	// to, or NoOmega.
	UsedOmegas []float64
}

// NoOmega marks a copy slot that found no atom.
const NoOmega = -1.0

// AtomRing publishes the tracked atoms of each analysis frame.
type AtomRing struct {
	r *ring
}

// NewAtomRing returns a ring whose frames hold up to maxAtoms atoms and
// copies used-omega slots.
func NewAtomRing(maxAtoms, copies int) (*AtomRing, error) {
	if maxAtoms <= 0 {
		return nil, fmt.Errorf("atom ring capacity must be > 0: %d", maxAtoms)
	}
	if copies < 0 {
		return nil, fmt.Errorf("atom ring copy slots must be >= 0: %d", copies)
	}
	return &AtomRing{r: newRing(AtomSlots, 2, maxAtoms, copies)}, nil
}

// Cap returns the per-frame atom capacity.
func (a *AtomRing) Cap() int { return a.r.capacity }

// Copies returns the number of used-omega slots per frame.
func (a *AtomRing) Copies() int { return a.r.fixed }

// Which returns the number of frames published so far. The newest frame is
// Which()-1.
func (a *AtomRing) Which() uint64 { return a.r.which.Load() }

// Publish stores one frame. Atoms beyond the capacity are dropped and copy
// slots missing from used read as NoOmega. Only the audio thread may call
// it.
func (a *AtomRing) Publish(omegas, magnitudes, used []float64) {
	n := min(len(omegas), len(magnitudes))
	s, n := a.r.begin(n)
	for i := range n {
		a.r.set(s, 0, i, omegas[i])
		a.r.set(s, 1, i, magnitudes[i])
	}
	for i := range a.r.fixed {
		v := NoOmega
		if i < len(used) {
			v = used[i]
		}
		a.r.setFixed(s, i, v)
	}
	a.r.end(s)
}

// Snapshot copies the newest frame into dst.
func (a *AtomRing) Snapshot(dst *Frame) bool {
	which := a.Which()
	if which == 0 {
		return false
	}
	return a.Read(which-1, dst)
}

// Read copies frame which into dst. It returns false when the frame is not
// available or was overwritten while being copied; dst is then undefined.
func (a *AtomRing) Read(which uint64, dst *Frame) bool {
	ok := a.r.read(which, func(s *slot, n int) {
		dst.Omegas = dst.Omegas[:0]
		dst.Magnitudes = dst.Magnitudes[:0]
		dst.UsedOmegas = dst.UsedOmegas[:0]
		for i := range n {
			dst.Omegas = append(dst.Omegas, a.r.get(s, 0, i))
			dst.Magnitudes = append(dst.Magnitudes, a.r.get(s, 1, i))
		}
		for i := range a.r.fixed {
			dst.UsedOmegas = append(dst.UsedOmegas, a.r.getFixed(s, i))
		}
	})
	if ok {
		dst.Which = which
	}
	return ok
}
