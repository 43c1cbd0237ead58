package publish

import (
	"math"
	"sync/atomic"
)

// slot is one seqlock-guarded frame of cols columns of up to capacity
// float64 values each, followed by fixed values that are always present.
type slot struct {
	seq   atomic.Uint64
	frame atomic.Uint64
	n     atomic.Int64
	data  []atomic.Uint64
}

// ring is a fixed set of slots written round-robin by a single writer.
type ring struct {
	capacity int
	cols     int
	fixed    int
	which    atomic.Uint64
	slots    []slot
}

func newRing(slots, cols, capacity, fixed int) *ring {
	r := &ring{
		capacity: capacity,
		cols:     cols,
		fixed:    fixed,
		slots:    make([]slot, slots),
	}
	for i := range r.slots {
		r.slots[i].data = make([]atomic.Uint64, cols*capacity+fixed)
	}
	return r
}

// begin opens the next slot for writing and returns it with the number of
// values that fit.
func (r *ring) begin(n int) (*slot, int) {
	idx := r.which.Load()
	s := &r.slots[idx%uint64(len(r.slots))]
	s.seq.Add(1)
	s.frame.Store(idx)
	n = min(n, r.capacity)
	s.n.Store(int64(n))
	return s, n
}

func (r *ring) set(s *slot, col, i int, v float64) {
	s.data[col*r.capacity+i].Store(math.Float64bits(v))
}

func (r *ring) setFixed(s *slot, i int, v float64) {
	s.data[r.cols*r.capacity+i].Store(math.Float64bits(v))
}

// end closes s and makes it the newest frame.
func (r *ring) end(s *slot) {
	s.seq.Add(1)
	r.which.Add(1)
}

// locate returns the slot holding frame, or nil when it was never written
// or has been overwritten.
func (r *ring) locate(frame uint64) *slot {
	which := r.which.Load()
	if frame >= which || which-frame > uint64(len(r.slots)) {
		return nil
	}
	return &r.slots[frame%uint64(len(r.slots))]
}

// read runs copyOut on the slot holding frame. It returns false on a torn
// or stale read.
func (r *ring) read(frame uint64, copyOut func(s *slot, n int)) bool {
	s := r.locate(frame)
	if s == nil {
		return false
	}

	seq := s.seq.Load()
	if seq&1 != 0 || s.frame.Load() != frame {
		return false
	}

	copyOut(s, int(s.n.Load()))

	return s.seq.Load() == seq
}

func (r *ring) get(s *slot, col, i int) float64 {
	return math.Float64frombits(s.data[col*r.capacity+i].Load())
}

func (r *ring) getFixed(s *slot, i int) float64 {
	return math.Float64frombits(s.data[r.cols*r.capacity+i].Load())
}
