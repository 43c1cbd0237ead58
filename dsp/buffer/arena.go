package buffer

import "fmt"

// Handle identifies a live slot in an Arena. The zero Handle is never valid.
type Handle struct {
	index int32
	gen   uint32
}

// Index returns the slot index the handle refers to.
func (h Handle) Index() int { return int(h.index) }

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool { return h.gen == 0 }

// Arena is a bounded slot allocator with a FIFO free queue.
//
// Freed slots go to the back of the queue, so a just-released slot is the
// last one to be handed out again. Every allocation bumps the slot
// generation, which invalidates all older handles to the same slot.
//
// Arena is real-time safe (no allocations after construction) and not
// thread-safe.
type Arena[T any] struct {
	slots []T
	gens  []uint32
	live  []bool

	free      []int32
	freeHead  int
	freeCount int
}

// NewArena returns an arena with the given fixed capacity.
func NewArena[T any](capacity int) (*Arena[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("arena capacity must be > 0: %d", capacity)
	}

	a := &Arena[T]{
		slots: make([]T, capacity),
		gens:  make([]uint32, capacity),
		live:  make([]bool, capacity),
		free:  make([]int32, capacity),
	}
	a.Reset()

	return a, nil
}

// Cap returns the fixed slot count.
func (a *Arena[T]) Cap() int { return len(a.slots) }

// Len returns the number of allocated slots.
func (a *Arena[T]) Len() int { return len(a.slots) - a.freeCount }

// Available returns the number of free slots.
func (a *Arena[T]) Available() int { return a.freeCount }

// Allocate claims a free slot. The slot payload keeps whatever value it had
// when it was freed; callers initialize it through Get. ok is false when the
// arena is exhausted.
func (a *Arena[T]) Allocate() (h Handle, ok bool) {
	if a.freeCount == 0 {
		return Handle{}, false
	}

	idx := a.free[a.freeHead]
	a.freeHead++
	if a.freeHead == len(a.free) {
		a.freeHead = 0
	}
	a.freeCount--

	a.gens[idx]++
	if a.gens[idx] == 0 {
		a.gens[idx] = 1
	}
	a.live[idx] = true

	return Handle{index: idx, gen: a.gens[idx]}, true
}

// Free releases the slot referenced by h. It reports false when h is stale
// or was never allocated, so double frees are harmless.
func (a *Arena[T]) Free(h Handle) bool {
	if !a.IsAllocated(h) {
		return false
	}

	a.live[h.index] = false

	tail := a.freeHead + a.freeCount
	if tail >= len(a.free) {
		tail -= len(a.free)
	}
	a.free[tail] = h.index
	a.freeCount++

	return true
}

// IsAllocated reports whether h still refers to the live allocation it was
// issued for.
func (a *Arena[T]) IsAllocated(h Handle) bool {
	if h.gen == 0 || h.index < 0 || int(h.index) >= len(a.slots) {
		return false
	}

	return a.live[h.index] && a.gens[h.index] == h.gen
}

// Get returns the payload for h, or nil when h is not allocated.
func (a *Arena[T]) Get(h Handle) *T {
	if !a.IsAllocated(h) {
		return nil
	}

	return &a.slots[h.index]
}

// Reset frees every slot and invalidates all outstanding handles.
func (a *Arena[T]) Reset() {
	for i := range a.slots {
		if a.live[i] {
			a.gens[i]++
		}
		a.live[i] = false
		a.free[i] = int32(i)
	}

	a.freeHead = 0
	a.freeCount = len(a.slots)
}
