package resynth

type edgeKind int8

const (
	edgeTime edgeKind = iota
	edgeFrequency
)

type heapEntry struct {
	mag  float64
	bin  int32
	kind edgeKind
}

// magHeap is a max-heap on mag with fixed capacity.
type magHeap []heapEntry

func (h magHeap) less(i, j int) bool {
	if h[i].mag != h[j].mag {
		return h[i].mag > h[j].mag
	}
	return h[i].bin < h[j].bin
}

func (h *magHeap) push(e heapEntry) {
	*h = append(*h, e)
	s := *h
	i := len(s) - 1
	for i > 0 {
		parent := (i - 1) / 2
		if !s.less(i, parent) {
			break
		}
		s[i], s[parent] = s[parent], s[i]
		i = parent
	}
}

func (h *magHeap) pop() heapEntry {
	s := *h
	top := s[0]
	last := len(s) - 1
	s[0] = s[last]
	s = s[:last]

	i := 0
	for {
		l := 2*i + 1
		if l >= len(s) {
			break
		}
		best := l
		if r := l + 1; r < len(s) && s.less(r, l) {
			best = r
		}
		if !s.less(best, i) {
			break
		}
		s[i], s[best] = s[best], s[i]
		i = best
	}

	*h = s
	return top
}
