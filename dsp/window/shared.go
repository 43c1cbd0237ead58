package window

import "sync"

type sharedKey struct {
	t    Type
	size int
}

var (
	sharedMu     sync.Mutex
	sharedTables = map[sharedKey][]float64{}
)

// Shared returns a process-wide periodic window table of the given type and
// size. Tables are built on first request and shared afterwards; callers
// must treat the returned slice as read-only. Request tables while
// constructing processors, not from the audio thread.
func Shared(t Type, size int) ([]float64, error) {
	if err := validateLength(size); err != nil {
		return nil, err
	}

	key := sharedKey{t: t, size: size}

	sharedMu.Lock()
	defer sharedMu.Unlock()

	if w, ok := sharedTables[key]; ok {
		return w, nil
	}

	w := Generate(t, size, WithPeriodic())
	sharedTables[key] = w

	return w, nil
}

// OverlapAddGain returns the steady-state sum of analysis[i]*synthesis[i]
// over all frames overlapping one output sample when frames start every hop
// samples. Dividing the overlap-add output by this value gives unity gain.
// For periodic Hann analysis and synthesis windows at hop = size/4 it is 1.5.
func OverlapAddGain(analysis, synthesis []float64, hop int) (float64, error) {
	if len(analysis) == 0 || len(synthesis) == 0 {
		return 0, errEmptyCoeffs
	}
	if len(analysis) != len(synthesis) {
		return 0, errMismatchedLength
	}
	if err := validateHop(len(analysis), hop); err != nil {
		return 0, err
	}

	// Average over one hop so odd sizes do not bias the result.
	total := 0.0
	for offset := 0; offset < hop; offset++ {
		for i := offset; i < len(analysis); i += hop {
			total += analysis[i] * synthesis[i]
		}
	}

	return total / float64(hop), nil
}
