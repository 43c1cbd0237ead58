//go:build !fastmath

package spectral

import "math"

func peakLog(x float64) float64 {
	return math.Log(x)
}

func peakExp(x float64) float64 {
	return math.Exp(x)
}
