//go:build fastmath

package spectral

import "github.com/meko-christian/algo-approx"

// peakLog computes ln(x) using fast approximation.
func peakLog(x float64) float64 {
	return approx.FastLog(x)
}

// peakExp computes e^x using fast approximation.
func peakExp(x float64) float64 {
	return approx.FastExp(x)
}
