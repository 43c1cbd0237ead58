package spectrum

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Magnitude returns |X[k]| for each complex spectrum bin.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re := make([]float64, len(in))
	im := make([]float64, len(in))
	MagnitudeInto(out, in, re, im)

	return out
}

// MagnitudeInto computes |X[k]| into dst using caller-provided scratch for
// the real and imaginary parts. All slices must have len(in) elements.
//
// This uses SIMD-optimized kernels when available (AVX2, SSE2, NEON) and does
// not allocate.
func MagnitudeInto(dst []float64, in []complex128, re, im []float64) {
	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Magnitude(dst, re[:len(in)], im[:len(in)])
}

// MagnitudeFromParts computes |X[k]| = sqrt(re[k]^2 + im[k]^2) into dst.
func MagnitudeFromParts(dst, re, im []float64) {
	vecmath.Magnitude(dst, re, im)
}

// PhaseInto writes arg(X[k]) in radians into dst.
func PhaseInto(dst []float64, in []complex128) {
	for i, c := range in {
		dst[i] = math.Atan2(imag(c), real(c))
	}
}

// Power returns |X[k]|^2 for each complex spectrum bin.
func Power(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re := make([]float64, len(in))
	im := make([]float64, len(in))

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Power(out, re, im)

	return out
}
