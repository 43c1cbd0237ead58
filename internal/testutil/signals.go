// Package testutil provides deterministic test signals and tolerance checks
// shared by the dsp packages.
package testutil

import (
	"math"
	"math/rand"
)

// Tone returns amplitude*sin(2*pi*omega*n) for n in [0, length), with omega
// in cycles per sample.
func Tone(length int, omega, amplitude float64) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = amplitude * math.Sin(2*math.Pi*omega*float64(i))
	}
	return out
}

// BinTone returns a tone at the center frequency of bin for frames of
// frameSize samples. Fractional bins are allowed.
func BinTone(length, frameSize int, bin, amplitude float64) []float64 {
	return Tone(length, bin/float64(frameSize), amplitude)
}

// DeterministicNoise returns uniform white noise in [-amplitude, amplitude)
// from a fixed seed.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}
