package spectral

import (
	"cmp"
	"math"
	"slices"
)

const (
	logEps        = 1e-20
	minParabolaDn = 1e-10
)

// ExtractPeaks appends to dst[:0] every strict local maximum of mags at or
// above p.GainThreshold, refined by parabolic interpolation of the log
// magnitudes of the bin and its two neighbors. mags holds the frameSize/2
// bins of a half spectrum; bins 0, 1 and the last bin are never peaks.
//
// At most p.NumAtoms peaks are kept (the strongest), and the result is sorted
// by ascending Omega. When dst has enough capacity no allocation occurs.
func ExtractPeaks(dst []AnalysisAtom, mags []float64, frameSize int, p *Params) []AnalysisAtom {
	dst = dst[:0]
	n := float64(frameSize)

	for k := len(mags) - 2; k >= 2; k-- {
		mag := mags[k]
		if !(mags[k-1] < mag && mags[k+1] < mag && p.GainThreshold <= mag) {
			continue
		}

		alpha := peakLog(math.Max(mags[k-1], logEps))
		beta := peakLog(math.Max(mag, logEps))
		gamma := peakLog(math.Max(mags[k+1], logEps))
		denom := alpha - 2*beta + gamma

		offset := 0.0
		peakMag := mag
		if math.Abs(denom) > minParabolaDn {
			offset = 0.5 * (alpha - gamma) / denom
			peakMag = peakExp(beta - 0.25*(alpha-gamma)*offset)
		}

		dst = append(dst, AnalysisAtom{Omega: (float64(k) + offset) / n, Magnitude: peakMag})
	}

	if p.NumAtoms < len(dst) {
		slices.SortFunc(dst, cmpPeakMagnitudeDesc)
		dst = dst[:p.NumAtoms]
	}

	slices.SortFunc(dst, cmpPeakOmega)

	return dst
}

func cmpPeakMagnitudeDesc(a, b AnalysisAtom) int {
	return cmp.Compare(b.Magnitude, a.Magnitude)
}

func cmpPeakOmega(a, b AnalysisAtom) int {
	return cmp.Compare(a.Omega, b.Omega)
}

// lowerBound returns the first index whose Omega is >= omega.
func lowerBound(peaks []AnalysisAtom, omega float64) int {
	lo, hi := 0, len(peaks)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if peaks[mid].Omega < omega {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
