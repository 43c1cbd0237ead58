package spectral

import "math"

// AnalysisAtom is one refined spectral peak from a single frame.
type AnalysisAtom struct {
	// Omega is the normalized frequency in cycles per sample, (0, 0.5].
	Omega     float64
	Magnitude float64
}

// Atom is a partial tracked across frames.
type Atom struct {
	AnalysisAtom

	SynthesisOmega     float64
	SynthesisMagnitude float64
	// SynthesisPhase is the running phase in cycles, kept in [0, 1).
	SynthesisPhase float64
}

func (a *Atom) merge(peak AnalysisAtom, p *Params) {
	a.SynthesisMagnitude = BiSlew(a.SynthesisMagnitude, peak.Magnitude, p.SlewUpAlpha, p.SlewDownAlpha)
	a.AnalysisAtom = peak
	a.SynthesisOmega = peak.Omega
}

func (a *Atom) mergeNoMatch(p *Params) {
	a.SynthesisMagnitude = Slew(a.SynthesisMagnitude, 0, p.SlewDownAlpha)
	a.Magnitude = 0
	a.SynthesisOmega = a.Omega
}

func (a *Atom) updatePhase(hop int) {
	ph := a.SynthesisPhase + float64(hop)*a.SynthesisOmega
	a.SynthesisPhase = ph - math.Floor(ph)
}

// Slew moves current toward target by the fraction alpha.
func Slew(current, target, alpha float64) float64 {
	return current + alpha*(target-current)
}

// BiSlew slews with up when rising and down when falling.
func BiSlew(current, target, up, down float64) float64 {
	if target > current {
		return Slew(current, target, up)
	}
	return Slew(current, target, down)
}

// AlphaFromFrames converts a time constant in frames to a one-pole slew
// coefficient. Non-positive time constants give an instant slew of 1.
func AlphaFromFrames(frames float64) float64 {
	if frames <= 0 {
		return 1
	}
	return 1 - math.Exp(-1/frames)
}
