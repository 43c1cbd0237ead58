package spectral

import (
	"fmt"
	"math"
)

const (
	// DeathMagnitude is the synthesis magnitude below which an atom dies and
	// the analysis magnitude a peak needs to give birth.
	DeathMagnitude = 1e-5
	// MergeGainThreshold is the smallest peak/atom magnitude ratio that still
	// counts as a match.
	MergeGainThreshold = 1e-3

	defaultGainThreshold = 1e-3
	defaultNumAtoms      = 64

	consumedMagnitude = -1.0
)

// Params are the control-rate settings of the spectral model.
type Params struct {
	// GainThreshold is the minimum bin magnitude for a peak.
	GainThreshold float64
	// NumAtoms caps both the peaks kept per frame and the tracked atoms.
	NumAtoms int
	// SlewUpAlpha and SlewDownAlpha are the attack and release coefficients
	// of an atom's synthesis magnitude, in (0, 1].
	SlewUpAlpha   float64
	SlewDownAlpha float64
	// OmegaDensity is the half-width of an atom's capture window in cycles
	// per sample.
	OmegaDensity float64
}

// DefaultParams returns defaults for the given frame size: threshold 1e-3,
// 64 atoms, instant slews and a one-bin capture window.
func DefaultParams(frameSize int) Params {
	density := 1.0 / 4096
	if frameSize > 0 {
		density = 1 / float64(frameSize)
	}

	return Params{
		GainThreshold: defaultGainThreshold,
		NumAtoms:      defaultNumAtoms,
		SlewUpAlpha:   1,
		SlewDownAlpha: 1,
		OmegaDensity:  density,
	}
}

// Validate reports the first out-of-range field.
func (p *Params) Validate() error {
	if p.GainThreshold < 0 || math.IsNaN(p.GainThreshold) || math.IsInf(p.GainThreshold, 0) {
		return fmt.Errorf("spectral gain threshold must be finite and >= 0: %f", p.GainThreshold)
	}
	if p.NumAtoms <= 0 {
		return fmt.Errorf("spectral atom count must be > 0: %d", p.NumAtoms)
	}
	if !(p.SlewUpAlpha > 0 && p.SlewUpAlpha <= 1) {
		return fmt.Errorf("spectral slew up alpha must be in (0,1]: %f", p.SlewUpAlpha)
	}
	if !(p.SlewDownAlpha > 0 && p.SlewDownAlpha <= 1) {
		return fmt.Errorf("spectral slew down alpha must be in (0,1]: %f", p.SlewDownAlpha)
	}
	if !(p.OmegaDensity > 0 && p.OmegaDensity < 0.5) {
		return fmt.Errorf("spectral omega density must be in (0,0.5): %f", p.OmegaDensity)
	}
	return nil
}
