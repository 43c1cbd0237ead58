package resynth

import (
	"fmt"
	"math"
)

const (
	// MaxShifts is the number of simultaneous shifted copies.
	MaxShifts = 3
	// MaxCopies is the number of copy slots: every shift renders a center
	// copy and two unison sides.
	MaxCopies = MaxShifts * copiesPerShift

	copiesPerShift = 3
)

// maxUnisonGain keeps the center weight sqrt(1 - 2g^2/3) real.
var maxUnisonGain = math.Sqrt(1.5)

// Ratio is a pitch ratio Num/Den. Keeping ratios rational makes harmonic
// intervals exact.
type Ratio struct {
	Num int
	Den int
}

// Unity is the ratio 1/1.
var Unity = Ratio{Num: 1, Den: 1}

// Float returns Num/Den.
func (r Ratio) Float() float64 {
	return float64(r.Num) / float64(r.Den)
}

// Validate reports whether both terms are positive.
func (r Ratio) Validate() error {
	if r.Num <= 0 || r.Den <= 0 {
		return fmt.Errorf("ratio terms must be > 0: %d/%d", r.Num, r.Den)
	}
	return nil
}

// String formats the ratio as Num/Den.
func (r Ratio) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// Shift is one shifted copy of the analyzed spectrum.
type Shift struct {
	Ratio  Ratio
	Weight float64
}

// Unison configures the detuned side pair added around every shift.
type Unison struct {
	// Detune is the side ratio; sides play at r*Detune and r/Detune.
	Detune float64
	// Gain moves power from the center to the sides, in [0, sqrt(3/2)].
	Gain float64
}

// UnisonWeights returns the constant-power center and per-side weights for
// unison gain g: sqrt(1 - 2g^2/3) and g/sqrt(3).
func UnisonWeights(g float64) (center, side float64) {
	g = math.Min(math.Max(g, 0), maxUnisonGain)
	return math.Sqrt(math.Max(0, 1-2*g*g/3)), g / math.Sqrt(3)
}

// Params are the control-rate settings of the resynthesizer.
type Params struct {
	// Shifts with zero Weight are inactive.
	Shifts [MaxShifts]Shift
	Unison Unison
}

// DefaultParams returns a single unshifted copy without unison.
func DefaultParams() Params {
	return Params{
		Shifts: [MaxShifts]Shift{{Ratio: Unity, Weight: 1}},
		Unison: Unison{Detune: 1},
	}
}

// Copy returns the ratio and weight of copy slot i. Slot 3s is the center
// of shift s, 3s+1 and 3s+2 are its upper and lower unison sides. Inactive
// slots have weight 0.
func (p *Params) Copy(i int) (ratio, weight float64) {
	shift := p.Shifts[i/copiesPerShift]
	if shift.Weight <= 0 || shift.Ratio.Validate() != nil {
		return 1, 0
	}

	q := shift.Ratio.Float()
	center, side := UnisonWeights(p.Unison.Gain)
	detune := p.Unison.Detune
	if !(detune >= 1) {
		detune = 1
	}

	switch i % copiesPerShift {
	case 0:
		return q, shift.Weight * center
	case 1:
		return q * detune, shift.Weight * side
	default:
		return q / detune, shift.Weight * side
	}
}

// Validate reports the first out-of-range field.
func (p *Params) Validate() error {
	for i, s := range p.Shifts {
		if s.Weight == 0 {
			continue
		}
		if err := s.Ratio.Validate(); err != nil {
			return fmt.Errorf("shift %d: %w", i, err)
		}
		if s.Weight < 0 || math.IsNaN(s.Weight) || math.IsInf(s.Weight, 0) {
			return fmt.Errorf("shift %d weight must be finite and >= 0: %f", i, s.Weight)
		}
	}
	if !(p.Unison.Detune >= 1) || math.IsInf(p.Unison.Detune, 0) {
		return fmt.Errorf("unison detune must be finite and >= 1: %f", p.Unison.Detune)
	}
	if !(p.Unison.Gain >= 0 && p.Unison.Gain <= maxUnisonGain) {
		return fmt.Errorf("unison gain must be in [0, %f]: %f", maxUnisonGain, p.Unison.Gain)
	}
	return nil
}
