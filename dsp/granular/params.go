package granular

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-resynth/dsp/resynth"
	"github.com/cwbudde/algo-resynth/dsp/spectral"
)

// Params are the control-rate settings of a voice.
type Params struct {
	Spectral spectral.Params
	Shifts   [resynth.MaxShifts]resynth.Shift
	Unison   resynth.Unison
	// LaunchSlewUp is the fraction by which the launch gain approaches 1 on
	// every launch, in (0, 1]. The gain restarts at 0 after a scrub reversal.
	LaunchSlewUp float64
	// SampleOffset moves the analysis window this many samples behind the
	// read head.
	SampleOffset float64
}

// DefaultParams returns an unshifted single copy at full launch gain.
func DefaultParams(frameSize int) Params {
	rp := resynth.DefaultParams()
	return Params{
		Spectral:     spectral.DefaultParams(frameSize),
		Shifts:       rp.Shifts,
		Unison:       rp.Unison,
		LaunchSlewUp: 1,
	}
}

// Validate reports the first out-of-range field.
func (p *Params) Validate() error {
	if err := p.Spectral.Validate(); err != nil {
		return err
	}
	rp := p.resynth()
	if err := rp.Validate(); err != nil {
		return err
	}
	if !(p.LaunchSlewUp > 0 && p.LaunchSlewUp <= 1) {
		return fmt.Errorf("launch slew up must be in (0,1]: %f", p.LaunchSlewUp)
	}
	if p.SampleOffset < 0 || math.IsNaN(p.SampleOffset) || math.IsInf(p.SampleOffset, 0) {
		return fmt.Errorf("sample offset must be finite and >= 0: %f", p.SampleOffset)
	}
	return nil
}

func (p *Params) resynth() resynth.Params {
	return resynth.Params{Shifts: p.Shifts, Unison: p.Unison}
}
