package main

import (
	"math"

	"github.com/cwbudde/algo-resynth/dsp/granular"
	"github.com/cwbudde/algo-resynth/dsp/publish"
	"github.com/cwbudde/algo-resynth/dsp/resynth"
)

type renderConfig struct {
	frameSize int
	maxGrains int
	seed      int64
	params    granular.Params

	// lag is the read head distance behind the write head, in warped units.
	lag     float64
	speed   float64
	period  int
	reverse int
}

// spectrumTrace accumulates the loudest atom per bin over a render and how
// often a copy slot snapped to that bin.
type spectrumTrace struct {
	frameSize int
	peak      []float64
	snaps     []float64
	grains    []publish.GrainState
	frame     publish.Frame
	seen      uint64
}

func newSpectrumTrace(frameSize int) *spectrumTrace {
	return &spectrumTrace{
		frameSize: frameSize,
		peak:      make([]float64, frameSize/2),
		snaps:     make([]float64, frameSize/2),
	}
}

func (s *spectrumTrace) observe(v *granular.Voice) {
	if v.Atoms().Which() == s.seen || !v.Atoms().Snapshot(&s.frame) {
		return
	}
	s.seen = s.frame.Which + 1

	for i, omega := range s.frame.Omegas {
		bin := int(math.Round(omega * float64(s.frameSize)))
		if bin >= 0 && bin < len(s.peak) {
			s.peak[bin] = max(s.peak[bin], s.frame.Magnitudes[i])
		}
	}
	for _, omega := range s.frame.UsedOmegas {
		if omega == publish.NoOmega {
			continue
		}
		if bin := int(math.Round(omega * float64(s.frameSize))); bin >= 0 && bin < len(s.snaps) {
			s.snaps[bin]++
		}
	}
	if g, ok := v.Grains().Snapshot(s.grains); ok {
		s.grains = g
	}
}

// render runs every channel of in through its own voice. The output is one
// frame longer than the input so the last grains can finish. progress is
// called with the number of samples rendered since the previous call.
func render(in *clip, cfg renderConfig, trace *spectrumTrace, progress func(int)) (*clip, error) {
	frames := in.frames() + cfg.frameSize
	out := &clip{sampleRate: in.sampleRate, channels: make([][]float64, len(in.channels))}

	pool, err := resynth.NewGrainPool(cfg.maxGrains*len(in.channels), cfg.frameSize)
	if err != nil {
		return nil, err
	}

	const progressStep = 4096
	for ch, samples := range in.channels {
		v, err := granular.NewVoice(cfg.frameSize, pool,
			granular.WithMaxGrains(cfg.maxGrains),
			granular.WithSeed(cfg.seed+int64(ch)),
		)
		if err != nil {
			return nil, err
		}

		clock := warpClock{speed: cfg.speed, period: cfg.period, reverse: cfg.reverse}
		dst := make([]float64, frames)
		for i := range dst {
			var x float64
			if i < len(samples) {
				x = samples[i]
			}
			w := clock.next()
			dst[i] = v.Process(x, w, w-cfg.lag, &cfg.params)

			if ch == 0 && trace != nil {
				trace.observe(v)
			}
			if progress != nil && (i+1)%progressStep == 0 {
				progress(progressStep)
			}
		}
		if progress != nil {
			progress(frames % progressStep)
		}

		out.channels[ch] = dst
		v.Reset()
	}

	return out, nil
}
