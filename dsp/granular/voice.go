package granular

import (
	"fmt"

	"github.com/cwbudde/algo-resynth/dsp/delay"
	"github.com/cwbudde/algo-resynth/dsp/publish"
	"github.com/cwbudde/algo-resynth/dsp/resynth"
)

// defaultHistoryFrames sizes the delay history in frames when WithHistory
// is not given.
const defaultHistoryFrames = 4

// WithHistory sets the delay history of a Voice in samples.
func WithHistory(samples int) Option {
	return func(c *config) {
		c.history = samples
	}
}

// WithSeed seeds the voice's small-bin phase generator.
func WithSeed(seed int64) Option {
	return func(c *config) {
		c.seed = seed
	}
}

// Voice is one channel of the engine: a warped-time writer feeding a grain
// manager, plus the display state it publishes on every launch.
//
// Process must be called once per sample from the audio thread. Atoms and
// Grains may be read from any goroutine.
type Voice struct {
	writer  *delay.MovableWriter
	resynth *resynth.Resynthesizer
	manager *GrainManager

	atoms  *publish.AtomRing
	grains *publish.GrainBoard

	omegas []float64
	mags   []float64
	used   [resynth.MaxCopies]float64
	states []publish.GrainState
}

// NewVoice builds a voice for frames of frameSize samples drawing grains
// from pool.
func NewVoice(frameSize int, pool *resynth.GrainPool, opts ...Option) (*Voice, error) {
	cfg := applyOptions(opts)
	if cfg.history == 0 {
		cfg.history = defaultHistoryFrames * frameSize
	}

	rsOpts := []resynth.Option{}
	if cfg.seed != 0 {
		rsOpts = append(rsOpts, resynth.WithSeed(cfg.seed))
	}
	r, err := resynth.New(frameSize, rsOpts...)
	if err != nil {
		return nil, fmt.Errorf("voice: %w", err)
	}

	w, err := delay.NewMovableWriter(cfg.history)
	if err != nil {
		return nil, fmt.Errorf("voice: %w", err)
	}

	m, err := NewGrainManager(r, w, pool, opts...)
	if err != nil {
		return nil, fmt.Errorf("voice: %w", err)
	}

	bins := frameSize / 2
	atoms, err := publish.NewAtomRing(bins, resynth.MaxCopies)
	if err != nil {
		return nil, fmt.Errorf("voice: %w", err)
	}
	grains, err := publish.NewGrainBoard(m.MaxGrains())
	if err != nil {
		return nil, fmt.Errorf("voice: %w", err)
	}

	return &Voice{
		writer:  w,
		resynth: r,
		manager: m,
		atoms:   atoms,
		grains:  grains,
		omegas:  make([]float64, 0, bins),
		mags:    make([]float64, 0, bins),
		states:  make([]publish.GrainState, 0, m.MaxGrains()),
	}, nil
}

// Writer returns the voice's delay writer.
func (v *Voice) Writer() *delay.MovableWriter { return v.writer }

// Manager returns the voice's grain manager.
func (v *Voice) Manager() *GrainManager { return v.manager }

// Resynthesizer returns the voice's resynthesizer.
func (v *Voice) Resynthesizer() *resynth.Resynthesizer { return v.resynth }

// Atoms returns the published atom frames.
func (v *Voice) Atoms() *publish.AtomRing { return v.atoms }

// Grains returns the published grain population.
func (v *Voice) Grains() *publish.GrainBoard { return v.grains }

// Process writes input at warped time warpedWrite and returns one output
// sample read around readHead.
func (v *Voice) Process(input, warpedWrite, readHead float64, p *Params) float64 {
	v.writer.Write(input, warpedWrite)
	out := v.manager.Process(readHead, p.SampleOffset, p)
	if v.manager.Launched() {
		v.publish(p)
	}
	return out
}

func (v *Voice) publish(p *Params) {
	model := v.resynth.Model()
	v.omegas = v.omegas[:0]
	v.mags = v.mags[:0]
	for i := range min(model.Len(), cap(v.omegas)) {
		a := model.Atom(i)
		v.omegas = append(v.omegas, a.SynthesisOmega)
		v.mags = append(v.mags, a.SynthesisMagnitude)
	}
	v.snapCopies(p)
	v.atoms.Publish(v.omegas, v.mags, v.used[:])

	v.states = v.states[:0]
	for i := range v.manager.Live() {
		g := v.manager.Grain(i)
		v.states = append(v.states, publish.GrainState{
			Delay: float64(g.Cursor()),
			Ratio: g.Ratio,
			Gain:  g.Gain(),
		})
	}
	v.grains.Publish(v.states)
}

// snapCopies records, for every active copy slot, the audible atom nearest
// to the strongest partial moved by that copy's ratio.
func (v *Voice) snapCopies(p *Params) {
	model := v.resynth.Model()
	rp := p.resynth()

	for i := range v.used {
		v.used[i] = publish.NoOmega
		if model.Len() == 0 {
			continue
		}
		q, weight := rp.Copy(i)
		if weight <= 0 {
			continue
		}
		if omega, ok := model.Nearest(model.Atom(0).SynthesisOmega, q, p.Spectral.GainThreshold); ok {
			v.used[i] = omega
		}
	}
}

// Reset clears the writer, live grains and tracked atoms.
func (v *Voice) Reset() {
	v.writer.Reset()
	v.manager.Reset()
	v.resynth.Reset()
}
