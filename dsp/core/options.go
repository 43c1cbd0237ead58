package core

// ProcessorConfig defines settings shared by every stage of a resynthesis voice.
type ProcessorConfig struct {
	SampleRate float64
	FrameSize  int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns the engine defaults: 48 kHz and 4096-sample frames.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: 48000,
		FrameSize:  4096,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if IsFinitePositive(sampleRate) {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithFrameSize sets the analysis/synthesis frame size. Sizes that are not a
// power of two of at least 16 are ignored.
func WithFrameSize(frameSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if frameSize >= 16 && IsPowerOfTwo(frameSize) {
			cfg.FrameSize = frameSize
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// HopSize returns the grain launch interval, a quarter of the frame.
func (c ProcessorConfig) HopSize() int {
	return c.FrameSize / 4
}

// Bins returns the number of usable spectral bins (FrameSize/2).
func (c ProcessorConfig) Bins() int {
	return c.FrameSize / 2
}
