package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-resynth/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(44100),
		core.WithFrameSize(1024),
	)

	fmt.Printf("sampleRate=%.0f frame=%d hop=%d\n", cfg.SampleRate, cfg.FrameSize, cfg.HopSize())

	// Output:
	// sampleRate=44100 frame=1024 hop=256
}
