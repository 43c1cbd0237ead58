package core

import "testing"

func TestApplyProcessorOptions(t *testing.T) {
	cfg := ApplyProcessorOptions(WithSampleRate(96000), WithFrameSize(2048))
	if cfg.SampleRate != 96000 {
		t.Fatalf("sample rate = %v, want 96000", cfg.SampleRate)
	}
	if cfg.FrameSize != 2048 {
		t.Fatalf("frame size = %d, want 2048", cfg.FrameSize)
	}
	if cfg.HopSize() != 512 || cfg.Bins() != 1024 {
		t.Fatalf("hop/bins = %d/%d, want 512/1024", cfg.HopSize(), cfg.Bins())
	}
}

func TestInvalidOptionsIgnored(t *testing.T) {
	cfg := ApplyProcessorOptions(WithSampleRate(0), WithFrameSize(1000), WithFrameSize(8))
	def := DefaultProcessorConfig()
	if cfg != def {
		t.Fatalf("cfg = %#v, want %#v", cfg, def)
	}
}
