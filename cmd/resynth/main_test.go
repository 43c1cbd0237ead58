package main

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-resynth/dsp/granular"
	"github.com/cwbudde/algo-resynth/dsp/resynth"
)

func TestParseShifts(t *testing.T) {
	shifts, err := parseShifts("1/1, 3/2:0.5,2")
	if err != nil {
		t.Fatalf("parseShifts() error = %v", err)
	}
	want := [resynth.MaxShifts]resynth.Shift{
		{Ratio: resynth.Ratio{Num: 1, Den: 1}, Weight: 1},
		{Ratio: resynth.Ratio{Num: 3, Den: 2}, Weight: 0.5},
		{Ratio: resynth.Ratio{Num: 2, Den: 1}, Weight: 1},
	}
	if shifts != want {
		t.Fatalf("got %+v want %+v", shifts, want)
	}

	for _, bad := range []string{"", "1/0", "a/2", "1/1:x", "1/1,1/1,1/1,1/1"} {
		if _, err := parseShifts(bad); err == nil {
			t.Fatalf("parseShifts(%q) expected error", bad)
		}
	}
}

func TestWarpClockScrubs(t *testing.T) {
	c := warpClock{speed: 0.5, period: 8, reverse: 2}
	want := []float64{0, 0.5, 1, 1.5, 2, 2.5, 3, 2.5, 2, 2.5}
	for i, w := range want {
		if got := c.next(); got != w {
			t.Fatalf("step %d: got %v want %v", i, got, w)
		}
	}
}

func TestWAVRoundTrip(t *testing.T) {
	in := &clip{sampleRate: 44100, channels: [][]float64{
		{0, 0.5, -0.5, 0.25},
		{1, -1, 0, 0.125},
	}}
	path := filepath.Join(t.TempDir(), "clip.wav")
	if err := writeWAV(path, in); err != nil {
		t.Fatalf("writeWAV() error = %v", err)
	}

	got, err := decodeFile(path)
	if err != nil {
		t.Fatalf("decodeFile() error = %v", err)
	}
	if got.sampleRate != 44100 || len(got.channels) != 2 || got.frames() != 4 {
		t.Fatalf("got rate=%d channels=%d frames=%d", got.sampleRate, len(got.channels), got.frames())
	}
	for ch := range in.channels {
		for i, v := range in.channels[ch] {
			if math.Abs(got.channels[ch][i]-v) > 1.0/16384 {
				t.Fatalf("ch %d sample %d: got %v want %v", ch, i, got.channels[ch][i], v)
			}
		}
	}
}

func TestDecodeFileRejectsUnknownExtension(t *testing.T) {
	if _, err := decodeFile(filepath.Join(t.TempDir(), "clip.flac")); err == nil {
		t.Fatal("expected error")
	}
}

func TestRenderMono(t *testing.T) {
	const frameSize = 256

	samples := make([]float64, 4*frameSize)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*8*float64(i)/frameSize)
	}
	in := &clip{sampleRate: 48000, channels: [][]float64{samples}}

	cfg := renderConfig{
		frameSize: frameSize,
		maxGrains: 8,
		seed:      1,
		params:    granular.DefaultParams(frameSize),
		speed:     1,
	}
	trace := newSpectrumTrace(frameSize)
	rendered := 0

	out, err := render(in, cfg, trace, func(n int) { rendered += n })
	if err != nil {
		t.Fatalf("render() error = %v", err)
	}
	if out.frames() != len(samples)+frameSize {
		t.Fatalf("frames=%d want %d", out.frames(), len(samples)+frameSize)
	}
	if rendered != out.frames() {
		t.Fatalf("progress reported %d samples, want %d", rendered, out.frames())
	}
	for i, v := range out.channels[0] {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("sample %d not finite", i)
		}
	}
	if trace.peak[8] < 0.1 {
		t.Fatalf("traced peak at bin 8 = %v", trace.peak[8])
	}
	if trace.snaps[8] == 0 {
		t.Fatal("center copy never snapped to the tone")
	}

	if err := writeChart(filepath.Join(t.TempDir(), "chart.html"), trace, 48000); err != nil {
		t.Fatalf("writeChart() error = %v", err)
	}
}
