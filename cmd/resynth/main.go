// Command resynth renders an audio file through the granular resynthesis
// engine.
//
// Every channel is written into a warped-time delay buffer and played back
// through phase-vocoder grains with up to three rational pitch shifts and
// an optional unison pair.
//
// Usage:
//
//	resynth [flags] input output.wav
//
// Examples:
//
//	resynth -shift 3/2 in.wav out.wav
//	resynth -shift 1/1,2/1:0.5 -unison 0.6 -detune 1.01 in.mp3 out.wav
//	resynth -scrub 2 -reverse 0.25 -chart atoms.html in.ogg out.wav
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/cwbudde/algo-resynth/dsp/core"
	"github.com/cwbudde/algo-resynth/dsp/granular"
	"github.com/cwbudde/algo-resynth/dsp/resynth"
	"github.com/cwbudde/algo-resynth/dsp/spectral"
)

func main() {
	frameSize := flag.Int("frame", 4096, "analysis and grain length in samples (power of two)")
	shift := flag.String("shift", "1/1", "comma-separated shift ratios num/den[:weight], at most 3")
	unison := flag.Float64("unison", 0, "unison gain in [0, 1.2247]")
	detune := flag.Float64("detune", 1.005, "unison side ratio (>= 1)")
	atoms := flag.Int("atoms", 64, "maximum tracked atoms")
	threshold := flag.Float64("threshold", 1e-3, "spectral peak gain threshold")
	attack := flag.Float64("attack", 0, "atom attack time constant in frames (0 = instant)")
	release := flag.Float64("release", 0, "atom release time constant in frames (0 = instant)")
	launch := flag.Float64("launch", 0.5, "grain launch gain slew toward 1 per launch, in (0,1]")
	speed := flag.Float64("speed", 1, "write clock speed in warped units per sample")
	lag := flag.Float64("lag", 0, "read head distance behind the write head in warped units")
	offset := flag.Float64("offset", 0, "analysis window offset behind the read head in samples")
	scrub := flag.Float64("scrub", 0, "scrub period in seconds (0 disables)")
	reverse := flag.Float64("reverse", 0.25, "fraction of each scrub period spent running backwards")
	grains := flag.Int("grains", 8, "maximum live grains per channel")
	seed := flag.Int64("seed", 1, "phase generator seed")
	chart := flag.String("chart", "", "write an HTML atom spectrum chart to this path")
	quiet := flag.Bool("quiet", false, "suppress progress output")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: resynth [flags] input output.wav\n\n")
		fmt.Fprintf(os.Stderr, "Renders wav, aiff, mp3 or ogg input through the granular resynthesizer.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}

	in, err := decodeFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s: %v\n", flag.Arg(0), err)
		os.Exit(1)
	}

	proc := core.ApplyProcessorOptions(
		core.WithSampleRate(float64(in.sampleRate)),
		core.WithFrameSize(*frameSize),
	)
	if proc.FrameSize != *frameSize {
		fmt.Fprintf(os.Stderr, "error: frame size must be a power of two >= 16: %d\n", *frameSize)
		os.Exit(2)
	}

	shifts, err := parseShifts(*shift)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	params := granular.DefaultParams(proc.FrameSize)
	params.Shifts = shifts
	params.Unison = resynth.Unison{Detune: *detune, Gain: *unison}
	params.Spectral.NumAtoms = *atoms
	params.Spectral.GainThreshold = *threshold
	params.Spectral.SlewUpAlpha = spectral.AlphaFromFrames(*attack)
	params.Spectral.SlewDownAlpha = spectral.AlphaFromFrames(*release)
	params.LaunchSlewUp = *launch
	params.SampleOffset = *offset
	if err := params.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	cfg := renderConfig{
		frameSize: proc.FrameSize,
		maxGrains: *grains,
		seed:      *seed,
		params:    params,
		lag:       *lag,
		speed:     *speed,
	}
	if *scrub > 0 {
		cfg.period = int(*scrub * proc.SampleRate)
		cfg.reverse = int(*reverse * float64(cfg.period))
	}

	if !*quiet {
		fmt.Fprintf(os.Stderr, "%24s   %d\n", "Channels:", len(in.channels))
		fmt.Fprintf(os.Stderr, "%24s   %d\n", "Sample Rate:", in.sampleRate)
		fmt.Fprintf(os.Stderr, "%24s   %d (hop %d)\n", "Frame Size:", proc.FrameSize, proc.HopSize())
		fmt.Fprintf(os.Stderr, "%24s   %.2f Hz\n", "Bin Width:", proc.SampleRate/float64(proc.FrameSize))
		fmt.Fprintf(os.Stderr, "%24s   %.2f s\n", "Duration:", float64(in.frames())/proc.SampleRate)
	}

	var progress func(int)
	if !*quiet {
		total := (in.frames() + proc.FrameSize) * len(in.channels)
		bar := progressbar.NewOptions(
			total,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetDescription("rendering..."),
			progressbar.OptionFullWidth(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]=[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		)
		progress = func(n int) { _ = bar.Add(n) }
	}

	var trace *spectrumTrace
	if *chart != "" {
		trace = newSpectrumTrace(proc.FrameSize)
	}

	out, err := render(in, cfg, trace, progress)
	if !*quiet {
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := writeWAV(flag.Arg(1), out); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s: %v\n", flag.Arg(1), err)
		os.Exit(1)
	}

	if trace != nil {
		if err := writeChart(*chart, trace, in.sampleRate); err != nil {
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", *chart, err)
			os.Exit(1)
		}
	}
}
