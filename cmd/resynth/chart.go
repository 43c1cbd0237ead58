package main

import (
	"fmt"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/cwbudde/algo-resynth/dsp/publish"
)

const chartFloorDB = -120.0

func toDB(v float64) float64 {
	if v <= 0 {
		return chartFloorDB
	}
	return max(20*math.Log10(v), chartFloorDB)
}

// writeChart renders the traced atom spectrum and the frequency response
// of the last published grain population to an HTML page.
func writeChart(path string, trace *spectrumTrace, sampleRate int) error {
	bins := len(trace.peak)
	labels := make([]string, bins)
	atoms := make([]opts.LineData, bins)
	snaps := make([]opts.LineData, bins)
	freqs := make([]float64, bins)
	for k := range bins {
		freqs[k] = float64(k) / float64(trace.frameSize)
		labels[k] = fmt.Sprintf("%.0f", freqs[k]*float64(sampleRate))
		atoms[k] = opts.LineData{Value: toDB(trace.peak[k])}
		snaps[k] = opts.LineData{Value: trace.snaps[k]}
	}

	response := make([]float64, bins)
	publish.FrequencyResponse(response, trace.grains, freqs)
	grains := make([]opts.LineData, bins)
	for k, v := range response {
		grains[k] = opts.LineData{Value: toDB(v)}
	}

	spectrum := charts.NewLine()
	spectrum.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{Title: "Tracked atoms", Subtitle: "peak magnitude per bin [dB]"}),
	)
	spectrum.SetXAxis(labels).
		AddSeries("atoms", atoms).
		AddSeries("copy snaps", snaps).
		SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: false}))

	comb := charts.NewLine()
	comb.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Grain population",
			Subtitle: fmt.Sprintf("%d live grains [dB]", len(trace.grains)),
		}),
	)
	comb.SetXAxis(labels).
		AddSeries("response", grains).
		SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: false}))

	page := components.NewPage()
	page.AddCharts(spectrum, comb)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := page.Render(f); err != nil {
		f.Close()
		return fmt.Errorf("chart: %w", err)
	}
	return f.Close()
}
