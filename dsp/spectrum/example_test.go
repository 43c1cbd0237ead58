package spectrum_test

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-resynth/dsp/spectrum"
	"github.com/cwbudde/algo-resynth/dsp/window"
)

func ExampleMagnitude() {
	bins := []complex128{1 + 0i, 0 + 1i, -1 + 0i}
	mag := spectrum.Magnitude(bins)
	fmt.Printf("%.1f %.1f %.1f\n", mag[0], mag[1], mag[2])
	// Output:
	// 1.0 1.0 1.0
}

func ExampleAnalyzer_Forward() {
	a, err := spectrum.NewAnalyzer(64, window.TypeHann)
	if err != nil {
		fmt.Println(err)
		return
	}

	frame := make([]float64, 64)
	for i := range frame {
		frame[i] = math.Cos(2 * math.Pi * 8 * float64(i) / 64)
	}

	spec := make([]complex128, a.Bins())
	_ = a.Forward(spec, frame)
	fmt.Printf("%.3f %.3f %.3f\n", cmplx.Abs(spec[7]), cmplx.Abs(spec[8]), cmplx.Abs(spec[9]))
	// Output:
	// 0.125 0.250 0.125
}
