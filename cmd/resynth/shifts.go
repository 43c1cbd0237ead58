package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-resynth/dsp/resynth"
)

// parseShifts parses a comma-separated list of num/den[:weight] entries,
// e.g. "1/1,3/2:0.5". Missing weights default to 1.
func parseShifts(s string) ([resynth.MaxShifts]resynth.Shift, error) {
	var shifts [resynth.MaxShifts]resynth.Shift

	fields := strings.Split(s, ",")
	if len(fields) > resynth.MaxShifts {
		return shifts, fmt.Errorf("at most %d shifts: %q", resynth.MaxShifts, s)
	}

	for i, field := range fields {
		field = strings.TrimSpace(field)
		ratio, weight, hasWeight := strings.Cut(field, ":")

		num, den, ok := strings.Cut(ratio, "/")
		if !ok {
			den = "1"
		}
		n, err := strconv.Atoi(strings.TrimSpace(num))
		if err != nil {
			return shifts, fmt.Errorf("shift %q: %w", field, err)
		}
		d, err := strconv.Atoi(strings.TrimSpace(den))
		if err != nil {
			return shifts, fmt.Errorf("shift %q: %w", field, err)
		}

		w := 1.0
		if hasWeight {
			w, err = strconv.ParseFloat(strings.TrimSpace(weight), 64)
			if err != nil {
				return shifts, fmt.Errorf("shift %q: %w", field, err)
			}
		}

		shifts[i] = resynth.Shift{Ratio: resynth.Ratio{Num: n, Den: d}, Weight: w}
		if err := shifts[i].Ratio.Validate(); err != nil {
			return shifts, fmt.Errorf("shift %q: %w", field, err)
		}
	}

	return shifts, nil
}
