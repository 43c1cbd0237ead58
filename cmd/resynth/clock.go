package main

// warpClock drives the write head. It advances speed warped units per
// sample and, when scrubbing is enabled, runs backwards for the last
// reverse samples of every period.
type warpClock struct {
	speed   float64
	period  int
	reverse int

	n int
	w float64
}

func (c *warpClock) next() float64 {
	w := c.w
	step := c.speed
	if c.period > 0 && c.reverse > 0 && c.n%c.period >= c.period-c.reverse {
		step = -c.speed
	}
	c.w += step
	c.n++
	return w
}
