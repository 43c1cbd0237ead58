package interp

// Linear2 interpolates between x0 and x1 at fraction t in [0,1].
func Linear2(t, x0, x1 float64) float64 {
	return x0 + t*(x1-x0)
}

// Hermite4 computes cubic 4-point interpolation.
// It interpolates from x0 to x1 using neighbor points xm1 and x2.
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)
	return ((c3*t+c2)*t+c1)*t + c0
}

// Lagrange4 computes the cubic Lagrange polynomial through samples at
// positions -1, 0, 1, 2 and evaluates it at t (0 <= t <= 1 between x0 and x1).
func Lagrange4(t, xm1, x0, x1, x2 float64) float64 {
	tp1 := t + 1
	tm1 := t - 1
	tm2 := t - 2
	return -xm1*t*tm1*tm2/6 +
		x0*tp1*tm1*tm2/2 -
		x1*tp1*t*tm2/2 +
		x2*tp1*t*tm1/6
}

// LagrangeNonUniform4 evaluates at x the cubic through the four points
// (xs[i], ys[i]). The abscissae must be pairwise distinct; when two
// coincide the result degrades to linear interpolation between the middle
// pair.
func LagrangeNonUniform4(x float64, xs, ys [4]float64) float64 {
	d01 := xs[0] - xs[1]
	d02 := xs[0] - xs[2]
	d03 := xs[0] - xs[3]
	d12 := xs[1] - xs[2]
	d13 := xs[1] - xs[3]
	d23 := xs[2] - xs[3]

	if d01 == 0 || d02 == 0 || d03 == 0 || d12 == 0 || d13 == 0 || d23 == 0 {
		if d12 == 0 {
			return ys[1]
		}
		return Linear2((x-xs[1])/(xs[2]-xs[1]), ys[1], ys[2])
	}

	e0 := x - xs[0]
	e1 := x - xs[1]
	e2 := x - xs[2]
	e3 := x - xs[3]

	return ys[0]*e1*e2*e3/(d01*d02*d03) -
		ys[1]*e0*e2*e3/(d01*d12*d13) +
		ys[2]*e0*e1*e3/(d02*d12*d23) -
		ys[3]*e0*e1*e2/(d03*d13*d23)
}
