// Package interp provides interpolation primitives used by the warped delay
// buffer and grain placement.
//
// Available methods:
//
//   - [Linear2]:             2-point linear interpolation
//   - [Hermite4]:            4-point cubic Hermite on a uniform grid (default read kernel)
//   - [Lagrange4]:           4-point cubic Lagrange on a uniform grid
//   - [LagrangeNonUniform4]: 4-point cubic Lagrange through arbitrary abscissae,
//     used to invert a sampled warped-time clock
package interp
