// Package resynth turns analyzed frames into pitch-shifted grains.
//
// [PVDR] assigns every spectral bin of a frame to a phase-continuity forest:
// strong bins become roots whose phase advances at their measured
// instantaneous frequency, and weaker neighbors inherit their root's phase
// plus the analyzed phase difference. [Resynthesizer] uses that forest to
// render up to three rationally shifted copies of the spectrum, each with an
// optional detuned unison pair, into a [Grain] that plays out under a
// synthesis window.
package resynth
