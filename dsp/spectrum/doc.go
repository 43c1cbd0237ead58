// Package spectrum provides the real-frame FFT front end shared by the
// spectral model and the resynthesizer, plus magnitude and phase helpers.
//
// Spectra are half spectra of FrameSize/2 bins (DC up to, but excluding,
// Nyquist) scaled by 1/FrameSize, so a windowed sinusoid of amplitude A
// centered on a bin reads as A times the window's coherent gain over two.
package spectrum
