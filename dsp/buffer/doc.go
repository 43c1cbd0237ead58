// Package buffer provides fixed-capacity slot storage for real-time DSP.
//
// [Arena] hands out generation-checked [Handle] values instead of pointers.
// A handle that outlives its slot is detected by [Arena.IsAllocated] even
// after the slot has been reused, so consumers may hold handles across
// frames and re-validate before each use. Arenas never grow after
// construction.
package buffer
