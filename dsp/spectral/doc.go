// Package spectral tracks sinusoidal partials ("atoms") across analysis
// frames.
//
// Each frame, [ExtractPeaks] picks log-parabolically refined spectral peaks
// ([AnalysisAtom]) from a magnitude spectrum. [Model] merges those peaks into
// a bounded pool of persistent [Atom] values: strong atoms claim the
// strongest peak near their last frequency, unclaimed atoms decay toward
// silence, and unclaimed peaks give birth to new atoms. Atoms live in a
// generation-checked arena, so consumers holding a [buffer.Handle] can test
// membership with [Model.IsAllocated] before each use.
//
// Build with the fastmath tag to use polynomial log/exp approximations in the
// peak refinement.
package spectral
