// Package delay provides circular sample delays.
//
// [Line] is a fixed delay indexed backwards from the write head.
// [MovableWriter] is written at an externally driven warped time that may
// stall or run backwards; it reconstructs the inverse mapping from warped
// time to physical time so that reads can be addressed in warped time.
package delay
