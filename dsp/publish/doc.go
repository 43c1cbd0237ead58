// Package publish hands per-frame engine state from the audio thread to
// display readers.
//
// One writer publishes; any number of readers take snapshots. Every slot is
// guarded by a sequence counter and all payload words are atomics, so a
// reader either copies a complete frame or reports failure. Neither side
// ever blocks.
package publish
