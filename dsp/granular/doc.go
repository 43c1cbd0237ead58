// Package granular schedules resynthesized grains over a warped-time delay
// buffer.
//
// A [GrainManager] launches one grain every hop (a quarter frame), analyzing
// the delay history around the read head, and overlap-adds the live grains.
// A [Voice] bundles the writer, the manager and the published display state
// for one channel.
package granular
