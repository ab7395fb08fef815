// ABOUTME: Real-time pitch shifting package
// ABOUTME: Dual ring-buffer crossfading pitch shifter with tone shaping stages
// Package pitch implements a sample-by-sample pitch shifter for live voice.
//
// The Engine writes low-passed input into two ring buffers and reads them back
// at a fractional rate set by the pitch ratio. The two read taps sit at
// different offsets and are blended by a sine crossfade so that whichever tap
// is passing the write cursor is faded out. The blend is then DC-blocked,
// soft-knee compressed and mixed with some of the dry signal.
//
// The engine never allocates or blocks after construction. The pitch ratio
// comes from a Source on every sample and is clamped to [MinRatio, MaxRatio].
//
// Example:
//
//	ref := control.NewPitchRef(1.5)
//	eng, err := pitch.New(ref)
//	n := eng.Process(in, out)
package pitch
