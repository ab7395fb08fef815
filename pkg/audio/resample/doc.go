// ABOUTME: Audio resampling package using linear interpolation
// ABOUTME: Converts file audio to the session sample rate
// Package resample provides audio sample rate conversion.
//
// Uses linear interpolation for converting between sample rates.
// Handles both upsampling and downsampling of interleaved float32 blocks.
//
// Example:
//
//	r, err := resample.New(44100, 48000, 2)
//	out := make([]float32, r.MaxOutput(len(in)))
//	n := r.Resample(in, out)
package resample
