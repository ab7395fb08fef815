// ABOUTME: Audio file decoding for the file capture source
// ABOUTME: Provides looping MP3 and FLAC readers producing float32 samples
// Package decode reads compressed audio files as interleaved float32 samples.
//
// Supports: MP3 (go-mp3), FLAC (mewkiz/flac)
//
// Readers loop back to the start of the file at EOF so a file can stand in
// for a live microphone indefinitely.
//
// Example:
//
//	r, err := decode.Open("voice.flac")
//	n, err := r.Read(samples)
package decode
