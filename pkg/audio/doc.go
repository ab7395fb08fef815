// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format, callback contracts, stream errors and sample conversions
// Package audio provides the types shared by capture and playback backends.
//
// This package defines:
//   - Format: sample rate, channel count and period size of a device stream
//   - CaptureFunc / RenderFunc: the per-period callback contracts
//   - StreamError and the missing-device sentinels
//
// Samples are float32 throughout, nominally in [-1, 1]. Conversion helpers
// cover 16-bit PCM, arbitrary-depth integer PCM and little-endian float32
// byte buffers as delivered by device callbacks.
//
// Example:
//
//	format := audio.Format{
//	    SampleRate: 44100,
//	    Channels:   2,
//	    BufferSize: 256,
//	}
//	period := format.Period() // ~5.8ms
package audio
