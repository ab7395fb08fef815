// ABOUTME: Audio type definitions
// ABOUTME: Defines stream formats, callback contracts and float32 sample conversions
package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

// Format describes the shape of a device stream
type Format struct {
	SampleRate int
	Channels   int
	BufferSize int // frames per period
}

// CaptureFunc receives one interleaved input period from a capture device.
// It runs on the device thread and must return well within one period.
type CaptureFunc func(samples []float32, channels int)

// RenderFunc fills one interleaved output period for a playback device.
// Every position of samples must be written.
type RenderFunc func(samples []float32, channels int)

// ErrorFunc receives asynchronous backend errors reported after a stream started
type ErrorFunc func(err error)

// Validate checks that the format can be used to open a stream
func (f Format) Validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate: %d", f.SampleRate)
	}
	if f.Channels <= 0 {
		return fmt.Errorf("invalid channel count: %d", f.Channels)
	}
	if f.BufferSize <= 0 {
		return fmt.Errorf("invalid buffer size: %d", f.BufferSize)
	}
	return nil
}

// Period returns the wall-clock duration of one buffer
func (f Format) Period() time.Duration {
	if f.SampleRate <= 0 {
		return 0
	}
	return time.Duration(f.BufferSize) * time.Second / time.Duration(f.SampleRate)
}

// String renders the format for logs
func (f Format) String() string {
	return fmt.Sprintf("%dHz/%dch/%d frames", f.SampleRate, f.Channels, f.BufferSize)
}

// SampleFromInt16 converts a 16-bit PCM sample to float32 in [-1, 1)
func SampleFromInt16(sample int16) float32 {
	return float32(sample) / 32768.0
}

// SampleToInt16 converts a float32 sample to 16-bit PCM with clipping
func SampleToInt16(sample float32) int16 {
	if sample >= 1 {
		return math.MaxInt16
	}
	if sample <= -1 {
		return math.MinInt16
	}
	return int16(sample * 32767.0)
}

// SampleFromInt converts a signed PCM sample of the given bit depth to float32
func SampleFromInt(sample int32, bitDepth int) float32 {
	if bitDepth <= 0 || bitDepth > 32 {
		return 0
	}
	return float32(float64(sample) / float64(int64(1)<<(bitDepth-1)))
}

// DecodeFloat32LE reads little-endian float32 samples from src into dst.
// Returns the number of samples decoded.
func DecodeFloat32LE(dst []float32, src []byte) int {
	n := min(len(dst), len(src)/4)
	for i := 0; i < n; i++ {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*4:]))
	}
	return n
}

// EncodeFloat32LE writes src into dst as little-endian float32.
// Returns the number of samples encoded.
func EncodeFloat32LE(dst []byte, src []float32) int {
	n := min(len(src), len(dst)/4)
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(src[i]))
	}
	return n
}
