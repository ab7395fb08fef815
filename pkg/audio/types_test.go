// ABOUTME: Tests for audio types
// ABOUTME: Tests format validation and sample conversion functions
package audio

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestFormatValidate(t *testing.T) {
	tests := []struct {
		name    string
		format  Format
		wantErr bool
	}{
		{"valid", Format{SampleRate: 44100, Channels: 2, BufferSize: 256}, false},
		{"zero rate", Format{SampleRate: 0, Channels: 2, BufferSize: 256}, true},
		{"zero channels", Format{SampleRate: 44100, Channels: 0, BufferSize: 256}, true},
		{"zero buffer", Format{SampleRate: 44100, Channels: 2, BufferSize: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.format.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("expected error=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestFormatPeriod(t *testing.T) {
	f := Format{SampleRate: 48000, Channels: 2, BufferSize: 480}
	if f.Period() != 10*time.Millisecond {
		t.Errorf("expected 10ms, got %v", f.Period())
	}

	if (Format{}).Period() != 0 {
		t.Error("expected zero period for empty format")
	}
}

func TestSampleFromInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    int16
		expected float32
	}{
		{"zero", 0, 0},
		{"half", 16384, 0.5},
		{"negative half", -16384, -0.5},
		{"min", -32768, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleFromInt16(tt.input)
			if result != tt.expected {
				t.Errorf("expected %f, got %f", tt.expected, result)
			}
		})
	}
}

func TestSampleToInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    float32
		expected int16
	}{
		{"zero", 0, 0},
		{"clip high", 1.5, 32767},
		{"clip low", -1.5, -32768},
		{"half", 0.5, 16383},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleToInt16(tt.input)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestSampleFromInt(t *testing.T) {
	if got := SampleFromInt(1<<23, 24); got != 1 {
		t.Errorf("expected 1.0 for full-scale 24-bit, got %f", got)
	}
	if got := SampleFromInt(-1<<15, 16); got != -1 {
		t.Errorf("expected -1.0 for 16-bit min, got %f", got)
	}
	if got := SampleFromInt(100, 0); got != 0 {
		t.Errorf("expected 0 for invalid bit depth, got %f", got)
	}
}

func TestFloat32LERoundTrip(t *testing.T) {
	src := []float32{0, 0.25, -0.75, 1, float32(math.Pi)}
	buf := make([]byte, len(src)*4)

	if n := EncodeFloat32LE(buf, src); n != len(src) {
		t.Fatalf("expected %d encoded, got %d", len(src), n)
	}

	dst := make([]float32, len(src))
	if n := DecodeFloat32LE(dst, buf); n != len(src) {
		t.Fatalf("expected %d decoded, got %d", len(src), n)
	}

	for i := range src {
		if dst[i] != src[i] {
			t.Errorf("sample %d: expected %f, got %f", i, src[i], dst[i])
		}
	}
}

func TestDecodeFloat32LEShortBuffer(t *testing.T) {
	dst := make([]float32, 4)
	if n := DecodeFloat32LE(dst, make([]byte, 6)); n != 1 {
		t.Errorf("expected 1 sample from 6 bytes, got %d", n)
	}
}

func TestStreamErrorUnwrap(t *testing.T) {
	err := &StreamError{Direction: DirectionCapture, Op: "init", Err: ErrNoCaptureDevice}

	if !errors.Is(err, ErrNoCaptureDevice) {
		t.Error("expected StreamError to unwrap to ErrNoCaptureDevice")
	}

	want := "capture stream init failed: no input device available"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}
