// ABOUTME: Tests for the linear resampler
// ABOUTME: Output counts, interpolation values and block continuity
package resample

import (
	"math"
	"testing"
)

func ramp(frames, channels int) []float32 {
	out := make([]float32, frames*channels)
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			out[i*channels+c] = float32(i + 1)
		}
	}
	return out
}

func TestNewRejectsInvalidArguments(t *testing.T) {
	if _, err := New(0, 48000, 2); err == nil {
		t.Error("expected error for zero input rate")
	}
	if _, err := New(44100, -1, 2); err == nil {
		t.Error("expected error for negative output rate")
	}
	if _, err := New(44100, 48000, 0); err == nil {
		t.Error("expected error for zero channels")
	}
}

func TestResampleFrameCounts(t *testing.T) {
	tests := []struct {
		name       string
		in, out    int
		channels   int
		frames     int
		wantFrames int
	}{
		{"identity", 44100, 44100, 2, 100, 100},
		{"upsample 2x", 22050, 44100, 1, 100, 200},
		{"downsample 2x", 96000, 48000, 2, 100, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(tt.in, tt.out, tt.channels)
			if err != nil {
				t.Fatal(err)
			}
			input := ramp(tt.frames, tt.channels)
			output := make([]float32, r.MaxOutput(len(input)))

			n := r.Resample(input, output)
			if n != tt.wantFrames*tt.channels {
				t.Errorf("expected %d samples, got %d", tt.wantFrames*tt.channels, n)
			}
		})
	}
}

func TestResampleInterpolates(t *testing.T) {
	r, _ := New(22050, 44100, 1)
	output := make([]float32, 16)

	n := r.Resample([]float32{2, 4, 6}, output)
	want := []float32{0, 1, 2, 3, 4, 5}
	if n != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), n)
	}
	for i := range want {
		if math.Abs(float64(output[i]-want[i])) > 1e-6 {
			t.Errorf("sample %d: expected %v, got %v", i, want[i], output[i])
		}
	}
}

func TestResampleContinuesAcrossBlocks(t *testing.T) {
	whole, _ := New(44100, 48000, 2)
	split, _ := New(44100, 48000, 2)

	input := ramp(440, 2)
	a := make([]float32, whole.MaxOutput(len(input)))
	na := whole.Resample(input, a)

	b := make([]float32, 0, na)
	for start := 0; start < len(input); start += 2 * 110 {
		chunk := input[start : start+2*110]
		buf := make([]float32, split.MaxOutput(len(chunk)))
		n := split.Resample(chunk, buf)
		b = append(b, buf[:n]...)
	}

	if len(b) != na {
		t.Fatalf("expected %d samples from split blocks, got %d", na, len(b))
	}
	for i := range b {
		if math.Abs(float64(a[i]-b[i])) > 1e-3 {
			t.Fatalf("sample %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestRatioAndReset(t *testing.T) {
	r, _ := New(24000, 48000, 1)
	if r.Ratio() != 2 {
		t.Errorf("expected ratio 2, got %v", r.Ratio())
	}

	out := make([]float32, 8)
	r.Resample([]float32{1, 1}, out)
	r.Reset()

	n := r.Resample([]float32{1}, out)
	if n == 0 || out[0] != 0 {
		t.Errorf("expected reset to start again from silence, got %v", out[:n])
	}
}
