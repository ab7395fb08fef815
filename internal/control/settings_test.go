// ABOUTME: Tests for settings validation, normalisation and sample rate cycling
// ABOUTME: Table-driven checks of every range boundary
package control

import (
	"math"
	"strings"
	"testing"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.Pitch != 1.0 || s.SampleRate != Rate44100 || s.BufferSize != 256 || s.DelayMs != 0 {
		t.Errorf("unexpected defaults: %+v", s)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{"valid", func(s *Settings) {}, ""},
		{"pitch high", func(s *Settings) { s.Pitch = 2.5 }, "pitch"},
		{"pitch low", func(s *Settings) { s.Pitch = 0.25 }, "pitch"},
		{"pitch nan", func(s *Settings) { s.Pitch = float32(math.NaN()) }, "pitch"},
		{"rate", func(s *Settings) { s.SampleRate = 16000 }, "sample rate"},
		{"buffer small", func(s *Settings) { s.BufferSize = 32 }, "buffer size"},
		{"buffer large", func(s *Settings) { s.BufferSize = 4096 }, "buffer size"},
		{"delay negative", func(s *Settings) { s.DelayMs = -1 }, "delay"},
		{"delay large", func(s *Settings) { s.DelayMs = 150 }, "delay"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			err := s.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSettingsValidateJoinsErrors(t *testing.T) {
	s := Settings{Pitch: 9, SampleRate: 1, BufferSize: 1, DelayMs: 500}
	err := s.Validate()
	if err == nil {
		t.Fatal("expected error")
	}

	for _, want := range []string{"pitch", "sample rate", "buffer size", "delay"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected joined error to mention %q: %v", want, err)
		}
	}
}

func TestSettingsNormalize(t *testing.T) {
	in := Settings{Pitch: 5, SampleRate: 47000, BufferSize: 10, DelayMs: 250}
	got := in.Normalize()

	want := Settings{Pitch: 2, SampleRate: Rate48000, BufferSize: 64, DelayMs: 100}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("normalised settings should validate: %v", err)
	}

	low := Settings{Pitch: 0.1, SampleRate: 8000, BufferSize: 100000, DelayMs: -3}.Normalize()
	if low.Pitch != 0.5 || low.SampleRate != Rate22050 || low.BufferSize != 2048 || low.DelayMs != 0 {
		t.Errorf("unexpected lower clamp: %+v", low)
	}
}

func TestClampPitch(t *testing.T) {
	tests := []struct {
		in, want float32
	}{
		{5.0, 2.0},
		{0.1, 0.5},
		{1.5, 1.5},
		{float32(math.NaN()), 1.0},
	}

	for _, tt := range tests {
		if got := ClampPitch(tt.in); got != tt.want {
			t.Errorf("ClampPitch(%v): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestSampleRateCycling(t *testing.T) {
	tests := []struct {
		rate       SampleRate
		next, prev SampleRate
	}{
		{Rate22050, Rate44100, Rate22050},
		{Rate44100, Rate48000, Rate22050},
		{Rate48000, Rate96000, Rate44100},
		{Rate96000, Rate96000, Rate48000},
	}

	for _, tt := range tests {
		t.Run(tt.rate.String(), func(t *testing.T) {
			if got := tt.rate.Next(); got != tt.next {
				t.Errorf("Next: expected %v, got %v", tt.next, got)
			}
			if got := tt.rate.Prev(); got != tt.prev {
				t.Errorf("Prev: expected %v, got %v", tt.prev, got)
			}
		})
	}
}

func TestParseSampleRate(t *testing.T) {
	for _, rate := range SampleRates {
		got, err := ParseSampleRate(rate.Hz())
		if err != nil {
			t.Errorf("ParseSampleRate(%d): %v", rate.Hz(), err)
		}
		if got != rate {
			t.Errorf("expected %v, got %v", rate, got)
		}
	}

	if _, err := ParseSampleRate(11025); err == nil {
		t.Error("expected error for unsupported rate")
	}
}

func TestSampleRateString(t *testing.T) {
	if got := Rate48000.String(); got != "48000 Hz" {
		t.Errorf("unexpected string: %q", got)
	}
}
