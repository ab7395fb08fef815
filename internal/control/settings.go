// ABOUTME: User-adjustable effect settings
// ABOUTME: Sample rate enumeration, defaults, validation and normalisation
package control

import (
	"errors"
	"fmt"
	"math"
)

const (
	// MinPitch is the lowest pitch ratio
	MinPitch = 0.5
	// MaxPitch is the highest pitch ratio
	MaxPitch = 2.0

	// MinBufferSize is the smallest device period in frames
	MinBufferSize = 64
	// MaxBufferSize is the largest device period in frames
	MaxBufferSize = 2048

	// MaxDelayMs is the longest output delay
	MaxDelayMs = 100

	// DefaultBufferSize is the device period used when nothing is configured
	DefaultBufferSize = 256
)

// SampleRate is one of the supported device rates
type SampleRate int

const (
	Rate22050 SampleRate = 22050
	Rate44100 SampleRate = 44100
	Rate48000 SampleRate = 48000
	Rate96000 SampleRate = 96000
)

// SampleRates lists the supported rates in ascending order
var SampleRates = []SampleRate{Rate22050, Rate44100, Rate48000, Rate96000}

// Hz returns the rate as a plain integer
func (r SampleRate) Hz() int {
	return int(r)
}

// Valid reports whether r is a supported rate
func (r SampleRate) Valid() bool {
	return r.index() >= 0
}

func (r SampleRate) String() string {
	return fmt.Sprintf("%d Hz", int(r))
}

func (r SampleRate) index() int {
	for i, rate := range SampleRates {
		if rate == r {
			return i
		}
	}
	return -1
}

// Next returns the next higher supported rate, or r itself at the top
func (r SampleRate) Next() SampleRate {
	i := r.nearest().index()
	if i < len(SampleRates)-1 {
		i++
	}
	return SampleRates[i]
}

// Prev returns the next lower supported rate, or r itself at the bottom
func (r SampleRate) Prev() SampleRate {
	i := r.nearest().index()
	if i > 0 {
		i--
	}
	return SampleRates[i]
}

// nearest maps any integer onto the closest supported rate
func (r SampleRate) nearest() SampleRate {
	best := SampleRates[0]
	for _, rate := range SampleRates[1:] {
		if absInt(int(rate)-int(r)) < absInt(int(best)-int(r)) {
			best = rate
		}
	}
	return best
}

// ParseSampleRate converts a rate in Hz to a SampleRate
func ParseSampleRate(hz int) (SampleRate, error) {
	r := SampleRate(hz)
	if !r.Valid() {
		return 0, fmt.Errorf("unsupported sample rate %d (want one of %v)", hz, SampleRates)
	}
	return r, nil
}

// Settings is the record shared between the control surface and the audio path.
// It is always replaced whole.
type Settings struct {
	Pitch      float32    `yaml:"pitch"`
	SampleRate SampleRate `yaml:"sample_rate"`
	BufferSize int        `yaml:"buffer_size"`
	DelayMs    float32    `yaml:"delay_ms"`
}

// DefaultSettings returns pitch 1.0 at 44.1kHz, 256 frames, no delay
func DefaultSettings() Settings {
	return Settings{
		Pitch:      1.0,
		SampleRate: Rate44100,
		BufferSize: DefaultBufferSize,
		DelayMs:    0,
	}
}

// Validate reports every out-of-range field
func (s Settings) Validate() error {
	var errs []error

	if isNaN(s.Pitch) || s.Pitch < MinPitch || s.Pitch > MaxPitch {
		errs = append(errs, fmt.Errorf("pitch %v outside [%v, %v]", s.Pitch, MinPitch, MaxPitch))
	}
	if !s.SampleRate.Valid() {
		errs = append(errs, fmt.Errorf("unsupported sample rate %d", int(s.SampleRate)))
	}
	if s.BufferSize < MinBufferSize || s.BufferSize > MaxBufferSize {
		errs = append(errs, fmt.Errorf("buffer size %d outside [%d, %d]", s.BufferSize, MinBufferSize, MaxBufferSize))
	}
	if isNaN(s.DelayMs) || s.DelayMs < 0 || s.DelayMs > MaxDelayMs {
		errs = append(errs, fmt.Errorf("delay %vms outside [0, %d]", s.DelayMs, MaxDelayMs))
	}

	return errors.Join(errs...)
}

// Normalize returns a copy with every field forced into range
func (s Settings) Normalize() Settings {
	s.Pitch = ClampPitch(s.Pitch)
	if !s.SampleRate.Valid() {
		s.SampleRate = s.SampleRate.nearest()
	}
	s.BufferSize = min(max(s.BufferSize, MinBufferSize), MaxBufferSize)
	switch {
	case isNaN(s.DelayMs) || s.DelayMs < 0:
		s.DelayMs = 0
	case s.DelayMs > MaxDelayMs:
		s.DelayMs = MaxDelayMs
	}
	return s
}

// ClampPitch limits a ratio to [MinPitch, MaxPitch]; NaN becomes 1.0
func ClampPitch(p float32) float32 {
	switch {
	case isNaN(p):
		return 1.0
	case p < MinPitch:
		return MinPitch
	case p > MaxPitch:
		return MaxPitch
	}
	return p
}

func isNaN(f float32) bool {
	return math.IsNaN(float64(f))
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
