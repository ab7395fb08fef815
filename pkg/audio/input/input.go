// ABOUTME: Audio input interface definition
// ABOUTME: Common interface for callback-driven capture sources
package input

import (
	"fmt"

	"github.com/Resonate-Protocol/voicefx-go/pkg/audio"
)

// Backend names accepted by New
const (
	BackendMalgo = "malgo"
	BackendFile  = "file"
	BackendTone  = "tone"
)

// DefaultToneHz is the frequency of the tone source when none is configured
const DefaultToneHz = 440.0

// Input represents a capture source that pushes periods to a callback
type Input interface {
	// Open starts capture; onData is invoked once per period
	Open(format audio.Format, onData audio.CaptureFunc, onError audio.ErrorFunc) error

	// Close stops capture and releases resources
	Close() error
}

// Config selects and parameterises a capture source
type Config struct {
	Backend string  `yaml:"backend"`
	File    string  `yaml:"file"`
	ToneHz  float64 `yaml:"tone_hz"`
}

// Validate checks that the selected backend has what it needs
func (c Config) Validate() error {
	switch c.Backend {
	case BackendMalgo, "":
		return nil
	case BackendFile:
		if c.File == "" {
			return fmt.Errorf("file input requires a file path")
		}
		return nil
	case BackendTone:
		if c.ToneHz < 0 {
			return fmt.Errorf("tone frequency must be positive: %v", c.ToneHz)
		}
		return nil
	default:
		return fmt.Errorf("unknown input backend %q (supported: %s, %s, %s)",
			c.Backend, BackendMalgo, BackendFile, BackendTone)
	}
}

// New creates the configured capture source
func New(cfg Config) (Input, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case BackendFile:
		return NewFile(cfg.File), nil
	case BackendTone:
		hz := cfg.ToneHz
		if hz == 0 {
			hz = DefaultToneHz
		}
		return NewTone(hz), nil
	default:
		return NewMalgo(), nil
	}
}

func checkOpen(format audio.Format, onData audio.CaptureFunc) error {
	if onData == nil {
		return fmt.Errorf("capture callback is nil")
	}
	return format.Validate()
}

func reportError(onError audio.ErrorFunc, err error) {
	if onError != nil {
		onError(err)
	}
}
