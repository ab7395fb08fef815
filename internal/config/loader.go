// ABOUTME: YAML configuration loading and validation
// ABOUTME: Decodes onto defaults with strict field checking and joins all validation errors
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/Resonate-Protocol/voicefx-go/pkg/audio/output"
	"gopkg.in/yaml.v3"
)

// ValidOutputBackends lists the playback backends accepted in output.backend
var ValidOutputBackends = []string{output.BackendMalgo, output.BackendOto, output.BackendPortAudio}

// Load reads the YAML configuration file at path and returns a validated [Config].
// It is a convenience wrapper around [LoadFromReader] and [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r on top of [Default] and validates
// the result. An empty document yields the defaults.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if err := cfg.Settings.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("config: settings: %w", err))
	}

	if err := cfg.Input.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("config: input: %w", err))
	}

	if !slices.Contains(ValidOutputBackends, cfg.Output.Backend) {
		errs = append(errs, fmt.Errorf("config: output.backend %q is invalid; valid values: %v", cfg.Output.Backend, ValidOutputBackends))
	}

	if cfg.Engine.BufferLength < 4 {
		errs = append(errs, fmt.Errorf("config: engine.buffer_length %d must be at least 4", cfg.Engine.BufferLength))
	}
	if cfg.Engine.CrossfadeOffset < 0 {
		errs = append(errs, fmt.Errorf("config: engine.crossfade_offset %d must not be negative", cfg.Engine.CrossfadeOffset))
	}

	if cfg.Session.BridgeCapacity < 1 {
		errs = append(errs, fmt.Errorf("config: session.bridge_capacity %d must be at least 1", cfg.Session.BridgeCapacity))
	}
	if cfg.Session.MaxBlockFrames < cfg.Settings.BufferSize {
		errs = append(errs, fmt.Errorf("config: session.max_block_frames %d is smaller than settings.buffer_size %d",
			cfg.Session.MaxBlockFrames, cfg.Settings.BufferSize))
	}

	return errors.Join(errs...)
}
