// ABOUTME: Startup configuration types and defaults
// ABOUTME: YAML schema for effect settings, audio backends and engine tuning
package config

import (
	"github.com/Resonate-Protocol/voicefx-go/internal/control"
	"github.com/Resonate-Protocol/voicefx-go/internal/session"
	"github.com/Resonate-Protocol/voicefx-go/pkg/audio/input"
	"github.com/Resonate-Protocol/voicefx-go/pkg/audio/output"
	"github.com/Resonate-Protocol/voicefx-go/pkg/audio/pitch"
)

// Config is the root of the YAML configuration file
type Config struct {
	Settings control.Settings `yaml:"settings"`
	Input    input.Config     `yaml:"input"`
	Output   OutputConfig     `yaml:"output"`
	Engine   EngineConfig     `yaml:"engine"`
	Session  SessionConfig    `yaml:"session"`
	LogFile  string           `yaml:"log_file"`
}

// OutputConfig selects the playback backend
type OutputConfig struct {
	Backend string `yaml:"backend"`
}

// EngineConfig tunes the pitch engine
type EngineConfig struct {
	BufferLength    int `yaml:"buffer_length"`
	CrossfadeOffset int `yaml:"crossfade_offset"`
}

// SessionConfig tunes the capture-to-render hand-off
type SessionConfig struct {
	BridgeCapacity int `yaml:"bridge_capacity"`
	MaxBlockFrames int `yaml:"max_block_frames"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Settings: control.DefaultSettings(),
		Input:    input.Config{Backend: input.BackendMalgo, ToneHz: input.DefaultToneHz},
		Output:   OutputConfig{Backend: output.BackendMalgo},
		Engine: EngineConfig{
			BufferLength:    pitch.DefaultBufferLength,
			CrossfadeOffset: pitch.DefaultCrossfadeOffset,
		},
		Session: SessionConfig{
			BridgeCapacity: session.DefaultBridgeCapacity,
			MaxBlockFrames: session.DefaultMaxBlockFrames,
		},
		LogFile: "voicefx.log",
	}
}

// EngineOptions converts the engine section to pitch engine options
func (c *Config) EngineOptions() []pitch.Option {
	return []pitch.Option{
		pitch.WithBufferLength(c.Engine.BufferLength),
		pitch.WithCrossfadeOffset(c.Engine.CrossfadeOffset),
	}
}
