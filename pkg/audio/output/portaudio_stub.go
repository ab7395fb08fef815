//go:build !portaudio

// ABOUTME: PortAudio stub when library not available
// ABOUTME: Provides compile-time placeholder when PortAudio not installed
package output

import (
	"fmt"

	"github.com/Resonate-Protocol/voicefx-go/pkg/audio"
)

var errPortAudioDisabled = fmt.Errorf("PortAudio support not enabled (build with -tags portaudio)")

// PortAudio output implementation (stub)
type PortAudio struct{}

// NewPortAudio creates a new PortAudio output
func NewPortAudio() *PortAudio {
	return &PortAudio{}
}

// Open always fails without the portaudio build tag
func (p *PortAudio) Open(format audio.Format, render audio.RenderFunc, onError audio.ErrorFunc) error {
	return &audio.StreamError{Direction: audio.DirectionPlayback, Op: "init", Err: errPortAudioDisabled}
}

// Close is a no-op
func (p *PortAudio) Close() error {
	return nil
}
