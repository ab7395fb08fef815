// ABOUTME: Audio output interface definition
// ABOUTME: Common interface for callback-driven playback backends
package output

import (
	"fmt"

	"github.com/Resonate-Protocol/voicefx-go/pkg/audio"
)

// Backend names accepted by New
const (
	BackendMalgo     = "malgo"
	BackendOto       = "oto"
	BackendPortAudio = "portaudio"
)

// Output represents an audio playback device driven by a render callback
type Output interface {
	// Open starts playback; render is invoked once per device period
	Open(format audio.Format, render audio.RenderFunc, onError audio.ErrorFunc) error

	// Close stops playback and releases device resources
	Close() error
}

// New creates the named playback backend
func New(backend string) (Output, error) {
	switch backend {
	case BackendMalgo, "":
		return NewMalgo(), nil
	case BackendOto:
		return NewOto(), nil
	case BackendPortAudio:
		return NewPortAudio(), nil
	default:
		return nil, fmt.Errorf("unknown output backend %q (supported: %s, %s, %s)",
			backend, BackendMalgo, BackendOto, BackendPortAudio)
	}
}

func checkOpen(format audio.Format, render audio.RenderFunc) error {
	if render == nil {
		return fmt.Errorf("render callback is nil")
	}
	return format.Validate()
}

// reportError forwards err to onError when one was supplied
func reportError(onError audio.ErrorFunc, err error) {
	if onError != nil {
		onError(err)
	}
}
