//go:build portaudio

// ABOUTME: PortAudio playback backend
// ABOUTME: Cross-platform callback playback using PortAudio
package output

import (
	"fmt"
	"log"

	"github.com/Resonate-Protocol/voicefx-go/pkg/audio"
	"github.com/gordonklaus/portaudio"
)

// PortAudio output implementation
type PortAudio struct {
	stream *portaudio.Stream
}

// NewPortAudio creates a new PortAudio output
func NewPortAudio() *PortAudio {
	return &PortAudio{}
}

// Open initializes PortAudio and starts the default output stream
func (p *PortAudio) Open(format audio.Format, render audio.RenderFunc, onError audio.ErrorFunc) error {
	if err := checkOpen(format, render); err != nil {
		return &audio.StreamError{Direction: audio.DirectionPlayback, Op: "configure", Err: err}
	}
	if p.stream != nil {
		return fmt.Errorf("playback device already open")
	}

	if err := portaudio.Initialize(); err != nil {
		return &audio.StreamError{Direction: audio.DirectionPlayback, Op: "init", Err: err}
	}

	if _, err := portaudio.DefaultOutputDevice(); err != nil {
		portaudio.Terminate()
		return fmt.Errorf("portaudio: %w", audio.ErrNoPlaybackDevice)
	}

	channels := format.Channels
	stream, err := portaudio.OpenDefaultStream(0, channels, float64(format.SampleRate), format.BufferSize,
		func(out []float32) {
			render(out, channels)
		})
	if err != nil {
		portaudio.Terminate()
		return &audio.StreamError{Direction: audio.DirectionPlayback, Op: "open", Err: err}
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return &audio.StreamError{Direction: audio.DirectionPlayback, Op: "start", Err: err}
	}

	p.stream = stream
	log.Printf("Audio output initialized: %s (portaudio/F32)", format)
	return nil
}

// Close releases resources
func (p *PortAudio) Close() error {
	if p.stream == nil {
		return nil
	}
	if err := p.stream.Stop(); err != nil {
		log.Printf("Warning: portaudio stop error: %v", err)
	}
	if err := p.stream.Close(); err != nil {
		log.Printf("Warning: portaudio close error: %v", err)
	}
	p.stream = nil
	return portaudio.Terminate()
}
