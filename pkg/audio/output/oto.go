// ABOUTME: Oto-based playback backend
// ABOUTME: The oto player pulls bytes from a reader that invokes the render callback
package output

import (
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"

	"github.com/Resonate-Protocol/voicefx-go/pkg/audio"
	"github.com/ebitengine/oto/v3"
)

const float32Size = 4

// oto allows a single context per process, so it is shared by every Oto output
var (
	otoMu      sync.Mutex
	otoCtx     *oto.Context
	otoRate    int
	otoChannel int
)

// Oto output implementation using oto library
type Oto struct {
	mu     sync.Mutex
	player *oto.Player
	reader *renderReader
}

// NewOto creates a new Oto output
func NewOto() *Oto {
	return &Oto{}
}

// Open starts a player pulling from render
func (o *Oto) Open(format audio.Format, render audio.RenderFunc, onError audio.ErrorFunc) error {
	if err := checkOpen(format, render); err != nil {
		return &audio.StreamError{Direction: audio.DirectionPlayback, Op: "configure", Err: err}
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player != nil {
		return fmt.Errorf("playback device already open")
	}

	ctx, err := sharedContext(format)
	if err != nil {
		return &audio.StreamError{Direction: audio.DirectionPlayback, Op: "init context", Err: err}
	}

	o.reader = newRenderReader(render, format.Channels, format.BufferSize)
	o.player = ctx.NewPlayer(o.reader)
	o.player.SetBufferSize(format.BufferSize * format.Channels * float32Size)
	o.player.Play()

	if err := ctx.Err(); err != nil {
		reportError(onError, &audio.StreamError{Direction: audio.DirectionPlayback, Op: "run", Err: err})
	}

	log.Printf("Audio output initialized: %s (oto/F32)", format)
	return nil
}

// sharedContext creates the process-wide oto context or resumes the existing
// one. A running context cannot change its format.
func sharedContext(format audio.Format) (*oto.Context, error) {
	otoMu.Lock()
	defer otoMu.Unlock()

	if otoCtx != nil {
		if otoRate != format.SampleRate || otoChannel != format.Channels {
			return nil, fmt.Errorf("oto context already running at %dHz/%dch, cannot switch to %dHz/%dch",
				otoRate, otoChannel, format.SampleRate, format.Channels)
		}
		if err := otoCtx.Resume(); err != nil {
			return nil, fmt.Errorf("failed to resume oto context: %w", err)
		}
		return otoCtx, nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   format.SampleRate,
		ChannelCount: format.Channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   format.Period(),
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-readyChan

	otoCtx = ctx
	otoRate = format.SampleRate
	otoChannel = format.Channels
	return ctx, nil
}

// Close stops the player and suspends the shared context
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.reader != nil {
		o.reader.close()
	}
	if o.player != nil {
		if err := o.player.Close(); err != nil {
			log.Printf("Warning: oto player close error: %v", err)
		}
		o.player = nil
	}

	otoMu.Lock()
	defer otoMu.Unlock()
	if otoCtx != nil {
		if err := otoCtx.Suspend(); err != nil {
			return fmt.Errorf("failed to suspend oto context: %w", err)
		}
	}
	return nil
}

// renderReader adapts a RenderFunc to the io.Reader oto pulls from
type renderReader struct {
	render   audio.RenderFunc
	channels int
	scratch  []float32
	closed   atomic.Bool
}

func newRenderReader(render audio.RenderFunc, channels, frames int) *renderReader {
	return &renderReader{
		render:   render,
		channels: channels,
		scratch:  make([]float32, frames*channels),
	}
}

func (r *renderReader) Read(p []byte) (int, error) {
	if r.closed.Load() {
		return 0, io.EOF
	}

	frameBytes := r.channels * float32Size
	frames := len(p) / frameBytes
	if frames == 0 {
		clear(p)
		return len(p), nil
	}

	n := frames * r.channels
	if cap(r.scratch) < n {
		r.scratch = make([]float32, n)
	}
	samples := r.scratch[:n]

	r.render(samples, r.channels)
	return audio.EncodeFloat32LE(p, samples) * float32Size, nil
}

func (r *renderReader) close() {
	r.closed.Store(true)
}
