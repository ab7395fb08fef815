// ABOUTME: Sine tone capture source
// ABOUTME: Lets the effect chain run without a microphone
package input

import (
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/Resonate-Protocol/voicefx-go/pkg/audio"
)

const toneAmplitude = 0.5

// Tone generates a continuous sine wave at a fixed frequency
type Tone struct {
	mu        sync.Mutex
	frequency float64
	phase     float64
	step      float64
	channels  int
	pacer     *pacer
}

// NewTone creates a tone source at hz
func NewTone(hz float64) *Tone {
	return &Tone{frequency: hz}
}

// Open starts generating periods at the format's rate
func (t *Tone) Open(format audio.Format, onData audio.CaptureFunc, onError audio.ErrorFunc) error {
	if err := checkOpen(format, onData); err != nil {
		return &audio.StreamError{Direction: audio.DirectionCapture, Op: "configure", Err: err}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.pacer != nil {
		return fmt.Errorf("tone source already open")
	}

	t.prepare(format)
	t.pacer = startPacer(format, t.fill, onData, onError)

	log.Printf("Audio input initialized: %s (%.1f Hz tone)", format, t.frequency)
	return nil
}

func (t *Tone) prepare(format audio.Format) {
	t.phase = 0
	t.step = 2 * math.Pi * t.frequency / float64(format.SampleRate)
	t.channels = format.Channels
}

// fill writes the next interleaved period, the same value on every channel
func (t *Tone) fill(buf []float32) error {
	for i := 0; i+t.channels <= len(buf); i += t.channels {
		v := float32(toneAmplitude * math.Sin(t.phase))
		for c := 0; c < t.channels; c++ {
			buf[i+c] = v
		}
		t.phase += t.step
		if t.phase >= 2*math.Pi {
			t.phase -= 2 * math.Pi
		}
	}
	return nil
}

// Close stops the generator
func (t *Tone) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.pacer.halt()
	t.pacer = nil
	return nil
}
