// ABOUTME: Wall-clock pacing for synthetic capture sources
// ABOUTME: Invokes the capture callback once per period from a ticker goroutine
package input

import (
	"sync"
	"time"

	"github.com/Resonate-Protocol/voicefx-go/pkg/audio"
)

// pacer emulates a capture device clock
type pacer struct {
	stop chan struct{}
	wg   sync.WaitGroup
}

// startPacer calls fill then onData every format.Period(). A fill error is
// reported and the period is delivered as silence.
func startPacer(format audio.Format, fill func([]float32) error, onData audio.CaptureFunc, onError audio.ErrorFunc) *pacer {
	p := &pacer{stop: make(chan struct{})}
	buf := make([]float32, format.BufferSize*format.Channels)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ticker := time.NewTicker(format.Period())
		defer ticker.Stop()

		for {
			select {
			case <-p.stop:
				return
			case <-ticker.C:
				if err := fill(buf); err != nil {
					clear(buf)
					reportError(onError, &audio.StreamError{Direction: audio.DirectionCapture, Op: "read", Err: err})
				}
				onData(buf, format.Channels)
			}
		}
	}()

	return p
}

// halt stops the goroutine and waits for an in-flight period to finish
func (p *pacer) halt() {
	if p == nil {
		return
	}
	close(p.stop)
	p.wg.Wait()
}
