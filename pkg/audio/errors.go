// ABOUTME: Audio stream error taxonomy
// ABOUTME: Sentinel errors for missing devices and a typed stream construction error
package audio

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCaptureDevice is returned when no input device can be found
	ErrNoCaptureDevice = errors.New("no input device available")

	// ErrNoPlaybackDevice is returned when no output device can be found
	ErrNoPlaybackDevice = errors.New("no output device available")

	// ErrDeviceStopped is reported when a backend stops a running stream on its own
	ErrDeviceStopped = errors.New("device stopped unexpectedly")
)

// Stream directions used in StreamError
const (
	DirectionCapture  = "capture"
	DirectionPlayback = "playback"
)

// StreamError describes a failure while building or running a device stream
type StreamError struct {
	Direction string // capture or playback
	Op        string // init, start, run
	Err       error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("%s stream %s failed: %v", e.Direction, e.Op, e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}
