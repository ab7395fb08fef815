// ABOUTME: Malgo-based playback backend
// ABOUTME: Pulls float32 periods from the render callback inside the miniaudio data callback
package output

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/Resonate-Protocol/voicefx-go/pkg/audio"
	"github.com/Resonate-Protocol/voicefx-go/pkg/audio/device"
	"github.com/gen2brain/malgo"
)

// Malgo output implementation using malgo/miniaudio library
type Malgo struct {
	mu       sync.Mutex
	malgoCtx *malgo.AllocatedContext
	device   *malgo.Device

	format  audio.Format
	render  audio.RenderFunc
	onError audio.ErrorFunc
	closing atomic.Bool

	// grown only when the device delivers a larger period than requested
	scratch []float32
}

// NewMalgo creates a new Malgo output
func NewMalgo() *Malgo {
	return &Malgo{}
}

// Open initializes and starts the default playback device
func (m *Malgo) Open(format audio.Format, render audio.RenderFunc, onError audio.ErrorFunc) error {
	if err := checkOpen(format, render); err != nil {
		return &audio.StreamError{Direction: audio.DirectionPlayback, Op: "configure", Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device != nil {
		return fmt.Errorf("playback device already open")
	}

	ctx, err := device.InitContext()
	if err != nil {
		return &audio.StreamError{Direction: audio.DirectionPlayback, Op: "init context", Err: err}
	}

	count, err := device.Count(ctx, malgo.Playback)
	if err != nil {
		device.FreeContext(ctx)
		return &audio.StreamError{Direction: audio.DirectionPlayback, Op: "enumerate", Err: err}
	}
	if count == 0 {
		device.FreeContext(ctx)
		return fmt.Errorf("malgo: %w", audio.ErrNoPlaybackDevice)
	}

	m.format = format
	m.render = render
	m.onError = onError
	m.scratch = make([]float32, format.BufferSize*format.Channels*2)
	m.closing.Store(false)

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatF32
	deviceConfig.Playback.Channels = uint32(format.Channels)
	deviceConfig.SampleRate = uint32(format.SampleRate)
	deviceConfig.PeriodSizeInFrames = uint32(format.BufferSize)
	deviceConfig.Alsa.NoMMap = 1

	deviceCallbacks := malgo.DeviceCallbacks{
		Data: m.dataCallback,
		Stop: m.stopCallback,
	}

	dev, err := malgo.InitDevice(ctx.Context, deviceConfig, deviceCallbacks)
	if err != nil {
		device.FreeContext(ctx)
		return &audio.StreamError{Direction: audio.DirectionPlayback, Op: "init device", Err: err}
	}

	if err := dev.Start(); err != nil {
		dev.Uninit()
		device.FreeContext(ctx)
		return &audio.StreamError{Direction: audio.DirectionPlayback, Op: "start", Err: err}
	}

	m.malgoCtx = ctx
	m.device = dev

	log.Printf("Audio output initialized: %s (malgo/F32)", format)
	return nil
}

// dataCallback is called by malgo to fill the audio output buffer
func (m *Malgo) dataCallback(pOutput, _ []byte, frameCount uint32) {
	n := int(frameCount) * m.format.Channels
	if cap(m.scratch) < n {
		m.scratch = make([]float32, n)
	}
	samples := m.scratch[:n]

	m.render(samples, m.format.Channels)
	audio.EncodeFloat32LE(pOutput, samples)
}

// stopCallback fires when the device stops, including on device loss
func (m *Malgo) stopCallback() {
	if m.closing.Load() {
		return
	}
	reportError(m.onError, &audio.StreamError{
		Direction: audio.DirectionPlayback,
		Op:        "run",
		Err:       audio.ErrDeviceStopped,
	})
}

// Close releases output resources
func (m *Malgo) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closing.Store(true)

	if m.device != nil {
		if err := m.device.Stop(); err != nil {
			log.Printf("Warning: device stop error: %v", err)
		}
		m.device.Uninit()
		m.device = nil
	}

	device.FreeContext(m.malgoCtx)
	m.malgoCtx = nil
	return nil
}
