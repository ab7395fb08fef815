// ABOUTME: Malgo-based capture backend
// ABOUTME: Converts miniaudio float32 input periods and hands them to the capture callback
package input

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/Resonate-Protocol/voicefx-go/pkg/audio"
	"github.com/Resonate-Protocol/voicefx-go/pkg/audio/device"
	"github.com/gen2brain/malgo"
)

// Malgo captures from the default input device
type Malgo struct {
	mu       sync.Mutex
	malgoCtx *malgo.AllocatedContext
	device   *malgo.Device

	channels int
	onData   audio.CaptureFunc
	onError  audio.ErrorFunc
	closing  atomic.Bool

	scratch []float32
}

// NewMalgo creates a new Malgo capture source
func NewMalgo() *Malgo {
	return &Malgo{}
}

// Open initializes and starts the default capture device
func (m *Malgo) Open(format audio.Format, onData audio.CaptureFunc, onError audio.ErrorFunc) error {
	if err := checkOpen(format, onData); err != nil {
		return &audio.StreamError{Direction: audio.DirectionCapture, Op: "configure", Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device != nil {
		return fmt.Errorf("capture device already open")
	}

	ctx, err := device.InitContext()
	if err != nil {
		return &audio.StreamError{Direction: audio.DirectionCapture, Op: "init context", Err: err}
	}

	count, err := device.Count(ctx, malgo.Capture)
	if err != nil {
		device.FreeContext(ctx)
		return &audio.StreamError{Direction: audio.DirectionCapture, Op: "enumerate", Err: err}
	}
	if count == 0 {
		device.FreeContext(ctx)
		return fmt.Errorf("malgo: %w", audio.ErrNoCaptureDevice)
	}

	m.channels = format.Channels
	m.onData = onData
	m.onError = onError
	m.scratch = make([]float32, format.BufferSize*format.Channels*2)
	m.closing.Store(false)

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatF32
	deviceConfig.Capture.Channels = uint32(format.Channels)
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
		return &audio.StreamError{Direction: audio.DirectionCapture, Op: "init device", Err: err}
	}

	if err := dev.Start(); err != nil {
		dev.Uninit()
		device.FreeContext(ctx)
		return &audio.StreamError{Direction: audio.DirectionCapture, Op: "start", Err: err}
	}

	m.malgoCtx = ctx
	m.device = dev

	log.Printf("Audio input initialized: %s (malgo/F32)", format)
	return nil
}

func (m *Malgo) dataCallback(_, pInput []byte, frameCount uint32) {
	n := int(frameCount) * m.channels
	if cap(m.scratch) < n {
		m.scratch = make([]float32, n)
	}
	samples := m.scratch[:n]

	n = audio.DecodeFloat32LE(samples, pInput)
	m.onData(samples[:n], m.channels)
}

func (m *Malgo) stopCallback() {
	if m.closing.Load() {
		return
	}
	reportError(m.onError, &audio.StreamError{
		Direction: audio.DirectionCapture,
		Op:        "run",
		Err:       audio.ErrDeviceStopped,
	})
}

// Close stops the device and releases the context
func (m *Malgo) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closing.Store(true)

	if m.device != nil {
		if err := m.device.Stop(); err != nil {
			log.Printf("Warning: capture device stop error: %v", err)
		}
		m.device.Uninit()
		m.device = nil
	}

	device.FreeContext(m.malgoCtx)
	m.malgoCtx = nil
	return nil
}
