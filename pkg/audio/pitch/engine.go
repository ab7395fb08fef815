// ABOUTME: Pitch shift engine
// ABOUTME: Dual offset-read ring buffers with sine crossfade, filtering and compression
package pitch

import (
	"fmt"
	"math"
	"sync/atomic"
)

const (
	// MinRatio is the lowest accepted pitch ratio
	MinRatio = 0.5
	// MaxRatio is the highest accepted pitch ratio
	MaxRatio = 2.0

	// DefaultBufferLength is the capacity of each ring buffer in samples
	DefaultBufferLength = 128
	// DefaultCrossfadeOffset is the requested initial distance of tap B from tap A
	DefaultCrossfadeOffset = 1024

	minBufferLength = 4

	smoothing     = 0.01
	crossfadeStep = 0.005
	wetMix        = 0.8
	twoPi         = 2 * math.Pi
)

// Source supplies the live pitch ratio.
// ok is false when no value can be read without blocking.
type Source interface {
	LoadPitch() (ratio float32, ok bool)
}

// Engine transforms a mono stream one sample at a time.
// It is not safe for concurrent use; only Fallbacks may be read from another goroutine.
type Engine struct {
	src Source

	ringA []float32
	ringB []float32
	write int
	readA float32
	readB float32
	phase float32

	lowpass LowPass2
	dc      DCBlocker
	comp    SoftKnee

	current float32
	target  float32

	offset    int
	fallbacks atomic.Uint64
}

// Option configures an Engine
type Option func(*Engine)

// WithBufferLength sets the ring buffer capacity (minimum 4)
func WithBufferLength(n int) Option {
	return func(e *Engine) {
		e.ringA = make([]float32, n)
		e.ringB = make([]float32, n)
	}
}

// WithCrossfadeOffset sets the requested initial offset of tap B in samples
func WithCrossfadeOffset(samples int) Option {
	return func(e *Engine) {
		e.offset = samples
	}
}

// New creates an engine reading its pitch ratio from src
func New(src Source, opts ...Option) (*Engine, error) {
	if src == nil {
		return nil, fmt.Errorf("pitch source is nil")
	}

	e := &Engine{
		src:    src,
		ringA:  make([]float32, DefaultBufferLength),
		ringB:  make([]float32, DefaultBufferLength),
		comp:   DefaultSoftKnee(),
		offset: DefaultCrossfadeOffset,
	}
	for _, opt := range opts {
		opt(e)
	}

	if len(e.ringA) < minBufferLength {
		return nil, fmt.Errorf("ring buffer length must be >= %d: %d", minBufferLength, len(e.ringA))
	}

	e.Reset()
	return e, nil
}

// Reset clears all signal state and returns the pitch to 1.0
func (e *Engine) Reset() {
	clear(e.ringA)
	clear(e.ringB)
	e.write = 0
	e.readA = 0
	e.readB = tapOffset(e.offset, len(e.ringA))
	e.phase = 0
	e.lowpass.Reset()
	e.dc.Reset()
	e.current = 1
	e.target = 1
}

// tapOffset reduces the requested offset modulo the ring length. An offset
// that lands on tap A (a multiple of the length) would make both taps read
// the same cell, so it moves to the opposite side of the ring instead.
func tapOffset(offset, length int) float32 {
	o := offset % length
	if o < 0 {
		o += length
	}
	if o == 0 {
		o = length / 2
	}
	return float32(o)
}

// Process runs the engine over min(len(in), len(out)) samples and zero-fills
// the rest of out. in and out may be the same slice. Returns the processed count.
func (e *Engine) Process(in, out []float32) int {
	n := min(len(in), len(out))
	for i := 0; i < n; i++ {
		out[i] = e.Tick(in[i])
	}
	clear(out[n:])
	return n
}

// Tick processes a single sample
func (e *Engine) Tick(x float32) float32 {
	e.target = e.loadTarget()
	e.current += (e.target - e.current) * smoothing

	filtered := e.lowpass.Process(x)
	e.ringA[e.write] = filtered
	e.ringB[e.write] = filtered
	e.write++
	if e.write == len(e.ringA) {
		e.write = 0
	}

	// taps advance faster than the write cursor when the ratio is above 1
	step := e.current
	e.readA = wrapCursor(e.readA+step, len(e.ringA))
	e.readB = wrapCursor(e.readB+step, len(e.ringB))

	a := readCubic(e.ringA, e.readA)
	b := readCubic(e.ringB, e.readB)

	w := (float32(math.Sin(float64(e.phase))) + 1) * 0.5
	blended := a*(1-w) + b*w

	e.phase += crossfadeStep
	if e.phase >= twoPi {
		e.phase -= twoPi
	}

	y := e.dc.Process(blended)
	y = e.comp.Process(y)

	return y*wetMix + filtered*(1-wetMix)
}

// loadTarget reads and clamps the source ratio, substituting 1.0 when the
// source cannot be read.
func (e *Engine) loadTarget() float32 {
	ratio, ok := e.src.LoadPitch()
	if !ok {
		e.fallbacks.Add(1)
		return 1
	}
	return ClampRatio(ratio)
}

// ClampRatio limits a pitch ratio to [MinRatio, MaxRatio]. NaN maps to 1.0.
func ClampRatio(ratio float32) float32 {
	switch {
	case math.IsNaN(float64(ratio)):
		return 1
	case ratio < MinRatio:
		return MinRatio
	case ratio > MaxRatio:
		return MaxRatio
	}
	return ratio
}

// TargetPitch returns the clamped ratio read on the last sample
func (e *Engine) TargetPitch() float32 {
	return e.target
}

// CurrentPitch returns the smoothed ratio in use
func (e *Engine) CurrentPitch() float32 {
	return e.current
}

// Fallbacks returns how many samples used 1.0 because the source was unavailable
func (e *Engine) Fallbacks() uint64 {
	return e.fallbacks.Load()
}

// BufferLength returns the ring buffer capacity
func (e *Engine) BufferLength() int {
	return len(e.ringA)
}
