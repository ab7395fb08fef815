// ABOUTME: Real-time session binding the pitch engine to capture and render callbacks
// ABOUTME: Handles settings snapshots, the capture bridge and the output delay line
package session

import (
	"fmt"
	"log"
	"math"
	"sync/atomic"

	"github.com/Resonate-Protocol/voicefx-go/internal/control"
	"github.com/Resonate-Protocol/voicefx-go/pkg/audio/pitch"
	"github.com/google/uuid"
)

const (
	// DefaultMaxBlockFrames bounds a single capture period
	DefaultMaxBlockFrames = 4096
	// DefaultBridgeCapacity is the number of capture blocks that may wait for render
	DefaultBridgeCapacity = 4
)

// SettingsSource is the non-blocking side of control.State
type SettingsSource interface {
	TrySnapshot() (control.Settings, bool)
}

// Config describes a session
type Config struct {
	SampleRate     int
	MaxBlockFrames int
	BridgeCapacity int
	Initial        control.Settings
}

// Stats is a point-in-time copy of the session counters
type Stats struct {
	Captured       uint64 // blocks enqueued by capture
	Rendered       uint64 // render periods completed
	Dropped        uint64 // capture blocks discarded
	Starved        uint64 // render periods with no capture block
	Stale          uint64 // render periods that reused the previous settings
	PitchFallbacks uint64 // samples processed at 1.0 because the pitch ref was unavailable
	DelayOverflows uint64 // samples discarded by a full delay line
	StreamErrors   uint64 // backend errors reported mid-stream
	DelayFill      int    // samples currently held by the delay line
}

// Option configures a Session
type Option func(*Session)

// WithEngineOptions passes options through to the pitch engine
func WithEngineOptions(opts ...pitch.Option) Option {
	return func(s *Session) {
		s.engineOpts = append(s.engineOpts, opts...)
	}
}

// Session owns one engine, bridge and delay line for a pair of running streams.
// Capture and Render may run on different goroutines; each must only be
// called from one goroutine at a time.
type Session struct {
	id       string
	cfg      Config
	settings SettingsSource

	pitchRef   *control.PitchRef
	engine     *pitch.Engine
	engineOpts []pitch.Option
	bridge     *Bridge
	delay      *DelayLine
	maxDelay   int

	last control.Settings

	captured       atomic.Uint64
	rendered       atomic.Uint64
	dropped        atomic.Uint64
	starved        atomic.Uint64
	stale          atomic.Uint64
	delayOverflows atomic.Uint64
	streamErrors   atomic.Uint64
	delayFill      atomic.Int64
}

// New creates a session reading live settings from settings
func New(cfg Config, settings SettingsSource, opts ...Option) (*Session, error) {
	if settings == nil {
		return nil, fmt.Errorf("settings source is nil")
	}
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", cfg.SampleRate)
	}
	if cfg.MaxBlockFrames <= 0 {
		cfg.MaxBlockFrames = DefaultMaxBlockFrames
	}
	if cfg.BridgeCapacity <= 0 {
		cfg.BridgeCapacity = DefaultBridgeCapacity
	}

	s := &Session{
		id:       uuid.New().String(),
		cfg:      cfg,
		settings: settings,
		last:     cfg.Initial.Normalize(),
		pitchRef: control.NewPitchRef(cfg.Initial.Pitch),
		bridge:   NewBridge(cfg.BridgeCapacity, cfg.MaxBlockFrames),
		maxDelay: cfg.SampleRate * control.MaxDelayMs / 1000,
	}
	for _, opt := range opts {
		opt(s)
	}

	engine, err := pitch.New(s.pitchRef, s.engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pitch engine: %w", err)
	}
	s.engine = engine
	s.delay = NewDelayLine(s.maxDelay + 1)

	log.Printf("[%s] session created: %dHz, max delay %d samples", s.shortID(), cfg.SampleRate, s.maxDelay)
	return s, nil
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

func (s *Session) shortID() string {
	return s.id[:8]
}

// SampleRate returns the rate the session was created for
func (s *Session) SampleRate() int {
	return s.cfg.SampleRate
}

// Capture downmixes one interleaved input period and hands it to render.
// Never blocks; the block is discarded if the bridge is full.
func (s *Session) Capture(in []float32, channels int) {
	if channels <= 0 || len(in) == 0 {
		return
	}

	blk, ok := s.bridge.Acquire()
	if !ok {
		s.dropped.Add(1)
		return
	}

	frames := min(len(in)/channels, cap(blk.Samples))
	blk.Samples = blk.Samples[:frames]
	downmix(blk.Samples, in, channels)

	if !s.bridge.Send(blk) {
		s.dropped.Add(1)
		return
	}
	s.captured.Add(1)
}

// downmix averages a stereo pair, otherwise takes the first channel
func downmix(dst, in []float32, channels int) {
	if channels == 2 {
		for i := range dst {
			dst[i] = (in[2*i] + in[2*i+1]) * 0.5
		}
		return
	}
	for i := range dst {
		dst[i] = in[i*channels]
	}
}

// Render fills one interleaved output period. Every position of out is written.
func (s *Session) Render(out []float32, channels int) {
	if channels <= 0 {
		clear(out)
		return
	}

	settings, fresh := s.settings.TrySnapshot()
	if fresh {
		s.last = settings
	} else {
		settings = s.last
		s.stale.Add(1)
	}

	delay := s.delaySamples(settings.DelayMs)
	frames := len(out) / channels

	if blk, ok := s.bridge.Receive(); ok {
		n := min(len(blk.Samples), frames)
		s.engine.Process(blk.Samples[:n], blk.Samples[:n])
		for i := 0; i < n; i++ {
			s.delay.Push(blk.Samples[i])
			writeFrame(out, i, channels, s.delay.Next(delay))
		}
		clear(out[n*channels:])
		s.bridge.Release(blk)
	} else {
		s.starved.Add(1)
		for i := 0; i < frames; i++ {
			writeFrame(out, i, channels, s.delay.Next(delay))
		}
		clear(out[frames*channels:])
	}

	if fresh {
		s.pitchRef.Store(settings.Pitch)
	}

	s.delayOverflows.Store(s.delay.Overflows())
	s.delayFill.Store(int64(s.delay.Len()))
	s.rendered.Add(1)
}

func writeFrame(out []float32, frame, channels int, x float32) {
	base := frame * channels
	for ch := 0; ch < channels; ch++ {
		out[base+ch] = x
	}
}

// delaySamples converts a delay in ms to samples at the session rate, capped at the line size
func (s *Session) delaySamples(ms float32) int {
	if !(ms > 0) {
		return 0
	}
	n := int(math.Ceil(float64(ms) * float64(s.cfg.SampleRate) / 1000))
	return min(n, s.maxDelay)
}

// ReportError records an asynchronous backend error. The stream keeps running.
func (s *Session) ReportError(err error) {
	if err == nil {
		return
	}
	s.streamErrors.Add(1)
	log.Printf("[%s] stream error: %v", s.shortID(), err)
}

// Stats returns a copy of the session counters
func (s *Session) Stats() Stats {
	return Stats{
		Captured:       s.captured.Load(),
		Rendered:       s.rendered.Load(),
		Dropped:        s.dropped.Load(),
		Starved:        s.starved.Load(),
		Stale:          s.stale.Load(),
		PitchFallbacks: s.engine.Fallbacks(),
		DelayOverflows: s.delayOverflows.Load(),
		StreamErrors:   s.streamErrors.Load(),
		DelayFill:      int(s.delayFill.Load()),
	}
}
