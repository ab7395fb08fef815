// ABOUTME: Audio supervisor orchestrating devices and the real-time session
// ABOUTME: Opens streams, polls for shutdown and restarts on format changes
package app

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Resonate-Protocol/voicefx-go/internal/control"
	"github.com/Resonate-Protocol/voicefx-go/internal/session"
	"github.com/Resonate-Protocol/voicefx-go/pkg/audio"
	"github.com/Resonate-Protocol/voicefx-go/pkg/audio/input"
	"github.com/Resonate-Protocol/voicefx-go/pkg/audio/output"
	"github.com/Resonate-Protocol/voicefx-go/pkg/audio/pitch"
)

const (
	// DefaultPollInterval is how often the supervisor checks for shutdown and setting changes
	DefaultPollInterval = 50 * time.Millisecond

	// DefaultChannels is the interleaved channel count of both streams
	DefaultChannels = 2

	diagnosticsInterval = time.Second
)

// Config holds supervisor configuration
type Config struct {
	Input          input.Config
	Output         string
	Channels       int
	BridgeCapacity int
	MaxBlockFrames int
	Engine         []pitch.Option
}

// InputFactory builds a capture source
type InputFactory func(cfg input.Config) (input.Input, error)

// OutputFactory builds a playback backend
type OutputFactory func(backend string) (output.Output, error)

// Option configures an App
type Option func(*App)

// WithInputFactory replaces the capture source constructor
func WithInputFactory(f InputFactory) Option {
	return func(a *App) { a.newInput = f }
}

// WithOutputFactory replaces the playback backend constructor
func WithOutputFactory(f OutputFactory) Option {
	return func(a *App) { a.newOutput = f }
}

// WithPollInterval sets how often shutdown and settings are checked
func WithPollInterval(d time.Duration) Option {
	return func(a *App) { a.pollInterval = d }
}

// App owns the running streams and the session between them
type App struct {
	config       Config
	state        *control.State
	shutdown     *atomic.Bool
	newInput     InputFactory
	newOutput    OutputFactory
	pollInterval time.Duration

	mu      sync.Mutex
	sess    *session.Session
	in      input.Input
	out     output.Output
	running audio.Format
	active  bool

	lastStats  session.Stats
	lastReport time.Time
}

// New creates a supervisor reading settings from state and stopping once shutdown is set
func New(config Config, state *control.State, shutdown *atomic.Bool, opts ...Option) *App {
	if config.Channels <= 0 {
		config.Channels = DefaultChannels
	}

	a := &App{
		config:       config,
		state:        state,
		shutdown:     shutdown,
		newInput:     input.New,
		newOutput:    output.New,
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run opens the streams and supervises them until shutdown is set.
// Startup failures are returned; the streams are closed before Run returns.
func (a *App) Run() error {
	if err := a.start(a.state.Snapshot()); err != nil {
		return err
	}
	defer a.stop()

	ticker := time.NewTicker(a.pollInterval)
	defer ticker.Stop()

	for range ticker.C {
		if a.shutdown.Load() {
			log.Printf("Shutdown requested, closing audio streams")
			return nil
		}

		settings := a.state.Snapshot()
		if a.needsRestart(settings) {
			log.Printf("Stream format changed to %s / %d frames, restarting audio", settings.SampleRate, settings.BufferSize)
			a.stop()
			if err := a.start(settings); err != nil {
				return fmt.Errorf("restart failed: %w", err)
			}
		}

		a.reportDiagnostics(time.Now())
	}
	return nil
}

// start opens output then input for settings. On failure nothing is left open.
func (a *App) start(settings control.Settings) error {
	format := audio.Format{
		SampleRate: settings.SampleRate.Hz(),
		Channels:   a.config.Channels,
		BufferSize: settings.BufferSize,
	}

	sess, err := session.New(session.Config{
		SampleRate:     format.SampleRate,
		MaxBlockFrames: max(a.config.MaxBlockFrames, format.BufferSize),
		BridgeCapacity: a.config.BridgeCapacity,
		Initial:        settings,
	}, a.state, session.WithEngineOptions(a.config.Engine...))
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	out, err := a.newOutput(a.config.Output)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if err := out.Open(format, sess.Render, sess.ReportError); err != nil {
		return fmt.Errorf("failed to open output: %w", err)
	}

	in, err := a.newInput(a.config.Input)
	if err != nil {
		closeLogged("output", out)
		return fmt.Errorf("failed to create input: %w", err)
	}
	if err := in.Open(format, sess.Capture, sess.ReportError); err != nil {
		closeLogged("output", out)
		return fmt.Errorf("failed to open input: %w", err)
	}

	a.mu.Lock()
	a.sess = sess
	a.in = in
	a.out = out
	a.running = format
	a.active = true
	a.lastStats = session.Stats{}
	a.mu.Unlock()

	log.Printf("[%s] Audio running: %s", sess.ID()[:8], format)
	return nil
}

// stop closes input before output so capture stops feeding a closed session
func (a *App) stop() {
	a.mu.Lock()
	in, out := a.in, a.out
	a.in, a.out = nil, nil
	a.active = false
	a.mu.Unlock()

	if in != nil {
		closeLogged("input", in)
	}
	if out != nil {
		closeLogged("output", out)
	}
}

func closeLogged(name string, c interface{ Close() error }) {
	if err := c.Close(); err != nil {
		log.Printf("Warning: %s close error: %v", name, err)
	}
}

func (a *App) needsRestart(settings control.Settings) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return settings.SampleRate.Hz() != a.running.SampleRate || settings.BufferSize != a.running.BufferSize
}

// reportDiagnostics logs counter growth at most once per interval
func (a *App) reportDiagnostics(now time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.sess == nil || now.Sub(a.lastReport) < diagnosticsInterval {
		return
	}
	a.lastReport = now

	cur := a.sess.Stats()
	prev := a.lastStats
	a.lastStats = cur

	if cur.Dropped == prev.Dropped && cur.Starved == prev.Starved && cur.Stale == prev.Stale &&
		cur.PitchFallbacks == prev.PitchFallbacks && cur.DelayOverflows == prev.DelayOverflows {
		return
	}

	log.Printf("[%s] Diagnostics: dropped +%d, starved +%d, stale +%d, pitch fallbacks +%d, delay overflows +%d",
		a.sess.ID()[:8],
		cur.Dropped-prev.Dropped,
		cur.Starved-prev.Starved,
		cur.Stale-prev.Stale,
		cur.PitchFallbacks-prev.PitchFallbacks,
		cur.DelayOverflows-prev.DelayOverflows)
}

// Session returns the current session, or nil before the first start
func (a *App) Session() *session.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sess
}

// Running returns the format of the open streams. ok is false while stopped.
func (a *App) Running() (audio.Format, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running, a.active
}
