// ABOUTME: Headless benchmark for the voice effect session
// ABOUTME: Feeds a tone or file source through a session and times each render period
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"slices"
	"time"

	"github.com/Resonate-Protocol/voicefx-go/internal/control"
	"github.com/Resonate-Protocol/voicefx-go/internal/session"
	"github.com/Resonate-Protocol/voicefx-go/internal/version"
	"github.com/Resonate-Protocol/voicefx-go/pkg/audio"
	"github.com/Resonate-Protocol/voicefx-go/pkg/audio/input"
)

var (
	pitchRatio = flag.Float64("pitch", 1.5, "Pitch ratio (0.5 - 2.0)")
	sampleRate = flag.Int("rate", 48000, "Sample rate in Hz")
	bufferSize = flag.Int("buffer", control.DefaultBufferSize, "Period size in frames")
	delayMs    = flag.Float64("delay", 20, "Output delay in milliseconds")
	duration   = flag.Duration("duration", 5*time.Second, "How long to run")
	inputFile  = flag.String("file", "", "Audio file to use instead of a tone (mp3 or flac)")
	toneHz     = flag.Float64("tone-hz", input.DefaultToneHz, "Tone frequency when no file is given")
)

func main() {
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lmicroseconds)

	rate, err := control.ParseSampleRate(*sampleRate)
	if err != nil {
		log.Fatalf("Invalid -rate: %v", err)
	}
	settings := control.Settings{
		Pitch:      float32(*pitchRatio),
		SampleRate: rate,
		BufferSize: *bufferSize,
		DelayMs:    float32(*delayMs),
	}
	if err := settings.Validate(); err != nil {
		log.Fatalf("Invalid settings: %v", err)
	}

	fmt.Printf("=== %s %s render benchmark ===\n", version.Product, version.Version)

	state := control.NewState(settings)
	format := audio.Format{SampleRate: rate.Hz(), Channels: 2, BufferSize: settings.BufferSize}

	sess, err := session.New(session.Config{
		SampleRate:     format.SampleRate,
		MaxBlockFrames: max(session.DefaultMaxBlockFrames, format.BufferSize),
		Initial:        settings,
	}, state)
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}

	cfg := input.Config{Backend: input.BackendTone, ToneHz: *toneHz}
	if *inputFile != "" {
		cfg = input.Config{Backend: input.BackendFile, File: *inputFile}
	}
	src, err := input.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create input: %v", err)
	}
	if err := src.Open(format, sess.Capture, sess.ReportError); err != nil {
		log.Fatalf("Failed to open input: %v", err)
	}
	defer func() { _ = src.Close() }()

	timings := renderLoop(sess, format, *duration)
	report(os.Stdout, format, timings, sess.Stats())
}

// renderLoop pulls one period per tick the way a playback device would
func renderLoop(sess *session.Session, format audio.Format, d time.Duration) []time.Duration {
	out := make([]float32, format.BufferSize*format.Channels)
	timings := make([]time.Duration, 0, int(d/format.Period())+1)

	ticker := time.NewTicker(format.Period())
	defer ticker.Stop()
	deadline := time.After(d)

	for {
		select {
		case <-deadline:
			return timings
		case <-ticker.C:
			start := time.Now()
			sess.Render(out, format.Channels)
			timings = append(timings, time.Since(start))
		}
	}
}

func report(w *os.File, format audio.Format, timings []time.Duration, stats session.Stats) {
	if len(timings) == 0 {
		fmt.Fprintln(w, "No periods rendered")
		return
	}

	slices.Sort(timings)
	var total time.Duration
	for _, t := range timings {
		total += t
	}
	budget := format.Period()
	worst := timings[len(timings)-1]
	p99 := timings[len(timings)*99/100]
	mean := total / time.Duration(len(timings))

	fmt.Fprintf(w, "Format:    %s (budget %v/period)\n", format, budget)
	fmt.Fprintf(w, "Periods:   %d\n", len(timings))
	fmt.Fprintf(w, "Render:    mean %v, p99 %v, max %v\n", mean, p99, worst)
	fmt.Fprintf(w, "Load:      %.2f%% of budget (max %.2f%%)\n",
		100*float64(mean)/float64(budget), 100*float64(worst)/float64(budget))
	fmt.Fprintf(w, "Session:   captured %d, rendered %d, dropped %d, starved %d, stale %d\n",
		stats.Captured, stats.Rendered, stats.Dropped, stats.Starved, stats.Stale)
	fmt.Fprintf(w, "Delay:     %d samples buffered, %d overflows\n", stats.DelayFill, stats.DelayOverflows)
}
