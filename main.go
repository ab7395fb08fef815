// ABOUTME: Entry point for the voicefx real-time voice effect
// ABOUTME: Parses CLI flags, loads configuration and runs the audio supervisor with the TUI
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/Resonate-Protocol/voicefx-go/internal/app"
	"github.com/Resonate-Protocol/voicefx-go/internal/config"
	"github.com/Resonate-Protocol/voicefx-go/internal/control"
	"github.com/Resonate-Protocol/voicefx-go/internal/ui"
	"github.com/Resonate-Protocol/voicefx-go/internal/version"
	"github.com/Resonate-Protocol/voicefx-go/pkg/audio"
	"github.com/Resonate-Protocol/voicefx-go/pkg/audio/device"
	tea "github.com/charmbracelet/bubbletea"
)

var (
	configPath  = flag.String("config", "", "YAML configuration file")
	pitchRatio  = flag.Float64("pitch", 1.0, "Pitch ratio (0.5 - 2.0)")
	sampleRate  = flag.Int("rate", 44100, "Sample rate in Hz (22050, 44100, 48000, 96000)")
	bufferSize  = flag.Int("buffer", control.DefaultBufferSize, "Device buffer size in frames (64 - 2048)")
	delayMs     = flag.Float64("delay", 0, "Output delay in milliseconds (0 - 100)")
	inputName   = flag.String("input", "malgo", "Capture source: malgo, file or tone")
	inputFile   = flag.String("file", "", "Audio file for -input file (mp3 or flac)")
	toneHz      = flag.Float64("tone-hz", 440, "Frequency for -input tone")
	outputName  = flag.String("output", "malgo", "Playback backend: malgo, oto or portaudio")
	logFile     = flag.String("log-file", "voicefx.log", "Log file path")
	noTUI       = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
	listDevices = flag.Bool("list-devices", false, "List audio devices and exit")
)

func main() {
	flag.Parse()

	if *listDevices {
		inv, err := device.List()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list devices: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(inv)
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	useTUI := !*noTUI

	// Set up logging
	f, err := os.OpenFile(cfg.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		// Streaming logs mode: log to both stdout and file
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	log.Printf("Starting %s %s (%s)", version.Product, version.Version, version.Manufacturer)
	log.Printf("Settings: pitch %.2f, %s, %d frames, delay %.0f ms; input %s, output %s",
		cfg.Settings.Pitch, cfg.Settings.SampleRate, cfg.Settings.BufferSize, cfg.Settings.DelayMs,
		cfg.Input.Backend, cfg.Output.Backend)

	state := control.NewState(cfg.Settings)

	// TUI setup
	var tuiProg *tea.Program
	var panel *ui.ControlPanel

	if useTUI {
		panel = ui.NewControlPanel()
		tuiProg, err = ui.Run(state, panel)
		if err != nil {
			log.Fatalf("Failed to start TUI: %v", err)
		}
		go func() {
			if _, err := tuiProg.Run(); err != nil {
				log.Printf("TUI error: %v", err)
			}
			panel.RequestQuit()
		}()
	}

	// Helper to update TUI
	updateTUI := func(msg ui.StatusMsg) {
		if tuiProg != nil {
			tuiProg.Send(msg)
		}
	}

	var shutdown atomic.Bool
	supervisor := app.New(app.Config{
		Input:          cfg.Input,
		Output:         cfg.Output.Backend,
		BridgeCapacity: cfg.Session.BridgeCapacity,
		MaxBlockFrames: cfg.Session.MaxBlockFrames,
		Engine:         cfg.EngineOptions(),
	}, state, &shutdown)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := supervisor.Run(); err != nil {
			// The TUI stays up without sound so settings can still be inspected.
			log.Printf("Audio error: %v", err)
			if !useTUI {
				fmt.Fprintf(os.Stderr, "Audio error: %v\n", err)
			}
			updateTUI(ui.StatusMsg{AudioErr: describe(err), Stopped: true})
		}
	}()

	if tuiProg != nil {
		go statsUpdateLoop(supervisor, updateTUI)
	}

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Wait for quit signal from TUI or OS
	if panel != nil {
		select {
		case <-panel.Quit:
			log.Printf("Received quit signal from TUI")
		case <-sigChan:
			log.Printf("Shutdown signal received")
		}
	} else {
		select {
		case <-sigChan:
			log.Printf("Shutdown signal received")
		case <-done:
			// without a TUI there is nothing left to do once audio stops
		}
	}

	shutdown.Store(true)
	<-done

	if tuiProg != nil {
		tuiProg.Quit()
	}

	log.Printf("Stopped")
}

// loadConfig layers defaults, the YAML file and explicitly set flags
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	var errs []error
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "pitch":
			cfg.Settings.Pitch = float32(*pitchRatio)
		case "rate":
			rate, err := control.ParseSampleRate(*sampleRate)
			if err != nil {
				errs = append(errs, fmt.Errorf("-rate: %w", err))
				return
			}
			cfg.Settings.SampleRate = rate
		case "buffer":
			cfg.Settings.BufferSize = *bufferSize
		case "delay":
			cfg.Settings.DelayMs = float32(*delayMs)
		case "input":
			cfg.Input.Backend = *inputName
		case "file":
			cfg.Input.File = *inputFile
		case "tone-hz":
			cfg.Input.ToneHz = *toneHz
		case "output":
			cfg.Output.Backend = *outputName
		case "log-file":
			cfg.LogFile = *logFile
		}
	})
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// describe shortens startup errors for the status line
func describe(err error) string {
	switch {
	case errors.Is(err, audio.ErrNoCaptureDevice):
		return "no capture device (sound disabled)"
	case errors.Is(err, audio.ErrNoPlaybackDevice):
		return "no playback device (sound disabled)"
	}
	return err.Error()
}

// statsUpdateLoop periodically updates TUI with session statistics
func statsUpdateLoop(supervisor *app.App, updateTUI func(ui.StatusMsg)) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	// Use a slower ticker for expensive runtime stats to avoid GC pauses
	runtimeStatsTicker := time.NewTicker(2 * time.Second)
	defer runtimeStatsTicker.Stop()

	var lastGoroutines int
	var lastMemAlloc, lastMemSys uint64

	for {
		select {
		case <-runtimeStatsTicker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			lastGoroutines = runtime.NumGoroutine()
			lastMemAlloc = m.Alloc
			lastMemSys = m.Sys

		case <-ticker.C:
			msg := ui.StatusMsg{
				Goroutines: lastGoroutines,
				MemAlloc:   lastMemAlloc,
				MemSys:     lastMemSys,
			}

			if format, ok := supervisor.Running(); ok {
				msg.Running = &format
			} else {
				msg.Stopped = true
			}
			if sess := supervisor.Session(); sess != nil {
				stats := sess.Stats()
				msg.Stats = &stats
				msg.SessionID = sess.ID()
			}

			updateTUI(msg)
		}
	}
}
