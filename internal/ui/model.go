// ABOUTME: Bubbletea model for the voice effect control surface
// ABOUTME: Edits shared settings from key presses and renders session status
package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/Resonate-Protocol/voicefx-go/internal/control"
	"github.com/Resonate-Protocol/voicefx-go/internal/session"
	"github.com/Resonate-Protocol/voicefx-go/pkg/audio"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	pitchStep = 0.05
	delayStep = 5
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().Faint(true)
)

// Model represents the TUI state
type Model struct {
	state *control.State
	panel *ControlPanel

	// last settings written or observed
	settings control.Settings

	// Audio
	running   *audio.Format
	sessionID string
	audioErr  string
	stats     session.Stats

	// Runtime
	goroutines int
	memAlloc   uint64
	memSys     uint64

	showDebug bool
	quitting  bool

	width  int
	height int
}

// StatusMsg updates TUI state
type StatusMsg struct {
	Stats      *session.Stats
	Running    *audio.Format
	Stopped    bool
	SessionID  string
	AudioErr   string
	Goroutines int
	MemAlloc   uint64
	MemSys     uint64
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	}

	return m, nil
}

// handleKey handles keyboard input. Every edit is a whole-record update.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var edit func(*control.Settings)

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		m.panel.RequestQuit()
		return m, tea.Quit
	case "left":
		edit = func(s *control.Settings) { s.Pitch = roundPitch(s.Pitch - pitchStep) }
	case "right":
		edit = func(s *control.Settings) { s.Pitch = roundPitch(s.Pitch + pitchStep) }
	case "[":
		edit = func(s *control.Settings) { s.SampleRate = s.SampleRate.Prev() }
	case "]":
		edit = func(s *control.Settings) { s.SampleRate = s.SampleRate.Next() }
	case "-":
		edit = func(s *control.Settings) { s.BufferSize /= 2 }
	case "+", "=":
		edit = func(s *control.Settings) { s.BufferSize *= 2 }
	case "down":
		edit = func(s *control.Settings) { s.DelayMs -= delayStep }
	case "up":
		edit = func(s *control.Settings) { s.DelayMs += delayStep }
	case "0":
		edit = func(s *control.Settings) { *s = control.DefaultSettings() }
	case "d":
		m.showDebug = !m.showDebug
	}

	if edit != nil {
		m.settings = m.state.Update(edit)
	}
	return m, nil
}

// roundPitch keeps repeated steps on the 0.05 grid
func roundPitch(p float32) float32 {
	return float32(math.Round(float64(p)*100) / 100)
}

// applyStatus updates model from status message
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.Stats != nil {
		m.stats = *msg.Stats
	}
	if msg.Running != nil {
		f := *msg.Running
		m.running = &f
		m.audioErr = ""
	}
	if msg.Stopped {
		m.running = nil
	}
	if msg.SessionID != "" {
		m.sessionID = msg.SessionID
	}
	if msg.AudioErr != "" {
		m.audioErr = msg.AudioErr
	}
	if msg.Goroutines != 0 {
		m.goroutines = msg.Goroutines
		m.memAlloc = msg.MemAlloc
		m.memSys = msg.MemSys
	}
	if m.state != nil {
		m.settings = m.state.Snapshot()
	}
}

// pending reports whether the streams still run with an older rate or buffer size
func (m Model) pending() bool {
	if m.running == nil {
		return false
	}
	return m.settings.SampleRate.Hz() != m.running.SampleRate || m.settings.BufferSize != m.running.BufferSize
}

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Voice FX"))
	b.WriteString("\n\n")

	m.renderSettings(&b)
	b.WriteString("\n")
	m.renderStatus(&b)

	if m.showDebug {
		b.WriteString("\n")
		m.renderDebug(&b)
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("←/→:Pitch  [/]:Rate  -/+:Buffer  ↓/↑:Delay  0:Reset  d:Debug  q:Quit"))
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderSettings(b *strings.Builder) {
	s := m.settings

	pitchPos := int(math.Round(float64(s.Pitch-control.MinPitch) * 100))
	pitchMax := int((control.MaxPitch - control.MinPitch) * 100)
	field(b, "Pitch:  ", fmt.Sprintf("[%s] %.2fx", renderBar(pitchPos, pitchMax, 20), s.Pitch))
	field(b, "Delay:  ", fmt.Sprintf("[%s] %.0f ms", renderBar(int(s.DelayMs), control.MaxDelayMs, 20), s.DelayMs))

	stream := fmt.Sprintf("%s, %d frames", s.SampleRate, s.BufferSize)
	b.WriteString(headerStyle.Render("Stream: "))
	b.WriteString(valueStyle.Render(stream))
	if m.pending() {
		b.WriteString(" ")
		b.WriteString(pendingStyle.Render("(restarting…)"))
	}
	b.WriteString("\n")
}

func (m Model) renderStatus(b *strings.Builder) {
	if m.audioErr != "" {
		b.WriteString(errorStyle.Render("Audio: " + m.audioErr))
		b.WriteString("\n")
		return
	}
	if m.running == nil {
		field(b, "Audio:  ", "stopped")
		return
	}

	field(b, "Audio:  ", fmt.Sprintf("%s (%.1f ms/period)",
		m.running, float64(m.running.Period().Microseconds())/1000))
	field(b, "Stats:  ", fmt.Sprintf("In: %d  Out: %d  Dropped: %d  Starved: %d",
		m.stats.Captured, m.stats.Rendered, m.stats.Dropped, m.stats.Starved))
}

func (m Model) renderDebug(b *strings.Builder) {
	b.WriteString(headerStyle.Render("DEBUG"))
	b.WriteString("\n")
	field(b, "  Session:         ", shortID(m.sessionID))
	field(b, "  Stale periods:   ", fmt.Sprintf("%d", m.stats.Stale))
	field(b, "  Pitch fallbacks: ", fmt.Sprintf("%d", m.stats.PitchFallbacks))
	field(b, "  Delay fill:      ", fmt.Sprintf("%d samples (%d overflows)", m.stats.DelayFill, m.stats.DelayOverflows))
	field(b, "  Stream errors:   ", fmt.Sprintf("%d", m.stats.StreamErrors))
	field(b, "  Goroutines:      ", fmt.Sprintf("%d", m.goroutines))
	field(b, "  Memory:          ", fmt.Sprintf("%.1f MB alloc / %.1f MB sys",
		float64(m.memAlloc)/(1024*1024), float64(m.memSys)/(1024*1024)))
}

func field(b *strings.Builder, name, value string) {
	b.WriteString(headerStyle.Render(name))
	b.WriteString(valueStyle.Render(value))
	b.WriteString("\n")
}

// Utility functions
func renderBar(value, limit, width int) string {
	if limit <= 0 {
		return strings.Repeat("░", width)
	}
	filled := min(max(value, 0)*width/limit, width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
