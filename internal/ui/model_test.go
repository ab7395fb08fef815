// ABOUTME: Tests for TUI model and state management
// ABOUTME: Tests key handling, status updates and rendering
package ui

import (
	"strings"
	"testing"

	"github.com/Resonate-Protocol/voicefx-go/internal/control"
	"github.com/Resonate-Protocol/voicefx-go/internal/session"
	"github.com/Resonate-Protocol/voicefx-go/pkg/audio"
	tea "github.com/charmbracelet/bubbletea"
)

func newTestModel() (Model, *control.State, *ControlPanel) {
	state := control.NewState(control.DefaultSettings())
	panel := NewControlPanel()
	return NewModel(state, panel), state, panel
}

func press(m Model, key tea.KeyMsg) Model {
	next, _ := m.Update(key)
	return next.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModel(t *testing.T) {
	model, _, _ := newTestModel()

	if model.settings != control.DefaultSettings() {
		t.Errorf("expected default settings, got %+v", model.settings)
	}
	if model.running != nil {
		t.Error("expected no running format initially")
	}
	if model.showDebug {
		t.Error("expected showDebug to be false initially")
	}
}

func TestKeysEditState(t *testing.T) {
	tests := []struct {
		name  string
		keys  []tea.KeyMsg
		check func(control.Settings) bool
	}{
		{
			name:  "pitch up",
			keys:  []tea.KeyMsg{{Type: tea.KeyRight}, {Type: tea.KeyRight}},
			check: func(s control.Settings) bool { return s.Pitch == 1.1 },
		},
		{
			name:  "pitch down",
			keys:  []tea.KeyMsg{{Type: tea.KeyLeft}},
			check: func(s control.Settings) bool { return s.Pitch == 0.95 },
		},
		{
			name:  "next rate",
			keys:  []tea.KeyMsg{runes("]")},
			check: func(s control.Settings) bool { return s.SampleRate == control.Rate48000 },
		},
		{
			name:  "prev rate",
			keys:  []tea.KeyMsg{runes("[")},
			check: func(s control.Settings) bool { return s.SampleRate == control.Rate22050 },
		},
		{
			name:  "buffer halves",
			keys:  []tea.KeyMsg{runes("-")},
			check: func(s control.Settings) bool { return s.BufferSize == 128 },
		},
		{
			name:  "buffer doubles",
			keys:  []tea.KeyMsg{runes("+"), runes("=")},
			check: func(s control.Settings) bool { return s.BufferSize == 1024 },
		},
		{
			name:  "delay up",
			keys:  []tea.KeyMsg{{Type: tea.KeyUp}, {Type: tea.KeyUp}},
			check: func(s control.Settings) bool { return s.DelayMs == 10 },
		},
		{
			name:  "delay floor",
			keys:  []tea.KeyMsg{{Type: tea.KeyDown}},
			check: func(s control.Settings) bool { return s.DelayMs == 0 },
		},
		{
			name:  "reset",
			keys:  []tea.KeyMsg{{Type: tea.KeyRight}, runes("]"), {Type: tea.KeyUp}, runes("0")},
			check: func(s control.Settings) bool { return s == control.DefaultSettings() },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, state, _ := newTestModel()
			for _, k := range tt.keys {
				model = press(model, k)
			}
			if got := state.Snapshot(); !tt.check(got) {
				t.Errorf("unexpected state %+v", got)
			}
			if model.settings != state.Snapshot() {
				t.Errorf("model settings %+v out of sync with state %+v", model.settings, state.Snapshot())
			}
		})
	}
}

func TestKeysClampAtLimits(t *testing.T) {
	model, state, _ := newTestModel()

	for i := 0; i < 40; i++ {
		model = press(model, tea.KeyMsg{Type: tea.KeyRight})
		model = press(model, runes("]"))
		model = press(model, runes("+"))
		model = press(model, tea.KeyMsg{Type: tea.KeyUp})
	}

	s := state.Snapshot()
	if s.Pitch != control.MaxPitch {
		t.Errorf("expected pitch %v, got %v", control.MaxPitch, s.Pitch)
	}
	if s.SampleRate != control.Rate96000 {
		t.Errorf("expected rate 96000, got %v", s.SampleRate)
	}
	if s.BufferSize != control.MaxBufferSize {
		t.Errorf("expected buffer %d, got %d", control.MaxBufferSize, s.BufferSize)
	}
	if s.DelayMs != control.MaxDelayMs {
		t.Errorf("expected delay %d, got %v", control.MaxDelayMs, s.DelayMs)
	}

	for i := 0; i < 40; i++ {
		model = press(model, tea.KeyMsg{Type: tea.KeyLeft})
		model = press(model, runes("-"))
	}
	s = state.Snapshot()
	if s.Pitch != control.MinPitch {
		t.Errorf("expected pitch %v, got %v", control.MinPitch, s.Pitch)
	}
	if s.BufferSize != control.MinBufferSize {
		t.Errorf("expected buffer %d, got %d", control.MinBufferSize, s.BufferSize)
	}
}

func TestQuitClosesPanel(t *testing.T) {
	model, _, panel := newTestModel()

	next, cmd := model.Update(runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if !next.(Model).quitting {
		t.Error("expected quitting to be set")
	}

	select {
	case <-panel.Quit:
	default:
		t.Fatal("expected Quit to be closed")
	}

	// second quit must not panic
	model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
}

func TestDebugToggle(t *testing.T) {
	model, _, _ := newTestModel()

	model = press(model, runes("d"))
	if !model.showDebug {
		t.Error("expected showDebug after first press")
	}
	if !strings.Contains(model.View(), "DEBUG") {
		t.Error("expected debug section in view")
	}

	model = press(model, runes("d"))
	if model.showDebug {
		t.Error("expected showDebug off after second press")
	}
}

func TestStatusMsg(t *testing.T) {
	model, _, _ := newTestModel()

	format := audio.Format{SampleRate: 44100, Channels: 2, BufferSize: 256}
	stats := session.Stats{Captured: 10, Rendered: 12, Dropped: 1}
	next, _ := model.Update(StatusMsg{
		Stats:     &stats,
		Running:   &format,
		SessionID: "0123456789abcdef",
	})
	model = next.(Model)

	if model.running == nil || *model.running != format {
		t.Errorf("expected running %v, got %v", format, model.running)
	}
	if model.stats.Rendered != 12 {
		t.Errorf("expected rendered 12, got %d", model.stats.Rendered)
	}
	if model.pending() {
		t.Error("expected no pending restart when settings match")
	}

	view := model.View()
	if !strings.Contains(view, "Rendered") && !strings.Contains(view, "Out: 12") {
		t.Errorf("expected stats in view, got:\n%s", view)
	}

	model.applyStatus(StatusMsg{Stopped: true})
	if model.running != nil {
		t.Error("expected running cleared after stop")
	}
}

func TestStatusMsgAudioError(t *testing.T) {
	model, _, _ := newTestModel()

	model.applyStatus(StatusMsg{AudioErr: "no playback device"})
	if !strings.Contains(model.View(), "no playback device") {
		t.Error("expected audio error in view")
	}

	format := audio.Format{SampleRate: 44100, Channels: 2, BufferSize: 256}
	model.applyStatus(StatusMsg{Running: &format})
	if model.audioErr != "" {
		t.Errorf("expected error cleared once running, got %q", model.audioErr)
	}
}

func TestPendingRestart(t *testing.T) {
	model, _, _ := newTestModel()

	format := audio.Format{SampleRate: 44100, Channels: 2, BufferSize: 256}
	model.applyStatus(StatusMsg{Running: &format})

	model = press(model, runes("]"))
	if !model.pending() {
		t.Error("expected pending restart after rate change")
	}
	if !strings.Contains(model.View(), "restarting") {
		t.Error("expected restarting marker in view")
	}

	restarted := audio.Format{SampleRate: 48000, Channels: 2, BufferSize: 256}
	model.applyStatus(StatusMsg{Running: &restarted})
	if model.pending() {
		t.Error("expected no pending restart once the new format runs")
	}
}

func TestWindowSize(t *testing.T) {
	model, _, _ := newTestModel()

	next, _ := model.Update(tea.WindowSizeMsg{Width: 100, Height: 50})
	m := next.(Model)
	if m.width != 100 || m.height != 50 {
		t.Errorf("expected 100x50, got %dx%d", m.width, m.height)
	}
}

func TestRenderBar(t *testing.T) {
	tests := []struct {
		value, limit, width int
		want                string
	}{
		{0, 100, 4, "░░░░"},
		{50, 100, 4, "██░░"},
		{100, 100, 4, "████"},
		{150, 100, 4, "████"},
		{-5, 100, 4, "░░░░"},
		{5, 0, 4, "░░░░"},
	}

	for _, tt := range tests {
		if got := renderBar(tt.value, tt.limit, tt.width); got != tt.want {
			t.Errorf("renderBar(%d, %d, %d) = %q, want %q", tt.value, tt.limit, tt.width, got, tt.want)
		}
	}
}
