// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program and the quit channel shared with main
package ui

import (
	"sync"

	"github.com/Resonate-Protocol/voicefx-go/internal/control"
	tea "github.com/charmbracelet/bubbletea"
)

// ControlPanel carries signals from the TUI back to main
type ControlPanel struct {
	Quit chan struct{}
	once sync.Once
}

// NewControlPanel creates a new control panel handler
func NewControlPanel() *ControlPanel {
	return &ControlPanel{
		Quit: make(chan struct{}),
	}
}

// RequestQuit closes Quit; later calls do nothing
func (c *ControlPanel) RequestQuit() {
	if c == nil {
		return
	}
	c.once.Do(func() { close(c.Quit) })
}

// NewModel creates a new TUI model editing state
func NewModel(state *control.State, panel *ControlPanel) Model {
	return Model{
		state:    state,
		panel:    panel,
		settings: state.Snapshot(),
	}
}

// Run creates the TUI program; the caller starts it
func Run(state *control.State, panel *ControlPanel) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(state, panel), tea.WithAltScreen())
	return p, nil
}
