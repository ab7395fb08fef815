// ABOUTME: Shared settings state between the control surface and audio callbacks
// ABOUTME: Readers on the audio thread use TrySnapshot and never block
package control

import "sync"

// State guards the current Settings.
// Writers replace the whole record; the render path only ever try-locks.
type State struct {
	mu       sync.RWMutex
	settings Settings
}

// NewState creates a state holding the normalised initial settings
func NewState(initial Settings) *State {
	return &State{settings: initial.Normalize()}
}

// Snapshot returns the current settings, waiting for any writer
func (s *State) Snapshot() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// TrySnapshot returns the current settings if the read lock is free.
// ok is false when a writer holds the lock.
func (s *State) TrySnapshot() (Settings, bool) {
	if !s.mu.TryRLock() {
		return Settings{}, false
	}
	settings := s.settings
	s.mu.RUnlock()
	return settings, true
}

// Set replaces the settings with a normalised copy of next
func (s *State) Set(next Settings) {
	next = next.Normalize()
	s.mu.Lock()
	s.settings = next
	s.mu.Unlock()
}

// Update applies fn to a copy of the current settings and stores the
// normalised result. Returns the stored value.
func (s *State) Update(fn func(*Settings)) Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.settings
	fn(&next)
	s.settings = next.Normalize()
	return s.settings
}
