// Package session holds runtime state for the active touch client.
package session

import (
	"sync"

	"github.com/frudas24/padtouch/internal/profile"
)

// Snapshot represents a read-only view of the current session state.
type Snapshot struct {
	Authenticated bool
	InputEnabled  bool
	SurfaceW      int
	SurfaceH      int
	Profile       profile.Profile
}

// Session holds runtime state for the active touch client.
type Session struct {
	mu            sync.RWMutex
	password      string
	authenticated bool
	inputEnabled  bool
	surfaceW      int
	surfaceH      int
	profile       profile.Profile
}

// New returns an initialized session with the given password.
func New(password string) *Session {
	return &Session{
		password:     password,
		inputEnabled: true,
		profile:      profile.Default(),
	}
}

// Authenticate validates the password and marks the session as authenticated.
func (s *Session) Authenticate(pass string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pass != "" && pass == s.password {
		s.authenticated = true
		return true
	}
	s.authenticated = false
	return false
}

// Logout clears authentication state.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = false
}

// IsAuthenticated reports whether the session is authenticated.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// SetInputEnabled toggles whether touches reach the controller.
func (s *Session) SetInputEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputEnabled = enabled
}

// InputEnabled reports whether touches reach the controller.
func (s *Session) InputEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inputEnabled
}

// SetSurface records the client surface size in pixels.
func (s *Session) SetSurface(w, h int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surfaceW, s.surfaceH = w, h
}

// Surface returns the client surface size in pixels.
func (s *Session) Surface() (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.surfaceW, s.surfaceH
}

// SetProfile stores the touchscreen profile.
func (s *Session) SetProfile(p profile.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = profile.Normalize(p)
}

// UpdateProfile applies fn to the stored profile and returns the result.
func (s *Session) UpdateProfile(fn func(*profile.Profile)) profile.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.profile
	fn(&p)
	s.profile = profile.Normalize(p)
	return s.profile
}

// Profile returns the touchscreen profile.
func (s *Session) Profile() profile.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// Snapshot returns a copy of the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Authenticated: s.authenticated,
		InputEnabled:  s.inputEnabled,
		SurfaceW:      s.surfaceW,
		SurfaceH:      s.surfaceH,
		Profile:       s.profile,
	}
}
