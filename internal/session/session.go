// Package session holds the dashboard's login flag. It is a UI gate only
// and carries no credentials.
package session

import "sync"

// State is the single logged-in flag shared by the dashboard pages.
type State struct {
	mu       sync.RWMutex
	loggedIn bool
	user     string
}

// Login marks the session as logged in. Every submission is accepted,
// including an empty one; the password is ignored.
func (s *State) Login(user, _ string) {
	s.mu.Lock()
	s.loggedIn = true
	s.user = user
	s.mu.Unlock()
}

// Logout clears the flag.
func (s *State) Logout() {
	s.mu.Lock()
	s.loggedIn = false
	s.user = ""
	s.mu.Unlock()
}

// LoggedIn reports the flag.
func (s *State) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loggedIn
}

// User is the name given at login, or "".
func (s *State) User() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}
