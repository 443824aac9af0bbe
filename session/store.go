package session

import (
	"sync"

	apperrors "github.com/taxfree-rdc/taxfree-go/internal/errors"
)

// Store holds the current session behind a mutex. It is read by every
// outgoing request (for the bearer header) and written only on login, token
// refresh and logout, so writes persist to storage inline.
type Store struct {
	mu      sync.RWMutex
	storage Storage
	current Session
}

// NewStore creates a store over the given persistence backend.
func NewStore(storage Storage) *Store {
	return &Store{storage: storage}
}

// Load restores persisted state, if any. Called once at startup; an absent
// session file simply leaves the store unauthenticated.
func (s *Store) Load() error {
	loaded, err := s.storage.Load()
	if err != nil {
		return apperrors.Wrapf(err, "load session")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if loaded != nil {
		s.current = *loaded
	}
	return nil
}

// SetSession replaces the whole session after a successful login.
func (s *Store) SetSession(access, refresh string, user *User) error {
	if access == "" {
		return apperrors.ErrEmptyToken
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Session{AccessToken: access, RefreshToken: refresh, User: user}
	return s.persistLocked()
}

// SetAccessToken swaps in a refreshed access token, keeping the refresh
// token and user untouched.
func (s *Store) SetAccessToken(access string) error {
	if access == "" {
		return apperrors.ErrEmptyToken
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.AccessToken = access
	return s.persistLocked()
}

// Clear wipes the session entirely, on logout or irrecoverable refresh
// failure.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Session{}
	if err := s.storage.Clear(); err != nil {
		return apperrors.Wrapf(err, "clear session")
	}
	return nil
}

// AccessToken returns the current access token, or "" when logged out.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.AccessToken
}

// RefreshToken returns the current refresh token, or "" when logged out.
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.RefreshToken
}

// User returns a copy of the last-known user summary, or nil.
func (s *Store) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current.User == nil {
		return nil
	}
	user := *s.current.User
	return &user
}

// IsAuthenticated reports whether an access token is held.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.IsAuthenticated()
}

// Snapshot returns a copy of the whole session.
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.current
	if s.current.User != nil {
		user := *s.current.User
		snap.User = &user
	}
	return snap
}

func (s *Store) persistLocked() error {
	session := s.current
	if err := s.storage.Save(&session); err != nil {
		return apperrors.Wrapf(err, "persist session")
	}
	return nil
}
