// Package history holds past tailoring sessions fetched from the service.
// History is a convenience surface: a failed fetch logs and leaves the list
// empty rather than surfacing an error, and selecting a session for detail
// view never refetches.
package history

import (
	"context"
	"sync"

	"cyrus/internal/errors"
	"cyrus/internal/types"
)

// SessionLister is the remote call the store depends on
type SessionLister interface {
	ListSessions(ctx context.Context) (types.SessionList, error)
}

// Store caches the fetched session list and the detail-view selection
type Store struct {
	mu       sync.Mutex
	sessions []types.Session
	loaded   bool
	selected int // index into sessions, -1 when on the list view

	lister SessionLister
	logger *errors.Logger
}

// NewStore creates an empty history store
func NewStore(lister SessionLister, logger *errors.Logger) *Store {
	return &Store{
		selected: -1,
		lister:   lister,
		logger:   logger,
	}
}

// Load fetches the session list. Failures are absorbed: the error is logged,
// the list comes back empty, and loading always ends. Callers can distinguish
// "no sessions" from "never fetched" via Loaded.
func (s *Store) Load(ctx context.Context) []types.Session {
	list, err := s.lister.ListSessions(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.loaded = true
	s.selected = -1

	if err != nil {
		s.logger.LogError(err, "Failed to fetch session history")
		s.sessions = nil
		return nil
	}

	s.sessions = list.Sessions
	s.logger.Debug("Session history loaded", "count", len(s.sessions))
	return s.sessions
}

// Sessions returns the cached session list
func (s *Store) Sessions() []types.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions
}

// Loaded reports whether a fetch has completed, successfully or not
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Select enters the detail view for one cached session. No refetch happens;
// the cached data is authoritative for display.
func (s *Store) Select(index int) (types.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.sessions) {
		return types.Session{}, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"No such session", nil).WithContext("index", index)
	}

	s.selected = index
	return s.sessions[index], nil
}

// Selected returns the session in detail view, if any
func (s *Store) Selected() (types.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected < 0 || s.selected >= len(s.sessions) {
		return types.Session{}, false
	}
	return s.sessions[s.selected], true
}

// Back returns from the detail view to the list without refetching
func (s *Store) Back() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = -1
}
