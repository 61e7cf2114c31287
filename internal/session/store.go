package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type entry struct {
	state    *AppState
	lastSeen time.Time
}

// Store holds the AppState of every live session, keyed by session ID.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	now      func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*entry),
		now:      time.Now,
	}
}

// NewID returns a fresh session ID.
func NewID() string {
	return uuid.NewString()
}

// Get returns the state for id, creating it on first use.
func (s *Store) Get(id string) *AppState {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		e = &entry{state: NewAppState()}
		s.sessions[id] = e
	}
	e.lastSeen = s.now()
	return e.state
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// CleanupExpired drops sessions idle for longer than olderThan, skipping any
// with a submission in flight. It returns how many were removed.
func (s *Store) CleanupExpired(olderThan time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-olderThan)
	removed := 0
	for id, e := range s.sessions {
		if e.lastSeen.Before(cutoff) && !e.state.IsAnalyzing() {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
