// Package session keeps the per-browser state of the submission page.
package session

import (
	"sync"

	"newsdesk/domain/prediction"
)

// AppState is the state of one browser session: the in-flight guard, the
// last verdict shown and the last history snapshot fetched.
type AppState struct {
	mu          sync.Mutex
	isAnalyzing bool
	lastResult  *prediction.PredictResponse
	history     []prediction.Record
}

// NewAppState creates an idle state.
func NewAppState() *AppState {
	return &AppState{}
}

// TryBegin marks a submission as in flight. It reports false when one
// already is, in which case the caller must not submit.
func (s *AppState) TryBegin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isAnalyzing {
		return false
	}
	s.isAnalyzing = true
	return true
}

// End clears the in-flight flag.
func (s *AppState) End() {
	s.mu.Lock()
	s.isAnalyzing = false
	s.mu.Unlock()
}

// IsAnalyzing reports whether a submission is in flight.
func (s *AppState) IsAnalyzing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isAnalyzing
}

func (s *AppState) SetLastResult(resp *prediction.PredictResponse) {
	s.mu.Lock()
	s.lastResult = resp
	s.mu.Unlock()
}

func (s *AppState) LastResult() *prediction.PredictResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastResult
}

// SetHistory replaces the cached history snapshot.
func (s *AppState) SetHistory(records []prediction.Record) {
	s.mu.Lock()
	s.history = records
	s.mu.Unlock()
}

// History returns the cached snapshot and whether one was ever fetched.
func (s *AppState) History() ([]prediction.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history, s.history != nil
}
