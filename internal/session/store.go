// Package session holds the per-session analysis state. Nothing here is
// durable: each session owns at most one current report, discarded on reset
// or when a new analysis supersedes it.
package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/veriscope/veriscope/internal/models"
)

// ErrAnalysisInFlight is returned when a session already has an active run.
var ErrAnalysisInFlight = errors.New("an analysis is already in progress for this session")

type slot struct {
	report   *models.AnalysisReport
	inFlight bool
	token    string
}

// Store is the in-memory session registry. Last completed analysis wins,
// unless its run token was superseded by a reset or a newer run.
type Store struct {
	mu    sync.Mutex
	slots map[string]*slot
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{slots: make(map[string]*slot)}
}

// Begin marks a run as in flight for the session and returns its token.
// A second concurrent Begin for the same session is rejected.
func (s *Store) Begin(sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl, ok := s.slots[sessionID]
	if !ok {
		sl = &slot{}
		s.slots[sessionID] = sl
	}
	if sl.inFlight {
		return "", ErrAnalysisInFlight
	}

	sl.inFlight = true
	sl.token = uuid.New().String()
	return sl.token, nil
}

// Complete stores the report if the run token is still current. A stale token
// means the session was reset or replaced mid-flight; the orphaned result is
// discarded and Complete reports false.
func (s *Store) Complete(sessionID, token string, report *models.AnalysisReport) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl, ok := s.slots[sessionID]
	if !ok || sl.token != token {
		return false
	}

	sl.report = report
	sl.inFlight = false
	sl.token = ""
	return true
}

// Fail clears the in-flight mark without touching the stored report, if the
// token is still current.
func (s *Store) Fail(sessionID, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl, ok := s.slots[sessionID]
	if !ok || sl.token != token {
		return
	}
	sl.inFlight = false
	sl.token = ""
}

// Report returns the session's current report, or nil.
func (s *Store) Report(sessionID string) *models.AnalysisReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sl, ok := s.slots[sessionID]; ok {
		return sl.report
	}
	return nil
}

// Reset drops the session's report and invalidates any in-flight run token,
// so late results for that run are discarded on arrival.
func (s *Store) Reset(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, sessionID)
}
