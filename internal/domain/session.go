package domain

import (
	"sync"
	"time"
)

// ConsistencyIncrement is added to the consistency counter per completed analysis.
const ConsistencyIncrement = 15

// Identity is the locally generated, unauthenticated user of a session.
type Identity struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

type AnalysisState string

const (
	StateIdle      AnalysisState = "idle"
	StateAnalyzing AnalysisState = "analyzing"
)

// Session is the in-memory journaling state of one user. It lives until the
// session is cleared and is never persisted. The history is append-only.
type Session struct {
	mu sync.RWMutex

	ID        SessionID
	User      Identity
	CreatedAt Timestamp

	interests   []Interest
	consistency int
	history     []JournalEntry
	state       AnalysisState

	// outcome of the most recent submission; exactly one of them is set
	lastInsight *InsightResult
	lastError   error
}

func NewSession(id SessionID, user Identity, now time.Time) *Session {
	return &Session{
		ID:        id,
		User:      user,
		CreatedAt: now,
		state:     StateIdle,
	}
}

// SetInterests records the onboarding choice. It can only happen once.
func (s *Session) SetInterests(interests []Interest) error {
	if err := ValidateInterests(interests, MinInterests); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.interests) > 0 {
		return ErrInterestsAlreadySet
	}
	s.interests = append([]Interest(nil), interests...)
	return nil
}

// Ready reports whether onboarding finished and reflections may be submitted.
func (s *Session) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.interests) >= MinInterests
}

// BeginAnalysis moves the session from Idle to Analyzing.
func (s *Session) BeginAnalysis() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.interests) < MinInterests {
		return ErrOnboardingIncomplete
	}
	if s.state == StateAnalyzing {
		return ErrAnalysisInFlight
	}
	s.state = StateAnalyzing
	s.lastInsight = nil
	s.lastError = nil
	return nil
}

// CompleteAnalysis appends the accepted insight, bumps the consistency
// counter and returns the session to Idle.
func (s *Session) CompleteAnalysis(insight InsightResult, at time.Time) JournalEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := NewJournalEntry(insight, at)
	s.history = append(s.history, entry)
	s.consistency += ConsistencyIncrement
	s.state = StateIdle
	s.lastInsight = &insight
	s.lastError = nil
	return entry
}

// FailAnalysis returns the session to Idle leaving the history untouched.
func (s *Session) FailAnalysis(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateIdle
	s.lastInsight = nil
	s.lastError = err
}

func (s *Session) State() AnalysisState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) Interests() []Interest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Interest(nil), s.interests...)
}

func (s *Session) ConsistencyScore() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.consistency
}

// History returns a copy of the journal in insertion order.
func (s *Session) History() []JournalEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]JournalEntry(nil), s.history...)
}

func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}

// LastOutcome returns the result of the most recent submission, if any.
func (s *Session) LastOutcome() (*InsightResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastInsight == nil {
		return nil, s.lastError
	}
	out := *s.lastInsight
	return &out, s.lastError
}
