package journal

import (
	"context"
	"errors"

	"github.com/PabloGalante/mindecho/internal/domain"
	"github.com/PabloGalante/mindecho/internal/observability"
)

// MaxConsistencyDots caps the streak indicator shown next to the consistency score.
const MaxConsistencyDots = 10

// Service derives the dashboard views from a session's history.
type Service struct {
	store domain.SessionStore
}

// NewService creates a journal service from a SessionStore
func NewService(store domain.SessionStore) *Service {
	return &Service{
		store: store,
	}
}

// Dashboard is recomputed from scratch on every call.
type Dashboard struct {
	Username         string            `json:"username"`
	Interests        []domain.Interest `json:"interests"`
	ConsistencyScore int               `json:"consistency_score"`
	LatestEchoScore  *float64          `json:"latest_echo_score"` // nil until the first analysis succeeds
	Entries          int               `json:"entries"`
	ConsistencyDots  int               `json:"consistency_dots"`
	Trend            *Trend            `json:"trend"`
	TrendMessage     string            `json:"trend_message,omitempty"`
	Frequency        Frequency         `json:"frequency"`
}

// BuildDashboard computes the dashboard for a session held by the caller.
func BuildDashboard(sess *domain.Session) Dashboard {
	history := sess.History()

	d := Dashboard{
		Username:         sess.User.Username,
		Interests:        sess.Interests(),
		ConsistencyScore: sess.ConsistencyScore(),
		Entries:          len(history),
		ConsistencyDots:  min(len(history), MaxConsistencyDots),
		Frequency:        PatternFrequency(history),
	}

	if len(history) > 0 {
		latest := history[len(history)-1].Insight.EchoScore
		d.LatestEchoScore = &latest
	}

	trend, err := ScoreTrend(history)
	if errors.Is(err, ErrInsufficientData) {
		d.TrendMessage = "Chronicle more reflections to see trends"
	} else {
		d.Trend = &trend
	}
	return d
}

// Dashboard returns the derived views for the given session.
func (s *Service) Dashboard(ctx context.Context, id domain.SessionID) (Dashboard, error) {
	sess, err := s.store.GetSession(id)
	if err != nil {
		return Dashboard{}, err
	}

	d := BuildDashboard(sess)
	observability.LoggerFromContext(ctx).Debug("dashboard computed",
		"session_id", id,
		"entries", d.Entries,
		"patterns", len(d.Frequency.Bars),
	)
	return d, nil
}

// History returns the session's journal in insertion order.
func (s *Service) History(ctx context.Context, id domain.SessionID) ([]domain.JournalEntry, error) {
	sess, err := s.store.GetSession(id)
	if err != nil {
		return nil, err
	}
	return sess.History(), nil
}
