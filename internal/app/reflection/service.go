package reflection

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/mindecho/internal/app/onboarding"
	"github.com/PabloGalante/mindecho/internal/domain"
	"github.com/PabloGalante/mindecho/internal/observability"
)

// Service drives a journaling session: onboarding, then one analysis per
// submitted reflection.
type Service struct {
	client       domain.AnalysisClient
	sessionStore domain.SessionStore
	metrics      *observability.Metrics
	now          func() time.Time
	rand         *rand.Rand
}

type Option func(*Service)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithRand makes username generation deterministic. The generator is not
// safe for concurrent use, so only single-user callers should set it.
func WithRand(r *rand.Rand) Option {
	return func(s *Service) {
		s.rand = r
	}
}

func NewService(
	client domain.AnalysisClient,
	sessionStore domain.SessionStore,
	opts ...Option,
) *Service {
	s := &Service{
		client:       client,
		sessionStore: sessionStore,
		metrics:      observability.NewMetrics(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mode reports which analysis strategy was selected at startup.
func (s *Service) Mode() string {
	return s.client.Mode()
}

func (s *Service) StartSession(ctx context.Context, email string) (*domain.Session, error) {
	log := observability.LoggerFromContext(ctx)

	user, err := onboarding.NewIdentity(email, s.rand)
	if err != nil {
		return nil, err
	}

	session := domain.NewSession(domain.SessionID(uuid.NewString()), user, s.now())
	if err := s.sessionStore.CreateSession(session); err != nil {
		log.Error("failed to create session", "error", err)
		return nil, err
	}
	s.metrics.ActiveSessions.Inc()

	log.Info("session started", "session_id", session.ID, "username", user.Username)
	return session, nil
}

func (s *Service) GetSession(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	return s.sessionStore.GetSession(id)
}

// ChooseInterests completes onboarding for the session.
func (s *Service) ChooseInterests(ctx context.Context, id domain.SessionID, interests []domain.Interest) (*domain.Session, error) {
	session, err := s.sessionStore.GetSession(id)
	if err != nil {
		return nil, err
	}

	log := observability.LoggerFromContext(ctx).With("session_id", id)
	if err := session.SetInterests(interests); err != nil {
		log.Warn("interest selection rejected", "error", err)
		return nil, err
	}

	log.Info("onboarding completed", "interests", interests)
	return session, nil
}

type SubmitInput struct {
	Text       string
	CyclePhase domain.CyclePhase
}

type SubmitOutput struct {
	Insight domain.InsightResult
	Entry   domain.JournalEntry
}

// Submit analyzes one reflection: Idle -> Analyzing -> Succeeded | Failed.
// On failure the history is left untouched and domain.ErrAnalysisFailed is
// returned. A second submission while one is in flight is rejected.
func (s *Service) Submit(ctx context.Context, id domain.SessionID, in SubmitInput) (*SubmitOutput, error) {
	session, err := s.sessionStore.GetSession(id)
	if err != nil {
		return nil, err
	}

	ctx = observability.WithSessionID(ctx, string(id))
	log := observability.LoggerFromContext(ctx).With("mode", s.client.Mode())

	input := domain.ReflectionInput{
		Text:       in.Text,
		CyclePhase: in.CyclePhase,
		Interests:  session.Interests(),
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if err := session.BeginAnalysis(); err != nil {
		log.Warn("submission rejected", "error", err)
		return nil, err
	}

	log.Info("analyzing reflection", "cycle_phase", in.CyclePhase, "chars", len(in.Text))
	start := s.now()

	insight, err := s.client.Analyze(ctx, input)
	s.metrics.AnalysisDuration.WithLabelValues(s.client.Mode()).Observe(s.now().Sub(start).Seconds())
	if err != nil {
		// clients already collapse their failures, this covers any other implementation
		if !errors.Is(err, domain.ErrAnalysisFailed) {
			log.Error("analysis client returned an unexpected error", "error", err)
		}
		session.FailAnalysis(domain.ErrAnalysisFailed)
		s.metrics.AnalysesTotal.WithLabelValues(s.client.Mode(), observability.OutcomeFailure).Inc()
		log.Error("analysis failed")
		return nil, domain.ErrAnalysisFailed
	}

	if !insight.EchoScoreInRange() {
		s.metrics.EchoScoreOutOfRange.Inc()
		log.Warn("echo score outside 0-100 accepted as-is", "echo_score", insight.EchoScore)
	}

	entry := session.CompleteAnalysis(insight, s.now())
	s.metrics.AnalysesTotal.WithLabelValues(s.client.Mode(), observability.OutcomeSuccess).Inc()
	s.metrics.EchoScore.Observe(insight.EchoScore)

	log.Info("analysis completed",
		"pattern", insight.Pattern,
		"echo_score", insight.EchoScore,
		"entries", session.Len(),
		"consistency", session.ConsistencyScore(),
	)

	return &SubmitOutput{
		Insight: insight,
		Entry:   entry,
	}, nil
}

// ClearSession discards the session and everything in it (logout).
func (s *Service) ClearSession(ctx context.Context, id domain.SessionID) error {
	if err := s.sessionStore.DeleteSession(id); err != nil {
		return err
	}
	observability.LoggerFromContext(ctx).Info("session cleared", "session_id", id)
	return nil
}

// SessionEvicted keeps the active-session gauge in step with the store.
// Wire it as the store's eviction callback.
func SessionEvicted(domain.SessionID) {
	observability.NewMetrics().ActiveSessions.Dec()
}
