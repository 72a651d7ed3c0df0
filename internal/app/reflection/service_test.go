package reflection_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/mindecho/internal/adapters/llm"
	"github.com/PabloGalante/mindecho/internal/adapters/storage/memory"
	"github.com/PabloGalante/mindecho/internal/app/onboarding"
	"github.com/PabloGalante/mindecho/internal/app/reflection"
	"github.com/PabloGalante/mindecho/internal/domain"
)

// scriptedClient returns queued results, failing when err is set.
type scriptedClient struct {
	mu       sync.Mutex
	patterns []string
	err      error
	calls    int
	lastIn   domain.ReflectionInput
	release  chan struct{}
}

func (c *scriptedClient) Mode() string { return "scripted" }

func (c *scriptedClient) Analyze(ctx context.Context, in domain.ReflectionInput) (domain.InsightResult, error) {
	if c.release != nil {
		<-c.release
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls++
	c.lastIn = in
	if c.err != nil {
		return domain.InsightResult{}, c.err
	}
	p := "Rumination"
	if len(c.patterns) > 0 {
		p = c.patterns[0]
		c.patterns = c.patterns[1:]
	}
	return domain.InsightResult{Pattern: p, EchoScore: float64(40 + c.calls)}, nil
}

func newService(t *testing.T, client domain.AnalysisClient) *reflection.Service {
	t.Helper()
	store := memory.NewSessionStore(time.Hour, nil)
	return reflection.NewService(client, store)
}

func startReady(t *testing.T, svc *reflection.Service) *domain.Session {
	t.Helper()
	ctx := context.Background()

	sess, err := svc.StartSession(ctx, "journal@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)
	require.NotEmpty(t, sess.User.Username)

	_, err = svc.ChooseInterests(ctx, sess.ID, []domain.Interest{domain.InterestReading, domain.InterestMeditation})
	require.NoError(t, err)
	return sess
}

func TestStartSessionAndSubmit_WithMock(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, llm.NewMockClient(llm.WithDelay(time.Millisecond)))
	sess := startReady(t, svc)

	out, err := svc.Submit(ctx, sess.ID, reflection.SubmitInput{Text: "I keep replaying the meeting"})
	require.NoError(t, err)

	assert.Equal(t, "Rumination", out.Insight.Pattern)
	assert.Equal(t, 68.0, out.Insight.EchoScore)
	assert.Equal(t, "Engage in some Reading for 10 minutes to break the thought loop.", out.Insight.ActivitySuggestion)
	assert.Equal(t, 1, sess.Len())
	assert.Equal(t, 15, sess.ConsistencyScore())
	assert.Equal(t, llm.ModeMock, svc.Mode())
}

func TestSubmit_ConsistencyAndOrder(t *testing.T) {
	ctx := context.Background()
	patterns := []string{"Rumination", "Catastrophizing", "Positive Reframing", "Rumination"}
	client := &scriptedClient{patterns: append([]string(nil), patterns...)}
	svc := newService(t, client)
	sess := startReady(t, svc)

	for i := range patterns {
		_, err := svc.Submit(ctx, sess.ID, reflection.SubmitInput{Text: "entry", CyclePhase: domain.CyclePhaseOnPeriod})
		require.NoError(t, err, i)
	}

	history := sess.History()
	require.Len(t, history, len(patterns))
	for i, p := range patterns {
		assert.Equal(t, p, history[i].Insight.Pattern)
	}
	assert.Equal(t, 15*len(patterns), sess.ConsistencyScore())
	assert.Equal(t, domain.CyclePhaseOnPeriod, client.lastIn.CyclePhase)
	assert.Equal(t, []domain.Interest{domain.InterestReading, domain.InterestMeditation}, client.lastIn.Interests)
}

func TestSubmit_FailureLeavesHistoryUnchanged(t *testing.T) {
	ctx := context.Background()
	client := &scriptedClient{}
	svc := newService(t, client)
	sess := startReady(t, svc)

	_, err := svc.Submit(ctx, sess.ID, reflection.SubmitInput{Text: "first"})
	require.NoError(t, err)

	client.err = errors.New("connection reset by peer")
	_, err = svc.Submit(ctx, sess.ID, reflection.SubmitInput{Text: "second"})
	require.Error(t, err)
	assert.Equal(t, "Failed to analyze pattern. Please try again.", err.Error())

	assert.Equal(t, 1, sess.Len())
	assert.Equal(t, 15, sess.ConsistencyScore())
	assert.Equal(t, domain.StateIdle, sess.State())

	// the session recovers on the next successful submission
	client.err = nil
	_, err = svc.Submit(ctx, sess.ID, reflection.SubmitInput{Text: "third"})
	require.NoError(t, err)
	assert.Equal(t, 2, sess.Len())
}

func TestSubmit_Validation(t *testing.T) {
	ctx := context.Background()
	client := &scriptedClient{}
	svc := newService(t, client)

	sess, err := svc.StartSession(ctx, "x@y")
	require.NoError(t, err)

	_, err = svc.Submit(ctx, sess.ID, reflection.SubmitInput{Text: "before onboarding"})
	assert.ErrorIs(t, err, domain.ErrOnboardingIncomplete)

	_, err = svc.ChooseInterests(ctx, sess.ID, []domain.Interest{domain.InterestArt})
	assert.ErrorIs(t, err, domain.ErrTooFewInterests)

	_, err = svc.ChooseInterests(ctx, sess.ID, []domain.Interest{domain.InterestArt, domain.InterestGaming})
	require.NoError(t, err)

	_, err = svc.Submit(ctx, sess.ID, reflection.SubmitInput{Text: "   "})
	assert.ErrorIs(t, err, domain.ErrEmptyReflection)

	_, err = svc.Submit(ctx, sess.ID, reflection.SubmitInput{Text: "ok", CyclePhase: "Luteal"})
	assert.ErrorIs(t, err, domain.ErrUnknownCyclePhase)

	_, err = svc.Submit(ctx, "missing", reflection.SubmitInput{Text: "ok"})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	assert.Equal(t, 0, client.calls)
	assert.Equal(t, 0, sess.Len())
}

func TestSubmit_RejectsOverlappingAnalysis(t *testing.T) {
	ctx := context.Background()
	client := &scriptedClient{release: make(chan struct{})}
	svc := newService(t, client)
	sess := startReady(t, svc)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Submit(ctx, sess.ID, reflection.SubmitInput{Text: "slow"})
		done <- err
	}()

	require.Eventually(t, func() bool {
		return sess.State() == domain.StateAnalyzing
	}, time.Second, time.Millisecond)

	_, err := svc.Submit(ctx, sess.ID, reflection.SubmitInput{Text: "impatient"})
	assert.ErrorIs(t, err, domain.ErrAnalysisInFlight)

	close(client.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, sess.Len())
}

func TestClearSession(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, &scriptedClient{})
	sess := startReady(t, svc)

	require.NoError(t, svc.ClearSession(ctx, sess.ID))
	_, err := svc.GetSession(ctx, sess.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.ErrorIs(t, svc.ClearSession(ctx, sess.ID), domain.ErrSessionNotFound)
}

func TestStartSession_InvalidEmail(t *testing.T) {
	svc := newService(t, &scriptedClient{})
	_, err := svc.StartSession(context.Background(), "not-an-email")
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
}

func TestService_ClockAndRand(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2024, 3, 8, 9, 30, 0, 0, time.UTC)
	store := memory.NewSessionStore(time.Hour, nil)
	svc := reflection.NewService(&scriptedClient{}, store,
		reflection.WithClock(func() time.Time { return fixed }),
		reflection.WithRand(rand.New(rand.NewPCG(7, 11))),
	)

	sess, err := svc.StartSession(ctx, "clock@example.com")
	require.NoError(t, err)
	assert.Equal(t, onboarding.GenerateUsername(rand.New(rand.NewPCG(7, 11))), sess.User.Username)
	assert.Equal(t, fixed, sess.CreatedAt)

	_, err = svc.ChooseInterests(ctx, sess.ID, []domain.Interest{domain.InterestArt, domain.InterestMusic})
	require.NoError(t, err)

	out, err := svc.Submit(ctx, sess.ID, reflection.SubmitInput{Text: "a fixed moment"})
	require.NoError(t, err)
	assert.Equal(t, fixed.UnixMilli(), out.Entry.Timestamp)
	assert.Equal(t, fixed, out.Entry.Time().UTC())
}

func TestSubmit_SessionWithoutExpirySurvivesIdle(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSessionStore(memory.NoExpiration, nil)
	svc := reflection.NewService(&scriptedClient{}, store)
	sess := startReady(t, svc)

	_, err := svc.Submit(ctx, sess.ID, reflection.SubmitInput{Text: "before the pause"})
	require.NoError(t, err)

	time.Sleep(150 * time.Millisecond)

	_, err = svc.Submit(ctx, sess.ID, reflection.SubmitInput{Text: "after the pause"})
	require.NoError(t, err)
	assert.Equal(t, 2, sess.Len())
	assert.Equal(t, 30, sess.ConsistencyScore())
}
