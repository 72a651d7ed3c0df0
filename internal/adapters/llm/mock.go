package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/PabloGalante/mindecho/internal/domain"
)

const (
	ModeMock = "mock"

	// DefaultMockDelay mimics the latency of a real analysis.
	DefaultMockDelay = 1500 * time.Millisecond

	musicActivity = "Listen to a calming instrumental track to help shift your mental frequency."
	// used when no interest was chosen
	fallbackActivityTopic = "quiet reflection"
)

// MockClient answers with a canned insight when no credential is configured.
type MockClient struct {
	delay time.Duration
}

type MockOption func(*MockClient)

// WithDelay overrides the simulated latency.
func WithDelay(d time.Duration) MockOption {
	return func(m *MockClient) {
		m.delay = d
	}
}

func NewMockClient(opts ...MockOption) *MockClient {
	m := &MockClient{delay: DefaultMockDelay}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MockClient) Mode() string {
	return ModeMock
}

func (m *MockClient) Analyze(ctx context.Context, in domain.ReflectionInput) (domain.InsightResult, error) {
	timer := time.NewTimer(m.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return domain.InsightResult{}, domain.ErrAnalysisFailed
	case <-timer.C:
	}

	return domain.InsightResult{
		Pattern:            "Rumination",
		ReflectionInsight:  "You appear to revisit distressing thoughts frequently, which may indicate a pattern of rumination where the mind circles back to unsolved problems.",
		Suggestion:         "Try the '5-4-3-2-1' grounding technique to pull your focus back to the present moment.",
		MoodIndicator:      "Contemplative",
		EchoScore:          68,
		ActivitySuggestion: mockActivity(in.Interests),
	}, nil
}

func mockActivity(interests []domain.Interest) string {
	if domain.ContainsInterest(interests, domain.InterestMusic) {
		return musicActivity
	}

	topic := fallbackActivityTopic
	if len(interests) > 0 {
		topic = string(interests[0])
	}
	return fmt.Sprintf("Engage in some %s for 10 minutes to break the thought loop.", topic)
}
