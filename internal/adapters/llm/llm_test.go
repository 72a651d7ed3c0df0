package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/PabloGalante/mindecho/internal/config"
	"github.com/PabloGalante/mindecho/internal/domain"
)

// ─────────────────────────────────────────────
// Prompt
// ─────────────────────────────────────────────

func TestBuildPrompt_WithPhaseAndInterests(t *testing.T) {
	p := BuildPrompt(domain.ReflectionInput{
		Text:       `I said "sorry" again`,
		CyclePhase: domain.CyclePhaseMidCycle,
		Interests:  []domain.Interest{domain.InterestReading, domain.InterestArt},
	})

	assert.Contains(t, p, "The user is currently in the 'Mid-Cycle' phase of their menstrual cycle.")
	assert.Contains(t, p, "The user's personal interest areas are: Reading, Art.")
	assert.Contains(t, p, `Journal Entry: "I said "sorry" again"`)
	assert.NotContains(t, p, "opted out")

	for _, field := range []string{"'pattern'", "'reflectionInsight'", "'suggestion'", "'moodIndicator'", "'echoScore'", "'activitySuggestion'"} {
		assert.Contains(t, p, field)
	}
	assert.Contains(t, p, "6. Generate")
}

func TestBuildPrompt_OptedOut(t *testing.T) {
	p := BuildPrompt(domain.ReflectionInput{Text: "fine"})

	assert.Contains(t, p, "This is a general reflection (user has opted out of cycle tracking).")
	assert.Contains(t, p, "The user's personal interest areas are: .")
	assert.NotContains(t, p, "menstrual cycle.")
}

// ─────────────────────────────────────────────
// Schema
// ─────────────────────────────────────────────

func TestInsightSchema_AllFieldsRequired(t *testing.T) {
	s := InsightSchema()

	assert.Equal(t, genai.TypeObject, s.Type)
	assert.Len(t, s.Properties, 6)
	assert.ElementsMatch(t, []string{
		"pattern", "reflectionInsight", "suggestion", "moodIndicator", "echoScore", "activitySuggestion",
	}, s.Required)
	assert.Equal(t, genai.TypeNumber, s.Properties["echoScore"].Type)
	assert.Equal(t, genai.TypeString, s.Properties["moodIndicator"].Type)
}

func TestDecodeInsight(t *testing.T) {
	got, err := DecodeInsight(`{"pattern":"Catastrophizing","reflectionInsight":"r","suggestion":"s","moodIndicator":"Anxious","echoScore":41.5,"activitySuggestion":"a"}`)
	require.NoError(t, err)
	assert.Equal(t, domain.InsightResult{
		Pattern:            "Catastrophizing",
		ReflectionInsight:  "r",
		Suggestion:         "s",
		MoodIndicator:      "Anxious",
		EchoScore:          41.5,
		ActivitySuggestion: "a",
	}, got)
}

func TestDecodeInsight_EmptyReplyIsEmptyObject(t *testing.T) {
	for _, text := range []string{"", "   ", "null", "{}"} {
		got, err := DecodeInsight(text)
		require.NoError(t, err, text)
		assert.Equal(t, domain.InsightResult{}, got, text)
	}
}

func TestDecodeInsight_Coercion(t *testing.T) {
	got, err := DecodeInsight(`{"pattern":7,"echoScore":"  72 ","moodIndicator":"Calm"}`)
	require.NoError(t, err)
	assert.Equal(t, "", got.Pattern)
	assert.Equal(t, 72.0, got.EchoScore)
	assert.Equal(t, "Calm", got.MoodIndicator)
}

func TestDecodeInsight_OutOfRangeScoreKept(t *testing.T) {
	got, err := DecodeInsight(`{"echoScore":180}`)
	require.NoError(t, err)
	assert.Equal(t, 180.0, got.EchoScore)
}

func TestDecodeInsight_Malformed(t *testing.T) {
	_, err := DecodeInsight(`{"pattern": `)
	assert.Error(t, err)

	_, err = DecodeInsight(`[1,2]`)
	assert.Error(t, err)
}

// ─────────────────────────────────────────────
// Mock client
// ─────────────────────────────────────────────

func TestMockClient_CannedInsight(t *testing.T) {
	m := NewMockClient(WithDelay(5 * time.Millisecond))

	for _, interests := range [][]domain.Interest{
		nil,
		{domain.InterestReading},
		{domain.InterestArt, domain.InterestGaming},
		{domain.InterestMeditation, domain.InterestArt, domain.InterestMusic},
	} {
		got, err := m.Analyze(context.Background(), domain.ReflectionInput{Text: "looping", Interests: interests})
		require.NoError(t, err)
		assert.Equal(t, "Rumination", got.Pattern)
		assert.Equal(t, 68.0, got.EchoScore)
		assert.Equal(t, "Contemplative", got.MoodIndicator)
		assert.NotEmpty(t, got.ActivitySuggestion)
	}
}

func TestMockClient_ActivitySuggestion(t *testing.T) {
	m := NewMockClient(WithDelay(0))
	ctx := context.Background()

	got, err := m.Analyze(ctx, domain.ReflectionInput{Text: "x", Interests: []domain.Interest{domain.InterestReading}})
	require.NoError(t, err)
	assert.Equal(t, "Engage in some Reading for 10 minutes to break the thought loop.", got.ActivitySuggestion)

	got, err = m.Analyze(ctx, domain.ReflectionInput{Text: "x", Interests: []domain.Interest{domain.InterestMusic}})
	require.NoError(t, err)
	assert.Equal(t, "Listen to a calming instrumental track to help shift your mental frequency.", got.ActivitySuggestion)

	got, err = m.Analyze(ctx, domain.ReflectionInput{Text: "x", Interests: []domain.Interest{domain.InterestArt, domain.InterestMusic}})
	require.NoError(t, err)
	assert.Equal(t, musicActivity, got.ActivitySuggestion)

	got, err = m.Analyze(ctx, domain.ReflectionInput{Text: "x"})
	require.NoError(t, err)
	assert.Equal(t, "Engage in some quiet reflection for 10 minutes to break the thought loop.", got.ActivitySuggestion)
}

func TestMockClient_DefaultDelay(t *testing.T) {
	m := NewMockClient()
	assert.Equal(t, DefaultMockDelay, m.delay)
	assert.Equal(t, ModeMock, m.Mode())

	start := time.Now()
	_, err := m.Analyze(context.Background(), domain.ReflectionInput{Text: "x", Interests: []domain.Interest{domain.InterestArt}})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 1500*time.Millisecond)
}

func TestMockClient_ContextCancelled(t *testing.T) {
	m := NewMockClient(WithDelay(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Analyze(ctx, domain.ReflectionInput{Text: "x"})
	assert.ErrorIs(t, err, domain.ErrAnalysisFailed)
}

// ─────────────────────────────────────────────
// Gemini client
// ─────────────────────────────────────────────

type fakeGenerator struct {
	reply string
	err   error

	gotModel  string
	gotPrompt string
	gotConfig *genai.GenerateContentConfig
}

func (f *fakeGenerator) GenerateContent(
	_ context.Context,
	model string,
	contents []*genai.Content,
	cfg *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	f.gotModel = model
	f.gotConfig = cfg
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.gotPrompt = contents[0].Parts[0].Text
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: genai.NewContentFromText(f.reply, genai.RoleModel)},
		},
	}, nil
}

func TestGeminiClient_Success(t *testing.T) {
	gen := &fakeGenerator{reply: `{"pattern":"Black-and-White Thinking","reflectionInsight":"i","suggestion":"s","moodIndicator":"Tense","echoScore":35,"activitySuggestion":"a"}`}
	c := newGeminiClient(gen, "gemini-test")

	in := domain.ReflectionInput{Text: "all or nothing", Interests: []domain.Interest{domain.InterestArt, domain.InterestGaming}}
	got, err := c.Analyze(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "Black-and-White Thinking", got.Pattern)
	assert.Equal(t, 35.0, got.EchoScore)
	assert.Equal(t, "gemini-test", gen.gotModel)
	assert.Equal(t, BuildPrompt(in), gen.gotPrompt)
	require.NotNil(t, gen.gotConfig)
	assert.Equal(t, "application/json", gen.gotConfig.ResponseMIMEType)
	assert.Equal(t, InsightSchema(), gen.gotConfig.ResponseSchema)
	assert.Equal(t, ModeGemini, c.Mode())
}

func TestGeminiClient_EmptyReply(t *testing.T) {
	c := newGeminiClient(&fakeGenerator{reply: ""}, "m")

	got, err := c.Analyze(context.Background(), domain.ReflectionInput{Text: "x"})
	require.NoError(t, err)
	assert.Equal(t, domain.InsightResult{}, got)
}

func TestGeminiClient_FailuresCollapse(t *testing.T) {
	cases := map[string]*fakeGenerator{
		"network": {err: errors.New("dial tcp: connection refused")},
		"service": {err: errors.New("Error 503, Message: The model is overloaded., Status: UNAVAILABLE")},
		"parse":   {reply: "not json at all"},
	}

	for name, gen := range cases {
		t.Run(name, func(t *testing.T) {
			c := newGeminiClient(gen, "m")
			_, err := c.Analyze(context.Background(), domain.ReflectionInput{Text: "x"})
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrAnalysisFailed)
			assert.Equal(t, "Failed to analyze pattern. Please try again.", err.Error())
		})
	}
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), "", "m")
	assert.Error(t, err)
}

func TestNewAnalysisClient_MockWithoutKey(t *testing.T) {
	c, err := NewAnalysisClient(context.Background(), &config.Config{ModelName: "m"})
	require.NoError(t, err)
	assert.Equal(t, ModeMock, c.Mode())
}

func TestNewAnalysisClient_GeminiWithKey(t *testing.T) {
	c, err := NewAnalysisClient(context.Background(), &config.Config{APIKey: "k", ModelName: "m"})
	require.NoError(t, err)
	assert.Equal(t, ModeGemini, c.Mode())
}
