package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/PabloGalante/mindecho/internal/domain"
	"github.com/PabloGalante/mindecho/internal/observability"
)

const ModeGemini = "gemini"

// contentGenerator is the slice of *genai.Models the client needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GeminiClient struct {
	models    contentGenerator
	modelName string
}

// NewGeminiClient creates an AnalysisClient backed by the Gemini API.
func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	return newGeminiClient(client.Models, modelName), nil
}

func newGeminiClient(models contentGenerator, modelName string) *GeminiClient {
	return &GeminiClient{
		models:    models,
		modelName: modelName,
	}
}

func (g *GeminiClient) Mode() string {
	return ModeGemini
}

// Analyze implements domain.AnalysisClient. One request per call, no retry.
// Every failure collapses into domain.ErrAnalysisFailed; the cause is only logged.
func (g *GeminiClient) Analyze(ctx context.Context, in domain.ReflectionInput) (domain.InsightResult, error) {
	log := observability.LoggerFromContext(ctx).With("model", g.modelName)

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   InsightSchema(),
	}
	contents := genai.Text(BuildPrompt(in))

	res, err := g.models.GenerateContent(ctx, g.modelName, contents, cfg)
	if err != nil {
		log.Error("gemini generate content failed", "error", err)
		return domain.InsightResult{}, domain.ErrAnalysisFailed
	}

	var text string
	if res != nil {
		text = res.Text()
	}

	insight, err := DecodeInsight(text)
	if err != nil {
		log.Error("gemini returned an unreadable insight", "error", err)
		return domain.InsightResult{}, domain.ErrAnalysisFailed
	}

	return insight, nil
}
