package llm

import (
	"context"

	"github.com/PabloGalante/mindecho/internal/config"
	"github.com/PabloGalante/mindecho/internal/domain"
	"github.com/PabloGalante/mindecho/internal/observability"
)

// NewAnalysisClient picks the analysis strategy once, at startup.
// A missing credential is not an error: it selects the mock client.
func NewAnalysisClient(ctx context.Context, cfg *config.Config) (domain.AnalysisClient, error) {
	log := observability.LoggerFromContext(ctx)

	if cfg.UseMock() {
		log.Info("[LLM] no API key configured, using MOCK analysis client")
		return NewMockClient(), nil
	}

	log.Info("[LLM] using Gemini analysis client", "model", cfg.ModelName)
	client, err := NewGeminiClient(ctx, cfg.APIKey, cfg.ModelName)
	if err != nil {
		return nil, err
	}
	return client, nil
}
