package domain

import "context"

// AnalysisClient turns a reflection into an InsightResult.
// Implementations fail with ErrAnalysisFailed only.
type AnalysisClient interface {
	Analyze(ctx context.Context, in ReflectionInput) (InsightResult, error)
	// Mode names the strategy ("mock" or "gemini") for logs and metrics.
	Mode() string
}

// SessionStore keeps live sessions in memory for the lifetime of the process.
type SessionStore interface {
	CreateSession(session *Session) error
	GetSession(id SessionID) (*Session, error)
	DeleteSession(id SessionID) error
	Count() int
}
