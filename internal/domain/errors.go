package domain

import "errors"

var (
	ErrEmptyReflection   = errors.New("reflection text is required")
	ErrTooManyInterests  = errors.New("at most 3 interests can be selected")
	ErrTooFewInterests   = errors.New("at least 2 interests must be selected")
	ErrUnknownInterest   = errors.New("unknown interest")
	ErrDuplicateInterest = errors.New("interest selected more than once")
	ErrUnknownCyclePhase = errors.New("unknown cycle phase")

	ErrInvalidEmail         = errors.New("a valid email is required")
	ErrInterestsAlreadySet  = errors.New("interests were already chosen for this session")
	ErrOnboardingIncomplete = errors.New("choose your interests before reflecting")
	ErrAnalysisInFlight     = errors.New("an analysis is already in progress")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionExists        = errors.New("session already exists")

	// ErrAnalysisFailed is the only failure surfaced by an AnalysisClient.
	// Its text is shown to the user as-is.
	ErrAnalysisFailed = errors.New("Failed to analyze pattern. Please try again.") //nolint:staticcheck // user-facing copy
)
