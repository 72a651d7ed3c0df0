package domain

import (
	"strings"
	"time"
)

// ReflectionInput is one journaling submission. It is built per request and
// never stored.
type ReflectionInput struct {
	Text       string
	CyclePhase CyclePhase
	Interests  []Interest
}

// Validate checks the submission before any analysis is attempted.
// An empty interest list is allowed here; onboarding enforces the minimum.
func (in ReflectionInput) Validate() error {
	if strings.TrimSpace(in.Text) == "" {
		return ErrEmptyReflection
	}
	if !in.CyclePhase.Valid() {
		return ErrUnknownCyclePhase
	}
	return ValidateInterests(in.Interests, 0)
}

// ValidateInterests checks vocabulary, duplicates and the [min, MaxInterests] size.
func ValidateInterests(interests []Interest, min int) error {
	if len(interests) > MaxInterests {
		return ErrTooManyInterests
	}
	if len(interests) < min {
		return ErrTooFewInterests
	}
	seen := make(map[Interest]struct{}, len(interests))
	for _, i := range interests {
		if !i.Valid() {
			return ErrUnknownInterest
		}
		if _, dup := seen[i]; dup {
			return ErrDuplicateInterest
		}
		seen[i] = struct{}{}
	}
	return nil
}

// InsightResult is the structured feedback returned for a reflection.
type InsightResult struct {
	Pattern            string  `json:"pattern"`
	ReflectionInsight  string  `json:"reflectionInsight"`
	Suggestion         string  `json:"suggestion"`
	MoodIndicator      string  `json:"moodIndicator"`
	EchoScore          float64 `json:"echoScore"`
	ActivitySuggestion string  `json:"activitySuggestion"`
}

const (
	MinEchoScore = 0
	MaxEchoScore = 100
)

// EchoScoreInRange reports whether the score respects the documented 0-100 range.
func (r InsightResult) EchoScoreInRange() bool {
	return r.EchoScore >= MinEchoScore && r.EchoScore <= MaxEchoScore
}

// JournalEntry is an accepted insight stamped with epoch milliseconds.
type JournalEntry struct {
	Timestamp int64         `json:"timestamp"`
	Insight   InsightResult `json:"insight"`
}

func NewJournalEntry(insight InsightResult, at time.Time) JournalEntry {
	return JournalEntry{
		Timestamp: at.UnixMilli(),
		Insight:   insight,
	}
}

// Time returns the entry timestamp as a time.Time.
func (e JournalEntry) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}
