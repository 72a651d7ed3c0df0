package llm

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/genai"

	"github.com/PabloGalante/mindecho/internal/domain"
)

const (
	fieldPattern            = "pattern"
	fieldReflectionInsight  = "reflectionInsight"
	fieldSuggestion         = "suggestion"
	fieldMoodIndicator      = "moodIndicator"
	fieldEchoScore          = "echoScore"
	fieldActivitySuggestion = "activitySuggestion"
)

// InsightSchema declares the structured output the model must return.
// All six fields are required.
func InsightSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			fieldPattern:            {Type: genai.TypeString, Description: "Name of the thinking pattern"},
			fieldReflectionInsight:  {Type: genai.TypeString, Description: "A reflective explanation of the detected pattern"},
			fieldSuggestion:         {Type: genai.TypeString, Description: "A gentle wellness advice"},
			fieldMoodIndicator:      {Type: genai.TypeString, Description: "A single word describing the tone"},
			fieldEchoScore:          {Type: genai.TypeNumber, Description: "Emotional flexibility score 0-100"},
			fieldActivitySuggestion: {Type: genai.TypeString, Description: "Personalized activity based on user interests"},
		},
		Required: []string{
			fieldPattern,
			fieldReflectionInsight,
			fieldSuggestion,
			fieldMoodIndicator,
			fieldEchoScore,
			fieldActivitySuggestion,
		},
		PropertyOrdering: []string{
			fieldPattern,
			fieldReflectionInsight,
			fieldSuggestion,
			fieldMoodIndicator,
			fieldEchoScore,
			fieldActivitySuggestion,
		},
	}
}

// DecodeInsight coerces the model's text reply into an InsightResult.
//
// An empty reply is read as "{}" so missing fields come back zero-valued
// instead of failing. Invalid JSON is an error. echoScore is not bounds
// checked.
func DecodeInsight(text string) (domain.InsightResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		text = "{}"
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return domain.InsightResult{}, fmt.Errorf("decode insight: %w", err)
	}
	if raw == nil {
		// a literal null
		raw = map[string]any{}
	}

	return domain.InsightResult{
		Pattern:            getString(raw, fieldPattern),
		ReflectionInsight:  getString(raw, fieldReflectionInsight),
		Suggestion:         getString(raw, fieldSuggestion),
		MoodIndicator:      getString(raw, fieldMoodIndicator),
		EchoScore:          getNumber(raw, fieldEchoScore),
		ActivitySuggestion: getString(raw, fieldActivitySuggestion),
	}, nil
}

func getString(m map[string]any, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func getNumber(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return 0
}
