package domain

import (
	"strings"
	"time"
)

type SessionID string

type Timestamp = time.Time

// CyclePhase is an optional context tag narrowing how a reflection is read.
// The zero value means the user opted out of cycle tracking.
type CyclePhase string

const (
	CyclePhaseNone          CyclePhase = ""
	CyclePhaseOnPeriod      CyclePhase = "On Period"
	CyclePhasePostMenstrual CyclePhase = "Post-Menstrual"
	CyclePhaseMidCycle      CyclePhase = "Mid-Cycle"
	CyclePhasePreMenstrual  CyclePhase = "Pre-Menstrual"
)

// CyclePhases lists the selectable phases in display order.
var CyclePhases = []CyclePhase{
	CyclePhaseOnPeriod,
	CyclePhasePostMenstrual,
	CyclePhaseMidCycle,
	CyclePhasePreMenstrual,
}

// Valid reports whether p is a known phase or the opted-out zero value.
func (p CyclePhase) Valid() bool {
	if p == CyclePhaseNone {
		return true
	}
	for _, known := range CyclePhases {
		if p == known {
			return true
		}
	}
	return false
}

// ParseCyclePhase accepts the display label or a snake/kebab alias
// ("on_period", "mid-cycle"). Empty input means opted out.
func ParseCyclePhase(s string) (CyclePhase, error) {
	norm := normalizeTag(s)
	if norm == "" {
		return CyclePhaseNone, nil
	}
	for _, p := range CyclePhases {
		if normalizeTag(string(p)) == norm {
			return p, nil
		}
	}
	return CyclePhaseNone, ErrUnknownCyclePhase
}

type Interest string

const (
	InterestMusic            Interest = "Music"
	InterestReading          Interest = "Reading"
	InterestJournaling       Interest = "Journaling"
	InterestPhysicalActivity Interest = "Physical Activity"
	InterestMeditation       Interest = "Meditation"
	InterestArt              Interest = "Art"
	InterestGaming           Interest = "Gaming"
	InterestTalkingToFriends Interest = "Talking to Friends"
)

// Interests is the fixed vocabulary offered during onboarding.
var Interests = []Interest{
	InterestMusic,
	InterestReading,
	InterestJournaling,
	InterestPhysicalActivity,
	InterestMeditation,
	InterestArt,
	InterestGaming,
	InterestTalkingToFriends,
}

const (
	MaxInterests = 3
	MinInterests = 2
)

func (i Interest) Valid() bool {
	for _, known := range Interests {
		if i == known {
			return true
		}
	}
	return false
}

func ParseInterest(s string) (Interest, error) {
	norm := normalizeTag(s)
	for _, i := range Interests {
		if normalizeTag(string(i)) == norm {
			return i, nil
		}
	}
	return "", ErrUnknownInterest
}

// ContainsInterest reports whether target is among interests.
func ContainsInterest(interests []Interest, target Interest) bool {
	for _, i := range interests {
		if i == target {
			return true
		}
	}
	return false
}

func normalizeTag(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", " ", "-", " ").Replace(s)
}
