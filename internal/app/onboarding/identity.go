// Package onboarding covers the two steps a user goes through before the
// first reflection: an anonymous email-based identity and the choice of
// 2 to 3 interests.
package onboarding

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/PabloGalante/mindecho/internal/domain"
)

var (
	adjectives = []string{"Serene", "Calm", "Bright", "Silent", "Deep", "Mindful"}
	nouns      = []string{"Echo", "Star", "River", "Bloom", "Cloud", "Spirit"}
)

// ValidateEmail only checks the shape of the address; there is no account behind it.
func ValidateEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return "", domain.ErrInvalidEmail
	}
	return email, nil
}

// GenerateUsername returns e.g. "SereneRiver42". The number is in [0, 99).
func GenerateUsername(r *rand.Rand) string {
	if r == nil {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	adj := adjectives[r.IntN(len(adjectives))]
	noun := nouns[r.IntN(len(nouns))]
	return fmt.Sprintf("%s%s%d", adj, noun, r.IntN(99))
}

// NewIdentity validates email and attaches a generated username.
func NewIdentity(email string, r *rand.Rand) (domain.Identity, error) {
	email, err := ValidateEmail(email)
	if err != nil {
		return domain.Identity{}, err
	}
	return domain.Identity{
		Email:    email,
		Username: GenerateUsername(r),
	}, nil
}
