package token

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// tokenPattern accepts URL-safe tokens between 32 and 64 characters. The
// bundle endpoint validates inbound tokens against this before touching the
// store.
var tokenPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{32,64}$`)

const maxCollisionRetries = 10

// Valid reports whether a candidate string is token-shaped.
func Valid(token string) bool {
	return tokenPattern.MatchString(token)
}

// ExistsFunc answers whether a token is already taken.
type ExistsFunc func(ctx context.Context, token string) (bool, error)

// Generator mints URL-safe subscription tokens.
type Generator interface {
	// Generate returns a fresh token not present in the store, retrying on
	// collision up to ten times.
	Generate(ctx context.Context, exists ExistsFunc) (string, error)
}

type uuidGenerator struct{}

func NewGenerator() Generator {
	return &uuidGenerator{}
}

func (g *uuidGenerator) Generate(ctx context.Context, exists ExistsFunc) (string, error) {
	for attempt := 0; attempt < maxCollisionRetries; attempt++ {
		candidate := strings.ReplaceAll(uuid.NewString(), "-", "")

		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check token uniqueness: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique token after %d attempts", maxCollisionRetries)
}
