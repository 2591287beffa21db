package auth

import (
	"context"
	"errors"
)

// ErrTokenInvalid is returned when a credential is present but fails
// verification against the identity provider.
var ErrTokenInvalid = errors.New("token verification failed")

// Claims is the authenticated principal resolved from a bearer credential.
type Claims struct {
	Email string
	Name  string
	UID   string
}

// TokenVerifier verifies a raw bearer credential and resolves it to the
// authenticated principal. Implementations: Firebase (production) and a
// local HS256 verifier for MOCK_SERVICES runs and tests.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*Claims, error)
}
