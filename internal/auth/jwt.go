package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// localClaims defines the structure of locally issued HS256 token claims.
type localClaims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// LocalVerifier verifies HS256 tokens signed with a shared secret. It stands
// in for Firebase when MOCK_SERVICES=true, and lets middleware tests run
// without an external identity provider.
type LocalVerifier struct {
	secret string
}

// NewLocalVerifier creates a LocalVerifier with the given shared secret.
func NewLocalVerifier(secret string) *LocalVerifier {
	return &LocalVerifier{secret: secret}
}

// Verify parses and validates an HS256 token, returning the principal.
func (v *LocalVerifier) Verify(ctx context.Context, rawToken string) (*Claims, error) {
	claims := &localClaims{}

	token, err := jwt.ParseWithClaims(rawToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(v.secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("%w: token carries no email claim", ErrTokenInvalid)
	}

	return &Claims{Email: claims.Email, Name: claims.Name, UID: claims.Subject}, nil
}

// SignLocal issues an HS256 token for the given principal. Used by tests and
// local tooling; production tokens come from the identity provider.
func SignLocal(email, name, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &localClaims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   email,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
