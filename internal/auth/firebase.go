package auth

import (
	"context"
	"fmt"
	"path/filepath"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"roofline/server/internal/config"
)

// FirebaseVerifier verifies Firebase ID tokens using the Admin SDK.
type FirebaseVerifier struct {
	authClient *fbauth.Client
}

// NewFirebaseVerifier initializes the Firebase Admin SDK from the service
// account credentials named in the config.
func NewFirebaseVerifier(cfg *config.Config) (*FirebaseVerifier, error) {
	if cfg.FirebaseCredentialsFile == "" {
		return nil, fmt.Errorf("firebase credentials file is required")
	}

	opt := option.WithCredentialsFile(filepath.Clean(cfg.FirebaseCredentialsFile))

	var app *firebase.App
	var err error
	if cfg.FirebaseProjectID != "" {
		app, err = firebase.NewApp(context.Background(), &firebase.Config{ProjectID: cfg.FirebaseProjectID}, opt)
	} else {
		// Let the SDK infer the project from the credentials.
		app, err = firebase.NewApp(context.Background(), nil, opt)
	}
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	authClient, err := app.Auth(context.Background())
	if err != nil {
		return nil, fmt.Errorf("error getting Firebase Auth client: %w", err)
	}

	return &FirebaseVerifier{authClient: authClient}, nil
}

// Verify checks a Firebase ID token and resolves the principal's email.
func (v *FirebaseVerifier) Verify(ctx context.Context, rawToken string) (*Claims, error) {
	if rawToken == "" {
		return nil, fmt.Errorf("%w: empty token", ErrTokenInvalid)
	}

	token, err := v.authClient.VerifyIDToken(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims := &Claims{UID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		claims.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		claims.Name = name
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("%w: token carries no email claim", ErrTokenInvalid)
	}
	return claims, nil
}
