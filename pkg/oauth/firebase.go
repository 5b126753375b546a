package oauth

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// FirebaseVerifier validates Firebase Auth ID tokens. Mobile clients
// that sign in through Firebase (Google or Apple upstream) present
// these instead of raw provider tokens.
type FirebaseVerifier struct {
	client *auth.Client
}

func NewFirebaseVerifier(ctx context.Context, credentialsFile string) (*FirebaseVerifier, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth client: %w", err)
	}

	return &FirebaseVerifier{client: client}, nil
}

func (f *FirebaseVerifier) VerifyIDToken(ctx context.Context, idToken string) (*Identity, error) {
	token, err := f.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify firebase token: %w", err)
	}

	identity := &Identity{
		UID:      token.UID,
		Provider: "firebase",
	}

	if email, ok := token.Claims["email"].(string); ok {
		identity.Email = email
	}
	identity.EmailVerified = boolClaim(token.Claims["email_verified"])
	if name, ok := token.Claims["name"].(string); ok {
		identity.FullName = name
	}
	if picture, ok := token.Claims["picture"].(string); ok {
		identity.Picture = picture
	}

	return identity, nil
}
