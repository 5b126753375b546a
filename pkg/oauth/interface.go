package oauth

import (
	"context"
	"fmt"
)

// Identity is the verified result of a provider ID token check. UID is
// the provider's stable subject identifier and keys the user document.
type Identity struct {
	UID           string `json:"uid"`
	Provider      string `json:"provider"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	FullName      string `json:"full_name"`
	Picture       string `json:"picture"`
}

// TokenVerifier validates a raw ID token for a single provider.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*Identity, error)
}

// VerifierMux routes verification requests by provider name.
type VerifierMux struct {
	verifiers map[string]TokenVerifier
}

func NewVerifierMux() *VerifierMux {
	return &VerifierMux{
		verifiers: make(map[string]TokenVerifier),
	}
}

func (m *VerifierMux) Register(provider string, verifier TokenVerifier) {
	m.verifiers[provider] = verifier
}

func (m *VerifierMux) Verify(ctx context.Context, provider, idToken string) (*Identity, error) {
	verifier, ok := m.verifiers[provider]
	if !ok {
		return nil, fmt.Errorf("unsupported identity provider: %s", provider)
	}

	identity, err := verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}

	identity.Provider = provider
	return identity, nil
}
