package services_test

import (
	"context"
	"errors"
	"testing"

	"stallfinder/internal/models"
	"stallfinder/internal/services"
	"stallfinder/internal/utils"
	"stallfinder/pkg/oauth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newAuthFixture(t *testing.T, verifier *fakeVerifier) (services.AuthService, *fakeUserRepo, *fakeCache) {
	t.Helper()
	userRepo := newFakeUserRepo()
	cache := newFakeCache()
	service := services.NewAuthService(userRepo, verifier, nil, cache, testSecret, newTestLogger(t))
	return service, userRepo, cache
}

func newWebAuthFixture(t *testing.T, exchanger *fakeExchanger) (services.AuthService, *fakeUserRepo) {
	t.Helper()
	userRepo := newFakeUserRepo()
	service := services.NewAuthService(userRepo, &fakeVerifier{err: errors.New("unused")}, exchanger, newFakeCache(), testSecret, newTestLogger(t))
	return service, userRepo
}

func TestSocialLoginCreatesUserOnFirstSignIn(t *testing.T) {
	verifier := &fakeVerifier{identity: &oauth.Identity{
		UID:      "google-uid-1",
		Email:    "alice@campus.edu",
		FullName: "Alice Liddell",
	}}
	service, userRepo, cache := newAuthFixture(t, verifier)

	response, err := service.SocialLogin(context.Background(), &services.SocialLoginRequest{
		Provider: "google",
		IDToken:  "token",
	})
	require.NoError(t, err)

	assert.True(t, response.IsNew)
	assert.Equal(t, "google-uid-1", response.User.ID)
	assert.Equal(t, models.AuthProviderGoogle, response.User.AuthProvider)
	assert.Equal(t, "alice@campus.edu", response.User.Email)
	assert.Equal(t, "Alice Liddell", response.User.FullName)
	require.NotNil(t, response.Tokens)
	assert.NotEmpty(t, response.Tokens.AccessToken)

	// The refresh token is stored for later revocation.
	stored, err := cache.Get(context.Background(), utils.CacheTokenPrefix+"google-uid-1")
	require.NoError(t, err)
	assert.Equal(t, response.Tokens.RefreshToken, stored)

	_, err = userRepo.GetByID(context.Background(), "google-uid-1")
	assert.NoError(t, err)
}

func TestSocialLoginUsesPlaceholdersWhenIdentityWithholdsFields(t *testing.T) {
	verifier := &fakeVerifier{identity: &oauth.Identity{UID: "apple-uid-1"}}
	service, _, _ := newAuthFixture(t, verifier)

	response, err := service.SocialLogin(context.Background(), &services.SocialLoginRequest{
		Provider: "apple",
		IDToken:  "token",
	})
	require.NoError(t, err)

	assert.True(t, response.IsNew)
	assert.Equal(t, utils.PlaceholderEmail, response.User.Email)
	assert.Equal(t, utils.PlaceholderName, response.User.FullName)
}

func TestSocialLoginFallsBackToRequestFields(t *testing.T) {
	// Apple only sends email and name through the client on the first
	// authorization, so the request body can fill what the token lacks.
	verifier := &fakeVerifier{identity: &oauth.Identity{UID: "apple-uid-2"}}
	service, _, _ := newAuthFixture(t, verifier)

	response, err := service.SocialLogin(context.Background(), &services.SocialLoginRequest{
		Provider: "apple",
		IDToken:  "token",
		Email:    "bob@campus.edu",
		FullName: "Bob Tables",
	})
	require.NoError(t, err)
	assert.Equal(t, "bob@campus.edu", response.User.Email)
	assert.Equal(t, "Bob Tables", response.User.FullName)
}

func TestSocialLoginRepeatKeepsStoredProfile(t *testing.T) {
	verifier := &fakeVerifier{identity: &oauth.Identity{
		UID:      "apple-uid-3",
		Email:    "carol@campus.edu",
		FullName: "Carol Danvers",
	}}
	service, userRepo, _ := newAuthFixture(t, verifier)
	ctx := context.Background()

	first, err := service.SocialLogin(ctx, &services.SocialLoginRequest{Provider: "apple", IDToken: "token"})
	require.NoError(t, err)
	require.True(t, first.IsNew)

	// Repeat sign-in without email or name must not wipe the profile.
	verifier.identity = &oauth.Identity{UID: "apple-uid-3"}
	second, err := service.SocialLogin(ctx, &services.SocialLoginRequest{Provider: "apple", IDToken: "token"})
	require.NoError(t, err)

	assert.False(t, second.IsNew)
	assert.Equal(t, "carol@campus.edu", second.User.Email)
	assert.Equal(t, "Carol Danvers", second.User.FullName)

	stored, err := userRepo.GetByID(ctx, "apple-uid-3")
	require.NoError(t, err)
	assert.Equal(t, "carol@campus.edu", stored.Email)
}

func TestSocialLoginRejectsBadToken(t *testing.T) {
	verifier := &fakeVerifier{err: errors.New("signature mismatch")}
	service, _, _ := newAuthFixture(t, verifier)

	_, err := service.SocialLogin(context.Background(), &services.SocialLoginRequest{Provider: "google", IDToken: "bogus"})
	assert.ErrorIs(t, err, services.ErrUnauthenticated)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	verifier := &fakeVerifier{identity: &oauth.Identity{UID: "google-uid-4", Email: "dan@campus.edu"}}
	service, _, _ := newAuthFixture(t, verifier)
	ctx := context.Background()

	login, err := service.SocialLogin(ctx, &services.SocialLoginRequest{Provider: "google", IDToken: "token"})
	require.NoError(t, err)

	refreshed, err := service.RefreshToken(ctx, login.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "google-uid-4", refreshed.User.ID)
	assert.NotEmpty(t, refreshed.Tokens.AccessToken)
}

func TestRefreshTokenAfterLogoutIsRevoked(t *testing.T) {
	verifier := &fakeVerifier{identity: &oauth.Identity{UID: "google-uid-5", Email: "eve@campus.edu"}}
	service, _, _ := newAuthFixture(t, verifier)
	ctx := context.Background()

	login, err := service.SocialLogin(ctx, &services.SocialLoginRequest{Provider: "google", IDToken: "token"})
	require.NoError(t, err)

	require.NoError(t, service.Logout(ctx, login.User))

	_, err = service.RefreshToken(ctx, login.Tokens.RefreshToken)
	assert.ErrorIs(t, err, services.ErrUnauthenticated)
}

func TestRefreshTokenRejectsForgedToken(t *testing.T) {
	verifier := &fakeVerifier{identity: &oauth.Identity{UID: "google-uid-6"}}
	service, _, _ := newAuthFixture(t, verifier)
	ctx := context.Background()

	_, err := service.SocialLogin(ctx, &services.SocialLoginRequest{Provider: "google", IDToken: "token"})
	require.NoError(t, err)

	forged, err := utils.GenerateTokenPair("google-uid-6", "", "wrong-secret")
	require.NoError(t, err)

	_, err = service.RefreshToken(ctx, forged.RefreshToken)
	assert.ErrorIs(t, err, services.ErrUnauthenticated)
}

func TestCurrentUserUnknownID(t *testing.T) {
	service, _, _ := newAuthFixture(t, &fakeVerifier{identity: &oauth.Identity{UID: "x"}})

	_, err := service.CurrentUser(context.Background(), "missing")
	assert.ErrorIs(t, err, services.ErrUnauthenticated)
}

func TestWebLoginDisabledWithoutFlow(t *testing.T) {
	service, _, _ := newAuthFixture(t, &fakeVerifier{err: errors.New("unused")})

	_, err := service.WebLoginURL("state-1")
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	_, err = service.CompleteWebLogin(context.Background(), "code")
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestWebLoginURLCarriesState(t *testing.T) {
	service, _ := newWebAuthFixture(t, &fakeExchanger{identity: &oauth.Identity{UID: "google-uid-7"}})

	url, err := service.WebLoginURL("state-1")
	require.NoError(t, err)
	assert.Contains(t, url, "state=state-1")
}

func TestCompleteWebLoginCreatesUser(t *testing.T) {
	service, userRepo := newWebAuthFixture(t, &fakeExchanger{identity: &oauth.Identity{
		UID:           "google-uid-8",
		Email:         "alice@campus.edu",
		EmailVerified: true,
		FullName:      "Alice Liddell",
	}})
	ctx := context.Background()

	response, err := service.CompleteWebLogin(ctx, "auth-code")
	require.NoError(t, err)
	assert.True(t, response.IsNew)
	assert.Equal(t, models.AuthProviderGoogle, response.User.AuthProvider)
	assert.NotEmpty(t, response.Tokens.AccessToken)

	stored, err := userRepo.GetByID(ctx, "google-uid-8")
	require.NoError(t, err)
	assert.Equal(t, "alice@campus.edu", stored.Email)

	again, err := service.CompleteWebLogin(ctx, "second-code")
	require.NoError(t, err)
	assert.False(t, again.IsNew)
}

func TestCompleteWebLoginBadCode(t *testing.T) {
	service, _ := newWebAuthFixture(t, &fakeExchanger{err: errors.New("invalid_grant")})

	_, err := service.CompleteWebLogin(context.Background(), "bad-code")
	assert.ErrorIs(t, err, services.ErrUnauthenticated)
}
