package services

import (
	"context"
	"errors"
	"fmt"

	"stallfinder/internal/models"
	"stallfinder/internal/repositories/interfaces"
	"stallfinder/internal/utils"
	"stallfinder/pkg/logger"
	"stallfinder/pkg/oauth"
)

// IdentityVerifier checks a provider ID token and returns the verified
// identity claims.
type IdentityVerifier interface {
	Verify(ctx context.Context, provider, idToken string) (*oauth.Identity, error)
}

// CodeExchanger completes a browser authorization-code flow. A nil
// exchanger disables web sign-in.
type CodeExchanger interface {
	AuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*oauth.Identity, error)
}

type AuthService interface {
	SocialLogin(ctx context.Context, request *SocialLoginRequest) (*AuthResponse, error)
	WebLoginURL(state string) (string, error)
	CompleteWebLogin(ctx context.Context, code string) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)
	Logout(ctx context.Context, user *models.User) error
	CurrentUser(ctx context.Context, userID string) (*models.User, error)
}

type SocialLoginRequest struct {
	Provider string `json:"provider" validate:"required,oneof=google apple"`
	IDToken  string `json:"id_token" validate:"required"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

type AuthResponse struct {
	User   *models.User     `json:"user"`
	Tokens *utils.TokenPair `json:"tokens"`
	IsNew  bool             `json:"is_new"`
}

type authService struct {
	userRepo  interfaces.UserRepository
	verifier  IdentityVerifier
	webFlow   CodeExchanger
	cache     CacheService
	jwtSecret string
	logger    *logger.Logger
	audit     *logger.AuditLogger
}

func NewAuthService(
	userRepo interfaces.UserRepository,
	verifier IdentityVerifier,
	webFlow CodeExchanger,
	cache CacheService,
	jwtSecret string,
	log *logger.Logger,
) AuthService {
	return &authService{
		userRepo:  userRepo,
		verifier:  verifier,
		webFlow:   webFlow,
		cache:     cache,
		jwtSecret: jwtSecret,
		logger:    log,
		audit:     logger.NewAuditLogger(log),
	}
}

// SocialLogin verifies the provider token and gets or creates the user
// keyed by the provider UID. Apple withholds email and name on repeat
// sign-ins, so missing fields fall back to stored values or
// placeholders rather than overwriting good data.
func (s *authService) SocialLogin(ctx context.Context, request *SocialLoginRequest) (*AuthResponse, error) {
	identity, err := s.verifier.Verify(ctx, request.Provider, request.IDToken)
	if err != nil {
		s.audit.LogAuthEvent("login", "", request.Provider, false)
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	return s.loginIdentity(ctx, identity, request.Provider, request.Email, request.FullName)
}

// WebLoginURL returns the provider consent page URL for browser
// clients going through the authorization-code flow.
func (s *authService) WebLoginURL(state string) (string, error) {
	if s.webFlow == nil {
		return "", fmt.Errorf("%w: web sign-in is not configured", ErrInvalidInput)
	}

	return s.webFlow.AuthURL(state), nil
}

// CompleteWebLogin trades the callback's authorization code for a
// verified identity and signs that user in.
func (s *authService) CompleteWebLogin(ctx context.Context, code string) (*AuthResponse, error) {
	if s.webFlow == nil {
		return nil, fmt.Errorf("%w: web sign-in is not configured", ErrInvalidInput)
	}

	identity, err := s.webFlow.ExchangeCode(ctx, code)
	if err != nil {
		s.audit.LogAuthEvent("login", "", "google", false)
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	return s.loginIdentity(ctx, identity, identity.Provider, "", "")
}

func (s *authService) loginIdentity(ctx context.Context, identity *oauth.Identity, provider, fallbackEmail, fallbackName string) (*AuthResponse, error) {
	email := identity.Email
	if email == "" {
		email = fallbackEmail
	}
	fullName := identity.FullName
	if fullName == "" {
		fullName = fallbackName
	}

	user, err := s.userRepo.GetByID(ctx, identity.UID)
	switch {
	case err == nil:
		if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
			s.logger.WithError(err).WithUserID(user.ID).Warn("Failed to update last login")
		}

	case errors.Is(err, interfaces.ErrNotFound):
		if email == "" {
			email = utils.PlaceholderEmail
		}
		if fullName == "" {
			fullName = utils.PlaceholderName
		}

		user = &models.User{
			ID:           identity.UID,
			AuthProvider: models.AuthProvider(provider),
			Email:        email,
			FullName:     fullName,
			DisplayName:  fullName,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}

		s.logger.WithUserID(user.ID).WithField("provider", provider).Info("User created on first sign-in")
		s.audit.LogAuthEvent("signup", user.ID, provider, true)

		tokens, err := s.issueTokens(ctx, user)
		if err != nil {
			return nil, err
		}
		return &AuthResponse{User: user, Tokens: tokens, IsNew: true}, nil

	default:
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.audit.LogAuthEvent("login", user.ID, provider, true)

	return &AuthResponse{User: user, Tokens: tokens}, nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := utils.ValidateToken(refreshToken, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	if s.cache != nil {
		stored, err := s.cache.Get(ctx, utils.CacheTokenPrefix+claims.UserID)
		if err != nil || stored != refreshToken {
			s.audit.LogAuthEvent("refresh", claims.UserID, "", false)
			return nil, fmt.Errorf("%w: refresh token revoked", ErrUnauthenticated)
		}
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown user", ErrUnauthenticated)
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{User: user, Tokens: tokens}, nil
}

func (s *authService) Logout(ctx context.Context, user *models.User) error {
	if user == nil {
		return ErrUnauthenticated
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, utils.CacheTokenPrefix+user.ID); err != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}

	s.audit.LogAuthEvent("logout", user.ID, string(user.AuthProvider), true)
	return nil
}

func (s *authService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown user", ErrUnauthenticated)
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return user, nil
}

func (s *authService) issueTokens(ctx context.Context, user *models.User) (*utils.TokenPair, error) {
	tokens, err := utils.GenerateTokenPair(user.ID, user.Email, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, utils.CacheTokenPrefix+user.ID, tokens.RefreshToken, utils.JWTRefreshTokenTTL); err != nil {
			s.logger.WithError(err).WithUserID(user.ID).Warn("Failed to store refresh token")
		}
	}

	return tokens, nil
}
