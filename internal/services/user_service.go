package services

import (
	"context"
	"errors"
	"fmt"

	"stallfinder/internal/models"
	"stallfinder/internal/repositories/interfaces"
	"stallfinder/pkg/logger"
)

type UserService interface {
	GetProfile(ctx context.Context, user *models.User) (*models.User, error)
	PublicProfile(ctx context.Context, viewer *models.User, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User, request *UpdateProfileRequest) (*models.User, error)
	SetProfilePrivacy(ctx context.Context, user *models.User, private bool) error
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name" validate:"omitempty,max=100"`
	FullName    *string `json:"full_name" validate:"omitempty,max=100"`
}

type userService struct {
	userRepo interfaces.UserRepository
	logger   *logger.Logger
	audit    *logger.AuditLogger
}

func NewUserService(userRepo interfaces.UserRepository, log *logger.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		logger:   log,
		audit:    logger.NewAuditLogger(log),
	}
}

func (s *userService) GetProfile(ctx context.Context, user *models.User) (*models.User, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}

	return user, nil
}

// PublicProfile looks up another user's profile by email. A profile
// marked private is visible only to its owner.
func (s *userService) PublicProfile(ctx context.Context, viewer *models.User, email string) (*models.User, error) {
	target, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, email)
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if target.IsProfilePrivate && (viewer == nil || viewer.ID != target.ID) {
		return nil, fmt.Errorf("%w: profile is private", ErrForbidden)
	}

	return target, nil
}

func (s *userService) UpdateProfile(ctx context.Context, user *models.User, request *UpdateProfileRequest) (*models.User, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}

	updates := map[string]interface{}{}
	if request.DisplayName != nil {
		updates["display_name"] = *request.DisplayName
	}
	if request.FullName != nil {
		updates["full_name"] = *request.FullName
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}

	if err := s.userRepo.Update(ctx, user.ID, updates); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, user.ID)
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	updated, err := s.userRepo.GetByID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	changed := make([]string, 0, len(updates))
	for field := range updates {
		changed = append(changed, field)
	}
	s.audit.LogProfileChange(user.ID, changed)

	return updated, nil
}

func (s *userService) SetProfilePrivacy(ctx context.Context, user *models.User, private bool) error {
	if user == nil {
		return ErrUnauthenticated
	}

	err := s.userRepo.Update(ctx, user.ID, map[string]interface{}{"is_profile_private": private})
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return fmt.Errorf("%w: user %s", ErrNotFound, user.ID)
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	s.logger.WithUserID(user.ID).WithField("private", private).Info("Profile privacy updated")
	s.audit.LogProfileChange(user.ID, []string{"is_profile_private"})
	return nil
}
