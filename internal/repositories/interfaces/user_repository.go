package interfaces

import (
	"context"

	"stallfinder/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	UpdateLastLogin(ctx context.Context, id string) error
}
