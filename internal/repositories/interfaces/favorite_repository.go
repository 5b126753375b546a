package interfaces

import (
	"context"

	"stallfinder/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FavoriteRepository interface {
	Set(ctx context.Context, userID string, bathroomID primitive.ObjectID) error
	Remove(ctx context.Context, userID string, bathroomID primitive.ObjectID) error
	Exists(ctx context.Context, userID string, bathroomID primitive.ObjectID) (bool, error)
	GetByUser(ctx context.Context, userID string) ([]*models.Favorite, error)
}
