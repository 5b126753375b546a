package interfaces

import (
	"context"

	"stallfinder/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	Delete(ctx context.Context, id primitive.ObjectID) error

	// GetByBathroomID returns all reviews for a bathroom, newest first.
	GetByBathroomID(ctx context.Context, bathroomID primitive.ObjectID) ([]*models.Review, error)

	// GetByUserEmail returns a user's reviews, newest first. When
	// includeAnonymous is false, anonymous reviews are filtered out at the
	// query level so they never reach another viewer.
	GetByUserEmail(ctx context.Context, email string, includeAnonymous bool) ([]*models.Review, error)
}
