package interfaces

import (
	"context"

	"stallfinder/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BathroomRepository interface {
	Create(ctx context.Context, bathroom *models.Bathroom) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Bathroom, error)
	GetAll(ctx context.Context) ([]*models.Bathroom, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	// SetAggregates writes average_rating and total_reviews together; the
	// two fields are never updated independently.
	SetAggregates(ctx context.Context, id primitive.ObjectID, averageRating float64, totalReviews int) error
}
