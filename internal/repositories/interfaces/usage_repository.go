package interfaces

import (
	"context"

	"stallfinder/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UsageRepository interface {
	// IncrementVisit bumps the (user, bathroom) usage counter and the
	// bathroom's total_uses inside one transaction, appending a visit log
	// entry. Returns the usage document after the increment.
	IncrementVisit(ctx context.Context, bathroomID primitive.ObjectID, userID string) (*models.UsageCount, error)

	Get(ctx context.Context, id string) (*models.UsageCount, error)
	GetByUser(ctx context.Context, userID string) ([]*models.UsageCount, error)
	TotalUserUses(ctx context.Context, userID string) (int, error)
}
