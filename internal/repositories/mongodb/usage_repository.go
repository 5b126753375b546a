package mongodb

import (
	"context"
	"fmt"
	"time"

	"stallfinder/internal/models"
	"stallfinder/internal/repositories/interfaces"
	"stallfinder/internal/utils"
	"stallfinder/pkg/database"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type usageRepository struct {
	usage     *mongo.Collection
	bathrooms *mongo.Collection
	db        *database.MongoDB
	cache     CacheService
}

// NewUsageRepository needs the whole database handle because IncrementVisit
// updates the usage document and the bathroom counter inside one transaction.
func NewUsageRepository(db *database.MongoDB, cache CacheService) interfaces.UsageRepository {
	return &usageRepository{
		usage:     db.Collection("usage"),
		bathrooms: db.Collection("bathrooms"),
		db:        db,
		cache:     cache,
	}
}

func (r *usageRepository) IncrementVisit(ctx context.Context, bathroomID primitive.ObjectID, userID string) (*models.UsageCount, error) {
	docID := models.UsageDocID(userID, bathroomID)

	result, err := r.db.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		now := time.Now()

		var usage models.UsageCount
		err := r.usage.FindOne(sessCtx, bson.M{"_id": docID}).Decode(&usage)
		if err == mongo.ErrNoDocuments {
			usage = models.UsageCount{
				ID:         docID,
				UserID:     userID,
				BathroomID: bathroomID,
			}
		} else if err != nil {
			return nil, fmt.Errorf("failed to get usage count: %w", err)
		}

		usage.Count++
		usage.LastUsed = now
		usage.Logs = append(usage.Logs, models.UsageLog{
			ID:         uuid.NewString(),
			BathroomID: bathroomID,
			Timestamp:  now,
		})

		_, err = r.usage.ReplaceOne(sessCtx, bson.M{"_id": docID}, usage, options.Replace().SetUpsert(true))
		if err != nil {
			return nil, fmt.Errorf("failed to write usage count: %w", err)
		}

		updateResult, err := r.bathrooms.UpdateOne(
			sessCtx,
			bson.M{"_id": bathroomID},
			bson.M{
				"$inc": bson.M{"total_uses": 1},
				"$set": bson.M{"updated_at": now},
			},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to increment bathroom total uses: %w", err)
		}
		if updateResult.MatchedCount == 0 {
			return nil, fmt.Errorf("bathroom %s: %w", bathroomID.Hex(), interfaces.ErrNotFound)
		}

		return &usage, nil
	})
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		r.cache.Delete(ctx, utils.CacheBathroomPrefix+bathroomID.Hex())
	}

	return result.(*models.UsageCount), nil
}

func (r *usageRepository) Get(ctx context.Context, id string) (*models.UsageCount, error) {
	var usage models.UsageCount
	err := r.usage.FindOne(ctx, bson.M{"_id": id}).Decode(&usage)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("usage %s: %w", id, interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get usage count: %w", err)
	}

	return &usage, nil
}

func (r *usageRepository) GetByUser(ctx context.Context, userID string) ([]*models.UsageCount, error) {
	cursor, err := r.usage.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to find usage counts: %w", err)
	}
	defer cursor.Close(ctx)

	var counts []*models.UsageCount
	for cursor.Next(ctx) {
		var usage models.UsageCount
		if err := cursor.Decode(&usage); err != nil {
			return nil, fmt.Errorf("failed to decode usage count: %w", err)
		}
		counts = append(counts, &usage)
	}

	return counts, nil
}

func (r *usageRepository) TotalUserUses(ctx context.Context, userID string) (int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$count"},
		}}},
	}

	cursor, err := r.usage.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to sum usage counts: %w", err)
	}
	defer cursor.Close(ctx)

	var result struct {
		Total int `bson:"total"`
	}

	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, fmt.Errorf("failed to decode usage total: %w", err)
		}
	}

	return result.Total, nil
}
