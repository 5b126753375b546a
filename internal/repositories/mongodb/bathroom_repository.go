package mongodb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"stallfinder/internal/models"
	"stallfinder/internal/repositories/interfaces"
	"stallfinder/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type bathroomRepository struct {
	collection *mongo.Collection
	cache      CacheService
}

func NewBathroomRepository(db *mongo.Database, cache CacheService) interfaces.BathroomRepository {
	return &bathroomRepository{
		collection: db.Collection("bathrooms"),
		cache:      cache,
	}
}

func (r *bathroomRepository) Create(ctx context.Context, bathroom *models.Bathroom) error {
	bathroom.ID = primitive.NewObjectID()
	bathroom.CreatedAt = time.Now()
	bathroom.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, bathroom)
	if err != nil {
		return fmt.Errorf("failed to create bathroom: %w", err)
	}

	return nil
}

func (r *bathroomRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Bathroom, error) {
	// Try cache first
	cacheKey := utils.CacheBathroomPrefix + id.Hex()
	if r.cache != nil {
		if cached, err := r.cache.Get(ctx, cacheKey); err == nil {
			var bathroom models.Bathroom
			if err := json.Unmarshal([]byte(cached), &bathroom); err == nil {
				return &bathroom, nil
			}
		}
	}

	var bathroom models.Bathroom
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&bathroom)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("bathroom %s: %w", id.Hex(), interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get bathroom: %w", err)
	}

	if r.cache != nil {
		if data, err := json.Marshal(bathroom); err == nil {
			r.cache.Set(ctx, cacheKey, string(data), 5*time.Minute)
		}
	}

	return &bathroom, nil
}

func (r *bathroomRepository) GetAll(ctx context.Context) ([]*models.Bathroom, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find bathrooms: %w", err)
	}
	defer cursor.Close(ctx)

	var bathrooms []*models.Bathroom
	for cursor.Next(ctx) {
		var bathroom models.Bathroom
		if err := cursor.Decode(&bathroom); err != nil {
			return nil, fmt.Errorf("failed to decode bathroom: %w", err)
		}
		bathrooms = append(bathrooms, &bathroom)
	}

	return bathrooms, nil
}

func (r *bathroomRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update bathroom: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("bathroom %s: %w", id.Hex(), interfaces.ErrNotFound)
	}

	r.invalidateCache(ctx, id)

	return nil
}

func (r *bathroomRepository) SetAggregates(ctx context.Context, id primitive.ObjectID, averageRating float64, totalReviews int) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"average_rating": averageRating,
			"total_reviews":  totalReviews,
			"updated_at":     time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update bathroom aggregates: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("bathroom %s: %w", id.Hex(), interfaces.ErrNotFound)
	}

	r.invalidateCache(ctx, id)

	return nil
}

func (r *bathroomRepository) invalidateCache(ctx context.Context, id primitive.ObjectID) {
	if r.cache != nil {
		r.cache.Delete(ctx, utils.CacheBathroomPrefix+id.Hex())
	}
}
