package mongodb

import (
	"context"
	"fmt"
	"time"

	"stallfinder/internal/models"
	"stallfinder/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type favoriteRepository struct {
	collection *mongo.Collection
}

func NewFavoriteRepository(db *mongo.Database) interfaces.FavoriteRepository {
	return &favoriteRepository{
		collection: db.Collection("favorites"),
	}
}

// Set is an upsert so marking an already-favorited bathroom is a no-op.
func (r *favoriteRepository) Set(ctx context.Context, userID string, bathroomID primitive.ObjectID) error {
	favorite := models.Favorite{
		ID:         models.FavoriteDocID(userID, bathroomID),
		UserID:     userID,
		BathroomID: bathroomID,
		CreatedAt:  time.Now(),
	}

	_, err := r.collection.ReplaceOne(
		ctx,
		bson.M{"_id": favorite.ID},
		favorite,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to set favorite: %w", err)
	}

	return nil
}

func (r *favoriteRepository) Remove(ctx context.Context, userID string, bathroomID primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": models.FavoriteDocID(userID, bathroomID)})
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}

	return nil
}

func (r *favoriteRepository) Exists(ctx context.Context, userID string, bathroomID primitive.ObjectID) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": models.FavoriteDocID(userID, bathroomID)})
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}

	return count > 0, nil
}

func (r *favoriteRepository) GetByUser(ctx context.Context, userID string) ([]*models.Favorite, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find favorites: %w", err)
	}
	defer cursor.Close(ctx)

	var favorites []*models.Favorite
	for cursor.Next(ctx) {
		var favorite models.Favorite
		if err := cursor.Decode(&favorite); err != nil {
			return nil, fmt.Errorf("failed to decode favorite: %w", err)
		}
		favorites = append(favorites, &favorite)
	}

	return favorites, nil
}
