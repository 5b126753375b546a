package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Favorite existence is the whole payload; the doc id is
// "<userID>_<bathroomID>" so favoriting is naturally idempotent.
type Favorite struct {
	ID         string             `json:"id" bson:"_id"`
	UserID     string             `json:"user_id" bson:"user_id"`
	BathroomID primitive.ObjectID `json:"bathroom_id" bson:"bathroom_id"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

func FavoriteDocID(userID string, bathroomID primitive.ObjectID) string {
	return userID + "_" + bathroomID.Hex()
}
