package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UsageCount is keyed by the composite document id "<userID>_<bathroomID>".
// The sum of Count across all usage docs for a bathroom equals that
// bathroom's TotalUses; LogVisit maintains both inside one transaction.
type UsageCount struct {
	ID         string             `json:"id" bson:"_id"`
	UserID     string             `json:"user_id" bson:"user_id"`
	BathroomID primitive.ObjectID `json:"bathroom_id" bson:"bathroom_id"`
	Count      int                `json:"count" bson:"count"`
	LastUsed   time.Time          `json:"last_used" bson:"last_used"`
	Logs       []UsageLog         `json:"logs" bson:"logs"`
}

// UsageLog is one visit event embedded in a UsageCount document.
type UsageLog struct {
	ID         string             `json:"id" bson:"id"`
	BathroomID primitive.ObjectID `json:"bathroom_id" bson:"bathroom_id"`
	Timestamp  time.Time          `json:"timestamp" bson:"timestamp"`
}

// Visit is the flattened view of a single UsageLog for history listings.
type Visit struct {
	ID         string             `json:"id"`
	UserID     string             `json:"user_id"`
	BathroomID primitive.ObjectID `json:"bathroom_id"`
	Timestamp  time.Time          `json:"timestamp"`
}

func UsageDocID(userID string, bathroomID primitive.ObjectID) string {
	return userID + "_" + bathroomID.Hex()
}
