package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Gender string

const (
	GenderUnisex    Gender = "Unisex"
	GenderMale      Gender = "Male"
	GenderFemale    Gender = "Female"
	GenderAllGender Gender = "All Gender"
)

// GeoPoint is the stored lat/lon pair for a bathroom.
type GeoPoint struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

// Bathroom carries denormalized rating/usage aggregates. AverageRating and
// TotalReviews are always recomputed together from the review set, never
// updated independently.
type Bathroom struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name" validate:"required,max=100"`
	BuildingName  string             `json:"building_name" bson:"building_name"`
	Floor         int                `json:"floor" bson:"floor"`
	Location      GeoPoint           `json:"location" bson:"location"`
	Gender        Gender             `json:"gender" bson:"gender"`
	AverageRating float64            `json:"average_rating" bson:"average_rating"`
	TotalReviews  int                `json:"total_reviews" bson:"total_reviews"`
	TotalUses     int                `json:"total_uses" bson:"total_uses"`
	ImageURL      string             `json:"image_url,omitempty" bson:"image_url,omitempty"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}
