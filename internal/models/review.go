package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Review struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	BathroomID  primitive.ObjectID `json:"bathroom_id" bson:"bathroom_id"`
	UserID      string             `json:"user_id" bson:"user_id"`
	UserEmail   string             `json:"user_email" bson:"user_email"`
	Rating      float64            `json:"rating" bson:"rating" validate:"required,min=1,max=5"`
	Comment     string             `json:"comment" bson:"comment"`
	IsAnonymous bool               `json:"is_anonymous" bson:"is_anonymous"`
	ImageURL    string             `json:"image_url,omitempty" bson:"image_url,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

// DisplayName returns what a viewer should see as the review author.
// Anonymous reviews never leak the author's email.
func (r *Review) DisplayName() string {
	if r.IsAnonymous {
		return "Anonymous"
	}
	return r.UserEmail
}
