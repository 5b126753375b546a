package models

import "time"

type AuthProvider string

const (
	AuthProviderGoogle AuthProvider = "google"
	AuthProviderApple  AuthProvider = "apple"
)

// User documents are keyed by the identity provider's stable UID, so the
// document id is a string rather than an ObjectID. Users are created once on
// first sign-in and never deleted.
type User struct {
	ID               string       `json:"id" bson:"_id"`
	AuthProvider     AuthProvider `json:"auth_provider" bson:"auth_provider"`
	Email            string       `json:"email" bson:"email"`
	FullName         string       `json:"full_name" bson:"full_name"`
	DisplayName      string       `json:"display_name" bson:"display_name"`
	IsProfilePrivate bool         `json:"is_profile_private" bson:"is_profile_private"`
	CreatedAt        time.Time    `json:"created_at" bson:"created_at"`
	LastLoginAt      time.Time    `json:"last_login_at" bson:"last_login_at"`
}
