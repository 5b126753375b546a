package utils

import "time"

// Application Constants
const (
	AppName    = "StallFinder"
	AppVersion = "1.0.0"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Authentication
	JWTAccessTokenTTL  = 24 * time.Hour
	JWTRefreshTokenTTL = 7 * 24 * time.Hour

	// Rating Constants
	MinRating = 1.0
	MaxRating = 5.0

	// Leaderboard Constants
	DefaultLeaderboardSize = 10
	DefaultMinReviews      = 1

	// Clustering
	DefaultClusterThresholdMeters = 25.0

	// Placeholders for missing identity-provider fields
	PlaceholderEmail = "No Email"
	PlaceholderName  = "Unknown"

	// File Upload
	MaxImageSize      = 5 * 1024 * 1024 // 5MB
	PhotoMaxDimension = 1600            // px, longest side after downscale
	JPEGQuality       = 85
)

// HTTP Status Messages
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error Messages
const (
	ErrInvalidToken     = "invalid token"
	ErrInvalidInput     = "invalid input"
	ErrInternalServer   = "internal server error"
	ErrUnauthorized     = "unauthorized"
	ErrForbidden        = "forbidden"
	ErrNotFound         = "not found"
	ErrValidationFailed = "validation failed"
)

// Cache Keys
const (
	CacheUserPrefix        = "user:"
	CacheBathroomPrefix    = "bathroom:"
	CacheLeaderboardPrefix = "leaderboard:"
	CacheTokenPrefix       = "token:"
)

// Geographic Constants
const (
	EarthRadiusKM     = 6371.0
	EarthRadiusMeters = 6371000.0
)

// File Types
var (
	AllowedImageTypes = []string{"jpg", "jpeg", "png", "gif", "webp"}
)
