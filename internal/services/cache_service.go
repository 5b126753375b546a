package services

import (
	"context"
	"time"
)

// CacheService is the slice of the Redis client the services need.
// Passing nil disables caching without changing any code path.
type CacheService interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
}
