package mongodb

import (
	"context"
	"time"
)

// CacheService is the slice of the redis cache the repositories use.
// Passing nil disables caching entirely.
type CacheService interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
}
