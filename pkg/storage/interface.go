package storage

import (
	"context"
	"io"
	"time"
)

// Provider persists uploaded photos. Keys are forward-slash paths like
// "images/<user>/<name>" regardless of backend.
type Provider interface {
	Upload(ctx context.Context, request *UploadRequest) (*UploadResponse, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)

	// SignedURL returns a time-limited download URL. Backends without
	// signing return the public URL and ignore the expiry.
	SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

type UploadRequest struct {
	Key         string
	Reader      io.Reader
	ContentType string
	Size        int64
	Metadata    map[string]string
}

type UploadResponse struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
	ETag string `json:"etag,omitempty"`
}
