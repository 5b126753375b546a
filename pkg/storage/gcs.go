package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSProvider stores photos in a Google Cloud Storage bucket.
type GCSProvider struct {
	client    *gcs.Client
	bucket    string
	cdnDomain string
}

func NewGCSProvider(bucket, credentialsFile, cdnDomain string) (*GCSProvider, error) {
	ctx := context.Background()

	var client *gcs.Client
	var err error
	if credentialsFile != "" {
		client, err = gcs.NewClient(ctx, option.WithCredentialsFile(credentialsFile))
	} else {
		client, err = gcs.NewClient(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSProvider{
		client:    client,
		bucket:    bucket,
		cdnDomain: cdnDomain,
	}, nil
}

func (p *GCSProvider) Upload(ctx context.Context, request *UploadRequest) (*UploadResponse, error) {
	object := p.client.Bucket(p.bucket).Object(request.Key)

	writer := object.NewWriter(ctx)
	writer.ContentType = request.ContentType
	if len(request.Metadata) > 0 {
		writer.Metadata = request.Metadata
	}

	size, err := io.Copy(writer, request.Reader)
	if err != nil {
		writer.Close()
		return nil, fmt.Errorf("failed to write photo to GCS: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish GCS upload: %w", err)
	}

	return &UploadResponse{
		Key:  request.Key,
		URL:  p.publicURL(request.Key),
		Size: size,
	}, nil
}

func (p *GCSProvider) Delete(ctx context.Context, key string) error {
	if err := p.client.Bucket(p.bucket).Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete photo from GCS: %w", err)
	}
	return nil
}

func (p *GCSProvider) Exists(ctx context.Context, key string) (bool, error) {
	_, err := p.client.Bucket(p.bucket).Object(key).Attrs(ctx)
	if err != nil {
		if err == gcs.ErrObjectNotExist {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (p *GCSProvider) SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	url, err := p.client.Bucket(p.bucket).SignedURL(key, &gcs.SignedURLOptions{
		Method:  "GET",
		Expires: time.Now().Add(expiry),
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign GCS URL: %w", err)
	}
	return url, nil
}

func (p *GCSProvider) publicURL(key string) string {
	if p.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", p.cdnDomain, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", p.bucket, key)
}
