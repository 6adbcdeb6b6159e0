package storage

import (
	"context"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSBucket writes objects to Google Cloud Storage
type GCSBucket struct {
	client *gcs.Client
	bucket string
}

// NewGCSBucket creates a GCS client. credentialsFile may be empty, in which
// case Application Default Credentials are used.
func NewGCSBucket(ctx context.Context, bucket, credentialsFile string) (*GCSBucket, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return &GCSBucket{client: client, bucket: bucket}, nil
}

// Put uploads the stream. GCS reports most upload errors on Close.
func (b *GCSBucket) Put(ctx context.Context, key string, r io.Reader, _ int64, contentType string) error {
	w := b.client.Bucket(b.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return fmt.Errorf("failed to write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}
	return nil
}

// Open reads an object
func (b *GCSBucket) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	rc, err := b.client.Bucket(b.bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open object: %w", err)
	}
	return rc, nil
}

// Name returns the bucket name
func (b *GCSBucket) Name() string { return b.bucket }

// Scheme returns "gs"
func (b *GCSBucket) Scheme() string { return "gs" }

// Close releases the client
func (b *GCSBucket) Close() error {
	return b.client.Close()
}
