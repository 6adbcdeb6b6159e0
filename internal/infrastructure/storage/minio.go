package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/johnquangdev/speech-summarizer/pkg/config"
)

// gcsInteropHost is the S3-compatible XML API endpoint of Cloud Storage
const gcsInteropHost = "storage.googleapis.com"

// MinIOBucket writes objects through the S3 API (MinIO, or GCS interop with
// HMAC keys)
type MinIOBucket struct {
	client *minio.Client
	bucket string
	scheme string
}

// NewMinIOBucket creates a new S3-compatible bucket client. The bucket must
// already exist.
func NewMinIOBucket(cfg *config.StorageConfig) (*MinIOBucket, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &MinIOBucket{
		client: minioClient,
		bucket: cfg.BucketName,
		scheme: schemeForEndpoint(cfg.Endpoint),
	}, nil
}

func schemeForEndpoint(endpoint string) string {
	if strings.EqualFold(endpoint, gcsInteropHost) {
		return "gs"
	}
	return "s3"
}

// Put uploads a file
func (m *MinIOBucket) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := m.client.PutObject(ctx, m.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}
	return nil
}

// Open reads an object
func (m *MinIOBucket) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to open object: %w", err)
	}
	return obj, nil
}

// Name returns the bucket name
func (m *MinIOBucket) Name() string { return m.bucket }

// Scheme returns gs for the GCS interop endpoint, s3 otherwise
func (m *MinIOBucket) Scheme() string { return m.scheme }

// BucketExists checks connectivity and that the bucket is there
func (m *MinIOBucket) BucketExists(ctx context.Context) (bool, error) {
	return m.client.BucketExists(ctx, m.bucket)
}
