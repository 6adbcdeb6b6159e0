package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/speech-summarizer/internal/domain/entities"
)

// AudioFolder is the virtual folder every upload is written under
const AudioFolder = "audio_files"

// Bucket is a single object-storage bucket
type Bucket interface {
	// Put writes the whole stream to key
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Open reads an object back
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Name is the bucket name
	Name() string
	// Scheme is the URI scheme used in location references (gs, s3)
	Scheme() string
}

// Uploader stores normalized audio under a random key
type Uploader struct {
	bucket Bucket
	logger *zap.Logger
}

// NewUploader creates a new uploader writing into AudioFolder
func NewUploader(bucket Bucket, logger *zap.Logger) *Uploader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Uploader{bucket: bucket, logger: logger}
}

// NewObjectKey returns audio_files/<uuid-v4>
func NewObjectKey() string {
	return path.Join(AudioFolder, uuid.NewString())
}

// Upload writes the stream to a fresh key and returns its location. Keys are
// never reused; there is no retry.
func (u *Uploader) Upload(ctx context.Context, r io.Reader, size int64) (entities.ObjectLocation, error) {
	key := NewObjectKey()
	if err := u.bucket.Put(ctx, key, r, size, "audio/wav"); err != nil {
		return entities.ObjectLocation{}, fmt.Errorf("upload %s: %w", key, err)
	}

	loc := entities.ObjectLocation{
		Scheme: u.bucket.Scheme(),
		Bucket: u.bucket.Name(),
		Key:    key,
	}
	u.logger.Info("audio uploaded",
		zap.String("location", loc.URI()),
		zap.Int64("size", size),
	)
	return loc, nil
}

// Open reads a previously uploaded object
func (u *Uploader) Open(ctx context.Context, loc entities.ObjectLocation) (io.ReadCloser, error) {
	if loc.Bucket != u.bucket.Name() {
		return nil, fmt.Errorf("object %s is not in bucket %s", loc.URI(), u.bucket.Name())
	}
	return u.bucket.Open(ctx, loc.Key)
}
