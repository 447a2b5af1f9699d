// Package storage wraps S3-compatible object storage (MinIO). It is used to
// archive generated quote PDFs and hand out short-lived download links.
package storage

import (
	"context"
	"io"
	"time"
)

// PresignedURL is a time-limited link to a stored object.
type PresignedURL struct {
	URL       string    `json:"url"`
	FileKey   string    `json:"fileKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type StorageService interface {
	// EnsureBucketExists creates the bucket if it doesn't exist.
	EnsureBucketExists(ctx context.Context, bucket string) error

	// UploadFile stores the reader under folder/fileName and returns the object key.
	UploadFile(ctx context.Context, bucket, folder, fileName, contentType string, reader io.Reader, size int64) (string, error)

	// GenerateDownloadURL creates a presigned GET URL for an object.
	GenerateDownloadURL(ctx context.Context, bucket, fileKey string) (*PresignedURL, error)
}

// Config defines the configuration interface for storage.
type Config interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	IsMinIOEnabled() bool
}
