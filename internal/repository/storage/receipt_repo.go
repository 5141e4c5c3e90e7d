package storage

import (
	"context"
	"io"
	"time"
)

// ReceiptStorage defines the interface for receipt image blob storage.
// Upload returns the object path; presigned URLs are generated on demand
// because the bucket stays private.
type ReceiptStorage interface {
	Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	Delete(ctx context.Context, objectPath string) error
	GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error)
}
