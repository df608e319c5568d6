package storage

import (
	"context"
	"time"
)

// DefaultPresignedURLExpiry bounds how long handed-out URLs stay valid.
const DefaultPresignedURLExpiry = 15 * time.Minute

// FileStorage abstracts the object store that holds user-uploaded files
// (currently profile avatars). Uploads and downloads never pass through the
// API server; clients talk to the store directly via presigned URLs.
type FileStorage interface {
	// GeneratePresignedUploadURL returns a temporary URL accepting a PUT of
	// the given content type for objectKey.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL returns a temporary URL accepting a GET
	// for objectKey.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes objectKey from the store.
	DeleteObject(ctx context.Context, objectKey string) error
}
