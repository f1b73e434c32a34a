// Package storage holds the object storage port used for document file bytes
// and its S3-compatible adapters (MinIO, AWS S3 / R2 / Supabase Storage).
// Adapters stream; nothing is staged on local disk.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrObjectNotFound is returned by Get when the key does not exist.
var ErrObjectNotFound = errors.New("object not found")

// KeyPrefix is the folder all document objects are stored under.
const KeyPrefix = "documents"

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known, or -1 when unknown.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is an S3-compatible object storage client.
type Storage interface {
	// Put uploads an object under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited URL that can be used to download the object without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// NewObjectKey generates a collision-free key for an uploaded file, keeping its extension.
// Example: documents/5f0c...e1.pdf
func NewObjectKey(originalFilename string) string {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	return path.Join(KeyPrefix, uuid.NewString()+ext)
}
