package repository

import (
	"context"
	"io"
	"time"
)

// ObjectStorage defines the interface for object storage operations.
// Implementations are provided by the infrastructure layer (MinIO / any
// S3-compatible endpoint). There is no presigned-upload surface: source
// videos land in the bucket through a path outside this module's core,
// and the Transcoder Worker only ever downloads an existing object and
// uploads the rendition tree it produces.
type ObjectStorage interface {
	// EnsureBucket bootstraps the configured bucket: creates it if
	// missing, and sets a public-read policy scoped to objects under
	// prefix (e.g. "video_files/*") so HLS playlists and segments are
	// fetchable without per-request signing.
	EnsureBucket(ctx context.Context, prefix string) error

	// Upload stores an object, inferring its content type from key's
	// extension per the pipeline's content-type rules.
	Upload(ctx context.Context, key string, reader io.Reader, size int64) error

	// Download retrieves an object from storage.
	// Caller is responsible for closing the returned ReadCloser.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes an object from storage. Deleting an object that
	// does not exist is not an error.
	Delete(ctx context.Context, key string) error

	// Exists checks if an object exists in storage.
	Exists(ctx context.Context, key string) (bool, error)
}

// ObjectInfo contains metadata about a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
}
