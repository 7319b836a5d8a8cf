package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/videopipe/gostream/internal/domain/model"
)

// ListPage bounds a paginated read over video records.
type ListPage struct {
	Offset int
	Count  int
}

// DefaultListPage mirrors the offset/count defaults used by the read API
// (offset 0, count 100). The read API rejects a negative offset or a
// count below 1; it sets no upper bound on count.
func DefaultListPage() ListPage {
	return ListPage{Offset: 0, Count: 100}
}

// VideoRepository defines the interface for video metadata persistence.
// Implementations are provided by the infrastructure layer (PostgreSQL).
type VideoRepository interface {
	// InsertPending persists a new, incomplete video record. Called by the
	// Ingestion Coordinator inside the transaction that must commit before
	// the convert_video_to_hls message is published.
	// Returns ErrDuplicateVideo if a record with the same uuid exists.
	InsertPending(ctx context.Context, record *model.VideoRecord) error

	// MarkComplete sets is_complete=true for the given uuid. It is
	// idempotent: applying it to an already-complete or nonexistent
	// record affects zero rows and returns nil, so the
	// confirm_video_hls_converting handler acks it. A database failure
	// is returned as an error, and the handler requeues the delivery.
	MarkComplete(ctx context.Context, id uuid.UUID) error

	// GetByUUID retrieves a single video record.
	// Returns ErrVideoNotFound if no record exists for id.
	GetByUUID(ctx context.Context, id uuid.UUID) (*model.VideoRecord, error)

	// GetByAuthorID retrieves every record belonging to an author,
	// newest first. Returns an empty slice if none exist.
	GetByAuthorID(ctx context.Context, authorID int64, page ListPage) ([]*model.VideoRecord, error)

	// GetByUUIDs retrieves records for a batch of identifiers in one
	// round trip, skipping any uuid that does not exist.
	GetByUUIDs(ctx context.Context, ids []uuid.UUID) ([]*model.VideoRecord, error)

	// ListComplete retrieves completed records, newest first, for the
	// paginated public listing. Incomplete records are never surfaced.
	ListComplete(ctx context.Context, page ListPage) ([]*model.VideoRecord, error)
}
