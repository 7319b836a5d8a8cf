package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// VideoRecord is a row of the videos_info table owned by the Metadata Store.
// It is created by the Ingestion Coordinator at ingest time, in the
// incomplete state, and flipped to complete exactly once by the confirmation
// handler once the Transcoder Worker has written the HLS tree.
type VideoRecord struct {
	UUID          uuid.UUID
	AuthorID      int64
	CreatedAt     time.Time
	IsComplete    bool
	LikesCount    int64
	DislikesCount int64
	ViewsCount    int64
}

var (
	// ErrInvalidAuthorID is returned when constructing a record with a
	// non-positive author id.
	ErrInvalidAuthorID = errors.New("author id must be positive")

	// ErrAlreadyComplete names the already-complete state. MarkComplete
	// does not return it: re-marking a complete record is a no-op, both
	// here and at the repository layer (see
	// postgres.VideoRepository.MarkComplete).
	ErrAlreadyComplete = errors.New("video record already complete")
)

// NewPendingVideoRecord creates a VideoRecord in its initial, incomplete
// state. CreatedAt is left zero; the repository stamps it on insert.
func NewPendingVideoRecord(id uuid.UUID, authorID int64) (*VideoRecord, error) {
	if authorID <= 0 {
		return nil, ErrInvalidAuthorID
	}
	return &VideoRecord{
		UUID:       id,
		AuthorID:   authorID,
		IsComplete: false,
	}, nil
}

// MarkComplete flips the record to complete. It is a no-op (not an error)
// when the record is already complete, since the transition is monotonic
// and the caller (the confirmation handler) may observe the same message
// more than once.
func (v *VideoRecord) MarkComplete() {
	v.IsComplete = true
}
