package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/videopipe/gostream/internal/domain/model"
	"github.com/videopipe/gostream/internal/domain/repository"
)

// DBTX is an interface that abstracts pgxpool.Pool and pgx.Tx for testability.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// VideoRepository implements repository.VideoRepository against the
// videos_info table using PostgreSQL.
type VideoRepository struct {
	db DBTX
}

// NewVideoRepository creates a new VideoRepository instance.
func NewVideoRepository(db DBTX) *VideoRepository {
	return &VideoRepository{db: db}
}

// InsertPending persists a new, incomplete video record. created_at is
// stamped by the database default rather than the application, matching
// the videos_info table's server_default=func.now().
func (r *VideoRepository) InsertPending(ctx context.Context, video *model.VideoRecord) error {
	const query = `
		INSERT INTO videos_info (uuid, author_id, is_complete, likes_count, dislikes_count, views_count)
		VALUES ($1, $2, false, 0, 0, 0)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query, video.UUID, video.AuthorID).Scan(&video.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return repository.ErrDuplicateVideo
		}
		return fmt.Errorf("failed to insert video: %w", err)
	}

	return nil
}

// MarkComplete sets is_complete=true for the given uuid. It is
// intentionally idempotent: zero rows affected (already complete, or no
// such record) is not an error, since the confirmation handler may
// observe the same message more than once.
func (r *VideoRepository) MarkComplete(ctx context.Context, id uuid.UUID) error {
	const query = `UPDATE videos_info SET is_complete = true WHERE uuid = $1`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to mark video complete: %w", err)
	}
	return nil
}

// GetByUUID retrieves a single video record.
func (r *VideoRepository) GetByUUID(ctx context.Context, id uuid.UUID) (*model.VideoRecord, error) {
	const query = `
		SELECT uuid, author_id, created_at, is_complete, likes_count, dislikes_count, views_count
		FROM videos_info
		WHERE uuid = $1
	`

	video, err := scanVideo(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to get video by uuid: %w", err)
	}

	return video, nil
}

// GetByAuthorID retrieves every record belonging to an author, newest
// first, bounded by page.
func (r *VideoRepository) GetByAuthorID(ctx context.Context, authorID int64, page repository.ListPage) ([]*model.VideoRecord, error) {
	const query = `
		SELECT uuid, author_id, created_at, is_complete, likes_count, dislikes_count, views_count
		FROM videos_info
		WHERE author_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	return r.queryVideos(ctx, query, authorID, page.Count, page.Offset)
}

// GetByUUIDs retrieves records for a batch of identifiers in one round
// trip, skipping any uuid that does not exist.
func (r *VideoRepository) GetByUUIDs(ctx context.Context, ids []uuid.UUID) ([]*model.VideoRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	const query = `
		SELECT uuid, author_id, created_at, is_complete, likes_count, dislikes_count, views_count
		FROM videos_info
		WHERE uuid = ANY($1)
		ORDER BY created_at DESC
	`

	return r.queryVideos(ctx, query, ids)
}

// ListComplete retrieves completed records, newest first, bounded by page.
func (r *VideoRepository) ListComplete(ctx context.Context, page repository.ListPage) ([]*model.VideoRecord, error) {
	const query = `
		SELECT uuid, author_id, created_at, is_complete, likes_count, dislikes_count, views_count
		FROM videos_info
		WHERE is_complete = true
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	return r.queryVideos(ctx, query, page.Count, page.Offset)
}

func (r *VideoRepository) queryVideos(ctx context.Context, query string, args ...any) ([]*model.VideoRecord, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer rows.Close()

	var videos []*model.VideoRecord
	for rows.Next() {
		video, err := scanVideoFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating videos: %w", err)
	}

	return videos, nil
}

// scanVideo scans a single row into a VideoRecord.
func scanVideo(row pgx.Row) (*model.VideoRecord, error) {
	var video model.VideoRecord
	err := row.Scan(
		&video.UUID,
		&video.AuthorID,
		&video.CreatedAt,
		&video.IsComplete,
		&video.LikesCount,
		&video.DislikesCount,
		&video.ViewsCount,
	)
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// scanVideoFromRows scans from pgx.Rows into a VideoRecord.
func scanVideoFromRows(rows pgx.Rows) (*model.VideoRecord, error) {
	var video model.VideoRecord
	err := rows.Scan(
		&video.UUID,
		&video.AuthorID,
		&video.CreatedAt,
		&video.IsComplete,
		&video.LikesCount,
		&video.DislikesCount,
		&video.ViewsCount,
	)
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// Compile-time verification that VideoRepository implements repository.VideoRepository.
var _ repository.VideoRepository = (*VideoRepository)(nil)
