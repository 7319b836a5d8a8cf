package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/videopipe/gostream/internal/domain/model"
	"github.com/videopipe/gostream/internal/domain/repository"
	"github.com/videopipe/gostream/internal/infrastructure/cache"
	"github.com/videopipe/gostream/internal/infrastructure/metrics"
	"golang.org/x/sync/singleflight"
)

// VideoQueryServiceConfig holds configuration for VideoQueryService.
type VideoQueryServiceConfig struct {
	// CacheTTL is the TTL for cached, complete video metadata.
	CacheTTL time.Duration
}

// DefaultVideoQueryServiceConfig returns the default configuration.
func DefaultVideoQueryServiceConfig() VideoQueryServiceConfig {
	return VideoQueryServiceConfig{
		CacheTTL: 5 * time.Minute,
	}
}

// VideoQueryService serves the read side of the Metadata Store: the
// paginated, author, and batch lookups named in the external interface,
// plus a cached single-record lookup that reports incomplete records
// via ErrVideoNotReady so the API layer can surface a 503.
type VideoQueryService interface {
	// GetByUUID returns the video record for id. Returns
	// repository.ErrVideoNotFound if no such record exists, or
	// repository.ErrVideoNotReady if the record exists but
	// is_complete is still false.
	GetByUUID(ctx context.Context, id uuid.UUID) (*model.VideoRecord, error)

	// GetByAuthorID returns a page of records authored by authorID.
	GetByAuthorID(ctx context.Context, authorID int64, page repository.ListPage) ([]*model.VideoRecord, error)

	// GetByUUIDs returns every record matching the given ids.
	GetByUUIDs(ctx context.Context, ids []uuid.UUID) ([]*model.VideoRecord, error)

	// ListComplete returns a page of completed records.
	ListComplete(ctx context.Context, page repository.ListPage) ([]*model.VideoRecord, error)
}

type videoQueryService struct {
	repo  repository.VideoRepository
	cache cache.VideoCache
	sf    singleflight.Group

	cacheTTL time.Duration
}

// NewVideoQueryService creates a new VideoQueryService.
// cache may be nil to disable caching entirely.
func NewVideoQueryService(repo repository.VideoRepository, videoCache cache.VideoCache, cfg VideoQueryServiceConfig) VideoQueryService {
	return &videoQueryService{repo: repo, cache: videoCache, cacheTTL: cfg.CacheTTL}
}

// GetByUUID uses singleflight to coalesce concurrent lookups of the
// same id (a stampede-prone path since a single popular video can be
// hit by many clients at once) and a cache-aside read-through on top
// of the repository. Only complete records are ever cached; see
// cache.RedisVideoCache.Set.
func (s *videoQueryService) GetByUUID(ctx context.Context, id uuid.UUID) (*model.VideoRecord, error) {
	key := id.String()
	result, err, shared := s.sf.Do(key, func() (any, error) {
		return s.getByUUIDWithCache(ctx, id)
	})

	if shared {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightShared).Inc()
	} else {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightInitiated).Inc()
	}

	if err != nil {
		return nil, err
	}

	video := result.(*model.VideoRecord)
	if !video.IsComplete {
		return nil, repository.ErrVideoNotReady
	}
	return video, nil
}

func (s *videoQueryService) getByUUIDWithCache(ctx context.Context, id uuid.UUID) (*model.VideoRecord, error) {
	if s.cache != nil {
		video, err := s.cache.Get(ctx, id)
		if err != nil {
			slog.Warn("cache get failed, falling back to database", "uuid", id, "error", err)
		}
		if video != nil {
			metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusHit, metrics.CacheTypeRedis).Inc()
			return video, nil
		}
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusMiss, metrics.CacheTypeRedis).Inc()
	}

	video, err := s.repo.GetByUUID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, video, s.cacheTTL); err != nil {
			slog.Warn("failed to cache video", "uuid", id, "error", err)
		}
	}

	return video, nil
}

// GetByAuthorID delegates directly to the repository: list pages are
// not cached, since they change on every new upload by the author.
func (s *videoQueryService) GetByAuthorID(ctx context.Context, authorID int64, page repository.ListPage) ([]*model.VideoRecord, error) {
	return s.repo.GetByAuthorID(ctx, authorID, page)
}

// GetByUUIDs delegates directly to the repository.
func (s *videoQueryService) GetByUUIDs(ctx context.Context, ids []uuid.UUID) ([]*model.VideoRecord, error) {
	return s.repo.GetByUUIDs(ctx, ids)
}

// ListComplete delegates directly to the repository.
func (s *videoQueryService) ListComplete(ctx context.Context, page repository.ListPage) ([]*model.VideoRecord, error) {
	return s.repo.ListComplete(ctx, page)
}
