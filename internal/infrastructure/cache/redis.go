package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/videopipe/gostream/internal/domain/model"
)

const (
	// videoCacheKeyPrefix is the prefix for video cache keys in Redis.
	videoCacheKeyPrefix = "video:"
)

// videoJSON is the JSON representation of a VideoRecord for caching.
// Using an explicit struct avoids coupling to the domain model's JSON
// tags (it has none).
type videoJSON struct {
	UUID          string `json:"uuid"`
	AuthorID      int64  `json:"author_id"`
	CreatedAt     string `json:"created_at"`
	IsComplete    bool   `json:"is_complete"`
	LikesCount    int64  `json:"likes_count"`
	DislikesCount int64  `json:"dislikes_count"`
	ViewsCount    int64  `json:"views_count"`
}

// RedisVideoCache implements VideoCache using Redis as the backing store.
type RedisVideoCache struct {
	client *redis.Client
}

// NewRedisVideoCache creates a new Redis-backed video cache.
func NewRedisVideoCache(client *redis.Client) *RedisVideoCache {
	return &RedisVideoCache{
		client: client,
	}
}

// Get retrieves a video from Redis cache.
// Returns nil, nil on cache miss.
func (c *RedisVideoCache) Get(ctx context.Context, videoUUID uuid.UUID) (*model.VideoRecord, error) {
	key := c.buildKey(videoUUID)

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	video, err := c.deserialize(data)
	if err != nil {
		return nil, fmt.Errorf("deserialize video: %w", err)
	}

	return video, nil
}

// Set stores a video in Redis cache with the specified TTL. Incomplete
// records are never cached: the read path must observe a 503 for them
// on every request, not stale pending state served from a prior miss.
func (c *RedisVideoCache) Set(ctx context.Context, video *model.VideoRecord, ttl time.Duration) error {
	if !video.IsComplete {
		return nil
	}

	key := c.buildKey(video.UUID)

	data, err := c.serialize(video)
	if err != nil {
		return fmt.Errorf("serialize video: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

// Delete removes a video from Redis cache.
func (c *RedisVideoCache) Delete(ctx context.Context, videoUUID uuid.UUID) error {
	key := c.buildKey(videoUUID)

	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}

	return nil
}

// buildKey constructs the Redis key for a video.
func (c *RedisVideoCache) buildKey(videoUUID uuid.UUID) string {
	return videoCacheKeyPrefix + videoUUID.String()
}

// serialize converts a VideoRecord to JSON bytes.
func (c *RedisVideoCache) serialize(video *model.VideoRecord) ([]byte, error) {
	v := videoJSON{
		UUID:          video.UUID.String(),
		AuthorID:      video.AuthorID,
		CreatedAt:     video.CreatedAt.Format(time.RFC3339Nano),
		IsComplete:    video.IsComplete,
		LikesCount:    video.LikesCount,
		DislikesCount: video.DislikesCount,
		ViewsCount:    video.ViewsCount,
	}
	return json.Marshal(v)
}

// deserialize converts JSON bytes to a VideoRecord.
func (c *RedisVideoCache) deserialize(data []byte) (*model.VideoRecord, error) {
	var v videoJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(v.UUID)
	if err != nil {
		return nil, fmt.Errorf("parse video uuid: %w", err)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	return &model.VideoRecord{
		UUID:          id,
		AuthorID:      v.AuthorID,
		CreatedAt:     createdAt,
		IsComplete:    v.IsComplete,
		LikesCount:    v.LikesCount,
		DislikesCount: v.DislikesCount,
		ViewsCount:    v.ViewsCount,
	}, nil
}
