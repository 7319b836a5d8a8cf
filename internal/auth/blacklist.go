package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMissingExpiry is returned by Revoke when asked to blacklist a token
// with no exp claim. An earlier revision stored exat=payload.get("exp", 0)
// for such tokens, which set an expiry in the past and made the
// blacklist entry a silent no-op; this implementation rejects the call
// outright instead.
var ErrMissingExpiry = errors.New("cannot blacklist a token with no exp claim")

const blacklistKeyPrefix = "jwt:blacklist:"

// Blacklist is a Redis-backed jti revocation list. A key exists for
// exactly as long as the token it names would otherwise remain valid:
// it is set to expire at the token's own exp, so the blacklist never
// outlives the thing it blocks.
type Blacklist struct {
	client *redis.Client
}

// NewBlacklist creates a Blacklist backed by client.
func NewBlacklist(client *redis.Client) *Blacklist {
	return &Blacklist{client: client}
}

// Revoke adds jti to the blacklist until exp. Callers must reject tokens
// lacking an exp claim before calling this (see Issuer.Validate), since
// an absent expiry has no sound interpretation here.
func (b *Blacklist) Revoke(ctx context.Context, jti string, exp time.Time) error {
	if exp.IsZero() {
		return ErrMissingExpiry
	}
	if err := b.client.Set(ctx, blacklistKeyPrefix+jti, 1, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	if err := b.client.ExpireAt(ctx, blacklistKeyPrefix+jti, exp).Err(); err != nil {
		return fmt.Errorf("redis expireat: %w", err)
	}
	return nil
}

// IsRevoked reports whether jti has been blacklisted.
func (b *Blacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, blacklistKeyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}
