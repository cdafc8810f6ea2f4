package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist is the revocation store for token JTIs. A blacklisted
// entry lives exactly as long as the token it revokes could otherwise be
// replayed, so the set never grows past the outstanding token population.
type TokenBlacklist struct {
	client *redis.Client
}

func NewTokenBlacklist(client *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{client: client}
}

func (b *TokenBlacklist) key(jti string) string {
	return fmt.Sprintf("blacklist:%s", jti)
}

// Add marks a JTI revoked for the given remaining lifetime. Adding an
// already-present JTI refreshes the entry and is not an error.
func (b *TokenBlacklist) Add(ctx context.Context, jti string, ttl time.Duration) error {
	if b.client == nil {
		return errors.New("token blacklist requires redis")
	}
	if ttl <= 0 {
		// Token already expired on its own; nothing to revoke.
		return nil
	}
	if err := b.client.Set(ctx, b.key(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist add: %w", err)
	}
	return nil
}

// Contains reports whether a JTI has been revoked.
func (b *TokenBlacklist) Contains(ctx context.Context, jti string) (bool, error) {
	if b.client == nil {
		return false, errors.New("token blacklist requires redis")
	}
	_, err := b.client.Get(ctx, b.key(jti)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("blacklist lookup: %w", err)
	}
	return true, nil
}
