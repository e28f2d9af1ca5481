package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StatusCache keeps a short-lived record of whether an account is still
// active, so the gateway's per-request introspection calls do not hammer
// postgres. Deactivation therefore takes at most the cache TTL to
// propagate to the edge.
type StatusCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatusCache constructs a StatusCache. A nil client disables caching.
func NewStatusCache(client *redis.Client, ttl time.Duration) *StatusCache {
	return &StatusCache{client: client, ttl: ttl}
}

func statusKey(userID int64) string {
	return fmt.Sprintf("user:active:%d", userID)
}

// GetActive returns (active, found). A cache miss or redis failure reports
// found=false and the caller falls through to the repository.
func (c *StatusCache) GetActive(ctx context.Context, userID int64) (bool, bool) {
	if c == nil || c.client == nil {
		return false, false
	}
	val, err := c.client.Get(ctx, statusKey(userID)).Result()
	if err != nil {
		return false, false
	}
	return val == "1", true
}

// SetActive records the account status. Failures are ignored; the cache is
// advisory only.
func (c *StatusCache) SetActive(ctx context.Context, userID int64, active bool) {
	if c == nil || c.client == nil {
		return
	}
	val := "0"
	if active {
		val = "1"
	}
	_ = c.client.Set(ctx, statusKey(userID), val, c.ttl).Err()
}

// Invalidate drops the cached status, used when an account is updated or
// deactivated so the edge sees the change immediately.
func (c *StatusCache) Invalidate(ctx context.Context, userID int64) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, statusKey(userID)).Err()
}
