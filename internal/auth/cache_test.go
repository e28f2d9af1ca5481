package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/cotowork/userservice/internal/auth"
)

func newStatusCache(t *testing.T) (*auth.StatusCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return auth.NewStatusCache(client, time.Minute), mr
}

func TestStatusCacheRoundTrip(t *testing.T) {
	cache, _ := newStatusCache(t)
	ctx := context.Background()

	_, found := cache.GetActive(ctx, 42)
	assert.False(t, found)

	cache.SetActive(ctx, 42, true)
	active, found := cache.GetActive(ctx, 42)
	assert.True(t, found)
	assert.True(t, active)

	cache.SetActive(ctx, 43, false)
	active, found = cache.GetActive(ctx, 43)
	assert.True(t, found)
	assert.False(t, active)
}

func TestStatusCacheInvalidate(t *testing.T) {
	cache, _ := newStatusCache(t)
	ctx := context.Background()

	cache.SetActive(ctx, 42, true)
	cache.Invalidate(ctx, 42)
	_, found := cache.GetActive(ctx, 42)
	assert.False(t, found)
}

func TestStatusCacheExpiry(t *testing.T) {
	cache, mr := newStatusCache(t)
	ctx := context.Background()

	cache.SetActive(ctx, 42, true)
	mr.FastForward(2 * time.Minute)
	_, found := cache.GetActive(ctx, 42)
	assert.False(t, found)
}

func TestStatusCacheNilSafe(t *testing.T) {
	var cache *auth.StatusCache
	ctx := context.Background()

	_, found := cache.GetActive(ctx, 42)
	assert.False(t, found)
	cache.SetActive(ctx, 42, true)
	cache.Invalidate(ctx, 42)
}
