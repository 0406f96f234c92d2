//go:build integration
// +build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gamassss/shortlink/internal/domain"
	redisrepo "github.com/gamassss/shortlink/internal/repository/redis"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis, func()) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return client, mr, cleanup
}

func TestLinkCache_SetAndGet(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := redisrepo.NewLinkCache(client)
	ctx := context.Background()

	link := &domain.Link{
		ID:          1,
		ShortCode:   "abc123",
		Destination: "https://example.com",
		ClickCount:  10,
		IsActive:    true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	err := cache.SetLink(ctx, "abc123", link, 10*time.Minute)
	require.NoError(t, err)

	result, err := cache.GetLink(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, link.ShortCode, result.ShortCode)
	assert.Equal(t, link.Destination, result.Destination)
	assert.Equal(t, link.ClickCount, result.ClickCount)
	assert.True(t, result.IsActive)
}

func TestLinkCache_Miss(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := redisrepo.NewLinkCache(client)

	_, err := cache.GetLink(context.Background(), "missing")

	assert.ErrorIs(t, err, redis.Nil)
}

func TestLinkCache_TTLExpiry(t *testing.T) {
	client, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := redisrepo.NewLinkCache(client)
	ctx := context.Background()

	link := &domain.Link{ShortCode: "ttl123", Destination: "https://example.com"}
	require.NoError(t, cache.SetLink(ctx, "ttl123", link, 5*time.Second))

	mr.FastForward(6 * time.Second)

	_, err := cache.GetLink(ctx, "ttl123")
	assert.ErrorIs(t, err, redis.Nil)
}

func TestLinkCache_InvalidateDropsBothCodes(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := redisrepo.NewLinkCache(client)
	ctx := context.Background()

	link := &domain.Link{
		ID:          1,
		ShortCode:   "abc123",
		CustomAlias: "my-link",
		Destination: "https://example.com",
	}
	require.NoError(t, cache.SetLink(ctx, "abc123", link, 10*time.Minute))
	require.NoError(t, cache.SetLink(ctx, "my-link", link, 10*time.Minute))

	require.NoError(t, cache.InvalidateLink(ctx, link))

	_, err := cache.GetLink(ctx, "abc123")
	assert.ErrorIs(t, err, redis.Nil)
	_, err = cache.GetLink(ctx, "my-link")
	assert.ErrorIs(t, err, redis.Nil)
}

func TestLinkCache_CorruptPayload(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, client.Set(ctx, "link:broken", "not-valid-json", 10*time.Minute).Err())

	cache := redisrepo.NewLinkCache(client)

	result, err := cache.GetLink(ctx, "broken")
	assert.Error(t, err)
	assert.Nil(t, result)
}
