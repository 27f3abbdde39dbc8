package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/inventory-ledger/internal/product/domain"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "inventory:product:42", Key(42))
}

func TestNew_WithoutClientIsNoop(t *testing.T) {
	c := New(nil, time.Minute)
	require.IsType(t, NoopProductCache{}, c)

	ctx := context.Background()
	assert.NoError(t, c.Set(ctx, &domain.Product{ID: 1}))
	_, ok := c.Get(ctx, 1)
	assert.False(t, ok)
	assert.NoError(t, c.Invalidate(ctx, 1))
}

func TestRedisProductCache_UnreachableServerDegradesToMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	c := New(client, 0)
	require.IsType(t, &RedisProductCache{}, c)

	ctx := context.Background()
	_, ok := c.Get(ctx, 7)
	assert.False(t, ok)
	assert.Error(t, c.Set(ctx, &domain.Product{ID: 7, Name: "Widget"}))
	assert.Error(t, c.Invalidate(ctx, 7))
}
