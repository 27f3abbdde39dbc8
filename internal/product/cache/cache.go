package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tair/inventory-ledger/internal/product/domain"
	"github.com/tair/inventory-ledger/pkg/logger"
)

const keyPrefix = "inventory:product:"

// RedisProductCache stores products as JSON under inventory:product:<id>.
// Errors never fail the caller's operation; a broken cache degrades to misses.
type RedisProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisProductCache(client *redis.Client, ttl time.Duration) *RedisProductCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisProductCache{client: client, ttl: ttl}
}

func (c *RedisProductCache) Get(ctx context.Context, id uint) (*domain.Product, bool) {
	raw, err := c.client.Get(ctx, Key(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn(ctx).Err(err).Uint("product_id", id).Msg("Product cache read failed")
		}
		return nil, false
	}

	var product domain.Product
	if err := json.Unmarshal(raw, &product); err != nil {
		logger.Warn(ctx).Err(err).Uint("product_id", id).Msg("Discarding corrupt cache entry")
		return nil, false
	}

	logger.Debug(ctx).Uint("product_id", id).Msg("Cache hit")
	return &product, true
}

func (c *RedisProductCache) Set(ctx context.Context, product *domain.Product) error {
	raw, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("encode product: %w", err)
	}
	if err := c.client.Set(ctx, Key(product.ID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache product %d: %w", product.ID, err)
	}
	return nil
}

func (c *RedisProductCache) Invalidate(ctx context.Context, id uint) error {
	if err := c.client.Del(ctx, Key(id)).Err(); err != nil {
		return fmt.Errorf("invalidate product %d: %w", id, err)
	}
	return nil
}

// Key is the redis key for a product id.
func Key(id uint) string {
	return fmt.Sprintf("%s%d", keyPrefix, id)
}

// NoopProductCache is used when REDIS_ADDR is not set.
type NoopProductCache struct{}

func (NoopProductCache) Get(context.Context, uint) (*domain.Product, bool) { return nil, false }
func (NoopProductCache) Set(context.Context, *domain.Product) error        { return nil }
func (NoopProductCache) Invalidate(context.Context, uint) error            { return nil }

// New picks the redis cache when a client is given, the no-op cache otherwise.
func New(client *redis.Client, ttl time.Duration) domain.ProductCache {
	if client == nil {
		return NoopProductCache{}
	}
	return NewRedisProductCache(client, ttl)
}
