package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/tair/inventory-ledger/internal/app"
	"github.com/tair/inventory-ledger/internal/config"
	"github.com/tair/inventory-ledger/internal/events"
	"github.com/tair/inventory-ledger/internal/product/cache"
	"github.com/tair/inventory-ledger/pkg/database"
	"github.com/tair/inventory-ledger/pkg/logger"
)

// runtime is the opened infrastructure plus the service graph built on it.
type runtime struct {
	cfg       config.Config
	db        *gorm.DB
	redis     *redis.Client
	publisher events.Publisher
	app       *app.App
}

// loadConfig reads the environment and configures the global logger.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	logger.Init(cfg.ServiceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)
	return cfg, nil
}

// boot opens the store, applies the schema and wires the services.
// Redis and Kafka are optional; without them the cache and publisher are no-ops.
func boot(ctx context.Context, cfg config.Config) (*runtime, error) {
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	rt := &runtime{cfg: cfg, db: db}

	if err := database.Migrate(ctx, db, app.Models()...); err != nil {
		rt.close(ctx)
		return nil, err
	}

	if cfg.RedisAddr != "" {
		rt.redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		if err := rt.redis.Ping(ctx).Err(); err != nil {
			logger.Warn(ctx).Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unreachable, product cache will miss until it recovers")
		}
	}

	rt.publisher, err = events.NewPublisher(cfg.KafkaBrokers)
	if err != nil {
		logger.Warn(ctx).Err(err).Msg("Event publishing disabled")
		rt.publisher = events.NoopPublisher{}
	}

	rt.app, err = app.InitializeApp(db, cache.New(rt.redis, cfg.CacheTTL), rt.publisher, cfg)
	if err != nil {
		rt.close(ctx)
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	return rt, nil
}

// close releases everything boot opened, in reverse order.
func (rt *runtime) close(ctx context.Context) {
	var errs []error
	if rt.publisher != nil {
		errs = append(errs, rt.publisher.Close())
	}
	if rt.redis != nil {
		errs = append(errs, rt.redis.Close())
	}
	errs = append(errs, database.Close(ctx, rt.db))

	if err := errors.Join(errs...); err != nil {
		logger.Warn(ctx).Err(err).Msg("Shutdown was not clean")
	}
}

// withRuntime runs fn against a freshly booted runtime under the command timeout.
func withRuntime(parent context.Context, opts *rootOptions, fn func(ctx context.Context, rt *runtime) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(parent, opts, cfg.RequestTimeout)
	defer cancel()

	rt, err := boot(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.close(context.WithoutCancel(ctx))

	return fn(ctx, rt)
}
