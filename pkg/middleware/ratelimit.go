package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tair/inventory-ledger/pkg/logger"
	"github.com/tair/inventory-ledger/pkg/response"
)

// windowStore counts hits for a key inside a sliding window.
type windowStore interface {
	Hit(ctx context.Context, key string, now time.Time, window time.Duration) (int64, error)
}

// RateLimiter limits requests per client IP using a sliding window.
type RateLimiter struct {
	store       windowStore
	maxRequests int
	window      time.Duration
}

// NewRateLimiter keeps its windows in Redis sorted sets
func NewRateLimiter(client *redis.Client, maxRequests int, window time.Duration) *RateLimiter {
	return newRateLimiter(redisWindow{client: client}, maxRequests, window)
}

func newRateLimiter(store windowStore, maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{store: store, maxRequests: maxRequests, window: window}
}

// Middleware rejects clients over the limit with 429. When the store is
// unreachable requests are let through.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identifier := clientIP(r)
		now := time.Now()

		count, err := rl.store.Hit(r.Context(), "ratelimit:"+identifier, now, rl.window)
		if err != nil {
			logger.Error(r.Context()).
				Err(err).
				Str("identifier", identifier).
				Msg("Rate limiter error")
			next.ServeHTTP(w, r)
			return
		}

		remaining := rl.maxRequests - int(count) - 1
		if remaining < 0 {
			remaining = 0
		}
		reset := now.Add(rl.window)

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.maxRequests))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		if count >= int64(rl.maxRequests) {
			logger.Warn(r.Context()).
				Str("identifier", identifier).
				Int("limit", rl.maxRequests).
				Msg("Rate limit exceeded")
			w.Header().Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			response.JSON(w, http.StatusTooManyRequests, response.Response{
				Success: false,
				Error:   fmt.Sprintf("Too many requests. Try again in %v", rl.window),
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type redisWindow struct {
	client *redis.Client
}

// Hit drops entries older than the window, counts the rest and records now.
func (s redisWindow) Hit(ctx context.Context, key string, now time.Time, window time.Duration) (int64, error) {
	windowStart := now.Add(-window)

	pipe := s.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: now.UnixNano(),
	})
	pipe.Expire(ctx, key, window+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return countCmd.Val(), nil
}
