// Package kv implements the integer counter store backing chat rate limiting.
//
// Three interchangeable backends exist: an in-memory map (single-process
// fallback), a Redis connection, and an Upstash-style REST endpoint. The
// backend is selected once at startup from configuration; backends never fall
// back to one another per call, so a remote outage surfaces as an error to the
// caller and the rate limiter decides what to do with it.
package kv

import (
	"context"
	"log/slog"
	"time"

	"hachiko/internal/config"

	"github.com/redis/go-redis/v9"
)

// Store is an integer counter with per-key expiration.
type Store interface {
	// Get returns the current value for key. The second return value is
	// false when the key is absent or expired.
	Get(ctx context.Context, key string) (int64, bool, error)
	// Incr increments the counter, creating it at 1 if absent, and returns
	// the post-increment value.
	Incr(ctx context.Context, key string) (int64, error)
	// Expire sets or refreshes the TTL on an existing key.
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

// Select picks the counter backend for the process lifetime. A configured
// REST endpoint wins, then an established Redis connection; the in-memory
// store is the last resort and only suitable for a single instance.
func Select(cfg *config.Config, rdb *redis.Client, log *slog.Logger) Store {
	if cfg.KVRestURL != "" && cfg.KVRestToken != "" {
		log.Info("counter store using REST backend", "url", cfg.KVRestURL)
		return NewRESTStore(cfg.KVRestURL, cfg.KVRestToken)
	}
	if rdb != nil {
		log.Info("counter store using Redis backend")
		return NewRedisStore(rdb)
	}
	log.Warn("no remote counter backend configured; using in-memory store (not recommended for production)")
	return NewMemoryStore()
}
