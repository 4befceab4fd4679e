package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/growloan-api/internal/config"
	"github.com/redis/go-redis/v9"
)

// Cache is a small cache-aside layer over Redis. It absorbs the client's
// 5-second loan-status polling and the per-request admin-config reads.
// A nil *Cache is valid and turns every operation into a miss/no-op, so
// the service runs unchanged when Redis is not configured.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New connects to Redis and verifies the connection. Returns an error when
// cfg.RedisAddr is empty or the ping fails; callers treat that as
// "run without a cache".
func New(ctx context.Context, cfg *config.Config) (*Cache, error) {
	if cfg.RedisAddr == "" {
		return nil, fmt.Errorf("redis not configured")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Cache{rdb: rdb, ttl: 10 * time.Second}, nil
}

// LoanKey builds the cache key for a loan snapshot.
func LoanKey(loanID string) string { return "loan:" + loanID }

// ConfigKey is the cache key for the admin config singleton.
const ConfigKey = "admin_config"

// GetJSON fetches key and unmarshals it into v. Returns false on miss,
// on marshalling trouble, or when the cache is disabled.
func (c *Cache) GetJSON(ctx context.Context, key string, v interface{}) bool {
	if c == nil {
		return false
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

// SetJSON marshals v and stores it under key with the cache TTL.
// Failures are swallowed: the cache is best-effort.
func (c *Cache) SetJSON(ctx context.Context, key string, v interface{}) {
	if c == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, key, data, c.ttl)
}

// Delete invalidates a key after a write.
func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	c.rdb.Del(ctx, keys...)
}
