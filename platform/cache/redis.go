package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Store backed by a Redis server. Values are JSON encoded, so V
// must round-trip through encoding/json.
type Redis[V any] struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration // 0 means no expiry
}

// RedisOption configures a Redis store.
type RedisOption func(*redisConfig)

type redisConfig struct {
	prefix string
	ttl    time.Duration
}

// WithPrefix namespaces every key as "<prefix>:<key>".
func WithPrefix(prefix string) RedisOption {
	return func(c *redisConfig) { c.prefix = strings.Trim(prefix, ":") }
}

// WithRedisTTL sets the expiry applied on Set. Zero keeps entries forever.
func WithRedisTTL(d time.Duration) RedisOption {
	return func(c *redisConfig) { c.ttl = d }
}

// NewRedis creates a Redis-backed store using an existing client.
func NewRedis[V any](rdb *redis.Client, opts ...RedisOption) *Redis[V] {
	cfg := redisConfig{prefix: "cache"}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Redis[V]{rdb: rdb, prefix: cfg.prefix, ttl: cfg.ttl}
}

// NewRedisClient parses a redis:// URL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

// Get implements Store.
func (r *Redis[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var value V

	raw, err := r.rdb.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return value, false, nil
	}
	if err != nil {
		return value, false, fmt.Errorf("redis get: %w", err)
	}

	if err := json.Unmarshal(raw, &value); err != nil {
		return value, false, fmt.Errorf("decode cached value: %w", err)
	}
	return value, true, nil
}

// Set implements Store.
func (r *Redis[V]) Set(ctx context.Context, key string, value V) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cached value: %w", err)
	}
	if err := r.rdb.Set(ctx, r.key(key), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Clear implements Store. Only keys under the store prefix are removed.
func (r *Redis[V]) Clear(ctx context.Context) error {
	iter := r.rdb.Scan(ctx, 0, r.prefix+":*", 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (r *Redis[V]) key(k string) string {
	return r.prefix + ":" + k
}

var _ Store[string] = (*Redis[string])(nil)
