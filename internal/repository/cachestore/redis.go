package cachestore

import (
	"context"
	"time"
)

// kv is the consumer interface for the Redis-backed cache (ISP).
type kv interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Redis stores entries as plain string keys with EX expiry.
type Redis struct {
	kv kv
}

// NewRedis wraps a key-value store. The connection is owned by the caller.
func NewRedis(s kv) *Redis {
	return &Redis{kv: s}
}

// Get reads an entry.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	return r.kv.Get(ctx, key)
}

// Set writes an entry with ttl.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.kv.SetWithTTL(ctx, key, value, ttl)
}

// Close is a no-op; the shared connection is closed by its owner.
func (r *Redis) Close() error { return nil }
