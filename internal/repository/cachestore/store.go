// Package cachestore provides TTL byte stores backing the request cache.
package cachestore

import (
	"context"
	"time"

	"github.com/kailas-cloud/legalsearch/internal/db"
)

// Store is a concurrency-safe byte cache with expiry.
// Get returns db.ErrKeyNotFound on a miss.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// Nop never stores anything.
type Nop struct{}

// Get always misses.
func (Nop) Get(context.Context, string) ([]byte, error) { return nil, db.ErrKeyNotFound }

// Set discards the value.
func (Nop) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Close is a no-op.
func (Nop) Close() error { return nil }
