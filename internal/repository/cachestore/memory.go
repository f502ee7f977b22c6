package cachestore

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/kailas-cloud/legalsearch/internal/db"
)

// DefaultMaxEntries bounds the in-process cache when no size is configured.
const DefaultMaxEntries = 10000

// Memory is an in-process LRU with a uniform TTL.
type Memory struct {
	lru *expirable.LRU[string, []byte]
}

// NewMemory creates an LRU holding at most maxEntries for ttl each.
// A non-positive ttl disables expiry.
func NewMemory(maxEntries int, ttl time.Duration) *Memory {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Memory{lru: expirable.NewLRU[string, []byte](maxEntries, nil, ttl)}
}

// Get reads an entry.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.lru.Get(key)
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

// Set writes an entry. The per-call ttl is ignored in favour of the LRU's.
func (m *Memory) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.lru.Add(key, value)
	return nil
}

// Len returns the number of live entries.
func (m *Memory) Len() int { return m.lru.Len() }

// Close drops every entry.
func (m *Memory) Close() error {
	m.lru.Purge()
	return nil
}
