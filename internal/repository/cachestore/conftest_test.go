package cachestore

import (
	"context"
	"sync"
	"time"

	"github.com/kailas-cloud/legalsearch/internal/db"
)

// mockKV implements the Redis cache consumer interface.
type mockKV struct {
	mu      sync.Mutex
	data    map[string][]byte
	lastTTL time.Duration
	setErr  error
}

func newMockKV() *mockKV { return &mockKV{data: make(map[string][]byte)} }

func (m *mockKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKV) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.lastTTL = ttl
	return nil
}
