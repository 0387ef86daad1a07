package cache

import (
	"context"
	"sync"
	"time"
)

// memoryCache is a process-local Cache for tests and cache-less deployments
// where no Valkey URL is configured.
type memoryCache struct {
	mu    sync.RWMutex
	items map[string]memoryItem
}

type memoryItem struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryCache creates an in-memory cache. Expired entries are evicted
// lazily on read.
func NewMemoryCache() Cache {
	return &memoryCache{items: make(map[string]memoryItem)}
}

func (m *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	item, found := m.items[key]
	m.mu.RUnlock()

	if !found {
		return nil, nil
	}

	if !item.expiresAt.IsZero() && time.Now().After(item.expiresAt) {
		m.mu.Lock()
		delete(m.items, key)
		m.mu.Unlock()
		return nil, nil
	}

	value := make([]byte, len(item.value))
	copy(value, item.value)
	return value, nil
}

func (m *memoryCache) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	item := memoryItem{value: stored}
	if expiration > 0 {
		item.expiresAt = time.Now().Add(expiration)
	}

	m.mu.Lock()
	m.items[key] = item
	m.mu.Unlock()
	return nil
}

func (m *memoryCache) Close() error {
	m.mu.Lock()
	m.items = make(map[string]memoryItem)
	m.mu.Unlock()
	return nil
}

func (m *memoryCache) Health(ctx context.Context) error {
	return nil
}
