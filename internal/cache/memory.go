package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// memoryCacheSize bounds the LRU. Webhook dedup entries and the product
// listing are the only tenants, so this is generous.
const memoryCacheSize = 8192

// MemoryProvider is an in-process LRU with per-entry expiry. Entries are
// reaped lazily on read, which is fine for dedup keys that are either hit
// soon after being written or evicted by the LRU.
type MemoryProvider struct {
	entries *lru.Cache[string, memoryEntry]
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

func NewMemoryProvider() (*MemoryProvider, error) {
	entries, err := lru.New[string, memoryEntry](memoryCacheSize)
	if err != nil {
		return nil, err
	}
	return &MemoryProvider{entries: entries}, nil
}

func (m *MemoryProvider) Get(_ context.Context, key string) (string, error) {
	entry, ok := m.entries.Get(key)
	if !ok {
		return "", ErrNotFound
	}
	if time.Now().After(entry.expiresAt) {
		m.entries.Remove(key)
		return "", ErrNotFound
	}
	return entry.value, nil
}

func (m *MemoryProvider) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	m.entries.Add(key, memoryEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	})
	return nil
}

func (m *MemoryProvider) Delete(_ context.Context, key string) error {
	m.entries.Remove(key)
	return nil
}

func (m *MemoryProvider) Close() error {
	return nil
}
