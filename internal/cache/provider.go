// Package cache backs webhook deduplication and catalog read caching with
// either an in-process LRU or Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by Get when a key is absent or expired.
var ErrNotFound = errors.New("key not found")

// ProductListKey holds the cached active-catalog listing.
const ProductListKey = "products:active"

// Provider is the key-value surface the handlers use. Values are short
// strings; anything structured is marshalled before it goes in.
type Provider interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

type Config struct {
	Provider              string
	RedisConnectionString string
}

// NewProvider selects the cache backend. Memory is the default and is
// enough for a single instance; Redis is for running more than one, so
// webhook dedup entries are shared.
func NewProvider(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "memory", "":
		return NewMemoryProvider()
	case "redis":
		return NewRedisProvider(cfg.RedisConnectionString)
	default:
		return nil, fmt.Errorf("unsupported cache provider: %s", cfg.Provider)
	}
}

// WebhookKey names the dedup entry for one gateway payment event.
func WebhookKey(source, eventID string) string {
	return fmt.Sprintf("webhook:%s:%s", source, eventID)
}
