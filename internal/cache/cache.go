package cache

import (
	"context"
	"log"
	"time"
)

// Keys of the last-known-good snapshots kept by the API
const (
	KeyActiveBins = "bins:active"
	KeyDashboard  = "analytics:dashboard"
	KeyNotices    = "notices:active"
)

// Cache stores JSON-encoded values by key.
// Get reports false when the key is missing or expired.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, key string) error
	Stats() map[string]interface{}
	Close() error
}

// New returns a Redis-backed cache when redisURL is set and reachable,
// otherwise an in-process cache.
func New(redisURL string, ttl time.Duration) Cache {
	if redisURL != "" {
		rc, err := NewRedisCache(redisURL, ttl)
		if err == nil {
			log.Println("✅ Redis cache connected")
			return rc
		}
		log.Printf("⚠️  Redis unavailable (%v), falling back to in-memory cache", err)
	}
	return NewMemoryCache(1000, ttl)
}
