package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"
)

// MemoryCache is an in-process Cache with TTL and LRU eviction
type MemoryCache struct {
	cache      map[string]*cacheEntry
	mutex      sync.RWMutex
	maxEntries int
	ttl        time.Duration
	stats      cacheStats
	stopChan   chan struct{}
	stopOnce   sync.Once
}

type cacheEntry struct {
	value        []byte
	createdAt    time.Time
	lastAccessed time.Time
	hitCount     int
}

type cacheStats struct {
	hits      int64
	misses    int64
	evictions int64
	mutex     sync.RWMutex
}

// NewMemoryCache creates a cache and starts its cleanup goroutine
func NewMemoryCache(maxEntries int, ttl time.Duration) *MemoryCache {
	c := &MemoryCache{
		cache:      make(map[string]*cacheEntry),
		maxEntries: maxEntries,
		ttl:        ttl,
		stopChan:   make(chan struct{}),
	}

	go c.cleanupExpired()

	return c
}

func (c *MemoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mutex.Lock()
	entry, found := c.cache[key]
	if found && time.Since(entry.createdAt) > c.ttl {
		delete(c.cache, key)
		found = false
		c.recordEviction()
	}
	if found {
		entry.lastAccessed = time.Now()
		entry.hitCount++
	}
	c.mutex.Unlock()

	if !found {
		c.recordMiss()
		return false, nil
	}

	c.recordHit()
	if err := json.Unmarshal(entry.value, dest); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, exists := c.cache[key]; !exists && len(c.cache) >= c.maxEntries {
		c.evictOldest()
	}

	now := time.Now()
	c.cache[key] = &cacheEntry{
		value:        data,
		createdAt:    now,
		lastAccessed: now,
	}
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mutex.Lock()
	delete(c.cache, key)
	c.mutex.Unlock()
	return nil
}

// Close stops the cleanup goroutine
func (c *MemoryCache) Close() error {
	c.stopOnce.Do(func() { close(c.stopChan) })
	return nil
}

// evictOldest removes the least recently used entry. Caller holds the lock.
func (c *MemoryCache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time

	for key, entry := range c.cache {
		if oldestKey == "" || entry.lastAccessed.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.lastAccessed
		}
	}

	if oldestKey != "" {
		delete(c.cache, oldestKey)
		c.recordEviction()
		log.Printf("🗑️  Evicted oldest cache entry: %s", oldestKey)
	}
}

// cleanupExpired periodically removes expired entries
func (c *MemoryCache) cleanupExpired() {
	interval := c.ttl
	if interval <= 0 || interval > time.Hour {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.mutex.Lock()
			now := time.Now()
			for key, entry := range c.cache {
				if now.Sub(entry.createdAt) > c.ttl {
					delete(c.cache, key)
					c.recordEviction()
				}
			}
			c.mutex.Unlock()
		}
	}
}

func (c *MemoryCache) recordHit() {
	c.stats.mutex.Lock()
	defer c.stats.mutex.Unlock()
	c.stats.hits++
}

func (c *MemoryCache) recordMiss() {
	c.stats.mutex.Lock()
	defer c.stats.mutex.Unlock()
	c.stats.misses++
}

func (c *MemoryCache) recordEviction() {
	c.stats.mutex.Lock()
	defer c.stats.mutex.Unlock()
	c.stats.evictions++
}

// Stats returns cache statistics
func (c *MemoryCache) Stats() map[string]interface{} {
	c.mutex.RLock()
	cacheSize := len(c.cache)
	c.mutex.RUnlock()

	c.stats.mutex.RLock()
	defer c.stats.mutex.RUnlock()

	hitRate := 0.0
	total := c.stats.hits + c.stats.misses
	if total > 0 {
		hitRate = float64(c.stats.hits) / float64(total) * 100
	}

	return map[string]interface{}{
		"backend":     "memory",
		"cache_size":  cacheSize,
		"max_entries": c.maxEntries,
		"hits":        c.stats.hits,
		"misses":      c.stats.misses,
		"hit_rate":    fmt.Sprintf("%.2f%%", hitRate),
		"evictions":   c.stats.evictions,
		"ttl_seconds": int(c.ttl.Seconds()),
	}
}
