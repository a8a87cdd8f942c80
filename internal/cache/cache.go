// SPDX-License-Identifier: MIT

// Package cache stores generated texts with a TTL, in memory or in Redis.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ManuGH/wellcheck/internal/metrics"
)

// Backend names accepted by New.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Cache is a string cache with per-entry expiration.
type Cache interface {
	// Get returns the value for key when present and not expired.
	Get(ctx context.Context, key string) (string, bool)
	// Set stores value for ttl.
	Set(ctx context.Context, key, value string, ttl time.Duration)
	// Stats returns counters since creation.
	Stats() Stats
	// Close releases background resources.
	Close() error
}

// Stats holds cache counters.
type Stats struct {
	Hits        int64
	Misses      int64
	Sets        int64
	Evictions   int64
	CurrentSize int // -1 when the backend cannot report it cheaply
}

// Options selects and configures a backend.
type Options struct {
	Backend         string
	CleanupInterval time.Duration
	Redis           RedisConfig
}

// New builds the cache named by opts.Backend. An empty backend means memory.
// The returned cache becomes the source of the cache stats metrics.
func New(opts Options) (Cache, error) {
	var c Cache
	backend := opts.Backend
	switch backend {
	case "", BackendMemory:
		backend = BackendMemory
		interval := opts.CleanupInterval
		if interval <= 0 {
			interval = time.Minute
		}
		c = NewMemoryCache(interval)
	case BackendRedis:
		rc, err := NewRedisCache(opts.Redis)
		if err != nil {
			return nil, err
		}
		c = rc
	case BackendNone:
		metrics.SetCacheStatsSource("", nil)
		return NewNoOpCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", opts.Backend)
	}

	ExportStats(c, backend)
	return c, nil
}

// ExportStats makes c the source of the cache stats metrics.
func ExportStats(c Cache, backend string) {
	metrics.SetCacheStatsSource(backend, func() metrics.CacheStats {
		s := c.Stats()
		return metrics.CacheStats{Sets: s.Sets, Evictions: s.Evictions, Entries: s.CurrentSize}
	})
}

type entry struct {
	value      string
	expiration time.Time
}

func (e *entry) isExpired(now time.Time) bool {
	return now.After(e.expiration)
}

// memoryCache is an in-memory Cache with a background janitor.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]*entry
	stats   Stats
	now     func() time.Time

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewMemoryCache creates an in-memory cache. When cleanupInterval is
// positive, expired entries are purged on that schedule until Close.
func NewMemoryCache(cleanupInterval time.Duration) Cache {
	return newMemoryCache(cleanupInterval, time.Now)
}

func newMemoryCache(cleanupInterval time.Duration, now func() time.Time) *memoryCache {
	c := &memoryCache{
		entries: make(map[string]*entry),
		now:     now,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go c.janitor(cleanupInterval)
	} else {
		close(c.done)
	}
	return c
}

func (c *memoryCache) Get(_ context.Context, key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, found := c.entries[key]
	if !found || e.isExpired(c.now()) {
		c.stats.Misses++
		metrics.RecordCacheLookup(BackendMemory, false)
		return "", false
	}
	c.stats.Hits++
	metrics.RecordCacheLookup(BackendMemory, true)
	return e.value, true
}

func (c *memoryCache) Set(_ context.Context, key, value string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &entry{value: value, expiration: c.now().Add(ttl)}
	c.stats.Sets++
}

func (c *memoryCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.CurrentSize = len(c.entries)
	return stats
}

func (c *memoryCache) deleteExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	count := 0
	for key, e := range c.entries {
		if e.isExpired(now) {
			delete(c.entries, key)
			count++
		}
	}
	c.stats.Evictions += int64(count)
	return count
}

func (c *memoryCache) janitor(interval time.Duration) {
	defer close(c.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.deleteExpired()
		case <-c.stop:
			return
		}
	}
}

func (c *memoryCache) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	<-c.done
	return nil
}

type noOpCache struct{}

// NewNoOpCache returns a cache that stores nothing.
func NewNoOpCache() Cache {
	return noOpCache{}
}

func (noOpCache) Get(context.Context, string) (string, bool)         { return "", false }
func (noOpCache) Set(context.Context, string, string, time.Duration) {}
func (noOpCache) Stats() Stats                                       { return Stats{} }
func (noOpCache) Close() error                                       { return nil }
