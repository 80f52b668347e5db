// Package cache memoizes simulation reports by script hash. The same
// script always replays to the same report, so a hit skips the run
// entirely.
package cache

import (
	"sync"
	"time"

	"github.com/example/ride-sim/internal/monitor"
)

// ReportCache is the lookup interface used by the HTTP handlers.
type ReportCache interface {
	Get(scriptHash string) (monitor.Report, bool)
	Set(scriptHash string, r monitor.Report)
}

type cacheEntry struct {
	v  monitor.Report
	ts time.Time
}

// MemoryCache is a tiny in-memory TTL cache for reports.
type MemoryCache struct {
	mu    sync.RWMutex
	store map[string]cacheEntry
	ttl   time.Duration
}

// NewMemoryCache creates a cache with the provided TTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{store: make(map[string]cacheEntry), ttl: ttl}
}

// Get returns the cached report and true if present and not expired.
func (c *MemoryCache) Get(scriptHash string) (monitor.Report, bool) {
	c.mu.RLock()
	e, ok := c.store[scriptHash]
	c.mu.RUnlock()
	if !ok {
		return monitor.Report{}, false
	}
	if time.Since(e.ts) > c.ttl {
		c.mu.Lock()
		delete(c.store, scriptHash)
		c.mu.Unlock()
		return monitor.Report{}, false
	}
	return e.v, true
}

// Set stores a report in the cache.
func (c *MemoryCache) Set(scriptHash string, r monitor.Report) {
	c.mu.Lock()
	c.store[scriptHash] = cacheEntry{v: r, ts: time.Now()}
	c.mu.Unlock()
}
