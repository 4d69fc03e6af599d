package aggregate

import (
	"sync"
	"time"

	"github.com/claude/amped/internal/health"
)

// Cache memoizes full fetch results per reporting period for a bounded time.
// It is constructor-injected into the orchestrator and invalidated explicitly
// when new data arrives; there is no hidden process-wide cache.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[health.Period]cacheEntry
}

type cacheEntry struct {
	metrics  []health.AggregatedMetric
	storedAt time.Time
}

// NewCache creates a cache whose entries expire after ttl.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl, entries: make(map[health.Period]cacheEntry)}
}

// Invalidate drops every cached result. Call after any write that changes
// source data (ingest, questionnaire answers).
func (c *Cache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[health.Period]cacheEntry)
}

func (c *Cache) get(p health.Period, now time.Time) ([]health.AggregatedMetric, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[p]
	if !ok || now.Sub(e.storedAt) > c.ttl {
		return nil, false
	}
	out := make([]health.AggregatedMetric, len(e.metrics))
	copy(out, e.metrics)
	return out, true
}

func (c *Cache) put(p health.Period, metrics []health.AggregatedMetric, now time.Time) {
	if c == nil {
		return
	}
	stored := make([]health.AggregatedMetric, len(metrics))
	copy(stored, metrics)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[p] = cacheEntry{metrics: stored, storedAt: now}
}
