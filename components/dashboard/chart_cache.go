package dashboard

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"
)

// RenderCache memoizes rendered chart HTML keyed by config and data.
type RenderCache interface {
	GetOrRender(key string, render func() (string, error)) (string, error)
}

// DefaultChartCacheEntries bounds a ChartCache built without an explicit limit.
const DefaultChartCacheEntries = 256

// ChartCache is an in-memory TTL cache for rendered charts. Every datasource
// delivered to an item yields a new key, so the cache is bounded.
type ChartCache struct {
	ttl     time.Duration
	limit   int
	mu      sync.RWMutex
	entries map[string]renderedChart
}

type renderedChart struct {
	html    string
	expires time.Time
}

// NewChartCache builds a cache with the provided TTL holding at most
// DefaultChartCacheEntries charts.
func NewChartCache(ttl time.Duration) *ChartCache {
	return NewBoundedChartCache(ttl, DefaultChartCacheEntries)
}

// NewBoundedChartCache builds a cache holding at most limit charts.
func NewBoundedChartCache(ttl time.Duration, limit int) *ChartCache {
	if limit <= 0 {
		limit = DefaultChartCacheEntries
	}
	return &ChartCache{
		ttl:     ttl,
		limit:   limit,
		entries: make(map[string]renderedChart),
	}
}

// Len reports the number of cached charts, expired ones included.
func (c *ChartCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// GetOrRender returns a cached entry or renders/stores a new one.
func (c *ChartCache) GetOrRender(key string, render func() (string, error)) (string, error) {
	if html, ok := c.get(key); ok {
		return html, nil
	}
	html, err := render()
	if err != nil {
		return "", err
	}
	c.set(key, html)
	return html, nil
}

func (c *ChartCache) get(key string) (string, bool) {
	if c == nil || c.ttl <= 0 {
		return "", false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expires) {
		if ok {
			c.mu.Lock()
			delete(c.entries, key)
			c.mu.Unlock()
		}
		return "", false
	}
	return entry.html, true
}

func (c *ChartCache) set(key, html string) {
	if c == nil || c.ttl <= 0 {
		return
	}
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.limit {
		c.evictLocked(now)
	}
	c.entries[key] = renderedChart{
		html:    html,
		expires: now.Add(c.ttl),
	}
}

// evictLocked drops expired charts, or the one closest to expiry when none has expired.
func (c *ChartCache) evictLocked(now time.Time) {
	oldestKey := ""
	var oldest time.Time
	for key, entry := range c.entries {
		if now.After(entry.expires) {
			delete(c.entries, key)
			continue
		}
		if oldestKey == "" || entry.expires.Before(oldest) {
			oldestKey, oldest = key, entry.expires
		}
	}
	if len(c.entries) >= c.limit && oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// configHash returns a deterministic hash of a JSON-encodable value.
func configHash(v any) string {
	if v == nil {
		return "empty"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "invalid"
	}
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}
