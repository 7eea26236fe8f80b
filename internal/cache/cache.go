// Package cache holds the most recent extraction result so repeated
// requests inside the TTL window skip the full fetch/parse pipeline.
package cache

import (
	"sync"
	"time"

	"github.com/ttfl-live/injury-report/internal/report"
)

// DefaultTTL is how long a cached result stays fresh.
const DefaultTTL = time.Hour

// ResultCache caches the last successful result with a TTL. Safe for
// concurrent use.
type ResultCache struct {
	mu       sync.Mutex
	result   *report.Result
	cachedAt time.Time
	ttl      time.Duration

	now func() time.Time // test hook
}

// New creates a ResultCache. A non-positive ttl falls back to DefaultTTL.
func New(ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ResultCache{ttl: ttl, now: time.Now}
}

// Get returns the cached result if it is still fresh, or nil.
func (c *ResultCache) Get() *report.Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.result == nil {
		return nil
	}
	if c.now().Sub(c.cachedAt) > c.ttl {
		c.result = nil
		return nil
	}
	return c.result
}

// Set stores a result. Failed results are not cached, so the next
// request retries the pipeline.
func (c *ResultCache) Set(result *report.Result) {
	if result == nil || !result.OK {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.result = result
	c.cachedAt = c.now()
}

// PDFURL returns the source URL of the cached result, or "" when the
// cache is empty. Used to probe whether a newer report has been
// published before serving a still-fresh entry.
func (c *ResultCache) PDFURL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil || c.result.Meta == nil {
		return ""
	}
	return c.result.Meta.PDFURL
}

// Invalidate drops the cached result.
func (c *ResultCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.result = nil
}

// Age returns how long ago the cached result was stored, or zero when
// the cache is empty.
func (c *ResultCache) Age() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil {
		return 0
	}
	return c.now().Sub(c.cachedAt)
}
