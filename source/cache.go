package source

import (
	"context"
	"sync"
	"time"

	"flyrate-analyzer/models"
)

// CachedSource memoises another source's Load for a fixed TTL, so
// repeated analysis passes within one session reuse the same snapshot.
type CachedSource struct {
	inner TripSource
	ttl   time.Duration
	now   func() time.Time

	mu        sync.Mutex
	records   []models.RawRecord
	fetchedAt time.Time
}

// NewCachedSource wraps inner with a TTL cache.
func NewCachedSource(inner TripSource, ttl time.Duration) *CachedSource {
	return &CachedSource{inner: inner, ttl: ttl, now: time.Now}
}

func (c *CachedSource) Name() string {
	return c.inner.Name() + " (cached)"
}

// Load returns the cached snapshot when it is still fresh, otherwise
// delegates to the inner source. A failed refresh is not cached.
func (c *CachedSource) Load(ctx context.Context) ([]models.RawRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.records != nil && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.records, nil
	}

	records, err := c.inner.Load(ctx)
	if err != nil {
		return nil, err
	}
	c.records = records
	c.fetchedAt = c.now()
	return records, nil
}
