package memory

import (
	"sync"
	"time"

	"github.com/custodia-labs/dailyrank/internal/core/domain"
	"github.com/custodia-labs/dailyrank/internal/core/ports/driven"
)

// Ensure SnapshotCache implements the interface.
var _ driven.SnapshotCache = (*SnapshotCache)(nil)

// SnapshotCache holds a single snapshot for a limited time.
// An entry only answers lookups for its own date, so a cache filled
// yesterday never serves today.
type SnapshotCache struct {
	ttl   time.Duration
	clock driven.Clock

	mu      sync.Mutex
	date    domain.Date
	snap    *domain.DailySnapshot
	expires time.Time
}

// NewSnapshotCache creates a cache whose entries live for ttl.
// A zero ttl disables caching.
func NewSnapshotCache(ttl time.Duration, clock driven.Clock) *SnapshotCache {
	return &SnapshotCache{
		ttl:   ttl,
		clock: clock,
	}
}

// Get returns the cached snapshot for date if it has not expired.
func (c *SnapshotCache) Get(date domain.Date) (*domain.DailySnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snap == nil || !c.date.Equal(date) {
		return nil, false
	}
	if !c.clock.Now().Before(c.expires) {
		c.snap = nil
		return nil, false
	}
	return c.snap, true
}

// Put replaces the cached entry.
func (c *SnapshotCache) Put(snapshot *domain.DailySnapshot) {
	if c.ttl <= 0 || snapshot == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.date = snapshot.Date
	c.snap = snapshot
	c.expires = c.clock.Now().Add(c.ttl)
}

// Invalidate drops the entry if it belongs to date.
func (c *SnapshotCache) Invalidate(date domain.Date) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.date.Equal(date) {
		c.snap = nil
	}
}
