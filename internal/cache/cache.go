// Package cache provides an in-memory TTL cache for analytics snapshots.
package cache

import (
	"sync"
	"time"

	"github.com/tradelens/analytics-backend/pkg/types"
)

// DefaultTTL is the entry lifetime used when none is configured.
const DefaultTTL = 5 * time.Minute

type entry struct {
	snapshot  *types.AnalyticsSnapshot
	expiresAt time.Time
}

// Snapshots is a TTL cache keyed by account ID. It is safe for
// concurrent use. The clock is injectable so expiry is testable.
type Snapshots struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
}

// NewSnapshots creates a snapshot cache with the given TTL. A
// non-positive TTL falls back to the default.
func NewSnapshots(ttl time.Duration) *Snapshots {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Snapshots{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// SetNow overrides the cache clock. Intended for tests.
func (c *Snapshots) SetNow(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Get returns the cached snapshot for an account if present and not
// expired. Expired entries are dropped on access.
func (c *Snapshots) Get(accountID string) (*types.AnalyticsSnapshot, bool) {
	c.mu.RLock()
	e, ok := c.entries[accountID]
	now := c.now()
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if now.After(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; another writer may have refreshed.
		if current, ok := c.entries[accountID]; ok && now.After(current.expiresAt) {
			delete(c.entries, accountID)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.snapshot, true
}

// Set stores a freshly computed snapshot for an account.
func (c *Snapshots) Set(accountID string, snapshot *types.AnalyticsSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[accountID] = entry{
		snapshot:  snapshot,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Invalidate removes an account's cached snapshot, if any.
func (c *Snapshots) Invalidate(accountID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, accountID)
}

// Len returns the number of live entries, counting not-yet-purged
// expired ones.
func (c *Snapshots) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
