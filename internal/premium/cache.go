package premium

import (
	"sync"
	"time"
)

// statusEntry holds a cached premium flag and its expiry instant.
type statusEntry struct {
	premium   bool
	expiresAt time.Time
}

// StatusCache is a short-lived in-process map from user identifier to a
// premium flag. Entries past their expiry are treated as absent, never as
// authoritative.
type StatusCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]statusEntry
}

// NewStatusCache constructs a StatusCache with a fixed entry TTL.
func NewStatusCache(ttl time.Duration) *StatusCache {
	return &StatusCache{
		ttl:     ttl,
		entries: make(map[string]statusEntry),
	}
}

// Get returns the cached premium flag for the user. Expired entries are
// dropped lazily and reported as a miss.
func (c *StatusCache) Get(userID string, now time.Time) (premium bool, ok bool) {
	if c == nil || userID == "" {
		return false, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, found := c.entries[userID]
	if !found {
		return false, false
	}
	if now.After(entry.expiresAt) {
		delete(c.entries, userID)
		return false, false
	}
	return entry.premium, true
}

// Set caches the premium flag for the user with the fixed TTL. Negative
// results are cached too, so a store miss is paid at most once per window.
func (c *StatusCache) Set(userID string, premium bool, now time.Time) {
	if c == nil || userID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = statusEntry{premium: premium, expiresAt: now.Add(c.ttl)}
}

// Sweep removes all expired entries and returns the removed count.
func (c *StatusCache) Sweep(now time.Time) int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for userID, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, userID)
			removed++
		}
	}
	return removed
}
