// Package cache provides the advisory keyed result store for ranked match
// lists. The cache never changes output, only latency: a miss always falls
// back to a full recomputation with identical results.
package cache

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/shanewin/falkor-rentalintel/internal/model"
)

// ResultCache maps composite fingerprint keys to ranked match results.
// Keys are content-addressed (profile hash + listing-set hash), so any
// mutation to the underlying inputs produces a new key and the stale entry
// simply stops being referenced. Entries are stored and returned as copies,
// so a reader always sees a complete result, never an interleaved one.
//
// Instances are injected into callers rather than shared at package level so
// concurrent applicant sessions and tests stay isolated.
type ResultCache struct {
	mu      sync.RWMutex
	entries map[string][]model.MatchResult
	group   singleflight.Group
}

// New creates an empty ResultCache.
func New() *ResultCache {
	return &ResultCache{entries: make(map[string][]model.MatchResult)}
}

// Get returns a copy of the cached results for key, if present.
func (c *ResultCache) Get(key string) ([]model.MatchResult, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return copyResults(entry), true
}

// GetOrCompute returns the cached results for key, computing and storing
// them on a miss. Concurrent misses for the same key run compute once; the
// computation is idempotent and side-effect free, so redundant recomputation
// after a singleflight window closes is tolerated rather than locked out.
func (c *ResultCache) GetOrCompute(key string, compute func() []model.MatchResult) []model.MatchResult {
	if cached, ok := c.Get(key); ok {
		return cached
	}

	v, _, _ := c.group.Do(key, func() (any, error) {
		results := compute()
		c.mu.Lock()
		c.entries[key] = copyResults(results)
		c.mu.Unlock()
		return results, nil
	})
	return copyResults(v.([]model.MatchResult))
}

// Invalidate removes a single entry.
func (c *ResultCache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Purge drops every entry.
func (c *ResultCache) Purge() {
	c.mu.Lock()
	c.entries = make(map[string][]model.MatchResult)
	c.mu.Unlock()
}

// Len returns the number of cached entries.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func copyResults(in []model.MatchResult) []model.MatchResult {
	out := make([]model.MatchResult, len(in))
	copy(out, in)
	for i := range out {
		subs := make(map[string]float64, len(in[i].SubScores))
		for k, v := range in[i].SubScores {
			subs[k] = v
		}
		out[i].SubScores = subs
	}
	return out
}
