// Package pslcache adapts a generic, TTL-based key/value store to cache
// parsed rule-set snapshots keyed by the URI they were fetched from - the
// "Cache" collaborator interface spec.md describes and deliberately keeps
// out of the core: fetch(uri) -> snapshot?, store(uri, snapshot) -> bool,
// with an opaque TTL.
package pslcache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/globalsign/etld/rules"
)

// Cache is the collaborator interface the resolver's callers use to avoid
// re-fetching and re-parsing the Public Suffix List on every process start.
type Cache interface {
	Fetch(uri string) (rules.Snapshot, bool)
	Store(uri string, snap rules.Snapshot, ttl time.Duration) bool
}

// MemoryCache backs Cache with an in-process, per-entry TTL store.
type MemoryCache struct {
	c *gocache.Cache
}

// NewMemoryCache builds a MemoryCache. defaultExpiration applies to entries
// stored with Store's ttl == 0; cleanupInterval controls how often expired
// entries are purged.
func NewMemoryCache(defaultExpiration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{c: gocache.New(defaultExpiration, cleanupInterval)}
}

// Fetch returns the cached snapshot for uri, if present and unexpired.
func (m *MemoryCache) Fetch(uri string) (rules.Snapshot, bool) {
	v, ok := m.c.Get(uri)
	if !ok {
		return rules.Snapshot{}, false
	}
	snap, ok := v.(rules.Snapshot)
	return snap, ok
}

// Store caches snap under uri for ttl. A ttl of 0 uses the cache's default
// expiration (gocache.DefaultExpiration); a negative ttl disables expiration
// for this entry (gocache.NoExpiration).
func (m *MemoryCache) Store(uri string, snap rules.Snapshot, ttl time.Duration) bool {
	m.c.Set(uri, snap, ttl)
	return true
}
