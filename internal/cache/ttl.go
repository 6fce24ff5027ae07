// Package cache provides the read-side result cache for the data layer: a
// generic TTL store with glob pattern invalidation, hit/miss statistics, and
// size-bounded eviction, plus a small LRU cache for prepared statements.
package cache

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	// DefaultTTL is the entry lifetime used when Set is called with ttl 0.
	DefaultTTL = 5 * time.Minute
	// DefaultMaxEntries is the capacity bound that triggers cleanup.
	DefaultMaxEntries = 1000
	// evictFraction of surviving entries removed when cleanup still finds the
	// cache at capacity after dropping expired entries.
	evictFraction = 0.10
)

// Option configures a Cache.
type Option func(*config)

type config struct {
	defaultTTL time.Duration
	maxEntries int
	stats      bool
}

// WithDefaultTTL sets the lifetime applied when Set receives ttl 0.
// Non-positive values fall back to DefaultTTL.
func WithDefaultTTL(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.defaultTTL = d
		}
	}
}

// WithMaxEntries sets the capacity bound. Non-positive values fall back to
// DefaultMaxEntries.
func WithMaxEntries(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// WithStats enables or disables statistics counters. Enabled by default.
func WithStats(enabled bool) Option {
	return func(c *config) {
		c.stats = enabled
	}
}

// entry is a cached value with its lifetime and access count. Entries are
// owned by the cache map and never handed out by reference.
type entry[V any] struct {
	value     V
	createdAt time.Time
	expiresAt time.Time
	hits      uint64
}

// Cache is a goroutine-safe TTL key-value store. Expired entries are removed
// lazily on access and in bulk when Set finds the cache at capacity.
// Concurrent GetOrSet calls for the same key share a single compute.
type Cache[V any] struct {
	mu      sync.Mutex
	entries map[string]*entry[V]

	defaultTTL time.Duration
	maxEntries int
	statsOn    bool

	group singleflight.Group

	hits      atomic.Uint64
	misses    atomic.Uint64
	sets      atomic.Uint64
	deletes   atomic.Uint64
	evictions atomic.Uint64
}

// New creates a Cache with the given options.
func New[V any](opts ...Option) *Cache[V] {
	cfg := config{
		defaultTTL: DefaultTTL,
		maxEntries: DefaultMaxEntries,
		stats:      true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Cache[V]{
		entries:    make(map[string]*entry[V], cfg.maxEntries),
		defaultTTL: cfg.defaultTTL,
		maxEntries: cfg.maxEntries,
		statsOn:    cfg.stats,
	}
}

// Get returns the cached value for key. An expired entry is deleted as a side
// effect and reported as a miss.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getLocked(key, time.Now())
}

func (c *Cache[V]) getLocked(key string, now time.Time) (V, bool) {
	var zero V
	e, ok := c.entries[key]
	if !ok {
		c.count(&c.misses)
		return zero, false
	}
	if now.After(e.expiresAt) {
		delete(c.entries, key)
		c.count(&c.misses)
		return zero, false
	}
	e.hits++
	c.count(&c.hits)
	return e.value, true
}

// Set stores value under key. ttl 0 means the default TTL; a negative ttl
// produces an entry that is already expired. When the cache is at capacity,
// cleanup runs before the insert.
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.cleanupLocked(now)
	}
	c.entries[key] = &entry[V]{
		value:     value,
		createdAt: now,
		expiresAt: now.Add(ttl),
	}
	c.count(&c.sets)
}

// GetOrSet returns the cached value for key, or computes, stores, and returns
// it. Concurrent callers missing on the same key share one compute; the
// others wait for its result. A compute error is returned without storing
// anything.
func (c *Cache[V]) GetOrSet(ctx context.Context, key string, ttl time.Duration, compute func(context.Context) (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		// A concurrent flight may have stored the value between our miss and
		// acquiring the flight.
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		v, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		c.Set(key, v, ttl)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return result.(V), nil
}

// Has reports whether key is present and unexpired. Like Get, it deletes an
// expired entry on sight, but does not touch hit counters on the entry.
func (c *Cache[V]) Has(key string) bool {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return false
	}
	if now.After(e.expiresAt) {
		delete(c.entries, key)
		return false
	}
	return true
}

// Delete removes key and reports whether it was present.
func (c *Cache[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok {
		return false
	}
	delete(c.entries, key)
	c.count(&c.deletes)
	return true
}

// DeletePattern removes every entry whose key matches the glob and returns
// the number removed. The only metacharacter is *, matching zero or more
// characters; everything else is literal. Without a * the pattern is an
// exact match.
func (c *Cache[V]) DeletePattern(glob string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !strings.Contains(glob, "*") {
		if _, ok := c.entries[glob]; ok {
			delete(c.entries, glob)
			c.count(&c.deletes)
			return 1
		}
		return 0
	}

	re := compileGlob(glob)
	removed := 0
	for key := range c.entries {
		if re.MatchString(key) {
			delete(c.entries, key)
			removed++
		}
	}
	if removed > 0 {
		c.addCount(&c.deletes, uint64(removed))
	}
	return removed
}

// compileGlob turns a glob into an anchored regexp, escaping everything
// except *.
func compileGlob(glob string) *regexp.Regexp {
	escaped := regexp.QuoteMeta(glob)
	pattern := "^" + strings.ReplaceAll(escaped, `\*`, ".*") + "$"
	return regexp.MustCompile(pattern)
}

// Clear removes all entries. Statistics counters are untouched.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry[V], c.maxEntries)
}

// Size returns the number of stored entries, expired ones included.
func (c *Cache[V]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Keys returns the unexpired keys in sorted order. Expired entries are
// filtered out but not removed.
func (c *Cache[V]) Keys() []string {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.entries))
	for key, e := range c.entries {
		if !now.After(e.expiresAt) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// Metadata is a debugging view of one entry.
type Metadata struct {
	Key          string        `json:"key"`
	CreatedAt    time.Time     `json:"createdAt"`
	ExpiresAt    time.Time     `json:"expiresAt"`
	TTLRemaining time.Duration `json:"ttlRemaining"`
	Expired      bool          `json:"isExpired"`
	Hits         uint64        `json:"hits"`
}

// Metadata returns a copy view of the entry for key, or false if absent.
// Unlike Get, it does not delete an expired entry.
func (c *Cache[V]) Metadata(key string) (Metadata, bool) {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return Metadata{}, false
	}
	remaining := e.expiresAt.Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	return Metadata{
		Key:          key,
		CreatedAt:    e.createdAt,
		ExpiresAt:    e.expiresAt,
		TTLRemaining: remaining,
		Expired:      now.After(e.expiresAt),
		Hits:         e.hits,
	}, true
}

// Stats holds process-lifetime counters. Counters only move forward except
// through ResetStats.
type Stats struct {
	Size      int
	Hits      uint64
	Misses    uint64
	Sets      uint64
	Deletes   uint64
	Evictions uint64
	HitRate   float64 // percentage, 0 when no accesses yet
}

// Stats returns a snapshot of the counters.
func (c *Cache[V]) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	return Stats{
		Size:      c.Size(),
		Hits:      hits,
		Misses:    misses,
		Sets:      c.sets.Load(),
		Deletes:   c.deletes.Load(),
		Evictions: c.evictions.Load(),
		HitRate:   hitRate,
	}
}

// ResetStats zeroes all counters.
func (c *Cache[V]) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.sets.Store(0)
	c.deletes.Store(0)
	c.evictions.Store(0)
}

// cleanupLocked reclaims space: first drop expired entries, then, if the
// cache is still at capacity, evict the least-used-then-oldest 10% of the
// survivors (at least one). Must be called with the lock held.
func (c *Cache[V]) cleanupLocked(now time.Time) {
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			c.count(&c.evictions)
		}
	}
	if len(c.entries) < c.maxEntries {
		return
	}

	type candidate struct {
		key       string
		hits      uint64
		createdAt time.Time
	}
	survivors := make([]candidate, 0, len(c.entries))
	for key, e := range c.entries {
		survivors = append(survivors, candidate{key: key, hits: e.hits, createdAt: e.createdAt})
	}
	sort.Slice(survivors, func(i, j int) bool {
		if survivors[i].hits != survivors[j].hits {
			return survivors[i].hits < survivors[j].hits
		}
		return survivors[i].createdAt.Before(survivors[j].createdAt)
	})

	evict := (len(survivors)*int(evictFraction*100) + 99) / 100
	if evict < 1 {
		evict = 1
	}
	for _, cand := range survivors[:evict] {
		delete(c.entries, cand.key)
		c.count(&c.evictions)
	}
}

func (c *Cache[V]) count(counter *atomic.Uint64) {
	if c.statsOn {
		counter.Add(1)
	}
}

func (c *Cache[V]) addCount(counter *atomic.Uint64, n uint64) {
	if c.statsOn {
		counter.Add(n)
	}
}
