// Deckvault - Collectible Card Collection Pricing Core
// Copyright 2026 Deckvault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/deckvault/deckvault

package printings

import (
	"errors"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/deckvault/deckvault/internal/logging"
	"github.com/deckvault/deckvault/internal/metrics"
	"github.com/deckvault/deckvault/internal/models"
	"github.com/deckvault/deckvault/internal/storage"
)

const (
	// cacheBlobKey is the backend key the whole cache is persisted under.
	cacheBlobKey = "printing_cache"

	// cacheVersion tags the persisted blob. A mismatch on load clears the
	// store; compatibility is forward-only.
	cacheVersion = 3

	// DefaultTTL is the freshness window for cached printings.
	DefaultTTL = 24 * time.Hour

	// DefaultMaxEntries caps the cache; at capacity the oldest fifth is
	// evicted.
	DefaultMaxEntries = 1000

	// evictFraction is the share of entries dropped on a capacity eviction.
	evictFraction = 0.2
)

// Entry is the cached state for one card name: every known printing plus the
// currently selected one.
type Entry struct {
	Printings []models.Printing `json:"printings"`
	Selected  models.Printing   `json:"selected"`
	Timestamp time.Time         `json:"timestamp"`
}

// VerifyStatus is the outcome of a caller-side integrity cross-check.
type VerifyStatus int

const (
	// VerifyOK: the entry passed every check.
	VerifyOK VerifyStatus = iota

	// VerifySuspect: a single cached printing where multiple real printings
	// are known. Suspicious but not automatically wrong; the entry is kept.
	VerifySuspect

	// VerifyEvicted: the entry failed a structural or freshness check and
	// was evicted; the caller should re-fetch.
	VerifyEvicted
)

// CacheOptions tunes a Cache. Zero values take the defaults.
type CacheOptions struct {
	TTL        time.Duration
	MaxEntries int

	// Now overrides the clock, for TTL tests.
	Now func() time.Time
}

// Cache is the printing cache: per-name printing sets with a freshness
// window, structural validation on read, and capacity-bounded persistence as
// a single versioned blob.
//
// Public methods never return errors; every failure mode is absorbed and
// logged, and the cache degrades to a miss. It is best-effort by contract,
// never a correctness dependency.
type Cache struct {
	mu         sync.Mutex
	backend    storage.Backend
	entries    map[string]*Entry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
	validate   *validator.Validate
	log        zerolog.Logger
}

// NewCache builds a cache over the given backend and loads any persisted
// state. A corrupt or version-mismatched blob resets the store.
func NewCache(backend storage.Backend, opts CacheOptions) *Cache {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	c := &Cache{
		backend:    backend,
		entries:    make(map[string]*Entry),
		ttl:        opts.TTL,
		maxEntries: opts.MaxEntries,
		now:        opts.Now,
		validate:   validator.New(),
		log:        logging.WithComponent("printing_cache"),
	}
	c.load()
	return c
}

// load restores the persisted blob, resetting on mismatch or corruption.
func (c *Cache) load() {
	blob, err := c.backend.Load(cacheBlobKey)
	if err != nil {
		if !storage.IsKind(err, storage.KindNotFound) {
			c.log.Warn().Err(err).Msg("printing cache unreadable, starting empty")
		}
		return
	}

	var entries map[string]*Entry
	if err := storage.UnmarshalVersioned(cacheVersion, blob, &entries); err != nil {
		if errors.Is(err, storage.ErrVersionMismatch) {
			c.log.Info().Msg("printing cache version changed, clearing store")
			metrics.CacheEvictions.WithLabelValues("version").Inc()
		} else {
			c.log.Warn().Err(err).Msg("printing cache blob corrupt, clearing store")
		}
		_ = c.backend.Delete(cacheBlobKey)
		return
	}

	if entries == nil {
		entries = make(map[string]*Entry)
	}
	// A null entry value decodes to a nil pointer; keep such a blob from
	// panicking later reads.
	for name, e := range entries {
		if e == nil {
			delete(entries, name)
			metrics.CacheEvictions.WithLabelValues("corrupt").Inc()
			c.log.Warn().Str("card", name).Msg("dropped null cache entry from persisted blob")
		}
	}

	c.entries = entries
	metrics.CacheEntries.Set(float64(len(c.entries)))
}

// Get returns the cached entry for a card name, or nil when the entry is
// absent, stale, or structurally invalid. Stale and invalid entries are
// evicted on the way out.
func (c *Cache) Get(name string) *Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.get(name)
}

func (c *Cache) get(name string) *Entry {
	entry, ok := c.entries[name]
	if !ok {
		metrics.CacheMisses.WithLabelValues("absent").Inc()
		return nil
	}

	if c.now().Sub(entry.Timestamp) > c.ttl {
		c.evict(name, "expired")
		metrics.CacheMisses.WithLabelValues("expired").Inc()
		return nil
	}

	if !c.wellFormed(entry) {
		c.evict(name, "corrupt")
		metrics.CacheMisses.WithLabelValues("corrupt").Inc()
		c.log.Warn().Str("card", name).Msg("evicted malformed cache entry")
		return nil
	}

	metrics.CacheHits.Inc()
	return entry
}

// Has reports whether Get would return a usable entry.
func (c *Cache) Has(name string) bool {
	return c.Get(name) != nil
}

// Set stores the printings and current selection for a card name. An empty
// printing list is rejected as a no-op; at capacity the oldest fifth of the
// store is evicted first.
func (c *Cache) Set(name string, printings []models.Printing, selected models.Printing) {
	if name == "" || len(printings) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[name]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}

	c.entries[name] = &Entry{
		Printings: printings,
		Selected:  selected,
		Timestamp: c.now(),
	}
	c.persist()
	metrics.CacheEntries.Set(float64(len(c.entries)))
}

// Remove deletes the entry for a card name unconditionally.
func (c *Cache) Remove(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.evict(name, "explicit")
}

// Clear empties the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Entry)
	if err := c.backend.Delete(cacheBlobKey); err != nil {
		c.log.Warn().Err(err).Msg("failed to delete printing cache blob")
	}
	metrics.CacheEntries.Set(0)
}

// Len returns the number of cached entries, including not-yet-expired ones.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Verify cross-checks a cache hit beyond what Get enforces. expectMultiple
// should be true when the card is known to have several real printings; a
// single cached printing is then reported suspect but kept, since one
// printing may legitimately be all the catalog had at fetch time.
func (c *Cache) Verify(name string, expectMultiple bool) VerifyStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[name]
	if !ok {
		return VerifyEvicted
	}

	if c.now().Sub(entry.Timestamp) > c.ttl || !c.wellFormed(entry) {
		c.evict(name, "corrupt")
		return VerifyEvicted
	}

	if expectMultiple && len(entry.Printings) == 1 {
		c.log.Debug().Str("card", name).Msg("cache entry has single printing where multiple are known")
		return VerifySuspect
	}
	return VerifyOK
}

// wellFormed checks the structural invariants of an entry: a non-empty
// printing list where every printing has its identity fields and at least
// one image reference.
func (c *Cache) wellFormed(entry *Entry) bool {
	if entry == nil || len(entry.Printings) == 0 {
		return false
	}
	for i := range entry.Printings {
		p := &entry.Printings[i]
		if err := c.validate.Struct(p); err != nil {
			return false
		}
		if !p.HasImage() {
			return false
		}
	}
	return true
}

// evict removes one entry and persists.
func (c *Cache) evict(name, reason string) {
	if _, ok := c.entries[name]; !ok {
		return
	}
	delete(c.entries, name)
	c.persist()
	metrics.CacheEvictions.WithLabelValues(reason).Inc()
	metrics.CacheEntries.Set(float64(len(c.entries)))
}

// evictOldest drops the oldest fifth of the store by timestamp.
func (c *Cache) evictOldest() {
	type aged struct {
		name string
		ts   time.Time
	}
	all := make([]aged, 0, len(c.entries))
	for name, e := range c.entries {
		all = append(all, aged{name, e.Timestamp})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ts.Before(all[j].ts) })

	n := int(math.Ceil(float64(len(all)) * evictFraction))
	for i := 0; i < n && i < len(all); i++ {
		delete(c.entries, all[i].name)
		metrics.CacheEvictions.WithLabelValues("capacity").Inc()
	}
	c.log.Debug().Int("evicted", n).Int("remaining", len(c.entries)).Msg("capacity eviction")
}

// purgeExpired drops every stale entry. Used before retrying a write that
// failed on quota.
func (c *Cache) purgeExpired() int {
	now := c.now()
	purged := 0
	for name, e := range c.entries {
		if now.Sub(e.Timestamp) > c.ttl {
			delete(c.entries, name)
			purged++
			metrics.CacheEvictions.WithLabelValues("expired").Inc()
		}
	}
	return purged
}

// persist writes the whole store as one versioned blob. A quota failure
// purges expired entries and retries once; any remaining failure is logged
// and swallowed; the cache is best-effort.
func (c *Cache) persist() {
	blob, err := storage.MarshalVersioned(cacheVersion, c.entries)
	if err != nil {
		c.log.Error().Err(err).Msg("failed to serialize printing cache")
		return
	}

	err = c.backend.Save(cacheBlobKey, blob)
	if err == nil {
		return
	}

	if storage.IsKind(err, storage.KindQuota) {
		purged := c.purgeExpired()
		c.log.Warn().Int("purged", purged).Msg("printing cache hit storage quota, purged expired entries")
		metrics.CachePersistFailures.WithLabelValues("printing_cache", "quota").Inc()

		if blob, err = storage.MarshalVersioned(cacheVersion, c.entries); err == nil {
			err = c.backend.Save(cacheBlobKey, blob)
		}
		if err == nil {
			return
		}
	}

	var se *storage.Error
	kind := "io"
	if errors.As(err, &se) {
		kind = se.Kind.String()
	}
	metrics.CachePersistFailures.WithLabelValues("printing_cache", kind).Inc()
	c.log.Warn().Err(err).Msg("printing cache persist failed, continuing in memory")
}
