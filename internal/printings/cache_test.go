// Deckvault - Collectible Card Collection Pricing Core
// Copyright 2026 Deckvault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/deckvault/deckvault

package printings

import (
	"fmt"
	"testing"
	"time"

	"github.com/deckvault/deckvault/internal/models"
	"github.com/deckvault/deckvault/internal/storage"
)

// testPrinting builds a structurally valid printing for cache tests.
func testPrinting(id, name, set string) models.Printing {
	return models.Printing{
		ID:              id,
		Name:            name,
		Set:             set,
		SetName:         "Test Set",
		CollectorNumber: "42",
		ImageURIs:       &models.ImageURIs{Normal: "https://img.example/" + id + ".jpg"},
		Prices:          models.PriceTable{models.PriceUSD: "1.50"},
	}
}

// testSummary builds the preference-store projection of a test printing.
func testSummary(id, name, set string) models.Summary {
	p := testPrinting(id, name, set)
	return p.Summarize()
}

// fakeClock is a settable clock for TTL tests.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCache(t *testing.T, backend storage.Backend, clock *fakeClock) *Cache {
	t.Helper()
	return NewCache(backend, CacheOptions{Now: clock.now})
}

func TestCacheSetGet(t *testing.T) {
	t.Parallel()

	cache := newTestCache(t, storage.NewMemoryBackend(), newFakeClock())

	p := testPrinting("id-1", "Lightning Bolt", "lea")
	cache.Set("Lightning Bolt", []models.Printing{p}, p)

	entry := cache.Get("Lightning Bolt")
	if entry == nil {
		t.Fatal("Get returned nil for freshly set entry")
	}
	if entry.Selected.ID != "id-1" {
		t.Errorf("Selected.ID = %q, want id-1", entry.Selected.ID)
	}
	if got := cache.Get("Counterspell"); got != nil {
		t.Errorf("Get for absent name = %+v, want nil", got)
	}
}

func TestCacheSetEmptyIsNoOp(t *testing.T) {
	t.Parallel()

	cache := newTestCache(t, storage.NewMemoryBackend(), newFakeClock())
	cache.Set("Lightning Bolt", nil, models.Printing{})
	cache.Set("", []models.Printing{testPrinting("id-1", "x", "lea")}, models.Printing{})

	if cache.Len() != 0 {
		t.Errorf("Len = %d after no-op sets, want 0", cache.Len())
	}
}

func TestCacheTTLExpiry(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	cache := newTestCache(t, storage.NewMemoryBackend(), clock)

	p := testPrinting("id-1", "Lightning Bolt", "lea")
	cache.Set("Lightning Bolt", []models.Printing{p}, p)

	clock.advance(23 * time.Hour)
	if cache.Get("Lightning Bolt") == nil {
		t.Fatal("entry expired before TTL")
	}

	clock.advance(2 * time.Hour)
	if got := cache.Get("Lightning Bolt"); got != nil {
		t.Errorf("Get after TTL = %+v, want nil", got)
	}
	if cache.Len() != 0 {
		t.Errorf("expired entry not evicted, Len = %d", cache.Len())
	}
}

func TestCacheEvictsMalformedEntry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mangled models.Printing
	}{
		{"missing id", func() models.Printing {
			p := testPrinting("id-1", "x", "lea")
			p.ID = ""
			return p
		}()},
		{"missing collector number", func() models.Printing {
			p := testPrinting("id-1", "x", "lea")
			p.CollectorNumber = ""
			return p
		}()},
		{"no image", func() models.Printing {
			p := testPrinting("id-1", "x", "lea")
			p.ImageURIs = nil
			return p
		}()},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cache := newTestCache(t, storage.NewMemoryBackend(), newFakeClock())
			cache.entries["Broken"] = &Entry{
				Printings: []models.Printing{tt.mangled},
				Selected:  tt.mangled,
				Timestamp: cache.now(),
			}

			if got := cache.Get("Broken"); got != nil {
				t.Errorf("Get returned malformed entry %+v", got)
			}
			if cache.Len() != 0 {
				t.Error("malformed entry not evicted")
			}
		})
	}
}

func TestCacheCapacityEviction(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	cache := NewCache(storage.NewMemoryBackend(), CacheOptions{MaxEntries: 10, Now: clock.now})

	for i := 0; i < 10; i++ {
		name := fmt.Sprintf("Card %02d", i)
		p := testPrinting(fmt.Sprintf("id-%02d", i), name, "lea")
		cache.Set(name, []models.Printing{p}, p)
		clock.advance(time.Minute)
	}

	p := testPrinting("id-new", "Card New", "lea")
	cache.Set("Card New", []models.Printing{p}, p)

	// 20% of 10 evicted, then one inserted.
	if cache.Len() != 9 {
		t.Fatalf("Len = %d after capacity eviction, want 9", cache.Len())
	}
	if cache.Get("Card 00") != nil {
		t.Error("oldest entry survived capacity eviction")
	}
	if cache.Get("Card 01") != nil {
		t.Error("second-oldest entry survived capacity eviction")
	}
	if cache.Get("Card 09") == nil {
		t.Error("recent entry was evicted")
	}
	if cache.Get("Card New") == nil {
		t.Error("newly inserted entry missing")
	}
}

func TestCachePersistsAcrossInstances(t *testing.T) {
	t.Parallel()

	backend := storage.NewMemoryBackend()
	clock := newFakeClock()

	first := newTestCache(t, backend, clock)
	p := testPrinting("id-1", "Lightning Bolt", "lea")
	first.Set("Lightning Bolt", []models.Printing{p}, p)

	second := newTestCache(t, backend, clock)
	entry := second.Get("Lightning Bolt")
	if entry == nil {
		t.Fatal("persisted entry not visible to new instance")
	}
	if entry.Selected.ID != "id-1" {
		t.Errorf("Selected.ID = %q after reload, want id-1", entry.Selected.ID)
	}
}

func TestCacheResetsOnCorruptBlob(t *testing.T) {
	t.Parallel()

	backend := storage.NewMemoryBackend()
	if err := backend.Save(cacheBlobKey, []byte("{not json")); err != nil {
		t.Fatalf("seed corrupt blob: %v", err)
	}

	cache := newTestCache(t, backend, newFakeClock())
	if cache.Len() != 0 {
		t.Errorf("Len = %d after corrupt load, want 0", cache.Len())
	}

	// The store must still be usable.
	p := testPrinting("id-1", "Lightning Bolt", "lea")
	cache.Set("Lightning Bolt", []models.Printing{p}, p)
	if cache.Get("Lightning Bolt") == nil {
		t.Error("cache unusable after corrupt-blob reset")
	}
}

func TestCacheDropsNullEntriesFromBlob(t *testing.T) {
	t.Parallel()

	// Valid JSON, correct version, but one entry is a JSON null. It must be
	// dropped on load, not dereferenced on the next read.
	backend := storage.NewMemoryBackend()
	good := testPrinting("id-good", "Good Card", "lea")
	blob, err := storage.MarshalVersioned(cacheVersion, map[string]*Entry{
		"Null Card": nil,
		"Good Card": {
			Printings: []models.Printing{good},
			Selected:  good,
			Timestamp: newFakeClock().now(),
		},
	})
	if err != nil {
		t.Fatalf("marshal seed blob: %v", err)
	}
	if err := backend.Save(cacheBlobKey, blob); err != nil {
		t.Fatalf("seed blob: %v", err)
	}

	cache := newTestCache(t, backend, newFakeClock())
	if got := cache.Get("Null Card"); got != nil {
		t.Errorf("Get for null entry = %+v, want nil", got)
	}
	if cache.Get("Good Card") == nil {
		t.Error("sibling entry lost while dropping null entry")
	}
}

func TestCacheResetsOnVersionMismatch(t *testing.T) {
	t.Parallel()

	backend := storage.NewMemoryBackend()
	blob, err := storage.MarshalVersioned(cacheVersion+1, map[string]*Entry{
		"Old": {Printings: []models.Printing{testPrinting("id-1", "Old", "lea")}},
	})
	if err != nil {
		t.Fatalf("marshal seed blob: %v", err)
	}
	if err := backend.Save(cacheBlobKey, blob); err != nil {
		t.Fatalf("seed blob: %v", err)
	}

	cache := newTestCache(t, backend, newFakeClock())
	if cache.Len() != 0 {
		t.Errorf("Len = %d after version mismatch, want 0", cache.Len())
	}
}

func TestCacheQuotaPurgeAndRetry(t *testing.T) {
	t.Parallel()

	backend := storage.NewMemoryBackend()
	clock := newFakeClock()
	cache := newTestCache(t, backend, clock)

	stale := testPrinting("id-old", "Old Card", "lea")
	cache.Set("Old Card", []models.Printing{stale}, stale)
	clock.advance(25 * time.Hour)

	// Tight enough that both entries cannot persist together, loose enough
	// for one.
	backend.SetQuota(700)

	fresh := testPrinting("id-new", "New Card", "lea")
	cache.Set("New Card", []models.Printing{fresh}, fresh)

	if cache.Get("New Card") == nil {
		t.Error("fresh entry lost after quota purge")
	}
	if _, ok := cache.entries["Old Card"]; ok {
		t.Error("expired entry survived quota purge")
	}
}

func TestCacheRemoveAndClear(t *testing.T) {
	t.Parallel()

	cache := newTestCache(t, storage.NewMemoryBackend(), newFakeClock())
	for _, name := range []string{"A", "B"} {
		p := testPrinting("id-"+name, name, "lea")
		cache.Set(name, []models.Printing{p}, p)
	}

	cache.Remove("A")
	if cache.Has("A") {
		t.Error("removed entry still present")
	}
	if !cache.Has("B") {
		t.Error("Remove evicted an unrelated entry")
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Len = %d after Clear, want 0", cache.Len())
	}
}

func TestCacheVerify(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	cache := newTestCache(t, storage.NewMemoryBackend(), clock)

	single := testPrinting("id-1", "Sol Ring", "c13")
	cache.Set("Sol Ring", []models.Printing{single}, single)

	if got := cache.Verify("Missing", false); got != VerifyEvicted {
		t.Errorf("Verify(absent) = %v, want VerifyEvicted", got)
	}
	if got := cache.Verify("Sol Ring", false); got != VerifyOK {
		t.Errorf("Verify(ok) = %v, want VerifyOK", got)
	}

	// Single cached printing where several are known: suspect, but kept.
	if got := cache.Verify("Sol Ring", true); got != VerifySuspect {
		t.Errorf("Verify(single, multiple known) = %v, want VerifySuspect", got)
	}
	if !cache.Has("Sol Ring") {
		t.Error("suspect entry was evicted")
	}

	clock.advance(25 * time.Hour)
	if got := cache.Verify("Sol Ring", false); got != VerifyEvicted {
		t.Errorf("Verify(stale) = %v, want VerifyEvicted", got)
	}
	if _, ok := cache.entries["Sol Ring"]; ok {
		t.Error("stale entry survived Verify")
	}
}
