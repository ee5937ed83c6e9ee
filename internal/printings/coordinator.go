// Deckvault - Collectible Card Collection Pricing Core
// Copyright 2026 Deckvault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/deckvault/deckvault

package printings

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/deckvault/deckvault/internal/catalog"
	"github.com/deckvault/deckvault/internal/logging"
	"github.com/deckvault/deckvault/internal/models"
	"github.com/deckvault/deckvault/internal/pricing"
)

// ErrStaleResponse marks a catalog result that arrived after the caller
// moved on to a different card. The result is discarded, never applied.
var ErrStaleResponse = errors.New("printings: stale catalog response dropped")

// Origin identifies which layer satisfied a resolution.
type Origin string

const (
	OriginPreference Origin = "preference"
	OriginCache      Origin = "cache"
	OriginCatalog    Origin = "catalog"
)

// Resolution is the outcome of a default-printing resolution: every known
// printing for the name plus the one picked as the default.
type Resolution struct {
	Printings []models.Printing
	Selected  models.Printing
	Origin    Origin
}

// Coordinator orchestrates the cache, the preference store, and the catalog
// client into the selection flow: stored user choice first, cached catalog
// data second, a live fetch last.
type Coordinator struct {
	mu      sync.Mutex
	cache   *Cache
	prefs   *Preferences
	catalog catalog.Service
	log     zerolog.Logger

	// current is the card name in focus. A catalog response for any other
	// name is stale and dropped.
	current string

	// facing is set while the caller navigates the faces of a double-faced
	// card; a stored single-face preference must not override it.
	facing bool
}

// NewCoordinator wires the selection flow together.
func NewCoordinator(cache *Cache, prefs *Preferences, svc catalog.Service) *Coordinator {
	return &Coordinator{
		cache:   cache,
		prefs:   prefs,
		catalog: svc,
		log:     logging.WithComponent("printing_coordinator"),
	}
}

// Cache exposes the underlying printing cache.
func (c *Coordinator) Cache() *Cache { return c.cache }

// Preferences exposes the underlying preference store.
func (c *Coordinator) Preferences() *Preferences { return c.prefs }

// BeginFaceNavigation suppresses preference override while the caller pages
// through the faces of a double-faced card.
func (c *Coordinator) BeginFaceNavigation() {
	c.mu.Lock()
	c.facing = true
	c.mu.Unlock()
}

// EndFaceNavigation restores normal preference precedence.
func (c *Coordinator) EndFaceNavigation() {
	c.mu.Lock()
	c.facing = false
	c.mu.Unlock()
}

// ResolveDefault determines the printings and the default selection for a
// card name. Precedence: explicit user preference (unless face navigation is
// active), then cache, then a catalog fetch whose result is written back to
// the cache. Only the fetch can fail; cache and preference layers degrade
// silently.
func (c *Coordinator) ResolveDefault(ctx context.Context, name string) (*Resolution, error) {
	if logging.CorrelationIDFromContext(ctx) == "" {
		ctx = logging.ContextWithNewCorrelationID(ctx)
	}
	log := logging.CtxWith(ctx).Str("component", "printing_coordinator").Str("card", name).Logger()

	c.mu.Lock()
	c.current = name
	facing := c.facing
	c.mu.Unlock()

	if entry := c.cache.Get(name); entry != nil {
		res := c.selectFrom(name, entry.Printings, entry.Selected, OriginCache, facing)
		log.Debug().Str("origin", string(res.Origin)).Int("printings", len(res.Printings)).Msg("resolved from cache")
		return res, nil
	}

	found, err := c.catalog.SearchPrintings(ctx, name)
	if err != nil {
		log.Warn().Err(err).Msg("catalog lookup failed")
		return nil, fmt.Errorf("resolve printings for %q: %w", name, err)
	}

	c.mu.Lock()
	stillCurrent := c.current == name
	facing = c.facing
	c.mu.Unlock()
	if !stillCurrent {
		log.Debug().Msg("dropping stale catalog response")
		return nil, ErrStaleResponse
	}

	res := c.selectFrom(name, found, defaultPrinting(found), OriginCatalog, facing)
	c.cache.Set(name, res.Printings, res.Selected)
	log.Debug().Str("origin", string(res.Origin)).Int("printings", len(res.Printings)).Msg("resolved from catalog")
	return res, nil
}

// selectFrom applies the precedence rule to a candidate printing list. A
// preference only wins when its printing is still present in the list.
func (c *Coordinator) selectFrom(name string, printings []models.Printing, fallback models.Printing, origin Origin, facing bool) *Resolution {
	res := &Resolution{Printings: printings, Selected: fallback, Origin: origin}
	if fallback.ID == "" {
		res.Selected = defaultPrinting(printings)
	}

	if facing {
		return res
	}
	pref := c.prefs.Get(name)
	if pref == nil {
		return res
	}
	for i := range printings {
		if printings[i].ID == pref.PrintingID {
			res.Selected = printings[i]
			res.Origin = OriginPreference
			return res
		}
	}

	// The preferred printing vanished from the catalog data. Keep the
	// preference; it may reappear on a later fetch.
	c.log.Debug().Str("card", name).Str("printing_id", pref.PrintingID).Msg("preferred printing not in current set")
	return res
}

// Select records an explicit user choice of printing for a card name. The
// cache entry and the preference record are both rebuilt in full and
// persisted before the call returns, so a read immediately after observes
// the new selection from either store.
func (c *Coordinator) Select(ctx context.Context, name string, printing models.Printing) error {
	if name == "" || printing.ID == "" {
		return fmt.Errorf("select printing: missing name or printing id")
	}
	log := logging.CtxWith(ctx).Str("component", "printing_coordinator").Str("card", name).Logger()

	printingSet := []models.Printing{printing}
	if entry := c.cache.Get(name); entry != nil {
		printingSet = entry.Printings
		if !containsPrinting(printingSet, printing.ID) {
			printingSet = append(printingSet, printing)
		}
	}

	c.cache.Set(name, printingSet, printing)
	c.prefs.Set(name, printing.Summarize())
	log.Info().Str("printing_id", printing.ID).Str("set", printing.Set).Msg("printing selected")
	return nil
}

// Price resolves a card record's price through the resolution engine.
func (c *Coordinator) Price(record []byte, opts pricing.Options) pricing.Result {
	return pricing.Resolve(record, opts)
}

// defaultPrinting picks the default when no preference applies: the first
// printing carrying an image, or failing that the first printing. Catalog
// results arrive newest release first, so this favors the current look of
// the card.
func defaultPrinting(printings []models.Printing) models.Printing {
	for i := range printings {
		if printings[i].HasImage() {
			return printings[i]
		}
	}
	if len(printings) > 0 {
		return printings[0]
	}
	return models.Printing{}
}

func containsPrinting(printings []models.Printing, id string) bool {
	for i := range printings {
		if printings[i].ID == id {
			return true
		}
	}
	return false
}
