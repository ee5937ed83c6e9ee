// Deckvault - Collectible Card Collection Pricing Core
// Copyright 2026 Deckvault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/deckvault/deckvault

package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/deckvault/deckvault/internal/models"
)

// negativeTTL bounds how long a not-found verdict is remembered. Catalogs
// gain cards over time; a missing name today may resolve tomorrow.
const negativeTTL = time.Hour

// negativeCap bounds how many verdicts are held at once; recording past the
// cap first sweeps expired entries, then drops the oldest verdict.
const negativeCap = 1024

// NegativeCacheClient wraps a Service and short-circuits searches for names
// the catalog recently reported not found. Not-found is a terminal answer,
// so repeating the request within the window only burns quota; everything
// else passes straight through.
type NegativeCacheClient struct {
	inner Service

	mu     sync.Mutex
	misses map[string]time.Time
	cap    int
	now    func() time.Time
}

// NewNegativeCacheClient wraps inner with a not-found memory.
func NewNegativeCacheClient(inner Service) *NegativeCacheClient {
	return &NegativeCacheClient{
		inner:  inner,
		misses: make(map[string]time.Time),
		cap:    negativeCap,
		now:    time.Now,
	}
}

// SearchPrintings returns ErrNotFound without a network round trip when the
// name missed within the negative TTL, otherwise delegates and records any
// fresh not-found verdict.
func (c *NegativeCacheClient) SearchPrintings(ctx context.Context, name string) ([]models.Printing, error) {
	if c.knownMissing(name) {
		return nil, ErrNotFound
	}

	found, err := c.inner.SearchPrintings(ctx, name)
	switch {
	case err == nil:
		return found, nil
	case errors.Is(err, ErrNotFound):
		c.mu.Lock()
		c.record(name)
		c.mu.Unlock()
		return nil, err
	default:
		return nil, err
	}
}

// GetPrinting delegates unchanged; ids are stable and not worth negative
// caching.
func (c *NegativeCacheClient) GetPrinting(ctx context.Context, id string) (*models.Printing, error) {
	return c.inner.GetPrinting(ctx, id)
}

// Ping delegates unchanged.
func (c *NegativeCacheClient) Ping(ctx context.Context) error {
	return c.inner.Ping(ctx)
}

// Forget clears the not-found memory for one name, e.g. after the caller
// learns the card was added to the catalog.
func (c *NegativeCacheClient) Forget(name string) {
	c.mu.Lock()
	delete(c.misses, name)
	c.mu.Unlock()
}

// record stores a not-found verdict, keeping the map within negativeCap.
// At the cap it sweeps expired verdicts first and evicts the oldest one if
// the sweep freed nothing. Caller holds c.mu.
func (c *NegativeCacheClient) record(name string) {
	if _, ok := c.misses[name]; !ok && len(c.misses) >= c.cap {
		cutoff := c.now().Add(-negativeTTL)
		for n, at := range c.misses {
			if at.Before(cutoff) {
				delete(c.misses, n)
			}
		}
		if len(c.misses) >= c.cap {
			var oldestName string
			var oldestAt time.Time
			for n, at := range c.misses {
				if oldestName == "" || at.Before(oldestAt) {
					oldestName, oldestAt = n, at
				}
			}
			delete(c.misses, oldestName)
		}
	}
	c.misses[name] = c.now()
}

// knownMissing reports whether name missed within the TTL, expiring stale
// verdicts as it goes.
func (c *NegativeCacheClient) knownMissing(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	at, ok := c.misses[name]
	if !ok {
		return false
	}
	if c.now().Sub(at) > negativeTTL {
		delete(c.misses, name)
		return false
	}
	return true
}
