// Deckvault - Collectible Card Collection Pricing Core
// Copyright 2026 Deckvault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/deckvault/deckvault

package printings

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/deckvault/deckvault/internal/catalog"
	"github.com/deckvault/deckvault/internal/logging"
	"github.com/deckvault/deckvault/internal/metrics"
)

const (
	// DefaultWarmupBatchSize is how many card names one batch fetches.
	DefaultWarmupBatchSize = 6

	// DefaultWarmupParallelBatches bounds batches in flight at once.
	DefaultWarmupParallelBatches = 2

	// DefaultWarmupInterval paces batch starts against the catalog's rate
	// expectations.
	DefaultWarmupInterval = 250 * time.Millisecond
)

// WarmupOptions tunes a warm-up run. Zero values take the defaults.
type WarmupOptions struct {
	BatchSize       int
	ParallelBatches int
	Interval        time.Duration
}

// WarmupReport summarizes one warm-up run per card name.
type WarmupReport struct {
	Cached   []string // already fresh in the cache, skipped
	Fetched  []string // fetched and written to the cache
	NotFound []string // catalog has no printings for the name
	Failed   map[string]error
}

// Warmup pre-populates the printing cache for a list of card names, e.g.
// every distinct name in a loaded collection. Fetches run in small parallel
// batches with rate-limited batch starts; one failing name never aborts the
// run.
type Warmup struct {
	cache   *Cache
	catalog catalog.Service
	opts    WarmupOptions
	log     zerolog.Logger
}

// NewWarmup builds a warm-up worker over the cache and catalog client.
func NewWarmup(cache *Cache, svc catalog.Service, opts WarmupOptions) *Warmup {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultWarmupBatchSize
	}
	if opts.ParallelBatches <= 0 {
		opts.ParallelBatches = DefaultWarmupParallelBatches
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultWarmupInterval
	}
	return &Warmup{
		cache:   cache,
		catalog: svc,
		opts:    opts,
		log:     logging.WithComponent("printing_warmup"),
	}
}

type warmOutcome struct {
	name string
	n    int
	err  error
}

// WarmCache fetches printings for every name not already cached. It returns
// early only on context cancellation; per-name failures are collected in the
// report and do not stop the run.
func (w *Warmup) WarmCache(ctx context.Context, names []string) *WarmupReport {
	report := &WarmupReport{Failed: make(map[string]error)}

	pending := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		if w.cache.Has(name) {
			report.Cached = append(report.Cached, name)
			metrics.WarmupCards.WithLabelValues("cached").Inc()
			continue
		}
		pending = append(pending, name)
	}
	if len(pending) == 0 {
		return report
	}

	w.log.Info().Int("total", len(names)).Int("pending", len(pending)).Msg("warming printing cache")
	start := time.Now()

	limiter := rate.NewLimiter(rate.Every(w.opts.Interval), 1)
	sem := make(chan struct{}, w.opts.ParallelBatches)
	results := make(chan warmOutcome, len(pending))
	launched := 0

batches:
	for off := 0; off < len(pending); off += w.opts.BatchSize {
		if err := limiter.Wait(ctx); err != nil {
			break
		}
		end := off + w.opts.BatchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[off:end]

		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			break batches
		}
		launched += len(batch)
		go func(batch []string) {
			defer func() { <-sem }()
			for _, name := range batch {
				n, err := w.warmOne(ctx, name)
				results <- warmOutcome{name: name, n: n, err: err}
			}
		}(batch)
	}

	for i := 0; i < launched; i++ {
		out := <-results
		switch {
		case out.err == nil:
			report.Fetched = append(report.Fetched, out.name)
			metrics.WarmupCards.WithLabelValues("fetched").Inc()
		case errors.Is(out.err, catalog.ErrNotFound):
			report.NotFound = append(report.NotFound, out.name)
			metrics.WarmupCards.WithLabelValues("not_found").Inc()
		default:
			report.Failed[out.name] = out.err
			metrics.WarmupCards.WithLabelValues("failed").Inc()
			w.log.Warn().Err(out.err).Str("card", out.name).Msg("warmup fetch failed")
		}
	}

	w.log.Info().
		Int("fetched", len(report.Fetched)).
		Int("cached", len(report.Cached)).
		Int("not_found", len(report.NotFound)).
		Int("failed", len(report.Failed)).
		Dur("elapsed", time.Since(start)).
		Msg("printing cache warmup finished")
	return report
}

// warmOne fetches and caches the printings for a single name.
func (w *Warmup) warmOne(ctx context.Context, name string) (int, error) {
	printings, err := w.catalog.SearchPrintings(ctx, name)
	if err != nil {
		return 0, err
	}
	w.cache.Set(name, printings, defaultPrinting(printings))
	return len(printings), nil
}
