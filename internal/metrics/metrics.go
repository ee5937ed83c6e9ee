// Deckvault - Collectible Card Collection Pricing Core
// Copyright 2026 Deckvault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/deckvault/deckvault

// Package metrics provides Prometheus instrumentation for the pricing core:
// printing cache efficiency, catalog request outcomes, price resolution
// provenance, and circuit breaker state. Collectors register on the default
// registry; the host process decides whether and how to expose them.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Printing cache metrics

	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "deckvault_printing_cache_hits_total",
			Help: "Total number of printing cache hits",
		},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deckvault_printing_cache_misses_total",
			Help: "Total number of printing cache misses",
		},
		[]string{"reason"}, // "absent", "expired", "corrupt"
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deckvault_printing_cache_evictions_total",
			Help: "Total number of printing cache evictions",
		},
		[]string{"reason"}, // "explicit", "expired", "corrupt", "capacity", "version"
	)

	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "deckvault_printing_cache_entries",
			Help: "Current number of entries in the printing cache",
		},
	)

	CachePersistFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deckvault_store_persist_failures_total",
			Help: "Total number of persistence write failures by store and kind",
		},
		[]string{"store", "kind"}, // kind: "quota", "io", "corrupt"
	)

	// Catalog client metrics

	CatalogRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deckvault_catalog_requests_total",
			Help: "Total number of catalog service requests",
		},
		[]string{"operation", "outcome"}, // outcome: "success", "not_found", "transient", "rejected"
	)

	CatalogRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "deckvault_catalog_request_duration_seconds",
			Help:    "Duration of catalog service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Pricing engine metrics

	Resolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deckvault_price_resolutions_total",
			Help: "Total number of price resolutions by provenance tag",
		},
		[]string{"source"},
	)

	// Circuit breaker metrics

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "deckvault_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deckvault_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Warm-up metrics

	WarmupCards = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deckvault_warmup_cards_total",
			Help: "Total number of cards processed by cache warm-up",
		},
		[]string{"outcome"}, // "fetched", "cached", "not_found", "failed"
	)
)

// ObserveCatalogRequest records the duration and outcome of one catalog call.
func ObserveCatalogRequest(operation, outcome string, start time.Time) {
	CatalogRequests.WithLabelValues(operation, outcome).Inc()
	CatalogRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
