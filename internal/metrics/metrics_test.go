// Deckvault - Collectible Card Collection Pricing Core
// Copyright 2026 Deckvault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/deckvault/deckvault

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCacheCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(CacheHits)
	CacheHits.Inc()
	after := testutil.ToFloat64(CacheHits)

	if after != before+1 {
		t.Errorf("expected hit counter to increment, before=%v after=%v", before, after)
	}
}

func TestCacheMissReasons(t *testing.T) {
	before := testutil.ToFloat64(CacheMisses.WithLabelValues("expired"))
	CacheMisses.WithLabelValues("expired").Inc()
	after := testutil.ToFloat64(CacheMisses.WithLabelValues("expired"))

	if after != before+1 {
		t.Errorf("expected expired miss counter to increment, before=%v after=%v", before, after)
	}
}

func TestObserveCatalogRequest(t *testing.T) {
	before := testutil.ToFloat64(CatalogRequests.WithLabelValues("search", "success"))
	ObserveCatalogRequest("search", "success", time.Now().Add(-5*time.Millisecond))
	after := testutil.ToFloat64(CatalogRequests.WithLabelValues("search", "success"))

	if after != before+1 {
		t.Errorf("expected search success counter to increment, before=%v after=%v", before, after)
	}
}

func TestCircuitBreakerStateGauge(t *testing.T) {
	CircuitBreakerState.WithLabelValues("catalog-api").Set(2)
	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("catalog-api")); got != 2 {
		t.Errorf("expected state gauge 2, got %v", got)
	}
	CircuitBreakerState.WithLabelValues("catalog-api").Set(0)
}
