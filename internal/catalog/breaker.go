// Deckvault - Collectible Card Collection Pricing Core
// Copyright 2026 Deckvault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/deckvault/deckvault

package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/deckvault/deckvault/internal/logging"
	"github.com/deckvault/deckvault/internal/metrics"
	"github.com/deckvault/deckvault/internal/models"
)

// CircuitBreakerClient wraps a catalog Service with the circuit breaker
// pattern so a down or slow catalog cannot cascade into every UI event.
//
// The breaker uses real time for its interval and timeout calculations; unit
// tests should exercise the wrapped client directly.
type CircuitBreakerClient struct {
	inner Service
	cb    *gobreaker.CircuitBreaker[any]
	name  string
}

var _ Service = (*CircuitBreakerClient)(nil)

// NewCircuitBreakerClient wraps a catalog client with a circuit breaker.
// Configuration:
//   - max 3 concurrent requests in half-open state
//   - 1 minute measurement window
//   - 2 minute timeout before attempting recovery
//   - opens after 60% failure rate with minimum 10 requests
//
// ErrNotFound counts as success: a card genuinely missing from the catalog
// says nothing about the service's health.
func NewCircuitBreakerClient(inner Service) *CircuitBreakerClient {
	cbName := "catalog-api"
	log := logging.WithComponent("catalog_breaker")

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				log.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("opening catalog circuit")
			}
			return shouldTrip
		},

		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			log.Info().Str("from", fromStr).Str("to", toStr).Msg("catalog circuit state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &CircuitBreakerClient{inner: inner, cb: cb, name: cbName}
}

// SearchPrintings runs the wrapped search under the breaker. A rejected call
// (open circuit) surfaces as a transient failure.
func (c *CircuitBreakerClient) SearchPrintings(ctx context.Context, name string) ([]models.Printing, error) {
	result, err := c.execute(func() (any, error) {
		return c.inner.SearchPrintings(ctx, name)
	})
	if err != nil {
		return nil, err
	}
	return castResult[[]models.Printing](result)
}

// GetPrinting runs the wrapped lookup under the breaker.
func (c *CircuitBreakerClient) GetPrinting(ctx context.Context, id string) (*models.Printing, error) {
	result, err := c.execute(func() (any, error) {
		return c.inner.GetPrinting(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return castResult[*models.Printing](result)
}

// Ping runs the wrapped reachability check under the breaker.
func (c *CircuitBreakerClient) Ping(ctx context.Context) error {
	_, err := c.execute(func() (any, error) {
		return nil, c.inner.Ping(ctx)
	})
	return err
}

// execute wraps one call with breaker bookkeeping, translating breaker
// rejections into the transient taxonomy.
func (c *CircuitBreakerClient) execute(fn func() (any, error)) (any, error) {
	result, err := c.cb.Execute(fn)
	if err == nil {
		return result, nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.CatalogRequests.WithLabelValues("breaker", "rejected").Inc()
		return nil, &TransientError{Err: err}
	}
	return nil, err
}

// castResult safely type-casts the breaker result.
func castResult[T any](result any) (T, error) {
	typed, ok := result.(T)
	if !ok {
		var zero T
		return zero, &TransientError{Err: fmt.Errorf("unexpected result type %T", result)}
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half_open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
