// Deckvault - Collectible Card Collection Pricing Core
// Copyright 2026 Deckvault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/deckvault/deckvault

package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/deckvault/deckvault/internal/models"
)

// fakeService scripts catalog outcomes for breaker tests.
type fakeService struct {
	searchErr error
	getErr    error
	pingErr   error
	printings []models.Printing
	calls     int
}

func (f *fakeService) SearchPrintings(_ context.Context, _ string) ([]models.Printing, error) {
	f.calls++
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.printings, nil
}

func (f *fakeService) GetPrinting(_ context.Context, _ string) (*models.Printing, error) {
	f.calls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	if len(f.printings) == 0 {
		return nil, ErrNotFound
	}
	return &f.printings[0], nil
}

func (f *fakeService) Ping(_ context.Context) error {
	f.calls++
	return f.pingErr
}

func TestBreakerPassesThroughSuccess(t *testing.T) {
	inner := &fakeService{printings: []models.Printing{{ID: "a", Name: "Opt", Set: "xln", CollectorNumber: "65"}}}
	c := NewCircuitBreakerClient(inner)

	printings, err := c.SearchPrintings(context.Background(), "Opt")
	if err != nil {
		t.Fatalf("SearchPrintings failed: %v", err)
	}
	if len(printings) != 1 || printings[0].ID != "a" {
		t.Errorf("unexpected printings: %+v", printings)
	}

	p, err := c.GetPrinting(context.Background(), "a")
	if err != nil || p.ID != "a" {
		t.Errorf("GetPrinting = (%+v, %v)", p, err)
	}
}

func TestBreakerPassesThroughErrors(t *testing.T) {
	inner := &fakeService{searchErr: ErrNotFound}
	c := NewCircuitBreakerClient(inner)

	_, err := c.SearchPrintings(context.Background(), "No Such Card")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound through the breaker, got %v", err)
	}

	inner.searchErr = &TransientError{Status: 503}
	_, err = c.SearchPrintings(context.Background(), "Opt")
	if !IsTransient(err) {
		t.Errorf("expected transient error through the breaker, got %v", err)
	}
}

func TestBreakerOpensAfterFailureRun(t *testing.T) {
	inner := &fakeService{searchErr: &TransientError{Status: 500}}
	c := NewCircuitBreakerClient(inner)

	// Push past the 10-request minimum with a 100% failure rate.
	for i := 0; i < 12; i++ {
		_, _ = c.SearchPrintings(context.Background(), "Opt")
	}

	callsBefore := inner.calls
	_, err := c.SearchPrintings(context.Background(), "Opt")
	if !IsTransient(err) {
		t.Fatalf("expected rejected call to be transient, got %v", err)
	}
	if inner.calls != callsBefore {
		t.Error("open circuit must not reach the inner client")
	}
}

func TestBreakerNotFoundDoesNotTrip(t *testing.T) {
	inner := &fakeService{searchErr: ErrNotFound}
	c := NewCircuitBreakerClient(inner)

	// Many not-found results in a row: the circuit must stay closed.
	for i := 0; i < 20; i++ {
		_, _ = c.SearchPrintings(context.Background(), "No Such Card")
	}

	callsBefore := inner.calls
	_, err := c.SearchPrintings(context.Background(), "No Such Card")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if inner.calls != callsBefore+1 {
		t.Error("closed circuit must keep forwarding calls")
	}
}
