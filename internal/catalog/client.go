// Deckvault - Collectible Card Collection Pricing Core
// Copyright 2026 Deckvault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/deckvault/deckvault

// Package catalog is the client boundary to the external card catalog
// service. It is the only place a failure may propagate out of the core, and
// it distinguishes exactly the two outcomes callers handle differently:
// ErrNotFound (terminal, no such card) and *TransientError (retryable by
// caller policy; the core itself never retries).
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/deckvault/deckvault/internal/metrics"
	"github.com/deckvault/deckvault/internal/models"
)

// ErrNotFound means the catalog has no such card. Terminal; do not retry.
var ErrNotFound = errors.New("catalog: card not found")

// TransientError wraps a network failure or non-404 error status. The caller
// may retry according to its own policy.
type TransientError struct {
	Status int // 0 for transport failures
	Err    error
}

func (e *TransientError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("catalog: transient failure: status %d", e.Status)
	}
	return fmt.Sprintf("catalog: transient failure: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// IsTransient reports whether err is a retryable catalog failure.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// Service is the catalog lookup contract consumed by the coordinator. Both
// Client and CircuitBreakerClient implement it.
type Service interface {
	// SearchPrintings returns every known printing of the named card,
	// newest first. The name is matched exactly.
	SearchPrintings(ctx context.Context, name string) ([]models.Printing, error)

	// GetPrinting returns one printing by its opaque catalog id.
	GetPrinting(ctx context.Context, id string) (*models.Printing, error)

	// Ping checks reachability of the catalog service.
	Ping(ctx context.Context) error
}

// Client provides access to the catalog REST API.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

var _ Service = (*Client)(nil)

// maxSearchPages bounds pagination when a card has an unusual number of
// printings (basics run to hundreds).
const maxSearchPages = 5

// NewClient creates a catalog API client.
//
// The timeout is the caller-side bound on one lookup; expiry is reported as
// a transient failure, distinct from a 404.
func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// searchResponse is the catalog's paged list envelope.
type searchResponse struct {
	Data     []models.Printing `json:"data"`
	HasMore  bool              `json:"has_more"`
	NextPage string            `json:"next_page"`
}

// SearchPrintings fetches all printings for an exact card name.
func (c *Client) SearchPrintings(ctx context.Context, name string) ([]models.Printing, error) {
	start := time.Now()

	query := url.Values{}
	query.Set("q", fmt.Sprintf("!%q", name))
	query.Set("unique", "prints")
	query.Set("order", "released")
	endpoint := c.baseURL + "/cards/search?" + query.Encode()

	var printings []models.Printing
	for page := 0; page < maxSearchPages && endpoint != ""; page++ {
		var sr searchResponse
		if err := c.getJSON(ctx, endpoint, &sr); err != nil {
			metrics.ObserveCatalogRequest("search", outcomeLabel(err), start)
			return nil, err
		}
		printings = append(printings, sr.Data...)
		endpoint = ""
		if sr.HasMore && sr.NextPage != "" {
			endpoint = sr.NextPage
		}
	}

	if len(printings) == 0 {
		metrics.ObserveCatalogRequest("search", "not_found", start)
		return nil, ErrNotFound
	}

	metrics.ObserveCatalogRequest("search", "success", start)
	return printings, nil
}

// GetPrinting fetches a single printing by catalog id.
func (c *Client) GetPrinting(ctx context.Context, id string) (*models.Printing, error) {
	start := time.Now()

	var p models.Printing
	if err := c.getJSON(ctx, c.baseURL+"/cards/"+url.PathEscape(id), &p); err != nil {
		metrics.ObserveCatalogRequest("get", outcomeLabel(err), start)
		return nil, err
	}

	metrics.ObserveCatalogRequest("get", "success", start)
	return &p, nil
}

// Ping checks that the catalog service answers at all.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return &TransientError{Err: err}
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransientError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusInternalServerError {
		return &TransientError{Status: resp.StatusCode}
	}
	return nil
}

// getJSON performs one GET and decodes the response, mapping status codes to
// the error taxonomy.
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &TransientError{Err: err}
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransientError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &TransientError{Err: fmt.Errorf("decode response: %w", err)}
		}
		return nil
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return ErrNotFound
	default:
		_, _ = io.Copy(io.Discard, resp.Body)
		return &TransientError{Status: resp.StatusCode}
	}
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
}

// outcomeLabel maps an error to its metrics label.
func outcomeLabel(err error) string {
	if errors.Is(err, ErrNotFound) {
		return "not_found"
	}
	return "transient"
}
