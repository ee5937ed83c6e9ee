// Deckvault - Collectible Card Collection Pricing Core
// Copyright 2026 Deckvault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/deckvault/deckvault

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestGenerateCorrelationID(t *testing.T) {
	id1 := GenerateCorrelationID()
	id2 := GenerateCorrelationID()

	if len(id1) != 8 {
		t.Errorf("expected 8-character correlation ID, got %q", id1)
	}
	if id1 == id2 {
		t.Error("expected unique correlation IDs")
	}
}

func TestCorrelationIDRoundTrip(t *testing.T) {
	ctx := context.Background()

	if got := CorrelationIDFromContext(ctx); got != "" {
		t.Errorf("expected empty ID from bare context, got %q", got)
	}

	ctx = ContextWithCorrelationID(ctx, "abc12345")
	if got := CorrelationIDFromContext(ctx); got != "abc12345" {
		t.Errorf("expected abc12345, got %q", got)
	}
}

func TestCtxAddsCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	ctx := ContextWithCorrelationID(context.Background(), "deadbeef")
	Ctx(ctx).Info().Msg("resolving")

	if !strings.Contains(buf.String(), `"correlation_id":"deadbeef"`) {
		t.Errorf("correlation_id missing from output: %s", buf.String())
	}
}

func TestLoggerFromContextFallsBackToGlobal(t *testing.T) {
	ctx := context.Background()
	logger := LoggerFromContext(ctx)

	// Smoke check: the fallback logger must be usable.
	logger.Debug().Msg("fallback")
}

func TestContextWithLogger(t *testing.T) {
	var buf bytes.Buffer
	custom := NewTestLogger(&buf)

	ctx := ContextWithLogger(context.Background(), custom)
	Ctx(ctx).Info().Msg("through custom logger")

	if !strings.Contains(buf.String(), "through custom logger") {
		t.Errorf("custom logger not used: %s", buf.String())
	}
}
