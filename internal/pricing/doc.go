// Deckvault - Collectible Card Collection Pricing Core
// Copyright 2026 Deckvault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/deckvault/deckvault

/*
Package pricing implements the price resolution engine: a pure function from
a loosely-structured card record to a single displayable price, its
provenance tag, and the finish state used to pick it.

# Input

Resolve takes a raw JSON record. Records arrive from several producers (raw
catalog search results, stored collection items, modal printing selections),
each nesting the same logical fields at different depths. The engine probes
an ordered list of plausible paths per field instead of assuming one shape;
see record.go for the path tables.

# Resolution order

Seven tiers, first success wins: stored override, finish-aware catalog price
table, legacy flat price field, basic-land nominal, token zero / generic
estimate, caller-supplied fallback, unresolved. The finish-aware tier runs a
state machine over the explicit foil flag, the printing's finishes list, and
three fixed set-classification tables for printings that predate the
finishes field. A foil-only printing is always priced as foil, regardless of
a stale explicit flag.

# Guarantees

Resolve never panics and never returns an error; malformed input degrades to
an unresolved result. It is deterministic and referentially transparent, so
callers may memoize results keyed on the record bytes and options.
*/
package pricing
