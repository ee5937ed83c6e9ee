// Deckvault - Collectible Card Collection Pricing Core
// Copyright 2026 Deckvault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/deckvault/deckvault

// Package printings holds the stateful half of the pricing core: the TTL
// cache of catalog lookups, the non-expiring preference store, the
// coordinator that merges the two with live catalog fetches, and the cache
// warm-up worker.
//
// Both stores persist through a storage.Backend as a single versioned blob
// each and are self-healing: stale entries are evicted on read, corrupt or
// version-mismatched blobs reset the store, and persistence failures degrade
// to in-memory operation. Neither store returns errors from its public
// methods; only the catalog boundary propagates failures.
package printings
