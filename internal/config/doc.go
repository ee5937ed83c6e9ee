// Deckvault - Collectible Card Collection Pricing Core
// Copyright 2026 Deckvault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/deckvault/deckvault

// Package config loads and validates the pricing core's configuration from
// layered sources with koanf: built-in defaults, an optional YAML file, and
// environment variables, in ascending precedence.
package config
