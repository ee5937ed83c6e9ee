// Deckvault - Collectible Card Collection Pricing Core
// Copyright 2026 Deckvault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/deckvault/deckvault

package pricing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// maxReasonableAmount rejects obviously-corrupt ingested values, not real
// prices. Revisit before the library is pointed at genuinely high-value
// assets.
const maxReasonableAmount = 1000.0

// ParseAmount parses a decimal-string amount and reports whether it is usable
// for pricing: parseable, finite, non-negative, and within the sanity bound.
// A leading currency sign is tolerated.
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	if s == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if v < 0 || v > maxReasonableAmount {
		return 0, false
	}
	return v, true
}

// ValidAmount reports whether a decimal-string amount passes ParseAmount.
func ValidAmount(s string) bool {
	_, ok := ParseAmount(s)
	return ok
}

// FormatPrice renders an amount for display: "$" plus fixed two decimals, or
// the literal "N/A" for absent and invalid amounts. "N/A" is deliberate;
// rendering "$0.00" would be indistinguishable from a real zero price.
func FormatPrice(s string) string {
	v, ok := ParseAmount(s)
	if !ok {
		return "N/A"
	}
	return fmt.Sprintf("$%.2f", v)
}
