// Deckvault - Collectible Card Collection Pricing Core
// Copyright 2026 Deckvault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/deckvault/deckvault

package pricing

import (
	"strings"

	"github.com/deckvault/deckvault/internal/metrics"
)

// Source is the provenance tag identifying which resolution tier produced a
// price. Tags are stable; tests and diagnostics match on them.
type Source string

const (
	// SourceNone: no tier produced a price; render "price unavailable".
	SourceNone Source = "none"

	// SourceStored: a previously computed price annotation on the record.
	SourceStored Source = "stored"

	// SourceCatalog: the finish-aware catalog price table.
	SourceCatalog Source = "catalog"

	// SourceDirect: a legacy flat price/usd field on the record.
	SourceDirect Source = "direct"

	// SourceBasicLand: the fixed nominal for basic lands.
	SourceBasicLand Source = "basic_land"

	// SourceToken: the fixed zero for tokens.
	SourceToken Source = "token"

	// SourceEstimate: the generic "real price unknown" nominal. Non-zero and
	// non-null so it is distinguishable from both a true zero and a failure,
	// but indistinguishable from a genuine ultra-low price once formatted;
	// the tag is the only marker.
	SourceEstimate Source = "estimate"

	// SourceFallback: the caller-supplied fallback amount.
	SourceFallback Source = "fallback"
)

// Fixed nominal amounts for the fallback tiers.
const (
	basicLandAmount = "0.10"
	tokenAmount     = "0.00"
	estimateAmount  = "0.05"
)

// Options controls price resolution.
type Options struct {
	// PreferStoredOverride makes a still-valid stored price annotation on
	// the record win over everything else.
	PreferStoredOverride bool

	// FallbackPrice is used verbatim when every other tier yields nothing.
	// Empty means no caller fallback.
	FallbackPrice string
}

// Result is the outcome of one price resolution.
type Result struct {
	// Price is the resolved decimal-string amount; empty when unresolved.
	Price string

	// Valid reports whether Price carries a usable amount.
	Valid bool

	// Source tags the tier that produced the price.
	Source Source

	// Finish is the resolved finish state used for the catalog tier.
	Finish FinishInfo

	// Metadata carries diagnostic context about the resolution.
	Metadata Metadata
}

// Metadata is diagnostic context attached to a resolution result.
type Metadata struct {
	Name     string
	TypeLine string
	SetCode  string

	// PriceKey is the price table key that produced a catalog price.
	PriceKey string
}

// canonicalBasicLands are the basic land names, matched when the type line is
// missing or truncated.
var canonicalBasicLands = map[string]bool{
	"plains":   true,
	"island":   true,
	"swamp":    true,
	"mountain": true,
	"forest":   true,
	"wastes":   true,
}

// Resolve derives a single displayable price from a loosely-structured card
// record. It is a total function: malformed input degrades to an unresolved
// result, never an error or panic. Same input, same output; results are
// safe to memoize.
//
// Tiers, first success wins:
//
//  1. stored override (when opts.PreferStoredOverride)
//  2. finish-aware catalog price table
//  3. legacy flat price/usd field
//  4. basic-land nominal
//  5. token zero / generic estimate (requires a type line)
//  6. caller-supplied fallback
//  7. unresolved
func Resolve(record []byte, opts Options) Result {
	facts, ok := probeRecord(record)
	if !ok {
		return tagged(Result{Source: SourceNone})
	}

	finish := determineFinish(facts)
	res := Result{
		Finish: finish,
		Metadata: Metadata{
			Name:     facts.name,
			TypeLine: facts.typeLine,
			SetCode:  facts.setCode,
		},
	}

	// Tier 1: stored override.
	if opts.PreferStoredOverride && ValidAmount(facts.stored) {
		res.Price, res.Valid, res.Source = facts.stored, true, SourceStored
		return tagged(res)
	}

	// Tier 2: finish-aware catalog price.
	if price, key, found := tablePrice(facts.prices, finish); found {
		res.Price, res.Valid, res.Source = price, true, SourceCatalog
		res.Metadata.PriceKey = key
		return tagged(res)
	}

	// Tier 3: legacy flat field.
	if ValidAmount(facts.direct) {
		res.Price, res.Valid, res.Source = facts.direct, true, SourceDirect
		return tagged(res)
	}

	// Tier 4: basic-land nominal.
	if isBasicLand(facts) {
		res.Price, res.Valid, res.Source = basicLandAmount, true, SourceBasicLand
		return tagged(res)
	}

	// Tier 5: category fallback. Needs a type line; a record with no
	// category at all falls through to the caller's fallback.
	if facts.typeLine != "" {
		if isToken(facts.typeLine) {
			res.Price, res.Valid, res.Source = tokenAmount, true, SourceToken
			return tagged(res)
		}
		res.Price, res.Valid, res.Source = estimateAmount, true, SourceEstimate
		return tagged(res)
	}

	// Tier 6: caller-supplied fallback.
	if ValidAmount(opts.FallbackPrice) {
		res.Price, res.Valid, res.Source = opts.FallbackPrice, true, SourceFallback
		return tagged(res)
	}

	// Tier 7: unresolved.
	res.Source = SourceNone
	return tagged(res)
}

// tablePrice walks the finish-specific priority chain through a price table.
func tablePrice(prices map[string]string, finish FinishInfo) (price, key string, found bool) {
	if len(prices) == 0 {
		return "", "", false
	}
	for _, k := range priceChain(finish) {
		if v, ok := prices[k]; ok && ValidAmount(v) {
			return v, k, true
		}
	}
	return "", "", false
}

func isBasicLand(f recordFacts) bool {
	if strings.Contains(strings.ToLower(f.typeLine), "basic land") {
		return true
	}

	name := strings.ToLower(strings.TrimSpace(f.name))
	name = strings.TrimPrefix(name, "snow-covered ")
	return canonicalBasicLands[name]
}

func isToken(typeLine string) bool {
	return strings.Contains(strings.ToLower(typeLine), "token")
}

// tagged records the resolution outcome metric and returns the result.
func tagged(res Result) Result {
	metrics.Resolutions.WithLabelValues(string(res.Source)).Inc()
	return res
}
