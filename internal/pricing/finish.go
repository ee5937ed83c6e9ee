// Deckvault - Collectible Card Collection Pricing Core
// Copyright 2026 Deckvault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/deckvault/deckvault

package pricing

import "github.com/deckvault/deckvault/internal/models"

// FinishInfo is the resolved finish state of a card record: which finish the
// price lookup should use and how availability was determined.
type FinishInfo struct {
	// Foil is the effective foil status used for pricing: the explicit flag
	// OR foil-only availability. Foil-only always wins, even against an
	// explicit false left behind by a stale producer.
	Foil bool

	// Etched is set when the printing offers an etched finish and the card
	// is priced as foil; the etched price tier is tried first.
	Etched bool

	// SpecialVariant is set when a promo category maps to foil pricing
	// (surge foil, galaxy foil, and friends).
	SpecialVariant bool

	// FoilOnly and NonfoilOnly describe availability, not the user's choice.
	FoilOnly    bool
	NonfoilOnly bool

	// Inferred is set when availability came from the set classification
	// tables because the record carried no finishes list.
	Inferred bool
}

// determineFinish runs the finish state machine over projected record facts.
// Deterministic, no hidden state: same facts, same answer.
func determineFinish(f recordFacts) FinishInfo {
	hasFoil, hasNonfoil, inferred := finishAvailability(f.finishes, f.setCode)

	info := FinishInfo{
		FoilOnly:    hasFoil && !hasNonfoil,
		NonfoilOnly: hasNonfoil && !hasFoil,
		Inferred:    inferred,
	}

	for _, promo := range f.promoTypes {
		if IsSpecialFoilVariant(promo) {
			info.SpecialVariant = true
			break
		}
	}

	info.Foil = f.foil || info.FoilOnly || info.SpecialVariant
	info.Etched = info.Foil && listContains(f.finishes, models.FinishEtched)

	return info
}

// finishAvailability derives (hasFoil, hasNonfoil) from the finishes list, or
// infers them from the set classification tables when the list is absent.
func finishAvailability(finishes []string, setCode string) (hasFoil, hasNonfoil, inferred bool) {
	if len(finishes) > 0 {
		hasNonfoil = listContains(finishes, models.FinishNonfoil)
		hasFoil = listContains(finishes, models.FinishFoil) || listContains(finishes, models.FinishEtched)
		return hasFoil, hasNonfoil, false
	}

	switch ClassifySet(setCode) {
	case SetClassPreFoil, SetClassNonFoilOnly:
		return false, true, true
	case SetClassFoilOnly:
		return true, false, true
	default:
		return true, true, true
	}
}

// priceChain returns the price table keys to try, in order, for a finish.
func priceChain(info FinishInfo) []string {
	switch {
	case info.Etched:
		return []string{models.PriceUSDEtched, models.PriceUSDFoil, models.PriceUSD}
	case info.Foil:
		return []string{models.PriceUSDFoil, models.PriceUSD}
	default:
		return []string{models.PriceUSD}
	}
}

func listContains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}
