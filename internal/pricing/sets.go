// Deckvault - Collectible Card Collection Pricing Core
// Copyright 2026 Deckvault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/deckvault/deckvault

package pricing

// SetFoilClass classifies a set's finish availability when the catalog does
// not report an explicit finishes list for a printing.
type SetFoilClass int

const (
	// SetClassBoth is the default: the set has foil and non-foil printings.
	SetClassBoth SetFoilClass = iota

	// SetClassPreFoil marks sets released before foiling existed; every
	// printing is non-foil only.
	SetClassPreFoil

	// SetClassNonFoilOnly marks later special products printed without foils.
	SetClassNonFoilOnly

	// SetClassFoilOnly marks special products printed exclusively in foil.
	SetClassFoilOnly
)

// The three classification tables are data, not code: they encode real
// catalog inconsistency for legacy and special sets whose printings predate
// the finishes field or contradict it. Keep them sorted and append-only.

// preFoilSets are sets released before the first foil print run. Set codes
// are lowercase as supplied by the catalog.
var preFoilSets = map[string]bool{
	"2ed": true, // Unlimited Edition
	"3ed": true, // Revised Edition
	"4ed": true, // Fourth Edition
	"5ed": true, // Fifth Edition
	"all": true, // Alliances
	"arn": true, // Arabian Nights
	"atq": true, // Antiquities
	"drk": true, // The Dark
	"exo": true, // Exodus
	"fem": true, // Fallen Empires
	"hml": true, // Homelands
	"ice": true, // Ice Age
	"lea": true, // Limited Edition Alpha
	"leb": true, // Limited Edition Beta
	"leg": true, // Legends
	"mir": true, // Mirage
	"p02": true, // Portal Second Age
	"por": true, // Portal
	"ptk": true, // Portal Three Kingdoms
	"sth": true, // Stronghold
	"tmp": true, // Tempest
	"usg": true, // Urza's Saga
	"vis": true, // Visions
	"wth": true, // Weatherlight
}

// nonFoilOnlySets are post-foil-era products printed without foils.
var nonFoilOnlySets = map[string]bool{
	"ath": true, // Anthologies
	"brb": true, // Battle Royale Box Set
	"btd": true, // Beatdown Box Set
	"c13": true, // Commander 2013
	"c14": true, // Commander 2014
	"c15": true, // Commander 2015
	"c16": true, // Commander 2016
	"ced": true, // Collectors' Edition
	"cei": true, // Collectors' Edition (International)
	"chr": true, // Chronicles
	"cm1": true, // Commander's Arsenal
	"cma": true, // Commander Anthology
	"dkm": true, // Deckmasters
	"mgb": true, // Multiverse Gift Box
	"s00": true, // Starter 2000
	"s99": true, // Starter 1999
}

// foilOnlySets are special products printed exclusively in foil.
var foilOnlySets = map[string]bool{
	"drb": true, // From the Vault: Dragons
	"exp": true, // Zendikar Expeditions
	"h09": true, // Premium Deck Series: Slivers
	"mp2": true, // Amonkhet Invocations
	"mps": true, // Kaladesh Inventions
	"pd2": true, // Premium Deck Series: Fire and Lightning
	"pd3": true, // Premium Deck Series: Graveborn
	"v09": true, // From the Vault: Exiled
	"v10": true, // From the Vault: Relics
	"v11": true, // From the Vault: Legends
	"v12": true, // From the Vault: Realms
	"v13": true, // From the Vault: Twenty
	"v14": true, // From the Vault: Annihilation
	"v15": true, // From the Vault: Angels
	"v16": true, // From the Vault: Lore
	"v17": true, // From the Vault: Transform
}

// specialFoilVariants are promo categories priced through the foil tier even
// though the catalog tags them as distinct treatments.
var specialFoilVariants = map[string]bool{
	"confettifoil":    true,
	"doublerainbow":   true,
	"galaxyfoil":      true,
	"gilded":          true,
	"halofoil":        true,
	"oilslick":        true,
	"rainbowfoil":     true,
	"stepandcompleat": true,
	"surgefoil":       true,
	"texturedfoil":    true,
}

// ClassifySet returns the finish availability class for a set code.
func ClassifySet(setCode string) SetFoilClass {
	switch {
	case preFoilSets[setCode]:
		return SetClassPreFoil
	case nonFoilOnlySets[setCode]:
		return SetClassNonFoilOnly
	case foilOnlySets[setCode]:
		return SetClassFoilOnly
	default:
		return SetClassBoth
	}
}

// IsSpecialFoilVariant reports whether a promo category maps to foil pricing.
func IsSpecialFoilVariant(promoType string) bool {
	return specialFoilVariants[promoType]
}
