// Deckvault - Collectible Card Collection Pricing Core
// Copyright 2026 Deckvault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/deckvault/deckvault

package pricing

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Card records arrive as loosely-structured JSON from several producers, and
// the same logical field sits at a different depth in each:
//
//   - raw search results: catalog fields at the top level
//   - stored collection items: catalog fields nested under scryfall_json,
//     user flags (foil, quantity) at the top level
//   - modal selections: the chosen printing under selectedPrinting / printing,
//     display fields at the top level
//
// Rather than scatter shape-guessing through the engine, every logical field
// has one ordered path list here and probing happens once, up front. First
// populated path wins. The lists are ordered outermost-first so a producer's
// own annotation beats a nested catalog value.
var (
	namePaths = []string{
		"name",
		"card_name",
		"cardName",
		"scryfall_json.name",
		"card.name",
		"selectedPrinting.name",
		"printing.name",
	}

	typeLinePaths = []string{
		"type_line",
		"typeLine",
		"scryfall_json.type_line",
		"card.type_line",
		"selectedPrinting.type_line",
		"printing.type_line",
		"card_faces.0.type_line",
		"scryfall_json.card_faces.0.type_line",
	}

	setPaths = []string{
		"set",
		"set_code",
		"scryfall_json.set",
		"card.set",
		"selectedPrinting.set",
		"printing.set",
	}

	pricesPaths = []string{
		"prices",
		"scryfall_json.prices",
		"card.prices",
		"selectedPrinting.prices",
		"printing.prices",
	}

	finishesPaths = []string{
		"finishes",
		"scryfall_json.finishes",
		"card.finishes",
		"selectedPrinting.finishes",
		"printing.finishes",
	}

	promoTypesPaths = []string{
		"promo_types",
		"scryfall_json.promo_types",
		"selectedPrinting.promo_types",
		"printing.promo_types",
	}

	// foilFlagPaths are special: the record is foil if ANY of them is
	// strictly true, so a stale false at one depth cannot mask a true at
	// another.
	foilFlagPaths = []string{
		"foil",
		"isFoil",
		"is_foil",
		"scryfall_json.foil",
		"card.foil",
		"selectedPrinting.foil",
		"printing.foil",
	}

	storedPricePaths = []string{
		"stored_price",
		"storedPrice",
		"price_annotation.value",
		"scryfall_json.stored_price",
	}

	directPricePaths = []string{
		"price",
		"usd",
	}
)

// recordFacts is the canonical projection of a card record: everything the
// resolution tiers need, already located and typed.
type recordFacts struct {
	name       string
	typeLine   string
	setCode    string
	foil       bool
	finishes   []string
	promoTypes []string
	prices     map[string]string
	stored     string
	direct     string
}

// probeRecord projects a raw card record into recordFacts. Returns ok=false
// only for records that are not JSON objects at all; a well-formed object
// missing every field yields empty facts, and resolution degrades from there.
func probeRecord(record []byte) (recordFacts, bool) {
	if len(record) == 0 || !gjson.ValidBytes(record) {
		return recordFacts{}, false
	}
	root := gjson.ParseBytes(record)
	if !root.IsObject() {
		return recordFacts{}, false
	}

	return recordFacts{
		name:       firstString(root, namePaths),
		typeLine:   firstString(root, typeLinePaths),
		setCode:    strings.ToLower(firstString(root, setPaths)),
		foil:       anyTrue(root, foilFlagPaths),
		finishes:   firstStringList(root, finishesPaths),
		promoTypes: firstStringList(root, promoTypesPaths),
		prices:     firstStringMap(root, pricesPaths),
		stored:     firstString(root, storedPricePaths),
		direct:     firstPriceString(root, directPricePaths),
	}, true
}

// firstString returns the first non-empty string value along the path list.
func firstString(root gjson.Result, paths []string) string {
	for _, p := range paths {
		if v := root.Get(p); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return ""
}

// firstPriceString is firstString but also accepts JSON numbers, since legacy
// producers wrote flat price fields as numbers.
func firstPriceString(root gjson.Result, paths []string) string {
	for _, p := range paths {
		v := root.Get(p)
		switch v.Type {
		case gjson.String:
			if v.Str != "" {
				return v.Str
			}
		case gjson.Number:
			return v.Raw
		}
	}
	return ""
}

// anyTrue reports whether any path holds a strict JSON true.
func anyTrue(root gjson.Result, paths []string) bool {
	for _, p := range paths {
		if root.Get(p).Type == gjson.True {
			return true
		}
	}
	return false
}

// firstStringList returns the first non-empty string array along the paths.
func firstStringList(root gjson.Result, paths []string) []string {
	for _, p := range paths {
		v := root.Get(p)
		if !v.IsArray() {
			continue
		}
		var out []string
		v.ForEach(func(_, item gjson.Result) bool {
			if item.Type == gjson.String && item.Str != "" {
				out = append(out, strings.ToLower(item.Str))
			}
			return true
		})
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// firstStringMap returns the first object along the paths projected to a
// string map. Non-string, non-number members are skipped; a present-but-empty
// price table still wins over a deeper one, matching producer precedence.
func firstStringMap(root gjson.Result, paths []string) map[string]string {
	for _, p := range paths {
		v := root.Get(p)
		if !v.IsObject() {
			continue
		}
		out := make(map[string]string)
		v.ForEach(func(key, val gjson.Result) bool {
			switch val.Type {
			case gjson.String:
				out[key.Str] = val.Str
			case gjson.Number:
				out[key.Str] = val.Raw
			}
			return true
		})
		return out
	}
	return nil
}
