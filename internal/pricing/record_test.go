// Deckvault - Collectible Card Collection Pricing Core
// Copyright 2026 Deckvault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/deckvault/deckvault

package pricing

import "testing"

func TestProbeRecordShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		record string
		want   recordFacts
	}{
		{
			name:   "flat search result",
			record: `{"name":"Opt","type_line":"Instant","set":"XLN","foil":true,"finishes":["nonfoil","foil"],"prices":{"usd":"0.10"}}`,
			want: recordFacts{
				name:     "Opt",
				typeLine: "Instant",
				setCode:  "xln",
				foil:     true,
				finishes: []string{"nonfoil", "foil"},
				prices:   map[string]string{"usd": "0.10"},
			},
		},
		{
			name:   "nested collection item",
			record: `{"foil":false,"scryfall_json":{"name":"Opt","type_line":"Instant","set":"eld","prices":{"usd":"0.12"}}}`,
			want: recordFacts{
				name:     "Opt",
				typeLine: "Instant",
				setCode:  "eld",
				prices:   map[string]string{"usd": "0.12"},
			},
		},
		{
			name:   "foil true at any depth wins",
			record: `{"foil":false,"scryfall_json":{"foil":true,"name":"Opt"}}`,
			want: recordFacts{
				name: "Opt",
				foil: true,
			},
		},
		{
			name:   "type line from first face",
			record: `{"name":"Delver","card_faces":[{"type_line":"Creature — Human Wizard"},{"type_line":"Creature — Insect"}]}`,
			want: recordFacts{
				name:     "Delver",
				typeLine: "Creature — Human Wizard",
			},
		},
		{
			name:   "stored annotation and direct price",
			record: `{"name":"Opt","stored_price":"0.50","price":"0.40"}`,
			want: recordFacts{
				name:   "Opt",
				stored: "0.50",
				direct: "0.40",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := probeRecord([]byte(tt.record))
			if !ok {
				t.Fatal("expected record to be probed")
			}
			assertFactsEqual(t, got, tt.want)
		})
	}
}

func TestProbeRecordRejectsNonObjects(t *testing.T) {
	t.Parallel()

	for _, record := range [][]byte{nil, []byte(""), []byte("null"), []byte("[]"), []byte(`"x"`), []byte("not json")} {
		if _, ok := probeRecord(record); ok {
			t.Errorf("expected probeRecord(%q) to reject input", record)
		}
	}
}

func TestProbeRecordEmptyPriceTableShadowsNested(t *testing.T) {
	t.Parallel()

	// A producer's own (empty) price table wins over a nested one; producer
	// precedence is outermost-first.
	facts, ok := probeRecord([]byte(`{"prices":{},"scryfall_json":{"prices":{"usd":"1.00"}}}`))
	if !ok {
		t.Fatal("expected record to be probed")
	}
	if len(facts.prices) != 0 {
		t.Errorf("expected empty top-level table to win, got %v", facts.prices)
	}
}

func TestProbeRecordNumericPriceTableValues(t *testing.T) {
	t.Parallel()

	facts, ok := probeRecord([]byte(`{"prices":{"usd":1.5,"usd_foil":"2.5","eur":null}}`))
	if !ok {
		t.Fatal("expected record to be probed")
	}
	if facts.prices["usd"] != "1.5" || facts.prices["usd_foil"] != "2.5" {
		t.Errorf("unexpected price projection: %v", facts.prices)
	}
	if _, present := facts.prices["eur"]; present {
		t.Error("null price member must be skipped")
	}
}

func assertFactsEqual(t *testing.T, got, want recordFacts) {
	t.Helper()

	if got.name != want.name || got.typeLine != want.typeLine || got.setCode != want.setCode ||
		got.foil != want.foil || got.stored != want.stored || got.direct != want.direct {
		t.Errorf("scalar facts mismatch:\n got %+v\nwant %+v", got, want)
	}

	if len(got.finishes) != len(want.finishes) {
		t.Errorf("finishes mismatch: got %v want %v", got.finishes, want.finishes)
	} else {
		for i := range got.finishes {
			if got.finishes[i] != want.finishes[i] {
				t.Errorf("finishes mismatch: got %v want %v", got.finishes, want.finishes)
				break
			}
		}
	}

	if len(got.prices) != len(want.prices) {
		t.Errorf("prices mismatch: got %v want %v", got.prices, want.prices)
	} else {
		for k, v := range want.prices {
			if got.prices[k] != v {
				t.Errorf("prices mismatch at %q: got %v want %v", k, got.prices, want.prices)
			}
		}
	}
}
