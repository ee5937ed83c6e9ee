// Deckvault - Collectible Card Collection Pricing Core
// Copyright 2026 Deckvault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/deckvault/deckvault

// Package models defines the card catalog data model shared by the pricing
// engine, the printing stores, and the catalog client. Field names and JSON
// tags follow the catalog wire format.
package models

// Finish tags as they appear in a printing's finishes list and as suffixes
// of price table keys.
const (
	FinishNonfoil = "nonfoil"
	FinishFoil    = "foil"
	FinishEtched  = "etched"
)

// Price table keys. Any key may be absent; values are decimal strings.
const (
	PriceUSD       = "usd"
	PriceUSDFoil   = "usd_foil"
	PriceUSDEtched = "usd_etched"
)

// PriceTable maps a finish-tagged price key to a decimal-string amount.
// Decimal strings are kept as-is from the catalog; validation and parsing
// happen at resolution time.
type PriceTable map[string]string

// ImageURIs holds the image references for a printing or card face.
type ImageURIs struct {
	Small  string `json:"small,omitempty"`
	Normal string `json:"normal,omitempty"`
	Large  string `json:"large,omitempty"`
	PNG    string `json:"png,omitempty"`
}

// Empty reports whether no image reference is present.
func (u *ImageURIs) Empty() bool {
	return u == nil || (u.Small == "" && u.Normal == "" && u.Large == "" && u.PNG == "")
}

// CardFace is one face of a double-faced printing. Faces carry their own
// images and text but never their own prices; pricing applies to the whole
// printing.
type CardFace struct {
	Name      string     `json:"name"`
	TypeLine  string     `json:"type_line,omitempty"`
	OracleTxt string     `json:"oracle_text,omitempty"`
	ImageURIs *ImageURIs `json:"image_uris,omitempty"`
}

// Printing is a specific physical edition of a card. Identity is the opaque
// catalog id (stable, 36+ characters in the source catalog).
//
// The validate tags express the minimum structure a cached printing must
// have; entries failing them are treated as corrupt by the printing cache.
type Printing struct {
	ID              string     `json:"id" validate:"required"`
	Name            string     `json:"name" validate:"required"`
	Set             string     `json:"set" validate:"required"`
	SetName         string     `json:"set_name,omitempty"`
	CollectorNumber string     `json:"collector_number" validate:"required"`
	ReleasedAt      string     `json:"released_at,omitempty"`
	Rarity          string     `json:"rarity,omitempty"`
	TypeLine        string     `json:"type_line,omitempty"`
	Prices          PriceTable `json:"prices,omitempty"`
	Finishes        []string   `json:"finishes,omitempty"`
	PromoTypes      []string   `json:"promo_types,omitempty"`
	ImageURIs       *ImageURIs `json:"image_uris,omitempty"`
	Faces           []CardFace `json:"card_faces,omitempty"`
}

// HasImage reports whether the printing carries at least one image reference,
// either on the printing itself or on any face.
func (p *Printing) HasImage() bool {
	if !p.ImageURIs.Empty() {
		return true
	}
	for i := range p.Faces {
		if !p.Faces[i].ImageURIs.Empty() {
			return true
		}
	}
	return false
}

// DoubleFaced reports whether the printing has front/back sub-records.
func (p *Printing) DoubleFaced() bool {
	return len(p.Faces) >= 2
}

// HasFinish reports whether the finishes list contains the given tag.
func (p *Printing) HasFinish(finish string) bool {
	for _, f := range p.Finishes {
		if f == finish {
			return true
		}
	}
	return false
}

// Price returns the price table entry for the given key, or empty string.
func (p *Printing) Price(key string) string {
	if p.Prices == nil {
		return ""
	}
	return p.Prices[key]
}

// Summary is the compact identity/location projection of a printing that the
// preference store persists.
type Summary struct {
	PrintingID      string `json:"printing_id"`
	Set             string `json:"set"`
	SetName         string `json:"set_name,omitempty"`
	CollectorNumber string `json:"collector_number"`
}

// Summarize projects a printing into its preference-store summary.
func (p *Printing) Summarize() Summary {
	return Summary{
		PrintingID:      p.ID,
		Set:             p.Set,
		SetName:         p.SetName,
		CollectorNumber: p.CollectorNumber,
	}
}
