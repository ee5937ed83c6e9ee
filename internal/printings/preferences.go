// Deckvault - Collectible Card Collection Pricing Core
// Copyright 2026 Deckvault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/deckvault/deckvault

package printings

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/deckvault/deckvault/internal/logging"
	"github.com/deckvault/deckvault/internal/metrics"
	"github.com/deckvault/deckvault/internal/models"
	"github.com/deckvault/deckvault/internal/storage"
)

const (
	// prefsBlobKey is the backend key preferences are persisted under.
	prefsBlobKey = "printing_preferences"

	// prefsVersion tags the persisted blob.
	prefsVersion = 2
)

// Preference records which printing a user picked for a card name. Unlike
// cache entries, preferences never expire; only an explicit clear or an
// overriding selection replaces one.
type Preference struct {
	PrintingID      string    `json:"printing_id"`
	Set             string    `json:"set"`
	CollectorNumber string    `json:"collector_number"`
	SetName         string    `json:"set_name,omitempty"`
	SelectedAt      time.Time `json:"selected_at"`
	SelectionCount  int       `json:"selection_count"`
}

// SetUsage is one row of the per-set selection frequency breakdown.
type SetUsage struct {
	Set   string
	Count int
}

// HistoryItem is one row of the recency-ordered selection history.
type HistoryItem struct {
	Name       string
	Preference Preference
}

// Preferences is the persistent selection store: card name to chosen
// printing, persisted as a single versioned blob. Writes are best-effort;
// a failed persist is logged and the in-memory state stays authoritative
// for the session.
type Preferences struct {
	mu      sync.RWMutex
	backend storage.Backend
	prefs   map[string]*Preference
	now     func() time.Time
	log     zerolog.Logger
}

// NewPreferences builds the store over the given backend and loads any
// persisted state.
func NewPreferences(backend storage.Backend) *Preferences {
	p := &Preferences{
		backend: backend,
		prefs:   make(map[string]*Preference),
		now:     time.Now,
		log:     logging.WithComponent("printing_preferences"),
	}
	p.load()
	return p
}

func (p *Preferences) load() {
	blob, err := p.backend.Load(prefsBlobKey)
	if err != nil {
		if !storage.IsKind(err, storage.KindNotFound) {
			p.log.Warn().Err(err).Msg("preference store unreadable, starting empty")
		}
		return
	}

	var prefs map[string]*Preference
	if err := storage.UnmarshalVersioned(prefsVersion, blob, &prefs); err != nil {
		if errors.Is(err, storage.ErrVersionMismatch) {
			p.log.Info().Msg("preference store version changed, clearing store")
		} else {
			p.log.Warn().Err(err).Msg("preference blob corrupt, clearing store")
		}
		_ = p.backend.Delete(prefsBlobKey)
		return
	}

	if prefs == nil {
		prefs = make(map[string]*Preference)
	}
	// A null entry value decodes to a nil pointer; keep such a blob from
	// panicking later reads.
	for name, pref := range prefs {
		if pref == nil {
			delete(prefs, name)
			p.log.Warn().Str("card", name).Msg("dropped null preference from persisted blob")
		}
	}

	p.prefs = prefs
}

// Get returns a copy of the stored preference for a card name, or nil.
func (p *Preferences) Get(name string) *Preference {
	p.mu.RLock()
	defer p.mu.RUnlock()
	pref, ok := p.prefs[name]
	if !ok {
		return nil
	}
	cp := *pref
	return &cp
}

// Has reports whether a preference exists for a card name.
func (p *Preferences) Has(name string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.prefs[name] != nil
}

// Set records a selection from its summary projection. The count tracks how
// often the user explicitly picked any printing for this name, so it
// increments on every call for an existing entry; the identity fields and
// timestamp always take the latest selection.
func (p *Preferences) Set(name string, sel models.Summary) {
	if name == "" || sel.PrintingID == "" {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	count := 1
	if existing := p.prefs[name]; existing != nil {
		count = existing.SelectionCount + 1
	}
	p.prefs[name] = &Preference{
		PrintingID:      sel.PrintingID,
		Set:             sel.Set,
		CollectorNumber: sel.CollectorNumber,
		SetName:         sel.SetName,
		SelectedAt:      p.now(),
		SelectionCount:  count,
	}
	p.persist()
}

// Clear removes the preference for one card name.
func (p *Preferences) Clear(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.prefs[name]; !ok {
		return
	}
	delete(p.prefs, name)
	p.persist()
}

// ClearAll empties the store.
func (p *Preferences) ClearAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prefs = make(map[string]*Preference)
	if err := p.backend.Delete(prefsBlobKey); err != nil {
		p.log.Warn().Err(err).Msg("failed to delete preference blob")
	}
}

// Len returns the number of stored preferences.
func (p *Preferences) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.prefs)
}

// All returns a copy of every stored preference keyed by card name.
func (p *Preferences) All() map[string]Preference {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]Preference, len(p.prefs))
	for name, pref := range p.prefs {
		out[name] = *pref
	}
	return out
}

// Patterns summarizes selection behavior: per-set selection frequency in
// descending order, and the full history sorted most-recent first.
func (p *Preferences) Patterns() ([]SetUsage, []HistoryItem) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	counts := make(map[string]int)
	history := make([]HistoryItem, 0, len(p.prefs))
	for name, pref := range p.prefs {
		counts[pref.Set] += pref.SelectionCount
		history = append(history, HistoryItem{Name: name, Preference: *pref})
	}

	usage := make([]SetUsage, 0, len(counts))
	for set, count := range counts {
		usage = append(usage, SetUsage{Set: set, Count: count})
	}
	sort.Slice(usage, func(i, j int) bool {
		if usage[i].Count != usage[j].Count {
			return usage[i].Count > usage[j].Count
		}
		return usage[i].Set < usage[j].Set
	})
	sort.Slice(history, func(i, j int) bool {
		return history[i].Preference.SelectedAt.After(history[j].Preference.SelectedAt)
	})
	return usage, history
}

// persist writes the whole store as one versioned blob.
func (p *Preferences) persist() {
	blob, err := storage.MarshalVersioned(prefsVersion, p.prefs)
	if err != nil {
		p.log.Error().Err(err).Msg("failed to serialize preferences")
		return
	}
	if err := p.backend.Save(prefsBlobKey, blob); err != nil {
		var se *storage.Error
		kind := "io"
		if errors.As(err, &se) {
			kind = se.Kind.String()
		}
		metrics.CachePersistFailures.WithLabelValues("printing_preferences", kind).Inc()
		p.log.Warn().Err(err).Msg("preference persist failed, continuing in memory")
	}
}
