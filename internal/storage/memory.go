// Deckvault - Collectible Card Collection Pricing Core
// Copyright 2026 Deckvault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/deckvault/deckvault

package storage

import "sync"

// MemoryBackend is an in-memory Backend for tests and ephemeral sessions.
// A byte quota can be injected so quota-handling paths are testable without
// a constrained real store.
type MemoryBackend struct {
	mu    sync.RWMutex
	data  map[string][]byte
	quota int // max bytes per blob; 0 = unlimited
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

// SetQuota caps the size of a single blob in bytes. Saves exceeding the cap
// fail with a KindQuota error. Zero removes the cap.
func (m *MemoryBackend) SetQuota(bytes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quota = bytes
}

// Load returns the blob stored under key.
func (m *MemoryBackend) Load(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.data[key]
	if !ok {
		return nil, &Error{Kind: KindNotFound, Op: "load", Key: key}
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Save stores the blob under key, subject to the injected quota.
func (m *MemoryBackend) Save(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.quota > 0 && len(data) > m.quota {
		return &Error{Kind: KindQuota, Op: "save", Key: key}
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	m.data[key] = stored
	return nil
}

// Delete removes the key.
func (m *MemoryBackend) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Close is a no-op.
func (m *MemoryBackend) Close() error { return nil }

// Len returns the number of stored blobs.
func (m *MemoryBackend) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
