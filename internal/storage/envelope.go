// Deckvault - Collectible Card Collection Pricing Core
// Copyright 2026 Deckvault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/deckvault/deckvault

package storage

import (
	"errors"

	"github.com/goccy/go-json"
)

// ErrVersionMismatch signals a blob written by a different store version.
// Compatibility is forward-only: the caller resets the store, no migration.
var ErrVersionMismatch = errors.New("storage: blob version mismatch")

// envelope wraps a store blob with its schema version.
type envelope struct {
	Version int             `json:"version"`
	Payload json.RawMessage `json:"payload"`
}

// MarshalVersioned serializes a payload inside a versioned envelope.
func MarshalVersioned(version int, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{Kind: KindIO, Op: "marshal", Err: err}
	}
	data, err := json.Marshal(envelope{Version: version, Payload: raw})
	if err != nil {
		return nil, &Error{Kind: KindIO, Op: "marshal", Err: err}
	}
	return data, nil
}

// UnmarshalVersioned decodes a versioned blob into out. Returns
// ErrVersionMismatch for blobs from another version and a KindCorrupt error
// for blobs that do not decode.
func UnmarshalVersioned(version int, blob []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(blob, &env); err != nil {
		return &Error{Kind: KindCorrupt, Op: "unmarshal", Err: err}
	}
	if env.Version != version {
		return ErrVersionMismatch
	}
	if err := json.Unmarshal(env.Payload, out); err != nil {
		return &Error{Kind: KindCorrupt, Op: "unmarshal", Err: err}
	}
	return nil
}
