// Deckvault - Collectible Card Collection Pricing Core
// Copyright 2026 Deckvault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/deckvault/deckvault

// Package storage provides the string-keyed blob persistence the printing
// stores sit on: a small Backend interface, a durable BadgerDB
// implementation, an in-memory implementation for tests, and a versioned
// envelope format for store blobs.
//
// Failures are typed (*Error with a Kind) so the stores can branch on quota
// versus corruption while still presenting a never-failing public API.
package storage

import (
	"errors"
	"fmt"
)

// Kind classifies a storage failure.
type Kind int

const (
	// KindNotFound: the key has no value.
	KindNotFound Kind = iota

	// KindCorrupt: the stored blob is unreadable or fails envelope checks.
	KindCorrupt

	// KindQuota: the write was rejected for size.
	KindQuota

	// KindIO: any other underlying persistence failure.
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindCorrupt:
		return "corrupt"
	case KindQuota:
		return "quota"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

// Error is a typed storage failure.
type Error struct {
	Kind Kind
	Op   string
	Key  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("storage: %s %q: %s: %v", e.Op, e.Key, e.Kind, e.Err)
	}
	return fmt.Sprintf("storage: %s %q: %s", e.Op, e.Key, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is a storage Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == kind
}

// Backend is the persistence contract the printing stores consume: a simple
// string-keyed get/set/remove on a small serialized blob per store.
type Backend interface {
	// Load returns the blob stored under key, or a KindNotFound error.
	Load(key string) ([]byte, error)

	// Save stores the blob under key, overwriting any previous value.
	Save(key string, data []byte) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(key string) error

	// Close releases underlying resources.
	Close() error
}
