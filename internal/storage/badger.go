// Deckvault - Collectible Card Collection Pricing Core
// Copyright 2026 Deckvault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/deckvault/deckvault

package storage

import (
	"errors"

	"github.com/dgraph-io/badger/v4"
)

// BadgerBackend is the durable Backend used in production; store blobs
// survive process restarts.
type BadgerBackend struct {
	db *badger.DB
}

// OpenBadger opens (or creates) a BadgerDB-backed store at path.
func OpenBadger(path string) (*BadgerBackend, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, &Error{Kind: KindIO, Op: "open", Key: path, Err: err}
	}
	return &BadgerBackend{db: db}, nil
}

// NewBadgerBackend wraps an already-open BadgerDB handle.
func NewBadgerBackend(db *badger.DB) *BadgerBackend {
	return &BadgerBackend{db: db}
}

// Load returns the blob stored under key.
func (b *BadgerBackend) Load(key string) ([]byte, error) {
	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, &Error{Kind: KindNotFound, Op: "load", Key: key, Err: err}
	}
	if err != nil {
		return nil, &Error{Kind: KindIO, Op: "load", Key: key, Err: err}
	}
	return data, nil
}

// Save stores the blob under key.
func (b *BadgerBackend) Save(key string, data []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		kind := KindIO
		if errors.Is(err, badger.ErrTxnTooBig) {
			kind = KindQuota
		}
		return &Error{Kind: kind, Op: "save", Key: key, Err: err}
	}
	return nil
}

// Delete removes the key. Absent keys are not an error.
func (b *BadgerBackend) Delete(key string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return &Error{Kind: KindIO, Op: "delete", Key: key, Err: err}
	}
	return nil
}

// Close closes the underlying database.
func (b *BadgerBackend) Close() error {
	if err := b.db.Close(); err != nil {
		return &Error{Kind: KindIO, Op: "close", Err: err}
	}
	return nil
}
