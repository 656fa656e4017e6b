// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2022 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package database

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// KV is a single key/value pair written by Store.Write.
type KV struct {
	Key   []byte
	Value []byte
}

// Store is the ordered key-value storage a driver provides.  Implementations
// must be safe for concurrent access.
type Store interface {
	// Get returns the value stored under key or ErrNotFound.
	Get(key []byte) ([]byte, error)

	// Has reports whether key is stored.
	Has(key []byte) (bool, error)

	// Write stores all pairs atomically.
	Write(pairs ...KV) error

	// Iterate calls fn for every key with the given prefix in ascending
	// key order.  The slices passed to fn are only valid during the call.
	// Iteration stops at the first error returned by fn.
	Iterate(prefix []byte, fn func(key, value []byte) error) error

	// Close releases the storage.
	Close() error
}

// HeaderFunc is called by DB.ForEach with the main chain headers.
type HeaderFunc func(height int32, hash chainhash.Hash, raw []byte) error

// DB is the header store.  All raw headers are the serialized wire headers
// including their AuxPow payload.
type DB interface {
	// Type returns the database driver type the instance was opened with.
	Type() string

	// PutHeader stores the serialized header under hash.
	PutHeader(hash chainhash.Hash, height int32, raw []byte) error

	// HasHeader reports whether the header with hash is stored.
	HasHeader(hash chainhash.Hash) (bool, error)

	// FetchHeader returns the serialized header and its height.
	FetchHeader(hash chainhash.Hash) ([]byte, int32, error)

	// FetchHashByHeight returns the hash of the main chain header at height.
	FetchHashByHeight(height int32) (chainhash.Hash, error)

	// SetTip makes hash the main chain header at height and the chain tip.
	SetTip(hash chainhash.Hash, height int32) error

	// SetMainChain makes hashes the main chain headers from startHeight on
	// and the last of them the chain tip.  All entries are written in one
	// atomic batch.
	SetMainChain(startHeight int32, hashes []chainhash.Hash) error

	// FetchTip returns the hash and the height of the chain tip, or
	// ErrNotFound for an empty database.
	FetchTip() (chainhash.Hash, int32, error)

	// ForEach calls fn for every main chain header from the genesis to the
	// tip.
	ForEach(fn HeaderFunc) error

	// Close cleanly shuts down the database and syncs all data.
	Close() error
}
