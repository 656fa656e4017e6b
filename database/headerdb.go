// Copyright (c) 2022 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package database

import (
	"encoding/binary"
	"errors"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

var (
	// headerPrefix prefixes records keyed by header hash.  The value is the
	// LE32 height followed by the serialized header.
	headerPrefix = []byte("b")

	// heightPrefix prefixes the main chain index keyed by BE32 height.  The
	// big endian encoding keeps iteration in height order.
	heightPrefix = []byte("h")

	// tipKey holds the tip hash followed by its LE32 height.
	tipKey = []byte("tip")
)

func headerKey(hash chainhash.Hash) []byte {
	key := make([]byte, len(headerPrefix)+chainhash.HashSize)
	copy(key, headerPrefix)
	copy(key[len(headerPrefix):], hash[:])
	return key
}

func heightKey(height int32) []byte {
	key := make([]byte, len(heightPrefix)+4)
	copy(key, heightPrefix)
	binary.BigEndian.PutUint32(key[len(heightPrefix):], uint32(height))
	return key
}

// headerDB implements DB on top of a driver Store.
type headerDB struct {
	dbType string
	store  Store
}

func newHeaderDB(dbType string, store Store) *headerDB {
	return &headerDB{dbType: dbType, store: store}
}

func (db *headerDB) Type() string { return db.dbType }

func (db *headerDB) PutHeader(hash chainhash.Hash, height int32, raw []byte) error {
	value := make([]byte, 4+len(raw))
	binary.LittleEndian.PutUint32(value, uint32(height))
	copy(value[4:], raw)

	return db.store.Write(KV{Key: headerKey(hash), Value: value})
}

func (db *headerDB) HasHeader(hash chainhash.Hash) (bool, error) {
	return db.store.Has(headerKey(hash))
}

func (db *headerDB) FetchHeader(hash chainhash.Hash) ([]byte, int32, error) {
	value, err := db.store.Get(headerKey(hash))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, 0, makeErrorf(ErrNotFound, "header %v is not stored", hash)
		}
		return nil, 0, err
	}
	if len(value) < 4 {
		return nil, 0, makeErrorf(ErrCorruption, "header record %v is %d bytes", hash, len(value))
	}

	height := int32(binary.LittleEndian.Uint32(value))
	raw := make([]byte, len(value)-4)
	copy(raw, value[4:])
	return raw, height, nil
}

func (db *headerDB) FetchHashByHeight(height int32) (chainhash.Hash, error) {
	_, tipHeight, err := db.FetchTip()
	if err != nil {
		return chainhash.Hash{}, err
	}
	if height < 0 || height > tipHeight {
		return chainhash.Hash{}, makeErrorf(ErrNotFound, "no main chain header at height %d", height)
	}

	value, err := db.store.Get(heightKey(height))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return chainhash.Hash{}, makeErrorf(ErrNotFound, "no main chain header at height %d", height)
		}
		return chainhash.Hash{}, err
	}

	var hash chainhash.Hash
	if err := hash.SetBytes(value); err != nil {
		return chainhash.Hash{}, makeErrorf(ErrCorruption, "height index %d: %v", height, err)
	}
	return hash, nil
}

func (db *headerDB) SetTip(hash chainhash.Hash, height int32) error {
	return db.SetMainChain(height, []chainhash.Hash{hash})
}

func (db *headerDB) SetMainChain(startHeight int32, hashes []chainhash.Hash) error {
	if len(hashes) == 0 {
		return nil
	}

	pairs := make([]KV, 0, len(hashes)+1)
	for i := range hashes {
		pairs = append(pairs, KV{Key: heightKey(startHeight + int32(i)), Value: hashes[i].CloneBytes()})
	}

	tipHeight := startHeight + int32(len(hashes)) - 1
	tip := make([]byte, chainhash.HashSize+4)
	copy(tip, hashes[len(hashes)-1][:])
	binary.LittleEndian.PutUint32(tip[chainhash.HashSize:], uint32(tipHeight))
	pairs = append(pairs, KV{Key: tipKey, Value: tip})

	return db.store.Write(pairs...)
}

func (db *headerDB) FetchTip() (chainhash.Hash, int32, error) {
	value, err := db.store.Get(tipKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return chainhash.Hash{}, 0, makeError(ErrNotFound, "database has no tip")
		}
		return chainhash.Hash{}, 0, err
	}
	if len(value) != chainhash.HashSize+4 {
		return chainhash.Hash{}, 0, makeErrorf(ErrCorruption, "tip record is %d bytes", len(value))
	}

	var hash chainhash.Hash
	copy(hash[:], value)
	return hash, int32(binary.LittleEndian.Uint32(value[chainhash.HashSize:])), nil
}

func (db *headerDB) ForEach(fn HeaderFunc) error {
	_, tipHeight, err := db.FetchTip()
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	// Entries above the tip are left over from a reorganization to a
	// shorter chain.
	type entry struct {
		height int32
		hash   chainhash.Hash
	}
	var entries []entry
	err = db.store.Iterate(heightPrefix, func(key, value []byte) error {
		height := int32(binary.BigEndian.Uint32(key[len(heightPrefix):]))
		if height > tipHeight {
			return nil
		}
		var hash chainhash.Hash
		if err := hash.SetBytes(value); err != nil {
			return makeErrorf(ErrCorruption, "height index %d: %v", height, err)
		}
		entries = append(entries, entry{height: height, hash: hash})
		return nil
	})
	if err != nil {
		return err
	}

	for _, e := range entries {
		raw, _, err := db.FetchHeader(e.hash)
		if err != nil {
			return err
		}
		if err := fn(e.height, e.hash, raw); err != nil {
			return err
		}
	}
	return nil
}

func (db *headerDB) Close() error {
	return db.store.Close()
}
