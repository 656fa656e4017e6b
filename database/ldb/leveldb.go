// Copyright (c) 2022 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ldb

import (
	"errors"
	"os"

	"github.com/btcsuite/goleveldb/leveldb"
	ldberrors "github.com/btcsuite/goleveldb/leveldb/errors"
	"github.com/btcsuite/goleveldb/leveldb/filter"
	"github.com/btcsuite/goleveldb/leveldb/opt"
	"github.com/btcsuite/goleveldb/leveldb/util"
	"gitlab.com/jaxnet/auxpowd/database"
)

// Store is a thin wrapper around leveldb implementing database.Store.
type Store struct {
	ldb *leveldb.DB
}

// Ensure Store implements the database.Store interface.
var _ database.Store = (*Store)(nil)

// OpenStore opens a leveldb instance defined by the given path.  The database
// is created when it does not exist.
func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, database.DriverError("failed to create database directory", err)
	}

	opts := opt.Options{
		Strict:      opt.DefaultStrict,
		Compression: opt.NoCompression,
		Filter:      filter.NewBloomFilter(10),
	}
	ldb, err := leveldb.OpenFile(path, &opts)

	// If the database is corrupted, attempt to recover.
	if ldberrors.IsCorrupted(err) {
		log.Warn().Str("path", path).Err(err).Msg("LevelDB corruption detected")
		ldb, err = leveldb.RecoverFile(path, &opts)
		if err == nil {
			log.Warn().Str("path", path).Msg("LevelDB recovered from corruption")
		}
	}
	if err != nil {
		return nil, database.DriverError("failed to open leveldb", err)
	}

	return &Store{ldb: ldb}, nil
}

// Get gets the value for the given key.
func (s *Store) Get(key []byte) ([]byte, error) {
	data, err := s.ldb.Get(key, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, database.ErrNotFound
		}
		return nil, database.DriverError("failed to get key from leveldb", err)
	}
	return data, nil
}

// Has returns true if the database does contains the given key.
func (s *Store) Has(key []byte) (bool, error) {
	ok, err := s.ldb.Has(key, nil)
	return ok, database.DriverError("failed to look up key in leveldb", err)
}

// Write stores all pairs in a single batch.
func (s *Store) Write(pairs ...database.KV) error {
	batch := new(leveldb.Batch)
	for _, pair := range pairs {
		batch.Put(pair.Key, pair.Value)
	}
	return database.DriverError("failed to write leveldb batch", s.ldb.Write(batch, nil))
}

// Iterate walks all keys with the given prefix in ascending order.
func (s *Store) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	iter := s.ldb.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()

	for iter.Next() {
		if err := fn(iter.Key(), iter.Value()); err != nil {
			return err
		}
	}
	return database.DriverError("failed to iterate leveldb", iter.Error())
}

// Close closes the leveldb instance.
func (s *Store) Close() error {
	return database.DriverError("failed to close leveldb", s.ldb.Close())
}
