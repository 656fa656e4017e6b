// Copyright (c) 2022 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bdb

import (
	"errors"

	badger "github.com/dgraph-io/badger"
	"gitlab.com/jaxnet/auxpowd/database"
)

// Store implements database.Store with badger.
type Store struct {
	db *badger.DB
}

// Ensure Store implements the database.Store interface.
var _ database.Store = (*Store)(nil)

// OpenStore opens or creates a badger database in the directory path.
func OpenStore(path string) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLogger(badgerLogger{})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, database.DriverError("failed to open badger", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(key []byte) (res []byte, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		res, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, database.ErrNotFound
	}
	return res, database.DriverError("failed to get key from badger", err)
}

func (s *Store) Has(key []byte) (bool, error) {
	_, err := s.Get(key)
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *Store) Write(pairs ...database.KV) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		for _, pair := range pairs {
			if err := txn.Set(pair.Key, pair.Value); err != nil {
				return err
			}
		}
		return nil
	})
	return database.DriverError("failed to write badger transaction", err)
}

func (s *Store) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchSize = 10
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return database.DriverError("failed to read badger value", err)
			}
			if err := fn(item.Key(), value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) Close() error {
	return database.DriverError("failed to close badger", s.db.Close())
}

// badgerLogger routes badger logs to the package logger.
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{})   { log.Error().Msgf(format, args...) }
func (badgerLogger) Warningf(format string, args ...interface{}) { log.Warn().Msgf(format, args...) }
func (badgerLogger) Infof(format string, args ...interface{})    { log.Debug().Msgf(format, args...) }
func (badgerLogger) Debugf(format string, args ...interface{})   { log.Trace().Msgf(format, args...) }
