// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2022 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package database

import (
	"sort"

	"github.com/rs/zerolog"
)

// Driver defines a structure for backend drivers to use when they registered
// themselves as a backend which implements the Store interface.
type Driver struct {
	// DbType is the identifier used to uniquely identify a specific
	// database driver.  There can be only one driver with the same name.
	DbType string

	// Open is the function that will be invoked with the path of the
	// database to open or create.
	Open func(path string) (Store, error)

	// UseLogger uses a specified Logger to output package logging info.
	UseLogger func(logger zerolog.Logger)
}

// driverList holds all of the registered database backends.
var drivers = make(map[string]*Driver)

// RegisterDriver adds a backend database driver to available interfaces.
// ErrDbTypeRegistered will be returned if the database type for the driver has
// already been registered.
func RegisterDriver(driver Driver) error {
	if _, exists := drivers[driver.DbType]; exists {
		return makeErrorf(ErrDbTypeRegistered, "driver %q is already registered", driver.DbType)
	}

	drivers[driver.DbType] = &driver
	return nil
}

// SupportedDrivers returns a sorted slice of strings that represent the
// database drivers that have been registered and are therefore supported.
func SupportedDrivers() []string {
	supportedDBs := make([]string, 0, len(drivers))
	for _, drv := range drivers {
		supportedDBs = append(supportedDBs, drv.DbType)
	}
	sort.Strings(supportedDBs)
	return supportedDBs
}

// Open opens or creates the header database of dbType at path.
//
// ErrDbUnknownType will be returned if the database type is not registered.
func Open(dbType, path string) (DB, error) {
	drv, exists := drivers[dbType]
	if !exists {
		return nil, makeErrorf(ErrDbUnknownType, "driver %q is not registered", dbType)
	}

	store, err := drv.Open(path)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("type", dbType).Str("path", path).Msg("Opened header database")
	return newHeaderDB(dbType, store), nil
}
