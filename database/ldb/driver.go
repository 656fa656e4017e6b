// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2022 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ldb

import (
	"fmt"

	"github.com/rs/zerolog"
	"gitlab.com/jaxnet/auxpowd/corelog"
	"gitlab.com/jaxnet/auxpowd/database"
)

var log = corelog.Disabled

const (
	dbType = "leveldb"
)

// openDBDriver is the callback provided during driver registration that opens
// or creates a database for use.
func openDBDriver(path string) (database.Store, error) {
	return OpenStore(path)
}

// useLogger is the callback provided during driver registration that sets the
// current logger to the provided one.
func useLogger(logger zerolog.Logger) {
	log = logger
}

func init() {
	// Register the driver.
	driver := database.Driver{
		DbType:    dbType,
		Open:      openDBDriver,
		UseLogger: useLogger,
	}
	if err := database.RegisterDriver(driver); err != nil {
		panic(fmt.Sprintf("Failed to regiser database driver '%s': %v",
			dbType, err))
	}
}
