// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2022 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bdb

import (
	"fmt"

	"github.com/rs/zerolog"
	"gitlab.com/jaxnet/auxpowd/corelog"
	"gitlab.com/jaxnet/auxpowd/database"
)

var log = corelog.Disabled

const (
	dbType = "badger"
)

func openDBDriver(path string) (database.Store, error) {
	return OpenStore(path)
}

func useLogger(logger zerolog.Logger) {
	log = logger
}

func init() {
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
