// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2017 The Decred developers
// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package config

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gitlab.com/jaxnet/auxpowd/corelog"
	"gitlab.com/jaxnet/auxpowd/database"
	"gitlab.com/jaxnet/auxpowd/node/blockchain"
	"gitlab.com/jaxnet/auxpowd/node/chaindata"
	"gitlab.com/jaxnet/auxpowd/node/headerchain"
)

const (
	logUnitAUXD = "AUXD"
	logUnitBCDB = "BCDB"
	logUnitCHAN = "CHAN"
	logUnitCHDT = "CHDT"
	logUnitHDRC = "HDRC"
	logUnitMTRC = "MTRC"
)

// Log is the logger of the daemon itself.
var Log = corelog.Disabled

// subsystemLoggers maps each subsystem identifier to the function that
// installs its logger.
var subsystemLoggers = map[string]func(zerolog.Logger){
	logUnitAUXD: func(logger zerolog.Logger) { Log = logger },
	logUnitBCDB: database.UseLogger,
	logUnitCHAN: blockchain.UseLogger,
	logUnitCHDT: chaindata.UseLogger,
	logUnitHDRC: headerchain.UseLogger,
	logUnitMTRC: func(logger zerolog.Logger) { metricsLog = logger },
}

var metricsLog = corelog.Disabled

// MetricsLogger returns the logger of the metrics exporter.
func MetricsLogger() zerolog.Logger {
	return metricsLog
}

// SupportedSubsystems returns a sorted slice of the supported subsystems for
// logging purposes.
func SupportedSubsystems() []string {
	subsystems := make([]string, 0, len(subsystemLoggers))
	for subsysID := range subsystemLoggers {
		subsystems = append(subsystems, subsysID)
	}
	sort.Strings(subsystems)
	return subsystems
}

// parseDebugLevels splits the debug level string into a per subsystem level
// map.  A bare level applies to every subsystem.
func parseDebugLevels(debugLevel string) (map[string]zerolog.Level, error) {
	levels := make(map[string]zerolog.Level, len(subsystemLoggers))

	// When the specified string doesn't have any delimiters, treat it as
	// the log level for all subsystems.
	if !strings.Contains(debugLevel, ",") && !strings.Contains(debugLevel, "=") {
		level, err := corelog.ParseLevel(debugLevel)
		if err != nil {
			return nil, errors.Errorf("the specified debug level [%v] is invalid", debugLevel)
		}
		for subsysID := range subsystemLoggers {
			levels[subsysID] = level
		}
		return levels, nil
	}

	for subsysID := range subsystemLoggers {
		levels[subsysID] = corelog.DefaultLevel
	}

	for _, logLevelPair := range strings.Split(debugLevel, ",") {
		fields := strings.Split(logLevelPair, "=")
		if len(fields) != 2 || fields[1] == "" {
			return nil, errors.Errorf("the specified debug level contains an "+
				"invalid subsystem/level pair [%v]", logLevelPair)
		}

		subsysID, logLevel := fields[0], fields[1]
		if _, exists := subsystemLoggers[subsysID]; !exists {
			return nil, errors.Errorf("the specified subsystem [%v] is invalid -- "+
				"supported subsystems %v", subsysID, SupportedSubsystems())
		}

		level, err := corelog.ParseLevel(logLevel)
		if err != nil {
			return nil, errors.Errorf("the specified debug level [%v] is invalid", logLevel)
		}
		levels[subsysID] = level
	}
	return levels, nil
}

func validateDebugLevels(debugLevel string) error {
	_, err := parseDebugLevels(debugLevel)
	return err
}

// SetLogLevels creates the subsystem loggers with the levels described by
// debugLevel and installs them in their packages.
func SetLogLevels(debugLevel string, logCfg corelog.Config) error {
	levels, err := parseDebugLevels(debugLevel)
	if err != nil {
		return err
	}

	for subsysID, level := range levels {
		subsystemLoggers[subsysID](corelog.New(subsysID, level, logCfg))
	}
	return nil
}
