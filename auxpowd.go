// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"gitlab.com/jaxnet/auxpowd/config"
	"gitlab.com/jaxnet/auxpowd/database"
	"gitlab.com/jaxnet/auxpowd/node/headerchain"
	"gitlab.com/jaxnet/auxpowd/node/metrics"
)

const (
	appName    = "auxpowd"
	appVersion = "0.1.0"

	metricsInterval = 15 * time.Second
)

func main() {
	// Work around defer not working after os.Exit()
	if err := auxpowdMain(os.Args[1:]); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			fmt.Println(err)
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "FATAL:", err)
		os.Exit(1)
	}
}

// auxpowdMain is the real main function for auxpowd.  It is necessary to work
// around the fact that deferred functions do not run when os.Exit() is called.
func auxpowdMain(args []string) error {
	// Load configuration and parse command line.
	cfg, _, err := config.Load(args)
	if err != nil {
		return err
	}

	if cfg.ShowVersion {
		fmt.Println(appName, "version", appVersion)
		return nil
	}
	if cfg.DebugLevel == "show" {
		fmt.Println("Supported subsystems", config.SupportedSubsystems())
		return nil
	}

	if err := config.SetLogLevels(cfg.DebugLevel, cfg.Log); err != nil {
		return err
	}

	defer config.Log.Info().Msg("Shutdown complete")
	config.Log.Info().Str("net", cfg.Net).Msgf("Version %s", appVersion)

	ctx := interruptListener(context.Background(), config.Log.With().Str("ctx", "interruptListener").Logger())
	return run(ctx, cfg, config.Log)
}

// run opens the header store, imports the configured header files and serves
// the metrics until ctx is done.  Without a metrics address it returns once
// the import finished.
func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Info().Str("type", cfg.DbType).Str("path", cfg.DBPath()).Msg("Loading header database")
	db, err := database.Open(cfg.DbType, cfg.DBPath())
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("Unable to close header database")
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	headerMetrics, err := metrics.NewHeaderMetrics(registry, cfg.Net)
	if err != nil {
		return err
	}

	chain, err := headerchain.New(headerchain.Config{
		DB:          db,
		ChainParams: cfg.Params(),
		CacheSize:   cfg.CacheSize,
		Metrics:     headerMetrics,
	})
	if err != nil {
		return err
	}

	var server *metrics.Server
	if cfg.MetricsAddr != "" {
		metricsLog := config.MetricsLogger()
		server, err = metrics.StartServer(ctx, cfg.MetricsAddr, registry, metricsLog)
		if err != nil {
			return err
		}

		manager := metrics.NewManager(ctx, metricsInterval)
		manager.Add(
			metrics.MetricsOfChain(chain, registry, metricsLog),
			metrics.NodeMetrics(cfg.DataDir, cfg.Log.Directory, registry, metricsLog),
		)
	}

	importer := &headerImporter{
		chain:     chain,
		workers:   cfg.Workers,
		batchSize: cfg.BatchSize,
		log:       log,
	}
	for _, path := range cfg.HeaderFiles {
		stats, err := importer.importFile(ctx, path)
		if err != nil {
			if ctx.Err() != nil {
				log.Info().Str("file", path).Msg("Import interrupted")
				break
			}
			return err
		}
		log.Info().Str("file", path).
			Int("accepted", stats.Accepted).
			Int("duplicates", stats.Duplicates).
			Int("rejected", stats.Rejected).
			Msg("Imported headers")
	}

	best := chain.BestSnapshot()
	log.Info().
		Int32("height", best.Height).
		Stringer("hash", best.Hash).
		Float64("difficulty", best.Difficulty).
		Msg("Best header")

	if server == nil {
		return nil
	}

	select {
	case <-ctx.Done():
		return <-server.Done()
	case err := <-server.Done():
		return err
	}
}
