// Copyright (c) 2022 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package metrics

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// gaugeSet lazily registers gauges by name.
type gaugeSet struct {
	sync.Mutex
	metricsByName map[string]prometheus.Gauge
	registerer    prometheus.Registerer
	labels        prometheus.Labels
	logger        zerolog.Logger
}

func newGaugeSet(reg prometheus.Registerer, labels prometheus.Labels, logger zerolog.Logger) *gaugeSet {
	return &gaugeSet{
		metricsByName: make(map[string]prometheus.Gauge),
		registerer:    reg,
		labels:        labels,
		logger:        logger,
	}
}

func (s *gaugeSet) updateGauge(name string, value float64) {
	s.Lock()
	defer s.Unlock()

	m, ok := s.metricsByName[name]
	if !ok {
		m = prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        name,
			Help:        "State value " + name,
			ConstLabels: s.labels,
		})
		if err := s.registerer.Register(m); err != nil {
			s.logger.Error().Err(err).Msg("can't register metric")
		}
		s.metricsByName[name] = m
	}
	m.Set(value)
}

// StatsProvider exposes a flat set of chain state values.
type StatsProvider interface {
	NetName() string
	Stats() map[string]float64
}

type chainMetrics struct {
	*gaugeSet
	chain StatsProvider
}

// MetricsOfChain returns a reader that mirrors the chain stats into gauges
// named auxpowd_chain_<stat>.
func MetricsOfChain(chain StatsProvider, reg prometheus.Registerer, logger zerolog.Logger) IMetric {
	logger = logger.With().Str("ctx", "metrics").Str("net", chain.NetName()).Logger()
	return &chainMetrics{
		gaugeSet: newGaugeSet(reg, prometheus.Labels{"net_name": chain.NetName()}, logger),
		chain:    chain,
	}
}

func (s *chainMetrics) Read() {
	stats := s.chain.Stats()
	for name, value := range stats {
		s.updateGauge(prometheus.BuildFQName(namespace, "chain", name), value)
	}
}

type nodeMetrics struct {
	*gaugeSet
	dataDir string
	logDir  string
}

// NodeMetrics returns a reader of the disk usage of the data and log
// directories.
func NodeMetrics(dataDir, logDir string, reg prometheus.Registerer, logger zerolog.Logger) IMetric {
	return &nodeMetrics{
		gaugeSet: newGaugeSet(reg, nil, logger.With().Str("ctx", "metrics").Logger()),
		dataDir:  dataDir,
		logDir:   logDir,
	}
}

func (s *nodeMetrics) Read() {
	dSize, err := dirSize(s.dataDir)
	if err != nil {
		s.logger.Error().Err(err).Msg("can't calculate data dir size")
		return
	}
	s.updateGauge(prometheus.BuildFQName(namespace, "node", "data_size"), float64(dSize))

	logSize, err := dirSize(s.logDir)
	if err != nil && !os.IsNotExist(err) {
		s.logger.Error().Err(err).Msg("can't calculate log dir size")
	}
	s.updateGauge(prometheus.BuildFQName(namespace, "node", "log_size"), float64(logSize))
}

func dirSize(path string) (int64, error) {
	var size int64
	err := filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return err
	})
	return size, err
}
