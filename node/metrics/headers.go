// Copyright (c) 2022 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "auxpowd"

// HeaderMetrics counts header validation results.  A nil *HeaderMetrics is
// valid and records nothing.
type HeaderMetrics struct {
	Processed          prometheus.Counter
	Rejected           *prometheus.CounterVec
	AuxPow             prometheus.Counter
	BestHeight         prometheus.Gauge
	Difficulty         prometheus.Gauge
	ValidationDuration prometheus.Histogram
}

// NewHeaderMetrics creates the header collectors and registers them with reg.
func NewHeaderMetrics(reg prometheus.Registerer, netName string) (*HeaderMetrics, error) {
	labels := prometheus.Labels{"net_name": netName}
	m := &HeaderMetrics{
		Processed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "headers",
			Name:        "processed_total",
			Help:        "Headers accepted into the header chain.",
			ConstLabels: labels,
		}),
		Rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "headers",
			Name:        "rejected_total",
			Help:        "Headers rejected by kind of rule error.",
			ConstLabels: labels,
		}, []string{"kind"}),
		AuxPow: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "headers",
			Name:        "auxpow_total",
			Help:        "Accepted merge mined headers.",
			ConstLabels: labels,
		}),
		BestHeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "chain",
			Name:        "best_height",
			Help:        "Height of the best header.",
			ConstLabels: labels,
		}),
		Difficulty: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "chain",
			Name:        "difficulty",
			Help:        "Difficulty of the best header relative to the pow limit.",
			ConstLabels: labels,
		}),
		ValidationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "headers",
			Name:        "validation_seconds",
			Help:        "Duration of the context free header validation.",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}

	collectors := []prometheus.Collector{
		m.Processed, m.Rejected, m.AuxPow, m.BestHeight, m.Difficulty, m.ValidationDuration,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveAccepted records a header connected at height.
func (m *HeaderMetrics) ObserveAccepted(auxPow bool) {
	if m == nil {
		return
	}
	m.Processed.Inc()
	if auxPow {
		m.AuxPow.Inc()
	}
}

// ObserveBest records the new best header.
func (m *HeaderMetrics) ObserveBest(height int32, difficulty float64) {
	if m == nil {
		return
	}
	m.BestHeight.Set(float64(height))
	m.Difficulty.Set(difficulty)
}

// ObserveRejected records a header rejected with the given error kind.
func (m *HeaderMetrics) ObserveRejected(kind string) {
	if m == nil {
		return
	}
	if kind == "" {
		kind = "other"
	}
	m.Rejected.WithLabelValues(kind).Inc()
}

// ObserveValidation records the duration of a context free validation.
func (m *HeaderMetrics) ObserveValidation(d time.Duration) {
	if m == nil {
		return
	}
	m.ValidationDuration.Observe(d.Seconds())
}
