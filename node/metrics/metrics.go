// Copyright (c) 2022 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package metrics

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Route is the http path the metrics are served on.
const Route = "/metrics"

//IMetric metric reader
type IMetric interface {
	Read()
}

//Manager periodically reads the added metrics.
type Manager struct {
	mtx      sync.Mutex
	metrics  []IMetric
	interval time.Duration
}

//NewManager creates metric manager and starts the collector, it stops with ctx.
func NewManager(ctx context.Context, interval time.Duration) *Manager {
	res := &Manager{
		interval: interval,
	}

	go res.collector(ctx)
	return res
}

func (m *Manager) Add(metrics ...IMetric) {
	m.mtx.Lock()
	m.metrics = append(m.metrics, metrics...)
	m.mtx.Unlock()
}

func (m *Manager) collector(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.mtx.Lock()
			metrics := m.metrics
			m.mtx.Unlock()
			for _, v := range metrics {
				v.Read()
			}
		}
	}
}

// Server serves the registered metrics over http.
type Server struct {
	srv      *http.Server
	listener net.Listener
	done     chan error
}

// StartServer starts serving gatherer on addr.  The server shuts down when ctx
// is done.
func StartServer(ctx context.Context, addr string, gatherer prometheus.Gatherer, logger zerolog.Logger) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to listen on %s", addr)
	}

	mux := http.NewServeMux()
	mux.Handle(Route, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	s := &Server{
		srv:      &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second},
		listener: listener,
		done:     make(chan error, 1),
	}

	go func() {
		err := s.srv.Serve(listener)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.done <- err
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("metrics server shutdown")
		}
	}()

	logger.Info().Str("addr", listener.Addr().String()).Msg("Metrics server started")
	return s, nil
}

// Addr returns the address the server listens on.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Done returns the channel receiving the result of Serve once it stops.
func (s *Server) Done() <-chan error {
	return s.done
}
