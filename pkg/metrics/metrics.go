// Package metrics exposes scan progress as Prometheus metrics. It
// implements the engine's Recorder seam and can serve a /metrics endpoint
// for scraping during long scans.
package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder tracks scan events with Prometheus collectors. All methods are
// safe for concurrent use from worker goroutines.
type Recorder struct {
	registry *prometheus.Registry

	requestsTotal prometheus.Counter
	matchesTotal  prometheus.Counter
	notFoundTotal prometheus.Counter
	errorsTotal   prometheus.Counter
	liveWorkers   prometheus.Gauge

	server *http.Server
	mu     sync.Mutex
	closed bool
}

// NewRecorder creates a Recorder with its own registry (the default
// registry is left alone).
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dirsearch_requests_total",
			Help: "Probe attempts started.",
		}),
		matchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dirsearch_matches_total",
			Help: "Candidates classified as genuine hits.",
		}),
		notFoundTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dirsearch_not_found_total",
			Help: "Candidates rejected or answered with a miss.",
		}),
		errorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dirsearch_errors_total",
			Help: "Probes that failed with a network error.",
		}),
		liveWorkers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dirsearch_live_workers",
			Help: "Workers currently alive in the scan pool.",
		}),
	}

	r.registry.MustRegister(
		r.requestsTotal,
		r.matchesTotal,
		r.notFoundTotal,
		r.errorsTotal,
		r.liveWorkers,
	)
	return r
}

// RecordRequest counts a probe start.
func (r *Recorder) RecordRequest() { r.requestsTotal.Inc() }

// RecordMatch counts a confirmed hit.
func (r *Recorder) RecordMatch() { r.matchesTotal.Inc() }

// RecordNotFound counts a miss or rejected response.
func (r *Recorder) RecordNotFound() { r.notFoundTotal.Inc() }

// RecordError counts a network-level probe failure.
func (r *Recorder) RecordError() { r.errorsTotal.Inc() }

// RecordWorkers updates the live worker gauge.
func (r *Recorder) RecordWorkers(live int) { r.liveWorkers.Set(float64(live)) }

// Serve starts an HTTP server exposing /metrics on addr and returns
// immediately; the server runs until Close.
func (r *Recorder) Serve(addr string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.server != nil {
		return fmt.Errorf("metrics: server already running on %s", r.server.Addr)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))

	r.server = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		// ErrServerClosed after Close is the normal shutdown path
		_ = r.server.ListenAndServe()
	}()
	return nil
}

// Close stops the metrics server if one is running.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.server == nil {
		return nil
	}
	r.closed = true
	return r.server.Close()
}
