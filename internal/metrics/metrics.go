// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics exposes Prometheus collectors for the search service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Adapter outcomes recorded by ObserveAdapter.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
	OutcomePanic   = "panic"
)

var (
	adapterRequestsTotal       *prometheus.CounterVec
	adapterDurationSeconds     *prometheus.HistogramVec
	adapterRecordsTotal        *prometheus.CounterVec
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		adapterRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "research_finder_adapter_requests_total",
				Help: "Total adapter invocations, labeled by source and outcome.",
			},
			[]string{"source", "outcome"},
		)

		adapterDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "research_finder_adapter_duration_seconds",
				Help:    "Histogram of adapter latencies, labeled by source.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"source"},
		)

		adapterRecordsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "research_finder_adapter_records_total",
				Help: "Total records emitted by adapters, labeled by source.",
			},
			[]string{"source"},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "research_finder_http_requests_total",
				Help: "Total number of HTTP requests, labeled by method, route and code.",
			},
			[]string{"method", "route", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "research_finder_http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveAdapter records one adapter invocation.
func ObserveAdapter(source, outcome string, records int, duration time.Duration) {
	Init()
	adapterRequestsTotal.WithLabelValues(source, outcome).Inc()
	adapterDurationSeconds.WithLabelValues(source).Observe(duration.Seconds())
	if records > 0 {
		adapterRecordsTotal.WithLabelValues(source).Add(float64(records))
	}
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// AdapterRequests returns the counter for source and outcome. Tests read it
// with prometheus/testutil.
func AdapterRequests(source, outcome string) prometheus.Counter {
	Init()
	return adapterRequestsTotal.WithLabelValues(source, outcome)
}

// AdapterRecords returns the emitted-records counter for source.
func AdapterRecords(source string) prometheus.Counter {
	Init()
	return adapterRecordsTotal.WithLabelValues(source)
}

// HTTPRequests returns the request counter for method, route and code.
func HTTPRequests(method, route string, code int) prometheus.Counter {
	Init()
	return httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code))
}
