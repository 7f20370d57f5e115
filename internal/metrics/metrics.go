// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "salesboard_db_query_duration_seconds",
			Help:    "Duration of report queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "driver"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salesboard_db_query_errors_total",
			Help: "Total number of failed report queries",
		},
		[]string{"operation", "driver", "error_type"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salesboard_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "salesboard_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "salesboard_api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	// Report Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salesboard_cache_hits_total",
			Help: "Total number of report cache hits",
		},
		[]string{"report"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salesboard_cache_misses_total",
			Help: "Total number of report cache misses",
		},
		[]string{"report"},
	)

	CacheCoalesced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salesboard_cache_coalesced_total",
			Help: "Cache misses that shared an in-flight computation instead of querying",
		},
		[]string{"report"},
	)

	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "salesboard_cache_entries",
			Help: "Current number of cached report responses",
		},
	)

	CacheSweepEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "salesboard_cache_sweep_evictions_total",
			Help: "Expired entries removed by the periodic sweep",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "salesboard_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salesboard_circuit_breaker_requests_total",
			Help: "Total number of requests through the circuit breaker",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "salesboard_circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salesboard_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "salesboard_app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordDBQuery records the duration and outcome of one report query.
func RecordDBQuery(operation, driver string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, driver).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, driver, errorType(err)).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordCacheLookup counts a report cache hit or miss.
func RecordCacheLookup(report string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(report).Inc()
		return
	}
	CacheMisses.WithLabelValues(report).Inc()
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// errorType truncates error text so it stays usable as a label value.
func errorType(err error) string {
	msg := err.Error()
	if len(msg) > 50 {
		msg = msg[:50]
	}
	return msg
}
