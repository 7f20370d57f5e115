// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

/*
Package metrics defines the Prometheus collectors exported at /metrics.

All collectors are registered on the default registry through promauto at
package init, so importing the package is enough to expose them.

# Available Metrics

	salesboard_db_query_duration_seconds{operation,driver}
	salesboard_db_query_errors_total{operation,driver,error_type}
	salesboard_api_requests_total{method,endpoint,status_code}
	salesboard_api_request_duration_seconds{method,endpoint}
	salesboard_api_active_requests
	salesboard_cache_hits_total{report}
	salesboard_cache_misses_total{report}
	salesboard_cache_coalesced_total{report}
	salesboard_cache_entries
	salesboard_cache_sweep_evictions_total
	salesboard_circuit_breaker_*{name}

The operation label of database metrics is the report id, so a slow report
shows up directly in the query histogram.
*/
package metrics
