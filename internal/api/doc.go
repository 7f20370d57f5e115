// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

/*
Package api exposes the analytics reports over HTTP using the chi router.

Every report under /api/analytics is served by one generic pipeline,
serveReport, parameterized by the report's request type:

 1. Bind the query string into the request struct and validate it
    (400 on failure; cache and database untouched).
 2. Build the cache key from the report id and its key parameters.
 3. On a hit, write the cached body bytes verbatim (X-Cache: HIT).
 4. On a miss, run the report's queries, encode the envelope, store the
    bytes with the report TTL and respond (X-Cache: MISS). Concurrent
    misses for one key share a single computation when
    cache.coalesce_misses is enabled.
 5. Query failures are logged and answered with 503 when the circuit
    breaker is open, 500 otherwise. Failures are never cached.

Every body uses the same envelope:

	{"success": true, "data": ..., "params": {...}, "message": "..."}

Routes:

	GET /api/health               database round trip (SELECT NOW())
	GET /api/health/live          liveness, no database
	GET /api/health/cache         cache statistics
	GET /api/analytics/{report}   one route per report in analytics.Catalogue
	GET /metrics                  Prometheus exposition

Middleware: request IDs with logging context, real IP, panic recovery and
CORS apply globally; the analytics group adds an IP rate limiter, security
headers, gzip and Prometheus instrumentation.
*/
package api
