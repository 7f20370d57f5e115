// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

/*
Package middleware provides the HTTP middleware shared by every route.

  - RequestID: assigns or forwards X-Request-ID and seeds the logging
    context with request and correlation IDs.
  - PrometheusMetrics: request count, latency histogram and in-flight
    gauge, labelled by chi route pattern.

Both use the http.HandlerFunc form; the api package adapts them to chi's
func(http.Handler) http.Handler with chiMiddleware.

Usage:

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chiMiddleware(middleware.PrometheusMetrics))

	func handler(w http.ResponseWriter, r *http.Request) {
	    logging.Ctx(r.Context()).Info().Msg("handling") // carries request_id
	}
*/
package middleware
