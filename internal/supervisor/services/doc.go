// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

/*
Package services adapts Salesboard components to suture's Serve(ctx) model.

HTTPServerService wraps *http.Server: ListenAndServe runs in a goroutine and
Shutdown is called with a bounded timeout once the supervisor cancels.

CacheSweeperService drives a report cache's periodic sweep. Sweeping only
reclaims memory; lookups already treat expired entries as misses.

Every service implements fmt.Stringer so suture's event log names it.
*/
package services
