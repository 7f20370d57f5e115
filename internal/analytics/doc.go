// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

/*
Package analytics defines the sales reports served under /api/analytics.

Each report is a Report[P] value: P is the request struct the query string
is bound into, Key lists the values that identify a cached result, and Run
issues the report's parameterized queries and maps the rows to its response
shape. The HTTP layer drives every report through one pipeline, so reports
never touch the cache, the router or the response writer.

# Normalization

Aggregates come back from the database as NUMERIC text, driver decimal types
or integers. Normalize turns any of them into a finite float64, mapping null
and garbage to 0; NormalizeNullable keeps null for fields where "no data" is
meaningful. Variation computes period-over-period change with a zero-baseline
guard.

# SQL

User input is always bound ($1..$n). Where a request picks a structural
variant (time bucket, grouping column) the SQL comes from a fixed map of
templates keyed by the validated value.
*/
package analytics
