// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

package database

import (
	"context"
	"errors"
)

// Row is one result row keyed by column name. Values are whatever the driver
// produced (numeric text, decimal types, ints, time.Time, nil) and are turned
// into JSON-friendly numbers by the analytics normalizer.
type Row map[string]any

// Querier runs one parameterized statement and returns all rows.
//
// Implementations must bind args positionally ($1..$n) and never interpolate
// them into sql. Errors are returned as-is to the caller, wrapped with
// ErrQueryFailed; no retry happens at this layer.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) ([]Row, error)
}

// Pinger is implemented by executors that can check connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

var (
	// ErrQueryFailed wraps any data-store failure.
	ErrQueryFailed = errors.New("query failed")

	// ErrUnavailable is returned without contacting the data store while the
	// circuit breaker is open.
	ErrUnavailable = errors.New("database unavailable")

	// ErrUnsupportedDriver is returned by Open for an unknown driver name.
	ErrUnsupportedDriver = errors.New("unsupported database driver")
)

type operationKey struct{}

// WithOperation labels queries issued with ctx, typically with the report id.
// The label is used for metrics and log lines only.
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, operationKey{}, operation)
}

// OperationFromContext returns the label set by WithOperation, or "query".
func OperationFromContext(ctx context.Context) string {
	if op, ok := ctx.Value(operationKey{}).(string); ok && op != "" {
		return op
	}
	return "query"
}

// QuerierFunc adapts a function to Querier.
type QuerierFunc func(ctx context.Context, sql string, args ...any) ([]Row, error)

// Query calls f.
func (f QuerierFunc) Query(ctx context.Context, sql string, args ...any) ([]Row, error) {
	return f(ctx, sql, args...)
}
