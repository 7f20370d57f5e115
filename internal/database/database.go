// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/salesboard/internal/config"
	"github.com/tomtom215/salesboard/internal/logging"
)

const healthTimeout = 3 * time.Second

// executor is what every concrete driver implementation provides.
type executor interface {
	Querier
	Pinger
	Close() error
}

// DB is the data-store client handed to the API layer. Queries pass through
// the circuit breaker when it is enabled.
type DB struct {
	exec    executor
	querier Querier
	breaker *BreakerExecutor
	driver  string
}

// Open connects the configured driver and wraps it with the circuit breaker.
func Open(ctx context.Context, cfg *config.DatabaseConfig) (*DB, error) {
	var (
		exec executor
		err  error
	)

	switch cfg.Driver {
	case driverPostgres, "":
		exec, err = NewPostgresExecutor(ctx, cfg)
	case driverDuckDB:
		exec, err = NewDuckDBExecutor(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	db := newDB(exec, cfg)
	logging.Info().
		Str("driver", db.driver).
		Bool("circuit_breaker", cfg.Breaker.Enabled).
		Dur("query_timeout", cfg.QueryTimeout).
		Msg("Database connected")
	return db, nil
}

func newDB(exec executor, cfg *config.DatabaseConfig) *DB {
	driver := cfg.Driver
	if driver == "" {
		driver = driverPostgres
	}
	db := &DB{exec: exec, querier: exec, driver: driver}
	if cfg.Breaker.Enabled {
		db.breaker = NewBreakerExecutor(exec, cfg.Breaker)
		db.querier = db.breaker
	}
	return db
}

// Query implements Querier.
func (db *DB) Query(ctx context.Context, sql string, args ...any) ([]Row, error) {
	return db.querier.Query(ctx, sql, args...)
}

// Ping checks connectivity, bypassing the breaker.
func (db *DB) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	return db.exec.Ping(ctx)
}

// Now asks the database for its clock, used by the health endpoint.
func (db *DB) Now(ctx context.Context) (time.Time, error) {
	return ServerTime(ctx, db)
}

// Driver returns the configured driver name.
func (db *DB) Driver() string {
	return db.driver
}

// BreakerState returns the circuit state, or "disabled".
func (db *DB) BreakerState() string {
	if db.breaker == nil {
		return "disabled"
	}
	return db.breaker.State()
}

// Close releases the connection pool.
func (db *DB) Close() error {
	return db.exec.Close()
}

// ServerTime runs SELECT NOW() through q.
func ServerTime(ctx context.Context, q Querier) (time.Time, error) {
	ctx, cancel := context.WithTimeout(WithOperation(ctx, "health"), healthTimeout)
	defer cancel()

	rows, err := q.Query(ctx, "SELECT NOW() AS now")
	if err != nil {
		return time.Time{}, err
	}
	if len(rows) == 0 {
		return time.Time{}, fmt.Errorf("%w: health: no rows", ErrQueryFailed)
	}
	switch v := rows[0]["now"].(type) {
	case time.Time:
		return v, nil
	case string:
		t, perr := time.Parse(time.RFC3339Nano, v)
		if perr != nil {
			return time.Time{}, fmt.Errorf("%w: health: %w", ErrQueryFailed, perr)
		}
		return t, nil
	default:
		return time.Time{}, fmt.Errorf("%w: health: unexpected type %T", ErrQueryFailed, v)
	}
}
