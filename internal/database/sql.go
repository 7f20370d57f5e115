// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/salesboard/internal/config"
	"github.com/tomtom215/salesboard/internal/metrics"
)

const driverDuckDB = "duckdb"

// SQLExecutor runs report queries through database/sql. In production it
// backs the embedded DuckDB mode; any database/sql driver that understands
// $n placeholders works.
type SQLExecutor struct {
	conn    *sql.DB
	driver  string
	timeout time.Duration
}

// NewSQLExecutor wraps an open *sql.DB. driver is used as a metrics label.
func NewSQLExecutor(conn *sql.DB, driver string, timeout time.Duration) *SQLExecutor {
	return &SQLExecutor{conn: conn, driver: driver, timeout: timeout}
}

// NewDuckDBExecutor opens (or creates) the DuckDB file at cfg.Path.
// An empty path opens an in-memory database.
func NewDuckDBExecutor(ctx context.Context, cfg *config.DatabaseConfig) (*SQLExecutor, error) {
	if dir := filepath.Dir(cfg.Path); cfg.Path != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	conn, err := sql.Open(driverDuckDB, cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.MaxConns > 0 {
		conn.SetMaxOpenConns(int(cfg.MaxConns))
	}
	conn.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return NewSQLExecutor(conn, driverDuckDB, cfg.QueryTimeout), nil
}

// Query implements Querier.
func (e *SQLExecutor) Query(ctx context.Context, query string, args ...any) ([]Row, error) {
	operation := OperationFromContext(ctx)
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := e.query(ctx, query, args...)
	metrics.RecordDBQuery(operation, e.driver, time.Since(start), err)
	if err != nil {
		return nil, queryError(operation, err)
	}
	return out, nil
}

func (e *SQLExecutor) query(ctx context.Context, query string, args ...any) ([]Row, error) {
	rows, err := e.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeWithLog(rows, "rows")

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []Row
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(Row, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Ping checks connectivity.
func (e *SQLExecutor) Ping(ctx context.Context) error {
	return e.conn.PingContext(ctx)
}

// Close closes the underlying *sql.DB.
func (e *SQLExecutor) Close() error {
	return e.conn.Close()
}
