// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

package database

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/tomtom215/salesboard/internal/config"
	"github.com/tomtom215/salesboard/internal/metrics"
)

const driverPostgres = "postgres"

// pgxPool is the subset of *pgxpool.Pool used by PostgresExecutor.
type pgxPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresExecutor runs report queries on a pgx connection pool.
type PostgresExecutor struct {
	pool    pgxPool
	timeout time.Duration
}

// NewPostgresExecutor connects a pool using cfg.URL and verifies it with a ping.
func NewPostgresExecutor(ctx context.Context, cfg *config.DatabaseConfig) (*PostgresExecutor, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresExecutor{pool: pool, timeout: cfg.QueryTimeout}, nil
}

// Query implements Querier.
func (e *PostgresExecutor) Query(ctx context.Context, sql string, args ...any) ([]Row, error) {
	operation := OperationFromContext(ctx)
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := e.query(ctx, sql, args...)
	metrics.RecordDBQuery(operation, driverPostgres, time.Since(start), err)
	if err != nil {
		return nil, queryError(operation, err)
	}
	return out, nil
}

func (e *PostgresExecutor) query(ctx context.Context, sql string, args ...any) ([]Row, error) {
	rows, err := e.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var out []Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(Row, len(fields))
		for i, fd := range fields {
			row[fd.Name] = convertPgValue(values[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Ping checks pool connectivity.
func (e *PostgresExecutor) Ping(ctx context.Context) error {
	return e.pool.Ping(ctx)
}

// Close releases every pooled connection.
func (e *PostgresExecutor) Close() error {
	e.pool.Close()
	return nil
}

// convertPgValue maps pgx-specific value types onto plain Go values.
// NUMERIC becomes decimal.Decimal so no precision is lost before the
// normalizer runs.
func convertPgValue(v any) any {
	switch val := v.(type) {
	case pgtype.Numeric:
		return numericToDecimal(val)
	case *pgtype.Numeric:
		if val == nil {
			return nil
		}
		return numericToDecimal(*val)
	case pgtype.Interval:
		if !val.Valid {
			return nil
		}
		// Approximate months as 30 days; report intervals are short.
		micros := val.Microseconds + int64(val.Days)*86_400_000_000 + int64(val.Months)*30*86_400_000_000
		return time.Duration(micros) * time.Microsecond
	default:
		return v
	}
}

func numericToDecimal(n pgtype.Numeric) any {
	if !n.Valid {
		return nil
	}
	if n.NaN || n.InfinityModifier != pgtype.Finite {
		return math.NaN()
	}
	if n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}
