// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockExecutor(t *testing.T, timeout time.Duration) (*SQLExecutor, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewSQLExecutor(conn, "sqlmock", timeout), mock
}

func TestSQLExecutor_QueryBindsArgsAndMapsColumns(t *testing.T) {
	exec, mock := newMockExecutor(t, 0)

	const q = "SELECT p.name AS product_name, SUM(ps.quantity) AS total_sold FROM product_sales ps WHERE s.created_at BETWEEN $1 AND $2 GROUP BY p.name"
	mock.ExpectQuery(q).
		WithArgs("2024-01-01", "2024-01-31").
		WillReturnRows(sqlmock.NewRows([]string{"product_name", "total_sold"}).
			AddRow("X-Burger", "150").
			AddRow("Fries", nil))

	rows, err := exec.Query(WithOperation(context.Background(), "top-products"), q, "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "X-Burger", rows[0]["product_name"])
	assert.Equal(t, "150", rows[0]["total_sold"])
	assert.Nil(t, rows[1]["total_sold"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLExecutor_EmptyResult(t *testing.T) {
	exec, mock := newMockExecutor(t, 0)

	mock.ExpectQuery("SELECT 1 AS one WHERE false").
		WillReturnRows(sqlmock.NewRows([]string{"one"}))

	rows, err := exec.Query(context.Background(), "SELECT 1 AS one WHERE false")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSQLExecutor_WrapsDriverError(t *testing.T) {
	exec, mock := newMockExecutor(t, 0)

	driverErr := errors.New("relation \"sales\" does not exist")
	mock.ExpectQuery("SELECT * FROM sales").WillReturnError(driverErr)

	_, err := exec.Query(WithOperation(context.Background(), "kpis"), "SELECT * FROM sales")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrQueryFailed)
	assert.ErrorIs(t, err, driverErr)
	assert.Contains(t, err.Error(), "kpis")
}

func TestSQLExecutor_RowError(t *testing.T) {
	exec, mock := newMockExecutor(t, 0)

	mock.ExpectQuery("SELECT n FROM t").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).
			AddRow(1).
			AddRow(2).
			RowError(1, errors.New("connection reset")))

	_, err := exec.Query(context.Background(), "SELECT n FROM t")
	assert.ErrorIs(t, err, ErrQueryFailed)
}

func TestSQLExecutor_AppliesTimeout(t *testing.T) {
	exec, mock := newMockExecutor(t, 20*time.Millisecond)

	mock.ExpectQuery("SELECT pg_sleep(1)").
		WillDelayFor(time.Second).
		WillReturnRows(sqlmock.NewRows([]string{"x"}).AddRow(1))

	start := time.Now()
	_, err := exec.Query(context.Background(), "SELECT pg_sleep(1)")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrQueryFailed)
	assert.Less(t, time.Since(start), 900*time.Millisecond)
}

func TestSQLExecutor_Ping(t *testing.T) {
	conn, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectPing()
	exec := NewSQLExecutor(conn, "sqlmock", 0)
	assert.NoError(t, exec.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOperationFromContext(t *testing.T) {
	assert.Equal(t, "query", OperationFromContext(context.Background()))
	assert.Equal(t, "summary", OperationFromContext(WithOperation(context.Background(), "summary")))
}
