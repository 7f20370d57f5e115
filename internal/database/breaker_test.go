// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

package database

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/salesboard/internal/config"
)

func testBreakerConfig() config.BreakerConfig {
	return config.BreakerConfig{
		Enabled:      true,
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		FailureRatio: 0.5,
		MinRequests:  2,
	}
}

func TestBreakerExecutor_PassesThrough(t *testing.T) {
	inner := QuerierFunc(func(_ context.Context, sql string, args ...any) ([]Row, error) {
		return []Row{{"sql": sql, "args": len(args)}}, nil
	})
	b := NewBreakerExecutor(inner, testBreakerConfig())

	rows, err := b.Query(context.Background(), "SELECT 1", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", rows[0]["sql"])
	assert.Equal(t, 2, rows[0]["args"])
	assert.Equal(t, "closed", b.State())
}

func TestBreakerExecutor_OpensAndFailsFast(t *testing.T) {
	var calls atomic.Int32
	boom := errors.New("connection refused")
	inner := QuerierFunc(func(context.Context, string, ...any) ([]Row, error) {
		calls.Add(1)
		return nil, boom
	})
	b := NewBreakerExecutor(inner, testBreakerConfig())

	for i := 0; i < 2; i++ {
		_, err := b.Query(context.Background(), "SELECT 1")
		require.ErrorIs(t, err, boom)
	}
	assert.Equal(t, "open", b.State())

	_, err := b.Query(context.Background(), "SELECT 1")
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(2), calls.Load(), "open circuit must not reach the database")
}

func TestBreakerExecutor_IgnoresCancellation(t *testing.T) {
	inner := QuerierFunc(func(context.Context, string, ...any) ([]Row, error) {
		return nil, context.Canceled
	})
	b := NewBreakerExecutor(inner, testBreakerConfig())

	for i := 0; i < 5; i++ {
		_, _ = b.Query(context.Background(), "SELECT 1")
	}
	assert.Equal(t, "closed", b.State())
}
