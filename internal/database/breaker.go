// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

package database

import (
	"context"
	"errors"
	"fmt"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/salesboard/internal/config"
	"github.com/tomtom215/salesboard/internal/logging"
	"github.com/tomtom215/salesboard/internal/metrics"
)

// BreakerExecutor guards a Querier with a circuit breaker. While the circuit
// is open, queries fail immediately with ErrUnavailable instead of piling up
// on an unhealthy database. Failures are never retried here.
type BreakerExecutor struct {
	next Querier
	cb   *gobreaker.CircuitBreaker[[]Row]
	name string
}

// NewBreakerExecutor wraps next using the breaker settings from cfg.
func NewBreakerExecutor(next Querier, cfg config.BreakerConfig) *BreakerExecutor {
	name := "database"

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	minRequests := cfg.MinRequests
	ratio := cfg.FailureRatio

	cb := gobreaker.NewCircuitBreaker[[]Row](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= ratio
			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening database circuit")
			}
			return shouldTrip
		},

		// Client-side cancellations say nothing about database health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &BreakerExecutor{next: next, cb: cb, name: name}
}

// Query implements Querier.
func (b *BreakerExecutor) Query(ctx context.Context, sql string, args ...any) ([]Row, error) {
	rows, err := b.cb.Execute(func() ([]Row, error) {
		return b.next.Query(ctx, sql, args...)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		counts := b.cb.Counts()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(counts.ConsecutiveFailures))
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
	return rows, nil
}

// Ping forwards to the wrapped executor when it supports it.
func (b *BreakerExecutor) Ping(ctx context.Context) error {
	if p, ok := b.next.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// State returns the current breaker state name.
func (b *BreakerExecutor) State() string {
	return stateToString(b.cb.State())
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
