// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/salesboard/internal/cache"
)

func TestCacheSweeperService_Interface(t *testing.T) {
	var _ suture.Service = (*CacheSweeperService)(nil)
	var _ Sweeper = (*cache.Cache)(nil)
	var _ Sweeper = (*cache.LFUCache)(nil)
}

func TestCacheSweeperService_String(t *testing.T) {
	svc := NewCacheSweeperService(cache.New(time.Minute), time.Minute)
	if svc.String() != "cache-sweeper" {
		t.Errorf("expected 'cache-sweeper', got %q", svc.String())
	}
}

func TestCacheSweeperService_Serve(t *testing.T) {
	t.Run("removes expired entries on each tick", func(t *testing.T) {
		clock := clockwork.NewFakeClock()
		c := cache.New(5*time.Minute, cache.WithClock(clock))
		c.Set("kpis|2025-01-01|2025-01-31|all|all", []byte(`{"success":true}`))
		c.SetWithTTL("summary|2025-01-01|2025-01-31", []byte(`{"success":true}`), time.Hour)

		svc := NewCacheSweeperService(c, time.Minute)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()

		if err := clock.BlockUntilContext(ctx, 1); err != nil {
			t.Fatalf("sweeper never waited on the clock: %v", err)
		}
		clock.Advance(6 * time.Minute)

		deadline := time.Now().Add(time.Second)
		for c.Len() != 1 && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		if c.Len() != 1 {
			t.Errorf("len after sweep = %d, want 1", c.Len())
		}
		if _, ok := c.Get("summary|2025-01-01|2025-01-31"); !ok {
			t.Error("long-lived entry was swept")
		}

		cancel()
		select {
		case err := <-errCh:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
		case <-time.After(time.Second):
			t.Error("Serve did not return after cancellation")
		}
	})

	t.Run("works with the LFU backend", func(t *testing.T) {
		clock := clockwork.NewFakeClock()
		c := cache.NewLFUCache(10, time.Minute, cache.WithClock(clock))
		c.Set("a", []byte("{}"))

		svc := NewCacheSweeperService(c, 30*time.Second)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() { _ = svc.Serve(ctx) }()

		if err := clock.BlockUntilContext(ctx, 1); err != nil {
			t.Fatalf("sweeper never waited on the clock: %v", err)
		}
		clock.Advance(2 * time.Minute)

		deadline := time.Now().Add(time.Second)
		for c.Len() != 0 && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		if c.Len() != 0 {
			t.Errorf("len after sweep = %d, want 0", c.Len())
		}
	})
}
