// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

package services

import (
	"context"
	"time"

	"github.com/tomtom215/salesboard/internal/logging"
)

// Sweeper is implemented by cache.Cache and cache.LFUCache.
type Sweeper interface {
	Serve(ctx context.Context, interval time.Duration) error
	Len() int
}

// CacheSweeperService purges expired report entries on a fixed interval.
type CacheSweeperService struct {
	cache    Sweeper
	interval time.Duration
	name     string
}

// NewCacheSweeperService sweeps c every interval. A non-positive interval
// is replaced by the cache's own default.
func NewCacheSweeperService(c Sweeper, interval time.Duration) *CacheSweeperService {
	return &CacheSweeperService{
		cache:    c,
		interval: interval,
		name:     "cache-sweeper",
	}
}

// Serve implements suture.Service.
func (s *CacheSweeperService) Serve(ctx context.Context) error {
	logging.Debug().
		Dur("interval", s.interval).
		Int("entries", s.cache.Len()).
		Msg("Cache sweeper started")
	return s.cache.Serve(ctx, s.interval)
}

// String implements fmt.Stringer.
func (s *CacheSweeperService) String() string {
	return s.name
}
