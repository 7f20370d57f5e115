// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

package cache

import (
	"context"
	"time"
)

// Cacher is the store contract the report pipeline depends on.
// Both Cache and LFUCache satisfy it.
type Cacher interface {
	// Get returns the value and true while the entry is live.
	Get(key string) (interface{}, bool)

	// Set stores a value with the default TTL.
	Set(key string, value interface{})

	// SetWithTTL stores a value with an explicit TTL.
	SetWithTTL(key string, value interface{}, ttl time.Duration)

	Delete(key string)
	Clear()
	Len() int

	// GetStats returns a copy of the performance counters.
	GetStats() Stats

	// HitRate returns the hit percentage.
	HitRate() float64

	// Sweep physically removes expired entries.
	Sweep() int

	// Serve sweeps on a fixed interval until ctx is cancelled.
	Serve(ctx context.Context, interval time.Duration) error
}

// CacheType selects the Cacher implementation.
type CacheType string

const (
	// CacheTypeTTL is an unbounded TTL map (default).
	CacheTypeTTL CacheType = "ttl"

	// CacheTypeLFU bounds memory by evicting the least frequently used report.
	CacheTypeLFU CacheType = "lfu"
)

// CacheConfig describes the cache to build.
type CacheConfig struct {
	Type     CacheType
	TTL      time.Duration
	Capacity int
}

// NewCacher builds the configured implementation.
func NewCacher(cfg CacheConfig, opts ...Option) Cacher {
	switch cfg.Type {
	case CacheTypeLFU:
		return NewLFUCache(cfg.Capacity, cfg.TTL, opts...)
	default:
		return New(cfg.TTL, opts...)
	}
}

var (
	_ Cacher = (*Cache)(nil)
	_ Cacher = (*LFUCache)(nil)
)
