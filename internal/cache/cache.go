// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/tomtom215/salesboard/internal/metrics"
)

// DefaultTTL is the lifetime of a report result when no override is configured.
const DefaultTTL = 300 * time.Second

// DefaultSweepInterval is how often expired entries are physically removed.
const DefaultSweepInterval = time.Minute

// Entry is a cached value with its expiry instant.
type Entry struct {
	Data      interface{}
	StoredAt  time.Time
	ExpiresAt time.Time
}

// Cache is a thread-safe in-memory store with per-entry TTL.
//
// Expired entries are invisible to Get immediately (lazy expiry) and are
// physically removed by Sweep, which the supervisor drives through Serve.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	ttl     time.Duration
	clock   clockwork.Clock
	stats   Stats
}

// Stats tracks cache performance counters.
type Stats struct {
	mu        sync.RWMutex
	Hits      int64     `json:"hits"`
	Misses    int64     `json:"misses"`
	Evictions int64     `json:"evictions"`
	TotalKeys int64     `json:"keys"`
	LastSweep time.Time `json:"last_sweep"`
}

// options holds the settings shared by Cache and LFUCache.
type options struct {
	clock clockwork.Clock
}

// Option configures either cache type.
type Option func(*options)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(clock clockwork.Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New creates a TTL cache. A non-positive ttl falls back to DefaultTTL.
//
// No goroutine is started here; call Serve (or register the cache with the
// supervisor tree) to enable periodic sweeping.
func New(ttl time.Duration, opts ...Option) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	o := applyOptions(opts)
	c := &Cache{
		entries: make(map[string]Entry),
		ttl:     ttl,
		clock:   o.clock,
	}
	c.stats.LastSweep = c.clock.Now()
	return c
}

// Get returns the value stored under key if it has not expired.
//
// An expired entry is deleted on the spot and counted as both a miss and an
// eviction.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		c.recordMiss()
		return nil, false
	}

	if !c.clock.Now().Before(entry.ExpiresAt) {
		c.mu.Lock()
		// Re-check: a concurrent Set may have refreshed the entry.
		if current, ok := c.entries[key]; ok && !c.clock.Now().Before(current.ExpiresAt) {
			delete(c.entries, key)
			c.recordEviction()
		}
		c.mu.Unlock()
		c.recordMiss()
		return nil, false
	}

	c.recordHit()
	return entry.Data, true
}

// Set stores value with the default TTL.
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value under key, replacing any previous entry.
// A non-positive ttl uses the cache default.
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}
	now := c.clock.Now()

	c.mu.Lock()
	c.entries[key] = Entry{
		Data:      value,
		StoredAt:  now,
		ExpiresAt: now.Add(ttl),
	}
	size := int64(len(c.entries))
	c.mu.Unlock()

	c.stats.mu.Lock()
	c.stats.TotalKeys = size
	c.stats.mu.Unlock()
}

// Delete removes key. Missing keys are ignored.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	_, existed := c.entries[key]
	delete(c.entries, key)
	size := int64(len(c.entries))
	c.mu.Unlock()

	c.stats.mu.Lock()
	if existed {
		c.stats.Evictions++
	}
	c.stats.TotalKeys = size
	c.stats.mu.Unlock()
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	evictions := int64(len(c.entries))
	c.entries = make(map[string]Entry)
	c.mu.Unlock()

	c.stats.mu.Lock()
	c.stats.Evictions += evictions
	c.stats.TotalKeys = 0
	c.stats.mu.Unlock()
}

// Len returns the number of stored entries, including expired ones not yet swept.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// TTL returns the default entry lifetime.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// GetStats returns a copy of the counters.
func (c *Cache) GetStats() Stats {
	c.stats.mu.RLock()
	defer c.stats.mu.RUnlock()

	return Stats{
		Hits:      c.stats.Hits,
		Misses:    c.stats.Misses,
		Evictions: c.stats.Evictions,
		TotalKeys: c.stats.TotalKeys,
		LastSweep: c.stats.LastSweep,
	}
}

// HitRate returns hits / (hits + misses) as a percentage.
func (c *Cache) HitRate() float64 {
	stats := c.GetStats()
	return hitRate(stats.Hits, stats.Misses)
}

// Sweep removes every expired entry and returns how many were dropped.
func (c *Cache) Sweep() int {
	now := c.clock.Now()

	c.mu.Lock()
	removed := 0
	for key, entry := range c.entries {
		if !now.Before(entry.ExpiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	size := int64(len(c.entries))
	c.mu.Unlock()

	c.stats.mu.Lock()
	c.stats.Evictions += int64(removed)
	c.stats.TotalKeys = size
	c.stats.LastSweep = now
	c.stats.mu.Unlock()

	return removed
}

// Serve sweeps every interval until ctx is cancelled.
func (c *Cache) Serve(ctx context.Context, interval time.Duration) error {
	return serveSweeps(ctx, c.clock, interval, c.Sweep, c.Len)
}

func (c *Cache) recordHit() {
	c.stats.mu.Lock()
	c.stats.Hits++
	c.stats.mu.Unlock()
}

func (c *Cache) recordMiss() {
	c.stats.mu.Lock()
	c.stats.Misses++
	c.stats.mu.Unlock()
}

func (c *Cache) recordEviction() {
	c.stats.mu.Lock()
	c.stats.Evictions++
	c.stats.mu.Unlock()
}

func hitRate(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		return 0.0
	}
	return float64(hits) / float64(total) * 100.0
}

// serveSweeps runs sweep on every tick of a clock-driven ticker and
// publishes the result to the cache gauges.
func serveSweeps(ctx context.Context, clock clockwork.Clock, interval time.Duration, sweep, size func() int) error {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	ticker := clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
			metrics.CacheSweepEvictions.Add(float64(sweep()))
			metrics.CacheEntries.Set(float64(size()))
		}
	}
}
