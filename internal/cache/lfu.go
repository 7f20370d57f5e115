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
)

// DefaultLFUCapacity bounds an LFU cache created without an explicit capacity.
const DefaultLFUCapacity = 10000

type lfuEntry struct {
	key       string
	value     interface{}
	freq      int
	expiresAt time.Time
	prev      *lfuEntry
	next      *lfuEntry
}

// freqList is a doubly-linked list of entries sharing one access frequency.
// The head side holds the most recently touched entry.
type freqList struct {
	head *lfuEntry
	tail *lfuEntry
	size int
}

func newFreqList() *freqList {
	fl := &freqList{head: &lfuEntry{}, tail: &lfuEntry{}}
	fl.head.next = fl.tail
	fl.tail.prev = fl.head
	return fl
}

func (fl *freqList) pushFront(e *lfuEntry) {
	e.prev = fl.head
	e.next = fl.head.next
	fl.head.next.prev = e
	fl.head.next = e
	fl.size++
}

func (fl *freqList) unlink(e *lfuEntry) {
	e.prev.next = e.next
	e.next.prev = e.prev
	e.prev, e.next = nil, nil
	fl.size--
}

func (fl *freqList) popBack() *lfuEntry {
	if fl.size == 0 {
		return nil
	}
	e := fl.tail.prev
	fl.unlink(e)
	return e
}

// LFUCache is a bounded cache that evicts the least frequently read entry
// when full. Entries still expire after their TTL exactly like Cache.
type LFUCache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	clock    clockwork.Clock

	keyMap  map[string]*lfuEntry
	freqMap map[int]*freqList
	minFreq int

	hits      int64
	misses    int64
	evictions int64
	lastSweep time.Time
}

// NewLFUCache creates an LFU cache holding at most capacity entries.
func NewLFUCache(capacity int, ttl time.Duration, opts ...Option) *LFUCache {
	if capacity <= 0 {
		capacity = DefaultLFUCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	o := applyOptions(opts)
	return &LFUCache{
		capacity:  capacity,
		ttl:       ttl,
		clock:     o.clock,
		keyMap:    make(map[string]*lfuEntry, capacity),
		freqMap:   make(map[int]*freqList),
		lastSweep: o.clock.Now(),
	}
}

// Get returns a live entry and bumps its frequency.
func (c *LFUCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.keyMap[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if !c.clock.Now().Before(entry.expiresAt) {
		c.remove(entry)
		c.evictions++
		c.misses++
		return nil, false
	}

	c.touch(entry)
	c.hits++
	return entry.value, true
}

// Set stores value with the default TTL.
func (c *LFUCache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value, evicting the least frequently used entry when full.
func (c *LFUCache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.clock.Now().Add(ttl)

	if entry, ok := c.keyMap[key]; ok {
		entry.value = value
		entry.expiresAt = expiresAt
		c.touch(entry)
		return
	}

	if len(c.keyMap) >= c.capacity {
		c.evictOne()
	}

	entry := &lfuEntry{key: key, value: value, freq: 1, expiresAt: expiresAt}
	if c.freqMap[1] == nil {
		c.freqMap[1] = newFreqList()
	}
	c.freqMap[1].pushFront(entry)
	c.keyMap[key] = entry
	c.minFreq = 1
}

// Delete removes key if present.
func (c *LFUCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.keyMap[key]; ok {
		c.remove(entry)
		c.evictions++
	}
}

// Clear drops every entry.
func (c *LFUCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.evictions += int64(len(c.keyMap))
	c.keyMap = make(map[string]*lfuEntry, c.capacity)
	c.freqMap = make(map[int]*freqList)
	c.minFreq = 0
}

// Len returns the number of stored entries.
func (c *LFUCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.keyMap)
}

// Frequency reports how often key has been touched, 0 when absent.
func (c *LFUCache) Frequency(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.keyMap[key]; ok {
		return entry.freq
	}
	return 0
}

// GetStats returns a snapshot of the counters.
func (c *LFUCache) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		TotalKeys: int64(len(c.keyMap)),
		LastSweep: c.lastSweep,
	}
}

// HitRate returns the hit percentage.
func (c *LFUCache) HitRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return hitRate(c.hits, c.misses)
}

// Sweep removes expired entries.
func (c *LFUCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	removed := 0
	for _, entry := range c.keyMap {
		if !now.Before(entry.expiresAt) {
			c.remove(entry)
			removed++
		}
	}
	c.evictions += int64(removed)
	c.lastSweep = now
	return removed
}

// Serve sweeps every interval until ctx is cancelled.
func (c *LFUCache) Serve(ctx context.Context, interval time.Duration) error {
	return serveSweeps(ctx, c.clock, interval, c.Sweep, c.Len)
}

// touch moves entry to the next frequency bucket. Caller holds mu.
func (c *LFUCache) touch(entry *lfuEntry) {
	if fl, ok := c.freqMap[entry.freq]; ok {
		fl.unlink(entry)
		if fl.size == 0 {
			delete(c.freqMap, entry.freq)
			if c.minFreq == entry.freq {
				c.minFreq++
			}
		}
	}

	entry.freq++
	if c.freqMap[entry.freq] == nil {
		c.freqMap[entry.freq] = newFreqList()
	}
	c.freqMap[entry.freq].pushFront(entry)
}

// evictOne drops the least recently used entry of the lowest frequency.
func (c *LFUCache) evictOne() {
	fl := c.freqMap[c.minFreq]
	if fl == nil || fl.size == 0 {
		c.recomputeMinFreq()
		fl = c.freqMap[c.minFreq]
		if fl == nil {
			return
		}
	}
	if entry := fl.popBack(); entry != nil {
		delete(c.keyMap, entry.key)
		if fl.size == 0 {
			delete(c.freqMap, entry.freq)
		}
		c.evictions++
	}
}

func (c *LFUCache) remove(entry *lfuEntry) {
	if fl, ok := c.freqMap[entry.freq]; ok {
		fl.unlink(entry)
		if fl.size == 0 {
			delete(c.freqMap, entry.freq)
		}
	}
	delete(c.keyMap, entry.key)
}

func (c *LFUCache) recomputeMinFreq() {
	c.minFreq = 0
	for freq := range c.freqMap {
		if c.minFreq == 0 || freq < c.minFreq {
			c.minFreq = freq
		}
	}
}
