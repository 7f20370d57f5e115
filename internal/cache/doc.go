// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

/*
Package cache holds report responses in memory for a bounded time.

Every analytics endpoint consults the cache before querying the database. A
report invocation is identified by BuildKey, which joins the report id and
its effective parameters in a fixed order:

	key := cache.BuildKey("top-products", start, end, channelID)
	// "top-products|2024-01-01|2024-01-31|all"

Absent optional filters render as SentinelAll so that "no filter" is a
distinct, stable key segment.

# Expiry

Entries are written with a TTL (300 seconds unless the report overrides it).
Get treats an entry as absent once its TTL has elapsed, even if the entry is
still in the map. Sweep removes such entries physically; in the server it runs
under the supervisor tree through Serve:

	c := cache.New(5*time.Minute)
	go c.Serve(ctx, time.Minute)

Tests inject a clockwork.FakeClock with WithClock to advance time without
sleeping.

# Implementations

	Cache     unbounded map, RWMutex, lazy expiry (default, type "ttl")
	LFUCache  capacity-bounded, least-frequently-used eviction (type "lfu")

NewCacher picks one from CacheConfig. Both are safe for concurrent use and
last-writer-wins on the same key.
*/
package cache
