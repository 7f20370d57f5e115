// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

/*
Package config provides centralized configuration management for Salesboard.

Configuration is layered with Koanf v2: built-in defaults, then an optional
YAML file (CONFIG_PATH, ./config.yaml or /etc/salesboard/config.yaml), then
environment variables. The result is validated before it is returned.

# Environment Variables

HTTP Server:
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - HTTP_PORT: Listen port (default: 3000)
  - HTTP_TIMEOUT: Read/write timeout (default: 30s)
  - ENVIRONMENT: development, staging or production

Database:
  - DB_DRIVER: postgres (default) or duckdb
  - DATABASE_URL: PostgreSQL connection string
  - DUCKDB_PATH: DuckDB file, empty for in-memory
  - DB_MAX_CONNS, DB_MIN_CONNS: pgx pool bounds
  - DB_QUERY_TIMEOUT: per-query deadline (default: 30s)
  - DB_BREAKER_ENABLED and DB_BREAKER_*: circuit breaker tuning

Cache:
  - CACHE_TYPE: ttl (default) or lfu
  - CACHE_TTL: entry lifetime (default: 5m)
  - CACHE_CAPACITY: LFU capacity (default: 10000)
  - CACHE_SWEEP_INTERVAL: expiry sweep period (default: 1m)
  - CACHE_COALESCE_MISSES: share one query between concurrent misses (default: true)

Security:
  - CORS_ORIGINS: comma-separated allowed origins (default: *)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW: per-IP limit (default: 100 per 1m)
  - DISABLE_RATE_LIMIT: turn the limiter off

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

Per-report cache TTLs can only be set in the YAML file:

	cache:
	  ttl: 5m
	  report_ttl:
	    kpis: 1m
	    customer-retention: 15m

# Thread Safety

Config is immutable after Load() and safe for concurrent read access.
*/
package config
