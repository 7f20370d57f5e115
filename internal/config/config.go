// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting via environment variables
//
// Configuration Categories:
//   - Server: HTTP listener (host, port, timeout, environment)
//   - Database: sales database driver, connection and circuit breaker
//   - Cache: report result cache (backend, TTL, sweeping, coalescing)
//   - Security: CORS and rate limiting
//   - Logging: zerolog level and format
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	db, err := database.Open(ctx, &cfg.Database)
//
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Cache    CacheConfig    `koanf:"cache"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // "development", "staging", "production" (default: "development")
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds settings for the sales database.
//
// Environment Variables:
//   - DB_DRIVER: postgres or duckdb (default: postgres)
//   - DATABASE_URL: PostgreSQL connection string (required for postgres)
//   - DUCKDB_PATH: DuckDB file path, empty for in-memory (duckdb only)
//   - DB_MAX_CONNS / DB_MIN_CONNS: pool bounds (postgres only)
//   - DB_QUERY_TIMEOUT: per-query deadline (default: 30s)
//   - DB_BREAKER_ENABLED: wrap queries in a circuit breaker (default: true)
type DatabaseConfig struct {
	Driver       string        `koanf:"driver"`
	URL          string        `koanf:"url"`
	Path         string        `koanf:"path"`
	MaxConns     int32         `koanf:"max_conns"`
	MinConns     int32         `koanf:"min_conns"`
	QueryTimeout time.Duration `koanf:"query_timeout"`
	Breaker      BreakerConfig `koanf:"breaker"`
}

// BreakerConfig tunes the circuit breaker in front of the database.
// Field semantics follow gobreaker.Settings.
type BreakerConfig struct {
	Enabled      bool          `koanf:"enabled"`
	MaxRequests  uint32        `koanf:"max_requests"`  // trial requests allowed while half-open
	Interval     time.Duration `koanf:"interval"`      // closed-state counter reset period
	Timeout      time.Duration `koanf:"timeout"`       // open -> half-open delay
	FailureRatio float64       `koanf:"failure_ratio"` // trip threshold
	MinRequests  uint32        `koanf:"min_requests"`  // requests before the ratio applies
}

// CacheConfig holds report cache settings.
type CacheConfig struct {
	// Type selects the backend: "ttl" (default) or "lfu".
	Type string `koanf:"type"`

	// TTL is the lifetime of a cached report. Default: 5m.
	TTL time.Duration `koanf:"ttl"`

	// Capacity bounds the LFU backend. Ignored for "ttl".
	Capacity int `koanf:"capacity"`

	// SweepInterval is how often expired entries are purged.
	SweepInterval time.Duration `koanf:"sweep_interval"`

	// CoalesceMisses lets concurrent misses on the same key share one query.
	CoalesceMisses bool `koanf:"coalesce_misses"`

	// ReportTTL overrides TTL per report id, e.g. {"kpis": "1m"}.
	// Only settable from the config file.
	ReportTTL map[string]time.Duration `koanf:"report_ttl"`
}

// TTLFor returns the TTL to apply to report, honoring ReportTTL.
func (c CacheConfig) TTLFor(report string) time.Duration {
	if ttl, ok := c.ReportTTL[report]; ok && ttl > 0 {
		return ttl
	}
	return c.TTL
}

// SecurityConfig holds CORS and rate limiting settings
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// JSON is recommended for production (structured, machine-parseable).
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// Load reads configuration from defaults, config file and environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// IsProduction reports whether ENVIRONMENT=production.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
