// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

package config

import (
	"fmt"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateCache(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validEnvironments defines the allowed ENVIRONMENT values
var validEnvironments = map[string]bool{
	"development": true,
	"staging":     true,
	"production":  true,
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if !validEnvironments[c.Server.Environment] {
		return fmt.Errorf("ENVIRONMENT must be one of: development, staging, production")
	}
	return nil
}

// validateDatabase validates database configuration
func (c *Config) validateDatabase() error {
	switch c.Database.Driver {
	case "postgres":
		if err := c.validatePostgres(); err != nil {
			return err
		}
	case "duckdb":
		// Empty path opens an in-memory database.
	default:
		return fmt.Errorf("DB_DRIVER must be one of: postgres, duckdb")
	}

	if c.Database.QueryTimeout <= 0 {
		return fmt.Errorf("DB_QUERY_TIMEOUT must be positive")
	}

	return c.validateBreaker()
}

// validatePostgres validates the PostgreSQL connection settings
func (c *Config) validatePostgres() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required when DB_DRIVER=postgres")
	}
	if err := validatePostgresURL(c.Database.URL, "DATABASE_URL"); err != nil {
		return err
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be at least 1")
	}
	if c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS (%d)", c.Database.MaxConns)
	}
	return nil
}

// validateBreaker validates circuit breaker settings (only if enabled)
func (c *Config) validateBreaker() error {
	b := c.Database.Breaker
	if !b.Enabled {
		return nil
	}
	if b.FailureRatio <= 0 || b.FailureRatio > 1 {
		return fmt.Errorf("database.breaker.failure_ratio must be in (0, 1]")
	}
	if b.Timeout <= 0 {
		return fmt.Errorf("DB_BREAKER_TIMEOUT must be positive")
	}
	if b.MaxRequests == 0 {
		return fmt.Errorf("DB_BREAKER_MAX_REQUESTS must be at least 1")
	}
	return nil
}

// validCacheTypes defines the allowed cache backends
var validCacheTypes = map[string]bool{
	"ttl": true,
	"lfu": true,
}

// minSweepInterval keeps a misconfigured sweeper from spinning.
const minSweepInterval = time.Second

// validateCache validates cache configuration
func (c *Config) validateCache() error {
	if !validCacheTypes[c.Cache.Type] {
		return fmt.Errorf("CACHE_TYPE must be one of: ttl, lfu")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	if c.Cache.Type == "lfu" && c.Cache.Capacity < 1 {
		return fmt.Errorf("CACHE_CAPACITY must be at least 1 when CACHE_TYPE=lfu")
	}
	if c.Cache.SweepInterval < minSweepInterval {
		return fmt.Errorf("CACHE_SWEEP_INTERVAL must be at least %v", minSweepInterval)
	}
	for report, ttl := range c.Cache.ReportTTL {
		if ttl <= 0 {
			return fmt.Errorf("cache.report_ttl.%s must be positive", report)
		}
	}
	return nil
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// validateSecurity validates security configuration
func (c *Config) validateSecurity() error {
	if len(c.Security.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must list at least one origin (use * to allow any)")
	}
	return c.validateRateLimits()
}

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}

	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// HasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
