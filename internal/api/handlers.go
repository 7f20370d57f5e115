// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

package api

import (
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/salesboard/internal/cache"
	"github.com/tomtom215/salesboard/internal/config"
	"github.com/tomtom215/salesboard/internal/database"
	"github.com/tomtom215/salesboard/internal/logging"
)

// Handler holds the dependencies shared by every endpoint.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - report_executor.go: the generic report pipeline
//   - handlers_health.go: health, liveness and cache statistics
type Handler struct {
	db        database.Querier
	cache     cache.Cacher
	config    *config.Config
	inflight  singleflight.Group
	startTime time.Time
}

// NewHandler wires the report pipeline to its data store and cache.
//
// A nil cache is replaced by a TTL cache with the configured default TTL,
// and a nil cfg by the built-in defaults, so tests can pass only what they
// exercise.
//
// Example:
//
//	store := cache.NewCacher(cache.CacheConfig{Type: cache.CacheType(cfg.Cache.Type), TTL: cfg.Cache.TTL})
//	handler := api.NewHandler(db, store, cfg)
//	router := api.NewRouter(handler, cfg)
//	http.ListenAndServe(cfg.Server.Addr(), router.SetupChi())
func NewHandler(db database.Querier, c cache.Cacher, cfg *config.Config) *Handler {
	if cfg == nil {
		cfg = config.Defaults()
	}
	if c == nil {
		c = cache.New(cfg.Cache.TTL)
	}
	return &Handler{
		db:        db,
		cache:     c,
		config:    cfg,
		startTime: time.Now(),
	}
}

// ClearCache drops every cached report.
//
// Thread Safety: Safe for concurrent access.
func (h *Handler) ClearCache() {
	h.cache.Clear()
	logging.Info().Msg("Report cache cleared")
}
