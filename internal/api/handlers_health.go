// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/salesboard/internal/database"
)

// msgBackendOnline is the fixed health message clients check for.
const msgBackendOnline = "Backend online"

// breakerReporter is implemented by *database.DB.
type breakerReporter interface {
	BreakerState() string
}

// Health runs SELECT NOW() against the data store. Never cached.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "database not configured", nil)
		return
	}

	now, err := database.ServerTime(r.Context(), h.db)
	if err != nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "database unreachable", err)
		return
	}

	respondJSON(w, http.StatusOK, HealthResponse{
		Success: true,
		Message: msgBackendOnline,
		DBTime:  now,
	})
}

// LiveStatus is the data of GET /api/health/live.
type LiveStatus struct {
	Alive   bool    `json:"alive"`
	Uptime  float64 `json:"uptime_seconds"`
	Breaker string  `json:"circuit_breaker,omitempty"`
}

// HealthLive reports process liveness without touching the database.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	status := LiveStatus{
		Alive:  true,
		Uptime: time.Since(h.startTime).Seconds(),
	}
	if br, ok := h.db.(breakerReporter); ok {
		status.Breaker = br.BreakerState()
	}
	respondJSON(w, http.StatusOK, Envelope{Success: true, Data: status})
}

// CacheStatus is the data of GET /api/health/cache.
type CacheStatus struct {
	Hits      int64      `json:"hits"`
	Misses    int64      `json:"misses"`
	Evictions int64      `json:"evictions"`
	Keys      int        `json:"keys"`
	HitRate   float64    `json:"hit_rate"`
	LastSweep *time.Time `json:"last_sweep"`
}

// HealthCache reports cache counters.
func (h *Handler) HealthCache(w http.ResponseWriter, r *http.Request) {
	stats := h.cache.GetStats()
	status := CacheStatus{
		Hits:      stats.Hits,
		Misses:    stats.Misses,
		Evictions: stats.Evictions,
		Keys:      h.cache.Len(),
		HitRate:   h.cache.HitRate(),
	}
	if !stats.LastSweep.IsZero() {
		sweep := stats.LastSweep
		status.LastSweep = &sweep
	}
	respondJSON(w, http.StatusOK, Envelope{Success: true, Data: status})
}
