// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/salesboard/internal/analytics"
	"github.com/tomtom215/salesboard/internal/database"
	"github.com/tomtom215/salesboard/internal/logging"
	"github.com/tomtom215/salesboard/internal/metrics"
	"github.com/tomtom215/salesboard/internal/validation"
)

// Client-facing text for query failures. Driver errors are logged, never
// returned.
const (
	msgReportFailed        = "failed to load report"
	msgDatabaseUnavailable = "database temporarily unavailable"
)

// serveReport returns the handler for one report. The pipeline is
// validate, key, cache read, execute, cache write; see the package doc.
func serveReport[P any](h *Handler, rep analytics.Report[P]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := rep.NewParams()
		if verr := validation.Bind(r.URL.Query(), &p); verr != nil {
			respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, verr.Message(), nil)
			return
		}
		if err := rep.Validate(p); err != nil {
			respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, err.Error(), nil)
			return
		}

		key := rep.CacheKey(p)
		if body, ok := h.cachedBody(key); ok {
			metrics.RecordCacheLookup(rep.ID, true)
			writeBody(w, http.StatusOK, body, cacheHit)
			return
		}
		metrics.RecordCacheLookup(rep.ID, false)

		// The query outlives a disconnected client; the query timeout in
		// the executor still bounds it.
		ctx := context.WithoutCancel(r.Context())

		start := time.Now()
		body, err := h.load(ctx, rep.ID, key, func(ctx context.Context) ([]byte, error) {
			res, err := rep.Execute(ctx, h.db, p)
			if err != nil {
				return nil, err
			}
			return encodeEnvelope(Envelope{
				Success: true,
				Data:    res.Data,
				Params:  res.Params,
				Message: res.Message,
			})
		})
		if err != nil {
			respondQueryError(w, r, rep.ID, err)
			return
		}

		logger := logging.Ctx(r.Context())
		logger.Debug().
			Str("report", rep.ID).
			Dur("duration", time.Since(start)).
			Int("bytes", len(body)).
			Msg("Report computed")

		writeBody(w, http.StatusOK, body, cacheMiss)
	}
}

// cachedBody returns the encoded response stored under key.
func (h *Handler) cachedBody(key string) ([]byte, bool) {
	v, ok := h.cache.Get(key)
	if !ok {
		return nil, false
	}
	body, ok := v.([]byte)
	return body, ok
}

// load computes a response body and caches it with the report's TTL.
// Failed computations are not cached. With coalescing enabled, concurrent
// misses for the same key wait for one computation and share its result.
func (h *Handler) load(ctx context.Context, report, key string, compute func(context.Context) ([]byte, error)) ([]byte, error) {
	fill := func() (interface{}, error) {
		body, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		h.cache.SetWithTTL(key, body, h.config.Cache.TTLFor(report))
		metrics.CacheEntries.Set(float64(h.cache.Len()))
		return body, nil
	}

	if !h.config.Cache.CoalesceMisses {
		v, err := fill()
		if err != nil {
			return nil, err
		}
		return v.([]byte), nil
	}

	v, err, shared := h.inflight.Do(key, fill)
	if shared {
		metrics.CacheCoalesced.WithLabelValues(report).Inc()
	}
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// respondQueryError maps a failed report to 503 while the circuit breaker
// is open and 500 otherwise.
func respondQueryError(w http.ResponseWriter, r *http.Request, report string, err error) {
	status, code, message := http.StatusInternalServerError, ErrCodeDatabaseError, msgReportFailed
	if errors.Is(err, database.ErrUnavailable) {
		status, code, message = http.StatusServiceUnavailable, ErrCodeServiceUnavailable, msgDatabaseUnavailable
	}

	logger := logging.Ctx(r.Context())
	logger.Error().
		Str("report", report).
		Int("status", status).
		Str("error", logging.SanitizeError(err.Error())).
		Msg("Report failed")

	respondJSON(w, status, Envelope{Success: false, Message: message, Code: code})
}
