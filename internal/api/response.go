// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/salesboard/internal/logging"
)

// Envelope is the body of every API response.
type Envelope struct {
	// Success is false for every 4xx and 5xx response.
	Success bool `json:"success"`

	// Data is the report payload.
	Data interface{} `json:"data,omitempty"`

	// Params echoes resolved request parameters for reports that do so.
	Params interface{} `json:"params,omitempty"`

	// Message is human-readable; always set on errors.
	Message string `json:"message,omitempty"`

	// Code is a machine-readable error code.
	Code string `json:"code,omitempty"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	DBTime  time.Time `json:"db_time"`
}

// Error codes for API responses
const (
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodeDatabaseError      = "DATABASE_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// X-Cache header values.
const (
	headerCache = "X-Cache"
	cacheHit    = "HIT"
	cacheMiss   = "MISS"
)

const contentTypeJSON = "application/json; charset=utf-8"

// encodeEnvelope renders env once; the bytes are both sent and cached.
func encodeEnvelope(env Envelope) ([]byte, error) {
	return json.Marshal(env)
}

// writeBody sends pre-encoded JSON. cacheStatus is omitted when empty.
func writeBody(w http.ResponseWriter, status int, body []byte, cacheStatus string) {
	w.Header().Set("Content-Type", contentTypeJSON)
	if cacheStatus != "" {
		w.Header().Set(headerCache, cacheStatus)
	}
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		logging.Debug().Err(err).Msg("Failed to write response body")
	}
}

// respondJSON encodes v and sends it with status.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeBody(w, status, data, "")
}

// respondError logs err (if any) with the request's IDs and sends the
// error envelope.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	if err != nil {
		logger := logging.Ctx(r.Context())
		logger.Error().
			Str("code", code).
			Str("path", logging.SanitizeQueryValue(r.URL.Path)).
			Str("error", logging.SanitizeError(err.Error())).
			Msg("API error")
	}

	respondJSON(w, status, Envelope{
		Success: false,
		Message: message,
		Code:    code,
	})
}
