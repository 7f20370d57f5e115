// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

// Package logging provides the process-wide zerolog logger.
//
// JSON output is the default; console output is meant for local runs.
// Request-scoped code logs through Ctx so every line carries the request and
// correlation IDs set by the HTTP middleware:
//
//	logging.Init(logging.Config{Level: "info", Format: "json", Timestamp: true})
//	logging.Ctx(ctx).Warn().Str("report", "kpis").Msg("Query failed")
//
// The suture supervisor only accepts a *slog.Logger; NewSlogLogger bridges it
// into the same zerolog output.
//
// Environment (through the config package):
//   - LOG_LEVEL: trace, debug, info, warn, error (default info)
//   - LOG_FORMAT: json, console (default json)
//   - LOG_CALLER: include file:line (default false)
package logging
