// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/salesboard/internal/cache"
	"github.com/tomtom215/salesboard/internal/database"
	"github.com/tomtom215/salesboard/internal/validation"
)

// Result is what a report hands back to the HTTP layer.
type Result struct {
	// Data becomes the "data" field of the envelope.
	Data any

	// Params is echoed as "params" when non-nil.
	Params any

	// Message is echoed as "message" when non-empty.
	Message string
}

// Report describes one analytics endpoint: how to default and key its
// parameters, and how to turn them into a Result. P is the request struct
// the query string is bound into.
type Report[P any] struct {
	ID          string
	Description string

	// Defaults returns P with optional parameters preset. Nil means the
	// zero value.
	Defaults func() P

	// Check validates rules the struct tags cannot express. Optional; a
	// non-nil error is a client error.
	Check func(P) error

	// Key returns the parameter values that identify a result, in a fixed
	// order. Absent optional values are nil.
	Key func(P) []any

	// Run executes the query plan and maps rows to the response data.
	Run func(ctx context.Context, q database.Querier, p P) (Result, error)
}

// Descriptor is the type-erased view of a Report used for listings.
type Descriptor interface {
	ReportID() string
	Summary() string
}

// ReportID returns the URL segment under /api/analytics.
func (r Report[P]) ReportID() string { return r.ID }

// Summary returns the one-line description.
func (r Report[P]) Summary() string { return r.Description }

// NewParams returns a request struct with defaults applied.
func (r Report[P]) NewParams() P {
	if r.Defaults == nil {
		var p P
		return p
	}
	return r.Defaults()
}

// Validate runs Check, if any.
func (r Report[P]) Validate(p P) error {
	if r.Check == nil {
		return nil
	}
	return r.Check(p)
}

// CacheKey builds the cache key for p.
func (r Report[P]) CacheKey(p P) string {
	if r.Key == nil {
		return cache.BuildKey(r.ID)
	}
	return cache.BuildKey(r.ID, r.Key(p)...)
}

// Execute runs the report with queries labelled by the report id.
func (r Report[P]) Execute(ctx context.Context, q database.Querier, p P) (Result, error) {
	return r.Run(database.WithOperation(ctx, r.ID), q, p)
}

// Period is the date range every report requires. Values are validated
// by the binder, so the accessors ignore parse errors.
type Period struct {
	Start string `query:"start" validate:"required,reportdate"`
	End   string `query:"end" validate:"required,reportdate,notbefore=Start"`
}

// StartTime returns the parsed start bound.
func (p Period) StartTime() time.Time {
	t, _ := validation.ParseReportDate(p.Start)
	return t
}

// EndTime returns the parsed end bound.
func (p Period) EndTime() time.Time {
	t, _ := validation.ParseReportDate(p.End)
	return t
}

// Bounds returns both parsed bounds.
func (p Period) Bounds() (time.Time, time.Time) {
	return p.StartTime(), p.EndTime()
}

// ChannelFilter narrows a report to one sales channel.
type ChannelFilter struct {
	ChannelID *int `query:"channel_id" validate:"omitempty,gt=0"`
}

// channelArg returns the bind value for "($n::int IS NULL OR s.channel_id = $n)".
func (c ChannelFilter) channelArg() any {
	if c.ChannelID == nil {
		return nil
	}
	return int64(*c.ChannelID)
}

// Limit caps ranking reports.
type Limit struct {
	Limit int `query:"limit" validate:"min=1,max=100"`
}

// DefaultLimit is applied when the limit parameter is absent.
const DefaultLimit = 10

// formatDate renders t like the key builder does: date-only at UTC
// midnight, RFC3339 otherwise.
func formatDate(t time.Time) string {
	t = t.UTC()
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.RFC3339)
}

// formatPeriod renders a DATE_TRUNC bucket as YYYY-MM-DD.
func formatPeriod(v any) string {
	switch val := v.(type) {
	case time.Time:
		return val.Format(time.DateOnly)
	case *time.Time:
		if val == nil {
			return ""
		}
		return val.Format(time.DateOnly)
	}
	s := text(v)
	if t, err := validation.ParseReportDate(s); err == nil {
		return t.Format(time.DateOnly)
	}
	if len(s) >= len(time.DateOnly) {
		if t, err := time.Parse(time.DateOnly, s[:len(time.DateOnly)]); err == nil {
			return t.Format(time.DateOnly)
		}
	}
	return s
}

// text renders a label column.
func text(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// toTime reads a timestamp column.
func toTime(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, true
	case *time.Time:
		if val == nil {
			return time.Time{}, false
		}
		return *val, true
	}
	s := strings.TrimSpace(text(v))
	if s == "" {
		return time.Time{}, false
	}
	if t, err := validation.ParseReportDate(s); err == nil {
		return t, true
	}
	for _, layout := range []string{"2006-01-02 15:04:05.999999999-07", "2006-01-02 15:04:05.999999999"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// firstRow returns the single row of an aggregate query, or an empty row.
func firstRow(rows []database.Row) database.Row {
	if len(rows) == 0 {
		return database.Row{}
	}
	return rows[0]
}

// money normalizes a currency value to two decimals.
func money(v any) float64 {
	return Round(Normalize(v), 2)
}
