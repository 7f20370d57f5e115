// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

package validation

import (
	"net/url"
	"strings"
	"testing"
)

type periodRequest struct {
	Start string `query:"start" validate:"required,reportdate"`
	End   string `query:"end" validate:"required,reportdate,notbefore=Start"`
}

type groupedRequest struct {
	periodRequest
	GroupBy   string   `query:"group_by" validate:"oneof=store channel"`
	ChannelID *int     `query:"channel_id" validate:"omitempty,gt=0"`
	Limit     int      `query:"limit" validate:"min=1,max=100"`
	CostPct   float64  `query:"cost_pct" validate:"gt=0,lte=100"`
	PrevStart *string  `query:"prev_start,prevStart" validate:"omitempty,reportdate"`
	Ignored   string   `query:"-"`
	Weekday   *int     `query:"weekday" validate:"omitempty,min=0,max=6"`
	Ratio     *float64 `query:"ratio"`
}

func newGrouped() groupedRequest {
	return groupedRequest{GroupBy: "store", Limit: 10, CostPct: 60}
}

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

func TestParseReportDate(t *testing.T) {
	t.Parallel()

	valid := []string{"2024-01-01", "2024-01-31T23:59:59Z", "2024-01-31T23:59:59-03:00", "2024-01-31T23:59:59.123Z"}
	for _, s := range valid {
		if _, err := ParseReportDate(s); err != nil {
			t.Errorf("ParseReportDate(%q) unexpected error: %v", s, err)
		}
	}

	invalid := []string{"", "01/02/2024", "2024-13-01", "yesterday"}
	for _, s := range invalid {
		if _, err := ParseReportDate(s); err == nil {
			t.Errorf("ParseReportDate(%q) should fail", s)
		}
	}
}

func TestBind_Valid(t *testing.T) {
	t.Parallel()

	q := url.Values{
		"start":      {"2024-01-01"},
		"end":        {"2024-01-31"},
		"group_by":   {"channel"},
		"channel_id": {"3"},
		"limit":      {"25"},
		"prevStart":  {"2023-12-01"},
		"weekday":    {"0"},
		"ratio":      {"0.5"},
	}

	req := newGrouped()
	if err := Bind(q, &req); err != nil {
		t.Fatalf("Bind() unexpected error: %v", err)
	}

	if req.Start != "2024-01-01" || req.End != "2024-01-31" {
		t.Errorf("dates not bound: %+v", req.periodRequest)
	}
	if req.GroupBy != "channel" {
		t.Errorf("GroupBy = %q", req.GroupBy)
	}
	if req.ChannelID == nil || *req.ChannelID != 3 {
		t.Errorf("ChannelID = %v", req.ChannelID)
	}
	if req.Limit != 25 {
		t.Errorf("Limit = %d", req.Limit)
	}
	if req.CostPct != 60 {
		t.Errorf("CostPct default lost: %v", req.CostPct)
	}
	if req.PrevStart == nil || *req.PrevStart != "2023-12-01" {
		t.Errorf("alias not bound: %v", req.PrevStart)
	}
	if req.Weekday == nil || *req.Weekday != 0 {
		t.Errorf("zero weekday should be kept distinct from absent: %v", req.Weekday)
	}
	if req.Ratio == nil || *req.Ratio != 0.5 {
		t.Errorf("Ratio = %v", req.Ratio)
	}
}

func TestBind_AbsentOptionalStaysNil(t *testing.T) {
	t.Parallel()

	req := newGrouped()
	q := url.Values{"start": {"2024-01-01"}, "end": {"2024-01-31"}, "channel_id": {"  "}}
	if err := Bind(q, &req); err != nil {
		t.Fatalf("Bind() unexpected error: %v", err)
	}
	if req.ChannelID != nil {
		t.Errorf("blank channel_id should stay nil, got %d", *req.ChannelID)
	}
}

func TestBind_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		query   url.Values
		field   string
		message string
	}{
		{
			name:    "missing both dates",
			query:   url.Values{},
			field:   "start",
			message: "start and end are required",
		},
		{
			name:    "missing end",
			query:   url.Values{"start": {"2024-01-01"}},
			field:   "end",
			message: "end is required",
		},
		{
			name:    "bad date format",
			query:   url.Values{"start": {"01/01/2024"}, "end": {"2024-01-31"}},
			field:   "start",
			message: "start must be a date in YYYY-MM-DD or RFC3339 format",
		},
		{
			name:    "end before start",
			query:   url.Values{"start": {"2024-02-01"}, "end": {"2024-01-01"}},
			field:   "end",
			message: "end must not be before start",
		},
		{
			name:    "group_by outside allow-list",
			query:   url.Values{"start": {"2024-01-01"}, "end": {"2024-01-31"}, "group_by": {"region"}},
			field:   "group_by",
			message: "group_by must be one of: store channel",
		},
		{
			name:    "non-integer channel",
			query:   url.Values{"start": {"2024-01-01"}, "end": {"2024-01-31"}, "channel_id": {"abc"}},
			field:   "channel_id",
			message: "channel_id must be an integer",
		},
		{
			name:    "limit above max",
			query:   url.Values{"start": {"2024-01-01"}, "end": {"2024-01-31"}, "limit": {"1000"}},
			field:   "limit",
			message: "limit must be at most 100",
		},
		{
			name:    "non-positive channel",
			query:   url.Values{"start": {"2024-01-01"}, "end": {"2024-01-31"}, "channel_id": {"0"}},
			field:   "channel_id",
			message: "channel_id must be greater than 0",
		},
		{
			name:    "weekday out of range",
			query:   url.Values{"start": {"2024-01-01"}, "end": {"2024-01-31"}, "weekday": {"7"}},
			field:   "weekday",
			message: "weekday must be at most 6",
		},
		{
			name:    "cost pct not a number",
			query:   url.Values{"start": {"2024-01-01"}, "end": {"2024-01-31"}, "cost_pct": {"sixty"}},
			field:   "cost_pct",
			message: "cost_pct must be a number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := newGrouped()
			err := Bind(tt.query, &req)
			if err == nil {
				t.Fatal("Bind() expected error, got nil")
			}
			if !err.Has(tt.field) {
				t.Errorf("expected error on %q, got %v", tt.field, err.Errors())
			}
			if !strings.Contains(err.Message(), tt.message) {
				t.Errorf("Message() = %q, want it to contain %q", err.Message(), tt.message)
			}
		})
	}
}

func TestBind_RejectsNonStruct(t *testing.T) {
	t.Parallel()

	var n int
	if err := Bind(url.Values{}, &n); err == nil {
		t.Error("expected error binding into non-struct")
	}
}
