// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"

	"github.com/tomtom215/salesboard/internal/analytics"
	"github.com/tomtom215/salesboard/internal/cache"
	"github.com/tomtom215/salesboard/internal/config"
)

func newTestRouter(t *testing.T, q *countingQuerier, mutate func(*config.Config)) http.Handler {
	t.Helper()
	cfg := config.Defaults()
	if mutate != nil {
		mutate(cfg)
	}
	h := NewHandler(q, cache.New(time.Minute), cfg)
	return NewRouter(h, cfg).SetupChi()
}

func serve(router http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestRouter_EveryCatalogueReportIsMounted(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &countingQuerier{}, nil)

	for _, rep := range analytics.Catalogue() {
		t.Run(rep.ReportID(), func(t *testing.T) {
			rec := serve(router, http.MethodGet, AnalyticsPrefix+"/"+rep.ReportID()+"?start=2025-01-01&end=2025-01-31")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
			}
			if rec.Header().Get(headerCache) != cacheMiss {
				t.Errorf("X-Cache = %q, want MISS", rec.Header().Get(headerCache))
			}
			if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
				t.Error("security headers missing")
			}
			if rec.Header().Get("X-Request-ID") == "" {
				t.Error("request id header missing")
			}
		})
	}
}

func TestRouter_ReportRoutesMatchCatalogue(t *testing.T) {
	t.Parallel()

	routes, ok := newTestRouter(t, &countingQuerier{}, nil).(chi.Routes)
	if !ok {
		t.Fatal("SetupChi should return a chi router")
	}

	mounted := map[string]bool{}
	err := chi.Walk(routes, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		if id, found := strings.CutPrefix(route, AnalyticsPrefix+"/"); found && method == http.MethodGet {
			mounted[id] = true
		}
		return nil
	})
	if err != nil {
		t.Fatalf("chi.Walk() error = %v", err)
	}

	catalogued := map[string]bool{}
	for _, rep := range analytics.Catalogue() {
		if catalogued[rep.ReportID()] {
			t.Errorf("report %q listed twice in the catalogue", rep.ReportID())
		}
		catalogued[rep.ReportID()] = true
	}

	if diff := cmp.Diff(catalogued, mounted); diff != "" {
		t.Errorf("mounted report routes differ from the catalogue (-catalogue +mounted):\n%s", diff)
	}
}

func TestRouter_NotFoundAndMethodNotAllowed(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &countingQuerier{}, nil)

	rec := serve(router, http.MethodGet, AnalyticsPrefix+"/does-not-exist")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown report status = %d, want 404", rec.Code)
	}
	if env := decodeEnvelope(t, rec.Body.Bytes()); env["success"] != false || env["code"] != ErrCodeNotFound {
		t.Errorf("404 envelope = %v", env)
	}

	rec = serve(router, http.MethodPost, AnalyticsPrefix+"/kpis?start=2025-01-01&end=2025-01-31")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d, want 405", rec.Code)
	}
	if env := decodeEnvelope(t, rec.Body.Bytes()); env["code"] != ErrCodeMethodNotAllowed {
		t.Errorf("405 envelope = %v", env)
	}
}

func TestRouter_RateLimit(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &countingQuerier{}, func(cfg *config.Config) {
		cfg.Security.RateLimitReqs = 2
		cfg.Security.RateLimitWindow = time.Minute
	})

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = serve(router, http.MethodGet, AnalyticsPrefix+"/summary?start=2025-01-01&end=2025-01-31")
	}
	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d, want 429", last.Code)
	}
	if env := decodeEnvelope(t, last.Body.Bytes()); env["code"] != ErrCodeTooManyRequests {
		t.Errorf("429 envelope = %v", env)
	}
}

func TestRouter_RateLimitDisabled(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &countingQuerier{}, func(cfg *config.Config) {
		cfg.Security.RateLimitReqs = 1
		cfg.Security.RateLimitDisabled = true
	})

	for i := 0; i < 5; i++ {
		if rec := serve(router, http.MethodGet, AnalyticsPrefix+"/summary?start=2025-01-01&end=2025-01-31"); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, rec.Code)
		}
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &countingQuerier{}, func(cfg *config.Config) {
		cfg.Security.CORSOrigins = []string{"https://dashboard.example.com"}
	})

	req := httptest.NewRequest(http.MethodOptions, AnalyticsPrefix+"/kpis", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://dashboard.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestRouter_Metrics(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &countingQuerier{}, nil)
	serve(router, http.MethodGet, AnalyticsPrefix+"/summary?start=2025-01-01&end=2025-01-31")

	rec := serve(router, http.MethodGet, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "salesboard_api_requests_total") {
		t.Error("metrics exposition lacks request counter")
	}
}
