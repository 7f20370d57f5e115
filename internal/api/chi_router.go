// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/salesboard/internal/analytics"
	"github.com/tomtom215/salesboard/internal/config"
	"github.com/tomtom215/salesboard/internal/middleware"
)

// AnalyticsPrefix is the path every report route lives under.
const AnalyticsPrefix = "/api/analytics"

// gzipLevel balances CPU and size for JSON report bodies.
const gzipLevel = 5

// Router sets up HTTP routes using Chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router for h using the security section of cfg.
func NewRouter(h *Handler, cfg *config.Config) *Router {
	return &Router{
		handler:       h,
		chiMiddleware: NewChiMiddlewareFromConfig(cfg.Security),
	}
}

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, in order.
	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // must be global to answer OPTIONS preflight

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	r.Route("/api/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/cache", router.handler.HealthCache)
	})

	r.Route(AnalyticsPrefix, func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chimiddleware.Compress(gzipLevel, "application/json"))
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		router.registerReports(r)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// registerReports mounts one GET route per report in analytics.Catalogue.
func (router *Router) registerReports(r chi.Router) {
	h := router.handler

	mountReport(r, h, analytics.TopProducts)
	mountReport(r, h, analytics.TopStores)
	mountReport(r, h, analytics.TopChannels)
	mountReport(r, h, analytics.TopSubBrands)
	mountReport(r, h, analytics.DashboardKPIs)
	mountReport(r, h, analytics.Timeline)
	mountReport(r, h, analytics.StoreRanking)
	mountReport(r, h, analytics.StorePerformance)
	mountReport(r, h, analytics.TopCustomers)
	mountReport(r, h, analytics.ChannelPerformance)
	mountReport(r, h, analytics.SalesTrend)
	mountReport(r, h, analytics.Financial)
	mountReport(r, h, analytics.DashboardSummary)
	mountReport(r, h, analytics.TopProductsByPeriod)
	mountReport(r, h, analytics.AvgTicketComparison)
	mountReport(r, h, analytics.LowMarginProducts)
	mountReport(r, h, analytics.DeliveryPerformance)
	mountReport(r, h, analytics.CustomerRetention)
	mountReport(r, h, analytics.AverageTicket)
}

func mountReport[P any](r chi.Router, h *Handler, rep analytics.Report[P]) {
	r.Get("/"+rep.ID, serveReport(h, rep))
}

func notFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "route not found", nil)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed", nil)
}
