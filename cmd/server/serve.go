// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/tomtom215/salesboard/internal/api"
	"github.com/tomtom215/salesboard/internal/cache"
	"github.com/tomtom215/salesboard/internal/config"
	"github.com/tomtom215/salesboard/internal/database"
	"github.com/tomtom215/salesboard/internal/logging"
	"github.com/tomtom215/salesboard/internal/metrics"
	"github.com/tomtom215/salesboard/internal/supervisor"
	"github.com/tomtom215/salesboard/internal/supervisor/services"
)

const shutdownTimeout = 10 * time.Second

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("db_driver", cfg.Database.Driver).
		Str("cache_type", cfg.Cache.Type).
		Dur("cache_ttl", cfg.Cache.TTL).
		Msg("Starting Salesboard")

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	// The service still starts when the database is down; /api/health reports it.
	if err := db.Ping(ctx); err != nil {
		logging.Warn().Err(err).Msg("Database not reachable at startup")
	}

	reportCache := cache.NewCacher(cache.CacheConfig{
		Type:     cache.CacheType(cfg.Cache.Type),
		TTL:      cfg.Cache.TTL,
		Capacity: cfg.Cache.Capacity,
	})

	handler := api.NewHandler(db, reportCache, cfg)
	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}
	tree.AddDataService(services.NewCacheSweeperService(reportCache, cfg.Cache.SweepInterval))
	tree.AddAPIService(services.NewHTTPServerService(server, shutdownTimeout))

	logging.Info().Str("addr", server.Addr).Msg("Serving analytics API")

	err = tree.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	logging.Info().Msg("Salesboard stopped")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
