// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

// Package testinfra provides container-backed fixtures for integration tests.
//
// Everything except this file is behind the integration build tag:
//
//	go test -tags integration ./internal/testinfra/...
//
// # PostgreSQL Container
//
// NewPostgresContainer starts a disposable PostgreSQL server with the sales
// schema already applied. Seed rows with Exec, then point the application at
// DSN:
//
//	pg, err := testinfra.NewPostgresContainer(ctx)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer testinfra.CleanupContainer(t, ctx, pg)
//
//	db, err := database.Open(ctx, &config.DatabaseConfig{URL: pg.DSN})
//
// Tests skip themselves when Docker is unavailable (see SkipIfNoDocker).
package testinfra
