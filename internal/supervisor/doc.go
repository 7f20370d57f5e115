// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

/*
Package supervisor provides process supervision for Salesboard using suture v4.

The tree separates background data maintenance from request serving:

	RootSupervisor ("salesboard")
	├── DataSupervisor ("data-layer")
	│   └── CacheSweeperService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A sweeper that panics or returns an error is restarted without touching the
HTTP server, and expired report entries are still invisible to readers while
the sweeper is down because Get checks expiry on every lookup.

# Usage

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	tree, err := supervisor.NewSupervisorTree(logger, supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewCacheSweeperService(reportCache, cfg.Cache.SweepInterval))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return tree.Serve(ctx)

# Events

Supervisor events (restarts, backoff, stop timeouts) are logged through
sutureslog, which adapts suture's event hook to log/slog.
*/
package supervisor
