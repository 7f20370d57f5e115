// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/tomtom215/salesboard/internal/logging"
)

const defaultShutdownTimeout = 10 * time.Second

// HTTPServer is the part of *http.Server the service drives.
type HTTPServer interface {
	ListenAndServe() error
	Serve(ln net.Listener) error
	Shutdown(ctx context.Context) error
}

// HTTPServerService runs the API server under the api-layer supervisor.
//
//	server := &http.Server{Addr: ":3000", Handler: router.SetupChi()}
//	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
type HTTPServerService struct {
	server          HTTPServer
	listener        net.Listener
	shutdownTimeout time.Duration
	name            string
}

// HTTPOption customizes an HTTPServerService.
type HTTPOption func(*HTTPServerService)

// WithListener serves on an already bound listener instead of calling
// ListenAndServe. The listener is closed by Shutdown, so a restarted
// service fails on it; use it where restarts are not expected.
func WithListener(ln net.Listener) HTTPOption {
	return func(h *HTTPServerService) { h.listener = ln }
}

// WithServiceName overrides the name reported to the supervisor.
func WithServiceName(name string) HTTPOption {
	return func(h *HTTPServerService) { h.name = name }
}

// NewHTTPServerService wraps server. Non-positive shutdownTimeout means 10s.
func NewHTTPServerService(server HTTPServer, shutdownTimeout time.Duration, opts ...HTTPOption) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}
	h := &HTTPServerService{
		server:          server,
		shutdownTimeout: shutdownTimeout,
		name:            "http-server",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *HTTPServerService) listen() error {
	if h.listener != nil {
		logging.Info().Str("service", h.name).Str("addr", h.listener.Addr().String()).Msg("HTTP server listening")
		return h.server.Serve(h.listener)
	}
	return h.server.ListenAndServe()
}

// Serve implements suture.Service. Listener failures are returned for the
// supervisor to restart; cancellation drains connections and returns
// ctx.Err().
func (h *HTTPServerService) Serve(ctx context.Context) error {
	done := make(chan error, 1)
	go func() {
		err := h.listen()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		done <- err
	}()

	select {
	case err := <-done:
		if err == nil {
			return nil
		}
		logging.Error().Err(err).Str("service", h.name).Msg("HTTP server stopped")
		return fmt.Errorf("%s: listen: %w", h.name, err)
	case <-ctx.Done():
	}

	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.shutdownTimeout)
	defer cancel()

	logging.Info().Str("service", h.name).Dur("timeout", h.shutdownTimeout).Msg("Draining HTTP connections")
	if err := h.server.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("%s: shutdown: %w", h.name, err)
	}
	<-done
	return ctx.Err()
}

func (h *HTTPServerService) String() string {
	return h.name
}
