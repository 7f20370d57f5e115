// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/tomtom215/salesboard/internal/analytics"
	"github.com/tomtom215/salesboard/internal/config"
)

func TestRoutesCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"routes"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("routes: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != len(analytics.Catalogue()) {
		t.Fatalf("got %d routes, want %d", len(lines), len(analytics.Catalogue()))
	}
	if !strings.Contains(out.String(), "/api/analytics/kpis") {
		t.Errorf("kpis route missing from output:\n%s", out.String())
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out.String(), "salesboard "+version) {
		t.Errorf("unexpected version output %q", out.String())
	}
}

func TestConfigFlagSetsEnv(t *testing.T) {
	t.Setenv(config.ConfigPathEnvVar, "")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", "/tmp/salesboard-test.yaml", "version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := os.Getenv(config.ConfigPathEnvVar); got != "/tmp/salesboard-test.yaml" {
		t.Errorf("%s = %q", config.ConfigPathEnvVar, got)
	}
}

func TestUnknownCommand(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"migrate"})

	if err := cmd.Execute(); err == nil {
		t.Error("expected an error for an unknown command")
	}
}
