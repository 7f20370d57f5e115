// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tomtom215/salesboard/internal/analytics"
	"github.com/tomtom215/salesboard/internal/api"
	"github.com/tomtom215/salesboard/internal/config"
)

// Set with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "salesboard",
		Short:         "Sales analytics REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if configPath == "" {
				return nil
			}
			return os.Setenv(config.ConfigPathEnvVar, configPath)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"path to a YAML config file (overrides "+config.ConfigPathEnvVar+")")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP server",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runServe(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "routes",
			Short: "List the report endpoints",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return printRoutes(cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print build information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "salesboard %s (commit %s, %s)\n", version, commit, runtime.Version())
			},
		},
	)
	return root
}

func printRoutes(out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, rep := range analytics.Catalogue() {
		fmt.Fprintf(tw, "GET\t%s/%s\t%s\n", api.AnalyticsPrefix, rep.ReportID(), rep.Summary())
	}
	return tw.Flush()
}
