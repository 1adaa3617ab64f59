// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package main

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/tomtom215/recsys/internal/config"
	"github.com/tomtom215/recsys/internal/logging"
	"github.com/tomtom215/recsys/internal/recommend"
	"github.com/tomtom215/recsys/internal/recommend/algorithms"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// rootOptions holds global flags.
type rootOptions struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string
	MetricsOut string
}

// app carries initialized dependencies through the command tree.
type app struct {
	opts     rootOptions
	cfg      *config.Config
	registry *recommend.Registry
}

func newRootCommand() *cobra.Command {
	a := &app{registry: algorithms.NewRegistry()}

	cmd := &cobra.Command{
		Use:     "recsys",
		Short:   "Train, persist and serve latent-factor recommenders",
		Version: fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.initialize(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.writeMetrics()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&a.opts.ConfigPath, "config", "c", "", "config file path (default: $RECSYS_CONFIG or ./recsys.yaml)")
	pf.StringVar(&a.opts.LogLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	pf.StringVar(&a.opts.LogFormat, "log-format", "", "log format (console, json)")
	pf.StringVar(&a.opts.MetricsOut, "metrics-out", "", "write Prometheus metrics in text format to this file on success")

	cmd.AddCommand(
		newTrainCommand(a),
		newPredictCommand(a),
		newEvaluateCommand(a),
		newVersionsCommand(a),
	)
	return cmd
}

// initialize loads configuration and configures logging.
func (a *app) initialize(cmd *cobra.Command) error {
	cfg, err := config.Load(a.opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	if a.opts.LogLevel != "" {
		cfg.Logging.Level = a.opts.LogLevel
	}
	if a.opts.LogFormat != "" {
		format := strings.ToLower(a.opts.LogFormat)
		if format != "json" && format != "console" {
			return fmt.Errorf("--log-format must be json or console, got %q", a.opts.LogFormat)
		}
		cfg.Logging.Format = format
	}
	cfg.Logging.Output = cmd.ErrOrStderr()
	logging.Init(cfg.Logging)

	a.cfg = cfg
	cmd.SetContext(logging.ContextWithNewRunID(cmd.Context()))
	return nil
}

func (a *app) writeMetrics() error {
	if a.opts.MetricsOut == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(a.opts.MetricsOut, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
