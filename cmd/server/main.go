// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/racetrack/docs" // Import generated swagger docs
	"github.com/tomtom215/racetrack/internal/config"
	"github.com/tomtom215/racetrack/internal/eventprocessor"
	"github.com/tomtom215/racetrack/internal/logging"
	"github.com/tomtom215/racetrack/internal/supervisor"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.LoggingConfig())
	logging.Info().
		Int64("race_ttl_ms", cfg.Race.TTLMs).
		Int64("failover_window_ms", cfg.Race.FailoverWindowMs).
		Int("results_max_entries", cfg.Race.ResultsMaxEntries).
		Strs("allowed_producers", cfg.Race.AllowedProducers).
		Bool("api_token", cfg.Security.APIToken != "").
		Msg("Configuration loaded")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		logging.Error().Err(err).Msg("Racetrack stopped with error")
		cancel()
		os.Exit(1)
	}
	logging.Info().Msg("Racetrack stopped gracefully")
}

// run starts the transport and the supervisor tree and blocks until ctx is
// canceled.
func run(ctx context.Context, cfg *config.Config) error {
	transport, err := eventprocessor.StartTransport(ctx, cfg.TransportConfig())
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := transport.Close(shutdownCtx); err != nil {
			logging.Error().Err(err).Msg("Error stopping embedded NATS server")
		}
	}()

	app, err := newComponents(cfg, transport.URL())
	if err != nil {
		return err
	}

	watchLogLevel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}
	app.addTo(tree)

	logging.Info().Str("addr", cfg.ListenAddr()).Msg("Starting supervisor tree...")
	err = tree.Serve(ctx)

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// watchLogLevel applies LOG_LEVEL changes from the config file without a
// restart. Other settings need a restart.
func watchLogLevel() {
	path := config.ConfigFile()
	if path == "" {
		return
	}
	err := config.WatchConfigFile(path, func() {
		cfg, err := config.Load()
		if err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("Config reload failed")
			return
		}
		logging.SetLevelString(cfg.Logging.Level)
		logging.Info().Str("level", cfg.Logging.Level).Msg("Log level reloaded")
	})
	if err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("Config file watch unavailable")
	}
}
