// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/racetrack/internal/config"
	"github.com/tomtom215/racetrack/internal/course"
	"github.com/tomtom215/racetrack/internal/eventprocessor"
	"github.com/tomtom215/racetrack/internal/logging"
	"github.com/tomtom215/racetrack/internal/simulation"
	"github.com/tomtom215/racetrack/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.LoggingConfig())
	logging.Info().
		Str("producer_id", cfg.Simulator.ProducerID).
		Int("races", cfg.Simulator.Races).
		Int("participants", cfg.Simulator.Participants).
		Int("laps", cfg.Simulator.Laps).
		Int64("publish_interval_ms", cfg.Simulator.PublishIntervalMs).
		Msg("Configuration loaded")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		logging.Error().Err(err).Msg("Simulator stopped with error")
		cancel()
		os.Exit(1)
	}
	logging.Info().Msg("Simulator stopped gracefully")
}

// run publishes simulated races until ctx is canceled.
func run(ctx context.Context, cfg *config.Config) error {
	transportCfg := cfg.TransportConfig()

	transport, err := eventprocessor.StartTransport(ctx, transportCfg)
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

	sim, pub, err := newSimulator(cfg, transportCfg, transport.URL())
	if err != nil {
		return err
	}
	defer func() {
		if err := pub.Close(); err != nil {
			logging.Warn().Err(err).Msg("Error closing publisher")
		}
	}()

	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.Name = "racetrack-simulator"
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), treeCfg)
	if err != nil {
		return err
	}
	tree.AddMessagingService(sim)

	logging.Info().Str("url", transport.URL()).Str("subject", transportCfg.Subject).Msg("Starting simulator...")
	err = tree.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// newSimulator builds a publisher guarded by a circuit breaker and the
// simulator that drives it.
func newSimulator(cfg *config.Config, transportCfg *eventprocessor.TransportConfig, url string) (*simulation.Simulator, *eventprocessor.Publisher, error) {
	pub, err := eventprocessor.NewPublisher(transportCfg.Publisher(url), transportCfg.Subject, logging.NewWatermillAdapter())
	if err != nil {
		return nil, nil, fmt.Errorf("create publisher: %w", err)
	}
	pub.SetCircuitBreaker(eventprocessor.NewCircuitBreaker(
		eventprocessor.DefaultCircuitBreakerConfig("simulator-publisher")))

	sim, err := simulation.New(cfg.SimulationConfig(), course.Estoril(), pub)
	if err != nil {
		_ = pub.Close()
		return nil, nil, fmt.Errorf("create simulator: %w", err)
	}
	return sim, pub, nil
}
