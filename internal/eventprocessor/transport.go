// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package eventprocessor

import (
	"context"
	"fmt"
	"time"

	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/tomtom215/racetrack/internal/logging"
)

// Transport is a started transport: the optional embedded server plus the
// URL clients should connect to. The stream is guaranteed to exist.
type Transport struct {
	server *EmbeddedServer
	url    string
}

// StartTransport starts the embedded server when configured and ensures
// the race events stream exists. An unreachable server is retried every
// ReconnectWait; only ctx cancellation ends the wait.
func StartTransport(ctx context.Context, cfg *TransportConfig) (*Transport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	t := &Transport{url: cfg.URL}
	if cfg.EmbeddedServer {
		serverCfg := cfg.Server()
		srv, err := NewEmbeddedServer(&serverCfg)
		if err != nil {
			return nil, err
		}
		t.server = srv
		t.url = srv.ClientURL()
		logging.Info().Str("url", t.url).Msg("Embedded NATS server started")
	} else {
		logging.Info().Str("url", t.url).Msg("Using external NATS server")
	}

	if err := t.ensureStream(ctx, cfg); err != nil {
		_ = t.Close(context.Background())
		return nil, err
	}
	return t, nil
}

// streamAttemptTimeout bounds one stream check while the server is
// unreachable.
const streamAttemptTimeout = 5 * time.Second

// ensureStream retries the stream setup every ReconnectWait until it
// succeeds or ctx is canceled.
func (t *Transport) ensureStream(ctx context.Context, cfg *TransportConfig) error {
	nc, err := natsgo.Connect(t.url,
		natsgo.Name("racetrack-bootstrap"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(cfg.ReconnectWait),
	)
	if err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}
	defer nc.Close()

	js, err := jetstream.New(nc)
	if err != nil {
		return fmt.Errorf("create JetStream context: %w", err)
	}

	streamCfg := cfg.Stream()
	si, err := NewStreamInitializer(js, &streamCfg)
	if err != nil {
		return fmt.Errorf("create stream initializer: %w", err)
	}

	for attempt := 1; ; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, streamAttemptTimeout)
		stream, err := si.EnsureStream(attemptCtx)
		cancel()
		if err == nil {
			info := stream.CachedInfo()
			logging.Info().
				Str("name", info.Config.Name).
				Strs("subjects", info.Config.Subjects).
				Dur("max_age", info.Config.MaxAge).
				Int("attempts", attempt).
				Msg("JetStream stream ready")
			return nil
		}
		if ctx.Err() != nil {
			return fmt.Errorf("ensure stream exists: %w", ctx.Err())
		}

		logging.Warn().Err(err).
			Str("url", t.url).
			Int("attempt", attempt).
			Dur("retry_in", cfg.ReconnectWait).
			Msg("JetStream stream not ready, retrying")

		select {
		case <-ctx.Done():
			return fmt.Errorf("ensure stream exists: %w", ctx.Err())
		case <-time.After(cfg.ReconnectWait):
		}
	}
}

// URL returns the client connection URL.
func (t *Transport) URL() string {
	return t.url
}

// Embedded reports whether an in-process server is running.
func (t *Transport) Embedded() bool {
	return t.server != nil
}

// Close stops the embedded server, if any.
func (t *Transport) Close(ctx context.Context) error {
	if t.server == nil {
		return nil
	}
	return t.server.Shutdown(ctx)
}
