// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

//go:build integration

package main

import (
	"context"
	"testing"
	"time"

	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/tomtom215/racetrack/internal/config"
	"github.com/tomtom215/racetrack/internal/eventprocessor"
)

func TestIntegration_SimulatorPublishesToStream(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	srvCfg := eventprocessor.DefaultServerConfig()
	srvCfg.Port = -1
	srvCfg.StoreDir = t.TempDir()
	srv, err := eventprocessor.NewEmbeddedServer(&srvCfg)
	if err != nil {
		t.Fatal(err)
	}
	defer srv.Shutdown(context.Background())

	t.Setenv(config.ConfigPathEnvVar, t.TempDir()+"/missing.yaml")
	t.Setenv("NATS_URL", srv.ClientURL())
	t.Setenv("PRODUCER_ID", "sim-test")
	t.Setenv("NUM_RACES", "1")
	t.Setenv("NUM_PARTICIPANTS", "2")
	t.Setenv("PUBLISH_INTERVAL", "50")
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}

	transportCfg := cfg.TransportConfig()
	transport, err := eventprocessor.StartTransport(ctx, transportCfg)
	if err != nil {
		t.Fatalf("StartTransport: %v", err)
	}

	sim, pub, err := newSimulator(cfg, transportCfg, transport.URL())
	if err != nil {
		t.Fatalf("newSimulator() error = %v", err)
	}
	defer pub.Close()

	serveCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- sim.Serve(serveCtx) }()

	nc, err := natsgo.Connect(srv.ClientURL())
	if err != nil {
		t.Fatal(err)
	}
	defer nc.Close()
	js, err := jetstream.New(nc)
	if err != nil {
		t.Fatal(err)
	}
	stream, err := js.Stream(ctx, transportCfg.StreamName)
	if err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(10 * time.Second)
	for {
		info, err := stream.Info(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if info.State.Msgs >= 4 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("stream has %d messages, want at least 4", info.State.Msgs)
		}
		time.Sleep(50 * time.Millisecond)
	}

	stop()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("simulator did not stop")
	}
}
