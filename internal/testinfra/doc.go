// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

// Package testinfra provides test infrastructure for integration testing with containers.
//
// This package uses testcontainers-go to run a real NATS server with
// JetStream, so the transport bootstrap and publishers can be tested against
// an external broker as in production, not only the embedded server.
//
// # NATS Container
//
//	func TestAgainstNATS(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    nats, err := testinfra.StartNATS(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    testinfra.CleanupContainer(t, nats)
//
//	    cfg := eventprocessor.DefaultTransportConfig()
//	    cfg.URL = nats.URL
//	    transport, err := eventprocessor.StartTransport(ctx, &cfg)
//	    // ...
//	}
//
// # CI Considerations
//
// All files carry the integration build tag. Tests skip when Docker is
// unavailable. The first run downloads the NATS image.
package testinfra
