// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

/*
Package supervisor provides process supervision for Racetrack using suture v4.

The tracker server runs every long-lived component under one tree:

	RootSupervisor ("racetrack")
	├── MessagingSupervisor ("messaging-layer")
	│   ├── race-event-consumer (ingest.Consumer)
	│   └── websocket-hub (websocket.Hub)
	├── StateSupervisor ("state-layer")
	│   └── expiry-sweeper (tracker.Sweeper)
	└── APISupervisor ("api-layer")
	    └── http-server (services.HTTPServerService)

The simulator uses the same tree with only the messaging layer populated.

Crashed services restart with suture's failure decay and backoff. Each
layer counts failures independently, so a consumer that keeps failing while
the transport is down does not take the HTTP server with it. A restarted
consumer resubscribes and the tracker keeps its state; only the active
producer is released on disconnect.

Supervisor events are logged through sutureslog into the slog logger
passed to NewSupervisorTree. The server passes logging.NewSlogLogger so
these events share the zerolog output.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddMessagingService(consumer)
	tree.AddMessagingService(hub)
	tree.AddStateService(store.Sweeper())
	tree.AddAPIService(services.NewHTTPServerService(server, addr, 10*time.Second))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

After Serve returns, UnstoppedServiceReport lists services that did not
stop within ShutdownTimeout.
*/
package supervisor
