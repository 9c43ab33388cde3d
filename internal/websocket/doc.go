// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

/*
Package websocket pushes race lifecycle notifications to connected clients.

The Hub implements tracker.Notifier. Every notification becomes a typed
Message fanned out to all clients:

  - race_finalized: the archived ResultSnapshot of a race that was reset
  - producer_changed: an active producer transition (acquired, failover,
    disconnect, silence)
  - race_expired: a race removed by TTL expiry

Clients are read-only. They may send {"type":"ping"} and receive
{"type":"pong"}; anything else is ignored.

Each client runs two goroutines. writePump drains its send buffer and
sends control pings every pingPeriod; readPump extends the read deadline on
every pong. A client whose buffer is full when a broadcast arrives is
disconnected rather than blocking the hub.

The Hub runs as a suture.Service:

	hub := websocket.NewHub()
	tree.AddMessagingService(hub)
	trk, _ := tracker.New(cfg, tracker.WithNotifier(hub))

The /ws handler in internal/api upgrades the request, then registers a
NewClient with hub.Register and calls Start.
*/
package websocket
