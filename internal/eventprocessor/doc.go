// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

// Package eventprocessor binds race events to NATS JetStream through
// Watermill.
//
// # Topology
//
//	┌────────────┐    publish     ┌──────────────────────┐
//	│ simulator  │ ─────────────▶ │ stream RACE_EVENTS   │
//	│ (producer) │  Nats-Msg-Id   │ subjects race.>      │
//	└────────────┘                └──────────┬───────────┘
//	                                         │ ephemeral consumer per instance
//	                                         ▼
//	                              ┌──────────────────────┐
//	                              │ Router               │
//	                              │  PoisonQueue         │──▶ race.poison
//	                              │  Recoverer           │
//	                              └──────────┬───────────┘
//	                                         ▼
//	                                  ingest.Consumer
//
// Every tracker instance sees every event: subscriptions use an ephemeral
// consumer without a queue group, delivering new messages only, with one
// subscriber goroutine so events are handled in receipt order.
//
// # Components
//
//   - EmbeddedServer: in-process nats-server with JetStream
//   - StreamInitializer: idempotent create-or-update of the stream
//   - Publisher: watermill publisher behind a gobreaker circuit breaker
//   - Subscriber: watermill subscriber with connection state hooks
//   - Router: watermill router with poison queue and panic recovery
//   - Serializer: race event JSON encoding
//
// # Errors
//
// Handlers return a PermanentError for payloads that can never succeed.
// The router routes those to the poison subject and acknowledges them, so
// they are never redelivered.
package eventprocessor
