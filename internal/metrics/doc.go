// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

/*
Package metrics defines the Prometheus metrics exported at /metrics.

Metrics are registered with promauto on the default registry and updated
through small Record helpers so call sites stay one line.

# Available Metrics

Ingestion:
  - racetrack_messages_processed_total
  - racetrack_messages_rejected_total{reason}
  - racetrack_messages_dropped_total{reason}
  - racetrack_message_processing_duration_seconds

Arbitration:
  - racetrack_producer_failovers_total
  - racetrack_producer_changes_total{reason}
  - racetrack_producer_present

State:
  - racetrack_races_tracked, racetrack_participants_tracked
  - racetrack_results_archived_total, racetrack_results_retained
  - racetrack_expired_total{kind}, racetrack_sweep_duration_seconds

Transport:
  - racetrack_transport_connected, racetrack_transport_disconnects_total
  - racetrack_events_published_total{result}
  - circuit_breaker_state{name}

HTTP:
  - api_requests_total, api_request_duration_seconds, api_active_requests
  - api_unauthorized_total, websocket_connections, websocket_messages_sent_total
*/
package metrics
