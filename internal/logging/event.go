// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package logging

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// EventLogger provides domain helpers for ingestion logging so every
// outcome of the pipeline is logged with the same field names.
type EventLogger struct {
	logger zerolog.Logger
}

// NewEventLogger creates an EventLogger tagged with component=ingest.
func NewEventLogger() *EventLogger {
	return &EventLogger{logger: WithComponent("ingest")}
}

// NewEventLoggerWithLogger creates an EventLogger on top of logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEventLoggerWithLogger(logger zerolog.Logger) *EventLogger {
	return &EventLogger{logger: logger.With().Str("component", "ingest").Logger()}
}

func (e *EventLogger) withContext(ctx context.Context) zerolog.Logger {
	logCtx := e.logger.With()
	if id := CorrelationIDFromContext(ctx); id != "" {
		logCtx = logCtx.Str("correlation_id", id)
	}
	return logCtx.Logger()
}

// LogEventRejected logs a payload that failed parsing or validation.
func (e *EventLogger) LogEventRejected(ctx context.Context, reason string, err error) {
	l := e.withContext(ctx)
	l.Warn().Str("reason", reason).Err(err).Msg("event rejected")
}

// LogEventDropped logs an event that was acknowledged without mutation.
func (e *EventLogger) LogEventDropped(ctx context.Context, producerID, raceID, reason string) {
	l := e.withContext(ctx)
	l.Debug().
		Str("producer_id", producerID).
		Str("race_id", raceID).
		Str("reason", reason).
		Msg("event dropped")
}

// LogProducerAcquired logs a producer becoming authoritative.
func (e *EventLogger) LogProducerAcquired(ctx context.Context, producerID string) {
	l := e.withContext(ctx)
	l.Info().Str("producer_id", producerID).Msg("active producer acquired")
}

// LogProducerFailover logs a takeover after the failover window elapsed.
func (e *EventLogger) LogProducerFailover(ctx context.Context, from, to string, silence time.Duration) {
	l := e.withContext(ctx)
	l.Warn().
		Str("previous_producer", from).
		Str("producer_id", to).
		Dur("silence", silence).
		Msg("producer failover, view store wiped")
}

// LogProducerReleased logs the active producer being cleared.
func (e *EventLogger) LogProducerReleased(producerID, reason string) {
	e.logger.Warn().
		Str("producer_id", producerID).
		Str("reason", reason).
		Msg("active producer released")
}

// LogRaceFinalized logs a reset event archiving a race.
func (e *EventLogger) LogRaceFinalized(ctx context.Context, raceID string, participants int) {
	l := e.withContext(ctx)
	l.Info().
		Str("race_id", raceID).
		Int("participants", participants).
		Msg("race finalized")
}

// LogSubscriptionStarted logs the transport subscription coming up.
func (e *EventLogger) LogSubscriptionStarted(subject string) {
	e.logger.Info().Str("subject", subject).Msg("subscription started")
}

// LogSubscriptionStopped logs the transport subscription going down.
func (e *EventLogger) LogSubscriptionStopped(subject string) {
	e.logger.Info().Str("subject", subject).Msg("subscription stopped")
}
