// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Drop and rejection reasons used as label values.
const (
	ReasonUnauthorizedProducer = "unauthorized_producer"
	ReasonNonActiveProducer    = "non_active_producer"
	ReasonUnknownRace          = "unknown_race"
	ReasonDecode               = "decode"
	ReasonValidation           = "validation"
)

var (
	// Ingestion Metrics
	MessagesProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "racetrack_messages_processed_total",
			Help: "Total number of race events applied to the view store",
		},
	)

	MessagesRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "racetrack_messages_rejected_total",
			Help: "Total number of malformed race events",
		},
		[]string{"reason"},
	)

	MessagesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "racetrack_messages_dropped_total",
			Help: "Total number of well-formed race events acknowledged without effect",
		},
		[]string{"reason"},
	)

	MessageProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "racetrack_message_processing_duration_seconds",
			Help:    "Time spent handling one race event",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		},
	)

	// Arbitration Metrics
	ProducerFailovers = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "racetrack_producer_failovers_total",
			Help: "Total number of producer takeovers after the failover window",
		},
	)

	ProducerChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "racetrack_producer_changes_total",
			Help: "Total number of active producer transitions",
		},
		[]string{"reason"}, // acquired, failover, disconnect, silence
	)

	ProducerPresent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "racetrack_producer_present",
			Help: "1 when an active producer is set, 0 otherwise",
		},
	)

	// View Store Metrics
	RacesTracked = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "racetrack_races_tracked",
			Help: "Current number of races in the view store",
		},
	)

	ParticipantsTracked = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "racetrack_participants_tracked",
			Help: "Current number of participants in the view store",
		},
	)

	// Results Archive Metrics
	ResultsArchived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "racetrack_results_archived_total",
			Help: "Total number of finalized race snapshots archived",
		},
	)

	ResultsRetained = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "racetrack_results_retained",
			Help: "Current number of snapshots in the results archive",
		},
	)

	// Sweeper Metrics
	Expired = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "racetrack_expired_total",
			Help: "Total number of entries removed by TTL expiry",
		},
		[]string{"kind"}, // race, participant, result
	)

	SweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "racetrack_sweep_duration_seconds",
			Help:    "Duration of one expiry sweep",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
		},
	)

	// Transport Metrics
	TransportDisconnects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "racetrack_transport_disconnects_total",
			Help: "Total number of transport disconnects",
		},
	)

	TransportConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "racetrack_transport_connected",
			Help: "1 when the transport connection is up",
		},
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "racetrack_events_published_total",
			Help: "Total number of race events published by the simulator",
		},
		[]string{"result"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIUnauthorized = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "api_unauthorized_total",
			Help: "Total number of requests rejected by the shared-secret check",
		},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)
)

// RecordMessageProcessed records one applied event and its handling time.
func RecordMessageProcessed(duration time.Duration) {
	MessagesProcessed.Inc()
	MessageProcessingDuration.Observe(duration.Seconds())
}

// RecordMessageRejected records a malformed event.
func RecordMessageRejected(reason string) {
	MessagesRejected.WithLabelValues(reason).Inc()
}

// RecordMessageDropped records an event acknowledged without effect.
func RecordMessageDropped(reason string) {
	MessagesDropped.WithLabelValues(reason).Inc()
}

// RecordProducerChange records an arbitration transition. Failovers are
// additionally counted on their own counter.
func RecordProducerChange(reason string, present bool) {
	ProducerChanges.WithLabelValues(reason).Inc()
	if reason == "failover" {
		ProducerFailovers.Inc()
	}
	SetProducerPresent(present)
}

// SetProducerPresent sets the producer-present gauge.
func SetProducerPresent(present bool) {
	if present {
		ProducerPresent.Set(1)
		return
	}
	ProducerPresent.Set(0)
}

// RecordViewSize publishes the current view store size.
func RecordViewSize(races, participants int) {
	RacesTracked.Set(float64(races))
	ParticipantsTracked.Set(float64(participants))
}

// RecordResultArchived records a snapshot being filed.
func RecordResultArchived(retained int) {
	ResultsArchived.Inc()
	ResultsRetained.Set(float64(retained))
}

// RecordExpired records TTL removals of the given kind.
func RecordExpired(kind string, n int) {
	if n > 0 {
		Expired.WithLabelValues(kind).Add(float64(n))
	}
}

// RecordSweep records the duration of one sweep and the archive size after it.
func RecordSweep(duration time.Duration, retained int) {
	SweepDuration.Observe(duration.Seconds())
	ResultsRetained.Set(float64(retained))
}

// RecordTransportState records the transport connection going up or down.
func RecordTransportState(connected bool) {
	if connected {
		TransportConnected.Set(1)
		return
	}
	TransportConnected.Set(0)
	TransportDisconnects.Inc()
}

// RecordEventPublished records one simulator publish attempt.
func RecordEventPublished(success bool) {
	if success {
		EventsPublished.WithLabelValues("success").Inc()
		return
	}
	EventsPublished.WithLabelValues("error").Inc()
}

// RecordCircuitBreakerState records a breaker state (0=closed, 1=half-open, 2=open).
func RecordCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
