// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package eventprocessor

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/racetrack/internal/metrics"
)

func TestNewCircuitBreaker(t *testing.T) {
	t.Parallel()

	cb := NewCircuitBreaker(DefaultCircuitBreakerConfig("cb-new"))
	if cb.Name() != "cb-new" {
		t.Errorf("Name() = %s", cb.Name())
	}
	if CircuitBreakerState(cb) != "closed" {
		t.Errorf("initial state = %s, want closed", CircuitBreakerState(cb))
	}
}

func TestCircuitBreaker_TripsAndRecordsState(t *testing.T) {
	t.Parallel()

	cfg := DefaultCircuitBreakerConfig("cb-trip")
	cfg.FailureThreshold = 2
	cfg.Timeout = time.Hour
	cb := NewCircuitBreaker(cfg)

	failing := errors.New("broker down")
	for i := 0; i < 2; i++ {
		_, _ = cb.Execute(func() (interface{}, error) { return nil, failing })
	}

	if cb.State() != gobreaker.StateOpen {
		t.Fatalf("state = %v, want open", cb.State())
	}
	if _, err := cb.Execute(func() (interface{}, error) { return nil, nil }); !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("open breaker error = %v", err)
	}
	if got := testutil.ToFloat64(metrics.CircuitBreakerState.WithLabelValues("cb-trip")); got != 2 {
		t.Errorf("gauge = %v, want 2", got)
	}
}

func TestBreakerStateValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state gobreaker.State
		want  int
	}{
		{gobreaker.StateClosed, 0},
		{gobreaker.StateHalfOpen, 1},
		{gobreaker.StateOpen, 2},
	}
	for _, tt := range tests {
		if got := breakerStateValue(tt.state); got != tt.want {
			t.Errorf("breakerStateValue(%v) = %d, want %d", tt.state, got, tt.want)
		}
	}
}
