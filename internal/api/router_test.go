// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/racetrack/internal/models"
)

func TestScenario_Race7(t *testing.T) {
	t.Parallel()

	s := newTestStack(t, nil)

	s.feed(t, `{"id":"7-0","raceId":7,"producerId":"sim-a","name":"Ayrton","position":1,"speed":180,"distance":0,"totalDistance":1000,"status":"running","lat":38.75,"lon":-9.39,"timestamp":1}`)
	s.clock.Advance(time.Second)
	s.feed(t, `{"id":"7-0","raceId":7,"producerId":"sim-a","name":"Ayrton","position":1,"speed":181.5,"distance":500,"totalDistance":1000,"status":"running","lat":38.75,"lon":-9.39,"timestamp":2}`)

	rec := s.get(t, "/races/7/leaderboard")
	if rec.Code != http.StatusOK {
		t.Fatalf("leaderboard status = %d", rec.Code)
	}
	board := decode[models.Leaderboard](t, rec)
	if board.RaceID != "7" || len(board.Leaderboard) != 1 {
		t.Fatalf("leaderboard = %+v", board)
	}
	entry := board.Leaderboard[0]
	if entry.Progress != "50.0" || entry.Status != models.StatusRunning || entry.Distance != "500.00" || entry.Speed != "181.50" {
		t.Errorf("entry = %+v", entry)
	}
	if !strings.Contains(rec.Body.String(), `"raceId":7`) {
		t.Errorf("integer race id should marshal as a number: %s", rec.Body.String())
	}

	s.feed(t, `{"raceId":7,"producerId":"sim-a","eventType":"reset"}`)

	results := decode[[]models.ResultSnapshot](t, s.get(t, "/last-results"))
	if len(results) != 1 || results[0].RaceID != "7" || len(results[0].Leaderboard) != 1 {
		t.Fatalf("last-results = %+v", results)
	}
	// The snapshot is taken before the roster is marked finished.
	if results[0].Leaderboard[0].Progress != "50.0" {
		t.Errorf("archived entry = %+v", results[0].Leaderboard[0])
	}

	// The finished roster stays visible for one race TTL.
	race := decode[models.RaceView](t, s.get(t, "/races/7"))
	if len(race.Participants) != 1 || race.Participants[0].Status != models.StatusFinished {
		t.Errorf("race after reset = %+v", race)
	}

	s.clock.Advance(30*time.Second + time.Millisecond)

	rec = s.get(t, "/races/7")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("race after TTL status = %d", rec.Code)
	}
	if got := rec.Body.String(); got != `{"error":"Race not found"}` {
		t.Errorf("404 body = %s", got)
	}
	if got := decode[[]models.ResultSnapshot](t, s.get(t, "/last-results")); len(got) != 1 {
		t.Errorf("results before RESULTS_TTL = %d, want 1", len(got))
	}

	s.clock.Advance(10 * time.Minute)
	if got := s.get(t, "/last-results").Body.String(); got != "[]" {
		t.Errorf("results after RESULTS_TTL = %s, want []", got)
	}
}

func TestRouter_RaceIDCanonicalization(t *testing.T) {
	t.Parallel()

	s := newTestStack(t, nil)
	s.feed(t, `{"id":"a","raceId":"007","producerId":"p","name":"A","position":1,"speed":1,"distance":1,"totalDistance":10,"status":"running","lat":0,"lon":0,"timestamp":1}`)
	s.feed(t, `{"id":"b","raceId":"qualifier","producerId":"p","name":"B","position":1,"speed":1,"distance":1,"totalDistance":10,"status":"running","lat":0,"lon":0,"timestamp":1}`)

	for _, path := range []string{"/races/7", "/races/007", "/races/qualifier"} {
		if rec := s.get(t, path); rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d", path, rec.Code)
		}
	}

	races := decode[[]models.RaceView](t, s.get(t, "/races"))
	if len(races) != 2 || races[0].ID != "7" || races[1].ID != "qualifier" {
		t.Errorf("races = %+v", races)
	}
}

func TestRouter_EmptyCollections(t *testing.T) {
	t.Parallel()

	s := newTestStack(t, nil)
	for _, path := range []string{"/races", "/last-results"} {
		rec := s.get(t, path)
		if rec.Code != http.StatusOK || rec.Body.String() != "[]" {
			t.Errorf("GET %s = %d %s", path, rec.Code, rec.Body.String())
		}
	}
	if rec := s.get(t, "/races/1/leaderboard"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown leaderboard = %d", rec.Code)
	}
}

func TestRouter_SharedSecret(t *testing.T) {
	t.Parallel()

	s := newTestStack(t, &Config{APIToken: "s3cret", RateLimitDisabled: true})

	tests := []struct {
		name     string
		path     string
		headers  []string
		wantCode int
	}{
		{name: "health exempt", path: "/health", wantCode: http.StatusOK},
		{name: "metrics exempt", path: "/metrics", wantCode: http.StatusOK},
		{name: "races without token", path: "/races", wantCode: http.StatusUnauthorized},
		{name: "races wrong token", path: "/races", headers: []string{"X-API-Token", "wrong"}, wantCode: http.StatusUnauthorized},
		{name: "races header token", path: "/races", headers: []string{"X-API-Token", "s3cret"}, wantCode: http.StatusOK},
		{name: "races bearer token", path: "/races", headers: []string{"Authorization", "Bearer s3cret"}, wantCode: http.StatusOK},
		{name: "race without token", path: "/races/1", wantCode: http.StatusUnauthorized},
		{name: "last-results without token", path: "/last-results", wantCode: http.StatusUnauthorized},
		{name: "status without token", path: "/status", wantCode: http.StatusUnauthorized},
		{name: "ws without token", path: "/ws", wantCode: http.StatusUnauthorized},
		{name: "swagger without token", path: "/swagger/index.html", wantCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := s.get(t, tt.path, tt.headers...)
			if rec.Code != tt.wantCode {
				t.Fatalf("GET %s = %d, want %d", tt.path, rec.Code, tt.wantCode)
			}
			if tt.wantCode == http.StatusUnauthorized && rec.Body.String() != `{"error":"Unauthorized"}` {
				t.Errorf("body = %s", rec.Body.String())
			}
		})
	}
}

func TestRouter_Health(t *testing.T) {
	t.Parallel()

	s := newTestStack(t, nil)
	rec := s.get(t, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	health := decode[HealthResponse](t, rec)
	if health.Status != "healthy" || health.Timestamp != s.clock.Now().UnixMilli() {
		t.Errorf("health = %+v", health)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestRouter_Status(t *testing.T) {
	t.Parallel()

	s := newTestStack(t, nil)
	s.pipeline.OnConnect()
	s.feed(t, `{"id":"1-0","raceId":1,"producerId":"sim-a","name":"A","position":1,"speed":1,"distance":1,"totalDistance":10,"status":"running","lat":0,"lon":0,"timestamp":1}`)

	rec := s.get(t, "/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	status := decode[StatusResponse](t, rec)
	if status.Producer.State != "active" || status.Producer.ActiveProducer != "sim-a" {
		t.Errorf("producer = %+v", status.Producer)
	}
	if status.Races != 1 || status.Participants != 1 {
		t.Errorf("races/participants = %d/%d", status.Races, status.Participants)
	}
	if status.EventsLastMinute != 1 || !status.TransportConnected || status.ProducerRates["sim-a"] != 1 {
		t.Errorf("ingest fields = %+v", status)
	}
	for _, key := range []string{`"producer":`, `"eventsLastMinute":1`, `"transportConnected":true`} {
		if !strings.Contains(rec.Body.String(), key) {
			t.Errorf("body %s missing %s", rec.Body.String(), key)
		}
	}
}

func TestRouter_NotFoundAndMethod(t *testing.T) {
	t.Parallel()

	s := newTestStack(t, nil)
	if rec := s.get(t, "/nope"); rec.Code != http.StatusNotFound || rec.Body.String() != `{"error":"Not found"}` {
		t.Errorf("unknown path = %d %s", rec.Code, rec.Body.String())
	}

	req, _ := http.NewRequest(http.MethodPost, "/races", nil)
	rec := httptest.NewRecorder()
	s.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /races = %d", rec.Code)
	}
}
