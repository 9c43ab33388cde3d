// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package api

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/racetrack/internal/ingest"
	"github.com/tomtom215/racetrack/internal/models"
	"github.com/tomtom215/racetrack/internal/tracker"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.UnixMilli(1_700_000_000_000)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// testStack is a tracker, pipeline and router sharing one fake clock.
type testStack struct {
	clock    *fakeClock
	tracker  *tracker.Tracker
	pipeline *ingest.Pipeline
	handler  *Handler
	server   http.Handler
}

func newTestStack(t *testing.T, cfg *Config) *testStack {
	t.Helper()

	clock := newFakeClock()
	trk, err := tracker.New(tracker.Config{
		RaceTTL:        30 * time.Second,
		ResultsTTL:     10 * time.Minute,
		ResultsMax:     50,
		FailoverWindow: 10 * time.Second,
	}, tracker.WithClock(clock.Now))
	if err != nil {
		t.Fatalf("tracker.New: %v", err)
	}

	pipeline := ingest.NewPipeline(trk, ingest.Config{}, ingest.WithClock(clock.Now))
	if cfg == nil {
		cfg = &Config{RateLimitDisabled: true}
	}
	handler := NewHandler(trk, pipeline, nil, cfg)
	handler.SetClock(clock.Now)

	return &testStack{
		clock:    clock,
		tracker:  trk,
		pipeline: pipeline,
		handler:  handler,
		server:   NewRouter(handler).SetupChi(),
	}
}

// feed pushes a raw event through the pipeline and fails the test on reject.
func (s *testStack) feed(t *testing.T, raw string) {
	t.Helper()
	if out, err := s.pipeline.OnEvent(t.Context(), []byte(raw)); out != ingest.Ack {
		t.Fatalf("OnEvent(%s) = %v, %v", raw, out, err)
	}
}

func (s *testStack) get(t *testing.T, path string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.server.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return v
}

// stubReader drives handlers without a tracker.
type stubReader struct {
	races      []models.RaceView
	raceErr    error
	results    []models.ResultSnapshot
	panicOnRes bool
	stats      models.TrackerStats
}

func (s *stubReader) Races() []models.RaceView { return s.races }

func (s *stubReader) Race(models.RaceID) (models.RaceView, error) {
	return models.RaceView{}, s.raceErr
}

func (s *stubReader) Leaderboard(models.RaceID) (models.Leaderboard, error) {
	return models.Leaderboard{}, s.raceErr
}

func (s *stubReader) LastResults() []models.ResultSnapshot {
	if s.panicOnRes {
		panic("archive corrupted")
	}
	return s.results
}

func (s *stubReader) Stats() models.TrackerStats { return s.stats }

type stubIngest struct{}

func (stubIngest) Connected() bool                 { return true }
func (stubIngest) EventsLastMinute() int64         { return 42 }
func (stubIngest) ProducerRates() map[string]int64 { return map[string]int64{"sim-a": 40, "sim-b": 2} }
