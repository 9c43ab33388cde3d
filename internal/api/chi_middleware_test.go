// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestChiMiddlewareConfigFrom(t *testing.T) {
	t.Parallel()

	def := ChiMiddlewareConfigFrom(nil)
	if def.RateLimitRequests != 600 || def.RateLimitWindow != time.Minute || def.CORSAllowedOrigins[0] != "*" {
		t.Errorf("defaults = %+v", def)
	}

	cfg := ChiMiddlewareConfigFrom(&Config{
		CORSOrigins:       []string{"https://board.example"},
		RateLimitRequests: 5,
		RateLimitWindow:   time.Second,
		RateLimitDisabled: true,
	})
	if cfg.RateLimitRequests != 5 || cfg.RateLimitWindow != time.Second || !cfg.RateLimitDisabled {
		t.Errorf("config = %+v", cfg)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "https://board.example" {
		t.Errorf("origins = %v", cfg.CORSAllowedOrigins)
	}
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	m := NewChiMiddleware(&ChiMiddlewareConfig{RateLimitRequests: 2, RateLimitWindow: time.Minute})
	handler := m.RateLimit()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/races", nil)
		req.RemoteAddr = "192.0.2.10:5000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v", codes)
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	t.Parallel()

	m := NewChiMiddleware(&ChiMiddlewareConfig{RateLimitRequests: 1, RateLimitWindow: time.Minute, RateLimitDisabled: true})
	handler := m.RateLimit()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/races", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d = %d", i, rec.Code)
		}
	}
}

func TestCORS_Preflight(t *testing.T) {
	t.Parallel()

	s := newTestStack(t, &Config{CORSOrigins: []string{"https://board.example"}, RateLimitDisabled: true})

	req := httptest.NewRequest(http.MethodOptions, "/races", nil)
	req.Header.Set("Origin", "https://board.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	s.server.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://board.example" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestAPISecurityHeaders_HSTS(t *testing.T) {
	t.Parallel()

	handler := APISecurityHeaders()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/races", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Header().Get("Strict-Transport-Security") == "" {
		t.Error("expected HSTS behind TLS proxy")
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/races", nil))
	if rec.Header().Get("Strict-Transport-Security") != "" {
		t.Error("unexpected HSTS over plain HTTP")
	}
}
