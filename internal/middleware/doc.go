// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

/*
Package middleware provides HTTP middleware for the query API.

Key Components:

  - RequestID: X-Request-ID propagation plus request and correlation ids in
    the logging context
  - PrometheusMetrics: request count, latency and in-flight gauge, labeled
    by chi route pattern
  - SharedSecret: optional API token check returning 401 {"error":"Unauthorized"}

All middleware uses the func(http.HandlerFunc) http.HandlerFunc shape; the
api package adapts it to chi's r.Use:

	r.Use(chiMiddleware(middleware.RequestID))
	r.Group(func(r chi.Router) {
	    r.Use(chiMiddleware(middleware.SharedSecret(cfg.APIToken)))
	    r.Get("/races", h.Races)
	})

The shared secret may be presented as "X-API-Token: <token>" or
"Authorization: Bearer <token>".
*/
package middleware
