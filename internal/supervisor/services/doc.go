// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

/*
Package services provides suture.Service wrappers for components whose
lifecycle does not already match suture's Serve(ctx) pattern.

The websocket hub, the race event consumer, the expiry sweeper and the
simulator implement suture.Service themselves and are added to the tree
directly. The HTTP server needs a wrapper:

HTTP Server (HTTPServerService):
  - Binds the listener before serving so bind errors restart the service
  - Shuts down gracefully with a configurable timeout on cancellation
  - Reports the bound address, which tests use with port 0

Example:

	server := &http.Server{Handler: router.SetupChi(), ReadHeaderTimeout: 10 * time.Second}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.ListenAddr(), 10*time.Second))
*/
package services
