// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package api

import (
	"net/http"

	"github.com/tomtom215/racetrack/internal/models"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"` // ms since epoch
}

// StatusResponse is the body of GET /status.
type StatusResponse struct {
	models.TrackerStats
	ProducerRates    map[string]int64 `json:"producerRates"`
	WebSocketClients int              `json:"websocketClients"`
	UptimeSeconds    float64          `json:"uptimeSeconds"`
}

// Health handles liveness checks.
//
// @Summary Liveness check
// @Description Always returns 200 while the process is serving HTTP.
// @Tags Core
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: h.now().UnixMilli(),
	})
}

// Status reports arbitration, view store and ingest status.
//
// @Summary Ingestion status
// @Description Active producer state, failover count, tracked races and participants, archived results, ingest rate over the last minute and transport connectivity.
// @Tags Core
// @Produce json
// @Security APIToken
// @Success 200 {object} StatusResponse
// @Failure 401 {object} ErrorResponse
// @Router /status [get]
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		TrackerStats:  h.races.Stats(),
		ProducerRates: map[string]int64{},
		UptimeSeconds: h.now().Sub(h.startTime).Seconds(),
	}
	if h.ingest != nil {
		resp.EventsLastMinute = h.ingest.EventsLastMinute()
		resp.TransportConnected = h.ingest.Connected()
		if rates := h.ingest.ProducerRates(); rates != nil {
			resp.ProducerRates = rates
		}
	}
	if h.wsHub != nil {
		resp.WebSocketClients = h.wsHub.GetClientCount()
	}
	respondJSON(w, http.StatusOK, resp)
}
