// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tomtom215/racetrack/internal/logging"
	"github.com/tomtom215/racetrack/internal/models"
	"github.com/tomtom215/racetrack/internal/tracker"
)

// Races lists every race that has not expired.
//
// @Summary List current races
// @Description Returns every race seen within the race TTL with its live participants, sorted by race id (integer ids first).
// @Tags Races
// @Produce json
// @Security APIToken
// @Success 200 {array} models.RaceView
// @Failure 401 {object} ErrorResponse
// @Router /races [get]
func (h *Handler) Races(w http.ResponseWriter, r *http.Request) {
	races := h.races.Races()
	if races == nil {
		races = []models.RaceView{}
	}
	respondJSON(w, http.StatusOK, races)
}

// Race returns one race.
//
// @Summary Get a race
// @Description Returns one race with its live participants.
// @Tags Races
// @Produce json
// @Security APIToken
// @Param raceId path string true "Race id (integer or string)"
// @Success 200 {object} models.RaceView
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Race not found"
// @Router /races/{raceId} [get]
func (h *Handler) Race(w http.ResponseWriter, r *http.Request) {
	id, ok := raceIDParam(r)
	if !ok {
		respondError(w, http.StatusNotFound, msgRaceNotFound)
		return
	}

	race, err := h.races.Race(id)
	if err != nil {
		h.respondLookupError(w, r, id, err)
		return
	}
	respondJSON(w, http.StatusOK, race)
}

// Leaderboard returns the ranked leaderboard of one race.
//
// @Summary Get a race leaderboard
// @Description Participants ordered by producer-assigned position, with formatted distance, speed and progress.
// @Tags Races
// @Produce json
// @Security APIToken
// @Param raceId path string true "Race id (integer or string)"
// @Success 200 {object} models.Leaderboard
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Race not found"
// @Router /races/{raceId}/leaderboard [get]
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	id, ok := raceIDParam(r)
	if !ok {
		respondError(w, http.StatusNotFound, msgRaceNotFound)
		return
	}

	board, err := h.races.Leaderboard(id)
	if err != nil {
		h.respondLookupError(w, r, id, err)
		return
	}
	respondJSON(w, http.StatusOK, board)
}

func (h *Handler) respondLookupError(w http.ResponseWriter, r *http.Request, id models.RaceID, err error) {
	if errors.Is(err, tracker.ErrRaceNotFound) {
		respondError(w, http.StatusNotFound, msgRaceNotFound)
		return
	}
	logging.Ctx(r.Context()).Error().Err(err).Str("race_id", sanitizeLogValue(id.String())).Msg("race lookup failed")
	respondError(w, http.StatusInternalServerError, "Internal server error")
}

// LastResults returns archived race snapshots. It never fails: an internal
// fault degrades to an empty list.
//
// @Summary List recent race results
// @Description Finalized race snapshots within the results TTL, newest first.
// @Tags Races
// @Produce json
// @Security APIToken
// @Success 200 {array} models.ResultSnapshot
// @Failure 401 {object} ErrorResponse
// @Router /last-results [get]
func (h *Handler) LastResults(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.safeLastResults(r))
}

func (h *Handler) safeLastResults(r *http.Request) (results []models.ResultSnapshot) {
	defer func() {
		if rec := recover(); rec != nil {
			logging.Ctx(r.Context()).Error().
				Str("panic", fmt.Sprint(rec)).
				Msg("last-results query failed, returning empty list")
			results = []models.ResultSnapshot{}
		}
	}()

	results = h.races.LastResults()
	if results == nil {
		results = []models.ResultSnapshot{}
	}
	return results
}
