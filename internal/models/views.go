// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package models

import (
	"time"

	"github.com/goccy/go-json"
)

// Participant is the materialized state of one participant in one race.
// LastSeen and ProducerID are tracker bookkeeping and are not serialized.
type Participant struct {
	ID            string            `json:"id"`
	RaceID        RaceID            `json:"raceId"`
	Name          string            `json:"name"`
	Position      int               `json:"position"`
	Speed         float64           `json:"speed"`
	Distance      float64           `json:"distance"`
	TotalDistance float64           `json:"totalDistance"`
	Lap           int               `json:"lap,omitempty"`
	TotalLaps     int               `json:"totalLaps,omitempty"`
	Status        ParticipantStatus `json:"status"`
	Profile       json.RawMessage   `json:"profile,omitempty"`
	Skill         json.RawMessage   `json:"skill,omitempty"`
	Lat           float64           `json:"lat"`
	Lon           float64           `json:"lon"`
	Timestamp     int64             `json:"timestamp"`

	LastSeen   time.Time `json:"-"`
	ProducerID string    `json:"-"`
}

// ParticipantFromEvent builds the participant record carried by an upsert event.
func ParticipantFromEvent(e *RaceEvent, receivedAt time.Time) Participant {
	return Participant{
		ID:            e.ID,
		RaceID:        e.RaceID,
		Name:          e.Name,
		Position:      e.Position,
		Speed:         e.Speed,
		Distance:      e.Distance,
		TotalDistance: e.TotalDistance,
		Lap:           e.Lap,
		TotalLaps:     e.TotalLaps,
		Status:        e.Status,
		Profile:       e.Profile,
		Skill:         e.Skill,
		Lat:           e.Lat,
		Lon:           e.Lon,
		Timestamp:     e.Timestamp,
		LastSeen:      receivedAt,
		ProducerID:    e.ProducerID,
	}
}

// RaceView is the read projection of one race.
type RaceView struct {
	ID                RaceID        `json:"id"`
	Participants      []Participant `json:"participants"`
	TotalParticipants int           `json:"totalParticipants"`
}

// LeaderboardEntry is one formatted leaderboard row. Distance, speed and
// progress are fixed-precision strings (2, 2 and 1 decimals).
type LeaderboardEntry struct {
	Position int               `json:"position"`
	Name     string            `json:"name"`
	Distance string            `json:"distance"`
	Speed    string            `json:"speed"`
	Status   ParticipantStatus `json:"status"`
	Progress string            `json:"progress"`
	Lap      int               `json:"lap,omitempty"`
	Profile  json.RawMessage   `json:"profile,omitempty"`
	Lat      float64           `json:"lat"`
	Lon      float64           `json:"lon"`
}

// Leaderboard is the response body of the live leaderboard endpoint.
type Leaderboard struct {
	RaceID      RaceID             `json:"raceId"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

// ResultSnapshot is the leaderboard of a race captured when its terminal
// event was observed. FinishedAt is serialized as milliseconds since epoch.
type ResultSnapshot struct {
	RaceID      RaceID             `json:"raceId"`
	FinishedAt  int64              `json:"finishedAt"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

// FinalizedAt returns FinishedAt as a time.Time.
func (s *ResultSnapshot) FinalizedAt() time.Time {
	return time.UnixMilli(s.FinishedAt)
}

// ProducerStatus reports the arbitration state for the status endpoint.
type ProducerStatus struct {
	State          string `json:"state"`
	ActiveProducer string `json:"activeProducer,omitempty"`
	LastSeen       int64  `json:"lastSeen,omitempty"`
	Failovers      uint64 `json:"failovers"`
}

// TrackerStats summarizes the tracker for the status endpoint.
type TrackerStats struct {
	Producer           ProducerStatus `json:"producer"`
	Races              int            `json:"races"`
	Participants       int            `json:"participants"`
	ArchivedResults    int            `json:"archivedResults"`
	EventsLastMinute   int64          `json:"eventsLastMinute"`
	TransportConnected bool           `json:"transportConnected"`
}
