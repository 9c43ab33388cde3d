// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package tracker

import (
	"sort"
	"time"

	"github.com/tomtom215/racetrack/internal/models"
)

type raceEntry struct {
	id           models.RaceID
	participants map[string]*models.Participant
	lastSeen     time.Time
}

// viewStore is the materialized view: race id -> participant id -> state.
// It holds no lock of its own; Tracker guards it.
type viewStore struct {
	races        map[models.RaceID]*raceEntry
	participants int
}

func newViewStore() *viewStore {
	return &viewStore{races: make(map[models.RaceID]*raceEntry)}
}

// upsert writes p, replacing any previous record for the same participant.
// Receipt order decides: the last write wins.
func (v *viewStore) upsert(p *models.Participant, now time.Time) {
	race, ok := v.races[p.RaceID]
	if !ok {
		race = &raceEntry{id: p.RaceID, participants: make(map[string]*models.Participant)}
		v.races[p.RaceID] = race
	}
	if _, exists := race.participants[p.ID]; !exists {
		v.participants++
	}
	race.participants[p.ID] = p
	race.lastSeen = now
}

func (v *viewStore) race(id models.RaceID) (*raceEntry, bool) {
	r, ok := v.races[id]
	return r, ok
}

// wipe drops every race and returns how many were dropped.
func (v *viewStore) wipe() int {
	n := len(v.races)
	v.races = make(map[models.RaceID]*raceEntry)
	v.participants = 0
	return n
}

// expire removes races silent for longer than raceTTL and participants
// silent for longer than participantTTL.
func (v *viewStore) expire(now time.Time, raceTTL, participantTTL time.Duration) (races []models.RaceID, participants int) {
	for id, race := range v.races {
		if now.Sub(race.lastSeen) > raceTTL {
			v.participants -= len(race.participants)
			delete(v.races, id)
			races = append(races, id)
			continue
		}
		for pid, p := range race.participants {
			if now.Sub(p.LastSeen) > participantTTL {
				delete(race.participants, pid)
				v.participants--
				participants++
			}
		}
	}
	sort.Slice(races, func(i, j int) bool { return races[i].Less(races[j]) })
	return races, participants
}

func (v *viewStore) counts() (races, participants int) {
	return len(v.races), v.participants
}

// visibleParticipants copies the participants of r seen within ttl,
// ordered by position then id.
func (r *raceEntry) visibleParticipants(now time.Time, ttl time.Duration) []models.Participant {
	out := make([]models.Participant, 0, len(r.participants))
	for _, p := range r.participants {
		if now.Sub(p.LastSeen) <= ttl {
			out = append(out, *p)
		}
	}
	sortByPosition(out)
	return out
}

func sortByPosition(ps []models.Participant) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].Position != ps[j].Position {
			return ps[i].Position < ps[j].Position
		}
		return ps[i].ID < ps[j].ID
	})
}
