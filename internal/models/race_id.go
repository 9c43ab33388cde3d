// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package models

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// ErrInvalidRaceID is returned when a race identifier is empty, non-integral
// numeric, or not a JSON string or number.
var ErrInvalidRaceID = errors.New("invalid race id")

// RaceID identifies a race. Producers may send it as a JSON integer or a
// string; both forms normalize to the same canonical text, so 7 and "7"
// address the same race.
type RaceID string

// ParseRaceID normalizes s into a RaceID. Integer text is canonicalized
// ("007" becomes "7").
func ParseRaceID(s string) (RaceID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrInvalidRaceID
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return RaceID(strconv.FormatInt(n, 10)), nil
	}
	return RaceID(s), nil
}

// RaceIDFromInt returns the RaceID for an integer identifier.
func RaceIDFromInt(n int64) RaceID {
	return RaceID(strconv.FormatInt(n, 10))
}

func (id RaceID) String() string { return string(id) }

// Int reports the integer value of id, if it has one.
func (id RaceID) Int() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	return n, err == nil
}

// Less orders integer ids numerically, ahead of non-integer ids, which
// order lexically.
func (id RaceID) Less(other RaceID) bool {
	a, aok := id.Int()
	b, bok := other.Int()
	switch {
	case aok && bok:
		return a < b
	case aok:
		return true
	case bok:
		return false
	default:
		return id < other
	}
}

// MarshalJSON writes integer ids as JSON numbers and everything else as strings.
func (id RaceID) MarshalJSON() ([]byte, error) {
	if n, ok := id.Int(); ok {
		return strconv.AppendInt(nil, n, 10), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts a JSON string or an integral JSON number.
func (id *RaceID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return ErrInvalidRaceID
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRaceID, err)
		}
		parsed, err := ParseRaceID(s)
		if err != nil {
			return err
		}
		*id = parsed
		return nil
	}

	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return fmt.Errorf("%w: %s", ErrInvalidRaceID, data)
	}
	*id = RaceIDFromInt(int64(f))
	return nil
}
