// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

// Package course models a closed race circuit as a polyline of geographic
// waypoints and maps a travelled distance to a point on that circuit.
//
// Segment lengths are great-circle (haversine) distances computed once at
// construction. A Course is immutable and safe for concurrent use.
package course

import (
	"errors"
	"fmt"
	"math"
)

// EarthRadiusMeters is the mean Earth radius used for haversine distances.
const EarthRadiusMeters = 6371e3

// ErrTooFewWaypoints is returned when a polyline has fewer than two distinct points.
var ErrTooFewWaypoints = errors.New("course needs at least two distinct waypoints")

// Point is a geographic coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Course is a closed polyline with precomputed segment lengths.
type Course struct {
	name      string
	waypoints []Point
	segments  []float64
	total     float64
}

// New builds a course from an ordered polyline. If the last waypoint does
// not equal the first, the polyline is closed by appending the first point.
func New(name string, waypoints []Point) (*Course, error) {
	if len(waypoints) < 2 {
		return nil, fmt.Errorf("%s: %w", name, ErrTooFewWaypoints)
	}

	pts := make([]Point, len(waypoints), len(waypoints)+1)
	copy(pts, waypoints)
	if pts[0] != pts[len(pts)-1] {
		pts = append(pts, pts[0])
	}

	segments := make([]float64, len(pts)-1)
	var total float64
	for i := 0; i < len(pts)-1; i++ {
		segments[i] = Haversine(pts[i], pts[i+1])
		total += segments[i]
	}
	if total <= 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrTooFewWaypoints)
	}

	return &Course{name: name, waypoints: pts, segments: segments, total: total}, nil
}

// Name returns the course name.
func (c *Course) Name() string { return c.name }

// Length returns the measured lap length in meters.
func (c *Course) Length() float64 { return c.total }

// Start returns the first waypoint.
func (c *Course) Start() Point { return c.waypoints[0] }

// Finish returns the last waypoint.
func (c *Course) Finish() Point { return c.waypoints[len(c.waypoints)-1] }

// Waypoints returns a copy of the closed polyline.
func (c *Course) Waypoints() []Point {
	out := make([]Point, len(c.waypoints))
	copy(out, c.waypoints)
	return out
}

// PositionAt returns the point reached after travelling distance meters
// from the start. Distances wrap modulo the lap length, negative distances
// wrap backwards.
func (c *Course) PositionAt(distance float64) Point {
	d := math.Mod(distance, c.total)
	if d < 0 {
		d += c.total
	}

	for i, seg := range c.segments {
		if d <= seg {
			if seg == 0 {
				return c.waypoints[i]
			}
			return lerp(c.waypoints[i], c.waypoints[i+1], d/seg)
		}
		d -= seg
	}

	// floating point leftovers past the last segment
	return c.Finish()
}

func lerp(a, b Point, ratio float64) Point {
	return Point{
		Lat: a.Lat + (b.Lat-a.Lat)*ratio,
		Lon: a.Lon + (b.Lon-a.Lon)*ratio,
	}
}

// Haversine returns the great-circle distance between a and b in meters.
func Haversine(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	return EarthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
