// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package course

import "sync"

// EstorilOfficialLength is the published lap length of the Estoril circuit in
// meters. The polyline below is coarse, so the measured Length differs.
const EstorilOfficialLength = 4183.0

var estorilWaypoints = []Point{
	{38.75051, -9.39420},
	{38.75231, -9.39515},
	{38.75294, -9.39291},
	{38.75083, -9.39133},
	{38.74834, -9.39223},
	{38.74751, -9.39542},
	{38.74780, -9.39702},
	{38.74902, -9.39805},
	{38.75084, -9.39920},
	{38.75195, -9.40050},
	{38.74983, -9.40050},
	{38.74872, -9.39755},
	{38.74992, -9.39520},
	{38.75021, -9.39462},
	{38.75051, -9.39420},
}

var (
	estorilOnce   sync.Once
	estorilCourse *Course
)

// Estoril returns the built-in Autodromo do Estoril circuit.
func Estoril() *Course {
	estorilOnce.Do(func() {
		c, err := New("estoril", estorilWaypoints)
		if err != nil {
			panic(err)
		}
		estorilCourse = c
	})
	return estorilCourse
}
