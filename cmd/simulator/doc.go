// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

/*
Package main is the entry point for the Racetrack race simulator.

The simulator runs NUM_RACES concurrent races of NUM_PARTICIPANTS riders on
the Estoril circuit and publishes one event per rider every PUBLISH_INTERVAL
milliseconds to the race events subject. When every rider in a race has
finished it publishes a reset event and starts a fresh race with
the same id after RESTART_DELAY.

Two simulators with different PRODUCER_ID values can run side by side
to exercise producer failover in the tracker server: the tracker follows
one of them and switches when it goes silent.

	export NATS_URL=nats://nats:4222
	export PRODUCER_ID=sim-a
	./simulator
*/
package main
