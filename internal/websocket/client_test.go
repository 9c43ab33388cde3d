// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/racetrack/internal/models"
	"github.com/tomtom215/racetrack/internal/tracker"
)

// serveHub starts an HTTP server that upgrades every request and registers
// the connection with hub.
func serveHub(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		client := NewClient(hub, conn)
		hub.Register <- client
		client.Start()
	}))
	t.Cleanup(server.Close)
	return server
}

// dialWebSocket establishes a WebSocket connection to the test server
func dialWebSocket(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("Failed to dial websocket: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// readMessage reads one JSON message into a generic map.
func readMessage(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("SetReadDeadline: %v", err)
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	var msg map[string]interface{}
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("invalid JSON %s: %v", data, err)
	}
	return msg
}

func TestNewClient_UniqueIncreasingIDs(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	a := NewClient(hub, nil)
	b := NewClient(hub, nil)
	if b.ID() <= a.ID() {
		t.Errorf("ids not increasing: %d then %d", a.ID(), b.ID())
	}
	if cap(a.send) == 0 {
		t.Error("send channel should be buffered")
	}
}

func TestClient_Constants(t *testing.T) {
	t.Parallel()

	if pingPeriod >= pongWait {
		t.Errorf("pingPeriod %v must be shorter than pongWait %v", pingPeriod, pongWait)
	}
}

func TestClient_ReceivesNotifications(t *testing.T) {
	t.Parallel()

	hub := startHub(t)
	server := serveHub(t, hub)
	conn := dialWebSocket(t, server)
	waitForClients(t, hub, 1)

	hub.ProducerChanged(tracker.ProducerChange{Reason: "acquired", Producer: "sim-a", At: time.Unix(1, 0).UTC()})
	hub.RaceFinalized(models.ResultSnapshot{RaceID: models.RaceIDFromInt(7), FinishedAt: 1000})

	first := readMessage(t, conn)
	if first["type"] != MessageTypeProducerChanged {
		t.Fatalf("first type = %v", first["type"])
	}
	data, _ := first["data"].(map[string]interface{})
	if data["producer"] != "sim-a" || data["reason"] != "acquired" {
		t.Errorf("producer_changed data = %v", data)
	}

	second := readMessage(t, conn)
	if second["type"] != MessageTypeRaceFinalized {
		t.Fatalf("second type = %v", second["type"])
	}
	snap, _ := second["data"].(map[string]interface{})
	if snap["raceId"] != float64(7) {
		t.Errorf("raceId = %v, want 7", snap["raceId"])
	}
}

func TestClient_PingPong(t *testing.T) {
	t.Parallel()

	hub := startHub(t)
	server := serveHub(t, hub)
	conn := dialWebSocket(t, server)

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	if msg := readMessage(t, conn); msg["type"] != MessageTypePong {
		t.Errorf("type = %v, want pong", msg["type"])
	}
}

func TestClient_IgnoresGarbage(t *testing.T) {
	t.Parallel()

	hub := startHub(t)
	server := serveHub(t, hub)
	conn := dialWebSocket(t, server)
	waitForClients(t, hub, 1)

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`not json`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	if msg := readMessage(t, conn); msg["type"] != MessageTypePong {
		t.Errorf("type = %v, want pong", msg["type"])
	}
	if hub.GetClientCount() != 1 {
		t.Errorf("client should stay connected, count = %d", hub.GetClientCount())
	}
}

func TestClient_DisconnectUnregisters(t *testing.T) {
	t.Parallel()

	hub := startHub(t)
	server := serveHub(t, hub)
	conn := dialWebSocket(t, server)
	waitForClients(t, hub, 1)

	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = conn.Close()

	waitForClients(t, hub, 0)
}
