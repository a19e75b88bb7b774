package stream

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hoanghai1803/llmchecker/internal/checker"
	"github.com/hoanghai1803/llmchecker/internal/models"
)

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/stream" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dialing %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) models.LogEvent {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev models.LogEvent
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("reading event: %v", err)
	}
	return ev
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func newTestServer(t *testing.T) (*checker.LogSink, *Hub, *httptest.Server) {
	t.Helper()
	sink := checker.NewLogSink()
	hub := NewHub(sink)

	mux := http.NewServeMux()
	mux.HandleFunc("/stream", hub.ServeWS)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return sink, hub, srv
}

func TestHub_BacklogThenLive(t *testing.T) {
	sink, hub, srv := newTestServer(t)
	sink.Append(models.LevelInfo, models.ModuleSystem, "booted")
	sink.Append(models.LevelInfo, models.ModuleDB, "connected")

	conn := dial(t, srv, "")

	if ev := readEvent(t, conn); ev.Message != "booted" {
		t.Errorf("first event = %q, want %q", ev.Message, "booted")
	}
	if ev := readEvent(t, conn); ev.Message != "connected" {
		t.Errorf("second event = %q, want %q", ev.Message, "connected")
	}

	waitFor(t, func() bool { return hub.Clients() == 1 })
	sink.Append(models.LevelWarn, models.ModuleChecker, "No new models found or API rate limited.")

	ev := readEvent(t, conn)
	if ev.Level != models.LevelWarn || ev.Module != models.ModuleChecker {
		t.Errorf("live event = %+v", ev)
	}
}

func TestHub_SinceSkipsBacklog(t *testing.T) {
	sink, _, srv := newTestServer(t)
	sink.Append(models.LevelInfo, models.ModuleSystem, "one")
	sink.Append(models.LevelInfo, models.ModuleSystem, "two")
	sink.Append(models.LevelInfo, models.ModuleSystem, "three")

	conn := dial(t, srv, "?since=2")

	if ev := readEvent(t, conn); ev.Message != "three" {
		t.Errorf("first event = %q, want %q", ev.Message, "three")
	}
}

func TestHub_ClientDisconnect(t *testing.T) {
	_, hub, srv := newTestServer(t)

	conn := dial(t, srv, "")
	waitFor(t, func() bool { return hub.Clients() == 1 })

	conn.Close()
	waitFor(t, func() bool { return hub.Clients() == 0 })
}

func TestHub_Close(t *testing.T) {
	_, hub, srv := newTestServer(t)

	conn := dial(t, srv, "")
	waitFor(t, func() bool { return hub.Clients() == 1 })

	hub.Close()
	waitFor(t, func() bool { return hub.Clients() == 0 })

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected the connection to be closed")
	}
}

func TestHub_RejectsPlainHTTP(t *testing.T) {
	_, _, srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/stream")
	if err != nil {
		t.Fatalf("GET error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("got status %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}
