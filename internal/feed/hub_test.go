package feed

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/ecoquest/internal/advisor"
	"github.com/vovakirdan/ecoquest/internal/games/ecoquest"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to open websocket connection: %v", err)
	}
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()

	//nolint:errcheck // Deadline errors surface on read
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read event: %v", err)
	}
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		t.Fatalf("malformed event %s: %v", payload, err)
	}
	return ev
}

func newTestHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(log.New(io.Discard))
	srv := httptest.NewServer(hub)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, srv
}

func TestHubHelloAndBroadcast(t *testing.T) {
	hub, srv := newTestHub(t)
	conn := dial(t, srv)

	hello := read(t, conn)
	if hello.Type != TypeHello || hello.Subscriber == "" {
		t.Fatalf("first event = %+v, want hello with subscriber id", hello)
	}
	if hub.Subscribers() != 1 {
		t.Fatalf("subscribers = %d, want 1", hub.Subscribers())
	}

	hub.ScoreChanged(ecoquest.ScoreUpdate{SessionID: "s1", Score: 15, Level: 1, Collected: 1, Total: 12})
	ev := read(t, conn)
	if ev.Type != TypeScore || ev.Score != 15 || ev.Collected != 1 || ev.Total != 12 || ev.SessionID != "s1" {
		t.Errorf("score event = %+v", ev)
	}

	hub.MilestoneReached("s1", 50, 60)
	ev = read(t, conn)
	if ev.Type != TypeMilestone || ev.Threshold != 50 || ev.Score != 60 {
		t.Errorf("milestone event = %+v", ev)
	}

	hub.AdvisoryPosted("s1", advisor.Posted{
		Message:    advisor.FallbackMessage(time.UnixMilli(1000)),
		Action:     advisor.ActionScoreMilestone,
		Fallback:   true,
		ShownAt:    time.UnixMilli(1200),
		VisibleFor: 5 * time.Second,
	})
	ev = read(t, conn)
	if ev.Type != TypeAdvisory || !ev.Fallback || ev.Message != advisor.FallbackText || ev.Timestamp != 1000 {
		t.Errorf("advisory event = %+v", ev)
	}
	if ev.HidesAt != 6200 {
		t.Errorf("advisory hidesAt = %d, want 6200", ev.HidesAt)
	}
}

func TestHubReplaysLatestScores(t *testing.T) {
	hub, srv := newTestHub(t)

	hub.ScoreChanged(ecoquest.ScoreUpdate{SessionID: "s1", Score: 15})
	hub.ScoreChanged(ecoquest.ScoreUpdate{SessionID: "s1", Score: 30})

	conn := dial(t, srv)
	read(t, conn) // hello

	ev := read(t, conn)
	if ev.Type != TypeScore || ev.Score != 30 {
		t.Errorf("replayed event = %+v, want latest score 30", ev)
	}

	hub.Forget("s1")
	second := dial(t, srv)
	read(t, second) // hello
	hub.MilestoneReached("s2", 50, 50)
	if ev := read(t, second); ev.Type != TypeMilestone {
		t.Errorf("forgotten session must not be replayed, got %+v", ev)
	}
}

func TestHubDropsClosedSubscribers(t *testing.T) {
	hub, srv := newTestHub(t)
	conn := dial(t, srv)
	read(t, conn)

	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Subscribers() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("closed subscriber was not dropped")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
