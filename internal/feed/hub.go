// Package feed streams live game progress to websocket subscribers, for
// dashboards that watch a running EcoQuest session.
package feed

import (
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/ecoquest/internal/advisor"
	"github.com/vovakirdan/ecoquest/internal/games/ecoquest"
)

const writeWait = 2 * time.Second

// Event types.
const (
	TypeHello     = "hello"
	TypeScore     = "score"
	TypeMilestone = "milestone"
	TypeAdvisory  = "advisory"
)

// Event is one feed message.
type Event struct {
	Type       string `json:"type"`
	SessionID  string `json:"sessionId,omitempty"`
	Subscriber string `json:"subscriber,omitempty"`
	Score      int    `json:"score"`
	Level      int    `json:"level,omitempty"`
	Collected  int    `json:"collected,omitempty"`
	Total      int    `json:"total,omitempty"`
	Complete   bool   `json:"complete,omitempty"`
	Threshold  int    `json:"threshold,omitempty"`
	Action     string `json:"action,omitempty"`
	Message    string `json:"message,omitempty"`
	Character  string `json:"character,omitempty"`
	Fallback   bool   `json:"fallback,omitempty"`
	HidesAt    int64  `json:"hidesAt,omitempty"` // Unix ms when the advisory leaves the screen
	Timestamp  int64  `json:"timestamp"`
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	//nolint:errcheck // A failed deadline surfaces on the write
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub fans game events out to websocket subscribers. New subscribers get
// a hello message followed by the latest score of every session.
// Hub implements ecoquest.Observer.
type Hub struct {
	mu          sync.Mutex
	subscribers map[string]*subscriber
	last        map[string]Event // Latest score event per session
	closed      bool

	upgrader websocket.Upgrader
	logger   *log.Logger
	now      func() time.Time
}

var _ ecoquest.Observer = (*Hub)(nil)

// NewHub creates an empty hub.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		subscribers: make(map[string]*subscriber),
		last:        make(map[string]Event),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
		logger: logger,
		now:    time.Now,
	}
}

// ServeHTTP upgrades the request and keeps the subscriber until the
// connection fails or the client goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("feed upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	id := uuid.NewString()
	sub := &subscriber{conn: conn}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.subscribers[id] = sub
	replay := make([]Event, 0, len(h.last))
	for _, ev := range h.last {
		replay = append(replay, ev)
	}
	h.mu.Unlock()

	sort.Slice(replay, func(i, j int) bool { return replay[i].Timestamp < replay[j].Timestamp })
	h.logger.Info("feed subscriber connected", "id", id, "remote", r.RemoteAddr)

	hello := Event{Type: TypeHello, Subscriber: id, Timestamp: h.now().UnixMilli()}
	for _, ev := range append([]Event{hello}, replay...) {
		data, err := json.Marshal(ev)
		if err != nil {
			continue
		}
		if err := sub.write(data); err != nil {
			h.drop(id)
			return
		}
	}

	// Subscribers only listen; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.drop(id)
			return
		}
	}
}

// drop removes and closes a subscriber.
func (h *Hub) drop(id string) {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	delete(h.subscribers, id)
	h.mu.Unlock()

	if ok {
		sub.conn.Close()
		h.logger.Info("feed subscriber disconnected", "id", id)
	}
}

// Broadcast sends an event to every subscriber. Subscribers whose write
// fails are dropped.
func (h *Hub) Broadcast(ev Event) {
	if ev.Timestamp == 0 {
		ev.Timestamp = h.now().UnixMilli()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("cannot marshal feed event", "type", ev.Type, "error", err)
		return
	}

	h.mu.Lock()
	if ev.Type == TypeScore && ev.SessionID != "" {
		h.last[ev.SessionID] = ev
	}
	subs := make(map[string]*subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		subs[id] = sub
	}
	h.mu.Unlock()

	for id, sub := range subs {
		if err := sub.write(data); err != nil {
			h.logger.Warn("feed send failed", "id", id, "error", err)
			h.drop(id)
		}
	}
}

// Subscribers returns the number of connected subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Forget drops the remembered score of a finished session.
func (h *Hub) Forget(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.last, sessionID)
}

// Close disconnects every subscriber and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	subs := h.subscribers
	h.subscribers = make(map[string]*subscriber)
	h.mu.Unlock()

	for _, sub := range subs {
		sub.mu.Lock()
		//nolint:errcheck // Best-effort close frame
		sub.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		sub.mu.Unlock()
		sub.conn.Close()
	}
}

// ScoreChanged implements ecoquest.Observer.
func (h *Hub) ScoreChanged(u ecoquest.ScoreUpdate) {
	h.Broadcast(Event{
		Type:      TypeScore,
		SessionID: u.SessionID,
		Score:     u.Score,
		Level:     u.Level,
		Collected: u.Collected,
		Total:     u.Total,
		Complete:  u.Complete,
	})
}

// MilestoneReached implements ecoquest.Observer.
func (h *Hub) MilestoneReached(sessionID string, threshold, score int) {
	h.Broadcast(Event{
		Type:      TypeMilestone,
		SessionID: sessionID,
		Score:     score,
		Threshold: threshold,
	})
}

// AdvisoryPosted implements ecoquest.Observer.
func (h *Hub) AdvisoryPosted(sessionID string, p advisor.Posted) {
	ev := Event{
		Type:      TypeAdvisory,
		SessionID: sessionID,
		Action:    string(p.Action),
		Message:   p.Text,
		Character: p.Character,
		Fallback:  p.Fallback,
		Timestamp: p.Timestamp,
	}
	if p.VisibleFor > 0 {
		ev.HidesAt = p.HidesAt().UnixMilli()
	}
	h.Broadcast(ev)
}
