// Package ws fans the per-tick state feed out to spectator websocket
// connections. Spectators are read-mostly: they receive every tick and may
// only ask for a resync or a heartbeat echo.
package ws

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"bot-brawl/server/internal/telemetry"
)

const defaultWriteTimeout = 5 * time.Second

// HubConfig carries the hub's infrastructure dependencies. Zero values are
// usable: logging is discarded and counters go to a private set.
type HubConfig struct {
	Logger       telemetry.Logger
	Metrics      telemetry.Metrics
	WriteTimeout time.Duration
}

// Hub tracks live spectator sessions and broadcasts encoded payloads to all
// of them. A session whose write fails is dropped on the spot.
type Hub struct {
	logger       telemetry.Logger
	metrics      telemetry.Metrics
	writeTimeout time.Duration

	mu       sync.Mutex
	sessions map[string]*session
}

// NewHub returns an empty hub.
func NewHub(cfg HubConfig) *Hub {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.LoggerFunc(nil)
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = telemetry.NewCounters()
	}
	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = defaultWriteTimeout
	}
	return &Hub{
		logger:       logger,
		metrics:      metrics,
		writeTimeout: timeout,
		sessions:     make(map[string]*session),
	}
}

// add registers a connection under a fresh session id.
func (h *Hub) add(conn *websocket.Conn) *session {
	s := &session{
		id:           uuid.NewString(),
		conn:         conn,
		writeTimeout: h.writeTimeout,
	}
	h.mu.Lock()
	h.sessions[s.id] = s
	h.mu.Unlock()
	h.metrics.Add("ws_sessions_opened", 1)
	return s
}

// remove forgets a session. Safe to call twice.
func (h *Hub) remove(id string) {
	h.mu.Lock()
	_, present := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()
	if present {
		h.metrics.Add("ws_sessions_closed", 1)
	}
}

// Count reports the number of live sessions.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// Broadcast writes data to every live session, dropping sessions whose write
// fails. The session map is copied first so slow writers never hold the lock.
func (h *Hub) Broadcast(data []byte) {
	h.mu.Lock()
	targets := make([]*session, 0, len(h.sessions))
	for _, s := range h.sessions {
		targets = append(targets, s)
	}
	h.mu.Unlock()

	for _, s := range targets {
		if err := s.write(data); err != nil {
			h.logger.Printf("spectator %s dropped: %v", s.id, err)
			h.remove(s.id)
			s.close(websocket.CloseGoingAway, "write failed")
			continue
		}
		h.metrics.Add("ws_broadcast_bytes", uint64(len(data)))
	}
}

// CloseAll disconnects every session; used on shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	targets := make([]*session, 0, len(h.sessions))
	for _, s := range h.sessions {
		targets = append(targets, s)
	}
	h.sessions = make(map[string]*session)
	h.mu.Unlock()

	for _, s := range targets {
		s.close(websocket.CloseGoingAway, "server shutting down")
	}
}
