package ws

import (
	nethttp "net/http"
	"time"

	"github.com/gorilla/websocket"

	"bot-brawl/server/internal/match"
	"bot-brawl/server/internal/net/proto"
	"bot-brawl/server/internal/telemetry"
)

// StateFunc supplies the current match snapshot for late joiners and resync
// requests.
type StateFunc func() match.GameState

// HandlerConfig tunes the websocket endpoint.
type HandlerConfig struct {
	Logger telemetry.Logger
}

// Handler upgrades spectator connections, registers them with the hub, and
// services their (small) inbound vocabulary until the connection dies.
type Handler struct {
	hub      *Hub
	state    StateFunc
	logger   telemetry.Logger
	upgrader websocket.Upgrader
}

// NewHandler constructs the spectator websocket endpoint.
func NewHandler(hub *Hub, state StateFunc, cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.LoggerFunc(nil)
	}
	return &Handler{
		hub:    hub,
		state:  state,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *nethttp.Request) bool {
				return true
			},
		},
	}
}

// ServeHTTP implements the /ws endpoint.
func (h *Handler) ServeHTTP(w nethttp.ResponseWriter, r *nethttp.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("upgrade failed: %v", err)
		return
	}

	sub := h.hub.add(conn)

	// Late joiners get the current state immediately, flagged as a resync so
	// renderers snap instead of interpolating.
	if !h.sendState(sub, true) {
		return
	}

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			h.drop(sub)
			return
		}

		msg, err := proto.DecodeClientMessage(payload)
		if err != nil {
			h.logger.Printf("discarding malformed message from %s: %v", sub.id, err)
			continue
		}

		switch msg.Type {
		case proto.TypeStateRequest:
			if !h.sendState(sub, true) {
				return
			}
		case proto.TypeHeartbeatReq:
			data, err := proto.EncodeHeartbeat(proto.Heartbeat{
				ServerTime: time.Now().UnixMilli(),
				ClientTime: msg.SentAt,
			})
			if err != nil {
				h.logger.Printf("failed to marshal heartbeat ack for %s: %v", sub.id, err)
				continue
			}
			if err := sub.write(data); err != nil {
				h.drop(sub)
				return
			}
		default:
			h.logger.Printf("unknown message type %q from %s", msg.Type, sub.id)
		}
	}
}

func (h *Handler) sendState(sub *session, resync bool) bool {
	data, err := proto.EncodeState(proto.StateMessageV1{
		ServerTime: time.Now().UnixMilli(),
		Resync:     resync,
		State:      h.state(),
	})
	if err != nil {
		h.logger.Printf("failed to marshal state for %s: %v", sub.id, err)
		h.drop(sub)
		return false
	}
	if err := sub.write(data); err != nil {
		h.drop(sub)
		return false
	}
	return true
}

func (h *Handler) drop(sub *session) {
	h.hub.remove(sub.id)
	sub.conn.Close()
}
