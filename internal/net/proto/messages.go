// Package proto defines the versioned JSON envelopes exchanged with spectator
// clients. Encoding always stamps the current protocol version; decoding
// rejects versions this server does not speak.
package proto

import (
	"encoding/json"
	"fmt"

	"bot-brawl/server/internal/match"
)

// Version tracks the wire-protocol revision expected by clients.
const Version = 1

// Outbound message type identifiers.
const (
	TypeState     = "state"
	TypeMatchOver = "matchOver"
	TypeHeartbeat = "heartbeat"
)

// Inbound message type identifiers.
const (
	TypeStateRequest = "stateRequest"
	TypeHeartbeatReq = "heartbeat"
)

// ClientMessage captures an inbound websocket message from a spectator.
type ClientMessage struct {
	Ver    int    `json:"ver,omitempty"`
	Type   string `json:"type"`
	SentAt int64  `json:"sentAt,omitempty"`
}

// DecodeClientMessage converts raw websocket payloads into a structured
// message. A missing version is treated as current.
func DecodeClientMessage(payload []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return msg, err
	}
	if msg.Ver == 0 {
		msg.Ver = Version
	}
	if msg.Ver != Version {
		return msg, fmt.Errorf("unsupported client protocol version %d", msg.Ver)
	}
	return msg, nil
}

// StateMessageV1 is the version 1 per-tick state payload.
type StateMessageV1 struct {
	Ver        int             `json:"ver"`
	Type       string          `json:"type"`
	ServerTime int64           `json:"serverTime"`
	Resync     bool            `json:"resync,omitempty"`
	State      match.GameState `json:"state"`
}

// EncodeState renders a state payload, stamping version and type.
func EncodeState(msg StateMessageV1) ([]byte, error) {
	msg.Ver = Version
	msg.Type = TypeState
	return json.Marshal(msg)
}

// MatchOverV1 announces the final outcome. Winner is nil for a draw. The
// closing snapshot rides along so late renderers can settle without another
// round trip.
type MatchOverV1 struct {
	Ver     int             `json:"ver"`
	Type    string          `json:"type"`
	MatchID string          `json:"matchId"`
	Winner  *string         `json:"winner"`
	Tick    uint64          `json:"t"`
	Final   match.GameState `json:"final"`
}

// EncodeMatchOver renders a match-over notice.
func EncodeMatchOver(msg MatchOverV1) ([]byte, error) {
	msg.Ver = Version
	msg.Type = TypeMatchOver
	return json.Marshal(msg)
}

// Heartbeat echoes timing metadata back to the client.
type Heartbeat struct {
	ServerTime int64
	ClientTime int64
}

// EncodeHeartbeat renders a heartbeat acknowledgement payload.
func EncodeHeartbeat(msg Heartbeat) ([]byte, error) {
	frame := struct {
		Ver        int    `json:"ver"`
		Type       string `json:"type"`
		ServerTime int64  `json:"serverTime"`
		ClientTime int64  `json:"clientTime"`
	}{
		Ver:        Version,
		Type:       TypeHeartbeat,
		ServerTime: msg.ServerTime,
		ClientTime: msg.ClientTime,
	}
	return json.Marshal(frame)
}
