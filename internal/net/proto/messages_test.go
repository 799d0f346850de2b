package proto

import (
	"encoding/json"
	"testing"

	"bot-brawl/server/internal/match"
)

func TestDecodeClientMessage(t *testing.T) {
	t.Run("missing version defaults to current", func(t *testing.T) {
		msg, err := DecodeClientMessage([]byte(`{"type":"stateRequest"}`))
		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if msg.Ver != Version {
			t.Fatalf("expected version %d, got %d", Version, msg.Ver)
		}
		if msg.Type != TypeStateRequest {
			t.Fatalf("unexpected type %q", msg.Type)
		}
	})

	t.Run("future version rejected", func(t *testing.T) {
		if _, err := DecodeClientMessage([]byte(`{"ver":99,"type":"stateRequest"}`)); err == nil {
			t.Fatalf("expected version error")
		}
	})

	t.Run("malformed payload rejected", func(t *testing.T) {
		if _, err := DecodeClientMessage([]byte(`{`)); err == nil {
			t.Fatalf("expected parse error")
		}
	})
}

func TestEncodeStateStampsEnvelope(t *testing.T) {
	data, err := EncodeState(StateMessageV1{
		ServerTime: 42,
		State:      match.GameState{Status: match.StatusFighting, Tick: 7},
	})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if payload["ver"].(float64) != Version {
		t.Fatalf("expected ver %d, got %v", Version, payload["ver"])
	}
	if payload["type"] != TypeState {
		t.Fatalf("expected type %q, got %v", TypeState, payload["type"])
	}
	if _, ok := payload["state"]; !ok {
		t.Fatalf("expected embedded state, payload=%s", data)
	}
}

func TestEncodeMatchOverKeepsNilWinner(t *testing.T) {
	data, err := EncodeMatchOver(MatchOverV1{MatchID: "m-1", Tick: 100})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if payload["type"] != TypeMatchOver {
		t.Fatalf("expected type %q, got %v", TypeMatchOver, payload["type"])
	}
	// A draw serializes winner explicitly as null rather than omitting it.
	winner, ok := payload["winner"]
	if !ok {
		t.Fatalf("expected winner key present, payload=%s", data)
	}
	if winner != nil {
		t.Fatalf("expected null winner, got %v", winner)
	}
}
