// Package net assembles the server's HTTP surface: health, state, telemetry,
// the published bot definition schema, and the spectator websocket endpoint.
package net

import (
	"encoding/json"
	nethttp "net/http"
	"net/http/pprof"
	"time"

	"bot-brawl/server/internal/match"
	"bot-brawl/server/internal/net/proto"
	"bot-brawl/server/internal/telemetry"
)

// StateProvider is the slice of the match engine the HTTP layer needs.
type StateProvider interface {
	State() match.GameState
	MatchID() string
}

// HTTPHandlerConfig carries the handler's dependencies. Counters and Schema
// are optional; their endpoints degrade gracefully when absent.
type HTTPHandlerConfig struct {
	Logger      telemetry.Logger
	Counters    *telemetry.Counters
	Schema      []byte
	Spectators  func() int
	ClientDir   string
	EnablePprof bool
}

// NewHTTPHandler builds the mux. wsHandler serves /ws; pass nil to disable
// the spectator feed (diagnostics-only deployments).
func NewHTTPHandler(engine StateProvider, wsHandler nethttp.Handler, cfg HTTPHandlerConfig) nethttp.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.LoggerFunc(nil)
	}

	mux := nethttp.NewServeMux()

	mux.HandleFunc("/healthz", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/state", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodGet {
			nethttp.Error(w, "method not allowed", nethttp.StatusMethodNotAllowed)
			return
		}
		data, err := proto.EncodeState(proto.StateMessageV1{
			ServerTime: time.Now().UnixMilli(),
			Resync:     true,
			State:      engine.State(),
		})
		if err != nil {
			logger.Printf("failed to encode state: %v", err)
			nethttp.Error(w, "failed to encode", nethttp.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	mux.HandleFunc("/telemetry", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		spectators := 0
		if cfg.Spectators != nil {
			spectators = cfg.Spectators()
		}
		payload := struct {
			Status     string            `json:"status"`
			ServerTime int64             `json:"serverTime"`
			MatchID    string            `json:"matchId"`
			Spectators int               `json:"spectators"`
			Counters   map[string]uint64 `json:"counters"`
		}{
			Status:     "ok",
			ServerTime: time.Now().UnixMilli(),
			MatchID:    engine.MatchID(),
			Spectators: spectators,
			Counters:   cfg.Counters.Snapshot(),
		}
		data, err := json.Marshal(payload)
		if err != nil {
			nethttp.Error(w, "failed to encode", nethttp.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	mux.HandleFunc("/schema", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if len(cfg.Schema) == 0 {
			nethttp.Error(w, "schema not published", nethttp.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(cfg.Schema)
	})

	if wsHandler != nil {
		mux.Handle("/ws", wsHandler)
	}

	if cfg.EnablePprof {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}

	if cfg.ClientDir != "" {
		mux.Handle("/", nethttp.FileServer(nethttp.Dir(cfg.ClientDir)))
	}

	return mux
}
