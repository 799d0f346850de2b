// Package app wires the server together: configuration, logging, bot
// definitions, the physics world, the match engine, and the HTTP/websocket
// surface, all run under one errgroup with context cancellation.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"bot-brawl/server/internal/botdef"
	"bot-brawl/server/internal/config"
	"bot-brawl/server/internal/match"
	servernet "bot-brawl/server/internal/net"
	"bot-brawl/server/internal/net/proto"
	"bot-brawl/server/internal/net/ws"
	"bot-brawl/server/internal/observability"
	"bot-brawl/server/internal/phys/rigidworld"
	"bot-brawl/server/internal/telemetry"
)

// Options selects the config file and allows env overrides for deployment.
type Options struct {
	ConfigPath string
}

// Run assembles the server and blocks until ctx is cancelled or a component
// fails.
func Run(ctx context.Context, opts Options) error {
	configPath := opts.ConfigPath
	if raw := os.Getenv("BRAWL_CONFIG"); raw != "" {
		configPath = raw
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if raw := os.Getenv("BRAWL_ADDR"); raw != "" {
		cfg.Addr = raw
	}

	logger, err := observability.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	defA, err := loadDefinition(cfg.Bots.APath, "bot-1")
	if err != nil {
		return err
	}
	defB, err := loadDefinition(cfg.Bots.BPath, "bot-2")
	if err != nil {
		return err
	}

	counters := telemetry.NewCounters()
	engine, err := match.NewEngine(cfg.MatchConfig(), rigidworld.New(), [2]botdef.Definition{defA, defB}, match.Deps{
		Logger:  logger,
		Metrics: counters,
	})
	if err != nil {
		return err
	}
	defer engine.Close()

	hub := ws.NewHub(ws.HubConfig{Logger: logger, Metrics: counters})
	engine.OnUpdate(func(state match.GameState) {
		data, err := proto.EncodeState(proto.StateMessageV1{
			ServerTime: time.Now().UnixMilli(),
			State:      state,
		})
		if err != nil {
			logger.Printf("failed to encode tick %d: %v", state.Tick, err)
			return
		}
		hub.Broadcast(data)

		if state.Status == match.StatusFinished {
			notice, err := proto.EncodeMatchOver(proto.MatchOverV1{
				MatchID: state.MatchID,
				Winner:  state.Winner,
				Tick:    state.Tick,
				Final:   state,
			})
			if err != nil {
				logger.Printf("failed to encode match-over notice: %v", err)
				return
			}
			hub.Broadcast(notice)
		}
	})

	schema, err := botdef.SchemaJSON()
	if err != nil {
		logger.Errorf("schema unavailable: %v", err)
		schema = nil
	}

	wsHandler := ws.NewHandler(hub, engine.State, ws.HandlerConfig{Logger: logger})
	handler := servernet.NewHTTPHandler(engine, wsHandler, servernet.HTTPHandlerConfig{
		Logger:      logger,
		Counters:    counters,
		Schema:      schema,
		Spectators:  hub.Count,
		EnablePprof: cfg.Log.EnablePprofTrace,
	})

	srv := &http.Server{Addr: cfg.Addr, Handler: handler}

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Printf("match %s: %s vs %s", engine.MatchID(), defA.Name, defB.Name)
		engine.Start()
		engine.Run()
		return nil
	})

	group.Go(func() error {
		logger.Printf("server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-ctx.Done()
		engine.Stop()
		hub.CloseAll()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return group.Wait()
}

func loadDefinition(path, fallbackName string) (botdef.Definition, error) {
	if path == "" {
		// No document configured: field an inert default so the server still
		// comes up for smoke testing.
		return botdef.Definition{
			Name:   fallbackName,
			Shape:  "circle",
			Size:   15,
			Speed:  3,
			Weapon: botdef.Weapon{Type: "sword", Damage: 10, Cooldown: 1, Range: 60},
		}, nil
	}
	return botdef.LoadFile(path)
}
