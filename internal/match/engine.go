// Package match owns the 1v1 match lifecycle: it composes a physics world and
// two behavior sandboxes into a fixed-rate tick loop, resolves attacks and win
// conditions, and publishes immutable snapshots to observers once per tick.
package match

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"bot-brawl/server/internal/behavior"
	"bot-brawl/server/internal/botdef"
	"bot-brawl/server/internal/geom"
	"bot-brawl/server/internal/journal"
	"bot-brawl/server/internal/phys"
	"bot-brawl/server/internal/telemetry"
)

const journalCapacity = 1024

// botState is the engine-owned mutable state for one bot.
type botState struct {
	id          string
	def         botdef.Definition
	program     *behavior.Program
	compileErr  error
	pos         geom.Vec2
	angle       float64
	vel         geom.Vec2
	health      float64
	maxHealth   float64
	cooldown    float64
	attacking   bool
	attackFrame int
	handle      phys.Handle
	acts        actions
}

// Deps carries shared infrastructure dependencies for the engine.
type Deps struct {
	Logger  telemetry.Logger
	Metrics telemetry.Metrics
	// RNG seeds behavior randomness; supply a fixed-seed source to reproduce a
	// match. Nil selects a time-seeded source.
	RNG *rand.Rand
}

// Engine runs one match between exactly two bots. One goroutine drives the
// tick loop; all exported methods are safe to call from others.
type Engine struct {
	mu      sync.Mutex
	cfg     Config
	world   phys.World
	bots    [2]*botState
	matchID string

	status    Status
	winner    string
	hasWinner bool
	tick      uint64
	timeLeft  float64
	countdown int

	damage    []DamageEvent
	observers []func(GameState)
	log       *journal.Journal
	rng       *rand.Rand
	logger    telemetry.Logger
	metrics   telemetry.Metrics

	stopCh   chan struct{}
	stopOnce sync.Once
	loopWG   sync.WaitGroup
}

// NewEngine assembles a match from a physics world and two validated bot
// definitions. The engine takes ownership of the world and destroys it when
// the caller discards the match via Close. A definition whose behavior fails
// to compile still fields a bot; it just never acts.
func NewEngine(cfg Config, world phys.World, defs [2]botdef.Definition, deps Deps) (*Engine, error) {
	if world == nil {
		return nil, fmt.Errorf("match: nil physics world")
	}
	cfg = cfg.withDefaults()

	logger := deps.Logger
	if logger == nil {
		logger = telemetry.LoggerFunc(nil)
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = telemetry.NewCounters()
	}
	rng := deps.RNG
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	e := &Engine{
		cfg:      cfg,
		world:    world,
		matchID:  uuid.NewString(),
		status:   StatusWaiting,
		timeLeft: cfg.Duration.Seconds(),
		log:      journal.New(journalCapacity),
		rng:      rng,
		logger:   logger,
		metrics:  metrics,
		stopCh:   make(chan struct{}),
	}

	e.buildWalls()

	spawns := [2]geom.Vec2{
		{X: cfg.ArenaWidth * 0.25, Y: cfg.ArenaHeight * 0.5},
		{X: cfg.ArenaWidth * 0.75, Y: cfg.ArenaHeight * 0.5},
	}
	facings := [2]float64{0, math.Pi}
	for i, def := range defs {
		bot, err := e.spawnBot(i, def, spawns[i], facings[i])
		if err != nil {
			return nil, err
		}
		e.bots[i] = bot
	}

	world.OnCollisionStart(func(phys.Collision) {
		e.metrics.Add("match_collisions", 1)
	})

	return e, nil
}

func (e *Engine) buildWalls() {
	w, h, t := e.cfg.ArenaWidth, e.cfg.ArenaHeight, e.cfg.WallThickness
	e.world.CreateStaticRect(w/2, -t/2, w+2*t, t)
	e.world.CreateStaticRect(w/2, h+t/2, w+2*t, t)
	e.world.CreateStaticRect(-t/2, h/2, t, h+2*t)
	e.world.CreateStaticRect(w+t/2, h/2, t, h+2*t)
}

func (e *Engine) spawnBot(index int, def botdef.Definition, spawn geom.Vec2, facing float64) (*botState, error) {
	maxHealth := def.MaxHealth
	if maxHealth <= 0 {
		maxHealth = e.cfg.DefaultMaxHealth
	}

	program, err := behavior.Compile(def.BehaviorSource)
	if err != nil {
		// Non-fatal: the bot fields a no-op behavior and simply never acts.
		e.metrics.Add("behavior_compile_errors", 1)
		e.logger.Printf("bot %d (%s) behavior rejected: %v", index+1, def.Name, err)
	}

	handle := e.world.CreateBody(phys.BodyConfig{
		Shape:       phys.ShapeKind(def.Shape),
		Position:    spawn,
		Size:        def.Size,
		Density:     e.cfg.BodyDensity,
		Friction:    e.cfg.BodyFriction,
		AirFriction: e.cfg.BodyAirFriction,
		Restitution: e.cfg.BodyRestitution,
	})
	e.world.SetAngle(handle, facing)

	return &botState{
		id:         fmt.Sprintf("bot-%d", index+1),
		def:        def,
		program:    program,
		compileErr: err,
		pos:        spawn,
		angle:      facing,
		health:     maxHealth,
		maxHealth:  maxHealth,
		handle:     handle,
	}, nil
}

// Start begins the countdown; the match enters fighting once it elapses.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status != StatusWaiting {
		return
	}
	if e.cfg.CountdownTicks == 0 {
		e.status = StatusFighting
		return
	}
	e.status = StatusCountdown
	e.countdown = e.cfg.CountdownTicks
}

// StartImmediate skips the countdown and enters fighting directly; used by
// tests and deterministic harnesses.
func (e *Engine) StartImmediate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status == StatusWaiting || e.status == StatusCountdown {
		e.status = StatusFighting
		e.countdown = 0
	}
}

// Stop halts the tick loop without altering match status. It is a cleanup
// control, not a game event.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.stopCh) })
}

// Close stops the loop, waits for it to exit, and destroys the physics world.
// The engine must not be used afterwards. Waiting matters: Stop and an
// already-fired ticker can race, and the loop's final tick must not touch a
// destroyed world.
func (e *Engine) Close() {
	e.Stop()
	e.loopWG.Wait()
	e.mu.Lock()
	defer e.mu.Unlock()
	e.world.Destroy()
}

// OnUpdate registers an observer invoked with a fresh snapshot exactly once
// per tick. Register before starting the loop.
func (e *Engine) OnUpdate(fn func(GameState)) {
	if fn == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, fn)
}

// State returns an independent snapshot of the current match state.
func (e *Engine) State() GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Journal exposes the per-tick record window for diagnostics consumers.
func (e *Engine) Journal() *journal.Journal { return e.log }

// MatchID returns the unique id minted for this match.
func (e *Engine) MatchID() string { return e.matchID }

// Run drives the fixed-rate loop until Stop is called or the match finishes.
// The loop never lets ticks overlap: a tick runs to completion before the
// next timer fire is serviced.
func (e *Engine) Run() {
	e.loopWG.Add(1)
	defer e.loopWG.Done()

	interval := time.Second / time.Duration(e.cfg.TickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-e.stopCh:
			return
		case <-ticker.C:
			if done := e.Advance(); done {
				return
			}
		}
	}
}

// Advance executes exactly one tick and reports whether the match has
// finished. Exposed so tests and harnesses can step deterministically without
// a timer.
func (e *Engine) Advance() bool {
	e.mu.Lock()
	snapshot, notify, done := e.advanceLocked()
	observers := e.observers
	e.mu.Unlock()

	if notify {
		for _, fn := range observers {
			fn(snapshot)
		}
	}
	return done
}

// publishLocked appends the tick to the journal and hands back the snapshot
// for observer fan-out after the lock is released.
func (e *Engine) publishLocked() GameState {
	snapshot := e.snapshotLocked()

	record := journal.Record{Tick: e.tick}
	if encoded, err := json.Marshal(snapshot); err == nil {
		record.Checksum = journal.Checksum(encoded)
	}
	for _, ev := range e.damage {
		record.Damage = append(record.Damage, journal.DamageRecord{
			Attacker: ev.Attacker,
			Target:   ev.Target,
			Amount:   ev.Amount,
			X:        ev.Position.X,
			Y:        ev.Position.Y,
			Tick:     ev.Tick,
		})
	}
	e.log.Append(record)
	if signal, ok := e.log.ConsumeResync(); ok {
		e.metrics.Add("journal_resyncs", 1)
		e.logger.Printf("journal window pressure: %s", signal.Summary())
	}
	return snapshot
}
