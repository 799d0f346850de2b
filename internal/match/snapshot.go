package match

import (
	"bot-brawl/server/internal/botdef"
	"bot-brawl/server/internal/geom"
)

// DamageEvent records one resolved hit. Events live for exactly one tick and
// exist for external feedback (rendering, journaling), not for game rules.
type DamageEvent struct {
	Attacker string    `json:"attacker"`
	Target   string    `json:"target"`
	Amount   float64   `json:"amount"`
	Position geom.Vec2 `json:"position"`
	Tick     uint64    `json:"tick"`
}

// Bot is the externally visible view of one bot.
type Bot struct {
	ID          string            `json:"id"`
	Definition  botdef.Definition `json:"definition"`
	Position    geom.Vec2         `json:"position"`
	Angle       float64           `json:"angle"`
	Velocity    geom.Vec2         `json:"velocity"`
	Health      float64           `json:"health"`
	MaxHealth   float64           `json:"maxHealth"`
	Cooldown    float64           `json:"cooldown"`
	Attacking   bool              `json:"attacking"`
	AttackFrame int               `json:"attackFrame"`
}

// GameState is the published snapshot: an independent copy the consumer may
// hold or mutate without touching engine state.
type GameState struct {
	MatchID       string        `json:"matchId"`
	Status        Status        `json:"status"`
	Winner        *string       `json:"winner"`
	Tick          uint64        `json:"tick"`
	TimeRemaining float64       `json:"timeRemaining"`
	Bots          [2]Bot        `json:"bots"`
	DamageEvents  []DamageEvent `json:"damageEvents"`
	ArenaWidth    float64       `json:"arenaWidth"`
	ArenaHeight   float64       `json:"arenaHeight"`
	TickRate      int           `json:"tickRate"`
}

// snapshotLocked builds a GameState while the engine mutex is held.
func (e *Engine) snapshotLocked() GameState {
	state := GameState{
		MatchID:       e.matchID,
		Status:        e.status,
		Tick:          e.tick,
		TimeRemaining: e.timeLeft,
		ArenaWidth:    e.cfg.ArenaWidth,
		ArenaHeight:   e.cfg.ArenaHeight,
		TickRate:      e.cfg.TickRate,
		DamageEvents:  make([]DamageEvent, len(e.damage)),
	}
	copy(state.DamageEvents, e.damage)
	if e.hasWinner {
		winner := e.winner
		state.Winner = &winner
	}
	for i, b := range e.bots {
		state.Bots[i] = Bot{
			ID:          b.id,
			Definition:  b.def,
			Position:    b.pos,
			Angle:       b.angle,
			Velocity:    b.vel,
			Health:      b.health,
			MaxHealth:   b.maxHealth,
			Cooldown:    b.cooldown,
			Attacking:   b.attacking,
			AttackFrame: b.attackFrame,
		}
	}
	return state
}
