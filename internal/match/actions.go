package match

import (
	"math"
	"math/rand"

	"bot-brawl/server/internal/behavior"
	"bot-brawl/server/internal/geom"
)

// actions is one bot's per-tick intent record. It is rebuilt from scratch for
// every decision call and never persists across ticks.
type actions struct {
	moveTarget *geom.Vec2
	moveAway   bool
	speed      float64
	rotateTo   *float64
	strafeDir  float64
	attack     bool
	stop       bool
}

// botAPI is the behavior.API implementation bound to one bot for one tick.
// Sensing reads copies of current state; intents land in the actions record.
// Nothing here reaches the physics world or the opponent's decision.
type botAPI struct {
	self    *botState
	enemy   *botState
	arenaW  float64
	arenaH  float64
	rng     *rand.Rand
	actions *actions
}

var _ behavior.API = (*botAPI)(nil)

func (a *botAPI) OwnPosition() geom.Vec2   { return a.self.pos }
func (a *botAPI) OwnAngle() float64        { return a.self.angle }
func (a *botAPI) OwnHealth() float64       { return a.self.health }
func (a *botAPI) OwnVelocity() geom.Vec2   { return a.self.vel }
func (a *botAPI) EnemyPosition() geom.Vec2 { return a.enemy.pos }
func (a *botAPI) EnemyHealth() float64     { return a.enemy.health }
func (a *botAPI) DistanceToEnemy() float64 { return a.self.pos.DistanceTo(a.enemy.pos) }
func (a *botAPI) ArenaWidth() float64      { return a.arenaW }
func (a *botAPI) ArenaHeight() float64     { return a.arenaH }

func (a *botAPI) MoveToward(target geom.Vec2, speed float64) {
	a.actions.moveTarget = &target
	a.actions.moveAway = false
	a.actions.speed = speed
}

func (a *botAPI) MoveAway(target geom.Vec2, speed float64) {
	a.actions.moveTarget = &target
	a.actions.moveAway = true
	a.actions.speed = speed
}

// RotateTo drops non-finite angles: behavior arithmetic can overflow to Inf or
// NaN, and a NaN angle would poison every later snapshot encode.
func (a *botAPI) RotateTo(angle float64) {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return
	}
	normalized := geom.NormalizeAngle(angle)
	a.actions.rotateTo = &normalized
}

func (a *botAPI) Attack() { a.actions.attack = true }

func (a *botAPI) Strafe(direction float64) {
	if direction < 0 {
		a.actions.strafeDir = -1
	} else {
		a.actions.strafeDir = 1
	}
}

func (a *botAPI) Stop() { a.actions.stop = true }

func (a *botAPI) Random(min, max float64) float64 {
	if max < min {
		min, max = max, min
	}
	return min + a.rng.Float64()*(max-min)
}
