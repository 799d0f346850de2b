package behavior

import "bot-brawl/server/internal/geom"

// API is the sensing and intent-recording surface handed to sandboxed code.
// Sensing methods are read-only views of the current tick; intent methods must
// only mutate the per-tick action record owned by the invocation, never engine
// state. Implementations live in the match engine.
//
// Script-visible mapping:
//
//	api.getPosition() / getAngle() / getHealth() / getVelocity()
//	api.getEnemyPosition() / getEnemyHealth() / getDistanceToEnemy()
//	api.getArenaWidth() / getArenaHeight()
//	api.moveToward(p [, speed]) / api.moveAway(p [, speed])
//	api.rotateTo(angle) / api.attack() / api.strafe(dir) / api.stop()
//	api.angleTo(p) / api.distanceTo(p) / api.random(min, max)
//
// angleTo and distanceTo are computed by the interpreter itself; they never
// touch the implementation.
type API interface {
	OwnPosition() geom.Vec2
	OwnAngle() float64
	OwnHealth() float64
	OwnVelocity() geom.Vec2
	EnemyPosition() geom.Vec2
	EnemyHealth() float64
	DistanceToEnemy() float64
	ArenaWidth() float64
	ArenaHeight() float64

	// MoveToward and MoveAway record a movement intent. speed <= 0 means "use
	// the bot's configured speed".
	MoveToward(target geom.Vec2, speed float64)
	MoveAway(target geom.Vec2, speed float64)
	RotateTo(angle float64)
	Attack()
	// Strafe records sideways movement relative to the bearing toward the
	// enemy: -1 is left, +1 is right.
	Strafe(direction float64)
	Stop()

	// Random draws from the match RNG so replays with the same seed reproduce.
	Random(min, max float64) float64
}
