package match

import (
	"math"

	"bot-brawl/server/internal/geom"
)

// advanceLocked runs one tick. Returns the snapshot to publish, whether to
// notify observers, and whether the match is over.
func (e *Engine) advanceLocked() (GameState, bool, bool) {
	switch e.status {
	case StatusCountdown:
		e.countdown--
		if e.countdown <= 0 {
			e.status = StatusFighting
		}
		// Countdown notifies observers but is not journaled; the record
		// window starts at the first fighting tick.
		return e.snapshotLocked(), true, false
	case StatusFighting:
		// Handled below.
	default:
		return GameState{}, false, e.status == StatusFinished
	}

	dt := e.cfg.tickInterval()

	// 1. New tick; last tick's damage events expire.
	e.tick++
	e.damage = e.damage[:0]
	e.metrics.Add("match_ticks", 1)

	// 2. Clock. Time expiry resolves by health comparison.
	e.timeLeft -= dt
	if e.timeLeft <= 0 {
		e.timeLeft = 0
		e.finishLocked()
		return e.publishLocked(), true, true
	}

	// 3. Decisions, in fixed bot order. Each bot gets a fresh API bound to
	// state as it stands this tick; faults mean "no action" and nothing else.
	for i, bot := range e.bots {
		bot.acts = actions{}
		api := &botAPI{
			self:    bot,
			enemy:   e.bots[1-i],
			arenaW:  e.cfg.ArenaWidth,
			arenaH:  e.cfg.ArenaHeight,
			rng:     e.rng,
			actions: &bot.acts,
		}
		if err := bot.program.Execute(api, e.tick, e.cfg.StepBudget); err != nil {
			bot.acts = actions{}
			e.metrics.Add("behavior_runtime_errors", 1)
			e.logger.Printf("tick %d: %s behavior fault: %v", e.tick, bot.id, err)
		}
	}

	// 4. Intents become physics effects. Only the engine mutates state.
	for i, bot := range e.bots {
		e.applyActionsLocked(bot, e.bots[1-i])
	}

	// 5. Physics step.
	e.world.Step(dt)

	// 6. Sync transforms back; decay cooldowns and attack animation.
	for _, bot := range e.bots {
		bot.pos = e.world.Position(bot.handle)
		bot.angle = e.world.Angle(bot.handle)
		bot.vel = e.world.Velocity(bot.handle)
		bot.cooldown = math.Max(0, bot.cooldown-dt)
		if bot.attacking {
			bot.attackFrame++
			if bot.attackFrame >= e.cfg.AttackAnimTicks {
				bot.attacking = false
				bot.attackFrame = 0
			}
		}
	}

	// 7. Knockout check.
	if e.bots[0].health <= 0 || e.bots[1].health <= 0 {
		e.finishLocked()
		return e.publishLocked(), true, true
	}

	// 8. Publish.
	return e.publishLocked(), true, false
}

// applyActionsLocked translates one bot's intent record into physics calls.
func (e *Engine) applyActionsLocked(bot, enemy *botState) {
	acts := &bot.acts

	if acts.rotateTo != nil {
		e.world.SetAngle(bot.handle, *acts.rotateTo)
	}

	if acts.stop {
		// Stop wins over any movement intent recorded the same tick.
		e.world.SetVelocity(bot.handle, geom.Vec2{})
	} else {
		velocity := e.world.Velocity(bot.handle)
		moved := false

		speed := bot.def.Speed
		if acts.speed > 0 {
			speed = acts.speed
		}
		speed = math.Min(speed, e.cfg.MaxSpeed)

		if acts.moveTarget != nil {
			dir := acts.moveTarget.Sub(bot.pos).Normalized()
			if acts.moveAway {
				dir = dir.Scale(-1)
			}
			velocity = dir.Scale(speed * e.cfg.SpeedScale)
			moved = true
		}
		if acts.strafeDir != 0 {
			bearing := enemy.pos.Sub(bot.pos).Normalized()
			side := bearing.Perp().Scale(acts.strafeDir * speed * e.cfg.SpeedScale * e.cfg.StrafeScale)
			if !moved {
				velocity = side
			} else {
				velocity = velocity.Add(side)
			}
			moved = true
		}
		if moved {
			e.world.SetVelocity(bot.handle, velocity)
		}
	}

	if acts.attack && bot.cooldown <= 0 {
		e.resolveAttackLocked(bot, enemy)
	}
}

// resolveAttackLocked applies one attack attempt. The cooldown and animation
// reset happen whether or not the swing lands: whiffs still spend the weapon.
func (e *Engine) resolveAttackLocked(attacker, target *botState) {
	weapon := attacker.def.Weapon
	attacker.cooldown = weapon.Cooldown
	attacker.attacking = true
	attacker.attackFrame = 0

	dist := attacker.pos.DistanceTo(target.pos)
	if dist > weapon.Range+e.cfg.RangeTolerance {
		e.metrics.Add("attacks_whiffed", 1)
		return
	}

	damage := math.Max(1, weapon.Damage*(1-target.def.Armor*0.05))
	target.health = math.Max(0, target.health-damage)

	dir := target.pos.Sub(attacker.pos).Normalized()
	if dir == (geom.Vec2{}) {
		dir = geom.Vec2{X: 1}
	}
	e.world.ApplyImpulse(target.handle, dir.Scale(weapon.Damage*e.cfg.KnockbackScale))

	e.damage = append(e.damage, DamageEvent{
		Attacker: attacker.id,
		Target:   target.id,
		Amount:   damage,
		Position: target.pos,
		Tick:     e.tick,
	})
	e.metrics.Add("attacks_landed", 1)
}

// finishLocked resolves the winner and moves the match to finished.
// Both down is a draw; one down means the other wins; time expiry compares
// health, with equal health a draw.
func (e *Engine) finishLocked() {
	e.status = StatusFinished

	a, b := e.bots[0], e.bots[1]
	switch {
	case a.health <= 0 && b.health <= 0:
		// Draw.
	case a.health <= 0:
		e.winner, e.hasWinner = b.id, true
	case b.health <= 0:
		e.winner, e.hasWinner = a.id, true
	case a.health > b.health:
		e.winner, e.hasWinner = a.id, true
	case b.health > a.health:
		e.winner, e.hasWinner = b.id, true
	}
}
