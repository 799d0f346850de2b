package match

import (
	"encoding/json"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bot-brawl/server/internal/behavior"
	"bot-brawl/server/internal/botdef"
	"bot-brawl/server/internal/phys/rigidworld"
	"bot-brawl/server/internal/telemetry"
)

func testDef(name, source string) botdef.Definition {
	return botdef.Definition{
		Name:   name,
		Shape:  "circle",
		Size:   15,
		Speed:  3,
		// Range covers the 100-unit duelConfig spawn separation.
		Weapon: botdef.Weapon{Type: "sword", Damage: 10, Cooldown: 1, Range: 120},

		BehaviorSource: source,
	}
}

func testEngine(t *testing.T, cfg Config, sourceA, sourceB string) *Engine {
	t.Helper()
	return testEngineDefs(t, cfg, testDef("A", sourceA), testDef("B", sourceB))
}

func testEngineDefs(t *testing.T, cfg Config, defA, defB botdef.Definition) *Engine {
	t.Helper()
	eng, err := NewEngine(cfg, rigidworld.New(), [2]botdef.Definition{defA, defB}, Deps{
		RNG: rand.New(rand.NewSource(1)),
	})
	require.NoError(t, err)
	t.Cleanup(eng.Close)
	return eng
}

// duelConfig spawns the bots 100 units apart on the same horizontal line:
// bot-1 at (50, 50) facing +x, bot-2 at (150, 50).
func duelConfig() Config {
	cfg := DefaultConfig()
	cfg.ArenaWidth = 200
	cfg.ArenaHeight = 100
	return cfg
}

func TestTickCountIncreasesByOne(t *testing.T) {
	eng := testEngine(t, DefaultConfig(), "", "")
	eng.StartImmediate()

	for want := uint64(1); want <= 5; want++ {
		eng.Advance()
		require.Equal(t, want, eng.State().Tick)
	}
}

func TestCountdownEntersFighting(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CountdownTicks = 3
	eng := testEngine(t, cfg, "", "")

	require.Equal(t, StatusWaiting, eng.State().Status)
	eng.Start()
	require.Equal(t, StatusCountdown, eng.State().Status)

	eng.Advance()
	eng.Advance()
	require.Equal(t, StatusCountdown, eng.State().Status)
	assert.Zero(t, eng.State().Tick, "tick counter must not advance during countdown")
	eng.Advance()
	require.Equal(t, StatusFighting, eng.State().Status)
}

func TestHealthStaysInRange(t *testing.T) {
	defB := testDef("B", "")
	defB.Weapon.Damage = 500 // overkill must floor at zero
	eng := testEngineDefs(t, duelConfig(), testDef("A", ""), defB)
	// Manually resolve an overkill hit.
	eng.mu.Lock()
	eng.resolveAttackLocked(eng.bots[1], eng.bots[0])
	eng.mu.Unlock()

	state := eng.State()
	assert.Equal(t, 0.0, state.Bots[0].Health)
	assert.Equal(t, 100.0, state.Bots[1].Health)
}

func TestDamageFormula(t *testing.T) {
	cases := []struct {
		armor float64
		want  float64
	}{
		{0, 10},
		{10, 5},
		{20, 1}, // floor at 1
	}
	for _, tc := range cases {
		defA := testDef("A", "api.attack()")
		defB := testDef("B", "")
		defB.Armor = tc.armor
		eng := testEngineDefs(t, duelConfig(), defA, defB)
		eng.StartImmediate()
		eng.Advance()

		state := eng.State()
		require.Len(t, state.DamageEvents, 1, "armor=%v", tc.armor)
		assert.InDelta(t, tc.want, state.DamageEvents[0].Amount, 1e-9, "armor=%v", tc.armor)
		assert.InDelta(t, 100-tc.want, state.Bots[1].Health, 1e-9, "armor=%v", tc.armor)
	}
}

func TestAttackConsumesCooldown(t *testing.T) {
	eng := testEngine(t, duelConfig(), "api.attack()", "")
	eng.StartImmediate()
	dt := eng.cfg.tickInterval()

	eng.Advance()
	state := eng.State()
	require.Len(t, state.DamageEvents, 1)
	// The cooldown was set to the configured value during resolution, then
	// decayed by one tick interval in the same tick.
	assert.InDelta(t, 1.0-dt, state.Bots[0].Cooldown, 1e-9)
	assert.True(t, state.Bots[0].Attacking)

	// Cooldown gates the next swing even though the behavior keeps asking.
	eng.Advance()
	assert.Empty(t, eng.State().DamageEvents)
}

func TestWhiffConsumesCooldown(t *testing.T) {
	defA := testDef("A", "api.attack()")
	defA.Weapon.Range = 10 // enemy is 100 away
	eng := testEngineDefs(t, duelConfig(), defA, testDef("B", ""))
	eng.StartImmediate()

	eng.Advance()
	state := eng.State()
	assert.Empty(t, state.DamageEvents, "out of range must not damage")
	assert.InDelta(t, 100.0, state.Bots[1].Health, 1e-9)
	assert.Greater(t, state.Bots[0].Cooldown, 0.0, "whiff still spends the weapon")
}

func TestKnockbackPointsAlongAttackLine(t *testing.T) {
	// bot-1 at (50,50) attacks bot-2 at (150,50) with range 120: the impulse
	// on bot-2 must point in +x.
	defA := testDef("A", "api.attack()")
	defA.Weapon.Range = 120
	eng := testEngineDefs(t, duelConfig(), defA, testDef("B", ""))
	eng.StartImmediate()

	eng.Advance()
	state := eng.State()
	require.Len(t, state.DamageEvents, 1)
	assert.Greater(t, state.Bots[1].Velocity.X, 0.0)
	assert.InDelta(t, 0, state.Bots[1].Velocity.Y, 1e-6)
}

func TestHugeRotationAngleCompletesTick(t *testing.T) {
	// Repeated squaring reaches ~1e144 in a handful of statements; the tick
	// must still complete promptly and the synced angle must be in range.
	src := "let a = 999999999 * 999999999\n" +
		"let b = a * a\n" +
		"let c = b * b\n" +
		"let d = c * c\n" +
		"api.rotateTo(d)"
	eng := testEngine(t, duelConfig(), src, "")
	eng.StartImmediate()

	done := make(chan struct{})
	go func() {
		eng.Advance()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tick did not complete with a huge rotation angle")
	}

	angle := eng.State().Bots[0].Angle
	assert.Greater(t, angle, -math.Pi)
	assert.LessOrEqual(t, angle, math.Pi)
}

func TestNonFiniteRotationIsDropped(t *testing.T) {
	// f overflows to +Inf, so f - f is NaN. Neither may become the bot's
	// angle: a NaN angle would break every later snapshot encode.
	src := "let a = 999999999 * 999999999\n" +
		"let b = a * a\n" +
		"let c = b * b\n" +
		"let d = c * c\n" +
		"let e = d * d\n" +
		"let f = e * e\n" +
		"api.rotateTo(f - f)\n" +
		"api.rotateTo(f)"
	eng := testEngine(t, duelConfig(), src, "")
	eng.StartImmediate()
	eng.Advance()

	state := eng.State()
	assert.Equal(t, 0.0, state.Bots[0].Angle, "spawn facing must survive dropped intents")
	_, err := json.Marshal(state)
	require.NoError(t, err, "snapshots must stay encodable")
}

func TestFixedSeedReproducesMatch(t *testing.T) {
	src := "api.moveToward(api.getEnemyPosition(), api.random(1, 3))\n" +
		"api.rotateTo(api.random(0, 6))\n" +
		"api.attack()"
	build := func() *Engine {
		eng, err := NewEngine(duelConfig(), rigidworld.New(),
			[2]botdef.Definition{testDef("A", src), testDef("B", src)},
			Deps{RNG: rand.New(rand.NewSource(7))})
		require.NoError(t, err)
		t.Cleanup(eng.Close)
		eng.StartImmediate()
		return eng
	}
	engA, engB := build(), build()

	for i := 0; i < 30; i++ {
		engA.Advance()
		engB.Advance()
		stateA, stateB := engA.State(), engB.State()
		// Match ids are minted per engine; everything else must line up.
		stateA.MatchID, stateB.MatchID = "", ""
		require.Equal(t, stateB, stateA, "tick %d diverged", i+1)
	}
}

func TestThrowingBehaviorNeverActs(t *testing.T) {
	cfg := duelConfig()
	cfg.Duration = time.Second
	// api.explode compiles but faults at runtime on every invocation.
	eng := testEngine(t, cfg, "api.explode()", "")
	eng.StartImmediate()

	counters := telemetry.NewCounters()
	eng.metrics = counters

	start := eng.State().Bots[0].Position
	for !eng.Advance() {
	}

	state := eng.State()
	assert.Equal(t, StatusFinished, state.Status)
	assert.Equal(t, start, state.Bots[0].Position, "faulting bot must never move")
	assert.Greater(t, counters.Snapshot()["behavior_runtime_errors"], uint64(0))
}

func TestEqualHealthAtExpiryIsDraw(t *testing.T) {
	cfg := duelConfig()
	cfg.Duration = time.Second
	eng := testEngine(t, cfg, "", "")
	eng.StartImmediate()

	for !eng.Advance() {
	}

	state := eng.State()
	require.Equal(t, StatusFinished, state.Status)
	assert.Nil(t, state.Winner)
}

func TestTimeExpiryResolvesByHealth(t *testing.T) {
	cfg := duelConfig()
	cfg.Duration = time.Second
	// bot-2's weapon can never come off cooldown twice within the match, so it
	// lands exactly one hit and must win on the health comparison.
	defB := testDef("B", "api.attack()")
	defB.Weapon.Cooldown = 1000
	defB.Weapon.Range = 120
	eng := testEngineDefs(t, cfg, testDef("A", ""), defB)
	eng.StartImmediate()

	for !eng.Advance() {
	}

	state := eng.State()
	require.Equal(t, StatusFinished, state.Status)
	require.NotNil(t, state.Winner)
	assert.Equal(t, "bot-2", *state.Winner)
	assert.InDelta(t, 90.0, state.Bots[0].Health, 1e-9)
}

func TestKnockoutEndsMatch(t *testing.T) {
	defA := testDef("A", "api.attack()")
	defA.Weapon.Damage = 60
	defA.Weapon.Cooldown = 0.01
	defA.Weapon.Range = 200
	eng := testEngineDefs(t, duelConfig(), defA, testDef("B", ""))
	eng.StartImmediate()

	finished := false
	for i := 0; i < 200 && !finished; i++ {
		finished = eng.Advance()
	}
	require.True(t, finished, "match should end by knockout")

	state := eng.State()
	require.NotNil(t, state.Winner)
	assert.Equal(t, "bot-1", *state.Winner)
	assert.Equal(t, 0.0, state.Bots[1].Health)
}

func TestStateIsDeepCopy(t *testing.T) {
	eng := testEngine(t, duelConfig(), "api.attack()", "")
	eng.StartImmediate()
	eng.Advance()

	first := eng.State()
	second := eng.State()
	assert.Equal(t, first, second, "two reads in the same tick must be deep-equal")

	// Mutating a snapshot must not leak into the engine.
	first.Bots[0].Health = -1
	if len(first.DamageEvents) > 0 {
		first.DamageEvents[0].Amount = 9999
	}
	third := eng.State()
	assert.Equal(t, second, third)
}

func TestCompileFailureFieldsNoOpBot(t *testing.T) {
	eng := testEngine(t, duelConfig(), "if (", "")
	eng.StartImmediate()

	start := eng.State().Bots[0].Position
	for i := 0; i < 10; i++ {
		eng.Advance()
	}
	assert.Equal(t, start, eng.State().Bots[0].Position)
	assert.Equal(t, StatusFighting, eng.State().Status, "compile failure must not abort the match")
}

func TestObserverFiresOncePerTick(t *testing.T) {
	eng := testEngine(t, duelConfig(), "", "")
	var ticks []uint64
	eng.OnUpdate(func(state GameState) { ticks = append(ticks, state.Tick) })
	eng.StartImmediate()

	for i := 0; i < 4; i++ {
		eng.Advance()
	}
	assert.Equal(t, []uint64{1, 2, 3, 4}, ticks)
}

func TestMovementIntentSetsVelocity(t *testing.T) {
	eng := testEngine(t, duelConfig(), "api.moveToward(api.getEnemyPosition())", "")
	eng.StartImmediate()
	eng.Advance()

	state := eng.State()
	assert.Greater(t, state.Bots[0].Velocity.X, 0.0, "bot-1 should head toward bot-2")
	assert.Greater(t, state.Bots[0].Position.X, 50.0)
}

func TestStopZeroesVelocity(t *testing.T) {
	eng := testEngine(t, duelConfig(), "api.moveToward(api.getEnemyPosition())", "")
	eng.StartImmediate()
	eng.Advance()
	require.Greater(t, eng.State().Bots[0].Velocity.X, 0.0)

	stopProg, err := behavior.Compile("api.stop()")
	require.NoError(t, err)
	eng.mu.Lock()
	eng.bots[0].program = stopProg
	eng.mu.Unlock()
	eng.Advance()
	assert.Equal(t, 0.0, eng.State().Bots[0].Velocity.X)
}

func TestJournalRecordsTicks(t *testing.T) {
	eng := testEngine(t, duelConfig(), "api.attack()", "")
	eng.StartImmediate()
	eng.Advance()

	record, ok := eng.Journal().ByTick(1)
	require.True(t, ok)
	assert.NotZero(t, record.Checksum)
	require.Len(t, record.Damage, 1)
	assert.Equal(t, "bot-1", record.Damage[0].Attacker)
}

func TestCountdownTicksAreNotJournaled(t *testing.T) {
	cfg := duelConfig()
	cfg.CountdownTicks = 3
	eng := testEngine(t, cfg, "", "")
	eng.Start()

	eng.Advance()
	eng.Advance()
	count, _, _ := eng.Journal().Window()
	assert.Zero(t, count, "countdown must not occupy the record window")
	_, ok := eng.Journal().ByTick(0)
	assert.False(t, ok)

	eng.Advance() // countdown elapses
	eng.Advance() // first fighting tick
	record, ok := eng.Journal().ByTick(1)
	require.True(t, ok)
	assert.EqualValues(t, 1, record.Tick)
}

func TestCloseWaitsForRunningLoop(t *testing.T) {
	cfg := duelConfig()
	cfg.TickRate = 1000
	eng := testEngine(t, cfg, "api.moveToward(api.getEnemyPosition())", "")
	eng.StartImmediate()

	done := make(chan struct{})
	go func() {
		eng.Run()
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)
	eng.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run still live after Close returned")
	}
}

func TestStopHaltsLoopWithoutChangingStatus(t *testing.T) {
	eng := testEngine(t, duelConfig(), "", "")
	eng.StartImmediate()

	done := make(chan struct{})
	go func() {
		eng.Run()
		close(done)
	}()
	eng.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not halt after Stop")
	}
	assert.Equal(t, StatusFighting, eng.State().Status)
}
