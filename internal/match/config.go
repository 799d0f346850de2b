package match

import "time"

// Config tunes one match. Zero values select the defaults below, so a partial
// config from file or test code is always usable.
type Config struct {
	ArenaWidth  float64
	ArenaHeight float64

	TickRate       int
	Duration       time.Duration
	CountdownTicks int

	// StepBudget bounds interpreter steps per behavior invocation.
	StepBudget int

	// MaxSpeed caps the speed value a behavior may request; SpeedScale converts
	// the abstract speed rating into arena units per second.
	MaxSpeed   float64
	SpeedScale float64
	// StrafeScale weights the sideways velocity component relative to forward
	// movement speed.
	StrafeScale float64

	// KnockbackScale converts base weapon damage into impulse magnitude.
	KnockbackScale float64
	// RangeTolerance widens weapon range by a fixed margin during hit checks.
	RangeTolerance float64
	// AttackAnimTicks is how many ticks the attacking flag stays raised.
	AttackAnimTicks int

	// Physics tuning for bot bodies.
	BodyDensity     float64
	BodyFriction    float64
	BodyAirFriction float64
	BodyRestitution float64
	WallThickness   float64

	DefaultMaxHealth float64
}

// DefaultConfig returns the standard arena setup: 800x600, 30 ticks per
// second, 60 second matches with a 3 second countdown.
func DefaultConfig() Config {
	return Config{
		ArenaWidth:       800,
		ArenaHeight:      600,
		TickRate:         30,
		Duration:         60 * time.Second,
		CountdownTicks:   90,
		StepBudget:       10_000,
		MaxSpeed:         5,
		SpeedScale:       50,
		StrafeScale:      0.6,
		KnockbackScale:   2,
		RangeTolerance:   5,
		AttackAnimTicks:  9,
		BodyDensity:      0.001,
		BodyFriction:     0.1,
		BodyAirFriction:  0.15,
		BodyRestitution:  0.1,
		WallThickness:    40,
		DefaultMaxHealth: 100,
	}
}

// withDefaults fills any zero field from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.ArenaWidth <= 0 {
		c.ArenaWidth = def.ArenaWidth
	}
	if c.ArenaHeight <= 0 {
		c.ArenaHeight = def.ArenaHeight
	}
	if c.TickRate <= 0 {
		c.TickRate = def.TickRate
	}
	if c.Duration <= 0 {
		c.Duration = def.Duration
	}
	if c.CountdownTicks < 0 {
		c.CountdownTicks = def.CountdownTicks
	}
	if c.StepBudget <= 0 {
		c.StepBudget = def.StepBudget
	}
	if c.MaxSpeed <= 0 {
		c.MaxSpeed = def.MaxSpeed
	}
	if c.SpeedScale <= 0 {
		c.SpeedScale = def.SpeedScale
	}
	if c.StrafeScale <= 0 {
		c.StrafeScale = def.StrafeScale
	}
	if c.KnockbackScale <= 0 {
		c.KnockbackScale = def.KnockbackScale
	}
	if c.RangeTolerance <= 0 {
		c.RangeTolerance = def.RangeTolerance
	}
	if c.AttackAnimTicks <= 0 {
		c.AttackAnimTicks = def.AttackAnimTicks
	}
	if c.BodyDensity <= 0 {
		c.BodyDensity = def.BodyDensity
	}
	if c.BodyFriction <= 0 {
		c.BodyFriction = def.BodyFriction
	}
	if c.BodyAirFriction <= 0 {
		c.BodyAirFriction = def.BodyAirFriction
	}
	if c.BodyRestitution <= 0 {
		c.BodyRestitution = def.BodyRestitution
	}
	if c.WallThickness <= 0 {
		c.WallThickness = def.WallThickness
	}
	if c.DefaultMaxHealth <= 0 {
		c.DefaultMaxHealth = def.DefaultMaxHealth
	}
	return c
}

// tickInterval is the fixed dt in seconds.
func (c Config) tickInterval() float64 {
	return 1.0 / float64(c.TickRate)
}
