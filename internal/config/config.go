// Package config loads the server configuration from YAML with defaults for
// every field, so an empty or partial file is always runnable.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"bot-brawl/server/internal/match"
	"bot-brawl/server/internal/observability"
)

// Arena fixes the play-field dimensions surfaced in every snapshot.
type Arena struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Match tunes lifecycle and combat resolution.
type Match struct {
	TickRate        int     `yaml:"tickRate"`
	DurationSeconds float64 `yaml:"durationSeconds"`
	CountdownTicks  int     `yaml:"countdownTicks"`
	StepBudget      int     `yaml:"stepBudget"`
	MaxSpeed        float64 `yaml:"maxSpeed"`
	SpeedScale      float64 `yaml:"speedScale"`
	StrafeScale     float64 `yaml:"strafeScale"`
	KnockbackScale  float64 `yaml:"knockbackScale"`
	RangeTolerance  float64 `yaml:"rangeTolerance"`
	AttackAnimTicks int     `yaml:"attackAnimTicks"`
}

// Physics tunes the bot bodies.
type Physics struct {
	Density     float64 `yaml:"density"`
	Friction    float64 `yaml:"friction"`
	AirFriction float64 `yaml:"airFriction"`
	Restitution float64 `yaml:"restitution"`
}

// Bots names the definition documents loaded at startup. The generation
// pipeline writes these files; the server only reads them.
type Bots struct {
	APath string `yaml:"a"`
	BPath string `yaml:"b"`
}

// Config is the root document.
type Config struct {
	Addr    string               `yaml:"addr"`
	Arena   Arena                `yaml:"arena"`
	Match   Match                `yaml:"match"`
	Physics Physics              `yaml:"physics"`
	Bots    Bots                 `yaml:"bots"`
	Log     observability.Config `yaml:"log"`
}

// Default returns the runnable baseline configuration.
func Default() Config {
	m := match.DefaultConfig()
	return Config{
		Addr:  ":8080",
		Arena: Arena{Width: m.ArenaWidth, Height: m.ArenaHeight},
		Match: Match{
			TickRate:        m.TickRate,
			DurationSeconds: m.Duration.Seconds(),
			CountdownTicks:  m.CountdownTicks,
			StepBudget:      m.StepBudget,
			MaxSpeed:        m.MaxSpeed,
			SpeedScale:      m.SpeedScale,
			StrafeScale:     m.StrafeScale,
			KnockbackScale:  m.KnockbackScale,
			RangeTolerance:  m.RangeTolerance,
			AttackAnimTicks: m.AttackAnimTicks,
		},
		Physics: Physics{
			Density:     m.BodyDensity,
			Friction:    m.BodyFriction,
			AirFriction: m.BodyAirFriction,
			Restitution: m.BodyRestitution,
		},
		Log: observability.DefaultConfig(),
	}
}

// Load reads path and overlays it onto the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Match.TickRate <= 0 {
		return fmt.Errorf("config: match.tickRate must be positive, got %d", c.Match.TickRate)
	}
	if c.Match.DurationSeconds <= 0 {
		return fmt.Errorf("config: match.durationSeconds must be positive, got %v", c.Match.DurationSeconds)
	}
	if c.Arena.Width <= 0 || c.Arena.Height <= 0 {
		return fmt.Errorf("config: arena dimensions must be positive, got %vx%v", c.Arena.Width, c.Arena.Height)
	}
	return nil
}

// MatchConfig converts the document into the engine's config type.
func (c Config) MatchConfig() match.Config {
	return match.Config{
		ArenaWidth:      c.Arena.Width,
		ArenaHeight:     c.Arena.Height,
		TickRate:        c.Match.TickRate,
		Duration:        time.Duration(c.Match.DurationSeconds * float64(time.Second)),
		CountdownTicks:  c.Match.CountdownTicks,
		StepBudget:      c.Match.StepBudget,
		MaxSpeed:        c.Match.MaxSpeed,
		SpeedScale:      c.Match.SpeedScale,
		StrafeScale:     c.Match.StrafeScale,
		KnockbackScale:  c.Match.KnockbackScale,
		RangeTolerance:  c.Match.RangeTolerance,
		AttackAnimTicks: c.Match.AttackAnimTicks,
		BodyDensity:     c.Physics.Density,
		BodyFriction:    c.Physics.Friction,
		BodyAirFriction: c.Physics.AirFriction,
		BodyRestitution: c.Physics.Restitution,
	}
}
