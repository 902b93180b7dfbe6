// Package config handles wildfire configuration loading and management.
package config

import (
	"fmt"
	"time"

	"wildfire-ca/internal/wildfire"
)

// Config holds all settings shared by the viewer, server and tools.
type Config struct {
	Map     MapConfig     `yaml:"map"`
	Sim     SimConfig     `yaml:"sim"`
	Wind    WindConfig    `yaml:"wind"`
	Window  WindowConfig  `yaml:"window"`
	Server  ServerConfig  `yaml:"server"`
	Store   StoreConfig   `yaml:"store"`
	Story   StoryConfig   `yaml:"story"`
	Logging LoggingConfig `yaml:"logging"`
}

// MapConfig holds terrain generation settings.
type MapConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	SpriteSize float64 `yaml:"sprite_size"`
	Seed       int32   `yaml:"seed"`
}

// SimConfig holds the automaton pacing and probabilities.
type SimConfig struct {
	TPS               int     `yaml:"tps"`
	BurnDecayRate     float64 `yaml:"burn_decay_rate"`
	FireSpreadChance  float64 `yaml:"fire_spread_chance"`
	MoistureDecayRate float64 `yaml:"moisture_decay_rate"`
	Buffered          bool    `yaml:"buffered"`
}

// WindConfig holds the initial wind and its random walk.
type WindConfig struct {
	Angle       float64 `yaml:"angle"`
	Strength    float64 `yaml:"strength"`
	ChangeSpeed float64 `yaml:"change_speed"`
	MinSpeed    float64 `yaml:"min_speed"`
	MaxSpeed    float64 `yaml:"max_speed"`
	Jitter      float64 `yaml:"jitter"`
	Variance    float64 `yaml:"variance"`
}

// WindowConfig holds viewer settings.
type WindowConfig struct {
	Scale   int    `yaml:"scale"`
	Title   string `yaml:"title"`
	ShowHUD bool   `yaml:"show_hud"`
}

// ServerConfig holds the headless tick server settings.
type ServerConfig struct {
	Addr             string        `yaml:"addr"`
	SnapshotInterval time.Duration `yaml:"snapshot_interval"`
	SnapshotName     string        `yaml:"snapshot_name"`
}

// StoreConfig selects where snapshots are kept. Driver is "json", "postgres"
// or "none".
type StoreConfig struct {
	Driver      string `yaml:"driver"`
	Path        string `yaml:"path"`
	DatabaseURL string `yaml:"database_url"`
}

// StoryConfig selects the scripted level. Level 0 runs free play.
type StoryConfig struct {
	Level      int    `yaml:"level"`
	LevelsFile string `yaml:"levels_file"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the tuned simulation defaults.
func Default() *Config {
	wf := wildfire.DefaultConfig()
	return &Config{
		Map: MapConfig{
			Width:      wf.Width,
			Height:     wf.Height,
			SpriteSize: wf.SpriteSize,
			Seed:       wf.Seed,
		},
		Sim: SimConfig{
			TPS:               wf.TPS,
			BurnDecayRate:     wf.Params.BurnDecayRate,
			FireSpreadChance:  wf.Params.FireSpreadChance,
			MoistureDecayRate: wf.Params.MoistureDecayRate,
		},
		Wind: WindConfig{
			Angle:       wf.WindAngle,
			Strength:    wf.WindStrength,
			ChangeSpeed: wf.Wind.ChangeSpeed,
			MinSpeed:    wf.Wind.MinSpeed,
			MaxSpeed:    wf.Wind.MaxSpeed,
			Jitter:      wf.Wind.StrengthJitter,
			Variance:    wf.Wind.Variance,
		},
		Window: WindowConfig{
			Scale:   3,
			Title:   "wildfire",
			ShowHUD: true,
		},
		Server: ServerConfig{
			Addr:             ":8080",
			SnapshotInterval: 30 * time.Second,
			SnapshotName:     "autosave",
		},
		Store: StoreConfig{
			Driver: "json",
			Path:   "snapshots",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate rejects settings the simulation cannot run with.
func (c *Config) Validate() error {
	if c.Map.Width <= 0 || c.Map.Height <= 0 {
		return fmt.Errorf("map size %dx%d must be positive", c.Map.Width, c.Map.Height)
	}
	if c.Map.SpriteSize <= 0 {
		return fmt.Errorf("sprite size %v must be positive", c.Map.SpriteSize)
	}
	if c.Sim.TPS <= 0 {
		return fmt.Errorf("tps %d must be positive", c.Sim.TPS)
	}
	for name, p := range map[string]float64{
		"burn_decay_rate":     c.Sim.BurnDecayRate,
		"fire_spread_chance":  c.Sim.FireSpreadChance,
		"moisture_decay_rate": c.Sim.MoistureDecayRate,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("%s %v outside [0, 1]", name, p)
		}
	}
	if c.Wind.MaxSpeed < c.Wind.MinSpeed {
		return fmt.Errorf("wind max speed %v below min speed %v", c.Wind.MaxSpeed, c.Wind.MinSpeed)
	}
	switch c.Store.Driver {
	case "json", "postgres", "none", "":
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Store.Driver == "postgres" && c.Store.DatabaseURL == "" {
		return fmt.Errorf("postgres store needs database_url or DATABASE_URL")
	}
	return nil
}

// ToWildfire converts the settings to a simulation config.
func (c *Config) ToWildfire() wildfire.Config {
	wf := wildfire.DefaultConfig()
	wf.Width = c.Map.Width
	wf.Height = c.Map.Height
	wf.SpriteSize = c.Map.SpriteSize
	wf.Seed = c.Map.Seed
	wf.TPS = c.Sim.TPS
	wf.WindAngle = c.Wind.Angle
	wf.WindStrength = c.Wind.Strength
	wf.Params.BurnDecayRate = c.Sim.BurnDecayRate
	wf.Params.FireSpreadChance = c.Sim.FireSpreadChance
	wf.Params.MoistureDecayRate = c.Sim.MoistureDecayRate
	wf.Params.Buffered = c.Sim.Buffered
	wf.Wind.ChangeSpeed = c.Wind.ChangeSpeed
	wf.Wind.MinSpeed = c.Wind.MinSpeed
	wf.Wind.MaxSpeed = c.Wind.MaxSpeed
	wf.Wind.StrengthJitter = c.Wind.Jitter
	wf.Wind.Variance = c.Wind.Variance
	return wf
}
