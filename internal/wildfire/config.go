package wildfire

import "strconv"

// Params holds the tunable probabilities of the fire automaton.
type Params struct {
	// BurnDecayRate is the per-tick chance a burning cell loses one fuel unit.
	BurnDecayRate float64
	// FireSpreadChance gates each burning neighbour before the ignition test.
	FireSpreadChance float64
	// MoistureDecayRate is drained from a flammable cell per burning neighbour
	// per tick, whether or not it ignites.
	MoistureDecayRate float64
	// WindAngleScale and WindGrowth shape the wind term of the ignition test.
	WindAngleScale float64
	WindGrowth     float64
	// Buffered reads neighbour fire state from the start of the tick instead
	// of the in-place sweep, removing the down-right spread bias.
	Buffered bool
}

// WindParams controls the wandering global wind.
type WindParams struct {
	// ChangeSpeed is the rotation rate toward the target in degrees/second.
	ChangeSpeed float64
	MinSpeed    float64
	MaxSpeed    float64
	// StrengthJitter bounds the per-update strength random walk.
	StrengthJitter float64
	// Variance bounds how far a new target may stray from the current angle.
	Variance float64
	// SnapThreshold is the distance in degrees at which the angle snaps to
	// its target.
	SnapThreshold float64
}

// Config controls map generation and simulation pacing.
type Config struct {
	Width      int
	Height     int
	SpriteSize float64
	Seed       int32
	// TPS is the number of automaton ticks per simulated second; the wind
	// walk advances by 1/TPS seconds per tick.
	TPS int

	WindAngle    float64
	WindStrength float64

	Params Params
	Wind   WindParams
}

// DefaultParams returns the tuned automaton probabilities.
func DefaultParams() Params {
	return Params{
		BurnDecayRate:     0.3,
		FireSpreadChance:  0.2,
		MoistureDecayRate: 0.01,
		WindAngleScale:    0.131,
		WindGrowth:        0.045,
	}
}

// DefaultWindParams returns the standard wind walk settings.
func DefaultWindParams() WindParams {
	return WindParams{
		ChangeSpeed:    6,
		MinSpeed:       0,
		MaxSpeed:       12,
		StrengthJitter: 0.1,
		Variance:       45,
		SnapThreshold:  1,
	}
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:        256,
		Height:       256,
		SpriteSize:   8,
		Seed:         GoodSeeds[0],
		TPS:          10,
		WindAngle:    45,
		WindStrength: 3,
		Params:       DefaultParams(),
		Wind:         DefaultWindParams(),
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 32); err == nil {
			c.Seed = int32(parsed)
		}
	}
	if v, ok := cfg["sprite_size"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.SpriteSize = parsed
		}
	}
	if v, ok := cfg["tps"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.TPS = parsed
		}
	}
	if v, ok := cfg["burn_decay_rate"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.BurnDecayRate = parsed
		}
	}
	if v, ok := cfg["fire_spread_chance"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.FireSpreadChance = parsed
		}
	}
	if v, ok := cfg["moisture_decay_rate"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.MoistureDecayRate = parsed
		}
	}
	if v, ok := cfg["buffered"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Params.Buffered = parsed
		}
	}
	if v, ok := cfg["wind_angle"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.WindAngle = wrapDegrees(parsed)
		}
	}
	if v, ok := cfg["wind_strength"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.WindStrength = parsed
		}
	}
	if v, ok := cfg["wind_variance"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Wind.Variance = parsed
		}
	}
	if v, ok := cfg["wind_max_speed"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Wind.MaxSpeed = parsed
		}
	}
	if c.Wind.MaxSpeed < c.Wind.MinSpeed {
		c.Wind.MaxSpeed = c.Wind.MinSpeed
	}
	return c
}
