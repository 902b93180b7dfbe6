package wildfire

import (
	"strconv"

	"wildfire-ca/internal/core"
)

// Parameters reports the current tunables and live wind for the HUD.
func (s *Sim) Parameters() core.ParameterSnapshot {
	params := s.gameMap.Params()
	groups := []core.ParameterGroup{
		{
			Name: "Map",
			Params: []core.Parameter{
				intParam("w", "Width", s.cfg.Width),
				intParam("h", "Height", s.cfg.Height),
				intParam("seed", "Seed", int(s.cfg.Seed)),
				intParam("burning", "Burning cells", s.gameMap.CountOnFire()),
			},
		},
		{
			Name: "Fire",
			Params: []core.Parameter{
				floatParam("burn_decay_rate", "Burn decay rate", params.BurnDecayRate),
				floatParam("fire_spread_chance", "Fire spread chance", params.FireSpreadChance),
				floatParam("moisture_decay_rate", "Moisture decay rate", params.MoistureDecayRate),
				boolParam("buffered", "Buffered sweep", params.Buffered),
			},
		},
		{
			Name: "Wind",
			Params: []core.Parameter{
				floatParam("wind_angle", "Wind angle", s.wind.Angle()),
				floatParam("wind_strength", "Wind strength", s.wind.Strength()),
				floatParam("wind_target", "Wind target", s.wind.Target()),
				floatParam("wind_variance", "Wind variance", s.wind.Variance()),
				boolParam("wind_pinned", "Wind pinned", s.wind.Overridden()),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls lists the HUD-adjustable tunables.
func (s *Sim) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "burn_decay_rate", Label: "Burn decay", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 1, HasMin: true, HasMax: true},
		{Key: "fire_spread_chance", Label: "Spread chance", Type: core.ParamTypeFloat, Step: 0.02, Min: 0, Max: 1, HasMin: true, HasMax: true},
		{Key: "moisture_decay_rate", Label: "Moisture decay", Type: core.ParamTypeFloat, Step: 0.005, Min: 0, Max: 1, HasMin: true, HasMax: true},
		{Key: "wind_strength", Label: "Wind strength", Type: core.ParamTypeFloat, Step: 0.5, Min: 0, HasMin: true},
		{Key: "wind_variance", Label: "Wind variance", Type: core.ParamTypeFloat, Step: 5, Min: 0, Max: 180, HasMin: true, HasMax: true},
		{Key: "buffered", Label: "Buffered", Type: core.ParamTypeBool},
		{Key: "wind_pinned", Label: "Pin wind", Type: core.ParamTypeBool},
	}
}

// SetFloatParameter updates a floating point tunable, clamping probabilities
// to [0, 1]. Setting the wind strength pins the wind at its current angle.
func (s *Sim) SetFloatParameter(key string, value float64) bool {
	params := s.gameMap.Params()
	switch key {
	case "burn_decay_rate":
		params.BurnDecayRate = clamp01(value)
	case "fire_spread_chance":
		params.FireSpreadChance = clamp01(value)
	case "moisture_decay_rate":
		params.MoistureDecayRate = clamp01(value)
	case "wind_strength":
		s.wind.Override(s.wind.Angle(), value)
		return true
	case "wind_variance":
		s.wind.SetVariance(clampRange(value, 0, 180))
		return true
	default:
		return false
	}
	s.gameMap.SetParams(params)
	s.cfg.Params = params
	return true
}

// SetBoolParameter toggles boolean tunables.
func (s *Sim) SetBoolParameter(key string, value bool) bool {
	switch key {
	case "buffered":
		params := s.gameMap.Params()
		params.Buffered = value
		s.gameMap.SetParams(params)
		s.cfg.Params = params
	case "wind_pinned":
		if value {
			s.wind.Override(s.wind.Angle(), s.wind.Strength())
		} else {
			s.wind.Release()
		}
	default:
		return false
	}
	return true
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}

func boolParam(key, label string, value bool) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeBool,
		Value: strconv.FormatBool(value),
	}
}
