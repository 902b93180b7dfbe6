package wildfire

import (
	"math"

	"wildfire-ca/internal/core"
)

// WindDirection is the slowly wandering global wind. It rotates toward a target
// angle and picks a fresh target nearby whenever it arrives.
type WindDirection struct {
	angle    float64
	strength float64
	target   float64
	variance float64

	overridden bool

	params WindParams
	rng    *core.RNG
}

// WindState is the serialisable form of a WindDirection.
type WindState struct {
	Angle      float64 `json:"angle" yaml:"angle"`
	Strength   float64 `json:"strength" yaml:"strength"`
	Target     float64 `json:"target" yaml:"target"`
	Variance   float64 `json:"variance" yaml:"variance"`
	Overridden bool    `json:"overridden" yaml:"overridden"`
}

// NewWindDirection starts the wind at angle degrees with the given strength and
// draws an initial target.
func NewWindDirection(params WindParams, angle, strength float64, rng *core.RNG) *WindDirection {
	if rng == nil {
		rng = core.NewRNG(0)
	}
	w := &WindDirection{
		angle:    wrapDegrees(angle),
		strength: clampRange(strength, params.MinSpeed, params.MaxSpeed),
		variance: params.Variance,
		params:   params,
		rng:      rng,
	}
	w.retarget()
	return w
}

// Angle returns the current heading in degrees, [0, 360).
func (w *WindDirection) Angle() float64 { return w.angle }

// Strength returns the current wind speed.
func (w *WindDirection) Strength() float64 { return w.strength }

// Target returns the heading the wind is rotating toward.
func (w *WindDirection) Target() float64 { return w.target }

// Variance returns the maximum deviation of a new target from the angle.
func (w *WindDirection) Variance() float64 { return w.variance }

// SetVariance changes the target spread for future retargets.
func (w *WindDirection) SetVariance(v float64) { w.variance = math.Abs(v) }

// SetTarget points the wind at a new heading without pinning it.
func (w *WindDirection) SetTarget(deg float64) { w.target = wrapDegrees(deg) }

// Overridden reports whether scripted data pinned the wind.
func (w *WindDirection) Overridden() bool { return w.overridden }

// Override pins angle and strength, suspending the random walk until Release.
func (w *WindDirection) Override(angle, strength float64) {
	w.angle = wrapDegrees(angle)
	w.target = w.angle
	w.strength = math.Max(0, strength)
	w.overridden = true
}

// Release resumes the random walk from the pinned values.
func (w *WindDirection) Release() {
	w.overridden = false
	w.strength = clampRange(w.strength, w.params.MinSpeed, w.params.MaxSpeed)
}

// Vec converts the wind to a cartesian vector consumed by GameMap.Update.
func (w *WindDirection) Vec() core.Vec2 { return core.FromPolar(w.angle, w.strength) }

// Update advances the wind by dt seconds.
func (w *WindDirection) Update(dt float64) {
	if w.overridden || dt <= 0 {
		return
	}

	delta := ShortestArc(w.angle, w.target)
	if math.Abs(delta) <= w.params.SnapThreshold {
		w.angle = w.target
		w.retarget()
	} else {
		step := math.Min(w.params.ChangeSpeed*dt, math.Abs(delta))
		w.angle = wrapDegrees(w.angle + math.Copysign(step, delta))
	}

	jitter := w.params.StrengthJitter
	w.strength = clampRange(w.strength+w.rng.Range(-jitter, jitter), w.params.MinSpeed, w.params.MaxSpeed)
}

func (w *WindDirection) retarget() {
	w.target = wrapDegrees(w.angle + w.rng.Range(-w.variance, w.variance))
}

// State captures the wind for persistence.
func (w *WindDirection) State() WindState {
	return WindState{
		Angle:      w.angle,
		Strength:   w.strength,
		Target:     w.target,
		Variance:   w.variance,
		Overridden: w.overridden,
	}
}

// Restore replaces the wind with a previously captured state.
func (w *WindDirection) Restore(s WindState) {
	w.angle = wrapDegrees(s.Angle)
	w.strength = math.Max(0, s.Strength)
	w.target = wrapDegrees(s.Target)
	w.variance = math.Abs(s.Variance)
	w.overridden = s.Overridden
}

// ShortestArc returns the signed rotation in degrees that takes from onto to
// along the shorter way round, in (-180, 180].
func ShortestArc(from, to float64) float64 {
	ccw := wrapDegrees(to - from)
	cw := 360 - ccw
	if ccw <= cw {
		return ccw
	}
	return -cw
}

func wrapDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg = 0
	}
	return deg
}

func clampRange(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	return math.Max(lo, math.Min(hi, v))
}
