package story

import (
	"fmt"

	"go.uber.org/zap"

	"wildfire-ca/internal/core"
	"wildfire-ca/internal/wildfire"
)

// Outcome is the state of a running level.
type Outcome int

const (
	Playing Outcome = iota
	Defeat
	Victory
)

func (o Outcome) String() string {
	switch o {
	case Defeat:
		return "defeat"
	case Victory:
		return "victory"
	default:
		return "playing"
	}
}

// Session plays a Level on a wildfire Sim. Elapsed time only advances while
// the caller keeps calling Advance, so pausing the driver pauses the script.
type Session struct {
	level   Level
	sim     *wildfire.Sim
	log     *zap.Logger
	elapsed float64
	pending []Bolt
	hall    [4]core.IVec2
	outcome Outcome
}

// NewSession validates the level, regenerates the sim from the level seed
// and applies its wind. The sim is untouched when the level is invalid.
func NewSession(level Level, sim *wildfire.Sim, log *zap.Logger) (*Session, error) {
	if log == nil {
		log = zap.NewNop()
	}
	level = level.clone()
	if err := level.normalise(); err != nil {
		return nil, fmt.Errorf("story: level %q: %w", level.Name, err)
	}

	sim.Reset(int64(level.MapSeed))
	if level.Wind != nil {
		sim.Wind().Override(level.Wind.Angle, level.Wind.Strength)
	}
	log.Info("story level started",
		zap.String("level", level.Name),
		zap.Int32("seed", level.MapSeed),
		zap.Int("bolts", len(level.Bolts)))
	return &Session{
		level:   level,
		sim:     sim,
		log:     log,
		pending: level.Bolts,
		hall:    level.CityHall(),
	}, nil
}

// Level returns the level being played.
func (s *Session) Level() Level { return s.level }

// Elapsed returns the scripted time in seconds.
func (s *Session) Elapsed() float64 { return s.elapsed }

// Pending returns the number of bolts still to fall.
func (s *Session) Pending() int { return len(s.pending) }

// CityHall returns the protected footprint.
func (s *Session) CityHall() [4]core.IVec2 { return s.hall }

// Advance moves the script forward by dt seconds, strikes every bolt that has
// come due and re-evaluates the outcome. It returns the struck tiles.
func (s *Session) Advance(dt float64) []core.IVec2 {
	if s.outcome != Playing {
		return nil
	}
	if dt > 0 {
		s.elapsed += dt
	}
	var struck []core.IVec2
	for len(s.pending) > 0 && s.pending[0].At <= s.elapsed {
		bolt := s.pending[0]
		s.pending = s.pending[1:]
		lit := s.sim.Strike(bolt.Loc.X, bolt.Loc.Y)
		s.log.Info("story lightning",
			zap.Int("x", bolt.Loc.X),
			zap.Int("y", bolt.Loc.Y),
			zap.Bool("ignited", lit))
		struck = append(struck, bolt.Loc)
	}
	s.evaluate()
	return struck
}

// Outcome reports the current result. Defeat and victory are final.
func (s *Session) Outcome() Outcome {
	if s.outcome == Playing {
		s.evaluate()
	}
	return s.outcome
}

func (s *Session) evaluate() {
	m := s.sim.Map()
	switch {
	case m.CheckOnFire(s.hall[:]...):
		s.outcome = Defeat
		s.log.Info("city hall destroyed by fire", zap.String("level", s.level.Name))
	case len(s.pending) == 0 && !m.AnyOnFire():
		s.outcome = Victory
		s.log.Info("wildfire survived", zap.String("level", s.level.Name), zap.Float64("elapsed", s.elapsed))
	}
}
