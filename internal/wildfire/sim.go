package wildfire

import (
	"iter"

	"go.uber.org/zap"

	"wildfire-ca/internal/core"
)

// Sim drives a GameMap and its WindDirection as a core.Sim, keeping a
// palette-indexed display buffer that is refreshed only where cells changed.
type Sim struct {
	cfg  Config
	log  *zap.Logger
	rng  *core.RNG
	tick uint64

	gameMap *GameMap
	wind    *WindDirection
	display *core.ByteGrid
	changed []core.IVec2

	bands []uint8
}

// New returns a wildfire Sim with the provided dimensions using defaults.
func New(w, h int) *Sim {
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	return NewWithConfig(cfg, nil)
}

// NewWithConfig builds a Sim and generates its first map from cfg.Seed.
func NewWithConfig(cfg Config, log *zap.Logger) *Sim {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.TPS <= 0 {
		cfg.TPS = DefaultConfig().TPS
	}
	s := &Sim{cfg: cfg, log: log}
	s.Reset(int64(cfg.Seed))
	return s
}

// Name returns the simulation identifier.
func (s *Sim) Name() string { return "wildfire" }

// Size reports the grid dimensions.
func (s *Sim) Size() core.Size { return s.gameMap.Size() }

// Cells exposes the display buffer.
func (s *Sim) Cells() []uint8 { return s.display.Cells() }

// Changed returns the cells that changed during the last Step or Reset.
func (s *Sim) Changed() []core.IVec2 { return s.changed }

// Map exposes the grid for commands and queries between ticks.
func (s *Sim) Map() *GameMap { return s.gameMap }

// Wind exposes the global wind.
func (s *Sim) Wind() *WindDirection { return s.wind }

// Tick returns the number of steps since the last reset.
func (s *Sim) Tick() uint64 { return s.tick }

// Config returns the active configuration.
func (s *Sim) Config() Config { return s.cfg }

// Reset regenerates the map from seed, truncated to 32 bits. Every cell is
// reported as changed.
func (s *Sim) Reset(seed int64) {
	s.cfg.Seed = int32(seed)
	s.rng = core.NewRNG(seed)
	s.gameMap = NewGameMap(s.cfg.Seed, s.cfg.SpriteSize, s.cfg.Width, s.cfg.Height,
		WithParams(s.cfg.Params), WithRNG(s.rng), WithLogger(s.log))
	s.wind = NewWindDirection(s.cfg.Wind, s.cfg.WindAngle, s.cfg.WindStrength, s.rng)
	s.tick = 0
	s.bands = nil
	s.rebuildDisplay()
	s.log.Info("wildfire reset", zap.Int32("seed", s.cfg.Seed))
}

// Adopt replaces the map and wind, for example after loading a snapshot, and
// resumes counting from tick.
func (s *Sim) Adopt(m *GameMap, w *WindDirection, tick uint64) {
	s.gameMap = m
	s.wind = w
	s.cfg.Seed = m.Seed()
	s.cfg.Width = m.Size().W
	s.cfg.Height = m.Size().H
	s.cfg.SpriteSize = m.SpriteSize()
	s.cfg.Params = m.Params()
	s.rng = m.RNG()
	s.tick = tick
	s.bands = nil
	s.rebuildDisplay()
}

// Step advances the wind by one tick length, runs the automaton and refreshes
// the display for changed cells.
func (s *Sim) Step() {
	s.wind.Update(1 / float64(s.cfg.TPS))
	s.gameMap.Update(s.wind.Vec())
	s.tick++
	s.Sync()
}

// Sync polls the map for cells changed by commands or ticks and redraws them.
func (s *Sim) Sync() {
	s.changed = s.gameMap.TakeChanged()
	for _, loc := range s.changed {
		cell, _ := s.gameMap.GetMut(loc)
		s.display.Set(loc.X, loc.Y, DisplayValue(cell))
	}
}

func (s *Sim) rebuildDisplay() {
	size := s.gameMap.Size()
	if s.display == nil || s.display.W != max(size.W, 1) || s.display.H != max(size.H, 1) {
		s.display = core.NewByteGrid(size.W, size.H)
	}
	s.gameMap.MarkAllDirty()
	s.Sync()
}

// Strike drops lightning on a cell.
func (s *Sim) Strike(x, y int) bool {
	return Lightning(s.gameMap, core.IVec2{X: x, Y: y})
}

// StrikeMeteor drops a meteor on a cell.
func (s *Sim) StrikeMeteor(x, y int) int {
	return len(Meteor(s.gameMap, s.rng, core.IVec2{X: x, Y: y}))
}

// Explode throws chain fires out of the cell, as when a building blows up.
func (s *Sim) Explode(x, y int) int {
	return len(ChainFires(s.gameMap, s.rng, core.IVec2{X: x, Y: y}))
}

// gustHalfWidth and gustStrength shape the band a player-placed gust covers.
const (
	gustHalfWidth = 2
	gustStrength  = 6
)

// Gust adds local wind across the storm front in front of a cell and returns
// the number of cells touched.
func (s *Sim) Gust(x, y int, facing Facing) int {
	front := StormFront(core.IVec2{X: x, Y: y}, facing, gustHalfWidth)
	return s.gameMap.AddLocalWind(front, facing.Vec().Scale(gustStrength))
}

// Dampen soaks a cell as a water golem would.
func (s *Sim) Dampen(x, y int) bool {
	return s.gameMap.Moisten(core.IVec2{X: x, Y: y})
}

// WindHeading returns the global wind angle and strength along with the
// angle it is turning toward. Angles are in degrees.
func (s *Sim) WindHeading() (angle, strength, target float64) {
	return s.wind.Angle(), s.wind.Strength(), s.wind.Target()
}

// LocalWinds yields the gust modifiers left on the map.
func (s *Sim) LocalWinds() iter.Seq2[core.IVec2, core.Vec2] { return s.gameMap.LocalWinds() }

// FireFront returns the burning cells that can still spread.
func (s *Sim) FireFront() []core.IVec2 { return s.gameMap.FireFront() }

// MoistureMask returns the per-cell moisture in row-major order.
func (s *Sim) MoistureMask() []float32 {
	size := s.gameMap.Size()
	mask := make([]float32, size.Cells())
	for i := range s.gameMap.cells {
		mask[i] = float32(s.gameMap.cells[i].Moisture())
	}
	return mask
}

// FireMask returns the remaining fuel of burning cells scaled to [0, 1] and
// zero everywhere else.
func (s *Sim) FireMask() []float32 {
	mask := make([]float32, len(s.gameMap.cells))
	for i := range s.gameMap.cells {
		c := &s.gameMap.cells[i]
		if c.Terrain == Fire {
			mask[i] = min(float32(max(c.FuelLoad, 1))/maxTreeFuel, 1)
		}
	}
	return mask
}

// TerrainBands returns the terrain each cell was generated as, before any
// fire or commands touched it. The slice is computed once per map seed.
func (s *Sim) TerrainBands() []uint8 {
	if s.bands != nil {
		return s.bands
	}
	size := s.gameMap.Size()
	noise := NewNoiseMap(s.gameMap.Seed())
	s.bands = make([]uint8, size.Cells())
	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			terrain, _ := noise.Sample(x, y)
			s.bands[y*size.W+x] = uint8(terrain)
		}
	}
	return s.bands
}

func init() {
	core.Register("wildfire", func(cfg map[string]string) core.Sim {
		return NewWithConfig(FromMap(cfg), nil)
	})
}
