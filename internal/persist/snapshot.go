// Package persist saves and restores wildfire maps.
package persist

import (
	"errors"
	"fmt"
	"time"

	"wildfire-ca/internal/core"
	"wildfire-ca/internal/wildfire"
)

// ErrNotFound is returned when a named snapshot does not exist.
var ErrNotFound = errors.New("snapshot not found")

// ErrInvalidName is returned for names that cannot be used as a storage key.
var ErrInvalidName = errors.New("invalid snapshot name")

// snapshotVersion is bumped whenever the cell encoding changes.
const snapshotVersion = 1

// Snapshot is the flat serialisable state of a map and its wind. Terrain and
// fuel are stored one byte per cell.
type Snapshot struct {
	Version    int                `json:"version"`
	Name       string             `json:"name"`
	Seed       int32              `json:"seed"`
	Width      int                `json:"width"`
	Height     int                `json:"height"`
	SpriteSize float64            `json:"sprite_size"`
	Tick       uint64             `json:"tick"`
	Terrain    []byte             `json:"terrain"`
	Fuel       []byte             `json:"fuel"`
	Moisture   []float64          `json:"moisture"`
	LocalWind  []LocalWind        `json:"local_wind,omitempty"`
	Wind       wildfire.WindState `json:"wind"`
	SavedAt    time.Time          `json:"saved_at"`
}

// LocalWind records a cell with a non-zero local wind modifier.
type LocalWind struct {
	X  int     `json:"x"`
	Y  int     `json:"y"`
	VX float64 `json:"vx"`
	VY float64 `json:"vy"`
}

// Capture copies the state of a running sim.
func Capture(name string, sim *wildfire.Sim) *Snapshot {
	return CaptureMap(name, sim.Map(), sim.Wind(), sim.Tick())
}

// CaptureMap copies a map and wind without the Sim wrapper.
func CaptureMap(name string, m *wildfire.GameMap, w *wildfire.WindDirection, tick uint64) *Snapshot {
	size := m.Size()
	n := size.Cells()
	snap := &Snapshot{
		Version:    snapshotVersion,
		Name:       name,
		Seed:       m.Seed(),
		Width:      size.W,
		Height:     size.H,
		SpriteSize: m.SpriteSize(),
		Tick:       tick,
		Terrain:    make([]byte, n),
		Fuel:       make([]byte, n),
		Moisture:   make([]float64, n),
		SavedAt:    time.Now().UTC(),
	}
	if w != nil {
		snap.Wind = w.State()
	}
	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			i := y*size.W + x
			c, _ := m.Get(core.IVec2{X: x, Y: y})
			snap.Terrain[i] = byte(c.Terrain)
			snap.Fuel[i] = c.FuelLoad
			snap.Moisture[i] = c.Moisture()
			if c.Wind != (core.Vec2{}) {
				snap.LocalWind = append(snap.LocalWind, LocalWind{X: x, Y: y, VX: c.Wind.X, VY: c.Wind.Y})
			}
		}
	}
	return snap
}

// Validate checks the snapshot is internally consistent.
func (s *Snapshot) Validate() error {
	if s.Version != snapshotVersion {
		return fmt.Errorf("unsupported snapshot version %d", s.Version)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("invalid snapshot size %dx%d", s.Width, s.Height)
	}
	n := s.Width * s.Height
	if len(s.Terrain) != n || len(s.Fuel) != n || len(s.Moisture) != n {
		return fmt.Errorf("snapshot cell data does not match %dx%d", s.Width, s.Height)
	}
	for _, lw := range s.LocalWind {
		if lw.X < 0 || lw.Y < 0 || lw.X >= s.Width || lw.Y >= s.Height {
			return fmt.Errorf("local wind at (%d,%d) outside the map", lw.X, lw.Y)
		}
	}
	return nil
}

// Restore rebuilds the map and wind. The random sources are reseeded from the
// seed and tick, so a restored run is reproducible but does not continue the
// exact sequence of the captured one.
func (s *Snapshot) Restore(params wildfire.Params, windParams wildfire.WindParams) (*wildfire.GameMap, *wildfire.WindDirection, error) {
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}
	cells := make([]wildfire.CellState, len(s.Terrain))
	for i := range cells {
		cells[i].Terrain = wildfire.TerrainType(s.Terrain[i])
		cells[i].FuelLoad = s.Fuel[i]
		cells[i].SetMoisture(s.Moisture[i])
	}
	for _, lw := range s.LocalWind {
		cells[lw.Y*s.Width+lw.X].Wind = core.Vec2{X: lw.VX, Y: lw.VY}
	}

	rng := core.NewRNG(int64(s.Seed) ^ int64(s.Tick))
	m, err := wildfire.NewMapFromCells(s.Seed, s.SpriteSize, s.Width, s.Height, cells,
		wildfire.WithParams(params), wildfire.WithRNG(rng))
	if err != nil {
		return nil, nil, fmt.Errorf("restoring %q: %w", s.Name, err)
	}
	w := wildfire.NewWindDirection(windParams, s.Wind.Angle, s.Wind.Strength, rng)
	w.Restore(s.Wind)
	return m, w, nil
}

// RestoreInto loads the snapshot into sim, keeping its tunables.
func (s *Snapshot) RestoreInto(sim *wildfire.Sim) error {
	cfg := sim.Config()
	m, w, err := s.Restore(cfg.Params, cfg.Wind)
	if err != nil {
		return err
	}
	sim.Adopt(m, w, s.Tick)
	return nil
}
