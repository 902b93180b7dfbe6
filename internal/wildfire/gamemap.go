package wildfire

import (
	"fmt"
	"iter"
	"math"

	"go.uber.org/zap"

	"wildfire-ca/internal/core"
)

// GameMap owns the terrain grid for one level. Cells are stored row-major and
// are only reachable through the map's accessors.
type GameMap struct {
	sizeX, sizeY int
	spriteSize   float64
	seed         int32

	cells   []CellState
	scratch []TerrainType

	params Params
	rng    *core.RNG
	log    *zap.Logger
}

// Option customises a GameMap at construction.
type Option func(*GameMap)

// WithParams overrides the automaton probabilities.
func WithParams(p Params) Option {
	return func(m *GameMap) { m.params = p }
}

// WithRNG sets the random source used by the tick and by ignition helpers.
func WithRNG(rng *core.RNG) Option {
	return func(m *GameMap) {
		if rng != nil {
			m.rng = rng
		}
	}
}

// WithLogger attaches a logger for command diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(m *GameMap) {
		if log != nil {
			m.log = log
		}
	}
}

// NewGameMap allocates a sizeX by sizeY map and fills it from the noise
// generator for seed. Grassland and trees also get a moisture value.
func NewGameMap(seed int32, spriteSize float64, sizeX, sizeY int, opts ...Option) *GameMap {
	m := newEmptyMap(seed, spriteSize, sizeX, sizeY, opts...)
	noise := NewNoiseMap(seed)
	for y := 0; y < m.sizeY; y++ {
		for x := 0; x < m.sizeX; x++ {
			cell := &m.cells[y*m.sizeX+x]
			cell.Terrain, cell.FuelLoad = noise.Sample(x, y)
			if cell.Terrain.Flammable() {
				cell.SetMoisture(noise.Moisture(float64(x), float64(y)))
			}
		}
	}
	m.log.Debug("generated map",
		zap.Int32("seed", seed),
		zap.Int("size_x", m.sizeX),
		zap.Int("size_y", m.sizeY))
	return m
}

// NewUniformMap builds a map where every cell holds the same state. Scenario
// tests and sweeps start from one.
func NewUniformMap(spriteSize float64, sizeX, sizeY int, fill CellState, opts ...Option) *GameMap {
	m := newEmptyMap(0, spriteSize, sizeX, sizeY, opts...)
	fill.dirty = false
	for i := range m.cells {
		m.cells[i] = fill
	}
	return m
}

// NewMapFromCells rebuilds a map from row-major cell data, for example when
// restoring a snapshot. Dirty flags are cleared.
func NewMapFromCells(seed int32, spriteSize float64, sizeX, sizeY int, cells []CellState, opts ...Option) (*GameMap, error) {
	if sizeX <= 0 || sizeY <= 0 || len(cells) != sizeX*sizeY {
		return nil, fmt.Errorf("wildfire: %d cells do not fill a %dx%d map", len(cells), sizeX, sizeY)
	}
	m := newEmptyMap(seed, spriteSize, sizeX, sizeY, opts...)
	for i, c := range cells {
		if !c.Terrain.Valid() {
			return nil, fmt.Errorf("wildfire: cell %d has unknown terrain %d", i, uint8(c.Terrain))
		}
		c.moisture = clamp01(c.moisture)
		c.dirty = false
		m.cells[i] = c
	}
	return m, nil
}

func newEmptyMap(seed int32, spriteSize float64, sizeX, sizeY int, opts ...Option) *GameMap {
	if sizeX < 0 {
		sizeX = 0
	}
	if sizeY < 0 {
		sizeY = 0
	}
	if spriteSize <= 0 {
		spriteSize = 1
	}
	m := &GameMap{
		sizeX:      sizeX,
		sizeY:      sizeY,
		spriteSize: spriteSize,
		seed:       seed,
		cells:      make([]CellState, sizeX*sizeY),
		params:     DefaultParams(),
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rng == nil {
		m.rng = core.NewRNG(int64(seed))
	}
	return m
}

// Size returns the grid dimensions.
func (m *GameMap) Size() core.Size { return core.Size{W: m.sizeX, H: m.sizeY} }

// SpriteSize returns the world-space edge length of a cell.
func (m *GameMap) SpriteSize() float64 { return m.spriteSize }

// Seed returns the generation seed.
func (m *GameMap) Seed() int32 { return m.seed }

// Params returns the active automaton probabilities.
func (m *GameMap) Params() Params { return m.params }

// SetParams replaces the automaton probabilities.
func (m *GameMap) SetParams(p Params) { m.params = p }

// RNG exposes the map's random source for ignition helpers.
func (m *GameMap) RNG() *core.RNG { return m.rng }

// IsValidCoords reports whether coords lies on the map.
func (m *GameMap) IsValidCoords(coords core.IVec2) bool {
	return m.inBounds(coords.X, coords.Y)
}

func (m *GameMap) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.sizeX && y < m.sizeY
}

// Get returns a copy of the cell at loc.
func (m *GameMap) Get(loc core.IVec2) (CellState, bool) {
	if !m.inBounds(loc.X, loc.Y) {
		return CellState{}, false
	}
	return m.cells[loc.Y*m.sizeX+loc.X], true
}

// GetMut returns the cell at loc for in-place mutation. Callers changing the
// terrain must MarkDirty the cell and must not keep the pointer across ticks.
func (m *GameMap) GetMut(loc core.IVec2) (*CellState, bool) {
	if !m.inBounds(loc.X, loc.Y) {
		return nil, false
	}
	return &m.cells[loc.Y*m.sizeX+loc.X], true
}

// TileCoords converts a world position to the tile beneath it. The map is
// centred on the world origin; the tile may not exist.
func (m *GameMap) TileCoords(world core.Vec2) core.IVec2 {
	offsetX := float64(m.sizeX) * m.spriteSize * 0.5
	offsetY := float64(m.sizeY) * m.spriteSize * 0.5
	return core.IVec2{
		X: int(math.Floor((world.X + offsetX) / m.spriteSize)),
		Y: int(math.Floor((world.Y + offsetY) / m.spriteSize)),
	}
}

// WorldCoords converts a tile coordinate to the world position of its corner.
func (m *GameMap) WorldCoords(tile core.IVec2) core.Vec2 {
	return core.Vec2{
		X: float64(tile.X)*m.spriteSize - float64(m.sizeX)*m.spriteSize*0.5,
		Y: float64(tile.Y)*m.spriteSize - float64(m.sizeY)*m.spriteSize*0.5,
	}
}

// TileAtWorldPos returns the cell under a world position.
func (m *GameMap) TileAtWorldPos(world core.Vec2) (CellState, bool) {
	return m.Get(m.TileCoords(world))
}

// CellsWithinRange yields the on-map coordinates whose distance from center is
// at most radius, in row-major order. The sequence can be ranged repeatedly.
func (m *GameMap) CellsWithinRange(center core.IVec2, radius int) iter.Seq[core.IVec2] {
	return func(yield func(core.IVec2) bool) {
		if radius < 0 {
			return
		}
		r2 := radius * radius
		minY := max(center.Y-radius, 0)
		maxY := min(center.Y+radius, m.sizeY-1)
		minX := max(center.X-radius, 0)
		maxX := min(center.X+radius, m.sizeX-1)
		for y := minY; y <= maxY; y++ {
			for x := minX; x <= maxX; x++ {
				v := core.IVec2{X: x, Y: y}
				if v.DistanceSquared(center) > r2 {
					continue
				}
				if !yield(v) {
					return
				}
			}
		}
	}
}

// IsOnFire reports whether the cell at loc is burning.
func (m *GameMap) IsOnFire(loc core.IVec2) bool {
	cell, ok := m.Get(loc)
	return ok && cell.Terrain == Fire
}

// CheckOnFire reports whether any of locs is burning.
func (m *GameMap) CheckOnFire(locs ...core.IVec2) bool {
	for _, loc := range locs {
		if m.IsOnFire(loc) {
			return true
		}
	}
	return false
}

// AnyOnFire reports whether any cell on the map is burning.
func (m *GameMap) AnyOnFire() bool {
	for i := range m.cells {
		if m.cells[i].Terrain == Fire {
			return true
		}
	}
	return false
}

// CountOnFire returns the number of burning cells.
func (m *GameMap) CountOnFire() int {
	n := 0
	for i := range m.cells {
		if m.cells[i].Terrain == Fire {
			n++
		}
	}
	return n
}

// TakeChanged returns the coordinates of every dirty cell in row-major order
// and clears their flags. Renderers poll it once per frame.
func (m *GameMap) TakeChanged() []core.IVec2 {
	var changed []core.IVec2
	for i := range m.cells {
		if !m.cells[i].dirty {
			continue
		}
		m.cells[i].dirty = false
		changed = append(changed, core.IVec2{X: i % m.sizeX, Y: i / m.sizeX})
	}
	return changed
}

// MarkAllDirty flags every cell, forcing a full redraw on the next poll.
func (m *GameMap) MarkAllDirty() {
	for i := range m.cells {
		m.cells[i].dirty = true
	}
}

// Ignite sets an ignitable cell on fire. Anything else is left alone.
func (m *GameMap) Ignite(loc core.IVec2) bool {
	cell, ok := m.GetMut(loc)
	if !ok {
		m.log.Warn("ignition outside map", zap.Int("x", loc.X), zap.Int("y", loc.Y))
		return false
	}
	if !cell.Terrain.Ignitable() {
		return false
	}
	cell.Terrain = Fire
	cell.MarkDirty()
	m.log.Debug("cell ignited", zap.Int("x", loc.X), zap.Int("y", loc.Y))
	return true
}

// SetTerrain replaces the terrain of a cell.
func (m *GameMap) SetTerrain(loc core.IVec2, t TerrainType) bool {
	cell, ok := m.GetMut(loc)
	if !ok {
		return false
	}
	if cell.Terrain != t {
		cell.Terrain = t
		cell.MarkDirty()
	}
	return true
}

// AdjustMoisture adds delta to the moisture of a cell, clamped to [0, 1].
// Moisture tints vegetation so a visible change marks the cell dirty.
func (m *GameMap) AdjustMoisture(loc core.IVec2, delta float64) bool {
	cell, ok := m.GetMut(loc)
	if !ok {
		return false
	}
	before := cell.Moisture()
	if cell.AdjustMoisture(delta) != before {
		cell.MarkDirty()
	}
	return true
}

// AddLocalWind adds v to the local wind of every on-map cell in cells and
// returns how many were affected.
func (m *GameMap) AddLocalWind(cells iter.Seq[core.IVec2], v core.Vec2) int {
	n := 0
	for loc := range cells {
		cell, ok := m.GetMut(loc)
		if !ok {
			continue
		}
		cell.Wind = cell.Wind.Add(v)
		n++
	}
	return n
}

// FireFront returns the burning cells that still border vegetation, in
// row-major order.
func (m *GameMap) FireFront() []core.IVec2 {
	var front []core.IVec2
	for y := 0; y < m.sizeY; y++ {
		for x := 0; x < m.sizeX; x++ {
			if m.cells[y*m.sizeX+x].Terrain != Fire {
				continue
			}
			for _, off := range neighbourOffsets {
				nx, ny := x+off.X, y+off.Y
				if m.inBounds(nx, ny) && m.cells[ny*m.sizeX+nx].Terrain.Flammable() {
					front = append(front, core.IVec2{X: x, Y: y})
					break
				}
			}
		}
	}
	return front
}

// LocalWinds yields every cell carrying a local wind modifier, row-major.
func (m *GameMap) LocalWinds() iter.Seq2[core.IVec2, core.Vec2] {
	return func(yield func(core.IVec2, core.Vec2) bool) {
		for i := range m.cells {
			w := m.cells[i].Wind
			if w == (core.Vec2{}) {
				continue
			}
			if !yield(core.IVec2{X: i % m.sizeX, Y: i / m.sizeX}, w) {
				return
			}
		}
	}
}

// WindAt returns the effective wind of a cell given the global wind.
func (m *GameMap) WindAt(loc core.IVec2, global core.Vec2) core.Vec2 {
	cell, ok := m.Get(loc)
	if !ok {
		return global
	}
	return cell.Wind.Add(global)
}
