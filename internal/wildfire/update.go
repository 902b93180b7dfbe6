package wildfire

import (
	"math"

	"wildfire-ca/internal/core"
)

const neighbourhoodSize = 8

// neighbourOffsets walks the Moore neighbourhood starting left and turning
// clockwise (y grows upward).
var neighbourOffsets = [neighbourhoodSize]core.IVec2{
	{X: -1, Y: 0},  // left
	{X: -1, Y: 1},  // top left
	{X: 0, Y: 1},   // top
	{X: 1, Y: 1},   // top right
	{X: 1, Y: 0},   // right
	{X: 1, Y: -1},  // bottom right
	{X: 0, Y: -1},  // bottom
	{X: -1, Y: -1}, // bottom left
}

// spreadDirections[i] points from neighbour i toward the cell being tested,
// the direction fire travels when it jumps from that neighbour.
var spreadDirections = func() [neighbourhoodSize]core.Vec2 {
	var dirs [neighbourhoodSize]core.Vec2
	for i, off := range neighbourOffsets {
		dirs[i] = core.Vec2{X: float64(-off.X), Y: float64(-off.Y)}
	}
	return dirs
}()

// Update advances the automaton by one tick under the given global wind.
//
// Cells are visited row-major and, unless Params.Buffered is set, read and
// written in place: a cell ignited early in the sweep already counts as
// burning for cells visited after it in the same tick.
func (m *GameMap) Update(globalWind core.Vec2) {
	burning := m.burningReader()
	for y := 0; y < m.sizeY; y++ {
		for x := 0; x < m.sizeX; x++ {
			cell := &m.cells[y*m.sizeX+x]
			before := DisplayValue(cell)
			switch cell.Terrain {
			case Fire:
				m.decay(cell)
			case Grassland, Tree:
				m.spread(cell, x, y, globalWind, burning)
			case Dirt, Stone, Smoldering, Building:
				// inert
			}
			// fuel burn and moisture drain shift the shade without a terrain change
			if DisplayValue(cell) != before {
				cell.MarkDirty()
			}
		}
	}
}

// burningReader returns the neighbour fire predicate for this tick.
func (m *GameMap) burningReader() func(idx int) bool {
	if !m.params.Buffered {
		return func(idx int) bool { return m.cells[idx].Terrain == Fire }
	}
	if len(m.scratch) != len(m.cells) {
		m.scratch = make([]TerrainType, len(m.cells))
	}
	for i := range m.cells {
		m.scratch[i] = m.cells[i].Terrain
	}
	return func(idx int) bool { return m.scratch[idx] == Fire }
}

func (m *GameMap) decay(cell *CellState) {
	if !m.rng.Chance(m.params.BurnDecayRate) {
		return
	}
	if cell.burnFuel() {
		cell.Terrain = Smoldering
	}
}

// spread runs the ignition test of a flammable cell against each burning
// neighbour. A cell catches from at most one neighbour per tick.
func (m *GameMap) spread(cell *CellState, x, y int, globalWind core.Vec2, burning func(int) bool) {
	wind := cell.Wind.Add(globalWind)
	for i, off := range neighbourOffsets {
		nx, ny := x+off.X, y+off.Y
		if !m.inBounds(nx, ny) || !burning(ny*m.sizeX+nx) {
			continue
		}

		cell.AdjustMoisture(-m.params.MoistureDecayRate)

		if !m.rng.Chance(m.params.FireSpreadChance) {
			continue
		}
		chance := m.params.BurnChance(cell.Terrain.BurnRate(), cell.Moisture(), wind, spreadDirections[i])
		// a second uniform draw softens the edge of the fire front
		if m.rng.Chance(chance * m.rng.Float64()) {
			cell.Terrain = Fire
			return
		}
	}
}

// BurnChance is the probability that fire jumps into a cell with the given base
// burn rate and moisture when travelling along spread under wind. Fire moving
// with the wind keeps the full base chance; any angle away from it is
// penalised, increasingly so for strong wind.
func (p Params) BurnChance(rate, moisture float64, wind, spread core.Vec2) float64 {
	strength := wind.Length()
	windFactor := 0.0
	if d := math.Cos(wind.AngleTo(spread)) - 1; d != 0 {
		windFactor = strength * p.WindAngleScale * d * math.Exp(p.WindGrowth*strength)
	}
	chance := rate * (1 - moisture) * (1 + windFactor)
	if math.IsNaN(chance) {
		return 0
	}
	return math.Max(0, math.Min(1, chance))
}
