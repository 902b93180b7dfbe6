package wildfire

import "wildfire-ca/internal/core"

// CellState is the per-cell simulation state. Cells are owned by a GameMap and
// handed out by pointer only for the duration of a command.
type CellState struct {
	Terrain  TerrainType
	FuelLoad uint8
	// Wind is the local modifier added to the global wind for this cell, for
	// example by a storm mage.
	Wind core.Vec2

	moisture float64
	dirty    bool
}

// Moisture returns the cell moisture in [0, 1].
func (c *CellState) Moisture() float64 { return c.moisture }

// SetMoisture stores v clamped to [0, 1].
func (c *CellState) SetMoisture(v float64) {
	c.moisture = clamp01(v)
}

// AdjustMoisture adds delta, clamps, and returns the new moisture.
func (c *CellState) AdjustMoisture(delta float64) float64 {
	c.moisture = clamp01(c.moisture + delta)
	return c.moisture
}

// MarkDirty flags the cell as visually changed since the last render poll.
// Anything that changes the terrain of a cell must call it.
func (c *CellState) MarkDirty() { c.dirty = true }

// Dirty reports whether the cell changed since the last poll.
func (c *CellState) Dirty() bool { return c.dirty }

// burnFuel consumes one unit of fuel and reports whether the cell is spent.
func (c *CellState) burnFuel() bool {
	if c.FuelLoad > 0 {
		c.FuelLoad--
	}
	return c.FuelLoad == 0
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	case v != v:
		return 0
	}
	return v
}
