package wildfire

import (
	"iter"

	"wildfire-ca/internal/core"
)

// Facing is the direction a storm mage blows.
type Facing uint8

const (
	FacingRight Facing = iota
	FacingUp
	FacingLeft
	FacingDown
)

// Next rotates a quarter turn counter-clockwise.
func (f Facing) Next() Facing { return (f + 1) % 4 }

// Vec returns the unit vector of the facing.
func (f Facing) Vec() core.Vec2 {
	switch f {
	case FacingUp:
		return core.Vec2{Y: 1}
	case FacingLeft:
		return core.Vec2{X: -1}
	case FacingDown:
		return core.Vec2{Y: -1}
	default:
		return core.Vec2{X: 1}
	}
}

const stormReach = 10

// StormFront yields the cells a storm mage at origin pushes wind across: a band
// stormReach cells deep in front of it and 2*halfWidth+1 cells wide. Cells off
// the map are included; AddLocalWind skips them.
func StormFront(origin core.IVec2, facing Facing, halfWidth int) iter.Seq[core.IVec2] {
	return func(yield func(core.IVec2) bool) {
		for depth := 1; depth <= stormReach; depth++ {
			for side := -halfWidth; side <= halfWidth; side++ {
				var off core.IVec2
				switch facing {
				case FacingUp:
					off = core.IVec2{X: side, Y: depth}
				case FacingLeft:
					off = core.IVec2{X: -depth, Y: side}
				case FacingDown:
					off = core.IVec2{X: side, Y: -depth}
				default:
					off = core.IVec2{X: depth, Y: side}
				}
				if !yield(origin.Add(off)) {
					return
				}
			}
		}
	}
}

// Harvest fells a tree, leaving grassland. It reports whether timber was cut.
func (m *GameMap) Harvest(loc core.IVec2) bool {
	cell, ok := m.GetMut(loc)
	if !ok || cell.Terrain != Tree {
		return false
	}
	cell.Terrain = Grassland
	cell.MarkDirty()
	return true
}

// Trample clears vegetation one stage: trees to grassland, grassland to dirt.
// It returns the resulting terrain and whether anything changed.
func (m *GameMap) Trample(loc core.IVec2) (TerrainType, bool) {
	cell, ok := m.GetMut(loc)
	if !ok {
		return Dirt, false
	}
	switch cell.Terrain {
	case Tree:
		cell.Terrain = Grassland
	case Grassland:
		cell.Terrain = Dirt
	case Dirt, Stone, Building, Fire, Smoldering:
		return cell.Terrain, false
	}
	cell.MarkDirty()
	return cell.Terrain, true
}

const moistenAmount = 0.2

// Moisten waters vegetation. Other terrain does not hold water.
func (m *GameMap) Moisten(loc core.IVec2) bool {
	cell, ok := m.Get(loc)
	if !ok || !cell.Terrain.Flammable() {
		return false
	}
	return m.AdjustMoisture(loc, moistenAmount)
}
