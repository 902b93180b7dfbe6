package wildfire

import (
	"go.uber.org/zap"

	"wildfire-ca/internal/core"
)

const (
	meteorRadius   = 5
	meteorFiresMin = 2
	meteorFiresMax = 4

	chainFiresMin = 2
	chainFiresMax = 6
	chainSpread   = 14
)

// Lightning strikes a single cell, igniting it when it can burn.
func Lightning(m *GameMap, loc core.IVec2) bool {
	return m.Ignite(loc)
}

// Meteor strikes loc. Only vegetation attracts an impact; when it lands it
// scatters a few fires across burnable cells around the crater and returns
// where they started. Picks may repeat.
func Meteor(m *GameMap, rng *core.RNG, loc core.IVec2) []core.IVec2 {
	cell, ok := m.Get(loc)
	if !ok {
		m.log.Info("no cell for meteor strike", zap.Int("x", loc.X), zap.Int("y", loc.Y))
		return nil
	}
	if !cell.Terrain.Flammable() {
		return nil
	}
	if rng == nil {
		rng = m.rng
	}

	var targets []core.IVec2
	for c := range m.CellsWithinRange(loc, meteorRadius) {
		if t, _ := m.Get(c); t.Terrain.Ignitable() {
			targets = append(targets, c)
		}
	}
	if len(targets) == 0 {
		return nil
	}

	n := rng.IntRange(meteorFiresMin, meteorFiresMax)
	lit := make([]core.IVec2, 0, n)
	for i := 0; i < n; i++ {
		target := targets[rng.IntN(len(targets))]
		m.SetTerrain(target, Fire)
		lit = append(lit, target)
	}
	m.log.Debug("meteor impact", zap.Int("x", loc.X), zap.Int("y", loc.Y), zap.Int("fires", len(lit)))
	return lit
}

// ChainFires throws fireballs out of an exploding structure at origin. Each
// lands at a random offset and sets whatever is there alight; fireballs that
// leave the map are lost.
func ChainFires(m *GameMap, rng *core.RNG, origin core.IVec2) []core.IVec2 {
	if rng == nil {
		rng = m.rng
	}
	n := rng.IntRange(chainFiresMin, chainFiresMax)
	var lit []core.IVec2
	for i := 0; i < n; i++ {
		target := origin.Add(core.IVec2{
			X: rng.IntRange(-chainSpread, chainSpread),
			Y: rng.IntRange(-chainSpread, chainSpread-1),
		})
		if m.SetTerrain(target, Fire) {
			lit = append(lit, target)
		}
	}
	m.log.Debug("chain fires", zap.Int("x", origin.X), zap.Int("y", origin.Y), zap.Int("fires", len(lit)))
	return lit
}
