package wildfire

import (
	"slices"
	"testing"

	"wildfire-ca/internal/core"
)

func TestLightning(t *testing.T) {
	m := grassMap(4, 4, 2)
	m.SetTerrain(coord(1, 1), Stone)
	if !Lightning(m, coord(0, 0)) || !m.IsOnFire(coord(0, 0)) {
		t.Fatal("lightning should ignite grassland")
	}
	if Lightning(m, coord(1, 1)) || m.IsOnFire(coord(1, 1)) {
		t.Fatal("lightning must not ignite stone")
	}
	if Lightning(m, coord(-1, 0)) {
		t.Fatal("lightning off the map reported success")
	}
}

func TestMeteorNeedsVegetation(t *testing.T) {
	m := NewUniformMap(8, 20, 20, CellState{Terrain: Stone, FuelLoad: 4})
	if got := Meteor(m, core.NewRNG(1), coord(10, 10)); got != nil {
		t.Fatalf("meteor on stone lit %v", got)
	}
	if got := Meteor(m, core.NewRNG(1), coord(40, 40)); got != nil {
		t.Fatalf("meteor off the map lit %v", got)
	}
	if m.AnyOnFire() {
		t.Fatal("stone map caught fire")
	}
}

func TestMeteorScattersFires(t *testing.T) {
	center := coord(10, 10)
	for seed := int64(0); seed < 200; seed++ {
		m := grassMap(20, 20, 3)
		lit := Meteor(m, core.NewRNG(seed), center)
		if len(lit) < 2 || len(lit) > 4 {
			t.Fatalf("seed %d: %d fires", seed, len(lit))
		}
		for _, loc := range lit {
			if loc.DistanceSquared(center) > 25 {
				t.Fatalf("seed %d: fire at %v outside the crater", seed, loc)
			}
			if !m.IsOnFire(loc) {
				t.Fatalf("seed %d: %v reported lit but not burning", seed, loc)
			}
		}
	}
}

func TestMeteorOnlyTargetsIgnitable(t *testing.T) {
	m := NewUniformMap(8, 11, 11, CellState{Terrain: Stone})
	m.SetTerrain(coord(5, 5), Tree)
	m.SetTerrain(coord(7, 5), Building)
	m.SetTerrain(coord(9, 9), Grassland) // outside radius
	lit := Meteor(m, nil, coord(5, 5))
	for _, loc := range lit {
		if loc != coord(5, 5) && loc != coord(7, 5) {
			t.Fatalf("meteor lit %v", loc)
		}
	}
	if m.IsOnFire(coord(9, 9)) {
		t.Fatal("meteor reached beyond its radius")
	}
}

func TestChainFires(t *testing.T) {
	origin := coord(50, 50)
	for seed := int64(0); seed < 200; seed++ {
		m := NewUniformMap(8, 100, 100, CellState{Terrain: Dirt})
		lit := ChainFires(m, core.NewRNG(seed), origin)
		if len(lit) < 2 || len(lit) > 6 {
			t.Fatalf("seed %d: %d fires", seed, len(lit))
		}
		for _, loc := range lit {
			dx, dy := loc.X-origin.X, loc.Y-origin.Y
			if dx < -14 || dx > 14 || dy < -14 || dy > 13 {
				t.Fatalf("seed %d: fire offset (%d,%d) out of range", seed, dx, dy)
			}
			if !m.IsOnFire(loc) {
				t.Fatalf("seed %d: %v not burning", seed, loc)
			}
		}
	}

	m := grassMap(4, 4, 1)
	for seed := int64(0); seed < 50; seed++ {
		for _, loc := range ChainFires(m, core.NewRNG(seed), coord(0, 0)) {
			if !m.IsValidCoords(loc) {
				t.Fatalf("off-map fireball reported at %v", loc)
			}
		}
	}
}

func TestStormFront(t *testing.T) {
	origin := coord(20, 20)
	cells := slices.Collect(StormFront(origin, FacingRight, 2))
	if len(cells) != 50 {
		t.Fatalf("storm front covers %d cells, want 50", len(cells))
	}
	for _, c := range cells {
		if dx := c.X - origin.X; dx < 1 || dx > 10 {
			t.Fatalf("right-facing cell %v", c)
		}
		if dy := c.Y - origin.Y; dy < -2 || dy > 2 {
			t.Fatalf("right-facing cell %v too wide", c)
		}
	}
	for c := range StormFront(origin, FacingDown, 0) {
		if dy := c.Y - origin.Y; c.X != origin.X || dy < -10 || dy > -1 {
			t.Fatalf("down-facing cell %v", c)
		}
	}
	if FacingDown.Next() != FacingRight || FacingRight.Next() != FacingUp {
		t.Fatal("facing rotation broken")
	}
}

func TestAddLocalWind(t *testing.T) {
	m := grassMap(5, 5, 1)
	n := m.AddLocalWind(StormFront(coord(0, 2), FacingRight, 1), core.Vec2{X: 5})
	if n != 12 {
		t.Fatalf("affected %d cells, want 12", n)
	}
	if got := m.WindAt(coord(1, 2), core.Vec2{X: 1}); got != (core.Vec2{X: 6}) {
		t.Fatalf("wind at storm cell = %+v", got)
	}
	if got := m.WindAt(coord(0, 2), core.Vec2{X: 1}); got != (core.Vec2{X: 1}) {
		t.Fatalf("wind behind the mage = %+v", got)
	}
}

func TestVegetationEffects(t *testing.T) {
	m := grassMap(3, 1, 2)
	m.SetTerrain(coord(0, 0), Tree)
	m.SetTerrain(coord(2, 0), Stone)
	m.TakeChanged()

	if !m.Harvest(coord(0, 0)) {
		t.Fatal("harvest should fell the tree")
	}
	if m.Harvest(coord(0, 0)) {
		t.Fatal("grassland has no timber")
	}
	if got, ok := m.Trample(coord(0, 0)); !ok || got != Dirt {
		t.Fatalf("trample grassland = %v/%v", got, ok)
	}
	if got, ok := m.Trample(coord(2, 0)); ok || got != Stone {
		t.Fatalf("trample stone = %v/%v", got, ok)
	}

	if !m.Moisten(coord(1, 0)) {
		t.Fatal("grassland should take water")
	}
	if c, _ := m.Get(coord(1, 0)); c.Moisture() != 0.2 {
		t.Fatalf("moisture = %f", c.Moisture())
	}
	if m.Moisten(coord(2, 0)) {
		t.Fatal("stone must not hold water")
	}
	if got := m.TakeChanged(); !slices.Equal(got, []core.IVec2{coord(0, 0), coord(1, 0)}) {
		t.Fatalf("changed = %v", got)
	}
}
