package wildfire

import (
	"slices"
	"testing"

	"wildfire-ca/internal/core"
)

func coord(x, y int) core.IVec2 { return core.IVec2{X: x, Y: y} }

func grassMap(w, h int, fuel uint8, opts ...Option) *GameMap {
	return NewUniformMap(8, w, h, CellState{Terrain: Grassland, FuelLoad: fuel}, opts...)
}

func TestBoundsSafety(t *testing.T) {
	m := grassMap(6, 4, 3)
	m.Ignite(coord(0, 0))
	for y := -3; y < 7; y++ {
		for x := -3; x < 9; x++ {
			loc := coord(x, y)
			inside := x >= 0 && y >= 0 && x < 6 && y < 4
			if _, ok := m.Get(loc); ok != inside {
				t.Fatalf("Get(%d,%d) ok=%v", x, y, ok)
			}
			if cell, ok := m.GetMut(loc); ok != inside || (!inside && cell != nil) {
				t.Fatalf("GetMut(%d,%d) ok=%v", x, y, ok)
			}
			if m.IsValidCoords(loc) != inside {
				t.Fatalf("IsValidCoords(%d,%d) wrong", x, y)
			}
			if !inside && m.IsOnFire(loc) {
				t.Fatalf("IsOnFire(%d,%d) true off map", x, y)
			}
			if !inside && (m.Ignite(loc) || m.SetTerrain(loc, Fire) || m.AdjustMoisture(loc, 1)) {
				t.Fatalf("command at (%d,%d) reported success off map", x, y)
			}
		}
	}
}

func TestTileAndWorldCoords(t *testing.T) {
	m := grassMap(4, 4, 1)
	if got := m.TileCoords(core.Vec2{}); got != coord(2, 2) {
		t.Fatalf("origin maps to %v, want (2,2)", got)
	}
	if got := m.TileCoords(core.Vec2{X: -16, Y: -16}); got != coord(0, 0) {
		t.Fatalf("bottom-left corner maps to %v", got)
	}
	if got := m.TileCoords(core.Vec2{X: -16.5, Y: 40}); got != coord(-1, 7) {
		t.Fatalf("off-map position maps to %v, want (-1,7)", got)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			world := m.WorldCoords(coord(x, y)).Add(core.Vec2{X: 4, Y: 4})
			if back := m.TileCoords(world); back != coord(x, y) {
				t.Fatalf("round trip (%d,%d) -> %v", x, y, back)
			}
		}
	}
	if _, ok := m.TileAtWorldPos(core.Vec2{X: 100, Y: 0}); ok {
		t.Fatal("expected no tile far outside the map")
	}
}

func TestCellsWithinRange(t *testing.T) {
	m := grassMap(5, 5, 1)
	got := slices.Collect(m.CellsWithinRange(coord(0, 0), 2))
	want := []core.IVec2{
		coord(0, 0), coord(1, 0), coord(2, 0),
		coord(0, 1), coord(1, 1),
		coord(0, 2),
	}
	if !slices.Equal(got, want) {
		t.Fatalf("corner range = %v, want %v", got, want)
	}

	seq := m.CellsWithinRange(coord(2, 2), 1)
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	if len(first) != 5 || !slices.Equal(first, second) {
		t.Fatalf("range not restartable: %v vs %v", first, second)
	}

	if n := len(slices.Collect(m.CellsWithinRange(coord(40, 40), 3))); n != 0 {
		t.Fatalf("far off-map center yielded %d cells", n)
	}
	if n := len(slices.Collect(m.CellsWithinRange(coord(2, 2), -1))); n != 0 {
		t.Fatalf("negative radius yielded %d cells", n)
	}

	count := 0
	for range m.CellsWithinRange(coord(2, 2), 10) {
		count++
		if count == 3 {
			break
		}
	}
	if count != 3 {
		t.Fatalf("early break yielded %d", count)
	}
}

func TestFireQueries(t *testing.T) {
	m := grassMap(4, 4, 2)
	if m.AnyOnFire() {
		t.Fatal("fresh map should not be burning")
	}
	m.Ignite(coord(3, 1))
	if !m.IsOnFire(coord(3, 1)) || !m.AnyOnFire() || m.CountOnFire() != 1 {
		t.Fatal("ignited cell not reported burning")
	}
	if !m.CheckOnFire(coord(0, 0), coord(3, 1), coord(-1, 9)) {
		t.Fatal("CheckOnFire missed the burning cell")
	}
	if m.CheckOnFire(coord(0, 0), coord(9, 9)) {
		t.Fatal("CheckOnFire reported fire on unburnt cells")
	}
}

func TestMoistureClamp(t *testing.T) {
	m := grassMap(1, 1, 1)
	rng := core.NewRNG(7)
	for i := 0; i < 5000; i++ {
		m.AdjustMoisture(coord(0, 0), rng.Range(-3, 3))
		cell, _ := m.Get(coord(0, 0))
		if cell.Moisture() < 0 || cell.Moisture() > 1 {
			t.Fatalf("moisture escaped [0,1]: %f", cell.Moisture())
		}
	}
	cell, _ := m.GetMut(coord(0, 0))
	cell.SetMoisture(2)
	if cell.Moisture() != 1 {
		t.Fatalf("SetMoisture(2) = %f", cell.Moisture())
	}
}

func TestIgniteOnlyIgnitable(t *testing.T) {
	m := grassMap(3, 1, 1)
	m.SetTerrain(coord(1, 0), Stone)
	m.SetTerrain(coord(2, 0), Building)
	m.TakeChanged()

	if m.Ignite(coord(1, 0)) {
		t.Fatal("stone must not ignite")
	}
	if !m.Ignite(coord(2, 0)) {
		t.Fatal("buildings ignite when struck")
	}
	if m.Ignite(coord(2, 0)) {
		t.Fatal("a burning cell cannot be ignited again")
	}
}

func TestTakeChanged(t *testing.T) {
	m := grassMap(4, 3, 1)
	if got := m.TakeChanged(); len(got) != 0 {
		t.Fatalf("fresh map reported changes %v", got)
	}
	m.Ignite(coord(2, 1))
	m.SetTerrain(coord(0, 0), Dirt)
	m.SetTerrain(coord(3, 2), Grassland) // unchanged terrain
	got := m.TakeChanged()
	want := []core.IVec2{coord(0, 0), coord(2, 1)}
	if !slices.Equal(got, want) {
		t.Fatalf("changed = %v, want %v", got, want)
	}
	if again := m.TakeChanged(); len(again) != 0 {
		t.Fatalf("flags not cleared: %v", again)
	}
}
