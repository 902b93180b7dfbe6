package wildfire

import (
	"slices"
	"testing"

	"wildfire-ca/internal/core"
)

func TestRegistered(t *testing.T) {
	factory, ok := core.Lookup("wildfire")
	if !ok {
		t.Fatal("wildfire not registered")
	}
	sim := factory(map[string]string{"w": "32", "h": "16", "seed": "1337"})
	if size := sim.Size(); size.W != 32 || size.H != 16 {
		t.Fatalf("size = %+v", size)
	}
	if len(sim.Cells()) != 32*16 {
		t.Fatalf("cells = %d", len(sim.Cells()))
	}
}

func firstFlammable(t *testing.T, m *GameMap) core.IVec2 {
	t.Helper()
	size := m.Size()
	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			if c, _ := m.Get(coord(x, y)); c.Terrain.Flammable() {
				return coord(x, y)
			}
		}
	}
	t.Fatal("map has no vegetation")
	return core.IVec2{}
}

func TestStrikeUpdatesDisplay(t *testing.T) {
	s := New(48, 48)
	if len(s.Changed()) != 48*48 {
		t.Fatalf("reset reported %d changed cells", len(s.Changed()))
	}
	loc := firstFlammable(t, s.Map())
	if !s.Strike(loc.X, loc.Y) {
		t.Fatal("strike failed on vegetation")
	}
	s.Sync()
	if !slices.Equal(s.Changed(), []core.IVec2{loc}) {
		t.Fatalf("changed = %v, want [%v]", s.Changed(), loc)
	}
	cell, _ := s.Map().GetMut(loc)
	if got := s.Cells()[loc.Y*48+loc.X]; got != DisplayValue(cell) || got/shadeLevels != uint8(Fire) {
		t.Fatalf("display value %d does not show fire", got)
	}
}

func TestStepDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 40, 40
	a := NewWithConfig(cfg, nil)
	b := NewWithConfig(cfg, nil)
	loc := firstFlammable(t, a.Map())
	a.Strike(loc.X, loc.Y)
	b.Strike(loc.X, loc.Y)
	for i := 0; i < 60; i++ {
		a.Step()
		b.Step()
	}
	if a.Tick() != 60 {
		t.Fatalf("tick = %d", a.Tick())
	}
	if !slices.Equal(a.Cells(), b.Cells()) {
		t.Fatal("identical sims diverged")
	}
	if a.Wind().State() != b.Wind().State() {
		t.Fatal("wind diverged")
	}

	a.Reset(int64(GoodSeeds[3]))
	if a.Tick() != 0 || a.Config().Seed != GoodSeeds[3] || a.Map().AnyOnFire() {
		t.Fatal("reset did not start a fresh map")
	}
}

func TestParameterSetters(t *testing.T) {
	s := New(16, 16)
	if !s.SetFloatParameter("fire_spread_chance", 3) {
		t.Fatal("fire_spread_chance not accepted")
	}
	if got := s.Map().Params().FireSpreadChance; got != 1 {
		t.Fatalf("spread chance = %f, want clamp to 1", got)
	}
	if s.SetFloatParameter("nope", 1) {
		t.Fatal("unknown key accepted")
	}
	if !s.SetFloatParameter("wind_strength", 7) || !s.Wind().Overridden() || s.Wind().Strength() != 7 {
		t.Fatal("wind strength did not pin the wind")
	}
	if p, ok := s.Parameters().Lookup("wind_pinned"); !ok || p.Value != "true" {
		t.Fatalf("wind_pinned = %+v", p)
	}
	if !s.SetBoolParameter("wind_pinned", false) || s.Wind().Overridden() {
		t.Fatal("wind did not release")
	}
	if !s.SetBoolParameter("buffered", true) || !s.Map().Params().Buffered {
		t.Fatal("buffered toggle ignored")
	}
	if p, ok := s.Parameters().Lookup("buffered"); !ok || p.Value != "true" {
		t.Fatalf("buffered = %+v", p)
	}
}

func TestMoistureMask(t *testing.T) {
	s := New(24, 24)
	mask := s.MoistureMask()
	if len(mask) != 24*24 {
		t.Fatalf("mask = %d", len(mask))
	}
	for i, v := range mask {
		if v < 0 || v > 1 {
			t.Fatalf("mask[%d] = %f", i, v)
		}
	}
}

func TestSimCommands(t *testing.T) {
	s := New(48, 48)
	if got := s.Gust(5, 10, FacingRight); got != 50 {
		t.Fatalf("gust touched %d cells, want 50", got)
	}
	gusts := 0
	for loc, w := range s.LocalWinds() {
		if loc.X <= 5 || w.X <= 0 || w.Y != 0 {
			t.Fatalf("gust left %v at %v", w, loc)
		}
		gusts++
	}
	if gusts != 50 {
		t.Fatalf("%d cells carry local wind, want 50", gusts)
	}
	if got := s.Gust(-40, -40, FacingDown); got != 0 {
		t.Fatalf("off-map gust touched %d cells", got)
	}

	loc := firstFlammable(t, s.Map())
	before, _ := s.Map().Get(loc)
	if !s.Dampen(loc.X, loc.Y) {
		t.Fatal("dampen failed on vegetation")
	}
	after, _ := s.Map().Get(loc)
	if after.Moisture() < before.Moisture() {
		t.Fatalf("moisture fell from %f to %f", before.Moisture(), after.Moisture())
	}
	if s.Explode(-100, -100) != 0 {
		t.Fatal("explosion far off the map lit fires")
	}
}

func TestFireMask(t *testing.T) {
	s := New(24, 24)
	for i, v := range s.FireMask() {
		if v != 0 {
			t.Fatalf("fresh map mask[%d] = %f", i, v)
		}
	}
	loc := firstFlammable(t, s.Map())
	s.Strike(loc.X, loc.Y)
	mask := s.FireMask()
	if v := mask[loc.Y*24+loc.X]; v <= 0 || v > 1 {
		t.Fatalf("burning cell mask = %f", v)
	}
}

func TestFireFront(t *testing.T) {
	m := grassMap(5, 5, 4)
	for y := 0; y < 5; y++ {
		for x := 0; x < 3; x++ {
			m.SetTerrain(coord(x, y), Fire)
		}
	}
	m.SetTerrain(coord(4, 4), Dirt)
	s := New(5, 5)
	s.Adopt(m, NewWindDirection(DefaultWindParams(), 0, 0, m.RNG()), 0)

	want := []core.IVec2{coord(2, 0), coord(2, 1), coord(2, 2), coord(2, 3), coord(2, 4)}
	if got := s.FireFront(); !slices.Equal(got, want) {
		t.Fatalf("front = %v, want %v", got, want)
	}
	for y := 0; y < 5; y++ {
		m.SetTerrain(coord(3, y), Stone)
		m.SetTerrain(coord(4, y), Stone)
	}
	if got := s.FireFront(); len(got) != 0 {
		t.Fatalf("fire boxed in by stone still has a front: %v", got)
	}
}

func TestTerrainBandsMatchGeneration(t *testing.T) {
	s := New(20, 20)
	bands := s.TerrainBands()
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			terrain, _ := NewNoiseMap(s.Map().Seed()).Sample(x, y)
			if bands[y*20+x] != uint8(terrain) {
				t.Fatalf("band at (%d,%d) = %d, want %v", x, y, bands[y*20+x], terrain)
			}
		}
	}
	m := s.Map()
	loc := firstFlammable(t, m)
	before := bands[loc.Y*20+loc.X]
	m.SetTerrain(loc, Fire)
	if s.TerrainBands()[loc.Y*20+loc.X] != before {
		t.Fatal("bands follow live terrain")
	}

	s.Reset(int64(GoodSeeds[1]))
	if got, _ := NewNoiseMap(GoodSeeds[1]).Sample(0, 0); s.TerrainBands()[0] != uint8(got) {
		t.Fatal("bands not refreshed after reset")
	}
}

func TestFromMap(t *testing.T) {
	cfg := FromMap(map[string]string{
		"w":                  "64",
		"h":                  "-3",
		"seed":               "-787500401",
		"tps":                "20",
		"burn_decay_rate":    "0.5",
		"buffered":           "true",
		"wind_angle":         "-90",
		"wind_max_speed":     "20",
		"fire_spread_chance": "garbage",
	})
	def := DefaultConfig()
	if cfg.Width != 64 || cfg.Height != def.Height {
		t.Fatalf("size = %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Seed != -787500401 || cfg.TPS != 20 {
		t.Fatalf("seed/tps = %d/%d", cfg.Seed, cfg.TPS)
	}
	if cfg.Params.BurnDecayRate != 0.5 || !cfg.Params.Buffered || cfg.Params.FireSpreadChance != def.Params.FireSpreadChance {
		t.Fatalf("params = %+v", cfg.Params)
	}
	if cfg.WindAngle != 270 || cfg.Wind.MaxSpeed != 20 {
		t.Fatalf("wind = %f/%f", cfg.WindAngle, cfg.Wind.MaxSpeed)
	}
}

func TestTerrainNames(t *testing.T) {
	for tt := Dirt; tt < terrainCount; tt++ {
		text, err := tt.MarshalText()
		if err != nil {
			t.Fatalf("marshal %d: %v", tt, err)
		}
		var back TerrainType
		if err := back.UnmarshalText(text); err != nil || back != tt {
			t.Fatalf("round trip %v -> %q -> %v (%v)", tt, text, back, err)
		}
	}
	if _, err := terrainCount.MarshalText(); err == nil {
		t.Fatal("expected error for unknown terrain")
	}
	var tt TerrainType
	if err := tt.UnmarshalText([]byte("lava")); err == nil {
		t.Fatal("expected error for unknown name")
	}
}

func TestPaletteCoversDisplayValues(t *testing.T) {
	palette := Palette()
	for tt := Dirt; tt < terrainCount; tt++ {
		for _, fuel := range []uint8{0, 5, 24, 255} {
			c := CellState{Terrain: tt, FuelLoad: fuel}
			c.SetMoisture(1)
			if v := int(DisplayValue(&c)); v >= len(palette) {
				t.Fatalf("%v fuel %d -> index %d beyond palette %d", tt, fuel, v, len(palette))
			}
		}
	}
}

func assertDisplayMatches(t *testing.T, s *Sim) {
	t.Helper()
	size := s.Size()
	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			cell, _ := s.Map().GetMut(coord(x, y))
			if got, want := s.Cells()[y*size.W+x], DisplayValue(cell); got != want {
				t.Fatalf("tick %d: display at (%d,%d) = %d, cell shows %d", s.Tick(), x, y, got, want)
			}
		}
	}
}

func TestDisplayTracksFuelAndMoisture(t *testing.T) {
	params := DefaultParams()
	params.BurnDecayRate = 1
	params.FireSpreadChance = 0
	params.MoistureDecayRate = 0.05
	m := NewUniformMap(8, 3, 1, CellState{Terrain: Grassland, FuelLoad: 5, moisture: 0.9},
		WithParams(params), WithRNG(core.NewRNG(4)))
	fire, _ := m.GetMut(coord(1, 0))
	fire.Terrain = Fire
	fire.FuelLoad = maxTreeFuel

	s := New(3, 1)
	s.Adopt(m, NewWindDirection(DefaultWindParams(), 0, 0, m.RNG()), 0)
	start := slices.Clone(s.Cells())
	for range 8 {
		s.Step()
		assertDisplayMatches(t, s)
	}
	if slices.Equal(start, s.Cells()) {
		t.Fatal("fuel burn and moisture drain left every shade unchanged")
	}
}

func TestDisplayTracksRandomMap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 48, 48
	cfg.Seed = 91
	s := NewWithConfig(cfg, nil)
	for i := 0; i < 48; i += 6 {
		s.StrikeMeteor(i, i)
	}
	s.Sync()
	for range 40 {
		s.Step()
	}
	assertDisplayMatches(t, s)
}
