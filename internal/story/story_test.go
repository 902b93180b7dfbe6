package story

import (
	"os"
	"path/filepath"
	"testing"

	"wildfire-ca/internal/core"
	"wildfire-ca/internal/wildfire"
)

func TestLevelData(t *testing.T) {
	lvl, ok := LevelData(1)
	if !ok {
		t.Fatal("level 1 missing")
	}
	if lvl.MapSeed != wildfire.GoodSeeds[0] {
		t.Errorf("seed = %d", lvl.MapSeed)
	}
	if lvl.StartingLocation != (core.IVec2{X: 50, Y: 50}) {
		t.Errorf("start = %v", lvl.StartingLocation)
	}
	if len(lvl.Bolts) != 1 || lvl.Bolts[0].At != 10 || lvl.Bolts[0].Loc != (core.IVec2{X: 45, Y: 45}) {
		t.Errorf("bolts = %+v", lvl.Bolts)
	}

	lvl.Bolts[0].At = 99
	again, _ := LevelData(1)
	if again.Bolts[0].At != 10 {
		t.Fatal("LevelData leaked shared state")
	}

	if _, ok := LevelData(0); ok {
		t.Error("level 0 should not exist")
	}
	if _, ok := LevelData(LevelCount() + 1); ok {
		t.Error("level past the end should not exist")
	}
}

func TestLoadLevels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "levels.yaml")
	content := `
levels:
  - name: Custom
    map_seed: 1337
    start: {x: 10, y: 12}
    wind:
      angle: 270
      strength: 4
    bolts:
      - at: 20
        loc: {x: 3, y: 4}
      - at: 5
        loc: {x: 7, y: 8}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	levels, err := LoadLevels(path)
	if err != nil {
		t.Fatalf("LoadLevels: %v", err)
	}
	if len(levels) != 1 {
		t.Fatalf("got %d levels", len(levels))
	}
	lvl := levels[0]
	if lvl.Name != "Custom" || lvl.MapSeed != 1337 || lvl.StartingLocation != (core.IVec2{X: 10, Y: 12}) {
		t.Errorf("level = %+v", lvl)
	}
	if lvl.Wind == nil || lvl.Wind.Angle != 270 || lvl.Wind.Strength != 4 {
		t.Errorf("wind = %+v", lvl.Wind)
	}
	if len(lvl.Bolts) != 2 || lvl.Bolts[0].At != 5 || lvl.Bolts[1].Loc != (core.IVec2{X: 3, Y: 4}) {
		t.Errorf("bolts not ordered by time: %+v", lvl.Bolts)
	}
}

func TestLoadLevelsErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadLevels(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("levels: [unclosed"), 0o644)
	if _, err := LoadLevels(bad); err == nil {
		t.Error("expected parse error")
	}

	negative := filepath.Join(dir, "negative.yaml")
	os.WriteFile(negative, []byte("levels:\n  - name: x\n    bolts:\n      - at: -1\n"), 0o644)
	if _, err := LoadLevels(negative); err == nil {
		t.Error("expected error for negative bolt time")
	}
}

func TestSelect(t *testing.T) {
	if l, err := Select(0, ""); err != nil || l != nil {
		t.Fatalf("Select(0) = %v, %v", l, err)
	}
	l, err := Select(3, "")
	if err != nil || l.Name != "Dry Westerly" {
		t.Fatalf("Select(3) = %v, %v", l, err)
	}
	if _, err := Select(LevelCount()+1, ""); err == nil {
		t.Error("expected out of range error")
	}

	path := filepath.Join(t.TempDir(), "one.yaml")
	if err := os.WriteFile(path, []byte("levels:\n  - name: Custom\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l, err = Select(1, path)
	if err != nil || l.Name != "Custom" {
		t.Fatalf("Select(1, file) = %v, %v", l, err)
	}
	if _, err := Select(2, path); err == nil {
		t.Error("expected out of range error for file levels")
	}
}

func flammableTile(t *testing.T, sim *wildfire.Sim) core.IVec2 {
	t.Helper()
	size := sim.Size()
	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			loc := core.IVec2{X: x, Y: y}
			if c, _ := sim.Map().Get(loc); c.Terrain.Flammable() {
				return loc
			}
		}
	}
	t.Fatal("no vegetation on map")
	return core.IVec2{}
}

func newSim(seed int32) *wildfire.Sim {
	cfg := wildfire.DefaultConfig()
	cfg.Width, cfg.Height = 64, 64
	cfg.Seed = seed
	return wildfire.NewWithConfig(cfg, nil)
}

func mustSession(t *testing.T, lvl Level, sim *wildfire.Sim) *Session {
	t.Helper()
	s, err := NewSession(lvl, sim, nil)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func TestSessionRejectsInvalidLevel(t *testing.T) {
	sim := newSim(wildfire.GoodSeeds[0])
	for name, lvl := range map[string]Level{
		"negative bolt time": {MapSeed: wildfire.GoodSeeds[1], Bolts: []Bolt{{At: -1}}},
		"negative wind":      {MapSeed: wildfire.GoodSeeds[1], Wind: &WindPin{Strength: -2}},
	} {
		if _, err := NewSession(lvl, sim, nil); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
	if sim.Config().Seed != wildfire.GoodSeeds[0] {
		t.Fatalf("invalid level reset the sim to seed %d", sim.Config().Seed)
	}
}

func TestSessionReleasesBoltsOnSchedule(t *testing.T) {
	sim := newSim(wildfire.GoodSeeds[0])
	target := flammableTile(t, sim)
	lvl := Level{
		Name:             "schedule",
		MapSeed:          wildfire.GoodSeeds[0],
		StartingLocation: core.IVec2{X: -10, Y: -10},
		Bolts:            []Bolt{{At: 1, Loc: target}},
	}
	s := mustSession(t, lvl, sim)

	if struck := s.Advance(0.5); len(struck) != 0 {
		t.Fatalf("bolt fell early: %v", struck)
	}
	if s.Outcome() != Playing {
		t.Fatalf("outcome before the bolt = %v", s.Outcome())
	}
	struck := s.Advance(0.6)
	if len(struck) != 1 || struck[0] != target {
		t.Fatalf("struck = %v, want [%v]", struck, target)
	}
	if !sim.Map().IsOnFire(target) {
		t.Fatal("bolt did not ignite the target")
	}
	if s.Pending() != 0 || s.Outcome() != Playing {
		t.Fatalf("pending %d outcome %v", s.Pending(), s.Outcome())
	}
}

func TestSessionDefeatWhenHallBurns(t *testing.T) {
	sim := newSim(wildfire.GoodSeeds[0])
	target := flammableTile(t, sim)
	lvl := Level{
		MapSeed:          wildfire.GoodSeeds[0],
		StartingLocation: target,
		Bolts:            []Bolt{{At: 0, Loc: target}},
	}
	s := mustSession(t, lvl, sim)
	s.Advance(0)
	if s.Outcome() != Defeat {
		t.Fatalf("outcome = %v, want defeat", s.Outcome())
	}
	if s.Advance(5) != nil {
		t.Fatal("finished session kept striking")
	}
	for i := 0; i < 200; i++ {
		sim.Step()
	}
	if s.Outcome() != Defeat {
		t.Fatal("defeat must be final")
	}
}

func TestSessionVictoryWhenFireDies(t *testing.T) {
	sim := newSim(wildfire.GoodSeeds[0])
	lvl := Level{
		MapSeed:          wildfire.GoodSeeds[0],
		StartingLocation: core.IVec2{X: 30, Y: 30},
		Bolts:            []Bolt{{At: 2, Loc: core.IVec2{X: -5, Y: -5}}},
	}
	s := mustSession(t, lvl, sim)
	s.Advance(1)
	if s.Outcome() != Playing {
		t.Fatalf("outcome with bolts pending = %v", s.Outcome())
	}
	s.Advance(1)
	if s.Outcome() != Victory {
		t.Fatalf("outcome = %v, want victory", s.Outcome())
	}
	if s.Elapsed() != 2 {
		t.Fatalf("elapsed = %f", s.Elapsed())
	}
}

func TestSessionPinsWind(t *testing.T) {
	sim := newSim(wildfire.GoodSeeds[1])
	lvl, _ := LevelData(3)
	mustSession(t, lvl, sim)
	w := sim.Wind()
	if !w.Overridden() || w.Angle() != lvl.Wind.Angle || w.Strength() != lvl.Wind.Strength {
		t.Fatalf("wind = %+v", w.State())
	}
	if sim.Config().Seed != lvl.MapSeed {
		t.Fatalf("sim seed = %d, want %d", sim.Config().Seed, lvl.MapSeed)
	}
}

func TestOutcomeString(t *testing.T) {
	if Playing.String() != "playing" || Defeat.String() != "defeat" || Victory.String() != "victory" {
		t.Fatal("unexpected outcome names")
	}
}
