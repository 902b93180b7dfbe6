// Package story scripts fixed scenarios on top of the wildfire automaton: a
// known map seed, a city hall to protect and a schedule of lightning bolts.
package story

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"wildfire-ca/internal/core"
	"wildfire-ca/internal/wildfire"
)

// Bolt is a lightning strike due At seconds after the level starts.
type Bolt struct {
	At  float64    `yaml:"at"`
	Loc core.IVec2 `yaml:"loc"`
}

// WindPin fixes the global wind for the whole level.
type WindPin struct {
	Angle    float64 `yaml:"angle"`
	Strength float64 `yaml:"strength"`
}

// Level describes one story scenario.
type Level struct {
	Name    string `yaml:"name"`
	MapSeed int32  `yaml:"map_seed"`
	// StartingLocation is the bottom-left tile of the 2x2 city hall.
	StartingLocation core.IVec2 `yaml:"start"`
	Bolts            []Bolt     `yaml:"bolts"`
	Wind             *WindPin   `yaml:"wind,omitempty"`
}

var builtin = []Level{
	{
		Name:             "First Spark",
		MapSeed:          wildfire.GoodSeeds[0],
		StartingLocation: core.IVec2{X: 50, Y: 50},
		Bolts:            []Bolt{{At: 10, Loc: core.IVec2{X: 45, Y: 45}}},
	},
	{
		Name:             "Crossfire",
		MapSeed:          wildfire.GoodSeeds[2],
		StartingLocation: core.IVec2{X: 128, Y: 128},
		Bolts: []Bolt{
			{At: 8, Loc: core.IVec2{X: 110, Y: 120}},
			{At: 20, Loc: core.IVec2{X: 150, Y: 140}},
		},
	},
	{
		Name:             "Dry Westerly",
		MapSeed:          wildfire.GoodSeeds[4],
		StartingLocation: core.IVec2{X: 180, Y: 96},
		Bolts: []Bolt{
			{At: 5, Loc: core.IVec2{X: 120, Y: 90}},
			{At: 15, Loc: core.IVec2{X: 130, Y: 110}},
			{At: 30, Loc: core.IVec2{X: 100, Y: 80}},
		},
		Wind: &WindPin{Angle: 0, Strength: 8},
	},
}

// LevelData returns built-in level n, counting from 1.
func LevelData(n int) (Level, bool) {
	if n < 1 || n > len(builtin) {
		return Level{}, false
	}
	return builtin[n-1].clone(), true
}

// LevelCount returns the number of built-in levels.
func LevelCount() int { return len(builtin) }

// Select picks level n, counting from 1, from levelsFile when set or from the
// built-in levels otherwise. n == 0 means free play and returns nil.
func Select(n int, levelsFile string) (*Level, error) {
	if n == 0 {
		return nil, nil
	}
	levels := builtin
	if levelsFile != "" {
		loaded, err := LoadLevels(levelsFile)
		if err != nil {
			return nil, err
		}
		levels = loaded
	}
	if n < 1 || n > len(levels) {
		return nil, fmt.Errorf("level %d out of range 1..%d", n, len(levels))
	}
	l := levels[n-1].clone()
	return &l, nil
}

type levelFile struct {
	Levels []Level `yaml:"levels"`
}

// LoadLevels reads a YAML level list from path.
func LoadLevels(path string) ([]Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading levels: %w", err)
	}
	var file levelFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing levels %s: %w", path, err)
	}
	for i := range file.Levels {
		if err := file.Levels[i].normalise(); err != nil {
			return nil, fmt.Errorf("level %d (%s): %w", i+1, file.Levels[i].Name, err)
		}
	}
	return file.Levels, nil
}

// normalise orders bolts by due time and rejects impossible schedules.
func (l *Level) normalise() error {
	for _, b := range l.Bolts {
		if b.At < 0 {
			return fmt.Errorf("bolt at %v has negative time %v", b.Loc, b.At)
		}
	}
	if l.Wind != nil && l.Wind.Strength < 0 {
		return fmt.Errorf("negative wind strength %v", l.Wind.Strength)
	}
	slices.SortStableFunc(l.Bolts, func(a, b Bolt) int {
		switch {
		case a.At < b.At:
			return -1
		case a.At > b.At:
			return 1
		}
		return 0
	})
	return nil
}

func (l Level) clone() Level {
	l.Bolts = slices.Clone(l.Bolts)
	if l.Wind != nil {
		w := *l.Wind
		l.Wind = &w
	}
	return l
}

// CityHall returns the tiles covered by the city hall.
func (l Level) CityHall() [4]core.IVec2 {
	s := l.StartingLocation
	return [4]core.IVec2{
		s,
		s.Add(core.IVec2{X: 1}),
		s.Add(core.IVec2{X: 1, Y: 1}),
		s.Add(core.IVec2{Y: 1}),
	}
}
