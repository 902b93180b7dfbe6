// Package wildfire implements the terrain grid and the stochastic fire-spread
// automaton that burns across it.
package wildfire

import "fmt"

// TerrainType is the kind of ground occupying a cell. The set is closed and
// every switch over it is expected to be exhaustive.
type TerrainType uint8

const (
	Dirt TerrainType = iota
	Stone
	Grassland
	Tree
	Building
	Fire
	Smoldering

	terrainCount
)

var terrainNames = [terrainCount]string{
	Dirt:       "dirt",
	Stone:      "stone",
	Grassland:  "grassland",
	Tree:       "tree",
	Building:   "building",
	Fire:       "fire",
	Smoldering: "smoldering",
}

// String returns the lower-case terrain name.
func (t TerrainType) String() string {
	if t < terrainCount {
		return terrainNames[t]
	}
	return fmt.Sprintf("terrain(%d)", uint8(t))
}

// ParseTerrain resolves a terrain name produced by String.
func ParseTerrain(name string) (TerrainType, bool) {
	for i, n := range terrainNames {
		if n == name {
			return TerrainType(i), true
		}
	}
	return Dirt, false
}

// Valid reports whether t is one of the known terrain types.
func (t TerrainType) Valid() bool { return t < terrainCount }

// MarshalText encodes the terrain by name so snapshots and level files stay
// readable.
func (t TerrainType) MarshalText() ([]byte, error) {
	if t >= terrainCount {
		return nil, fmt.Errorf("unknown terrain %d", uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText decodes a terrain name.
func (t *TerrainType) UnmarshalText(text []byte) error {
	parsed, ok := ParseTerrain(string(text))
	if !ok {
		return fmt.Errorf("unknown terrain %q", text)
	}
	*t = parsed
	return nil
}

// BurnRate is the base ignition probability of the terrain before moisture and
// wind are applied.
func (t TerrainType) BurnRate() float64 {
	switch t {
	case Grassland, Building:
		return 0.7
	case Tree:
		return 0.4
	case Dirt, Stone, Fire, Smoldering:
		return 0
	}
	return 0
}

// Flammable reports whether the automaton can spread fire into the terrain.
func (t TerrainType) Flammable() bool {
	return t == Grassland || t == Tree
}

// Ignitable reports whether an external ignition source can set the terrain
// alight. Buildings burn when struck but fire never creeps into them.
func (t TerrainType) Ignitable() bool {
	return t == Grassland || t == Tree || t == Building
}

// Buildable reports whether a structure may be placed on the terrain.
func (t TerrainType) Buildable() bool {
	return t == Grassland || t == Dirt
}
