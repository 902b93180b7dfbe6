package wildfire

import (
	"math"

	"github.com/aquilax/go-perlin"
)

const (
	noiseRedistFactor = 1.46
	noiseScale        = 0.5
	// noiseFrequency stretches the lattice so integer cell coordinates do not
	// land on perlin grid points, where gradient noise is always zero.
	noiseFrequency = 0.05
	moistureOffset = 17.5

	dirtThreshold  = 0.03
	grassThreshold = 0.5
	treeThreshold  = 0.75
)

// GoodSeeds are map seeds known to produce playable terrain.
var GoodSeeds = [...]int32{
	670947188,
	-787500401,
	1337,
	618039333,
	-1354068758,
	1566845181,
	-63050108,
}

// NoiseMap derives terrain deterministically from a seed. It holds no mutable
// state after construction.
type NoiseMap struct {
	seed  int32
	noise *perlin.Perlin
}

// NewNoiseMap creates a generator for the given seed.
func NewNoiseMap(seed int32) *NoiseMap {
	return &NoiseMap{seed: seed, noise: perlin.NewPerlin(2, 2, 1, int64(seed))}
}

// Seed returns the generator seed.
func (n *NoiseMap) Seed() int32 { return n.seed }

// base samples the noise and remaps its useful range [-0.5, 0.5] to [0, 1].
func (n *NoiseMap) base(x, y float64) float64 {
	v := n.noise.Noise2D(x*noiseFrequency, y*noiseFrequency)
	return clamp01(v + 0.5)
}

// Moisture returns a moisture level in [0, 1]. It reuses the terrain noise at a
// constant offset so the two fields are decorrelated.
func (n *NoiseMap) Moisture(x, y float64) float64 {
	return n.base(x+moistureOffset, y+moistureOffset)
}

// Elevation returns the redistributed three-octave value that Sample thresholds.
func (n *NoiseMap) Elevation(x, y int) float64 {
	fx := float64(x)
	fy := float64(y)
	v := 1.0*n.base(noiseScale*fx, noiseScale*fy) +
		0.5*n.base(noiseScale*2*fx, noiseScale*2*fy) +
		0.25*n.base(noiseScale*4*fx, noiseScale*4*fy)
	return math.Pow(v/(1.0+0.5+0.25), noiseRedistFactor)
}

// Sample returns the terrain type and fuel load for a cell.
func (n *NoiseMap) Sample(x, y int) (TerrainType, uint8) {
	return classify(n.Elevation(x, y))
}

func classify(v float64) (TerrainType, uint8) {
	switch {
	case v < dirtThreshold:
		return Dirt, 0
	case v < grassThreshold:
		return Grassland, bandFuel(v, dirtThreshold, grassThreshold, 12)
	case v < treeThreshold:
		return Tree, bandFuel(v, grassThreshold, treeThreshold, maxTreeFuel)
	default:
		return Stone, bandFuel(v, treeThreshold, 1, 10)
	}
}

// bandFuel interpolates 1..max across [lo, hi), truncating toward zero.
func bandFuel(v, lo, hi, max float64) uint8 {
	f := max * (v - lo) / (hi - lo)
	if f < 1 {
		f = 1
	}
	if f > max {
		f = max
	}
	return uint8(f)
}
