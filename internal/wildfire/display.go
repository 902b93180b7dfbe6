package wildfire

import "image/color"

const shadeLevels = 8

// maxTreeFuel is the largest fuel load the terrain generator assigns.
const maxTreeFuel = 24

var terrainPalette = buildTerrainPalette()

// Palette exposes the colors indexed by the display buffer.
func (s *Sim) Palette() []color.RGBA { return terrainPalette }

// Palette returns the shared terrain palette.
func Palette() []color.RGBA { return terrainPalette }

// DisplayValue encodes a cell as a palette index: terrain*8 + shade.
func DisplayValue(c *CellState) uint8 {
	return uint8(c.Terrain)*shadeLevels + shadeFor(c)
}

func shadeFor(c *CellState) uint8 {
	switch c.Terrain {
	case Grassland, Tree:
		return bucket(c.Moisture(), 1)
	case Fire:
		return bucket(float64(c.FuelLoad), maxTreeFuel)
	case Stone:
		return bucket(float64(c.FuelLoad), 10)
	case Dirt, Building, Smoldering:
		return 0
	}
	return 0
}

func bucket(v, max float64) uint8 {
	if v <= 0 || max <= 0 {
		return 0
	}
	b := int(v / max * shadeLevels)
	if b >= shadeLevels {
		b = shadeLevels - 1
	}
	return uint8(b)
}

func buildTerrainPalette() []color.RGBA {
	palette := make([]color.RGBA, int(terrainCount)*shadeLevels)
	for i := range palette {
		t := TerrainType(i / shadeLevels)
		shade := float64(i%shadeLevels) / (shadeLevels - 1)
		palette[i] = toRGBA(paletteColorFor(t, shade))
	}
	return palette
}

func toRGBA(c color.NRGBA) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// paletteColorFor picks a terrain color. shade is moisture for vegetation and
// remaining fuel for fire and stone.
func paletteColorFor(t TerrainType, shade float64) color.NRGBA {
	wet := color.NRGBA{R: 40, G: 90, B: 150, A: 255}
	switch t {
	case Grassland:
		return blendColors(color.NRGBA{R: 132, G: 204, B: 22, A: 255}, wet, shade*0.45)
	case Tree:
		return blendColors(color.NRGBA{R: 22, G: 101, B: 52, A: 255}, wet, shade*0.45)
	case Fire:
		return blendColors(color.NRGBA{R: 180, G: 60, B: 10, A: 255}, color.NRGBA{R: 250, G: 204, B: 21, A: 255}, shade)
	case Smoldering:
		return color.NRGBA{R: 69, G: 26, B: 3, A: 255}
	case Stone:
		return blendColors(color.NRGBA{R: 120, G: 120, B: 125, A: 255}, color.NRGBA{R: 190, G: 190, B: 200, A: 255}, shade)
	case Building:
		return color.NRGBA{R: 150, G: 110, B: 200, A: 255}
	case Dirt:
		return color.NRGBA{R: 244, G: 164, B: 96, A: 255}
	}
	return color.NRGBA{A: 255}
}

func blendColors(base, overlay color.NRGBA, overlayWeight float64) color.NRGBA {
	if overlayWeight <= 0 {
		return base
	}
	if overlayWeight >= 1 {
		return overlay
	}
	br, bg, bb, ba := float64(base.R), float64(base.G), float64(base.B), float64(base.A)
	or, og, ob, oa := float64(overlay.R), float64(overlay.G), float64(overlay.B), float64(overlay.A)
	w := overlayWeight
	inv := 1 - w
	return color.NRGBA{
		R: uint8(br*inv + or*w + 0.5),
		G: uint8(bg*inv + og*w + 0.5),
		B: uint8(bb*inv + ob*w + 0.5),
		A: uint8(ba*inv + oa*w + 0.5),
	}
}
