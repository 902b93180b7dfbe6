package render

import (
	"image/color"

	"wildfire-ca/internal/core"
)

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:4*len(cells)])
		return
	}
	for i, c := range cells {
		putPixel(buf, i, paletteAt(palette, c))
	}
}

// fillChangedRGBA repaints only the listed cells of a w-wide grid. Coordinates
// outside the grid are skipped.
func fillChangedRGBA(buf []byte, cells []uint8, w int, changed []core.IVec2, palette []color.RGBA) {
	if len(palette) == 0 || w <= 0 {
		return
	}
	h := len(cells) / w
	for _, loc := range changed {
		if loc.X < 0 || loc.Y < 0 || loc.X >= w || loc.Y >= h {
			continue
		}
		i := loc.Y*w + loc.X
		putPixel(buf, i, paletteAt(palette, cells[i]))
	}
}

func paletteAt(palette []color.RGBA, c uint8) color.RGBA {
	idx := int(c)
	if last := len(palette) - 1; idx > last {
		idx = last
	}
	return palette[idx]
}

func putPixel(buf []byte, i int, col color.RGBA) {
	base := i * 4
	buf[base+0] = col.R
	buf[base+1] = col.G
	buf[base+2] = col.B
	buf[base+3] = col.A
}

// ScreenToCell converts a screen position to grid coordinates.
func ScreenToCell(x, y, h, scale int) core.IVec2 {
	if scale <= 0 {
		scale = 1
	}
	return core.IVec2{X: floorDiv(x, scale), Y: h - 1 - floorDiv(y, scale)}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
