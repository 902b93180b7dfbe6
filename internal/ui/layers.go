package ui

import (
	"image/color"
	"math"

	"wildfire-ca/internal/core"
)

// paintMask tints each cell by its mask value. Cells at zero stay transparent.
func paintMask(buf []byte, mask []float32, tint color.RGBA, maxAlpha float64) {
	if len(buf) != 4*len(mask) {
		return
	}
	for i, v := range mask {
		o := i * 4
		t := clamp01(float64(v))
		if t == 0 {
			buf[o+0], buf[o+1], buf[o+2], buf[o+3] = 0, 0, 0, 0
			continue
		}
		tint.A = uint8(math.Round(maxAlpha * t))
		putRGBA(buf, o, tint)
	}
}

// paintCells clears buf and fills the listed cells with col. Off-grid cells
// are ignored.
func paintCells(buf []byte, w, h int, cells []core.IVec2, col color.RGBA) {
	clear(buf)
	if len(buf) != 4*w*h {
		return
	}
	for _, c := range cells {
		if c.X < 0 || c.Y < 0 || c.X >= w || c.Y >= h {
			continue
		}
		o := (c.Y*w + c.X) * 4
		putRGBA(buf, o, col)
	}
}

// paintContours marks every cell whose generated terrain band differs from
// the band to its right or above, coloured by its own band.
func paintContours(buf []byte, bands []uint8, w, h int, colors []color.RGBA) {
	clear(buf)
	if len(buf) != 4*w*h || len(bands) != w*h || len(colors) == 0 {
		return
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			b := bands[i]
			right := x+1 < w && bands[i+1] != b
			up := y+1 < h && bands[i+w] != b
			if !right && !up {
				continue
			}
			col := colors[min(int(b), len(colors)-1)]
			o := i * 4
			putRGBA(buf, o, col)
		}
	}
}

// segment is a line in screen space.
type segment struct{ x1, y1, x2, y2 float64 }

// arrow returns the shaft and the two barbs of an arrow centred on (cx, cy)
// pointing along the world vector (vx, vy). Screen y grows downward, so the
// world y component is flipped.
func arrow(cx, cy, vx, vy, length float64) [3]segment {
	speed := math.Hypot(vx, vy)
	if speed == 0 || length <= 0 {
		return [3]segment{}
	}
	nx, ny := vx/speed, -vy/speed
	half := length / 2
	tipX, tipY := cx+nx*half, cy+ny*half
	barb := length * 0.35
	angle := math.Atan2(ny, nx)
	const spread = math.Pi / 6
	return [3]segment{
		{cx - nx*half, cy - ny*half, tipX, tipY},
		{tipX, tipY, tipX - math.Cos(angle+spread)*barb, tipY - math.Sin(angle+spread)*barb},
		{tipX, tipY, tipX - math.Cos(angle-spread)*barb, tipY - math.Sin(angle-spread)*barb},
	}
}

// gustMarker is an arrow anchor for a cell with local wind.
type gustMarker struct {
	loc  core.IVec2
	wind core.Vec2
}

// thinGusts keeps the strongest marker in each spacing x spacing block so a
// gust front reads as a handful of arrows.
func thinGusts(markers []gustMarker, spacing int) []gustMarker {
	if spacing <= 1 {
		return markers
	}
	best := make(map[core.IVec2]int)
	var order []core.IVec2
	for i, m := range markers {
		block := core.IVec2{X: floorDiv(m.loc.X, spacing), Y: floorDiv(m.loc.Y, spacing)}
		j, ok := best[block]
		if !ok {
			best[block] = i
			order = append(order, block)
			continue
		}
		if m.wind.Length() > markers[j].wind.Length() {
			best[block] = i
		}
	}
	out := make([]gustMarker, 0, len(order))
	for _, block := range order {
		out = append(out, markers[best[block]])
	}
	return out
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// putRGBA writes col at byte offset o, premultiplied as WritePixels expects.
func putRGBA(buf []byte, o int, col color.RGBA) {
	buf[o+0] = premultiply(col.R, col.A)
	buf[o+1] = premultiply(col.G, col.A)
	buf[o+2] = premultiply(col.B, col.A)
	buf[o+3] = col.A
}

func premultiply(c, a uint8) uint8 {
	return uint8((uint16(c)*uint16(a) + 127) / 255)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
