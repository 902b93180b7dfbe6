//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"wildfire-ca/internal/core"
)

// GridPainter keeps an RGBA image of a palette-indexed grid and uploads only
// the pixels that changed since the previous frame.
type GridPainter struct {
	w, h   int
	img    *ebiten.Image
	buf    []byte
	primed bool
}

// NewGridPainter allocates a painter for a grid of size w*h.
func NewGridPainter(w, h int) *GridPainter {
	gp := &GridPainter{w: w, h: h, buf: make([]byte, 4*w*h)}
	gp.img = ebiten.NewImage(w, h)
	return gp
}

// Invalidate forces a full repaint on the next Blit.
func (gp *GridPainter) Invalidate() { gp.primed = false }

// Blit refreshes the image from cells and draws it scaled onto dst with world
// y pointing up. changed lists the cells to repaint; the first call after
// construction or Invalidate repaints everything.
func (gp *GridPainter) Blit(dst *ebiten.Image, cells []uint8, changed []core.IVec2, palette []color.RGBA, scale int) {
	if len(cells) != gp.w*gp.h {
		return
	}
	switch {
	case !gp.primed:
		fillPaletteRGBA(gp.buf, cells, palette)
		gp.img.WritePixels(gp.buf)
		gp.primed = true
	case len(changed) > 0:
		fillChangedRGBA(gp.buf, cells, gp.w, changed, palette)
		gp.img.WritePixels(gp.buf)
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM = GridTransform(gp.h, scale)
	dst.DrawImage(gp.img, op)
}

// Size returns the dimensions of the underlying image.
func (gp *GridPainter) Size() (int, int) { return gp.w, gp.h }

// GridTransform maps grid pixel space onto the screen: scaled, with row 0 at
// the bottom so world y grows upward.
func GridTransform(h, scale int) ebiten.GeoM {
	if scale <= 0 {
		scale = 1
	}
	var m ebiten.GeoM
	m.Scale(float64(scale), -float64(scale))
	m.Translate(0, float64(h*scale))
	return m
}
