//go:build ebiten

package ui

import (
	"image/color"
	"iter"
	"math"

	"wildfire-ca/internal/core"
	"wildfire-ca/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type moistureProvider interface {
	MoistureMask() []float32
}

type fireProvider interface {
	FireMask() []float32
	FireFront() []core.IVec2
}

type windProvider interface {
	WindHeading() (angle, strength, target float64)
	LocalWinds() iter.Seq2[core.IVec2, core.Vec2]
}

type bandProvider interface {
	TerrainBands() []uint8
}

var (
	moistureTint  = color.RGBA{R: 64, G: 164, B: 223}
	fireTint      = color.RGBA{R: 255, G: 110, B: 30}
	frontColor    = color.RGBA{R: 255, G: 236, B: 120, A: 230}
	gustColor     = color.RGBA{R: 200, G: 230, B: 255, A: 220}
	compassRing   = color.RGBA{R: 20, G: 24, B: 30, A: 170}
	compassNeedle = color.RGBA{R: 240, G: 244, B: 250, A: 255}
	compassTarget = color.RGBA{R: 250, G: 190, B: 70, A: 255}

	// indexed by terrain band
	bandColors = []color.RGBA{
		{R: 150, G: 110, B: 70, A: 200},  // dirt
		{R: 225, G: 225, B: 230, A: 220}, // stone
		{R: 170, G: 220, B: 110, A: 180}, // grassland
		{R: 40, G: 110, B: 50, A: 220},   // tree
	}
)

const (
	compassRadius = 22
	compassMargin = 8
	// compassFullScale is the wind strength that fills the needle.
	compassFullScale = 12
	gustSpacing      = 4
)

// Overlay draws optional layers over the terrain: moisture (1), fire
// intensity with the spreading front (2), the wind compass with gust arrows
// (3) and the generated terrain contours (4).
type Overlay struct {
	sim   core.Sim
	scale int

	showMoisture bool
	showFire     bool
	showWind     bool
	showBands    bool

	layer    *ebiten.Image
	front    *ebiten.Image
	layerBuf []byte

	contourImg *ebiten.Image
	contourSrc []uint8

	pixel *ebiten.Image
	gusts []gustMarker
}

// NewOverlay constructs an overlay for sim drawn at scale pixels per cell.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	if scale <= 0 {
		scale = 1
	}
	o := &Overlay{sim: sim, scale: scale}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles layers from the number keys.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showMoisture = !o.showMoisture
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showFire = !o.showFire
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit3) {
		o.showWind = !o.showWind
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit4) {
		o.showBands = !o.showBands
	}
}

// Draw renders the enabled layers onto screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	size := o.sim.Size()
	if size.W <= 0 || size.H <= 0 {
		return
	}
	if o.showBands {
		if p, ok := o.sim.(bandProvider); ok {
			o.drawContours(screen, p.TerrainBands(), size)
		}
	}
	if o.showMoisture {
		if p, ok := o.sim.(moistureProvider); ok {
			o.ensureLayer(size)
			paintMask(o.layerBuf, p.MoistureMask(), moistureTint, 140)
			o.blitLayer(screen, o.layer, size)
		}
	}
	if o.showFire {
		if p, ok := o.sim.(fireProvider); ok {
			o.ensureLayer(size)
			paintMask(o.layerBuf, p.FireMask(), fireTint, 170)
			o.blitLayer(screen, o.layer, size)
			paintCells(o.layerBuf, size.W, size.H, p.FireFront(), frontColor)
			o.blitLayer(screen, o.front, size)
		}
	}
	if o.showWind {
		if p, ok := o.sim.(windProvider); ok {
			o.drawGusts(screen, p, size)
			o.drawCompass(screen, p)
		}
	}
}

func (o *Overlay) ensureLayer(size core.Size) {
	if o.layer == nil || o.layer.Bounds().Dx() != size.W || o.layer.Bounds().Dy() != size.H {
		o.layer = ebiten.NewImage(size.W, size.H)
		o.front = ebiten.NewImage(size.W, size.H)
		o.layerBuf = make([]byte, 4*size.Cells())
	}
}

// blitLayer uploads layerBuf into img and draws it with the grid transform.
func (o *Overlay) blitLayer(screen, img *ebiten.Image, size core.Size) {
	img.WritePixels(o.layerBuf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = render.GridTransform(size.H, o.scale)
	screen.DrawImage(img, op)
}

// drawContours caches the contour image per map; bands only change on reset.
func (o *Overlay) drawContours(screen *ebiten.Image, bands []uint8, size core.Size) {
	if len(bands) != size.Cells() {
		return
	}
	if o.contourImg == nil || o.contourImg.Bounds().Dx() != size.W || o.contourImg.Bounds().Dy() != size.H {
		o.contourImg = ebiten.NewImage(size.W, size.H)
		o.contourSrc = nil
	}
	if len(o.contourSrc) == 0 || &o.contourSrc[0] != &bands[0] {
		o.ensureLayer(size)
		paintContours(o.layerBuf, bands, size.W, size.H, bandColors)
		o.contourImg.WritePixels(o.layerBuf)
		o.contourSrc = bands
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM = render.GridTransform(size.H, o.scale)
	screen.DrawImage(o.contourImg, op)
}

func (o *Overlay) drawGusts(screen *ebiten.Image, p windProvider, size core.Size) {
	o.gusts = o.gusts[:0]
	for loc, w := range p.LocalWinds() {
		o.gusts = append(o.gusts, gustMarker{loc: loc, wind: w})
	}
	s := float64(o.scale)
	length := s * gustSpacing * 0.8
	for _, g := range thinGusts(o.gusts, gustSpacing) {
		cx := (float64(g.loc.X) + 0.5) * s
		cy := (float64(size.H-1-g.loc.Y) + 0.5) * s
		o.drawArrow(screen, arrow(cx, cy, g.wind.X, g.wind.Y, length), math.Max(1, s*0.4), gustColor)
	}
}

// drawCompass shows the global wind in the top-left corner. The needle length
// tracks strength and the amber tick marks the angle the wind is turning to.
func (o *Overlay) drawCompass(screen *ebiten.Image, p windProvider) {
	angle, strength, target := p.WindHeading()
	cx := float64(compassMargin + compassRadius)
	cy := cx
	o.drawPoint(screen, cx, cy, 2*compassRadius, compassRing)

	tv := core.FromPolar(target, 1)
	tx, ty := cx+tv.X*compassRadius, cy-tv.Y*compassRadius
	o.drawPoint(screen, tx, ty, 4, compassTarget)

	if strength <= 0 {
		o.drawPoint(screen, cx, cy, 3, compassNeedle)
		return
	}
	v := core.FromPolar(angle, 1)
	length := 2 * compassRadius * (0.3 + 0.7*clamp01(strength/compassFullScale))
	o.drawArrow(screen, arrow(cx, cy, v.X, v.Y, length), 2, compassNeedle)
}

func (o *Overlay) drawArrow(screen *ebiten.Image, segs [3]segment, thickness float64, col color.RGBA) {
	for _, sg := range segs {
		o.drawLine(screen, sg.x1, sg.y1, sg.x2, sg.y2, thickness, col)
	}
}

func (o *Overlay) drawPoint(screen *ebiten.Image, x, y, size float64, col color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(size, size)
	op.GeoM.Translate(x-size/2, y-size/2)
	applyTint(op, col)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	dx, dy := x2-x1, y2-y1
	length := math.Hypot(dx, dy)
	if length < 1e-4 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	applyTint(op, col)
	screen.DrawImage(o.pixel, op)
}

func applyTint(op *ebiten.DrawImageOptions, col color.RGBA) {
	op.ColorM.Scale(float64(col.R)/255, float64(col.G)/255, float64(col.B)/255, float64(col.A)/255)
}
