//go:build ebiten

package ui

import (
	"image"
	"image/color"
	"strings"

	"wildfire-ca/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

var (
	panelBackground = color.RGBA{R: 20, G: 16, B: 14, A: 255}
	titleColor      = color.RGBA{R: 230, G: 200, B: 170, A: 255}
	labelColor      = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	dimColor        = color.RGBA{R: 160, G: 160, B: 170, A: 255}
	readoutColor    = color.RGBA{R: 190, G: 190, B: 200, A: 255}
	statusColor     = color.RGBA{R: 255, G: 190, B: 120, A: 255}
	buttonColor     = color.RGBA{R: 64, G: 54, B: 50, A: 255}
	buttonIdle      = color.RGBA{R: 38, G: 32, B: 30, A: 255}
)

const (
	labelBaseline    = 24
	statusSpacing    = 18
	statusLineHeight = 16
)

// HUD renders the parameter panel to the right of the simulation view.
type HUD struct {
	sim    core.Sim
	width  int
	title  string
	panel  *panel
	lines  []string
	status []string

	img   *ebiten.Image
	pixel *ebiten.Image
}

// NewHUD constructs a HUD for sim with a panel width pixels wide.
func NewHUD(sim core.Sim, width int) *HUD {
	width = max(width, 0)
	h := &HUD{sim: sim, width: width, panel: newPanel(sim, width), title: "Controls"}
	if name := sim.Name(); name != "" {
		h.title = strings.ToUpper(name[:1]) + name[1:]
	}
	h.pixel = ebiten.NewImage(1, 1)
	h.pixel.Fill(color.White)
	return h
}

// SetStatus replaces the free-form lines drawn below the readouts.
func (h *HUD) SetStatus(lines ...string) {
	if h == nil {
		return
	}
	h.status = append(h.status[:0], lines...)
}

// Update refreshes the panel from the sim and handles clicks. panelOffsetX is
// the screen x of the panel's left edge. It reports whether a click landed on
// a button.
func (h *HUD) Update(panelOffsetX int) bool {
	if h == nil {
		return false
	}
	var snap core.ParameterSnapshot
	if provider, ok := h.sim.(core.ParameterProvider); ok {
		snap = provider.Parameters()
	}
	h.panel.refresh(snap)
	h.lines = readouts(snap)
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return false
	}
	mx, my := ebiten.CursorPosition()
	return mx >= panelOffsetX && h.panel.click(mx-panelOffsetX, my)
}

// Draw paints the panel at offsetX, sized to the scaled map height.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil || h.width <= 0 {
		return
	}
	height := h.sim.Size().H * max(scale, 1)
	if height <= 0 {
		return
	}
	if h.img == nil || h.img.Bounds().Dx() != h.width || h.img.Bounds().Dy() != height {
		h.img = ebiten.NewImage(h.width, height)
	}
	h.img.Fill(panelBackground)

	face := basicfont.Face7x13
	text.Draw(h.img, h.title, face, panelPadding, panelPadding+headerBaseline, titleColor)
	if len(h.panel.rows) == 0 {
		text.Draw(h.img, "No adjustable parameters", face, panelPadding, rowsTop, dimColor)
	}
	for i := range h.panel.rows {
		h.drawRow(&h.panel.rows[i])
	}

	y := h.panel.bottom() + statusSpacing
	for _, line := range h.lines {
		text.Draw(h.img, line, face, panelPadding, y, readoutColor)
		y += statusLineHeight
	}
	for _, line := range h.status {
		text.Draw(h.img, line, face, panelPadding, y, statusColor)
		y += statusLineHeight
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.img, op)
}

func (h *HUD) drawRow(r *panelRow) {
	face := basicfont.Face7x13
	y := r.top + labelBaseline
	text.Draw(h.img, r.ctrl.Label, face, panelPadding, y, labelColor)
	col := labelColor
	if !r.known {
		col = dimColor
	}
	x := r.minus.Min.X - buttonGap - text.BoundString(face, r.text).Dx()
	text.Draw(h.img, r.text, face, x, y, col)
	h.drawButton(r.minus, "-", h.panel.enabled(r, -1))
	h.drawButton(r.plus, "+", h.panel.enabled(r, 1))
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	bg, fg := buttonColor, labelColor
	if !enabled {
		bg, fg = buttonIdle, dimColor
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	applyTint(op, bg)
	h.img.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	b := text.BoundString(face, label)
	text.Draw(h.img, label, face, rect.Min.X+(rect.Dx()-b.Dx())/2, rect.Min.Y+(rect.Dy()+b.Dy())/2, fg)
}
