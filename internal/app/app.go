//go:build ebiten

package app

import (
	"image/color"
	"time"

	"go.uber.org/zap"

	"wildfire-ca/internal/core"
	"wildfire-ca/internal/render"
	"wildfire-ca/internal/story"
	"wildfire-ca/internal/ui"
	"wildfire-ca/internal/wildfire"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// maxCatchUp bounds how many ticks a single frame may run after a stall.
const maxCatchUp = 4

var hallColor = color.RGBA{R: 200, G: 200, B: 215, A: 255}

// Game adapts the wildfire simulation to the ebiten.Game interface.
type Game struct {
	sim     *wildfire.Sim
	session *story.Session
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	timer   *core.FixedStep
	log     *zap.Logger
	hall    *ebiten.Image

	// dirty collects cells changed since the last Draw.
	dirty []core.IVec2

	facing wildfire.Facing

	opts     Options
	paused   bool
	tickOnce bool
}

// New constructs a Game for the provided simulation.
func New(sim *wildfire.Sim, opts Options, log *zap.Logger) *Game {
	if log == nil {
		log = zap.NewNop()
	}
	opts = opts.withDefaults()
	g := &Game{
		sim:     sim,
		painter: render.NewGridPainter(sim.Size().W, sim.Size().H),
		overlay: ui.NewOverlay(sim, opts.Scale),
		timer:   core.NewFixedStep(opts.TPS),
		log:     log,
		opts:    opts,
	}
	if opts.ShowHUD {
		g.hud = ui.NewHUD(sim, opts.HUDWidth)
	}
	g.hall = ebiten.NewImage(1, 1)
	g.hall.Fill(hallColor)
	g.startSession()
	return g
}

func (g *Game) startSession() {
	if g.opts.Level == nil {
		return
	}
	session, err := story.NewSession(*g.opts.Level, g.sim, g.log)
	if err != nil {
		g.log.Warn("level rejected, playing free", zap.Error(err))
		g.opts.Level = nil
		return
	}
	g.session = session
	g.painter.Invalidate()
	g.dirty = g.dirty[:0]
}

// Reset regenerates the map from seed. A running level restarts on its own
// seed instead.
func (g *Game) Reset(seed int64) {
	g.tickOnce = false
	if g.session != nil {
		g.startSession()
		return
	}
	g.sim.Reset(seed)
	g.painter.Invalidate()
	g.dirty = g.dirty[:0]
	g.log.Info("map regenerated", zap.Int64("seed", seed))
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyW) {
		w := g.sim.Wind()
		if w.Overridden() {
			w.Release()
		} else {
			w.Override(w.Angle(), w.Strength())
		}
	}

	if g.overlay != nil {
		g.overlay.Update()
	}
	mapWidth := g.sim.Size().W * g.opts.Scale
	clickedHUD := g.hud.Update(mapWidth)
	if !clickedHUD {
		g.handleMouse(mapWidth)
	}

	switch {
	case g.finished():
	case g.tickOnce:
		g.step()
		g.tickOnce = false
	case !g.paused:
		for i := 0; i < maxCatchUp && g.timer.ShouldStep(); i++ {
			if !g.step() {
				break
			}
		}
	}
	g.hud.SetStatus(statusLines(g.sim, g.session, g.paused)...)
	return nil
}

// handleMouse applies map commands at the cursor: left click lightning,
// right click meteor, middle click explosion, G a gust along the current
// facing (F rotates it) and D dampens the cell.
func (g *Game) handleMouse(mapWidth int) {
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		g.facing = g.facing.Next()
	}
	mx, my := ebiten.CursorPosition()
	if mx < 0 || mx >= mapWidth {
		return
	}
	loc := render.ScreenToCell(mx, my, g.sim.Size().H, g.opts.Scale)
	at := []zap.Field{zap.Int("x", loc.X), zap.Int("y", loc.Y)}

	acted := true
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		g.log.Debug("lightning", append(at, zap.Bool("ignited", g.sim.Strike(loc.X, loc.Y)))...)
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight):
		g.log.Debug("meteor", append(at, zap.Int("fires", g.sim.StrikeMeteor(loc.X, loc.Y)))...)
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle):
		g.log.Debug("explosion", append(at, zap.Int("fires", g.sim.Explode(loc.X, loc.Y)))...)
	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		g.log.Debug("gust", append(at, zap.Int("cells", g.sim.Gust(loc.X, loc.Y, g.facing)))...)
	case inpututil.IsKeyJustPressed(ebiten.KeyD):
		g.log.Debug("dampen", append(at, zap.Bool("ok", g.sim.Dampen(loc.X, loc.Y)))...)
	default:
		acted = false
	}
	if acted {
		g.sync()
	}
}

// step runs scheduled bolts and one tick. It reports false once the level
// has finished.
func (g *Game) step() bool {
	if g.session != nil {
		g.session.Advance(g.timer.Seconds())
		if out := g.session.Outcome(); out != story.Playing {
			g.log.Info("level finished", zap.String("level", g.session.Level().Name), zap.Stringer("outcome", out))
			g.sync()
			return false
		}
	}
	g.sim.Step()
	g.dirty = append(g.dirty, g.sim.Changed()...)
	return true
}

func (g *Game) sync() {
	g.sim.Sync()
	g.dirty = append(g.dirty, g.sim.Changed()...)
}

func (g *Game) finished() bool {
	return g.session != nil && g.session.Outcome() != story.Playing
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.sim.Cells(), g.dirty, g.sim.Palette(), g.opts.Scale)
	g.dirty = g.dirty[:0]
	if g.session != nil {
		g.drawHall(screen)
	}
	if g.overlay != nil {
		g.overlay.Draw(screen)
	}
	g.hud.Draw(screen, g.sim.Size().W*g.opts.Scale, g.opts.Scale)
}

func (g *Game) drawHall(screen *ebiten.Image) {
	h := g.sim.Size().H
	for _, loc := range g.session.CityHall() {
		if g.sim.Map().IsOnFire(loc) {
			continue
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(loc.X), float64(loc.Y))
		op.GeoM.Concat(render.GridTransform(h, g.opts.Scale))
		screen.DrawImage(g.hall, op)
	}
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W*g.opts.Scale + g.opts.HUDWidth, s.H * g.opts.Scale
}
