//go:build ebiten

package app

import (
	"context"
	"image/color"
	"log/slog"

	"image-fade/internal/core"
	"image-fade/internal/render"
	"image-fade/internal/ui"
	"image-fade/pkg/field"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Builder creates a fresh transition; the viewer calls it again on restart.
type Builder func() (core.Transition, error)

// Game adapts a core transition to the ebiten.Game interface.
type Game struct {
	build   Builder
	tr      core.Transition
	goal    *field.Field
	painter *render.FieldPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	pacer   *core.FixedStep
	ctx     context.Context
	log     *slog.Logger

	scale    int
	hudWidth int
	showHUD  bool
	paused   bool
	tickOnce bool
	done     bool
}

// New constructs a Game that shows transitions produced by build.
func New(ctx context.Context, build Builder, goal *field.Field, cfg *Config) (*Game, error) {
	g := &Game{
		build:    build,
		goal:     goal,
		painter:  render.NewFieldPainter(goal.W, goal.H, render.GrayPalette(color.RGBA{R: 255, G: 255, B: 255, A: 255})),
		pacer:    core.NewFixedStep(cfg.Rate),
		ctx:      ctx,
		log:      slog.Default().With("component", "viewer"),
		scale:    cfg.Scale,
		hudWidth: cfg.HUDWidth,
		showHUD:  cfg.HUDWidth > 0,
	}
	if err := g.Reset(); err != nil {
		return nil, err
	}
	return g, nil
}

// Reset stops the running transition and starts a new one.
func (g *Game) Reset() error {
	if g.tr != nil {
		g.tr.Stop()
	}
	tr, err := g.build()
	if err != nil {
		return err
	}
	g.tr = tr
	g.overlay = ui.NewOverlay(tr, g.goal, g.scale)
	g.hud = ui.NewHUD(tr, g.hudWidth)
	g.pacer.Reset()
	g.done = false
	g.tickOnce = false
	return nil
}

// Update handles per-frame input and advances the transition.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.tr.Stop()
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) && g.hudWidth > 0 {
		g.showHUD = !g.showHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.Reset(); err != nil {
			return err
		}
	}

	g.overlay.Update()
	if g.showHUD {
		g.hud.Update(g.tr.Size().W * g.scale)
	}

	if g.done {
		return nil
	}
	if (!g.paused && g.pacer.ShouldStep()) || g.tickOnce {
		g.tickOnce = false
		done, err := g.tr.Advance(g.ctx)
		if err != nil {
			return err
		}
		if done {
			g.done = true
			g.log.Info("transition finished", "transition", g.tr.Name())
		}
	}
	return nil
}

// Draw renders the current frame, the overlay and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.tr.Field().Cells(), g.scale)
	g.overlay.Draw(screen)
	if g.showHUD {
		g.hud.Draw(screen, g.tr.Size().W*g.scale, g.scale)
	}
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.tr.Size()
	w := s.W * g.scale
	if g.showHUD {
		w += g.hudWidth
	}
	return w, s.H * g.scale
}
