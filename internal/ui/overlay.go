//go:build ebiten

package ui

import (
	"image/color"

	"image-fade/internal/core"
	"image-fade/internal/render"
	"image-fade/pkg/field"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Overlay draws optional diagnostics over the current frame: a heat map of
// the remaining distance to the goal (key 1) and the pixels already settled
// on their goal value (key 2).
type Overlay struct {
	tr    core.Transition
	goal  *field.Field
	scale int

	showGap     bool
	showSettled bool
	maxGap      int

	maskImg *ebiten.Image
	maskBuf []byte
}

// NewOverlay constructs an overlay comparing tr's frames against goal.
func NewOverlay(tr core.Transition, goal *field.Field, scale int) *Overlay {
	return &Overlay{tr: tr, goal: goal, scale: scale}
}

// Update toggles the layers.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showGap = !o.showGap
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showSettled = !o.showSettled
	}
}

// MaxGap returns the largest remaining gap measured by the last gap draw.
func (o *Overlay) MaxGap() int { return o.maxGap }

// Draw renders the enabled layers onto screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if !o.showGap && !o.showSettled {
		return
	}
	f := o.tr.Field()
	if f == nil || !f.SameSize(o.goal) {
		return
	}
	total := f.W * f.H
	if o.maskImg == nil || o.maskImg.Bounds().Dx() != f.W || o.maskImg.Bounds().Dy() != f.H {
		o.maskImg = ebiten.NewImage(f.W, f.H)
	}
	if len(o.maskBuf) != 4*total {
		o.maskBuf = make([]byte, 4*total)
	}
	if o.showSettled {
		render.FillSettled(o.maskBuf, f.Cells(), o.goal.Cells(), color.RGBA{R: 60, G: 200, B: 120, A: 110})
		o.drawMask(screen)
	}
	if o.showGap {
		o.maxGap = render.FillGap(o.maskBuf, f.Cells(), o.goal.Cells())
		o.drawMask(screen)
	}
}

func (o *Overlay) drawMask(screen *ebiten.Image) {
	o.maskImg.WritePixels(o.maskBuf)
	op := &ebiten.DrawImageOptions{}
	scale := o.scale
	if scale <= 0 {
		scale = 1
	}
	op.GeoM.Scale(float64(scale), float64(scale))
	screen.DrawImage(o.maskImg, op)
}
