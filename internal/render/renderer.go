//go:build ebiten

package render

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// FieldPainter uploads gray cell data into a single RGBA image and draws it
// scaled onto a target.
type FieldPainter struct {
	w, h    int
	img     *ebiten.Image
	buf     []byte
	palette *Palette
}

// NewFieldPainter allocates a painter for a field of size w*h.
func NewFieldPainter(w, h int, p *Palette) *FieldPainter {
	fp := &FieldPainter{w: w, h: h, buf: make([]byte, 4*w*h), palette: p}
	fp.img = ebiten.NewImage(w, h)
	return fp
}

// Blit uploads cells and draws them at the given pixel scale.
func (fp *FieldPainter) Blit(dst *ebiten.Image, cells []uint8, scale int) {
	if len(cells) != fp.w*fp.h {
		return
	}
	FillField(fp.buf, cells, fp.palette)
	fp.img.WritePixels(fp.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(fp.img, op)
}

// Size returns the dimensions of the underlying image.
func (fp *FieldPainter) Size() (int, int) { return fp.w, fp.h }
