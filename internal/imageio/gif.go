package imageio

import (
	"errors"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"io"
	"os"

	"golang.org/x/image/draw"

	"image-fade/pkg/field"
)

// ErrNoFrames reports an encode attempt before any frame was added.
var ErrNoFrames = errors.New("imageio: no frames to encode")

// DefaultDelay is the per-frame delay in hundredths of a second.
const DefaultDelay = 5

// GIFWriter collects frames and encodes them as an animated GIF. Its Frame
// method matches replay.FrameFunc so it can be handed straight to a
// transition.
type GIFWriter struct {
	delay    int
	palette  color.Palette
	progress func(cur, total int)
	anim     gif.GIF
}

// GIFOption configures a GIFWriter.
type GIFOption func(*GIFWriter)

// WithDelay sets the delay between frames in hundredths of a second.
func WithDelay(d int) GIFOption {
	return func(w *GIFWriter) {
		if d >= 0 {
			w.delay = d
		}
	}
}

// WithPalette replaces the 256-level gray palette, e.g. with palette.Plan9.
func WithPalette(p color.Palette) GIFOption {
	return func(w *GIFWriter) {
		if len(p) > 0 {
			w.palette = p
		}
	}
}

// WithProgress reports each collected frame as (frame, total).
func WithProgress(fn func(cur, total int)) GIFOption {
	return func(w *GIFWriter) { w.progress = fn }
}

// NewGIFWriter returns an empty writer.
func NewGIFWriter(opts ...GIFOption) *GIFWriter {
	w := &GIFWriter{delay: DefaultDelay, palette: GrayPalette()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// GrayPalette returns the 256 gray levels, so gray frames encode losslessly.
func GrayPalette() color.Palette {
	p := make(color.Palette, 256)
	for i := range p {
		p[i] = color.Gray{Y: uint8(i)}
	}
	return p
}

// Plan9Palette is the palette the command line uses for --palette plan9.
func Plan9Palette() color.Palette { return palette.Plan9 }

// Frame snapshots f as the next animation frame.
func (w *GIFWriter) Frame(f *field.Field, step, total int) error {
	src := f.Gray()
	dst := image.NewPaletted(src.Bounds(), w.palette)
	draw.Draw(dst, dst.Rect, src, image.Point{}, draw.Src)
	w.anim.Image = append(w.anim.Image, dst)
	w.anim.Delay = append(w.anim.Delay, w.delay)
	if w.progress != nil {
		w.progress(step+1, total)
	}
	return nil
}

// Len returns the number of collected frames.
func (w *GIFWriter) Len() int { return len(w.anim.Image) }

// Encode writes the animation to out.
func (w *GIFWriter) Encode(out io.Writer) error {
	if len(w.anim.Image) == 0 {
		return ErrNoFrames
	}
	return gif.EncodeAll(out, &w.anim)
}

// Save encodes the animation into the file at path, replacing it.
func (w *GIFWriter) Save(path string) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := w.Encode(fh); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}
