// Package imageio loads source images as grayscale fields and encodes
// replayed frames.
package imageio

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"image-fade/pkg/field"
)

var (
	// ErrEmptyImage reports a decoded image with no pixels.
	ErrEmptyImage = errors.New("imageio: image has no pixels")
	// ErrSizeMismatch reports a start and goal image of different size when
	// fitting is disabled.
	ErrSizeMismatch = errors.New("imageio: image sizes differ")
)

// Decode reads any registered image format and converts it to gray.
func Decode(r io.Reader) (*field.Field, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("imageio: decode: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, format, ErrEmptyImage
	}
	return field.FromGray(ToGray(img)), format, nil
}

// Load opens and decodes the image at path.
func Load(path string) (*field.Field, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	f, _, err := Decode(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// LoadPair loads the start and goal images. With fit set, a goal of a
// different size is resampled to the start's dimensions.
func LoadPair(startPath, goalPath string, fit bool) (start, goal *field.Field, err error) {
	if start, err = Load(startPath); err != nil {
		return nil, nil, err
	}
	if goal, err = Load(goalPath); err != nil {
		return nil, nil, err
	}
	if start.SameSize(goal) {
		return start, goal, nil
	}
	if !fit {
		return nil, nil, fmt.Errorf("%w: %dx%d vs %dx%d", ErrSizeMismatch, start.W, start.H, goal.W, goal.H)
	}
	return start, Fit(goal, start.W, start.H), nil
}

// ToGray converts img to an 8-bit gray image anchored at the origin using
// the luminance weights of color.GrayModel.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
		return g
	}
	b := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Fit resamples f to w x h with Catmull-Rom interpolation.
func Fit(f *field.Field, w, h int) *field.Field {
	if f.W == w && f.H == h {
		return f.Clone()
	}
	dst := image.NewGray(image.Rect(0, 0, w, h))
	src := f.Gray()
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return field.FromGray(dst)
}
