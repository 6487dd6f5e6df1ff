// Package field provides the scalar pixel grid the morph search and replay
// operate on.
package field

import (
	"errors"
	"fmt"
	"image"
)

// ErrSize reports a value slice whose length does not match the dimensions.
var ErrSize = errors.New("field: cell count does not match dimensions")

// Field stores a 2D grid of gray values in row-major order.
type Field struct {
	W, H int
	data []uint8
}

// New allocates a zeroed field with the given dimensions.
func New(w, h int) *Field {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &Field{W: w, H: h, data: make([]uint8, w*h)}
}

// FromCells wraps a copy of cells, which must hold w*h row-major values.
func FromCells(w, h int, cells []uint8) (*Field, error) {
	if w <= 0 || h <= 0 || len(cells) != w*h {
		return nil, fmt.Errorf("%w: %dx%d with %d cells", ErrSize, w, h, len(cells))
	}
	f := New(w, h)
	copy(f.data, cells)
	return f, nil
}

// FromGray copies a grayscale image into a new field anchored at (0,0).
func FromGray(img *image.Gray) *Field {
	b := img.Bounds()
	f := New(b.Dx(), b.Dy())
	for y := 0; y < f.H; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+f.W]
		copy(f.data[y*f.W:(y+1)*f.W], row)
	}
	return f
}

// Gray returns a copy of the field as a grayscale image.
func (f *Field) Gray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, f.W, f.H))
	copy(img.Pix, f.data)
	return img
}

// Cells exposes the backing slice so callers can read values directly.
func (f *Field) Cells() []uint8 { return f.data }

// Index returns the linear slice index for coordinates (x, y).
func (f *Field) Index(x, y int) int { return y*f.W + x }

// In reports whether (x, y) lies inside the field.
func (f *Field) In(x, y int) bool { return x >= 0 && y >= 0 && x < f.W && y < f.H }

// Get returns the value at (x, y).
func (f *Field) Get(x, y int) int { return int(f.data[y*f.W+x]) }

// Set stores v at (x, y), clamped to [0, 255].
func (f *Field) Set(x, y, v int) { f.data[y*f.W+x] = uint8(Clamp(v)) }

// SameSize reports whether both fields have identical dimensions.
func (f *Field) SameSize(o *Field) bool { return f.W == o.W && f.H == o.H }

// Equal reports whether both fields have identical dimensions and values.
func (f *Field) Equal(o *Field) bool {
	if !f.SameSize(o) {
		return false
	}
	for i, v := range f.data {
		if o.data[i] != v {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (f *Field) Clone() *Field {
	c := &Field{W: f.W, H: f.H, data: make([]uint8, len(f.data))}
	copy(c.data, f.data)
	return c
}

// CopyFrom overwrites f with the values of src. Both must be the same size.
func (f *Field) CopyFrom(src *Field) {
	copy(f.data, src.data)
}

// Iterate calls fn for every coordinate with x%stride == 0 and y%stride == 0
// in row-major order (y outer, x inner). Iteration stops early when fn
// returns false. A stride below 1 is treated as 1.
func (f *Field) Iterate(stride int, fn func(x, y int) bool) {
	if stride < 1 {
		stride = 1
	}
	for y := 0; y < f.H; y += stride {
		for x := 0; x < f.W; x += stride {
			if !fn(x, y) {
				return
			}
		}
	}
}

// Samples returns how many coordinates Iterate visits for stride.
func (f *Field) Samples(stride int) int {
	if stride < 1 {
		stride = 1
	}
	return ((f.W + stride - 1) / stride) * ((f.H + stride - 1) / stride)
}

// Clamp limits v to the valid pixel range.
func Clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
