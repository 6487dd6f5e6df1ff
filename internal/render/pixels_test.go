package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGrayPalette(t *testing.T) {
	p := GrayPalette(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	assert.Equal(t, color.RGBA{A: 255}, p[0])
	assert.Equal(t, color.RGBA{R: 128, G: 128, B: 128, A: 255}, p[128])
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, p[255])

	green := GrayPalette(color.RGBA{G: 200, A: 255})
	assert.Equal(t, color.RGBA{G: 200, A: 255}, green[255])
}

func TestFillField(t *testing.T) {
	buf := make([]byte, 8)
	FillField(buf, []uint8{0, 255}, GrayPalette(color.RGBA{R: 255, G: 255, B: 255}))
	assert.Equal(t, []byte{0, 0, 0, 255, 255, 255, 255, 255}, buf)

	FillField(buf, []uint8{0, 255}, nil)
	assert.Equal(t, make([]byte, 8), buf)
}

func TestFillSettled(t *testing.T) {
	buf := make([]byte, 12)
	FillSettled(buf, []uint8{1, 2, 3}, []uint8{1, 0, 3}, color.White)
	assert.Equal(t, []byte{
		255, 255, 255, 255,
		0, 0, 0, 0,
		255, 255, 255, 255,
	}, buf)
}

func TestFillGap(t *testing.T) {
	buf := make([]byte, 12)
	largest := FillGap(buf, []uint8{10, 0, 50}, []uint8{10, 20, 10})
	assert.Equal(t, 40, largest)
	// Settled pixels stay transparent.
	assert.Equal(t, []byte{0, 0, 0, 0}, buf[0:4])
	// The largest gap is fully hot and most opaque.
	assert.Equal(t, uint8(140), buf[11])
	assert.Equal(t, heatColor(1).R, buf[8])
	assert.Less(t, buf[7], buf[11])

	// Nothing left to fix: all transparent.
	largest = FillGap(buf, []uint8{1, 2, 3}, []uint8{1, 2, 3})
	assert.Zero(t, largest)
	assert.Equal(t, make([]byte, 12), buf)
}

func TestHeatColorEndpoints(t *testing.T) {
	assert.Equal(t, color.RGBA{R: 40, G: 60, B: 200, A: 255}, heatColor(-1))
	assert.Equal(t, color.RGBA{R: 255, G: 60, B: 40, A: 255}, heatColor(2))
}
