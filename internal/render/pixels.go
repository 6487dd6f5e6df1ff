package render

import (
	"image/color"
	"math"
)

// Palette maps each gray level to the color it is drawn with.
type Palette [256]color.RGBA

// GrayPalette shades tint from black at level 0 to tint at level 255. A white
// tint gives plain grayscale.
func GrayPalette(tint color.RGBA) *Palette {
	var p Palette
	for i := range p {
		f := float64(i) / 255
		p[i] = color.RGBA{
			R: scaleColorComponent(tint.R, f),
			G: scaleColorComponent(tint.G, f),
			B: scaleColorComponent(tint.B, f),
			A: 255,
		}
	}
	return &p
}

// FillField converts cell values into RGBA pixels using a palette. A nil
// palette clears the buffer to transparent black.
func FillField(buf []byte, cells []uint8, p *Palette) {
	if p == nil {
		clear(buf[:4*len(cells)])
		return
	}
	for i, c := range cells {
		base := i * 4
		col := p[c]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// FillSettled paints pixels that already hold their goal value with on and
// leaves the rest transparent.
func FillSettled(buf []byte, cells, goal []uint8, on color.Color) {
	rOn, gOn, bOn, aOn := on.RGBA()
	for i, c := range cells {
		base := i * 4
		if i < len(goal) && c == goal[i] {
			buf[base+0] = uint8(rOn >> 8)
			buf[base+1] = uint8(gOn >> 8)
			buf[base+2] = uint8(bOn >> 8)
			buf[base+3] = uint8(aOn >> 8)
			continue
		}
		buf[base+0] = 0
		buf[base+1] = 0
		buf[base+2] = 0
		buf[base+3] = 0
	}
}

// FillGap paints a heat map of the distance between each cell and its goal,
// normalised to the largest remaining gap. It returns that gap.
func FillGap(buf []byte, cells, goal []uint8) int {
	const (
		maxAlpha      = 140.0
		glowBase      = 0.35
		glowRange     = 0.65
		intensityBias = 0.75
	)
	n := min(len(cells), len(goal))
	largest := 0
	for i := 0; i < n; i++ {
		largest = max(largest, absInt(int(cells[i])-int(goal[i])))
	}
	for i := 0; i < n; i++ {
		base := i * 4
		gap := absInt(int(cells[i]) - int(goal[i]))
		if gap == 0 {
			buf[base+0] = 0
			buf[base+1] = 0
			buf[base+2] = 0
			buf[base+3] = 0
			continue
		}
		intensity := float64(gap) / float64(largest)
		tint := heatColor(intensity)
		glow := glowBase + glowRange*math.Sqrt(intensity)
		buf[base+0] = scaleColorComponent(tint.R, glow)
		buf[base+1] = scaleColorComponent(tint.G, glow)
		buf[base+2] = scaleColorComponent(tint.B, glow)
		buf[base+3] = uint8(math.Round(maxAlpha * math.Pow(intensity, intensityBias)))
	}
	return largest
}

func heatColor(t float64) color.RGBA {
	t = clamp01(t)
	stops := []struct {
		t   float64
		col color.RGBA
	}{
		{0.0, color.RGBA{R: 40, G: 60, B: 200, A: 255}},
		{0.5, color.RGBA{R: 240, G: 210, B: 60, A: 255}},
		{1.0, color.RGBA{R: 255, G: 60, B: 40, A: 255}},
	}
	for i := 1; i < len(stops); i++ {
		curr := stops[i]
		if t <= curr.t {
			prev := stops[i-1]
			local := (t - prev.t) / (curr.t - prev.t)
			return lerpRGBA(prev.col, curr.col, local)
		}
	}
	return stops[len(stops)-1].col
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	t = clamp01(t)
	return color.RGBA{
		R: lerpComponent(a.R, b.R, t),
		G: lerpComponent(a.G, b.G, t),
		B: lerpComponent(a.B, b.B, t),
		A: lerpComponent(a.A, b.A, t),
	}
}

func lerpComponent(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}

func scaleColorComponent(value uint8, factor float64) uint8 {
	scaled := math.Round(float64(value) * factor)
	if scaled < 0 {
		return 0
	}
	if scaled > 255 {
		return 255
	}
	return uint8(scaled)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
