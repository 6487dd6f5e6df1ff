package ui

import (
	"image"
	"strings"

	"image-fade/internal/core"
)

const (
	panelPadding   = 12
	lineHeight     = 36
	textLineHeight = 15
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	infoSpacing    = 36
	controlsTop    = panelPadding + headerBaseline + 14
)

type hudControlState struct {
	control  core.ParameterControl
	value    string
	intValue int
	hasValue bool

	top       int
	minusRect image.Rectangle
	plusRect  image.Rectangle
}

// adjustTarget returns the value one click moves an int control to from cur,
// clamped to the control's bounds, and whether it differs from cur.
func adjustTarget(ctrl core.ParameterControl, cur, direction int) (int, bool) {
	if ctrl.Type != core.ParamTypeInt || direction == 0 {
		return cur, false
	}
	step := ctrl.Step
	if step <= 0 {
		step = 1
	}
	target := cur + direction*step
	if ctrl.HasMin && target < ctrl.Min {
		target = ctrl.Min
	}
	if ctrl.HasMax && target > ctrl.Max {
		target = ctrl.Max
	}
	return target, target != cur
}

// layoutControl places the i-th control row inside a panel of the given
// width.
func layoutControl(width, i int) (top int, minus, plus image.Rectangle) {
	top = controlsTop + i*lineHeight
	buttonY := top + (lineHeight-buttonSize)/2
	plus = image.Rect(width-panelPadding-buttonSize, buttonY, width-panelPadding, buttonY+buttonSize)
	minus = image.Rect(plus.Min.X-buttonGap-buttonSize, buttonY, plus.Min.X-buttonGap, buttonY+buttonSize)
	return top, minus, plus
}

// statusLines renders every parameter not shown as a control, group by
// group.
func statusLines(snap core.ParameterSnapshot, controls []hudControlState) []string {
	skip := make(map[string]bool, len(controls))
	for _, c := range controls {
		skip[c.control.Key] = true
	}
	var lines []string
	for _, g := range snap.Groups {
		var body []string
		for _, p := range g.Params {
			if skip[p.Key] {
				continue
			}
			body = append(body, "  "+p.Label+": "+p.Value)
		}
		if len(body) == 0 {
			continue
		}
		lines = append(lines, g.Name)
		lines = append(lines, body...)
	}
	return lines
}

func buildTitle(name string) string {
	if name == "" {
		return "Transition"
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}
