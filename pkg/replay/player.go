// Package replay turns a winning search path into a sequence of frames.
package replay

import (
	"context"
	"errors"
	"fmt"

	"image-fade/pkg/field"
	"image-fade/pkg/search"
)

// ErrDimensionMismatch reports a start and goal of different size.
var ErrDimensionMismatch = errors.New("replay: field and goal dimensions differ")

// FrameFunc receives the field after each replayed step. step counts frames
// from zero; total is the best known frame count and may grow once a tail
// fade starts. The field is reused between calls.
type FrameFunc func(f *field.Field, step, total int) error

// Player applies a path to a field one frame at a time.
type Player struct {
	path   search.Path
	field  *field.Field
	goal   *field.Field
	scale  int
	settle bool

	pos      int
	frame    int
	total    int
	inTail   bool
	settled  bool
	finished bool
}

// Option configures a Player.
type Option func(*Player)

// WithSettle appends a final tail fade when the path leaves any pixel away
// from the goal. Sampled searches only fix strided pixels, and bidirectional
// paths may stop within one unit of the goal.
func WithSettle(enabled bool) Option {
	return func(p *Player) { p.settle = enabled }
}

// NewPlayer prepares to replay path onto f, which is mutated in place. Each
// normal step writes its value into the scale x scale block anchored at the
// step's pixel.
func NewPlayer(path search.Path, f, goal *field.Field, scale int, opts ...Option) (*Player, error) {
	if !f.SameSize(goal) {
		return nil, fmt.Errorf("%w: %dx%d vs %dx%d", ErrDimensionMismatch, f.W, f.H, goal.W, goal.H)
	}
	if scale < 1 {
		scale = 1
	}
	p := &Player{path: path, field: f, goal: goal, scale: scale, total: len(path)}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Field returns the field being mutated.
func (p *Player) Field() *field.Field { return p.field }

// Frame returns the index of the last emitted frame, or -1 before the first.
func (p *Player) Frame() int { return p.frame - 1 }

// Total returns the best known frame count.
func (p *Player) Total() int { return p.total }

// Done reports whether every frame was emitted.
func (p *Player) Done() bool { return p.finished }

// Next produces one frame and reports whether it did. It returns false once
// the path and any tail fade are complete.
func (p *Player) Next() bool {
	if p.finished {
		return false
	}
	switch {
	case p.inTail:
		p.fadeOnce()
	case p.pos < len(p.path):
		s := p.path[p.pos]
		p.pos++
		if s.EndInSight {
			p.startTail(p.maxGap() - 1)
		} else {
			p.apply(s)
		}
	case p.settle && !p.settled:
		p.settled = true
		gap := p.maxGap()
		if gap == 0 {
			p.finished = true
			return false
		}
		p.startTail(gap)
	default:
		p.finished = true
		return false
	}
	p.frame++
	return true
}

// apply writes value+delta over the step's block, clipped to the field.
// Root steps carry no edit and leave the block alone.
func (p *Player) apply(s search.Step) {
	if s.Diff == 0 {
		return
	}
	v := field.Clamp(p.field.Get(s.X, s.Y) + s.Delta())
	for y := s.Y; y < s.Y+p.scale && y < p.field.H; y++ {
		for x := s.X; x < s.X+p.scale && x < p.field.W; x++ {
			p.field.Set(x, y, v)
		}
	}
}

// startTail runs the first fade iteration and grows the total by the extra
// frames still needed.
func (p *Player) startTail(extra int) {
	if extra > 0 {
		p.total += extra
	}
	if p.maxGap() == 0 {
		return
	}
	p.inTail = true
	p.fadeOnce()
}

// fadeOnce moves every pixel one unit toward the goal.
func (p *Player) fadeOnce() {
	cells, goal := p.field.Cells(), p.goal.Cells()
	remaining := false
	for i, v := range cells {
		switch g := goal[i]; {
		case v < g:
			cells[i] = v + 1
		case v > g:
			cells[i] = v - 1
		}
		if cells[i] != goal[i] {
			remaining = true
		}
	}
	p.inTail = remaining
}

func (p *Player) maxGap() int {
	cells, goal := p.field.Cells(), p.goal.Cells()
	gap := 0
	for i, v := range cells {
		d := int(v) - int(goal[i])
		if d < 0 {
			d = -d
		}
		if d > gap {
			gap = d
		}
	}
	return gap
}

// Replay emits every frame of path applied to f through onFrame. It stops
// early with the context's error or the first error onFrame returns.
func Replay(ctx context.Context, path search.Path, f, goal *field.Field, scale int, onFrame FrameFunc, opts ...Option) error {
	p, err := NewPlayer(path, f, goal, scale, opts...)
	if err != nil {
		return err
	}
	for p.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if onFrame == nil {
			continue
		}
		if err := onFrame(p.field, p.Frame(), p.Total()); err != nil {
			return err
		}
	}
	return nil
}
