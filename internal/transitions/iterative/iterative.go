// Package iterative provides the non-search transitions. Every frame moves
// each pixel either one unit toward its target or onto the value of a
// neighbour that is at least as close, which makes image features appear to
// slide rather than just cross-fade.
package iterative

import (
	"context"
	"log/slog"
	"strconv"

	"image-fade/internal/core"
	"image-fade/pkg/field"
	"image-fade/pkg/replay"
)

const (
	// Name is the registry key of the single-direction transition.
	Name = "iterative"
	// BidirectionalName is the registry key of the transition that advances
	// from both ends.
	BidirectionalName = "biiterative"
)

// Config holds parameters for the iterative transitions.
type Config struct {
	// Iterations caps the number of generated frames per direction.
	Iterations int
	// MinChange is the fraction of pixels that must still be more than one
	// unit from the other front after a bidirectional forward half-step for
	// the fronts to keep moving toward each other.
	MinChange float64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Iterations: 100, MinChange: 0.15}
}

// FromMap populates a Config from a string map.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["iterations"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Iterations = parsed
		}
	}
	if v, ok := cfg["min_change"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.MinChange = parsed
		}
	}
	return c
}

// NextFrame writes into dst the frame that follows cur on its way to target
// and returns how many pixels changed. dst must not alias cur.
func NextFrame(dst, cur, target *field.Field) int {
	changed, _ := stepFrame(dst, cur, target)
	return changed
}

// stepFrame is NextFrame that also counts the changed pixels left more than
// one unit away from target.
func stepFrame(dst, cur, target *field.Field) (changed, moving int) {
	for y := 0; y < cur.H; y++ {
		for x := 0; x < cur.W; x++ {
			v := nextValue(cur, target, x, y)
			if v != cur.Get(x, y) {
				changed++
				if abs(target.Get(x, y)-v) > 1 {
					moving++
				}
			}
			dst.Set(x, y, v)
		}
	}
	return changed, moving
}

func nextValue(cur, target *field.Field, x, y int) int {
	v := cur.Get(x, y)
	desired := target.Get(x, y)
	if v == desired {
		return v
	}
	next := v + 1
	if desired < v {
		next = v - 1
	}
	best := abs(desired - next)
	consider := func(nx, ny int) {
		if !cur.In(nx, ny) {
			return
		}
		if option := cur.Get(nx, ny); abs(desired-option) <= best {
			next, best = option, abs(desired-option)
		}
	}
	consider(x-1, y)
	consider(x+1, y)
	consider(x, y-1)
	consider(x, y+1)
	return next
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// emitter tracks frame numbering shared by both transitions.
type emitter struct {
	onFrame replay.FrameFunc
	frame   int
	total   int
}

func (e *emitter) emit(f *field.Field) error {
	e.frame++
	if e.total < e.frame {
		e.total = e.frame
	}
	if e.onFrame == nil {
		return nil
	}
	return e.onFrame(f, e.frame-1, e.total)
}

// Transition morphs start into goal one neighbour-aware frame at a time.
type Transition struct {
	cfg     Config
	goal    *field.Field
	cur     *field.Field
	scratch *field.Field
	out     emitter
	iter    int
	stopped bool
	done    bool
	log     *slog.Logger
}

// New builds the single-direction iterative transition.
func New(start, goal *field.Field, cfg Config, onFrame replay.FrameFunc) (*Transition, error) {
	if !start.SameSize(goal) {
		return nil, replay.ErrDimensionMismatch
	}
	if cfg.Iterations < 1 {
		cfg.Iterations = DefaultConfig().Iterations
	}
	return &Transition{
		cfg:     cfg,
		goal:    goal,
		cur:     start.Clone(),
		scratch: start.Clone(),
		out:     emitter{onFrame: onFrame, total: cfg.Iterations + 2},
		log:     slog.Default().With("transition", Name),
	}, nil
}

// Name returns the transition identifier.
func (t *Transition) Name() string { return Name }

// Size returns the frame dimensions.
func (t *Transition) Size() core.Size { return core.Size{W: t.cur.W, H: t.cur.H} }

// Field returns the most recent frame.
func (t *Transition) Field() *field.Field { return t.cur }

// Stop ends the transition before its next frame.
func (t *Transition) Stop() { t.stopped = true }

// Advance emits the start frame, then one generated frame per call, then the
// goal frame.
func (t *Transition) Advance(ctx context.Context) (bool, error) {
	if t.done {
		return true, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if t.stopped {
		t.done = true
		return true, nil
	}
	switch {
	case t.out.frame == 0:
	case t.iter < t.cfg.Iterations && !t.cur.Equal(t.goal):
		NextFrame(t.scratch, t.cur, t.goal)
		t.cur, t.scratch = t.scratch, t.cur
		t.iter++
	case !t.cur.Equal(t.goal):
		t.cur.CopyFrom(t.goal)
		t.iter = t.cfg.Iterations
	default:
		t.done = true
		t.out.total = t.out.frame
		t.log.Info("transition finished", "frames", t.out.frame, "iterations", t.iter)
		return true, nil
	}
	return false, t.out.emit(t.cur)
}

// Parameters reports the configuration and progress.
func (t *Transition) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{Name: "Settings", Params: []core.Parameter{
			core.IntParam("iterations", "Iterations", t.cfg.Iterations),
		}},
		{Name: "Status", Params: []core.Parameter{
			core.IntParam("iteration", "Iteration", t.iter),
			core.IntParam("frames", "Frames", t.out.frame),
		}},
	}}
}

func init() {
	core.Register(Name, func(start, goal *field.Field, cfg map[string]string, onFrame replay.FrameFunc) (core.Transition, error) {
		t, err := New(start, goal, FromMap(cfg), onFrame)
		if err != nil {
			return nil, err
		}
		return t, nil
	})
	core.Register(BidirectionalName, func(start, goal *field.Field, cfg map[string]string, onFrame replay.FrameFunc) (core.Transition, error) {
		t, err := NewBidirectional(start, goal, FromMap(cfg), onFrame)
		if err != nil {
			return nil, err
		}
		return t, nil
	})
}
