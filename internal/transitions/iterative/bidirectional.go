package iterative

import (
	"context"
	"log/slog"
	"math"

	"image-fade/internal/core"
	"image-fade/pkg/field"
	"image-fade/pkg/replay"
)

// Bidirectional advances a forward frame toward the latest backward frame and
// a backward frame toward the latest forward frame until too few pixels are
// still more than one unit apart, at which point only unit fades remain. Forward frames are emitted as they are made; backward
// frames are held back and emitted in reverse at the end, finishing on the
// goal.
type Bidirectional struct {
	cfg       Config
	forward   *field.Field
	backward  *field.Field
	scratch   *field.Field
	held      []*field.Field
	out       emitter
	iter      int
	minMoving int
	meeting   bool
	stopped   bool
	done      bool
	log       *slog.Logger
}

// NewBidirectional builds the bidirectional iterative transition.
func NewBidirectional(start, goal *field.Field, cfg Config, onFrame replay.FrameFunc) (*Bidirectional, error) {
	if !start.SameSize(goal) {
		return nil, replay.ErrDimensionMismatch
	}
	if cfg.Iterations < 1 {
		cfg.Iterations = DefaultConfig().Iterations
	}
	return &Bidirectional{
		cfg:       cfg,
		forward:   start.Clone(),
		backward:  goal.Clone(),
		scratch:   start.Clone(),
		held:      []*field.Field{goal.Clone()},
		out:       emitter{onFrame: onFrame, total: 2*cfg.Iterations + 2},
		minMoving: int(math.Ceil(cfg.MinChange * float64(start.W*start.H))),
		log:       slog.Default().With("transition", BidirectionalName),
	}, nil
}

// Name returns the transition identifier.
func (b *Bidirectional) Name() string { return BidirectionalName }

// Size returns the frame dimensions.
func (b *Bidirectional) Size() core.Size { return core.Size{W: b.forward.W, H: b.forward.H} }

// Field returns the most recent frame.
func (b *Bidirectional) Field() *field.Field { return b.forward }

// Stop ends the transition before its next frame.
func (b *Bidirectional) Stop() { b.stopped = true }

// Advance emits one frame per call.
func (b *Bidirectional) Advance(ctx context.Context) (bool, error) {
	if b.done {
		return true, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if b.stopped {
		b.done = true
		return true, nil
	}
	if b.out.frame == 0 {
		return false, b.out.emit(b.forward)
	}
	if !b.meeting && b.iter < b.cfg.Iterations {
		if !b.halfSteps() {
			return false, b.out.emit(b.forward)
		}
		b.meeting = true
		b.out.total = b.out.frame + 1 + len(b.held)
		b.log.Debug("fronts met", "iterations", b.iter, "held", len(b.held))
		return false, b.out.emit(b.forward)
	}
	if !b.meeting {
		b.meeting = true
		b.out.total = b.out.frame + len(b.held)
	}
	if n := len(b.held); n > 0 {
		b.forward.CopyFrom(b.held[n-1])
		b.held = b.held[:n-1]
		return false, b.out.emit(b.forward)
	}
	b.done = true
	b.log.Info("transition finished", "frames", b.out.frame, "iterations", b.iter)
	return true, nil
}

// halfSteps advances the forward front, then the backward front, and reports
// whether the fronts met: the forward step changed nothing, or fewer than
// minMoving of its pixels are still more than one unit from the backward
// front.
func (b *Bidirectional) halfSteps() bool {
	b.iter++
	changed, moving := stepFrame(b.scratch, b.forward, b.backward)
	b.forward, b.scratch = b.scratch, b.forward
	if changed == 0 {
		return true
	}
	next := b.backward.Clone()
	NextFrame(next, b.backward, b.forward)
	b.backward = next
	b.held = append(b.held, next)
	return moving < b.minMoving
}

// Parameters reports the configuration and progress.
func (b *Bidirectional) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{Name: "Settings", Params: []core.Parameter{
			core.IntParam("iterations", "Iterations", b.cfg.Iterations),
			core.IntParam("min_moving", "Min moving px", b.minMoving),
		}},
		{Name: "Status", Params: []core.Parameter{
			core.IntParam("iteration", "Iteration", b.iter),
			core.IntParam("held", "Held frames", len(b.held)),
			core.IntParam("frames", "Frames", b.out.frame),
		}},
	}}
}
