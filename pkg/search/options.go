package search

import (
	"fmt"
	"io"
	"log/slog"
)

// Direction labels an engine for logs and metrics.
type Direction string

const (
	// Forward searches from the start field toward the goal field.
	Forward Direction = "forward"
	// Backward searches from the goal field toward the start field.
	Backward Direction = "backward"
)

// Options configures an Engine or a Coordinator.
//
// Only coordinates with x%Scale == 0 and y%Scale == 0 are edited and
// compared. BranchingFactor caps the children kept per sampled pixel per
// expansion. StepBudget is the number of nodes Run pops per Step. TailFade
// finishes with a unit-fade terminal node once every gap is within ±1. After
// each Step the frontier keeps at most max(CullFactor*h, CullFloor) nodes,
// h being the best frontier h.
type Options struct {
	Scale           int
	BranchingFactor int
	StepBudget      int
	TailFade        bool
	CullFactor      int
	CullFloor       int
	Direction       Direction
	Logger          *slog.Logger
}

// Option represents a functional option for configuring a search.
type Option func(*Options)

// DefaultOptions returns the options used when none are given.
//
// Defaults:
//   - Scale:           1
//   - BranchingFactor: 3
//   - StepBudget:      800
//   - TailFade:        true
//   - CullFactor:      5
//   - CullFloor:       500
//   - Direction:       Forward
//   - Logger:          discards everything
func DefaultOptions() Options {
	return Options{
		Scale:           1,
		BranchingFactor: 3,
		StepBudget:      800,
		TailFade:        true,
		CullFactor:      5,
		CullFloor:       500,
		Direction:       Forward,
		Logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithScale sets the sampling stride.
func WithScale(scale int) Option {
	return func(o *Options) { o.Scale = scale }
}

// WithBranchingFactor sets how many candidates are kept per pixel.
func WithBranchingFactor(n int) Option {
	return func(o *Options) { o.BranchingFactor = n }
}

// WithStepBudget sets how many nodes Run pops per Step.
func WithStepBudget(n int) Option {
	return func(o *Options) { o.StepBudget = n }
}

// WithTailFade toggles the unit-fade terminal shortcut.
func WithTailFade(enabled bool) Option {
	return func(o *Options) { o.TailFade = enabled }
}

// WithCull overrides the frontier culling constants. Non-positive values keep
// the defaults.
func WithCull(factor, floor int) Option {
	return func(o *Options) {
		if factor > 0 {
			o.CullFactor = factor
		}
		if floor > 0 {
			o.CullFloor = floor
		}
	}
}

// WithDirection labels the engine in logs and metrics.
func WithDirection(d Direction) Option {
	return func(o *Options) { o.Direction = d }
}

// WithLogger routes engine logs to l. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

func buildOptions(opts []Option) (Options, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Scale < 1 {
		return cfg, fmt.Errorf("%w: got %d", ErrBadScale, cfg.Scale)
	}
	if cfg.BranchingFactor < 1 {
		return cfg, fmt.Errorf("%w: got %d", ErrBadBranching, cfg.BranchingFactor)
	}
	if cfg.StepBudget < 1 {
		return cfg, fmt.Errorf("%w: got %d", ErrBadBudget, cfg.StepBudget)
	}
	return cfg, nil
}
