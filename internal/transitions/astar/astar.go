// Package astar provides the search-based transitions: a best-first search
// from the start image to the goal and a bidirectional variant meeting in the
// middle. Both search first and then replay the winning path frame by frame.
package astar

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"image-fade/internal/core"
	"image-fade/pkg/field"
	"image-fade/pkg/replay"
	"image-fade/pkg/search"
)

const (
	// Name is the registry key of the single-direction search.
	Name = "astar"
	// BidirectionalName is the registry key of the bidirectional search.
	BidirectionalName = "biastar"
)

// searcher is the surface shared by search.Engine and search.Coordinator.
type searcher interface {
	Step(ctx context.Context, budget int) (search.State, error)
	Path() (search.Path, error)
	State() search.State
	Stop()
}

// Transition searches for an edit path and then replays it.
type Transition struct {
	name    string
	cfg     Config
	goal    *field.Field
	frame   *field.Field
	search  searcher
	stats   func() []core.ParameterGroup
	player  *replay.Player
	onFrame replay.FrameFunc
	steps   int
	pathLen int
	done    bool
	log     *slog.Logger
}

// New builds a single-direction search transition.
func New(start, goal *field.Field, cfg Config, onFrame replay.FrameFunc) (*Transition, error) {
	t := newTransition(Name, start, goal, cfg, onFrame)
	eng, err := search.NewEngine(start, goal, t.searchOptions()...)
	if err != nil {
		return nil, err
	}
	t.search = eng
	t.stats = func() []core.ParameterGroup {
		return []core.ParameterGroup{statsGroup("Search", "", eng.Stats())}
	}
	return t, nil
}

// NewBidirectional builds a transition that searches from both ends.
func NewBidirectional(start, goal *field.Field, cfg Config, onFrame replay.FrameFunc) (*Transition, error) {
	t := newTransition(BidirectionalName, start, goal, cfg, onFrame)
	co, err := search.NewCoordinator(start, goal, t.searchOptions()...)
	if err != nil {
		return nil, err
	}
	t.search = co
	t.stats = func() []core.ParameterGroup {
		return []core.ParameterGroup{
			statsGroup("Forward", "fwd_", co.Forward().Stats()),
			statsGroup("Backward", "bwd_", co.Backward().Stats()),
		}
	}
	return t, nil
}

func newTransition(name string, start, goal *field.Field, cfg Config, onFrame replay.FrameFunc) *Transition {
	def := DefaultConfig()
	if cfg.Scale < 1 {
		cfg.Scale = def.Scale
	}
	if cfg.Branching < 1 {
		cfg.Branching = def.Branching
	}
	if cfg.Budget < 1 {
		cfg.Budget = def.Budget
	}
	return &Transition{
		name:    name,
		cfg:     cfg,
		goal:    goal,
		frame:   start.Clone(),
		onFrame: onFrame,
		log:     slog.Default().With("transition", name),
	}
}

func (t *Transition) searchOptions() []search.Option {
	return []search.Option{
		search.WithScale(t.cfg.Scale),
		search.WithBranchingFactor(t.cfg.Branching),
		search.WithStepBudget(t.cfg.Budget),
		search.WithTailFade(t.cfg.TailFade),
		search.WithLogger(t.log),
	}
}

// Name returns the transition identifier.
func (t *Transition) Name() string { return t.name }

// Size returns the frame dimensions.
func (t *Transition) Size() core.Size { return core.Size{W: t.frame.W, H: t.frame.H} }

// Field returns the most recent frame. It shows the start image while the
// search runs.
func (t *Transition) Field() *field.Field { return t.frame }

// Stop cancels the search at its next step.
func (t *Transition) Stop() { t.search.Stop() }

// Searching reports whether the search phase is still running.
func (t *Transition) Searching() bool { return t.player == nil && !t.done }

// Advance runs one search step of Budget nodes, or replays one frame once
// the path is known.
func (t *Transition) Advance(ctx context.Context) (bool, error) {
	if t.done {
		return true, nil
	}
	if t.player == nil {
		return false, t.searchStep(ctx)
	}
	if !t.player.Next() {
		t.done = true
		t.log.Info("replay finished", "frames", t.player.Total())
		return true, nil
	}
	if t.onFrame != nil {
		if err := t.onFrame(t.frame, t.player.Frame(), t.player.Total()); err != nil {
			return false, err
		}
	}
	return false, nil
}

func (t *Transition) searchStep(ctx context.Context) error {
	st, err := t.search.Step(ctx, t.cfg.Budget)
	t.steps++
	if st != search.StateGoalFound {
		if err != nil {
			return fmt.Errorf("%s: %w", t.name, err)
		}
		return nil
	}
	path, err := t.search.Path()
	if err != nil {
		return fmt.Errorf("%s: %w", t.name, err)
	}
	t.pathLen = len(path)
	player, err := replay.NewPlayer(path, t.frame, t.goal, t.cfg.Scale, replay.WithSettle(t.cfg.Settle))
	if err != nil {
		return fmt.Errorf("%s: %w", t.name, err)
	}
	t.player = player
	t.log.Info("path found", "steps", t.steps, "path", len(path), "edits", path.Edits())
	return nil
}

// Parameters reports the configuration and progress counters.
func (t *Transition) Parameters() core.ParameterSnapshot {
	phase := "searching"
	frame, total := 0, 0
	switch {
	case t.done:
		phase = "done"
	case t.player != nil:
		phase = "replaying"
	case t.search.State().Terminal():
		phase = t.search.State().String()
	}
	if t.player != nil {
		frame, total = t.player.Frame()+1, t.player.Total()
	}
	groups := []core.ParameterGroup{
		{
			Name: "Settings",
			Params: []core.Parameter{
				core.IntParam("scale", "Scale", t.cfg.Scale),
				core.IntParam("samples", "Sampled px", t.frame.Samples(t.cfg.Scale)),
				core.IntParam("branching", "Branching", t.cfg.Branching),
				core.IntParam("budget", "Budget", t.cfg.Budget),
				core.BoolParam("tail", "Tail fade", t.cfg.TailFade),
				core.BoolParam("settle", "Settle", t.cfg.Settle),
			},
		},
		{
			Name: "Status",
			Params: []core.Parameter{
				core.TextParam("phase", "Phase", phase),
				core.IntParam("steps", "Steps", t.steps),
				core.IntParam("path", "Path", t.pathLen),
				core.TextParam("frame", "Frame", strconv.Itoa(frame)+"/"+strconv.Itoa(total)),
			},
		},
	}
	return core.ParameterSnapshot{Groups: append(groups, t.stats()...)}
}

// ParameterControls exposes the per-step budget to the HUD.
func (t *Transition) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "budget", Label: "Budget", Type: core.ParamTypeInt, Step: 100, Min: 1, HasMin: true, Max: 100000, HasMax: true},
	}
}

// SetIntParameter updates the per-step budget. Other settings are fixed once
// the search started.
func (t *Transition) SetIntParameter(key string, value int) bool {
	if key != "budget" || value < 1 {
		return false
	}
	t.cfg.Budget = value
	return true
}

func statsGroup(name, prefix string, s search.Stats) core.ParameterGroup {
	return core.ParameterGroup{
		Name: name,
		Params: []core.Parameter{
			core.IntParam(prefix+"processed", "Processed", s.Processed),
			core.IntParam(prefix+"frontier", "Frontier", s.Frontier),
			core.IntParam(prefix+"seen", "Seen", s.Seen),
			core.IntParam(prefix+"culled", "Culled", s.Culled),
			core.IntParam(prefix+"next_g", "Next g", s.NextG),
			core.IntParam(prefix+"next_h", "Next h", s.NextH),
		},
	}
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
