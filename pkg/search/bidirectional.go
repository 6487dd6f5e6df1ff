package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"image-fade/pkg/field"
)

// Meeting identifies the node pair that joined a bidirectional search.
type Meeting struct {
	Forward  NodeID
	Backward NodeID
}

// Coordinator alternates a forward engine (start to goal) and a backward
// engine (goal to start), one node each per round, and finishes when a newly
// generated node of one side reproduces the image of a node the other side
// already expanded. A side that reaches its own goal alone finishes too,
// paired with the other side's root.
type Coordinator struct {
	forward  *Engine
	backward *Engine
	start    *field.Field
	goal     *field.Field
	scale    int
	budget   int

	state   State
	err     error
	meeting Meeting
	tail    bool // backward side won alone through a terminal node
	rounds  int
	stop    atomic.Bool
	log     *slog.Logger
}

// NewCoordinator builds both engines with the same options. Direction options
// are overridden per side.
func NewCoordinator(start, goal *field.Field, opts ...Option) (*Coordinator, error) {
	fwd, err := NewEngine(start, goal, append(opts[:len(opts):len(opts)], WithDirection(Forward))...)
	if err != nil {
		return nil, err
	}
	bwd, err := NewEngine(goal, start, append(opts[:len(opts):len(opts)], WithDirection(Backward))...)
	if err != nil {
		return nil, err
	}
	c := &Coordinator{
		forward:  fwd,
		backward: bwd,
		start:    start,
		goal:     goal,
		scale:    fwd.opts.Scale,
		budget:   fwd.opts.StepBudget,
		meeting:  Meeting{Forward: NoNode, Backward: NoNode},
		log:      fwd.opts.Logger.With("direction", "both"),
	}
	if fwd.State() == StateGoalFound {
		c.finishMeeting(fwd.root, bwd.root)
	}
	return c, nil
}

// Step runs up to rounds rounds. Each round steps the forward engine by one
// node, checks its new children against the backward seen set, then does the
// same the other way. Terminal states are sticky.
func (c *Coordinator) Step(ctx context.Context, rounds int) (State, error) {
	if c.state.Terminal() {
		return c.state, c.err
	}
	if c.stop.Load() {
		c.halt(StateStopped, ErrStopped)
		return c.state, c.err
	}
	if err := ctx.Err(); err != nil {
		c.halt(StateStopped, fmt.Errorf("%w: %w", ErrStopped, err))
		return c.state, c.err
	}
	if rounds < 1 {
		return c.state, fmt.Errorf("%w: got %d", ErrBadBudget, rounds)
	}
	c.state = StateRunning
	for r := 0; r < rounds; r++ {
		c.rounds++
		if c.advance(ctx, c.forward, c.backward) || c.advance(ctx, c.backward, c.forward) {
			break
		}
	}
	return c.state, c.err
}

// Run steps until a terminal state and returns the meeting pair.
func (c *Coordinator) Run(ctx context.Context) (Meeting, error) {
	for {
		st, err := c.Step(ctx, c.budget)
		if st == StateGoalFound {
			return c.meeting, nil
		}
		if st.Terminal() || err != nil {
			return c.meeting, err
		}
	}
}

// Stop requests cancellation of both sides.
func (c *Coordinator) Stop() {
	c.stop.Store(true)
	c.forward.Stop()
	c.backward.Stop()
}

// State returns the current lifecycle state.
func (c *Coordinator) State() State { return c.state }

// Err returns the error that accompanied the terminal state, if any.
func (c *Coordinator) Err() error { return c.err }

// Rounds returns how many rounds ran.
func (c *Coordinator) Rounds() int { return c.rounds }

// Forward returns the start-to-goal engine.
func (c *Coordinator) Forward() *Engine { return c.forward }

// Backward returns the goal-to-start engine.
func (c *Coordinator) Backward() *Engine { return c.backward }

// Meeting returns the joining pair once the state is StateGoalFound.
func (c *Coordinator) Meeting() (Meeting, bool) {
	return c.meeting, c.state == StateGoalFound
}

// Path concatenates the forward chain from its root to the meeting node with
// the backward chain from its meeting node up to its root. Backward steps are
// marked Mirror so replay undoes them. When the backward side finished alone
// within one unit of the start, the path ends with an EndInSight step.
func (c *Coordinator) Path() (Path, error) {
	if c.state != StateGoalFound {
		return nil, ErrNoWinner
	}
	path := c.forward.arena.Path(c.meeting.Forward)
	path = append(path, c.backward.arena.Mirrored(c.meeting.Backward)...)
	if c.tail {
		path = append(path, Step{EndInSight: true})
	}
	return path, nil
}

// advance steps side once and reports whether the coordinator finished.
func (c *Coordinator) advance(ctx context.Context, side, other *Engine) bool {
	st, err := side.Step(ctx, 1)
	switch st {
	case StateGoalFound:
		w, _ := side.Winner()
		if side == c.forward {
			c.finishMeeting(w, other.root)
			return true
		}
		// A backward terminal node fades toward the start image, which is
		// the wrong direction for replay. Its parent is within one unit of
		// the start everywhere, so undoing the parent's edits lands within
		// one unit of the goal and a forward fade finishes the path.
		if n := side.arena.Get(w); n.EndInSight && n.Parent != NoNode {
			w = n.Parent
			c.tail = true
		}
		c.finishMeeting(other.root, w)
		return true
	case StateExhausted, StateStopped:
		c.halt(st, err)
		return true
	}
	if err != nil {
		c.halt(StateStopped, err)
		return true
	}
	for _, child := range side.LastExpansion() {
		// A terminal child shares its parent's image, which was checked when
		// the parent was generated.
		if side.arena.Get(child).EndInSight {
			continue
		}
		if m, ok := c.meet(side, other, child); ok {
			c.finishMeeting(m.Forward, m.Backward)
			return true
		}
	}
	return false
}

// meet looks for an expanded node of other whose image equals child's.
func (c *Coordinator) meet(side, other *Engine, child NodeID) (Meeting, bool) {
	fp := side.arena.Get(child).image
	for _, oid := range other.seen.WithImage(fp) {
		m := Meeting{Forward: child, Backward: oid}
		if side == c.backward {
			m = Meeting{Forward: oid, Backward: child}
		}
		if CombinedWith(c.forward.arena, m.Forward, c.backward.arena, m.Backward, c.start, c.goal, c.scale) {
			return m, true
		}
	}
	return Meeting{}, false
}

func (c *Coordinator) finishMeeting(fwd, bwd NodeID) {
	c.meeting = Meeting{Forward: fwd, Backward: bwd}
	c.state = StateGoalFound
	c.err = nil
	c.log.Info("searches met",
		"rounds", c.rounds,
		"forward_g", c.forward.arena.Get(fwd).G,
		"backward_g", c.backward.arena.Get(bwd).G)
}

func (c *Coordinator) halt(s State, err error) {
	if errors.Is(err, ErrSearchExhausted) {
		s = StateExhausted
	}
	c.state = s
	c.err = err
	c.forward.Stop()
	c.backward.Stop()
	c.log.Info("bidirectional search finished", "state", c.state.String(), "rounds", c.rounds, "err", err)
}
