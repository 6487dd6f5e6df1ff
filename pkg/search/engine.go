package search

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"image-fade/pkg/field"
)

// State is the lifecycle position of an Engine or Coordinator.
type State int

const (
	// StateReady means no step has run yet.
	StateReady State = iota
	// StateRunning means at least one step ran and no terminal state was hit.
	StateRunning
	// StateGoalFound means a winner is available.
	StateGoalFound
	// StateExhausted means the frontier emptied without a winner.
	StateExhausted
	// StateStopped means a stop request or a done context was observed.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateGoalFound:
		return "goal_found"
	case StateExhausted:
		return "exhausted"
	case StateStopped:
		return "stopped"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether no further step can change the state.
func (s State) Terminal() bool {
	return s == StateGoalFound || s == StateExhausted || s == StateStopped
}

// Stats is a snapshot of an engine's progress.
type Stats struct {
	Processed int // nodes expanded
	Frontier  int
	Seen      int
	Culled    int
	NextG     int // g of the next node to expand, -1 when the frontier is empty
	NextH     int // h of the next node to expand, -1 when the frontier is empty
}

// Engine is a single-direction best-first search from start toward goal.
// It is driven cooperatively through Step and is not safe for concurrent
// use, except for Stop which may be called from any goroutine.
type Engine struct {
	opts        Options
	start, goal *field.Field
	arena       *Arena
	expander    *expander
	frontier    *Frontier
	seen        *SeenSet
	root        NodeID

	state   State
	err     error
	winner  NodeID
	stop    atomic.Bool
	stats   Stats
	last    []NodeID
	log     *slog.Logger
	metrics engineMetrics
}

// NewEngine prepares a search from start to goal. The root node is queued
// immediately; when start already equals goal on every sampled coordinate the
// engine starts in StateGoalFound with the root as winner.
func NewEngine(start, goal *field.Field, opts ...Option) (*Engine, error) {
	if start == nil || goal == nil || !start.SameSize(goal) {
		return nil, ErrDimensionMismatch
	}
	cfg, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	a := NewArena(start.W, start.H)
	e := &Engine{
		opts:     cfg,
		start:    start,
		goal:     goal,
		arena:    a,
		frontier: NewFrontier(a),
		seen:     NewSeenSet(a),
		winner:   NoNode,
		log:      cfg.Logger.With("direction", string(cfg.Direction)),
		metrics:  newEngineMetrics(cfg.Direction),
		expander: &expander{
			arena:     a,
			start:     start,
			goal:      goal,
			scale:     cfg.Scale,
			branching: cfg.BranchingFactor,
			tailFade:  cfg.TailFade,
		},
	}
	e.root = a.NewRoot(initialH(start, goal, cfg.Scale))
	a.Get(e.root).image = imageHash(start, cfg.Scale)
	e.frontier.Push(e.root)
	if a.Get(e.root).H == 0 {
		e.winner = e.root
		e.finish(StateGoalFound, nil)
	}
	e.refreshStats()
	e.log.Debug("engine ready",
		"width", start.W, "height", start.H,
		"scale", cfg.Scale, "branching", cfg.BranchingFactor,
		"h", a.Get(e.root).H)
	return e, nil
}

// Step pops and expands up to budget nodes. It returns early when a goal is
// found or the frontier empties. Stop requests and context cancellation are
// only observed before the first pop. Once a terminal state is reached every
// later call returns it unchanged.
func (e *Engine) Step(ctx context.Context, budget int) (State, error) {
	if e.state.Terminal() {
		return e.state, e.err
	}
	if e.stop.Load() {
		e.finish(StateStopped, ErrStopped)
		return e.state, e.err
	}
	if err := ctx.Err(); err != nil {
		e.finish(StateStopped, fmt.Errorf("%w: %w", ErrStopped, err))
		return e.state, e.err
	}
	if budget < 1 {
		return e.state, fmt.Errorf("%w: got %d", ErrBadBudget, budget)
	}

	began := time.Now()
	e.state = StateRunning
	for i := 0; i < budget; i++ {
		if e.frontier.Len() == 0 {
			e.finish(StateExhausted, ErrSearchExhausted)
			break
		}
		if e.expand(e.frontier.Pop()) {
			break
		}
	}
	if !e.state.Terminal() {
		e.cull()
	}
	e.refreshStats()
	e.metrics.step.Observe(time.Since(began).Seconds())
	e.metrics.frontier.Set(float64(e.stats.Frontier))
	return e.state, e.err
}

// Run steps with the configured budget until a terminal state and returns
// the winner.
func (e *Engine) Run(ctx context.Context) (NodeID, error) {
	for {
		st, err := e.Step(ctx, e.opts.StepBudget)
		if st == StateGoalFound {
			return e.winner, nil
		}
		if st.Terminal() {
			return NoNode, err
		}
		if err != nil {
			return NoNode, err
		}
	}
}

// Stop requests cancellation. The engine observes it at its next Step.
func (e *Engine) Stop() { e.stop.Store(true) }

// State returns the current lifecycle state.
func (e *Engine) State() State { return e.state }

// Err returns the error that accompanied the terminal state, if any.
func (e *Engine) Err() error { return e.err }

// Winner returns the winning node once the state is StateGoalFound.
func (e *Engine) Winner() (NodeID, bool) { return e.winner, e.winner != NoNode }

// Path returns the replay steps from the root to the winner.
func (e *Engine) Path() (Path, error) {
	if e.winner == NoNode {
		return nil, ErrNoWinner
	}
	return e.arena.Path(e.winner), nil
}

// Stats returns a snapshot of the engine's counters.
func (e *Engine) Stats() Stats { return e.stats }

// Root returns the id of the start state.
func (e *Engine) Root() NodeID { return e.root }

// Arena exposes the node storage.
func (e *Engine) Arena() *Arena { return e.arena }

// Frontier exposes the open set.
func (e *Engine) Frontier() *Frontier { return e.frontier }

// Seen exposes the expanded set.
func (e *Engine) Seen() *SeenSet { return e.seen }

// Options returns the effective options.
func (e *Engine) Options() Options { return e.opts }

// LastExpansion returns the children accepted by the most recent expansion.
// The slice is reused by the next Step.
func (e *Engine) LastExpansion() []NodeID { return e.last }

// ShouldSkip reports whether id is a no-op edit or a state already queued or
// expanded.
func (e *Engine) ShouldSkip(id NodeID) bool {
	if e.arena.Get(id).Diff == 0 {
		return true
	}
	return e.frontier.ContainsEquivalent(id) || e.seen.ContainsEquivalent(id)
}

// expand processes one popped node and reports whether a winner was found.
func (e *Engine) expand(q NodeID) bool {
	e.last = e.last[:0]
	qn := e.arena.Get(q)
	if qn.EndInSight {
		e.winner = q
		e.finish(StateGoalFound, nil)
		return true
	}
	e.stats.Processed++
	e.metrics.expanded.Inc()

	won := NoNode
	var accepted, skipped int
	e.expander.Expand(q, func(child NodeID) bool {
		cn := e.arena.Get(child)
		// The terminal child carries no edit but must not be filtered.
		if !cn.EndInSight && e.ShouldSkip(child) {
			e.arena.Release(child)
			skipped++
			return true
		}
		e.frontier.Push(child)
		e.last = append(e.last, child)
		accepted++
		// Only h == 0 children can match the goal.
		if cn.H == 0 && !cn.EndInSight && e.arena.MatchesGoal(child, e.start, e.goal, e.opts.Scale) {
			won = child
			return false
		}
		return true
	})
	e.seen.Add(q)
	e.metrics.accepted.Add(float64(accepted))
	e.metrics.skipped.Add(float64(skipped))

	if won != NoNode {
		e.winner = won
		e.finish(StateGoalFound, nil)
		return true
	}
	return false
}

// cull trims the frontier to max(CullFactor*h, CullFloor) entries when it
// holds at least ten, h being the best queued h. Evicted nodes leave the
// duplicate index and are released.
func (e *Engine) cull() {
	if e.frontier.Len() < 10 {
		return
	}
	best, _ := e.frontier.Peek()
	limit := max(e.opts.CullFactor*e.arena.Get(best).H, e.opts.CullFloor)
	evicted := e.frontier.Cull(limit)
	for _, id := range evicted {
		e.arena.Release(id)
	}
	if n := len(evicted); n > 0 {
		kept := e.last[:0]
		for _, id := range e.last {
			if e.arena.Get(id).live {
				kept = append(kept, id)
			}
		}
		e.last = kept
		e.stats.Culled += n
		e.metrics.culled.Add(float64(n))
		e.log.Debug("frontier culled", "evicted", n, "kept", e.frontier.Len())
	}
}

func (e *Engine) refreshStats() {
	e.stats.Frontier = e.frontier.Len()
	e.stats.Seen = e.seen.Len()
	e.stats.NextG, e.stats.NextH = -1, -1
	if id, ok := e.frontier.Peek(); ok {
		n := e.arena.Get(id)
		e.stats.NextG, e.stats.NextH = n.G, n.H
	}
}

func (e *Engine) finish(s State, err error) {
	e.state = s
	e.err = err
	e.metrics.outcome(s)
	attrs := []any{"state", s.String(), "processed", e.stats.Processed}
	if e.winner != NoNode {
		attrs = append(attrs, "g", e.arena.Get(e.winner).G)
	}
	if err != nil {
		e.log.Info("search finished", append(attrs, "err", err)...)
		return
	}
	e.log.Info("search finished", attrs...)
}
