package search

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image-fade/pkg/field"
)

// applyPath replays p onto a copy of start without tail fading, so tests can
// check what the edits alone produce.
func applyPath(start *field.Field, p Path) *field.Field {
	out := start.Clone()
	for _, s := range p {
		out.Set(s.X, s.Y, out.Get(s.X, s.Y)+s.Delta())
	}
	return out
}

func TestNewEngineRejectsMismatchedFields(t *testing.T) {
	_, err := NewEngine(field.New(3, 3), field.New(3, 4))
	require.ErrorIs(t, err, ErrDimensionMismatch)
	_, err = NewEngine(field.New(3, 3), nil)
	require.ErrorIs(t, err, ErrDimensionMismatch)

	for _, w := range []int{1, 2, 7} {
		_, err = NewEngine(field.New(w, 2), field.New(w, 2))
		require.NoError(t, err)
	}
}

func TestNewEngineValidatesOptions(t *testing.T) {
	a, b := field.New(2, 2), field.New(2, 2)
	_, err := NewEngine(a, b, WithScale(0))
	assert.ErrorIs(t, err, ErrBadScale)
	_, err = NewEngine(a, b, WithBranchingFactor(0))
	assert.ErrorIs(t, err, ErrBadBranching)
	_, err = NewEngine(a, b, WithStepBudget(0))
	assert.ErrorIs(t, err, ErrBadBudget)
}

func TestEqualFieldsStartAsGoalFound(t *testing.T) {
	f := field.Noise(4, 4, 255, 5)
	e, err := NewEngine(f, f.Clone())
	require.NoError(t, err)
	assert.Equal(t, StateGoalFound, e.State())
	id, ok := e.Winner()
	require.True(t, ok)
	assert.Equal(t, e.Root(), id)

	st, err := e.Step(context.Background(), 10)
	assert.Equal(t, StateGoalFound, st)
	assert.NoError(t, err)
	assert.Zero(t, e.Stats().Processed)
}

func TestShouldSkip(t *testing.T) {
	start := mustField(t, 2, 1, 0, 0)
	goal := mustField(t, 2, 1, 3, 3)
	e, err := NewEngine(start, goal)
	require.NoError(t, err)

	a := e.Arena()
	noop := a.NewChild(e.Root(), 1, 0, 0, 6)
	assert.True(t, e.ShouldSkip(noop))

	fresh := a.NewChild(e.Root(), 1, 0, 1, 5)
	assert.False(t, e.ShouldSkip(fresh))
	e.Frontier().Push(fresh)

	dup := a.NewChild(e.Root(), 1, 0, 1, 5)
	assert.True(t, e.ShouldSkip(dup))

	// A pixel edited back to its start value keeps its zero entry, so the
	// state differs from the root.
	e.Seen().Add(e.Root())
	back := a.NewChild(fresh, 1, 0, -1, 6)
	assert.False(t, e.ShouldSkip(back))

	// Same edits in a different order reach an expanded state.
	other := a.NewChild(e.Root(), 0, 0, 2, 4)
	e.Seen().Add(other)
	swapped := a.NewChild(a.NewChild(e.Root(), 0, 0, 1, 5), 0, 0, 1, 4)
	assert.True(t, e.ShouldSkip(swapped))
}

func TestEndToEndTwoByTwo(t *testing.T) {
	start := mustField(t, 2, 2, 0, 1, 2, 3)
	goal := uniform(2, 2, 0)
	for _, tail := range []bool{true, false} {
		e, err := NewEngine(start, goal, WithBranchingFactor(3), WithTailFade(tail))
		require.NoError(t, err)
		id, err := e.Run(context.Background())
		require.NoError(t, err)
		require.Equal(t, StateGoalFound, e.State())

		p, err := e.Path()
		require.NoError(t, err)
		require.NotEmpty(t, p)
		assert.Equal(t, e.Arena().Get(id).G+1, len(p))

		last := p[len(p)-1]
		got := applyPath(start, p)
		if last.EndInSight {
			// Edits leave every pixel within one unit; the tail fade covers
			// the rest.
			for i, v := range got.Cells() {
				assert.LessOrEqual(t, int(v), 1, "pixel %d", i)
			}
			continue
		}
		assert.Equal(t, goal.Cells(), got.Cells())
	}
}

func TestExpansionOrderIsNondecreasingInH(t *testing.T) {
	start := field.Noise(4, 4, 40, 11)
	goal := field.Noise(4, 4, 40, 12)
	e, err := NewEngine(start, goal, WithTailFade(false), WithCull(100, 100000))
	require.NoError(t, err)

	// Whatever was pushed, the next pop is the minimum h.
	ctx := context.Background()
	for i := 0; i < 50 && !e.State().Terminal(); i++ {
		best, ok := e.Frontier().Peek()
		require.True(t, ok)
		h := e.Arena().Get(best).H
		for _, entry := range e.Frontier().queue {
			assert.LessOrEqual(t, h, entry.h)
		}
		_, err := e.Step(ctx, 1)
		if err != nil {
			require.ErrorIs(t, err, ErrSearchExhausted)
		}
	}
}

func TestStopIsObservedAtStepBoundary(t *testing.T) {
	e, err := NewEngine(field.Noise(5, 5, 255, 1), field.Noise(5, 5, 255, 2))
	require.NoError(t, err)
	ctx := context.Background()

	st, err := e.Step(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, StateRunning, st)
	processed := e.Stats().Processed

	e.Stop()
	st, err = e.Step(ctx, 3)
	assert.Equal(t, StateStopped, st)
	assert.ErrorIs(t, err, ErrStopped)

	st, err = e.Step(ctx, 3)
	assert.Equal(t, StateStopped, st)
	assert.ErrorIs(t, err, ErrStopped)
	assert.Equal(t, processed, e.Stats().Processed)
}

func TestCancelledContextStops(t *testing.T) {
	e, err := NewEngine(field.Noise(5, 5, 255, 1), field.Noise(5, 5, 255, 2))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	st, err := e.Step(ctx, 5)
	assert.Equal(t, StateStopped, st)
	assert.ErrorIs(t, err, ErrStopped)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEmptyFrontierExhausts(t *testing.T) {
	e, err := NewEngine(mustField(t, 1, 1, 0), mustField(t, 1, 1, 9))
	require.NoError(t, err)
	e.Frontier().Pop()

	st, err := e.Step(context.Background(), 1)
	assert.Equal(t, StateExhausted, st)
	assert.ErrorIs(t, err, ErrSearchExhausted)

	_, err = e.Path()
	assert.ErrorIs(t, err, ErrNoWinner)
}

func TestStepRejectsBadBudget(t *testing.T) {
	e, err := NewEngine(mustField(t, 1, 1, 0), mustField(t, 1, 1, 9))
	require.NoError(t, err)
	st, err := e.Step(context.Background(), 0)
	assert.ErrorIs(t, err, ErrBadBudget)
	assert.Equal(t, StateReady, st)
}

func TestCullKeepsBestEntries(t *testing.T) {
	start := field.Noise(12, 12, 3, 21)
	goal := field.Noise(12, 12, 3, 22)
	e, err := NewEngine(start, goal, WithCull(1, 20))
	require.NoError(t, err)

	_, err = e.Step(context.Background(), 3)
	require.NoError(t, err)
	best, _ := e.Frontier().Peek()
	limit := max(e.Arena().Get(best).H, 20)
	assert.LessOrEqual(t, e.Frontier().Len(), limit)
	assert.Positive(t, e.Stats().Culled)

	// Every culled node left the duplicate index.
	indexed := 0
	for _, b := range e.Frontier().index.buckets {
		indexed += len(b)
	}
	assert.Equal(t, e.Frontier().Len(), indexed)
	assert.Equal(t, e.Frontier().Len()+e.Seen().Len(), e.Arena().Len())
}

func TestStatsTrackProgress(t *testing.T) {
	e, err := NewEngine(field.Noise(4, 4, 255, 1), field.Noise(4, 4, 255, 2))
	require.NoError(t, err)
	s := e.Stats()
	assert.Equal(t, 1, s.Frontier)
	assert.Equal(t, 0, s.NextG)

	_, err = e.Step(context.Background(), 2)
	require.NoError(t, err)
	s = e.Stats()
	assert.Equal(t, 2, s.Processed)
	assert.Equal(t, 2, s.Seen)
	assert.Positive(t, s.Frontier)
	assert.Positive(t, s.NextH)
}

func TestEngineLogsOutcome(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	start := mustField(t, 2, 2, 0, 1, 2, 3)
	e, err := NewEngine(start, uniform(2, 2, 0), WithLogger(logger))
	require.NoError(t, err)
	_, err = e.Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "search finished")
	assert.Contains(t, buf.String(), "state=goal_found")
	assert.Contains(t, buf.String(), "direction=forward")
}
