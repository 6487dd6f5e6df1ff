package astar

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image-fade/internal/core"
	"image-fade/pkg/field"
	"image-fade/pkg/search"
)

func TestFromMap(t *testing.T) {
	c := FromMap(map[string]string{
		"scale":     "2",
		"branching": "5",
		"budget":    "0",
		"tail":      "false",
		"settle":    "nope",
	})
	assert.Equal(t, 2, c.Scale)
	assert.Equal(t, 5, c.Branching)
	assert.Equal(t, DefaultConfig().Budget, c.Budget)
	assert.False(t, c.TailFade)
	assert.True(t, c.Settle)
	assert.Equal(t, DefaultConfig(), FromMap(nil))
}

func TestRegistered(t *testing.T) {
	for _, name := range []string{Name, BidirectionalName} {
		_, err := core.Lookup(name)
		assert.NoError(t, err, name)
	}
}

func TestTransitionsReachGoal(t *testing.T) {
	start, err := field.FromCells(3, 3, []uint8{0, 10, 20, 30, 40, 50, 60, 70, 80})
	require.NoError(t, err)
	goal, err := field.FromCells(3, 3, []uint8{80, 70, 60, 50, 40, 30, 20, 10, 0})
	require.NoError(t, err)

	for _, name := range []string{Name, BidirectionalName} {
		t.Run(name, func(t *testing.T) {
			factory, err := core.Lookup(name)
			require.NoError(t, err)

			var frames, lastStep, lastTotal int
			tr, err := factory(start, goal, map[string]string{"budget": "50"}, func(f *field.Field, step, total int) error {
				frames++
				lastStep, lastTotal = step, total
				return nil
			})
			require.NoError(t, err)
			assert.Equal(t, name, tr.Name())
			assert.Equal(t, core.Size{W: 3, H: 3}, tr.Size())

			require.NoError(t, core.Drive(context.Background(), tr))
			assert.Equal(t, goal.Cells(), tr.Field().Cells())
			assert.Equal(t, lastTotal-1, lastStep)
			assert.Equal(t, lastTotal, frames)
			// The start field is never mutated.
			assert.Equal(t, uint8(0), start.Cells()[0])

			snap := tr.(core.ParametersProvider).Parameters()
			phase, ok := snap.Lookup("phase")
			require.True(t, ok)
			assert.Equal(t, "done", phase.Value)
		})
	}
}

func TestStopSurfacesError(t *testing.T) {
	tr, err := New(field.Noise(8, 8, 255, 1), field.Noise(8, 8, 255, 2), DefaultConfig(), nil)
	require.NoError(t, err)
	tr.Stop()
	_, err = tr.Advance(context.Background())
	assert.ErrorIs(t, err, search.ErrStopped)
	assert.True(t, tr.Searching())
}

func TestBudgetControl(t *testing.T) {
	tr, err := New(field.New(2, 2), field.New(2, 2), DefaultConfig(), nil)
	require.NoError(t, err)
	assert.True(t, tr.SetIntParameter("budget", 5))
	assert.False(t, tr.SetIntParameter("budget", 0))
	assert.False(t, tr.SetIntParameter("scale", 2))
	p, ok := tr.Parameters().Lookup("budget")
	require.True(t, ok)
	assert.Equal(t, "5", p.Value)
	require.Len(t, tr.ParameterControls(), 1)
}

func TestParametersReportSampledPixels(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scale = 2
	tr, err := New(field.New(5, 4), field.New(5, 4), cfg, nil)
	require.NoError(t, err)
	p, ok := tr.Parameters().Lookup("samples")
	require.True(t, ok)
	assert.Equal(t, "6", p.Value)
}
