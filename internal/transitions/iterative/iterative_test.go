package iterative

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image-fade/internal/core"
	"image-fade/pkg/field"
)

func row(t *testing.T, v ...uint8) *field.Field {
	t.Helper()
	f, err := field.FromCells(len(v), 1, v)
	require.NoError(t, err)
	return f
}

func TestNextFramePrefersCloserNeighbours(t *testing.T) {
	cur := row(t, 0, 50, 100)
	target := row(t, 100, 50, 0)
	dst := field.New(3, 1)
	changed := NextFrame(dst, cur, target)
	// Pixel 0 takes its right neighbour (50 is closer to 100 than 1), pixel 2
	// takes its left neighbour, pixel 1 is already done.
	assert.Equal(t, []uint8{50, 50, 50}, dst.Cells())
	assert.Equal(t, 2, changed)
}

func TestNextFrameFadesByOne(t *testing.T) {
	cur := row(t, 10, 200)
	target := row(t, 12, 190)
	dst := field.New(2, 1)
	NextFrame(dst, cur, target)
	assert.Equal(t, []uint8{11, 199}, dst.Cells())
}

func TestNextFrameLaterNeighbourWinsTies(t *testing.T) {
	// Both neighbours of the middle pixel are equally close to 10.
	cur := row(t, 8, 0, 12)
	target := row(t, 8, 10, 12)
	dst := field.New(3, 1)
	NextFrame(dst, cur, target)
	assert.Equal(t, 12, dst.Get(1, 0))
}

func collect(t *testing.T, tr core.Transition) {
	t.Helper()
	require.NoError(t, core.Drive(context.Background(), tr))
}

func TestIterativeEndsOnGoal(t *testing.T) {
	start := field.Blobs(12, 12, 3, 1)
	goal := field.Blobs(12, 12, 3, 2)
	var frames [][]uint8
	var totals []int
	factory, err := core.Lookup(Name)
	require.NoError(t, err)
	tr, err := factory(start, goal, map[string]string{"iterations": "5"}, func(f *field.Field, step, total int) error {
		assert.Equal(t, len(frames), step)
		frames = append(frames, append([]uint8(nil), f.Cells()...))
		totals = append(totals, total)
		return nil
	})
	require.NoError(t, err)
	collect(t, tr)

	require.Len(t, frames, 7)
	assert.Equal(t, start.Cells(), frames[0])
	assert.Equal(t, goal.Cells(), frames[6])
	assert.Equal(t, goal.Cells(), tr.Field().Cells())
	for _, total := range totals {
		assert.Equal(t, 7, total)
	}
}

func TestIterativeStopsEarlyAtGoal(t *testing.T) {
	start := row(t, 0, 0, 0)
	goal := row(t, 2, 2, 2)
	var n int
	tr, err := New(start, goal, Config{Iterations: 50}, func(*field.Field, int, int) error {
		n++
		return nil
	})
	require.NoError(t, err)
	collect(t, tr)
	assert.Equal(t, 3, n)
	assert.Equal(t, 2, tr.iter)
}

func TestBidirectionalMeetsAndEndsOnGoal(t *testing.T) {
	start := field.Blobs(16, 16, 4, 3)
	goal := field.Blobs(16, 16, 4, 4)
	var frames [][]uint8
	lastTotal := 0
	factory, err := core.Lookup(BidirectionalName)
	require.NoError(t, err)
	tr, err := factory(start, goal, map[string]string{"iterations": "40"}, func(f *field.Field, step, total int) error {
		frames = append(frames, append([]uint8(nil), f.Cells()...))
		lastTotal = total
		return nil
	})
	require.NoError(t, err)
	collect(t, tr)

	require.NotEmpty(t, frames)
	assert.Equal(t, start.Cells(), frames[0])
	assert.Equal(t, goal.Cells(), frames[len(frames)-1])
	assert.Equal(t, len(frames), lastTotal)
	assert.LessOrEqual(t, len(frames), 2*40+2)
}

func TestMismatchedSizes(t *testing.T) {
	_, err := New(field.New(2, 2), field.New(3, 2), DefaultConfig(), nil)
	assert.Error(t, err)
	_, err = NewBidirectional(field.New(2, 2), field.New(3, 2), DefaultConfig(), nil)
	assert.Error(t, err)
}

func TestStopEndsTransition(t *testing.T) {
	tr, err := New(field.New(4, 4), field.Noise(4, 4, 255, 1), DefaultConfig(), nil)
	require.NoError(t, err)
	tr.Stop()
	done, err := tr.Advance(context.Background())
	require.NoError(t, err)
	assert.True(t, done)
}

func TestBidirectionalStopsWhenOnlyFadesRemain(t *testing.T) {
	// 10 -> 20 on a flat field: the fronts close in by two units per
	// iteration and are one unit apart after the fifth forward half-step,
	// even though every pixel still changes.
	start, goal := field.New(4, 4), field.New(4, 4)
	for i := range start.Cells() {
		start.Cells()[i], goal.Cells()[i] = 10, 20
	}
	var frames [][]uint8
	tr, err := NewBidirectional(start, goal, DefaultConfig(), func(f *field.Field, step, total int) error {
		frames = append(frames, append([]uint8(nil), f.Cells()...))
		return nil
	})
	require.NoError(t, err)
	collect(t, tr)

	assert.Equal(t, 5, tr.iter)
	require.NotEmpty(t, frames)
	assert.Equal(t, goal.Cells(), frames[len(frames)-1])
	assert.Equal(t, uint8(15), frames[5][0])
}
