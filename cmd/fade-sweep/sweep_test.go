package main

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image-fade/pkg/field"
	"image-fade/pkg/search"
)

func quiet() sweepOptions {
	return sweepOptions{workers: 2, budget: 100, maxNodes: 50000, timeout: 10 * time.Second,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestGrid(t *testing.T) {
	jobs := grid([]int{1, 2}, []int{3}, true)
	assert.Equal(t, []job{
		{scale: 1, branching: 3},
		{scale: 1, branching: 3, bidirectional: true},
		{scale: 2, branching: 3},
		{scale: 2, branching: 3, bidirectional: true},
	}, jobs)
}

func TestSweepFindsPaths(t *testing.T) {
	start := field.Noise(3, 3, 12, 5)
	goal := field.Noise(3, 3, 12, 6)
	jobs := grid([]int{1}, []int{1, 3}, true)

	results, err := sweep(context.Background(), start, goal, jobs, quiet())
	require.NoError(t, err)
	require.Len(t, results, len(jobs))
	for i, r := range results {
		assert.Equal(t, jobs[i], r.job)
		assert.Equal(t, search.StateGoalFound, r.state, r.mode())
		assert.Positive(t, r.path)
		assert.Positive(t, r.processed)
	}

	rank(results)
	out := renderTable(results)
	assert.Contains(t, out, "goal_found")
	assert.Contains(t, out, "bidirectional")
}

func TestSweepNodeCapStops(t *testing.T) {
	opts := quiet()
	opts.maxNodes = 1
	opts.budget = 1
	results, err := sweep(context.Background(), field.Noise(8, 8, 255, 1), field.Noise(8, 8, 255, 2), grid([]int{1}, []int{3}, false), opts)
	require.NoError(t, err)
	assert.Equal(t, search.StateStopped, results[0].state)
	assert.Equal(t, 1, results[0].processed)
	assert.Zero(t, results[0].path)
}

func TestSweepRejectsBadSettings(t *testing.T) {
	_, err := sweep(context.Background(), field.New(2, 2), field.New(2, 2), []job{{scale: 0, branching: 1}}, quiet())
	assert.ErrorIs(t, err, search.ErrBadScale)
}

func TestRank(t *testing.T) {
	results := []outcome{
		{state: search.StateStopped, processed: 1},
		{state: search.StateGoalFound, path: 9, processed: 5},
		{state: search.StateGoalFound, path: 4, processed: 50},
		{state: search.StateGoalFound, path: 4, processed: 10},
	}
	rank(results)
	assert.Equal(t, []int{4, 4, 9, 0}, []int{results[0].path, results[1].path, results[2].path, results[3].path})
	assert.Equal(t, 10, results[0].processed)
	assert.Equal(t, search.StateStopped, results[3].state)
}
