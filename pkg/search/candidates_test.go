package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image-fade/pkg/field"
)

func newExpander(start, goal *field.Field, branching int) (*expander, NodeID) {
	a := NewArena(start.W, start.H)
	root := a.NewRoot(initialH(start, goal, 1))
	return &expander{arena: a, start: start, goal: goal, scale: 1, branching: branching, tailFade: true}, root
}

func TestCandidatesAreUniqueAndNonZero(t *testing.T) {
	fields := []*field.Field{
		field.Noise(6, 5, 255, 3),
		field.Noise(6, 5, 3, 4),
		uniform(4, 4, 0),
		uniform(4, 4, 255),
		uniform(1, 1, 128),
	}
	goal := func(f *field.Field) *field.Field { return field.Noise(f.W, f.H, 255, 99) }
	for _, start := range fields {
		e, root := newExpander(start, goal(start), 3)
		start.Iterate(1, func(x, y int) bool {
			seen := map[int]bool{}
			for _, c := range e.CandidatesAt(root, x, y) {
				assert.NotZero(t, c.Diff)
				assert.False(t, seen[c.Diff], "duplicate diff %d at (%d,%d)", c.Diff, x, y)
				seen[c.Diff] = true
				v := start.Get(x, y) + c.Diff
				assert.True(t, v >= 0 && v <= 255, "value %d out of range", v)
			}
			return true
		})
	}
}

func TestCandidatesAtCorner(t *testing.T) {
	// 0 1
	// 2 3
	start := mustField(t, 2, 2, 0, 1, 2, 3)
	goal := uniform(2, 2, 0)
	e, root := newExpander(start, goal, 3)

	got := e.CandidatesAt(root, 0, 0)
	// Right neighbour, down neighbour, then +1 is a duplicate and -1 is out
	// of range.
	assert.Equal(t, []Candidate{{Diff: 1, DeltaH: 1}, {Diff: 2, DeltaH: 2}}, got)

	got = e.CandidatesAt(root, 1, 1)
	assert.Equal(t, []Candidate{
		{Diff: -1, DeltaH: -1},
		{Diff: -2, DeltaH: -2},
		{Diff: 1, DeltaH: 1},
	}, got)
}

func TestCandidatesRespectUpperBound(t *testing.T) {
	start := uniform(1, 1, 255)
	e, root := newExpander(start, uniform(1, 1, 0), 3)
	assert.Equal(t, []Candidate{{Diff: -1, DeltaH: -1}}, e.CandidatesAt(root, 0, 0))
}

func TestExpandPrunesPerPixel(t *testing.T) {
	start := mustField(t, 2, 2, 0, 1, 2, 3)
	goal := uniform(2, 2, 0)
	e, root := newExpander(start, goal, 1)

	var kids []NodeID
	e.Expand(root, func(id NodeID) bool {
		kids = append(kids, id)
		return true
	})
	require.Len(t, kids, 4)
	want := []struct{ x, y, diff, h int }{
		{0, 0, 1, 7},
		{1, 0, -1, 5},
		{0, 1, -2, 4},
		{1, 1, -2, 4},
	}
	for i, w := range want {
		n := e.arena.Get(kids[i])
		assert.Equal(t, w.x, n.X)
		assert.Equal(t, w.y, n.Y)
		assert.Equal(t, w.diff, n.Diff)
		assert.Equal(t, w.h, n.H)
		assert.Equal(t, 1, n.G)
		assert.Equal(t, root, n.Parent)
	}
}

func TestExpandEndInSightYieldsTerminalChild(t *testing.T) {
	start := mustField(t, 2, 1, 4, 9)
	goal := mustField(t, 2, 1, 5, 8)
	e, root := newExpander(start, goal, 3)

	var kids []NodeID
	e.Expand(root, func(id NodeID) bool {
		kids = append(kids, id)
		return true
	})
	require.Len(t, kids, 1)
	n := e.arena.Get(kids[0])
	assert.True(t, n.EndInSight)
	assert.Zero(t, n.Diff)
	assert.Zero(t, n.H)
	assert.Equal(t, 1, n.G)

	e.tailFade = false
	kids = kids[:0]
	e.Expand(root, func(id NodeID) bool {
		kids = append(kids, id)
		return true
	})
	assert.Greater(t, len(kids), 1)
}

func TestInitialH(t *testing.T) {
	zeros := uniform(50, 50, 0)
	hundreds := uniform(50, 50, 100)
	assert.Equal(t, 50*50*100, initialH(zeros, hundreds, 1))
	assert.Equal(t, 5*5*100, initialH(zeros, hundreds, 10))
	// Gaps are absolute in both directions.
	assert.Equal(t, 50*50*100, initialH(hundreds, zeros, 1))
}
