package search

import (
	"sort"

	"image-fade/pkg/field"
)

// Candidate is one proposed edit at a pixel and the change in h it causes.
type Candidate struct {
	Diff   int
	DeltaH int
}

// expander turns a popped node into children. It keeps scratch buffers
// between calls and is not safe for concurrent use.
type expander struct {
	arena       *Arena
	start, goal *field.Field
	scale       int
	branching   int
	tailFade    bool
	buf         []Candidate
}

// neighbourOffsets lists the orthogonal neighbours in the order their values
// are proposed: left, right, up, down.
var neighbourOffsets = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// CandidatesAt returns the edits proposed for pixel (x, y) of parent's state:
// the diffs that copy each orthogonal neighbour's value (coordinates clamped
// to the field), then -1 and +1 when they stay inside [0, 255]. Diffs are
// unique and never zero.
func (e *expander) CandidatesAt(parent NodeID, x, y int) []Candidate {
	e.buf = e.buf[:0]
	cur := e.arena.ValueAt(parent, x, y, e.start)
	desired := e.goal.Get(x, y)
	gap := abs(desired - cur)
	add := func(d int) {
		if d == 0 {
			return
		}
		for _, c := range e.buf {
			if c.Diff == d {
				return
			}
		}
		e.buf = append(e.buf, Candidate{Diff: d, DeltaH: abs(desired-(cur+d)) - gap})
	}
	for _, off := range neighbourOffsets {
		nx := clampInt(x+off[0], 0, e.start.W-1)
		ny := clampInt(y+off[1], 0, e.start.H-1)
		add(e.arena.ValueAt(parent, nx, ny, e.start) - cur)
	}
	for _, d := range [2]int{-1, 1} {
		if v := cur + d; v >= 0 && v <= 255 {
			add(d)
		}
	}
	return e.buf
}

// endInSight reports whether every sampled pixel of parent is within one
// unit of the goal.
func (e *expander) endInSight(parent NodeID) bool {
	near := true
	e.start.Iterate(e.scale, func(x, y int) bool {
		near = abs(e.goal.Get(x, y)-e.arena.ValueAt(parent, x, y, e.start)) <= 1
		return near
	})
	return near
}

// Expand allocates the children of parent and hands each to emit in
// generation order. Emission stops when emit returns false. Children emit
// rejects are the caller's to release.
//
// When tail fading is enabled and parent is already within one unit of the
// goal everywhere, the only child is a terminal EndInSight node with h = 0.
func (e *expander) Expand(parent NodeID, emit func(NodeID) bool) {
	p := e.arena.Get(parent)
	if e.tailFade && e.endInSight(parent) {
		id := e.arena.NewChild(parent, 0, 0, 0, 0)
		n := e.arena.Get(id)
		n.EndInSight = true
		n.image = e.arena.Get(parent).image
		emit(id)
		return
	}
	parentH, parentImage := p.H, p.image
	e.start.Iterate(e.scale, func(x, y int) bool {
		cands := e.CandidatesAt(parent, x, y)
		sort.SliceStable(cands, func(i, j int) bool { return cands[i].DeltaH < cands[j].DeltaH })
		if len(cands) > e.branching {
			cands = cands[:e.branching]
		}
		key := e.arena.Key(x, y)
		cur := e.arena.ValueAt(parent, x, y, e.start)
		for _, c := range cands {
			id := e.arena.NewChild(parent, x, y, c.Diff, parentH+c.DeltaH)
			e.arena.Get(id).image = parentImage - pixelHash(key, cur) + pixelHash(key, cur+c.Diff)
			if !emit(id) {
				return false
			}
		}
		return true
	})
}

// initialH sums |goal - start| over the sampled coordinates.
func initialH(start, goal *field.Field, stride int) int {
	h := 0
	start.Iterate(stride, func(x, y int) bool {
		h += abs(goal.Get(x, y) - start.Get(x, y))
		return true
	})
	return h
}

// imageHash fingerprints the sampled values of f.
func imageHash(f *field.Field, stride int) uint64 {
	var sum uint64
	f.Iterate(stride, func(x, y int) bool {
		sum += pixelHash(f.Index(x, y), f.Get(x, y))
		return true
	})
	return sum
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
