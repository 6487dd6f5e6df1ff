package search

// Step is one replayable edit of a winning path.
type Step struct {
	X, Y int
	Diff int

	// EndInSight starts the unit fade toward the goal.
	EndInSight bool

	// Mirror marks an edit taken from the backward half of a bidirectional
	// path. Replaying it subtracts Diff instead of adding it, undoing the
	// move the backward search made away from the goal.
	Mirror bool
}

// Delta returns the signed change the step applies during replay.
func (s Step) Delta() int {
	if s.Mirror {
		return -s.Diff
	}
	return s.Diff
}

// Path is an ordered list of steps from the start field toward the goal.
type Path []Step

// Edits counts the steps that change a pixel.
func (p Path) Edits() int {
	n := 0
	for _, s := range p {
		if s.Diff != 0 {
			n++
		}
	}
	return n
}

// Mirrored returns the path of the backward chain ending at id, walked from
// id toward the backward root with every step marked Mirror.
func (a *Arena) Mirrored(id NodeID) Path {
	var out Path
	for cur := id; cur != NoNode; cur = a.Get(cur).Parent {
		n := a.Get(cur)
		out = append(out, Step{X: n.X, Y: n.Y, Diff: n.Diff, Mirror: true})
	}
	return out
}
