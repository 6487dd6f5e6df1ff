package search

import (
	"image-fade/pkg/field"
)

// NodeID addresses a node inside an Arena.
type NodeID int32

// NoNode marks the absent parent of a root and the absent winner.
const NoNode NodeID = -1

const (
	chunkBits = 12
	chunkSize = 1 << chunkBits
	chunkMask = chunkSize - 1
)

// Node is one edit in the search tree: add Diff to pixel (X, Y) on top of the
// parent's state. A node's full state is its cumulative View.
type Node struct {
	X, Y   int
	Diff   int
	Parent NodeID
	G      int
	H      int

	// EndInSight marks a terminal node whose replay finishes by fading every
	// pixel one unit per frame toward the goal.
	EndInSight bool

	// image is the fingerprint of the sampled absolute pixel values this
	// node's state produces from its engine's start field.
	image uint64

	view    View
	hasView bool
	live    bool
}

// F returns g + h.
func (n *Node) F() int { return n.G + n.H }

// Arena owns every node of one search tree. Nodes are stored in fixed-size
// chunks so pointers returned by Get stay valid while the arena grows.
// Released slots are recycled by later allocations.
type Arena struct {
	w, h   int
	empty  View
	chunks [][]Node
	next   int
	free   []NodeID
	live   int
}

// NewArena allocates an arena for fields of w x h pixels.
func NewArena(w, h int) *Arena {
	return &Arena{w: w, h: h, empty: EmptyView(w * h)}
}

// Key returns the view key of (x, y).
func (a *Arena) Key(x, y int) int { return y*a.w + x }

// Len returns the number of live nodes.
func (a *Arena) Len() int { return a.live }

// Get returns the node stored at id.
func (a *Arena) Get(id NodeID) *Node {
	return &a.chunks[id>>chunkBits][id&chunkMask]
}

// NewRoot allocates a root node: no parent, edit (0,0) by 0.
func (a *Arena) NewRoot(h int) NodeID {
	id := a.alloc()
	*a.Get(id) = Node{Parent: NoNode, H: h, live: true}
	return id
}

// NewChild allocates a node one edit below parent with g = parent.g + 1.
func (a *Arena) NewChild(parent NodeID, x, y, diff, h int) NodeID {
	p := a.Get(parent)
	g := p.G + 1
	id := a.alloc()
	*a.Get(id) = Node{X: x, Y: y, Diff: diff, Parent: parent, G: g, H: h, live: true}
	return id
}

// Release returns id's slot to the arena. The caller guarantees no live node
// lists id as its parent.
func (a *Arena) Release(id NodeID) {
	n := a.Get(id)
	if !n.live {
		return
	}
	*n = Node{Parent: NoNode}
	a.free = append(a.free, id)
	a.live--
}

func (a *Arena) alloc() NodeID {
	a.live++
	if k := len(a.free); k > 0 {
		id := a.free[k-1]
		a.free = a.free[:k-1]
		return id
	}
	if a.next>>chunkBits == len(a.chunks) {
		a.chunks = append(a.chunks, make([]Node, chunkSize))
	}
	id := NodeID(a.next)
	a.next++
	return id
}

// View returns the cumulative view of id, building and caching the views of
// any uncached ancestors on the way.
func (a *Arena) View(id NodeID) View {
	n := a.Get(id)
	if n.hasView {
		return n.view
	}
	var pending []NodeID
	cur := id
	for cur != NoNode && !a.Get(cur).hasView {
		pending = append(pending, cur)
		cur = a.Get(cur).Parent
	}
	base := a.empty
	if cur != NoNode {
		base = a.Get(cur).view
	}
	for i := len(pending) - 1; i >= 0; i-- {
		pn := a.Get(pending[i])
		base = base.Add(a.Key(pn.X, pn.Y), pn.Diff)
		pn.view = base
		pn.hasView = true
	}
	return base
}

// ValueAt returns the value pixel (x, y) holds in id's state, reading the
// unmodified value from base when the view has no entry for it.
func (a *Arena) ValueAt(id NodeID, x, y int, base *field.Field) int {
	if d, ok := a.View(id).Get(a.Key(x, y)); ok {
		return base.Get(x, y) + d
	}
	return base.Get(x, y)
}

// Equal reports whether two nodes of this arena describe the same state.
func (a *Arena) Equal(x, y NodeID) bool {
	if x == y {
		return true
	}
	return a.View(x).Equal(a.View(y))
}

// MatchesGoal reports whether id's state equals goal on every sampled
// coordinate. It has no side effects besides view caching.
func (a *Arena) MatchesGoal(id NodeID, start, goal *field.Field, stride int) bool {
	return MatchesGoal(a.View(id), start, goal, stride)
}

// Chain returns the ids from the root down to id.
func (a *Arena) Chain(id NodeID) []NodeID {
	var out []NodeID
	for cur := id; cur != NoNode; cur = a.Get(cur).Parent {
		out = append(out, cur)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Path materializes the chain from the root to id as replay steps.
func (a *Arena) Path(id NodeID) Path {
	chain := a.Chain(id)
	path := make(Path, 0, len(chain))
	for _, cid := range chain {
		n := a.Get(cid)
		path = append(path, Step{X: n.X, Y: n.Y, Diff: n.Diff, EndInSight: n.EndInSight})
	}
	return path
}

// MatchesGoal reports whether start plus view equals goal on every sampled
// coordinate.
func MatchesGoal(view View, start, goal *field.Field, stride int) bool {
	ok := true
	start.Iterate(stride, func(x, y int) bool {
		v := start.Get(x, y)
		if d, present := view.Get(start.Index(x, y)); present {
			v += d
		}
		ok = v == goal.Get(x, y)
		return ok
	})
	return ok
}

// CombinedWith reports whether forward's state in fa, with backward's state
// in ba removed, equals goal on every sampled coordinate. forward descends
// from start and backward from goal, so a true result means the two searches
// reached the same image.
func CombinedWith(fa *Arena, forward NodeID, ba *Arena, backward NodeID, start, goal *field.Field, stride int) bool {
	return MatchesGoal(fa.View(forward).Sub(ba.View(backward)), start, goal, stride)
}
