package search

import (
	"container/heap"
	"sort"
)

// bucketIndex groups node ids by h so equivalence checks only compare nodes
// that could possibly be equal: equal states always have equal h.
type bucketIndex struct {
	arena   *Arena
	buckets map[int][]NodeID
	size    int
}

func newBucketIndex(a *Arena) bucketIndex {
	return bucketIndex{arena: a, buckets: make(map[int][]NodeID)}
}

func (ix *bucketIndex) add(id NodeID) {
	h := ix.arena.Get(id).H
	ix.buckets[h] = append(ix.buckets[h], id)
	ix.size++
}

func (ix *bucketIndex) remove(id NodeID) {
	h := ix.arena.Get(id).H
	b := ix.buckets[h]
	for i, other := range b {
		if other != id {
			continue
		}
		b[i] = b[len(b)-1]
		b = b[:len(b)-1]
		if len(b) == 0 {
			delete(ix.buckets, h)
		} else {
			ix.buckets[h] = b
		}
		ix.size--
		return
	}
}

// containsEquivalent reports whether a node with the same state as id is
// indexed.
func (ix *bucketIndex) containsEquivalent(id NodeID) bool {
	for _, other := range ix.buckets[ix.arena.Get(id).H] {
		if ix.arena.Equal(other, id) {
			return true
		}
	}
	return false
}

type frontierEntry struct {
	id  NodeID
	h   int
	seq uint64
}

// frontierHeap orders entries by h, then insertion order.
type frontierHeap []frontierEntry

func (q frontierHeap) Len() int { return len(q) }
func (q frontierHeap) Less(i, j int) bool {
	if q[i].h != q[j].h {
		return q[i].h < q[j].h
	}
	return q[i].seq < q[j].seq
}
func (q frontierHeap) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *frontierHeap) Push(x interface{}) { *q = append(*q, x.(frontierEntry)) }
func (q *frontierHeap) Pop() interface{} {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}

// Frontier is the open set: a min-priority queue on h with FIFO tie-breaking,
// plus an h-bucketed index for duplicate detection.
type Frontier struct {
	queue frontierHeap
	index bucketIndex
	seq   uint64
}

// NewFrontier returns an empty frontier over nodes of a.
func NewFrontier(a *Arena) *Frontier {
	return &Frontier{index: newBucketIndex(a)}
}

// Len returns the number of queued nodes.
func (f *Frontier) Len() int { return f.queue.Len() }

// Push queues id.
func (f *Frontier) Push(id NodeID) {
	f.seq++
	heap.Push(&f.queue, frontierEntry{id: id, h: f.index.arena.Get(id).H, seq: f.seq})
	f.index.add(id)
}

// Pop removes and returns the node with the lowest h; ties go to the node
// pushed first. The frontier must not be empty.
func (f *Frontier) Pop() NodeID {
	it := heap.Pop(&f.queue).(frontierEntry)
	f.index.remove(it.id)
	return it.id
}

// Peek returns the next node Pop would return.
func (f *Frontier) Peek() (NodeID, bool) {
	if len(f.queue) == 0 {
		return NoNode, false
	}
	return f.queue[0].id, true
}

// ContainsEquivalent reports whether a queued node has the same state as id.
func (f *Frontier) ContainsEquivalent(id NodeID) bool {
	return f.index.containsEquivalent(id)
}

// Cull keeps the best limit nodes and returns the evicted ones, worst last.
// It is a no-op when at most limit nodes are queued.
func (f *Frontier) Cull(limit int) []NodeID {
	if limit < 0 {
		limit = 0
	}
	if len(f.queue) <= limit {
		return nil
	}
	// A slice sorted by the heap order is itself a valid heap.
	sort.Slice(f.queue, f.queue.Less)
	evicted := make([]NodeID, 0, len(f.queue)-limit)
	for _, it := range f.queue[limit:] {
		f.index.remove(it.id)
		evicted = append(evicted, it.id)
	}
	f.queue = f.queue[:limit]
	return evicted
}

// SeenSet holds every expanded node, indexed by h for duplicate detection and
// by image fingerprint for meeting checks against an opposite search.
type SeenSet struct {
	index   bucketIndex
	byImage map[uint64][]NodeID
}

// NewSeenSet returns an empty seen set over nodes of a.
func NewSeenSet(a *Arena) *SeenSet {
	return &SeenSet{index: newBucketIndex(a), byImage: make(map[uint64][]NodeID)}
}

// Len returns the number of expanded nodes.
func (s *SeenSet) Len() int { return s.index.size }

// Add records id as expanded.
func (s *SeenSet) Add(id NodeID) {
	s.index.add(id)
	img := s.index.arena.Get(id).image
	s.byImage[img] = append(s.byImage[img], id)
}

// ContainsEquivalent reports whether an expanded node has the same state as
// id.
func (s *SeenSet) ContainsEquivalent(id NodeID) bool {
	return s.index.containsEquivalent(id)
}

// WithImage returns the expanded nodes whose image fingerprint is fp. Callers
// must confirm each hit; fingerprints can collide.
func (s *SeenSet) WithImage(fp uint64) []NodeID {
	return s.byImage[fp]
}
