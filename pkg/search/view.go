package search

const (
	viewBits   = 4
	viewFanout = 1 << viewBits
	viewMask   = viewFanout - 1
)

// viewNode is one level of a 16-way trie. Interior nodes use kids, leaves use
// vals and present. Nodes are never mutated once published.
type viewNode struct {
	kids    [viewFanout]*viewNode
	vals    [viewFanout]int32
	present uint16
}

// View is an immutable map from pixel key (y*W + x) to the summed diff of
// every edit at that pixel. Add returns a new View sharing all untouched
// structure with the receiver, so a child's view costs O(depth) to build.
//
// The zero View is empty and usable for single-level tries only; use
// EmptyView to size the trie for a key space.
type View struct {
	root   *viewNode
	levels int
	size   int
	sum    uint64
}

// EmptyView returns an empty view able to hold keys in [0, keys).
func EmptyView(keys int) View {
	levels := 1
	for span := viewFanout; span < keys; span <<= viewBits {
		levels++
	}
	return View{levels: levels}
}

// Len returns the number of keys present.
func (v View) Len() int { return v.size }

// Fingerprint returns an order-independent hash of the view's entries. Equal
// views always share a fingerprint.
func (v View) Fingerprint() uint64 { return v.sum }

// Get returns the value stored at key and whether the key is present. Keys
// whose diffs summed back to zero stay present.
func (v View) Get(key int) (int, bool) {
	n := v.root
	for shift := (v.levels - 1) * viewBits; n != nil && shift > 0; shift -= viewBits {
		n = n.kids[(key>>shift)&viewMask]
	}
	if n == nil {
		return 0, false
	}
	bit := uint16(1) << (key & viewMask)
	if n.present&bit == 0 {
		return 0, false
	}
	return int(n.vals[key&viewMask]), true
}

// Add returns a view where key maps to its previous value plus delta.
func (v View) Add(key, delta int) View {
	old, ok := v.Get(key)
	next := View{levels: v.levels, size: v.size, sum: v.sum}
	if ok {
		next.sum -= entryHash(key, old)
	} else {
		next.size++
	}
	next.sum += entryHash(key, old+delta)
	next.root = v.root.with(key, old+delta, (v.levels-1)*viewBits)
	return next
}

// Sub returns v with every entry of o subtracted.
func (v View) Sub(o View) View {
	out := v
	o.Range(func(key, val int) bool {
		out = out.Add(key, -val)
		return true
	})
	return out
}

// Range calls fn for each entry in ascending key order until fn returns false.
func (v View) Range(fn func(key, val int) bool) {
	if v.root == nil {
		return
	}
	v.root.walk(0, (v.levels-1)*viewBits, fn)
}

// Equal reports whether both views hold the same keys with the same values.
func (v View) Equal(o View) bool {
	if v.size != o.size || v.sum != o.sum {
		return false
	}
	if v.levels != o.levels {
		// Different key spaces can still agree when every key is small.
		same := true
		v.Range(func(key, val int) bool {
			ov, ok := o.Get(key)
			same = ok && ov == val
			return same
		})
		return same
	}
	return equalNodes(v.root, o.root, (v.levels-1)*viewBits)
}

func (n *viewNode) with(key, val, shift int) *viewNode {
	c := &viewNode{}
	if n != nil {
		*c = *n
	}
	if shift == 0 {
		i := key & viewMask
		c.vals[i] = int32(val)
		c.present |= 1 << i
		return c
	}
	i := (key >> shift) & viewMask
	c.kids[i] = c.kids[i].with(key, val, shift-viewBits)
	return c
}

func (n *viewNode) walk(prefix, shift int, fn func(key, val int) bool) bool {
	if shift == 0 {
		for i := 0; i < viewFanout; i++ {
			if n.present&(1<<i) == 0 {
				continue
			}
			if !fn(prefix|i, int(n.vals[i])) {
				return false
			}
		}
		return true
	}
	for i, kid := range n.kids {
		if kid == nil {
			continue
		}
		if !kid.walk(prefix|i<<shift, shift-viewBits, fn) {
			return false
		}
	}
	return true
}

func equalNodes(a, b *viewNode, shift int) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if shift == 0 {
		return a.present == b.present && a.vals == b.vals
	}
	for i := range a.kids {
		if !equalNodes(a.kids[i], b.kids[i], shift-viewBits) {
			return false
		}
	}
	return true
}

// entryHash mixes one (key, value) pair with splitmix64.
func entryHash(key, val int) uint64 {
	return mix64(uint64(uint32(key))<<32 | uint64(uint32(int32(val))))
}

// pixelHash mixes a (key, absolute pixel value) pair. It is kept distinct
// from entryHash so image fingerprints never alias view fingerprints.
func pixelHash(key, val int) uint64 {
	return mix64(uint64(uint32(key))<<32 | uint64(uint32(val)) | 1<<31)
}

func mix64(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
