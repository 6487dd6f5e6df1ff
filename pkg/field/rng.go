package field

import "math/rand/v2"

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Uint8n returns a random uint8 in [0, n).
func (r *RNG) Uint8n(n uint8) uint8 {
	if n == 0 {
		return 0
	}
	return uint8(r.r.IntN(int(n)))
}

// Source exposes the underlying rand.Rand for advanced use.
func (r *RNG) Source() *rand.Rand { return r.r }

// Noise returns a w*h field of uniformly random values in [0, top].
func Noise(w, h int, top uint8, seed int64) *Field {
	f := New(w, h)
	rng := NewRNG(seed)
	limit := uint16(top) + 1
	for i := range f.data {
		if limit > 255 {
			f.data[i] = uint8(rng.r.IntN(256))
			continue
		}
		f.data[i] = rng.Uint8n(uint8(limit))
	}
	return f
}

// Blobs returns a w*h field with count soft-edged bright discs on a dark
// background. It gives sweep runs inputs with structure that
// neighbour-copy edits can exploit.
func Blobs(w, h, count int, seed int64) *Field {
	f := New(w, h)
	rng := NewRNG(seed).Source()
	for p := 0; p < count; p++ {
		cx := rng.IntN(f.W)
		cy := rng.IntN(f.H)
		radius := 1 + rng.IntN(max(1, min(f.W, f.H)/3))
		peak := 128 + rng.IntN(128)
		r2 := radius * radius
		for dy := -radius; dy <= radius; dy++ {
			y := cy + dy
			if y < 0 || y >= f.H {
				continue
			}
			for dx := -radius; dx <= radius; dx++ {
				x := cx + dx
				if x < 0 || x >= f.W {
					continue
				}
				d2 := dx*dx + dy*dy
				if d2 > r2 {
					continue
				}
				v := peak - peak*d2/(r2+1)
				if v > f.Get(x, y) {
					f.Set(x, y, v)
				}
			}
		}
	}
	return f
}
