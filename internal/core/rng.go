package core

import "math/rand/v2"

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// ScatterSeeds picks up to count distinct coordinates inside a grid of edge
// length n. The engine itself never draws random numbers; this only feeds
// initial seed lists for sweeps.
func (r *RNG) ScatterSeeds(n, count int) []Seed {
	if n <= 0 || count <= 0 {
		return nil
	}
	if total := n * n * n; count > total {
		count = total
	}
	seen := make(map[Seed]struct{}, count)
	out := make([]Seed, 0, count)
	for len(out) < count {
		s := Seed{X: r.r.IntN(n), Y: r.r.IntN(n), Z: r.r.IntN(n)}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Source exposes the underlying rand.Rand for advanced use.
func (r *RNG) Source() *rand.Rand { return r.r }
