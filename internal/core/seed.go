package core

import "fmt"

// Seed is a grid coordinate initialized to the maximum state on (re)seed.
type Seed struct {
	X, Y, Z int
}

// In reports whether the seed lies inside a grid of edge length n.
func (s Seed) In(n int) bool {
	return s.X >= 0 && s.X < n && s.Y >= 0 && s.Y < n && s.Z >= 0 && s.Z < n
}

// String formats the seed as "x y z", the seed file line format.
func (s Seed) String() string { return fmt.Sprintf("%d %d %d", s.X, s.Y, s.Z) }

// DedupeSeeds returns seeds with later duplicates removed, preserving order.
func DedupeSeeds(seeds []Seed) []Seed {
	seen := make(map[Seed]struct{}, len(seeds))
	out := make([]Seed, 0, len(seeds))
	for _, s := range seeds {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// FitSeeds returns the seeds that lie inside a grid of edge length n.
func FitSeeds(seeds []Seed, n int) []Seed {
	out := make([]Seed, 0, len(seeds))
	for _, s := range seeds {
		if s.In(n) {
			out = append(out, s)
		}
	}
	return out
}
