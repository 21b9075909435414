package core

// Grid stores a dense N×N×N cube of cell states in x-major order.
//
// A Grid handed out by a session is never written again; the engine always
// produces the next generation into a fresh Grid.
type Grid struct {
	N    int
	data []uint8
}

// NewGrid allocates an all-dead grid with the given edge length.
func NewGrid(n int) *Grid {
	if n <= 0 {
		n = 1
	}
	return &Grid{N: n, data: make([]uint8, n*n*n)}
}

// FromSeeds builds a grid with every in-range seed set to maxState. Seeds that
// fall outside [0, n) on any axis are ignored.
func FromSeeds(n int, seeds []Seed, maxState uint8) *Grid {
	g := NewGrid(n)
	for _, s := range seeds {
		if !s.In(g.N) {
			continue
		}
		g.data[g.Index(s.X, s.Y, s.Z)] = maxState
	}
	return g
}

// Size returns the edge length of the cube.
func (g *Grid) Size() int { return g.N }

// Cells exposes the backing slice so the engine can fill a fresh buffer.
func (g *Grid) Cells() []uint8 { return g.data }

// Index returns the linear slice index for coordinates (x, y, z). It does not
// check bounds.
func (g *Grid) Index(x, y, z int) int { return (x*g.N+y)*g.N + z }

// In reports whether (x, y, z) lies inside the grid.
func (g *Grid) In(x, y, z int) bool {
	return x >= 0 && x < g.N && y >= 0 && y < g.N && z >= 0 && z < g.N
}

// At returns the state at (x, y, z). The second result is false when the
// coordinates are off-grid, in which case the state is always 0.
func (g *Grid) At(x, y, z int) (uint8, bool) {
	if !g.In(x, y, z) {
		return 0, false
	}
	return g.data[g.Index(x, y, z)], true
}

// Population counts cells with a non-zero state.
func (g *Grid) Population() int {
	n := 0
	for _, c := range g.data {
		if c != 0 {
			n++
		}
	}
	return n
}

// StateCounts returns a histogram of states 0..maxState. States above maxState
// are folded into the last bucket.
func (g *Grid) StateCounts(maxState int) []int {
	if maxState < 0 {
		maxState = 0
	}
	counts := make([]int, maxState+1)
	for _, c := range g.data {
		idx := int(c)
		if idx > maxState {
			idx = maxState
		}
		counts[idx]++
	}
	return counts
}

// LiveCells lists the coordinates of every non-zero cell in scan order.
func (g *Grid) LiveCells() []Seed {
	var out []Seed
	for x := 0; x < g.N; x++ {
		for y := 0; y < g.N; y++ {
			for z := 0; z < g.N; z++ {
				if g.data[g.Index(x, y, z)] != 0 {
					out = append(out, Seed{X: x, Y: y, Z: z})
				}
			}
		}
	}
	return out
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	return &Grid{N: g.N, data: append([]uint8(nil), g.data...)}
}
