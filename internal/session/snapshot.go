package session

import "cube-ca/internal/core"

// Snapshot is a read-only view of one completed generation. It stays valid
// after the session moves on.
type Snapshot struct {
	grid     *core.Grid
	gen      int
	maxState int
}

// Size returns the grid edge length.
func (s Snapshot) Size() int { return s.grid.Size() }

// Generation returns the generation number the snapshot was taken at.
func (s Snapshot) Generation() int { return s.gen }

// At returns the state at (x, y, z); ok is false off-grid.
func (s Snapshot) At(x, y, z int) (uint8, bool) { return s.grid.At(x, y, z) }

// Population counts live cells.
func (s Snapshot) Population() int { return s.grid.Population() }

// StateCounts returns a histogram over states 0..MaxState of the rule active
// when the snapshot was taken.
func (s Snapshot) StateCounts() []int { return s.grid.StateCounts(s.maxState) }

// LiveCells lists the coordinates of every live cell.
func (s Snapshot) LiveCells() []core.Seed { return s.grid.LiveCells() }

// Grid returns a private copy of the snapshot's grid.
func (s Snapshot) Grid() *core.Grid { return s.grid.Clone() }
