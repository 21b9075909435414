// Package engine computes generations of the 3D automaton.
package engine

import (
	"errors"
	"fmt"

	"cube-ca/internal/core"
	"cube-ca/internal/rule"
)

// ErrUnknownNeighborhood is returned when a rule names a topology the engine
// cannot count. It signals a configuration bug, never a runtime condition.
var ErrUnknownNeighborhood = errors.New("engine: unknown neighborhood")

type offset struct{ dx, dy, dz int }

var (
	mooreOffsets      = buildOffsets(3)
	vonNeumannOffsets = buildOffsets(1)
)

// buildOffsets lists every non-zero offset in the 3x3x3 cube whose Manhattan
// distance is at most maxDist.
func buildOffsets(maxDist int) []offset {
	var out []offset
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				d := abs(dx) + abs(dy) + abs(dz)
				if d == 0 || d > maxDist {
					continue
				}
				out = append(out, offset{dx, dy, dz})
			}
		}
	}
	return out
}

func offsetsFor(nb rule.Neighborhood) ([]offset, error) {
	switch nb {
	case rule.Moore:
		return mooreOffsets, nil
	case rule.VonNeumann:
		return vonNeumannOffsets, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownNeighborhood, nb.String())
	}
}

// Count returns how many cells adjacent to (x, y, z) hold a non-zero state.
// Off-grid positions count as dead; the grid never wraps.
func Count(g *core.Grid, x, y, z int, nb rule.Neighborhood) (int, error) {
	offs, err := offsetsFor(nb)
	if err != nil {
		return 0, err
	}
	return countWith(g, x, y, z, offs), nil
}

func countWith(g *core.Grid, x, y, z int, offs []offset) int {
	n := 0
	for _, o := range offs {
		if v, ok := g.At(x+o.dx, y+o.dy, z+o.dz); ok && v != 0 {
			n++
		}
	}
	return n
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
