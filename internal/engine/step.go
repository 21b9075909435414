package engine

import (
	"fmt"

	"cube-ca/internal/core"
	"cube-ca/internal/rule"
)

// Step computes the next generation of g under spec into a fresh grid. The
// input grid is only read.
//
// Dead cells are born at spec.MaxState() when their neighbor count is in the
// birth set. State-1 cells survive when their count is in the survive set.
// Cells above 1 decay by one each generation regardless of neighbors.
func Step(g *core.Grid, spec rule.Spec) (*core.Grid, error) {
	offs, err := offsetsFor(spec.Neighborhood())
	if err != nil {
		return nil, err
	}
	maxState := spec.MaxState()
	if maxState < 1 || maxState > rule.MaxStateLimit {
		return nil, fmt.Errorf("engine: max state %d out of range", maxState)
	}
	born := uint8(maxState)

	size := len(offs) + 1
	survive := spec.Survive().Table(size)
	birth := spec.Birth().Table(size)

	n := g.Size()
	cur := g.Cells()
	next := core.NewGrid(n)
	out := next.Cells()
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			for z := 0; z < n; z++ {
				idx := g.Index(x, y, z)
				switch s := cur[idx]; s {
				case 0:
					if birth[countWith(g, x, y, z, offs)] {
						out[idx] = born
					}
				case 1:
					if survive[countWith(g, x, y, z, offs)] {
						out[idx] = 1
					}
				default:
					out[idx] = s - 1
				}
			}
		}
	}
	return next, nil
}
