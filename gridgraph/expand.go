package gridgraph

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// NearestPassable searches the (2r+1)×(2r+1) window of cells around the
// cell containing p (clamped into the grid) and returns the passable cell
// whose center is closest to p. Ties go to the lower row-major index.
// ok is false when no passable cell lies in the window.
//
// Complexity: O(r²).
func (g *CostGrid) NearestPassable(p r2.Vec, radius int) (Cell, bool) {
	if radius < 0 {
		radius = 0
	}
	center := g.ClampCell(g.CellOf(p))
	best := Cell{Row: -1, Col: -1}
	bestDist := math.Inf(1)
	for r := center.Row - radius; r <= center.Row+radius; r++ {
		for c := center.Col - radius; c <= center.Col+radius; c++ {
			cell := Cell{Row: r, Col: c}
			if !g.InBounds(cell) || !g.Passable(g.Index(cell)) {
				continue
			}
			d := r2.Norm(r2.Sub(g.CellCenter(cell), p))
			if d < bestDist {
				best, bestDist = cell, d
			}
		}
	}
	return best, bestDist < math.Inf(1)
}
