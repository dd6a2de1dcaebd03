package gridgraph

import (
	"fmt"
	"math"
)

// CostGrid is an immutable rows×cols matrix of traversal costs placed in
// world space by its Frame. Cost values are either finite and ≥ CostFree or
// +Inf (impassable). A CostGrid is safe for concurrent readers.
type CostGrid struct {
	Frame
	costs []float64
}

// NewCostGrid validates costs against f and returns a CostGrid over a deep
// copy of them, so later changes to the input slice never leak in.
// Returns ErrDimensionMismatch if len(costs) != f.Len(), ErrBadCost if any
// value is NaN, -Inf or below CostFree.
// Complexity: O(R×C) time and memory.
func NewCostGrid(f Frame, costs []float64) (*CostGrid, error) {
	if f.Rows <= 0 || f.Cols <= 0 {
		return nil, ErrEmptyRegion
	}
	if !(f.CellSize > 0) {
		return nil, ErrBadCellSize
	}
	if len(costs) != f.Len() {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(costs), f.Len())
	}
	for i, c := range costs {
		if math.IsNaN(c) || c < CostFree {
			return nil, fmt.Errorf("%w: cell %v = %v", ErrBadCost, f.Coordinate(i), c)
		}
	}
	cp := make([]float64, len(costs))
	copy(cp, costs)

	return &CostGrid{Frame: f, costs: cp}, nil
}

// Cost returns the cost of c, or CostBlocked if c is out of bounds.
func (g *CostGrid) Cost(c Cell) float64 {
	if !g.InBounds(c) {
		return CostBlocked
	}
	return g.costs[g.Index(c)]
}

// CostAt returns the cost at row-major index idx.
func (g *CostGrid) CostAt(idx int) float64 {
	return g.costs[idx]
}

// Passable reports whether the cell at idx has a finite cost.
func (g *CostGrid) Passable(idx int) bool {
	return !math.IsInf(g.costs[idx], 1)
}

// Costs returns a copy of the row-major cost slice.
func (g *CostGrid) Costs() []float64 {
	out := make([]float64, len(g.costs))
	copy(out, g.costs)
	return out
}

// Neighbor returns the index of the cell one step from idx in direction d.
// ok is false when the step leaves the grid.
func (g *CostGrid) Neighbor(idx int, d Direction) (int, bool) {
	c := g.Coordinate(idx)
	dr, dc := d.Offset()
	n := Cell{Row: c.Row + dr, Col: c.Col + dc}
	if !g.InBounds(n) {
		return -1, false
	}
	return g.Index(n), true
}

// EdgeWeight returns the neighbor reached from idx in direction d and the
// weight of that edge: the mean endpoint cost, times √2 for diagonal steps.
// ok is false when the neighbor is out of bounds or either endpoint is
// impassable.
func (g *CostGrid) EdgeWeight(idx int, d Direction) (to int, w float64, ok bool) {
	to, ok = g.Neighbor(idx, d)
	if !ok {
		return -1, 0, false
	}
	cu, cv := g.costs[idx], g.costs[to]
	if math.IsInf(cu, 1) || math.IsInf(cv, 1) {
		return -1, 0, false
	}
	w = (cu + cv) / 2
	if d.Diagonal() {
		w *= math.Sqrt2
	}
	return to, w, true
}

// DiagonalOpen reports whether both orthogonal cells flanking the diagonal
// step from idx in direction d are passable. Cardinal directions are
// always open.
func (g *CostGrid) DiagonalOpen(idx int, d Direction) bool {
	if !d.Diagonal() {
		return true
	}
	c := g.Coordinate(idx)
	dr, dc := d.Offset()
	a := Cell{Row: c.Row + dr, Col: c.Col}
	b := Cell{Row: c.Row, Col: c.Col + dc}

	return !math.IsInf(g.Cost(a), 1) && !math.IsInf(g.Cost(b), 1)
}

// Census counts free (cost == CostFree), penalized (finite, above CostFree)
// and blocked cells.
func (g *CostGrid) Census() (free, penalized, blocked int) {
	for _, c := range g.costs {
		switch {
		case math.IsInf(c, 1):
			blocked++
		case c > CostFree:
			penalized++
		default:
			free++
		}
	}
	return free, penalized, blocked
}
