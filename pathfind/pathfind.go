package pathfind

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/katalvlaran/warepath/dijkstra"
	"github.com/katalvlaran/warepath/gridgraph"
	"github.com/katalvlaran/warepath/precompute"
)

// Reconstruct builds the path from sm's source to dest over g.
//
// Steps:
//  1. Validate g, sm, dimensions and scale.
//  2. Snap dest onto a passable cell (PointOutsideGridError on failure).
//  3. Reject an unreached cell (NoPathError).
//  4. Walk predecessors back to the source, bounded by Rows×Cols steps.
//  5. Convert cells to world centers and measure the polyline.
//
// Complexity: O(L + r²), L = path length, r = snap radius.
func Reconstruct(g *gridgraph.CostGrid, sm *precompute.SourceMap, dest r2.Vec, scale float64, opts ...Option) (*Path, error) {
	// 1) Build Options and validate.
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if g == nil {
		return nil, ErrNilGrid
	}
	if sm == nil || sm.Maps == nil {
		return nil, ErrNilMaps
	}
	if sm.Rows != g.Rows || sm.Cols != g.Cols || len(sm.Dist) != g.Len() || len(sm.Prev) != g.Len() {
		return nil, fmt.Errorf("%w: maps %dx%d, grid %dx%d", ErrDimensionMismatch, sm.Rows, sm.Cols, g.Rows, g.Cols)
	}
	if !(scale > 0) || math.IsInf(scale, 0) {
		return nil, fmt.Errorf("%w: %v", ErrBadScale, scale)
	}

	// 2) Snap.
	cell, snapped, err := Snap(g, dest, cfg.SnapRadius)
	if err != nil {
		return nil, err
	}

	// 3) Reachability.
	idx := g.Index(cell)
	if !sm.Reachable(idx) {
		return nil, &NoPathError{Source: sm.Name, Cell: cell}
	}

	// 4) Walk.
	cells, err := walk(g, sm.Maps, idx)
	if err != nil {
		return nil, fmt.Errorf("source %q: %w", sm.Name, err)
	}

	// 5) World polyline.
	pts := make([]r2.Vec, 0, len(cells)+2)
	if cfg.Endpoints && g.CellOf(sm.Point) == sm.Cell {
		pts = appendDistinct(pts, sm.Point)
	}
	for _, c := range cells {
		pts = appendDistinct(pts, g.CellCenter(c))
	}
	if cfg.Endpoints && !snapped {
		pts = appendDistinct(pts, dest)
	}

	p := &Path{
		Source:       sm.Name,
		Generation:   sm.Generation,
		Cells:        cells,
		Points:       pts,
		GridDistance: sm.Dist[idx],
		Scale:        scale,
		Snapped:      snapped,
	}
	p.Distance = polylineLength(pts) * scale

	return p, nil
}

// Snap maps p onto a passable cell of g. A point outside the grid but
// within radius cells of its edge clamps to the nearest edge cell; an
// impassable cell moves to the nearest passable cell within radius.
// snapped reports whether the returned cell differs from the one containing p.
func Snap(g *gridgraph.CostGrid, p r2.Vec, radius int) (cell gridgraph.Cell, snapped bool, err error) {
	if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
		return gridgraph.Cell{}, false, &PointOutsideGridError{Point: p, Reason: "non-finite coordinate"}
	}
	raw := g.CellOf(p)
	cell = raw
	if !g.InBounds(raw) {
		tol := float64(radius) * g.CellSize
		if outside := boxDistance(g.Box(), p); outside > tol {
			return raw, false, &PointOutsideGridError{
				Point:  p,
				Cell:   raw,
				Reason: fmt.Sprintf("%.3g beyond grid edge, tolerance %.3g", outside, tol),
			}
		}
		cell = g.ClampCell(raw)
	}
	if !g.Passable(g.Index(cell)) {
		near, ok := g.NearestPassable(p, radius)
		if !ok {
			return raw, false, &PointOutsideGridError{
				Point:  p,
				Cell:   raw,
				Reason: fmt.Sprintf("impassable, no open cell within %d", radius),
			}
		}
		cell = near
	}
	return cell, cell != raw, nil
}

// walk follows Prev from idx back to the source and returns the route in
// source→destination order.
func walk(g *gridgraph.CostGrid, m *dijkstra.Maps, idx int) ([]gridgraph.Cell, error) {
	limit := m.Len()
	rev := make([]int, 0, 64)
	for v := idx; ; {
		rev = append(rev, v)
		if v == m.Source {
			break
		}
		if len(rev) > limit {
			return nil, fmt.Errorf("%w: more than %d steps", ErrCorruptMaps, limit)
		}
		u := m.Predecessor(v)
		if u < 0 || u >= limit {
			return nil, fmt.Errorf("%w: cell %v has no predecessor", ErrCorruptMaps, g.Coordinate(v))
		}
		v = u
	}

	cells := make([]gridgraph.Cell, len(rev))
	for i, v := range rev {
		cells[len(rev)-1-i] = g.Coordinate(v)
	}
	return cells, nil
}

func appendDistinct(pts []r2.Vec, p r2.Vec) []r2.Vec {
	if n := len(pts); n > 0 && pts[n-1] == p {
		return pts
	}
	return append(pts, p)
}

func polylineLength(pts []r2.Vec) float64 {
	var sum float64
	for i := 1; i < len(pts); i++ {
		sum += r2.Norm(r2.Sub(pts[i], pts[i-1]))
	}
	return sum
}

// boxDistance is the Euclidean distance from p to b, 0 inside.
func boxDistance(b r2.Box, p r2.Vec) float64 {
	dx := math.Max(math.Max(b.Min.X-p.X, 0), p.X-b.Max.X)
	dy := math.Max(math.Max(b.Min.Y-p.Y, 0), p.Y-b.Max.Y)
	return math.Hypot(dx, dy)
}
