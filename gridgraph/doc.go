// Package gridgraph treats a rasterized warehouse layout as an 8-connected
// weighted graph of square cells.
//
// What:
//
//   - Frame is the world↔grid affine mapping: origin (world coordinate of the
//     corner of cell [0,0]), cell size, and row/column counts.
//   - CostGrid pairs a Frame with per-cell traversal costs (finite ≥ 1, or
//     +Inf for impassable cells). It is immutable once built.
//   - Directions enumerate neighbors in the fixed compass order
//     N, NE, E, SE, S, SW, W, NW so expansion order is reproducible.
//   - ComponentLabels groups passable cells into connected regions.
//   - NearestPassable finds the closest passable cell within a window,
//     used for snapping query points.
//
// Why:
//
//   - Shortest-path runs only need row-major indices and flat slices.
//   - Callers keep talking in world units; Frame converts both ways.
//
// Edge weights:
//
//   - Cardinal step: (cost(u)+cost(v))/2.
//   - Diagonal step: (cost(u)+cost(v))/2 × √2.
//
// Complexity:
//
//   - WorldToCell, CellCenter, Index, Coordinate, EdgeWeight: O(1).
//   - ComponentLabels: O(R×C×8), Memory: O(R×C).
//   - NearestPassable: O(r²) for a window radius r.
//
// Errors:
//
//   - ErrBadCellSize: cell size is zero, negative or not finite.
//   - ErrEmptyRegion: the region has zero or negative extent.
//   - ErrDimensionMismatch: cost slice length differs from Rows×Cols.
//   - ErrBadCost: a cost is NaN, below 1, or -Inf.
package gridgraph
