// Package pathfind turns precomputed single-source maps into world-space
// paths.
//
// Reconstruct maps a destination point onto the grid (snapping within a
// small tolerance), walks the predecessor chain back to the source, and
// measures the resulting polyline in real units:
//
//	Distance = scale × Σ |Points[i+1] − Points[i]|
//
// so the reported length follows the actual mix of cardinal and diagonal
// steps, never the raw cell count.
//
// Errors:
//
//   - *PointOutsideGridError (ErrPointOutsideGrid): destination beyond the
//     grid, or on an impassable cell with no passable cell within the snap
//     radius.
//   - *NoPathError (ErrNoPath): destination cell not reached from the source.
//   - ErrCorruptMaps: a predecessor chain that does not lead back to the
//     source within Rows×Cols steps.
package pathfind
