// Package dijkstra provides single-source shortest paths over a
// gridgraph.CostGrid.
//
// Overview:
//
//   - The grid is treated as an 8-connected weighted graph. A cardinal edge
//     weighs the mean of its two endpoint costs; a diagonal edge weighs that
//     mean times √2. Impassable (+Inf) cells have no edges.
//   - The result is a Maps value: a row-major distance slice and a
//     predecessor slice with NoPredecessor for the source and for unreached
//     cells. Prev[v] == u means the shortest path to v ends with u→v.
//   - Output is deterministic: compass-order expansion, (distance, index)
//     heap order and strict relaxation.
//
// Key features:
//
//   - Source(idx):             required start cell (row-major index).
//   - WithMaxDistance(d):      cells farther than d stay unreached.
//   - WithCornerCutting(bool): allow diagonals past a blocked corner.
//
// Error handling (sentinel errors):
//
//   - ErrNilGraph, ErrNoSource, ErrSourceOutOfBounds, ErrSourceBlocked.
//   - ErrBadMaxDistance (via panic) for a negative MaxDistance.
//
// Thread safety:
//
//   - CostGrid is immutable, so any number of Dijkstra runs may share one
//     grid concurrently. Each run allocates its own state.
package dijkstra
