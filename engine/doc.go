// Package engine is the warehouse pathfinding facade: a layout store whose
// every effective edit advances a generation counter, a Precompute call that
// rasterizes a frozen copy of the layout and runs the per-aisle scheduler,
// and query methods that answer only against the current Snapshot.
//
// Flow:
//
//	layout edits ──► Precompute ──► raster.Rasterize ──► precompute.Run
//	                                                        │
//	           ShortestPath / Route / DistanceTable ◄── Snapshot
//
// A Snapshot is immutable. Queries against a Snapshot whose generation is
// no longer current fail with *invalidate.StaleGenerationError; the caller
// must run Precompute again.
//
// KindOf maps any returned error to a stable ErrorKind for structured error
// events.
package engine
