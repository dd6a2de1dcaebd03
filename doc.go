// Package warepath is a warehouse grid pathfinding engine: it turns a
// polygonal facility layout into a traversable cost grid, precomputes
// shortest paths from every pick aisle to every reachable cell, and answers
// point-to-point path and distance queries against that data.
//
// 🚀 What is inside?
//
//	A pure-Go, concurrency-friendly toolkit that brings together:
//		• Geometry: polygons, ray-casting containment, outward buffers
//		• Rasterization: layout → cost grid (obstacles, staging penalties, bounds)
//		• Grid mapping: world ↔ cell transform with cropping
//		• Shortest paths: 8-connected weighted Dijkstra with fixed tie-break
//		• Precompute: parallel per-source runs with progress events
//		• Reconstruction: ordered world-coordinate paths and physical distance
//		• Invalidation: generation stamps that reject stale queries
//
// Under the hood, everything is organized under these subpackages:
//
//	geom/       - polygons, boxes and distance helpers on r2 vectors
//	gridgraph/  - Frame (world↔grid mapping) and the immutable CostGrid
//	raster/     - layout rasterization into a CostGrid
//	dijkstra/   - single-source shortest paths over a CostGrid
//	precompute/ - worker-pool scheduler producing per-source maps
//	pathfind/   - path reconstruction and distance measurement
//	invalidate/ - generation counter and staleness checks
//	engine/     - layout store, precompute builds and typed queries
//	units/      - display unit conversion
//	gridimage/  - in-memory images of grids, heat maps and paths
//	pathplot/   - distance profile plots
//	config/     - JSON project loading for the CLI
//	cmd/warepath - command-line precompute and distance report
//
// Quick ASCII example (S = source, D = destination, # = obstacle):
//
//	S . . .
//	. # # .
//	. . . D
//
// Logging is silent by default; see SetLogger.
//
//	go get github.com/katalvlaran/warepath
package warepath
