// Package raster converts a polygonal warehouse layout into a
// gridgraph.CostGrid.
//
// What:
//
//   - Obstacles are dilated outward by the cart clearance and become
//     impassable (+Inf).
//   - Staging areas are traversable but cost their penalty multiplier.
//   - An optional bounds polygon crops the grid to its bounding box and
//     blocks cells whose center falls outside it.
//
// Algorithm:
//
//  1. Region: the bounds polygon's box if present, otherwise the union box
//     of every obstacle, staging area and point, padded by a margin.
//  2. Frame: rows/cols are the region extent divided by the cell size,
//     rounded up; the origin is the region's minimum corner.
//  3. Per cell, sample the center: dilated obstacle → +Inf; else the
//     highest penalty among containing staging areas; else outside bounds
//     → +Inf; else 1. Obstacles take precedence over staging areas.
//
// Rows are filled in parallel partitions. Every cell depends only on
// immutable inputs, so the output is identical to a sequential fill.
//
// Complexity: O(R×C×P) time for P polygons, O(R×C) memory.
//
// Errors:
//
//   - ErrInvalidLayout (via *InvalidLayoutError): non-positive cell size,
//     negative clearance, penalty below 1, degenerate polygons, an empty
//     layout, a zero-extent region, or more cells than MaxCells.
package raster
