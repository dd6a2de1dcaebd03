// Package geom provides the small amount of planar geometry the engine needs:
// closed polygons over gonum r2 vectors, axis-aligned boxes, point
// containment and outward buffers.
//
// What:
//
//   - Polygon is an ordered vertex list, closed implicitly (last → first).
//   - Contains uses even-odd ray casting; ContainsBuffered adds every point
//     within a distance r of the boundary (the Minkowski sum with a disc).
//   - BoundsOf, Union and Pad build and grow r2.Box regions.
//
// Conventions:
//
//   - Coordinates are world units. The engine never assumes an axis
//     orientation; +Y may point up or down the page.
//   - Epsilon absorbs rounding on boundaries and degenerate edges.
//
// Complexity:
//
//   - Contains, DistanceTo: O(n) for n vertices.
//   - BoundsOf: O(n).
package geom
