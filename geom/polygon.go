package geom

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Epsilon is the tolerance used for boundary and degeneracy checks.
const Epsilon = 1e-6

// ErrDegeneratePolygon indicates a polygon with fewer than three vertices or
// zero area.
var ErrDegeneratePolygon = errors.New("geom: polygon must have at least 3 vertices and non-zero area")

// Polygon is an ordered sequence of world-space vertices. The last vertex is
// implicitly connected to the first.
type Polygon []r2.Vec

// Validate reports ErrDegeneratePolygon for polygons that cannot enclose
// any area.
func (p Polygon) Validate() error {
	if len(p) < 3 || p.Area() < Epsilon {
		return ErrDegeneratePolygon
	}
	return nil
}

// Area returns the absolute enclosed area using the shoelace formula.
func (p Polygon) Area() float64 {
	n := len(p)
	if n < 3 {
		return 0
	}
	var sum float64
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		sum += r2.Cross(p[j], p[i])
	}
	return math.Abs(sum) / 2
}

// Bounds returns the axis-aligned bounding box of p. The second result is
// false for an empty polygon.
func (p Polygon) Bounds() (r2.Box, bool) {
	return BoundsOf(p...)
}

// Contains reports whether pt lies strictly inside p using even-odd ray
// casting. Points exactly on an edge may fall either way; use
// ContainsBuffered with a zero radius to include the boundary.
func (p Polygon) Contains(pt r2.Vec) bool {
	n := len(p)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := p[i], p[j]
		if (a.Y > pt.Y) == (b.Y > pt.Y) {
			continue // edge does not straddle the horizontal ray
		}
		x := (b.X-a.X)*(pt.Y-a.Y)/(b.Y-a.Y) + a.X
		if pt.X < x {
			inside = !inside
		}
	}
	return inside
}

// DistanceTo returns the minimum Euclidean distance from pt to the polygon
// boundary. It returns +Inf for an empty polygon.
func (p Polygon) DistanceTo(pt r2.Vec) float64 {
	n := len(p)
	if n == 0 {
		return math.Inf(1)
	}
	if n == 1 {
		return r2.Norm(r2.Sub(pt, p[0]))
	}
	best := math.Inf(1)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		if d := SegmentDistance(pt, p[j], p[i]); d < best {
			best = d
		}
	}
	return best
}

// ContainsBuffered reports whether pt lies inside p dilated outward by r,
// that is inside p or within r (plus Epsilon) of its boundary.
func (p Polygon) ContainsBuffered(pt r2.Vec, r float64) bool {
	if p.Contains(pt) {
		return true
	}
	return p.DistanceTo(pt) <= r+Epsilon
}

// SegmentDistance returns the distance from pt to the segment [a, b].
func SegmentDistance(pt, a, b r2.Vec) float64 {
	ab := r2.Sub(b, a)
	l2 := r2.Dot(ab, ab)
	if l2 < Epsilon*Epsilon {
		return r2.Norm(r2.Sub(pt, a))
	}
	t := r2.Dot(r2.Sub(pt, a), ab) / l2
	t = math.Max(0, math.Min(1, t))
	closest := r2.Add(a, r2.Scale(t, ab))
	return r2.Norm(r2.Sub(pt, closest))
}

// Clone returns a deep copy of p.
func (p Polygon) Clone() Polygon {
	if p == nil {
		return nil
	}
	out := make(Polygon, len(p))
	copy(out, p)
	return out
}

// Equal reports whether p and q have identical vertices in the same order.
func (p Polygon) Equal(q Polygon) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}
