package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// BoundsOf returns the smallest box containing every point. ok is false
// when no points are given.
func BoundsOf(pts ...r2.Vec) (b r2.Box, ok bool) {
	if len(pts) == 0 {
		return r2.Box{}, false
	}
	b = r2.Box{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		b.Min.X = math.Min(b.Min.X, p.X)
		b.Min.Y = math.Min(b.Min.Y, p.Y)
		b.Max.X = math.Max(b.Max.X, p.X)
		b.Max.Y = math.Max(b.Max.Y, p.Y)
	}
	return b, true
}

// Pad grows b by m on every side. A negative m shrinks it.
func Pad(b r2.Box, m float64) r2.Box {
	return r2.Box{
		Min: r2.Vec{X: b.Min.X - m, Y: b.Min.Y - m},
		Max: r2.Vec{X: b.Max.X + m, Y: b.Max.Y + m},
	}
}
