package pathfind

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/katalvlaran/warepath/gridgraph"
	"github.com/katalvlaran/warepath/invalidate"
)

// Sentinel errors.
var (
	ErrNilGrid           = errors.New("pathfind: grid is nil")
	ErrNilMaps           = errors.New("pathfind: source maps are nil")
	ErrDimensionMismatch = errors.New("pathfind: maps do not match grid dimensions")
	ErrBadScale          = errors.New("pathfind: scale factor must be positive and finite")
	ErrCorruptMaps       = errors.New("pathfind: predecessor chain does not reach the source")

	// ErrPointOutsideGrid is the sentinel matched by every *PointOutsideGridError.
	ErrPointOutsideGrid = errors.New("pathfind: point outside grid")
	// ErrNoPath is the sentinel matched by every *NoPathError.
	ErrNoPath = errors.New("pathfind: no path")
)

// PointOutsideGridError reports a destination that cannot be mapped onto a
// passable cell.
type PointOutsideGridError struct {
	Point  r2.Vec
	Cell   gridgraph.Cell // cell containing Point, possibly out of bounds
	Reason string
}

func (e *PointOutsideGridError) Error() string {
	return fmt.Sprintf("pathfind: point (%g, %g) cell %v: %s", e.Point.X, e.Point.Y, e.Cell, e.Reason)
}

// Is matches ErrPointOutsideGrid.
func (e *PointOutsideGridError) Is(target error) bool { return target == ErrPointOutsideGrid }

// NoPathError reports a destination cell the source never reached.
type NoPathError struct {
	Source string
	Cell   gridgraph.Cell
}

func (e *NoPathError) Error() string {
	return fmt.Sprintf("pathfind: no path from %q to cell %v", e.Source, e.Cell)
}

// Is matches ErrNoPath.
func (e *NoPathError) Is(target error) bool { return target == ErrNoPath }

// Path is a reconstructed source→destination route.
type Path struct {
	Source     string
	Generation invalidate.Stamp
	// Cells is the grid route, source cell first.
	Cells []gridgraph.Cell
	// Points is the world polyline through the cell centers of Cells,
	// optionally bracketed by the exact endpoints (see WithEndpoints).
	Points []r2.Vec
	// Distance is the physical polyline length, in real units.
	Distance float64
	// GridDistance is the accumulated edge cost at the destination cell, in
	// cell steps weighted by cell cost.
	GridDistance float64
	// Scale is the real units per world unit used for Distance.
	Scale float64
	// Snapped is true when the destination was moved onto a nearby cell.
	Snapped bool
}

// Segments returns the cumulative scaled distance at every point of the
// polyline; the first entry is 0 and the last equals Distance.
func (p *Path) Segments() []float64 {
	out := make([]float64, len(p.Points))
	for i := 1; i < len(p.Points); i++ {
		out[i] = out[i-1] + r2.Norm(r2.Sub(p.Points[i], p.Points[i-1]))*p.Scale
	}
	return out
}

// Steps returns the number of grid moves in the route.
func (p *Path) Steps() int {
	if len(p.Cells) == 0 {
		return 0
	}
	return len(p.Cells) - 1
}

// DefaultSnapRadius is the default snap tolerance in cells.
const DefaultSnapRadius = 1

// Options configures Reconstruct.
type Options struct {
	SnapRadius int  // cells
	Endpoints  bool // bracket the polyline with the exact source and destination when they lie in the path's end cells
}

// Option represents a functional option for configuring Reconstruct.
type Option func(*Options)

// WithSnapRadius sets the snap tolerance in cells. It panics when called
// with r < 0.
func WithSnapRadius(r int) Option {
	if r < 0 {
		panic("pathfind: snap radius must be non-negative")
	}
	return func(o *Options) { o.SnapRadius = r }
}

// WithEndpoints toggles exact source/destination points on the polyline.
// A clamped source or snapped destination keeps its cell center instead,
// so the polyline never leaves the path's cells.
func WithEndpoints(on bool) Option {
	return func(o *Options) {
		o.Endpoints = on
	}
}

// DefaultOptions returns a one-cell snap radius and a polyline through cell
// centers only.
func DefaultOptions() Options {
	return Options{SnapRadius: DefaultSnapRadius}
}
