package raster

import (
	"errors"
	"fmt"
	"runtime"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/katalvlaran/warepath/geom"
)

// ErrInvalidLayout is the sentinel matched by every *InvalidLayoutError.
var ErrInvalidLayout = errors.New("raster: invalid layout")

// InvalidLayoutError reports degenerate geometry or configuration that
// prevents building a grid. Err, when set, is the underlying cause.
type InvalidLayoutError struct {
	Reason string
	Err    error
}

func (e *InvalidLayoutError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("raster: invalid layout: %s: %v", e.Reason, e.Err)
	}
	return "raster: invalid layout: " + e.Reason
}

// Is matches ErrInvalidLayout.
func (e *InvalidLayoutError) Is(target error) bool { return target == ErrInvalidLayout }

// Unwrap returns the underlying cause.
func (e *InvalidLayoutError) Unwrap() error { return e.Err }

func invalid(err error, format string, args ...interface{}) *InvalidLayoutError {
	return &InvalidLayoutError{Reason: fmt.Sprintf(format, args...), Err: err}
}

// StagingArea is a traversable zone whose cells cost Penalty.
type StagingArea struct {
	Polygon geom.Polygon
	Penalty float64 // ≥ 1; 1 behaves like open floor
}

// Layout is an immutable snapshot of the rasterizer inputs.
type Layout struct {
	Obstacles []geom.Polygon
	Staging   []StagingArea
	// Bounds, when non-nil, crops the grid to its bounding box and blocks
	// cells outside it.
	Bounds geom.Polygon
	// Points are locations (pick aisles, staging locations) that the
	// derived region must cover when Bounds is nil.
	Points []r2.Vec
}

// Clearance describes the cart footprint used to dilate obstacles.
type Clearance struct {
	Width  float64 // cart width, world units
	Length float64 // cart length, world units
	Radius float64 // explicit buffer radius; overrides Width when > 0
}

// BufferDistance returns the outward obstacle buffer: Radius when set,
// otherwise half the cart width.
func (c Clearance) BufferDistance() float64 {
	if c.Radius > 0 {
		return c.Radius
	}
	return c.Width / 2
}

// AutoMargin selects the default region margin: the clearance buffer plus
// DefaultMarginCells cells.
const AutoMargin = -1.0

// DefaultMarginCells is the number of cells of padding added around a
// derived region.
const DefaultMarginCells = 2

// DefaultMaxCells caps grid size to keep per-source maps in memory.
const DefaultMaxCells = 25_000_000

// Options configures Rasterize.
type Options struct {
	CellSize  float64   // world units per cell edge; must be > 0
	Clearance Clearance // cart footprint for obstacle dilation
	Margin    float64   // padding around a derived region; AutoMargin for default
	MaxCells  int       // reject grids larger than this
	Workers   int       // row-partition goroutines; ≤ 0 uses GOMAXPROCS
}

// Option represents a functional option for configuring Rasterize.
type Option func(*Options)

// WithCellSize sets the grid resolution in world units per cell.
func WithCellSize(size float64) Option {
	return func(o *Options) { o.CellSize = size }
}

// WithClearance sets the cart footprint used for obstacle dilation.
func WithClearance(c Clearance) Option {
	return func(o *Options) { o.Clearance = c }
}

// WithMargin sets the padding around a derived region. A negative value
// other than AutoMargin is rejected by Rasterize.
func WithMargin(m float64) Option {
	return func(o *Options) { o.Margin = m }
}

// WithMaxCells caps Rows×Cols.
func WithMaxCells(n int) Option {
	return func(o *Options) { o.MaxCells = n }
}

// WithWorkers sets the number of row-partition goroutines.
func WithWorkers(n int) Option {
	return func(o *Options) { o.Workers = n }
}

// DefaultOptions returns:
//   - CellSize:  1
//   - Clearance: none
//   - Margin:    AutoMargin
//   - MaxCells:  DefaultMaxCells
//   - Workers:   runtime.GOMAXPROCS(0)
func DefaultOptions() Options {
	return Options{
		CellSize: 1,
		Margin:   AutoMargin,
		MaxCells: DefaultMaxCells,
		Workers:  runtime.GOMAXPROCS(0),
	}
}
