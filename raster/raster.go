package raster

import (
	"errors"
	"math"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/katalvlaran/warepath/geom"
	"github.com/katalvlaran/warepath/gridgraph"
	"github.com/katalvlaran/warepath/internal/logging"
)

// Rasterize builds the cost grid for layout l.
//
// Validation (in order):
//  1. Options: CellSize > 0, Clearance ≥ 0, Margin ≥ 0 or AutoMargin.
//  2. Geometry: every polygon has ≥ 3 vertices and non-zero area; every
//     staging penalty is finite and ≥ 1.
//  3. Region: non-empty, positive extent, at most MaxCells cells.
//
// Any failure is returned as *InvalidLayoutError before any cell is filled.
func Rasterize(l Layout, opts ...Option) (*gridgraph.CostGrid, error) {
	// 1) Build Options.
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	// 2) Validate inputs and derive the frame.
	if err := validate(l, cfg); err != nil {
		return nil, err
	}
	region, err := Region(l, cfg)
	if err != nil {
		return nil, err
	}
	frame, err := gridgraph.NewFrame(region, cfg.CellSize)
	if err != nil {
		return nil, invalid(err, "cannot derive grid frame")
	}
	if cfg.MaxCells > 0 && frame.Len() > cfg.MaxCells {
		return nil, invalid(nil, "grid of %dx%d cells exceeds limit %d", frame.Rows, frame.Cols, cfg.MaxCells)
	}

	// 3) Fill costs by row partitions.
	start := time.Now()
	p := prepare(l, cfg.Clearance.BufferDistance())
	costs := make([]float64, frame.Len())
	if err := fill(frame, p, costs, cfg.Workers); err != nil {
		return nil, invalid(err, "rasterization failed")
	}

	g, err := gridgraph.NewCostGrid(frame, costs)
	if err != nil {
		return nil, invalid(err, "rasterized grid rejected")
	}

	free, penalized, blocked := g.Census()
	logging.Logger().Debug("raster: grid built",
		"rows", frame.Rows, "cols", frame.Cols, "cell_size", frame.CellSize,
		"origin_x", frame.Origin.X, "origin_y", frame.Origin.Y,
		"free", free, "penalized", penalized, "blocked", blocked,
		"elapsed", time.Since(start))

	return g, nil
}

// Region computes the effective bounding region for l: the bounds
// polygon's box when present, otherwise the union box of every obstacle,
// staging area and point padded by the margin.
func Region(l Layout, cfg Options) (r2.Box, error) {
	if l.Bounds != nil {
		b, _ := l.Bounds.Bounds()
		if !hasExtent(b) {
			return r2.Box{}, invalid(nil, "bounds polygon has zero extent")
		}
		return b, nil
	}

	// Every vertex and point goes into one box; zero-extent pieces such as
	// a single point still count.
	var pts []r2.Vec
	for _, o := range l.Obstacles {
		pts = append(pts, o...)
	}
	for _, s := range l.Staging {
		pts = append(pts, s.Polygon...)
	}
	pts = append(pts, l.Points...)
	region, found := geom.BoundsOf(pts...)
	if !found {
		return r2.Box{}, invalid(nil, "layout has no obstacles, staging areas, bounds or points")
	}

	margin := cfg.Margin
	if margin == AutoMargin {
		margin = cfg.Clearance.BufferDistance() + DefaultMarginCells*cfg.CellSize
	}
	region = geom.Pad(region, margin)
	if !hasExtent(region) {
		return r2.Box{}, invalid(nil, "derived region has zero extent")
	}
	return region, nil
}

func hasExtent(b r2.Box) bool { return !b.Empty() }

func validate(l Layout, cfg Options) error {
	if !(cfg.CellSize > 0) || math.IsInf(cfg.CellSize, 0) {
		return invalid(nil, "cell size must be positive, got %v", cfg.CellSize)
	}
	c := cfg.Clearance
	for _, v := range []float64{c.Width, c.Length, c.Radius} {
		if !(v >= 0) || math.IsInf(v, 0) {
			return invalid(nil, "cart clearance must be non-negative and finite, got %+v", c)
		}
	}
	if cfg.Margin != AutoMargin && (!(cfg.Margin >= 0) || math.IsInf(cfg.Margin, 0)) {
		return invalid(nil, "margin must be non-negative, got %v", cfg.Margin)
	}
	for i, o := range l.Obstacles {
		if err := o.Validate(); err != nil {
			return invalid(err, "obstacle %d", i)
		}
	}
	for i, s := range l.Staging {
		if err := s.Polygon.Validate(); err != nil {
			return invalid(err, "staging area %d", i)
		}
		if !(s.Penalty >= 1) || math.IsInf(s.Penalty, 0) {
			return invalid(nil, "staging area %d: penalty must be finite and >= 1, got %v", i, s.Penalty)
		}
	}
	if l.Bounds != nil {
		if err := l.Bounds.Validate(); err != nil {
			return invalid(err, "bounds polygon")
		}
	}
	for i, p := range l.Points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return invalid(errors.New("non-finite coordinate"), "point %d", i)
		}
	}
	return nil
}

// shape is a polygon with a precomputed (padded) bounding box for quick
// rejection.
type shape struct {
	poly    geom.Polygon
	box     r2.Box
	penalty float64
}

type prepared struct {
	obstacles []shape
	staging   []shape
	bounds    geom.Polygon
	buffer    float64
}

func prepare(l Layout, buffer float64) prepared {
	p := prepared{bounds: l.Bounds, buffer: buffer}
	for _, o := range l.Obstacles {
		b, _ := o.Bounds()
		p.obstacles = append(p.obstacles, shape{poly: o, box: geom.Pad(b, buffer+geom.Epsilon)})
	}
	for _, s := range l.Staging {
		b, _ := s.Polygon.Bounds()
		p.staging = append(p.staging, shape{poly: s.Polygon, box: geom.Pad(b, geom.Epsilon), penalty: s.Penalty})
	}
	return p
}

// cellCost samples the cell center pt.
func (p prepared) cellCost(pt r2.Vec) float64 {
	for _, o := range p.obstacles {
		if o.box.Contains(pt) && o.poly.ContainsBuffered(pt, p.buffer) {
			return gridgraph.CostBlocked
		}
	}
	cost, staged := gridgraph.CostFree, false
	for _, s := range p.staging {
		if s.box.Contains(pt) && s.poly.ContainsBuffered(pt, 0) {
			cost, staged = math.Max(cost, s.penalty), true
		}
	}
	if staged {
		return cost
	}
	if p.bounds != nil && !p.bounds.ContainsBuffered(pt, 0) {
		return gridgraph.CostBlocked
	}
	return gridgraph.CostFree
}

// fill writes every cell cost in blocks of rowBlock rows, with at most
// workers blocks in flight. Blocks write disjoint ranges of costs.
func fill(f gridgraph.Frame, p prepared, costs []float64, workers int) error {
	if workers <= 0 {
		workers = 1
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for r0 := 0; r0 < f.Rows; r0 += rowBlock {
		r0 := r0
		r1 := min(r0+rowBlock, f.Rows)
		g.Go(func() error {
			for r := r0; r < r1; r++ {
				for c := 0; c < f.Cols; c++ {
					cell := gridgraph.Cell{Row: r, Col: c}
					costs[f.Index(cell)] = p.cellCost(f.CellCenter(cell))
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// rowBlock is the number of rows one fill task covers.
const rowBlock = 16
