package gridgraph

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Frame maps world coordinates onto grid cells.
//
//	col = floor((x − Origin.X) / CellSize)
//	row = floor((y − Origin.Y) / CellSize)
//
// The inverse, CellCenter, returns the world coordinate of a cell's center,
// so a world→grid→world round trip moves a point by at most half a cell
// along each axis.
type Frame struct {
	Origin     r2.Vec  // world coordinate of the outer corner of cell [0,0]
	CellSize   float64 // world units per cell edge
	Rows, Cols int
}

// NewFrame covers region with square cells of the given size. Row and
// column counts are rounded up so the whole region is covered; the origin
// is region.Min, so a cropped region keeps its world placement.
func NewFrame(region r2.Box, cellSize float64) (Frame, error) {
	if !(cellSize > 0) || math.IsInf(cellSize, 0) {
		return Frame{}, fmt.Errorf("%w: %v", ErrBadCellSize, cellSize)
	}
	w := region.Max.X - region.Min.X
	h := region.Max.Y - region.Min.Y
	if !(w > 0) || !(h > 0) || math.IsInf(w, 0) || math.IsInf(h, 0) {
		return Frame{}, fmt.Errorf("%w: %gx%g", ErrEmptyRegion, w, h)
	}
	cols := cellCount(w, cellSize)
	rows := cellCount(h, cellSize)
	if float64(rows)*float64(cols) > MaxCells {
		return Frame{}, fmt.Errorf("%w: %dx%d", ErrTooManyCells, rows, cols)
	}

	return Frame{Origin: region.Min, CellSize: cellSize, Rows: rows, Cols: cols}, nil
}

// cellCount returns ceil(extent/size), ignoring rounding noise just above an
// exact multiple.
func cellCount(extent, size float64) int {
	n := int(math.Ceil(extent/size - 1e-9))
	if n < 1 {
		n = 1
	}
	return n
}

// Len returns Rows×Cols.
func (f Frame) Len() int { return f.Rows * f.Cols }

// InBounds reports whether c lies within the grid.
func (f Frame) InBounds(c Cell) bool {
	return c.Row >= 0 && c.Row < f.Rows && c.Col >= 0 && c.Col < f.Cols
}

// Index maps c to its row-major index.
func (f Frame) Index(c Cell) int {
	return c.Row*f.Cols + c.Col
}

// Coordinate converts a row-major index back to a Cell.
func (f Frame) Coordinate(idx int) Cell {
	return Cell{Row: idx / f.Cols, Col: idx % f.Cols}
}

// CellOf returns the cell containing p, which may be out of bounds.
func (f Frame) CellOf(p r2.Vec) Cell {
	return Cell{
		Row: int(math.Floor((p.Y - f.Origin.Y) / f.CellSize)),
		Col: int(math.Floor((p.X - f.Origin.X) / f.CellSize)),
	}
}

// WorldToCell returns the cell containing p and whether it is in bounds.
func (f Frame) WorldToCell(p r2.Vec) (Cell, bool) {
	c := f.CellOf(p)
	return c, f.InBounds(c)
}

// CellCenter returns the world coordinate at the center of c.
func (f Frame) CellCenter(c Cell) r2.Vec {
	return r2.Vec{
		X: f.Origin.X + (float64(c.Col)+0.5)*f.CellSize,
		Y: f.Origin.Y + (float64(c.Row)+0.5)*f.CellSize,
	}
}

// ClampCell moves c to the nearest in-bounds cell.
func (f Frame) ClampCell(c Cell) Cell {
	c.Row = clamp(c.Row, 0, f.Rows-1)
	c.Col = clamp(c.Col, 0, f.Cols-1)
	return c
}

// Box returns the world-space rectangle covered by the grid.
func (f Frame) Box() r2.Box {
	return r2.Box{
		Min: f.Origin,
		Max: r2.Vec{
			X: f.Origin.X + float64(f.Cols)*f.CellSize,
			Y: f.Origin.Y + float64(f.Rows)*f.CellSize,
		},
	}
}

// Contains reports whether p falls inside the grid's world rectangle.
func (f Frame) Contains(p r2.Vec) bool {
	_, ok := f.WorldToCell(p)
	return ok
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
