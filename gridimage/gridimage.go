// Package gridimage renders cost grids, distance heat maps and paths into
// in-memory images. Pixel row y covers grid row y/cellPx, so the image has
// the grid's row order (world Y grows downward on screen). Encoding and file
// output are left to the caller.
package gridimage

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/katalvlaran/warepath/dijkstra"
	"github.com/katalvlaran/warepath/gridgraph"
)

// ErrBadScale indicates a non-positive pixels-per-cell value.
var ErrBadScale = errors.New("gridimage: pixels per cell must be positive")

// ErrDimensionMismatch indicates maps that do not match the grid.
var ErrDimensionMismatch = errors.New("gridimage: maps do not match grid dimensions")

// Palette colors.
var (
	ColorFree      = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	ColorBlocked   = color.RGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xff}
	ColorPenalized = color.RGBA{R: 0xff, G: 0xb0, B: 0x40, A: 0xff}
	ColorUnreached = color.RGBA{R: 0xa0, G: 0xa0, B: 0xa0, A: 0xff}
	ColorPath      = color.RGBA{R: 0xd0, G: 0x10, B: 0x10, A: 0xff}
)

// Render paints each cell of g as a cellPx×cellPx block: free white,
// penalized orange, blocked dark gray.
func Render(g *gridgraph.CostGrid, cellPx int) (*image.RGBA, error) {
	if cellPx <= 0 {
		return nil, ErrBadScale
	}
	img := image.NewRGBA(image.Rect(0, 0, g.Cols*cellPx, g.Rows*cellPx))
	for idx := 0; idx < g.Len(); idx++ {
		fillCell(img, g.Coordinate(idx), cellPx, costColor(g.CostAt(idx)))
	}
	return img, nil
}

// HeatMap colors reached cells from blue (distance 0) to red (farthest
// reached distance); unreached cells are gray and blocked cells dark.
func HeatMap(g *gridgraph.CostGrid, m *dijkstra.Maps, cellPx int) (*image.RGBA, error) {
	if cellPx <= 0 {
		return nil, ErrBadScale
	}
	if m.Rows != g.Rows || m.Cols != g.Cols || len(m.Dist) != g.Len() {
		return nil, ErrDimensionMismatch
	}
	maxDist := 0.0
	for _, d := range m.Dist {
		if !math.IsInf(d, 1) && d > maxDist {
			maxDist = d
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, g.Cols*cellPx, g.Rows*cellPx))
	for idx := 0; idx < g.Len(); idx++ {
		var c color.RGBA
		switch d := m.Dist[idx]; {
		case !g.Passable(idx):
			c = ColorBlocked
		case math.IsInf(d, 1):
			c = ColorUnreached
		default:
			t := 0.0
			if maxDist > 0 {
				t = d / maxDist
			}
			c = ramp(t)
		}
		fillCell(img, g.Coordinate(idx), cellPx, c)
	}
	return img, nil
}

// DrawPath strokes the world polyline pts onto dst with the given width in
// pixels. f places world coordinates on the image at cellPx pixels per cell.
func DrawPath(dst draw.Image, f gridgraph.Frame, pts []r2.Vec, cellPx int, width float32, c color.Color) error {
	if cellPx <= 0 {
		return ErrBadScale
	}
	if len(pts) < 2 || width <= 0 {
		return nil
	}
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over

	toPx := func(p r2.Vec) (float32, float32) {
		s := float64(cellPx) / f.CellSize
		return float32((p.X - f.Origin.X) * s), float32((p.Y - f.Origin.Y) * s)
	}
	half := width / 2
	for i := 1; i < len(pts); i++ {
		x0, y0 := toPx(pts[i-1])
		x1, y1 := toPx(pts[i])
		addSegment(z, x0, y0, x1, y1, half)
	}
	for _, p := range pts {
		x, y := toPx(p)
		addSquare(z, x, y, half)
	}
	z.Draw(dst, b, image.NewUniform(c), b.Min)
	return nil
}

// addSegment adds the rectangle of half-width h around segment (x0,y0)→(x1,y1).
func addSegment(z *vector.Rasterizer, x0, y0, x1, y1, h float32) {
	dx, dy := x1-x0, y1-y0
	n := float32(math.Hypot(float64(dx), float64(dy)))
	if n == 0 {
		return
	}
	nx, ny := -dy/n*h, dx/n*h
	z.MoveTo(x0+nx, y0+ny)
	z.LineTo(x1+nx, y1+ny)
	z.LineTo(x1-nx, y1-ny)
	z.LineTo(x0-nx, y0-ny)
	z.ClosePath()
}

// addSquare caps a joint so consecutive segments leave no notch. Its
// winding matches addSegment so overlaps accumulate instead of cancelling.
func addSquare(z *vector.Rasterizer, x, y, h float32) {
	z.MoveTo(x-h, y-h)
	z.LineTo(x-h, y+h)
	z.LineTo(x+h, y+h)
	z.LineTo(x+h, y-h)
	z.ClosePath()
}

func fillCell(img *image.RGBA, c gridgraph.Cell, px int, col color.RGBA) {
	r := image.Rect(c.Col*px, c.Row*px, (c.Col+1)*px, (c.Row+1)*px)
	draw.Draw(img, r, image.NewUniform(col), image.Point{}, draw.Src)
}

func costColor(cost float64) color.RGBA {
	switch {
	case math.IsInf(cost, 1):
		return ColorBlocked
	case cost > gridgraph.CostFree:
		return ColorPenalized
	default:
		return ColorFree
	}
}

// ramp maps t ∈ [0,1] from blue through green to red.
func ramp(t float64) color.RGBA {
	t = math.Max(0, math.Min(1, t))
	var r, g, b float64
	if t < 0.5 {
		g, b = t*2, 1-t*2
	} else {
		r, g = (t-0.5)*2, 1-(t-0.5)*2
	}
	return color.RGBA{R: uint8(r * 255), G: uint8(g * 255), B: uint8(b * 255), A: 0xff}
}
