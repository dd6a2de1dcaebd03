// Package pathplot charts a reconstructed path's cumulative distance with
// gonum/plot.
package pathplot

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/katalvlaran/warepath/pathfind"
	"github.com/katalvlaran/warepath/units"
)

// ErrEmptyPath indicates a path with fewer than two points.
var ErrEmptyPath = errors.New("pathplot: path has fewer than two points")

// Default image size.
const (
	DefaultWidth  = 8 * vg.Inch
	DefaultHeight = 4 * vg.Inch
)

// Profile plots cumulative distance against path vertex index. Distances
// are converted from the path's unit from into unit to.
func Profile(p *pathfind.Path, from, to string) (*plot.Plot, error) {
	if p == nil || len(p.Points) < 2 {
		return nil, ErrEmptyPath
	}
	seg := p.Segments()
	pts := make(plotter.XYs, len(seg))
	for i, d := range seg {
		pts[i] = plotter.XY{X: float64(i), Y: units.Convert(d, from, to)}
	}

	pl := plot.New()
	pl.Title.Text = fmt.Sprintf("Path from %s (%.2f %s)", p.Source, units.Convert(p.Distance, from, to), units.Abbrev(to))
	pl.X.Label.Text = "Vertex"
	pl.Y.Label.Text = fmt.Sprintf("Distance (%s)", units.Abbrev(to))
	pl.Add(plotter.NewGrid())

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("pathplot: %w", err)
	}
	line.Color = color.RGBA{R: 0xd0, G: 0x10, B: 0x10, A: 0xff}
	line.Width = vg.Points(1.5)
	pl.Add(line)
	pl.Legend.Add("cumulative", line)

	return pl, nil
}

// WritePNG renders pl as a PNG image of the default size to w.
func WritePNG(w io.Writer, pl *plot.Plot) error {
	wt, err := pl.WriterTo(DefaultWidth, DefaultHeight, "png")
	if err != nil {
		return fmt.Errorf("pathplot: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("pathplot: %w", err)
	}
	return nil
}
