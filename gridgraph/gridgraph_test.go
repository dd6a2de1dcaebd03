package gridgraph_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/katalvlaran/warepath/gridgraph"
)

// fromRows builds a CostGrid with cell size 1 at the origin; 0 means blocked.
func fromRows(t testing.TB, rows [][]float64) *gridgraph.CostGrid {
	t.Helper()
	f, err := gridgraph.NewFrame(box(0, 0, float64(len(rows[0])), float64(len(rows))), 1)
	require.NoError(t, err)
	costs := make([]float64, 0, f.Len())
	for _, row := range rows {
		for _, v := range row {
			if v == 0 {
				v = gridgraph.CostBlocked
			}
			costs = append(costs, v)
		}
	}
	g, err := gridgraph.NewCostGrid(f, costs)
	require.NoError(t, err)
	return g
}

func TestNewCostGrid_Errors(t *testing.T) {
	f, err := gridgraph.NewFrame(box(0, 0, 2, 2), 1)
	require.NoError(t, err)

	_, err = gridgraph.NewCostGrid(f, []float64{1, 1, 1})
	require.ErrorIs(t, err, gridgraph.ErrDimensionMismatch)

	for _, bad := range []float64{0.5, math.NaN(), math.Inf(-1)} {
		_, err = gridgraph.NewCostGrid(f, []float64{1, 1, bad, 1})
		require.ErrorIs(t, err, gridgraph.ErrBadCost, "value %v", bad)
	}
}

// TestNewCostGrid_Copies ensures the grid does not alias caller memory.
func TestNewCostGrid_Copies(t *testing.T) {
	f, err := gridgraph.NewFrame(box(0, 0, 2, 1), 1)
	require.NoError(t, err)
	in := []float64{1, 2}
	g, err := gridgraph.NewCostGrid(f, in)
	require.NoError(t, err)
	in[0] = 99
	require.Equal(t, 1.0, g.CostAt(0))

	out := g.Costs()
	out[1] = 99
	require.Equal(t, 2.0, g.CostAt(1))
}

// TestEdgeWeight covers cardinal, diagonal, blocked and out-of-bounds steps.
func TestEdgeWeight(t *testing.T) {
	g := fromRows(t, [][]float64{
		{1, 3, 1},
		{1, 1, 0},
	})
	start := g.Index(gridgraph.Cell{Row: 1, Col: 0})

	to, w, ok := g.EdgeWeight(start, gridgraph.North)
	require.True(t, ok)
	require.Equal(t, 0, to)
	require.Equal(t, 1.0, w)

	to, w, ok = g.EdgeWeight(start, gridgraph.NorthEast)
	require.True(t, ok)
	require.Equal(t, 1, to)
	require.InDelta(t, 2*math.Sqrt2, w, 1e-12)

	_, _, ok = g.EdgeWeight(start, gridgraph.West)
	require.False(t, ok, "out of bounds")

	_, _, ok = g.EdgeWeight(g.Index(gridgraph.Cell{Row: 1, Col: 1}), gridgraph.East)
	require.False(t, ok, "blocked neighbor")
}

func TestDiagonalOpen(t *testing.T) {
	g := fromRows(t, [][]float64{
		{1, 0},
		{1, 1},
	})
	// (1,0) → NE: flanks (0,0) and (1,1) are open; the target itself is not checked here.
	require.True(t, g.DiagonalOpen(g.Index(gridgraph.Cell{Row: 1, Col: 0}), gridgraph.NorthEast))
	// (0,0) → SE: flank (0,1) is blocked.
	require.False(t, g.DiagonalOpen(0, gridgraph.SouthEast))
	require.True(t, g.DiagonalOpen(0, gridgraph.South))
}

func TestDirections(t *testing.T) {
	names := ""
	for _, d := range gridgraph.Directions {
		names += d.String() + " "
	}
	require.Equal(t, "N NE E SE S SW W NW ", names)
	require.True(t, gridgraph.SouthWest.Diagonal())
	require.False(t, gridgraph.West.Diagonal())
	require.Equal(t, math.Sqrt2, gridgraph.NorthWest.StepLength())
}

func TestCensus(t *testing.T) {
	g := fromRows(t, [][]float64{{1, 5, 0}, {0, 1, 1}})
	free, pen, blocked := g.Census()
	require.Equal(t, [3]int{3, 1, 2}, [3]int{free, pen, blocked})
}

func TestNearestPassable(t *testing.T) {
	g := fromRows(t, [][]float64{
		{1, 0, 0},
		{0, 0, 0},
		{0, 0, 1},
	})
	c, ok := g.NearestPassable(r2.Vec{X: 1.5, Y: 1.5}, 1)
	require.True(t, ok)
	require.Equal(t, gridgraph.Cell{Row: 0, Col: 0}, c, "equidistant corners resolve to lower index")

	c, ok = g.NearestPassable(r2.Vec{X: 1.9, Y: 1.9}, 1)
	require.True(t, ok)
	require.Equal(t, gridgraph.Cell{Row: 2, Col: 2}, c)

	_, ok = g.NearestPassable(r2.Vec{X: 1.5, Y: 1.5}, 0)
	require.False(t, ok)
}
