package gridgraph_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/katalvlaran/warepath/gridgraph"
)

func box(x0, y0, x1, y1 float64) r2.Box {
	return r2.Box{Min: r2.Vec{X: x0, Y: y0}, Max: r2.Vec{X: x1, Y: y1}}
}

// TestNewFrame_Errors verifies that NewFrame rejects degenerate inputs.
func TestNewFrame_Errors(t *testing.T) {
	cases := []struct {
		name     string
		region   r2.Box
		cellSize float64
		err      error
	}{
		{"ZeroCell", box(0, 0, 10, 10), 0, gridgraph.ErrBadCellSize},
		{"NegativeCell", box(0, 0, 10, 10), -1, gridgraph.ErrBadCellSize},
		{"NaNCell", box(0, 0, 10, 10), math.NaN(), gridgraph.ErrBadCellSize},
		{"ZeroWidth", box(0, 0, 0, 10), 1, gridgraph.ErrEmptyRegion},
		{"Inverted", box(5, 5, 1, 1), 1, gridgraph.ErrEmptyRegion},
		{"Huge", box(0, 0, 1e6, 1e6), 0.01, gridgraph.ErrTooManyCells},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := gridgraph.NewFrame(tc.region, tc.cellSize)
			require.ErrorIs(t, err, tc.err)
		})
	}
}

// TestNewFrame_Dimensions checks ceiling rounding and origin placement.
func TestNewFrame_Dimensions(t *testing.T) {
	f, err := gridgraph.NewFrame(box(2, 3, 12, 8.5), 1)
	require.NoError(t, err)
	require.Equal(t, r2.Vec{X: 2, Y: 3}, f.Origin)
	require.Equal(t, 10, f.Cols)
	require.Equal(t, 6, f.Rows) // 5.5 rounds up

	f, err = gridgraph.NewFrame(box(0, 0, 0.3*10, 1), 0.3)
	require.NoError(t, err)
	require.Equal(t, 10, f.Cols, "rounding noise must not add a column")
}

// TestFrame_RoundTrip: world→grid→world stays within half a cell per axis.
func TestFrame_RoundTrip(t *testing.T) {
	f, err := gridgraph.NewFrame(box(-7.5, 4, 42, 30), 0.75)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		p := r2.Vec{X: -7.5 + rng.Float64()*49.5, Y: 4 + rng.Float64()*26}
		c, ok := f.WorldToCell(p)
		if !ok {
			continue // points on the far rounding edge
		}
		q := f.CellCenter(c)
		require.LessOrEqual(t, math.Abs(q.X-p.X), f.CellSize/2+1e-12)
		require.LessOrEqual(t, math.Abs(q.Y-p.Y), f.CellSize/2+1e-12)

		// Mapping the center again is idempotent.
		c2, ok := f.WorldToCell(q)
		require.True(t, ok)
		require.Equal(t, c, c2)
	}
}

func TestFrame_IndexAndClamp(t *testing.T) {
	f, err := gridgraph.NewFrame(box(0, 0, 4, 3), 1)
	require.NoError(t, err)
	for idx := 0; idx < f.Len(); idx++ {
		require.Equal(t, idx, f.Index(f.Coordinate(idx)))
	}
	require.Equal(t, gridgraph.Cell{Row: 0, Col: 3}, f.ClampCell(gridgraph.Cell{Row: -4, Col: 9}))
	_, ok := f.WorldToCell(r2.Vec{X: -0.01, Y: 1})
	require.False(t, ok)
	require.Equal(t, box(0, 0, 4, 3), f.Box())
	require.True(t, f.Contains(r2.Vec{X: 3.99, Y: 2.99}))
	require.False(t, f.Contains(r2.Vec{X: 4, Y: 1}))
}
