package pathplot_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/katalvlaran/warepath/pathfind"
	"github.com/katalvlaran/warepath/pathplot"
	"github.com/katalvlaran/warepath/units"
)

func path() *pathfind.Path {
	return &pathfind.Path{
		Source:   "A1",
		Points:   []r2.Vec{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 4}},
		Distance: 7,
		Scale:    1,
	}
}

func TestProfile(t *testing.T) {
	pl, err := pathplot.Profile(path(), units.Meters, units.Feet)
	require.NoError(t, err)
	assert.Contains(t, pl.Title.Text, "A1")
	assert.Contains(t, pl.Title.Text, "22.97 ft")
	assert.Equal(t, "Distance (ft)", pl.Y.Label.Text)
	assert.InDelta(t, 7*units.FeetPerMeter, pl.Y.Max, 1e-9)

	var buf bytes.Buffer
	require.NoError(t, pathplot.WritePNG(&buf, pl))
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestProfile_Empty(t *testing.T) {
	_, err := pathplot.Profile(nil, units.Meters, units.Meters)
	assert.ErrorIs(t, err, pathplot.ErrEmptyPath)
	_, err = pathplot.Profile(&pathfind.Path{Points: []r2.Vec{{}}}, units.Meters, units.Meters)
	assert.ErrorIs(t, err, pathplot.ErrEmptyPath)
}
