package engine_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/katalvlaran/warepath/engine"
	"github.com/katalvlaran/warepath/geom"
	"github.com/katalvlaran/warepath/invalidate"
	"github.com/katalvlaran/warepath/pathfind"
	"github.com/katalvlaran/warepath/precompute"
	"github.com/katalvlaran/warepath/raster"
	"github.com/katalvlaran/warepath/units"
)

func rect(x0, y0, x1, y1 float64) geom.Polygon {
	return geom.Polygon{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

// facility is a 20×10 floor with one rack, two aisles, one aisle inside the
// rack and two staging locations.
func facility(t *testing.T, opts ...engine.Option) *engine.Engine {
	t.Helper()
	e := engine.New(opts...)
	require.NoError(t, e.SetBounds(rect(0, 0, 20, 10)))
	_, err := e.AddObstacle(rect(8, 2, 10, 8))
	require.NoError(t, err)
	for _, p := range []engine.Point{
		{Name: "A", Role: engine.PickAisle, Coord: r2.Vec{X: 2, Y: 5}},
		{Name: "B", Role: engine.PickAisle, Coord: r2.Vec{X: 15, Y: 5}},
		{Name: "X", Role: engine.PickAisle, Coord: r2.Vec{X: 9, Y: 5}},
		{Name: "S1", Role: engine.StagingLocation, Coord: r2.Vec{X: 5, Y: 9}},
		{Name: "S2", Role: engine.StagingLocation, Coord: r2.Vec{X: 18, Y: 1}},
	} {
		require.NoError(t, e.AddPoint(p))
	}
	return e
}

func TestEngine_RebuildAndQuery(t *testing.T) {
	e := facility(t)
	snap, err := e.Rebuild(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snap)
	require.Same(t, snap, e.Current())
	require.NotEqual(t, uuid.Nil, snap.BuildID)
	require.Equal(t, e.Generation(), snap.Generation)

	// The aisle inside the rack failed alone.
	require.Len(t, snap.Maps, 2)
	require.Len(t, snap.Failed, 1)
	evs := snap.ErrorEvents()
	require.Len(t, evs, 1)
	assert.Equal(t, engine.KindUnreachableSource, evs[0].Kind)
	assert.Equal(t, "X", evs[0].ID)

	p, err := e.Route(snap, "A", "S2")
	require.NoError(t, err)
	// The polyline runs between the aisle and staging cell centers.
	from := snap.Grid.CellCenter(snap.Grid.CellOf(r2.Vec{X: 2, Y: 5}))
	to := snap.Grid.CellCenter(snap.Grid.CellOf(r2.Vec{X: 18, Y: 1}))
	assert.GreaterOrEqual(t, p.Distance, r2.Norm(r2.Sub(to, from)))
	assert.Equal(t, from, p.Points[0])
	assert.Equal(t, to, p.Points[len(p.Points)-1])

	_, err = e.Route(snap, "X", "S1")
	assert.Equal(t, engine.KindUnreachableSource, engine.KindOf(err))
	_, err = e.Route(snap, "nobody", "S1")
	assert.ErrorIs(t, err, engine.ErrNotFound)
	_, err = e.Route(snap, "A", "nowhere")
	assert.ErrorIs(t, err, engine.ErrNotFound)
	_, err = e.ShortestPath(snap, "A", r2.Vec{X: 50, Y: 5})
	assert.Equal(t, engine.KindPointOutsideGrid, engine.KindOf(err))
	_, err = e.ShortestPath(nil, "A", r2.Vec{X: 1, Y: 1})
	assert.ErrorIs(t, err, engine.ErrNoSnapshot)
}

// TestEngine_StaleAfterEdit: maps from before an edit never answer a query.
func TestEngine_StaleAfterEdit(t *testing.T) {
	e := facility(t)
	snap, err := e.Rebuild(context.Background())
	require.NoError(t, err)
	before, err := e.Route(snap, "A", "S1")
	require.NoError(t, err)
	require.Greater(t, before.Distance, 0.0)

	_, err = e.AddObstacle(rect(3, 6, 6, 7))
	require.NoError(t, err)

	p, err := e.Route(snap, "A", "S1")
	require.Nil(t, p)
	require.ErrorIs(t, err, invalidate.ErrStaleGeneration)
	var stale *invalidate.StaleGenerationError
	require.ErrorAs(t, err, &stale)
	assert.Equal(t, snap.Generation, stale.Stamp)
	assert.Equal(t, e.Generation(), stale.Current)
	assert.Equal(t, engine.KindStaleGeneration, engine.KindOf(err))
	assert.Nil(t, e.Current())

	_, err = e.DistanceTable(snap)
	require.ErrorIs(t, err, invalidate.ErrStaleGeneration)
	_, err = e.Connectivity(snap)
	require.ErrorIs(t, err, invalidate.ErrStaleGeneration)

	fresh, err := e.Rebuild(context.Background())
	require.NoError(t, err)
	after, err := e.Route(fresh, "A", "S1")
	require.NoError(t, err)
	assert.Greater(t, after.Distance, before.Distance)
}

func TestEngine_GenerationOnlyOnEffectiveChange(t *testing.T) {
	e := engine.New()
	g0 := e.Generation()

	id, err := e.AddObstacle(rect(0, 0, 1, 1))
	require.NoError(t, err)
	g1 := e.Generation()
	require.Greater(t, g1, g0)

	steps := []struct {
		name    string
		mutate  func() error
		advance bool
	}{
		{"same obstacle", func() error { return e.UpdateObstacle(id, rect(0, 0, 1, 1)) }, false},
		{"moved obstacle", func() error { return e.UpdateObstacle(id, rect(0, 0, 2, 1)) }, true},
		{"same settings", func() error { return e.SetSettings(engine.DefaultSettings()) }, false},
		{"new cell size", func() error {
			s := engine.DefaultSettings()
			s.CellSize = 0.5
			return e.SetSettings(s)
		}, true},
		{"add point", func() error {
			return e.AddPoint(engine.Point{Name: "P", Role: engine.PickAisle, Coord: r2.Vec{X: 3, Y: 3}})
		}, true},
		{"same coord", func() error { return e.MovePoint(engine.PickAisle, "P", r2.Vec{X: 3, Y: 3}) }, false},
		{"new coord", func() error { return e.MovePoint(engine.PickAisle, "P", r2.Vec{X: 4, Y: 3}) }, true},
		{"bounds", func() error { return e.SetBounds(rect(-1, -1, 10, 10)) }, true},
		{"same bounds", func() error { return e.SetBounds(rect(-1, -1, 10, 10)) }, false},
		{"clear bounds", func() error { e.ClearBounds(); return nil }, true},
		{"clear bounds again", func() error { e.ClearBounds(); return nil }, false},
		{"clear empty staging", func() error { e.ClearStagingAreas(); return nil }, false},
		{"clear staging points none", func() error { e.ClearPoints(engine.StagingLocation); return nil }, false},
		{"remove point", func() error { return e.RemovePoint(engine.PickAisle, "P") }, true},
		{"remove obstacle", func() error { return e.RemoveObstacle(id) }, true},
		{"clear empty obstacles", func() error { e.ClearObstacles(); return nil }, false},
	}
	for _, st := range steps {
		before := e.Generation()
		require.NoError(t, st.mutate(), st.name)
		assert.Equal(t, st.advance, e.Generation() > before, st.name)
	}
}

func TestEngine_MutationErrors(t *testing.T) {
	e := engine.New()
	gen := e.Generation()

	_, err := e.AddObstacle(geom.Polygon{{X: 0, Y: 0}, {X: 1, Y: 1}})
	assert.ErrorIs(t, err, geom.ErrDegeneratePolygon)
	assert.Equal(t, engine.KindInvalidLayout, engine.KindOf(err))

	for _, pen := range []float64{0.5, math.Inf(1), math.NaN()} {
		_, err = e.AddStagingArea(rect(0, 0, 1, 1), pen)
		assert.ErrorIs(t, err, engine.ErrInvalidSettings, "penalty %v", pen)
	}
	assert.Empty(t, e.Layout().Staging)

	assert.ErrorIs(t, e.RemoveObstacle(uuid.New()), engine.ErrNotFound)
	assert.ErrorIs(t, e.UpdateObstacle(uuid.New(), rect(0, 0, 1, 1)), engine.ErrNotFound)
	assert.ErrorIs(t, e.RemoveStagingArea(uuid.New()), engine.ErrNotFound)
	assert.ErrorIs(t, e.MovePoint(engine.PickAisle, "nope", r2.Vec{}), engine.ErrNotFound)
	assert.ErrorIs(t, e.RemovePoint(engine.StagingLocation, "nope"), engine.ErrNotFound)
	assert.ErrorIs(t, e.AddPoint(engine.Point{Role: engine.PickAisle}), engine.ErrInvalidSettings)
	assert.ErrorIs(t, e.SetSettings(engine.Settings{}), engine.ErrInvalidSettings)
	assert.Equal(t, gen, e.Generation(), "failed mutations never advance")

	require.NoError(t, e.AddPoint(engine.Point{Name: "P", Role: engine.PickAisle}))
	assert.ErrorIs(t, e.AddPoint(engine.Point{Name: "P", Role: engine.PickAisle}), engine.ErrDuplicatePoint)
	require.NoError(t, e.AddPoint(engine.Point{Name: "P", Role: engine.StagingLocation}), "names are per role")

	assert.Panics(t, func() { engine.WithSnapRadius(-1) })
}

func TestEngine_PrecomputeErrors(t *testing.T) {
	e := engine.New()
	_, err := e.Precompute(context.Background())
	require.ErrorIs(t, err, engine.ErrNoPickAisles)

	// 10⁴ cells against a limit of 10³.
	s := engine.DefaultSettings()
	s.CellSize = 0.1
	e2 := engine.New(engine.WithMaxCells(1000))
	require.NoError(t, e2.AddPoint(engine.Point{Name: "A", Role: engine.PickAisle, Coord: r2.Vec{X: 1, Y: 1}}))
	require.NoError(t, e2.SetBounds(rect(0, 0, 10, 10)))
	require.NoError(t, e2.SetSettings(s))

	b, err := e2.Precompute(context.Background())
	require.Nil(t, b)
	require.ErrorIs(t, err, raster.ErrInvalidLayout)
	assert.Equal(t, engine.KindInvalidLayout, engine.KindOf(err))
}

func TestEngine_AllAislesFailed(t *testing.T) {
	e := engine.New()
	require.NoError(t, e.SetBounds(rect(0, 0, 10, 10)))
	_, err := e.AddObstacle(rect(2, 2, 8, 8))
	require.NoError(t, err)
	require.NoError(t, e.AddPoint(engine.Point{Name: "A", Role: engine.PickAisle, Coord: r2.Vec{X: 5, Y: 5}}))

	snap, err := e.Rebuild(context.Background())
	require.ErrorIs(t, err, precompute.ErrAllSourcesFailed)
	assert.Equal(t, engine.KindAllSourcesFailed, engine.KindOf(err))
	require.NotNil(t, snap)
	assert.Same(t, snap, e.Current(), "grid stays available for display")
}

func TestEngine_SupersededBuild(t *testing.T) {
	e := facility(t)
	b, err := e.Precompute(context.Background())
	require.NoError(t, err)

	require.NoError(t, e.MovePoint(engine.StagingLocation, "S1", r2.Vec{X: 6, Y: 9}))

	snap, err := b.Wait()
	require.NotNil(t, snap)
	require.ErrorIs(t, err, invalidate.ErrStaleGeneration)
	assert.Nil(t, e.Current())

	again, err := b.Wait()
	assert.Same(t, snap, again)
	assert.ErrorIs(t, err, invalidate.ErrStaleGeneration)
}

func TestEngine_CanceledBuild(t *testing.T) {
	e := facility(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b, err := e.Precompute(ctx)
	require.NoError(t, err)
	for range b.Events() {
	}
	snap, err := b.Wait()
	assert.Nil(t, snap)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, engine.KindCanceled, engine.KindOf(err))
	assert.Nil(t, e.Current())
}

func TestEngine_DistanceTable(t *testing.T) {
	e := facility(t)
	s := engine.DefaultSettings()
	s.ScaleFactor = 2
	require.NoError(t, e.SetSettings(s))
	snap, err := e.Rebuild(context.Background())
	require.NoError(t, err)

	tab, err := e.DistanceTable(snap)
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B", "X"}, tab.Sources)
	require.Equal(t, []string{"S1", "S2"}, tab.Destinations)
	require.Equal(t, units.Meters, tab.Unit)

	for i := 0; i < 2; i++ {
		for j := range tab.Destinations {
			require.NoError(t, tab.Err(i, j))
			p, err := e.Route(snap, tab.Sources[i], tab.Destinations[j])
			require.NoError(t, err)
			assert.Equal(t, p.Distance, tab.Distance[i][j])
		}
	}
	for j := range tab.Destinations {
		assert.True(t, math.IsNaN(tab.Distance[2][j]))
		assert.Equal(t, engine.KindUnreachableSource, engine.KindOf(tab.Err(2, j)))
	}

	m, err := e.Distance(snap, "A", r2.Vec{X: 5, Y: 9}, units.Meters)
	require.NoError(t, err)
	ft, err := e.Distance(snap, "A", r2.Vec{X: 5, Y: 9}, units.Feet)
	require.NoError(t, err)
	assert.InDelta(t, m*units.FeetPerMeter, ft, 1e-9)
	_, err = e.Distance(snap, "A", r2.Vec{X: 5, Y: 9}, "yards")
	assert.ErrorIs(t, err, engine.ErrInvalidSettings)
}

func TestEngine_ScaleFactor(t *testing.T) {
	e := facility(t)
	snap, err := e.Rebuild(context.Background())
	require.NoError(t, err)
	one, err := e.Route(snap, "B", "S2")
	require.NoError(t, err)

	s := engine.DefaultSettings()
	s.ScaleFactor = 0.5
	require.NoError(t, e.SetSettings(s))
	snap, err = e.Rebuild(context.Background())
	require.NoError(t, err)
	half, err := e.Route(snap, "B", "S2")
	require.NoError(t, err)
	assert.InDelta(t, one.Distance/2, half.Distance, 1e-9)
}

func TestEngine_Connectivity(t *testing.T) {
	e := engine.New()
	require.NoError(t, e.SetBounds(rect(0, 0, 20, 10)))
	_, err := e.AddObstacle(rect(7, -1, 11, 11)) // wall splits the floor
	require.NoError(t, err)
	for _, p := range []engine.Point{
		{Name: "A", Role: engine.PickAisle, Coord: r2.Vec{X: 2, Y: 5}},
		{Name: "B", Role: engine.PickAisle, Coord: r2.Vec{X: 15, Y: 5}},
		{Name: "S1", Role: engine.StagingLocation, Coord: r2.Vec{X: 5, Y: 9}},
		{Name: "S0", Role: engine.StagingLocation, Coord: r2.Vec{X: 1, Y: 1}},
		{Name: "S2", Role: engine.StagingLocation, Coord: r2.Vec{X: 18, Y: 1}},
		{Name: "S3", Role: engine.StagingLocation, Coord: r2.Vec{X: 9, Y: 5}},
	} {
		require.NoError(t, e.AddPoint(p))
	}
	snap, err := e.Rebuild(context.Background())
	require.NoError(t, err)

	c, err := e.Connectivity(snap)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Components)
	assert.Equal(t, map[string][]string{"A": {"S0", "S1"}, "B": {"S2"}}, c.Reachable)
	assert.Equal(t, []string{"S3"}, c.Isolated)

	_, err = e.Route(snap, "A", "S2")
	assert.ErrorIs(t, err, pathfind.ErrNoPath)
	assert.Equal(t, engine.KindNoPath, engine.KindOf(err))
}

// TestEngine_DistanceBetweenCellCenters: query distance is the cell-center
// route length, and a snapped destination ends on its snapped cell.
func TestEngine_DistanceBetweenCellCenters(t *testing.T) {
	e := engine.New()
	require.NoError(t, e.SetBounds(rect(0, 0, 10, 10)))
	require.NoError(t, e.AddPoint(engine.Point{Name: "A", Role: engine.PickAisle, Coord: r2.Vec{X: 0.1, Y: 0.1}}))
	snap, err := e.Rebuild(context.Background())
	require.NoError(t, err)

	d, err := e.Distance(snap, "A", r2.Vec{X: 9.9, Y: 9.9}, units.Meters)
	require.NoError(t, err)
	assert.InDelta(t, 9*math.Sqrt2, d, 1e-9)

	_, err = e.AddObstacle(rect(5, 5, 6, 6))
	require.NoError(t, err)
	snap, err = e.Rebuild(context.Background())
	require.NoError(t, err)
	p, err := e.ShortestPath(snap, "A", r2.Vec{X: 5.5, Y: 5.5})
	require.NoError(t, err)
	require.True(t, p.Snapped)
	last := p.Cells[len(p.Cells)-1]
	assert.Equal(t, snap.Grid.CellCenter(last), p.Points[len(p.Points)-1])
	assert.True(t, snap.Grid.Passable(snap.Grid.Index(last)))
}

func TestEngine_StagingPenaltyDefault(t *testing.T) {
	e := engine.New()
	require.NoError(t, e.SetBounds(rect(0, 0, 10, 10)))
	_, err := e.AddStagingArea(rect(0, 0, 5, 5), 0)
	require.NoError(t, err)
	_, err = e.AddStagingArea(rect(5, 5, 10, 10), 3)
	require.NoError(t, err)

	l := e.Layout()
	require.Len(t, l.Staging, 2)
	assert.Equal(t, engine.DefaultStagingPenalty, l.Staging[0].Penalty)
	assert.Equal(t, 3.0, l.Staging[1].Penalty)
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want engine.ErrorKind
	}{
		{nil, engine.KindNone},
		{&raster.InvalidLayoutError{Reason: "x"}, engine.KindInvalidLayout},
		{fmt.Errorf("wrapped: %w", &precompute.UnreachableSourceError{Name: "a"}), engine.KindUnreachableSource},
		{&pathfind.PointOutsideGridError{Reason: "x"}, engine.KindPointOutsideGrid},
		{&pathfind.NoPathError{Source: "a"}, engine.KindNoPath},
		{&invalidate.StaleGenerationError{Stamp: 1, Current: 2}, engine.KindStaleGeneration},
		{engine.ErrNotFound, engine.KindNotFound},
		{engine.ErrInvalidSettings, engine.KindInvalidSettings},
		{context.DeadlineExceeded, engine.KindCanceled},
		{errors.New("boom"), engine.KindUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, engine.KindOf(tc.err), "%v", tc.err)
	}
	ev := engine.NewErrorEvent("S1", &pathfind.NoPathError{Source: "A"})
	assert.Equal(t, engine.ErrorEvent{Kind: engine.KindNoPath, ID: "S1", Err: ev.Err}, ev)
}
