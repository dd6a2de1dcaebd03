package engine

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/katalvlaran/warepath/gridgraph"
	"github.com/katalvlaran/warepath/pathfind"
	"github.com/katalvlaran/warepath/precompute"
	"github.com/katalvlaran/warepath/units"
)

// sourceMap resolves an aisle name against snap, reporting its precompute
// failure when it has one.
func (e *Engine) sourceMap(snap *Snapshot, source string) (*precompute.SourceMap, error) {
	if err := e.Check(snap); err != nil {
		return nil, err
	}
	if sm, ok := snap.Maps[source]; ok {
		return sm, nil
	}
	for _, f := range snap.Failed {
		if f.Name == source {
			return nil, f.Err
		}
	}
	return nil, fmt.Errorf("%w: pick aisle %q", ErrNotFound, source)
}

// ShortestPath reconstructs the path from pick aisle source to dest.
// Distance is in snap.Settings.Unit.
func (e *Engine) ShortestPath(snap *Snapshot, source string, dest r2.Vec) (*pathfind.Path, error) {
	sm, err := e.sourceMap(snap, source)
	if err != nil {
		return nil, err
	}
	return pathfind.Reconstruct(snap.Grid, sm, dest, snap.Settings.ScaleFactor,
		pathfind.WithSnapRadius(e.opts.SnapRadius))
}

// Route is ShortestPath to the staging location named staging.
func (e *Engine) Route(snap *Snapshot, source, staging string) (*pathfind.Path, error) {
	if err := e.Check(snap); err != nil {
		return nil, err
	}
	p, ok := snap.stagingLocation(staging)
	if !ok {
		return nil, fmt.Errorf("%w: staging location %q", ErrNotFound, staging)
	}
	return e.ShortestPath(snap, source, p.Coord)
}

// Distance returns the physical path length from source to dest in unit.
func (e *Engine) Distance(snap *Snapshot, source string, dest r2.Vec, unit string) (float64, error) {
	if !units.IsValid(unit) {
		return 0, fmt.Errorf("%w: unit %q", ErrInvalidSettings, unit)
	}
	p, err := e.ShortestPath(snap, source, dest)
	if err != nil {
		return 0, err
	}
	return units.Convert(p.Distance, snap.Settings.Unit, unit), nil
}

// Table is a pick aisle × staging location distance matrix. Failed pairs
// hold NaN in Distance and the error in Errs.
type Table struct {
	Sources      []string
	Destinations []string
	Distance     [][]float64
	Errs         [][]error
	Unit         string
}

// Err returns the error for one pair, or nil.
func (t *Table) Err(i, j int) error { return t.Errs[i][j] }

// DistanceTable computes every pick aisle to staging location distance in
// snap.Settings.Unit. Rows follow the snapshot's aisle order, columns its
// staging location order.
func (e *Engine) DistanceTable(snap *Snapshot) (*Table, error) {
	if err := e.Check(snap); err != nil {
		return nil, err
	}
	t := &Table{Unit: snap.Settings.Unit}
	for _, p := range snap.StagingLocations {
		t.Destinations = append(t.Destinations, p.Name)
	}
	for _, a := range snap.PickAisles {
		t.Sources = append(t.Sources, a.Name)
		row := make([]float64, len(snap.StagingLocations))
		errs := make([]error, len(snap.StagingLocations))
		for j, s := range snap.StagingLocations {
			p, err := e.ShortestPath(snap, a.Name, s.Coord)
			if err != nil {
				row[j], errs[j] = math.NaN(), err
				continue
			}
			row[j] = p.Distance
		}
		t.Distance = append(t.Distance, row)
		t.Errs = append(t.Errs, errs)
	}
	return t, nil
}

// Connectivity reports, per pick aisle, the staging locations in the same
// passable region, and the staging locations no aisle can reach.
type Connectivity struct {
	Components int
	Reachable  map[string][]string // aisle → sorted staging names
	Isolated   []string            // sorted staging names
}

// Connectivity labels the snapshot grid's passable regions and groups
// points by region. Aisles use their precomputed start cell; failed aisles
// reach nothing. Staging locations are snapped the same way queries are.
func (e *Engine) Connectivity(snap *Snapshot) (*Connectivity, error) {
	if err := e.Check(snap); err != nil {
		return nil, err
	}
	labels, n := snap.components()
	region := func(p r2.Vec) int32 {
		c, _, err := pathfind.Snap(snap.Grid, p, e.opts.SnapRadius)
		if err != nil {
			return gridgraph.NoComponent
		}
		return labels[snap.Grid.Index(c)]
	}

	staging := make(map[int32][]string)
	stagingRegion := make(map[string]int32, len(snap.StagingLocations))
	for _, s := range snap.StagingLocations {
		r := region(s.Coord)
		stagingRegion[s.Name] = r
		if r != gridgraph.NoComponent {
			staging[r] = append(staging[r], s.Name)
		}
	}

	out := &Connectivity{Components: n, Reachable: make(map[string][]string, len(snap.PickAisles))}
	covered := make(map[int32]bool)
	for _, a := range snap.PickAisles {
		r := gridgraph.NoComponent
		if sm, ok := snap.Maps[a.Name]; ok {
			r = labels[snap.Grid.Index(sm.Cell)]
		}
		names := append([]string(nil), staging[r]...)
		if r == gridgraph.NoComponent {
			names = nil
		}
		sort.Strings(names)
		out.Reachable[a.Name] = names
		covered[r] = true
	}
	for _, s := range snap.StagingLocations {
		if r := stagingRegion[s.Name]; r == gridgraph.NoComponent || !covered[r] {
			out.Isolated = append(out.Isolated, s.Name)
		}
	}
	sort.Strings(out.Isolated)
	return out, nil
}
