package engine

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/warepath/dijkstra"
	"github.com/katalvlaran/warepath/gridgraph"
	"github.com/katalvlaran/warepath/internal/logging"
	"github.com/katalvlaran/warepath/invalidate"
	"github.com/katalvlaran/warepath/precompute"
	"github.com/katalvlaran/warepath/raster"
)

// Snapshot is the immutable result of one build: the grid, the per-aisle
// maps, and the points and settings they were computed for.
type Snapshot struct {
	BuildID          uuid.UUID
	Generation       invalidate.Stamp
	Grid             *gridgraph.CostGrid
	Maps             map[string]*precompute.SourceMap
	Failed           []precompute.Failure
	Settings         Settings
	PickAisles       []Point
	StagingLocations []Point
	CornerCutting    bool
	Elapsed          time.Duration

	compOnce sync.Once
	labels   []int32
	ncomp    int
}

// ErrorEvents returns one event per failed source.
func (s *Snapshot) ErrorEvents() []ErrorEvent {
	out := make([]ErrorEvent, len(s.Failed))
	for i, f := range s.Failed {
		out[i] = NewErrorEvent(f.Name, f.Err)
	}
	return out
}

// components lazily labels the grid's passable regions.
func (s *Snapshot) components() ([]int32, int) {
	s.compOnce.Do(func() {
		s.labels, s.ncomp = s.Grid.ComponentLabels(s.CornerCutting)
	})
	return s.labels, s.ncomp
}

func (s *Snapshot) stagingLocation(name string) (Point, bool) {
	for _, p := range s.StagingLocations {
		if p.Name == name {
			return p, true
		}
	}
	return Point{}, false
}

// Build is a running Precompute.
type Build struct {
	ID         uuid.UUID
	Generation invalidate.Stamp
	Grid       *gridgraph.CostGrid

	engine   *Engine
	job      *precompute.Job
	settings Settings
	aisles   []Point
	staging  []Point

	once sync.Once
	snap *Snapshot
	err  error
}

// Events returns the scheduler's progress stream; it closes after the
// final event.
func (b *Build) Events() <-chan precompute.Event { return b.job.Events() }

// Cancel stops the build between sources.
func (b *Build) Cancel() { b.job.Cancel() }

// Done is closed when the scheduler has finished.
func (b *Build) Done() <-chan struct{} { return b.job.Done() }

// Wait blocks until the build finishes and installs its Snapshot if the
// layout has not changed meanwhile.
//
// Returns:
//   - (snap, nil) on full or partial success; snap.Failed lists failures.
//   - (snap, err wrapping precompute.ErrAllSourcesFailed) when no aisle
//     produced maps; the snapshot is still installed for grid display.
//   - (snap, *invalidate.StaleGenerationError) when the layout changed
//     during the build; the snapshot is not installed.
//   - (nil, context error) when the build was canceled.
func (b *Build) Wait() (*Snapshot, error) {
	b.once.Do(b.finish)
	return b.snap, b.err
}

func (b *Build) finish() {
	log := logging.Logger()
	out, err := b.job.Wait()
	if out == nil || out.Canceled {
		log.Warn("engine: build canceled", "build_id", b.ID, "generation", uint64(b.Generation))
		b.err = err
		return
	}

	snap := &Snapshot{
		BuildID:          b.ID,
		Generation:       b.Generation,
		Grid:             b.Grid,
		Maps:             out.Maps,
		Failed:           out.Failed,
		Settings:         b.settings,
		PickAisles:       b.aisles,
		StagingLocations: b.staging,
		CornerCutting:    b.engine.opts.CornerCutting,
		Elapsed:          out.Elapsed,
	}
	b.snap = snap

	e := b.engine
	e.mu.Lock()
	installed := e.counter.IsCurrent(b.Generation)
	if installed {
		e.current = snap
	}
	e.mu.Unlock()

	if !installed {
		b.err = e.counter.Check(b.Generation)
		log.Warn("engine: build superseded", "build_id", b.ID, "generation", uint64(b.Generation),
			"current", uint64(e.counter.Current()))
		return
	}
	b.err = err
	log.Info("engine: build installed", "build_id", b.ID, "generation", uint64(b.Generation),
		"aisles", len(out.Maps), "failed", len(out.Failed), "elapsed", out.Elapsed)
}

// Precompute freezes the layout, rasterizes it and starts the per-aisle
// scheduler. Layout and settings errors are returned before any worker
// starts; progress is reported on Build.Events.
func (e *Engine) Precompute(ctx context.Context) (*Build, error) {
	// 1) Freeze inputs and the generation under one lock.
	e.mu.RLock()
	gen := e.counter.Current()
	settings := e.settings
	l := e.rasterLayout()
	aisles := e.layout.pointsOf(PickAisle)
	staging := e.layout.pointsOf(StagingLocation)
	e.mu.RUnlock()

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if len(aisles) == 0 {
		return nil, ErrNoPickAisles
	}

	// 2) Rasterize.
	rasterOpts := []raster.Option{
		raster.WithCellSize(settings.CellSize),
		raster.WithClearance(settings.Clearance()),
		raster.WithMaxCells(e.opts.MaxCells),
	}
	if e.opts.Workers > 0 {
		rasterOpts = append(rasterOpts, raster.WithWorkers(e.opts.Workers))
	}
	grid, err := raster.Rasterize(l, rasterOpts...)
	if err != nil {
		return nil, err
	}

	// 3) Start the scheduler.
	sources := make([]precompute.Source, len(aisles))
	for i, p := range aisles {
		sources[i] = precompute.Source{Name: p.Name, Point: p.Coord}
	}
	job, err := precompute.Run(ctx, precompute.Request{Grid: grid, Sources: sources, Generation: gen},
		precompute.WithWorkers(e.opts.Workers),
		precompute.WithDijkstraOptions(dijkstra.WithCornerCutting(e.opts.CornerCutting)))
	if err != nil {
		return nil, err
	}

	b := &Build{
		ID:         uuid.New(),
		Generation: gen,
		Grid:       grid,
		engine:     e,
		job:        job,
		settings:   settings,
		aisles:     aisles,
		staging:    staging,
	}
	logging.Logger().Info("engine: build started", "build_id", b.ID, "generation", uint64(gen),
		"rows", grid.Rows, "cols", grid.Cols, "aisles", len(aisles))

	return b, nil
}

// Rebuild runs Precompute to completion.
func (e *Engine) Rebuild(ctx context.Context) (*Snapshot, error) {
	b, err := e.Precompute(ctx)
	if err != nil {
		return nil, err
	}
	return b.Wait()
}
