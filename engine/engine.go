package engine

import (
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/katalvlaran/warepath/geom"
	"github.com/katalvlaran/warepath/internal/logging"
	"github.com/katalvlaran/warepath/invalidate"
	"github.com/katalvlaran/warepath/pathfind"
	"github.com/katalvlaran/warepath/raster"
)

// Options configures an Engine.
type Options struct {
	Workers       int  // precompute pool size; 0 uses GOMAXPROCS
	CornerCutting bool // allow diagonals past blocked corners
	SnapRadius    int  // destination snap tolerance in cells
	MaxCells      int  // rasterizer cell limit
}

// Option represents a functional option for configuring New.
type Option func(*Options)

// WithWorkers sets the precompute pool size.
func WithWorkers(n int) Option { return func(o *Options) { o.Workers = n } }

// WithCornerCutting allows diagonal moves past a blocked corner.
func WithCornerCutting(allow bool) Option { return func(o *Options) { o.CornerCutting = allow } }

// WithSnapRadius sets the destination snap tolerance in cells. It panics
// when called with r < 0.
func WithSnapRadius(r int) Option {
	if r < 0 {
		panic("engine: snap radius must be non-negative")
	}
	return func(o *Options) { o.SnapRadius = r }
}

// WithMaxCells caps the rasterized grid size.
func WithMaxCells(n int) Option { return func(o *Options) { o.MaxCells = n } }

// DefaultOptions returns the engine defaults.
func DefaultOptions() Options {
	return Options{
		SnapRadius: pathfind.DefaultSnapRadius,
		MaxCells:   raster.DefaultMaxCells,
	}
}

// Engine holds one facility layout and its most recent Snapshot. All
// methods are safe for concurrent use.
type Engine struct {
	opts    Options
	counter invalidate.Counter

	mu       sync.RWMutex
	layout   layout
	settings Settings
	current  *Snapshot
}

// New returns an empty Engine with DefaultSettings.
func New(opts ...Option) *Engine {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Engine{opts: cfg, layout: newLayout(), settings: DefaultSettings()}
}

// Generation returns the current layout generation.
func (e *Engine) Generation() invalidate.Stamp { return e.counter.Current() }

// Check reports a *invalidate.StaleGenerationError unless snap is current.
func (e *Engine) Check(snap *Snapshot) error {
	if snap == nil {
		return ErrNoSnapshot
	}
	return e.counter.Check(snap.Generation)
}

// Current returns the installed snapshot, or nil if none is installed or
// the layout changed since it was built.
func (e *Engine) Current() *Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.current == nil || !e.counter.IsCurrent(e.current.Generation) {
		return nil
	}
	return e.current
}

// invalidate advances the generation and drops the installed snapshot.
// Callers hold e.mu.
func (e *Engine) invalidate(reason string) {
	e.counter.Advance(reason)
	if e.current != nil {
		logging.Logger().Debug("engine: snapshot invalidated",
			"build_id", e.current.BuildID, "generation", uint64(e.current.Generation), "reason", reason)
		e.current = nil
	}
}

// Settings returns the active settings.
func (e *Engine) Settings() Settings {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.settings
}

// SetSettings replaces the settings. Equal settings leave the generation
// unchanged.
func (e *Engine) SetSettings(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if s == e.settings {
		return nil
	}
	e.settings = s
	e.invalidate("settings changed")
	return nil
}

// ------------------------------------------------------------------------
// Obstacles
// ------------------------------------------------------------------------

// AddObstacle stores a copy of p and returns its id.
func (e *Engine) AddObstacle(p geom.Polygon) (uuid.UUID, error) {
	if err := p.Validate(); err != nil {
		return uuid.Nil, fmt.Errorf("engine: obstacle: %w", err)
	}
	id := uuid.New()
	e.mu.Lock()
	defer e.mu.Unlock()
	e.layout.obstacles = append(e.layout.obstacles, Obstacle{ID: id, Polygon: p.Clone()})
	e.invalidate("obstacle added")
	return id, nil
}

// UpdateObstacle replaces the polygon of obstacle id.
func (e *Engine) UpdateObstacle(id uuid.UUID, p geom.Polygon) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("engine: obstacle: %w", err)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.layout.findObstacle(id)
	if i < 0 {
		return fmt.Errorf("%w: obstacle %s", ErrNotFound, id)
	}
	if e.layout.obstacles[i].Polygon.Equal(p) {
		return nil
	}
	e.layout.obstacles[i].Polygon = p.Clone()
	e.invalidate("obstacle updated")
	return nil
}

// RemoveObstacle deletes obstacle id.
func (e *Engine) RemoveObstacle(id uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.layout.findObstacle(id)
	if i < 0 {
		return fmt.Errorf("%w: obstacle %s", ErrNotFound, id)
	}
	e.layout.obstacles = append(e.layout.obstacles[:i], e.layout.obstacles[i+1:]...)
	e.invalidate("obstacle removed")
	return nil
}

// ClearObstacles deletes every obstacle.
func (e *Engine) ClearObstacles() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.layout.obstacles) == 0 {
		return
	}
	e.layout.obstacles = nil
	e.invalidate("obstacles cleared")
}

// Obstacles returns copies of every obstacle in insertion order.
func (e *Engine) Obstacles() []Obstacle {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Obstacle, len(e.layout.obstacles))
	for i, o := range e.layout.obstacles {
		out[i] = Obstacle{ID: o.ID, Polygon: o.Polygon.Clone()}
	}
	return out
}

// ------------------------------------------------------------------------
// Staging areas
// ------------------------------------------------------------------------

// AddStagingArea stores a staging polygon. penalty 0 uses the settings
// default; otherwise it must be finite and ≥ 1.
func (e *Engine) AddStagingArea(p geom.Polygon, penalty float64) (uuid.UUID, error) {
	if err := p.Validate(); err != nil {
		return uuid.Nil, fmt.Errorf("engine: staging area: %w", err)
	}
	if penalty != 0 && (!(penalty >= 1) || math.IsInf(penalty, 0)) {
		return uuid.Nil, fmt.Errorf("%w: staging penalty must be finite and >= 1, got %v", ErrInvalidSettings, penalty)
	}
	id := uuid.New()
	e.mu.Lock()
	defer e.mu.Unlock()
	e.layout.staging = append(e.layout.staging, StagingArea{ID: id, Polygon: p.Clone(), Penalty: penalty})
	e.invalidate("staging area added")
	return id, nil
}

// RemoveStagingArea deletes staging area id.
func (e *Engine) RemoveStagingArea(id uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.layout.findStaging(id)
	if i < 0 {
		return fmt.Errorf("%w: staging area %s", ErrNotFound, id)
	}
	e.layout.staging = append(e.layout.staging[:i], e.layout.staging[i+1:]...)
	e.invalidate("staging area removed")
	return nil
}

// ClearStagingAreas deletes every staging area.
func (e *Engine) ClearStagingAreas() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.layout.staging) == 0 {
		return
	}
	e.layout.staging = nil
	e.invalidate("staging areas cleared")
}

// ------------------------------------------------------------------------
// Bounds
// ------------------------------------------------------------------------

// SetBounds crops the computed region to p.
func (e *Engine) SetBounds(p geom.Polygon) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("engine: bounds: %w", err)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.layout.bounds != nil && e.layout.bounds.Equal(p) {
		return nil
	}
	e.layout.bounds = p.Clone()
	e.invalidate("bounds set")
	return nil
}

// ClearBounds reverts to a region derived from the layout.
func (e *Engine) ClearBounds() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.layout.bounds == nil {
		return
	}
	e.layout.bounds = nil
	e.invalidate("bounds cleared")
}

// ------------------------------------------------------------------------
// Points
// ------------------------------------------------------------------------

// AddPoint stores a named point. Names must be non-empty and unique within
// the role.
func (e *Engine) AddPoint(p Point) error {
	if p.Name == "" {
		return fmt.Errorf("%w: point name is empty", ErrInvalidSettings)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	k := pointKey{p.Role, p.Name}
	if _, dup := e.layout.index[k]; dup {
		return fmt.Errorf("%w: %s %q", ErrDuplicatePoint, p.Role, p.Name)
	}
	e.layout.index[k] = len(e.layout.points)
	e.layout.points = append(e.layout.points, p)
	e.invalidate("point added")
	return nil
}

// MovePoint changes the coordinate of a point.
func (e *Engine) MovePoint(role Role, name string, to r2.Vec) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	i, ok := e.layout.index[pointKey{role, name}]
	if !ok {
		return fmt.Errorf("%w: %s %q", ErrNotFound, role, name)
	}
	if e.layout.points[i].Coord == to {
		return nil
	}
	e.layout.points[i].Coord = to
	e.invalidate("point moved")
	return nil
}

// RemovePoint deletes a point.
func (e *Engine) RemovePoint(role Role, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	i, ok := e.layout.index[pointKey{role, name}]
	if !ok {
		return fmt.Errorf("%w: %s %q", ErrNotFound, role, name)
	}
	e.layout.removePoint(i)
	e.invalidate("point removed")
	return nil
}

// ClearPoints deletes every point with the given role.
func (e *Engine) ClearPoints(role Role) {
	e.mu.Lock()
	defer e.mu.Unlock()
	kept := e.layout.points[:0]
	for _, p := range e.layout.points {
		if p.Role != role {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(e.layout.points) {
		return
	}
	e.layout.points = kept
	e.layout.reindex()
	e.invalidate("points cleared")
}

// Points returns the points with role r in insertion order.
func (e *Engine) Points(r Role) []Point {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.layout.pointsOf(r)
}

// Layout returns the rasterizer input for the current layout and settings.
func (e *Engine) Layout() raster.Layout {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.rasterLayout()
}

// rasterLayout deep-copies the store. Callers hold e.mu.
func (e *Engine) rasterLayout() raster.Layout {
	l := raster.Layout{Bounds: e.layout.bounds.Clone()}
	for _, o := range e.layout.obstacles {
		l.Obstacles = append(l.Obstacles, o.Polygon.Clone())
	}
	for _, s := range e.layout.staging {
		pen := s.Penalty
		if pen == 0 {
			pen = e.settings.StagingPenalty
		}
		l.Staging = append(l.Staging, raster.StagingArea{Polygon: s.Polygon.Clone(), Penalty: pen})
	}
	for _, p := range e.layout.points {
		l.Points = append(l.Points, p.Coord)
	}
	return l
}
