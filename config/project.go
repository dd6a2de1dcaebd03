// Package config loads warehouse project files. The JSON schema carries
// the scalar engine settings, the layout polygons and the named points;
// Apply loads them into an engine.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/katalvlaran/warepath/engine"
	"github.com/katalvlaran/warepath/geom"
	"github.com/katalvlaran/warepath/units"
)

// MaxFileSize is the largest project file LoadProject accepts.
const MaxFileSize = 4 * 1024 * 1024 // 4MB

// Vertex is an [x, y] pair.
type Vertex [2]float64

// StagingArea is a penalized polygon. A nil Penalty uses staging_penalty.
type StagingArea struct {
	Vertices []Vertex `json:"vertices"`
	Penalty  *float64 `json:"penalty,omitempty"`
}

// NamedPoint is a pick aisle or staging location.
type NamedPoint struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Project is the on-disk form of a layout. Scalar fields are pointers so
// omitted values fall back to engine defaults through the Get* accessors.
type Project struct {
	CellSize        *float64 `json:"cell_size,omitempty"`
	StagingPenalty  *float64 `json:"staging_penalty,omitempty"`
	CartWidth       *float64 `json:"cart_width,omitempty"`
	CartLength      *float64 `json:"cart_length,omitempty"`
	ClearanceRadius *float64 `json:"clearance_radius,omitempty"`
	ScaleFactor     *float64 `json:"scale_factor,omitempty"`
	Unit            *string  `json:"unit,omitempty"`

	Bounds           []Vertex      `json:"bounds,omitempty"`
	Obstacles        [][]Vertex    `json:"obstacles,omitempty"`
	StagingAreas     []StagingArea `json:"staging_areas,omitempty"`
	PickAisles       []NamedPoint  `json:"pick_aisles,omitempty"`
	StagingLocations []NamedPoint  `json:"staging_locations,omitempty"`
}

// LoadProject loads a Project from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
func LoadProject(path string) (*Project, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("project file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat project file: %w", err)
	}
	if fileInfo.Size() > MaxFileSize {
		return nil, fmt.Errorf("project file too large: %d bytes (max %d)", fileInfo.Size(), MaxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}
	return ParseProject(data)
}

// ParseProject decodes and validates a JSON project.
func ParseProject(data []byte) (*Project, error) {
	p := &Project{}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse project JSON: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid project: %w", err)
	}
	return p, nil
}

// Validate checks the values that can be checked without building a grid.
func (p *Project) Validate() error {
	if err := p.Settings().Validate(); err != nil {
		return err
	}
	for i, a := range p.StagingAreas {
		if a.Penalty != nil && (!(*a.Penalty >= 1) || math.IsInf(*a.Penalty, 0)) {
			return fmt.Errorf("staging_areas[%d]: penalty must be >= 1, got %v", i, *a.Penalty)
		}
	}
	seen := make(map[string]bool)
	for i, pt := range p.PickAisles {
		if err := checkPoint(pt, seen); err != nil {
			return fmt.Errorf("pick_aisles[%d]: %w", i, err)
		}
	}
	clear(seen)
	for i, pt := range p.StagingLocations {
		if err := checkPoint(pt, seen); err != nil {
			return fmt.Errorf("staging_locations[%d]: %w", i, err)
		}
	}
	return nil
}

func checkPoint(pt NamedPoint, seen map[string]bool) error {
	switch {
	case pt.Name == "":
		return fmt.Errorf("name is empty")
	case seen[pt.Name]:
		return fmt.Errorf("duplicate name %q", pt.Name)
	case math.IsNaN(pt.X) || math.IsNaN(pt.Y) || math.IsInf(pt.X, 0) || math.IsInf(pt.Y, 0):
		return fmt.Errorf("%q has a non-finite coordinate", pt.Name)
	}
	seen[pt.Name] = true
	return nil
}

// GetCellSize returns cell_size or the default.
func (p *Project) GetCellSize() float64 {
	if p.CellSize == nil {
		return engine.DefaultSettings().CellSize
	}
	return *p.CellSize
}

// GetStagingPenalty returns staging_penalty or the default.
func (p *Project) GetStagingPenalty() float64 {
	if p.StagingPenalty == nil {
		return engine.DefaultStagingPenalty
	}
	return *p.StagingPenalty
}

// GetScaleFactor returns scale_factor or the default.
func (p *Project) GetScaleFactor() float64 {
	if p.ScaleFactor == nil {
		return engine.DefaultSettings().ScaleFactor
	}
	return *p.ScaleFactor
}

// GetUnit returns unit or meters.
func (p *Project) GetUnit() string {
	if p.Unit == nil || *p.Unit == "" {
		return units.Meters
	}
	return *p.Unit
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// Settings returns the engine settings described by p.
func (p *Project) Settings() engine.Settings {
	return engine.Settings{
		CellSize:        p.GetCellSize(),
		StagingPenalty:  p.GetStagingPenalty(),
		CartWidth:       valueOr(p.CartWidth, 0),
		CartLength:      valueOr(p.CartLength, 0),
		ClearanceRadius: valueOr(p.ClearanceRadius, 0),
		ScaleFactor:     p.GetScaleFactor(),
		Unit:            p.GetUnit(),
	}
}

// Apply loads p into e: settings, bounds, obstacles, staging areas, then
// points.
func (p *Project) Apply(e *engine.Engine) error {
	if err := e.SetSettings(p.Settings()); err != nil {
		return err
	}
	if len(p.Bounds) > 0 {
		if err := e.SetBounds(polygon(p.Bounds)); err != nil {
			return err
		}
	}
	for i, o := range p.Obstacles {
		if _, err := e.AddObstacle(polygon(o)); err != nil {
			return fmt.Errorf("obstacles[%d]: %w", i, err)
		}
	}
	for i, a := range p.StagingAreas {
		if _, err := e.AddStagingArea(polygon(a.Vertices), valueOr(a.Penalty, 0)); err != nil {
			return fmt.Errorf("staging_areas[%d]: %w", i, err)
		}
	}
	for _, pt := range p.PickAisles {
		if err := e.AddPoint(engine.Point{Name: pt.Name, Role: engine.PickAisle, Coord: r2.Vec{X: pt.X, Y: pt.Y}}); err != nil {
			return err
		}
	}
	for _, pt := range p.StagingLocations {
		if err := e.AddPoint(engine.Point{Name: pt.Name, Role: engine.StagingLocation, Coord: r2.Vec{X: pt.X, Y: pt.Y}}); err != nil {
			return err
		}
	}
	return nil
}

func polygon(vs []Vertex) geom.Polygon {
	out := make(geom.Polygon, len(vs))
	for i, v := range vs {
		out[i] = r2.Vec{X: v[0], Y: v[1]}
	}
	return out
}
