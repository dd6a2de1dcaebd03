package engine

import (
	"fmt"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/katalvlaran/warepath/geom"
)

// Role distinguishes source points from destination points.
type Role int

const (
	// PickAisle points are precompute sources.
	PickAisle Role = iota
	// StagingLocation points are query destinations.
	StagingLocation
)

func (r Role) String() string {
	switch r {
	case PickAisle:
		return "pick-aisle"
	case StagingLocation:
		return "staging-location"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// Point is a named location. Names are unique within a role.
type Point struct {
	Name  string
	Role  Role
	Coord r2.Vec
}

// Obstacle is an impassable polygon with a stable id.
type Obstacle struct {
	ID      uuid.UUID
	Polygon geom.Polygon
}

// StagingArea is a penalized polygon with a stable id. A zero Penalty uses
// Settings.StagingPenalty.
type StagingArea struct {
	ID      uuid.UUID
	Polygon geom.Polygon
	Penalty float64
}

type pointKey struct {
	role Role
	name string
}

// layout is the mutable store behind Engine. All access holds Engine.mu.
type layout struct {
	obstacles []Obstacle
	staging   []StagingArea
	bounds    geom.Polygon
	points    []Point
	index     map[pointKey]int
}

func newLayout() layout {
	return layout{index: make(map[pointKey]int)}
}

func (l *layout) findObstacle(id uuid.UUID) int {
	for i, o := range l.obstacles {
		if o.ID == id {
			return i
		}
	}
	return -1
}

func (l *layout) findStaging(id uuid.UUID) int {
	for i, s := range l.staging {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (l *layout) removePoint(i int) {
	l.points = append(l.points[:i], l.points[i+1:]...)
	l.reindex()
}

func (l *layout) reindex() {
	clear(l.index)
	for i, p := range l.points {
		l.index[pointKey{p.Role, p.Name}] = i
	}
}

// pointsOf returns copies of the points with role r, in insertion order.
func (l *layout) pointsOf(r Role) []Point {
	var out []Point
	for _, p := range l.points {
		if p.Role == r {
			out = append(out, p)
		}
	}
	return out
}
