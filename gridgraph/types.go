package gridgraph

import "math"

// Cost constants for grid cells.
const (
	// CostFree is the baseline traversal cost of an unobstructed cell.
	CostFree = 1.0
)

// CostBlocked is the cost of an impassable cell.
var CostBlocked = math.Inf(1)

// MaxCells bounds Rows×Cols so every cell index fits in an int32.
const MaxCells = math.MaxInt32

// Cell addresses a grid cell by row and column.
type Cell struct {
	Row, Col int
}

// Direction identifies one of the eight neighbors of a cell.
type Direction int

// Directions in fixed compass order. Rows grow southward, columns eastward.
const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
	numDirections
)

// Directions lists all eight directions in expansion order.
var Directions = [numDirections]Direction{North, NorthEast, East, SouthEast, South, SouthWest, West, NorthWest}

// neighborOffsets holds {dRow, dCol} for each Direction.
var neighborOffsets = [numDirections][2]int{
	{-1, 0}, {-1, 1}, {0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1},
}

// Offset returns the {dRow, dCol} step for d.
func (d Direction) Offset() (dRow, dCol int) {
	o := neighborOffsets[d]
	return o[0], o[1]
}

// Diagonal reports whether d moves along both axes.
func (d Direction) Diagonal() bool {
	return d%2 == 1
}

// StepLength returns the geometric length of a step in d, in cells.
func (d Direction) StepLength() float64 {
	if d.Diagonal() {
		return math.Sqrt2
	}
	return 1
}

// String returns the compass abbreviation of d.
func (d Direction) String() string {
	switch d {
	case North:
		return "N"
	case NorthEast:
		return "NE"
	case East:
		return "E"
	case SouthEast:
		return "SE"
	case South:
		return "S"
	case SouthWest:
		return "SW"
	case West:
		return "W"
	case NorthWest:
		return "NW"
	}
	return "?"
}
