package dijkstra

import (
	"errors"
	"math"
)

// Sentinel errors returned by Dijkstra.
var (
	// ErrNilGraph indicates that a nil *gridgraph.CostGrid was passed to Dijkstra.
	ErrNilGraph = errors.New("dijkstra: grid is nil")

	// ErrNoSource indicates that no Source option was given.
	ErrNoSource = errors.New("dijkstra: source cell not set")

	// ErrSourceOutOfBounds indicates a source index outside the grid.
	ErrSourceOutOfBounds = errors.New("dijkstra: source cell outside grid")

	// ErrSourceBlocked indicates that the source cell has infinite cost.
	ErrSourceBlocked = errors.New("dijkstra: source cell is impassable")

	// ErrBadMaxDistance indicates that MaxDistance was set to a negative or NaN value.
	ErrBadMaxDistance = errors.New("dijkstra: MaxDistance must be non-negative")
)

// NoPredecessor marks the source cell and every unreached cell in Maps.Prev.
const NoPredecessor int32 = -1

// noSource is the unset value of Options.Source.
const noSource = -1

// Options configures one Dijkstra run.
//
// Source        – row-major index of the start cell (required).
// MaxDistance   – cells whose distance would exceed this value stay unreached.
//
//	Must be ≥ 0. Default is +Inf (no cap).
//
// CornerCutting – allow a diagonal step even when one of its two flanking
//
//	orthogonal cells is impassable. Default false.
type Options struct {
	Source        int
	MaxDistance   float64
	CornerCutting bool
}

// Option represents a functional option for configuring Dijkstra.
type Option func(*Options)

// Source sets the start cell by row-major index.
func Source(idx int) Option {
	return func(o *Options) {
		o.Source = idx
	}
}

// WithMaxDistance caps exploration at max.
// It panics with ErrBadMaxDistance when called with a negative or NaN max,
// before any option is applied.
func WithMaxDistance(max float64) Option {
	if !(max >= 0) {
		panic(ErrBadMaxDistance.Error())
	}
	return func(o *Options) { o.MaxDistance = max }
}

// WithCornerCutting enables or disables diagonal moves past a blocked corner.
func WithCornerCutting(allow bool) Option {
	return func(o *Options) {
		o.CornerCutting = allow
	}
}

// DefaultOptions returns the defaults: no source, no distance cap, corner
// cutting disallowed.
func DefaultOptions() Options {
	return Options{
		Source:        noSource,
		MaxDistance:   math.Inf(1),
		CornerCutting: false,
	}
}

// Maps holds the single-source result over a grid: the cumulative cost to
// every cell and the predecessor chosen for it, both row-major with the
// grid's dimensions. Unreached cells have Dist = +Inf and Prev =
// NoPredecessor. Maps is never mutated after Dijkstra returns.
type Maps struct {
	Rows, Cols int
	Source     int
	Dist       []float64
	Prev       []int32
}

// Len returns Rows×Cols.
func (m *Maps) Len() int { return m.Rows * m.Cols }

// Reachable reports whether idx was reached from the source.
func (m *Maps) Reachable(idx int) bool {
	return idx >= 0 && idx < len(m.Dist) && !math.IsInf(m.Dist[idx], 1)
}

// DistanceAt returns the distance at idx, or +Inf when idx is out of range.
func (m *Maps) DistanceAt(idx int) float64 {
	if idx < 0 || idx >= len(m.Dist) {
		return math.Inf(1)
	}
	return m.Dist[idx]
}

// Predecessor returns the predecessor index of idx, or -1.
func (m *Maps) Predecessor(idx int) int {
	if idx < 0 || idx >= len(m.Prev) {
		return int(NoPredecessor)
	}
	return int(m.Prev[idx])
}

// ReachedCount returns the number of reached cells, source included.
func (m *Maps) ReachedCount() int {
	n := 0
	for _, d := range m.Dist {
		if !math.IsInf(d, 1) {
			n++
		}
	}
	return n
}
