package engine

import (
	"context"
	"errors"

	"github.com/katalvlaran/warepath/geom"
	"github.com/katalvlaran/warepath/invalidate"
	"github.com/katalvlaran/warepath/pathfind"
	"github.com/katalvlaran/warepath/precompute"
	"github.com/katalvlaran/warepath/raster"
)

// Sentinel errors.
var (
	// ErrNotFound indicates an unknown obstacle, staging area or point.
	ErrNotFound = errors.New("engine: not found")
	// ErrDuplicatePoint indicates a point name already used within its role.
	ErrDuplicatePoint = errors.New("engine: duplicate point name")
	// ErrInvalidSettings indicates a Settings value that fails Validate.
	ErrInvalidSettings = errors.New("engine: invalid settings")
	// ErrNoPickAisles indicates Precompute was called without any pick aisle.
	ErrNoPickAisles = errors.New("engine: layout has no pick aisles")
	// ErrNoSnapshot indicates a query with a nil snapshot.
	ErrNoSnapshot = errors.New("engine: no snapshot")
)

// ErrorKind is a stable classification of engine errors.
type ErrorKind string

// Error kinds.
const (
	KindNone              ErrorKind = ""
	KindInvalidLayout     ErrorKind = "invalid_layout"
	KindInvalidSettings   ErrorKind = "invalid_settings"
	KindUnreachableSource ErrorKind = "unreachable_source"
	KindAllSourcesFailed  ErrorKind = "all_sources_failed"
	KindPointOutsideGrid  ErrorKind = "point_outside_grid"
	KindNoPath            ErrorKind = "no_path"
	KindStaleGeneration   ErrorKind = "stale_generation"
	KindNotFound          ErrorKind = "not_found"
	KindCanceled          ErrorKind = "canceled"
	KindUnknown           ErrorKind = "unknown"
)

// KindOf classifies err.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, invalidate.ErrStaleGeneration):
		return KindStaleGeneration
	case errors.Is(err, raster.ErrInvalidLayout), errors.Is(err, geom.ErrDegeneratePolygon),
		errors.Is(err, ErrNoPickAisles), errors.Is(err, ErrDuplicatePoint):
		return KindInvalidLayout
	case errors.Is(err, ErrInvalidSettings):
		return KindInvalidSettings
	case errors.Is(err, precompute.ErrUnreachableSource):
		return KindUnreachableSource
	case errors.Is(err, precompute.ErrAllSourcesFailed):
		return KindAllSourcesFailed
	case errors.Is(err, pathfind.ErrPointOutsideGrid):
		return KindPointOutsideGrid
	case errors.Is(err, pathfind.ErrNoPath):
		return KindNoPath
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNoSnapshot):
		return KindNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return KindUnknown
	}
}

// ErrorEvent is a structured error keyed by kind and the offending
// identifier (source or point name).
type ErrorEvent struct {
	Kind ErrorKind
	ID   string
	Err  error
}

// NewErrorEvent classifies err for id.
func NewErrorEvent(id string, err error) ErrorEvent {
	return ErrorEvent{Kind: KindOf(err), ID: id, Err: err}
}
