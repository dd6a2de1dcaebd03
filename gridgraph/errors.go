package gridgraph

import "errors"

var (
	// ErrBadCellSize indicates a cell size that is not a positive finite number.
	ErrBadCellSize = errors.New("gridgraph: cell size must be positive and finite")
	// ErrEmptyRegion indicates a grid region with zero or negative extent.
	ErrEmptyRegion = errors.New("gridgraph: region must have positive width and height")
	// ErrTooManyCells indicates Rows×Cols would overflow predecessor indices.
	ErrTooManyCells = errors.New("gridgraph: grid has too many cells")
	// ErrDimensionMismatch indicates a cost slice that does not match Rows×Cols.
	ErrDimensionMismatch = errors.New("gridgraph: cost slice length does not match grid dimensions")
	// ErrBadCost indicates a cell cost that is NaN, -Inf, or below CostFree.
	ErrBadCost = errors.New("gridgraph: cell cost must be >= 1 or +Inf")
)
