package engine

import (
	"fmt"
	"math"

	"github.com/katalvlaran/warepath/raster"
	"github.com/katalvlaran/warepath/units"
)

// DefaultStagingPenalty is the cost multiplier of staging-area cells when
// neither the area nor the settings name one.
const DefaultStagingPenalty = 10.0

// Settings is the scalar configuration of a layout.
type Settings struct {
	CellSize        float64 // world units per cell edge
	StagingPenalty  float64 // multiplier for staging areas without their own
	CartWidth       float64 // world units
	CartLength      float64 // world units
	ClearanceRadius float64 // explicit obstacle buffer; overrides CartWidth/2 when > 0
	ScaleFactor     float64 // real units per world unit
	Unit            string  // unit of ScaleFactor's real units; see package units
}

// DefaultSettings returns unit cells, penalty 10, no clearance, scale 1 in meters.
func DefaultSettings() Settings {
	return Settings{
		CellSize:       1,
		StagingPenalty: DefaultStagingPenalty,
		ScaleFactor:    1,
		Unit:           units.Meters,
	}
}

// Validate reports the first invalid field wrapped in ErrInvalidSettings.
func (s Settings) Validate() error {
	switch {
	case !positive(s.CellSize):
		return fmt.Errorf("%w: cell size must be positive, got %v", ErrInvalidSettings, s.CellSize)
	case !(s.StagingPenalty >= 1) || math.IsInf(s.StagingPenalty, 0):
		return fmt.Errorf("%w: staging penalty must be >= 1, got %v", ErrInvalidSettings, s.StagingPenalty)
	case !nonNegative(s.CartWidth), !nonNegative(s.CartLength), !nonNegative(s.ClearanceRadius):
		return fmt.Errorf("%w: cart dimensions must be non-negative", ErrInvalidSettings)
	case !positive(s.ScaleFactor):
		return fmt.Errorf("%w: scale factor must be positive, got %v", ErrInvalidSettings, s.ScaleFactor)
	case !units.IsValid(s.Unit):
		return fmt.Errorf("%w: unit %q, want one of %s", ErrInvalidSettings, s.Unit, units.GetValidUnitsString())
	}
	return nil
}

// Clearance returns the rasterizer clearance for these settings.
func (s Settings) Clearance() raster.Clearance {
	return raster.Clearance{Width: s.CartWidth, Length: s.CartLength, Radius: s.ClearanceRadius}
}

func positive(v float64) bool    { return v > 0 && !math.IsInf(v, 0) }
func nonNegative(v float64) bool { return v >= 0 && !math.IsInf(v, 0) }
