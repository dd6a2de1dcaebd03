// Package units provides shared constants and conversion for distance units
package units

import "strings"

// Unit constants
const (
	Meters = "meters"
	Feet   = "feet"
)

// FeetPerMeter is the international foot conversion factor.
const FeetPerMeter = 3.28084

// ValidUnits contains all valid unit values
var ValidUnits = []string{Meters, Feet}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return strings.Join(ValidUnits, ", ")
}

// Convert converts a distance between units. Unknown units pass the value
// through unchanged.
func Convert(value float64, from, to string) float64 {
	if from == to {
		return value
	}
	switch {
	case from == Meters && to == Feet:
		return value * FeetPerMeter
	case from == Feet && to == Meters:
		return value / FeetPerMeter
	default:
		return value
	}
}

// Abbrev returns the short label used next to displayed distances.
func Abbrev(unit string) string {
	switch unit {
	case Meters:
		return "m"
	case Feet:
		return "ft"
	default:
		return unit
	}
}
