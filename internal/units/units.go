package units

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/unit"
)

// Unit names a measurement unit, e.g. "rad" or "dega".
type Unit string

const (
	Radian    Unit = "rad"
	Degree    Unit = "dega" // degree of angle
	DegreeAlt Unit = "deg"
	Gradian   Unit = "grad"
	Turn      Unit = "rev"
	ArcMinute Unit = "arcmin"
	ArcSecond Unit = "arcsec"

	MetrePerSecond2 Unit = "m/s2"
	StandardGravity Unit = "g0"
	FootPerSecond2  Unit = "ft/s2"
)

// factor scales a unit to SI. quantity builds the gonum quantity of the
// unit's dimension from an SI value, which is what conversions check
// dimensions against.
type factor struct {
	quantity func(si float64) unit.Uniter
	toSI     float64 // multiply by this to get the SI value
	label    string
}

func angle(si float64) unit.Uniter        { return unit.Angle(si) }
func acceleration(si float64) unit.Uniter { return unit.Acceleration(si) }

var siTable = map[Unit]factor{
	Radian:    {angle, 1, "radian"},
	Degree:    {angle, math.Pi / 180, "degree"},
	DegreeAlt: {angle, math.Pi / 180, "degree"},
	Gradian:   {angle, math.Pi / 200, "gradian"},
	Turn:      {angle, 2 * math.Pi, "revolution"},
	ArcMinute: {angle, math.Pi / 10800, "arc minute"},
	ArcSecond: {angle, math.Pi / 648000, "arc second"},

	MetrePerSecond2: {acceleration, 1, "metre per second squared"},
	StandardGravity: {acceleration, 9.80665, "standard gravity"},
	FootPerSecond2:  {acceleration, 0.3048, "foot per second squared"},
}

// Converter converts a value between two units of the same dimension.
type Converter interface {
	Convert(value float64, from, to Unit) (float64, error)
}

// SI is the table-driven converter. Every unit is scaled through its SI
// representation, so any pair of units of the same dimension converts.
var SI Converter = siConverter{}

// Identity returns every value unchanged, regardless of the units given.
// Useful for callers that work in radians only.
var Identity Converter = identityConverter{}

type siConverter struct{}

func (siConverter) Convert(value float64, from, to Unit) (float64, error) {
	f, ok := siTable[from]
	if !ok {
		return 0, fmt.Errorf("unknown unit %q", from)
	}
	t, ok := siTable[to]
	if !ok {
		return 0, fmt.Errorf("unknown unit %q", to)
	}
	si := f.quantity(value * f.toSI)
	target := t.quantity(0)
	if !unit.DimensionsMatch(si, target) {
		return 0, fmt.Errorf("cannot convert %s (%v) to %s (%v)",
			f.label, si.Unit().Dimensions(), t.label, target.Unit().Dimensions())
	}
	if from == to {
		return value, nil
	}
	return si.Unit().Value() / t.toSI, nil
}

type identityConverter struct{}

func (identityConverter) Convert(value float64, _, _ Unit) (float64, error) {
	return value, nil
}

// FromSI converts a value expressed in the SI unit of the target's dimension
// into the target unit, e.g. FromSI(math.Pi, Degree) == 180.
func FromSI(value float64, to Unit) (float64, error) {
	t, ok := siTable[to]
	if !ok {
		return 0, fmt.Errorf("unknown unit %q", to)
	}
	return value / t.toSI, nil
}
