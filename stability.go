package ascent

import "fmt"

// StabilityClass buckets a caliber margin against the configured
// thresholds.
type StabilityClass uint8

const (
	// Unstable: CP at or ahead of CG, the rocket will not weathercock.
	Unstable StabilityClass = iota + 1
	// Marginal: positive margin below the configured minimum.
	Marginal
	// Stable: margin within the configured band.
	Stable
	// Overstable: margin above the configured maximum, excessive
	// weathercocking into wind.
	Overstable
)

func (c StabilityClass) String() string {
	switch c {
	case Unstable:
		return "UNSTABLE"
	case Marginal:
		return "MARGINAL"
	case Stable:
		return "STABLE"
	case Overstable:
		return "OVERSTABLE"
	}
	panic("cannot stringify unknown stability class")
}

// StabilityThresholds are the caliber bounds of the acceptable band.
type StabilityThresholds struct {
	MinCaliber float64
	MaxCaliber float64
}

// StabilityResult reports the static margin at one flight condition.
type StabilityResult struct {
	CenterOfGravity  float64 // m from nose tip
	CenterOfPressure float64 // m from nose tip
	MarginMeters     float64
	Calibers         float64
	Class            StabilityClass
}

func (r StabilityResult) String() string {
	return fmt.Sprintf("CG=%.3f m CP=%.3f m margin=%.2f cal (%s)", r.CenterOfGravity, r.CenterOfPressure, r.Calibers, r.Class)
}

// EvalStability computes the static margin from a mass aggregate and the
// aerodynamic model. The aggregate must reflect the propellant state of the
// flight condition being asked about; the function itself holds no state,
// so it serves what-if queries as well as in-flight snapshots.
func EvalStability(agg Aggregate, aero Aerodynamics, th StabilityThresholds) StabilityResult {
	return stabilityFrom(agg.CenterOfGravity, aero.CenterOfPressure(), aero.Geom.Diameter, th)
}

func stabilityFrom(cg, cp, diameter float64, th StabilityThresholds) StabilityResult {
	margin := cp - cg
	calibers := margin / diameter
	r := StabilityResult{
		CenterOfGravity:  cg,
		CenterOfPressure: cp,
		MarginMeters:     margin,
		Calibers:         calibers,
	}
	switch {
	// A zero margin cannot restore the rocket, so it is not merely
	// marginal.
	case calibers <= 0:
		r.Class = Unstable
	case calibers < th.MinCaliber:
		r.Class = Marginal
	case calibers > th.MaxCaliber:
		r.Class = Overstable
	default:
		r.Class = Stable
	}
	return r
}
