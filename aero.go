package ascent

import "math"

// Nose cone shapes understood by the center-of-pressure calculation.
const (
	NoseConical    = "conical"
	NoseOgive      = "ogive"
	NoseElliptical = "elliptical"
)

// RocketGeometry describes the airframe.
type RocketGeometry struct {
	Length         float64 // m
	Diameter       float64 // m
	NoseConeLength float64 // m
	NoseConeShape  string
}

// Radius returns the body radius.
func (g RocketGeometry) Radius() float64 { return g.Diameter / 2 }

// ReferenceArea returns the frontal reference area used for drag.
func (g RocketGeometry) ReferenceArea() float64 {
	r := g.Radius()
	return math.Pi * r * r
}

// FinGeometry describes one fin of the delta fin set. It is fixed for the
// duration of a run; material comparison re-sizes it per candidate.
type FinGeometry struct {
	Height    float64 // m, span from root to tip
	RootChord float64 // m, width at the fuselage
	Sweep     float64 // m, leading-edge sweep distance
	Thickness float64 // m
	Count     int
}

// PlanformArea returns the area of a single delta fin.
func (f FinGeometry) PlanformArea() float64 {
	return 0.5 * f.RootChord * f.Height
}

// Mass returns the mass of a single fin in the given material.
func (f FinGeometry) Mass(mat Material) float64 {
	return f.PlanformArea() * f.Thickness * mat.Density
}

// SetMass returns the mass of the whole fin set.
func (f FinGeometry) SetMass(mat Material) float64 {
	return f.Mass(mat) * float64(f.Count)
}

// Aerodynamics computes drag and normal-force properties from the airframe
// and fin geometry at a fixed angle of attack. It holds no flight state.
type Aerodynamics struct {
	Geom          RocketGeometry
	Fin           FinGeometry
	BaseCd        float64 // zero-lift drag coefficient at low subsonic Mach
	AngleOfAttack float64 // rad
}

// Mach-regime boundaries for the drag-rise model. The curve is continuous
// across both: a linear rise through the transonic band and an
// inverse-square relaxation above it, so the integrator never samples a
// jump in Cd.
const (
	dragRiseStart = 0.8
	dragRiseEnd   = 1.2
	dragRisePeak  = 1.8 // multiplier on BaseCd at dragRiseEnd
	dragFloor     = 0.9 // high-Mach multiplier asymptote
)

// DragCoefficient returns the drag coefficient at the given Mach number,
// referenced to the body frontal area.
func (a Aerodynamics) DragCoefficient(mach float64) float64 {
	if mach < 0 {
		mach = -mach
	}
	var factor float64
	switch {
	case mach <= dragRiseStart:
		factor = 1
	case mach <= dragRiseEnd:
		factor = 1 + (dragRisePeak-1)*(mach-dragRiseStart)/(dragRiseEnd-dragRiseStart)
	default:
		ratio := dragRiseEnd / mach
		factor = dragFloor + (dragRisePeak-dragFloor)*ratio*ratio
	}
	return a.BaseCd * factor
}

// CenterOfPressure returns the axial CP position from the nose tip, from a
// Barrowman-style algebraic sum of the nose, body-at-incidence, fin and
// boat-tail normal-force contributions.
func (a Aerodynamics) CenterOfPressure() float64 {
	g := a.Geom
	// Nose cone. All supported shapes carry Cn = 2 per caliber of body
	// diameter; the arm differs only marginally between them.
	cnNose := 2.0
	cpNose := g.NoseConeLength * 0.466

	// Cylindrical body lift at incidence.
	bodyLength := g.Length - g.NoseConeLength
	var cnBody float64
	if a.AngleOfAttack > 0 {
		cnBody = 1.1 * a.AngleOfAttack * bodyLength / g.Diameter
	}
	cpBody := g.NoseConeLength + 0.6*bodyLength

	// Fin set, with body interference.
	const (
		interference  = 1.5
		finMultiplier = 2.0
	)
	finSetArea := a.Fin.PlanformArea() * float64(a.Fin.Count)
	cnFin := interference * finMultiplier * 4 * finSetArea / g.ReferenceArea()
	finPosition := g.Length - a.Fin.RootChord
	cpFin := finPosition + 0.7*a.Fin.RootChord

	// Boat tail destabilizes slightly, moving the net CP aft.
	boatTailLength := 0.05 * g.Length
	cnBoatTail := -0.3
	cpBoatTail := g.Length - boatTailLength/2

	cnTotal := cnNose + cnBody + cnFin + cnBoatTail
	if cnTotal <= 0 {
		return 0.7 * g.Length
	}
	moment := cnNose*cpNose + cnBody*cpBody + cnFin*cpFin + cnBoatTail*cpBoatTail
	return moment / cnTotal
}

// NormalForceSlope returns the total normal-force coefficient derivative
// with angle of attack, per radian.
func (a Aerodynamics) NormalForceSlope() float64 {
	finSetArea := a.Fin.PlanformArea() * float64(a.Fin.Count)
	cnFin := 1.5 * 2.0 * 4 * finSetArea / a.Geom.ReferenceArea()
	return 2.0 + cnFin
}
