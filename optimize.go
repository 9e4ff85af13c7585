package ascent

import (
	"math"
	"sort"

	"github.com/gonum/matrix/mat64"
)

// OptimizationSample is one probe of the fuel-load sweep.
type OptimizationSample struct {
	FuelMass float64 // kg
	Apogee   float64 // m
}

// OptimizationResult is a trajectory-optimization suggestion toward a
// target apogee.
type OptimizationResult struct {
	TargetAltitude    float64 // m
	SuggestedFuelMass float64 // kg
	PredictedApogee   float64 // m
	Achievable        bool
	Samples           []OptimizationSample
}

// OptimizeFuelLoad sweeps propellant loads, fits apogee against load with a
// least-squares quadratic and suggests the load that reaches the target
// altitude. When no load in the swept bracket reaches the target, the
// closest sample is suggested and Achievable is false. Sweep runs use fast
// mode; apogee precision at the coarser step is well inside the fit error.
func OptimizeFuelLoad(cfg Config, reg *MassRegistry, target float64, loads []float64) (*OptimizationResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if target <= 0 || target > AtmosphereTop {
		return nil, ConfigurationError{"target", "target altitude must be within the atmosphere domain"}
	}
	if len(loads) < 3 {
		loads = defaultSweep(cfg.FuelMass)
	}
	sort.Float64s(loads)

	res := &OptimizationResult{TargetAltitude: target}
	for _, load := range loads {
		run := cfg
		run.FuelMass = load
		run.FastMode = true
		f, err := NewFlight(run, reg, ExportConfig{})
		if err != nil {
			return nil, err
		}
		series, err := f.Run()
		if err != nil {
			return nil, err
		}
		st, ok := series.Apogee()
		if !ok {
			continue
		}
		res.Samples = append(res.Samples, OptimizationSample{FuelMass: load, Apogee: st.Altitude})
	}
	if len(res.Samples) < 3 {
		return nil, ConfigurationError{"loads", "not enough completed sweep runs to fit"}
	}

	c0, c1, c2 := fitQuadratic(res.Samples)
	lo, hi := res.Samples[0].FuelMass, res.Samples[len(res.Samples)-1].FuelMass
	if load, ok := solveForTarget(c0, c1, c2, target, lo, hi); ok {
		res.SuggestedFuelMass = load
		res.PredictedApogee = c0 + c1*load + c2*load*load
		res.Achievable = true
		return res, nil
	}
	// Fall back to the closest sample.
	best := res.Samples[0]
	for _, s := range res.Samples[1:] {
		if math.Abs(s.Apogee-target) < math.Abs(best.Apogee-target) {
			best = s
		}
	}
	res.SuggestedFuelMass = best.FuelMass
	res.PredictedApogee = best.Apogee
	return res, nil
}

func defaultSweep(fuel float64) []float64 {
	fractions := []float64{0.5, 0.75, 1, 1.25, 1.5}
	loads := make([]float64, len(fractions))
	for i, frac := range fractions {
		loads[i] = fuel * frac
	}
	return loads
}

// fitQuadratic returns the least-squares coefficients of
// apogee = c0 + c1*m + c2*m^2 over the samples.
func fitQuadratic(samples []OptimizationSample) (c0, c1, c2 float64) {
	n := len(samples)
	A := mat64.NewDense(n, 3, nil)
	b := mat64.NewVector(n, nil)
	for i, s := range samples {
		A.Set(i, 0, 1)
		A.Set(i, 1, s.FuelMass)
		A.Set(i, 2, s.FuelMass*s.FuelMass)
		b.SetVec(i, s.Apogee)
	}
	var coef mat64.Dense
	if err := coef.Solve(A, b); err != nil {
		// Degenerate sweep (e.g. collinear loads): flat fit through the
		// mean keeps the caller on the fallback path.
		var mean float64
		for _, s := range samples {
			mean += s.Apogee
		}
		return mean / float64(n), 0, 0
	}
	return coef.At(0, 0), coef.At(1, 0), coef.At(2, 0)
}

// solveForTarget returns the smallest root of c2*m^2 + c1*m + c0 = target
// within [lo, hi].
func solveForTarget(c0, c1, c2, target, lo, hi float64) (float64, bool) {
	const tiny = 1e-12
	within := func(m float64) bool { return m >= lo && m <= hi }
	if math.Abs(c2) < tiny {
		if math.Abs(c1) < tiny {
			return 0, false
		}
		m := (target - c0) / c1
		return m, within(m)
	}
	disc := c1*c1 - 4*c2*(c0-target)
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	r1 := (-c1 - sq) / (2 * c2)
	r2 := (-c1 + sq) / (2 * c2)
	if r2 < r1 {
		r1, r2 = r2, r1
	}
	if within(r1) {
		return r1, true
	}
	if within(r2) {
		return r2, true
	}
	return 0, false
}
