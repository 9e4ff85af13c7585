package ascent

import (
	"math"
	"sort"
	"sync"
)

// finSizingSafetyFactor margins the root bending check of SizeFin.
const finSizingSafetyFactor = 1.5

// minFinThickness is the manufacturing floor for a sized fin.
const minFinThickness = 1e-3 // m

// SizeFin returns the fin geometry structurally required for the given
// material: the planform is kept and the thickness is set by the root
// bending stress under the max-Q normal load.
func SizeFin(base FinGeometry, mat Material, maxQ, angleOfAttack float64) FinGeometry {
	fin := base
	// Normal load on one fin at max-Q, thin-airfoil slope.
	load := maxQ * fin.PlanformArea() * 2 * math.Sin(angleOfAttack)
	// Cantilever root moment with the pressure center at mid-span.
	moment := math.Abs(load) * fin.Height / 2
	// Rectangular root section: Z = c*t^2/6.
	t := math.Sqrt(6 * moment * finSizingSafetyFactor / (fin.RootChord * mat.YieldStrength))
	if t < minFinThickness {
		t = minFinThickness
	}
	fin.Thickness = t
	return fin
}

// MaterialRunResult is the outcome of one candidate-material run.
type MaterialRunResult struct {
	Material           string
	Fin                FinGeometry
	FinSetMass         float64 // kg
	MaxTemperature     float64 // K
	MaxTemperatureStep int
	MaxServiceTemp     float64 // K
	TempMargin         float64 // K, negative when the limit is exceeded
	WithinLimits       bool
	Series             *TimeSeries
	Stability          StabilityResult
	Err                error
}

// CompareMaterials runs one independent simulation per candidate material
// and ranks the outcomes, materials within their service limit first,
// lightest fin set first. Runs execute concurrently; each owns its registry
// snapshot, thermal state and trace, so nothing is shared between them.
func CompareMaterials(cfg Config, reg *MassRegistry, materials []string) ([]MaterialRunResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(materials) == 0 {
		materials = AvailableMaterials()
	}
	maxQ := cfg.MaxQ
	if maxQ <= 0 {
		// One baseline run fixes the sizing load for all candidates.
		baseline := cfg
		baseline.FastMode = true
		f, err := NewFlight(baseline, reg, ExportConfig{})
		if err != nil {
			return nil, err
		}
		series, err := f.Run()
		if err != nil {
			return nil, err
		}
		maxQ = series.MaxDynamicPressure
	}

	baseMat, _ := LookupMaterial(cfg.Material)
	baseFinSet := cfg.Fin.SetMass(baseMat)
	aoa := cfg.AngleOfAttack * math.Pi / 180

	results := make([]MaterialRunResult, len(materials))
	var wg sync.WaitGroup
	for i, name := range materials {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			results[i] = runMaterial(cfg, reg, name, maxQ, baseFinSet, aoa)
		}(i, name)
	}
	wg.Wait()

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].WithinLimits != results[j].WithinLimits {
			return results[i].WithinLimits
		}
		return results[i].FinSetMass < results[j].FinSetMass
	})
	return results, nil
}

func runMaterial(cfg Config, reg *MassRegistry, name string, maxQ, baseFinSet, aoa float64) MaterialRunResult {
	res := MaterialRunResult{Material: name}
	mat, found := LookupMaterial(name)
	if !found {
		res.Err = ConfigurationError{"Material", "unknown material " + name}
		return res
	}
	run := cfg
	run.Material = name
	run.MaxQ = maxQ
	run.Fin = SizeFin(cfg.Fin, mat, maxQ, aoa)
	res.Fin = run.Fin
	res.FinSetMass = run.Fin.SetMass(mat)
	// The dry mass follows the fin set it carries.
	run.DryMass = cfg.DryMass - baseFinSet + res.FinSetMass

	f, err := NewFlight(run, reg, ExportConfig{})
	if err != nil {
		res.Err = err
		return res
	}
	series, err := f.Run()
	res.Series = series
	res.Err = err
	res.MaxTemperature, res.MaxTemperatureStep = f.Thermal.MaxTemperature()
	res.MaxServiceTemp = mat.MaxServiceTemp
	res.TempMargin = mat.MaxServiceTemp - res.MaxTemperature
	res.WithinLimits = err == nil && !series.ThermalViolation
	if len(series.Stability) > 0 {
		// Post-burnout snapshot when the run got there, else launch.
		res.Stability = series.Stability[len(series.Stability)-1].Result
		for _, ps := range series.Stability {
			if ps.Phase == CoastingAscent {
				res.Stability = ps.Result
				break
			}
		}
	}
	return res
}
