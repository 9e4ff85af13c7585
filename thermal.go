package ascent

import "math"

// Air transport properties for the convective correlation.
const (
	airPrandtl      = 0.71
	airSpecificHeat = 1005 // J/(kg.K)
)

// Lumped-model stability bounds. A single explicit sub-step may change the
// fin temperature by at most maxTempStepFraction of the gap to the driving
// temperature; heat-flux spikes near max-Q are absorbed by sub-stepping
// rather than clamping, so no energy is discarded.
const (
	maxTempStepFraction = 0.1
	maxSubSteps         = 256
	maxPhysicalTemp     = 6000 // K, divergence bound
)

// FinThermal integrates the lumped fin temperature through the flight. The
// whole fin is one thermal mass; convective heating from a flat-plate
// turbulent correlation feeds it, gray-body radiation bleeds it.
type FinThermal struct {
	Fin      FinGeometry
	Material Material

	temperature float64
	trace       []float64
	maxTemp     float64
	maxIdx      int
	violated    bool
	step        int
}

// NewFinThermal returns a thermal model starting at the given temperature,
// with the initial state recorded as step zero of the trace.
func NewFinThermal(fin FinGeometry, mat Material, initial float64) *FinThermal {
	ft := &FinThermal{Fin: fin, Material: mat, temperature: initial, maxTemp: initial}
	ft.trace = append(ft.trace, initial)
	ft.violated = initial > mat.MaxServiceTemp
	return ft
}

// Temperature returns the current lumped fin temperature.
func (ft *FinThermal) Temperature() float64 { return ft.temperature }

// Trace returns the per-step temperature history, one entry per Update call
// plus the initial state.
func (ft *FinThermal) Trace() []float64 { return ft.trace }

// MaxTemperature returns the highest temperature reached and the trace
// index at which it occurred.
func (ft *FinThermal) MaxTemperature() (float64, int) { return ft.maxTemp, ft.maxIdx }

// Violated reports whether the fin ever exceeded the material's maximum
// service temperature.
func (ft *FinThermal) Violated() bool { return ft.violated }

// Update advances the fin temperature by dt under the given flight
// condition. It fails with ThermalDivergenceError if the integration leaves
// the physical range.
func (ft *FinThermal) Update(velocity, altitude, dt float64) error {
	ft.step++
	atm, err := Atmosphere(clampAltitude(altitude))
	if err != nil {
		return err
	}

	h, recovery := ft.convection(velocity, atm)
	// Both faces of every fin exchange heat.
	area := 2 * ft.Fin.PlanformArea() * float64(ft.Fin.Count)
	capacity := ft.Fin.SetMass(ft.Material) * ft.Material.SpecificHeat

	// Sub-step so a single explicit step cannot overshoot the driving
	// temperature, which would be non-physical for a pure relaxation.
	steps := 1
	if tau := capacity / (h*area + 1e-12); dt > maxTempStepFraction*tau {
		steps = int(math.Ceil(dt / (maxTempStepFraction * tau)))
		if steps > maxSubSteps {
			steps = maxSubSteps
		}
	}
	sub := dt / float64(steps)
	T := ft.temperature
	for i := 0; i < steps; i++ {
		qConv := h * (recovery - T)
		qRad := ft.Material.Emissivity * stefanBoltzmann * (math.Pow(T, 4) - math.Pow(atm.Temperature, 4))
		T += (qConv - qRad) * area * sub / capacity
	}

	if math.IsNaN(T) || math.IsInf(T, 0) || T <= 0 || T > maxPhysicalTemp {
		return ThermalDivergenceError{Step: ft.step, Temperature: T}
	}
	ft.temperature = T
	ft.trace = append(ft.trace, T)
	if T > ft.maxTemp {
		ft.maxTemp = T
		ft.maxIdx = ft.step
	}
	if T > ft.Material.MaxServiceTemp {
		ft.violated = true
	}
	return nil
}

// convection returns the convective heat-transfer coefficient (W/(m^2.K))
// and the adiabatic recovery temperature seen by the fin, from a turbulent
// flat-plate correlation over the root chord.
func (ft *FinThermal) convection(velocity float64, atm AtmosphericConditions) (h, recovery float64) {
	speed := math.Abs(velocity)
	mach := speed / atm.SpeedOfSound
	// Turbulent recovery factor Pr^(1/3).
	rf := math.Cbrt(airPrandtl)
	recovery = atm.Temperature * (1 + rf*(airGamma-1)/2*mach*mach)

	mu := sutherland(atm.Temperature)
	kAir := mu * airSpecificHeat / airPrandtl
	re := atm.Density * speed * ft.Fin.RootChord / mu
	if re <= 0 {
		return 0, recovery
	}
	nu := 0.037 * math.Pow(re, 0.8) * math.Cbrt(airPrandtl)
	return nu * kAir / ft.Fin.RootChord, recovery
}

// sutherland returns the dynamic viscosity of air at temperature T.
func sutherland(T float64) float64 {
	return 1.458e-6 * T * math.Sqrt(T) / (T + 110.4)
}

func clampAltitude(altitude float64) float64 {
	if altitude < 0 {
		return 0
	}
	if altitude > AtmosphereTop {
		return AtmosphereTop
	}
	return altitude
}
