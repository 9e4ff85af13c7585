package ascent

import (
	"fmt"
	"math"
	"os"
	"sync"

	"github.com/ChristopherRabotin/ode"
	kitlog "github.com/go-kit/kit/log"
)

const (
	// DefaultStepSize is the default integration step.
	DefaultStepSize = 0.01 // s
	// FastModeFactor coarsens the step in fast mode. Fast mode trades
	// trace precision for wall-clock speed; event ordering and the phase
	// sequence are unchanged.
	FastModeFactor = 5
	// hardKillSteps aborts an integration that a modeling error keeps
	// alive long past any physical flight.
	hardKillSteps = 10_000_000
)

/* Handles the coupled flight dynamics and fin thermal propagation. */

// FlightPhase tags the state machine position of a run.
type FlightPhase uint8

const (
	PreLaunch FlightPhase = iota + 1
	PoweredAscent
	CoastingAscent
	Descent
	Landed
)

func (p FlightPhase) String() string {
	switch p {
	case PreLaunch:
		return "PRE_LAUNCH"
	case PoweredAscent:
		return "POWERED_ASCENT"
	case CoastingAscent:
		return "COASTING_ASCENT"
	case Descent:
		return "DESCENT"
	case Landed:
		return "LANDED"
	}
	panic("cannot stringify unknown flight phase")
}

// FlightState is one snapshot of the coupled state vector.
type FlightState struct {
	Time               float64 // s since launch
	Altitude           float64 // m
	VerticalVelocity   float64 // m/s, positive up
	HorizontalVelocity float64 // m/s
	Mass               float64 // kg, total
	Propellant         float64 // kg remaining
	FinTemperature     float64 // K
	Mach               float64
	DynamicPressure    float64 // Pa
	Phase              FlightPhase
}

// Events holds the trace indices of the flight milestones, -1 until seen.
type Events struct {
	Launch         int
	Burnout        int
	Apogee         int
	MaxQ           int
	MaxVelocity    int
	MaxTemperature int
	Landing        int
}

// PhaseStability is a static-margin snapshot taken at a phase boundary.
type PhaseStability struct {
	Phase  FlightPhase
	Step   int
	Result StabilityResult
}

// TimeSeries is the full record of one run. It is owned by that run and
// never mutated after the run completes.
type TimeSeries struct {
	States             []FlightState
	Events             Events
	Stability          []PhaseStability
	MaxDynamicPressure float64 // Pa
	// ThermalViolation is set when the fin exceeded the material's
	// maximum service temperature at any point of the trace.
	ThermalViolation bool
}

// Apogee returns the recorded apogee state, or false if the run never got
// there.
func (ts *TimeSeries) Apogee() (FlightState, bool) {
	if ts.Events.Apogee < 0 {
		return FlightState{}, false
	}
	return ts.States[ts.Events.Apogee], true
}

// Config is the fully resolved parameter object a run receives. The core
// never reads configuration storage itself.
type Config struct {
	Name string

	// Propulsion and masses.
	DryMass      float64 // kg, everything but propellant (fins included)
	FuelMass     float64 // kg
	FuelFlowRate float64 // kg/s while burning
	ISPSeaLevel  float64 // s
	ISPVacuum    float64 // s

	// Airframe.
	Geometry            RocketGeometry
	Fin                 FinGeometry
	Material            string
	BaseDragCoefficient float64
	AngleOfAttack       float64 // deg
	LaunchTilt          float64 // deg from vertical

	// Integration.
	Dt              float64 // s
	FastMode        bool
	AfterTopReached int // post-apogee safety cycles

	// Analysis.
	Thresholds         StabilityThresholds
	InitialTemperature float64 // K; zero means pad ambient
	MaxQ               float64 // Pa; zero means derive from a run

	// Logger, when set, replaces the default stdout logfmt logger. Batch
	// runs spawned from this configuration inherit it.
	Logger kitlog.Logger
}

// BurnTime returns the powered flight duration.
func (cfg Config) BurnTime() float64 { return cfg.FuelMass / cfg.FuelFlowRate }

// StepSize returns the integration step honoring fast mode.
func (cfg Config) StepSize() float64 {
	if cfg.FastMode {
		return cfg.Dt * FastModeFactor
	}
	return cfg.Dt
}

// Validate checks the value domain of every parameter. It returns a
// ConfigurationError on the first violation.
func (cfg Config) Validate() error {
	switch {
	case cfg.DryMass <= 0:
		return ConfigurationError{"DryMass", "must be positive"}
	case cfg.FuelMass < 0:
		return ConfigurationError{"FuelMass", "must be non-negative"}
	case cfg.FuelFlowRate <= 0:
		return ConfigurationError{"FuelFlowRate", "must be positive"}
	case cfg.ISPSeaLevel <= 0 || cfg.ISPVacuum <= 0:
		return ConfigurationError{"ISP", "must be positive"}
	case cfg.Geometry.Length <= 0 || cfg.Geometry.Diameter <= 0:
		return ConfigurationError{"Geometry", "length and diameter must be positive"}
	case cfg.Geometry.NoseConeLength <= 0 || cfg.Geometry.NoseConeLength >= cfg.Geometry.Length:
		return ConfigurationError{"Geometry.NoseConeLength", "must be positive and shorter than the rocket"}
	case cfg.Fin.Height <= 0 || cfg.Fin.RootChord <= 0 || cfg.Fin.Thickness <= 0:
		return ConfigurationError{"Fin", "height, root chord and thickness must be positive"}
	case cfg.Fin.Count < 3 || cfg.Fin.Count > 8:
		return ConfigurationError{"Fin.Count", "must be between 3 and 8"}
	case cfg.BaseDragCoefficient <= 0:
		return ConfigurationError{"BaseDragCoefficient", "must be positive"}
	case cfg.Dt <= 0:
		return ConfigurationError{"Dt", "must be positive"}
	case cfg.AfterTopReached <= 0:
		return ConfigurationError{"AfterTopReached", "must be positive"}
	case cfg.Thresholds.MinCaliber < 0 || cfg.Thresholds.MaxCaliber <= cfg.Thresholds.MinCaliber:
		return ConfigurationError{"Thresholds", "need 0 <= min < max calibers"}
	}
	if _, found := LookupMaterial(cfg.Material); !found {
		return ConfigurationError{"Material", fmt.Sprintf("unknown material %q", cfg.Material)}
	}
	return nil
}

// Aerodynamics builds the aerodynamic model for this configuration.
func (cfg Config) Aerodynamics() Aerodynamics {
	return Aerodynamics{
		Geom:          cfg.Geometry,
		Fin:           cfg.Fin,
		BaseCd:        cfg.BaseDragCoefficient,
		AngleOfAttack: cfg.AngleOfAttack * math.Pi / 180,
	}
}

// Flight performs one simulation run. It implements the ode.Integrable
// interface; the coupled state vector is [altitude, vertical velocity,
// horizontal velocity, propellant mass], and the fin temperature advances
// once per accepted step.
type Flight struct {
	Cfg      Config
	Registry *MassRegistry // per-run snapshot, may be nil
	Aero     Aerodynamics
	Thermal  *FinThermal

	logger             kitlog.Logger
	step               float64
	alt, vVert, vHoriz float64
	prop               float64
	stepNo             int
	phase              FlightPhase
	postApogee         int
	series             *TimeSeries
	runErr             error
	stopChan           chan (bool)
	histChan           chan<- (FlightState)
	histClosed         bool
	wg                 sync.WaitGroup
	done               bool
}

// NewFlight returns a run over the given configuration. The registry, when
// provided, is snapshotted so the run owns its mass state; conf controls
// optional state streaming to disk (see StreamStates).
func NewFlight(cfg Config, reg *MassRegistry, conf ExportConfig) (*Flight, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mat, _ := LookupMaterial(cfg.Material)
	initialTemp := cfg.InitialTemperature
	if initialTemp == 0 {
		initialTemp = seaLevelTemperature
	}
	logger := cfg.Logger
	if logger == nil {
		logger = kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	}
	f := &Flight{
		Cfg:      cfg,
		Aero:     cfg.Aerodynamics(),
		Thermal:  NewFinThermal(cfg.Fin, mat, initialTemp),
		logger:   logger,
		step:     cfg.StepSize(),
		prop:     cfg.FuelMass,
		phase:    PreLaunch,
		stopChan: make(chan (bool), 1),
		series: &TimeSeries{
			Events: Events{Launch: -1, Burnout: -1, Apogee: -1, MaxQ: -1, MaxVelocity: -1, MaxTemperature: -1, Landing: -1},
		},
	}
	if reg != nil {
		f.Registry = reg.Snapshot()
	}
	if !conf.IsUseless() {
		histChan := make(chan (FlightState), 1000)
		f.histChan = histChan
		f.wg.Add(1)
		go func() {
			defer f.wg.Done()
			StreamStates(conf, histChan)
		}()
	}
	f.record() // launch pad snapshot
	return f, nil
}

// SetLogger replaces the run's logger.
func (f *Flight) SetLogger(logger kitlog.Logger) { f.logger = logger }

// LogStatus logs the current state of the run.
func (f *Flight) LogStatus() {
	f.logger.Log("level", "info", "subsys", "flight", "t(s)", f.elapsed(), "phase", f.phase,
		"h(m)", f.alt, "vV(m/s)", f.vVert, "prop(kg)", f.prop, "finT(K)", f.Thermal.Temperature())
}

func (f *Flight) elapsed() float64 { return float64(f.stepNo) * f.step }

// Run performs the propagation. It blocks until the run reaches a terminal
// state; the TimeSeries is returned even when the run fails, so a partial
// trace stays available for diagnostics.
func (f *Flight) Run() (*TimeSeries, error) {
	// The pad snapshot recorded at construction stays PRE_LAUNCH; powered
	// flight begins with the first integrated state. The launch event
	// still points at the pad state.
	f.phase = PoweredAscent
	f.series.Events.Launch = 0
	f.snapshotStability(PoweredAscent, 0)
	f.LogStatus()
	func() {
		defer func() {
			if r := recover(); r != nil {
				f.runErr = fmt.Errorf("propagation diverged: %v", r)
			}
		}()
		ode.NewRK4(0, f.step, f).Solve() // Blocking.
	}()
	// No states are recorded past this point; close the exporter channel
	// here so a recovered propagation panic cannot leave wg.Wait blocked.
	f.closeHist()
	f.done = true
	f.finalize()
	apogee := 0.0
	if st, ok := f.series.Apogee(); ok {
		apogee = st.Altitude
	}
	maxT, _ := f.Thermal.MaxTemperature()
	f.logger.Log("level", "notice", "subsys", "flight", "status", "finished", "duration(s)", f.elapsed(),
		"apogee(m)", apogee, "maxQ(Pa)", f.series.MaxDynamicPressure, "maxFinT(K)", maxT, "err", f.runErr)
	f.wg.Wait() // Don't return until the exporter drained the trace.
	return f.series, f.runErr
}

// StopRun aborts the propagation before it completes.
func (f *Flight) StopRun() {
	f.stopChan <- true
}

// Stop implements the stop call of the integrator.
func (f *Flight) Stop(t float64) bool {
	select {
	case <-f.stopChan:
		f.closeHist()
		return true
	default:
		if f.runErr != nil || f.phase == Landed {
			f.closeHist()
			return true
		}
		if f.series.Events.Apogee >= 0 && f.postApogee > f.Cfg.AfterTopReached {
			f.runErr = RunawayFlightError{Steps: f.Cfg.AfterTopReached}
			f.logger.Log("level", "critical", "subsys", "flight", "status", "runaway", "postApogeeSteps", f.postApogee)
			f.closeHist()
			return true
		}
		if f.stepNo > hardKillSteps {
			f.runErr = RunawayFlightError{Steps: f.stepNo}
			f.logger.Log("level", "critical", "subsys", "flight", "status", "killed")
			f.closeHist()
			return true
		}
	}
	return false
}

func (f *Flight) closeHist() {
	if f.histChan != nil && !f.histClosed {
		close(f.histChan)
		f.histClosed = true
	}
}

// GetState returns the state vector for the integrator.
func (f *Flight) GetState() []float64 {
	return []float64{f.alt, f.vVert, f.vHoriz, f.prop}
}

// SetState sets the propagated state, advances the fin temperature with
// this step's flight condition, records the snapshot and evaluates the
// phase-transition predicates.
func (f *Flight) SetState(t float64, s []float64) {
	f.stepNo++
	alt, vVert, vHoriz, prop := s[0], s[1], s[2], s[3]
	if prop <= 0 {
		prop = 0 // mass stays constant from burnout on
	}
	if f.phase == PoweredAscent && alt <= 0 && vVert < 0 {
		// Thrust below weight: the rocket sits on the pad.
		alt, vVert, vHoriz = 0, 0, 0
	}
	for i, val := range []float64{alt, vVert, vHoriz, prop} {
		if math.IsNaN(val) {
			panic(fmt.Errorf("state[%d]=NaN @ t=%f phase=%s", i, t, f.phase))
		}
	}
	f.alt, f.vVert, f.vHoriz, f.prop = alt, vVert, vHoriz, prop

	speed := math.Hypot(f.vHoriz, f.vVert)
	if err := f.Thermal.Update(speed, f.alt, f.step); err != nil {
		f.runErr = err
		return
	}

	// Transition before recording so the snapshot carries the phase it
	// belongs to (the landing state is a LANDED state, not a DESCENT one).
	idx := len(f.series.States)
	switch f.phase {
	case PoweredAscent:
		if f.prop <= 0 {
			f.phase = CoastingAscent
			f.series.Events.Burnout = idx
			f.snapshotStability(CoastingAscent, idx)
			f.logger.Log("level", "info", "subsys", "flight", "event", "burnout", "t(s)", f.elapsed(), "h(m)", f.alt, "v(m/s)", speed)
		}
	case CoastingAscent:
		if f.vVert <= 0 {
			f.phase = Descent
			f.series.Events.Apogee = idx
			f.snapshotStability(Descent, idx)
			f.logger.Log("level", "info", "subsys", "flight", "event", "apogee", "t(s)", f.elapsed(), "h(m)", f.alt)
		}
	case Descent:
		if f.alt <= 0 {
			f.phase = Landed
			// The integrator overshoots the ground by a fraction of a
			// step; the recorded landing state is at ground level, with
			// the impact velocity kept.
			f.alt = 0
			f.series.Events.Landing = idx
			f.logger.Log("level", "info", "subsys", "flight", "event", "landing", "t(s)", f.elapsed(), "v(m/s)", speed)
		}
	}
	f.record()
	if f.series.Events.Apogee >= 0 && f.phase != Landed {
		f.postApogee++
	}
}

// Func is the integration function of the point-mass dynamics.
func (f *Flight) Func(t float64, s []float64) []float64 {
	alt, vVert, vHoriz, prop := s[0], s[1], s[2], s[3]
	atm := flightAtmosphere(alt)
	speed := math.Hypot(vHoriz, vVert)
	mass := f.Cfg.DryMass + math.Max(prop, 0)

	// Drag opposes the velocity vector.
	var dragVert, dragHoriz float64
	if speed > 0 && atm.Density > 0 {
		cd := f.Aero.DragCoefficient(speed / atm.SpeedOfSound)
		drag := 0.5 * atm.Density * cd * f.Aero.Geom.ReferenceArea() * speed * speed
		dragVert = -drag * vVert / speed
		dragHoriz = -drag * vHoriz / speed
	}

	// Thrust along the launch tilt while propellant remains.
	var thrustVert, thrustHoriz, mDot float64
	if prop > 0 {
		isp := f.Cfg.ISPVacuum + (f.Cfg.ISPSeaLevel-f.Cfg.ISPVacuum)*atm.Pressure/seaLevelPressure
		thrust := f.Cfg.FuelFlowRate * g0 * isp
		tilt := f.Cfg.LaunchTilt * math.Pi / 180
		thrustVert = thrust * math.Cos(tilt)
		thrustHoriz = thrust * math.Sin(tilt)
		mDot = f.Cfg.FuelFlowRate
	}

	return []float64{
		vVert,
		(thrustVert+dragVert)/mass - gravity(math.Max(alt, 0)),
		(thrustHoriz + dragHoriz) / mass,
		-mDot,
	}
}

// record appends the current state to the time series and returns its
// index.
func (f *Flight) record() int {
	atm := flightAtmosphere(f.alt)
	speed := math.Hypot(f.vHoriz, f.vVert)
	q := 0.5 * atm.Density * speed * speed
	st := FlightState{
		Time:               f.elapsed(),
		Altitude:           f.alt,
		VerticalVelocity:   f.vVert,
		HorizontalVelocity: f.vHoriz,
		Mass:               f.Cfg.DryMass + f.prop,
		Propellant:         f.prop,
		FinTemperature:     f.Thermal.Temperature(),
		Mach:               speed / atm.SpeedOfSound,
		DynamicPressure:    q,
		Phase:              f.phase,
	}
	f.series.States = append(f.series.States, st)
	idx := len(f.series.States) - 1
	if q > f.series.MaxDynamicPressure {
		f.series.MaxDynamicPressure = q
		f.series.Events.MaxQ = idx
	}
	if f.histChan != nil && !f.histClosed {
		f.histChan <- st
	}
	return idx
}

// snapshotStability evaluates the static margin for the propellant state at
// a phase boundary. Runs without a registry skip the snapshots.
func (f *Flight) snapshotStability(phase FlightPhase, idx int) {
	if f.Registry == nil {
		return
	}
	if err := f.Registry.SetPropellantMass(f.prop); err != nil {
		return
	}
	res := EvalStability(f.Registry.Aggregate(), f.Aero, f.Cfg.Thresholds)
	f.series.Stability = append(f.series.Stability, PhaseStability{Phase: phase, Step: idx, Result: res})
}

// finalize fills the derived event markers once the propagation stopped.
func (f *Flight) finalize() {
	var maxV, maxT float64 = -1, -1
	for i, st := range f.series.States {
		speed := math.Hypot(st.HorizontalVelocity, st.VerticalVelocity)
		if speed > maxV {
			maxV = speed
			f.series.Events.MaxVelocity = i
		}
		if st.FinTemperature > maxT {
			maxT = st.FinTemperature
			f.series.Events.MaxTemperature = i
		}
	}
	f.series.ThermalViolation = f.Thermal.Violated()
}

// flightAtmosphere is the simulator-side domain policy: altitudes the run
// legitimately reaches above the modeled atmosphere are treated as vacuum,
// and transient negative altitudes as sea level.
func flightAtmosphere(alt float64) AtmosphericConditions {
	if alt > AtmosphereTop {
		atm, _ := Atmosphere(AtmosphereTop)
		atm.Density = 0
		atm.Pressure = 0
		return atm
	}
	atm, _ := Atmosphere(clampAltitude(alt))
	return atm
}
