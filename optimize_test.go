package ascent

import (
	"testing"

	kitlog "github.com/go-kit/kit/log"
	"github.com/gonum/floats"
)

func TestFitQuadraticRecoversCoefficients(t *testing.T) {
	// Samples off apogee = 100 + 350*m - 2*m^2.
	poly := func(m float64) float64 { return 100 + 350*m - 2*m*m }
	var samples []OptimizationSample
	for _, m := range []float64{10, 20, 30, 40, 50} {
		samples = append(samples, OptimizationSample{FuelMass: m, Apogee: poly(m)})
	}
	c0, c1, c2 := fitQuadratic(samples)
	if !floats.EqualWithinAbs(c0, 100, 1e-6) || !floats.EqualWithinAbs(c1, 350, 1e-6) || !floats.EqualWithinAbs(c2, -2, 1e-6) {
		t.Fatalf("recovered %f %f %f", c0, c1, c2)
	}
	load, ok := solveForTarget(c0, c1, c2, poly(25), 10, 50)
	if !ok {
		t.Fatal("target inside the bracket reported unreachable")
	}
	if !floats.EqualWithinAbs(load, 25, 1e-6) {
		t.Fatalf("solved load %f, expected 25", load)
	}
}

func TestSolveForTargetPrefersSmallestRoot(t *testing.T) {
	// (m-10)(m-40) = 0 shifted: both roots inside the bracket.
	load, ok := solveForTarget(400, -50, 1, 0, 5, 50)
	if !ok {
		t.Fatal("no root found")
	}
	if !floats.EqualWithinAbs(load, 10, 1e-9) {
		t.Fatalf("picked %f, expected the smaller root 10", load)
	}
}

func TestOptimizeFuelLoadHitsTarget(t *testing.T) {
	cfg := testConfig()
	cfg.Logger = kitlog.NewNopLogger()
	// Probe the mid-sweep apogee so the target sits inside the bracket.
	probe := cfg
	probe.FastMode = true
	series := mustRun(t, probe, nil)
	apogee, _ := series.Apogee()

	res, err := OptimizeFuelLoad(cfg, nil, apogee.Altitude, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Achievable {
		t.Fatalf("target %f m inside the sweep reported unreachable", apogee.Altitude)
	}
	if len(res.Samples) != 5 {
		t.Fatalf("default sweep ran %d samples", len(res.Samples))
	}
	lo := res.Samples[0].FuelMass
	hi := res.Samples[len(res.Samples)-1].FuelMass
	if res.SuggestedFuelMass < lo || res.SuggestedFuelMass > hi {
		t.Fatalf("suggestion %f kg outside the swept bracket [%f, %f]", res.SuggestedFuelMass, lo, hi)
	}
	if !floats.EqualWithinAbs(res.PredictedApogee, apogee.Altitude, 1e-6) {
		t.Fatalf("prediction %f m does not sit on the target %f m", res.PredictedApogee, apogee.Altitude)
	}
	// More propellant flies higher across the swept range.
	for i := 1; i < len(res.Samples); i++ {
		if res.Samples[i].Apogee <= res.Samples[i-1].Apogee {
			t.Fatalf("apogee not increasing with fuel load: %+v", res.Samples)
		}
	}
}

func TestOptimizeFuelLoadUnreachableTarget(t *testing.T) {
	cfg := testConfig()
	cfg.Logger = kitlog.NewNopLogger()
	res, err := OptimizeFuelLoad(cfg, nil, 95e3, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Achievable {
		t.Fatal("95 km reported reachable for this vehicle")
	}
	best := res.Samples[len(res.Samples)-1]
	if res.SuggestedFuelMass != best.FuelMass || res.PredictedApogee != best.Apogee {
		t.Fatalf("fallback did not pick the closest sample: %+v vs %+v", res, best)
	}
}

func TestOptimizeFuelLoadRejectsBadTarget(t *testing.T) {
	cfg := testConfig()
	cfg.Logger = kitlog.NewNopLogger()
	for _, target := range []float64{0, -100, AtmosphereTop + 1} {
		if _, err := OptimizeFuelLoad(cfg, nil, target, nil); err == nil {
			t.Fatalf("target %f m accepted", target)
		}
	}
}
