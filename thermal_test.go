package ascent

import (
	"math"
	"testing"
)

func testFin() FinGeometry {
	return FinGeometry{Height: 0.09, RootChord: 0.18, Sweep: 0.1, Thickness: 0.003, Count: 4}
}

func TestThermalHeatsTowardRecovery(t *testing.T) {
	mat, _ := LookupMaterial("Titanium Ti-6Al-4V")
	ft := NewFinThermal(testFin(), mat, 288.15)
	const (
		velocity = 700.0
		dt       = 0.01
	)
	atm, _ := Atmosphere(0)
	mach := velocity / atm.SpeedOfSound
	recovery := atm.Temperature * (1 + math.Cbrt(airPrandtl)*(airGamma-1)/2*mach*mach)
	for i := 0; i < 2000; i++ {
		if err := ft.Update(velocity, 0, dt); err != nil {
			t.Fatalf("step %d: %s", i, err)
		}
	}
	if ft.Temperature() <= 288.15 {
		t.Fatalf("fin did not heat: %f K", ft.Temperature())
	}
	// A pure relaxation cannot overshoot its driving temperature.
	if ft.Temperature() > recovery {
		t.Fatalf("fin temperature %f K exceeded recovery temperature %f K", ft.Temperature(), recovery)
	}
}

func TestThermalRadiativeCooling(t *testing.T) {
	mat, _ := LookupMaterial("Carbon carbon matrix composite")
	ft := NewFinThermal(testFin(), mat, 800)
	for i := 0; i < 1000; i++ {
		if err := ft.Update(0, 0, 0.01); err != nil {
			t.Fatal(err)
		}
	}
	if ft.Temperature() >= 800 {
		t.Fatalf("hot fin at rest must radiate heat away, got %f K", ft.Temperature())
	}
}

// A coarse step must be absorbed by sub-stepping, not blow past the
// driving temperature.
func TestThermalCoarseStepStable(t *testing.T) {
	mat, _ := LookupMaterial("Aluminum 6061-T6")
	ft := NewFinThermal(testFin(), mat, 288.15)
	atm, _ := Atmosphere(0)
	mach := 900.0 / atm.SpeedOfSound
	recovery := atm.Temperature * (1 + math.Cbrt(airPrandtl)*(airGamma-1)/2*mach*mach)
	for i := 0; i < 50; i++ {
		if err := ft.Update(900, 0, 1.0); err != nil {
			t.Fatalf("coarse step %d diverged: %s", i, err)
		}
		if ft.Temperature() > recovery {
			t.Fatalf("coarse step overshot recovery: %f > %f K", ft.Temperature(), recovery)
		}
	}
}

func TestThermalViolationFlag(t *testing.T) {
	mat, _ := LookupMaterial("Aluminum 6061-T6") // 473 K service limit
	ft := NewFinThermal(testFin(), mat, 288.15)
	for i := 0; i < 3000; i++ {
		if err := ft.Update(900, 0, 0.01); err != nil {
			t.Fatal(err)
		}
	}
	maxTemp, maxIdx := ft.MaxTemperature()
	if maxTemp <= mat.MaxServiceTemp {
		t.Fatalf("test setup expected to exceed %f K, only reached %f K", mat.MaxServiceTemp, maxTemp)
	}
	if !ft.Violated() {
		t.Fatal("service-temperature violation not flagged")
	}
	trace := ft.Trace()
	if trace[maxIdx] != maxTemp {
		t.Fatalf("max-temperature index %d does not point at the maximum: %f != %f", maxIdx, trace[maxIdx], maxTemp)
	}
	for i, temp := range trace {
		if temp > maxTemp {
			t.Fatalf("trace[%d]=%f exceeds reported maximum %f", i, temp, maxTemp)
		}
	}
}

func TestThermalTraceLength(t *testing.T) {
	mat, _ := LookupMaterial("Inconel 718")
	ft := NewFinThermal(testFin(), mat, 300)
	for i := 0; i < 10; i++ {
		if err := ft.Update(100, 1000, 0.01); err != nil {
			t.Fatal(err)
		}
	}
	if len(ft.Trace()) != 11 { // initial state plus ten updates
		t.Fatalf("trace length %d", len(ft.Trace()))
	}
}
