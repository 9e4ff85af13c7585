package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/rocketry-org/ascent"
)

// This binary only resolves the scenario and drives the analyses; every
// number it prints comes from the ascent package.

const defaultScenario = "~~unset~~"

var (
	scenario  string
	teamData  string
	outName   string
	fastMode  bool
	compare   bool
	optimize  float64
	materials string
)

func init() {
	flag.StringVar(&scenario, "scenario", defaultScenario, "scenario TOML file")
	flag.StringVar(&teamData, "teamdata", "", "directory of team group JSON files")
	flag.StringVar(&outName, "csv", "", "base name for the CSV trace (empty disables export)")
	flag.BoolVar(&fastMode, "fast", false, "coarsen the integration step")
	flag.BoolVar(&compare, "compare", false, "compare candidate fin materials")
	flag.Float64Var(&optimize, "optimize", 0, "target apogee in meters for the fuel-load sweep")
	flag.StringVar(&materials, "materials", "", "comma-separated material subset for -compare")
}

func main() {
	flag.Parse()
	if scenario == defaultScenario {
		log.Fatal("no scenario provided")
	}
	cfg, comps, err := ascent.LoadScenario(scenario)
	if err != nil {
		log.Fatalf("%s: %s", scenario, err)
	}
	if fastMode {
		cfg.FastMode = true
	}
	reg, err := ascent.BuildRegistry(comps)
	if err != nil {
		log.Fatalf("components: %s", err)
	}
	if teamData != "" {
		teamComps, err := ascent.LoadTeamData(teamData)
		if err != nil {
			log.Fatalf("team data: %s", err)
		}
		if err := ascent.MergeTeamData(reg, teamComps); err != nil {
			log.Fatalf("team data: %s", err)
		}
		log.Printf("merged %d team components, dry mass now %.3f kg", len(teamComps), ascent.DryMass(reg))
	}

	conf := ascent.ExportConfig{Filename: outName, Timestamp: true}
	f, err := ascent.NewFlight(cfg, reg, conf)
	if err != nil {
		log.Fatalf("flight setup: %s", err)
	}
	series, err := f.Run()
	if err != nil {
		log.Printf("run aborted: %s (%d states recorded)", err, len(series.States))
	}
	printSummary(series)

	if compare {
		var subset []string
		if materials != "" {
			subset = strings.Split(materials, ",")
		}
		results, err := ascent.CompareMaterials(cfg, reg, subset)
		if err != nil {
			log.Fatalf("comparison: %s", err)
		}
		printComparison(results)
	}

	if optimize > 0 {
		res, err := ascent.OptimizeFuelLoad(cfg, reg, optimize, nil)
		if err != nil {
			log.Fatalf("optimization: %s", err)
		}
		fmt.Printf("\nFuel-load suggestion for %.0f m apogee:\n", res.TargetAltitude)
		for _, s := range res.Samples {
			fmt.Printf("  %8.2f kg -> %9.1f m\n", s.FuelMass, s.Apogee)
		}
		if res.Achievable {
			fmt.Printf("  suggested load %.2f kg (predicted apogee %.1f m)\n", res.SuggestedFuelMass, res.PredictedApogee)
		} else {
			fmt.Printf("  target not reachable in the swept bracket; closest load %.2f kg (%.1f m)\n", res.SuggestedFuelMass, res.PredictedApogee)
		}
	}
}

func printSummary(series *ascent.TimeSeries) {
	at := func(idx int) ascent.FlightState {
		if idx < 0 || idx >= len(series.States) {
			return ascent.FlightState{}
		}
		return series.States[idx]
	}
	ev := series.Events
	fmt.Println("\nFlight events:")
	fmt.Printf("  burnout  t=%7.2f s  h=%9.1f m\n", at(ev.Burnout).Time, at(ev.Burnout).Altitude)
	fmt.Printf("  max-Q    t=%7.2f s  q=%9.1f Pa\n", at(ev.MaxQ).Time, series.MaxDynamicPressure)
	fmt.Printf("  apogee   t=%7.2f s  h=%9.1f m\n", at(ev.Apogee).Time, at(ev.Apogee).Altitude)
	fmt.Printf("  max fin temperature %7.2f K at t=%.2f s\n", at(ev.MaxTemperature).FinTemperature, at(ev.MaxTemperature).Time)
	if ev.Landing >= 0 {
		fmt.Printf("  landing  t=%7.2f s\n", at(ev.Landing).Time)
	}
	if series.ThermalViolation {
		fmt.Println("  WARNING: fin exceeded the material's maximum service temperature")
	}
	if len(series.Stability) > 0 {
		fmt.Println("Stability by phase:")
		for _, ps := range series.Stability {
			fmt.Printf("  %-16s %s\n", ps.Phase, ps.Result)
		}
	}
}

func printComparison(results []ascent.MaterialRunResult) {
	fmt.Println("\nMaterial comparison:")
	fmt.Printf("  %-32s %12s %12s %10s %s\n", "Material", "MaxTemp(K)", "Margin(K)", "Mass(kg)", "Within limits")
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("  %-32s run failed: %s\n", r.Material, r.Err)
			continue
		}
		fmt.Printf("  %-32s %12.1f %12.1f %10.4f %v\n", r.Material, r.MaxTemperature, r.TempMargin, r.FinSetMass, r.WithinLimits)
	}
}
