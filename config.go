package ascent

import (
	"sort"

	"github.com/spf13/viper"
)

// LoadScenario reads a TOML scenario file and resolves it into a validated
// Config plus the declared component list. The returned Config is the fully
// resolved parameter object the simulator consumes; nothing downstream
// reads configuration storage again.
func LoadScenario(path string) (Config, []Component, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("simulation.dt", DefaultStepSize)
	v.SetDefault("simulation.after_top_reached", 10000)
	v.SetDefault("stability.min_caliber", 1.5)
	v.SetDefault("stability.max_caliber", 4.0)
	v.SetDefault("rocket.nose_cone_shape", NoseOgive)
	v.SetDefault("rocket.drag_coefficient", 0.5)
	v.SetDefault("fin.count", 4)
	v.SetDefault("fin.material", "Titanium Ti-6Al-4V")

	if err := v.ReadInConfig(); err != nil {
		return Config{}, nil, err
	}

	cfg := Config{
		Name:         v.GetString("rocket.name"),
		DryMass:      v.GetFloat64("rocket.dry_mass"),
		FuelMass:     v.GetFloat64("propulsion.fuel_mass"),
		FuelFlowRate: v.GetFloat64("propulsion.fuel_flow_rate"),
		ISPSeaLevel:  v.GetFloat64("propulsion.isp_sea"),
		ISPVacuum:    v.GetFloat64("propulsion.isp_vac"),
		Geometry: RocketGeometry{
			Length:         v.GetFloat64("rocket.length"),
			Diameter:       v.GetFloat64("rocket.diameter"),
			NoseConeLength: v.GetFloat64("rocket.nose_cone_length"),
			NoseConeShape:  v.GetString("rocket.nose_cone_shape"),
		},
		Fin: FinGeometry{
			Height:    v.GetFloat64("fin.height"),
			RootChord: v.GetFloat64("fin.root_chord"),
			Sweep:     v.GetFloat64("fin.sweep"),
			Thickness: v.GetFloat64("fin.thickness"),
			Count:     v.GetInt("fin.count"),
		},
		Material:            v.GetString("fin.material"),
		BaseDragCoefficient: v.GetFloat64("rocket.drag_coefficient"),
		AngleOfAttack:       v.GetFloat64("rocket.angle_of_attack"),
		LaunchTilt:          v.GetFloat64("rocket.launch_tilt"),
		Dt:                  v.GetFloat64("simulation.dt"),
		FastMode:            v.GetBool("simulation.fast_mode"),
		AfterTopReached:     v.GetInt("simulation.after_top_reached"),
		Thresholds: StabilityThresholds{
			MinCaliber: v.GetFloat64("stability.min_caliber"),
			MaxCaliber: v.GetFloat64("stability.max_caliber"),
		},
		InitialTemperature: v.GetFloat64("simulation.initial_temperature"),
		MaxQ:               v.GetFloat64("simulation.max_q"),
	}

	var comps []Component
	for name := range v.GetStringMap("components") {
		comps = append(comps, Component{
			Name:     name,
			Mass:     v.GetFloat64("components." + name + ".mass"),
			Position: v.GetFloat64("components." + name + ".position"),
		})
	}
	sort.Slice(comps, func(i, j int) bool { return comps[i].Position < comps[j].Position })

	if err := cfg.Validate(); err != nil {
		return Config{}, nil, err
	}
	return cfg, comps, nil
}

// BuildRegistry loads the component list into a fresh registry.
func BuildRegistry(comps []Component) (*MassRegistry, error) {
	reg := NewMassRegistry()
	for _, c := range comps {
		if err := reg.Add(c); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
