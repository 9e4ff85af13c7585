package ascent

import "sort"

// Material holds the thermal and structural properties of a candidate fin
// material. Values are reference data (Granta EduPack); they are looked up,
// never mutated.
type Material struct {
	Name                string
	ThermalConductivity float64 // W/(m.K)
	Density             float64 // kg/m^3
	SpecificHeat        float64 // J/(kg.K)
	MaxServiceTemp      float64 // K
	YieldStrength       float64 // Pa
	ThermalExpansion    float64 // 1/K
	Emissivity          float64
}

var materialsDB = map[string]Material{
	"Aluminum 6061-T6": {
		Name: "Aluminum 6061-T6", ThermalConductivity: 167, Density: 2700,
		SpecificHeat: 896, MaxServiceTemp: 473, YieldStrength: 270e6,
		ThermalExpansion: 23.6e-6, Emissivity: 0.1,
	},
	"Alumina": {
		Name: "Alumina", ThermalConductivity: 33, Density: 3750,
		SpecificHeat: 690, MaxServiceTemp: 1488, YieldStrength: 270e6,
		ThermalExpansion: 6e-6, Emissivity: 0.2,
	},
	"Titanium Ti-6Al-4V": {
		Name: "Titanium Ti-6Al-4V", ThermalConductivity: 25, Density: 3930,
		SpecificHeat: 610, MaxServiceTemp: 505, YieldStrength: 1050e6,
		ThermalExpansion: 6.6e-6, Emissivity: 0.63,
	},
	"Stainless Steel 304": {
		Name: "Stainless Steel 304", ThermalConductivity: 15.5, Density: 7950,
		SpecificHeat: 500, MaxServiceTemp: 850, YieldStrength: 264e6,
		ThermalExpansion: 17.3e-6, Emissivity: 0.44,
	},
	"Inconel 718": {
		Name: "Inconel 718", ThermalConductivity: 12.1, Density: 8230,
		SpecificHeat: 448, MaxServiceTemp: 632, YieldStrength: 770e6,
		ThermalExpansion: 13.0e-6, Emissivity: 0.28,
	},
	"Beryllium": {
		Name: "Beryllium", ThermalConductivity: 208, Density: 1850,
		SpecificHeat: 1880, MaxServiceTemp: 680, YieldStrength: 247e6,
		ThermalExpansion: 11.4e-6, Emissivity: 0.2,
	},
	"Carbon carbon matrix composite": {
		Name: "Carbon carbon matrix composite", ThermalConductivity: 40,
		Density: 1700, SpecificHeat: 756, MaxServiceTemp: 2338,
		YieldStrength: 500e6, ThermalExpansion: 4e-6, Emissivity: 0.9,
	},
}

// LookupMaterial returns the properties of a material by name.
func LookupMaterial(name string) (Material, bool) {
	m, found := materialsDB[name]
	return m, found
}

// AvailableMaterials returns all material names, sorted.
func AvailableMaterials() []string {
	names := make([]string, 0, len(materialsDB))
	for name := range materialsDB {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MaterialsByServiceTemp returns the materials whose maximum service
// temperature is within [minTemp, maxTemp]. A zero bound is ignored.
func MaterialsByServiceTemp(minTemp, maxTemp float64) []string {
	var names []string
	for _, name := range AvailableMaterials() {
		st := materialsDB[name].MaxServiceTemp
		if minTemp > 0 && st < minTemp {
			continue
		}
		if maxTemp > 0 && st > maxTemp {
			continue
		}
		names = append(names, name)
	}
	return names
}

// LightestMaterials returns material names sorted by density, lightest
// first, optionally capped at maxDensity (a zero cap is ignored).
func LightestMaterials(maxDensity float64) []string {
	names := AvailableMaterials()
	sort.SliceStable(names, func(i, j int) bool {
		return materialsDB[names[i]].Density < materialsDB[names[j]].Density
	})
	if maxDensity <= 0 {
		return names
	}
	var kept []string
	for _, name := range names {
		if materialsDB[name].Density <= maxDensity {
			kept = append(kept, name)
		}
	}
	return kept
}
