package ascent

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Team group files recognized in a team-data directory.
var teamFiles = map[string]string{
	"aero_group.json":     "aero",
	"fuselage_group.json": "fuselage",
	"nozzle_group.json":   "nozzle",
}

type teamRecord struct {
	Mass        float64 `json:"mass"`
	Position    float64 `json:"position"`
	Description string  `json:"description,omitempty"`
}

// LoadTeamData parses the team group JSON files found under dir into
// component records. Records violating the value-domain contract (mass <= 0
// or position < 0) are dropped, as are fin entries: the fin mass is
// computed from the sized geometry, never declared. A missing file is not
// an error; a malformed one is.
func LoadTeamData(dir string) ([]Component, error) {
	var comps []Component
	for filename := range teamFiles {
		path := filepath.Join(dir, filename)
		raw, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		var records map[string]teamRecord
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		for name, rec := range records {
			lower := strings.ToLower(name)
			if strings.Contains(lower, "fin") {
				continue
			}
			if rec.Mass <= 0 || rec.Position < 0 {
				continue
			}
			comps = append(comps, Component{Name: name, Mass: rec.Mass, Position: rec.Position})
		}
	}
	sort.Slice(comps, func(i, j int) bool { return comps[i].Name < comps[j].Name })
	return comps, nil
}

// MergeTeamData applies component records to a registry: known names are
// updated in place, new ones added. The registry's cached aggregate is
// invalidated either way.
func MergeTeamData(reg *MassRegistry, comps []Component) error {
	for _, c := range comps {
		if err := reg.Update(c.Name, &c.Mass, &c.Position); err == nil {
			continue
		}
		if err := reg.Add(c); err != nil {
			return err
		}
	}
	return nil
}

// DryMass sums every non-propellant component of the registry.
func DryMass(reg *MassRegistry) float64 {
	var dry float64
	for _, c := range reg.Components() {
		if strings.Contains(strings.ToLower(c.Name), "propellant") {
			continue
		}
		dry += c.Mass
	}
	return dry
}
