package ascent

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gonum/floats"
)

func writeTeamFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadTeamData(t *testing.T) {
	dir := t.TempDir()
	writeTeamFile(t, dir, "aero_group.json", `{
		"nose cone": {"mass": 0.7, "position": 0.15, "description": "ogive shell"},
		"fin set": {"mass": 0.5, "position": 2.3},
		"canards": {"mass": 0, "position": 0.4},
		"ballast": {"mass": 0.2, "position": -0.1}
	}`)
	writeTeamFile(t, dir, "nozzle_group.json", `{
		"nozzle": {"mass": 0.6, "position": 2.4}
	}`)
	// No fuselage_group.json: missing files are skipped.

	comps, err := LoadTeamData(dir)
	if err != nil {
		t.Fatal(err)
	}
	// fin set dropped (computed, not declared), canards dropped (zero
	// mass), ballast dropped (negative position).
	if len(comps) != 2 {
		t.Fatalf("expected 2 components, got %+v", comps)
	}
	if comps[0].Name != "nose cone" || comps[1].Name != "nozzle" {
		t.Fatalf("components not sorted by name: %+v", comps)
	}
	if !floats.EqualWithinAbs(comps[0].Mass, 0.7, 1e-12) || !floats.EqualWithinAbs(comps[1].Position, 2.4, 1e-12) {
		t.Fatalf("record values mangled: %+v", comps)
	}
}

func TestLoadTeamDataEmptyDir(t *testing.T) {
	comps, err := LoadTeamData(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if len(comps) != 0 {
		t.Fatalf("components from an empty directory: %+v", comps)
	}
}

func TestLoadTeamDataMalformed(t *testing.T) {
	dir := t.TempDir()
	writeTeamFile(t, dir, "fuselage_group.json", `{"tube": {"mass": `)
	if _, err := LoadTeamData(dir); err == nil {
		t.Fatal("malformed JSON accepted")
	}
}

func TestMergeTeamData(t *testing.T) {
	reg := mustRegistry(t)
	comps := []Component{
		{"nose cone", 0.9, 0.2}, // update in place
		{"payload", 2.5, 0.6},   // new
	}
	if err := MergeTeamData(reg, comps); err != nil {
		t.Fatal(err)
	}
	nose, err := reg.Component("nose cone")
	if err != nil {
		t.Fatal(err)
	}
	if !floats.EqualWithinAbs(nose.Mass, 0.9, 1e-12) || !floats.EqualWithinAbs(nose.Position, 0.2, 1e-12) {
		t.Fatalf("update not applied: %+v", nose)
	}
	payload, err := reg.Component("payload")
	if err != nil {
		t.Fatal(err)
	}
	if !floats.EqualWithinAbs(payload.Mass, 2.5, 1e-12) {
		t.Fatalf("new component not added: %+v", payload)
	}
	if got, want := len(reg.Components()), len(testComponents())+1; got != want {
		t.Fatalf("registry holds %d components, expected %d", got, want)
	}
}

func TestDryMass(t *testing.T) {
	reg := mustRegistry(t)
	var want float64
	for _, c := range testComponents() {
		if c.Name != "propellant" {
			want += c.Mass
		}
	}
	if got := DryMass(reg); !floats.EqualWithinAbs(got, want, 1e-12) {
		t.Fatalf("dry mass %f, expected %f kg", got, want)
	}
}
