package scenario

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestBuiltinNames(t *testing.T) {
	want := []string{"critical", "high", "low", "povertypoint"}
	if got := Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestBuiltinsValidate(t *testing.T) {
	for _, name := range Names() {
		sc, err := Get(name)
		if err != nil {
			t.Fatalf("Get(%q): %v", name, err)
		}
		if err := sc.Validate(); err != nil {
			t.Errorf("builtin %q fails validation: %v", name, err)
		}
		lo, hi := sc.ExpectedSigma[0], sc.ExpectedSigma[1]
		if sc.Sigma < lo || sc.Sigma > hi {
			t.Errorf("builtin %q: sigma %v outside its expected range [%v,%v]",
				name, sc.Sigma, lo, hi)
		}
	}
}

func TestGetUnknown(t *testing.T) {
	_, err := Get("atlantis")
	if err == nil {
		t.Fatal("no error for unknown scenario")
	}
	if !strings.Contains(err.Error(), "atlantis") {
		t.Errorf("error %q does not name the scenario", err)
	}
}

func TestLoadEmptyPathDefaults(t *testing.T) {
	sc, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if sc.Sigma != 0.5 || sc.Epsilon != 0.35 || sc.Duration != 600 || sc.BurnIn != 100 || sc.Seed != 42 {
		t.Errorf("unexpected defaults: %+v", sc)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	content := `name: drought-test
sigma: 0.6
epsilon: 0.3
duration: 200
burn_in: 50
seed: 7
shortfall:
  mean_interval: 12
ecology:
  mast_patches: 16
  aquatic_terrestrial_cov: -0.4
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	sc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sc.Name != "drought-test" || sc.Sigma != 0.6 || sc.Duration != 200 || sc.Seed != 7 {
		t.Errorf("loaded scenario %+v", sc)
	}

	p := sc.Parameters()
	if p.Environment.MastPatches != 16 {
		t.Errorf("mast patches %d, want override 16", p.Environment.MastPatches)
	}
	if p.Environment.AquaticTerrestrialCov != -0.4 {
		t.Errorf("aquatic-terrestrial cov %v, want override -0.4", p.Environment.AquaticTerrestrialCov)
	}
	// Unset ecology fields keep the calibrated defaults.
	if p.Environment.AquaticPatches != 10 {
		t.Errorf("aquatic patches %d, want default 10", p.Environment.AquaticPatches)
	}

	// Partial shortfall spec merges with the sigma-derived values.
	sp := sc.ShortfallParams()
	if sp.MeanInterval != 12 {
		t.Errorf("shortfall interval %v, want override 12", sp.MeanInterval)
	}
	if sp.MagnitudeMean != 0.3+0.5*0.6 {
		t.Errorf("shortfall magnitude mean %v, want derived %v", sp.MagnitudeMean, 0.3+0.5*0.6)
	}
	if sp.DurationScale != 2.5 {
		t.Errorf("shortfall duration scale %v, want derived 2.5", sp.DurationScale)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("sigma: 1.4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("no error for sigma out of range")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("no error for missing file")
	}
}

func TestNormalizeFillsRunControl(t *testing.T) {
	sc := Scenario{Sigma: 0.4, Epsilon: 0.3}
	sc.Normalize()
	if sc.Duration != 600 || sc.BurnIn != 100 || sc.Seed != 42 || sc.Name != "unnamed" {
		t.Errorf("normalized scenario %+v", sc)
	}

	// Short runs get no default burn-in that would swallow the whole run.
	short := Scenario{Sigma: 0.4, Epsilon: 0.3, Duration: 80}
	short.Normalize()
	if short.BurnIn != 0 {
		t.Errorf("burn-in %d for an 80-year run, want 0", short.BurnIn)
	}
}

func TestShortfallParamsDerivedWhenUnset(t *testing.T) {
	sc := Scenario{Sigma: 0.5, Epsilon: 0.35, Duration: 100}
	sp := sc.ShortfallParams()
	if sp.MeanInterval != 15.0 {
		t.Errorf("derived interval %v, want 15", sp.MeanInterval)
	}
	if sp.MagnitudeMean != 0.55 {
		t.Errorf("derived magnitude mean %v, want 0.55", sp.MagnitudeMean)
	}
}

func TestNewSimulationFromBuiltin(t *testing.T) {
	sc, err := Get("povertypoint")
	if err != nil {
		t.Fatal(err)
	}
	sim, err := sc.NewSimulation()
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}
	if sim.Params.Sigma != 0.45 || sim.Params.Epsilon != 0.40 {
		t.Errorf("simulation at (%v,%v), want (0.45,0.40)", sim.Params.Sigma, sim.Params.Epsilon)
	}
	if sim.Shortfall.MeanInterval != 10.0 {
		t.Errorf("shortfall interval %v, want scenario override 10", sim.Shortfall.MeanInterval)
	}
}
