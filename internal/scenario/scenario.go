// Package scenario defines named environmental scenarios and YAML scenario
// files. A scenario bundles a phase-space position with shortfall hazard
// and landscape overrides, calibrated against the comparative cases the
// model was built around.
package scenario

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/clipo/poverty-point-signaling/internal/engine"
	"github.com/clipo/poverty-point-signaling/internal/model"
)

// ShortfallSpec overrides the sigma-derived shortfall hazard.
type ShortfallSpec struct {
	MeanInterval  float64 `yaml:"mean_interval"`
	MagnitudeMean float64 `yaml:"magnitude_mean"`
	MagnitudeStd  float64 `yaml:"magnitude_std"`
	DurationScale float64 `yaml:"duration_scale"`
}

// EcologySpec overrides parts of the default landscape configuration.
// Zero values mean "keep the default".
type EcologySpec struct {
	AquaticPatches     int `yaml:"aquatic_patches"`
	TerrestrialPatches int `yaml:"terrestrial_patches"`
	MastPatches        int `yaml:"mast_patches"`
	EcotonePatches     int `yaml:"ecotone_patches"`

	AquaticProductivity     float64 `yaml:"aquatic_productivity"`
	TerrestrialProductivity float64 `yaml:"terrestrial_productivity"`
	MastProductivity        float64 `yaml:"mast_productivity"`
	EcotoneProductivity     float64 `yaml:"ecotone_productivity"`

	AquaticVariability     float64 `yaml:"aquatic_variability"`
	TerrestrialVariability float64 `yaml:"terrestrial_variability"`
	MastVariability        float64 `yaml:"mast_variability"`
	EcotoneVariability     float64 `yaml:"ecotone_variability"`

	AquaticTerrestrialCov float64 `yaml:"aquatic_terrestrial_cov"`
	AquaticMastCov        float64 `yaml:"aquatic_mast_cov"`
	TerrestrialMastCov    float64 `yaml:"terrestrial_mast_cov"`
}

// Scenario is a complete run definition.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	Sigma    float64 `yaml:"sigma"`
	Epsilon  float64 `yaml:"epsilon"`
	Duration int     `yaml:"duration"`
	BurnIn   int     `yaml:"burn_in"`
	Seed     int64   `yaml:"seed"`

	Shortfall *ShortfallSpec `yaml:"shortfall,omitempty"`
	Ecology   *EcologySpec   `yaml:"ecology,omitempty"`

	// ExpectedSigma is a validation aid for calibration runs: the range
	// the scenario was designed to land in.
	ExpectedSigma [2]float64 `yaml:"expected_sigma,omitempty"`
}

func defaults() Scenario {
	return Scenario{
		Name:     "default",
		Sigma:    0.5,
		Epsilon:  0.35,
		Duration: 600,
		BurnIn:   100,
		Seed:     42,
	}
}

// Load reads a scenario from a YAML file. An empty path returns the
// defaults.
func Load(path string) (Scenario, error) {
	sc := defaults()
	if strings.TrimSpace(path) == "" {
		sc.Normalize()
		return sc, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return sc, err
	}
	if err := yaml.Unmarshal(b, &sc); err != nil {
		return sc, fmt.Errorf("scenario %s: %w", path, err)
	}
	sc.Normalize()
	if err := sc.Validate(); err != nil {
		return sc, fmt.Errorf("scenario %s: %w", path, err)
	}
	return sc, nil
}

// Normalize fills unset run-control fields with the defaults.
func (sc *Scenario) Normalize() {
	if sc.Duration == 0 {
		sc.Duration = 600
	}
	if sc.BurnIn == 0 && sc.Duration > 100 {
		sc.BurnIn = 100
	}
	if sc.Seed == 0 {
		sc.Seed = 42
	}
	if sc.Name == "" {
		sc.Name = "unnamed"
	}
}

// Validate rejects scenarios the engine would refuse anyway, with the
// field names a scenario author needs.
func (sc *Scenario) Validate() error {
	if sc.Sigma < 0 || sc.Sigma > 1 {
		return fmt.Errorf("sigma must be in [0,1], got %.3f", sc.Sigma)
	}
	if sc.Epsilon < 0 || sc.Epsilon > 1 {
		return fmt.Errorf("epsilon must be in [0,1], got %.3f", sc.Epsilon)
	}
	if sc.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %d", sc.Duration)
	}
	if sc.BurnIn < 0 || sc.BurnIn >= sc.Duration {
		return fmt.Errorf("burn_in %d must be in [0, duration %d)", sc.BurnIn, sc.Duration)
	}
	if sc.Shortfall != nil && sc.Shortfall.MeanInterval <= 0 {
		return fmt.Errorf("shortfall.mean_interval must be positive, got %.2f", sc.Shortfall.MeanInterval)
	}
	return nil
}

// Parameters assembles the engine parameter set for this scenario.
func (sc Scenario) Parameters() model.Parameters {
	p := model.Default(sc.Sigma, sc.Epsilon, sc.Seed)
	p.Duration = sc.Duration
	p.BurnIn = sc.BurnIn

	if e := sc.Ecology; e != nil {
		env := &p.Environment
		setInt := func(dst *int, v int) {
			if v != 0 {
				*dst = v
			}
		}
		setFloat := func(dst *float64, v float64) {
			if v != 0 {
				*dst = v
			}
		}
		setInt(&env.AquaticPatches, e.AquaticPatches)
		setInt(&env.TerrestrialPatches, e.TerrestrialPatches)
		setInt(&env.MastPatches, e.MastPatches)
		setInt(&env.EcotonePatches, e.EcotonePatches)
		setFloat(&env.AquaticProductivity, e.AquaticProductivity)
		setFloat(&env.TerrestrialProductivity, e.TerrestrialProductivity)
		setFloat(&env.MastProductivity, e.MastProductivity)
		setFloat(&env.EcotoneProductivity, e.EcotoneProductivity)
		setFloat(&env.AquaticVariability, e.AquaticVariability)
		setFloat(&env.TerrestrialVariability, e.TerrestrialVariability)
		setFloat(&env.MastVariability, e.MastVariability)
		setFloat(&env.EcotoneVariability, e.EcotoneVariability)
		setFloat(&env.AquaticTerrestrialCov, e.AquaticTerrestrialCov)
		setFloat(&env.AquaticMastCov, e.AquaticMastCov)
		setFloat(&env.TerrestrialMastCov, e.TerrestrialMastCov)
	}
	return p
}

// ShortfallParams returns the shortfall hazard: the explicit override when
// present, the sigma-derived hazard otherwise.
func (sc Scenario) ShortfallParams() engine.ShortfallParams {
	if sc.Shortfall == nil {
		return engine.DeriveShortfall(sc.Sigma)
	}
	sp := engine.ShortfallParams{
		MeanInterval:  sc.Shortfall.MeanInterval,
		MagnitudeMean: sc.Shortfall.MagnitudeMean,
		MagnitudeStd:  sc.Shortfall.MagnitudeStd,
		DurationScale: sc.Shortfall.DurationScale,
	}
	derived := engine.DeriveShortfall(sc.Sigma)
	if sp.MagnitudeMean == 0 {
		sp.MagnitudeMean = derived.MagnitudeMean
	}
	if sp.MagnitudeStd == 0 {
		sp.MagnitudeStd = derived.MagnitudeStd
	}
	if sp.DurationScale == 0 {
		sp.DurationScale = derived.DurationScale
	}
	return sp
}

// NewSimulation builds a ready-to-run simulation from the scenario.
func (sc Scenario) NewSimulation() (*engine.Simulation, error) {
	return engine.NewWithShortfall(sc.Parameters(), sc.ShortfallParams())
}
