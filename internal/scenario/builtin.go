package scenario

import (
	"fmt"
	"sort"
)

// builtins are the comparative calibration scenarios: Rapa Nui-like high
// uncertainty, Rapa Iti-like low uncertainty, the Poverty Point baseline,
// and a run pinned near the theoretical critical threshold.
var builtins = map[string]Scenario{
	"low": {
		Name:        "low",
		Description: "Rare, mild shortfalls (Rapa Iti analogue)",
		Sigma:       0.25,
		Epsilon:     0.35,
		Duration:    600,
		BurnIn:      100,
		Seed:        42,
		Shortfall: &ShortfallSpec{
			MeanInterval:  18.0,
			MagnitudeMean: 0.30,
			MagnitudeStd:  0.10,
			DurationScale: 1.0,
		},
		Ecology: &EcologySpec{
			AquaticPatches:     12,
			TerrestrialPatches: 14,
			MastPatches:        10,
			EcotonePatches:     6,

			AquaticProductivity:     0.75,
			TerrestrialProductivity: 0.70,
			MastProductivity:        0.60,
			EcotoneProductivity:     0.70,

			AquaticVariability:     0.10,
			TerrestrialVariability: 0.08,
			MastVariability:        0.20,
			EcotoneVariability:     0.08,
		},
		ExpectedSigma: [2]float64{0.15, 0.35},
	},
	"high": {
		Name:        "high",
		Description: "Frequent, severe shortfalls (Rapa Nui analogue)",
		Sigma:       0.65,
		Epsilon:     0.35,
		Duration:    600,
		BurnIn:      100,
		Seed:        42,
		Shortfall: &ShortfallSpec{
			MeanInterval:  6.0,
			MagnitudeMean: 0.60,
			MagnitudeStd:  0.15,
			DurationScale: 2.5,
		},
		Ecology: &EcologySpec{
			AquaticPatches:     8,
			TerrestrialPatches: 10,
			MastPatches:        6,
			EcotonePatches:     4,

			AquaticProductivity:     0.60,
			TerrestrialProductivity: 0.50,
			MastProductivity:        0.40,
			EcotoneProductivity:     0.55,

			AquaticVariability:     0.25,
			TerrestrialVariability: 0.20,
			MastVariability:        0.45,
			EcotoneVariability:     0.18,
		},
		ExpectedSigma: [2]float64{0.5, 0.8},
	},
	"povertypoint": {
		Name:        "povertypoint",
		Description: "Moderate uncertainty with strong ecotone buffering (Macon Ridge)",
		Sigma:       0.45,
		Epsilon:     0.40,
		Duration:    600,
		BurnIn:      100,
		Seed:        42,
		Shortfall: &ShortfallSpec{
			MeanInterval:  10.0,
			MagnitudeMean: 0.45,
			MagnitudeStd:  0.15,
			DurationScale: 2.0,
		},
		Ecology: &EcologySpec{
			AquaticPatches:     10,
			TerrestrialPatches: 12,
			MastPatches:        8,
			EcotonePatches:     5,

			AquaticProductivity:     0.70,
			TerrestrialProductivity: 0.60,
			MastProductivity:        0.50,
			EcotoneProductivity:     0.65,

			AquaticVariability:     0.15,
			TerrestrialVariability: 0.12,
			MastVariability:        0.30,
			EcotoneVariability:     0.10,

			AquaticTerrestrialCov: -0.35,
			AquaticMastCov:        0.05,
			TerrestrialMastCov:    0.15,
		},
		ExpectedSigma: [2]float64{0.35, 0.55},
	},
	"critical": {
		Name:        "critical",
		Description: "Pinned near the theoretical critical threshold",
		Sigma:       0.53,
		Epsilon:     0.35,
		Duration:    600,
		BurnIn:      100,
		Seed:        42,
		Shortfall: &ShortfallSpec{
			MeanInterval:  8.0,
			MagnitudeMean: 0.55,
			MagnitudeStd:  0.12,
			DurationScale: 2.0,
		},
		ExpectedSigma: [2]float64{0.43, 0.63},
	},
}

// Get returns a builtin scenario by name.
func Get(name string) (Scenario, error) {
	sc, ok := builtins[name]
	if !ok {
		return Scenario{}, fmt.Errorf("unknown scenario %q, available: %v", name, Names())
	}
	return sc, nil
}

// Names lists the builtin scenario names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
