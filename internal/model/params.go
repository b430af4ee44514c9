// Package model holds the calibrated parameter set and the analytic fitness
// model for the Poverty Point aggregation simulation.
//
// Default values reproduce a critical threshold of sigma* ~= 0.53 at
// epsilon=0.35, n=25.
package model

import "fmt"

// CostParams are the per-year costs of the aggregator strategy, each a
// fraction of a band's resources.
type CostParams struct {
	Travel      float64 // traveling to the aggregation site
	Signal      float64 // monument/exotic investment
	Opportunity float64 // foregone foraging during the aggregation season
}

// Total returns the combined cost of the aggregator strategy.
func (c CostParams) Total() float64 {
	return c.Travel + c.Signal + c.Opportunity
}

// VulnerabilityParams determine shortfall mortality by strategy.
type VulnerabilityParams struct {
	AlphaAgg float64 // aggregator vulnerability (ecotone + pooling buffered)
	BetaInd  float64 // independent vulnerability (exposed, single-zone)
}

// CooperationParams shape the returns to aggregating with other bands.
type CooperationParams struct {
	BCoop    float64 // log-scale cooperation benefit coefficient
	NOptimal int     // aggregation size before crowding costs
	CCrowd   float64 // quadratic crowding cost coefficient
	BRecip   float64 // reciprocal obligation benefit rate
	RInd     float64 // independent strategy reproductive advantage
}

// EnvironmentParams configure the spatial resource model.
type EnvironmentParams struct {
	RegionSize   float64 // km
	AccessRadius float64 // km, zone accessibility from a location

	AquaticPatches     int
	TerrestrialPatches int
	MastPatches        int
	EcotonePatches     int

	// Base productivity by zone (relative units).
	AquaticProductivity     float64
	TerrestrialProductivity float64
	MastProductivity        float64
	EcotoneProductivity     float64

	// Inter-annual variability by zone (SD of the annual shock).
	AquaticVariability     float64
	TerrestrialVariability float64
	MastVariability        float64
	EcotoneVariability     float64

	// Zone-pair covariance. Negative values encode buffering: when one
	// zone fails another tends to succeed.
	AquaticTerrestrialCov float64
	AquaticMastCov        float64
	TerrestrialMastCov    float64
}

// PopulationParams govern band demography.
type PopulationParams struct {
	NBands          int
	InitialBandSize int
	BirthRate       float64 // per capita annual
	DeathRate       float64 // per capita annual, non-shortfall
	MinBandSize     int
	MaxBandSize     int
}

// Parameters is the complete configuration for one simulation run. It is
// built once per run and never mutated afterwards; sweep code constructs a
// fresh value per grid point.
type Parameters struct {
	Costs         CostParams
	Vulnerability VulnerabilityParams
	Cooperation   CooperationParams
	Environment   EnvironmentParams
	Population    PopulationParams

	// Phase-space position for this run.
	Sigma   float64 // environmental uncertainty [0,1]
	Epsilon float64 // ecotone advantage at the aggregation site [0,1]

	// Run control.
	Duration int   // years
	BurnIn   int   // years excluded from summary statistics
	Seed     int64 // random seed
}

// Default returns the calibrated parameter set at the given phase-space
// position.
func Default(sigma, epsilon float64, seed int64) Parameters {
	return Parameters{
		Costs: CostParams{
			Travel:      0.12,
			Signal:      0.18,
			Opportunity: 0.12,
		},
		Vulnerability: VulnerabilityParams{
			AlphaAgg: 0.40,
			BetaInd:  0.75,
		},
		Cooperation: CooperationParams{
			BCoop:    0.08,
			NOptimal: 25,
			CCrowd:   0.015,
			BRecip:   0.05,
			RInd:     1.10,
		},
		Environment: EnvironmentParams{
			RegionSize:   500.0,
			AccessRadius: 50.0,

			AquaticPatches:     10,
			TerrestrialPatches: 12,
			MastPatches:        8,
			EcotonePatches:     5,

			AquaticProductivity:     0.70,
			TerrestrialProductivity: 0.60,
			MastProductivity:        0.50,
			EcotoneProductivity:     0.65,

			AquaticVariability:     0.15,
			TerrestrialVariability: 0.10,
			MastVariability:        0.30,
			EcotoneVariability:     0.12,

			AquaticTerrestrialCov: -0.3,
			AquaticMastCov:        0.1,
			TerrestrialMastCov:    0.2,
		},
		Population: PopulationParams{
			NBands:          50,
			InitialBandSize: 25,
			BirthRate:       0.03,
			DeathRate:       0.02,
			MinBandSize:     5,
			MaxBandSize:     50,
		},
		Sigma:    sigma,
		Epsilon:  epsilon,
		Duration: 600,
		BurnIn:   100,
		Seed:     seed,
	}
}

// Validate rejects configurations the engine cannot run. Everything it does
// not reject is handled downstream by clamping.
func (p Parameters) Validate() error {
	if p.Population.NBands <= 0 {
		return fmt.Errorf("population: n_bands must be positive, got %d", p.Population.NBands)
	}
	if p.Population.InitialBandSize <= 0 {
		return fmt.Errorf("population: initial band size must be positive, got %d", p.Population.InitialBandSize)
	}
	if p.Population.MinBandSize < 1 {
		return fmt.Errorf("population: min band size must be >= 1, got %d", p.Population.MinBandSize)
	}
	if p.Population.MaxBandSize < p.Population.MinBandSize {
		return fmt.Errorf("population: max band size %d below min %d",
			p.Population.MaxBandSize, p.Population.MinBandSize)
	}
	if p.Sigma < 0 || p.Sigma > 1 {
		return fmt.Errorf("sigma must be in [0,1], got %.3f", p.Sigma)
	}
	if p.Epsilon < 0 || p.Epsilon > 1 {
		return fmt.Errorf("epsilon must be in [0,1], got %.3f", p.Epsilon)
	}
	if p.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %d", p.Duration)
	}
	if p.BurnIn < 0 || p.BurnIn >= p.Duration {
		return fmt.Errorf("burn-in %d must be in [0, duration %d)", p.BurnIn, p.Duration)
	}
	if p.Environment.RegionSize <= 0 {
		return fmt.Errorf("environment: region size must be positive, got %.1f", p.Environment.RegionSize)
	}
	npatches := p.Environment.AquaticPatches + p.Environment.TerrestrialPatches +
		p.Environment.MastPatches + p.Environment.EcotonePatches
	if npatches <= 0 {
		return fmt.Errorf("environment: no resource patches configured")
	}
	if p.Cooperation.NOptimal < 1 {
		return fmt.Errorf("cooperation: optimal aggregation size must be >= 1, got %d", p.Cooperation.NOptimal)
	}
	return nil
}
