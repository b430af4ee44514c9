// Package engine drives the annual cycle: shortfall hazard, seasonal
// foraging, strategy decisions, aggregation, mortality, and reproduction.
package engine

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sort"

	"github.com/clipo/poverty-point-signaling/internal/agents"
	"github.com/clipo/poverty-point-signaling/internal/ecology"
	"github.com/clipo/poverty-point-signaling/internal/model"
)

// Seasonal harvest and consumption rates, carried from the model
// calibration. Harvest fractions scale the location value reachable from a
// band's position; consumption is per capita per month of the season.
const (
	springHarvestRate  = 0.3
	springConsumption  = 0.015
	siteHarvestRate    = 0.2
	homeHarvestRate    = 0.25
	fallHarvestRate    = 0.2
	fallMastBonus      = 0.5
	fallConsumption    = 0.012
	travelCostPerKm    = 0.0005
	exoticCost         = 0.1
	obligationChance   = 0.3
	obligationStrength = 0.1
	obligationNeed     = 0.2
	minExpectedN       = 5.0
)

// Simulation owns all mutable state for one run: the random generator,
// the environment, the band population, and the aggregation site. Two
// Simulation instances never alias any mutable structure, so independent
// runs are free to execute in parallel.
type Simulation struct {
	Params    model.Parameters
	Shortfall ShortfallParams

	Env   *ecology.Environment
	Bands []*agents.Band
	Site  *agents.Site

	Year    int
	Results *Results

	rng      *rand.Rand
	shortage shortfallState
}

// New constructs a simulation with shortfall hazard derived from sigma.
func New(params model.Parameters) (*Simulation, error) {
	return NewWithShortfall(params, DeriveShortfall(params.Sigma))
}

// NewWithShortfall constructs a simulation with an explicit shortfall
// hazard, for scenario runs that decouple the hazard from sigma.
func NewWithShortfall(params model.Parameters, shortfall ShortfallParams) (*Simulation, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("simulation parameters: %w", err)
	}

	rng := rand.New(rand.NewSource(params.Seed))

	env := ecology.New(ecology.FromParams(params.Environment), rng)

	bands := agents.NewBands(params.Population, params.Environment.RegionSize, rng)

	// Place the site by randomized search over the landscape; the ecotone
	// cluster at the center normally wins through its diversity bonus.
	loc, value := env.FindAggregationSite(200, params.Environment.RegionSize*0.1, rng)
	site := agents.NewSite(loc, params.Epsilon, "Poverty Point")

	slog.Debug("aggregation site placed",
		"x", fmt.Sprintf("%.1f", loc.X),
		"y", fmt.Sprintf("%.1f", loc.Y),
		"value", fmt.Sprintf("%.3f", value),
		"epsilon", params.Epsilon,
	)

	return &Simulation{
		Params:    params,
		Shortfall: shortfall,
		Env:       env,
		Bands:     bands,
		Site:      site,
		rng:       rng,
		Results: &Results{
			Sigma:   params.Sigma,
			Epsilon: params.Epsilon,
			Seed:    params.Seed,
		},
	}, nil
}

// StepYear executes one full year. The sequence is strictly ordered:
// strategy decisions read the previous year's attendance, so the snapshot
// is taken before the site resets for the new year.
func (s *Simulation) StepYear() YearlyState {
	s.Env.AdvanceYear(s.rng)

	// 1. Shortfall hazard.
	s.shortage.advance(s.Shortfall, s.rng)

	// 2. Spring dispersal foraging.
	for month := 3; month <= 5; month++ {
		s.springForage(month)
	}

	// 3. Strategy decisions, against last year's observed attendance.
	lastN := float64(s.Site.NAttending())
	s.Site.ResetYear()
	s.decideStrategies(lastN)

	// 4. Summer aggregation.
	s.aggregationSeason()

	// 5-6. Fall foraging, then winter mortality and reproduction.
	for month := 9; month <= 11; month++ {
		s.fallForage(month)
	}
	s.winter()

	// 7. Record.
	state := s.recordState()
	s.Year++
	return state
}

// springForage runs one month of dispersed foraging. Aggregators pay the
// opportunity cost of preparing to travel; an active shortfall cuts the
// harvest by its magnitude.
func (s *Simulation) springForage(month int) {
	radius := s.Params.Environment.AccessRadius
	for _, b := range s.Bands {
		value := s.Env.Value(b.Home, radius, month)
		harvest := value.Total * springHarvestRate

		if s.shortage.active {
			harvest *= 1.0 - s.shortage.magnitude
		}
		if b.Strategy == agents.Aggregator {
			harvest *= 1.0 - s.Params.Costs.Opportunity
		}

		b.Resources += harvest - float64(b.Size)*springConsumption
		b.ClampResources()
	}
}

// decideStrategies has every band independently re-evaluate its strategy
// using the previous year's attendance as the expected aggregation size.
func (s *Simulation) decideStrategies(lastN float64) {
	expectedN := lastN
	if expectedN < minExpectedN {
		expectedN = minExpectedN
	}

	for _, b := range s.Bands {
		b.Strategy = b.DecideStrategy(expectedN, s.Params.Sigma, s.Site.EcotoneAdvantage,
			s.Params, s.rng)
		b.StrategyHistory = append(b.StrategyHistory, b.Strategy)
	}
}

// aggregationSeason runs the summer gathering: attendees pay travel cost,
// register, harvest the ecotone, invest in the monument, try for exotics,
// and may form one obligation with a co-attendee. Independents keep
// foraging at home.
func (s *Simulation) aggregationSeason() {
	const month = 7
	radius := s.Params.Environment.AccessRadius
	siteValue := s.Env.Value(s.Site.Loc, radius*1.6, month)

	totalConstruction := 0.0

	for _, b := range s.Bands {
		if b.Strategy == agents.Aggregator {
			travel := b.TravelCost(s.Site.Loc, travelCostPerKm)
			if limit := b.Resources * 0.3; travel > limit {
				travel = limit
			}
			b.Resources -= travel

			s.Site.AddAttendingBand(b)
			b.AggregationHistory = append(b.AggregationHistory, true)

			b.Resources += siteValue.Total * siteHarvestRate
			b.ClampResources()

			totalConstruction += b.InvestInMonument(s.Params.Costs.Signal, s.rng)
			b.AcquireExotic(exoticCost, s.rng)

			// One chance per year to form a reciprocal tie with a
			// co-attendee already present.
			if len(s.Site.Attending) > 1 && s.rng.Float64() < obligationChance {
				partner := s.Site.Attending[s.rng.Intn(len(s.Site.Attending))]
				if partner != b.ID {
					b.FormObligation(partner, obligationStrength)
				}
			}
		} else {
			b.AggregationHistory = append(b.AggregationHistory, false)

			// Summer is the abundant season; shortfall cuts apply to the
			// spring and fall harvests only.
			value := s.Env.Value(b.Home, radius, month)
			b.Resources += value.Total * homeHarvestRate
			b.ClampResources()
		}
	}

	s.Site.RecordConstruction(totalConstruction)
}

// fallForage runs one month of fall dispersal, with the mast harvest
// bonus layered on top of the general location value.
func (s *Simulation) fallForage(month int) {
	radius := s.Params.Environment.AccessRadius * 1.2
	for _, b := range s.Bands {
		value := s.Env.Value(b.Home, radius, month)
		harvest := value.Total*fallHarvestRate + value.ByZone[ecology.ZoneMast]*fallMastBonus

		if s.shortage.active {
			harvest *= 1.0 - s.shortage.magnitude
		}

		b.Resources += harvest - float64(b.Size)*fallConsumption
		b.ClampResources()
	}
}

// winter applies shortfall mortality, realized fitness, reproduction, and
// the band size bounds.
func (s *Simulation) winter() {
	sigma := s.Params.Sigma
	epsilon := s.Site.EcotoneAdvantage
	nAttending := float64(s.Site.NAttending())

	for _, b := range s.Bands {
		attended := len(b.AggregationHistory) > 0 && b.AggregationHistory[len(b.AggregationHistory)-1]

		var fitness float64
		if attended {
			fitness = model.AggregatorFitness(sigma, epsilon, nAttending, s.Params)
		} else {
			fitness = model.IndependentFitness(sigma, s.Params)
		}
		b.FitnessHistory = append(b.FitnessHistory, fitness)

		if s.shortage.active {
			var vulnerability, sigmaEff float64
			if b.Strategy == agents.Aggregator {
				vulnerability = s.Params.Vulnerability.AlphaAgg
				sigmaEff = sigma * (1.0 - epsilon)

				// Aggregators can call one obligation for aid before the
				// mortality draw.
				if partner, ok := s.pickObligation(b); ok {
					b.Resources += b.CallObligation(partner, obligationNeed)
					b.ClampResources()
				}
			} else {
				vulnerability = s.Params.Vulnerability.BetaInd
				sigmaEff = sigma
			}
			b.SufferShortfall(vulnerability, sigmaEff, s.rng)
		}

		b.Reproduce(fitness, s.Params.Population.BirthRate, s.Params.Population.DeathRate, s.rng)

		if b.Size < s.Params.Population.MinBandSize {
			b.Size = s.Params.Population.MinBandSize
		} else if b.Size > s.Params.Population.MaxBandSize {
			b.Size = s.Params.Population.MaxBandSize
		}
	}
}

// pickObligation selects one existing obligation partner at random. Keys
// are sorted first so the draw stays deterministic under a fixed seed.
func (s *Simulation) pickObligation(b *agents.Band) (int, bool) {
	if len(b.Obligations) == 0 {
		return 0, false
	}
	partners := make([]int, 0, len(b.Obligations))
	for id := range b.Obligations {
		partners = append(partners, id)
	}
	sort.Ints(partners)
	return partners[s.rng.Intn(len(partners))], true
}

// recordState appends the yearly snapshot.
func (s *Simulation) recordState() YearlyState {
	nAgg := 0
	totalPop := 0
	totalExotics := 0
	for _, b := range s.Bands {
		if b.Strategy == agents.Aggregator {
			nAgg++
		}
		totalPop += b.Size
		totalExotics += b.ExoticGoods
	}
	nTotal := len(s.Bands)
	nInd := nTotal - nAgg

	dominance := 0.0
	if nTotal > 0 {
		dominance = float64(nAgg-nInd) / float64(nTotal)
	}

	var aggFitnessSum, indFitnessSum float64
	var aggFitnessN, indFitnessN int
	for _, b := range s.Bands {
		if len(b.FitnessHistory) == 0 {
			continue
		}
		f := b.FitnessHistory[len(b.FitnessHistory)-1]
		if b.Strategy == agents.Aggregator {
			aggFitnessSum += f
			aggFitnessN++
		} else {
			indFitnessSum += f
			indFitnessN++
		}
	}

	annualConstruction := s.Site.MonumentLevel
	if n := len(s.Site.MonumentHistory); n > 1 {
		annualConstruction = s.Site.MonumentHistory[n-1] - s.Site.MonumentHistory[n-2]
	}

	state := YearlyState{
		Year:                  s.Year,
		TotalPopulation:       totalPop,
		NBands:                nTotal,
		MeanBandSize:          float64(totalPop) / float64(nTotal),
		NAggregators:          nAgg,
		NIndependents:         nInd,
		StrategyDominance:     dominance,
		AggregationSize:       s.Site.NAttending(),
		AggregationPopulation: s.Site.AttendingPopulation,
		MonumentLevel:         s.Site.MonumentLevel,
		AnnualConstruction:    annualConstruction,
		TotalExotics:          totalExotics,
		EffectiveSigma:        s.Params.Sigma * (1.0 - s.Site.EcotoneAdvantage),
		InShortfall:           s.shortage.active,
		ShortfallMagnitude:    s.shortage.magnitude,
	}
	if aggFitnessN > 0 {
		state.MeanFitnessAggregators = aggFitnessSum / float64(aggFitnessN)
	}
	if indFitnessN > 0 {
		state.MeanFitnessIndependents = indFitnessSum / float64(indFitnessN)
	}

	s.Results.YearlyStates = append(s.Results.YearlyStates, state)
	return state
}

// Run executes the configured duration, computes the post-burn-in summary
// and the analytic threshold, and returns the results.
func (s *Simulation) Run(verbose bool) *Results {
	if verbose {
		slog.Info("simulation starting",
			"sigma", s.Params.Sigma,
			"epsilon", s.Params.Epsilon,
			"seed", s.Params.Seed,
			"years", s.Params.Duration,
			"bands", len(s.Bands),
		)
	}

	for i := 0; i < s.Params.Duration; i++ {
		state := s.StepYear()

		if verbose && s.Year%100 == 0 {
			slog.Info("progress",
				"year", state.Year,
				"population", state.TotalPopulation,
				"dominance", fmt.Sprintf("%.2f", state.StrategyDominance),
				"aggregation", state.AggregationSize,
				"monument", fmt.Sprintf("%.0f", state.MonumentLevel),
			)
		}
	}

	s.Results.ComputeSummary(s.Params.BurnIn)
	s.Results.SigmaStarTheoretical = model.CriticalThreshold(
		s.Params.Epsilon, float64(s.Params.Cooperation.NOptimal), s.Params)

	if verbose {
		slog.Info("simulation complete",
			"final_dominance", fmt.Sprintf("%.3f", s.Results.FinalStrategyDominance),
			"mean_aggregation", fmt.Sprintf("%.1f", s.Results.MeanAggregationSize),
			"monument", fmt.Sprintf("%.0f", s.Results.FinalMonumentLevel),
			"exotics", s.Results.TotalExotics,
			"sigma_star", fmt.Sprintf("%.3f", s.Results.SigmaStarTheoretical),
		)
	}
	return s.Results
}
