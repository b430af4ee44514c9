package engine

// YearlyState is an immutable snapshot of aggregate quantities for one
// simulated year. States are appended in order and never modified.
type YearlyState struct {
	Year int

	// Population.
	TotalPopulation int
	NBands          int
	MeanBandSize    float64

	// Strategy distribution.
	NAggregators      int
	NIndependents     int
	StrategyDominance float64 // (n_agg - n_ind) / n_total, in [-1,1]

	// Aggregation.
	AggregationSize       int // bands at the site
	AggregationPopulation int // individuals at the site

	// Investment.
	MonumentLevel      float64 // cumulative
	AnnualConstruction float64 // this year
	TotalExotics       int

	// Environment.
	EffectiveSigma     float64
	InShortfall        bool
	ShortfallMagnitude float64

	// Fitness.
	MeanFitnessAggregators  float64
	MeanFitnessIndependents float64
}

// Results holds the ordered yearly series for a run plus post-burn-in
// summary scalars.
type Results struct {
	Sigma   float64
	Epsilon float64
	Seed    int64

	YearlyStates []YearlyState

	// Summary statistics over the post-burn-in window.
	FinalStrategyDominance float64
	MeanAggregationSize    float64
	FinalMonumentLevel     float64
	TotalExotics           int
	MeanPopulation         float64

	// Analytic reference for calibration overlays.
	SigmaStarTheoretical float64
}

// ComputeSummary fills the summary scalars from the post-burn-in portion
// of the yearly series.
func (r *Results) ComputeSummary(burnIn int) {
	var analysis []YearlyState
	for _, s := range r.YearlyStates {
		if s.Year >= burnIn {
			analysis = append(analysis, s)
		}
	}
	if len(analysis) == 0 {
		return
	}

	var domSum, aggSum, popSum float64
	for _, s := range analysis {
		domSum += s.StrategyDominance
		aggSum += float64(s.AggregationSize)
		popSum += float64(s.TotalPopulation)
	}
	n := float64(len(analysis))

	r.FinalStrategyDominance = domSum / n
	r.MeanAggregationSize = aggSum / n
	r.MeanPopulation = popSum / n

	last := analysis[len(analysis)-1]
	r.FinalMonumentLevel = last.MonumentLevel
	r.TotalExotics = last.TotalExotics
}
