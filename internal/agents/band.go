// Package agents defines the decision-making units of the simulation:
// mobile hunter-gatherer bands and the aggregation site they gather at.
package agents

import (
	"math"
	"math/rand"

	"github.com/clipo/poverty-point-signaling/internal/ecology"
	"github.com/clipo/poverty-point-signaling/internal/model"
)

// Strategy is a band's annual choice between aggregating at the central
// site and remaining dispersed.
type Strategy uint8

const (
	Aggregator Strategy = iota
	Independent
)

// StrategyName returns a human-readable strategy name.
func StrategyName(s Strategy) string {
	if s == Aggregator {
		return "aggregator"
	}
	return "independent"
}

// Decision-rule constants. The temperature makes the logistic choice
// moderately deterministic rather than a hard threshold; the memory nudge
// keeps a band on a strategy that has recently paid off.
const (
	decisionTemperature = 10.0
	memoryWindow        = 5
	memoryNudge         = 0.05
)

// Band is a mobile hunter-gatherer band. Bands are created at simulation
// start and persist for the whole run; size is floor-clamped rather than
// allowing extinction.
type Band struct {
	ID       int
	Size     int // individuals, >= 1
	Home     ecology.Location
	Strategy Strategy

	Resources float64 // current holdings, clamped to [0,1]

	// Signaling state.
	Prestige        float64
	MonumentContrib float64
	ExoticGoods     int

	// Obligations maps partner band ID to reciprocal obligation strength
	// in [0,1]. Edges decay on use and are deleted when too weak.
	Obligations map[int]float64

	// Parallel per-year histories.
	StrategyHistory    []Strategy
	AggregationHistory []bool
	FitnessHistory     []float64
}

// NewBands creates the initial band population, distributed uniformly
// across the region with a slight initial bias toward independence.
func NewBands(pop model.PopulationParams, regionSize float64, rng *rand.Rand) []*Band {
	bands := make([]*Band, 0, pop.NBands)
	for i := 0; i < pop.NBands; i++ {
		strategy := Independent
		if rng.Float64() < 0.4 {
			strategy = Aggregator
		}

		size := pop.InitialBandSize + rng.Intn(11) - 5
		if size < pop.MinBandSize {
			size = pop.MinBandSize
		}

		bands = append(bands, &Band{
			ID:   i,
			Size: size,
			Home: ecology.Location{
				X: rng.Float64() * regionSize,
				Y: rng.Float64() * regionSize,
			},
			Strategy:    strategy,
			Resources:   0.4 + 0.2*rng.Float64(),
			Obligations: make(map[int]float64),
		})
	}
	return bands
}

// DecideStrategy re-evaluates the band's strategy for the coming year.
//
// The fitness difference W_agg - W_ind is adjusted by a memory effect
// (with at least memoryWindow years of history, recent performance above
// the long-run mean reinforces the previous choice) and fed through a
// logistic rule P(aggregate) = 1/(1+e^(-T*diff)). The softness of this
// rule is what produces gradual strategy drift near the threshold.
func (b *Band) DecideStrategy(expectedN, sigma, epsilon float64, p model.Parameters, rng *rand.Rand) Strategy {
	wAgg := model.AggregatorFitness(sigma, epsilon, expectedN, p)
	wInd := model.IndependentFitness(sigma, p)
	diff := wAgg - wInd

	if len(b.FitnessHistory) >= memoryWindow && len(b.AggregationHistory) > 0 {
		recent := mean(b.FitnessHistory[len(b.FitnessHistory)-memoryWindow:])
		longTerm := mean(b.FitnessHistory)

		wasAggregator := b.AggregationHistory[len(b.AggregationHistory)-1]
		paidOff := recent > longTerm
		switch {
		case wasAggregator && paidOff:
			diff += memoryNudge
		case wasAggregator && !paidOff:
			diff -= memoryNudge
		case !wasAggregator && paidOff:
			diff -= memoryNudge
		default:
			diff += memoryNudge
		}
	}

	pAggregate := 1.0 / (1.0 + math.Exp(-decisionTemperature*diff))
	if rng.Float64() < pAggregate {
		return Aggregator
	}
	return Independent
}

// TravelCost returns the resource cost of traveling to a destination.
func (b *Band) TravelCost(dest ecology.Location, costPerKm float64) float64 {
	return b.Home.Dist(dest) * costPerKm
}

// InvestInMonument invests resources in monument construction and returns
// the amount invested. Requires resources of at least 0.3; the investment
// is proportional to band size and resources with +/-20% multiplicative
// noise, and raises both cumulative contribution and prestige.
func (b *Band) InvestInMonument(rate float64, rng *rand.Rand) float64 {
	if b.Resources < 0.3 {
		return 0.0
	}

	investment := float64(b.Size) * rate * b.Resources * (0.8 + 0.4*rng.Float64())
	b.MonumentContrib += investment
	b.Prestige += investment * 0.1
	return investment
}

// AcquireExotic attempts to acquire one exotic good. Acquisition
// probability rises with prestige; success consumes resources and raises
// prestige further.
func (b *Band) AcquireExotic(cost float64, rng *rand.Rand) bool {
	if b.Resources < cost+0.2 {
		return false
	}

	pAcquire := 0.3 * (1.0 + b.Prestige/(1.0+b.Prestige))
	if rng.Float64() >= pAcquire {
		return false
	}

	b.ExoticGoods++
	b.Resources -= cost
	b.Prestige += 0.15
	return true
}

// FormObligation creates or strengthens a reciprocal-aid edge to another
// band, capped at strength 1.0.
func (b *Band) FormObligation(partnerID int, strength float64) {
	b.Obligations[partnerID] = math.Min(1.0, b.Obligations[partnerID]+strength)
}

// CallObligation draws on an obligation during shortfall and returns the
// help received: at most half the edge strength, capped by the stated
// need. Calling weakens the edge; edges below 0.05 are deleted.
func (b *Band) CallObligation(partnerID int, need float64) float64 {
	strength, ok := b.Obligations[partnerID]
	if !ok {
		return 0.0
	}

	help := math.Min(need, strength*0.5)
	strength *= 0.7
	if strength < 0.05 {
		delete(b.Obligations, partnerID)
	} else {
		b.Obligations[partnerID] = strength
	}
	return help
}

// Reproduce applies one year of births and baseline deaths. Births are
// binomial with a rate scaled by realized fitness and current resources;
// net size is floored at 1.
func (b *Band) Reproduce(fitness, birthRate, deathRate float64, rng *rand.Rand) {
	effectiveBirthRate := birthRate * fitness * (0.5 + b.Resources)
	births := binomial(b.Size, effectiveBirthRate, rng)
	deaths := binomial(b.Size, deathRate, rng)

	b.Size = maxInt(1, b.Size+births-deaths)
}

// SufferShortfall applies shortfall mortality with rate vulnerability*sigma
// and returns the number of deaths. Size is floored at 1.
func (b *Band) SufferShortfall(vulnerability, sigma float64, rng *rand.Rand) int {
	deaths := binomial(b.Size, vulnerability*sigma, rng)
	b.Size = maxInt(1, b.Size-deaths)
	return deaths
}

// ClampResources restores the [0,1] resource invariant after a mutation.
func (b *Band) ClampResources() {
	if b.Resources < 0 {
		b.Resources = 0
	} else if b.Resources > 1 {
		b.Resources = 1
	}
}

// binomial draws from Binomial(n, p) by direct Bernoulli summation. Band
// sizes are small, so the O(n) draw is the simple and deterministic choice.
func binomial(n int, p float64, rng *rand.Rand) int {
	if p <= 0 || n <= 0 {
		return 0
	}
	if p >= 1 {
		return n
	}
	k := 0
	for i := 0; i < n; i++ {
		if rng.Float64() < p {
			k++
		}
	}
	return k
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
