// Analytic fitness model: expected fitness for each strategy and the
// closed-form critical threshold separating them. These are pure functions
// of scalar inputs; the simulation and external theory overlays both call
// them, so the closed forms have to stay exact.
package model

import "math"

// CooperationBenefit is the multiplicative fitness bonus from aggregating
// with n bands:
//
//	f(n) = 1 + b*ln(n) - c*(n - n_opt)^2 for n above the optimum
//
// floored at 1.0, so cooperation never nets below the solo baseline.
func CooperationBenefit(n float64, coop CooperationParams) float64 {
	if n <= 1 {
		return 1.0
	}

	benefit := 1.0 + coop.BCoop*math.Log(n)

	if n > float64(coop.NOptimal) {
		crowding := coop.CCrowd * (n - float64(coop.NOptimal)) * (n - float64(coop.NOptimal))
		benefit -= crowding
	}

	return math.Max(1.0, benefit)
}

// AggregatorFitness is expected fitness for the aggregator strategy:
//
//	W_agg = (1 - C_total) * (1 - alpha*sigma*(1-epsilon)) * f(n) * (1 + B_recip)
//
// The ecotone advantage epsilon linearly discounts the uncertainty an
// aggregator experiences. Floored at 0.
func AggregatorFitness(sigma, epsilon, n float64, p Parameters) float64 {
	sigmaEff := sigma * (1.0 - epsilon)
	survival := 1.0 - p.Vulnerability.AlphaAgg*sigmaEff
	fn := CooperationBenefit(n, p.Cooperation)
	recip := 1.0 + p.Cooperation.BRecip

	w := (1.0 - p.Costs.Total()) * survival * fn * recip
	return math.Max(0.0, w)
}

// IndependentFitness is expected fitness for the independent strategy:
//
//	W_ind = R_ind * (1 - beta*sigma)
//
// Independents forgo all aggregation costs but face undiscounted
// uncertainty. Floored at 0.
func IndependentFitness(sigma float64, p Parameters) float64 {
	survival := 1.0 - p.Vulnerability.BetaInd*sigma
	return math.Max(0.0, p.Cooperation.RInd*survival)
}

// CriticalThreshold solves W_agg(sigma*) = W_ind(sigma*) for sigma*:
//
//	sigma* = (R_ind - A) / (R_ind*beta - A*alpha*(1-epsilon))
//
// where A = (1 - C_total) * f(n) * (1 + B_recip). If the denominator or
// numerator is non-positive, aggregation strictly dominates at every
// uncertainty level and the threshold is 0; that is a modeled degenerate
// regime, not an error. The result is clamped to [0,1].
func CriticalThreshold(epsilon, n float64, p Parameters) float64 {
	fn := CooperationBenefit(n, p.Cooperation)
	a := (1.0 - p.Costs.Total()) * fn * (1.0 + p.Cooperation.BRecip)

	alphaEff := p.Vulnerability.AlphaAgg * (1.0 - epsilon)
	denom := p.Cooperation.RInd*p.Vulnerability.BetaInd - a*alphaEff
	if denom <= 0 {
		return 0.0
	}

	numer := p.Cooperation.RInd - a
	if numer <= 0 {
		return 0.0
	}

	sigmaStar := numer / denom
	return math.Max(0.0, math.Min(1.0, sigmaStar))
}
