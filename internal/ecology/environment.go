package ecology

import (
	"log/slog"
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/clipo/poverty-point-signaling/internal/model"
)

// Config holds the environment construction parameters.
type Config struct {
	RegionSize float64 // km

	AquaticPatches     int
	TerrestrialPatches int
	MastPatches        int
	EcotonePatches     int

	AquaticProductivity     float64
	TerrestrialProductivity float64
	MastProductivity        float64
	EcotoneProductivity     float64

	AquaticVariability     float64
	TerrestrialVariability float64
	MastVariability        float64
	EcotoneVariability     float64

	AquaticTerrestrialCov float64
	AquaticMastCov        float64
	TerrestrialMastCov    float64

	// Same-zone and ecotone-cross correlations for the shock structure.
	SameZoneCov     float64
	EcotoneCrossCov float64
}

// DefaultConfig returns the baseline landscape configuration.
func DefaultConfig() Config {
	return Config{
		RegionSize: 500.0,

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

		SameZoneCov:     0.5,
		EcotoneCrossCov: 0.1,
	}
}

// FromParams builds a Config from the run parameter set.
func FromParams(ep model.EnvironmentParams) Config {
	cfg := DefaultConfig()
	cfg.RegionSize = ep.RegionSize
	cfg.AquaticPatches = ep.AquaticPatches
	cfg.TerrestrialPatches = ep.TerrestrialPatches
	cfg.MastPatches = ep.MastPatches
	cfg.EcotonePatches = ep.EcotonePatches
	cfg.AquaticProductivity = ep.AquaticProductivity
	cfg.TerrestrialProductivity = ep.TerrestrialProductivity
	cfg.MastProductivity = ep.MastProductivity
	cfg.EcotoneProductivity = ep.EcotoneProductivity
	cfg.AquaticVariability = ep.AquaticVariability
	cfg.TerrestrialVariability = ep.TerrestrialVariability
	cfg.MastVariability = ep.MastVariability
	cfg.EcotoneVariability = ep.EcotoneVariability
	cfg.AquaticTerrestrialCov = ep.AquaticTerrestrialCov
	cfg.AquaticMastCov = ep.AquaticMastCov
	cfg.TerrestrialMastCov = ep.TerrestrialMastCov
	return cfg
}

// LocationValue is the resource accessibility summary for a point.
type LocationValue struct {
	ByZone          [zoneCount]float64
	ZonesAccessible int
	DiversityBonus  float64
	Total           float64
}

// Environment owns the patch collection and the covariance structure for
// correlated annual shocks. Built once at simulation start; advanced one
// year at a time.
type Environment struct {
	Config  Config
	Patches []*Patch
	Year    int

	cov  *symMatrix
	chol *symMatrix // nil when factorization failed; shocks fall back to independent

	// Scratch buffers reused across years.
	z      []float64
	shocks []float64
}

// New builds the landscape: patch placement, the base-productivity noise
// field, and the repaired covariance matrix. All randomness comes from rng.
func New(cfg Config, rng *rand.Rand) *Environment {
	env := &Environment{Config: cfg}
	env.createPatches(rng)
	env.buildCovariance()

	n := len(env.Patches)
	env.z = make([]float64, n)
	env.shocks = make([]float64, n)
	return env
}

// createPatches distributes patches across the region: aquatic along the
// central bayou axis, terrestrial scattered through the uplands, mast
// clustered in the western hardwoods, ecotone clustered at the center
// where the zones meet. A simplex noise field perturbs base productivity
// so nearby patches share local quality.
func (env *Environment) createPatches(rng *rand.Rand) {
	cfg := env.Config
	center := cfg.RegionSize / 2
	prodNoise := opensimplex.NewNormalized(rng.Int63())

	id := 0
	add := func(zone Zone, loc Location, base, variability float64) {
		loc.X = math.Max(0, math.Min(cfg.RegionSize, loc.X))
		loc.Y = math.Max(0, math.Min(cfg.RegionSize, loc.Y))
		// Noise field in [0,1] shifted to roughly +/-0.05 around the zone base.
		perturb := (prodNoise.Eval2(loc.X*0.01, loc.Y*0.01) - 0.5) * 0.1
		env.Patches = append(env.Patches, &Patch{
			ID:          id,
			Zone:        zone,
			Loc:         loc,
			BaseProd:    math.Max(0.05, base+perturb),
			Variability: variability,
		})
		id++
	}

	// Aquatic: linear distribution along the central river axis.
	for i := 0; i < cfg.AquaticPatches; i++ {
		loc := Location{
			X: center + rng.NormFloat64()*50,
			Y: rng.Float64() * cfg.RegionSize,
		}
		add(ZoneAquatic, loc, cfg.AquaticProductivity, cfg.AquaticVariability)
	}

	// Terrestrial: widely scattered uplands.
	for i := 0; i < cfg.TerrestrialPatches; i++ {
		loc := Location{X: rng.Float64() * cfg.RegionSize, Y: rng.Float64() * cfg.RegionSize}
		add(ZoneTerrestrial, loc, cfg.TerrestrialProductivity, cfg.TerrestrialVariability)
	}

	// Mast: clustered hardwood stands west of center.
	for i := 0; i < cfg.MastPatches; i++ {
		loc := Location{
			X: center - 100 + rng.NormFloat64()*80,
			Y: center + rng.NormFloat64()*80,
		}
		add(ZoneMast, loc, cfg.MastProductivity, cfg.MastVariability)
	}

	// Ecotone: tight cluster at the center where zones intersect.
	for i := 0; i < cfg.EcotonePatches; i++ {
		loc := Location{
			X: center + rng.NormFloat64()*30,
			Y: center + rng.NormFloat64()*30,
		}
		add(ZoneEcotone, loc, cfg.EcotoneProductivity, cfg.EcotoneVariability)
	}
}

// zonePairCov returns the correlation rule for a pair of zones.
func (env *Environment) zonePairCov(a, b Zone) float64 {
	if a == b {
		return env.Config.SameZoneCov
	}
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	switch {
	case lo == ZoneAquatic && hi == ZoneTerrestrial:
		return env.Config.AquaticTerrestrialCov
	case lo == ZoneAquatic && hi == ZoneMast:
		return env.Config.AquaticMastCov
	case lo == ZoneTerrestrial && hi == ZoneMast:
		return env.Config.TerrestrialMastCov
	default:
		// Ecotone crosses every other zone weakly.
		return env.Config.EcotoneCrossCov
	}
}

// buildCovariance assembles the per-patch shock covariance from the
// zone-pair rules and repairs it when the result is indefinite. The repair
// adds |lambda_min|+0.01 to the diagonal; this magnitude is logged so
// numeric results stay reproducible.
func (env *Environment) buildCovariance() {
	n := len(env.Patches)
	cov := newSymMatrix(n)
	for i := 0; i < n; i++ {
		cov.set(i, i, 1.0)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pi, pj := env.Patches[i], env.Patches[j]
			rule := env.zonePairCov(pi.Zone, pj.Zone)
			cov.set(i, j, rule*math.Sqrt(pi.Variability*pi.Variability*pj.Variability*pj.Variability))
		}
	}

	if min := cov.minEigenvalue(); min < 0 {
		load := math.Abs(min) + 0.01
		cov.addDiagonal(load)
		slog.Debug("covariance repaired", "min_eigenvalue", min, "diagonal_load", load)
	}

	env.cov = cov
	chol, ok := cov.cholesky()
	if !ok {
		// Sampling falls back to independent per-patch shocks.
		slog.Warn("covariance factorization failed, using independent shocks")
		chol = nil
	}
	env.chol = chol
}

// CovMinEigenvalue reports the smallest eigenvalue of the (repaired)
// covariance matrix.
func (env *Environment) CovMinEigenvalue() float64 {
	return env.cov.minEigenvalue()
}

// AdvanceYear draws one joint shock vector and writes it onto the patches.
func (env *Environment) AdvanceYear(rng *rand.Rand) {
	env.Year++

	n := len(env.Patches)
	for i := 0; i < n; i++ {
		env.z[i] = rng.NormFloat64()
	}

	if env.chol != nil {
		env.chol.mulVecLower(env.z, env.shocks)
	} else {
		copy(env.shocks, env.z)
	}

	for i, p := range env.Patches {
		p.AnnualShock = env.shocks[i] * p.Variability
	}
}

// ZoneProductivity returns the mean productivity across patches of one
// zone for a month.
func (env *Environment) ZoneProductivity(zone Zone, month int) float64 {
	sum := 0.0
	count := 0
	for _, p := range env.Patches {
		if p.Zone == zone {
			sum += p.SeasonalProductivity(month)
			count++
		}
	}
	if count == 0 {
		return 0.0
	}
	return sum / float64(count)
}

// Value aggregates the current productivity reachable from a location,
// weighting each patch by linear distance decay within the access radius
// and adding a diversity bonus of 0.1 per additional zone type reachable.
// The diversity bonus is what makes ecotone placement valuable.
func (env *Environment) Value(loc Location, radius float64, month int) LocationValue {
	var v LocationValue
	var reachable [zoneCount]int

	for _, p := range env.Patches {
		d := p.Loc.Dist(loc)
		if d > radius {
			continue
		}
		weight := 1.0 - d/radius
		v.ByZone[p.Zone] += p.SeasonalProductivity(month) * weight
		reachable[p.Zone]++
	}

	for _, n := range reachable {
		if n > 0 {
			v.ZonesAccessible++
		}
	}
	if v.ZonesAccessible > 1 {
		v.DiversityBonus = 0.1 * float64(v.ZonesAccessible-1)
	}

	for _, val := range v.ByZone {
		v.Total += val
	}
	v.Total += v.DiversityBonus
	return v
}

// FindAggregationSite searches random candidate points for the location
// maximizing resource value. Used once at setup to place the aggregation
// site; evaluated at the summer aggregation season.
func (env *Environment) FindAggregationSite(candidates int, radius float64, rng *rand.Rand) (Location, float64) {
	const month = 7 // mid aggregation season

	best := Location{X: env.Config.RegionSize / 2, Y: env.Config.RegionSize / 2}
	bestValue := 0.0

	for i := 0; i < candidates; i++ {
		loc := Location{
			X: rng.Float64() * env.Config.RegionSize,
			Y: rng.Float64() * env.Config.RegionSize,
		}
		if v := env.Value(loc, radius, month); v.Total > bestValue {
			bestValue = v.Total
			best = loc
		}
	}
	return best, bestValue
}
