package ecology

import "math"

// Location is a point in the region, in km.
type Location struct {
	X float64
	Y float64
}

// Dist returns the Euclidean distance to another location.
func (l Location) Dist(o Location) float64 {
	dx := l.X - o.X
	dy := l.Y - o.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Patch is a resource patch with a primary zone type. Patches are owned
// exclusively by the Environment; the annual shock is re-sampled every year.
type Patch struct {
	ID          int
	Zone        Zone
	Loc         Location
	BaseProd    float64 // average productivity, relative units
	Variability float64 // SD of the inter-annual shock

	// AnnualShock is this year's productivity deviation, set by
	// Environment.AdvanceYear.
	AnnualShock float64
}

// SeasonalProductivity returns the patch productivity for a month,
// combining base productivity, the zone's seasonal multiplier, and the
// current year's shock. Floored at 0.
func (p *Patch) SeasonalProductivity(month int) float64 {
	mult := Profile(p.Zone).Multiplier(month)
	return math.Max(0.0, p.BaseProd*mult+p.AnnualShock)
}
