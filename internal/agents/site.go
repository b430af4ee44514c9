package agents

import (
	"github.com/clipo/poverty-point-signaling/internal/ecology"
	"github.com/clipo/poverty-point-signaling/internal/model"
)

// Site is the central aggregation location bands gather at seasonally.
// One instance exists per run; attendance resets each year while the
// monument level only ever grows.
type Site struct {
	ID               int
	Name             string
	Loc              ecology.Location
	EcotoneAdvantage float64 // epsilon for this location

	MonumentLevel   float64   // cumulative investment, non-decreasing
	MonumentHistory []float64 // level after each recorded year

	Attending           []int // band IDs registered this year
	AttendingPopulation int
	TotalExotics        int

	attendingSet map[int]struct{}
}

// NewSite creates the aggregation site at the given location.
func NewSite(loc ecology.Location, epsilon float64, name string) *Site {
	return &Site{
		ID:               0,
		Name:             name,
		Loc:              loc,
		EcotoneAdvantage: epsilon,
		attendingSet:     make(map[int]struct{}),
	}
}

// ResetYear clears attendance for a new year. The monument level persists.
func (s *Site) ResetYear() {
	s.Attending = s.Attending[:0]
	s.AttendingPopulation = 0
	clear(s.attendingSet)
}

// AddAttendingBand registers a band for this year's aggregation;
// idempotent by band ID.
func (s *Site) AddAttendingBand(b *Band) {
	if _, seen := s.attendingSet[b.ID]; seen {
		return
	}
	s.attendingSet[b.ID] = struct{}{}
	s.Attending = append(s.Attending, b.ID)
	s.AttendingPopulation += b.Size
	s.TotalExotics += b.ExoticGoods
}

// NAttending returns the number of bands registered this year.
func (s *Site) NAttending() int {
	return len(s.Attending)
}

// RecordConstruction adds this year's investment to the cumulative
// monument level and appends to the history.
func (s *Site) RecordConstruction(investment float64) {
	s.MonumentLevel += investment
	s.MonumentHistory = append(s.MonumentHistory, s.MonumentLevel)
}

// CooperationBenefit evaluates the fitness model's cooperation function at
// the current attendance size.
func (s *Site) CooperationBenefit(p model.Parameters) float64 {
	return model.CooperationBenefit(float64(s.NAttending()), p.Cooperation)
}
