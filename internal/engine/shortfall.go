package engine

import (
	"math"
	"math/rand"
)

// ShortfallParams control the renewal/hazard process that generates
// multi-year episodes of reduced productivity.
type ShortfallParams struct {
	MeanInterval  float64 // mean years between shortfall onsets
	MagnitudeMean float64 // mean depth of the productivity reduction
	MagnitudeStd  float64
	DurationScale float64 // duration = max(1, round(1 + magnitude*scale))
}

// DeriveShortfall maps the uncertainty parameter sigma onto shortfall
// hazard parameters: higher sigma means more frequent and more severe
// episodes. At sigma=0.2 the mean interval is ~21 years; at sigma=0.8,
// ~9 years.
func DeriveShortfall(sigma float64) ShortfallParams {
	return ShortfallParams{
		MeanInterval:  20.0*(1.0-sigma) + 5.0,
		MagnitudeMean: 0.3 + 0.5*sigma,
		MagnitudeStd:  0.1,
		DurationScale: 2.5,
	}
}

// shortfallState tracks the current episode of the renewal process.
type shortfallState struct {
	active    bool
	magnitude float64
	remaining int // further years in the current episode, after this one
}

// advance steps the renewal process one year: a continuing episode burns
// down its remaining duration; otherwise a new episode starts with
// probability 1/MeanInterval, drawing magnitude ~ N(mean, std) clipped to
// [0.2, 0.9] and a duration that grows with magnitude. The first year after
// an episode ends is subject to the onset draw like any other, so back-to-
// back episodes are possible.
func (s *shortfallState) advance(p ShortfallParams, rng *rand.Rand) {
	if s.remaining > 0 {
		s.remaining--
		return
	}

	if p.MeanInterval <= 0 || rng.Float64() >= 1.0/p.MeanInterval {
		s.active = false
		s.magnitude = 0.0
		return
	}

	magnitude := p.MagnitudeMean + rng.NormFloat64()*p.MagnitudeStd
	magnitude = math.Max(0.2, math.Min(0.9, magnitude))

	s.active = true
	s.magnitude = magnitude
	// The onset year counts toward the duration.
	s.remaining = maxInt(1, int(math.Round(1.0+magnitude*p.DurationScale))) - 1
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
