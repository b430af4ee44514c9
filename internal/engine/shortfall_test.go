package engine

import (
	"math/rand"
	"testing"
)

func TestDeriveShortfall(t *testing.T) {
	cases := []struct {
		sigma        float64
		wantInterval float64
		wantMagMean  float64
	}{
		{0.0, 25.0, 0.30},
		{0.2, 21.0, 0.40},
		{0.8, 9.0, 0.70},
		{1.0, 5.0, 0.80},
	}
	for _, tc := range cases {
		p := DeriveShortfall(tc.sigma)
		if p.MeanInterval != tc.wantInterval {
			t.Errorf("sigma=%v: interval %v, want %v", tc.sigma, p.MeanInterval, tc.wantInterval)
		}
		if p.MagnitudeMean != tc.wantMagMean {
			t.Errorf("sigma=%v: magnitude mean %v, want %v", tc.sigma, p.MagnitudeMean, tc.wantMagMean)
		}
	}
}

func TestShortfallMagnitudeClipped(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	// Force frequent onsets with an extreme magnitude distribution.
	p := ShortfallParams{MeanInterval: 1, MagnitudeMean: 0.5, MagnitudeStd: 5.0, DurationScale: 2.5}

	var st shortfallState
	for i := 0; i < 500; i++ {
		st.advance(p, rng)
		if st.active && (st.magnitude < 0.2 || st.magnitude > 0.9) {
			t.Fatalf("magnitude %v outside [0.2,0.9]", st.magnitude)
		}
	}
}

func TestShortfallEpisodeDuration(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	p := ShortfallParams{MeanInterval: 1, MagnitudeMean: 0.9, MagnitudeStd: 0, DurationScale: 2.5}

	var st shortfallState
	st.advance(p, rng)
	if !st.active {
		t.Fatal("no onset at interval 1")
	}
	// magnitude 0.9 gives round(1 + 0.9*2.5) = 3 years including onset.
	if st.remaining != 2 {
		t.Errorf("remaining %d after onset, want 2", st.remaining)
	}

	// Burn down the rest of the episode with the onset draw disabled: the
	// episode stays active at the same magnitude until it runs out.
	quiet := ShortfallParams{MeanInterval: 1e12, MagnitudeMean: 0.9, DurationScale: 2.5}
	for year := 2; year <= 3; year++ {
		st.advance(quiet, rng)
		if !st.active || st.magnitude != 0.9 {
			t.Fatalf("year %d: active=%v magnitude=%v, want active at 0.9", year, st.active, st.magnitude)
		}
	}
	st.advance(quiet, rng)
	if st.active || st.magnitude != 0 {
		t.Errorf("episode did not end after 3 years: active=%v magnitude=%v", st.active, st.magnitude)
	}
}

func TestShortfallNoRefractoryYear(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	// Onset probability 1 with 1-year episodes: the year after an episode
	// ends gets its own onset draw, so the process is active every year.
	p := ShortfallParams{MeanInterval: 1, MagnitudeMean: 0.5, MagnitudeStd: 0, DurationScale: 0}

	var st shortfallState
	for year := 0; year < 100; year++ {
		st.advance(p, rng)
		if !st.active {
			t.Fatalf("year %d inactive at onset probability 1", year)
		}
	}
}

func TestShortfallFrequencyRisesWithSigma(t *testing.T) {
	activeYears := func(sigma float64, seed int64) int {
		rng := rand.New(rand.NewSource(seed))
		p := DeriveShortfall(sigma)
		var st shortfallState
		n := 0
		for i := 0; i < 5000; i++ {
			st.advance(p, rng)
			if st.active {
				n++
			}
		}
		return n
	}

	low := activeYears(0.2, 3)
	high := activeYears(0.8, 3)
	if low >= high {
		t.Errorf("active years at sigma=0.2 (%d) >= sigma=0.8 (%d)", low, high)
	}
}
