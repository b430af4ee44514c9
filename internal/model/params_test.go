package model

import (
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default(0.5, 0.35, 42).Validate(); err != nil {
		t.Fatalf("default parameters invalid: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Parameters)
		wantSub string
	}{
		{
			name:    "zero bands",
			mutate:  func(p *Parameters) { p.Population.NBands = 0 },
			wantSub: "n_bands",
		},
		{
			name:    "sigma out of range",
			mutate:  func(p *Parameters) { p.Sigma = 1.5 },
			wantSub: "sigma",
		},
		{
			name:    "epsilon negative",
			mutate:  func(p *Parameters) { p.Epsilon = -0.1 },
			wantSub: "epsilon",
		},
		{
			name:    "burn-in past duration",
			mutate:  func(p *Parameters) { p.BurnIn = p.Duration },
			wantSub: "burn-in",
		},
		{
			name:    "max below min band size",
			mutate:  func(p *Parameters) { p.Population.MaxBandSize = 2 },
			wantSub: "max band size",
		},
		{
			name: "no patches",
			mutate: func(p *Parameters) {
				p.Environment.AquaticPatches = 0
				p.Environment.TerrestrialPatches = 0
				p.Environment.MastPatches = 0
				p.Environment.EcotonePatches = 0
			},
			wantSub: "patches",
		},
		{
			name:    "zero duration",
			mutate:  func(p *Parameters) { p.Duration = 0 },
			wantSub: "duration",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Default(0.5, 0.35, 42)
			tc.mutate(&p)
			err := p.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Errorf("error %q does not mention %q", err, tc.wantSub)
			}
		})
	}
}
