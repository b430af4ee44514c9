package sweep

import (
	"context"
	"testing"
)

func smallGrid() Grid {
	return Grid{
		Sigmas:     []float64{0.3, 0.6},
		Epsilons:   []float64{0.2, 0.4},
		Replicates: 2,
		Duration:   40,
		BurnIn:     10,
		BaseSeed:   42,
		Workers:    4,
	}
}

func TestGridSize(t *testing.T) {
	if got := smallGrid().Size(); got != 8 {
		t.Errorf("Size() = %d, want 8", got)
	}
	if got := (Grid{}).Size(); got != 0 {
		t.Errorf("empty grid Size() = %d, want 0", got)
	}
}

func TestRunOrderingAndSeeds(t *testing.T) {
	g := smallGrid()
	points, err := Run(context.Background(), g)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(points) != g.Size() {
		t.Fatalf("got %d points, want %d", len(points), g.Size())
	}

	// Points come back in grid order regardless of worker scheduling,
	// with per-index seeds.
	idx := 0
	for _, sigma := range g.Sigmas {
		for _, epsilon := range g.Epsilons {
			for rep := 0; rep < g.Replicates; rep++ {
				p := points[idx]
				if p.Sigma != sigma || p.Epsilon != epsilon || p.Replicate != rep {
					t.Fatalf("point %d is (%v,%v,rep %d), want (%v,%v,rep %d)",
						idx, p.Sigma, p.Epsilon, p.Replicate, sigma, epsilon, rep)
				}
				if want := g.BaseSeed + int64(idx)*1000; p.Seed != want {
					t.Fatalf("point %d seed %d, want %d", idx, p.Seed, want)
				}
				if p.Results == nil || len(p.Results.YearlyStates) != g.Duration {
					t.Fatalf("point %d missing results", idx)
				}
				idx++
			}
		}
	}
}

func TestRunReproducible(t *testing.T) {
	g := smallGrid()
	g.Workers = 1
	a, err := Run(context.Background(), g)
	if err != nil {
		t.Fatal(err)
	}
	g.Workers = 4
	b, err := Run(context.Background(), g)
	if err != nil {
		t.Fatal(err)
	}

	for i := range a {
		if a[i].Results.FinalStrategyDominance != b[i].Results.FinalStrategyDominance {
			t.Fatalf("point %d diverges across worker counts: %v vs %v",
				i, a[i].Results.FinalStrategyDominance, b[i].Results.FinalStrategyDominance)
		}
	}
}

func TestRunEmptyGrid(t *testing.T) {
	if _, err := Run(context.Background(), Grid{}); err == nil {
		t.Fatal("no error for empty grid")
	}
}

func TestRunCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Run(ctx, smallGrid()); err == nil {
		t.Fatal("no error with canceled context")
	}
}
