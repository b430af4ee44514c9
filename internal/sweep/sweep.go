// Package sweep runs phase-space grids of independent simulations in
// parallel. Each grid point gets its own Simulation instance, so workers
// share no mutable state.
package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/clipo/poverty-point-signaling/internal/engine"
	"github.com/clipo/poverty-point-signaling/internal/model"
)

// Grid describes a sigma × epsilon × replicate sweep.
type Grid struct {
	Sigmas     []float64
	Epsilons   []float64
	Replicates int
	Duration   int
	BurnIn     int
	BaseSeed   int64
	Workers    int
}

// DefaultGrid covers the phase space at coarse resolution.
func DefaultGrid() Grid {
	return Grid{
		Sigmas:     []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9},
		Epsilons:   []float64{0.0, 0.2, 0.35, 0.5, 0.7},
		Replicates: 3,
		Duration:   400,
		BurnIn:     100,
		BaseSeed:   42,
		Workers:    runtime.NumCPU(),
	}
}

// Point is the outcome of one grid cell replicate.
type Point struct {
	Sigma     float64
	Epsilon   float64
	Replicate int
	Seed      int64
	Results   *engine.Results
}

// Size returns the total number of runs in the grid.
func (g Grid) Size() int {
	return len(g.Sigmas) * len(g.Epsilons) * g.Replicates
}

// Run executes the grid over a worker pool and returns points ordered by
// grid position (sigma-major, then epsilon, then replicate). Seeds are
// derived from BaseSeed and the point index, so the sweep is reproducible
// independent of scheduling.
func Run(ctx context.Context, g Grid) ([]Point, error) {
	total := g.Size()
	if total == 0 {
		return nil, fmt.Errorf("empty sweep grid")
	}

	type job struct {
		idx       int
		sigma     float64
		epsilon   float64
		replicate int
	}
	type result struct {
		idx   int
		point Point
		err   error
	}

	jobs := make(chan job)
	results := make(chan result, total)

	workerCount := g.Workers
	if workerCount < 1 {
		workerCount = 1
	}
	if workerCount > total {
		workerCount = total
	}

	var wg sync.WaitGroup
	wg.Add(workerCount)
	for w := 0; w < workerCount; w++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				if err := ctx.Err(); err != nil {
					results <- result{idx: j.idx, err: err}
					continue
				}

				seed := g.BaseSeed + int64(j.idx)*1000
				params := model.Default(j.sigma, j.epsilon, seed)
				params.Duration = g.Duration
				params.BurnIn = g.BurnIn

				sim, err := engine.New(params)
				if err != nil {
					results <- result{idx: j.idx, err: err}
					continue
				}

				res := sim.Run(false)
				results <- result{idx: j.idx, point: Point{
					Sigma:     j.sigma,
					Epsilon:   j.epsilon,
					Replicate: j.replicate,
					Seed:      seed,
					Results:   res,
				}}
			}
		}()
	}

	idx := 0
	for _, sigma := range g.Sigmas {
		for _, epsilon := range g.Epsilons {
			for rep := 0; rep < g.Replicates; rep++ {
				jobs <- job{idx: idx, sigma: sigma, epsilon: epsilon, replicate: rep}
				idx++
			}
		}
	}
	close(jobs)

	wg.Wait()
	close(results)

	points := make([]Point, total)
	done := 0
	for res := range results {
		if res.err != nil {
			return nil, res.err
		}
		points[res.idx] = res.point
		done++
	}

	slog.Info("sweep complete", "points", done, "workers", workerCount)
	return points, nil
}
