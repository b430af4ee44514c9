// Command ppsweep runs a sigma × epsilon phase-space sweep and stores
// every run's summary and yearly series.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/clipo/poverty-point-signaling/internal/persistence"
	"github.com/clipo/poverty-point-signaling/internal/sweep"
)

func main() {
	var (
		sigmas     = flag.String("sigmas", "0.1,0.2,0.3,0.4,0.5,0.6,0.7,0.8,0.9", "comma-separated sigma values")
		epsilons   = flag.String("epsilons", "0.0,0.2,0.35,0.5,0.7", "comma-separated epsilon values")
		replicates = flag.Int("replicates", 3, "replicates per grid cell")
		years      = flag.Int("years", 400, "simulation duration in years")
		burnIn     = flag.Int("burnin", 100, "years excluded from summary statistics")
		baseSeed   = flag.Int64("seed", 42, "base random seed")
		workers    = flag.Int("workers", 0, "worker goroutines (0 = NumCPU)")
		dbPath     = flag.String("db", "data/povertypoint.db", "results database path")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	grid := sweep.DefaultGrid()
	grid.Replicates = *replicates
	grid.Duration = *years
	grid.BurnIn = *burnIn
	grid.BaseSeed = *baseSeed
	if *workers > 0 {
		grid.Workers = *workers
	}

	var err error
	if grid.Sigmas, err = parseFloats(*sigmas); err != nil {
		slog.Error("bad -sigmas", "error", err)
		os.Exit(1)
	}
	if grid.Epsilons, err = parseFloats(*epsilons); err != nil {
		slog.Error("bad -epsilons", "error", err)
		os.Exit(1)
	}

	slog.Info("sweep starting",
		"sigmas", len(grid.Sigmas),
		"epsilons", len(grid.Epsilons),
		"replicates", grid.Replicates,
		"runs", grid.Size(),
		"years", grid.Duration,
		"workers", grid.Workers,
	)

	points, err := sweep.Run(context.Background(), grid)
	if err != nil {
		slog.Error("sweep failed", "error", err)
		os.Exit(1)
	}

	os.MkdirAll(filepath.Dir(*dbPath), 0755)
	db, err := persistence.Open(*dbPath)
	if err != nil {
		slog.Error("failed to open results database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	for _, p := range points {
		if _, err := db.SaveRun(p.Results); err != nil {
			slog.Error("failed to save run", "sigma", p.Sigma, "epsilon", p.Epsilon, "error", err)
			os.Exit(1)
		}
	}

	slog.Info("sweep saved", "runs", len(points), "path", *dbPath)
}

func parseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", part, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no values in %q", s)
	}
	return out, nil
}
