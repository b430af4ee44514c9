// Command ppsim runs a single Poverty Point aggregation simulation and
// stores the results.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/clipo/poverty-point-signaling/internal/engine"
	"github.com/clipo/poverty-point-signaling/internal/model"
	"github.com/clipo/poverty-point-signaling/internal/persistence"
	"github.com/clipo/poverty-point-signaling/internal/scenario"
)

func main() {
	var (
		scenarioName = flag.String("scenario", "", "builtin scenario name (low, high, povertypoint, critical)")
		scenarioFile = flag.String("scenario-file", "", "YAML scenario file (overrides -scenario)")
		sigma        = flag.Float64("sigma", 0.5, "environmental uncertainty in [0,1]")
		epsilon      = flag.Float64("epsilon", 0.35, "ecotone advantage in [0,1]")
		seed         = flag.Int64("seed", 42, "random seed")
		years        = flag.Int("years", 600, "simulation duration in years")
		burnIn       = flag.Int("burnin", 100, "years excluded from summary statistics")
		dbPath       = flag.String("db", "data/povertypoint.db", "results database path (empty to skip)")
		verbose      = flag.Bool("v", false, "verbose progress logging")
		debug        = flag.Bool("debug", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	sim, err := buildSimulation(*scenarioName, *scenarioFile, *sigma, *epsilon, *seed, *years, *burnIn)
	if err != nil {
		slog.Error("setup failed", "error", err)
		os.Exit(1)
	}

	results := sim.Run(*verbose)

	slog.Info("run summary",
		"sigma", results.Sigma,
		"epsilon", results.Epsilon,
		"final_dominance", fmt.Sprintf("%.3f", results.FinalStrategyDominance),
		"mean_aggregation", fmt.Sprintf("%.1f", results.MeanAggregationSize),
		"final_monument", fmt.Sprintf("%.0f", results.FinalMonumentLevel),
		"total_exotics", results.TotalExotics,
		"mean_population", fmt.Sprintf("%.0f", results.MeanPopulation),
		"sigma_star", fmt.Sprintf("%.3f", results.SigmaStarTheoretical),
	)

	if *dbPath == "" {
		return
	}

	os.MkdirAll(filepath.Dir(*dbPath), 0755)
	db, err := persistence.Open(*dbPath)
	if err != nil {
		slog.Error("failed to open results database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	runID, err := db.SaveRun(results)
	if err != nil {
		slog.Error("failed to save run", "error", err)
		os.Exit(1)
	}
	slog.Info("run saved", "run_id", runID, "path", *dbPath)
}

func buildSimulation(name, file string, sigma, epsilon float64, seed int64, years, burnIn int) (*engine.Simulation, error) {
	switch {
	case file != "":
		sc, err := scenario.Load(file)
		if err != nil {
			return nil, err
		}
		return sc.NewSimulation()
	case name != "":
		sc, err := scenario.Get(name)
		if err != nil {
			return nil, err
		}
		return sc.NewSimulation()
	default:
		params := model.Default(sigma, epsilon, seed)
		params.Duration = years
		params.BurnIn = burnIn
		return engine.New(params)
	}
}
