// Package persistence provides SQLite-based storage of run results for
// downstream analysis and figure generation.
package persistence

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/clipo/poverty-point-signaling/internal/engine"
)

// DB wraps a SQLite connection for results storage.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		sigma REAL NOT NULL,
		epsilon REAL NOT NULL,
		seed INTEGER NOT NULL,
		years INTEGER NOT NULL,
		final_dominance REAL NOT NULL,
		mean_aggregation REAL NOT NULL,
		final_monument REAL NOT NULL,
		total_exotics INTEGER NOT NULL,
		mean_population REAL NOT NULL,
		sigma_star REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS yearly_states (
		run_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		total_population INTEGER NOT NULL,
		n_bands INTEGER NOT NULL,
		mean_band_size REAL NOT NULL,
		n_aggregators INTEGER NOT NULL,
		n_independents INTEGER NOT NULL,
		strategy_dominance REAL NOT NULL,
		aggregation_size INTEGER NOT NULL,
		aggregation_population INTEGER NOT NULL,
		monument_level REAL NOT NULL,
		annual_construction REAL NOT NULL,
		total_exotics INTEGER NOT NULL,
		effective_sigma REAL NOT NULL,
		in_shortfall INTEGER NOT NULL,
		shortfall_magnitude REAL NOT NULL,
		fitness_aggregators REAL NOT NULL,
		fitness_independents REAL NOT NULL,
		PRIMARY KEY (run_id, year)
	);

	CREATE INDEX IF NOT EXISTS idx_yearly_run ON yearly_states(run_id);
	CREATE INDEX IF NOT EXISTS idx_runs_phase ON runs(sigma, epsilon);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// RunRecord is the summary row stored per run.
type RunRecord struct {
	ID              string  `db:"id"`
	CreatedAt       string  `db:"created_at"`
	Sigma           float64 `db:"sigma"`
	Epsilon         float64 `db:"epsilon"`
	Seed            int64   `db:"seed"`
	Years           int     `db:"years"`
	FinalDominance  float64 `db:"final_dominance"`
	MeanAggregation float64 `db:"mean_aggregation"`
	FinalMonument   float64 `db:"final_monument"`
	TotalExotics    int     `db:"total_exotics"`
	MeanPopulation  float64 `db:"mean_population"`
	SigmaStar       float64 `db:"sigma_star"`
}

// SaveRun writes a run summary and its full yearly series in one
// transaction, returning the generated run ID.
func (db *DB) SaveRun(r *engine.Results) (string, error) {
	runID := uuid.NewString()

	tx, err := db.conn.Beginx()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO runs
		(id, created_at, sigma, epsilon, seed, years, final_dominance,
		 mean_aggregation, final_monument, total_exotics, mean_population, sigma_star)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, time.Now().UTC().Format(time.RFC3339),
		r.Sigma, r.Epsilon, r.Seed, len(r.YearlyStates),
		r.FinalStrategyDominance, r.MeanAggregationSize, r.FinalMonumentLevel,
		r.TotalExotics, r.MeanPopulation, r.SigmaStarTheoretical)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Preparex(`INSERT INTO yearly_states
		(run_id, year, total_population, n_bands, mean_band_size,
		 n_aggregators, n_independents, strategy_dominance,
		 aggregation_size, aggregation_population, monument_level,
		 annual_construction, total_exotics, effective_sigma,
		 in_shortfall, shortfall_magnitude, fitness_aggregators, fitness_independents)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for _, st := range r.YearlyStates {
		inShortfall := 0
		if st.InShortfall {
			inShortfall = 1
		}
		_, err = stmt.Exec(runID, st.Year, st.TotalPopulation, st.NBands, st.MeanBandSize,
			st.NAggregators, st.NIndependents, st.StrategyDominance,
			st.AggregationSize, st.AggregationPopulation, st.MonumentLevel,
			st.AnnualConstruction, st.TotalExotics, st.EffectiveSigma,
			inShortfall, st.ShortfallMagnitude,
			st.MeanFitnessAggregators, st.MeanFitnessIndependents)
		if err != nil {
			return "", fmt.Errorf("insert yearly state %d: %w", st.Year, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

// GetRun loads one run summary.
func (db *DB) GetRun(runID string) (*RunRecord, error) {
	var rec RunRecord
	if err := db.conn.Get(&rec, "SELECT * FROM runs WHERE id = ?", runID); err != nil {
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}
	return &rec, nil
}

// ListRuns returns all run summaries, most recent first.
func (db *DB) ListRuns() ([]RunRecord, error) {
	var recs []RunRecord
	if err := db.conn.Select(&recs, "SELECT * FROM runs ORDER BY created_at DESC"); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return recs, nil
}

// LoadYearlyStates returns a run's yearly series in year order.
func (db *DB) LoadYearlyStates(runID string) ([]engine.YearlyState, error) {
	rows, err := db.conn.Queryx(`SELECT year, total_population, n_bands, mean_band_size,
		n_aggregators, n_independents, strategy_dominance,
		aggregation_size, aggregation_population, monument_level,
		annual_construction, total_exotics, effective_sigma,
		in_shortfall, shortfall_magnitude, fitness_aggregators, fitness_independents
		FROM yearly_states WHERE run_id = ? ORDER BY year`, runID)
	if err != nil {
		return nil, fmt.Errorf("load yearly states: %w", err)
	}
	defer rows.Close()

	var states []engine.YearlyState
	for rows.Next() {
		var st engine.YearlyState
		var inShortfall int
		err := rows.Scan(&st.Year, &st.TotalPopulation, &st.NBands, &st.MeanBandSize,
			&st.NAggregators, &st.NIndependents, &st.StrategyDominance,
			&st.AggregationSize, &st.AggregationPopulation, &st.MonumentLevel,
			&st.AnnualConstruction, &st.TotalExotics, &st.EffectiveSigma,
			&inShortfall, &st.ShortfallMagnitude,
			&st.MeanFitnessAggregators, &st.MeanFitnessIndependents)
		if err != nil {
			return nil, fmt.Errorf("scan yearly state: %w", err)
		}
		st.InShortfall = inShortfall != 0
		states = append(states, st)
	}
	return states, rows.Err()
}
