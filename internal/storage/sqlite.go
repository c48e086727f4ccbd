// Package storage provides SQLite-based persistence for simulation runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for run history.
type Store struct {
	db *sql.DB
}

// RunRecord is the outcome of one finished simulation run.
type RunRecord struct {
	ID         int64
	Scenario   string
	Seed       int64
	Balls      int
	Ticks      int
	Stopped    int  // Balls at rest when the run ended
	OffScreen  int  // Balls outside the space when the run ended
	Settled    bool // Every ball came to rest
	Hysteresis float64
	CreatedAt  time.Time
}

// RunSummary aggregates the history of one scenario.
type RunSummary struct {
	Runs         int
	SettledRuns  int
	FastestTicks int // Fewest ticks of a settled run, 0 if none
	AverageTicks float64
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			scenario TEXT NOT NULL,
			seed INTEGER NOT NULL,
			balls INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			stopped INTEGER NOT NULL DEFAULT 0,
			offscreen INTEGER NOT NULL DEFAULT 0,
			settled INTEGER NOT NULL DEFAULT 0,
			hysteresis REAL NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_scenario ON runs(scenario);
		CREATE INDEX IF NOT EXISTS idx_runs_fastest ON runs(scenario, settled, ticks);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a finished run.
// Returns the ID of the inserted record.
func (s *Store) SaveRun(run RunRecord) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO runs (scenario, seed, balls, ticks, stopped, offscreen, settled, hysteresis)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Scenario, run.Seed, run.Balls, run.Ticks, run.Stopped, run.OffScreen, run.Settled, run.Hysteresis,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const runColumns = `id, scenario, seed, balls, ticks, stopped, offscreen, settled, hysteresis, created_at`

// RecentRuns retrieves the latest runs, newest first.
// An empty scenario matches every scenario.
func (s *Store) RecentRuns(scenario string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE ? = '' OR scenario = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		scenario, scenario, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	return scanRuns(rows)
}

// TopRuns retrieves the settled runs of a scenario that came to rest in
// the fewest ticks. An empty scenario matches every scenario.
func (s *Store) TopRuns(scenario string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE (? = '' OR scenario = ?) AND settled = 1
		 ORDER BY ticks ASC, id ASC
		 LIMIT ?`,
		scenario, scenario, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	return scanRuns(rows)
}

// RunStats summarizes every recorded run of a scenario, or of all
// scenarios when scenario is empty.
func (s *Store) RunStats(scenario string) (RunSummary, error) {
	var (
		summary RunSummary
		settled sql.NullInt64
		fastest sql.NullInt64
		average sql.NullFloat64
	)

	err := s.db.QueryRow(
		`SELECT COUNT(*), SUM(settled), MIN(CASE WHEN settled = 1 THEN ticks END), AVG(ticks)
		 FROM runs
		 WHERE ? = '' OR scenario = ?`,
		scenario, scenario,
	).Scan(&summary.Runs, &settled, &fastest, &average)
	if err != nil {
		return RunSummary{}, fmt.Errorf("storage: cannot query run stats: %w", err)
	}

	if settled.Valid {
		summary.SettledRuns = int(settled.Int64)
	}
	if fastest.Valid {
		summary.FastestTicks = int(fastest.Int64)
	}
	if average.Valid {
		summary.AverageTicks = average.Float64
	}

	return summary, nil
}

// ClearRuns deletes the history of a scenario.
// An empty scenario clears every run.
func (s *Store) ClearRuns(scenario string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE ? = '' OR scenario = ?", scenario, scenario)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

func scanRuns(rows *sql.Rows) ([]RunRecord, error) {
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var createdAt any
		if err := rows.Scan(
			&r.ID,
			&r.Scenario,
			&r.Seed,
			&r.Balls,
			&r.Ticks,
			&r.Stopped,
			&r.OffScreen,
			&r.Settled,
			&r.Hysteresis,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTimestamp(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// parseTimestamp handles both driver-decoded and textual DATETIME values.
func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
