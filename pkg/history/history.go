package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vtripolitakis/task-executor/pkg/cerrors"
	"github.com/vtripolitakis/task-executor/pkg/types"

	_ "modernc.org/sqlite"
)

// Store persists finished runs into a local sqlite database.
// It keeps one row per run plus one row per scenario result.
type Store struct {
	db *sql.DB
}

// Run is the persisted header of one finished run
type Run struct {
	RunID         string
	InstanceID    string
	ScenariosFile string
	Seed          int64
	Verdict       string
	Scenarios     int
	Runtime       time.Duration
	StartedAt     time.Time
}

// ScenarioRecord is the persisted slice of one scenario result
type ScenarioRecord struct {
	RunID        string
	Name         string
	Kind         string
	Verdict      string
	Phase        string
	FailStep     string
	Succeeded    int
	Failed       int
	Delays       int
	TotalDelay   time.Duration
	Runtime      time.Duration
	ProbesPassed int
}

// NewStore opens the database at the given path and prepares the schema.
// WAL mode keeps a crashed run from corrupting older history.
func NewStore(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, historyError("unable to create the history directory, err: %v", err)
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_foreign_keys=on&_synchronous=normal", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, historyError("unable to open the history database, err: %v", err)
	}

	// sqlite allows a single writer, a larger pool only produces SQLITE_BUSY
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &Store{db: db}
	if err := store.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, historyError("unable to ping the history database, err: %v", err)
	}
	return store, nil
}

// Close closes the underlying database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the tables when they don't exist yet
func (s *Store) migrate(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		instance_id TEXT,
		scenarios_file TEXT NOT NULL,
		seed INTEGER NOT NULL,
		verdict TEXT NOT NULL,
		scenarios INTEGER NOT NULL,
		runtime_ms INTEGER NOT NULL,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS scenario_results (
		run_id TEXT NOT NULL REFERENCES runs(run_id),
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		kind TEXT NOT NULL,
		verdict TEXT NOT NULL,
		phase TEXT NOT NULL,
		fail_step TEXT NOT NULL,
		succeeded INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		delays INTEGER NOT NULL,
		total_delay_ms INTEGER NOT NULL,
		runtime_ms INTEGER NOT NULL,
		probes_passed INTEGER NOT NULL,
		PRIMARY KEY (run_id, name)
	);

	CREATE INDEX IF NOT EXISTS idx_scenario_results_run ON scenario_results(run_id);
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return historyError("unable to create the history schema, err: %v", err)
	}
	return nil
}

// SaveRun inserts the run header and its scenario results in one transaction
func (s *Store) SaveRun(ctx context.Context, run Run, results []types.ResultDetails) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return historyError("unable to begin the history transaction, err: %v", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, instance_id, scenarios_file, seed, verdict, scenarios, runtime_ms, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.InstanceID, run.ScenariosFile, run.Seed, run.Verdict,
		len(results), run.Runtime.Milliseconds(), run.StartedAt.UTC()); err != nil {
		return historyError("unable to insert the run %v, err: %v", run.RunID, err)
	}

	for position, result := range results {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO scenario_results (run_id, position, name, kind, verdict, phase, fail_step,
			 succeeded, failed, delays, total_delay_ms, runtime_ms, probes_passed)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.RunID, position, result.Name, result.Kind, result.Verdict, result.Phase, result.FailStep,
			result.Succeeded, result.Failed, result.Delays, result.TotalDelay.Milliseconds(),
			result.Runtime.Milliseconds(), result.PassedProbeCount); err != nil {
			return historyError("unable to insert the %v scenario result, err: %v", result.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return historyError("unable to commit the history transaction, err: %v", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, instance_id, scenarios_file, seed, verdict, scenarios, runtime_ms, started_at
		 FROM runs ORDER BY started_at DESC, run_id LIMIT ?`, limit)
	if err != nil {
		return nil, historyError("unable to list the runs, err: %v", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var runtimeMS int64
		if err := rows.Scan(&run.RunID, &run.InstanceID, &run.ScenariosFile, &run.Seed,
			&run.Verdict, &run.Scenarios, &runtimeMS, &run.StartedAt); err != nil {
			return nil, historyError("unable to scan a run row, err: %v", err)
		}
		run.Runtime = time.Duration(runtimeMS) * time.Millisecond
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, historyError("unable to read the run rows, err: %v", err)
	}
	return runs, nil
}

// RunResults returns the scenario results of one run in execution order
func (s *Store) RunResults(ctx context.Context, runID string) ([]ScenarioRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, name, kind, verdict, phase, fail_step, succeeded, failed, delays,
		 total_delay_ms, runtime_ms, probes_passed
		 FROM scenario_results WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, historyError("unable to list the scenario results of run %v, err: %v", runID, err)
	}
	defer rows.Close()

	var records []ScenarioRecord
	for rows.Next() {
		var record ScenarioRecord
		var totalDelayMS, runtimeMS int64
		if err := rows.Scan(&record.RunID, &record.Name, &record.Kind, &record.Verdict, &record.Phase,
			&record.FailStep, &record.Succeeded, &record.Failed, &record.Delays,
			&totalDelayMS, &runtimeMS, &record.ProbesPassed); err != nil {
			return nil, historyError("unable to scan a scenario result row, err: %v", err)
		}
		record.TotalDelay = time.Duration(totalDelayMS) * time.Millisecond
		record.Runtime = time.Duration(runtimeMS) * time.Millisecond
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, historyError("unable to read the scenario result rows, err: %v", err)
	}
	return records, nil
}

func historyError(format string, args ...interface{}) error {
	return cerrors.Error{
		ErrorCode: cerrors.ErrorTypeHistoryCRUD,
		Phase:     types.Summary,
		Reason:    fmt.Sprintf(format, args...),
	}
}
