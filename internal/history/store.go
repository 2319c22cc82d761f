// Package history persists experiment runs in a local SQLite database so
// latency measurements stay comparable across invocations.
package history

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"groundlab/internal/agentapi"
	"groundlab/internal/experiment"
)

// Store provides SQLite-backed persistence for experiment runs.
type Store struct {
	db *sql.DB
}

// New creates a new store backed by the SQLite database at dbPath,
// creating the file and the schema on first use.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Run is the stored header of one experiment run.
type Run struct {
	ID          string
	StartedAt   time.Time
	AgentID     string
	AgentName   string
	Model       string
	SearchTool  bool
	PromptCount int
	TrialCount  int
}

// Row is one stored trial outcome belonging to a run.
type Row struct {
	Question         string
	BaselineSeconds  float64
	ObservedSeconds  *float64
	ResponseLength   int
	LimitationFlags  string
	ExpectedBehavior string
	Trial            int
	Err              string
	CreatedAt        time.Time
}

// RecordRun stores a completed run together with all its trial results and
// returns the generated run ID. The whole run is written in one transaction.
func (s *Store) RecordRun(agent agentapi.Agent, promptCount, trials int, results []experiment.Result) (string, error) {
	runID := uuid.NewString()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`
		INSERT INTO runs (id, started_at, agent_id, agent_name, model, search_tool, prompt_count, trial_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, runID, time.Now().UTC(), agent.ID, agent.Name, agent.Model, agent.HasSearchTool(), promptCount, trials)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	for _, result := range results {
		var observed sql.NullFloat64
		if result.Observed != nil {
			observed = sql.NullFloat64{Float64: result.Observed.Seconds(), Valid: true}
		}

		_, err = tx.Exec(`
			INSERT INTO results (run_id, question, baseline_seconds, observed_seconds, response_length, limitation_flags, expected_behavior, trial, error, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, runID, result.Question, result.Baseline.Seconds(), observed, len(result.Response),
			strings.Join(result.Flags, "; "), result.ExpectedBehavior, result.Trial, result.Err,
			result.Timestamp.UTC())
		if err != nil {
			return "", fmt.Errorf("inserting result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}

	return runID, nil
}

// ListRuns returns up to limit runs, newest first. A non-positive limit
// falls back to 10.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(`
		SELECT id, started_at, agent_id, agent_name, model, search_tool, prompt_count, trial_count
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// GetRun returns one run header by ID.
func (s *Store) GetRun(runID string) (*Run, error) {
	row := s.db.QueryRow(`
		SELECT id, started_at, agent_id, agent_name, model, search_tool, prompt_count, trial_count
		FROM runs
		WHERE id = ?
	`, runID)

	var run Run
	err := row.Scan(&run.ID, &run.StartedAt, &run.AgentID, &run.AgentName, &run.Model,
		&run.SearchTool, &run.PromptCount, &run.TrialCount)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying run: %w", err)
	}

	return &run, nil
}

// ListRows returns the stored trial rows of one run in insertion order.
func (s *Store) ListRows(runID string) ([]Row, error) {
	rows, err := s.db.Query(`
		SELECT question, baseline_seconds, observed_seconds, response_length, limitation_flags, expected_behavior, trial, error, created_at
		FROM results
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		var observed sql.NullFloat64
		err := rows.Scan(&r.Question, &r.BaselineSeconds, &observed, &r.ResponseLength,
			&r.LimitationFlags, &r.ExpectedBehavior, &r.Trial, &r.Err, &r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		if observed.Valid {
			v := observed.Float64
			r.ObservedSeconds = &v
		}
		out = append(out, r)
	}

	return out, rows.Err()
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	var out []Run
	for rows.Next() {
		var run Run
		err := rows.Scan(&run.ID, &run.StartedAt, &run.AgentID, &run.AgentName, &run.Model,
			&run.SearchTool, &run.PromptCount, &run.TrialCount)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		out = append(out, run)
	}
	return out, rows.Err()
}
