package runs

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/tursodatabase/go-libsql"
)

// Store persists training runs and their per-epoch metrics so experiments
// survive the process. One row per run, one row per (run, epoch, split)
// metric observation.
type Store struct {
	db *sql.DB
}

// Run is one recorded training run.
type Run struct {
	ID        uuid.UUID
	StartedAt time.Time
	Config    string // serialized hyperparameters
}

// Metric is one observation within a run.
type Metric struct {
	RunID    uuid.UUID
	Epoch    int
	Split    string // "train" or "valid"
	Loss     float64
	Accuracy float64
}

// Open opens (or initializes) the run store at path. Parent directories are
// created as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("could not create runs directory: %w", err)
		}
	}

	dsn := path
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	db, err := sql.Open("libsql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open runs database: %w", err)
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}

	slog.Debug("Opened runs database", "path", path)
	return s, nil
}

// init sets up the run-tracking tables.
func (s *Store) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY UNIQUE,
		started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		config TEXT
	)`)
	if err != nil {
		return fmt.Errorf("failed to create runs table: %w", err)
	}

	_, err = s.db.Exec(`CREATE TABLE IF NOT EXISTS metrics (
		run_id TEXT NOT NULL,
		epoch INTEGER NOT NULL,
		split TEXT NOT NULL,
		loss REAL NOT NULL,
		accuracy REAL NOT NULL,
		PRIMARY KEY (run_id, epoch, split)
	)`)
	if err != nil {
		return fmt.Errorf("failed to create metrics table: %w", err)
	}

	return nil
}

// Begin records a new run with its serialized configuration and returns it.
func (s *Store) Begin(config string) (*Run, error) {
	run := Run{
		ID:        uuid.New(),
		StartedAt: time.Now(),
		Config:    config,
	}

	result, err := s.db.Exec("INSERT INTO runs (id, config) VALUES (?, ?)", run.ID.String(), run.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to insert run: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected != 1 {
		return nil, fmt.Errorf("expected 1 row affected, got %d", rowsAffected)
	}

	slog.Debug("Recorded new run", "id", run.ID)
	return &run, nil
}

// Record stores one metric observation. Re-recording the same
// (run, epoch, split) is an error; epochs do not repeat.
func (s *Store) Record(m Metric) error {
	_, err := s.db.Exec(
		"INSERT INTO metrics (run_id, epoch, split, loss, accuracy) VALUES (?, ?, ?, ?, ?)",
		m.RunID.String(), m.Epoch, m.Split, m.Loss, m.Accuracy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert metric: %w", err)
	}
	return nil
}

// Metrics returns all observations of a run ordered by epoch then split.
func (s *Store) Metrics(runID uuid.UUID) ([]Metric, error) {
	rows, err := s.db.Query(
		"SELECT run_id, epoch, split, loss, accuracy FROM metrics WHERE run_id = ? ORDER BY epoch, split",
		runID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query metrics: %w", err)
	}
	defer rows.Close()

	var out []Metric
	for rows.Next() {
		var m Metric
		var id string
		if err := rows.Scan(&id, &m.Epoch, &m.Split, &m.Loss, &m.Accuracy); err != nil {
			return nil, fmt.Errorf("failed to scan metric: %w", err)
		}
		m.RunID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("invalid run id %q: %w", id, err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Runs returns all recorded runs, most recent first.
func (s *Store) Runs() ([]Run, error) {
	rows, err := s.db.Query("SELECT id, started_at, config FROM runs ORDER BY started_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var id string
		if err := rows.Scan(&id, &r.StartedAt, &r.Config); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("invalid run id %q: %w", id, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
