// Package ledger persists generation history in a SQLite database under
// .loom/. Every generate run is recorded with the artifacts it wrote, so
// `loom history` can answer "when was this file last regenerated, and by
// what run".
package ledger

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"loom/internal/logging"
)

// DBFile is the ledger database filename inside the loom directory
const DBFile = "loom.db"

// Ledger provides persistence for generation runs.
type Ledger struct {
	conn   *sql.DB
	logger *logging.Logger
	dbPath string
}

// Run represents one generate invocation.
type Run struct {
	ID          string
	StartedAt   time.Time
	CompletedAt time.Time
	Written     int
	Skipped     int
	Preserved   int
}

// ArtifactRecord is one file written during a run.
type ArtifactRecord struct {
	RunID     string
	Path      string
	Scaffold  string
	Hash      string
	WrittenAt time.Time
}

// NewRun creates a run with a fresh id, started now.
func NewRun() Run {
	return Run{
		ID:        uuid.New().String(),
		StartedAt: time.Now().UTC(),
	}
}

// Open opens or creates the ledger database at <loomDir>/loom.db
func Open(loomDir string, logger *logging.Logger) (*Ledger, error) {
	if err := os.MkdirAll(loomDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", loomDir, err)
	}

	dbPath := filepath.Join(loomDir, DBFile)

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger database: %w", err)
	}

	// Pragmas for reliability; the ledger sees little concurrency but WAL
	// keeps a crashed run from corrupting history
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	l := &Ledger{
		conn:   conn,
		logger: logger,
		dbPath: dbPath,
	}

	if err := l.initializeSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize ledger schema: %w", err)
	}

	return l, nil
}

// Close closes the database connection
func (l *Ledger) Close() error {
	return l.conn.Close()
}

// Path returns the database file path
func (l *Ledger) Path() string {
	return l.dbPath
}

func (l *Ledger) initializeSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	started_at   TEXT NOT NULL,
	completed_at TEXT NOT NULL,
	written      INTEGER NOT NULL DEFAULT 0,
	skipped      INTEGER NOT NULL DEFAULT 0,
	preserved    INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS artifacts (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id     TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	path       TEXT NOT NULL,
	scaffold   TEXT NOT NULL,
	hash       TEXT NOT NULL,
	written_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_artifacts_path ON artifacts(path, written_at DESC);
CREATE INDEX IF NOT EXISTS idx_artifacts_run ON artifacts(run_id);
`
	if _, err := l.conn.Exec(schema); err != nil {
		return err
	}
	return nil
}

// RecordRun stores a completed run and the artifacts it wrote in one
// transaction.
func (l *Ledger) RecordRun(run Run, artifacts []ArtifactRecord) error {
	tx, err := l.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin ledger transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(
		`INSERT INTO runs (id, started_at, completed_at, written, skipped, preserved) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.CompletedAt.UTC().Format(time.RFC3339Nano),
		run.Written,
		run.Skipped,
		run.Preserved,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, a := range artifacts {
		writtenAt := a.WrittenAt
		if writtenAt.IsZero() {
			writtenAt = run.CompletedAt
		}
		_, err = tx.Exec(
			`INSERT INTO artifacts (run_id, path, scaffold, hash, written_at) VALUES (?, ?, ?, ?, ?)`,
			run.ID, a.Path, a.Scaffold, a.Hash,
			writtenAt.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("insert artifact %s: %w", a.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ledger transaction: %w", err)
	}

	l.logger.Debug("Recorded generation run", map[string]interface{}{
		"run_id":    run.ID,
		"artifacts": len(artifacts),
	})
	return nil
}

// History returns the most recent runs, newest first.
func (l *Ledger) History(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := l.conn.Query(
		`SELECT id, started_at, completed_at, written, skipped, preserved
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, completed string
		if err := rows.Scan(&r.ID, &started, &completed, &r.Written, &r.Skipped, &r.Preserved); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if r.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("parse run timestamp: %w", err)
		}
		if r.CompletedAt, err = time.Parse(time.RFC3339Nano, completed); err != nil {
			return nil, fmt.Errorf("parse run timestamp: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunArtifacts returns the artifacts written by a run.
func (l *Ledger) RunArtifacts(runID string) ([]ArtifactRecord, error) {
	rows, err := l.conn.Query(
		`SELECT run_id, path, scaffold, hash, written_at
		 FROM artifacts WHERE run_id = ? ORDER BY path`, runID)
	if err != nil {
		return nil, fmt.Errorf("query artifacts: %w", err)
	}
	defer rows.Close()

	return scanArtifacts(rows)
}

// LatestArtifact returns the most recent ledger record for a path, if any.
func (l *Ledger) LatestArtifact(path string) (ArtifactRecord, bool, error) {
	rows, err := l.conn.Query(
		`SELECT run_id, path, scaffold, hash, written_at
		 FROM artifacts WHERE path = ? ORDER BY written_at DESC LIMIT 1`, path)
	if err != nil {
		return ArtifactRecord{}, false, fmt.Errorf("query artifact: %w", err)
	}
	defer rows.Close()

	records, err := scanArtifacts(rows)
	if err != nil || len(records) == 0 {
		return ArtifactRecord{}, false, err
	}
	return records[0], true, nil
}

func scanArtifacts(rows *sql.Rows) ([]ArtifactRecord, error) {
	var records []ArtifactRecord
	for rows.Next() {
		var a ArtifactRecord
		var writtenAt string
		if err := rows.Scan(&a.RunID, &a.Path, &a.Scaffold, &a.Hash, &writtenAt); err != nil {
			return nil, fmt.Errorf("scan artifact: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, writtenAt)
		if err != nil {
			return nil, fmt.Errorf("parse artifact timestamp: %w", err)
		}
		a.WrittenAt = ts
		records = append(records, a)
	}
	return records, rows.Err()
}
