// Package catalog keeps a SQLite record of analysis runs: the parameters
// used, the outcome counts, and a reference to the snapshot blob holding
// the full result. It answers "which threshold produced this unique set"
// months after the run.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/stemtools/diffvec/codec"
	"github.com/stemtools/diffvec/vector"
)

// ErrRunNotFound is returned when a run id does not exist.
var ErrRunNotFound = errors.New("run not found")

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id                  INTEGER PRIMARY KEY AUTOINCREMENT,
	name                TEXT NOT NULL,
	status              TEXT NOT NULL,
	started_at          TEXT NOT NULL,
	finished_at         TEXT,
	distance_threshold  REAL NOT NULL,
	eps                 REAL NOT NULL,
	min_samples         INTEGER NOT NULL,
	magnitude_threshold REAL NOT NULL,
	unique_count        INTEGER NOT NULL DEFAULT 0,
	deleted_count       INTEGER NOT NULL DEFAULT 0,
	snapshot_ref        TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS unique_vectors (
	run_id     INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	idx        INTEGER NOT NULL,
	components TEXT NOT NULL,
	PRIMARY KEY (run_id, idx)
);
`

// Params records the analysis parameters of a run.
type Params struct {
	DistanceThreshold  float64
	Eps                float64
	MinSamples         int
	MagnitudeThreshold float64
}

// Run is one catalog entry.
type Run struct {
	ID          int64
	Name        string
	Status      string
	StartedAt   time.Time
	FinishedAt  *time.Time
	Params      Params
	UniqueCount int
	DeletedCount int
	SnapshotRef string
}

// Catalog is a SQLite-backed run catalog. Safe for concurrent use; the
// connection pool is capped at one connection, which SQLite requires for
// writers anyway.
type Catalog struct {
	db *sql.DB
}

// Open opens (or creates) the catalog database at path.
func Open(path string) (*Catalog, error) {
	if path == "" {
		return nil, errors.New("catalog path required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply catalog schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// BeginRun records a new run in StatusRunning and returns its id.
func (c *Catalog) BeginRun(ctx context.Context, name string, p Params) (int64, error) {
	res, err := c.db.ExecContext(ctx,
		`INSERT INTO runs(name,status,started_at,distance_threshold,eps,min_samples,magnitude_threshold)
		 VALUES(?,?,?,?,?,?,?)`,
		name, StatusRunning, time.Now().UTC().Format(time.RFC3339Nano),
		p.DistanceThreshold, p.Eps, p.MinSamples, p.MagnitudeThreshold)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// FinishRun marks a run finished with its outcome.
func (c *Catalog) FinishRun(ctx context.Context, id int64, status string, uniqueCount, deletedCount int, snapshotRef string) error {
	res, err := c.db.ExecContext(ctx,
		`UPDATE runs SET status=?, finished_at=?, unique_count=?, deleted_count=?, snapshot_ref=? WHERE id=?`,
		status, time.Now().UTC().Format(time.RFC3339Nano), uniqueCount, deletedCount, snapshotRef, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRunNotFound
	}
	return nil
}

// StoreUniqueVectors persists the reduced vector set of a run.
func (c *Catalog) StoreUniqueVectors(ctx context.Context, runID int64, vectors vector.List) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO unique_vectors(run_id,idx,components) VALUES(?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, v := range vectors {
		components, err := codec.JSON{}.Marshal([]float64(v))
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, runID, i, string(components)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// UniqueVectors loads the reduced vector set of a run in insertion order.
func (c *Catalog) UniqueVectors(ctx context.Context, runID int64) (vector.List, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT components FROM unique_vectors WHERE run_id=? ORDER BY idx`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out vector.List
	for rows.Next() {
		var components string
		if err := rows.Scan(&components); err != nil {
			return nil, err
		}
		var v []float64
		if err := codec.JSON{}.Unmarshal([]byte(components), &v); err != nil {
			return nil, err
		}
		out = append(out, vector.Vector(v))
	}
	return out, rows.Err()
}

// GetRun loads one run by id.
func (c *Catalog) GetRun(ctx context.Context, id int64) (*Run, error) {
	row := c.db.QueryRowContext(ctx, selectRuns+` WHERE id=?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	return run, err
}

// Runs lists all runs, most recent first.
func (c *Catalog) Runs(ctx context.Context) ([]*Run, error) {
	rows, err := c.db.QueryContext(ctx, selectRuns+` ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

const selectRuns = `SELECT id,name,status,started_at,finished_at,distance_threshold,eps,min_samples,magnitude_threshold,unique_count,deleted_count,snapshot_ref FROM runs`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var run Run
	var started string
	var finished sql.NullString
	err := s.Scan(&run.ID, &run.Name, &run.Status, &started, &finished,
		&run.Params.DistanceThreshold, &run.Params.Eps, &run.Params.MinSamples,
		&run.Params.MagnitudeThreshold, &run.UniqueCount, &run.DeletedCount, &run.SnapshotRef)
	if err != nil {
		return nil, err
	}

	run.StartedAt, err = time.Parse(time.RFC3339Nano, started)
	if err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}
	if finished.Valid {
		t, err := time.Parse(time.RFC3339Nano, finished.String)
		if err != nil {
			return nil, fmt.Errorf("parse finished_at: %w", err)
		}
		run.FinishedAt = &t
	}
	return &run, nil
}
