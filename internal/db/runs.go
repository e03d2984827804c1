package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgxTx is the slice of pgx.Tx the batch writer needs.
type pgxTx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Run is one enrichment run record.
type Run struct {
	ID         uuid.UUID
	Mode       string // "dry-run", "full" or "resume"
	Status     string // "running", "completed", "interrupted" or "failed"
	StartedAt  time.Time
	FinishedAt *time.Time
	Processed  int
	Skipped    int
	Errors     int
}

// CreateRun records the start of an enrichment run and returns its ID
func (db *DB) CreateRun(ctx context.Context, mode string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO enrichment_runs (mode, status)
		 VALUES ($1, 'running')
		 RETURNING id`,
		mode,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// FinishRun closes an enrichment run with its final status and counters
func (db *DB) FinishRun(ctx context.Context, runID uuid.UUID, status string, processed, skipped, errors int) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE enrichment_runs
		 SET status = $2, processed = $3, skipped = $4, errors = $5, finished_at = NOW()
		 WHERE id = $1`,
		runID, status, processed, skipped, errors,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// GetRun retrieves an enrichment run by ID
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	var r Run
	err := db.pool.QueryRow(ctx,
		`SELECT id, mode, status, started_at, finished_at, processed, skipped, errors
		 FROM enrichment_runs WHERE id = $1`,
		runID,
	).Scan(&r.ID, &r.Mode, &r.Status, &r.StartedAt, &r.FinishedAt, &r.Processed, &r.Skipped, &r.Errors)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &r, nil
}

// LatestResumableRun returns the most recent interrupted or failed run, or
// nil when there is nothing to resume.
func (db *DB) LatestResumableRun(ctx context.Context) (*Run, error) {
	var r Run
	err := db.pool.QueryRow(ctx,
		`SELECT id, mode, status, started_at, finished_at, processed, skipped, errors
		 FROM enrichment_runs
		 WHERE status IN ('interrupted', 'failed')
		 ORDER BY started_at DESC
		 LIMIT 1`,
	).Scan(&r.ID, &r.Mode, &r.Status, &r.StartedAt, &r.FinishedAt, &r.Processed, &r.Skipped, &r.Errors)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find resumable run: %w", err)
	}
	return &r, nil
}

// GetCheckpoint retrieves the stored checkpoint of a run, or nil when the run
// never completed a batch.
func (db *DB) GetCheckpoint(ctx context.Context, runID uuid.UUID) (*Checkpoint, error) {
	var cp Checkpoint
	err := db.pool.QueryRow(ctx,
		`SELECT run_id, last_offer_id, processed, errors
		 FROM enrichment_checkpoints WHERE run_id = $1`,
		runID,
	).Scan(&cp.RunID, &cp.LastOfferID, &cp.Processed, &cp.Errors)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get checkpoint: %w", err)
	}
	return &cp, nil
}
