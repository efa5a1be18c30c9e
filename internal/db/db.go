// Package db provides PostgreSQL storage for review runs and their
// result reports.
package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the review tables when they do not exist yet
func (db *DB) EnsureSchema(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, schemaSQL)
	if err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS review_runs (
	id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	scenario      TEXT NOT NULL,
	source        TEXT,
	strategy      TEXT,
	status        TEXT NOT NULL DEFAULT 'running',
	text_length   INTEGER NOT NULL DEFAULT 0,
	chunk_count   INTEGER NOT NULL DEFAULT 0,
	overall_score DOUBLE PRECISION,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	completed_at  TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS review_reports (
	id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	run_id     UUID NOT NULL REFERENCES review_runs(id) ON DELETE CASCADE,
	kind       TEXT NOT NULL,
	content    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (run_id, kind)
);
`

// CreateRun creates a new review run record and returns its ID
func (db *DB) CreateRun(ctx context.Context, input *RunInput) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO review_runs (scenario, source, strategy, status, text_length, chunk_count)
		 VALUES ($1, $2, $3, 'running', $4, $5)
		 RETURNING id`,
		input.Scenario, input.Source, input.Strategy, input.TextLength, input.ChunkCount,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun marks a review run as finished and records its score
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, status string, overallScore float64) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE review_runs
		 SET status = $1, overall_score = $2, completed_at = NOW()
		 WHERE id = $3`,
		status, overallScore, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// SaveReport stores a JSON report for a review run, replacing any
// earlier report of the same kind
func (db *DB) SaveReport(ctx context.Context, runID uuid.UUID, kind string, content any) error {
	jsonBytes, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO review_reports (run_id, kind, content)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (run_id, kind) DO UPDATE SET content = $3, created_at = NOW()`,
		runID, kind, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save report %s: %w", kind, err)
	}
	return nil
}

// GetReport retrieves a report's JSON content by run ID and kind.
// Returns nil when no such report exists.
func (db *DB) GetReport(ctx context.Context, runID uuid.UUID, kind string) ([]byte, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT content FROM review_reports WHERE run_id = $1 AND kind = $2`,
		runID, kind,
	).Scan(&content)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get report %s: %w", kind, err)
	}
	return content, nil
}

// GetRun retrieves a review run by ID. Returns nil when not found.
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	var run Run
	err := db.pool.QueryRow(ctx,
		`SELECT id, scenario, source, strategy, status, text_length, chunk_count,
		        overall_score, created_at, completed_at
		 FROM review_runs WHERE id = $1`,
		runID,
	).Scan(&run.ID, &run.Scenario, &run.Source, &run.Strategy, &run.Status,
		&run.TextLength, &run.ChunkCount, &run.OverallScore, &run.CreatedAt, &run.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// ListRuns retrieves runs matching the filters, newest first
func (db *DB) ListRuns(ctx context.Context, filters RunFilters) ([]Run, error) {
	query, args := buildListRunsQuery(filters)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.Scenario, &run.Source, &run.Strategy, &run.Status,
			&run.TextLength, &run.ChunkCount, &run.OverallScore, &run.CreatedAt, &run.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}

func buildListRunsQuery(filters RunFilters) (string, []any) {
	if filters.Limit == 0 {
		filters.Limit = 50
	}

	query := `SELECT id, scenario, source, strategy, status, text_length, chunk_count,
		overall_score, created_at, completed_at
		FROM review_runs WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.Scenario != "" {
		query += fmt.Sprintf(" AND scenario = $%d", argNum)
		args = append(args, filters.Scenario)
		argNum++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, filters.Status)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)
	return query, args
}

// DeleteRun deletes a review run and its reports via cascade
func (db *DB) DeleteRun(ctx context.Context, runID uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM review_runs WHERE id = $1`, runID)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("run not found: %s", runID)
	}
	return nil
}
