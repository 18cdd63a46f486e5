// Package sqlitestore keeps the work job catalog in a local SQLite file.
//
// It backs offline imports from the command line, where no Postgres server
// is reachable, and uses the same upsert-by-code semantics as the server.
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/JonMunkholm/ropeworks/internal/jobimport"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS work_jobs (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    code        TEXT NOT NULL UNIQUE,
    description TEXT NOT NULL,
    client_name TEXT NOT NULL,
    client_id   TEXT NOT NULL,
    is_active   INTEGER NOT NULL DEFAULT 1,
    created_at  TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

const upsertJob = `
INSERT INTO work_jobs (code, description, client_name, client_id, is_active)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (code) DO UPDATE SET
    description = excluded.description,
    client_name = excluded.client_name,
    client_id   = excluded.client_id,
    is_active   = excluded.is_active,
    updated_at  = CURRENT_TIMESTAMP
RETURNING code, description, client_name, client_id, is_active`

// Store is a jobimport.Store over SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the work_jobs
// table exists. Use ":memory:" for a throwaway store.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// a single connection keeps ":memory:" databases alive and shared
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create work_jobs table: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// UpsertJob implements jobimport.Store.
func (s *Store) UpsertJob(ctx context.Context, job jobimport.Job) (jobimport.Job, error) {
	var out jobimport.Job
	err := s.db.QueryRowContext(ctx, upsertJob,
		job.Code, job.Description, job.ClientName, job.ClientID, job.IsActive,
	).Scan(&out.Code, &out.Description, &out.ClientName, &out.ClientID, &out.IsActive)
	if err != nil {
		return jobimport.Job{}, fmt.Errorf("upsert job %s: %w", job.Code, err)
	}
	return out, nil
}

// Get returns the job stored under code.
func (s *Store) Get(ctx context.Context, code string) (jobimport.Job, error) {
	var out jobimport.Job
	err := s.db.QueryRowContext(ctx,
		`SELECT code, description, client_name, client_id, is_active FROM work_jobs WHERE code = ?`, code,
	).Scan(&out.Code, &out.Description, &out.ClientName, &out.ClientID, &out.IsActive)
	if err != nil {
		return jobimport.Job{}, fmt.Errorf("get job %s: %w", code, err)
	}
	return out, nil
}

// Count returns the number of stored jobs.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM work_jobs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count jobs: %w", err)
	}
	return n, nil
}
