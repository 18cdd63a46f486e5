package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const insertImportRun = `
INSERT INTO import_runs (id, file_name, total_rows, success_rows, skipped_rows, error_rows,
                         status, error_message, started_at, duration_ms)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

type InsertImportRunParams struct {
	ID           pgtype.UUID
	FileName     string
	TotalRows    int32
	SuccessRows  int32
	SkippedRows  int32
	ErrorRows    int32
	Status       string
	ErrorMessage pgtype.Text
	StartedAt    pgtype.Timestamptz
	DurationMs   int32
}

func (q *Queries) InsertImportRun(ctx context.Context, arg InsertImportRunParams) error {
	_, err := q.db.Exec(ctx, insertImportRun,
		arg.ID,
		arg.FileName,
		arg.TotalRows,
		arg.SuccessRows,
		arg.SkippedRows,
		arg.ErrorRows,
		arg.Status,
		arg.ErrorMessage,
		arg.StartedAt,
		arg.DurationMs,
	)
	return err
}

const listImportRuns = `
SELECT id, file_name, total_rows, success_rows, skipped_rows, error_rows,
       status, error_message, started_at, duration_ms
FROM import_runs
ORDER BY started_at DESC
LIMIT $1
`

func (q *Queries) ListImportRuns(ctx context.Context, limit int32) ([]ImportRun, error) {
	rows, err := q.db.Query(ctx, listImportRuns, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ImportRun
	for rows.Next() {
		var i ImportRun
		if err := rows.Scan(
			&i.ID,
			&i.FileName,
			&i.TotalRows,
			&i.SuccessRows,
			&i.SkippedRows,
			&i.ErrorRows,
			&i.Status,
			&i.ErrorMessage,
			&i.StartedAt,
			&i.DurationMs,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
